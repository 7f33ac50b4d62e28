// Package sanitizer strips content the backend returns down to plain text
// that is safe to print to a terminal.
package sanitizer

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

type Sanitizer interface {
	Sanitize(input string) string
}

type Config struct {
	AllowNewlines      bool
	AllowTabs          bool
	ReplaceNewlineWith string
	MaxLength          int
	CustomPatterns     []*EscapePattern
}

type TerminalSanitizer struct {
	config         Config
	escapePatterns []*EscapePattern
}

func NewTerminalSanitizer(config Config) *TerminalSanitizer {
	patterns := make([]*EscapePattern, len(AllEscapePatterns))
	copy(patterns, AllEscapePatterns)
	patterns = append(patterns, config.CustomPatterns...)

	return &TerminalSanitizer{
		config:         config,
		escapePatterns: patterns,
	}
}

func DefaultConfig() Config {
	return Config{
		AllowNewlines: true,
		AllowTabs:     true,
	}
}

func SingleLineConfig() Config {
	return Config{
		AllowNewlines:      false,
		ReplaceNewlineWith: " ",
	}
}

func (s *TerminalSanitizer) Sanitize(input string) string {
	if input == "" {
		return input
	}
	input = strings.ReplaceAll(input, "\r\n", "\n")

	for _, p := range s.escapePatterns {
		input = p.Pattern.ReplaceAllString(input, "")
	}

	var b strings.Builder
	b.Grow(len(input))
	count := 0
	for _, r := range input {
		if s.config.MaxLength > 0 && count >= s.config.MaxLength {
			break
		}
		kept, replacement := s.shouldKeep(r)
		switch {
		case kept:
			b.WriteRune(r)
			count++
		case replacement != "":
			b.WriteString(replacement)
			count++
		}
	}
	return b.String()
}

func (s *TerminalSanitizer) shouldKeep(r rune) (bool, string) {
	switch {
	case r == '\n':
		if s.config.AllowNewlines {
			return true, ""
		}
		return false, s.config.ReplaceNewlineWith
	case r == '\t':
		return s.config.AllowTabs, ""
	case r < 32 || r == 127:
		return false, ""
	case r >= 0x80 && r < 0xa0:
		// C1 controls; 0x9b alone starts a CSI on some terminals.
		return false, ""
	default:
		return true, ""
	}
}

// HTMLSanitizer removes HTML elements, keeping only text. Angle brackets
// that are not markup (generics, comparisons, autolinks, code spans) are
// kept. Entities are decoded afterwards because the output goes to a
// terminal, not a browser.
type HTMLSanitizer struct {
	policy *bluemonday.Policy
}

func NewHTMLSanitizer() *HTMLSanitizer {
	return &HTMLSanitizer{policy: bluemonday.StrictPolicy()}
}

func (h *HTMLSanitizer) Sanitize(input string) string {
	if input == "" {
		return input
	}
	return html.UnescapeString(h.policy.Sanitize(escapeLiteralAngles(input)))
}

type ChainedSanitizer struct {
	sanitizers []Sanitizer
}

func NewChainedSanitizer(sanitizers ...Sanitizer) *ChainedSanitizer {
	return &ChainedSanitizer{sanitizers: sanitizers}
}

func (c *ChainedSanitizer) Sanitize(input string) string {
	for _, s := range c.sanitizers {
		input = s.Sanitize(input)
	}
	return input
}

type NopSanitizer struct{}

func NewNopSanitizer() *NopSanitizer {
	return &NopSanitizer{}
}

func (n *NopSanitizer) Sanitize(input string) string {
	return input
}

// ForBackendText is applied once to every chat answer before it enters the
// message log.
func ForBackendText() Sanitizer {
	return NewChainedSanitizer(NewHTMLSanitizer(), NewTerminalSanitizer(DefaultConfig()))
}

// ForDisplay cleans note content and transcripts at render time.
func ForDisplay() Sanitizer {
	return NewTerminalSanitizer(DefaultConfig())
}

// ForSingleLine is used for titles and list rows.
func ForSingleLine() Sanitizer {
	return NewTerminalSanitizer(SingleLineConfig())
}
