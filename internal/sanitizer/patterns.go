package sanitizer

import (
	"regexp"
	"strings"
)

type EscapePattern struct {
	Name    string
	Pattern *regexp.Regexp
}

var CSIEscapePattern = &EscapePattern{
	Name:    "CSI",
	Pattern: regexp.MustCompile(`\x1b\[[<>?=]?[0-9;]*[A-Za-z@^` + "`" + `~{|}!]`),
}

var OSCEscapePattern = &EscapePattern{
	Name:    "OSC",
	Pattern: regexp.MustCompile(`\x1b\][^\x07\x1b]*(?:\x07|\x1b\\)`),
}

// DCS, SOS, PM and APC strings all end with ST.
var StringEscapePattern = &EscapePattern{
	Name:    "String",
	Pattern: regexp.MustCompile(`\x1b[P^_X][^\x1b]*\x1b\\`),
}

var CharsetEscapePattern = &EscapePattern{
	Name:    "Charset",
	Pattern: regexp.MustCompile(`\x1b[()][AB012]`),
}

var AllEscapePatterns = []*EscapePattern{
	CSIEscapePattern,
	OSCEscapePattern,
	StringEscapePattern,
	CharsetEscapePattern,
}

func RemoveEscapeSequences(input string) string {
	for _, p := range AllEscapePatterns {
		input = p.Pattern.ReplaceAllString(input, "")
	}
	return input
}

// codeSpanPattern matches fenced blocks and inline code spans, whose
// contents are always literal text.
var codeSpanPattern = regexp.MustCompile("(?s)```.*?```|`[^`\n]*`")

// htmlTagPattern matches a comment or a start/end tag at the beginning of
// the input. Attributes must carry a value so prose like "a<b and c>d" is
// not read as a tag. Group 1 is the element name.
var htmlTagPattern = regexp.MustCompile(`^(?:<!--(?s:.*?)-->|</?([A-Za-z][A-Za-z0-9]*)(?:\s+[A-Za-z_:][-A-Za-z0-9_:.]*\s*=\s*(?:"[^"]*"|'[^']*'|[^\s"'<>=` + "`" + `]+))*\s*/?>)`)

var htmlElements = map[string]struct{}{}

func init() {
	for _, name := range []string{
		"a", "abbr", "address", "area", "article", "aside", "audio", "b", "base", "bdi", "bdo",
		"blockquote", "body", "br", "button", "canvas", "caption", "cite", "code", "col",
		"colgroup", "data", "datalist", "dd", "del", "details", "dfn", "dialog", "div", "dl",
		"dt", "em", "embed", "fieldset", "figcaption", "figure", "font", "footer", "form",
		"frame", "frameset", "h1", "h2", "h3", "h4", "h5", "h6", "head", "header", "hr", "html",
		"i", "iframe", "img", "input", "ins", "kbd", "label", "legend", "li", "link", "main",
		"map", "mark", "marquee", "meta", "meter", "nav", "noscript", "object", "ol", "optgroup",
		"option", "output", "p", "param", "picture", "pre", "progress", "q", "rp", "rt", "ruby",
		"s", "samp", "script", "section", "select", "small", "source", "span", "strike",
		"strong", "style", "sub", "summary", "sup", "svg", "table", "tbody", "td", "template",
		"textarea", "tfoot", "th", "thead", "time", "title", "tr", "track", "u", "ul", "var",
		"video", "wbr", "xmp",
	} {
		htmlElements[name] = struct{}{}
	}
}

// escapeLiteralAngles turns every "<" that does not open real markup into
// "&lt;" so the HTML policy keeps it as text. Code spans are escaped whole.
func escapeLiteralAngles(input string) string {
	if !strings.Contains(input, "<") {
		return input
	}
	var b strings.Builder
	b.Grow(len(input) + 16)
	last := 0
	for _, loc := range codeSpanPattern.FindAllStringIndex(input, -1) {
		b.WriteString(escapeStrayAngles(input[last:loc[0]]))
		b.WriteString(strings.ReplaceAll(input[loc[0]:loc[1]], "<", "&lt;"))
		last = loc[1]
	}
	b.WriteString(escapeStrayAngles(input[last:]))
	return b.String()
}

func escapeStrayAngles(s string) string {
	var b strings.Builder
	for {
		j := strings.IndexByte(s, '<')
		if j < 0 {
			b.WriteString(s)
			return b.String()
		}
		b.WriteString(s[:j])
		s = s[j:]
		if m := htmlTagPattern.FindStringSubmatch(s); m != nil && isHTMLElement(m[1]) {
			b.WriteString(m[0])
			s = s[len(m[0]):]
			continue
		}
		b.WriteString("&lt;")
		s = s[1:]
	}
}

// isHTMLElement reports whether name is a known element; the empty name
// belongs to a comment.
func isHTMLElement(name string) bool {
	if name == "" {
		return true
	}
	_, ok := htmlElements[strings.ToLower(name)]
	return ok
}
