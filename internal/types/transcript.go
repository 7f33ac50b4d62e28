package types

import (
	"regexp"
	"strings"
)

// TranscriptLine is one line of a "[MM:SS] [Speaker]: text" transcript.
// Lines that do not follow the format only carry Text. A zero line is a
// paragraph break.
type TranscriptLine struct {
	Timestamp string `json:"timestamp,omitempty"`
	Speaker   string `json:"speaker,omitempty"`
	Text      string `json:"text"`
}

var transcriptLinePattern = regexp.MustCompile(`^\[(.*?)\]\s+\[(.*?)\]:\s+(.*)$`)

// ParseTranscript splits content into lines. Runs of blank lines collapse
// into one paragraph break; leading and trailing blanks are dropped.
func ParseTranscript(content string) []TranscriptLine {
	raw := strings.Split(strings.ReplaceAll(content, "\r\n", "\n"), "\n")
	out := make([]TranscriptLine, 0, len(raw))
	pendingBreak := false
	for _, line := range raw {
		if strings.TrimSpace(line) == "" {
			pendingBreak = len(out) > 0
			continue
		}
		if pendingBreak {
			out = append(out, TranscriptLine{})
			pendingBreak = false
		}
		if match := transcriptLinePattern.FindStringSubmatch(line); match != nil {
			out = append(out, TranscriptLine{
				Timestamp: match[1],
				Speaker:   match[2],
				Text:      match[3],
			})
			continue
		}
		out = append(out, TranscriptLine{Text: line})
	}
	return out
}

func (l TranscriptLine) IsBreak() bool {
	return l == TranscriptLine{}
}
