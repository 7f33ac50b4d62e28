// Package issue files a tracker issue about a meeting note through the
// backend.
package issue

import (
	"fmt"
	"strings"
	"time"

	"scribe/internal/types"
)

const bodyTimeLayout = "2006-01-02 15:04:05 MST"

// ComposeBody renders the default issue description for note, with its
// timestamp shown in loc.
func ComposeBody(note types.Note, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	when := "unknown"
	if !note.CreatedAt.IsZero() {
		when = note.CreatedAt.In(loc).Format(bodyTimeLayout)
	}
	fence := codeFence(note.Content)

	var b strings.Builder
	b.WriteString("### Related meeting notes\n\n")
	fmt.Fprintf(&b, "**Title:** %s\n", note.DisplayTitle())
	fmt.Fprintf(&b, "**Time:** %s\n\n", when)
	b.WriteString("---\n\n")
	b.WriteString("### Meeting transcript\n\n")
	b.WriteString(fence + "\n")
	b.WriteString(strings.TrimRight(note.Content, "\n"))
	b.WriteString("\n" + fence)
	return b.String()
}

// DefaultTitle suggests an issue title for note.
func DefaultTitle(note types.Note) string {
	return "Follow-up: " + note.DisplayTitle()
}

// codeFence returns a backtick run longer than any run inside content.
func codeFence(content string) string {
	longest, run := 0, 0
	for _, r := range content {
		if r == '`' {
			run++
			if run > longest {
				longest = run
			}
			continue
		}
		run = 0
	}
	if longest < 3 {
		return "```"
	}
	return strings.Repeat("`", longest+1)
}
