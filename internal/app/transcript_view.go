package app

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	xansi "github.com/charmbracelet/x/ansi"

	"scribe/internal/sanitizer"
	"scribe/internal/types"
)

const (
	modalMinWidth  = 30
	modalMaxWidth  = 110
	modalMinHeight = 8
)

// TranscriptView is the full-transcript overlay for one note.
type TranscriptView struct {
	open     bool
	noteID   int64
	title    string
	created  string
	content  string
	viewport viewport.Model
	display  sanitizer.Sanitizer
	single   sanitizer.Sanitizer
}

func NewTranscriptView() *TranscriptView {
	return &TranscriptView{
		viewport: viewport.New(modalMinWidth, modalMinHeight),
		display:  sanitizer.ForDisplay(),
		single:   sanitizer.ForSingleLine(),
	}
}

func (v *TranscriptView) Visible() bool {
	return v.open
}

// Show loads note into the view unless it is already shown.
func (v *TranscriptView) Show(note types.Note, dateFormat string) {
	if v.open && v.noteID == note.ID && v.content == note.Content {
		return
	}
	v.open = true
	v.noteID = note.ID
	v.title = v.single.Sanitize(note.DisplayTitle())
	v.created = formatNoteDate(note, dateFormat)
	v.content = note.Content
	v.refresh()
	v.viewport.GotoTop()
}

func (v *TranscriptView) Hide() {
	v.open = false
	v.noteID = 0
	v.content = ""
}

func (v *TranscriptView) Text() string {
	return v.content
}

func (v *TranscriptView) ScrollLines(delta int) {
	if delta < 0 {
		v.viewport.LineUp(-delta)
		return
	}
	v.viewport.LineDown(delta)
}

func (v *TranscriptView) PageUp()   { v.viewport.PageUp() }
func (v *TranscriptView) PageDown() { v.viewport.PageDown() }

func (v *TranscriptView) layout(maxWidth, maxHeight int) (int, int, int, int) {
	width := clamp(maxWidth-4, min(modalMinWidth, maxWidth), modalMaxWidth)
	height := max(min(modalMinHeight, maxHeight), maxHeight-2)
	x := max(0, (maxWidth-width)/2)
	y := max(0, (maxHeight-height)/2)
	return x, y, width, height
}

func (v *TranscriptView) resize(maxWidth, maxHeight int) {
	_, _, width, height := v.layout(maxWidth, maxHeight)
	// border and padding take 4 columns; border, title and hint take 4 rows
	innerWidth := max(1, width-4)
	innerHeight := max(1, height-4)
	if v.viewport.Width == innerWidth && v.viewport.Height == innerHeight {
		return
	}
	v.viewport.Width = innerWidth
	v.viewport.Height = innerHeight
	v.refresh()
}

func (v *TranscriptView) refresh() {
	v.viewport.SetContent(renderTranscript(v.display.Sanitize(v.content), v.viewport.Width))
}

// View returns the overlay block and the row it should be drawn at.
func (v *TranscriptView) View(maxWidth, maxHeight int) (string, int) {
	v.resize(maxWidth, maxHeight)
	x, y, width, _ := v.layout(maxWidth, maxHeight)
	innerWidth := max(1, width-4)
	header := truncateToWidth(v.title, innerWidth)
	if v.created != "" {
		header = truncateToWidth(v.title+" · "+v.created, innerWidth)
	}
	lines := []string{
		headerStyle.Render(padToWidth(header, innerWidth)),
		v.viewport.View(),
		helpStyle.Render(truncateToWidth("esc close · ↑/↓ scroll · y copy", innerWidth)),
	}
	block := modalBorderStyle.Width(width - 2).Render(strings.Join(lines, "\n"))
	return indentBlock(block, x), y
}

// renderTranscript lays transcript lines out as "[time] speaker: text",
// wrapping continuation lines under the text column.
func renderTranscript(content string, width int) string {
	lines := types.ParseTranscript(content)
	if len(lines) == 0 {
		return helpStyle.Render("Empty transcript.")
	}
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if line.IsBreak() {
			out = append(out, "")
			continue
		}
		if line.Speaker == "" && line.Timestamp == "" {
			out = append(out, xansi.Wrap(line.Text, width, ""))
			continue
		}
		prefix := transcriptTimeStyle.Render("["+line.Timestamp+"]") + " " + speakerStyle(line.Speaker).Render(line.Speaker+":") + " "
		indent := xansi.StringWidth(prefix)
		textWidth := width - indent
		if textWidth < 10 {
			out = append(out, prefix, xansi.Wrap(line.Text, width, ""))
			continue
		}
		wrapped := strings.Split(xansi.Wrap(line.Text, textWidth, ""), "\n")
		out = append(out, prefix+wrapped[0])
		pad := strings.Repeat(" ", indent)
		for _, rest := range wrapped[1:] {
			out = append(out, pad+rest)
		}
	}
	return strings.Join(out, "\n")
}

func formatNoteDate(note types.Note, layout string) string {
	if note.CreatedAt.IsZero() {
		return ""
	}
	if strings.TrimSpace(layout) == "" {
		layout = "2006-01-02"
	}
	return note.CreatedAt.Local().Format(layout)
}
