package app

import (
	xansi "github.com/charmbracelet/x/ansi"
	"github.com/sahilm/fuzzy"

	"scribe/internal/workspace"
)

type noteRow struct {
	id       int64
	title    string
	date     string
	selected bool
	state    workspace.DeleteState
}

type noteRows []noteRow

func (r noteRows) String(i int) string { return r[i].title }
func (r noteRows) Len() int            { return len(r) }

// NotesList is the checkbox list of notes. The cursor follows a note id
// across refreshes and filter changes.
type NotesList struct {
	width   int
	height  int
	cursor  int
	offset  int
	rows    noteRows
	visible []int
	query   string
}

func NewNotesList(width, height int) *NotesList {
	return &NotesList{width: width, height: height}
}

func (l *NotesList) SetSize(width, height int) {
	l.width = width
	l.height = height
	l.ensureVisible()
}

func (l *NotesList) SetRows(rows []noteRow) {
	current, hasCurrent := l.CurrentID()
	l.rows = rows
	l.refilter(current, hasCurrent)
}

func (l *NotesList) SetFilter(query string) {
	if query == l.query {
		return
	}
	current, hasCurrent := l.CurrentID()
	l.query = query
	l.refilter(current, hasCurrent)
}

func (l *NotesList) Filter() string {
	return l.query
}

func (l *NotesList) refilter(current int64, hasCurrent bool) {
	l.visible = l.visible[:0]
	if l.query == "" {
		for i := range l.rows {
			l.visible = append(l.visible, i)
		}
	} else {
		for _, match := range fuzzy.FindFrom(l.query, l.rows) {
			l.visible = append(l.visible, match.Index)
		}
	}
	l.cursor = 0
	if hasCurrent {
		for pos, idx := range l.visible {
			if l.rows[idx].id == current {
				l.cursor = pos
				break
			}
		}
	}
	l.ensureVisible()
}

func (l *NotesList) Move(delta int) bool {
	if len(l.visible) == 0 || delta == 0 {
		return false
	}
	next := clamp(l.cursor+delta, 0, len(l.visible)-1)
	if next == l.cursor {
		return false
	}
	l.cursor = next
	l.ensureVisible()
	return true
}

func (l *NotesList) CurrentID() (int64, bool) {
	if l.cursor < 0 || l.cursor >= len(l.visible) {
		return 0, false
	}
	return l.rows[l.visible[l.cursor]].id, true
}

// HandleClick moves the cursor to the clicked row and returns its note id.
func (l *NotesList) HandleClick(row int) (int64, bool) {
	if row < 0 || row >= l.height {
		return 0, false
	}
	pos := l.offset + row
	if pos < 0 || pos >= len(l.visible) {
		return 0, false
	}
	l.cursor = pos
	l.ensureVisible()
	return l.rows[l.visible[pos]].id, true
}

func (l *NotesList) VisibleCount() int {
	return len(l.visible)
}

func (l *NotesList) View() string {
	if l.height <= 0 {
		return ""
	}
	lines := make([]string, 0, l.height)
	if len(l.visible) == 0 {
		empty := " No notes yet."
		if l.query != "" {
			empty = " No notes match."
		}
		lines = append(lines, helpStyle.Render(empty))
		return padLines(lines, l.width)
	}
	for i := 0; i < l.height; i++ {
		pos := l.offset + i
		if pos >= len(l.visible) {
			lines = append(lines, "")
			continue
		}
		lines = append(lines, l.renderRow(l.rows[l.visible[pos]], pos == l.cursor))
	}
	return padLines(lines, l.width)
}

func (l *NotesList) renderRow(row noteRow, current bool) string {
	checkbox := "[ ]"
	if row.selected {
		checkbox = "[x]"
	}
	suffix := ""
	switch row.state {
	case workspace.DeleteConfirming:
		suffix = " (delete?)"
	case workspace.DeleteDeleting:
		suffix = " (deleting…)"
	}
	prefix := " " + checkbox + " "
	titleWidth := max(1, l.width-xansi.StringWidth(prefix+suffix+row.date)-1)
	title := truncateToWidth(row.title, titleWidth)
	if current {
		line := prefix + padToWidth(title, titleWidth) + " " + row.date + suffix
		return selectedStyle.Render(padToWidth(line, l.width))
	}
	titleStyle := noteStyle
	if row.state == workspace.DeleteDeleting {
		titleStyle = noteDeletingStyle
	}
	return prefix + titleStyle.Render(padToWidth(title, titleWidth)) + " " + noteDateStyle.Render(row.date) + noteDeletingStyle.Render(suffix)
}

func (l *NotesList) ensureVisible() {
	if l.cursor < l.offset {
		l.offset = l.cursor
	}
	if l.height > 0 && l.cursor >= l.offset+l.height {
		l.offset = l.cursor - l.height + 1
	}
	maxOffset := max(0, len(l.visible)-l.height)
	l.offset = clamp(l.offset, 0, maxOffset)
}
