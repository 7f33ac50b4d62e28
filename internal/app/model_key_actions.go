package app

import (
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"scribe/internal/workspace"
)

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if msg.String() == "ctrl+c" {
		return tea.Quit
	}
	if m.confirm.IsOpen() {
		return m.reduceConfirmKey(msg)
	}
	if m.transcript.Visible() {
		return m.reduceTranscriptKey(msg)
	}
	switch m.focus {
	case focusInput:
		return m.reduceInputKey(msg)
	case focusFilter:
		return m.reduceFilterKey(msg)
	}
	return m.reduceListKey(msg)
}

func (m *Model) reduceConfirmKey(msg tea.KeyMsg) tea.Cmd {
	_, choice := m.confirm.HandleKey(msg)
	return m.applyConfirmChoice(choice)
}

func (m *Model) applyConfirmChoice(choice confirmChoice) tea.Cmd {
	id := m.pendingDelete
	switch choice {
	case confirmChoiceConfirm:
		m.confirm.Close()
		m.pendingDelete = 0
		title := "note"
		if note, ok := m.ws.Find(id); ok {
			title = m.titles.Sanitize(note.DisplayTitle())
		}
		m.status = "deleting " + title
		cmd := confirmDeleteCmd(m.ws, id, title)
		m.sync()
		return cmd
	case confirmChoiceCancel:
		m.confirm.Close()
		m.pendingDelete = 0
		m.ws.DeclineDelete(id)
		m.status = "delete canceled"
		m.sync()
	}
	return nil
}

func (m *Model) reduceTranscriptKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc", "q", "v", "enter":
		m.ws.CloseModal()
		m.sync()
	case "up", "k":
		m.transcript.ScrollLines(-1)
	case "down", "j":
		m.transcript.ScrollLines(1)
	case "pgup", "b":
		m.transcript.PageUp()
	case "pgdown", "f", " ":
		m.transcript.PageDown()
	case "y":
		return copyTextCmd(m.transcript.Text(), "transcript copied")
	}
	return nil
}

func (m *Model) reduceInputKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc", "tab":
		return m.setFocus(focusList)
	case "pgup":
		m.scrollChat(-m.chat.Height)
		return nil
	case "pgdown":
		m.scrollChat(m.chat.Height)
		return nil
	case "enter":
		return m.sendQuestion()
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return cmd
}

func (m *Model) reduceFilterKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		m.filter.Reset()
		m.list.SetFilter("")
		return m.setFocus(focusList)
	case "enter", "tab":
		return m.setFocus(focusList)
	case "up":
		m.list.Move(-1)
		return nil
	case "down":
		m.list.Move(1)
		return nil
	}
	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	m.list.SetFilter(m.filter.Value())
	return cmd
}

func (m *Model) reduceListKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "q":
		return tea.Quit
	case "up", "k":
		m.list.Move(-1)
	case "down", "j":
		m.list.Move(1)
	case "home", "g":
		m.list.Move(-m.list.VisibleCount())
	case "end", "G":
		m.list.Move(m.list.VisibleCount())
	case " ", "x":
		if id, ok := m.list.CurrentID(); ok {
			m.ws.Toggle(id)
			m.sync()
		}
	case "c":
		m.ws.ClearSelection()
		m.sync()
	case "enter", "v":
		if id, ok := m.list.CurrentID(); ok {
			m.ws.OpenModal(id)
			m.sync()
		}
	case "d", "delete":
		return m.requestDelete()
	case "r":
		m.loading = true
		m.status = "reloading"
		return loadNotesCmd(m.ws)
	case "/":
		return m.setFocus(focusFilter)
	case "tab", "i", "a":
		return m.setFocus(focusInput)
	case "pgup":
		m.scrollChat(-m.chat.Height)
	case "pgdown":
		m.scrollChat(m.chat.Height)
	case "y":
		answer, ok := m.lastAnswer()
		if !ok {
			m.showWarningToast("no answer to copy")
			return nil
		}
		return copyTextCmd(answer.Content, "answer copied")
	}
	return nil
}

func (m *Model) sendQuestion() tea.Cmd {
	pending, err := m.ws.BeginChat(m.input.Value())
	if err != nil {
		if workspace.IsValidation(err) {
			m.showWarningToast(err.Error())
			return nil
		}
		m.showErrorToast(err.Error())
		return nil
	}
	m.input.Reset()
	m.follow = true
	m.status = ""
	m.sync()
	return sendChatCmd(pending)
}

func (m *Model) requestDelete() tea.Cmd {
	id, ok := m.list.CurrentID()
	if !ok {
		return nil
	}
	if err := m.ws.RequestDelete(id); err != nil {
		if errors.Is(err, workspace.ErrDeleteInProgress) {
			m.showWarningToast("already deleting that note")
			return nil
		}
		m.showErrorToast(err.Error())
		return nil
	}
	note, _ := m.ws.Find(id)
	m.pendingDelete = id
	m.confirm.Open("Delete note", "Delete \""+m.titles.Sanitize(note.DisplayTitle())+"\"? This cannot be undone.", "Delete", "Cancel")
	m.sync()
	return nil
}

func (m *Model) scrollChat(delta int) {
	if delta < 0 {
		m.chat.LineUp(-delta)
	} else {
		m.chat.LineDown(delta)
	}
	m.follow = m.chat.AtBottom()
}
