package app

import tea "github.com/charmbracelet/bubbletea"

// listTop is the first screen row of the notes list: header, then the
// list title row, then the load error row when there is one.
func (m *Model) listTop() int {
	top := 2
	if m.ws.LoadError() != nil {
		top++
	}
	return top
}

func (m *Model) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if m.confirm.IsOpen() {
		_, choice := m.confirm.HandleMouse(msg, m.width, m.height)
		return m.applyConfirmChoice(choice)
	}
	if m.transcript.Visible() {
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			m.transcript.ScrollLines(-mouseWheelLines)
		case tea.MouseButtonWheelDown:
			m.transcript.ScrollLines(mouseWheelLines)
		}
		return nil
	}
	inList := msg.X < m.listWidth
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		if inList {
			m.list.Move(-1)
		} else {
			m.scrollChat(-mouseWheelLines)
		}
		return nil
	case tea.MouseButtonWheelDown:
		if inList {
			m.list.Move(1)
		} else {
			m.scrollChat(mouseWheelLines)
		}
		return nil
	}
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return nil
	}
	if msg.Y == m.height-2 {
		return m.setFocus(focusInput)
	}
	if !inList {
		return nil
	}
	id, ok := m.list.HandleClick(msg.Y - m.listTop())
	if !ok {
		return nil
	}
	m.ws.Toggle(id)
	m.sync()
	return m.setFocus(focusList)
}
