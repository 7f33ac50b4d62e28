package app

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"scribe/internal/workspace"
)

func loadNotesCmd(ws *workspace.Workspace) tea.Cmd {
	return func() tea.Msg {
		err := ws.Load(context.Background())
		return notesLoadedMsg{err: err}
	}
}

// sendChatCmd issues a question that is already in the log.
func sendChatCmd(pending *workspace.PendingChat) tea.Cmd {
	return func() tea.Msg {
		reply, err := pending.Do(context.Background())
		return chatReplyMsg{request: pending.Request, late: reply.Late, err: err}
	}
}

func confirmDeleteCmd(ws *workspace.Workspace, id int64, title string) tea.Cmd {
	return func() tea.Msg {
		err := ws.ConfirmDelete(context.Background(), id)
		return deleteDoneMsg{id: id, title: title, err: err}
	}
}

func copyTextCmd(text, success string) tea.Cmd {
	return func() tea.Msg {
		_, err := copyTextToClipboard(text)
		return clipboardResultMsg{success: success, err: err}
	}
}
