package app

import "scribe/internal/workspace"

type notesLoadedMsg struct {
	err error
}

type chatReplyMsg struct {
	request int
	late    bool
	err     error
}

type deleteDoneMsg struct {
	id    int64
	title string
	err   error
}

// workspaceChangedMsg is posted by the workspace change hook, possibly from
// a goroutine that finished a request.
type workspaceChangedMsg struct {
	change workspace.Change
}

type clipboardResultMsg struct {
	success string
	err     error
}
