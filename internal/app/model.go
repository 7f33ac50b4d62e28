package app

import (
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"scribe/internal/logging"
	"scribe/internal/sanitizer"
	"scribe/internal/types"
	"scribe/internal/workspace"
)

const (
	minListWidth     = 24
	maxListWidth     = 48
	minViewportWidth = 20
	minContentHeight = 6
	questionLimit    = 4000
	mouseWheelLines  = 3
)

type focusArea int

const (
	focusList focusArea = iota
	focusInput
	focusFilter
)

type Options struct {
	Logger         logging.Logger
	Markdown       bool
	DateFormat     string
	RequestTimeout time.Duration
	ChatTimeout    time.Duration
	Now            func() time.Time
}

type Model struct {
	ws     *workspace.Workspace
	opts   Options
	logger logging.Logger

	list       *NotesList
	chat       viewport.Model
	input      textinput.Model
	filter     textinput.Model
	transcript *TranscriptView
	confirm    *ConfirmController
	loader     spinner.Model
	renders    *renderCache
	titles     sanitizer.Sanitizer

	focus         focusArea
	width         int
	height        int
	listWidth     int
	loading       bool
	follow        bool
	pendingDelete int64
	status        string

	toastText  string
	toastLevel toastLevel
	toastUntil time.Time
}

func NewModel(ws *workspace.Workspace, opts Options) Model {
	if opts.Logger == nil {
		opts.Logger = logging.Nop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	input := textinput.New()
	input.Prompt = "› "
	input.Placeholder = "Ask about the selected notes"
	input.CharLimit = questionLimit

	filter := textinput.New()
	filter.Prompt = "/ "
	filter.Placeholder = "filter"

	loader := spinner.New()
	loader.Spinner = spinner.Line
	loader.Style = activityStyle

	m := Model{
		ws:         ws,
		opts:       opts,
		logger:     opts.Logger.With(logging.F("component", "tui")),
		list:       NewNotesList(minListWidth, minContentHeight),
		chat:       viewport.New(minViewportWidth, minContentHeight),
		input:      input,
		filter:     filter,
		transcript: NewTranscriptView(),
		confirm:    NewConfirmController(),
		loader:     loader,
		renders:    newRenderCache(opts.Markdown),
		titles:     sanitizer.ForSingleLine(),
		focus:      focusList,
		follow:     true,
		loading:    true,
	}
	m.resize(80, 24)
	return m
}

// Run starts the terminal UI over a fresh workspace backed by api.
func Run(api workspace.API, opts Options) error {
	ready := make(chan struct{})
	var program *tea.Program
	ws := workspace.New(api, workspace.Options{
		RequestTimeout: opts.RequestTimeout,
		ChatTimeout:    opts.ChatTimeout,
		Logger:         opts.Logger,
		Now:            opts.Now,
		OnChange: func(change workspace.Change) {
			select {
			case <-ready:
			default:
				return
			}
			// Send blocks until the loop reads it; the hook may run inside
			// a command the loop is waiting on.
			go program.Send(workspaceChangedMsg{change: change})
		},
	})
	model := NewModel(ws, opts)
	program = tea.NewProgram(&model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	close(ready)
	_, err := program.Run()
	return err
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(loadNotesCmd(m.ws), m.loader.Tick)
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.loader, cmd = m.loader.Update(msg)
		return m, cmd
	case notesLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.logger.Warn("notes load failed", logging.Err(msg.err))
			m.status = "load failed"
			m.showErrorToast("could not load notes: " + msg.err.Error())
		} else {
			m.status = ""
		}
		m.sync()
		return m, nil
	case chatReplyMsg:
		switch {
		case msg.err != nil:
			m.showErrorToast("question #" + strconv.Itoa(msg.request) + " failed")
		case msg.late:
			m.showInfoToast("answer to #" + strconv.Itoa(msg.request) + " arrived late")
		}
		m.sync()
		return m, nil
	case deleteDoneMsg:
		if msg.err != nil {
			m.logger.Warn("note delete failed", logging.F("note_id", msg.id), logging.Err(msg.err))
			m.showErrorToast("delete failed: " + msg.err.Error())
		} else {
			m.showInfoToast("deleted " + msg.title)
		}
		m.sync()
		return m, nil
	case workspaceChangedMsg:
		m.sync()
		return m, nil
	case clipboardResultMsg:
		if msg.err != nil {
			m.logger.Debug("clipboard copy failed", logging.Err(msg.err))
			m.showErrorToast("copy failed: " + msg.err.Error())
		} else {
			m.showInfoToast(msg.success)
		}
		return m, nil
	case tea.KeyMsg:
		return m, m.handleKey(msg)
	case tea.MouseMsg:
		return m, m.handleMouse(msg)
	}
	return m, nil
}

// sync pulls the workspace state into the widgets.
func (m *Model) sync() {
	notes := m.ws.Notes()
	rows := make([]noteRow, 0, len(notes))
	for _, note := range notes {
		rows = append(rows, noteRow{
			id:       note.ID,
			title:    m.titles.Sanitize(note.DisplayTitle()),
			date:     formatNoteDate(note, m.opts.DateFormat),
			selected: m.ws.IsSelected(note.ID),
			state:    m.ws.DeleteState(note.ID),
		})
	}
	m.list.SetRows(rows)
	m.resizeList()

	if note, ok := m.ws.Modal(); ok {
		m.transcript.Show(note, m.opts.DateFormat)
	} else {
		m.transcript.Hide()
	}
	if m.confirm.IsOpen() && m.ws.DeleteState(m.pendingDelete) != workspace.DeleteConfirming {
		m.pendingDelete = 0
		m.confirm.Close()
	}
	m.refreshChat()
}

func (m *Model) refreshChat() {
	atBottom := m.follow || m.chat.AtBottom()
	m.chat.SetContent(m.renderChat(m.ws.Messages(), m.chat.Width))
	if atBottom {
		m.chat.GotoBottom()
	}
}

func (m *Model) resize(width, height int) {
	m.width = max(width, minListWidth+minViewportWidth+1)
	m.height = max(height, minContentHeight+3)
	m.listWidth = clamp(m.width/3, minListWidth, maxListWidth)

	bodyHeight := m.height - 3
	m.resizeList()
	m.chat.Width = max(minViewportWidth, m.width-m.listWidth-1)
	m.chat.Height = max(1, bodyHeight)
	m.input.Width = max(1, m.width-4)
	m.filter.Width = max(1, m.listWidth-4)
	m.refreshChat()
}

// resizeList leaves room above the list for its title row and the load
// error row.
func (m *Model) resizeList() {
	height := m.height - 3 - m.listTop()
	m.list.SetSize(m.listWidth, max(1, height+1))
}

func (m *Model) setFocus(focus focusArea) tea.Cmd {
	m.focus = focus
	m.input.Blur()
	m.filter.Blur()
	switch focus {
	case focusInput:
		return m.input.Focus()
	case focusFilter:
		return m.filter.Focus()
	}
	return nil
}

func (m *Model) busy() bool {
	return m.loading || m.ws.InFlight() > 0
}

func (m *Model) now() time.Time {
	if m.opts.Now != nil {
		return m.opts.Now()
	}
	return time.Now()
}

func (m *Model) lastAnswer() (types.ChatMessage, bool) {
	messages := m.ws.Messages()
	for i := len(messages) - 1; i >= 0; i-- {
		if !messages[i].IsUser() && !messages[i].Error {
			return messages[i], true
		}
	}
	return types.ChatMessage{}, false
}

func (m *Model) headerLine() string {
	left := headerStyle.Render("scribe")
	counts := statusStyle.Render(" · " + strconv.Itoa(len(m.ws.Notes())) + " notes · " + strconv.Itoa(len(m.ws.Selection())) + " selected")
	line := left + counts
	if m.busy() {
		activity := "loading"
		if n := m.ws.InFlight(); n > 0 {
			activity = "thinking (" + strconv.Itoa(n) + ")"
		}
		line += "  " + m.loader.View() + " " + activityStyle.Render(activity)
	}
	return truncateToWidth(line, m.width)
}

func (m *Model) helpLine() string {
	var help string
	switch {
	case m.confirm.IsOpen():
		help = "←/→ choose · enter confirm · esc cancel"
	case m.transcript.Visible():
		help = "esc close · ↑/↓ pgup/pgdn scroll · y copy transcript"
	case m.focus == focusInput:
		help = "enter send · esc/tab notes · pgup/pgdn scroll chat"
	case m.focus == focusFilter:
		help = "type to filter · enter keep · esc clear"
	default:
		help = "space select · enter view · d delete · r reload · / filter · tab ask · y copy answer · q quit"
	}
	if m.status != "" {
		help = m.status + " · " + help
	}
	return helpStyle.Render(truncateToWidth(help, m.width))
}
