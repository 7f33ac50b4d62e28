package workspace

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"scribe/internal/client"
	"scribe/internal/logging"
	"scribe/internal/types"
)

const errorReplyPrefix = "Sorry, an error occurred: "

// ChatLog is the append-only conversation. Request numbers start at 1 and
// grow with every question sent.
type ChatLog struct {
	messages    []types.ChatMessage
	lastRequest int
	inFlight    map[int]struct{}
}

func NewChatLog() *ChatLog {
	return &ChatLog{inFlight: map[int]struct{}{}}
}

func (l *ChatLog) appendQuestion(question string, at time.Time) int {
	l.lastRequest++
	request := l.lastRequest
	l.messages = append(l.messages, types.ChatMessage{
		Seq:     len(l.messages) + 1,
		Sender:  types.ChatSenderUser,
		Content: question,
		ReplyTo: request,
		At:      at,
	})
	l.inFlight[request] = struct{}{}
	return request
}

// appendReply records the single reply to request. A reply is late when a
// newer question was sent before it arrived.
func (l *ChatLog) appendReply(request int, content string, failed bool, at time.Time) types.ChatMessage {
	delete(l.inFlight, request)
	msg := types.ChatMessage{
		Seq:     len(l.messages) + 1,
		Sender:  types.ChatSenderAssistant,
		Content: content,
		Error:   failed,
		ReplyTo: request,
		Late:    request < l.lastRequest,
		At:      at,
	}
	l.messages = append(l.messages, msg)
	return msg
}

func (l *ChatLog) Messages() []types.ChatMessage {
	out := make([]types.ChatMessage, len(l.messages))
	copy(out, l.messages)
	return out
}

func (l *ChatLog) InFlight() int {
	return len(l.inFlight)
}


// PendingChat is a question already in the log whose request has not been
// issued yet. Do must be called exactly once.
type PendingChat struct {
	ws          *Workspace
	Request     int
	Question    string
	NoteIDs     []int64
	Transcripts []string
	done        atomic.Bool
}

// BeginChat validates the question against the current selection, resolves
// the selected notes and appends the question to the log.
func (w *Workspace) BeginChat(question string) (*PendingChat, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, ErrEmptyQuestion
	}

	w.mu.Lock()
	snapshot := w.selection.Snapshot()
	if len(snapshot) == 0 {
		w.mu.Unlock()
		return nil, ErrNoSelection
	}
	ids := make([]int64, 0, len(snapshot))
	transcripts := make([]string, 0, len(snapshot))
	for _, id := range snapshot {
		note, ok := w.notes.Find(id)
		if !ok {
			continue
		}
		ids = append(ids, id)
		transcripts = append(transcripts, note.Content)
	}
	if len(ids) == 0 {
		w.mu.Unlock()
		return nil, ErrNoSelection
	}
	request := w.chat.appendQuestion(question, w.now())
	w.mu.Unlock()

	if dropped := len(snapshot) - len(ids); dropped > 0 {
		w.logger.Warn("dropped stale selection", logging.F("request", request), logging.F("dropped", dropped))
	}
	w.emit(ChangeMessages)
	return &PendingChat{
		ws:          w,
		Request:     request,
		Question:    question,
		NoteIDs:     ids,
		Transcripts: transcripts,
	}, nil
}

// Do issues the chat request and appends exactly one assistant entry, the
// answer or an error reply. The returned error is the backend failure, if
// any; it is already reflected in the log.
func (p *PendingChat) Do(ctx context.Context) (types.ChatMessage, error) {
	if p == nil || p.ws == nil {
		return types.ChatMessage{}, errors.New("chat request is not initialized")
	}
	if p.done.Swap(true) {
		return types.ChatMessage{}, ErrChatAlreadySent
	}
	w := p.ws

	if w.opts.ChatTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.opts.ChatTimeout)
		defer cancel()
	}
	start := time.Now()
	answer, err := w.api.Chat(ctx, p.Transcripts, p.Question)

	var content string
	if err != nil {
		content = errorReplyPrefix + w.sanitizer.Sanitize(describeError(err))
	} else {
		content = w.sanitizer.Sanitize(answer)
	}

	w.mu.Lock()
	msg := w.chat.appendReply(p.Request, content, err != nil, w.now())
	w.mu.Unlock()

	fields := []logging.Field{
		logging.F("request", p.Request),
		logging.F("notes", len(p.Transcripts)),
		logging.F("duration", time.Since(start)),
	}
	if msg.Late {
		fields = append(fields, logging.F("late", true))
	}
	if err != nil {
		w.logger.Warn("chat request failed", append(fields, logging.Err(err))...)
	} else {
		w.logger.Info("chat answered", fields...)
	}
	w.emit(ChangeMessages)
	return msg, err
}

// Send is BeginChat followed by Do.
func (w *Workspace) Send(ctx context.Context, question string) (types.ChatMessage, error) {
	pending, err := w.BeginChat(question)
	if err != nil {
		return types.ChatMessage{}, err
	}
	return pending.Do(ctx)
}

func (w *Workspace) Messages() []types.ChatMessage {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.chat.Messages()
}

// InFlight reports how many questions are still waiting for a reply.
func (w *Workspace) InFlight() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.chat.InFlight()
}

func describeError(err error) string {
	if err == nil {
		return ""
	}
	if apiErr := client.AsAPIError(err); apiErr != nil {
		return apiErr.Message
	}
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return "the request timed out"
	case errors.Is(err, context.Canceled):
		return "the request was canceled"
	}
	return fmt.Sprint(err)
}
