package workspace

import (
	"context"
	"sync"

	"scribe/internal/types"
)

type chatCall struct {
	Transcripts []string
	Question    string
}

type chatReply struct {
	answer string
	err    error
}

type fakeAPI struct {
	mu          sync.Mutex
	notes       []types.Note
	listErr     error
	deleteErr   error
	listCalls   int
	deleteCalls []int64
	chatCalls   []chatCall

	// chatGate, when set, holds each chat call until a reply is sent for
	// its question.
	chatGate map[string]chan chatReply
	// chatStarted receives the question of every chat call as it starts.
	chatStarted chan string
	answer      string
	chatErr     error
}

func newFakeAPI(notes ...types.Note) *fakeAPI {
	return &fakeAPI{notes: notes, answer: "ok"}
}

func (f *fakeAPI) ListTranscripts(ctx context.Context) ([]types.Note, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	return types.CloneNotes(f.notes), nil
}

func (f *fakeAPI) DeleteTranscript(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleteCalls = append(f.deleteCalls, id)
	if f.deleteErr != nil {
		return f.deleteErr
	}
	kept := f.notes[:0]
	for _, note := range f.notes {
		if note.ID != id {
			kept = append(kept, note)
		}
	}
	f.notes = kept
	return nil
}

func (f *fakeAPI) Chat(ctx context.Context, transcripts []string, question string) (string, error) {
	f.mu.Lock()
	f.chatCalls = append(f.chatCalls, chatCall{Transcripts: append([]string(nil), transcripts...), Question: question})
	gate := f.chatGate[question]
	started := f.chatStarted
	answer, chatErr := f.answer, f.chatErr
	f.mu.Unlock()

	if started != nil {
		started <- question
	}
	if gate != nil {
		select {
		case reply := <-gate:
			return reply.answer, reply.err
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return answer, chatErr
}

func (f *fakeAPI) setNotes(notes ...types.Note) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.notes = notes
}

func (f *fakeAPI) chats() []chatCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]chatCall(nil), f.chatCalls...)
}

func (f *fakeAPI) deletes() []int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]int64(nil), f.deleteCalls...)
}
