package types

import "time"

type ChatSender string

const (
	ChatSenderUser      ChatSender = "user"
	ChatSenderAssistant ChatSender = "assistant"
)

type ChatMessage struct {
	Seq     int        `json:"seq"`
	Sender  ChatSender `json:"sender"`
	Content string     `json:"content"`
	// Error marks an assistant entry that carries a failure instead of an answer.
	Error bool `json:"error,omitempty"`
	// ReplyTo is the request number of the question this entry belongs to.
	ReplyTo int `json:"reply_to,omitempty"`
	// Late is set on answers that arrived after a newer question was sent.
	Late bool      `json:"late,omitempty"`
	At   time.Time `json:"at"`
}

func (m ChatMessage) IsUser() bool {
	return m.Sender == ChatSenderUser
}
