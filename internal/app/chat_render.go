package app

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"

	"scribe/internal/types"
)

const maxChatLines = 4000

type chatRole int

const (
	chatRoleUser chatRole = iota
	chatRoleAssistant
	chatRoleError
	chatRolePending
)

type chatBlock struct {
	seq     int
	role    chatRole
	meta    string
	text    string
	late    bool
	request int
}

// chatBlocks turns the log into render blocks. Every question still
// waiting for its reply gets a placeholder right after it.
func chatBlocks(messages []types.ChatMessage, timeLayout string) []chatBlock {
	answered := make(map[int]bool, len(messages))
	for _, msg := range messages {
		if !msg.IsUser() {
			answered[msg.ReplyTo] = true
		}
	}
	blocks := make([]chatBlock, 0, len(messages)+1)
	for _, msg := range messages {
		stamp := ""
		if !msg.At.IsZero() {
			stamp = " · " + msg.At.Local().Format(timeLayout)
		}
		if msg.IsUser() {
			blocks = append(blocks, chatBlock{
				seq:     msg.Seq,
				role:    chatRoleUser,
				meta:    "you · #" + strconv.Itoa(msg.ReplyTo) + stamp,
				text:    msg.Content,
				request: msg.ReplyTo,
			})
			if !answered[msg.ReplyTo] {
				blocks = append(blocks, chatBlock{
					role:    chatRolePending,
					meta:    "assistant · #" + strconv.Itoa(msg.ReplyTo),
					text:    "Thinking…",
					request: msg.ReplyTo,
				})
			}
			continue
		}
		block := chatBlock{
			seq:     msg.Seq,
			role:    chatRoleAssistant,
			meta:    "assistant" + stamp,
			text:    msg.Content,
			late:    msg.Late,
			request: msg.ReplyTo,
		}
		if msg.Error {
			block.role = chatRoleError
		}
		if msg.Late {
			block.meta = "assistant · reply to #" + strconv.Itoa(msg.ReplyTo) + stamp
		}
		blocks = append(blocks, block)
	}
	return blocks
}

func (m *Model) renderChat(messages []types.ChatMessage, width int) string {
	if len(messages) == 0 {
		return helpStyle.Render("Select notes with space, then press tab to ask a question.")
	}
	if width <= 0 {
		width = 80
	}
	lines := make([]string, 0, len(messages)*4)
	for _, block := range chatBlocks(messages, "15:04") {
		lines = append(lines, m.renderChatBlock(block, width)...)
		lines = append(lines, "")
	}
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	if len(lines) > maxChatLines {
		lines = lines[len(lines)-maxChatLines:]
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderChatBlock(block chatBlock, width int) []string {
	maxBubbleWidth := width - 4
	if maxBubbleWidth < 10 {
		maxBubbleWidth = width
	}
	innerWidth := max(1, maxBubbleWidth-4)

	var text string
	var style lipgloss.Style
	align := lipgloss.Left
	switch block.role {
	case chatRoleUser:
		text = xansi.Wrap(strings.TrimSpace(block.text), innerWidth, "")
		style = userBubbleStyle
		align = lipgloss.Right
	case chatRolePending:
		text = m.loader.View() + " " + block.text
		style = pendingBubbleStyle
	case chatRoleError:
		text = xansi.Wrap(strings.TrimSpace(block.text), innerWidth, "")
		style = errorBubbleStyle
	default:
		text = m.renders.Render(block.seq, strings.TrimSpace(block.text), innerWidth)
		style = agentBubbleStyle
	}

	metaStyle := chatMetaStyle
	if block.late {
		metaStyle = chatLateStyle
	}
	meta := lipgloss.PlaceHorizontal(width, align, metaStyle.Render(block.meta))
	bubble := lipgloss.PlaceHorizontal(width, align, style.Render(text))
	return append([]string{meta}, strings.Split(bubble, "\n")...)
}
