package app

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func (m *Model) View() string {
	bodyHeight := m.height - 3
	left := m.listPane(bodyHeight)
	right := m.chat.View()
	divider := dividerStyle.Render(strings.TrimSuffix(strings.Repeat("│\n", bodyHeight), "\n"))
	body := lipgloss.JoinHorizontal(lipgloss.Top, left, divider, right)

	footer := m.helpLine()
	if toast := m.toastLine(m.width); toast != "" {
		footer = toast
	}
	screen := strings.Join([]string{
		padToWidth(m.headerLine(), m.width),
		body,
		padToWidth(m.input.View(), m.width),
		padToWidth(footer, m.width),
	}, "\n")

	if m.transcript.Visible() {
		block, row := m.transcript.View(m.width, m.height)
		screen = overlayBlock(screen, block, row, m.width)
	}
	if m.confirm.IsOpen() {
		block, row := m.confirm.View(m.width, m.height)
		screen = overlayBlock(screen, block, row, m.width)
	}
	return screen
}

func (m *Model) listPane(height int) string {
	lines := make([]string, 0, 2)
	if m.focus == focusFilter || m.list.Filter() != "" {
		lines = append(lines, truncateToWidth(m.filter.View(), m.listWidth))
	} else {
		lines = append(lines, headerStyle.Render(truncateToWidth(" Notes", m.listWidth)))
	}
	if err := m.ws.LoadError(); err != nil {
		lines = append(lines, loadErrorStyle.Render(truncateToWidth(" ! "+m.titles.Sanitize(err.Error()), m.listWidth)))
	}
	pane := padLines(lines, m.listWidth) + "\n" + m.list.View()
	return lipgloss.NewStyle().Width(m.listWidth).Height(height).MaxHeight(height).Render(pane)
}
