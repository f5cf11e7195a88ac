package window

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// chromeHeight 是 Ready 画面中记录区以外的行数：
// 标题 1 + 记录区边框 2 + 输入行 3 + 命令提示 1 + 状态行 1。
const chromeHeight = 8

func (m *Model) View() string {
	if m.done {
		return ""
	}
	switch m.phases.phase {
	case PhaseSplash:
		return m.viewSplash()
	case PhaseLoading:
		return m.viewLoading()
	default:
		return m.viewReady()
	}
}

func (m *Model) viewSplash() string {
	logo := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(m.phases.fadeColor())).
		Render("☀  H E L I O S  ☀")
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, logo)
}

func (m *Model) viewLoading() string {
	text := mutedStyle.Render(m.msgs.Starting + m.phases.loadingDots())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, text)
}

func (m *Model) viewReady() string {
	header := lipgloss.JoinHorizontal(lipgloss.Top,
		readyStyle.Render(m.msgs.Ready),
		"  ",
		modeStyle.Render(m.msgs.Mode),
	)
	transcript := paneStyle.
		Width(maxInt(10, m.width-2)).
		Render(m.viewport.View())

	field, button := fieldStyle, buttonStyle
	if m.focus == focusField && !m.quitting {
		field = fieldFocusedStyle
	}
	if m.focus == focusButton && !m.quitting {
		button = buttonFocusedStyle
	}
	inputRow := lipgloss.JoinHorizontal(lipgloss.Center,
		field.Render(m.input.View()),
		" ",
		button.Render(m.msgs.Send),
	)

	hints := ""
	if len(m.hints) > 0 {
		hints = truncateToWidth(renderCommandHints(m.hints, m.msgs), m.width-2)
	}
	status := statusStyle.Render(m.statusLine())

	return strings.Join([]string{
		header,
		transcript,
		inputRow,
		mutedStyle.Render(hints),
		status,
	}, "\n")
}

func (m *Model) statusLine() string {
	idle := "model " + m.opts.Model + " • Enter send • Tab focus • /help • Ctrl+C quit"
	if m.opts.Model == "" {
		idle = "Enter send • Tab focus • /help • Ctrl+C quit"
	}
	return m.status.render(m.spin.View(), m.msgs.Thinking, m.msgs.Thought, idle, m.width-2)
}
