package session

import (
	"fmt"
	"io"

	"helios-cli/internal/i18n"

	"github.com/charmbracelet/lipgloss"
)

var (
	startingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#7D7A85"))
	readyStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF8C42"))
	modeStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#7D56F4"))
)

// WriteStarting 输出启动提示，在拉起后端服务之前调用。
func WriteStarting(w io.Writer, msgs i18n.Messages) {
	fmt.Fprintln(w, startingStyle.Render(msgs.Starting))
}

// WriteReady 输出就绪横幅，末尾留一个空行。
func WriteReady(w io.Writer, msgs i18n.Messages) {
	fmt.Fprintf(w, "\n%s\n%s\n\n", readyStyle.Render(msgs.Ready), modeStyle.Render(msgs.Mode))
}
