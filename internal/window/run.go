package window

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"
)

// Run 启动全屏窗口，直到用户关闭。ctx 取消时程序退出。
func Run(ctx context.Context, opts Options) error {
	if opts.Context == nil {
		opts.Context = ctx
	}
	program := tea.NewProgram(New(opts),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)
	if _, err := program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	return nil
}
