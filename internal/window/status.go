package window

import (
	"fmt"
	"time"

	"github.com/mattn/go-runewidth"
)

// statusKind 枚举状态行可显示的状态。
type statusKind int

const (
	// statusIdle 显示模型与按键提示。
	statusIdle statusKind = iota
	// statusThinking 表示 turn 正在进行，计时器持续累加。
	statusThinking
	// statusThought 显示上一次 turn 的耗时。
	statusThought
	// statusNotice 显示一次性提示（忙碌、复制结果、未知命令）。
	statusNotice
)

func (k statusKind) String() string {
	switch k {
	case statusIdle:
		return "idle"
	case statusThinking:
		return "thinking"
	case statusThought:
		return "thought"
	case statusNotice:
		return "notice"
	default:
		return "unknown"
	}
}

// statusLabel 只在 turn 开始到回复到达之间归计时器所有。
type statusLabel struct {
	kind    statusKind
	text    string
	started time.Time
	elapsed time.Duration
	clock   func() time.Time
}

func newStatusLabel(clock func() time.Time) statusLabel {
	if clock == nil {
		clock = time.Now
	}
	return statusLabel{clock: clock}
}

func (s *statusLabel) startThinking() {
	s.kind = statusThinking
	s.text = ""
	s.started = s.clock()
	s.elapsed = 0
}

// stopThinking 冻结耗时；elapsed 为零时使用本地计时。
func (s *statusLabel) stopThinking(elapsed time.Duration) {
	if s.kind != statusThinking {
		return
	}
	if elapsed <= 0 {
		elapsed = s.clock().Sub(s.started)
	}
	s.kind = statusThought
	s.elapsed = elapsed
}

// notice 显示一次性提示；turn 进行中时附在计时器之后，不打断计时。
func (s *statusLabel) notice(text string) {
	s.text = text
	if s.kind == statusThinking {
		return
	}
	s.kind = statusNotice
}

func (s *statusLabel) idle() {
	s.kind = statusIdle
	s.text = ""
}

// render 生成状态行文本，按显示宽度截断。
func (s statusLabel) render(frame, thinking, thought, idle string, width int) string {
	var text string
	switch s.kind {
	case statusThinking:
		secs := uint64(s.clock().Sub(s.started).Seconds())
		text = fmt.Sprintf("%s %s (%s)", frame, thinking, fmtElapsedCompact(secs))
		if s.text != "" {
			text += " · " + s.text
		}
	case statusThought:
		text = fmt.Sprintf(thought, s.elapsed.Seconds())
	case statusNotice:
		text = s.text
	default:
		text = idle
	}
	return truncateToWidth(text, width)
}

// fmtElapsedCompact 将秒数格式化为友好字符串。
func fmtElapsedCompact(elapsedSecs uint64) string {
	switch {
	case elapsedSecs < 60:
		return fmt.Sprintf("%ds", elapsedSecs)
	case elapsedSecs < 3600:
		minutes := elapsedSecs / 60
		seconds := elapsedSecs % 60
		return fmt.Sprintf("%dm %02ds", minutes, seconds)
	default:
		hours := elapsedSecs / 3600
		minutes := (elapsedSecs % 3600) / 60
		seconds := elapsedSecs % 60
		return fmt.Sprintf("%dh %02dm %02ds", hours, minutes, seconds)
	}
}

func truncateToWidth(text string, width int) string {
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(text) <= width {
		return text
	}
	w := 0
	out := make([]rune, 0, len(text))
	for _, r := range text {
		rw := runewidth.RuneWidth(r)
		if w+rw > width {
			break
		}
		out = append(out, r)
		w += rw
	}
	return string(out)
}
