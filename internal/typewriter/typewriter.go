// Package typewriter 把一段已完成的文本逐个字形簇输出到显示表面，
// 每个单位之间固定延迟，形成打字机效果。
package typewriter

import (
	"bufio"
	"fmt"
	"io"
	"time"

	"github.com/rivo/uniseg"
)

// Separator 在文本之后追加。
const Separator = "\n"

// NoDelay 表示逐单位输出之间不停顿。选项结构中的零值表示使用默认延迟，
// 因此显式关闭延迟需要这个负值。
const NoDelay time.Duration = -1

// Surface 是可逐单位追加的显示表面。只读表面（窗口记录区）在追加期间
// 通过 Unlock 打开写入，结束后 Lock 恢复只读；终端表面两者皆为空操作。
type Surface interface {
	Append(unit string) error
	Flush() error
	Unlock()
	Lock()
}

// Renderer 执行逐单位输出。Sleep 为空时使用 time.Sleep。
type Renderer struct {
	Sleep func(time.Duration)
}

// Render 使用默认 Renderer。
func Render(s Surface, text string, delay time.Duration) error {
	return Renderer{}.Render(s, text, delay)
}

// Render 解锁表面，逐单位追加并刷新，之后追加 Separator。
// 任何路径（包括错误与 panic）退出时表面都会被重新锁定。
func (r Renderer) Render(s Surface, text string, delay time.Duration) error {
	sleep := r.Sleep
	if sleep == nil {
		sleep = time.Sleep
	}

	s.Unlock()
	defer s.Lock()

	for _, unit := range Units(text) {
		if err := emit(s, unit); err != nil {
			return err
		}
		if delay > 0 {
			sleep(delay)
		}
	}
	return emit(s, Separator)
}

func emit(s Surface, unit string) error {
	if err := s.Append(unit); err != nil {
		return fmt.Errorf("append %q: %w", unit, err)
	}
	if err := s.Flush(); err != nil {
		return fmt.Errorf("flush: %w", err)
	}
	return nil
}

// Units 把文本切分为扩展字形簇；ASCII 文本中一个单位即一个字符。
func Units(text string) []string {
	if text == "" {
		return nil
	}
	units := make([]string, 0, len(text))
	g := uniseg.NewGraphemes(text)
	for g.Next() {
		units = append(units, g.Str())
	}
	return units
}

// Stepper 供事件循环驱动的表面使用：每次 tick 取出一个单位，
// 最后一个单位是 Separator。
type Stepper struct {
	units []string
	pos   int
}

func NewStepper(text string) *Stepper {
	units := append(Units(text), Separator)
	return &Stepper{units: units}
}

// Next 返回下一个单位；全部取完后 ok 为 false。
func (s *Stepper) Next() (unit string, ok bool) {
	if s == nil || s.pos >= len(s.units) {
		return "", false
	}
	unit = s.units[s.pos]
	s.pos++
	return unit, true
}

func (s *Stepper) Done() bool {
	return s == nil || s.pos >= len(s.units)
}

// Remaining 返回尚未取出的单位数（含 Separator）。
func (s *Stepper) Remaining() int {
	if s == nil {
		return 0
	}
	return len(s.units) - s.pos
}

// WriterSurface 把 io.Writer 包装为终端表面。
type WriterSurface struct {
	w *bufio.Writer
}

func NewWriterSurface(w io.Writer) *WriterSurface {
	return &WriterSurface{w: bufio.NewWriter(w)}
}

func (s *WriterSurface) Append(unit string) error {
	_, err := s.w.WriteString(unit)
	return err
}

func (s *WriterSurface) Flush() error { return s.w.Flush() }

func (s *WriterSurface) Unlock() {}

func (s *WriterSurface) Lock() {}
