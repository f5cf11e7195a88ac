// Package session 实现终端模式的会话循环：读取一行输入，显示 thinking 指示器，
// 阻塞调用后端，再以打字机效果输出回复。
package session

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"helios-cli/internal/backend"
	"helios-cli/internal/i18n"
	"helios-cli/internal/logger"
	"helios-cli/internal/progress"
	"helios-cli/internal/typewriter"
)

var log = logger.Named("session")

// DefaultExitWords 在去除首尾空白、忽略大小写后匹配。
var DefaultExitWords = []string{"exit", "quit", "q"}

const (
	DefaultTypingDelay   = 10 * time.Millisecond
	DefaultFarewellDelay = time.Millisecond
)

// Stopper 是正在运行的进度指示器。
type Stopper interface {
	Stop() time.Duration
}

// Options 配置一次会话。In/Out/Replier 之外的字段都有默认值。
type Options struct {
	In      io.Reader
	Out     io.Writer
	Replier backend.Replier

	Messages      i18n.Messages
	ExitWords     []string
	TypingDelay   time.Duration
	FarewellDelay time.Duration
	ShowBanner    bool

	// Progress 在每次后端调用前启动指示器；为空时使用 progress.Start。
	Progress        func(w io.Writer) Stopper
	ProgressOptions progress.Options
	Renderer        typewriter.Renderer

	OnTransition func(from, to State)
}

// Loop 是终端会话状态机，同一时刻只处理一个 turn。
type Loop struct {
	opts    Options
	surface *typewriter.WriterSurface
	turns   int

	mu    sync.Mutex
	state State
}

type line struct {
	text string
	err  error
}

// New 创建会话循环。
func New(opts Options) *Loop {
	if opts.Out == nil {
		opts.Out = io.Discard
	}
	if opts.Messages.Prompt == "" {
		opts.Messages = i18n.For(i18n.DefaultLanguage)
	}
	if len(opts.ExitWords) == 0 {
		opts.ExitWords = DefaultExitWords
	}
	opts.TypingDelay = resolveDelay(opts.TypingDelay, DefaultTypingDelay)
	opts.FarewellDelay = resolveDelay(opts.FarewellDelay, DefaultFarewellDelay)
	if opts.Progress == nil {
		popts := opts.ProgressOptions
		if popts.Label == "" {
			popts.Label = opts.Messages.Thinking
		}
		if popts.Summary == "" {
			popts.Summary = opts.Messages.Thought
		}
		opts.Progress = func(w io.Writer) Stopper { return progress.Start(w, popts) }
	}
	return &Loop{
		opts:    opts,
		surface: typewriter.NewWriterSurface(opts.Out),
		state:   AwaitingInput,
	}
}

// resolveDelay 将零值替换为默认延迟，负值（typewriter.NoDelay）表示不停顿。
func resolveDelay(d, def time.Duration) time.Duration {
	switch {
	case d == 0:
		return def
	case d < 0:
		return 0
	}
	return d
}

// State 返回当前状态。
func (l *Loop) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

func (l *Loop) transition(to State) {
	l.mu.Lock()
	from := l.state
	l.state = to
	l.mu.Unlock()
	if from != to {
		log.Debugf("state %s -> %s", from, to)
	}
	if l.opts.OnTransition != nil {
		l.opts.OnTransition(from, to)
	}
}

// Run 运行会话直到退出词、输入结束或 ctx 取消。ctx 取消不会打断进行中的
// 后端调用：当前 turn 完成后才退出。
func (l *Loop) Run(ctx context.Context) error {
	if l.opts.In == nil {
		return errors.New("session: no input reader")
	}
	if l.opts.Replier == nil {
		return errors.New("session: no replier")
	}
	msgs := l.opts.Messages
	if l.opts.ShowBanner {
		WriteReady(l.opts.Out, msgs)
	}

	done := make(chan struct{})
	defer close(done)
	lines := readLines(l.opts.In, done)

	for {
		l.transition(AwaitingInput)
		if ctx.Err() != nil {
			return l.interrupted()
		}
		fmt.Fprint(l.opts.Out, msgs.Prompt)

		var in line
		select {
		case <-ctx.Done():
			return l.interrupted()
		case in = <-lines:
		}
		if in.err != nil {
			if !errors.Is(in.err, io.EOF) {
				log.Warnf("read input: %v", in.err)
			}
			fmt.Fprintln(l.opts.Out)
			return l.farewell(msgs.Farewell)
		}

		text := strings.TrimSpace(in.text)
		if l.isExit(text) {
			return l.farewell(msgs.Farewell)
		}
		if text == "" {
			continue
		}
		if err := l.turn(ctx, text); err != nil {
			log.Errorf("turn %d failed: %v", l.turns, err)
			fmt.Fprintf(l.opts.Out, "\n%s%v\n", msgs.ErrorPrefix, err)
		}
	}
}

// turn 是故障恢复边界：返回的错误和 panic 都被转为一行诊断。
func (l *Loop) turn(ctx context.Context, text string) (err error) {
	l.turns++
	turnLog := log.WithField("turn", l.turns)
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%v", r)
		}
	}()

	l.transition(Dispatching)
	indicator := l.opts.Progress(l.opts.Out)
	defer indicator.Stop()
	reply := l.opts.Replier.Invoke(ctx, text)
	indicator.Stop()
	turnLog.WithField("kind", reply.Kind).Infof("reply in %s", reply.Elapsed.Round(time.Millisecond))

	l.transition(Rendering)
	if err := l.opts.Renderer.Render(l.surface, reply.Text, l.opts.TypingDelay); err != nil {
		return err
	}
	fmt.Fprintln(l.opts.Out)
	return nil
}

func (l *Loop) interrupted() error {
	fmt.Fprint(l.opts.Out, "\n\n")
	return l.farewell(l.opts.Messages.Interrupted)
}

func (l *Loop) farewell(text string) error {
	defer l.transition(Terminated)
	return l.opts.Renderer.Render(l.surface, text, l.opts.FarewellDelay)
}

func (l *Loop) isExit(text string) bool {
	for _, word := range l.opts.ExitWords {
		if strings.EqualFold(text, word) {
			return true
		}
	}
	return false
}

// readLines 在独立 goroutine 中读取输入，使等待输入时也能响应中断。
// 读到错误（包括 EOF）后发送一次并退出。
func readLines(r io.Reader, done <-chan struct{}) <-chan line {
	ch := make(chan line)
	go func() {
		br := bufio.NewReader(r)
		for {
			text, err := br.ReadString('\n')
			if err != nil && text != "" && errors.Is(err, io.EOF) {
				err = nil
			}
			select {
			case ch <- line{text: text, err: err}:
			case <-done:
				return
			}
			if err != nil {
				return
			}
		}
	}()
	return ch
}
