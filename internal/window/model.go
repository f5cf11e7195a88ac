// Package window 实现全屏窗口模式：输入框、Send 按钮、只读记录区与状态行。
// 所有界面状态由 bubbletea 的单一 Update 循环持有，后端调用在事件管理器中进行。
package window

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"helios-cli/internal/events"
	"helios-cli/internal/i18n"
	"helios-cli/internal/logger"
	"helios-cli/internal/progress"
	"helios-cli/internal/typewriter"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var log = logger.Named("window")

// Gateway 抽象事件管理器的提交与订阅能力。
type Gateway interface {
	Submit(ctx context.Context, text string) (string, error)
	Busy() bool
	Subscribe() <-chan events.Event
}

type Options struct {
	Context   context.Context
	Gateway   Gateway
	Messages  i18n.Messages
	Model     string
	ExitWords []string

	TypingDelay     time.Duration
	FarewellDelay   time.Duration
	SpinnerInterval time.Duration
	PhaseInterval   time.Duration
	// SplashHold 与 LoadingSteps 以阶段 tick 计数。
	SplashHold   int
	LoadingSteps int

	Clock     func() time.Time
	Clipboard func(string) error
}

type focusTarget int

const (
	focusField focusTarget = iota
	focusButton
)

type turnEventMsg struct {
	Event events.Event
}

type typeTickMsg struct {
	gen int
}

type clipboardMsg struct {
	err error
}

type Model struct {
	opts Options
	msgs i18n.Messages
	ctx  context.Context

	phases     phaseMachine
	input      textinput.Model
	viewport   viewport.Model
	spin       spinner.Model
	status     statusLabel
	transcript *Transcript
	focus      focusTarget
	hints      []slashCommand

	gateway   Gateway
	eventsSub <-chan events.Event
	activeSub string
	pending   bool

	// stepper 非空表示正在逐单位输出；typeGen 使旧的 tick 失效。
	stepper      *typewriter.Stepper
	typeGen      int
	currentDelay time.Duration
	lastReply    string

	rendered      string
	renderedWidth int

	quitting bool
	done     bool
	width    int
	height   int
}

func New(opts Options) *Model {
	if opts.Context == nil {
		opts.Context = context.Background()
	}
	if opts.Messages.Prompt == "" {
		opts.Messages = i18n.For(i18n.DefaultLanguage)
	}
	if len(opts.ExitWords) == 0 {
		opts.ExitWords = []string{"exit", "quit", "q"}
	}
	opts.TypingDelay = resolveDelay(opts.TypingDelay, 10*time.Millisecond)
	opts.FarewellDelay = resolveDelay(opts.FarewellDelay, time.Millisecond)
	if opts.SpinnerInterval <= 0 {
		opts.SpinnerInterval = progress.DefaultInterval
	}
	if opts.PhaseInterval <= 0 {
		opts.PhaseInterval = DefaultPhaseInterval
	}
	if opts.Clipboard == nil {
		opts.Clipboard = clipboard.WriteAll
	}

	ti := textinput.New()
	ti.Placeholder = opts.Messages.Placeholder
	ti.Prompt = "› "
	ti.CharLimit = 0
	ti.Width = 60

	vp := viewport.New(80, 12)

	m := &Model{
		opts:       opts,
		msgs:       opts.Messages,
		ctx:        opts.Context,
		phases:     newPhaseMachine(opts.SplashHold, opts.LoadingSteps),
		input:      ti,
		viewport:   vp,
		spin:       newSpinner(opts.SpinnerInterval),
		status:     newStatusLabel(opts.Clock),
		transcript: NewTranscript(),
		gateway:    opts.Gateway,
		width:      80,
		height:     24,
	}
	if opts.Gateway != nil {
		m.eventsSub = opts.Gateway.Subscribe()
	}
	return m
}

// newSpinner 每个 turn 新建一个 spinner：新的 ID 让上一轮残留的 tick 被丢弃。
func newSpinner(interval time.Duration) spinner.Model {
	return spinner.New(
		spinner.WithSpinner(spinner.Spinner{Frames: progress.DefaultFrames, FPS: interval}),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(accent)),
	)
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.listenEvents(), m.phaseTick())
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m.finish(cmds...)
	case phaseTickMsg:
		if m.phases.phase == PhaseReady {
			return m.finish(cmds...)
		}
		if m.phases.advance() && m.phases.phase == PhaseReady {
			cmds = append(cmds, m.enterReady())
			return m.finish(cmds...)
		}
		cmds = append(cmds, m.phaseTick())
		return m.finish(cmds...)
	case spinner.TickMsg:
		if m.status.kind != statusThinking {
			return m.finish(cmds...)
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		cmds = append(cmds, cmd)
		return m.finish(cmds...)
	case typeTickMsg:
		if msg.gen != m.typeGen {
			return m.finish(cmds...)
		}
		cmds = append(cmds, m.typeStep())
		return m.finish(cmds...)
	case turnEventMsg:
		cmds = append(cmds, m.handleTurnEvent(msg.Event), m.listenEvents())
		return m.finish(cmds...)
	case clipboardMsg:
		if msg.err != nil {
			log.Warnf("copy to clipboard: %v", msg.err)
			m.status.notice(fmt.Sprintf(m.msgs.CopyFailed, msg.err))
		} else {
			m.status.notice(m.msgs.Copied)
		}
		return m.finish(cmds...)
	case tea.MouseMsg:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		cmds = append(cmds, cmd)
		return m.finish(cmds...)
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			if m.quitting {
				m.done = true
				return m, tea.Quit
			}
			cmds = append(cmds, m.beginQuit(m.msgs.Interrupted))
			return m.finish(cmds...)
		}
		if m.phases.phase != PhaseReady {
			switch msg.Type {
			case tea.KeyEnter, tea.KeyEsc, tea.KeySpace:
				m.phases.skip()
				cmds = append(cmds, m.enterReady())
			}
			return m.finish(cmds...)
		}
		if m.quitting {
			return m.finish(cmds...)
		}
		switch msg.String() {
		case "tab", "shift+tab":
			cmds = append(cmds, m.toggleFocus())
			return m.finish(cmds...)
		case "enter":
			cmds = append(cmds, m.submit())
			return m.finish(cmds...)
		case "pgup", "pgdown", "up", "down":
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			cmds = append(cmds, cmd)
			return m.finish(cmds...)
		}
		if m.focus != focusField {
			return m.finish(cmds...)
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		m.hints = suggestCommands(m.input.Value())
		cmds = append(cmds, cmd)
		return m.finish(cmds...)
	}

	return m.finish(cmds...)
}

func (m *Model) finish(cmds ...tea.Cmd) (tea.Model, tea.Cmd) {
	m.refreshTranscript()
	return m, tea.Batch(cmds...)
}

// Phase 返回当前窗口阶段。
func (m *Model) Phase() Phase {
	return m.phases.phase
}

// Transcript 返回记录区文本。
func (m *Model) Transcript() string {
	return m.transcript.String()
}

// Busy 报告是否有 turn 在处理或回复仍在输出。
func (m *Model) Busy() bool {
	return m.pending || m.stepper != nil
}

func (m *Model) phaseTick() tea.Cmd {
	return tea.Tick(m.opts.PhaseInterval, func(time.Time) tea.Msg { return phaseTickMsg{} })
}

func (m *Model) typeTick(delay time.Duration) tea.Cmd {
	gen := m.typeGen
	return tea.Tick(delay, func(time.Time) tea.Msg { return typeTickMsg{gen: gen} })
}

func (m *Model) enterReady() tea.Cmd {
	m.focus = focusField
	m.status.idle()
	return m.input.Focus()
}

func (m *Model) toggleFocus() tea.Cmd {
	if m.focus == focusField {
		m.focus = focusButton
		m.input.Blur()
		return nil
	}
	m.focus = focusField
	return m.input.Focus()
}

// submit 处理 Enter 或 Send：退出词关闭窗口，斜杠命令本地执行，
// 其余输入在忙碌时被拒绝。
func (m *Model) submit() tea.Cmd {
	text := strings.TrimSpace(m.input.Value())
	if text == "" {
		return nil
	}
	if m.isExit(text) {
		m.input.Reset()
		return m.beginQuit(m.msgs.Farewell)
	}
	if strings.HasPrefix(text, "/") {
		if cmd, ok := lookupCommand(text); ok && cmd.EditsTranscript && m.Busy() {
			m.status.notice(m.msgs.Busy)
			return nil
		}
		m.input.Reset()
		m.hints = nil
		return m.runCommand(text)
	}
	if m.Busy() {
		m.status.notice(m.msgs.Busy)
		return nil
	}
	if m.gateway == nil {
		m.transcript.WriteLine(m.msgs.ErrorPrefix + m.msgs.NoBackend)
		return nil
	}

	id, err := m.gateway.Submit(m.ctx, text)
	if err != nil {
		if errors.Is(err, events.ErrBusy) {
			m.status.notice(m.msgs.Busy)
			return nil
		}
		log.Errorf("submit: %v", err)
		m.transcript.WriteLine(m.msgs.ErrorPrefix + err.Error())
		return nil
	}
	m.transcript.WriteLine(m.msgs.Prompt + text)
	m.input.Reset()
	m.hints = nil
	m.activeSub = id
	m.pending = true
	m.status.startThinking()
	m.spin = newSpinner(m.opts.SpinnerInterval)
	return m.spin.Tick
}

func (m *Model) runCommand(text string) tea.Cmd {
	cmd, ok := lookupCommand(text)
	if !ok {
		m.status.notice(fmt.Sprintf(m.msgs.UnknownCommand, strings.Fields(text)[0]))
		return nil
	}
	switch cmd.Name {
	case cmdClear:
		m.transcript.Reset()
		m.lastReply = ""
		m.status.idle()
	case cmdCopy:
		if m.lastReply == "" {
			m.status.notice(m.msgs.NothingToCopy)
			return nil
		}
		reply, write := m.lastReply, m.opts.Clipboard
		return func() tea.Msg { return clipboardMsg{err: write(reply)} }
	case cmdHelp:
		hints := renderCommandHints(slashCommands, m.msgs)
		if m.Busy() {
			// 回复正在写入记录区，帮助改放到状态行。
			m.status.notice(hints)
			return nil
		}
		m.transcript.WriteLine(hints)
	case cmdExit:
		return m.beginQuit(m.msgs.Farewell)
	}
	return nil
}

func (m *Model) handleTurnEvent(ev events.Event) tea.Cmd {
	if ev.SubmissionID == "" || ev.SubmissionID != m.activeSub {
		return nil
	}
	switch ev.Type {
	case events.EventTurnReply:
		reply, ok := ev.Payload.(events.TurnReply)
		if !ok {
			return nil
		}
		m.status.stopThinking(reply.Elapsed)
		if m.quitting {
			return nil
		}
		m.lastReply = reply.Text
		return m.startTyping(reply.Text, m.opts.TypingDelay)
	case events.EventTurnError:
		m.status.stopThinking(0)
		m.transcript.WriteLine(fmt.Sprintf("%s%v", m.msgs.ErrorPrefix, ev.Payload))
	case events.EventTurnCompleted:
		m.pending = false
		m.activeSub = ""
		m.status.stopThinking(0)
	}
	return nil
}

// startTyping 开始逐单位输出。正在输出的文本会被收尾并作废。
func (m *Model) startTyping(text string, delay time.Duration) tea.Cmd {
	if m.stepper != nil {
		_ = m.transcript.Append(typewriter.Separator)
		m.transcript.Lock()
	}
	m.stepper = typewriter.NewStepper(text)
	m.transcript.Unlock()
	m.typeGen++
	m.currentDelay = delay
	return m.typeTick(delay)
}

func (m *Model) typeStep() tea.Cmd {
	unit, ok := m.stepper.Next()
	if ok {
		if err := m.transcript.Append(unit); err != nil {
			log.Warnf("typewriter append: %v", err)
		}
	}
	if !m.stepper.Done() {
		return m.typeTick(m.currentDelay)
	}

	// 每个回复后留一个空行。
	_ = m.transcript.Append("\n")
	m.transcript.Lock()
	m.stepper = nil
	if m.quitting {
		m.done = true
		return tea.Quit
	}
	return nil
}

// beginQuit 以打字机效果输出告别语，输出完毕后退出程序。
func (m *Model) beginQuit(text string) tea.Cmd {
	m.quitting = true
	m.input.Blur()
	m.hints = nil
	if m.phases.phase != PhaseReady {
		m.phases.skip()
	}
	return m.startTyping(text, m.opts.FarewellDelay)
}

func (m *Model) isExit(text string) bool {
	for _, word := range m.opts.ExitWords {
		if strings.EqualFold(text, word) {
			return true
		}
	}
	return false
}

func (m *Model) listenEvents() tea.Cmd {
	if m.eventsSub == nil {
		return nil
	}
	ch := m.eventsSub
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return nil
		}
		return turnEventMsg{Event: ev}
	}
}

func (m *Model) resize(width, height int) {
	m.width = maxInt(20, width)
	m.height = maxInt(10, height)
	m.viewport.Width = maxInt(10, m.width-4)
	m.viewport.Height = maxInt(3, m.height-chromeHeight)
	buttonWidth := lipgloss.Width(buttonStyle.Render(m.msgs.Send))
	m.input.Width = maxInt(10, m.width-buttonWidth-6-lipgloss.Width(m.input.Prompt))
}

// refreshTranscript 仅在内容或宽度变化时重绘并滚动到底部，保留用户的滚动位置。
func (m *Model) refreshTranscript() {
	raw := m.transcript.String()
	if raw == m.rendered && m.viewport.Width == m.renderedWidth {
		return
	}
	m.rendered, m.renderedWidth = raw, m.viewport.Width
	m.viewport.SetContent(lipgloss.NewStyle().Width(m.viewport.Width).Render(raw))
	m.viewport.GotoBottom()
}
