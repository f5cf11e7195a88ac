package events

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrBusy 表示已有 turn 正在处理，新的提交被拒绝。
	ErrBusy = errors.New("a turn is already in flight")
	// ErrEmptySubmission 表示提交文本为空白。
	ErrEmptySubmission = errors.New("empty submission")
)

// Handler 处理 Submission 并通过 EventPublisher 发出事件。
type Handler interface {
	Handle(ctx context.Context, submission Submission, emit EventPublisher) error
}

// HandlerFunc 让函数实现 Handler。
type HandlerFunc func(ctx context.Context, submission Submission, emit EventPublisher) error

func (f HandlerFunc) Handle(ctx context.Context, submission Submission, emit EventPublisher) error {
	return f(ctx, submission, emit)
}

// EventPublisher 抽象 EQ，便于解耦。
type EventPublisher interface {
	Publish(ctx context.Context, event Event) error
}

// ManagerConfig 定义事件管理器参数。
type ManagerConfig struct {
	EventBuffer int
	SQLogPath   string
	EQLogPath   string
	Clock       func() time.Time
}

func (cfg ManagerConfig) withDefaults() ManagerConfig {
	if cfg.EventBuffer == 0 {
		cfg.EventBuffer = 16
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	return cfg
}

// Manager 协调 SQ/EQ：单个 worker 串行处理提交，同一时刻至多一个 turn。
type Manager struct {
	queue   *SubmissionQueue
	events  *EventQueue
	handler Handler
	clock   func() time.Time

	// pending 在 Submit 接受提交时置位，在 turn 完成事件发出前清零。
	pending atomic.Bool

	startOnce sync.Once
	stopOnce  sync.Once
	cancel    context.CancelFunc
	wg        sync.WaitGroup

	sqLogCloser io.Closer
	eqLogCloser io.Closer
}

// NewManager 创建新的事件管理器。空的日志路径表示写入全局 logger。
func NewManager(cfg ManagerConfig, handler Handler) *Manager {
	cfg = cfg.withDefaults()

	sqLog, sqCloser := newQueueLogger("sq", cfg.SQLogPath)
	eqLog, eqCloser := newQueueLogger("eq", cfg.EQLogPath)

	queue := NewSubmissionQueue(1)
	queue.SetLogger(sqLog)
	events := NewEventQueue(cfg.EventBuffer)
	events.SetLogger(eqLog)

	return &Manager{
		queue:       queue,
		events:      events,
		handler:     handler,
		clock:       cfg.Clock,
		sqLogCloser: sqCloser,
		eqLogCloser: eqCloser,
	}
}

// Start 启动后台 worker。
func (m *Manager) Start(ctx context.Context) {
	m.startOnce.Do(func() {
		runCtx, cancel := context.WithCancel(ctx)
		m.cancel = cancel
		m.wg.Add(1)
		go m.worker(runCtx)
	})
}

// Close 停止接收提交，等待进行中的 turn 结束后关闭 EQ。
func (m *Manager) Close() {
	m.stopOnce.Do(func() {
		if m.Busy() {
			log.Info("waiting for in-flight turn before shutdown")
		}
		m.queue.Close()
		m.wg.Wait()
		if m.cancel != nil {
			m.cancel()
		}
		m.events.Close()
		if m.sqLogCloser != nil {
			_ = m.sqLogCloser.Close()
		}
		if m.eqLogCloser != nil {
			_ = m.eqLogCloser.Close()
		}
	})
}

// Subscribe 订阅事件。
func (m *Manager) Subscribe() <-chan Event {
	return m.events.Subscribe()
}

// Busy 报告是否有 turn 尚未完成。
func (m *Manager) Busy() bool {
	return m.pending.Load()
}

// Submit 将用户文本放入 SQ，返回提交 ID。已有 turn 在处理时返回 ErrBusy。
func (m *Manager) Submit(ctx context.Context, text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrEmptySubmission
	}
	if !m.pending.CompareAndSwap(false, true) {
		return "", ErrBusy
	}
	sub := Submission{
		ID:        uuid.NewString(),
		Text:      text,
		Timestamp: m.clock(),
	}
	if err := m.queue.Submit(ctx, sub); err != nil {
		m.pending.Store(false)
		return "", err
	}
	_ = m.events.Publish(ctx, Event{
		Type:         EventSubmissionAccepted,
		SubmissionID: sub.ID,
		Timestamp:    m.clock(),
	})
	return sub.ID, nil
}

func (m *Manager) worker(ctx context.Context) {
	defer m.wg.Done()
	for {
		sub, err := m.queue.Receive(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, ErrSubmissionQueueClosed) {
				return
			}
			continue
		}
		m.runTurn(ctx, sub)
	}
}

// runTurn 处理一次提交。事件使用不可取消的 ctx 发布，保证完成事件总能送达。
func (m *Manager) runTurn(ctx context.Context, sub Submission) {
	publishCtx := context.WithoutCancel(ctx)
	started := m.clock()
	m.publish(publishCtx, EventTurnStarted, sub, nil)

	err := m.handle(ctx, sub)
	result := TurnResult{Status: "completed", Elapsed: m.clock().Sub(started)}
	if err != nil {
		result.Status = "failed"
		result.Error = err.Error()
		m.publish(publishCtx, EventTurnError, sub, err.Error())
	}
	m.pending.Store(false)
	m.publish(publishCtx, EventTurnCompleted, sub, result)
}

func (m *Manager) handle(ctx context.Context, sub Submission) (err error) {
	defer func() {
		if r := recover(); r != nil {
			log.WithField("submission_id", sub.ID).Errorf("turn handler panic: %v", r)
			err = fmt.Errorf("turn handler panic: %v", r)
		}
	}()
	if m.handler == nil {
		return errors.New("no turn handler configured")
	}
	return m.handler.Handle(ctx, sub, m.events)
}

func (m *Manager) publish(ctx context.Context, typ EventType, sub Submission, payload any) {
	_ = m.events.Publish(ctx, Event{
		Type:         typ,
		SubmissionID: sub.ID,
		Timestamp:    m.clock(),
		Payload:      payload,
		Metadata:     sub.Metadata,
	})
}
