package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"helios-cli/internal/backend"
)

func TestSubmissionQueueSubmitReceive(t *testing.T) {
	q := NewSubmissionQueue(2)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if err := q.Submit(ctx, Submission{ID: "s1", Text: "a"}); err != nil {
		t.Fatalf("submit s1: %v", err)
	}
	if err := q.Submit(ctx, Submission{ID: "s2", Text: "b"}); err != nil {
		t.Fatalf("submit s2: %v", err)
	}

	for _, want := range []string{"s1", "s2"} {
		got, err := q.Receive(ctx)
		if err != nil {
			t.Fatalf("receive %s: %v", want, err)
		}
		if got.ID != want {
			t.Fatalf("expected %s, got %s", want, got.ID)
		}
	}

	q.Close()
	if _, err := q.Receive(ctx); !errors.Is(err, ErrSubmissionQueueClosed) {
		t.Fatalf("expected ErrSubmissionQueueClosed, got %v", err)
	}
	if err := q.Submit(ctx, Submission{ID: "s3"}); !errors.Is(err, ErrSubmissionQueueClosed) {
		t.Fatalf("expected submit after close to fail, got %v", err)
	}
}

func TestEventQueueFanout(t *testing.T) {
	q := NewEventQueue(4)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	sub1 := q.Subscribe()
	sub2 := q.Subscribe()

	ev := Event{Type: EventTurnReply, SubmissionID: "s", Timestamp: time.Now()}
	if err := q.Publish(ctx, ev); err != nil {
		t.Fatalf("publish: %v", err)
	}

	for i, sub := range []<-chan Event{sub1, sub2} {
		select {
		case got := <-sub:
			if got.Type != ev.Type || got.SubmissionID != ev.SubmissionID {
				t.Fatalf("subscriber%d got %+v", i+1, got)
			}
		case <-ctx.Done():
			t.Fatalf("timeout waiting subscriber%d", i+1)
		}
	}

	q.Close()
	if err := q.Publish(ctx, ev); !errors.Is(err, ErrEventQueueClosed) {
		t.Fatalf("expected ErrEventQueueClosed, got %v", err)
	}
	if _, ok := <-sub1; ok {
		t.Fatal("expected subscriber channel closed")
	}
}

func TestEventQueueReportsDrops(t *testing.T) {
	q := NewEventQueue(1)
	_ = q.Subscribe()
	ctx := context.Background()
	if err := q.Publish(ctx, Event{Type: EventTurnStarted}); err != nil {
		t.Fatalf("first publish: %v", err)
	}
	if err := q.Publish(ctx, Event{Type: EventTurnCompleted}); !errors.Is(err, ErrEventDropped) {
		t.Fatalf("expected ErrEventDropped, got %v", err)
	}
}

type stubReplier struct {
	reply backend.Reply
	gate  chan struct{}
	calls int
}

func (s *stubReplier) Invoke(ctx context.Context, userText string) backend.Reply {
	s.calls++
	if s.gate != nil {
		<-s.gate
	}
	r := s.reply
	if r.Text == "" {
		r.Text = "echo: " + userText
	}
	return r
}

func collectTurn(t *testing.T, ctx context.Context, ch <-chan Event, id string) []Event {
	t.Helper()
	var got []Event
	for {
		select {
		case <-ctx.Done():
			t.Fatalf("timeout waiting for events, got %+v", got)
		case ev := <-ch:
			if ev.SubmissionID != id {
				continue
			}
			got = append(got, ev)
			if ev.Type == EventTurnCompleted {
				return got
			}
		}
	}
}

func newTestManager(h Handler) *Manager {
	return NewManager(ManagerConfig{EventBuffer: 8}, h)
}

func TestManagerTurnFlow(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	replier := &stubReplier{reply: backend.Reply{Kind: backend.KindOK}}
	mgr := newTestManager(TurnHandler(replier))
	defer mgr.Close()
	mgr.Start(ctx)

	events := mgr.Subscribe()
	id, err := mgr.Submit(ctx, "  hello ")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	got := collectTurn(t, ctx, events, id)

	// submission.accepted 与 worker 的事件并发发布，只校验 turn 事件的顺序。
	var types []EventType
	var turn []Event
	for _, ev := range got {
		if ev.Type == EventSubmissionAccepted {
			continue
		}
		types = append(types, ev.Type)
		turn = append(turn, ev)
	}
	want := []EventType{EventTurnStarted, EventTurnReply, EventTurnCompleted}
	if len(types) != len(want) {
		t.Fatalf("event types = %v, want %v", types, want)
	}
	for i := range want {
		if types[i] != want[i] {
			t.Fatalf("event types = %v, want %v", types, want)
		}
	}

	reply, ok := turn[1].Payload.(TurnReply)
	if !ok {
		t.Fatalf("unexpected payload type %T", turn[1].Payload)
	}
	if reply.Text != "echo: hello" || reply.Kind != "ok" {
		t.Fatalf("unexpected reply %+v", reply)
	}
	result, ok := turn[2].Payload.(TurnResult)
	if !ok || result.Status != "completed" {
		t.Fatalf("unexpected result %+v", turn[2].Payload)
	}
	if mgr.Busy() {
		t.Fatal("manager still busy after completion")
	}
}

func TestManagerRejectsWhileBusy(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	replier := &stubReplier{gate: make(chan struct{})}
	mgr := newTestManager(TurnHandler(replier))
	defer mgr.Close()
	mgr.Start(ctx)
	events := mgr.Subscribe()

	id, err := mgr.Submit(ctx, "first")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if !mgr.Busy() {
		t.Fatal("expected busy after submit")
	}
	if _, err := mgr.Submit(ctx, "second"); !errors.Is(err, ErrBusy) {
		t.Fatalf("expected ErrBusy, got %v", err)
	}

	close(replier.gate)
	collectTurn(t, ctx, events, id)

	if _, err := mgr.Submit(ctx, "third"); err != nil {
		t.Fatalf("submit after completion: %v", err)
	}
}

func TestManagerRejectsEmpty(t *testing.T) {
	mgr := newTestManager(nil)
	defer mgr.Close()
	if _, err := mgr.Submit(context.Background(), "   "); !errors.Is(err, ErrEmptySubmission) {
		t.Fatalf("expected ErrEmptySubmission, got %v", err)
	}
	if mgr.Busy() {
		t.Fatal("empty submission must not mark busy")
	}
}

func TestManagerRecoversHandlerPanic(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	mgr := newTestManager(HandlerFunc(func(context.Context, Submission, EventPublisher) error {
		panic("boom")
	}))
	defer mgr.Close()
	mgr.Start(ctx)
	events := mgr.Subscribe()

	id, err := mgr.Submit(ctx, "hi")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	got := collectTurn(t, ctx, events, id)

	var sawError bool
	for _, ev := range got {
		if ev.Type == EventTurnError {
			sawError = true
		}
	}
	if !sawError {
		t.Fatalf("expected turn.error event, got %+v", got)
	}
	result := got[len(got)-1].Payload.(TurnResult)
	if result.Status != "failed" || result.Error == "" {
		t.Fatalf("unexpected result %+v", result)
	}
	if mgr.Busy() {
		t.Fatal("manager still busy after panic")
	}
}

func TestManagerCloseWaitsForTurn(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	started := make(chan struct{})
	release := make(chan struct{})
	finished := false
	mgr := newTestManager(HandlerFunc(func(context.Context, Submission, EventPublisher) error {
		close(started)
		<-release
		finished = true
		return nil
	}))
	mgr.Start(ctx)
	if _, err := mgr.Submit(ctx, "slow"); err != nil {
		t.Fatalf("submit: %v", err)
	}
	<-started

	closed := make(chan struct{})
	go func() {
		mgr.Close()
		close(closed)
	}()
	select {
	case <-closed:
		t.Fatal("Close returned while a turn was in flight")
	case <-time.After(20 * time.Millisecond):
	}
	close(release)
	select {
	case <-closed:
	case <-ctx.Done():
		t.Fatal("Close did not return")
	}
	if !finished {
		t.Fatal("turn did not finish")
	}
}
