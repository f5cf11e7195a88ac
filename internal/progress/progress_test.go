package progress

import (
	"strings"
	"sync"
	"testing"
	"time"
)

type recorder struct {
	mu     sync.Mutex
	writes []string
}

func (r *recorder) Write(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.writes = append(r.writes, string(p))
	return len(p), nil
}

func (r *recorder) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.writes...)
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func TestStopWritesElapsedLineLast(t *testing.T) {
	rec := &recorder{}
	clock := &fakeClock{now: time.Unix(0, 0)}
	h := Start(rec, Options{Interval: 2 * time.Millisecond, Clock: clock.Now})

	time.Sleep(20 * time.Millisecond)
	clock.Advance(2500 * time.Millisecond)
	elapsed := h.Stop()
	if elapsed != 2500*time.Millisecond {
		t.Fatalf("elapsed = %v", elapsed)
	}

	countAtStop := len(rec.snapshot())
	time.Sleep(20 * time.Millisecond)
	writes := rec.snapshot()
	if len(writes) != countAtStop {
		t.Fatalf("frames written after stop: %q", writes[countAtStop:])
	}
	if len(writes) < 2 {
		t.Fatalf("expected at least one frame before summary, got %q", writes)
	}
	last := writes[len(writes)-1]
	if !strings.HasPrefix(last, "\rthought for 2.5 seconds") || !strings.HasSuffix(last, "\n\n") {
		t.Fatalf("last write = %q", last)
	}
	for _, w := range writes[:len(writes)-1] {
		if !strings.HasPrefix(w, "\rthinking ") {
			t.Fatalf("unexpected frame %q", w)
		}
	}
}

func TestFramesCycleGlyphs(t *testing.T) {
	rec := &recorder{}
	h := Start(rec, Options{Interval: time.Millisecond})
	deadline := time.Now().Add(2 * time.Second)
	for len(rec.snapshot()) < 5 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	h.Stop()

	writes := rec.snapshot()
	if len(writes) < 5 {
		t.Fatalf("expected 4 frames, got %q", writes)
	}
	want := []string{"\rthinking |", "\rthinking /", "\rthinking -", "\rthinking \\"}
	for i, w := range want {
		if writes[i] != w {
			t.Fatalf("frame %d = %q, want %q", i, writes[i], w)
		}
	}
}

func TestStopIsIdempotent(t *testing.T) {
	rec := &recorder{}
	h := Start(rec, Options{Interval: time.Millisecond})
	first := h.Stop()
	second := h.Stop()
	if first != second {
		t.Fatalf("second stop returned %v, first %v", second, first)
	}
	summaries := 0
	for _, w := range rec.snapshot() {
		if strings.Contains(w, "thought for") {
			summaries++
		}
	}
	if summaries != 1 {
		t.Fatalf("summary written %d times", summaries)
	}
	select {
	case <-h.Done():
	default:
		t.Fatal("Done not closed after Stop")
	}
}

func TestStaticMode(t *testing.T) {
	rec := &recorder{}
	clock := &fakeClock{now: time.Unix(0, 0)}
	h := Start(rec, Options{Static: true, Label: "working", Clock: clock.Now})
	clock.Advance(1300 * time.Millisecond)
	h.Stop()

	got := strings.Join(rec.snapshot(), "")
	want := "working…\nthought for 1.3 seconds\n\n"
	if got != want {
		t.Fatalf("output = %q, want %q", got, want)
	}
}

func TestSummaryCoversLongerFrame(t *testing.T) {
	rec := &recorder{}
	h := Start(rec, Options{
		Interval: time.Millisecond,
		Label:    "thinking very hard about it",
		Summary:  "done %.0f",
	})
	for len(rec.snapshot()) == 0 {
		time.Sleep(time.Millisecond)
	}
	h.Stop()

	writes := rec.snapshot()
	last := writes[len(writes)-1]
	frameWidth := len("thinking very hard about it |")
	if len(strings.TrimSuffix(strings.TrimPrefix(last, "\r"), "\n\n")) != frameWidth {
		t.Fatalf("summary %q not padded to %d", last, frameWidth)
	}
}
