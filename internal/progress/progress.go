// Package progress 实现等待后端期间的“thinking”指示器：后台 goroutine 按固定周期
// 刷新旋转字形，Stop 时输出耗时汇总。
package progress

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/mattn/go-runewidth"
)

// DefaultFrames 是默认的旋转字形。
var DefaultFrames = []string{"|", "/", "-", "\\"}

const (
	DefaultInterval = 100 * time.Millisecond
	DefaultLabel    = "thinking"
	DefaultSummary  = "thought for %.1f seconds"
)

// Options 控制指示器的外观与时序。
type Options struct {
	Interval time.Duration
	Frames   []string
	Label    string
	// Summary 为 fmt 格式串，参数为耗时秒数。
	Summary string
	// Static 关闭动画：只在开始时输出一行标签，适用于非终端输出。
	Static bool
	Clock  func() time.Time
}

func (o Options) withDefaults() Options {
	if o.Interval <= 0 {
		o.Interval = DefaultInterval
	}
	if len(o.Frames) == 0 {
		o.Frames = DefaultFrames
	}
	if o.Label == "" {
		o.Label = DefaultLabel
	}
	if o.Summary == "" {
		o.Summary = DefaultSummary
	}
	if o.Clock == nil {
		o.Clock = time.Now
	}
	return o
}

// Handle 代表一次正在运行的指示器。同一时刻最多存在一个。
type Handle struct {
	opts  Options
	w     io.Writer
	start time.Time

	// mu 串行化所有写入：帧写入前检查 stopped，Stop 在持锁期间置位并输出汇总，
	// 因此汇总行之后不会再出现任何帧。
	mu        sync.Mutex
	stopped   bool
	elapsed   time.Duration
	lastWidth int

	stop chan struct{}
	done chan struct{}
}

// Start 启动指示器并立即返回，调用方随后可以执行阻塞调用。
func Start(w io.Writer, opts Options) *Handle {
	opts = opts.withDefaults()
	h := &Handle{
		opts:  opts,
		w:     w,
		start: opts.Clock(),
		stop:  make(chan struct{}),
		done:  make(chan struct{}),
	}
	if opts.Static {
		h.write(opts.Label + "…\n")
		close(h.done)
		return h
	}
	go h.run()
	return h
}

// Stop 终止后台刷新并输出耗时汇总，返回 Start 以来的耗时。
// 重复调用是安全的，只有第一次会输出。
func (h *Handle) Stop() time.Duration {
	h.mu.Lock()
	if h.stopped {
		elapsed := h.elapsed
		h.mu.Unlock()
		return elapsed
	}
	h.stopped = true
	close(h.stop)
	h.elapsed = h.opts.Clock().Sub(h.start)
	summary := fmt.Sprintf(h.opts.Summary, h.elapsed.Seconds())
	if h.opts.Static {
		h.write(summary + "\n\n")
	} else {
		h.write("\r" + padTo(summary, h.lastWidth) + "\n\n")
	}
	elapsed := h.elapsed
	h.mu.Unlock()

	<-h.done
	return elapsed
}

// Done 在后台 goroutine 退出后关闭。
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

func (h *Handle) run() {
	defer close(h.done)
	ticker := time.NewTicker(h.opts.Interval)
	defer ticker.Stop()

	for i := 0; ; i++ {
		if !h.frame(i) {
			return
		}
		select {
		case <-h.stop:
			return
		case <-ticker.C:
		}
	}
}

func (h *Handle) frame(i int) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.stopped {
		return false
	}
	text := h.opts.Label + " " + h.opts.Frames[i%len(h.opts.Frames)]
	h.lastWidth = runewidth.StringWidth(text)
	h.write("\r" + text)
	return true
}

func (h *Handle) write(s string) {
	_, _ = io.WriteString(h.w, s)
	if f, ok := h.w.(interface{ Flush() error }); ok {
		_ = f.Flush()
	}
}

// padTo 用空格补齐，覆盖掉上一帧残留的字符。
func padTo(s string, width int) string {
	if gap := width - runewidth.StringWidth(s); gap > 0 {
		return s + strings.Repeat(" ", gap)
	}
	return s
}
