package logger

import (
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// BackendLogger 记录每一次推理后端调用的请求、结果与错误。
type BackendLogger interface {
	Request(backend, model, prompt string)
	Response(backend, model string, exitCode int, elapsed time.Duration, text string)
	Error(backend, model string, err error)
}

// BackendLog 是全局唯一的后端调用日志器实例。
var BackendLog BackendLogger = NewBackendLogger(nil)

// SetBackendLogger 覆盖全局实例，传入 nil 将重置为默认实现。
func SetBackendLogger(l BackendLogger) {
	if l == nil {
		l = NewBackendLogger(nil)
	}
	BackendLog = l
}

// StdBackendLogger 使用 logrus 输出日志。
type StdBackendLogger struct {
	entry *logrus.Entry
}

// NewBackendLogger 基于给定 entry 构造记录器；nil 时复用全局 logger。
func NewBackendLogger(entry *LogEntry) *StdBackendLogger {
	if entry == nil {
		entry = Named("backend")
	}
	return &StdBackendLogger{entry: entry}
}

// Request 记录一次调用的输入。
func (l *StdBackendLogger) Request(backend, model, prompt string) {
	l.printf(logrus.InfoLevel, "-> request backend=%s model=%s prompt=%s", backend, model, sanitize(prompt))
}

// Response 记录一次调用的退出码、耗时与输出。
func (l *StdBackendLogger) Response(backend, model string, exitCode int, elapsed time.Duration, text string) {
	l.printf(logrus.InfoLevel, "<- response backend=%s model=%s exit=%d elapsed=%s chars=%d text=%s",
		backend, model, exitCode, elapsed.Round(time.Millisecond), len([]rune(text)), sanitize(text))
}

// Error 记录调用失败。
func (l *StdBackendLogger) Error(backend, model string, err error) {
	l.printf(logrus.ErrorLevel, "!! error backend=%s model=%s err=%v", backend, model, err)
}

// NoopBackendLogger 忽略所有日志输出。
type NoopBackendLogger struct{}

func (NoopBackendLogger) Request(string, string, string)                      {}
func (NoopBackendLogger) Response(string, string, int, time.Duration, string) {}
func (NoopBackendLogger) Error(string, string, error)                         {}

func (l *StdBackendLogger) printf(level logrus.Level, format string, args ...any) {
	if l == nil || l.entry == nil {
		return
	}
	if !l.entry.Logger.IsLevelEnabled(level) {
		return
	}
	entry := l.entry
	if caller := findCaller(); caller != "" {
		entry = entry.WithField("caller", caller)
	}
	entry.Log(level, fmt.Sprintf(format, args...))
}

func sanitize(text string) string {
	text = strings.ReplaceAll(text, "\n", `\n`)
	text = strings.ReplaceAll(text, "\r", `\r`)
	return text
}

// findCaller 跳过本文件的栈帧，定位真正发起调用的位置。
func findCaller() string {
	pcs := make([]uintptr, 16)
	n := runtime.Callers(2, pcs)
	frames := runtime.CallersFrames(pcs[:n])
	for {
		frame, more := frames.Next()
		if frame.File != "" && !strings.HasSuffix(frame.File, "logger/backend.go") {
			return fmt.Sprintf("%s:%d", shortenFilePath(frame.File), frame.Line)
		}
		if !more {
			break
		}
	}
	return ""
}
