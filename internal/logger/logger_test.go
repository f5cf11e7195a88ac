package logger

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

func TestPlainFormatter_TurnPrefixAndFieldSkipping(t *testing.T) {
	ts := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

	cases := []struct {
		name    string
		data    logrus.Fields
		message string
		want    string
	}{
		{
			name: "with turn",
			data: logrus.Fields{
				"component": "events",
				"turn":      "t1",
				"caller":    "x.go:1",
				"chars":     9,
				"status":    "ok",
			},
			message: "turn completed",
			want:    "x.go:1 [2025-01-02T03:04:05Z] [INFO] [events] [turn=t1] turn completed chars=9 status=ok\n",
		},
		{
			name: "int turn",
			data: logrus.Fields{
				"component": "session",
				"turn":      3,
				"caller":    "loop.go:182",
			},
			message: "reply in 1s",
			want:    "loop.go:182 [2025-01-02T03:04:05Z] [INFO] [session] [turn=3] reply in 1s\n",
		},
		{
			name: "without turn",
			data: logrus.Fields{
				"component": "session",
				"caller":    "x.go:1",
				"foo":       "bar",
			},
			message: "hello",
			want:    "x.go:1 [2025-01-02T03:04:05Z] [INFO] [session] hello foo=bar\n",
		},
		{
			name:    "no fields",
			data:    logrus.Fields{},
			message: "bare",
			want:    "[2025-01-02T03:04:05Z] [INFO] bare\n",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			entry := &logrus.Entry{
				Logger:  logrus.New(),
				Time:    ts,
				Level:   logrus.InfoLevel,
				Message: tc.message,
				Data:    tc.data,
			}
			out, err := (PlainFormatter{}).Format(entry)
			if err != nil {
				t.Fatalf("Format() error: %v", err)
			}
			got := string(out)
			if got != tc.want {
				t.Fatalf("unexpected format:\nwant: %q\ngot:  %q", tc.want, got)
			}
			if _, ok := tc.data["turn"]; ok && strings.Count(got, "turn=") != 1 {
				t.Fatalf("expected turn to appear only once in output, got: %q", got)
			}
		})
	}
}

func TestSetupComponentFile_WritesComponent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "backend.log")
	entry, closer, resolved, err := SetupComponentFile("backend", path)
	if err != nil {
		t.Fatalf("SetupComponentFile: %v", err)
	}
	if resolved != path {
		t.Fatalf("resolved = %q, want %q", resolved, path)
	}
	entry.Info("hello")
	if err := closer.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.Contains(string(data), "[backend] hello") {
		t.Fatalf("log file = %q, want component prefix", string(data))
	}
}

func TestBackendLogger_SanitizesAndSkipsOwnFrames(t *testing.T) {
	var buf bytes.Buffer
	l := logrus.New()
	l.SetFormatter(PlainFormatter{})
	l.SetOutput(&buf)

	bl := NewBackendLogger(logrus.NewEntry(l).WithField("component", "backend"))
	bl.Request("process", "llama3.2:1b", "hi\nthere")
	bl.Response("process", "llama3.2:1b", 0, 1500*time.Millisecond, "ok")
	bl.Error("process", "llama3.2:1b", errors.New("boom"))

	out := buf.String()
	for _, want := range []string{`prompt=hi\nthere`, "exit=0", "elapsed=1.5s", "chars=2", "err=boom", "[ERROR]"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "logger/backend.go") {
		t.Fatalf("caller should not point at backend.go:\n%s", out)
	}
}
