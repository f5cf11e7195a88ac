package backend

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"helios-cli/internal/logger"
)

func chatCompletionBody(content string) string {
	body, _ := json.Marshal(map[string]any{
		"id":      "chatcmpl-test",
		"object":  "chat.completion",
		"created": 0,
		"model":   "llama3.2:1b",
		"choices": []map[string]any{{
			"index":         0,
			"finish_reason": "stop",
			"message":       map[string]any{"role": "assistant", "content": content},
		}},
	})
	return string(body)
}

func TestHTTPGenerate(t *testing.T) {
	silenceRootLogger(t)

	var gotPrompt atomic.Value
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if r.URL.Path != "/v1/chat/completions" {
			http.NotFound(w, r)
			return
		}
		raw, _ := io.ReadAll(r.Body)
		var req struct {
			Model    string `json:"model"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		_ = json.Unmarshal(raw, &req)
		if len(req.Messages) > 0 {
			gotPrompt.Store(req.Messages[0].Content)
		}
		switch {
		case strings.Contains(string(raw), "explode"):
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = io.WriteString(w, `{"error":{"message":"model crashed"}}`)
		default:
			w.Header().Set("Content-Type", "application/json")
			_, _ = io.WriteString(w, chatCompletionBody("Hi there!"))
		}
	}))
	t.Cleanup(srv.Close)

	gen, err := NewHTTP(HTTPOptions{BaseURL: srv.URL, Model: "llama3.2:1b"})
	if err != nil {
		t.Fatalf("NewHTTP: %v", err)
	}

	out, err := gen.Generate(context.Background(), BuildPrompt("hello"))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if out.Text != "Hi there!" || out.ExitCode != 0 {
		t.Fatalf("unexpected output %+v", out)
	}
	if p, _ := gotPrompt.Load().(string); p != BuildPrompt("hello") {
		t.Fatalf("server saw prompt %q", p)
	}

	before := calls.Load()
	out, err = gen.Generate(context.Background(), "explode")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if out.ExitCode != http.StatusInternalServerError {
		t.Fatalf("ExitCode = %d, want 500", out.ExitCode)
	}
	if n := calls.Load() - before; n != 1 {
		t.Fatalf("expected exactly one request without retries, got %d", n)
	}

	inv := NewInvoker(Options{Generator: gen, Name: "http", Log: logger.NoopBackendLogger{}})
	if got := inv.Invoke(context.Background(), "explode"); got.Kind != KindFailed || got.Text != DefaultFallback {
		t.Fatalf("unexpected reply %+v", got)
	}
}

func TestHTTPGenerate_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	gen, err := NewHTTP(HTTPOptions{BaseURL: url, Model: "m"})
	if err != nil {
		t.Fatalf("NewHTTP: %v", err)
	}
	if _, err := gen.Generate(context.Background(), "hello"); err == nil {
		t.Fatalf("expected connection error")
	}
}

func TestNewHTTP_RequiresBaseURL(t *testing.T) {
	if _, err := NewHTTP(HTTPOptions{BaseURL: "  "}); err == nil {
		t.Fatalf("expected error for empty base url")
	}
}
