package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestPingHTTPRoundTrip(t *testing.T) {
	cfgPath := isolateEnv(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":      "chatcmpl-1",
			"object":  "chat.completion",
			"created": 1,
			"model":   "llama3.2:1b",
			"choices": []map[string]any{{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]any{"role": "assistant", "content": "pong"},
			}},
		})
	}))
	t.Cleanup(srv.Close)

	var stdout bytes.Buffer
	args := []string{"--config", cfgPath, "-c", "backend=http", "-c", "base_url=" + srv.URL}
	if err := runPing(context.Background(), rootArgs{}, args, &stdout, io.Discard); err != nil {
		t.Fatalf("runPing: %v", err)
	}
	if got := stdout.String(); !strings.Contains(got, "ok: pong") {
		t.Fatalf("ping output = %q, want it to include %q", got, "ok: pong")
	}
}

func TestPingHTTPUnreachable(t *testing.T) {
	cfgPath := isolateEnv(t)
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	args := []string{"--config", cfgPath, "-c", "backend=http", "-c", "base_url=" + url}
	if err := runPing(context.Background(), rootArgs{}, args, io.Discard, io.Discard); err == nil {
		t.Fatal("expected reachability error")
	}
}
