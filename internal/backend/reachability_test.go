package backend

import (
	"context"
	"fmt"
	"net"
	"testing"
	"time"
)

func TestCheckReachable_OK(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("net.Listen: %v", err)
	}
	t.Cleanup(func() { _ = ln.Close() })

	port := ln.Addr().(*net.TCPAddr).Port
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	if err := CheckReachable(ctx, fmt.Sprintf("http://127.0.0.1:%d", port)); err != nil {
		t.Fatalf("CheckReachable() error: %v", err)
	}
}

func TestCheckReachable_InvalidBaseURL(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	if err := CheckReachable(ctx, "://bad"); err == nil {
		t.Fatalf("CheckReachable() = nil, want error")
	}
}

func TestCheckReachable_ConnectionRefused(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("net.Listen: %v", err)
	}
	port := ln.Addr().(*net.TCPAddr).Port
	_ = ln.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	if err := CheckReachable(ctx, fmt.Sprintf("http://127.0.0.1:%d/v1", port)); err == nil {
		t.Fatalf("CheckReachable() = nil, want error")
	}
}

func TestCheckReachable_DefaultsToOllamaPort(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:"+DefaultOllamaPort)
	if err != nil {
		t.Skipf("port %s unavailable: %v", DefaultOllamaPort, err)
	}
	t.Cleanup(func() { _ = ln.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	for _, base := range []string{"127.0.0.1", "http://127.0.0.1"} {
		if err := CheckReachable(ctx, base); err != nil {
			t.Fatalf("CheckReachable(%q) error: %v", base, err)
		}
	}
}
