package canned

import (
	"context"
	"strings"
	"testing"

	"helios-cli/internal/backend"
)

type recordingReplier struct {
	calls []string
}

func (r *recordingReplier) Invoke(_ context.Context, userText string) backend.Reply {
	r.calls = append(r.calls, userText)
	return backend.Reply{Text: "from backend", Kind: backend.KindOK}
}

func TestLookup(t *testing.T) {
	cases := []struct {
		input  string
		want   string
		wantOK bool
	}{
		{input: "Hello there", want: "Hello!", wantOK: true},
		{input: "what should I eat tonight", want: "For dinner", wantOK: true},
		{input: "play a SONG", want: "I don't have personal preferences", wantOK: true},
		{input: "who are you?", want: "I'm HELIOS!", wantOK: true},
		{input: "explain tcp handshakes", wantOK: false},
	}
	for _, tc := range cases {
		t.Run(tc.input, func(t *testing.T) {
			got, ok := Lookup(DefaultRules, tc.input)
			if ok != tc.wantOK {
				t.Fatalf("Lookup(%q) ok = %v, want %v", tc.input, ok, tc.wantOK)
			}
			if ok && !strings.HasPrefix(got, tc.want) {
				t.Fatalf("Lookup(%q) = %q, want prefix %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestLayerFallsThrough(t *testing.T) {
	next := &recordingReplier{}
	layer := Wrap(next)

	got := layer.Invoke(context.Background(), "hey")
	if got.Kind != backend.KindCanned {
		t.Fatalf("Kind = %v, want canned", got.Kind)
	}
	if len(next.calls) != 0 {
		t.Fatalf("backend should not be called for canned input")
	}

	got = layer.Invoke(context.Background(), "explain tcp handshakes")
	if got.Text != "from backend" || len(next.calls) != 1 {
		t.Fatalf("expected fall-through to backend, got %+v calls=%d", got, len(next.calls))
	}
}

func TestLayerWithoutNext(t *testing.T) {
	got := Layer{}.Invoke(context.Background(), "anything")
	if got.Text != backend.DefaultFallback {
		t.Fatalf("Text = %q", got.Text)
	}
}
