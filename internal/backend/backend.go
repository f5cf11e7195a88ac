// Package backend invokes the local inference process and downgrades every
// failure to renderable text.
package backend

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"helios-cli/internal/logger"
)

// BrevitySuffix is appended to every user prompt.
const BrevitySuffix = "\n\nPlease keep your response brief and concise."

// MinReplyRunes is the longest trimmed output still treated as no answer.
const MinReplyRunes = 5

const (
	DefaultFallback    = "I'm having trouble connecting to the AI. Try asking again!"
	DefaultErrorPrefix = "Error: "
)

// Kind classifies how a reply was produced.
type Kind int

const (
	// KindOK is a backend answer passed through verbatim.
	KindOK Kind = iota
	// KindCanned is a local keyword answer; the backend was not called.
	KindCanned
	// KindUnavailable means the backend could not be started or reached.
	KindUnavailable
	// KindFailed means the backend ran and reported failure.
	KindFailed
	// KindEmptyOrShort means the backend succeeded with no usable text.
	KindEmptyOrShort
)

func (k Kind) String() string {
	switch k {
	case KindOK:
		return "ok"
	case KindCanned:
		return "canned"
	case KindUnavailable:
		return "backend_unavailable"
	case KindFailed:
		return "backend_failed"
	case KindEmptyOrShort:
		return "backend_empty_or_short"
	default:
		return "unknown"
	}
}

// Output is what a completed backend call produced. A non-zero ExitCode
// means the backend ran but failed.
type Output struct {
	Text     string
	ExitCode int
}

// Generator performs one atomic backend call. An error means the backend
// could not be started or reached at all; a call that ran and failed
// reports it through Output.ExitCode instead.
type Generator interface {
	Generate(ctx context.Context, prompt string) (Output, error)
}

// Reply is always renderable. Err carries the fault behind
// KindUnavailable for logging.
type Reply struct {
	Text    string
	Kind    Kind
	Err     error
	Elapsed time.Duration
}

// Replier turns user text into a Reply. Implementations never fail.
type Replier interface {
	Invoke(ctx context.Context, userText string) Reply
}

type Options struct {
	Generator   Generator
	Name        string
	Model       string
	Fallback    string
	ErrorPrefix string
	Log         logger.BackendLogger
	Clock       func() time.Time
}

// Invoker wraps a Generator with the prompt template and fallback policy.
type Invoker struct {
	gen         Generator
	name        string
	model       string
	fallback    string
	errorPrefix string
	log         logger.BackendLogger
	clock       func() time.Time
}

var _ Replier = (*Invoker)(nil)

func NewInvoker(opts Options) *Invoker {
	inv := &Invoker{
		gen:         opts.Generator,
		name:        opts.Name,
		model:       opts.Model,
		fallback:    opts.Fallback,
		errorPrefix: opts.ErrorPrefix,
		log:         opts.Log,
		clock:       opts.Clock,
	}
	if inv.fallback == "" {
		inv.fallback = DefaultFallback
	}
	if inv.errorPrefix == "" {
		inv.errorPrefix = DefaultErrorPrefix
	}
	if inv.log == nil {
		inv.log = logger.BackendLog
	}
	if inv.clock == nil {
		inv.clock = time.Now
	}
	return inv
}

// BuildPrompt appends the brevity instruction to the user text.
func BuildPrompt(userText string) string {
	return userText + BrevitySuffix
}

// Invoke blocks until the backend answers. The call is detached from ctx
// cancellation: an interrupt never kills a request in flight.
func (inv *Invoker) Invoke(ctx context.Context, userText string) (reply Reply) {
	start := inv.clock()
	prompt := BuildPrompt(userText)
	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("backend panic: %v", r)
			inv.log.Error(inv.name, inv.model, err)
			reply = Reply{Text: inv.errorPrefix + err.Error(), Kind: KindUnavailable, Err: err}
		}
		reply.Elapsed = inv.clock().Sub(start)
	}()

	if inv.gen == nil {
		err := fmt.Errorf("no %s backend configured", inv.name)
		return Reply{Text: inv.errorPrefix + err.Error(), Kind: KindUnavailable, Err: err}
	}

	inv.log.Request(inv.name, inv.model, prompt)
	out, err := inv.gen.Generate(context.WithoutCancel(ctx), prompt)
	if err != nil {
		inv.log.Error(inv.name, inv.model, err)
		return Reply{Text: inv.errorPrefix + err.Error(), Kind: KindUnavailable, Err: err}
	}
	inv.log.Response(inv.name, inv.model, out.ExitCode, inv.clock().Sub(start), out.Text)
	return inv.classify(out)
}

func (inv *Invoker) classify(out Output) Reply {
	if out.ExitCode != 0 {
		return Reply{Text: inv.fallback, Kind: KindFailed}
	}
	text := strings.TrimSpace(out.Text)
	if utf8.RuneCountInString(text) <= MinReplyRunes {
		return Reply{Text: inv.fallback, Kind: KindEmptyOrShort}
	}
	return Reply{Text: text, Kind: KindOK}
}
