package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"helios-cli/internal/backend"
	"helios-cli/internal/config"
)

const pingPrompt = "ping. Reply with the single word pong."

// runPing performs one raw round trip through the configured generator.
// Unlike the chat modes it reports failures instead of the fallback sentence.
func runPing(ctx context.Context, root rootArgs, args []string, stdout, stderr io.Writer) error {
	rt, _, err := loadRuntime("helios ping", root, args, stderr)
	if err != nil {
		return err
	}
	if rt.cfg.Backend == config.BackendHTTP {
		checkCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		defer cancel()
		if err := backend.CheckReachable(checkCtx, rt.cfg.BaseURL); err != nil {
			return err
		}
	}

	gen, err := buildGenerator(rt.cfg)
	if err != nil {
		return err
	}
	out, err := gen.Generate(ctx, pingPrompt)
	if err != nil {
		return fmt.Errorf("ping %s: %w", rt.cfg.Backend, err)
	}
	if out.ExitCode != 0 {
		return fmt.Errorf("ping %s: exit code %d", rt.cfg.Backend, out.ExitCode)
	}
	text := strings.TrimSpace(out.Text)
	if text == "" {
		return errors.New("ping: empty reply")
	}
	_, _ = fmt.Fprintf(stdout, "ok: %s\n", text)
	return nil
}
