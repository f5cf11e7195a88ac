package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"helios-cli/internal/logger"
	"helios-cli/internal/progress"
	"helios-cli/internal/session"

	"golang.org/x/term"
)

var log = logger.Named("cli")

func main() {
	logger.Configure(false)
	if logFile, _, err := logger.SetupFile(logger.DefaultLogPath); err != nil {
		// 终端画面归用户所有，日志打不开时直接丢弃。
		logger.Discard()
		fmt.Fprintf(os.Stderr, "warning: failed to open log file %s: %v\n", logger.DefaultLogPath, err)
	} else {
		defer logFile.Close()
	}
	if entry, closer, _, err := logger.SetupComponentFile("backend", logger.DefaultBackendLogPath); err != nil {
		log.Warnf("failed to initialize backend log (%s): %v", logger.DefaultBackendLogPath, err)
	} else {
		logger.SetBackendLogger(logger.NewBackendLogger(entry))
		defer closer.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		log.Errorf("exit: %v", err)
		fmt.Fprintf(os.Stderr, "helios: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	root, rest, err := parseRootArgs(args)
	if err != nil {
		return fmt.Errorf("parse args: %w", err)
	}
	if len(rest) > 0 {
		switch rest[0] {
		case "window":
			return windowMain(ctx, root, rest[1:], stderr)
		case "ping":
			return runPing(ctx, root, rest[1:], stdout, stderr)
		case "terminal":
			rest = rest[1:]
		}
	}
	return terminalMain(ctx, root, rest, stdin, stdout, stderr)
}

func terminalMain(ctx context.Context, root rootArgs, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	rt, _, err := loadRuntime("helios", root, args, stderr)
	if err != nil {
		return err
	}
	replier, err := buildReplier(rt)
	if err != nil {
		return err
	}

	session.WriteStarting(stdout, rt.msgs)
	startServing(rt.cfg)

	loop := session.New(session.Options{
		In:            stdin,
		Out:           stdout,
		Replier:       replier,
		Messages:      rt.msgs,
		TypingDelay:   rt.cfg.TypingDelay(),
		FarewellDelay: rt.cfg.FarewellDelay(),
		ShowBanner:    true,
		ProgressOptions: progress.Options{
			Interval: rt.cfg.SpinnerInterval(),
			Static:   !isTerminal(stdout),
		},
	})
	return loop.Run(ctx)
}

// isTerminal reports whether w is a terminal; the spinner only animates there.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
