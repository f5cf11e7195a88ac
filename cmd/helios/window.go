package main

import (
	"context"
	"fmt"
	"io"

	"helios-cli/internal/events"
	"helios-cli/internal/window"
)

func windowMain(ctx context.Context, root rootArgs, args []string, stderr io.Writer) error {
	rt, _, err := loadRuntime("helios window", root, args, stderr)
	if err != nil {
		return err
	}
	replier, err := buildReplier(rt)
	if err != nil {
		return err
	}
	startServing(rt.cfg)

	manager := events.NewManager(events.ManagerConfig{
		SQLogPath: events.DefaultSQLogPath,
		EQLogPath: events.DefaultEQLogPath,
	}, events.TurnHandler(replier))
	manager.Start(ctx)
	defer closeManager(manager, stderr, rt.msgs.WaitingForTurn)

	return window.Run(ctx, window.Options{
		Gateway:         manager,
		Messages:        rt.msgs,
		Model:           rt.cfg.Model,
		TypingDelay:     rt.cfg.TypingDelay(),
		FarewellDelay:   rt.cfg.FarewellDelay(),
		SpinnerInterval: rt.cfg.SpinnerInterval(),
		SplashHold:      10,
		LoadingSteps:    16,
	})
}

type dispatcher interface {
	Busy() bool
	Close()
}

// closeManager waits for an in-flight turn, so a request is never cut off.
// The window has already left the alt screen, so the notice is visible.
func closeManager(d dispatcher, stderr io.Writer, notice string) {
	if d.Busy() {
		_, _ = fmt.Fprintln(stderr, notice)
	}
	d.Close()
}
