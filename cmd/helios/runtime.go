package main

import (
	"fmt"
	"io"
	"time"

	"helios-cli/internal/backend"
	"helios-cli/internal/canned"
	"helios-cli/internal/config"
	"helios-cli/internal/i18n"
	"helios-cli/internal/logger"
)

// ensureServeWait bounds how long EnsureServing watches the serve process.
const ensureServeWait = time.Second

type runtimeConfig struct {
	cfg  config.Config
	msgs i18n.Messages
}

// loadRuntime parses mode flags and resolves the config in order:
// defaults, config file, .env and environment, then -c overrides.
func loadRuntime(name string, root rootArgs, args []string, stderr io.Writer) (runtimeConfig, *modeArgs, error) {
	fs, cli := newModeFlagSet(name, stderr)
	if err := fs.Parse(args); err != nil {
		return runtimeConfig{}, nil, err
	}
	if fs.NArg() > 0 {
		return runtimeConfig{}, nil, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	logger.Configure(cli.debug)

	if err := config.LoadEnvFile(cli.envPath); err != nil {
		log.Warnf("failed to load env file: %v", err)
	}
	cfg, err := config.Load(cli.cfgPath)
	if err != nil {
		return runtimeConfig{}, nil, fmt.Errorf("load config: %w", err)
	}
	cfg = config.ApplyKVOverrides(cfg, cli.overrides(root))
	if err := cfg.Validate(); err != nil {
		return runtimeConfig{}, nil, fmt.Errorf("config %s: %w", cfg.Source, err)
	}
	log.WithField("backend", cfg.Backend).Infof("model %s, config %s", cfg.Model, cfg.Source)
	return runtimeConfig{cfg: cfg, msgs: i18n.For(i18n.Normalize(cfg.Language))}, cli, nil
}

// buildReplier wires the configured generator into an invoker, optionally
// behind the canned keyword layer.
func buildReplier(rt runtimeConfig) (backend.Replier, error) {
	gen, err := buildGenerator(rt.cfg)
	if err != nil {
		return nil, err
	}
	inv := backend.NewInvoker(backend.Options{
		Generator: gen,
		Name:      rt.cfg.Backend,
		Model:     rt.cfg.Model,
		Fallback:  rt.msgs.Fallback,
	})
	if rt.cfg.Canned {
		return canned.Wrap(inv), nil
	}
	return inv, nil
}

func buildGenerator(cfg config.Config) (backend.Generator, error) {
	switch cfg.Backend {
	case config.BackendHTTP:
		h, err := backend.NewHTTP(backend.HTTPOptions{BaseURL: cfg.BaseURL, Model: cfg.Model})
		if err != nil {
			return nil, fmt.Errorf("init http backend: %w", err)
		}
		return h, nil
	default:
		return backend.NewProcess(backend.ProcessOptions{Binary: cfg.Binary, Model: cfg.Model}), nil
	}
}

// startServing fires `<binary> serve` when enabled; the outcome is only logged.
func startServing(cfg config.Config) {
	if !cfg.EnsureServe {
		return
	}
	_ = backend.EnsureServing(cfg.Binary, ensureServeWait)
}
