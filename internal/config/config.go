package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"helios-cli/internal/typewriter"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

// Backend kinds understood by the invoker.
const (
	BackendProcess = "process"
	BackendHTTP    = "http"
)

// Config is the persisted config file schema.
type Config struct {
	Model             string `toml:"model"`
	Backend           string `toml:"backend"`
	Binary            string `toml:"binary"`
	BaseURL           string `toml:"base_url"`
	Language          string `toml:"language"`
	TypingDelayMS     int    `toml:"typing_delay_ms"`
	FarewellDelayMS   int    `toml:"farewell_delay_ms"`
	SpinnerIntervalMS int    `toml:"spinner_interval_ms"`
	Canned            bool   `toml:"canned"`
	EnsureServe       bool   `toml:"ensure_serve"`
	Source            string `toml:"-"`
}

func Default() Config {
	return Config{
		Model:             "llama3.2:1b",
		Backend:           BackendProcess,
		Binary:            "ollama",
		BaseURL:           "http://127.0.0.1:11434",
		Language:          "en",
		TypingDelayMS:     10,
		FarewellDelayMS:   1,
		SpinnerIntervalMS: 100,
		Canned:            false,
		EnsureServe:       true,
	}
}

func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".helios", "config.toml")
}

// LoadEnvFile loads KEY=VALUE pairs from path into the process environment.
// Variables that are already set win. A missing file is not an error.
func LoadEnvFile(path string) error {
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	return nil
}

func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		path = DefaultPath()
	}
	if path == "" {
		return applyEnv(cfg), errors.New("config path is empty and $HOME is not set")
	}
	cfg.Source = path

	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return applyEnv(cfg), nil
		}
		return cfg, err
	}
	if err := toml.Unmarshal(content, &cfg); err != nil {
		return cfg, err
	}
	return applyEnv(cfg), nil
}

func applyEnv(cfg Config) Config {
	if env := strings.TrimSpace(os.Getenv("HELIOS_MODEL")); env != "" {
		cfg.Model = env
	}
	if env := strings.TrimSpace(os.Getenv("HELIOS_BACKEND")); env != "" {
		cfg.Backend = strings.ToLower(env)
	}
	if env := strings.TrimSpace(os.Getenv("HELIOS_BINARY")); env != "" {
		cfg.Binary = env
	}
	if env := strings.TrimSpace(os.Getenv("OLLAMA_HOST")); env != "" {
		cfg.BaseURL = normalizeHost(env)
	}
	return cfg
}

// normalizeHost accepts the bare host:port form ollama itself understands.
func normalizeHost(host string) string {
	if strings.Contains(host, "://") {
		return host
	}
	return "http://" + host
}

// Validate reports settings that cannot produce a working backend.
func (c Config) Validate() error {
	switch c.Backend {
	case BackendProcess:
		if strings.TrimSpace(c.Binary) == "" {
			return errors.New("backend process requires a binary")
		}
	case BackendHTTP:
		if strings.TrimSpace(c.BaseURL) == "" {
			return errors.New("backend http requires base_url")
		}
	default:
		return fmt.Errorf("unknown backend %q (want %s|%s)", c.Backend, BackendProcess, BackendHTTP)
	}
	if strings.TrimSpace(c.Model) == "" {
		return errors.New("model is empty")
	}
	return nil
}

// TypingDelay and FarewellDelay map an explicit 0 to typewriter.NoDelay.
func (c Config) TypingDelay() time.Duration {
	return delayFromMS(c.TypingDelayMS)
}

func (c Config) FarewellDelay() time.Duration {
	return delayFromMS(c.FarewellDelayMS)
}

func delayFromMS(ms int) time.Duration {
	if ms <= 0 {
		return typewriter.NoDelay
	}
	return time.Duration(ms) * time.Millisecond
}

func (c Config) SpinnerInterval() time.Duration {
	if c.SpinnerIntervalMS <= 0 {
		return 100 * time.Millisecond
	}
	return time.Duration(c.SpinnerIntervalMS) * time.Millisecond
}
