package config

import (
	"strconv"
	"strings"
)

// ApplyKVOverrides applies free-form -c key=value overrides.
func ApplyKVOverrides(cfg Config, overrides []string) Config {
	if len(overrides) == 0 {
		return cfg
	}
	for _, raw := range overrides {
		parts := strings.SplitN(raw, "=", 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.TrimSpace(parts[0])
		val := strings.TrimSpace(parts[1])
		switch key {
		case "model":
			cfg.Model = val
		case "backend":
			cfg.Backend = strings.ToLower(val)
		case "binary":
			cfg.Binary = val
		case "base_url", "base-url":
			cfg.BaseURL = normalizeHost(val)
		case "language", "lang":
			cfg.Language = val
		case "typing_delay_ms", "typing-delay":
			if n, err := strconv.Atoi(val); err == nil && n >= 0 {
				cfg.TypingDelayMS = n
			}
		case "farewell_delay_ms":
			if n, err := strconv.Atoi(val); err == nil && n >= 0 {
				cfg.FarewellDelayMS = n
			}
		case "spinner_interval_ms":
			if n, err := strconv.Atoi(val); err == nil && n > 0 {
				cfg.SpinnerIntervalMS = n
			}
		case "canned":
			if b, err := strconv.ParseBool(val); err == nil {
				cfg.Canned = b
			}
		case "ensure_serve", "ensure-serve":
			if b, err := strconv.ParseBool(val); err == nil {
				cfg.EnsureServe = b
			}
		}
	}
	return cfg
}
