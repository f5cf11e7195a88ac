package backend

import (
	"net"
	"net/url"
	"strings"
)

// DefaultOllamaPort is the port ollama listens on when OLLAMA_HOST has none.
const DefaultOllamaPort = "11434"

// normalizeBaseURL maps an ollama host (127.0.0.1, http://host:11434) or a
// full OpenAI-style URL to the /v1 root the client expects. A bare host or a
// plain http URL without a port gets DefaultOllamaPort.
func normalizeBaseURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	schemeless := !strings.Contains(raw, "://")
	if schemeless {
		raw = "http://" + raw
	}
	parsed, err := url.Parse(raw)
	if err != nil || parsed == nil {
		return raw
	}
	if parsed.Port() == "" && parsed.Hostname() != "" &&
		(schemeless || strings.EqualFold(parsed.Scheme, "http")) {
		parsed.Host = net.JoinHostPort(parsed.Hostname(), DefaultOllamaPort)
	}

	path := strings.TrimRight(parsed.Path, "/")
	switch {
	case strings.HasSuffix(path, "/chat/completions"):
		path = strings.TrimSuffix(path, "/chat/completions")
	case strings.HasSuffix(path, "/completions"):
		path = strings.TrimSuffix(path, "/completions")
	}
	path = strings.TrimRight(path, "/")

	if !strings.HasSuffix(path, "/v1") {
		path += "/v1"
	}
	for strings.Contains(path, "/v1/v1") {
		path = strings.ReplaceAll(path, "/v1/v1", "/v1")
	}

	parsed.Path = path
	return parsed.String()
}
