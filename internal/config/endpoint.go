package config

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
)

// Endpoint is the client-facing base URL of a running server, local or
// tunneled. Reachability is not guaranteed until a health check succeeds.
type Endpoint struct {
	BaseURL string
}

// ModelsURL returns the model-listing URL used for health and status probes.
func (e Endpoint) ModelsURL() string { return e.BaseURL + "/models" }

// ChatCompletionsURL returns the completion URL used by smoke tests.
func (e Endpoint) ChatCompletionsURL() string { return e.BaseURL + "/chat/completions" }

// ParseEndpoint validates a caller-supplied base URL (e.g. --server flag).
func ParseEndpoint(raw string) (Endpoint, error) {
	raw = strings.TrimRight(raw, "/")
	u, err := url.Parse(raw)
	if err != nil {
		return Endpoint{}, fmt.Errorf("parse endpoint %q: %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return Endpoint{}, fmt.Errorf("endpoint %q: scheme must be http or https", raw)
	}
	if u.Host == "" {
		return Endpoint{}, fmt.Errorf("endpoint %q: missing host", raw)
	}
	return Endpoint{BaseURL: raw}, nil
}

// ResolveEndpoint derives the probe endpoint from the declarative file
// alone. Unlike Resolve it does not require a model: probing an already
// running server needs only host and port, which default when the file
// is absent.
func ResolveEndpoint(path string) (Endpoint, error) {
	cfg := ServerConfig{Host: DefaultHost, Port: DefaultPort}
	f, err := Load(path)
	if err == nil {
		if f.Server.Host != "" {
			cfg.Host = f.Server.Host
		}
		if f.Server.Port != nil {
			cfg.Port = *f.Server.Port
		}
	}
	if cfg.Port < 1 || cfg.Port > 65535 {
		return Endpoint{}, &ConfigError{Key: "server.port", Reason: fmt.Sprintf("must be in 1-65535, got %d", cfg.Port)}
	}
	return EndpointFor(cfg), nil
}

// EndpointFor derives the client-facing endpoint from a resolved config.
// A wildcard bind address is not a reachable client target on every
// platform, so 0.0.0.0/:: map to loopback while the launch arguments
// still bind all interfaces.
func EndpointFor(c ServerConfig) Endpoint {
	host := c.Host
	switch host {
	case "0.0.0.0", "::", "":
		host = "127.0.0.1"
	}
	return Endpoint{BaseURL: "http://" + net.JoinHostPort(host, strconv.Itoa(c.Port)) + "/v1"}
}
