package lifecycle

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"time"

	"vllmctl/internal/config"
)

// Phase is the polling outcome. Ready, TimedOut and Failed are terminal
// for a given wait call; a subsequent call starts its own sequence.
type Phase int

const (
	StateUnknown Phase = iota
	StatePolling
	StateReady
	StateTimedOut
	StateFailed
)

func (p Phase) String() string {
	switch p {
	case StatePolling:
		return "polling"
	case StateReady:
		return "ready"
	case StateTimedOut:
		return "timed_out"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// ReadinessState is the terminal outcome of a wait call. Reason is set
// only for StateFailed.
type ReadinessState struct {
	Phase  Phase
	Reason string
}

// CheckHealth performs a single short-timeout probe of the model-listing
// endpoint. It returns false on any network error or non-2xx status
// rather than an error, so callers can poll in a loop without
// special-casing failures.
func (m *Manager) CheckHealth(ctx context.Context, ep config.Endpoint) bool {
	ctx, cancel := context.WithTimeout(ctx, m.probeTimeout)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ep.ModelsURL(), nil)
	if err != nil {
		return false
	}
	resp, err := m.httpClient.Do(req)
	if err != nil {
		return false
	}
	// drain so the keep-alive connection is reused across poll attempts
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return resp.StatusCode >= 200 && resp.StatusCode < 300
}

// WaitUntilReady polls CheckHealth at interval spacing until the server
// answers or timeout elapses. It never blocks past timeout plus one
// in-flight probe. TimedOut is not fatal by design: the server may still
// be loading a large model, and the caller decides whether to keep
// waiting.
func (m *Manager) WaitUntilReady(ctx context.Context, ep config.Endpoint, timeout, interval time.Duration) ReadinessState {
	if _, err := url.ParseRequestURI(ep.BaseURL); err != nil {
		return ReadinessState{Phase: StateFailed, Reason: "malformed endpoint: " + err.Error()}
	}
	if interval <= 0 {
		interval = time.Second
	}
	deadline := m.now().Add(timeout)
	start := m.now()
	attempt := 0
	for {
		attempt++
		if m.CheckHealth(ctx, ep) {
			m.log.Info().
				Str("endpoint", ep.BaseURL).
				Int("attempts", attempt).
				Dur("elapsed", m.now().Sub(start)).
				Msg("server ready")
			return ReadinessState{Phase: StateReady}
		}
		if err := ctx.Err(); err != nil {
			return ReadinessState{Phase: StateFailed, Reason: err.Error()}
		}
		if !m.now().Before(deadline) {
			m.log.Warn().
				Str("endpoint", ep.BaseURL).
				Int("attempts", attempt).
				Msg("server not ready before timeout")
			return ReadinessState{Phase: StateTimedOut}
		}
		m.log.Debug().
			Str("endpoint", ep.BaseURL).
			Int("attempt", attempt).
			Dur("elapsed", m.now().Sub(start)).
			Msg("still waiting")
		if err := m.sleep(ctx, interval); err != nil {
			return ReadinessState{Phase: StateFailed, Reason: err.Error()}
		}
	}
}
