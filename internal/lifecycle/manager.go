// Package lifecycle drives an external inference server from "requested"
// to "confirmed ready". It is structured into small files by concern:
//
//   - manager.go: Manager type, Config and package defaults.
//   - launch.go: subprocess spawn, handle bookkeeping, Stop.
//   - readiness.go: health probe and the bounded readiness poll loop.
//   - status.go: model-listing status report.
//   - smoketest.go: minimal end-to-end completion check.
//   - ports.go: advisory pre-spawn port probe.
//   - errors.go: error types and helpers (IsLaunchError, IsRequestError).
//
// The manager never mutates a spawned process after launch beyond optional
// termination; health checks are read-only, so concurrent callers polling
// the same endpoint do not interfere.
package lifecycle

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// Defaults applied when corresponding Config fields are unset.
const (
	defaultBin          = "vllm"
	defaultProbeTimeout = 5 * time.Second
	defaultStopGrace    = 2 * time.Second
)

// Config encapsulates all tunables for Manager construction.
type Config struct {
	// Bin is the server executable looked up on PATH.
	Bin string
	// ProbeTimeout bounds a single health/status probe.
	ProbeTimeout time.Duration
	// StopGrace is how long Stop waits after SIGTERM before SIGKILL.
	StopGrace time.Duration
	Logger    zerolog.Logger
}

// Manager owns the spawned process handle and the readiness state machine.
// All methods are safe for concurrent use; each wait/check call is
// independent and starts its own polling sequence.
type Manager struct {
	bin          string
	probeTimeout time.Duration
	stopGrace    time.Duration
	httpClient   *http.Client
	log          zerolog.Logger

	// injectable clock for deterministic tests
	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

// NewWithConfig constructs a Manager, applying defaults for unset fields.
func NewWithConfig(cfg Config) *Manager {
	m := &Manager{
		bin:          cfg.Bin,
		probeTimeout: cfg.ProbeTimeout,
		stopGrace:    cfg.StopGrace,
		log:          cfg.Logger,
		now:          time.Now,
		sleep:        sleepCtx,
	}
	if m.bin == "" {
		m.bin = defaultBin
	}
	if m.probeTimeout <= 0 {
		m.probeTimeout = defaultProbeTimeout
	}
	if m.stopGrace <= 0 {
		m.stopGrace = defaultStopGrace
	}
	// Intentionally set Timeout=0: all calls use context-based timeouts.
	m.httpClient = &http.Client{Timeout: 0}
	return m
}

// New constructs a Manager with all defaults and a no-op logger.
func New() *Manager { return NewWithConfig(Config{Logger: zerolog.Nop()}) }

// sleepCtx sleeps for d or until ctx is done, whichever comes first.
func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
