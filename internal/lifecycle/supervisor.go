package lifecycle

import (
	"context"

	"vllmctl/internal/config"
	"vllmctl/pkg/types"
)

// Supervisor combines a Manager, the endpoint it watches and an optional
// spawned handle into the view served by the supervisor HTTP API.
type Supervisor struct {
	m      *Manager
	ep     config.Endpoint
	handle *Handle
}

// NewSupervisor wraps a manager and endpoint; handle may be nil when the
// server was started elsewhere.
func NewSupervisor(m *Manager, ep config.Endpoint, handle *Handle) *Supervisor {
	return &Supervisor{m: m, ep: ep, handle: handle}
}

// Ready reports whether the managed server answers its health endpoint.
func (s *Supervisor) Ready(ctx context.Context) bool {
	return s.m.CheckHealth(ctx, s.ep)
}

// Status probes the managed server and merges in spawn bookkeeping.
func (s *Supervisor) Status(ctx context.Context) types.StatusResponse {
	resp := types.StatusResponse{
		Endpoint:       s.ep.BaseURL,
		Server:         s.m.FetchStatus(ctx, s.ep),
		ServerTimeUnix: s.m.now().Unix(),
	}
	if s.handle != nil {
		resp.PID = s.handle.PID
		resp.LogPath = s.handle.LogPath
		resp.UptimeSeconds = int64(s.m.now().Sub(s.handle.StartedAt).Seconds())
	}
	return resp
}
