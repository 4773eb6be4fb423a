package lifecycle

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"vllmctl/internal/config"
	"vllmctl/pkg/types"
)

// FetchStatus queries the model-listing endpoint and reports the first
// loaded model. Any error or an empty listing maps to IsHealthy=false.
func (m *Manager) FetchStatus(ctx context.Context, ep config.Endpoint) types.ServerStatus {
	ctx, cancel := context.WithTimeout(ctx, m.probeTimeout)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ep.ModelsURL(), nil)
	if err != nil {
		return types.ServerStatus{}
	}
	resp, err := m.httpClient.Do(req)
	if err != nil {
		return types.ServerStatus{}
	}
	defer func() {
		// drain any remainder so the connection returns to the pool
		_, _ = io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return types.ServerStatus{}
	}
	var listing types.ModelsResponse
	if err := json.NewDecoder(resp.Body).Decode(&listing); err != nil {
		return types.ServerStatus{}
	}
	if len(listing.Data) == 0 {
		return types.ServerStatus{}
	}
	first := listing.Data[0]
	return types.ServerStatus{
		ModelID:   first.ID,
		IsHealthy: true,
		Created:   first.Created,
		OwnedBy:   first.OwnedBy,
	}
}
