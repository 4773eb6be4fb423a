package httpapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"vllmctl/pkg/types"
)

type fakeService struct {
	ready  bool
	status types.StatusResponse
}

func (f *fakeService) Status(context.Context) types.StatusResponse { return f.status }
func (f *fakeService) Ready(context.Context) bool                  { return f.ready }

func TestStatusEndpoint(t *testing.T) {
	svc := &fakeService{status: types.StatusResponse{
		Endpoint: "http://127.0.0.1:8000/v1",
		Server:   types.ServerStatus{ModelID: "m1", IsHealthy: true},
		PID:      4242,
	}}
	srv := httptest.NewServer(NewMux(svc))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/status")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status code: %d", resp.StatusCode)
	}
	var got types.StatusResponse
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Server.ModelID != "m1" || !got.Server.IsHealthy || got.PID != 4242 {
		t.Fatalf("unexpected payload: %+v", got)
	}
}

func TestHealthzAlwaysOK(t *testing.T) {
	srv := httptest.NewServer(NewMux(&fakeService{ready: false}))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("healthz must answer for the supervisor itself, got %d", resp.StatusCode)
	}
}

func TestReadyzReflectsUpstream(t *testing.T) {
	svc := &fakeService{ready: true}
	srv := httptest.NewServer(NewMux(svc))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/readyz")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 when upstream ready, got %d", resp.StatusCode)
	}

	svc.ready = false
	resp, err = http.Get(srv.URL + "/readyz")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 when upstream down, got %d", resp.StatusCode)
	}
	var e types.ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&e); err != nil {
		t.Fatalf("decode error payload: %v", err)
	}
	if e.Code != http.StatusServiceUnavailable || e.Error == "" {
		t.Fatalf("unexpected error payload: %+v", e)
	}
}

func TestMetricsExposed(t *testing.T) {
	srv := httptest.NewServer(NewMux(&fakeService{ready: true}))
	defer srv.Close()

	// generate at least one instrumented request first
	if resp, err := http.Get(srv.URL + "/readyz"); err == nil {
		resp.Body.Close()
	}
	resp, err := http.Get(srv.URL + "/metrics")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	body := string(raw)
	if !strings.Contains(body, "vllmctl_http_requests_total") {
		t.Fatalf("request counter missing from /metrics")
	}
	if !strings.Contains(body, "vllmctl_upstream_ready") {
		t.Fatalf("upstream gauge missing from /metrics")
	}
}
