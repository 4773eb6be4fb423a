package lifecycle

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestFetchStatusHealthy(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/models" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"object":"list","data":[{"id":"meta-llama/Llama-3.1-8B-Instruct","created":1700000000,"owned_by":"vllm"}]}`))
	}))
	defer ts.Close()

	m, _ := newTestManager(t)
	st := m.FetchStatus(context.Background(), endpointFor(t, ts))
	if !st.IsHealthy {
		t.Fatalf("expected healthy status")
	}
	if st.ModelID != "meta-llama/Llama-3.1-8B-Instruct" || st.OwnedBy != "vllm" || st.Created != 1700000000 {
		t.Fatalf("unexpected status: %+v", st)
	}
}

func TestFetchStatusEmptyListing(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":[]}`))
	}))
	defer ts.Close()

	m, _ := newTestManager(t)
	if st := m.FetchStatus(context.Background(), endpointFor(t, ts)); st.IsHealthy {
		t.Fatalf("empty listing must map to unhealthy, got %+v", st)
	}
}

func TestFetchStatusErrors(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer ts.Close()

	m, _ := newTestManager(t)
	if st := m.FetchStatus(context.Background(), endpointFor(t, ts)); st.IsHealthy {
		t.Fatalf("5xx must map to unhealthy")
	}

	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	}))
	defer bad.Close()
	if st := m.FetchStatus(context.Background(), endpointFor(t, bad)); st.IsHealthy {
		t.Fatalf("malformed body must map to unhealthy")
	}
}
