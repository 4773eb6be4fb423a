package lifecycle

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"vllmctl/internal/config"
)

// fakeClock advances only when the poll loop sleeps, making wait timing
// deterministic without wall-clock sleeps.
type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.t = c.t.Add(d)
	return nil
}

func newTestManager(t *testing.T) (*Manager, *fakeClock) {
	t.Helper()
	m := New()
	m.probeTimeout = 500 * time.Millisecond
	clk := &fakeClock{t: time.Unix(1700000000, 0)}
	m.now = clk.now
	m.sleep = clk.sleep
	return m, clk
}

func endpointFor(t *testing.T, ts *httptest.Server) config.Endpoint {
	t.Helper()
	ep, err := config.ParseEndpoint(ts.URL + "/v1")
	if err != nil {
		t.Fatalf("parse endpoint: %v", err)
	}
	return ep
}

func TestCheckHealthOK(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/models" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(`{"data":[{"id":"m"}]}`))
	}))
	defer ts.Close()

	m, _ := newTestManager(t)
	if !m.CheckHealth(context.Background(), endpointFor(t, ts)) {
		t.Fatalf("expected healthy")
	}
}

func TestCheckHealthNonSuccessStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer ts.Close()

	m, _ := newTestManager(t)
	if m.CheckHealth(context.Background(), endpointFor(t, ts)) {
		t.Fatalf("503 must not count as healthy")
	}
}

func TestCheckHealthUnreachableReturnsFalse(t *testing.T) {
	m, _ := newTestManager(t)
	ep, err := config.ParseEndpoint("http://127.0.0.1:1/v1")
	if err != nil {
		t.Fatalf("parse endpoint: %v", err)
	}
	// must return false, never panic or propagate the connection error
	if m.CheckHealth(context.Background(), ep) {
		t.Fatalf("unreachable endpoint reported healthy")
	}
}

func TestProbesReuseConnection(t *testing.T) {
	var conns int32
	ts := httptest.NewUnstartedServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":[{"id":"m"}]}`))
	}))
	ts.Config.ConnState = func(c net.Conn, s http.ConnState) {
		if s == http.StateNew {
			atomic.AddInt32(&conns, 1)
		}
	}
	ts.Start()
	defer ts.Close()

	m, _ := newTestManager(t)
	ep := endpointFor(t, ts)
	for i := 0; i < 3; i++ {
		if !m.CheckHealth(context.Background(), ep) {
			t.Fatalf("probe %d failed", i)
		}
	}
	if st := m.FetchStatus(context.Background(), ep); !st.IsHealthy {
		t.Fatalf("status probe failed")
	}
	// drained bodies keep one pooled connection alive for the whole loop
	if n := atomic.LoadInt32(&conns); n != 1 {
		t.Fatalf("expected a single reused connection, server saw %d", n)
	}
}

func TestWaitUntilReadyTimesOut(t *testing.T) {
	var probes int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&probes, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()

	m, clk := newTestManager(t)
	begin := clk.t
	const (
		timeout  = 10 * time.Second
		interval = 2 * time.Second
	)
	st := m.WaitUntilReady(context.Background(), endpointFor(t, ts), timeout, interval)
	if st.Phase != StateTimedOut {
		t.Fatalf("expected TimedOut, got %v", st.Phase)
	}
	elapsed := clk.t.Sub(begin)
	if elapsed < timeout || elapsed > timeout+interval {
		t.Fatalf("timed out at %v, want within [%v, %v]", elapsed, timeout, timeout+interval)
	}
	if n := atomic.LoadInt32(&probes); n != 6 {
		t.Fatalf("expected 6 probes for 10s/2s, got %d", n)
	}
}

func TestWaitUntilReadyThirdAttempt(t *testing.T) {
	var probes int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&probes, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{"data":[{"id":"m"}]}`))
	}))
	defer ts.Close()

	m, clk := newTestManager(t)
	begin := clk.t
	const interval = 2 * time.Second
	st := m.WaitUntilReady(context.Background(), endpointFor(t, ts), time.Minute, interval)
	if st.Phase != StateReady {
		t.Fatalf("expected Ready, got %v (%s)", st.Phase, st.Reason)
	}
	if elapsed := clk.t.Sub(begin); elapsed != 2*interval {
		t.Fatalf("ready after %v, want %v", elapsed, 2*interval)
	}
}

func TestWaitUntilReadyMalformedEndpoint(t *testing.T) {
	m, _ := newTestManager(t)
	st := m.WaitUntilReady(context.Background(), config.Endpoint{BaseURL: "://not-a-url"}, time.Second, time.Second)
	if st.Phase != StateFailed || st.Reason == "" {
		t.Fatalf("expected Failed with reason, got %+v", st)
	}
}

func TestWaitUntilReadyCancel(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer ts.Close()

	m, _ := newTestManager(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	st := m.WaitUntilReady(ctx, endpointFor(t, ts), time.Minute, time.Second)
	if st.Phase != StateFailed {
		t.Fatalf("expected Failed on canceled context, got %v", st.Phase)
	}
}

func TestPhaseString(t *testing.T) {
	cases := map[Phase]string{
		StateUnknown:  "unknown",
		StatePolling:  "polling",
		StateReady:    "ready",
		StateTimedOut: "timed_out",
		StateFailed:   "failed",
	}
	for p, want := range cases {
		if got := p.String(); got != want {
			t.Fatalf("Phase(%d).String() = %q, want %q", p, got, want)
		}
	}
}
