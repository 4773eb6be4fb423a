package lifecycle

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"vllmctl/internal/config"
	"vllmctl/pkg/types"
)

func TestRunSmokeTestSuccess(t *testing.T) {
	var gotReq types.ChatCompletionRequest
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			http.NotFound(w, r)
			return
		}
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		resp := types.ChatCompletionResponse{
			Object: "chat.completion",
			Model:  gotReq.Model,
			Choices: []types.ChatChoice{{
				Message:      types.ChatMessage{Role: "assistant", Content: "Hi there!"},
				FinishReason: "stop",
			}},
			Usage: types.Usage{PromptTokens: 5, CompletionTokens: 3, TotalTokens: 8},
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer ts.Close()

	m, _ := newTestManager(t)
	res := m.RunSmokeTest(context.Background(), endpointFor(t, ts), "my-model", "ping", 16)
	if !res.Success {
		t.Fatalf("expected success, got error %q", res.Error)
	}
	if res.Output == "" {
		t.Fatalf("expected non-empty output text")
	}
	if res.Usage.TotalTokens != 8 {
		t.Fatalf("usage not carried through: %+v", res.Usage)
	}
	if gotReq.Model != "my-model" || len(gotReq.Messages) != 1 || gotReq.Messages[0].Role != "user" {
		t.Fatalf("unexpected outbound request: %+v", gotReq)
	}
}

func TestRunSmokeTestServerError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer ts.Close()

	m, _ := newTestManager(t)
	res := m.RunSmokeTest(context.Background(), endpointFor(t, ts), "m", "ping", 8)
	if res.Success {
		t.Fatalf("expected failure on 500")
	}
	if res.FailureClass != string(ClassServer) {
		t.Fatalf("expected server classification, got %q", res.FailureClass)
	}
}

func TestRunSmokeTestConfigError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"model not found"}`, http.StatusBadRequest)
	}))
	defer ts.Close()

	m, _ := newTestManager(t)
	res := m.RunSmokeTest(context.Background(), endpointFor(t, ts), "wrong-model", "ping", 8)
	if res.Success {
		t.Fatalf("expected failure on 400")
	}
	if res.FailureClass != string(ClassConfig) {
		t.Fatalf("expected config classification, got %q", res.FailureClass)
	}
}

func TestRunSmokeTestNetworkError(t *testing.T) {
	m, _ := newTestManager(t)
	ep, err := config.ParseEndpoint("http://127.0.0.1:1/v1")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	res := m.RunSmokeTest(context.Background(), ep, "m", "ping", 8)
	if res.Success || res.FailureClass != string(ClassServer) {
		t.Fatalf("network failure must classify as server error, got %+v", res)
	}
}

func TestRunSmokeTestModelFromListing(t *testing.T) {
	var gotModel string
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/models", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":[{"id":"served-model"}]}`))
	})
	mux.HandleFunc("/v1/chat/completions", func(w http.ResponseWriter, r *http.Request) {
		var req types.ChatCompletionRequest
		json.NewDecoder(r.Body).Decode(&req)
		gotModel = req.Model
		json.NewEncoder(w).Encode(types.ChatCompletionResponse{
			Choices: []types.ChatChoice{{Message: types.ChatMessage{Content: "ok"}}},
		})
	})
	ts := httptest.NewServer(mux)
	defer ts.Close()

	m, _ := newTestManager(t)
	res := m.RunSmokeTest(context.Background(), endpointFor(t, ts), "", "ping", 8)
	if !res.Success {
		t.Fatalf("expected success, got %q", res.Error)
	}
	if gotModel != "served-model" {
		t.Fatalf("expected model from listing, got %q", gotModel)
	}
}
