package lifecycle

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"vllmctl/internal/config"
	"vllmctl/pkg/types"
)

// Defaults for a smoke-test completion, matching a minimal "is it alive"
// request rather than a representative workload.
const (
	defaultSmokePrompt    = "Hello! How are you?"
	defaultSmokeMaxTokens = 100
	smokeTemperature      = 0.1
)

// RunSmokeTest issues one minimal chat completion and classifies the
// outcome: HTTP 4xx is a configuration error the operator can fix, 5xx
// and network failures are server errors. Latency is wall-clock for the
// whole round trip.
func (m *Manager) RunSmokeTest(ctx context.Context, ep config.Endpoint, model, prompt string, maxTokens int) types.TestResult {
	if prompt == "" {
		prompt = defaultSmokePrompt
	}
	if maxTokens <= 0 {
		maxTokens = defaultSmokeMaxTokens
	}
	if model == "" {
		// Fall back to whatever the server reports as loaded.
		if st := m.FetchStatus(ctx, ep); st.IsHealthy {
			model = st.ModelID
		}
	}

	start := m.now()
	fail := func(class RequestClass, err error) types.TestResult {
		return types.TestResult{
			Latency:      m.now().Sub(start),
			Error:        err.Error(),
			FailureClass: string(class),
		}
	}

	body, err := json.Marshal(types.ChatCompletionRequest{
		Model:       model,
		Messages:    []types.ChatMessage{{Role: "user", Content: prompt}},
		MaxTokens:   maxTokens,
		Temperature: smokeTemperature,
	})
	if err != nil {
		return fail(ClassConfig, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, ep.ChatCompletionsURL(), bytes.NewReader(body))
	if err != nil {
		return fail(ClassConfig, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return fail(ClassServer, &RequestError{Class: ClassServer, Err: err})
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		tail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		class := ClassServer
		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			class = ClassConfig
		}
		err := &RequestError{
			Class:  class,
			Status: resp.StatusCode,
			Err:    fmt.Errorf("http %d: %s", resp.StatusCode, bytes.TrimSpace(tail)),
		}
		return fail(class, err)
	}

	var completion types.ChatCompletionResponse
	if err := json.NewDecoder(resp.Body).Decode(&completion); err != nil {
		return fail(ClassServer, &RequestError{Class: ClassServer, Status: resp.StatusCode, Err: err})
	}
	if len(completion.Choices) == 0 {
		return fail(ClassServer, &RequestError{Class: ClassServer, Status: resp.StatusCode, Err: fmt.Errorf("completion returned no choices")})
	}
	return types.TestResult{
		Success: true,
		Latency: m.now().Sub(start),
		Output:  completion.Choices[0].Message.Content,
		Usage:   completion.Usage,
	}
}
