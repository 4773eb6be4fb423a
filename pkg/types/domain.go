package types

import "time"

// ServerStatus summarizes a probe of the server's model listing.
type ServerStatus struct {
	// ID of the first model the server reports, empty when unhealthy.
	// example: meta-llama/Llama-3.1-8B-Instruct
	ModelID string `json:"model_id,omitempty" example:"meta-llama/Llama-3.1-8B-Instruct"`
	// Whether the listing call succeeded with at least one model.
	// example: true
	IsHealthy bool `json:"healthy" example:"true"`
	// Unix seconds the server reports the model was created/loaded.
	// example: 1700000000
	Created int64 `json:"created,omitempty" example:"1700000000"`
	// Owner string from the model listing.
	// example: vllm
	OwnedBy string `json:"owned_by,omitempty" example:"vllm"`
}

// TestResult is the outcome of a smoke-test completion.
type TestResult struct {
	// Whether the completion round-trip succeeded.
	// example: true
	Success bool `json:"success" example:"true"`
	// Wall-clock latency of the request.
	Latency time.Duration `json:"latency_ns" swaggertype:"integer"`
	// Generated text on success.
	Output string `json:"output,omitempty"`
	// Failure description on error.
	Error string `json:"error,omitempty"`
	// Failure classification: "config" for HTTP 4xx responses,
	// "server" for 5xx responses and network errors.
	FailureClass string `json:"failure_class,omitempty"`
	// Token usage reported by the server, if any.
	Usage Usage `json:"usage,omitempty"`
}
