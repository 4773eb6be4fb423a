package types

// ChatMessage is a single message in an OpenAI-style chat exchange.
type ChatMessage struct {
	// Role of the author (system, user, assistant).
	// example: user
	Role string `json:"role" example:"user"`
	// Message text.
	// example: Hello! How are you?
	Content string `json:"content" example:"Hello! How are you?"`
}

// ChatCompletionRequest is the body for POST {base}/chat/completions.
type ChatCompletionRequest struct {
	// Model identifier as reported by the server's model listing.
	// example: meta-llama/Llama-3.1-8B-Instruct
	Model string `json:"model" example:"meta-llama/Llama-3.1-8B-Instruct"`
	// Conversation so far; a smoke test sends a single user message.
	Messages []ChatMessage `json:"messages"`
	// Maximum number of new tokens to generate.
	// example: 100
	MaxTokens int `json:"max_tokens,omitempty" example:"100"`
	// Sampling temperature (higher = more random).
	// example: 0.1
	Temperature float64 `json:"temperature,omitempty" example:"0.1"`
}

// ChatChoice is one generated alternative in a completion response.
type ChatChoice struct {
	Index        int         `json:"index"`
	Message      ChatMessage `json:"message"`
	FinishReason string      `json:"finish_reason,omitempty"`
}

// Usage reports token accounting for a completion.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// ChatCompletionResponse is the success body from the completions endpoint.
type ChatCompletionResponse struct {
	ID      string       `json:"id"`
	Object  string       `json:"object"`
	Created int64        `json:"created"`
	Model   string       `json:"model"`
	Choices []ChatChoice `json:"choices"`
	Usage   Usage        `json:"usage"`
}

// ModelInfo describes one entry from GET {base}/models.
type ModelInfo struct {
	// Stable identifier for the loaded model.
	// example: meta-llama/Llama-3.1-8B-Instruct
	ID      string `json:"id" example:"meta-llama/Llama-3.1-8B-Instruct"`
	Object  string `json:"object,omitempty"`
	Created int64  `json:"created,omitempty"`
	OwnedBy string `json:"owned_by,omitempty"`
}

// ModelsResponse wraps the model listing returned by GET {base}/models.
type ModelsResponse struct {
	Object string      `json:"object,omitempty"`
	Data   []ModelInfo `json:"data"`
}
