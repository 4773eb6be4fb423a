package types

// StatusResponse is returned by the supervisor's GET /status.
type StatusResponse struct {
	// Client-facing base URL of the managed server.
	// example: http://127.0.0.1:8000/v1
	Endpoint string `json:"endpoint" example:"http://127.0.0.1:8000/v1"`
	// Result of the latest model-listing probe.
	Server ServerStatus `json:"server"`
	// Process ID of the spawned server, when launched by this tool.
	// example: 12345
	PID int `json:"pid,omitempty" example:"12345"`
	// Log sink path of the spawned server, when launched by this tool.
	// example: /tmp/vllm.log
	LogPath string `json:"log_path,omitempty" example:"/tmp/vllm.log"`
	// Supervisor uptime in seconds.
	// example: 3600
	UptimeSeconds int64 `json:"uptime_seconds" example:"3600"`
	// Supervisor time in unix seconds.
	// example: 1700000000
	ServerTimeUnix int64 `json:"server_time_unix" example:"1700000000"`
}

// ErrorResponse is a consistent JSON error payload.
type ErrorResponse struct {
	// Error message.
	// example: upstream not reachable
	Error string `json:"error" example:"upstream not reachable"`
	// HTTP status code.
	// example: 502
	Code int `json:"code" example:"502"`
}
