package config

import "strconv"

// LaunchArgs renders the ordered argument list for `vllm serve`.
// The order is fixed so logs and tests are reproducible: model, port,
// host, memory fraction, context length, parallelism, request-logging
// switch, then quantization flags only when configured.
func LaunchArgs(c ServerConfig) []string {
	args := []string{
		"serve", c.Model,
		"--port", strconv.Itoa(c.Port),
		"--host", c.Host,
		"--gpu-memory-utilization", strconv.FormatFloat(c.MemoryUtilization, 'g', -1, 64),
		"--max-model-len", strconv.Itoa(c.MaxModelLen),
		"--tensor-parallel-size", strconv.Itoa(c.TensorParallelSize),
		"--disable-log-requests",
	}
	if q := c.Quantization; q != nil {
		args = append(args, "--quantization", q.Method)
		if q.LoadFormat != "" {
			args = append(args, "--load-format", q.LoadFormat)
		}
	}
	return args
}
