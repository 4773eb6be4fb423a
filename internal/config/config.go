package config

import (
	"errors"
	"fmt"
	"os"
)

// Defaults applied when neither the file nor overrides set a field.
const (
	DefaultPort               = 8000
	DefaultHost               = "0.0.0.0"
	DefaultMemoryUtilization  = 0.85
	DefaultMaxModelLen        = 8192
	DefaultTensorParallelSize = 1
)

// Quantization holds the optional quantization settings. Absence is
// represented by a nil pointer on ServerConfig, never by empty strings.
type Quantization struct {
	Method     string
	LoadFormat string
}

// ServerConfig is the resolved, validated launch configuration.
// Construct it once via Resolve and pass it by value; it is never
// mutated afterwards.
type ServerConfig struct {
	Model              string
	Host               string
	Port               int
	MemoryUtilization  float64
	MaxModelLen        int
	TensorParallelSize int
	Quantization       *Quantization
}

// Overrides carries caller-supplied settings (CLI flags) that take
// precedence over the declarative file. Nil fields mean "not set".
type Overrides struct {
	Model              *string
	Host               *string
	Port               *int
	MemoryUtilization  *float64
	MaxModelLen        *int
	TensorParallelSize *int
	QuantMethod        *string
	QuantLoadFormat    *string
}

// Resolve layers defaults, the declarative file at path, and overrides in
// increasing priority, then validates the result. A missing file is only
// an error when no default or override can satisfy the model field.
func Resolve(path string, ov Overrides) (ServerConfig, error) {
	var f File
	if path != "" {
		loaded, err := Load(path)
		if err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return ServerConfig{}, &ConfigError{Key: "config", Reason: err.Error()}
			}
			// fall through with an empty file; overrides may still suffice
		} else {
			f = loaded
		}
	}

	cfg := ServerConfig{
		Host:               DefaultHost,
		Port:               DefaultPort,
		MemoryUtilization:  DefaultMemoryUtilization,
		MaxModelLen:        DefaultMaxModelLen,
		TensorParallelSize: DefaultTensorParallelSize,
	}

	cfg.Model = f.Server.Model
	if f.Server.Host != "" {
		cfg.Host = f.Server.Host
	}
	if f.Server.Port != nil {
		cfg.Port = *f.Server.Port
	}
	if f.GPU.MemoryUtilization != nil {
		cfg.MemoryUtilization = *f.GPU.MemoryUtilization
	}
	if f.GPU.MaxModelLen != nil {
		cfg.MaxModelLen = *f.GPU.MaxModelLen
	}
	if f.GPU.TensorParallelSize != nil {
		cfg.TensorParallelSize = *f.GPU.TensorParallelSize
	}
	quant := Quantization{Method: f.Quantization.Method, LoadFormat: f.Quantization.LoadFormat}

	if ov.Model != nil {
		cfg.Model = *ov.Model
	}
	if ov.Host != nil {
		cfg.Host = *ov.Host
	}
	if ov.Port != nil {
		cfg.Port = *ov.Port
	}
	if ov.MemoryUtilization != nil {
		cfg.MemoryUtilization = *ov.MemoryUtilization
	}
	if ov.MaxModelLen != nil {
		cfg.MaxModelLen = *ov.MaxModelLen
	}
	if ov.TensorParallelSize != nil {
		cfg.TensorParallelSize = *ov.TensorParallelSize
	}
	if ov.QuantMethod != nil {
		quant.Method = *ov.QuantMethod
	}
	if ov.QuantLoadFormat != nil {
		quant.LoadFormat = *ov.QuantLoadFormat
	}
	if quant.Method != "" || quant.LoadFormat != "" {
		cfg.Quantization = &quant
	}

	if err := cfg.validate(); err != nil {
		return ServerConfig{}, err
	}
	return cfg, nil
}

func (c ServerConfig) validate() error {
	if c.Model == "" {
		return &ConfigError{Key: "server.model", Reason: "required but not set in file or flags"}
	}
	if c.Port < 1 || c.Port > 65535 {
		return &ConfigError{Key: "server.port", Reason: fmt.Sprintf("must be in 1-65535, got %d", c.Port)}
	}
	if c.MemoryUtilization <= 0 || c.MemoryUtilization > 1 {
		return &ConfigError{Key: "gpu.memory_utilization", Reason: fmt.Sprintf("must be in (0,1], got %g", c.MemoryUtilization)}
	}
	if c.MaxModelLen <= 0 {
		return &ConfigError{Key: "gpu.max_model_len", Reason: fmt.Sprintf("must be positive, got %d", c.MaxModelLen)}
	}
	if c.TensorParallelSize <= 0 {
		return &ConfigError{Key: "gpu.tensor_parallel_size", Reason: fmt.Sprintf("must be positive, got %d", c.TensorParallelSize)}
	}
	if c.Quantization != nil && c.Quantization.Method == "" {
		return &ConfigError{Key: "quantization.method", Reason: "load_format set without a quantization method"}
	}
	return nil
}
