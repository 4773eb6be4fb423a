package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// File mirrors the declarative configuration document. Numeric fields are
// pointers so an explicit zero in the file stays distinguishable from an
// absent key: absent falls back to a default, present-but-invalid reaches
// validation.
type File struct {
	Server struct {
		Port  *int   `json:"port" yaml:"port" toml:"port"`
		Host  string `json:"host" yaml:"host" toml:"host"`
		Model string `json:"model" yaml:"model" toml:"model"`
	} `json:"server" yaml:"server" toml:"server"`
	GPU struct {
		MemoryUtilization  *float64 `json:"memory_utilization" yaml:"memory_utilization" toml:"memory_utilization"`
		MaxModelLen        *int     `json:"max_model_len" yaml:"max_model_len" toml:"max_model_len"`
		TensorParallelSize *int     `json:"tensor_parallel_size" yaml:"tensor_parallel_size" toml:"tensor_parallel_size"`
	} `json:"gpu" yaml:"gpu" toml:"gpu"`
	Quantization struct {
		Method     string `json:"method" yaml:"method" toml:"method"`
		LoadFormat string `json:"load_format" yaml:"load_format" toml:"load_format"`
	} `json:"quantization" yaml:"quantization" toml:"quantization"`
}

// Load reads a configuration file based on its extension.
// Supports: .yaml/.yml, .json, .toml
func Load(path string) (File, error) {
	var f File
	if path == "" {
		return f, fmt.Errorf("empty config path")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return f, err
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &f); err != nil {
			return f, err
		}
	case ".json":
		if err := json.Unmarshal(b, &f); err != nil {
			return f, err
		}
	case ".toml":
		if err := toml.Unmarshal(b, &f); err != nil {
			return f, err
		}
	default:
		return f, fmt.Errorf("unsupported config extension: %s", ext)
	}
	return f, nil
}
