package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"vllmctl/internal/config"
	"vllmctl/internal/lifecycle"
)

// rootOpts are the persistent flags shared by every subcommand.
type rootOpts struct {
	configPath string
	serverURL  string
	logLevel   string
	bin        string
}

var log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).With().Timestamp().Logger()

func envStr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func setLogLevel(level string) {
	switch strings.ToLower(level) {
	case "debug":
		log = log.Level(zerolog.DebugLevel)
	case "warn", "warning":
		log = log.Level(zerolog.WarnLevel)
	case "error", "err":
		log = log.Level(zerolog.ErrorLevel)
	default:
		log = log.Level(zerolog.InfoLevel)
	}
}

func newRootCmd() *cobra.Command {
	opts := &rootOpts{}
	root := &cobra.Command{
		Use:           "vllmctl",
		Short:         "Configure, launch and probe an OpenAI-compatible vLLM server",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", envStr("VLLMCTL_CONFIG", "vllm_config.yaml"), "Declarative config file (yaml/json/toml)")
	root.PersistentFlags().StringVar(&opts.serverURL, "server", envStr("VLLMCTL_SERVER", ""), "Server base URL, e.g. http://localhost:8000/v1 (overrides config)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", envStr("VLLMCTL_LOG_LEVEL", "info"), "Log level: debug|info|warn|error")
	root.PersistentFlags().StringVar(&opts.bin, "bin", envStr("VLLMCTL_BIN", "vllm"), "Server executable to launch")
	root.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		setLogLevel(opts.logLevel)
	}

	root.AddCommand(
		newServeCmd(opts),
		newCheckCmd(opts),
		newWaitCmd(opts),
		newStatusCmd(opts),
		newTestCmd(opts),
		newArgsCmd(opts),
		newTunnelCmd(),
		newSuperviseCmd(opts),
	)
	return root
}

// overrideFlags carries the per-command config override flags. Only flags
// the caller actually set become overrides, so file values survive.
type overrideFlags struct {
	model      string
	host       string
	port       int
	gpuMem     float64
	maxLen     int
	tp         int
	quant      string
	loadFormat string
}

func addOverrideFlags(cmd *cobra.Command, o *overrideFlags) {
	f := cmd.Flags()
	f.StringVar(&o.model, "model", "", "Model id or path")
	f.StringVar(&o.host, "host", "", "Bind host")
	f.IntVar(&o.port, "port", 0, "Bind port")
	f.Float64Var(&o.gpuMem, "gpu-mem", 0, "GPU memory fraction (0,1]")
	f.IntVar(&o.maxLen, "max-model-len", 0, "Maximum context length")
	f.IntVar(&o.tp, "tensor-parallel", 0, "Tensor parallel size")
	f.StringVar(&o.quant, "quantization", "", "Quantization method")
	f.StringVar(&o.loadFormat, "load-format", "", "Weight load format")
}

func (o *overrideFlags) toOverrides(f *pflag.FlagSet) config.Overrides {
	var ov config.Overrides
	if f.Changed("model") {
		ov.Model = &o.model
	}
	if f.Changed("host") {
		ov.Host = &o.host
	}
	if f.Changed("port") {
		ov.Port = &o.port
	}
	if f.Changed("gpu-mem") {
		ov.MemoryUtilization = &o.gpuMem
	}
	if f.Changed("max-model-len") {
		ov.MaxModelLen = &o.maxLen
	}
	if f.Changed("tensor-parallel") {
		ov.TensorParallelSize = &o.tp
	}
	if f.Changed("quantization") {
		ov.QuantMethod = &o.quant
	}
	if f.Changed("load-format") {
		ov.QuantLoadFormat = &o.loadFormat
	}
	return ov
}

// resolveEndpoint picks the probe target: an explicit --server URL wins,
// otherwise the endpoint derived from the resolved config.
func resolveEndpoint(opts *rootOpts) (config.Endpoint, error) {
	if opts.serverURL != "" {
		return config.ParseEndpoint(opts.serverURL)
	}
	ep, err := config.ResolveEndpoint(opts.configPath)
	if err != nil {
		return config.Endpoint{}, fmt.Errorf("no --server given and config did not resolve: %w", err)
	}
	return ep, nil
}

func newManager(opts *rootOpts) *lifecycle.Manager {
	return lifecycle.NewWithConfig(lifecycle.Config{Bin: opts.bin, Logger: log})
}
