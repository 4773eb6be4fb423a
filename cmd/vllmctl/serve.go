package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"vllmctl/internal/config"
	"vllmctl/internal/lifecycle"
)

func newServeCmd(opts *rootOpts) *cobra.Command {
	var (
		ov       overrideFlags
		logFile  string
		timeout  time.Duration
		interval time.Duration
		detach   bool
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Launch the server and wait until it is ready",
		Example: "  vllmctl serve --config vllm_config.yaml\n" +
			"  vllmctl serve --model meta-llama/Llama-3.1-8B-Instruct --port 8000 --detach",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Resolve(opts.configPath, ov.toOverrides(cmd.Flags()))
			if err != nil {
				return err
			}
			m := newManager(opts)
			h, err := m.Launch(cfg, logFile)
			if err != nil {
				return err
			}
			ep := config.EndpointFor(cfg)
			log.Info().Str("endpoint", ep.BaseURL).Str("log", h.LogPath).Msg("waiting for server")

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			ready := make(chan lifecycle.ReadinessState, 1)
			go func() { ready <- m.WaitUntilReady(ctx, ep, timeout, interval) }()
			select {
			case exitErr := <-h.Exited():
				return fmt.Errorf("server exited before ready (see %s): %v", h.LogPath, exitErr)
			case st := <-ready:
				switch st.Phase {
				case lifecycle.StateReady:
				case lifecycle.StateTimedOut:
					// Not fatal: a large model may still be loading. Leave
					// the process up and tell the operator where to look.
					fmt.Fprintf(cmd.OutOrStdout(), "server not ready after %s; still loading? tail %s or re-run `vllmctl wait`\n", timeout, h.LogPath)
					return fmt.Errorf("timed out waiting for %s", ep.BaseURL)
				default:
					_ = m.Stop(h)
					return fmt.Errorf("readiness wait failed: %s", st.Reason)
				}
			}

			fmt.Fprintf(cmd.OutOrStdout(), "server ready at %s (pid %d, log %s)\n", ep.BaseURL, h.PID, h.LogPath)
			if detach {
				return nil
			}

			// Stay attached; Ctrl+C / SIGTERM stops the server.
			select {
			case <-ctx.Done():
				log.Info().Msg("shutting down")
				return m.Stop(h)
			case exitErr := <-h.Exited():
				if exitErr != nil {
					return fmt.Errorf("server exited: %v", exitErr)
				}
				return nil
			}
		},
	}
	addOverrideFlags(cmd, &ov)
	cmd.Flags().StringVar(&logFile, "log-file", defaultLogPath(), "Log sink for server output")
	cmd.Flags().DurationVar(&timeout, "timeout", 120*time.Second, "Readiness timeout")
	cmd.Flags().DurationVar(&interval, "interval", 2*time.Second, "Poll interval")
	cmd.Flags().BoolVar(&detach, "detach", false, "Return once ready instead of staying attached")
	return cmd
}

func defaultLogPath() string {
	return fmt.Sprintf("%s/vllm-server.log", os.TempDir())
}
