package main

import (
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"vllmctl/internal/lifecycle"
)

func newWaitCmd(opts *rootOpts) *cobra.Command {
	var (
		timeout  time.Duration
		interval time.Duration
	)
	cmd := &cobra.Command{
		Use:     "wait",
		Short:   "Block until the server becomes ready or the timeout elapses",
		Example: "  vllmctl wait --server http://localhost:8000/v1 --timeout 5m",
		RunE: func(cmd *cobra.Command, args []string) error {
			ep, err := resolveEndpoint(opts)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			m := newManager(opts)
			start := time.Now()
			st := m.WaitUntilReady(ctx, ep, timeout, interval)
			switch st.Phase {
			case lifecycle.StateReady:
				fmt.Fprintf(cmd.OutOrStdout(), "server ready after %s\n", time.Since(start).Round(100*time.Millisecond))
				return nil
			case lifecycle.StateTimedOut:
				return fmt.Errorf("server at %s not ready within %s", ep.BaseURL, timeout)
			default:
				return fmt.Errorf("wait failed: %s", st.Reason)
			}
		},
	}
	cmd.Flags().DurationVar(&timeout, "timeout", 120*time.Second, "Maximum time to wait")
	cmd.Flags().DurationVar(&interval, "interval", 2*time.Second, "Poll interval")
	return cmd
}
