package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"vllmctl/internal/config"
	"vllmctl/internal/httpapi"
	"vllmctl/internal/lifecycle"
)

func newSuperviseCmd(opts *rootOpts) *cobra.Command {
	var (
		ov       overrideFlags
		addr     string
		logFile  string
		noLaunch bool
		corsOn   bool
	)
	cmd := &cobra.Command{
		Use:   "supervise",
		Short: "Launch the server and expose a local control API",
		Long: "Launches the server (unless --no-launch) and serves /status, /healthz,\n" +
			"/readyz and /metrics on a local port so dashboards and scripts can watch\n" +
			"the managed server through one endpoint.",
		Example: "  vllmctl supervise --config vllm_config.yaml --addr :8081\n" +
			"  vllmctl supervise --no-launch --server http://localhost:8000/v1",
		RunE: func(cmd *cobra.Command, args []string) error {
			m := newManager(opts)
			var (
				ep     config.Endpoint
				handle *lifecycle.Handle
				err    error
			)
			if noLaunch {
				ep, err = resolveEndpoint(opts)
				if err != nil {
					return err
				}
			} else {
				var cfg config.ServerConfig
				cfg, err = config.Resolve(opts.configPath, ov.toOverrides(cmd.Flags()))
				if err != nil {
					return err
				}
				handle, err = m.Launch(cfg, logFile)
				if err != nil {
					return err
				}
				ep = config.EndpointFor(cfg)
			}

			httpapi.SetLogger(log)
			httpapi.SetCORSOptions(corsOn, []string{"*"}, []string{"GET"}, nil)
			mux := httpapi.NewMux(lifecycle.NewSupervisor(m, ep, handle))
			srv := &http.Server{Addr: addr, Handler: mux}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				log.Info().Str("addr", addr).Str("endpoint", ep.BaseURL).Msg("supervisor listening")
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					errCh <- err
				}
			}()

			select {
			case err := <-errCh:
				if handle != nil {
					_ = m.Stop(handle)
				}
				return fmt.Errorf("supervisor server: %w", err)
			case <-ctx.Done():
			}

			log.Info().Msg("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				log.Warn().Err(err).Msg("graceful shutdown failed")
			}
			if handle != nil {
				return m.Stop(handle)
			}
			return nil
		},
	}
	addOverrideFlags(cmd, &ov)
	cmd.Flags().StringVar(&addr, "addr", ":8081", "Supervisor listen address")
	cmd.Flags().StringVar(&logFile, "log-file", defaultLogPath(), "Log sink for server output")
	cmd.Flags().BoolVar(&noLaunch, "no-launch", false, "Attach to an already running server instead of launching")
	cmd.Flags().BoolVar(&corsOn, "cors", false, "Allow cross-origin reads of the control API")
	return cmd
}
