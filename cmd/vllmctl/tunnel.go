package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"vllmctl/internal/tunnel"
)

func newTunnelCmd() *cobra.Command {
	var cfg tunnel.Config
	cmd := &cobra.Command{
		Use:   "tunnel",
		Short: "Forward a remote server port to localhost over SSH",
		Example: "  vllmctl tunnel --remote-host gpu.example.com --user ubuntu \\\n" +
			"    --key ~/.ssh/id_ed25519 --local-port 8000 --remote-port 8000",
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := tunnel.Open(cfg, log)
			if err != nil {
				return err
			}
			defer t.Close()
			fmt.Fprintf(cmd.OutOrStdout(), "forwarding http://%s/v1 -> %s:%d (Ctrl+C to stop)\n", t.Addr(), cfg.RemoteHost, cfg.RemotePort)

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			<-ctx.Done()
			log.Info().Msg("closing tunnel")
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&cfg.RemoteHost, "remote-host", "", "Remote GPU host")
	f.StringVar(&cfg.User, "user", os.Getenv("USER"), "SSH user")
	f.IntVar(&cfg.SSHPort, "ssh-port", 22, "SSH port")
	f.StringVar(&cfg.KeyPath, "key", defaultKeyPath(), "SSH private key file")
	f.IntVar(&cfg.LocalPort, "local-port", 8000, "Local port to listen on")
	f.IntVar(&cfg.RemotePort, "remote-port", 8000, "Server port on the remote host")
	_ = cmd.MarkFlagRequired("remote-host")
	return cmd
}

func defaultKeyPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return home + "/.ssh/id_ed25519"
}
