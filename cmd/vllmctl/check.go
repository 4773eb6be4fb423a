package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCheckCmd(opts *rootOpts) *cobra.Command {
	return &cobra.Command{
		Use:     "check",
		Short:   "Single health probe of the server",
		Example: "  vllmctl check --server http://localhost:8000/v1",
		RunE: func(cmd *cobra.Command, args []string) error {
			ep, err := resolveEndpoint(opts)
			if err != nil {
				return err
			}
			m := newManager(opts)
			if m.CheckHealth(cmd.Context(), ep) {
				fmt.Fprintf(cmd.OutOrStdout(), "server at %s is responding\n", ep.BaseURL)
				return nil
			}
			return fmt.Errorf("server at %s is not responding", ep.BaseURL)
		},
	}
}
