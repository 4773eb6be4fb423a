package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newStatusCmd(opts *rootOpts) *cobra.Command {
	return &cobra.Command{
		Use:     "status",
		Short:   "Report the loaded model and health of the server",
		Example: "  vllmctl status --server http://localhost:8000/v1",
		RunE: func(cmd *cobra.Command, args []string) error {
			ep, err := resolveEndpoint(opts)
			if err != nil {
				return err
			}
			m := newManager(opts)
			st := m.FetchStatus(cmd.Context(), ep)
			if !st.IsHealthy {
				return fmt.Errorf("server at %s is offline or reports no models", ep.BaseURL)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "status: online\n")
			fmt.Fprintf(out, "model: %s\n", st.ModelID)
			if st.OwnedBy != "" {
				fmt.Fprintf(out, "owned_by: %s\n", st.OwnedBy)
			}
			if st.Created != 0 {
				fmt.Fprintf(out, "created: %d\n", st.Created)
			}
			return nil
		},
	}
}
