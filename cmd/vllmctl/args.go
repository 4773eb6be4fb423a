package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"vllmctl/internal/config"
)

func newArgsCmd(opts *rootOpts) *cobra.Command {
	var ov overrideFlags
	cmd := &cobra.Command{
		Use:     "args",
		Short:   "Print the launch argument list for the resolved config",
		Example: "  vllmctl args --config vllm_config.yaml --port 9000",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Resolve(opts.configPath, ov.toOverrides(cmd.Flags()))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), opts.bin+" "+strings.Join(config.LaunchArgs(cfg), " "))
			return nil
		},
	}
	addOverrideFlags(cmd, &ov)
	return cmd
}
