package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newTestCmd(opts *rootOpts) *cobra.Command {
	var (
		model     string
		prompt    string
		maxTokens int
	)
	cmd := &cobra.Command{
		Use:     "test",
		Short:   "Run a smoke-test completion against the server",
		Example: "  vllmctl test --server http://localhost:8000/v1 --prompt \"Say hi\"",
		RunE: func(cmd *cobra.Command, args []string) error {
			ep, err := resolveEndpoint(opts)
			if err != nil {
				return err
			}
			m := newManager(opts)
			res := m.RunSmokeTest(cmd.Context(), ep, model, prompt, maxTokens)
			out := cmd.OutOrStdout()
			if !res.Success {
				return fmt.Errorf("smoke test failed (%s error, %s): %s", res.FailureClass, res.Latency.Round(time.Millisecond), res.Error)
			}
			fmt.Fprintf(out, "smoke test ok in %s\n", res.Latency.Round(time.Millisecond))
			fmt.Fprintf(out, "output: %s\n", res.Output)
			if res.Usage.TotalTokens > 0 {
				fmt.Fprintf(out, "tokens: %d prompt + %d completion\n", res.Usage.PromptTokens, res.Usage.CompletionTokens)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&model, "model", "", "Model id (defaults to the server's first listed model)")
	cmd.Flags().StringVar(&prompt, "prompt", "", "Prompt to send")
	cmd.Flags().IntVar(&maxTokens, "max-tokens", 0, "Completion token budget")
	return cmd
}
