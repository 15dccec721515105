package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"contentcore/internal/gentext"
)

func newDescribeCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "describe <name> [details...]",
		Short: "Draft a project description to paste into a record",
		Long: `Draft a short project description. With gentext.api_key configured the
text comes from Gemini; otherwise a deterministic offline template is used.
The output is a prefill, not stored content.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			gen, err := a.generator(cmd.Context())
			if err != nil {
				return err
			}
			text, err := gen.Describe(cmd.Context(), gentext.Request{
				Name:    args[0],
				Details: args[1:],
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), text)
			return nil
		},
	}
}
