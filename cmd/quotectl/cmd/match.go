package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func newMatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "match",
		Short: "List the lenders a borrower is eligible for, best rate first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			raw, err := rawProfileFromFlags(cmd)
			if err != nil {
				return err
			}
			a, err := buildApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close(context.WithoutCancel(cmd.Context()))

			result, err := a.Matcher.MatchRaw(raw)
			if err != nil {
				return err
			}
			if len(result.Matches) == 0 {
				fmt.Fprintln(cmd.ErrOrStderr(), "no eligible lenders")
			}
			return printJSON(cmd.OutOrStdout(), result)
		},
	}
	addProfileFlags(cmd)
	return cmd
}
