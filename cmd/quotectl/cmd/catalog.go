package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"autoloan-agent/service"
)

func newCatalogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect the lender catalog",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "Print every lender product",
			RunE: func(cmd *cobra.Command, _ []string) error {
				a, err := buildApp(cmd)
				if err != nil {
					return err
				}
				defer a.Close(context.WithoutCancel(cmd.Context()))
				return printJSON(cmd.OutOrStdout(), a.Lenders.All())
			},
		},
		&cobra.Command{
			Use:   "validate",
			Short: "Check the lender catalog for inconsistent products",
			RunE: func(cmd *cobra.Command, _ []string) error {
				a, err := buildApp(cmd)
				if err != nil {
					return err
				}
				defer a.Close(context.WithoutCancel(cmd.Context()))

				issues := service.ValidateCatalog(a.Lenders.All())
				for _, issue := range issues {
					fmt.Fprintln(cmd.OutOrStdout(), issue.String())
				}
				if len(issues) > 0 {
					return fmt.Errorf("%d catalog issue(s)", len(issues))
				}
				fmt.Fprintln(cmd.OutOrStdout(), "catalog ok")
				return nil
			},
		},
	)
	return cmd
}
