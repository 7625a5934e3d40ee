package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"autoloan-agent/config"
	"autoloan-agent/domain"
	"autoloan-agent/service"
)

const (
	flagInstant = "instant"
	flagSort    = "sort"
	flagFilter  = "filter"
)

func newQuoteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Run a quote session to completion and print the compared offers",
		RunE: func(cmd *cobra.Command, _ []string) error {
			raw, err := rawProfileFromFlags(cmd)
			if err != nil {
				return err
			}
			instant, _ := cmd.Flags().GetBool(flagInstant)
			sortBy, _ := cmd.Flags().GetString(flagSort)
			filterBy, _ := cmd.Flags().GetString(flagFilter)

			a, err := buildApp(cmd, func(c *config.Config) {
				if instant {
					c.QuoteMinLatency, c.QuoteMaxLatency = 0, 0
					c.NegotiationMinLatency, c.NegotiationMaxLatency = 0, 0
				}
			})
			if err != nil {
				return err
			}
			defer a.Close(context.WithoutCancel(cmd.Context()))

			out := cmd.ErrOrStderr()
			session, err := a.Sessions.StartQuoteCollectionRaw(cmd.Context(), raw, func(s domain.QuoteSession) {
				fmt.Fprintf(out, "%-12s %3.0f%%  completed=%d failed=%d total=%d\n",
					s.Status, s.ProgressPercentage(), s.Progress.Completed, s.Progress.Failed, s.Progress.Total)
			})
			if err != nil {
				return err
			}
			a.Sessions.Wait()

			final, err := a.Sessions.GetSession(cmd.Context(), session.SessionID)
			if err != nil {
				return err
			}
			if final.Status == domain.SessionFailed {
				return fmt.Errorf("quote session %s failed: %s", final.SessionID, final.FailureReason)
			}
			if final.NegotiationResult != nil {
				for _, line := range final.NegotiationResult.NegotiationLog {
					fmt.Fprintln(out, line)
				}
			}

			offers, err := service.CompareOffers(final.Quotes, service.OfferSort(sortBy), service.OfferFilter(filterBy))
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), offers)
		},
	}
	addProfileFlags(cmd)
	cmd.Flags().Bool(flagInstant, false, "skip simulated lender latency")
	cmd.Flags().String(flagSort, string(service.SortByAPR), "offer order: apr, payment, term or total")
	cmd.Flags().String(flagFilter, string(service.FilterAll), "lender kind: all, bank, credit-union or online")
	return cmd
}
