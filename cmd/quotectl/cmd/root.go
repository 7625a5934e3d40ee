package cmd

import (
	"encoding/json"
	"io"

	"github.com/spf13/cobra"

	"autoloan-agent/app"
	"autoloan-agent/config"
	"autoloan-agent/domain"
	"autoloan-agent/observability"
)

const (
	flagIncome      = "income"
	flagPrice       = "price"
	flagDown        = "down-payment"
	flagVehicle     = "vehicle"
	flagTradeIn     = "trade-in"
	flagEmployment  = "employment"
	flagBalance     = "balance"
	flagCreditScore = "credit-score"
)

// NewRootCmd creates the root command for quotectl.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "quotectl",
		Short: "Match borrowers to auto lenders and run quote sessions from the terminal",
		Long: `quotectl drives the auto-loan agent without the HTTP API.

It reads the same environment as the server (SESSION_STORE, QUOTE_*_LATENCY,
RANDOM_SEED, ...) so a run can be reproduced with a fixed seed.`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(
		newMatchCmd(),
		newQuoteCmd(),
		newCatalogCmd(),
	)
	return rootCmd
}

func buildApp(cmd *cobra.Command, overrides ...func(*config.Config)) (*app.App, error) {
	cfg := config.Load()
	for _, o := range overrides {
		o(&cfg)
	}
	logger := observability.NewLogger(cfg.Env)
	return app.New(cmd.Context(), cfg, logger)
}

func addProfileFlags(cmd *cobra.Command) {
	cmd.Flags().String(flagIncome, "", "monthly income, e.g. $6,000 (required)")
	cmd.Flags().String(flagPrice, "", "vehicle purchase price")
	cmd.Flags().String(flagDown, "", "down payment")
	cmd.Flags().String(flagVehicle, "", "vehicle description or VIN")
	cmd.Flags().String(flagTradeIn, "", "trade-in value")
	cmd.Flags().String(flagEmployment, domain.EmploymentFullTime, "employment type")
	cmd.Flags().String(flagBalance, "", "bank balance")
	cmd.Flags().Int(flagCreditScore, 0, "known credit score (300-850); estimated when omitted")
	_ = cmd.MarkFlagRequired(flagIncome)
}

func rawProfileFromFlags(cmd *cobra.Command) (domain.RawBorrowerProfile, error) {
	flags := cmd.Flags()
	var (
		raw domain.RawBorrowerProfile
		err error
	)
	if raw.MonthlyIncome, err = flags.GetString(flagIncome); err != nil {
		return raw, err
	}
	if raw.PurchasePrice, err = flags.GetString(flagPrice); err != nil {
		return raw, err
	}
	if raw.DownPayment, err = flags.GetString(flagDown); err != nil {
		return raw, err
	}
	if raw.VinOrModel, err = flags.GetString(flagVehicle); err != nil {
		return raw, err
	}
	if raw.TradeInValue, err = flags.GetString(flagTradeIn); err != nil {
		return raw, err
	}
	if raw.EmploymentType, err = flags.GetString(flagEmployment); err != nil {
		return raw, err
	}
	if raw.AccountBalance, err = flags.GetString(flagBalance); err != nil {
		return raw, err
	}
	if raw.EstimatedCreditScore, err = flags.GetInt(flagCreditScore); err != nil {
		return raw, err
	}
	return raw, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
