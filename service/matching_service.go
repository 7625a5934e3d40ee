package service

import (
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strconv"

	"autoloan-agent/domain"
	"autoloan-agent/repository"
)

// MatchingService filters the lender catalog against a borrower and prices
// every eligible lender.
type MatchingService struct {
	lenders repository.LenderRepository
	oracle  ValuationOracle
	logger  *slog.Logger
}

func NewMatchingService(
	lenders repository.LenderRepository,
	oracle ValuationOracle,
	logger *slog.Logger,
) *MatchingService {
	return &MatchingService{lenders: lenders, oracle: oracle, logger: loggerOrDiscard(logger)}
}

// MatchRaw parses the wizard's record and runs a match. Validation errors are
// returned before any matching happens.
func (s *MatchingService) MatchRaw(raw domain.RawBorrowerProfile) (domain.MatchResult, error) {
	profile, err := ParseBorrowerProfile(raw)
	if err != nil {
		return domain.MatchResult{}, err
	}
	return s.MatchBorrowerToLenders(profile), nil
}

// MatchBorrowerToLenders is a pure function of the profile and the catalog.
// Matches are sorted by APR, then by confidence.
func (s *MatchingService) MatchBorrowerToLenders(profile domain.BorrowerProfile) domain.MatchResult {
	summary := s.Summarize(profile)

	matches := []domain.LenderMatch{}
	noMatchReasons := []string{}

	for _, lender := range s.lenders.Active() {
		reasons := eligibilityFailures(lender, summary)
		if len(reasons) > 0 {
			s.logger.Debug("lender not matched", "lender_id", lender.ID, "reasons", reasons)
			noMatchReasons = append(noMatchReasons, lender.Name+": "+reasons[0])
			continue
		}

		apr := matchAPR(lender, summary.EstimatedCreditScore)
		term := lender.PreferredTerm()
		confidence := matchConfidence(lender, summary)

		matches = append(matches, domain.LenderMatch{
			Lender:         lender,
			EstimatedAPR:   apr,
			MonthlyPayment: monthlyPaymentDollars(summary.LoanAmount, apr, term),
			LoanAmount:     summary.LoanAmount,
			LoanTerm:       term,
			Confidence:     confidence,
			Reasons: []string{fmt.Sprintf("Qualified with %s confidence (Credit: %d, Income: $%s/mo)",
				confidence, summary.EstimatedCreditScore, formatDollars(summary.MonthlyIncome))},
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].EstimatedAPR != matches[j].EstimatedAPR {
			return matches[i].EstimatedAPR < matches[j].EstimatedAPR
		}
		return matches[i].Confidence.Rank() > matches[j].Confidence.Rank()
	})

	s.logger.Info("lender matching finished",
		"matches", len(matches), "rejected", len(noMatchReasons),
		"credit_score", summary.EstimatedCreditScore, "loan_amount", summary.LoanAmount)

	return domain.MatchResult{
		Matches:         matches,
		NoMatchReasons:  noMatchReasons,
		BorrowerSummary: summary,
	}
}

// Summarize resolves the numbers a matching run works from: credit score,
// vehicle value and loan amount.
func (s *MatchingService) Summarize(profile domain.BorrowerProfile) domain.BorrowerSummary {
	score := profile.CreditScore
	if score == 0 {
		score = EstimateCreditScore(profile)
	}

	vehicleValue := profile.PurchasePrice
	if vehicleValue <= 0 && profile.VinOrModel != "" && s.oracle != nil {
		if est := s.oracle.EstimateVehicleValue(profile.VinOrModel); est != nil {
			vehicleValue = est.FinalEstimate
			s.logger.Debug("vehicle value estimated",
				"descriptor", profile.VinOrModel, "value", vehicleValue, "confidence", est.Confidence)
		}
	}
	if vehicleValue <= 0 {
		vehicleValue = fallbackVehicleValue
	}

	totalDown := profile.DownPayment + profile.TradeInValue
	return domain.BorrowerSummary{
		MonthlyIncome:        profile.MonthlyIncome,
		LoanAmount:           math.Max(0, vehicleValue-totalDown),
		VehicleValue:         vehicleValue,
		DownPayment:          totalDown,
		EstimatedCreditScore: score,
		EmploymentType:       NormalizeEmploymentType(profile.EmploymentType),
	}
}

// eligibilityFailures evaluates every predicate and returns the failures in
// a fixed order. An empty result means the lender is eligible.
func eligibilityFailures(lender domain.LenderProduct, b domain.BorrowerSummary) []string {
	var reasons []string

	if b.EstimatedCreditScore < lender.MinCreditScore {
		reasons = append(reasons, fmt.Sprintf("Credit score %d below minimum %d",
			b.EstimatedCreditScore, lender.MinCreditScore))
	}
	if b.MonthlyIncome < lender.MinMonthlyIncome {
		reasons = append(reasons, fmt.Sprintf("Monthly income $%s below minimum $%s",
			formatDollars(b.MonthlyIncome), formatDollars(lender.MinMonthlyIncome)))
	}
	if b.LoanAmount < lender.MinLoanAmount || b.LoanAmount > lender.MaxLoanAmount {
		reasons = append(reasons, fmt.Sprintf("Loan amount $%s outside range $%s-$%s",
			formatDollars(b.LoanAmount), formatDollars(lender.MinLoanAmount), formatDollars(lender.MaxLoanAmount)))
	}
	// Employment is only checked when known.
	if b.EmploymentType != "" && !lender.AcceptsEmployment(b.EmploymentType) {
		reasons = append(reasons, fmt.Sprintf("Employment type '%s' not accepted by this lender", b.EmploymentType))
	}
	if ltv := loanToValue(b); ltv > lender.MaxLTV {
		reasons = append(reasons, fmt.Sprintf("LTV ratio %.1f%% exceeds maximum %.1f%%", ltv*100, lender.MaxLTV*100))
	}
	return reasons
}

func loanToValue(b domain.BorrowerSummary) float64 {
	if b.VehicleValue <= 0 {
		return 0
	}
	return b.LoanAmount / b.VehicleValue
}

// tierAPR picks the APR table entry for a credit score. goodMarkup is added
// for scores in [670, 740).
func tierAPR(lender domain.LenderProduct, score int, goodMarkup float64) float64 {
	switch {
	case score >= excellentCreditScore:
		return lender.APRRange.GoodCredit
	case score >= goodCreditScore:
		return lender.APRRange.GoodCredit + goodMarkup
	case score >= fairCreditScore:
		return lender.APRRange.FairCredit
	}
	return lender.APRRange.PoorCredit
}

func matchAPR(lender domain.LenderProduct, score int) float64 {
	return roundTo2Decimals(tierAPR(lender, score, matchGoodTierMarkup))
}

func incomeRatio(income, minimum float64) float64 {
	if minimum <= 0 {
		return math.Inf(1)
	}
	return income / minimum
}

func matchConfidence(lender domain.LenderProduct, b domain.BorrowerSummary) domain.Confidence {
	creditBuffer := b.EstimatedCreditScore - lender.MinCreditScore
	ratio := incomeRatio(b.MonthlyIncome, lender.MinMonthlyIncome)
	switch {
	case creditBuffer >= 70 && ratio >= 1.8:
		return domain.ConfidenceHigh
	case creditBuffer >= 40 && ratio >= 1.4:
		return domain.ConfidenceMedium
	}
	return domain.ConfidenceLow
}

// formatDollars renders a whole-dollar amount with thousands separators.
func formatDollars(v float64) string {
	n := int64(math.Round(v))
	neg := n < 0
	if neg {
		n = -n
	}
	digits := strconv.FormatInt(n, 10)
	out := make([]byte, 0, len(digits)+len(digits)/3+1)
	if neg {
		out = append(out, '-')
	}
	for i, d := range []byte(digits) {
		if i > 0 && (len(digits)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, d)
	}
	return string(out)
}
