package service

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"autoloan-agent/domain"
)

// roundTo2Decimals rounds to cents.
func roundTo2Decimals(value float64) float64 {
	return math.Round(value*100) / 100
}

// AmortizedPayment is the fixed monthly payment that retires amount over
// termMonths at the given APR (percent). A zero rate spreads principal evenly.
func AmortizedPayment(amount, apr float64, termMonths int) float64 {
	if termMonths <= 0 {
		return 0
	}
	n := float64(termMonths)
	if apr == 0 {
		return amount / n
	}
	r := apr / 100 / 12
	growth := math.Pow(1+r, n)
	return amount * r * growth / (growth - 1)
}

// monthlyPaymentDollars is the whole-dollar payment shown on matches and
// quotes. Non-positive amounts or rates yield 0.
func monthlyPaymentDollars(amount, apr float64, termMonths int) float64 {
	if amount <= 0 || apr <= 0 || termMonths <= 0 {
		return 0
	}
	return math.Round(AmortizedPayment(amount, apr, termMonths))
}

type LoanService struct {
	logger *slog.Logger
}

// NewLoanService creates the payment calculator.
func NewLoanService(logger *slog.Logger) *LoanService {
	return &LoanService{logger: loggerOrDiscard(logger)}
}

// CalculateLoan calculates the loan details based on the input parameters.
func (s *LoanService) CalculateLoan(
	input domain.LoanInput,
) (domain.LoanResult, error) {

	if input.Amount <= 0 {
		return domain.LoanResult{}, fmt.Errorf("%w: %w", domain.ErrValidation, errors.New("invalid amount"))
	}
	if input.Amount > MaxLoanAmount {
		return domain.LoanResult{}, fmt.Errorf("%w: amount exceeds maximum of $%.2f", domain.ErrValidation, MaxLoanAmount)
	}
	if input.InterestRate < 0 {
		return domain.LoanResult{}, fmt.Errorf("%w: %w", domain.ErrValidation, errors.New("invalid interest rate"))
	}
	if input.InterestRate > MaxInterestRate {
		return domain.LoanResult{}, fmt.Errorf("%w: interest rate exceeds maximum of %.2f%%", domain.ErrValidation, MaxInterestRate)
	}
	if input.TermMonths < MinTermMonths {
		return domain.LoanResult{}, fmt.Errorf("%w: %w", domain.ErrValidation, errors.New("invalid term"))
	}
	if input.TermMonths > MaxTermMonths {
		return domain.LoanResult{}, fmt.Errorf("%w: term exceeds maximum of %d months", domain.ErrValidation, MaxTermMonths)
	}

	payment := AmortizedPayment(input.Amount, input.InterestRate, input.TermMonths)
	total := payment * float64(input.TermMonths)
	interest := total - input.Amount

	result := domain.LoanResult{
		MonthlyPayment: roundTo2Decimals(payment),
		TotalPayment:   roundTo2Decimals(total),
		TotalInterest:  roundTo2Decimals(interest),
	}

	s.logger.Debug("loan calculated",
		"amount", input.Amount, "apr", input.InterestRate, "term_months", input.TermMonths,
		"monthly_payment", result.MonthlyPayment)

	return result, nil
}
