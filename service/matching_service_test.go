package service

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"autoloan-agent/domain"
	"autoloan-agent/repository"
)

func standardProfile() domain.BorrowerProfile {
	return domain.BorrowerProfile{
		MonthlyIncome:  6000,
		EmploymentType: domain.EmploymentFullTime,
		PurchasePrice:  25000,
		DownPayment:    5000,
	}
}

func newTestMatcher(oracle ValuationOracle) *MatchingService {
	return NewMatchingService(repository.NewDefaultLenderRepository(), oracle, nil)
}

func TestMatchBorrowerToLenders_StandardBorrower(t *testing.T) {
	result := newTestMatcher(nil).MatchBorrowerToLenders(standardProfile())

	summary := result.BorrowerSummary
	assert.Equal(t, 675, summary.EstimatedCreditScore)
	assert.Equal(t, 20000.0, summary.LoanAmount)
	assert.Equal(t, 25000.0, summary.VehicleValue)
	assert.Equal(t, 5000.0, summary.DownPayment)

	ids := make([]string, 0, len(result.Matches))
	for _, m := range result.Matches {
		ids = append(ids, m.Lender.ID)
	}
	assert.Equal(t, []string{"credit-union-one", "chase-auto", "bank-of-america", "ally-bank", "capital-one"}, ids)

	best := result.Matches[0]
	assert.Equal(t, 4.8, best.EstimatedAPR)
	assert.Equal(t, 60, best.LoanTerm)
	assert.Equal(t, 20000.0, best.LoanAmount)
	assert.Equal(t, math.Round(AmortizedPayment(20000, 4.8, 60)), best.MonthlyPayment)
	assert.Equal(t, domain.ConfidenceHigh, best.Confidence)
	assert.Equal(t, []string{"Qualified with high confidence (Credit: 675, Income: $6,000/mo)"}, best.Reasons)

	assert.Equal(t, []string{
		"Wells Fargo Auto: Credit score 675 below minimum 680",
		"LightStream Auto: Credit score 675 below minimum 720",
	}, result.NoMatchReasons)
}

func TestMatchBorrowerToLenders_SortedByAPRThenConfidence(t *testing.T) {
	products := []domain.LenderProduct{
		testProduct("low-conf", 500, 5.0),
		testProduct("high-conf", 300, 5.0),
		testProduct("cheap", 600, 4.0),
	}
	products[0].MinMonthlyIncome = 9000
	matcher := NewMatchingService(repository.NewLenderRepositoryMemory(products), nil, nil)

	result := matcher.MatchBorrowerToLenders(domain.BorrowerProfile{
		MonthlyIncome: 10000, PurchasePrice: 30000, DownPayment: 10000, CreditScore: 760,
	})

	require.Len(t, result.Matches, 3)
	assert.Equal(t, "cheap", result.Matches[0].Lender.ID)
	assert.Equal(t, "high-conf", result.Matches[1].Lender.ID)
	assert.Equal(t, "low-conf", result.Matches[2].Lender.ID)
	for i := 1; i < len(result.Matches); i++ {
		assert.LessOrEqual(t, result.Matches[i-1].EstimatedAPR, result.Matches[i].EstimatedAPR)
	}
}

func TestMatchBorrowerToLenders_NoFalsePositives(t *testing.T) {
	profiles := []domain.BorrowerProfile{
		standardProfile(),
		{MonthlyIncome: 2200, EmploymentType: domain.EmploymentPartTime, PurchasePrice: 18000, DownPayment: 500},
		{MonthlyIncome: 9000, EmploymentType: domain.EmploymentSelfEmployed, PurchasePrice: 60000, DownPayment: 5000, AccountBalance: 40000},
		{MonthlyIncome: 4000, EmploymentType: domain.EmploymentRetired, PurchasePrice: 200000},
		{MonthlyIncome: 5000},
	}
	matcher := newTestMatcher(nil)
	catalog := repository.NewDefaultLenderRepository()

	for _, p := range profiles {
		result := matcher.MatchBorrowerToLenders(p)
		s := result.BorrowerSummary
		for _, m := range result.Matches {
			l := m.Lender
			assert.GreaterOrEqual(t, s.EstimatedCreditScore, l.MinCreditScore, l.ID)
			assert.GreaterOrEqual(t, s.MonthlyIncome, l.MinMonthlyIncome, l.ID)
			assert.GreaterOrEqual(t, s.LoanAmount, l.MinLoanAmount, l.ID)
			assert.LessOrEqual(t, s.LoanAmount, l.MaxLoanAmount, l.ID)
			assert.LessOrEqual(t, s.LoanAmount/s.VehicleValue, l.MaxLTV, l.ID)
			if s.EmploymentType != "" {
				assert.True(t, l.AcceptsEmployment(s.EmploymentType), l.ID)
			}
		}
		assert.Equal(t, len(catalog.Active()), len(result.Matches)+len(result.NoMatchReasons))
	}
}

func TestMatchBorrowerToLenders_Idempotent(t *testing.T) {
	matcher := newTestMatcher(nil)
	first := matcher.MatchBorrowerToLenders(standardProfile())
	second := matcher.MatchBorrowerToLenders(standardProfile())
	assert.Equal(t, first, second)
}

func TestMatchBorrowerToLenders_OverrideScoreAndFirstFailureOnly(t *testing.T) {
	profile := standardProfile()
	profile.CreditScore = 560
	profile.EmploymentType = domain.EmploymentRetired

	result := newTestMatcher(nil).MatchBorrowerToLenders(profile)

	assert.Empty(t, result.Matches)
	assert.Equal(t, 560, result.BorrowerSummary.EstimatedCreditScore)
	require.Len(t, result.NoMatchReasons, 7)
	assert.Equal(t, "Chase Auto Finance: Credit score 560 below minimum 650", result.NoMatchReasons[0])
	assert.Equal(t, "Local Credit Union: Credit score 560 below minimum 580", result.NoMatchReasons[3])
}

func TestEligibilityFailures_Reasons(t *testing.T) {
	lender := testProduct("x", 650, 5)
	lender.MinMonthlyIncome = 3000
	lender.MinLoanAmount = 5000
	lender.MaxLoanAmount = 50000
	lender.MaxLTV = 0.9
	lender.AcceptedEmploymentTypes = []string{domain.EmploymentFullTime}

	reasons := eligibilityFailures(lender, domain.BorrowerSummary{
		MonthlyIncome:        2500,
		LoanAmount:           60000,
		VehicleValue:         60000,
		EstimatedCreditScore: 600,
		EmploymentType:       domain.EmploymentPartTime,
	})

	assert.Equal(t, []string{
		"Credit score 600 below minimum 650",
		"Monthly income $2,500 below minimum $3,000",
		"Loan amount $60,000 outside range $5,000-$50,000",
		"Employment type 'Part-time' not accepted by this lender",
		"LTV ratio 100.0% exceeds maximum 90.0%",
	}, reasons)

	// unknown employment is not held against the borrower
	reasons = eligibilityFailures(lender, domain.BorrowerSummary{
		MonthlyIncome: 5000, LoanAmount: 20000, VehicleValue: 25000, EstimatedCreditScore: 700,
	})
	assert.Empty(t, reasons)
}

func TestSummarize_UsesOracleThenFallback(t *testing.T) {
	oracle := &fakeOracle{estimate: &domain.VehicleEstimate{FinalEstimate: 30000}}
	matcher := newTestMatcher(oracle)

	s := matcher.Summarize(domain.BorrowerProfile{MonthlyIncome: 5000, VinOrModel: "2024 Honda Accord", DownPayment: 2000, TradeInValue: 3000})
	assert.Equal(t, 30000.0, s.VehicleValue)
	assert.Equal(t, 25000.0, s.LoanAmount)
	assert.Equal(t, 5000.0, s.DownPayment)
	assert.Equal(t, 1, oracle.calls)

	// a purchase price wins over the oracle
	s = matcher.Summarize(domain.BorrowerProfile{MonthlyIncome: 5000, VinOrModel: "2024 Honda Accord", PurchasePrice: 22000})
	assert.Equal(t, 22000.0, s.VehicleValue)
	assert.Equal(t, 1, oracle.calls)

	oracle.estimate = nil
	s = matcher.Summarize(domain.BorrowerProfile{MonthlyIncome: 5000, VinOrModel: "spaceship"})
	assert.Equal(t, fallbackVehicleValue, s.VehicleValue)

	// down payment above value never yields a negative loan
	s = matcher.Summarize(domain.BorrowerProfile{MonthlyIncome: 5000, PurchasePrice: 10000, DownPayment: 15000})
	assert.Zero(t, s.LoanAmount)
}

func TestMatchRaw_ValidationError(t *testing.T) {
	_, err := newTestMatcher(nil).MatchRaw(domain.RawBorrowerProfile{})
	require.True(t, errors.Is(err, domain.ErrValidation))

	result, err := newTestMatcher(nil).MatchRaw(domain.RawBorrowerProfile{
		MonthlyIncome: "$6,000", EmploymentType: "Full-time", PurchasePrice: "$25,000", DownPayment: "$5,000",
	})
	require.NoError(t, err)
	assert.Len(t, result.Matches, 5)
}

func TestTierAPR(t *testing.T) {
	l := testProduct("x", 300, 4.0)
	assert.Equal(t, 4.0, tierAPR(l, 740, 1.0))
	assert.Equal(t, 5.0, tierAPR(l, 739, 1.0))
	assert.Equal(t, 4.5, tierAPR(l, 670, 0.5))
	assert.Equal(t, l.APRRange.FairCredit, tierAPR(l, 600, 1.0))
	assert.Equal(t, l.APRRange.PoorCredit, tierAPR(l, 599, 1.0))
}

func TestFormatDollars(t *testing.T) {
	assert.Equal(t, "0", formatDollars(0))
	assert.Equal(t, "999", formatDollars(999))
	assert.Equal(t, "1,000", formatDollars(1000))
	assert.Equal(t, "1,234,567", formatDollars(1234567))
	assert.Equal(t, "-12,500", formatDollars(-12500))
}

func testProduct(id string, minScore int, goodAPR float64) domain.LenderProduct {
	return domain.LenderProduct{
		ID:                      id,
		Name:                    id,
		MinLoanAmount:           1000,
		MaxLoanAmount:           100000,
		MinCreditScore:          minScore,
		MinMonthlyIncome:        2000,
		AcceptedEmploymentTypes: []string{domain.EmploymentFullTime, domain.EmploymentPartTime},
		LoanTermsMonths:         []int{36, 48, 60, 72},
		APRRange:                domain.APRRange{Min: goodAPR - 1, Max: goodAPR + 15, GoodCredit: goodAPR, FairCredit: goodAPR + 4, PoorCredit: goodAPR + 10},
		MaxLTV:                  0.9,
		IsActive:                true,
	}
}
