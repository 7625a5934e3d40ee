package service

import "time"

const (
	MaxLoanAmount   = 1_000_000_000.0
	MaxInterestRate = 1000.0 // percent
	MaxTermMonths   = 600
	MinTermMonths   = 1

	MinCreditScore = 300
	MaxCreditScore = 850

	baselineCreditScore  = 650
	fallbackVehicleValue = 25000.0
	preferredTermMonths  = 60

	// Tiers used to price a borrower against a lender's APR table.
	excellentCreditScore = 740
	goodCreditScore      = 670
	fairCreditScore      = 600

	// Added to the good-credit APR for scores in [670, 740).
	matchGoodTierMarkup = 1.0
	quoteGoodTierMarkup = 0.5

	quoteValidity = 7 * 24 * time.Hour
)

// Negotiation tuning.
const (
	rateChallengeThreshold = 0.3   // percentage points over the best rate
	feeReductionThreshold  = 300.0 // total fees in dollars
	maxRateImprovement     = 1.5   // percentage points
	rateImprovementShare   = 0.7
	rateFloorShare         = 0.8
	maxRateChallengeOdds   = 0.8
	rateChallengeOddsPerPt = 0.3
	feeReductionOdds       = 0.4
	termRequestOdds        = 0.3
	processingFeeCut       = 0.5
)

const (
	DefaultSessionRetention = 24 * time.Hour
	DefaultRequestTimeout   = 15 * time.Second
	DefaultSessionTimeout   = 2 * time.Minute
)
