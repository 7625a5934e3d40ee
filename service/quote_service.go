package service

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"

	"autoloan-agent/domain"
	"autoloan-agent/repository"
)

// LenderGateway is one lender's quoting endpoint.
type LenderGateway interface {
	RequestQuote(ctx context.Context, req domain.QuoteRequest, lender domain.LenderProduct) (domain.LenderQuote, error)
	Negotiate(ctx context.Context, quote domain.LenderQuote, competitorAPR float64, kind domain.NegotiationType) (domain.NegotiationOutcome, error)
}

// SimulatorConfig controls the simulated lender endpoints.
type SimulatorConfig struct {
	MinLatency            time.Duration
	MaxLatency            time.Duration
	NegotiationMinLatency time.Duration
	NegotiationMaxLatency time.Duration
	// FailureRate is the probability a quote request fails in transit.
	FailureRate float64
}

func DefaultSimulatorConfig() SimulatorConfig {
	return SimulatorConfig{
		MinLatency:            2 * time.Second,
		MaxLatency:            8 * time.Second,
		NegotiationMinLatency: 1 * time.Second,
		NegotiationMaxLatency: 3 * time.Second,
	}
}

// QuoteService simulates lender quote and negotiation endpoints with
// randomized latency, pricing and outcomes.
type QuoteService struct {
	lenders repository.LenderRepository
	rnd     RandomSource
	cfg     SimulatorConfig
	logger  *slog.Logger
	now     func() time.Time
	newID   func() string
}

func NewQuoteService(
	lenders repository.LenderRepository,
	rnd RandomSource,
	cfg SimulatorConfig,
	logger *slog.Logger,
) *QuoteService {
	if rnd == nil {
		rnd = NewRandomSource(0)
	}
	return &QuoteService{
		lenders: lenders,
		rnd:     rnd,
		cfg:     cfg,
		logger:  loggerOrDiscard(logger),
		now:     time.Now,
		newID:   uuid.NewString,
	}
}

// RequestQuote asks one lender for a live offer.
func (s *QuoteService) RequestQuote(
	ctx context.Context,
	req domain.QuoteRequest,
	lender domain.LenderProduct,
) (domain.LenderQuote, error) {
	s.logger.Debug("requesting quote", "lender_id", lender.ID)

	if err := sleepCtx(ctx, uniformDuration(s.rnd, s.cfg.MinLatency, s.cfg.MaxLatency)); err != nil {
		return domain.LenderQuote{}, fmt.Errorf("%w: %s: %w", domain.ErrQuoteRequestFailed, lender.ID, err)
	}
	if s.cfg.FailureRate > 0 && s.rnd.Float64() < s.cfg.FailureRate {
		return domain.LenderQuote{}, fmt.Errorf("%w: %s: lender endpoint unavailable", domain.ErrQuoteRequestFailed, lender.ID)
	}

	term := lender.PreferredTerm()
	if term == 0 {
		return domain.LenderQuote{}, fmt.Errorf("%w: %s: lender offers no terms", domain.ErrQuoteRequestFailed, lender.ID)
	}

	base := tierAPR(lender, req.EstimatedCreditScore, quoteGoodTierMarkup)
	jitter := s.rnd.Float64() - 0.5 // ±0.5 points
	apr := roundTo2Decimals(clamp(base+jitter, lender.APRRange.Min, lender.APRRange.Max))

	fees := domain.QuoteFees{Processing: floorBand(s.rnd, 200, 500)}
	if s.rnd.Float64() > 0.7 {
		fees.PrepaymentPenalty = floorBand(s.rnd, 500, 1000)
	}
	fees.Documentation = floorBand(s.rnd, 50, 200)

	quote := domain.LenderQuote{
		LenderID:       lender.ID,
		LenderName:     lender.Name,
		OfferedAPR:     apr,
		TermLength:     term,
		LoanAmount:     req.LoanAmount,
		MaxLoanAmount:  math.Min(lender.MaxLoanAmount, req.LoanAmount*1.2),
		MonthlyPayment: monthlyPaymentDollars(req.LoanAmount, apr, term),
		Fees:           fees,
		ExpirationTime: s.now().Add(quoteValidity),
		Status:         domain.QuoteReceived,
		Confidence:     quoteConfidence(lender, req),
	}

	s.logger.Info("quote received", "lender_id", lender.ID, "apr", quote.OfferedAPR, "monthly_payment", quote.MonthlyPayment)
	return quote, nil
}

// Negotiate runs one negotiation round. The returned quote always carries the
// new attempt in its history; the input quote is never modified.
func (s *QuoteService) Negotiate(
	ctx context.Context,
	quote domain.LenderQuote,
	competitorAPR float64,
	kind domain.NegotiationType,
) (domain.NegotiationOutcome, error) {
	if err := sleepCtx(ctx, uniformDuration(s.rnd, s.cfg.NegotiationMinLatency, s.cfg.NegotiationMaxLatency)); err != nil {
		return domain.NegotiationOutcome{}, fmt.Errorf("%w: %s: %w", domain.ErrNegotiationFailed, quote.LenderID, err)
	}

	out := quote.Clone()
	originalAPR := quote.OfferedAPR
	attempt := domain.NegotiationAttempt{
		ID:          s.newID(),
		Timestamp:   s.now(),
		Type:        kind,
		Response:    domain.ResponseDeclined,
		OriginalAPR: &originalAPR,
	}
	var feeReduction float64

	switch kind {
	case domain.NegotiationRateChallenge:
		gap := quote.OfferedAPR - competitorAPR
		attempt.Message = fmt.Sprintf("Competitor is offering %s%% - can you match or beat this rate?", formatRate(competitorAPR))
		odds := math.Min(maxRateChallengeOdds, gap*rateChallengeOddsPerPt)
		if s.rnd.Float64() < odds {
			improvement := math.Min(gap*rateImprovementShare, maxRateImprovement)
			newAPR := roundTo2Decimals(math.Max(quote.OfferedAPR-improvement, quote.OfferedAPR*rateFloorShare))
			applied := roundTo2Decimals(quote.OfferedAPR - newAPR)
			attempt.Response = domain.ResponseAccepted
			attempt.NewAPR = &newAPR
			attempt.ImprovementAmount = &applied

			out.OfferedAPR = newAPR
			out.MonthlyPayment = monthlyPaymentDollars(out.LoanAmount, newAPR, out.TermLength)
			out.Status = domain.QuoteNegotiated
		}

	case domain.NegotiationFeeReduction:
		attempt.Message = "Can you waive or reduce processing fees for this qualified borrower?"
		if s.rnd.Float64() < feeReductionOdds {
			attempt.Response = domain.ResponseAccepted
			feeReduction = quote.Fees.Processing - math.Floor(quote.Fees.Processing*processingFeeCut)
		}

	case domain.NegotiationTermRequest:
		attempt.Message = "Can you offer more flexible term options?"
		accepted := s.rnd.Float64() < termRequestOdds
		if next := s.nextTerm(quote.LenderID, quote.TermLength); accepted && next > 0 {
			attempt.Response = domain.ResponseAccepted
			attempt.OriginalTerm = quote.TermLength
			attempt.NewTerm = next

			out.TermLength = next
			out.MonthlyPayment = monthlyPaymentDollars(out.LoanAmount, out.OfferedAPR, next)
			out.Status = domain.QuoteNegotiated
		}

	default:
		return domain.NegotiationOutcome{}, fmt.Errorf("%w: unknown negotiation type %q", domain.ErrValidation, kind)
	}

	out.NegotiationHistory = append(out.NegotiationHistory, attempt)
	s.logger.Info("negotiation round finished",
		"lender_id", quote.LenderID, "type", kind, "response", attempt.Response)

	return domain.NegotiationOutcome{Quote: out, Attempt: attempt, FeeReduction: feeReduction}, nil
}

// nextTerm is the shortest catalog term longer than current, or 0.
func (s *QuoteService) nextTerm(lenderID string, current int) int {
	lender, ok := s.lenders.GetByID(lenderID)
	if !ok {
		return 0
	}
	next := 0
	for _, t := range lender.LoanTermsMonths {
		if t > current && (next == 0 || t < next) {
			next = t
		}
	}
	return next
}

func quoteConfidence(lender domain.LenderProduct, req domain.QuoteRequest) domain.Confidence {
	creditBuffer := req.EstimatedCreditScore - lender.MinCreditScore
	ratio := incomeRatio(req.MonthlyIncome, lender.MinMonthlyIncome)
	switch {
	case creditBuffer >= 70 && ratio >= 1.8:
		return domain.ConfidenceHigh
	case creditBuffer < 30 || ratio < 1.2:
		return domain.ConfidenceLow
	}
	return domain.ConfidenceMedium
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func formatRate(apr float64) string {
	return fmt.Sprintf("%g", roundTo2Decimals(apr))
}

// sleepCtx waits for d or until ctx is done.
func sleepCtx(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
