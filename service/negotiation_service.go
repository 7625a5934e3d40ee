package service

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"

	"autoloan-agent/domain"
)

// NegotiationStrategy lists the phases to run, in order.
type NegotiationStrategy struct {
	Phases []domain.NegotiationType
}

// DefaultNegotiationStrategy challenges rates, then fees.
func DefaultNegotiationStrategy() NegotiationStrategy {
	return NegotiationStrategy{Phases: []domain.NegotiationType{
		domain.NegotiationRateChallenge,
		domain.NegotiationFeeReduction,
	}}
}

// WithTermRequests appends the term request phase.
func (s NegotiationStrategy) WithTermRequests() NegotiationStrategy {
	for _, p := range s.Phases {
		if p == domain.NegotiationTermRequest {
			return s
		}
	}
	phases := append([]domain.NegotiationType(nil), s.Phases...)
	return NegotiationStrategy{Phases: append(phases, domain.NegotiationTermRequest)}
}

// NegotiationService runs the multi-phase negotiation over a set of quotes.
// Lenders are negotiated one at a time within a phase and every phase
// finishes before the next starts.
type NegotiationService struct {
	gateway  LenderGateway
	strategy NegotiationStrategy
	logger   *slog.Logger
	now      func() time.Time
}

func NewNegotiationService(gateway LenderGateway, strategy NegotiationStrategy, logger *slog.Logger) *NegotiationService {
	if len(strategy.Phases) == 0 {
		strategy = DefaultNegotiationStrategy()
	}
	return &NegotiationService{
		gateway:  gateway,
		strategy: strategy,
		logger:   loggerOrDiscard(logger),
		now:      time.Now,
	}
}

// negotiationRun holds the per-call log so the service itself stays stateless.
type negotiationRun struct {
	lines []string
	svc   *NegotiationService
}

func (r *negotiationRun) log(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	r.lines = append(r.lines, fmt.Sprintf("[%s] %s", r.svc.now().Format("15:04:05"), msg))
	r.svc.logger.Info(msg)
}

// NegotiateAllQuotes works on copies; the input slice is left untouched.
// It only fails when ctx is cancelled.
func (s *NegotiationService) NegotiateAllQuotes(ctx context.Context, quotes []domain.LenderQuote) (domain.NegotiationResult, error) {
	run := &negotiationRun{svc: s}

	original := make([]domain.LenderQuote, len(quotes))
	current := make([]domain.LenderQuote, len(quotes))
	for i, q := range quotes {
		original[i] = q.Clone()
		current[i] = q.Clone()
	}

	bestRate, ok := lowestAPR(current)
	if !ok {
		run.log("No quotes to negotiate")
		return domain.NegotiationResult{
			OriginalQuotes: original,
			FinalQuotes:    current,
			NegotiationLog: run.lines,
		}, nil
	}
	run.log("Starting negotiation with %d lender quotes. Best initial rate: %s%%", len(quotes), formatRate(bestRate))

	for n, phase := range s.strategy.Phases {
		var err error
		switch phase {
		case domain.NegotiationRateChallenge:
			run.log("Phase %d: Challenging lenders with competitive rates...", n+1)
			err = s.challengeRates(ctx, run, current, bestRate)
		case domain.NegotiationFeeReduction:
			run.log("Phase %d: Attempting fee reductions...", n+1)
			err = s.reduceFees(ctx, run, current)
		case domain.NegotiationTermRequest:
			run.log("Phase %d: Requesting flexible terms...", n+1)
			err = s.requestTerms(ctx, run, current)
		default:
			run.log("Skipping unknown phase %q", phase)
		}
		if err != nil {
			return domain.NegotiationResult{}, err
		}
	}

	summary := summarizeImprovements(original, current)
	run.log("Negotiation complete! Improved %d out of %d quotes", summary.TotalQuotesImproved, len(quotes))
	run.log("Average rate improvement: %.2f%%", summary.AverageRateImprovement)

	return domain.NegotiationResult{
		OriginalQuotes:      original,
		FinalQuotes:         current,
		ImprovementsSummary: summary,
		NegotiationLog:      run.lines,
	}, nil
}

func (s *NegotiationService) challengeRates(ctx context.Context, run *negotiationRun, quotes []domain.LenderQuote, bestRate float64) error {
	for i, q := range quotes {
		if q.OfferedAPR == bestRate {
			continue
		}
		if roundTo2Decimals(q.OfferedAPR-bestRate) <= rateChallengeThreshold {
			continue
		}

		run.log("Challenging %s (%s%%) with competitor rate of %s%%", q.LenderName, formatRate(q.OfferedAPR), formatRate(bestRate))
		outcome, err := s.gateway.Negotiate(ctx, q, bestRate, domain.NegotiationRateChallenge)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			run.log("Error negotiating with %s: %v", q.LenderName, err)
			quotes[i] = s.recordFailure(q, domain.NegotiationRateChallenge)
			continue
		}
		quotes[i] = outcome.Quote

		if outcome.Quote.OfferedAPR < q.OfferedAPR {
			run.log("Success! %s improved rate from %s%% to %s%%", q.LenderName, formatRate(q.OfferedAPR), formatRate(outcome.Quote.OfferedAPR))
		} else {
			run.log("%s declined to match competitive rate", q.LenderName)
		}
	}
	return nil
}

func (s *NegotiationService) reduceFees(ctx context.Context, run *negotiationRun, quotes []domain.LenderQuote) error {
	for i, q := range quotes {
		total := q.Fees.Total()
		if total <= feeReductionThreshold {
			continue
		}

		run.log("Requesting fee reduction from %s (current fees: $%s)", q.LenderName, formatDollars(total))
		outcome, err := s.gateway.Negotiate(ctx, q, 0, domain.NegotiationFeeReduction)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			run.log("Error negotiating fees with %s: %v", q.LenderName, err)
			quotes[i] = s.recordFailure(q, domain.NegotiationFeeReduction)
			continue
		}

		updated := outcome.Quote
		if outcome.Accepted() && outcome.FeeReduction > 0 {
			updated.Fees.Processing = math.Max(0, updated.Fees.Processing-outcome.FeeReduction)
			updated.Status = domain.QuoteNegotiated
			run.log("%s reduced processing fees by $%s", q.LenderName, formatDollars(outcome.FeeReduction))
		} else {
			run.log("%s declined to reduce fees", q.LenderName)
		}
		quotes[i] = updated
	}
	return nil
}

func (s *NegotiationService) requestTerms(ctx context.Context, run *negotiationRun, quotes []domain.LenderQuote) error {
	for i, q := range quotes {
		run.log("Requesting flexible terms from %s (current term: %d months)", q.LenderName, q.TermLength)
		outcome, err := s.gateway.Negotiate(ctx, q, 0, domain.NegotiationTermRequest)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			run.log("Error requesting terms from %s: %v", q.LenderName, err)
			quotes[i] = s.recordFailure(q, domain.NegotiationTermRequest)
			continue
		}
		quotes[i] = outcome.Quote
		if outcome.Accepted() {
			run.log("%s extended the term to %d months", q.LenderName, outcome.Quote.TermLength)
		} else {
			run.log("%s kept the %d month term", q.LenderName, q.TermLength)
		}
	}
	return nil
}

// recordFailure treats a failed call as a declined attempt.
func (s *NegotiationService) recordFailure(q domain.LenderQuote, kind domain.NegotiationType) domain.LenderQuote {
	out := q.Clone()
	apr := q.OfferedAPR
	out.NegotiationHistory = append(out.NegotiationHistory, domain.NegotiationAttempt{
		ID:          uuid.NewString(),
		Timestamp:   s.now(),
		Type:        kind,
		Message:     "Lender did not respond to the negotiation request",
		Response:    domain.ResponseDeclined,
		OriginalAPR: &apr,
	})
	return out
}

func lowestAPR(quotes []domain.LenderQuote) (float64, bool) {
	if len(quotes) == 0 {
		return 0, false
	}
	best := quotes[0].OfferedAPR
	for _, q := range quotes[1:] {
		if q.OfferedAPR < best {
			best = q.OfferedAPR
		}
	}
	return best, true
}

func summarizeImprovements(original, final []domain.LenderQuote) domain.ImprovementsSummary {
	var summary domain.ImprovementsSummary
	var totalRate float64

	for i := range original {
		if i >= len(final) {
			break
		}
		o, f := original[i], final[i]
		if f.OfferedAPR < o.OfferedAPR {
			summary.TotalQuotesImproved++
			totalRate += o.OfferedAPR - f.OfferedAPR
		}
		summary.TotalFeesSaved += math.Max(0, o.Fees.Total()-f.Fees.Total())
	}
	if summary.TotalQuotesImproved > 0 {
		summary.AverageRateImprovement = totalRate / float64(summary.TotalQuotesImproved)
	}
	return summary
}
