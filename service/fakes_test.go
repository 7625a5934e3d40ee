package service

import (
	"context"
	"sync"
	"testing"

	"autoloan-agent/domain"
)

// scriptedRandom replays fixed draws and fails the test when it runs dry.
type scriptedRandom struct {
	t     *testing.T
	mu    sync.Mutex
	draws []float64
}

func newScriptedRandom(t *testing.T, draws ...float64) *scriptedRandom {
	return &scriptedRandom{t: t, draws: draws}
}

func (r *scriptedRandom) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.draws) == 0 {
		r.t.Fatalf("scripted random source exhausted")
		return 0
	}
	v := r.draws[0]
	r.draws = r.draws[1:]
	return v
}

func (r *scriptedRandom) remaining() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.draws)
}

// constantRandom always returns the same draw.
type constantRandom float64

func (c constantRandom) Float64() float64 { return float64(c) }

type negotiateCall struct {
	LenderID      string
	CompetitorAPR float64
	Kind          domain.NegotiationType
}

// MockGateway records calls and delegates to the configured funcs.
type MockGateway struct {
	mu          sync.Mutex
	Calls       []negotiateCall
	Requested   []string
	QuoteFn     func(ctx context.Context, req domain.QuoteRequest, lender domain.LenderProduct) (domain.LenderQuote, error)
	NegotiateFn func(ctx context.Context, q domain.LenderQuote, competitorAPR float64, kind domain.NegotiationType) (domain.NegotiationOutcome, error)
}

func (m *MockGateway) RequestQuote(ctx context.Context, req domain.QuoteRequest, lender domain.LenderProduct) (domain.LenderQuote, error) {
	m.mu.Lock()
	m.Requested = append(m.Requested, lender.ID)
	m.mu.Unlock()
	if m.QuoteFn != nil {
		return m.QuoteFn(ctx, req, lender)
	}
	return domain.LenderQuote{
		LenderID:   lender.ID,
		LenderName: lender.Name,
		OfferedAPR: lender.APRRange.GoodCredit,
		TermLength: lender.PreferredTerm(),
		LoanAmount: req.LoanAmount,
		Status:     domain.QuoteReceived,
	}, nil
}

func (m *MockGateway) Negotiate(ctx context.Context, q domain.LenderQuote, competitorAPR float64, kind domain.NegotiationType) (domain.NegotiationOutcome, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, negotiateCall{LenderID: q.LenderID, CompetitorAPR: competitorAPR, Kind: kind})
	m.mu.Unlock()
	if m.NegotiateFn != nil {
		return m.NegotiateFn(ctx, q, competitorAPR, kind)
	}
	return declined(q, kind), nil
}

func (m *MockGateway) calls() []negotiateCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]negotiateCall(nil), m.Calls...)
}

func declined(q domain.LenderQuote, kind domain.NegotiationType) domain.NegotiationOutcome {
	out := q.Clone()
	attempt := domain.NegotiationAttempt{ID: "attempt", Type: kind, Response: domain.ResponseDeclined}
	out.NegotiationHistory = append(out.NegotiationHistory, attempt)
	return domain.NegotiationOutcome{Quote: out, Attempt: attempt}
}

func accepted(q domain.LenderQuote, kind domain.NegotiationType) domain.NegotiationOutcome {
	out := q.Clone()
	attempt := domain.NegotiationAttempt{ID: "attempt", Type: kind, Response: domain.ResponseAccepted}
	out.NegotiationHistory = append(out.NegotiationHistory, attempt)
	return domain.NegotiationOutcome{Quote: out, Attempt: attempt}
}

type fakeOracle struct {
	estimate *domain.VehicleEstimate
	calls    int
}

func (f *fakeOracle) EstimateVehicleValue(string) *domain.VehicleEstimate {
	f.calls++
	return f.estimate
}

// countingCache is a map-backed CacheRepository that counts hits.
type countingCache struct {
	data map[string]string
	hits int
	sets int
}

func newCountingCache() *countingCache {
	return &countingCache{data: map[string]string{}}
}

func (c *countingCache) Get(key string) (string, bool) {
	v, ok := c.data[key]
	if ok {
		c.hits++
	}
	return v, ok
}

func (c *countingCache) Set(key, value string) error {
	c.sets++
	c.data[key] = value
	return nil
}

func testQuote(id string, apr float64, fees domain.QuoteFees) domain.LenderQuote {
	return domain.LenderQuote{
		LenderID:       id,
		LenderName:     id + " lender",
		OfferedAPR:     apr,
		TermLength:     60,
		LoanAmount:     20000,
		MonthlyPayment: monthlyPaymentDollars(20000, apr, 60),
		Fees:           fees,
		Status:         domain.QuoteReceived,
	}
}
