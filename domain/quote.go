package domain

import "time"

type QuoteStatus string

const (
	QuotePending    QuoteStatus = "pending"
	QuoteReceived   QuoteStatus = "received"
	QuoteNegotiated QuoteStatus = "negotiated"
	QuoteExpired    QuoteStatus = "expired"
)

type NegotiationType string

const (
	NegotiationRateChallenge NegotiationType = "rate_challenge"
	NegotiationFeeReduction  NegotiationType = "fee_reduction"
	NegotiationTermRequest   NegotiationType = "term_request"
)

type NegotiationResponse string

const (
	ResponseAccepted     NegotiationResponse = "accepted"
	ResponseDeclined     NegotiationResponse = "declined"
	ResponseCounterOffer NegotiationResponse = "counter_offer"
)

// QuoteRequest carries the borrower snapshot sent to one lender.
type QuoteRequest struct {
	LenderID             string  `json:"lenderId"`
	MonthlyIncome        float64 `json:"monthlyIncome"`
	EstimatedCreditScore int     `json:"estimatedCreditScore"`
	EmploymentType       string  `json:"employmentType"`
	LoanAmount           float64 `json:"loanAmount"`
	VehicleValue         float64 `json:"vehicleValue"`
	DownPayment          float64 `json:"downPayment"`
}

type QuoteFees struct {
	Processing        float64 `json:"processing"`
	PrepaymentPenalty float64 `json:"prepaymentPenalty"`
	Documentation     float64 `json:"documentation"`
}

// Total sums every fee on the quote.
func (f QuoteFees) Total() float64 {
	return f.Processing + f.PrepaymentPenalty + f.Documentation
}

// NegotiationAttempt is an immutable audit record of one negotiation call.
type NegotiationAttempt struct {
	ID                string              `json:"id"`
	Timestamp         time.Time           `json:"timestamp"`
	Type              NegotiationType     `json:"type"`
	Message           string              `json:"message"`
	Response          NegotiationResponse `json:"response"`
	OriginalAPR       *float64            `json:"originalAPR,omitempty"`
	NewAPR            *float64            `json:"newAPR,omitempty"`
	ImprovementAmount *float64            `json:"improvementAmount,omitempty"`
	OriginalTerm      int                 `json:"originalTerm,omitempty"`
	NewTerm           int                 `json:"newTerm,omitempty"`
}

// LenderQuote is a live offer returned by a lender endpoint.
type LenderQuote struct {
	LenderID           string               `json:"lenderId"`
	LenderName         string               `json:"lenderName"`
	OfferedAPR         float64              `json:"offeredAPR"`
	TermLength         int                  `json:"termLength"`
	LoanAmount         float64              `json:"loanAmount"`
	MaxLoanAmount      float64              `json:"maxLoanAmount"`
	MonthlyPayment     float64              `json:"monthlyPayment"`
	Fees               QuoteFees            `json:"fees"`
	ExpirationTime     time.Time            `json:"expirationTime"`
	Status             QuoteStatus          `json:"status"`
	NegotiationHistory []NegotiationAttempt `json:"negotiationHistory,omitempty"`
	Confidence         Confidence           `json:"confidence"`
}

// Clone returns a copy that shares no slices with q.
func (q LenderQuote) Clone() LenderQuote {
	if q.NegotiationHistory != nil {
		h := make([]NegotiationAttempt, len(q.NegotiationHistory))
		copy(h, q.NegotiationHistory)
		q.NegotiationHistory = h
	}
	return q
}

// LatestAttempt returns the most recent negotiation attempt, if any.
func (q LenderQuote) LatestAttempt() (NegotiationAttempt, bool) {
	if len(q.NegotiationHistory) == 0 {
		return NegotiationAttempt{}, false
	}
	return q.NegotiationHistory[len(q.NegotiationHistory)-1], true
}

// NegotiationOutcome is what a lender returns for one negotiation call. The
// quote already carries the attempt in its history.
type NegotiationOutcome struct {
	Quote   LenderQuote        `json:"quote"`
	Attempt NegotiationAttempt `json:"attempt"`
	// FeeReduction is the processing-fee cut the lender agreed to; the
	// negotiator applies it.
	FeeReduction float64 `json:"feeReduction,omitempty"`
}

// Accepted reports whether the lender accepted the request.
func (o NegotiationOutcome) Accepted() bool {
	return o.Attempt.Response == ResponseAccepted
}

type ImprovementsSummary struct {
	TotalQuotesImproved    int     `json:"totalQuotesImproved"`
	AverageRateImprovement float64 `json:"averageRateImprovement"`
	TotalFeesSaved         float64 `json:"totalFeesSaved"`
}

type NegotiationResult struct {
	OriginalQuotes      []LenderQuote       `json:"originalQuotes"`
	FinalQuotes         []LenderQuote       `json:"finalQuotes"`
	ImprovementsSummary ImprovementsSummary `json:"improvementsSummary"`
	NegotiationLog      []string            `json:"negotiationLog"`
}

// Clone deep-copies the result.
func (r NegotiationResult) Clone() NegotiationResult {
	return NegotiationResult{
		OriginalQuotes:      cloneQuotes(r.OriginalQuotes),
		FinalQuotes:         cloneQuotes(r.FinalQuotes),
		ImprovementsSummary: r.ImprovementsSummary,
		NegotiationLog:      append([]string(nil), r.NegotiationLog...),
	}
}

func cloneQuotes(in []LenderQuote) []LenderQuote {
	if in == nil {
		return nil
	}
	out := make([]LenderQuote, len(in))
	for i, q := range in {
		out[i] = q.Clone()
	}
	return out
}
