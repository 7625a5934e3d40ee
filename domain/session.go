package domain

import "time"

type SessionStatus string

const (
	SessionRequesting  SessionStatus = "requesting"
	SessionCollecting  SessionStatus = "collecting"
	SessionNegotiating SessionStatus = "negotiating"
	SessionCompleted   SessionStatus = "completed"
	SessionFailed      SessionStatus = "failed"
)

// Terminal reports whether no further transitions can happen.
func (s SessionStatus) Terminal() bool {
	return s == SessionCompleted || s == SessionFailed
}

type SessionProgress struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
	Failed    int `json:"failed"`
}

// QuoteSession tracks one borrower's quote collection and negotiation run.
type QuoteSession struct {
	SessionID         string             `json:"sessionId"`
	BorrowerProfile   BorrowerProfile    `json:"borrowerProfile"`
	Status            SessionStatus      `json:"status"`
	Progress          SessionProgress    `json:"progress"`
	Quotes            []LenderQuote      `json:"quotes"`
	NegotiationResult *NegotiationResult `json:"negotiationResult,omitempty"`
	FailureReason     string             `json:"failureReason,omitempty"`
	CreatedAt         time.Time          `json:"createdAt"`
	UpdatedAt         time.Time          `json:"updatedAt"`
}

// Clone returns a deep copy safe to hand to observers.
func (s QuoteSession) Clone() QuoteSession {
	s.Quotes = cloneQuotes(s.Quotes)
	if s.NegotiationResult != nil {
		r := s.NegotiationResult.Clone()
		s.NegotiationResult = &r
	}
	return s
}

// ProgressPercentage is the UI-facing completion estimate: 80% for
// collection, 10% while negotiating, 10% once completed.
func (s QuoteSession) ProgressPercentage() float64 {
	if s.Progress.Total == 0 {
		return 0
	}
	pct := float64(s.Progress.Completed) / float64(s.Progress.Total) * 80
	if s.Status == SessionNegotiating {
		pct += 10
	}
	if s.Status == SessionCompleted {
		pct += 10
	}
	if pct > 100 {
		return 100
	}
	return pct
}
