package http

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"autoloan-agent/domain"
)

func TestCalculateLoanHandler_OK(t *testing.T) {
	r := newTestRouter(newMockSessions(), nil, nil)

	w := doJSON(t, r, http.MethodPost, "/v1/loan/calculate", `{
		"amount": 10000,
		"interestRate": 12,
		"termMonths": 24
	}`)

	require.Equal(t, http.StatusOK, w.Code)
	result := decode[domain.LoanResult](t, w)
	assert.Equal(t, 470.73, result.MonthlyPayment)
}

func TestCalculateLoanHandler_MethodNotAllowed(t *testing.T) {
	r := newTestRouter(newMockSessions(), nil, nil)

	w := doJSON(t, r, http.MethodGet, "/v1/loan/calculate", nil)

	if w.Code == http.StatusOK {
		t.Errorf("GET should not be routed to the calculator")
	}
}

func TestCalculateLoanHandler_BadRequest(t *testing.T) {
	r := newTestRouter(newMockSessions(), nil, nil)

	w := doJSON(t, r, http.MethodPost, "/v1/loan/calculate", `{invalid-json}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}

	w = doJSON(t, r, http.MethodPost, "/v1/loan/calculate", `{"amount": 0, "interestRate": 5, "termMonths": 12}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for invalid amount, got %d", w.Code)
	}
}
