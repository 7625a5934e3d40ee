package domain

import "errors"

var (
	ErrValidation         = errors.New("validation failed")
	ErrSessionNotFound    = errors.New("quote session not found")
	ErrLenderNotFound     = errors.New("lender not found")
	ErrQuoteRequestFailed = errors.New("lender quote request failed")
	ErrNegotiationFailed  = errors.New("lender negotiation failed")
)
