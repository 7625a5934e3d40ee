package repository

import (
	"context"
	"time"

	"autoloan-agent/domain"
)

// SessionRepository stores quote session snapshots.
type SessionRepository interface {
	Save(ctx context.Context, session domain.QuoteSession) error
	Get(ctx context.Context, id string) (domain.QuoteSession, error)
	List(ctx context.Context) ([]domain.QuoteSession, error)
	// DeleteCreatedBefore removes sessions created before cutoff and returns
	// how many were removed.
	DeleteCreatedBefore(ctx context.Context, cutoff time.Time) (int, error)
}
