package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"autoloan-agent/domain"
	"autoloan-agent/repository"
)

func TestSessionJanitor_RemovesExpiredSessions(t *testing.T) {
	repo := repository.NewSessionRepositoryMemory()
	now := time.Now()
	require.NoError(t, repo.Save(context.Background(), domain.QuoteSession{SessionID: "old", CreatedAt: now.Add(-48 * time.Hour)}))
	require.NoError(t, repo.Save(context.Background(), domain.QuoteSession{SessionID: "new", CreatedAt: now}))

	manager := NewQuoteSessionManager(fakeMatcher{}, &MockGateway{}, &fakeNegotiator{}, repo, nil, SessionConfig{Retention: 24 * time.Hour}, nil)
	janitor := NewSessionJanitor(manager, 5*time.Millisecond, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- janitor.Run(ctx) }()

	require.Eventually(t, func() bool {
		_, err := repo.Get(context.Background(), "old")
		return errors.Is(err, domain.ErrSessionNotFound)
	}, time.Second, 5*time.Millisecond)

	cancel()
	assert.True(t, errors.Is(<-done, context.Canceled))

	_, err := repo.Get(context.Background(), "new")
	assert.NoError(t, err)
}

func TestNewSessionJanitor_DefaultInterval(t *testing.T) {
	j := NewSessionJanitor(nil, 0, nil)
	assert.Equal(t, defaultCleanupInterval, j.interval)
}
