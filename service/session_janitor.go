package service

import (
	"context"
	"log/slog"
	"time"
)

const defaultCleanupInterval = 30 * time.Minute

// SessionJanitor periodically removes expired quote sessions.
type SessionJanitor struct {
	manager  *QuoteSessionManager
	interval time.Duration
	logger   *slog.Logger
}

func NewSessionJanitor(manager *QuoteSessionManager, interval time.Duration, logger *slog.Logger) *SessionJanitor {
	if interval <= 0 {
		interval = defaultCleanupInterval
	}
	return &SessionJanitor{manager: manager, interval: interval, logger: loggerOrDiscard(logger)}
}

// Run sweeps on every tick until ctx is done.
func (j *SessionJanitor) Run(ctx context.Context) error {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if _, err := j.manager.CleanupExpiredSessions(ctx); err != nil {
				j.logger.Warn("session cleanup failed", "err", err)
			}
		}
	}
}
