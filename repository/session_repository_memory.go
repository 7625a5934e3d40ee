package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"autoloan-agent/domain"
)

// SessionRepositoryMemory keeps sessions in a map guarded by a mutex.
type SessionRepositoryMemory struct {
	mu   sync.RWMutex
	data map[string]domain.QuoteSession
}

func NewSessionRepositoryMemory() *SessionRepositoryMemory {
	return &SessionRepositoryMemory{
		data: make(map[string]domain.QuoteSession),
	}
}

func (r *SessionRepositoryMemory) Save(_ context.Context, session domain.QuoteSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[session.SessionID] = session.Clone()
	return nil
}

func (r *SessionRepositoryMemory) Get(_ context.Context, id string) (domain.QuoteSession, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.data[id]
	if !ok {
		return domain.QuoteSession{}, domain.ErrSessionNotFound
	}
	return s.Clone(), nil
}

// List returns sessions ordered by creation time, oldest first.
func (r *SessionRepositoryMemory) List(_ context.Context) ([]domain.QuoteSession, error) {
	r.mu.RLock()
	out := make([]domain.QuoteSession, 0, len(r.data))
	for _, s := range r.data {
		out = append(out, s.Clone())
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *SessionRepositoryMemory) DeleteCreatedBefore(_ context.Context, cutoff time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	removed := 0
	for id, s := range r.data {
		if s.CreatedAt.Before(cutoff) {
			delete(r.data, id)
			removed++
		}
	}
	return removed, nil
}
