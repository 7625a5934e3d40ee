package service

import (
	"sync"

	"autoloan-agent/domain"
)

const subscriberBuffer = 16

type subscriber struct {
	ch   chan domain.QuoteSession
	once sync.Once
}

func (s *subscriber) close() {
	s.once.Do(func() { close(s.ch) })
}

// send never blocks: when the buffer is full the oldest snapshot is dropped,
// since only the latest state matters to a viewer.
func (s *subscriber) send(snapshot domain.QuoteSession) {
	for {
		select {
		case s.ch <- snapshot:
			return
		default:
		}
		select {
		case <-s.ch:
		default:
		}
	}
}

// ProgressHub fans session snapshots out to any number of subscribers per
// session. Streams are closed after a terminal snapshot.
type ProgressHub struct {
	mu          sync.Mutex
	subscribers map[string]map[*subscriber]struct{}
}

func NewProgressHub() *ProgressHub {
	return &ProgressHub{subscribers: map[string]map[*subscriber]struct{}{}}
}

// Subscribe returns a stream of snapshots for one session and a function
// that ends the subscription.
func (h *ProgressHub) Subscribe(sessionID string) (<-chan domain.QuoteSession, func()) {
	sub := &subscriber{ch: make(chan domain.QuoteSession, subscriberBuffer)}

	h.mu.Lock()
	if _, ok := h.subscribers[sessionID]; !ok {
		h.subscribers[sessionID] = map[*subscriber]struct{}{}
	}
	h.subscribers[sessionID][sub] = struct{}{}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		if subs, ok := h.subscribers[sessionID]; ok {
			delete(subs, sub)
			if len(subs) == 0 {
				delete(h.subscribers, sessionID)
			}
		}
		h.mu.Unlock()
		sub.close()
	}
	return sub.ch, cancel
}

// Publish delivers a snapshot to every subscriber of its session.
func (h *ProgressHub) Publish(snapshot domain.QuoteSession) {
	h.mu.Lock()
	defer h.mu.Unlock()

	subs := h.subscribers[snapshot.SessionID]
	for sub := range subs {
		sub.send(snapshot.Clone())
	}
	if snapshot.Status.Terminal() {
		for sub := range subs {
			sub.close()
		}
		delete(h.subscribers, snapshot.SessionID)
	}
}

// Subscribers reports how many streams are open for a session.
func (h *ProgressHub) Subscribers(sessionID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subscribers[sessionID])
}
