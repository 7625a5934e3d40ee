package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"autoloan-agent/domain"
)

func TestProgressHub_DeliversUntilTerminal(t *testing.T) {
	hub := NewProgressHub()
	updates, cancel := hub.Subscribe("s1")
	defer cancel()

	hub.Publish(domain.QuoteSession{SessionID: "s1", Status: domain.SessionCollecting})
	hub.Publish(domain.QuoteSession{SessionID: "other", Status: domain.SessionCollecting})
	hub.Publish(domain.QuoteSession{SessionID: "s1", Status: domain.SessionCompleted})

	var got []domain.SessionStatus
	for s := range updates {
		got = append(got, s.Status)
	}
	assert.Equal(t, []domain.SessionStatus{domain.SessionCollecting, domain.SessionCompleted}, got)
	assert.Zero(t, hub.Subscribers("s1"))
}

func TestProgressHub_SnapshotsAreIsolated(t *testing.T) {
	hub := NewProgressHub()
	first, cancelFirst := hub.Subscribe("s1")
	defer cancelFirst()
	second, cancelSecond := hub.Subscribe("s1")
	defer cancelSecond()

	hub.Publish(domain.QuoteSession{
		SessionID: "s1",
		Status:    domain.SessionCollecting,
		Quotes:    []domain.LenderQuote{{LenderID: "a", OfferedAPR: 5}},
	})

	a := <-first
	b := <-second
	a.Quotes[0].OfferedAPR = 99
	assert.Equal(t, 5.0, b.Quotes[0].OfferedAPR)
}

func TestProgressHub_DropsOldestWhenFull(t *testing.T) {
	hub := NewProgressHub()
	updates, cancel := hub.Subscribe("s1")
	defer cancel()

	for i := 0; i < subscriberBuffer+5; i++ {
		hub.Publish(domain.QuoteSession{
			SessionID: "s1",
			Status:    domain.SessionCollecting,
			Progress:  domain.SessionProgress{Completed: i},
		})
	}

	require.Len(t, updates, subscriberBuffer)
	first := <-updates
	assert.Equal(t, 5, first.Progress.Completed)
}

func TestProgressHub_CancelClosesStream(t *testing.T) {
	hub := NewProgressHub()
	updates, cancel := hub.Subscribe("s1")
	require.Equal(t, 1, hub.Subscribers("s1"))

	cancel()
	cancel()

	_, open := <-updates
	assert.False(t, open)
	assert.Zero(t, hub.Subscribers("s1"))

	// publishing after cancel is a no-op
	hub.Publish(domain.QuoteSession{SessionID: "s1", Status: domain.SessionCompleted})
}
