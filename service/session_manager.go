package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"autoloan-agent/domain"
	"autoloan-agent/repository"
)

const repositoryWriteTimeout = 5 * time.Second

// ProgressFunc receives a snapshot on every session change. It runs on the
// session's goroutine and must not block or modify the snapshot.
type ProgressFunc func(domain.QuoteSession)

// LenderMatcher resolves the eligible lenders for a borrower.
type LenderMatcher interface {
	MatchBorrowerToLenders(profile domain.BorrowerProfile) domain.MatchResult
}

// QuoteNegotiator improves a set of collected quotes.
type QuoteNegotiator interface {
	NegotiateAllQuotes(ctx context.Context, quotes []domain.LenderQuote) (domain.NegotiationResult, error)
}

type SessionConfig struct {
	RequestTimeout time.Duration
	SessionTimeout time.Duration
	Retention      time.Duration
}

func DefaultSessionConfig() SessionConfig {
	return SessionConfig{
		RequestTimeout: DefaultRequestTimeout,
		SessionTimeout: DefaultSessionTimeout,
		Retention:      DefaultSessionRetention,
	}
}

// QuoteSessionManager runs matching, quote fan-out and negotiation for each
// session and owns the live session state.
type QuoteSessionManager struct {
	matcher    LenderMatcher
	gateway    LenderGateway
	negotiator QuoteNegotiator
	repo       repository.SessionRepository
	hub        *ProgressHub
	cfg        SessionConfig
	logger     *slog.Logger
	now        func() time.Time
	newID      func() string

	baseCtx context.Context
	stop    context.CancelFunc
	wg      sync.WaitGroup
}

func NewQuoteSessionManager(
	matcher LenderMatcher,
	gateway LenderGateway,
	negotiator QuoteNegotiator,
	repo repository.SessionRepository,
	hub *ProgressHub,
	cfg SessionConfig,
	logger *slog.Logger,
) *QuoteSessionManager {
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = DefaultRequestTimeout
	}
	if cfg.SessionTimeout <= 0 {
		cfg.SessionTimeout = DefaultSessionTimeout
	}
	if cfg.Retention <= 0 {
		cfg.Retention = DefaultSessionRetention
	}
	if hub == nil {
		hub = NewProgressHub()
	}
	ctx, stop := context.WithCancel(context.Background())
	return &QuoteSessionManager{
		matcher:    matcher,
		gateway:    gateway,
		negotiator: negotiator,
		repo:       repo,
		hub:        hub,
		cfg:        cfg,
		logger:     loggerOrDiscard(logger),
		now:        time.Now,
		newID:      func() string { return "quote_" + uuid.NewString() },
		baseCtx:    ctx,
		stop:       stop,
	}
}

// Hub exposes the snapshot stream.
func (m *QuoteSessionManager) Hub() *ProgressHub {
	return m.hub
}

type sessionRun struct {
	mu         sync.Mutex
	session    domain.QuoteSession
	onProgress ProgressFunc
}

// StartQuoteCollectionRaw validates the wizard's record before starting.
func (m *QuoteSessionManager) StartQuoteCollectionRaw(
	ctx context.Context,
	raw domain.RawBorrowerProfile,
	onProgress ProgressFunc,
) (domain.QuoteSession, error) {
	profile, err := ParseBorrowerProfile(raw)
	if err != nil {
		return domain.QuoteSession{}, err
	}
	return m.StartQuoteCollection(ctx, profile, onProgress)
}

// StartQuoteCollection matches the borrower, stores a new session and starts
// the fan-out in the background. The returned snapshot is the initial
// requesting state; later states arrive through onProgress, the hub, or
// GetSession.
func (m *QuoteSessionManager) StartQuoteCollection(
	ctx context.Context,
	profile domain.BorrowerProfile,
	onProgress ProgressFunc,
) (domain.QuoteSession, error) {
	match := m.matcher.MatchBorrowerToLenders(profile)

	now := m.now()
	run := &sessionRun{
		onProgress: onProgress,
		session: domain.QuoteSession{
			SessionID:       m.newID(),
			BorrowerProfile: profile,
			Status:          domain.SessionRequesting,
			Progress:        domain.SessionProgress{Total: len(match.Matches)},
			Quotes:          []domain.LenderQuote{},
			CreatedAt:       now,
			UpdatedAt:       now,
		},
	}

	snapshot := run.session.Clone()
	if err := m.repo.Save(ctx, snapshot); err != nil {
		return domain.QuoteSession{}, err
	}
	m.emit(run, snapshot)

	m.logger.Info("quote collection started",
		"session_id", snapshot.SessionID, "eligible_lenders", len(match.Matches))

	runCtx, cancel := context.WithTimeout(m.baseCtx, m.cfg.SessionTimeout)
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		defer cancel()
		m.collect(runCtx, run, match)
	}()

	return snapshot, nil
}

func (m *QuoteSessionManager) collect(ctx context.Context, run *sessionRun, match domain.MatchResult) {
	m.update(ctx, run, func(s *domain.QuoteSession) {
		s.Status = domain.SessionCollecting
	})

	sessionID := run.session.SessionID
	summary := match.BorrowerSummary
	employment := summary.EmploymentType
	if employment == "" {
		employment = domain.EmploymentFullTime
	}

	results := make([]*domain.LenderQuote, len(match.Matches))
	var wg sync.WaitGroup
	for i, lm := range match.Matches {
		wg.Add(1)
		go func(i int, lender domain.LenderProduct) {
			defer wg.Done()

			reqCtx, cancel := context.WithTimeout(ctx, m.cfg.RequestTimeout)
			defer cancel()

			quote, err := m.gateway.RequestQuote(reqCtx, domain.QuoteRequest{
				LenderID:             lender.ID,
				MonthlyIncome:        summary.MonthlyIncome,
				EstimatedCreditScore: summary.EstimatedCreditScore,
				EmploymentType:       employment,
				LoanAmount:           summary.LoanAmount,
				VehicleValue:         summary.VehicleValue,
				DownPayment:          summary.DownPayment,
			}, lender)
			if err != nil {
				m.logger.Warn("quote request failed",
					"session_id", sessionID, "lender_id", lender.ID, "err", err)
				m.update(ctx, run, func(s *domain.QuoteSession) {
					s.Progress.Failed++
				})
				return
			}

			results[i] = &quote
			m.update(ctx, run, func(s *domain.QuoteSession) {
				s.Progress.Completed++
				s.Quotes = append(s.Quotes, quote.Clone())
			})
		}(i, lm.Lender)
	}
	wg.Wait()

	successful := make([]domain.LenderQuote, 0, len(results))
	for _, q := range results {
		if q != nil {
			successful = append(successful, *q)
		}
	}

	if len(successful) == 0 {
		reason := "no lender returned a quote"
		if len(match.Matches) == 0 {
			reason = "no eligible lenders"
		}
		m.update(ctx, run, func(s *domain.QuoteSession) {
			s.Quotes = []domain.LenderQuote{}
			s.Status = domain.SessionFailed
			s.FailureReason = reason
		})
		return
	}

	m.update(ctx, run, func(s *domain.QuoteSession) {
		s.Quotes = successful
		s.Status = domain.SessionNegotiating
	})

	result, err := m.negotiator.NegotiateAllQuotes(ctx, successful)
	if err != nil {
		m.logger.Error("negotiation failed", "session_id", sessionID, "err", err)
		m.update(ctx, run, func(s *domain.QuoteSession) {
			s.Status = domain.SessionFailed
			s.FailureReason = "negotiation failed: " + err.Error()
		})
		return
	}

	m.update(ctx, run, func(s *domain.QuoteSession) {
		s.NegotiationResult = &result
		s.Quotes = result.FinalQuotes
		s.Status = domain.SessionCompleted
	})
	m.logger.Info("quote session completed",
		"session_id", sessionID,
		"quotes", len(result.FinalQuotes),
		"improved", result.ImprovementsSummary.TotalQuotesImproved)
}

// update applies mutate under the session lock, persists the snapshot and
// emits it. Emitting under the lock keeps observers' snapshots in order.
func (m *QuoteSessionManager) update(ctx context.Context, run *sessionRun, mutate func(*domain.QuoteSession)) {
	run.mu.Lock()
	defer run.mu.Unlock()

	mutate(&run.session)
	run.session.UpdatedAt = m.now()
	snapshot := run.session.Clone()

	saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), repositoryWriteTimeout)
	defer cancel()
	if err := m.repo.Save(saveCtx, snapshot); err != nil {
		m.logger.Warn("failed to persist quote session", "session_id", snapshot.SessionID, "err", err)
	}
	m.emit(run, snapshot)
}

func (m *QuoteSessionManager) emit(run *sessionRun, snapshot domain.QuoteSession) {
	if run.onProgress != nil {
		run.onProgress(snapshot.Clone())
	}
	m.hub.Publish(snapshot)
}

func (m *QuoteSessionManager) GetSession(ctx context.Context, id string) (domain.QuoteSession, error) {
	return m.repo.Get(ctx, id)
}

func (m *QuoteSessionManager) GetAllSessions(ctx context.Context) ([]domain.QuoteSession, error) {
	return m.repo.List(ctx)
}

// CleanupExpiredSessions removes sessions created more than the retention
// period ago.
func (m *QuoteSessionManager) CleanupExpiredSessions(ctx context.Context) (int, error) {
	removed, err := m.repo.DeleteCreatedBefore(ctx, m.now().Add(-m.cfg.Retention))
	if err != nil {
		return 0, err
	}
	if removed > 0 {
		m.logger.Info("expired quote sessions removed", "count", removed)
	}
	return removed, nil
}

// Wait blocks until every running session has settled.
func (m *QuoteSessionManager) Wait() {
	m.wg.Wait()
}

// Close cancels running sessions and waits for them to settle or for ctx.
func (m *QuoteSessionManager) Close(ctx context.Context) error {
	m.stop()
	done := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return errors.Join(errors.New("quote sessions still running"), ctx.Err())
	}
}
