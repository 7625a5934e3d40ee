package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"autoloan-agent/config"
	"autoloan-agent/domain"
	"autoloan-agent/repository"
	"autoloan-agent/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// MockSessions is an in-memory QuoteSessions.
type MockSessions struct {
	mu       sync.Mutex
	sessions map[string]domain.QuoteSession
	started  []domain.RawBorrowerProfile
	startErr error
}

func newMockSessions(sessions ...domain.QuoteSession) *MockSessions {
	m := &MockSessions{sessions: map[string]domain.QuoteSession{}}
	for _, s := range sessions {
		m.sessions[s.SessionID] = s
	}
	return m
}

func (m *MockSessions) StartQuoteCollectionRaw(_ context.Context, raw domain.RawBorrowerProfile, _ service.ProgressFunc) (domain.QuoteSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.startErr != nil {
		return domain.QuoteSession{}, m.startErr
	}
	if _, err := service.ParseBorrowerProfile(raw); err != nil {
		return domain.QuoteSession{}, err
	}
	m.started = append(m.started, raw)
	s := domain.QuoteSession{
		SessionID: "quote_test",
		Status:    domain.SessionRequesting,
		Progress:  domain.SessionProgress{Total: 3},
	}
	m.sessions[s.SessionID] = s
	return s, nil
}

func (m *MockSessions) GetSession(_ context.Context, id string) (domain.QuoteSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return domain.QuoteSession{}, domain.ErrSessionNotFound
	}
	return s.Clone(), nil
}

func (m *MockSessions) GetAllSessions(context.Context) ([]domain.QuoteSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.QuoteSession, 0, len(m.sessions))
	for _, s := range m.sessions {
		out = append(out, s.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SessionID < out[j].SessionID })
	return out, nil
}

func newTestRouter(sessions QuoteSessions, hub *service.ProgressHub, limiter *RateLimiter) *gin.Engine {
	lenders := repository.NewDefaultLenderRepository()
	return NewRouter(config.Config{Env: "test"}, discardLogger(), Dependencies{
		LoanService: service.NewLoanService(nil),
		Matcher:     service.NewMatchingService(lenders, nil, nil),
		Catalog:     lenders,
		Sessions:    sessions,
		Hub:         hub,
		RateLimiter: limiter,
	})
}

func doJSON(t *testing.T, r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewBuffer(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestHealth(t *testing.T) {
	w := doJSON(t, newTestRouter(newMockSessions(), nil, nil), http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestUnknownRoute(t *testing.T) {
	w := doJSON(t, newTestRouter(newMockSessions(), nil, nil), http.MethodGet, "/v1/nope", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}
