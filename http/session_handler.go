package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"autoloan-agent/domain"
	"autoloan-agent/service"
)

type QuoteSessions interface {
	StartQuoteCollectionRaw(ctx context.Context, raw domain.RawBorrowerProfile, onProgress service.ProgressFunc) (domain.QuoteSession, error)
	GetSession(ctx context.Context, id string) (domain.QuoteSession, error)
	GetAllSessions(ctx context.Context) ([]domain.QuoteSession, error)
}

// sessionView adds the UI progress percentage to a snapshot.
type sessionView struct {
	domain.QuoteSession
	ProgressPercentage float64 `json:"progressPercentage"`
}

func newSessionView(s domain.QuoteSession) sessionView {
	return sessionView{QuoteSession: s, ProgressPercentage: s.ProgressPercentage()}
}

type SessionHandler struct {
	sessions QuoteSessions
}

func NewSessionHandler(sessions QuoteSessions) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

func (h *SessionHandler) StartSession(c *gin.Context) {
	var raw domain.RawBorrowerProfile
	if err := c.ShouldBindJSON(&raw); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}

	session, err := h.sessions.StartQuoteCollectionRaw(c.Request.Context(), raw, nil)
	if err != nil {
		writeError(c, err)
		return
	}
	c.Header("Location", "/v1/quote-sessions/"+session.SessionID)
	c.JSON(http.StatusAccepted, newSessionView(session))
}

func (h *SessionHandler) ListSessions(c *gin.Context) {
	sessions, err := h.sessions.GetAllSessions(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	items := make([]sessionView, 0, len(sessions))
	for _, s := range sessions {
		items = append(items, newSessionView(s))
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *SessionHandler) GetSession(c *gin.Context) {
	session, err := h.sessions.GetSession(c.Request.Context(), strings.TrimSpace(c.Param("sessionId")))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newSessionView(session))
}

func (h *SessionHandler) CompareOffers(c *gin.Context) {
	session, err := h.sessions.GetSession(c.Request.Context(), strings.TrimSpace(c.Param("sessionId")))
	if err != nil {
		writeError(c, err)
		return
	}

	offers, err := service.CompareOffers(
		session.Quotes,
		service.OfferSort(strings.ToLower(c.DefaultQuery("sort", string(service.SortByAPR)))),
		service.OfferFilter(strings.ToLower(c.DefaultQuery("filter", string(service.FilterAll)))),
	)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"sessionId": session.SessionID,
		"status":    session.Status,
		"items":     offers,
	})
}
