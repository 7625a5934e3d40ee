package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"autoloan-agent/config"
	"autoloan-agent/service"
)

type Dependencies struct {
	LoanService *service.LoanService
	Matcher     BorrowerMatcher
	Catalog     LenderCatalog
	Sessions    QuoteSessions
	Hub         *service.ProgressHub
	RateLimiter *RateLimiter
}

func NewRouter(cfg config.Config, logger *slog.Logger, deps Dependencies) *gin.Engine {
	if cfg.Env == "prod" || cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	// Rate limiting keys on ClientIP, so forwarded headers only count from
	// configured proxies.
	if err := r.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		logger.Warn("invalid trusted proxies, trusting none", "err", err)
		_ = r.SetTrustedProxies(nil)
	}
	r.Use(gin.Recovery())
	r.Use(func(c *gin.Context) {
		logger.Info("request", "method", c.Request.Method, "path", c.Request.URL.Path)
		c.Next()
	})

	limited := func(h gin.HandlerFunc) []gin.HandlerFunc {
		if deps.RateLimiter == nil {
			return []gin.HandlerFunc{h}
		}
		return []gin.HandlerFunc{RateLimitMiddleware(deps.RateLimiter), h}
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := r.Group("/v1")

	if deps.LoanService != nil {
		loanHandler := NewLoanHandler(deps.LoanService)
		v1.POST("/loan/calculate", limited(loanHandler.CalculateLoan)...)
	}

	if deps.Matcher != nil && deps.Catalog != nil {
		matchHandler := NewMatchHandler(deps.Matcher, deps.Catalog)
		v1.POST("/match", limited(matchHandler.Match)...)
		v1.GET("/lenders", matchHandler.ListLenders)
		v1.GET("/lenders/:lenderId", matchHandler.GetLender)
	}

	if deps.Sessions != nil {
		sessionHandler := NewSessionHandler(deps.Sessions)
		v1.POST("/quote-sessions", limited(sessionHandler.StartSession)...)
		v1.GET("/quote-sessions", sessionHandler.ListSessions)
		v1.GET("/quote-sessions/:sessionId", sessionHandler.GetSession)
		v1.GET("/quote-sessions/:sessionId/offers", sessionHandler.CompareOffers)

		if deps.Hub != nil {
			streamHandler := NewStreamHandler(deps.Sessions, deps.Hub, logger)
			v1.GET("/quote-sessions/:sessionId/stream", streamHandler.StreamSession)
		}
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not_found"})
	})

	return r
}
