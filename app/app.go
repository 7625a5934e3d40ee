package app

import (
	"context"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"autoloan-agent/config"
	"autoloan-agent/repository"
	"autoloan-agent/service"
)

// App holds the wired services shared by the API server and the CLI.
type App struct {
	Lenders     *repository.LenderRepositoryMemory
	Loans       *service.LoanService
	Valuation   *service.ValuationService
	Matcher     *service.MatchingService
	Quotes      *service.QuoteService
	Negotiator  *service.NegotiationService
	Sessions    *service.QuoteSessionManager
	Janitor     *service.SessionJanitor
	Hub         *service.ProgressHub
	redisClient *redis.Client
}

// New wires every service from cfg. With SESSION_STORE=redis the session
// store and valuation cache are backed by Redis.
func New(ctx context.Context, cfg config.Config, logger *slog.Logger) (*App, error) {
	lenders := repository.NewDefaultLenderRepository()
	for _, issue := range service.ValidateCatalog(lenders.All()) {
		logger.Warn("lender catalog issue", "lender_id", issue.LenderID, "problem", issue.Problem)
	}

	var (
		sessions    repository.SessionRepository
		cache       repository.CacheRepository
		redisClient *redis.Client
	)
	if cfg.UsesRedis() {
		client, err := repository.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return nil, err
		}
		redisClient = client
		// keys outlive the retention window slightly so cleanup stays authoritative
		sessions = repository.NewRedisSessionRepository(client, cfg.SessionRetention+cfg.SessionCleanupInterval)
		cache = repository.NewRedisCache(client, cfg.ValuationCacheTTL)
	} else {
		sessions = repository.NewSessionRepositoryMemory()
		cache = repository.NewLRUCache(cfg.ValuationCacheSize)
	}

	rnd := service.NewRandomSource(cfg.RandomSeed)
	valuation := service.NewValuationService(cache, logger)
	matcher := service.NewMatchingService(lenders, valuation, logger)
	quotes := service.NewQuoteService(lenders, rnd, service.SimulatorConfig{
		MinLatency:            cfg.QuoteMinLatency,
		MaxLatency:            cfg.QuoteMaxLatency,
		NegotiationMinLatency: cfg.NegotiationMinLatency,
		NegotiationMaxLatency: cfg.NegotiationMaxLatency,
		FailureRate:           cfg.QuoteFailureRate,
	}, logger)

	strategy := service.DefaultNegotiationStrategy()
	if cfg.NegotiateTerms {
		strategy = strategy.WithTermRequests()
	}
	negotiator := service.NewNegotiationService(quotes, strategy, logger)

	hub := service.NewProgressHub()
	manager := service.NewQuoteSessionManager(matcher, quotes, negotiator, sessions, hub, service.SessionConfig{
		RequestTimeout: cfg.QuoteRequestTimeout,
		SessionTimeout: cfg.SessionTimeout,
		Retention:      cfg.SessionRetention,
	}, logger)

	return &App{
		Lenders:     lenders,
		Loans:       service.NewLoanService(logger),
		Valuation:   valuation,
		Matcher:     matcher,
		Quotes:      quotes,
		Negotiator:  negotiator,
		Sessions:    manager,
		Janitor:     service.NewSessionJanitor(manager, cfg.SessionCleanupInterval, logger),
		Hub:         hub,
		redisClient: redisClient,
	}, nil
}

// Close stops running sessions and releases the Redis connection.
func (a *App) Close(ctx context.Context) error {
	err := a.Sessions.Close(ctx)
	if a.redisClient != nil {
		if cerr := a.redisClient.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}
