package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/gokatarajesh/livequiz/internal/auth/jwt"
	"github.com/gokatarajesh/livequiz/internal/config"
	"github.com/gokatarajesh/livequiz/internal/db/postgres"
	"github.com/gokatarajesh/livequiz/internal/db/repository"
	"github.com/gokatarajesh/livequiz/internal/leaderboard"
	"github.com/gokatarajesh/livequiz/internal/logging"
	"github.com/gokatarajesh/livequiz/internal/notify"
	"github.com/gokatarajesh/livequiz/internal/server"
	"github.com/gokatarajesh/livequiz/internal/session"
	"github.com/gokatarajesh/livequiz/internal/session/scoring"
	"github.com/gokatarajesh/livequiz/internal/store/memory"
	"github.com/gokatarajesh/livequiz/internal/store/redisstore"
	ws "github.com/gokatarajesh/livequiz/pkg/http/ws"
)

// Application aggregates shared infrastructure (stores, notifier, HTTP server).
type Application struct {
	cfg    *config.App
	logger zerolog.Logger

	pool  *pgxpool.Pool
	redis *redis.Client
	http  *http.Server

	notifier       *notify.Async
	relay          *notify.Relay
	snapshotWorker *leaderboard.SnapshotWorker
	bgCancels      []context.CancelFunc
}

// New bootstraps logger, backends, the session engine and the HTTP server.
func New(ctx context.Context, cfg *config.App) (*Application, error) {
	logger := logging.New(cfg.Name, cfg.Env, cfg.LogLevel)
	logger.Info().Str("store_backend", cfg.StoreBackend).Msg("starting application bootstrap")

	var pool *pgxpool.Pool
	if cfg.Postgres.Enabled() {
		p, err := postgres.NewPool(ctx, cfg.Postgres.DSN(), postgres.PoolConfig{MaxConns: cfg.Postgres.MaxConns})
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		pool = p
	} else {
		logger.Warn().Msg("PG_HOST not set; questions and leaderboards are not persisted to Postgres")
	}

	var redisClient *redis.Client
	if cfg.StoreBackend == config.BackendRedis {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			DB:       cfg.Redis.DB,
			PoolSize: cfg.Redis.PoolSize,
		})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("connect redis: %w", err)
		}
	}

	hub := ws.NewHub(logger)
	stores, locker, lbCache, target, relay := buildBackends(cfg, redisClient, pool, hub, logger)

	var snapshots leaderboard.SnapshotStore
	if pool != nil {
		snapshots = repository.NewLeaderboardRepository(pool)
	}
	leaderboardSvc := leaderboard.NewService(lbCache, snapshots, logger, leaderboard.ServiceOptions{})
	var snapshotWorker *leaderboard.SnapshotWorker
	if snapshots != nil {
		snapshotWorker = leaderboard.NewSnapshotWorker(leaderboardSvc, logger)
	}

	notifier := notify.NewAsync(target, cfg.Session.NotifyQueueSize, logger)

	sessionSvc := session.NewService(
		stores,
		locker,
		notifier,
		session.ServiceOptions{
			ScoringConfig: scoring.ScoringConfig{
				BaseScore:    cfg.Scoring.BasePoints,
				MaxTimeBonus: cfg.Scoring.MaxSpeedBonus,
			},
			Leaderboard: leaderboardSvc,
		},
		logger,
	)

	tokens := jwt.NewManager(jwt.TokenConfig{
		Secret: []byte(cfg.Security.JWTSecret),
		TTL:    cfg.Security.TokenTTL,
		Issuer: cfg.Name,
	})

	sessionHTTP := session.NewHTTPHandlers(sessionSvc, logger)
	sessionWS := session.NewWSHandler(sessionSvc, hub, logger)
	lbHTTP := leaderboard.NewHTTPHandler(leaderboardSvc, logger)

	apiServer := server.NewHTTPServer(cfg, logger, server.Dependencies{Pool: pool, Redis: redisClient}, tokens,
		sessionHTTP.Register,
		func(mux *http.ServeMux) {
			mux.HandleFunc("GET /ws/quizzes/{id}", sessionWS.HandleWebSocket)
			mux.HandleFunc("GET /v1/quizzes/{id}/leaderboard/history", lbHTTP.HandleHistory)
		},
	)

	return &Application{
		cfg:            cfg,
		logger:         logger,
		pool:           pool,
		redis:          redisClient,
		http:           apiServer,
		notifier:       notifier,
		relay:          relay,
		snapshotWorker: snapshotWorker,
		bgCancels:      make([]context.CancelFunc, 0, 2),
	}, nil
}

// buildBackends picks the store implementations for the configured backend.
// With Redis, events travel over Pub/Sub so every instance reaches its own sockets.
func buildBackends(
	cfg *config.App,
	client *redis.Client,
	pool *pgxpool.Pool,
	hub *ws.Hub,
	logger zerolog.Logger,
) (session.Stores, session.Locker, leaderboard.Cache, notify.Target, *notify.Relay) {
	var catalog memory.QuestionBackend

	if cfg.StoreBackend == config.BackendRedis {
		opts := redisstore.Options{KeyPrefix: cfg.Redis.KeyPrefix, SessionTTL: cfg.Session.TTL}
		catalog = redisstore.NewQuestionStore(client, opts)
		if pool != nil {
			catalog = repository.NewQuestionRepository(pool)
		}
		stores := session.Stores{
			Sessions:     redisstore.NewSessionStore(client, opts),
			Questions:    memory.NewQuestionCache(catalog),
			Answers:      redisstore.NewAnswerLedger(client, opts),
			Participants: redisstore.NewParticipantStore(client, opts),
		}
		locker := redisstore.NewLocker(client, opts, redisstore.LockOptions{
			TTL:  cfg.Session.LockTTL,
			Wait: cfg.Session.LockWait,
		})
		return stores,
			locker,
			redisstore.NewLeaderboardStore(client, opts),
			notify.NewRedisNotifier(client, cfg.Redis.PubSubChannel),
			notify.NewRelay(client, hub, cfg.Redis.PubSubChannel, logger)
	}

	catalog = memory.NewQuestionStore()
	if pool != nil {
		catalog = repository.NewQuestionRepository(pool)
	}
	stores := session.Stores{
		Sessions:     memory.NewSessionStore(),
		Questions:    memory.NewQuestionCache(catalog),
		Answers:      memory.NewAnswerLedger(),
		Participants: memory.NewParticipantStore(),
	}
	return stores, memory.NewLocker(), memory.NewLeaderboardStore(), notify.NewHubNotifier(hub), nil
}

// Run starts the HTTP server and waits for termination signals.
func (a *Application) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	a.startBackgroundWorkers(ctx)

	go func() {
		a.logger.Info().Str("addr", a.cfg.HTTPAddr).Msg("http server listening")
		if err := a.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		a.logger.Info().Str("signal", sig.String()).Msg("shutdown signal received")
	case err := <-errCh:
		return fmt.Errorf("http server error: %w", err)
	case <-ctx.Done():
		a.logger.Warn().Msg("context canceled")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.GracefulShutdownTimeout)
	defer cancel()

	if err := a.http.Shutdown(shutdownCtx); err != nil {
		a.logger.Error().Err(err).Msg("http shutdown error")
	}
	if err := a.notifier.Close(shutdownCtx); err != nil {
		a.logger.Warn().Err(err).Msg("notification queue not drained")
	}

	for _, cancel := range a.bgCancels {
		cancel()
	}

	if a.pool != nil {
		a.pool.Close()
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Error().Err(err).Msg("redis shutdown error")
		}
	}

	a.logger.Info().Msg("shutdown complete")
	return nil
}

func (a *Application) startBackgroundWorkers(ctx context.Context) {
	go a.notifier.Run(context.WithoutCancel(ctx))

	if a.relay != nil {
		bgCtx, cancel := context.WithCancel(ctx)
		a.bgCancels = append(a.bgCancels, cancel)
		go func() {
			if err := a.relay.Run(bgCtx); err != nil && !errors.Is(err, context.Canceled) {
				a.logger.Warn().Err(err).Msg("notification relay stopped")
			}
		}()
	}

	if a.snapshotWorker != nil {
		bgCtx, cancel := context.WithCancel(ctx)
		a.bgCancels = append(a.bgCancels, cancel)
		go func() {
			if err := a.snapshotWorker.Run(bgCtx); err != nil && !errors.Is(err, context.Canceled) {
				a.logger.Warn().Err(err).Msg("leaderboard snapshot worker stopped")
			}
		}()
	}
}
