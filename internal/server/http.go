package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/gokatarajesh/livequiz/internal/auth"
	"github.com/gokatarajesh/livequiz/internal/config"
	"github.com/gokatarajesh/livequiz/internal/logging"
)

// WSUpgrader handles WebSocket upgrades.
var WSUpgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// Dependencies are the optional backends /v1/ping checks; nil ones are skipped.
type Dependencies struct {
	Pool  *pgxpool.Pool
	Redis *redis.Client
}

// NewHTTPServer wires base routes (health, metrics, ping) plus the mounted feature routes.
// Every request passes through token validation; routes decide whether claims are required.
func NewHTTPServer(cfg *config.App, logger zerolog.Logger, deps Dependencies, validator auth.TokenValidator, mounts ...func(*http.ServeMux)) *http.Server {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("GET /v1/ping", func(w http.ResponseWriter, r *http.Request) {
		ctx := logging.IntoContext(r.Context(), logger)
		if err := pingDependencies(ctx, deps); err != nil {
			reqLogger := logging.FromContext(ctx)
			reqLogger.Error().Err(err).Msg("dependency ping failed")
			http.Error(w, "upstream error", http.StatusBadGateway)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"pong":true}`))
	})

	for _, mount := range mounts {
		mount(mux)
	}

	return &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           auth.AuthMiddleware(validator, logger)(mux),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

func pingDependencies(ctx context.Context, deps Dependencies) error {
	if deps.Pool != nil {
		if err := deps.Pool.Ping(ctx); err != nil {
			return err
		}
	}
	if deps.Redis != nil {
		if err := deps.Redis.Ping(ctx).Err(); err != nil {
			return err
		}
	}
	return nil
}
