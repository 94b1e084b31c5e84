package config

import (
	"context"
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
)

// Store backends.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// App holds core runtime configuration shared across services.
type App struct {
	Name                    string        `env:"APP_NAME" envDefault:"livequiz"`
	Env                     string        `env:"APP_ENV" envDefault:"development"`
	HTTPAddr                string        `env:"HTTP_ADDR" envDefault:"0.0.0.0:8080"`
	GracefulShutdownTimeout time.Duration `env:"GRACEFUL_SHUTDOWN_SECONDS" envDefault:"20s"`
	StoreBackend            string        `env:"STORE_BACKEND" envDefault:"memory"`
	LogLevel                string        `env:"LOG_LEVEL" envDefault:"info"`

	Postgres Postgres
	Redis    Redis
	Security Security
	Session  Session
	Scoring  Scoring
}

// Postgres captures connection info for the SQL database. Persistence is
// enabled only when Host is set.
type Postgres struct {
	Host     string `env:"PG_HOST" envDefault:""`
	Port     int    `env:"PG_PORT" envDefault:"5432"`
	User     string `env:"PG_USER" envDefault:""`
	Password string `env:"PG_PASSWORD" envDefault:""`
	Database string `env:"PG_DATABASE" envDefault:""`
	SSLMode  string `env:"PG_SSL_MODE" envDefault:"disable"`
	MaxConns int32  `env:"PG_MAX_CONNS" envDefault:"10"`
}

// Enabled reports whether Postgres is configured.
func (p Postgres) Enabled() bool {
	return p.Host != ""
}

// DSN renders a pgx connection string.
func (p Postgres) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode)
}

// Redis holds store, lock and pub/sub configuration.
type Redis struct {
	Addr          string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	DB            int    `env:"REDIS_DB" envDefault:"0"`
	PoolSize      int    `env:"REDIS_POOL_SIZE" envDefault:"20"`
	KeyPrefix     string `env:"REDIS_KEY_PREFIX" envDefault:"livequiz"`
	PubSubChannel string `env:"REDIS_PUBSUB_CHANNEL" envDefault:"livequiz:events"`
}

// Security stores secrets for signing and auth.
type Security struct {
	JWTSecret string        `env:"JWT_SECRET,notEmpty"`
	TokenTTL  time.Duration `env:"JWT_TOKEN_TTL" envDefault:"4h"`
}

// Session groups engine tuning.
type Session struct {
	LockTTL         time.Duration `env:"SESSION_LOCK_TTL" envDefault:"10s"`
	LockWait        time.Duration `env:"SESSION_LOCK_WAIT" envDefault:"5s"`
	TTL             time.Duration `env:"SESSION_TTL" envDefault:"24h"`
	NotifyQueueSize int           `env:"NOTIFY_QUEUE_SIZE" envDefault:"1024"`
}

// Scoring configures point awards.
type Scoring struct {
	BasePoints    int `env:"SCORING_BASE_POINTS" envDefault:"100"`
	MaxSpeedBonus int `env:"SCORING_MAX_SPEED_BONUS" envDefault:"50"`
}

// Load parses environment variables into App config.
func Load(ctx context.Context) (*App, error) {
	cfg := &App{}
	if err := env.ParseWithOptions(cfg, env.Options{RequiredIfNoDef: true}); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *App) validate() error {
	switch c.StoreBackend {
	case BackendMemory, BackendRedis:
	default:
		return fmt.Errorf("parse config: STORE_BACKEND must be %q or %q, got %q", BackendMemory, BackendRedis, c.StoreBackend)
	}
	if c.Postgres.Enabled() && (c.Postgres.User == "" || c.Postgres.Database == "") {
		return fmt.Errorf("parse config: PG_USER and PG_DATABASE are required when PG_HOST is set")
	}
	if c.Scoring.BasePoints <= 0 || c.Scoring.MaxSpeedBonus < 0 {
		return fmt.Errorf("parse config: scoring points must be positive")
	}
	return nil
}

// LoadPostgres parses only the Postgres settings. Tools that never serve
// traffic (the migrator) use it so they do not need JWT_SECRET.
func LoadPostgres() (Postgres, error) {
	var pg Postgres
	if err := env.ParseWithOptions(&pg, env.Options{RequiredIfNoDef: true}); err != nil {
		return Postgres{}, fmt.Errorf("parse postgres config: %w", err)
	}
	if !pg.Enabled() || pg.User == "" || pg.Database == "" {
		return Postgres{}, fmt.Errorf("parse postgres config: PG_HOST, PG_USER and PG_DATABASE are required")
	}
	return pg, nil
}
