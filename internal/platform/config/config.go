package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const devJWTSecret = "dev-secret-key-change-in-production"

// Server captures process-level configuration. Values come from the
// environment, optionally seeded from a .env file.
type Server struct {
	Addr        string `env:"LOTOLINK_ADDR" envDefault:":8080"`
	Environment string `env:"APP_ENV" envDefault:"development"`

	Log      LogConfig
	Auth     AuthConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	Admin    AdminCodeConfig
	OAuth    OAuthConfig
	Limits   RateLimitConfig
}

type LogConfig struct {
	Level string `env:"LOG_LEVEL" envDefault:"info"`
	// File enables a daily-rotated log file in addition to stdout.
	File      string        `env:"LOG_FILE"`
	MaxAge    time.Duration `env:"LOG_MAX_AGE" envDefault:"168h"`
	JSONLines bool          `env:"LOG_JSON"`
}

type AuthConfig struct {
	JWTSecret       string        `env:"JWT_SECRET"`
	Issuer          string        `env:"JWT_ISSUER" envDefault:"lotolink"`
	AccessTokenTTL  time.Duration `env:"JWT_ACCESS_TTL" envDefault:"1h"`
	RefreshTokenTTL time.Duration `env:"JWT_REFRESH_TTL" envDefault:"168h"`
	MinimumAge      int           `env:"MINIMUM_AGE" envDefault:"18"`
}

type DatabaseConfig struct {
	URL         string        `env:"DATABASE_URL"`
	MaxConns    int           `env:"DATABASE_MAX_CONNS" envDefault:"10"`
	PingTimeout time.Duration `env:"DATABASE_PING_TIMEOUT" envDefault:"5s"`
}

// RedisConfig configures the shared admin-code attempt store.
// An empty URL keeps attempt tracking in process memory.
type RedisConfig struct {
	URL          string        `env:"REDIS_URL"`
	PoolSize     int           `env:"REDIS_POOL_SIZE" envDefault:"10"`
	MinIdleConns int           `env:"REDIS_MIN_IDLE_CONNS" envDefault:"2"`
	DialTimeout  time.Duration `env:"REDIS_DIAL_TIMEOUT" envDefault:"5s"`
	ReadTimeout  time.Duration `env:"REDIS_READ_TIMEOUT" envDefault:"3s"`
	WriteTimeout time.Duration `env:"REDIS_WRITE_TIMEOUT" envDefault:"3s"`
}

// KafkaConfig enables the Kafka audit sink when Brokers is non-empty.
type KafkaConfig struct {
	Brokers    []string `env:"KAFKA_BROKERS" envSeparator:","`
	AuditTopic string   `env:"AUDIT_TOPIC" envDefault:"lotolink.audit"`
}

type AdminCodeConfig struct {
	ServiceURL  string        `env:"ADMIN_VALIDATION_SERVICE_URL"`
	ServiceKey  string        `env:"ADMIN_SERVICE_KEY"`
	Timeout     time.Duration `env:"ADMIN_CODE_TIMEOUT" envDefault:"5s"`
	MaxAttempts int           `env:"ADMIN_CODE_MAX_ATTEMPTS" envDefault:"3"`
	Window      time.Duration `env:"ADMIN_CODE_WINDOW" envDefault:"5m"`
	Lockout     time.Duration `env:"ADMIN_CODE_LOCKOUT" envDefault:"15m"`
	SweepEvery  time.Duration `env:"ADMIN_CODE_SWEEP_INTERVAL" envDefault:"1h"`
}

// RateLimitConfig budgets the public sign-in routes. Buckets live in Redis
// when REDIS_URL is set, with an in-memory fallback while Redis is down.
type RateLimitConfig struct {
	Disabled      bool          `env:"RATE_LIMIT_DISABLED"`
	AuthRequests  int           `env:"AUTH_RATE_LIMIT_REQUESTS" envDefault:"20"`
	AuthWindow    time.Duration `env:"AUTH_RATE_LIMIT_WINDOW" envDefault:"1m"`
	LoginRequests int           `env:"LOGIN_RATE_LIMIT_REQUESTS" envDefault:"10"`
	LoginWindow   time.Duration `env:"LOGIN_RATE_LIMIT_WINDOW" envDefault:"15m"`
	SweepEvery    time.Duration `env:"RATE_LIMIT_SWEEP_INTERVAL" envDefault:"5m"`
}

type OAuthConfig struct {
	AppleClientID     string `env:"APPLE_CLIENT_ID"`
	FacebookAppID     string `env:"FACEBOOK_APP_ID"`
	FacebookAppSecret string `env:"FACEBOOK_APP_SECRET"`

	GoogleUserInfoURL string `env:"GOOGLE_USERINFO_URL" envDefault:"https://www.googleapis.com/oauth2/v3/userinfo"`
	AppleKeysURL      string `env:"APPLE_KEYS_URL" envDefault:"https://appleid.apple.com/auth/keys"`
	FacebookGraphURL  string `env:"FACEBOOK_GRAPH_URL" envDefault:"https://graph.facebook.com"`

	Timeout          time.Duration `env:"OAUTH_TIMEOUT" envDefault:"10s"`
	// AppleKeysRefresh is the minimum gap between Apple JWKS refetches.
	AppleKeysRefresh time.Duration `env:"APPLE_KEYS_MIN_REFRESH" envDefault:"1m"`
}

// IsProduction reports whether the process runs with production settings.
func (s Server) IsProduction() bool {
	return s.Environment == "production"
}

// Load reads an optional .env file and parses the environment.
func Load(files ...string) (Server, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Server{}, fmt.Errorf("load env file: %w", err)
	}
	return FromEnv()
}

// FromEnv parses configuration from the process environment.
func FromEnv() (Server, error) {
	var cfg Server
	if err := env.Parse(&cfg); err != nil {
		return Server{}, fmt.Errorf("parse config: %w", err)
	}
	if cfg.Auth.JWTSecret == "" {
		if cfg.IsProduction() {
			return Server{}, errors.New("JWT_SECRET is required in production")
		}
		cfg.Auth.JWTSecret = devJWTSecret
	}
	return cfg, nil
}
