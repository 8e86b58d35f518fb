package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "PEDIDOS"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	LogFormatJSON    = "json"
	LogFormatConsole = "console"

	EnvAppEnv          = "PEDIDOS_APP_ENV"
	EnvPort            = "PEDIDOS_APP_PORT"
	EnvBackendBaseURL  = "PEDIDOS_BACKEND_BASE_URL"
	EnvBackendTimeout  = "PEDIDOS_BACKEND_TIMEOUT"
	EnvCatalogOrigin   = "PEDIDOS_CATALOG_PUBLIC_ORIGIN"
	EnvRedisURL        = "PEDIDOS_REDIS_URL"
	EnvCheckoutLimit   = "PEDIDOS_CHECKOUT_RATE_LIMIT"
	EnvMessagingDomain = "PEDIDOS_MESSAGING_DOMAIN"
)

type Config struct {
	App       AppConfig
	Backend   BackendConfig
	Catalog   CatalogConfig
	Messaging MessagingConfig
	Sessions  SessionsConfig
	Redis     RedisConfig
	Checkout  CheckoutConfig
	CORS      CORSConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Backend.validate(); err != nil {
		return nil, err
	}
	if err := cfg.Catalog.validate(cfg.App.IsProd()); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env             string        `envconfig:"PEDIDOS_APP_ENV" default:"dev"`
	Port            string        `envconfig:"PEDIDOS_APP_PORT" default:"8080"`
	LogLevel        string        `envconfig:"PEDIDOS_LOG_LEVEL" default:"info"`
	LogFormat       string        `envconfig:"PEDIDOS_LOG_FORMAT"`
	LogWarnStack    bool          `envconfig:"PEDIDOS_LOG_WARN_STACK" default:"false"`
	ShutdownTimeout time.Duration `envconfig:"PEDIDOS_SHUTDOWN_TIMEOUT" default:"10s"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// LogOutputFormat is the configured log format, or console output in dev and JSON elsewhere
// when none is set.
func (a AppConfig) LogOutputFormat() string {
	if format := strings.TrimSpace(a.LogFormat); format != "" {
		return format
	}
	if a.IsDev() {
		return LogFormatConsole
	}
	return LogFormatJSON
}

// BackendConfig points at the order-taking API both clients talk to.
type BackendConfig struct {
	BaseURL string        `envconfig:"PEDIDOS_BACKEND_BASE_URL" default:"https://maobe-pedidos.onrender.com"`
	Timeout time.Duration `envconfig:"PEDIDOS_BACKEND_TIMEOUT" default:"15s"`
}

func (b BackendConfig) validate() error {
	u, err := url.Parse(strings.TrimSpace(b.BaseURL))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%s must be an absolute URL", EnvBackendBaseURL)
	}
	if b.Timeout < 0 {
		return fmt.Errorf("%s must not be negative", EnvBackendTimeout)
	}
	return nil
}

type CatalogConfig struct {
	DefaultSlug  string `envconfig:"PEDIDOS_CATALOG_DEFAULT_SLUG" default:"demo"`
	PublicOrigin string `envconfig:"PEDIDOS_CATALOG_PUBLIC_ORIGIN" default:"http://localhost:8080"`
}

// validate checks the public origin. Catalog links go out to customers, so prod requires https.
func (c CatalogConfig) validate(prod bool) error {
	u, err := url.Parse(strings.TrimSpace(c.PublicOrigin))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%s must be an absolute URL", EnvCatalogOrigin)
	}
	if prod && u.Scheme != "https" {
		return fmt.Errorf("%s must use https in %s", EnvCatalogOrigin, AppEnvProd)
	}
	return nil
}

type MessagingConfig struct {
	Domain string `envconfig:"PEDIDOS_MESSAGING_DOMAIN" default:"wa.me"`
}

type SessionsConfig struct {
	IdleTTL             time.Duration `envconfig:"PEDIDOS_SESSION_IDLE_TTL" default:"2h"`
	SweepInterval       time.Duration `envconfig:"PEDIDOS_SESSION_SWEEP_INTERVAL" default:"5m"`
	MaxActive           int           `envconfig:"PEDIDOS_SESSION_MAX_ACTIVE" default:"10000"`
	OpenRateLimit       int           `envconfig:"PEDIDOS_SESSION_OPEN_RATE_LIMIT" default:"30"`
	OpenRateLimitWindow time.Duration `envconfig:"PEDIDOS_SESSION_OPEN_RATE_LIMIT_WINDOW" default:"1m"`
}

// RedisConfig is optional; without a URL or address the checkout rate limit is disabled.
type RedisConfig struct {
	URL          string        `envconfig:"PEDIDOS_REDIS_URL"`
	Address      string        `envconfig:"PEDIDOS_REDIS_ADDR"`
	Password     string        `envconfig:"PEDIDOS_REDIS_PASSWORD"`
	DB           int           `envconfig:"PEDIDOS_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"PEDIDOS_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"PEDIDOS_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"PEDIDOS_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"PEDIDOS_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"PEDIDOS_REDIS_WRITE_TIMEOUT" default:"5s"`
}

func (r RedisConfig) Enabled() bool {
	return strings.TrimSpace(r.URL) != "" || strings.TrimSpace(r.Address) != ""
}

type CheckoutConfig struct {
	RateLimit       int           `envconfig:"PEDIDOS_CHECKOUT_RATE_LIMIT" default:"10"`
	RateLimitWindow time.Duration `envconfig:"PEDIDOS_CHECKOUT_RATE_LIMIT_WINDOW" default:"1m"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"PEDIDOS_CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
}
