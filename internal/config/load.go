// AngelaMos | 2026
// load.go

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config. A missing file at path is not an error so
// containers can run from the environment alone.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	for key, value := range defaults {
		if err := k.Set(key, value); err != nil {
			return nil, fmt.Errorf("set default %s: %w", key, err)
		}
	}

	if path != "" {
		_, err := os.Stat(path)
		switch {
		case err == nil:
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("load config file: %w", err)
			}
		case !errors.Is(err, fs.ErrNotExist):
			return nil, fmt.Errorf("stat config file: %w", err)
		}
	}

	if err := k.Load(env.ProviderWithValue("", ".", fromEnv), nil); err != nil {
		return nil, fmt.Errorf("load env vars: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

var defaults = map[string]any{
	"app.name":         "SlideView API",
	"app.version":      "1.0.0",
	"app.environment":  "development",
	"app.frontend_url": "http://localhost:5173",

	"server.host":             "0.0.0.0",
	"server.port":             8080,
	"server.read_timeout":     "30s",
	"server.write_timeout":    "30s",
	"server.idle_timeout":     "120s",
	"server.shutdown_timeout": "15s",

	"database.max_open_conns":     25,
	"database.max_idle_conns":     5,
	"database.conn_max_lifetime":  "1h",
	"database.conn_max_idle_time": "30m",
	"database.auto_migrate":       true,

	"redis.pool_size":      10,
	"redis.min_idle_conns": 5,

	"jwt.private_key_path":     "keys/private.pem",
	"jwt.access_token_expire":  "15m",
	"jwt.refresh_token_expire": "168h",
	"jwt.issuer":               "slideview",
	"jwt.audience":             "slideview-api",

	"rate_limit.requests":        100,
	"rate_limit.window":          "1m",
	"rate_limit.burst":           20,
	"rate_limit.public_requests": 60,
	"rate_limit.public_burst":    10,

	"cors.allowed_origins":   []string{"http://localhost:5173"},
	"cors.allowed_methods":   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
	"cors.allowed_headers":   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
	"cors.allow_credentials": true,
	"cors.max_age":           300,

	"log.level":  "info",
	"log.format": "json",

	"otel.enabled":      false,
	"otel.insecure":     true,
	"otel.sample_rate":  0.1,
	"otel.service_name": "slideview-api",

	"drafts.retention":        "168h",
	"drafts.cleanup_enabled":  true,
	"drafts.cleanup_interval": "24h",

	"plans.cache_ttl": "10m",

	"metrics.enabled": true,
	"metrics.path":    "/metrics",
}

// envKeys maps the supported environment variables onto config keys.
// Anything not listed is ignored.
var envKeys = map[string]string{
	"DATABASE_URL":                "database.url",
	"REDIS_URL":                   "redis.url",
	"ENVIRONMENT":                 "app.environment",
	"FRONTEND_URL":                "app.frontend_url",
	"HOST":                        "server.host",
	"PORT":                        "server.port",
	"LOG_LEVEL":                   "log.level",
	"LOG_FORMAT":                  "log.format",
	"AUTO_MIGRATE":                "database.auto_migrate",
	"JWT_PRIVATE_KEY_PATH":        "jwt.private_key_path",
	"JWT_ACCESS_TOKEN_EXPIRE":     "jwt.access_token_expire",
	"JWT_REFRESH_TOKEN_EXPIRE":    "jwt.refresh_token_expire",
	"JWT_ISSUER":                  "jwt.issuer",
	"JWT_AUDIENCE":                "jwt.audience",
	"RATE_LIMIT_REQUESTS":         "rate_limit.requests",
	"RATE_LIMIT_WINDOW":           "rate_limit.window",
	"RATE_LIMIT_BURST":            "rate_limit.burst",
	"CORS_ALLOWED_ORIGINS":        "cors.allowed_origins",
	"OTEL_ENABLED":                "otel.enabled",
	"OTEL_ENDPOINT":               "otel.endpoint",
	"OTEL_EXPORTER_OTLP_ENDPOINT": "otel.endpoint",
	"OTEL_SERVICE_NAME":           "otel.service_name",
	"OTEL_INSECURE":               "otel.insecure",
	"OTEL_SAMPLE_RATE":            "otel.sample_rate",
	"DRAFT_RETENTION":             "drafts.retention",
	"DRAFT_CLEANUP_ENABLED":       "drafts.cleanup_enabled",
	"DRAFT_CLEANUP_INTERVAL":      "drafts.cleanup_interval",
	"PLAN_CACHE_TTL":              "plans.cache_ttl",
	"BILLING_WEBHOOK_TOKEN":       "billing.webhook_token",
	"METRICS_ENABLED":             "metrics.enabled",
}

// listKeys take comma separated values.
var listKeys = map[string]bool{
	"cors.allowed_origins": true,
}

func fromEnv(name, value string) (string, any) {
	key, ok := envKeys[name]
	if !ok {
		return "", nil
	}
	if !listKeys[key] {
		return key, value
	}

	parts := strings.Split(value, ",")
	items := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			items = append(items, p)
		}
	}
	return key, items
}

// Validate reports every problem at once.
func (c *Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}

	check(c.Database.URL != "", "DATABASE_URL is required")
	check(c.Redis.URL != "", "REDIS_URL is required")
	check(c.JWT.PrivateKeyPath != "", "JWT_PRIVATE_KEY_PATH is required")
	check(c.JWT.AccessTokenExpire > 0, "jwt.access_token_expire must be positive")
	check(c.JWT.RefreshTokenExpire > c.JWT.AccessTokenExpire,
		"jwt.refresh_token_expire must exceed jwt.access_token_expire")
	check(c.Server.ReadTimeout > 0, "server.read_timeout must be positive")
	check(c.Server.WriteTimeout > 0, "server.write_timeout must be positive")
	check(c.RateLimit.Window > 0, "rate_limit.window must be positive")
	check(c.Drafts.Retention > 0, "drafts.retention must be positive")
	check(!c.Drafts.CleanupEnabled || c.Drafts.CleanupInterval > 0,
		"drafts.cleanup_interval must be positive")
	check(c.Otel.SampleRate >= 0 && c.Otel.SampleRate <= 1,
		"otel.sample_rate %v is outside [0, 1]", c.Otel.SampleRate)

	if c.CORS.AllowCredentials {
		for _, origin := range c.CORS.AllowedOrigins {
			check(origin != "*", "CORS wildcard '*' cannot be used with allow_credentials")
		}
	}

	if c.IsProduction() {
		check(!c.Otel.Enabled || !c.Otel.Insecure, "OTEL_INSECURE must be false in production")
		check(c.Billing.WebhookToken != "", "BILLING_WEBHOOK_TOKEN is required in production")
	}

	return errors.Join(errs...)
}
