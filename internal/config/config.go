package config

import (
	"context"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Config holds runtime configuration for the gateway service.
type Config struct {
	Addr               string        `env:"ADDR,default=:8080"`
	DBDSN              string        `env:"DB_DSN,required"`
	VRNOAPIKey         string        `env:"VRNO_API_KEY,required"`
	ExternalAPIURL     string        `env:"EXTERNAL_API_URL,default=https://token-market-backend-production.up.railway.app"`
	ExternalAPITimeout time.Duration `env:"EXTERNAL_API_TIMEOUT,default=30s"`
	NATSURL            string        `env:"NATS_URL"`
	OTLPEndpoint       string        `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	AllowedOrigins     []string      `env:"CORS_ALLOWED_ORIGINS,default=http://localhost:5000"`
	TokenTTL           time.Duration `env:"AUTH_TOKEN_TTL,default=15m"`
	SweepInterval      time.Duration `env:"TOKEN_SWEEP_INTERVAL,default=6h"`
	SeedFile           string        `env:"SEED_FILE"`
	RateLimit          int           `env:"RATE_LIMIT,default=100"`
}

// Load returns a Config populated from environment variables.
func Load(ctx context.Context) (Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
