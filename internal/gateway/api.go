package gateway

import (
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"vrnomarket/internal/authtoken"
	"vrnomarket/internal/external"
)

// Token purposes accepted by the secure endpoints. Distinct purposes are
// never interchangeable.
const (
	PurposeBalanceReveal   = "balance-reveal"
	PurposeAssetsReveal    = "assets-reveal"
	PurposeReferralsReveal = "referrals-reveal"
)

const defaultTokenTTL = 15 * time.Minute

// eventSubjectPrefix scopes every NATS subject the gateway publishes.
const eventSubjectPrefix = "vrno.events."

// Store holds external dependencies required by the gateway handlers.
// DB and Bus are optional: without DB the dynamic price-history read path is
// skipped, without Bus event publishing is a no-op.
type Store struct {
	ORM *gorm.DB
	DB  *pgxpool.Pool
	Bus *nats.Conn
}

// Config controls runtime behaviour for the gateway handlers.
type Config struct {
	APIKey         string
	TokenTTL       time.Duration
	RateLimit      int
	AllowedOrigins []string
}

// API wires dependencies and configuration for the HTTP handlers.
type API struct {
	store    *Store
	external *external.Client
	tokens   *authtoken.Store
	config   Config
	log      zerolog.Logger
}

// New initialises the gateway with sane defaults applied to the provided
// configuration.
func New(store *Store, ext *external.Client, tokens *authtoken.Store, cfg Config, log zerolog.Logger) (*API, error) {
	if store == nil {
		return nil, errors.New("store is required")
	}
	if store.ORM == nil {
		return nil, errors.New("store ORM is required")
	}
	if ext == nil {
		return nil, errors.New("external client is required")
	}
	if tokens == nil {
		return nil, errors.New("token store is required")
	}
	if cfg.APIKey == "" {
		return nil, errors.New("api key is required")
	}

	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = defaultTokenTTL
	}
	if cfg.RateLimit <= 0 {
		cfg.RateLimit = 100
	}

	return &API{
		store:    store,
		external: ext,
		tokens:   tokens,
		config:   cfg,
		log:      log,
	}, nil
}
