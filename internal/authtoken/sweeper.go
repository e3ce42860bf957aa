package authtoken

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"vrnomarket/internal/models"
	"vrnomarket/internal/telemetry"
)

const defaultSweepInterval = 6 * time.Hour

// Sweeper periodically deletes expired token rows. Consumed rows are kept
// until their expiry passes, then removed with everything else, so the audit
// window for a consumed token equals its TTL.
type Sweeper struct {
	db       *gorm.DB
	interval time.Duration
	log      zerolog.Logger
}

// NewSweeper returns a sweeper ticking at the given interval.
func NewSweeper(database *gorm.DB, interval time.Duration, log zerolog.Logger) *Sweeper {
	if interval <= 0 {
		interval = defaultSweepInterval
	}
	return &Sweeper{db: database, interval: interval, log: log}
}

// Run loops until ctx is cancelled. Storage errors on a tick are logged and
// swallowed; the next tick retries.
func (sw *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(sw.interval)
	defer ticker.Stop()

	sw.log.Info().Dur("interval", sw.interval).Msg("token sweeper started")

	for {
		select {
		case <-ctx.Done():
			sw.log.Info().Msg("token sweeper stopped")
			return
		case <-ticker.C:
			deleted, err := sw.SweepOnce(ctx)
			if err != nil {
				sw.log.Error().Err(err).Msg("token sweep failed")
				continue
			}
			if deleted > 0 {
				sw.log.Info().Int64("deleted", deleted).Msg("swept expired auth tokens")
			}
		}
	}
}

// SweepOnce issues one bulk delete of all rows past their expiry and returns
// the number of rows removed. Running it again with no new expiries is a
// no-op.
func (sw *Sweeper) SweepOnce(ctx context.Context) (int64, error) {
	res := sw.db.WithContext(ctx).
		Where("expires_at < ?", time.Now()).
		Delete(&models.AuthToken{})
	if res.Error != nil {
		return 0, fmt.Errorf("%w: delete expired tokens: %v", ErrStorageUnavailable, res.Error)
	}

	telemetry.TokensSwept.Add(float64(res.RowsAffected))
	return res.RowsAffected, nil
}
