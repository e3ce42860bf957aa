package authtoken

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"vrnomarket/internal/models"
	"vrnomarket/internal/telemetry"
)

// maxGenerateAttempts bounds collision retries on issue. Collisions are
// effectively impossible at 256 bits, so hitting the budget means something
// is badly wrong with the random source.
const maxGenerateAttempts = 3

// Store issues and consumes one-time auth tokens against the shared database.
// The database is the only synchronization point: multiple gateway instances
// may issue and consume concurrently.
type Store struct {
	db  *gorm.DB
	log zerolog.Logger
}

// NewStore wires the token store to an already-open database handle.
func NewStore(database *gorm.DB, log zerolog.Logger) (*Store, error) {
	if database == nil {
		return nil, errors.New("database is required")
	}
	return &Store{db: database, log: log}, nil
}

// Issue persists a pending token for (subject, purpose) expiring after ttl
// and returns the opaque token value.
func (s *Store) Issue(ctx context.Context, subject, purpose string, ttl time.Duration) (string, error) {
	expiresAt := time.Now().Add(ttl)

	for attempt := 0; attempt < maxGenerateAttempts; attempt++ {
		token, err := Generate()
		if err != nil {
			return "", err
		}

		row := models.AuthToken{
			ID:        uuid.New(),
			Token:     token,
			Subject:   subject,
			Purpose:   purpose,
			ExpiresAt: expiresAt,
		}

		err = s.db.WithContext(ctx).Create(&row).Error
		if err == nil {
			telemetry.TokensIssued.Inc()
			return token, nil
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			s.log.Warn().Int("attempt", attempt+1).Msg("auth token collision, regenerating")
			continue
		}
		return "", fmt.Errorf("%w: insert token: %v", ErrStorageUnavailable, err)
	}

	return "", ErrGenerationExhausted
}

// VerifyAndConsume atomically marks the token used and returns its subject.
// The conditional update only succeeds while used_at is still null, so
// concurrent redemptions of the same token cannot both win. Every rejection
// surfaces as ErrInvalidToken regardless of cause.
func (s *Store) VerifyAndConsume(ctx context.Context, token, purpose string) (string, error) {
	now := time.Now()

	res := s.db.WithContext(ctx).
		Model(&models.AuthToken{}).
		Where("token = ? AND purpose = ? AND used_at IS NULL AND expires_at > ?", token, purpose, now).
		Update("used_at", now)
	if res.Error != nil {
		return "", fmt.Errorf("%w: consume token: %v", ErrStorageUnavailable, res.Error)
	}
	if res.RowsAffected != 1 {
		s.logRejection(ctx, token, purpose, now)
		telemetry.TokensRejected.Inc()
		return "", ErrInvalidToken
	}

	var row models.AuthToken
	if err := s.db.WithContext(ctx).
		Select("subject").
		Where("token = ?", token).
		Take(&row).Error; err != nil {
		return "", fmt.Errorf("%w: load consumed token: %v", ErrStorageUnavailable, err)
	}

	telemetry.TokensConsumed.Inc()
	return row.Subject, nil
}

// logRejection records why a verification failed. Diagnostic only; the
// caller always gets the same ErrInvalidToken.
func (s *Store) logRejection(ctx context.Context, token, purpose string, now time.Time) {
	var row models.AuthToken
	err := s.db.WithContext(ctx).Where("token = ?", token).Take(&row).Error

	reason := "unknown"
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		reason = "not_found"
	case err != nil:
		// keep "unknown"; the diagnostic read is best-effort
	case row.UsedAt != nil:
		reason = "already_used"
	case !row.ExpiresAt.After(now):
		reason = "expired"
	case row.Purpose != purpose:
		reason = "purpose_mismatch"
	}

	s.log.Debug().Str("reason", reason).Msg("auth token rejected")
}
