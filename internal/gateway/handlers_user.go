package gateway

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"gorm.io/gorm"

	"vrnomarket/internal/models"
	"vrnomarket/internal/telemetry"
)

type assetView struct {
	ID           string    `json:"id"`
	Quantity     float64   `json:"quantity"`
	CurrentPrice float64   `json:"current_price"`
	UserPrice    float64   `json:"user_price"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type movementView struct {
	ID            int64     `json:"id"`
	CollectibleID string    `json:"collectible_id"`
	Type          string    `json:"type"`
	Amount        float64   `json:"amount"`
	Price         float64   `json:"price"`
	Description   string    `json:"description"`
	Timestamp     time.Time `json:"timestamp"`
	CreatedAt     time.Time `json:"created_at"`
}

func (a *API) lookupUser(ctx context.Context, username string) (models.User, error) {
	var user models.User
	err := a.store.ORM.WithContext(ctx).
		Where("username = ?", username).
		Take(&user).Error
	return user, err
}

func (a *API) fetchBalance(ctx context.Context, username string) (map[string]any, error) {
	user, err := a.lookupUser(ctx, username)
	if err != nil {
		return nil, err
	}

	var balance models.TokenBalance
	if err := a.store.ORM.WithContext(ctx).
		Where("user_id = ?", user.ID).
		Take(&balance).Error; err != nil {
		return nil, err
	}

	return map[string]any{
		"balance":  balance.Balance,
		"user_id":  user.ID,
		"username": username,
	}, nil
}

func (a *API) fetchAssets(ctx context.Context, username string) ([]assetView, error) {
	user, err := a.lookupUser(ctx, username)
	if err != nil {
		return nil, err
	}

	var rows []models.UserAsset
	if err := a.store.ORM.WithContext(ctx).
		Where("user_id = ? AND quantity > 0", user.ID).
		Order("updated_at DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	views := make([]assetView, 0, len(rows))
	for _, row := range rows {
		views = append(views, assetView{
			ID:           row.CollectibleID,
			Quantity:     row.Quantity,
			CurrentPrice: row.CurrentPrice,
			UserPrice:    row.UserPrice,
			UpdatedAt:    row.UpdatedAt,
		})
	}
	return views, nil
}

func (a *API) fetchReferrals(ctx context.Context, username string) ([]models.Referral, error) {
	user, err := a.lookupUser(ctx, username)
	if err != nil {
		return nil, err
	}

	referrals := []models.Referral{}
	err = a.store.ORM.WithContext(ctx).
		Where("referrer_id = ?", user.ID).
		Find(&referrals).Error
	return referrals, err
}

func (a *API) handleUserBalance(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	data, err := a.fetchBalance(r.Context(), username)
	if err != nil {
		var fallback map[string]any
		if exErr := a.external.GetJSON(r.Context(), "/api/user/balance/"+username, &fallback); exErr == nil {
			telemetry.ExternalFallbacks.WithLabelValues("balance").Inc()
			respondJSON(w, http.StatusOK, fallback)
			return
		}
		a.log.Error().Err(err).Str("username", username).Msg("balance lookup failed")
		respondError(w, http.StatusInternalServerError, errors.New("failed to fetch balance"))
		return
	}
	respondJSON(w, http.StatusOK, data)
}

func (a *API) handleUserAssets(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	assets, err := a.fetchAssets(r.Context(), username)
	if err != nil {
		fallback := []map[string]any{}
		if exErr := a.external.GetJSON(r.Context(), "/api/user/assets/"+username, &fallback); exErr == nil {
			telemetry.ExternalFallbacks.WithLabelValues("assets").Inc()
			respondJSON(w, http.StatusOK, fallback)
			return
		}
		a.log.Error().Err(err).Str("username", username).Msg("assets lookup failed")
		respondJSON(w, http.StatusInternalServerError, []any{})
		return
	}
	respondJSON(w, http.StatusOK, assets)
}

func (a *API) handleUserReferrals(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	referrals, err := a.fetchReferrals(r.Context(), username)
	if err != nil {
		fallback := []map[string]any{}
		if exErr := a.external.GetJSON(r.Context(), "/api/user/referrals/"+username, &fallback); exErr == nil {
			telemetry.ExternalFallbacks.WithLabelValues("referrals").Inc()
			respondJSON(w, http.StatusOK, fallback)
			return
		}
		a.log.Error().Err(err).Str("username", username).Msg("referrals lookup failed")
		respondJSON(w, http.StatusInternalServerError, []any{})
		return
	}
	respondJSON(w, http.StatusOK, referrals)
}

func (a *API) handleUserMovements(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	ctx := r.Context()

	user, err := a.lookupUser(ctx, username)
	if err == nil {
		var rows []models.Transaction
		err = a.store.ORM.WithContext(ctx).
			Where("user_id = ?", user.ID).
			Order("created_at DESC").
			Limit(50).
			Find(&rows).Error
		if err == nil {
			views := make([]movementView, 0, len(rows))
			for _, tx := range rows {
				views = append(views, movementView{
					ID:            tx.ID,
					CollectibleID: tx.CollectibleID,
					Type:          tx.TransactionType,
					Amount:        tx.Amount,
					Price:         tx.Price,
					Description:   tx.Description,
					Timestamp:     tx.CreatedAt,
					CreatedAt:     tx.CreatedAt,
				})
			}
			respondJSON(w, http.StatusOK, views)
			return
		}
	}

	fallback := []map[string]any{}
	if exErr := a.external.GetJSON(ctx, "/api/user/movements/"+username, &fallback); exErr == nil {
		telemetry.ExternalFallbacks.WithLabelValues("movements").Inc()
		respondJSON(w, http.StatusOK, fallback)
		return
	}
	a.log.Error().Err(err).Str("username", username).Msg("movements lookup failed")
	respondJSON(w, http.StatusInternalServerError, []any{})
}

func (a *API) handlePortfolioGains(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	ctx := r.Context()

	user, err := a.lookupUser(ctx, username)
	if err == nil {
		var rows []models.UserAsset
		err = a.store.ORM.WithContext(ctx).
			Where("user_id = ? AND quantity > 0", user.ID).
			Find(&rows).Error
		if err == nil {
			respondJSON(w, http.StatusOK, computeGains(rows))
			return
		}
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		a.log.Error().Err(err).Str("username", username).Msg("portfolio gains lookup failed")
	}

	var fallback map[string]any
	if exErr := a.external.GetJSON(ctx, "/api/user/portfolio-gains/"+username, &fallback); exErr == nil {
		telemetry.ExternalFallbacks.WithLabelValues("portfolio_gains").Inc()
		respondJSON(w, http.StatusOK, fallback)
		return
	}
	respondJSON(w, http.StatusInternalServerError, map[string]any{
		"total_gain": 0, "total_value": 0, "gain_percentage": 0, "assets": []any{},
	})
}

func computeGains(rows []models.UserAsset) map[string]any {
	assets := make([]map[string]any, 0, len(rows))
	var totalGain, totalValue float64

	for _, row := range rows {
		gainPerUnit := row.CurrentPrice - row.UserPrice
		assetGain := gainPerUnit * row.Quantity
		currentValue := row.CurrentPrice * row.Quantity

		totalGain += assetGain
		totalValue += currentValue

		assets = append(assets, map[string]any{
			"collectible_id": row.CollectibleID,
			"quantity":       row.Quantity,
			"user_price":     row.UserPrice,
			"current_price":  row.CurrentPrice,
			"gain_per_unit":  gainPerUnit,
			"total_gain":     assetGain,
			"current_value":  currentValue,
		})
	}

	gainPct := 0.0
	if totalValue > 0 {
		gainPct = totalGain / totalValue * 100
	}

	return map[string]any{
		"total_gain":      totalGain,
		"total_value":     totalValue,
		"gain_percentage": gainPct,
		"assets":          assets,
	}
}
