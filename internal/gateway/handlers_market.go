package gateway

import (
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"gorm.io/gorm"

	"vrnomarket/internal/db"
	"vrnomarket/internal/models"
	"vrnomarket/internal/telemetry"
)

// priceHistoryTable guards the dynamic table name taken from the URL. The
// upstream schema has one eBay price-history table per collectible; anything
// else in the path segment is rejected before it reaches SQL.
var priceHistoryTable = regexp.MustCompile(`^ebay_[a-z0-9_]+_price_history$`)

type priceHistoryRow struct {
	Timestamp            time.Time `db:"timestamp"`
	AvgPrice             float64   `db:"avg_price"`
	AvgPriceWithShipping float64   `db:"avg_price_with_shipping"`
	TotalListings        int64     `db:"total_listings"`
	PriceChange          float64   `db:"price_change"`
	PercentChange        float64   `db:"percent_change"`
}

func (a *API) handleCollectibles(w http.ResponseWriter, r *http.Request) {
	collectibles := []models.Collectible{}
	err := a.store.ORM.WithContext(r.Context()).Find(&collectibles).Error
	if err == nil && len(collectibles) > 0 {
		respondJSON(w, http.StatusOK, collectibles)
		return
	}

	fallback := []map[string]any{}
	if exErr := a.external.GetJSON(r.Context(), "/api/collectibles", &fallback); exErr == nil {
		telemetry.ExternalFallbacks.WithLabelValues("collectibles").Inc()
		respondJSON(w, http.StatusOK, fallback)
		return
	}
	if err != nil {
		a.log.Error().Err(err).Msg("collectibles lookup failed")
		respondJSON(w, http.StatusInternalServerError, []any{})
		return
	}
	respondJSON(w, http.StatusOK, collectibles)
}

func (a *API) handlePrices(w http.ResponseWriter, r *http.Request) {
	var collectibles []models.Collectible
	err := a.store.ORM.WithContext(r.Context()).
		Select("id", "current_price").
		Find(&collectibles).Error
	if err == nil && len(collectibles) > 0 {
		prices := make(map[string]any, len(collectibles))
		for _, c := range collectibles {
			prices[c.ID] = map[string]any{"current_price": c.CurrentPrice}
		}
		respondJSON(w, http.StatusOK, prices)
		return
	}

	fallback := map[string]any{}
	if exErr := a.external.GetJSON(r.Context(), "/api/prices", &fallback); exErr == nil {
		telemetry.ExternalFallbacks.WithLabelValues("prices").Inc()
		respondJSON(w, http.StatusOK, fallback)
		return
	}
	if err != nil {
		a.log.Error().Err(err).Msg("prices lookup failed")
	}
	respondJSON(w, http.StatusInternalServerError, map[string]any{})
}

func (a *API) handleImages(w http.ResponseWriter, r *http.Request) {
	var collectibles []models.Collectible
	err := a.store.ORM.WithContext(r.Context()).
		Select("id", "image_url").
		Find(&collectibles).Error
	if err == nil && len(collectibles) > 0 {
		images := make(map[string]any, len(collectibles))
		for _, c := range collectibles {
			images[c.ID] = map[string]any{"image_url": c.ImageURL}
		}
		respondJSON(w, http.StatusOK, images)
		return
	}

	fallback := map[string]any{}
	if exErr := a.external.GetJSON(r.Context(), "/api/images", &fallback); exErr == nil {
		telemetry.ExternalFallbacks.WithLabelValues("images").Inc()
		respondJSON(w, http.StatusOK, fallback)
		return
	}
	if err != nil {
		a.log.Error().Err(err).Msg("images lookup failed")
	}
	respondJSON(w, http.StatusInternalServerError, map[string]any{})
}

func (a *API) handleSecureCollectible(w http.ResponseWriter, r *http.Request) {
	collectibleID := chi.URLParam(r, "collectibleID")

	var fromAPI map[string]any
	if err := a.external.GetJSON(r.Context(), "/api/collectible/"+collectibleID, &fromAPI); err == nil {
		respondJSON(w, http.StatusOK, fromAPI)
		return
	}

	var collectible models.Collectible
	err := a.store.ORM.WithContext(r.Context()).
		Where("id = ?", collectibleID).
		Take(&collectible).Error
	switch {
	case err == nil:
		telemetry.ExternalFallbacks.WithLabelValues("collectible").Inc()
		respondJSON(w, http.StatusOK, collectible)
	case errors.Is(err, gorm.ErrRecordNotFound):
		respondError(w, http.StatusNotFound, errors.New("collectible not found"))
	default:
		a.log.Error().Err(err).Str("collectible_id", collectibleID).Msg("collectible lookup failed")
		respondError(w, http.StatusInternalServerError, errors.New("failed to fetch collectible"))
	}
}

func (a *API) handlePriceHistory(w http.ResponseWriter, r *http.Request) {
	collectibleID := chi.URLParam(r, "collectibleID")
	table := chi.URLParam(r, "table")

	if !priceHistoryTable.MatchString(table) {
		respondError(w, http.StatusBadRequest, errors.New("invalid price history table"))
		return
	}

	// external API first: it carries the authoritative eBay data
	external := []map[string]any{}
	if err := a.external.GetJSON(r.Context(), fmt.Sprintf("/api/price-history/%s/%s", collectibleID, table), &external); err == nil && len(external) > 0 {
		respondJSON(w, http.StatusOK, external)
		return
	}

	if a.store.DB == nil {
		respondJSON(w, http.StatusOK, []any{})
		return
	}

	var rows []priceHistoryRow
	query := fmt.Sprintf(`
        SELECT timestamp, avg_price, avg_price_with_shipping, total_listings, price_change, percent_change
        FROM %s
        ORDER BY timestamp DESC
        LIMIT 100
    `, table)
	if err := db.Select(r.Context(), a.store.DB, &rows, query); err != nil {
		a.log.Error().Err(err).Str("table", table).Msg("price history query failed")
		respondJSON(w, http.StatusOK, []any{})
		return
	}

	telemetry.ExternalFallbacks.WithLabelValues("price_history").Inc()
	points := make([]map[string]any, 0, len(rows))
	for _, row := range rows {
		points = append(points, map[string]any{
			"timestamp":               row.Timestamp,
			"created_at":              row.Timestamp,
			"price":                   row.AvgPriceWithShipping,
			"avg_price_with_shipping": row.AvgPriceWithShipping,
			"volume":                  row.TotalListings,
		})
	}
	respondJSON(w, http.StatusOK, points)
}

func (a *API) handleMarketSummary(w http.ResponseWriter, r *http.Request) {
	collectibleID := chi.URLParam(r, "collectibleID")
	table := chi.URLParam(r, "table")

	if !priceHistoryTable.MatchString(table) {
		respondError(w, http.StatusBadRequest, errors.New("invalid market summary table"))
		return
	}

	var external map[string]any
	if err := a.external.GetJSON(r.Context(), fmt.Sprintf("/api/market-summary/%s/%s", collectibleID, table), &external); err == nil && len(external) > 0 {
		respondJSON(w, http.StatusOK, external)
		return
	}

	if a.store.DB == nil {
		respondError(w, http.StatusNotFound, errors.New("no market summary data found"))
		return
	}

	summaryTable := strings.Replace(table, "_price_history", "_market_summary", 1)
	var row priceHistoryRow
	query := fmt.Sprintf(`
        SELECT timestamp, avg_price, avg_price_with_shipping, total_listings, price_change, percent_change
        FROM %s
        ORDER BY timestamp DESC
        LIMIT 1
    `, summaryTable)
	if err := db.Get(r.Context(), a.store.DB, &row, query); err != nil {
		a.log.Error().Err(err).Str("table", summaryTable).Msg("market summary query failed")
		respondError(w, http.StatusNotFound, errors.New("no market summary data found"))
		return
	}

	telemetry.ExternalFallbacks.WithLabelValues("market_summary").Inc()
	respondJSON(w, http.StatusOK, map[string]any{
		"timestamp":               row.Timestamp,
		"created_at":              row.Timestamp,
		"avg_price_with_shipping": row.AvgPriceWithShipping,
		"current_price":           row.AvgPriceWithShipping,
		"24h_change":              row.PercentChange,
		"24h_volume":              row.TotalListings,
		"price_change":            row.PriceChange,
		"last_updated":            row.Timestamp,
	})
}
