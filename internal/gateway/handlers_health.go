package gateway

import (
	"errors"
	"net/http"
	"time"

	"gorm.io/gorm"

	"vrnomarket/internal/models"
	"vrnomarket/internal/version"
)

func (a *API) handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"service":   version.Name,
		"version":   version.Version,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (a *API) handleReady(w http.ResponseWriter, r *http.Request) {
	sqlDB, err := a.store.ORM.DB()
	if err == nil {
		err = sqlDB.PingContext(r.Context())
	}
	if err != nil {
		respondError(w, http.StatusServiceUnavailable, errors.New("database unavailable"))
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

func (a *API) handleMaintenanceStatus(w http.ResponseWriter, r *http.Request) {
	var cfg models.AdminConfig
	err := a.store.ORM.WithContext(r.Context()).
		Where("config_key = ?", "maintenance_mode").
		Take(&cfg).Error

	maintenance := false
	switch {
	case err == nil:
		maintenance = cfg.ConfigValue == "true"
	case errors.Is(err, gorm.ErrRecordNotFound):
		// absent key means maintenance is off
	default:
		a.log.Error().Err(err).Msg("maintenance status lookup failed")
		respondJSON(w, http.StatusInternalServerError, map[string]any{
			"maintenance_mode": false,
			"timestamp":        time.Now().UTC().Format(time.RFC3339),
		})
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"maintenance_mode": maintenance,
		"timestamp":        time.Now().UTC().Format(time.RFC3339),
	})
}
