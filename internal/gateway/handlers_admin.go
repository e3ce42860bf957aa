package gateway

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"vrnomarket/internal/models"
)

func (a *API) handleListConfigs(w http.ResponseWriter, r *http.Request) {
	configs := []models.AdminConfig{}
	if err := a.store.ORM.WithContext(r.Context()).
		Order("id").
		Find(&configs).Error; err != nil {
		a.log.Error().Err(err).Msg("admin configs lookup failed")
		respondJSON(w, http.StatusInternalServerError, []any{})
		return
	}
	respondJSON(w, http.StatusOK, configs)
}

func (a *API) handleUpsertConfig(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ConfigKey   string `json:"config_key"`
		ConfigValue string `json:"config_value"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	req.ConfigKey = strings.TrimSpace(req.ConfigKey)
	if req.ConfigKey == "" {
		respondError(w, http.StatusBadRequest, errors.New("config_key is required"))
		return
	}

	cfg := models.AdminConfig{ConfigKey: req.ConfigKey, ConfigValue: req.ConfigValue}
	if err := a.store.ORM.WithContext(r.Context()).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "config_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"config_value", "updated_at"}),
		}).
		Create(&cfg).Error; err != nil {
		a.log.Error().Err(err).Str("config_key", req.ConfigKey).Msg("config upsert failed")
		respondError(w, http.StatusInternalServerError, errors.New("failed to save config"))
		return
	}

	a.publishEvent("admin.config", map[string]any{
		"config_key":   cfg.ConfigKey,
		"config_value": cfg.ConfigValue,
	})
	respondJSON(w, http.StatusOK, cfg)
}

func (a *API) handleUpdateConfig(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	var req struct {
		ConfigValue string `json:"config_value"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	res := a.store.ORM.WithContext(r.Context()).
		Model(&models.AdminConfig{}).
		Where("config_key = ?", key).
		Update("config_value", req.ConfigValue)
	if res.Error != nil {
		a.log.Error().Err(res.Error).Str("config_key", key).Msg("config update failed")
		respondError(w, http.StatusInternalServerError, errors.New("failed to save config"))
		return
	}
	if res.RowsAffected == 0 {
		respondError(w, http.StatusNotFound, errors.New("config not found"))
		return
	}

	a.publishEvent("admin.config", map[string]any{
		"config_key":   key,
		"config_value": req.ConfigValue,
	})
	respondJSON(w, http.StatusOK, map[string]any{"config_key": key, "config_value": req.ConfigValue})
}

func (a *API) handleDeleteConfig(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	res := a.store.ORM.WithContext(r.Context()).
		Where("config_key = ?", key).
		Delete(&models.AdminConfig{})
	if res.Error != nil {
		a.log.Error().Err(res.Error).Str("config_key", key).Msg("config delete failed")
		respondError(w, http.StatusInternalServerError, errors.New("failed to delete config"))
		return
	}
	if res.RowsAffected == 0 {
		respondError(w, http.StatusNotFound, errors.New("config not found"))
		return
	}

	a.publishEvent("admin.config", map[string]any{"config_key": key, "deleted": true})
	respondJSON(w, http.StatusOK, map[string]any{"deleted": key})
}

func (a *API) handleListTokenPackages(w http.ResponseWriter, r *http.Request) {
	packages := []models.TokenPackage{}
	if err := a.store.ORM.WithContext(r.Context()).
		Order("sort_order").
		Find(&packages).Error; err != nil {
		a.log.Error().Err(err).Msg("token packages lookup failed")
		respondJSON(w, http.StatusInternalServerError, []any{})
		return
	}
	respondJSON(w, http.StatusOK, packages)
}

func (a *API) handleCreateTokenPackage(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name       string `json:"name"`
		Tokens     int64  `json:"tokens"`
		PriceCents int64  `json:"price_cents"`
		SortOrder  int    `json:"sort_order"`
		Active     *bool  `json:"active"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" || req.Tokens <= 0 || req.PriceCents <= 0 {
		respondError(w, http.StatusBadRequest, errors.New("name, tokens and price_cents are required"))
		return
	}

	pkg := models.TokenPackage{
		ID:         uuid.New(),
		Name:       req.Name,
		Tokens:     req.Tokens,
		PriceCents: req.PriceCents,
		SortOrder:  req.SortOrder,
		Active:     true,
	}
	if req.Active != nil {
		pkg.Active = *req.Active
	}

	if err := a.store.ORM.WithContext(r.Context()).Create(&pkg).Error; err != nil {
		a.log.Error().Err(err).Str("name", req.Name).Msg("token package create failed")
		respondError(w, http.StatusInternalServerError, errors.New("failed to create token package"))
		return
	}

	a.publishEvent("admin.token_package", map[string]any{"id": pkg.ID, "name": pkg.Name})
	respondJSON(w, http.StatusCreated, pkg)
}

func (a *API) handleUpdateTokenPackage(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, errors.New("valid id is required"))
		return
	}

	var req struct {
		Name       *string `json:"name"`
		Tokens     *int64  `json:"tokens"`
		PriceCents *int64  `json:"price_cents"`
		SortOrder  *int    `json:"sort_order"`
		Active     *bool   `json:"active"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	updates := map[string]any{}
	if req.Name != nil {
		updates["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Tokens != nil {
		updates["tokens"] = *req.Tokens
	}
	if req.PriceCents != nil {
		updates["price_cents"] = *req.PriceCents
	}
	if req.SortOrder != nil {
		updates["sort_order"] = *req.SortOrder
	}
	if req.Active != nil {
		updates["active"] = *req.Active
	}
	if len(updates) == 0 {
		respondError(w, http.StatusBadRequest, errors.New("no fields to update"))
		return
	}

	res := a.store.ORM.WithContext(r.Context()).
		Model(&models.TokenPackage{}).
		Where("id = ?", id).
		Updates(updates)
	if res.Error != nil {
		a.log.Error().Err(res.Error).Str("id", id.String()).Msg("token package update failed")
		respondError(w, http.StatusInternalServerError, errors.New("failed to update token package"))
		return
	}
	if res.RowsAffected == 0 {
		respondError(w, http.StatusNotFound, errors.New("token package not found"))
		return
	}

	a.publishEvent("admin.token_package", map[string]any{"id": id})
	respondJSON(w, http.StatusOK, map[string]any{"id": id})
}

func (a *API) handleDeleteTokenPackage(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, errors.New("valid id is required"))
		return
	}

	res := a.store.ORM.WithContext(r.Context()).
		Where("id = ?", id).
		Delete(&models.TokenPackage{})
	if res.Error != nil {
		a.log.Error().Err(res.Error).Str("id", id.String()).Msg("token package delete failed")
		respondError(w, http.StatusInternalServerError, errors.New("failed to delete token package"))
		return
	}
	if res.RowsAffected == 0 {
		respondError(w, http.StatusNotFound, errors.New("token package not found"))
		return
	}

	a.publishEvent("admin.token_package", map[string]any{"id": id, "deleted": true})
	respondJSON(w, http.StatusOK, map[string]any{"deleted": id})
}

func (a *API) handleListReferralCodes(w http.ResponseWriter, r *http.Request) {
	codes := []models.ReferralCode{}
	if err := a.store.ORM.WithContext(r.Context()).
		Order("created_at DESC").
		Find(&codes).Error; err != nil {
		a.log.Error().Err(err).Msg("referral codes lookup failed")
		respondJSON(w, http.StatusInternalServerError, []any{})
		return
	}
	respondJSON(w, http.StatusOK, codes)
}

func (a *API) handleCreateReferralCode(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Code         string    `json:"code"`
		OwnerID      uuid.UUID `json:"owner_id"`
		RewardTokens int64     `json:"reward_tokens"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	req.Code = strings.TrimSpace(req.Code)
	if req.Code == "" || req.OwnerID == uuid.Nil {
		respondError(w, http.StatusBadRequest, errors.New("code and owner_id are required"))
		return
	}

	code := models.ReferralCode{
		ID:           uuid.New(),
		Code:         req.Code,
		OwnerID:      req.OwnerID,
		RewardTokens: req.RewardTokens,
		Active:       true,
	}
	if err := a.store.ORM.WithContext(r.Context()).Create(&code).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			respondError(w, http.StatusConflict, errors.New("code already exists"))
			return
		}
		a.log.Error().Err(err).Str("code", req.Code).Msg("referral code create failed")
		respondError(w, http.StatusInternalServerError, errors.New("failed to create referral code"))
		return
	}

	a.publishEvent("admin.referral_code", map[string]any{"id": code.ID, "code": code.Code})
	respondJSON(w, http.StatusCreated, code)
}

func (a *API) handleDeleteReferralCode(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, errors.New("valid id is required"))
		return
	}

	res := a.store.ORM.WithContext(r.Context()).
		Where("id = ?", id).
		Delete(&models.ReferralCode{})
	if res.Error != nil {
		a.log.Error().Err(res.Error).Str("id", id.String()).Msg("referral code delete failed")
		respondError(w, http.StatusInternalServerError, errors.New("failed to delete referral code"))
		return
	}
	if res.RowsAffected == 0 {
		respondError(w, http.StatusNotFound, errors.New("referral code not found"))
		return
	}

	a.publishEvent("admin.referral_code", map[string]any{"id": id, "deleted": true})
	respondJSON(w, http.StatusOK, map[string]any{"deleted": id})
}
