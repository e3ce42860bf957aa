package gateway

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"vrnomarket/internal/authtoken"
)

type issueTokenRequest struct {
	Username   string `json:"username"`
	Purpose    string `json:"purpose"`
	TTLMinutes int    `json:"ttl_minutes"`
}

func (a *API) handleIssueToken(w http.ResponseWriter, r *http.Request) {
	var req issueTokenRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	req.Purpose = strings.TrimSpace(req.Purpose)
	if req.Username == "" || req.Purpose == "" {
		respondError(w, http.StatusBadRequest, errors.New("username and purpose are required"))
		return
	}

	ttl := a.config.TokenTTL
	if req.TTLMinutes > 0 {
		ttl = time.Duration(req.TTLMinutes) * time.Minute
	}

	token, err := a.tokens.Issue(r.Context(), req.Username, req.Purpose, ttl)
	if err != nil {
		a.log.Error().Err(err).Str("purpose", req.Purpose).Msg("token issuance failed")
		respondError(w, http.StatusServiceUnavailable, errors.New("request failed"))
		return
	}

	respondJSON(w, http.StatusCreated, map[string]any{
		"token":       token,
		"ttl_minutes": int(ttl.Minutes()),
	})
}

// consumeFor redeems the one-time token from the request against the given
// purpose and checks it was issued for the path's username. Every rejection
// looks identical to the caller so token state never leaks.
func (a *API) consumeFor(w http.ResponseWriter, r *http.Request, purpose string) bool {
	username := chi.URLParam(r, "username")
	token := strings.TrimSpace(r.Header.Get("X-Auth-Token"))
	if token == "" {
		respondError(w, http.StatusUnauthorized, errors.New("invalid token"))
		return false
	}

	subject, err := a.tokens.VerifyAndConsume(r.Context(), token, purpose)
	if err != nil {
		if errors.Is(err, authtoken.ErrStorageUnavailable) {
			a.log.Error().Err(err).Msg("token verification unavailable")
			respondError(w, http.StatusServiceUnavailable, errors.New("request failed"))
			return false
		}
		respondError(w, http.StatusUnauthorized, errors.New("invalid token"))
		return false
	}
	if subject != username {
		// valid token for someone else: consumed, but still rejected
		a.log.Warn().Str("purpose", purpose).Msg("token subject mismatch")
		respondError(w, http.StatusUnauthorized, errors.New("invalid token"))
		return false
	}
	return true
}

func (a *API) handleSecureBalance(w http.ResponseWriter, r *http.Request) {
	if !a.consumeFor(w, r, PurposeBalanceReveal) {
		return
	}
	a.handleUserBalance(w, r)
}

func (a *API) handleSecureAssets(w http.ResponseWriter, r *http.Request) {
	if !a.consumeFor(w, r, PurposeAssetsReveal) {
		return
	}
	a.handleUserAssets(w, r)
}

func (a *API) handleSecureReferrals(w http.ResponseWriter, r *http.Request) {
	if !a.consumeFor(w, r, PurposeReferralsReveal) {
		return
	}
	a.handleUserReferrals(w, r)
}
