package gateway

import (
	"crypto/subtle"
	"errors"
	"net/http"
)

// requireAPIKey gates admin and issuance routes behind the shared service
// key, accepted in either header the clients historically used.
func (a *API) requireAPIKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		provided := r.Header.Get("vrno-api-key")
		if provided == "" {
			provided = r.Header.Get("x-api-key")
		}

		if subtle.ConstantTimeCompare([]byte(provided), []byte(a.config.APIKey)) != 1 {
			a.log.Warn().Str("path", r.URL.Path).Msg("api key check failed")
			respondError(w, http.StatusUnauthorized, errors.New("unauthorized"))
			return
		}

		next.ServeHTTP(w, r)
	})
}
