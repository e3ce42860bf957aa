package gateway

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Routes constructs the chi router containing all gateway endpoints.
func (a *API) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	allowed := a.config.AllowedOrigins
	if len(allowed) == 0 {
		allowed = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowed,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "vrno-api-key", "x-api-key", "X-Auth-Token"},
		AllowCredentials: true,
		MaxAge:           int((10 * time.Minute).Seconds()),
	}))
	r.Use(httprate.Limit(a.config.RateLimit, time.Minute))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/readyz", a.handleReady)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", a.handleHealth)
		r.Get("/maintenance/status", a.handleMaintenanceStatus)

		r.Get("/collectibles", a.handleCollectibles)
		r.Get("/prices", a.handlePrices)
		r.Get("/images", a.handleImages)

		r.Get("/token/balance/{username}", a.handleUserBalance)
		r.Get("/token/assets/{username}", a.handleUserAssets)
		r.Get("/user/balance/{username}", a.handleUserBalance)
		r.Get("/user/assets/{username}", a.handleUserAssets)
		r.Get("/user/referrals/{username}", a.handleUserReferrals)
		r.Get("/user/movements/{username}", a.handleUserMovements)
		r.Get("/user/portfolio-gains/{username}", a.handlePortfolioGains)

		r.Get("/events", a.handleEvents)

		r.Route("/secure", func(r chi.Router) {
			r.Post("/token/balance/{username}", a.handleSecureBalance)
			r.Post("/token/assets/{username}", a.handleSecureAssets)
			r.Post("/referrals/{username}", a.handleSecureReferrals)
			r.Get("/collectible/{collectibleID}", a.handleSecureCollectible)
			r.Get("/price-history/{collectibleID}/{table}", a.handlePriceHistory)
			r.Get("/market-summary/{collectibleID}/{table}", a.handleMarketSummary)
		})

		r.Group(func(r chi.Router) {
			r.Use(a.requireAPIKey)
			r.Post("/auth/token", a.handleIssueToken)
		})
	})

	r.Route("/admin-data", func(r chi.Router) {
		r.Use(a.requireAPIKey)

		r.Get("/configs", a.handleListConfigs)
		r.Post("/configs", a.handleUpsertConfig)
		r.Put("/configs/{key}", a.handleUpdateConfig)
		r.Delete("/configs/{key}", a.handleDeleteConfig)

		r.Get("/token-packages", a.handleListTokenPackages)
		r.Post("/token-packages", a.handleCreateTokenPackage)
		r.Put("/token-packages/{id}", a.handleUpdateTokenPackage)
		r.Delete("/token-packages/{id}", a.handleDeleteTokenPackage)

		r.Get("/referral-codes", a.handleListReferralCodes)
		r.Post("/referral-codes", a.handleCreateReferralCode)
		r.Delete("/referral-codes/{id}", a.handleDeleteReferralCode)
	})

	return r
}
