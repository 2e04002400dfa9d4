package handlers

import (
	"os"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/jwtauth"
	log "github.com/sirupsen/logrus"
)

func (h *Handler) SetRoutes(r *chi.Mux) {
	r.Route("/v1", func(r chi.Router) {

		// public routes here
		r.Get("/health", h.HealthHandler)

		// Secure routes
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(h.tokenAuth))
			r.Use(jwtauth.Authenticator)

			r.Route("/transactions", func(r chi.Router) {
				r.Get("/", h.ListTransactionsHandler)
				r.Post("/", h.CreateTransactionHandler)
				r.Get("/{id}", h.GetTransactionHandler)
				r.Put("/{id}", h.UpdateTransactionHandler)
			})

			r.Route("/bills", func(r chi.Router) {
				r.Get("/", h.ListBillsHandler)
				r.Post("/", h.CreateBillHandler)
				r.Post("/pay", h.BulkPayBillsHandler)
				r.Get("/{id}", h.GetBillHandler)
				r.Put("/{id}", h.UpdateBillHandler)
				r.Post("/{id}/pay", h.PayBillHandler)
			})

			r.Get("/dashboard", h.DashboardHandler)
			r.Get("/dashboard/daily", h.DailyHistoryHandler)
			r.Get("/analytics", h.AnalyticsHandler)

			r.Get("/settings", h.GetSettingsHandler)
			r.Put("/settings", h.UpdateSettingsHandler)
		})
	})
}

func (h *Handler) InitAuth() {
	var jwtKey = os.Getenv("JWT_SECRET_KEY")
	h.tokenAuth = jwtauth.New("HS256", []byte(jwtKey), nil)

	expirationTime := time.Now().Add(7 * 24 * time.Hour).Unix()

	_, tokenString, _ := h.tokenAuth.Encode(map[string]interface{}{
		"staff": "counter",
		"exp":   expirationTime,
	})

	// For debugging only, comment it out in production
	log.Infof("DEBUG: JWT for testing expires soon : %s", tokenString)
}
