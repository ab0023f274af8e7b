package app

import (
	"net/http"

	"github.com/centsible/centsible/internal/config"
	"github.com/gorilla/mux"
)

// RegisterRoutes registers all API endpoints. Protected routes go through the
// access gate; auth routes are open by definition.
func RegisterRoutes(r *mux.Router, deps *Dependencies, cfg config.Application) {

	// Health
	r.HandleFunc("/api/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}).Methods("GET")

	// Auth
	r.HandleFunc("/api/auth/signup", deps.AuthHandler.Signup).Methods("POST")
	r.HandleFunc("/api/auth/login", deps.AuthHandler.Login).Methods("POST")
	r.HandleFunc("/api/auth/check-email", deps.AuthHandler.CheckEmail).Methods("POST")
	r.Handle("/api/auth/me", deps.AuthMiddleware.RequireAuth(http.HandlerFunc(deps.AuthHandler.Me))).Methods("GET")

	// Budget
	r.Handle("/api/budget/current", deps.AuthMiddleware.RequireAuth(http.HandlerFunc(deps.BudgetHandler.GetCurrent))).Methods("GET")
	r.Handle("/api/budget/setup", deps.AuthMiddleware.RequireAuth(http.HandlerFunc(deps.BudgetHandler.Setup))).Methods("POST")
}
