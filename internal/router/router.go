// Package router sets up all HTTP routes and middleware chains for the
// Cheko API. It organizes routes into public and staff groups with
// appropriate middleware stacks.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"cheko/internal/handlers"
	"cheko/internal/middleware"
	"cheko/internal/session"
)

// New creates and returns the configured Chi router with all middleware
// and route groups wired up. orderLimiter throttles the anonymous
// order-recording endpoint; loginLimiter throttles credential guessing.
func New(
	sessionStore *session.Store,
	menu *handlers.Menu,
	maps *handlers.Map,
	auth *handlers.Auth,
	orderLimiter, loginLimiter *middleware.RateLimiter,
) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)
	r.Use(middleware.CORS)
	r.Use(middleware.LoadSession(sessionStore))

	// Health check.
	r.Get("/health", healthHandler)

	// Authentication.
	r.Route("/api/auth", func(r chi.Router) {
		r.With(loginLimiter.Middleware).Post("/login", auth.Login)
		r.Post("/logout", auth.Logout)

		// 2FA requires a session but NOT completed verification.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Post("/2fa/setup", auth.TwoFASetup)
			r.Post("/2fa/verify", auth.TwoFAVerify)
		})

		r.With(middleware.RequireAuth, middleware.Require2FA).Get("/me", auth.Me)
	})

	// Public menu reads.
	r.Route("/api/menu", func(r chi.Router) {
		r.Get("/items", menu.ListItems)
		r.Get("/items/search", menu.SearchItems)
		r.Get("/items/calories", menu.ItemsByCalories)
		r.Get("/items/{id}", menu.GetItem)
		r.Get("/best-sellers", menu.BestSellers)
		r.Get("/calorie-ranking", menu.CalorieRanking)
		r.Get("/calorie-ranking-counts", menu.QualifyingCounts)
		r.Get("/calorie-ranking/{category}", menu.CalorieRankingForCategory)
		r.Get("/categories", menu.Categories)
		r.Get("/categories/counts", menu.CategoryCounts)

		// Order recording is public (the POS calls it) but throttled.
		r.With(orderLimiter.Middleware).Post("/items/{id}/order", menu.RecordOrder)

		// Staff-only menu management.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Use(middleware.Require2FA)

			r.Post("/items", menu.CreateItem)
			r.Put("/items/{id}", menu.UpdateItem)
			r.Delete("/items/{id}", menu.DeleteItem)
			r.Post("/items/{id}/image", menu.UploadItemImage)

			r.Post("/categories", menu.CreateCategory)
			r.Put("/categories/{id}", menu.UpdateCategory)
			r.Delete("/categories/{id}", menu.DeleteCategory)

			r.With(middleware.RequireAdmin).
				Post("/best-sellers/recalculate", menu.RecalculateBestSellers)
		})
	})

	// Public map reads.
	r.Route("/api/map", func(r chi.Router) {
		r.Get("/markers", maps.Markers)
		r.Get("/markers/search", maps.SearchMarkers)
		r.Get("/markers/filter", maps.FilterMarkers)
		r.Get("/nearby", maps.Nearby)
		r.Get("/cities", maps.Cities)
		r.Get("/states", maps.States)
		r.Get("/branches", maps.Branches)
		r.Get("/branches/{id}", maps.GetBranch)

		// Staff-only branch management, admins only.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Use(middleware.Require2FA)
			r.Use(middleware.RequireAdmin)

			r.Post("/branches", maps.CreateBranch)
			r.Put("/branches/{id}", maps.UpdateBranch)
			r.Delete("/branches/{id}", maps.DeleteBranch)
			r.Put("/branches/{id}/location", maps.SetLocation)
		})
	})

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
