package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	custommiddleware "github.com/mmeshcher/stellar-burgers/internal/middleware"
)

// SetupRouter настраивает HTTP-маршруты и middleware клиента.
func (h *Handler) SetupRouter() *chi.Mux {
	r := chi.NewRouter()

	r.Use(custommiddleware.GzipMiddleware)
	r.Use(custommiddleware.Logger(h.logger))

	r.Route("/api", func(r chi.Router) {
		r.Get("/state", h.State)

		r.Route("/ingredients", func(r chi.Router) {
			r.Get("/", h.GetIngredients)
			r.Post("/fetch", h.FetchIngredients)
			r.Get("/{id}", h.GetIngredient)
		})

		r.Route("/constructor", func(r chi.Router) {
			r.Get("/", h.GetConstructor)
			r.Delete("/", h.ClearConstructor)
			r.Post("/ingredients", h.AddIngredient)
			r.Delete("/ingredients/{placementID}", h.RemoveIngredient)
			r.Post("/ingredients/{index}/up", h.MoveIngredientUp)
			r.Post("/ingredients/{index}/down", h.MoveIngredientDown)
		})

		r.Route("/feed", func(r chi.Router) {
			r.Get("/", h.GetFeed)
			r.Post("/fetch", h.FetchFeed)
			r.With(h.authMiddleware.RequireAuthorized).Post("/profile/fetch", h.FetchProfileOrders)
		})

		r.Route("/orders", func(r chi.Router) {
			r.With(h.authMiddleware.RequireAuthorized).Post("/", h.SubmitOrder)
			r.Delete("/modal", h.CloseOrder)
			r.Get("/{number}", h.GetOrder)
		})

		r.Route("/auth", func(r chi.Router) {
			r.Post("/check", h.CheckSession)

			r.Group(func(r chi.Router) {
				r.Use(h.authMiddleware.RequireAnonymous)

				r.Post("/login", h.Login)
				r.Post("/register", h.Register)
				r.Post("/forgot-password", h.ForgotPassword)
				r.Post("/reset-password", h.ResetPassword)
			})

			r.Group(func(r chi.Router) {
				r.Use(h.authMiddleware.RequireAuthorized)

				r.Post("/logout", h.Logout)
				r.Get("/user", h.GetUser)
				r.Patch("/user", h.UpdateUser)
			})
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
	})

	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
	})

	return r
}
