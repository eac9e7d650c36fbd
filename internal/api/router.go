package api

import (
	"net/http"
	"time"

	"github.com/example/pagdiwala/internal/api/middleware"
	"github.com/example/pagdiwala/internal/auth"
	"github.com/example/pagdiwala/internal/model"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

const requestTimeout = 15 * time.Second

// RouterConfig holds all dependencies for the router
type RouterConfig struct {
	Handlers     *Handlers
	AuthHandlers *AuthHandlers
	JWTService   *auth.JWTService
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(requestTimeout))
	r.Use(middleware.Authenticate(cfg.JWTService))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/auth", func(r chi.Router) {
		r.Post("/signup", cfg.AuthHandlers.SignUp)
		r.Post("/signin", cfg.AuthHandlers.SignIn)
		r.Post("/signout", cfg.AuthHandlers.SignOut)
		r.With(middleware.RequireSession).Get("/me", cfg.AuthHandlers.Me)
		r.With(middleware.RequireSession).Put("/me", cfg.AuthHandlers.UpdateMe)
	})

	r.Route("/products", func(r chi.Router) {
		r.Get("/", cfg.Handlers.GetProducts)
		r.Get("/{id}", cfg.Handlers.GetProduct)
		r.With(middleware.RequireRole(model.RoleAdmin)).Put("/{id}", cfg.Handlers.UpdateProduct)
	})

	r.Route("/cart", func(r chi.Router) {
		r.Use(middleware.RequireSession)
		r.Get("/", cfg.Handlers.GetCart)
		r.Put("/", cfg.Handlers.SyncCart)
	})

	r.Route("/orders", func(r chi.Router) {
		r.Use(middleware.RequireSession)
		r.Get("/", cfg.Handlers.GetOrders)
		r.Post("/", cfg.Handlers.PlaceOrder)
		r.Get("/{id}", cfg.Handlers.GetOrder)
	})

	r.Route("/admin", func(r chi.Router) {
		r.Use(middleware.RequireRole(model.RoleAdmin))
		r.Get("/orders", cfg.Handlers.GetAllOrders)
		r.Patch("/orders/{id}/status", cfg.Handlers.UpdateOrderStatus)
	})

	return r
}
