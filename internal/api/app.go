// Package api serves the customer, staff and admin views over HTTP. Each
// view reads from its own store.Store; all of them share one origin.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"FoodExpress/internal/checkout"
	"FoodExpress/internal/store"
	"FoodExpress/pkg/kit"
)

const readyTimeout = 1 * time.Second

// Views holds one store per role surface.
type Views struct {
	Customer *store.Store
	Staff    *store.Store
	Admin    *store.Store
}

type Deps struct {
	Views    Views
	Carts    *checkout.CartStore
	Checkout *checkout.Service
	Hub      *Hub
	Location *time.Location

	CheckoutLimitPerMin int
}

type HTTPDeps struct {
	Log      *zap.Logger
	Service  string
	Registry *prometheus.Registry

	MetricsEnabled bool
	MetricsToken   string
}

type Server struct {
	customer *store.Store
	staff    *store.Store
	admin    *store.Store

	carts    *checkout.CartStore
	checkout *checkout.Service
	loc      *time.Location
	log      *zap.Logger
}

func NewHandler(deps Deps, httpDeps HTTPDeps) http.Handler {
	if httpDeps.Log == nil {
		httpDeps.Log = zap.NewNop()
	}
	loc := deps.Location
	if loc == nil {
		loc = time.UTC
	}

	s := &Server{
		customer: deps.Views.Customer,
		staff:    deps.Views.Staff,
		admin:    deps.Views.Admin,
		carts:    deps.Carts,
		checkout: deps.Checkout,
		loc:      loc,
		log:      httpDeps.Log,
	}

	r := chi.NewRouter()
	setupMiddleware(r, httpDeps)
	setupMetrics(r, httpDeps)

	r.Get("/healthz", healthz)
	r.Get("/readyz", s.readyz)
	if deps.Hub != nil {
		r.Get("/ws", deps.Hub.ServeWS)
	}

	limit := deps.CheckoutLimitPerMin
	if limit < 1 {
		limit = 10
	}
	limiter := kit.NewIPRateLimiter(limit, time.Minute)

	// customer
	r.Get("/menu", s.menu)
	r.Get("/categories", s.categories)
	r.Get("/config", s.publicConfig)
	r.Get("/orders/lookup/{suffix}", s.lookupOrder)
	r.Route("/carts", func(cr chi.Router) {
		cr.Post("/", s.createCart)
		cr.Get("/{id}", s.getCart)
		cr.Post("/{id}/items", s.addCartItem)
		cr.Delete("/{id}/items/{lineID}", s.removeCartItem)
		cr.With(limiter.Middleware).Post("/{id}/checkout", s.checkoutCart)
	})

	// staff
	r.Get("/kitchen/orders", s.kitchenOrders)
	r.Post("/kitchen/orders/{id}/advance", s.advanceOrder)
	r.Post("/kitchen/orders/{id}/cancel", s.cancelOrder)
	r.Get("/orders/{id}/receipt", s.printReceipt)

	r.Route("/admin", func(ar chi.Router) {
		ar.Get("/products", s.listProducts)
		ar.Post("/products", s.createProduct)
		ar.Put("/products/{id}", s.updateProduct)
		ar.Delete("/products/{id}", s.deleteProduct)

		ar.Get("/categories", s.listCategories)
		ar.Post("/categories", s.createCategory)
		ar.Put("/categories/{id}", s.updateCategory)
		ar.Delete("/categories/{id}", s.deleteCategory)

		ar.Get("/config", s.adminConfig)
		ar.Put("/config", s.updateConfig)

		ar.Get("/orders", s.adminOrders)
		ar.Put("/orders/{id}", s.editOrder)
		ar.Put("/orders/{id}/status", s.setOrderStatus)

		ar.Get("/stats", s.dashboard)
	})

	return r
}

func setupMiddleware(r *chi.Mux, deps HTTPDeps) {
	r.Use(chimw.RequestID)
	r.Use(kit.Recoverer(deps.Log))
	r.Use(kit.Logging(deps.Log))
}

func setupMetrics(r *chi.Mux, deps HTTPDeps) {
	if deps.Registry == nil {
		return
	}

	metrics := kit.NewMetrics(deps.Registry)
	r.Use(metrics.Middleware(deps.Service, kit.ChiRoutePatternOrPath))

	if !deps.MetricsEnabled {
		return
	}

	r.With(kit.MetricsAuth(deps.MetricsToken)).
		Handle("/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
}

func healthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func (s *Server) readyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
	defer cancel()

	if err := s.customer.Ping(ctx); err != nil {
		s.log.Warn("readyz failed", zap.Error(err))
		kit.WriteError(w, r, http.StatusServiceUnavailable, "not ready", nil)
		return
	}
	w.WriteHeader(http.StatusOK)
}
