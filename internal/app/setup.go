// Package app contains the application setup for the storefront service.
package app

import (
	"log/slog"
	"net/http"

	"github.com/abgdnv/storefront/internal/config"
	"github.com/abgdnv/storefront/internal/service"
	"github.com/abgdnv/storefront/internal/store"
	"github.com/abgdnv/storefront/internal/transport/rest"
	"github.com/abgdnv/storefront/pkg/messaging"
	"github.com/abgdnv/storefront/pkg/server"
	"github.com/abgdnv/storefront/pkg/web"
	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Dependencies holds everything the HTTP handler needs.
type Dependencies struct {
	StoreService   service.StoreService
	ProductService service.ProductService
	Authorizer     web.Authorizer
	DB             rest.Pinger
	Gatherer       prometheus.Gatherer
	Logger         *slog.Logger
}

// SetupDependencies wires the store, service and messaging layers together.
func SetupDependencies(dbPool *pgxpool.Pool, authorizer web.Authorizer, publisher messaging.Publisher, gatherer prometheus.Gatherer, logger *slog.Logger) *Dependencies {
	pgStore := store.NewPgStore(dbPool)
	svc := service.NewService(pgStore, publisher, logger)

	return &Dependencies{
		StoreService:   svc,
		ProductService: svc,
		Authorizer:     authorizer,
		DB:             pgStore,
		Gatherer:       gatherer,
		Logger:         logger,
	}
}

// SetupHttpHandler builds the router with all catalog, probe and metrics routes.
func SetupHttpHandler(deps *Dependencies) http.Handler {
	mux := server.NewChiRouter(deps.Logger)
	wireRoutes(mux, deps)
	return mux
}

// wireRoutes sets up the HTTP routes for the storefront application.
func wireRoutes(mux *chi.Mux, deps *Dependencies) {
	authz := web.NewAuthorization(deps.Authorizer, deps.Logger)
	handler := rest.NewHandler(deps.StoreService, deps.ProductService, authz, deps.DB, deps.Logger)
	handler.RegisterRoutes(mux)
	if deps.Gatherer != nil {
		mux.Handle("/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}
}

// SetupHttpServer creates and configures the HTTP server around handler.
func SetupHttpServer(handler http.Handler, cfg *config.Config, logger *slog.Logger) *http.Server {
	return server.NewHTTPServer(cfg.HTTPServer, handler, logger)
}
