// Package rest provides HTTP handlers for store and product operations.
package rest

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/abgdnv/storefront/internal/service"
	"github.com/abgdnv/storefront/pkg/web"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

// errTrailingData is returned when a request body holds more than one JSON value.
var errTrailingData = errors.New("unexpected data after JSON body")

// Permissions required by the catalog routes.
const (
	PermGetStore       = "get:store"
	PermGetStores      = "get:stores"
	PermPostStore      = "post:store"
	PermPatchStore     = "patch:store"
	PermDeleteStore    = "delete:store"
	PermGetProduct     = "get:product"
	PermGetProducts    = "get:products"
	PermPostProduct    = "post:product"
	PermPatchProduct   = "patch:product"
	PermDeleteProduct  = "delete:product"
	PermDeleteProducts = "delete:products"
)

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	stores   service.StoreService
	products service.ProductService
	authz    *web.Authorization
	db       Pinger
	validate *validator.Validate
	logger   *slog.Logger
}

// NewHandler creates a new Handler. Every catalog route is guarded by authz.
func NewHandler(stores service.StoreService, products service.ProductService, authz *web.Authorization, db Pinger, logger *slog.Logger) *Handler {
	validate := validator.New()
	// registration only fails for an empty tag or a nil func
	_ = validate.RegisterValidation("notblank", validators.NotBlank)
	return &Handler{
		stores:   stores,
		products: products,
		authz:    authz,
		db:       db,
		validate: validate,
		logger:   logger.With("component", "rest"),
	}
}

// RegisterRoutes registers the catalog and probe routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	require := h.authz.Require

	r.With(require(PermGetStores)).Get("/stores", h.FindAllStores)
	r.With(require(PermPostStore)).Post("/store", h.CreateStore)
	r.Route("/store/{id:[0-9]+}", func(r chi.Router) {
		r.With(require(PermGetStore)).Get("/", h.FindStoreByID)
		r.With(require(PermPatchStore)).Patch("/", h.UpdateStore)
		r.With(require(PermDeleteStore)).Delete("/", h.DeleteStore)
		r.With(require(PermGetProduct)).Get("/products", h.FindProductsByStoreID)
		r.With(require(PermDeleteProducts)).Delete("/products", h.DeleteProductsByStoreID)
	})

	r.With(require(PermGetProducts)).Get("/products", h.FindAllProducts)
	r.With(require(PermPostProduct)).Post("/product", h.CreateProduct)
	r.Route("/product/{id:[0-9]+}", func(r chi.Router) {
		r.With(require(PermGetProduct)).Get("/", h.FindProductByID)
		r.With(require(PermPatchProduct)).Patch("/", h.UpdateProduct)
		r.With(require(PermDeleteProduct)).Delete("/", h.DeleteProduct)
	})

	r.Get("/healthz", h.HealthCheck)
	r.Get("/readyz", h.ReadinessCheck)
}

// HealthCheck is a simple health check endpoint.
func (h *Handler) HealthCheck(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// ReadinessCheck reports whether the database can be reached.
func (h *Handler) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	if err := h.db.Ping(r.Context()); err != nil {
		h.logger.WarnContext(r.Context(), "Readiness check failed", "error", err)
		web.RespondFault(w, h.logger, http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// decodeAndValidate reads a single JSON value from the body into dst and validates it.
// On failure the 422 fault is written and false is returned.
func (h *Handler) decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := decodeSingle(r.Body, dst); err != nil {
		h.logger.WarnContext(r.Context(), "Error decoding request body", "error", err)
		web.RespondFault(w, h.logger, http.StatusUnprocessableEntity)
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			errorResponse := make(map[string]string)
			for _, fieldErr := range validationErrors {
				errorResponse[fieldErr.Field()] = "failed on rule: " + fieldErr.Tag()
			}
			h.logger.WarnContext(r.Context(), "Validation errors occurred", "errors", errorResponse)
		} else {
			h.logger.ErrorContext(r.Context(), "Error validating request body", "error", err)
		}
		web.RespondFault(w, h.logger, http.StatusUnprocessableEntity)
		return false
	}
	return true
}

func decodeSingle(body io.Reader, dst any) error {
	dec := json.NewDecoder(body)
	if err := dec.Decode(dst); err != nil {
		return err
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errTrailingData
	}
	return nil
}
