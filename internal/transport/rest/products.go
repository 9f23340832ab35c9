package rest

import (
	"errors"
	"net/http"

	serrors "github.com/abgdnv/storefront/internal/errors"
	"github.com/abgdnv/storefront/internal/service"
	"github.com/abgdnv/storefront/pkg/web"
)

// FindProductByID retrieves a product by its ID.
func (h *Handler) FindProductByID(w http.ResponseWriter, r *http.Request) {
	id, ok := web.ParseID(w, r, h.logger)
	if !ok {
		return
	}
	h.logger.DebugContext(r.Context(), "Received request to find product by ID", "ID", id)
	found, err := h.products.FindProductByID(r.Context(), id)
	if err != nil {
		h.respondLookupError(w, r, err, "product", id)
		return
	}
	web.RespondOK(w, h.logger, "product", found)
}

// FindAllProducts lists every product. An empty catalog is reported as 404.
func (h *Handler) FindAllProducts(w http.ResponseWriter, r *http.Request) {
	h.logger.DebugContext(r.Context(), "Received request to find all products")
	list, err := h.products.FindAllProducts(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Error retrieving product list", "error", err)
		web.RespondFault(w, h.logger, http.StatusInternalServerError)
		return
	}
	if len(list) == 0 {
		h.logger.WarnContext(r.Context(), "No products found")
		web.RespondFault(w, h.logger, http.StatusNotFound)
		return
	}
	web.RespondOK(w, h.logger, "products", list)
}

// CreateProduct handles the creation of a new product.
func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var dto service.ProductWriteDto
	if !h.decodeAndValidate(w, r, &dto) {
		return
	}
	created, err := h.products.CreateProduct(r.Context(), dto)
	if err != nil {
		h.logger.WarnContext(r.Context(), "Error creating product", "storeID", dto.StoreID, "error", err)
		web.RespondFault(w, h.logger, http.StatusUnprocessableEntity)
		return
	}
	h.logger.InfoContext(r.Context(), "Product created successfully", "ID", created.ID, "Name", created.Name)
	web.RespondOK(w, h.logger, "product", created)
}

// UpdateProduct replaces every field of a product. A missing product is reported before the body is read.
func (h *Handler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := web.ParseID(w, r, h.logger)
	if !ok {
		return
	}
	h.logger.DebugContext(r.Context(), "Received request to update product", "ID", id)
	if _, err := h.products.FindProductByID(r.Context(), id); err != nil {
		h.respondLookupError(w, r, err, "product", id)
		return
	}
	var dto service.ProductWriteDto
	if !h.decodeAndValidate(w, r, &dto) {
		return
	}
	updated, err := h.products.UpdateProduct(r.Context(), id, dto)
	if err != nil {
		if errors.Is(err, serrors.ErrProductNotFound) {
			web.RespondFault(w, h.logger, http.StatusNotFound)
			return
		}
		h.logger.WarnContext(r.Context(), "Error updating product", "ID", id, "error", err)
		web.RespondFault(w, h.logger, http.StatusUnprocessableEntity)
		return
	}
	h.logger.InfoContext(r.Context(), "Product updated successfully", "ID", updated.ID, "Name", updated.Name)
	web.RespondOK(w, h.logger, "product", updated)
}

// DeleteProduct removes a product.
func (h *Handler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := web.ParseID(w, r, h.logger)
	if !ok {
		return
	}
	h.logger.DebugContext(r.Context(), "Received request to delete product", "ID", id)
	if err := h.products.DeleteProduct(r.Context(), id); err != nil {
		h.respondLookupError(w, r, err, "product", id)
		return
	}
	h.logger.InfoContext(r.Context(), "Product deleted successfully", "ID", id)
	web.RespondOK(w, h.logger, "deleted", id)
}
