package rest

import (
	"errors"
	"net/http"

	serrors "github.com/abgdnv/storefront/internal/errors"
	"github.com/abgdnv/storefront/internal/service"
	"github.com/abgdnv/storefront/pkg/web"
)

// FindStoreByID retrieves a store by its ID.
func (h *Handler) FindStoreByID(w http.ResponseWriter, r *http.Request) {
	id, ok := web.ParseID(w, r, h.logger)
	if !ok {
		return
	}
	h.logger.DebugContext(r.Context(), "Received request to find store by ID", "ID", id)
	found, err := h.stores.FindStoreByID(r.Context(), id)
	if err != nil {
		h.respondLookupError(w, r, err, "store", id)
		return
	}
	web.RespondOK(w, h.logger, "store", found)
}

// FindAllStores lists every store. An empty catalog is reported as 404.
func (h *Handler) FindAllStores(w http.ResponseWriter, r *http.Request) {
	h.logger.DebugContext(r.Context(), "Received request to find all stores")
	list, err := h.stores.FindAllStores(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Error retrieving store list", "error", err)
		web.RespondFault(w, h.logger, http.StatusInternalServerError)
		return
	}
	if len(list) == 0 {
		h.logger.WarnContext(r.Context(), "No stores found")
		web.RespondFault(w, h.logger, http.StatusNotFound)
		return
	}
	web.RespondOK(w, h.logger, "stores", list)
}

// CreateStore handles the creation of a new store.
func (h *Handler) CreateStore(w http.ResponseWriter, r *http.Request) {
	var dto service.StoreWriteDto
	if !h.decodeAndValidate(w, r, &dto) {
		return
	}
	created, err := h.stores.CreateStore(r.Context(), dto)
	if err != nil {
		h.logger.WarnContext(r.Context(), "Error creating store", "error", err)
		web.RespondFault(w, h.logger, http.StatusUnprocessableEntity)
		return
	}
	h.logger.InfoContext(r.Context(), "Store created successfully", "ID", created.ID, "Name", created.StoreName)
	web.RespondOK(w, h.logger, "store", created)
}

// UpdateStore replaces the name of a store. A missing store is reported before the body is read.
func (h *Handler) UpdateStore(w http.ResponseWriter, r *http.Request) {
	id, ok := web.ParseID(w, r, h.logger)
	if !ok {
		return
	}
	h.logger.DebugContext(r.Context(), "Received request to update store", "ID", id)
	if _, err := h.stores.FindStoreByID(r.Context(), id); err != nil {
		h.respondLookupError(w, r, err, "store", id)
		return
	}
	var dto service.StoreWriteDto
	if !h.decodeAndValidate(w, r, &dto) {
		return
	}
	updated, err := h.stores.UpdateStore(r.Context(), id, dto)
	if err != nil {
		if errors.Is(err, serrors.ErrStoreNotFound) {
			web.RespondFault(w, h.logger, http.StatusNotFound)
			return
		}
		h.logger.WarnContext(r.Context(), "Error updating store", "ID", id, "error", err)
		web.RespondFault(w, h.logger, http.StatusUnprocessableEntity)
		return
	}
	h.logger.InfoContext(r.Context(), "Store updated successfully", "ID", updated.ID, "Name", updated.StoreName)
	web.RespondOK(w, h.logger, "store", updated)
}

// DeleteStore removes a store and, through the cascade, its products.
func (h *Handler) DeleteStore(w http.ResponseWriter, r *http.Request) {
	id, ok := web.ParseID(w, r, h.logger)
	if !ok {
		return
	}
	h.logger.DebugContext(r.Context(), "Received request to delete store", "ID", id)
	if err := h.stores.DeleteStore(r.Context(), id); err != nil {
		h.respondLookupError(w, r, err, "store", id)
		return
	}
	h.logger.InfoContext(r.Context(), "Store deleted successfully", "ID", id)
	web.RespondOK(w, h.logger, "deleted", id)
}

// FindProductsByStoreID lists the products of one store; a store without products yields an empty list.
func (h *Handler) FindProductsByStoreID(w http.ResponseWriter, r *http.Request) {
	id, ok := web.ParseID(w, r, h.logger)
	if !ok {
		return
	}
	h.logger.DebugContext(r.Context(), "Received request to find products of store", "storeID", id)
	list, err := h.products.FindProductsByStoreID(r.Context(), id)
	if err != nil {
		h.respondLookupError(w, r, err, "store", id)
		return
	}
	web.RespondOK(w, h.logger, "products", list)
}

// DeleteProductsByStoreID removes every product of a store.
func (h *Handler) DeleteProductsByStoreID(w http.ResponseWriter, r *http.Request) {
	id, ok := web.ParseID(w, r, h.logger)
	if !ok {
		return
	}
	h.logger.DebugContext(r.Context(), "Received request to delete products of store", "storeID", id)
	deleted, err := h.products.DeleteProductsByStoreID(r.Context(), id)
	if err != nil {
		h.respondLookupError(w, r, err, "store", id)
		return
	}
	h.logger.InfoContext(r.Context(), "Store products deleted", "storeID", id, "count", deleted)
	web.RespondOK(w, h.logger, "deleted", id)
}

// respondLookupError writes 404 for missing rows and 500 for anything else.
func (h *Handler) respondLookupError(w http.ResponseWriter, r *http.Request, err error, entity string, id int64) {
	if errors.Is(err, serrors.ErrStoreNotFound) || errors.Is(err, serrors.ErrProductNotFound) {
		h.logger.WarnContext(r.Context(), "Resource not found", "entity", entity, "ID", id)
		web.RespondFault(w, h.logger, http.StatusNotFound)
		return
	}
	h.logger.ErrorContext(r.Context(), "Error accessing resource", "entity", entity, "ID", id, "error", err)
	web.RespondFault(w, h.logger, http.StatusInternalServerError)
}
