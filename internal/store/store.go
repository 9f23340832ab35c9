// Package store provides interfaces for store and product storage operations.
package store

import (
	"context"

	"github.com/abgdnv/storefront/internal/store/db"
)

// StoreStore is an interface for store storage operations.
type StoreStore interface {
	// FindStoreByID retrieves a single store by its identifier.
	// Returns ErrStoreNotFound if no store exists with the given ID.
	FindStoreByID(ctx context.Context, id int64) (*db.Store, error)

	// FindAllStores returns all stores ordered by ID.
	// Returns an empty slice if no stores exist.
	FindAllStores(ctx context.Context) ([]db.Store, error)

	// CreateStore adds a new store.
	// Returns ErrStoreNameTaken if the name is already used.
	CreateStore(ctx context.Context, name string) (*db.Store, error)

	// UpdateStoreName replaces the name of an existing store.
	// Returns ErrStoreNotFound or ErrStoreNameTaken.
	UpdateStoreName(ctx context.Context, id int64, name string) (*db.Store, error)

	// DeleteStore removes a store together with its products.
	// Returns ErrStoreNotFound if no store exists with the given ID.
	DeleteStore(ctx context.Context, id int64) error
}

// ProductStore is an interface for product storage operations.
type ProductStore interface {
	// FindProductByID retrieves a single product by its identifier.
	// Returns ErrProductNotFound if no product exists with the given ID.
	FindProductByID(ctx context.Context, id int64) (*db.Product, error)

	// FindAllProducts returns all products ordered by ID.
	FindAllProducts(ctx context.Context) ([]db.Product, error)

	// FindProductsByStoreID returns the products of one store.
	// Returns ErrStoreNotFound if the store does not exist.
	FindProductsByStoreID(ctx context.Context, storeID int64) ([]db.Product, error)

	// CreateProduct adds a new product.
	// Returns ErrStoreReference if the store does not exist.
	CreateProduct(ctx context.Context, params db.CreateProductParams) (*db.Product, error)

	// UpdateProduct replaces all fields of an existing product.
	// Returns ErrProductNotFound or ErrStoreReference.
	UpdateProduct(ctx context.Context, params db.UpdateProductParams) (*db.Product, error)

	// DeleteProduct removes a product by its ID.
	// Returns ErrProductNotFound if no product exists with the given ID.
	DeleteProduct(ctx context.Context, id int64) error

	// DeleteProductsByStoreID removes every product of a store and returns how many were deleted.
	// Returns ErrStoreNotFound if the store does not exist.
	DeleteProductsByStoreID(ctx context.Context, storeID int64) (int64, error)
}

// CatalogStore combines store and product storage.
type CatalogStore interface {
	StoreStore
	ProductStore
}
