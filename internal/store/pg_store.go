package store

import (
	"context"
	"errors"
	"fmt"

	serrors "github.com/abgdnv/storefront/internal/errors"
	"github.com/abgdnv/storefront/internal/store/db"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgreSQL error codes, see https://www.postgresql.org/docs/current/errcodes-appendix.html
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
)

// PgStore implements CatalogStore using PostgreSQL as the data store.
type PgStore struct {
	db *pgxpool.Pool
	q  *db.Queries
}

// NewPgStore creates a new instance of PgStore using a PostgreSQL connection pool.
func NewPgStore(dbp *pgxpool.Pool) *PgStore {
	return &PgStore{
		db: dbp,
		q:  db.New(dbp),
	}
}

// Ping checks that the database is reachable.
func (p *PgStore) Ping(ctx context.Context) error {
	return p.db.Ping(ctx)
}

func (p *PgStore) FindStoreByID(ctx context.Context, id int64) (*db.Store, error) {
	s, err := p.q.FindStoreByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, serrors.ErrStoreNotFound
		}
		return nil, fmt.Errorf("failed to find store by ID: %w", err)
	}
	return &s, nil
}

func (p *PgStore) FindAllStores(ctx context.Context) ([]db.Store, error) {
	stores, err := p.q.FindAllStores(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to find all stores: %w", err)
	}
	return stores, nil
}

func (p *PgStore) CreateStore(ctx context.Context, name string) (*db.Store, error) {
	s, err := p.q.CreateStore(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to create store: %w", mapWriteError(err))
	}
	return &s, nil
}

func (p *PgStore) UpdateStoreName(ctx context.Context, id int64, name string) (*db.Store, error) {
	s, err := p.q.UpdateStoreName(ctx, db.UpdateStoreNameParams{ID: id, StoreName: name})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, serrors.ErrStoreNotFound
		}
		return nil, fmt.Errorf("failed to update store: %w", mapWriteError(err))
	}
	return &s, nil
}

// DeleteStore removes a store. Its products are removed by the ON DELETE CASCADE foreign key.
func (p *PgStore) DeleteStore(ctx context.Context, id int64) error {
	count, err := p.q.DeleteStore(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete store by ID: %w", err)
	}
	if count == 0 {
		return serrors.ErrStoreNotFound
	}
	return nil
}

func (p *PgStore) FindProductByID(ctx context.Context, id int64) (*db.Product, error) {
	product, err := p.q.FindProductByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, serrors.ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product by ID: %w", err)
	}
	return &product, nil
}

func (p *PgStore) FindAllProducts(ctx context.Context) ([]db.Product, error) {
	products, err := p.q.FindAllProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to find all products: %w", err)
	}
	return products, nil
}

// FindProductsByStoreID returns the products of a store in one statement, so a
// concurrent store delete yields either the products or ErrStoreNotFound.
func (p *PgStore) FindProductsByStoreID(ctx context.Context, storeID int64) ([]db.Product, error) {
	products, err := p.q.FindProductsByStoreID(ctx, storeID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, serrors.ErrStoreNotFound
		}
		return nil, fmt.Errorf("failed to find products by store ID: %w", err)
	}
	return products, nil
}

func (p *PgStore) CreateProduct(ctx context.Context, params db.CreateProductParams) (*db.Product, error) {
	product, err := p.q.CreateProduct(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("failed to create product: %w", mapWriteError(err))
	}
	return &product, nil
}

func (p *PgStore) UpdateProduct(ctx context.Context, params db.UpdateProductParams) (*db.Product, error) {
	product, err := p.q.UpdateProduct(ctx, params)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, serrors.ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to update product: %w", mapWriteError(err))
	}
	return &product, nil
}

func (p *PgStore) DeleteProduct(ctx context.Context, id int64) error {
	count, err := p.q.DeleteProduct(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete product by ID: %w", err)
	}
	if count == 0 {
		return serrors.ErrProductNotFound
	}
	return nil
}

func (p *PgStore) DeleteProductsByStoreID(ctx context.Context, storeID int64) (int64, error) {
	deleted, err := p.q.DeleteProductsByStoreID(ctx, storeID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, serrors.ErrStoreNotFound
		}
		return 0, fmt.Errorf("failed to delete products by store ID: %w", err)
	}
	return deleted, nil
}

// mapWriteError translates constraint violations into domain errors.
func mapWriteError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case pgUniqueViolation:
		return serrors.ErrStoreNameTaken
	case pgForeignKeyViolation:
		return serrors.ErrStoreReference
	case pgCheckViolation:
		return serrors.ErrInvalidProduct
	default:
		return err
	}
}
