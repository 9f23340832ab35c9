package db

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
)

const productColumns = `id, name, quantity, price, store_id, created_at`

const createProduct = `
INSERT INTO products (name, quantity, price, store_id)
VALUES ($1, $2, $3, $4)
RETURNING ` + productColumns

type CreateProductParams struct {
	Name     string
	Quantity int32
	Price    float64
	StoreID  int64
}

func (q *Queries) CreateProduct(ctx context.Context, arg CreateProductParams) (Product, error) {
	row := q.db.QueryRow(ctx, createProduct, arg.Name, arg.Quantity, arg.Price, arg.StoreID)
	var i Product
	err := row.Scan(&i.ID, &i.Name, &i.Quantity, &i.Price, &i.StoreID, &i.CreatedAt)
	return i, err
}

const findProductByID = `
SELECT ` + productColumns + `
FROM products
WHERE id = $1
`

func (q *Queries) FindProductByID(ctx context.Context, id int64) (Product, error) {
	row := q.db.QueryRow(ctx, findProductByID, id)
	var i Product
	err := row.Scan(&i.ID, &i.Name, &i.Quantity, &i.Price, &i.StoreID, &i.CreatedAt)
	return i, err
}

const findAllProducts = `
SELECT ` + productColumns + `
FROM products
ORDER BY id
`

func (q *Queries) FindAllProducts(ctx context.Context) ([]Product, error) {
	return q.queryProducts(ctx, findAllProducts)
}

// findProductsByStoreID yields no rows when the store does not exist and a
// single row with NULL product columns when it exists without products.
const findProductsByStoreID = `
SELECT p.id, p.name, p.quantity, p.price, s.id, p.created_at
FROM stores s
LEFT JOIN products p ON p.store_id = s.id
WHERE s.id = $1
ORDER BY p.id
`

// FindProductsByStoreID returns the products of a store, or pgx.ErrNoRows if
// the store does not exist.
func (q *Queries) FindProductsByStoreID(ctx context.Context, storeID int64) ([]Product, error) {
	rows, err := q.db.Query(ctx, findProductsByStoreID, storeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	storeFound := false
	items := []Product{}
	for rows.Next() {
		storeFound = true
		var (
			id        *int64
			name      *string
			quantity  *int32
			price     *float64
			sid       int64
			createdAt *time.Time
		)
		if err := rows.Scan(&id, &name, &quantity, &price, &sid, &createdAt); err != nil {
			return nil, err
		}
		if id == nil {
			continue
		}
		items = append(items, Product{
			ID:        *id,
			Name:      *name,
			Quantity:  *quantity,
			Price:     *price,
			StoreID:   sid,
			CreatedAt: *createdAt,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if !storeFound {
		return nil, pgx.ErrNoRows
	}
	return items, nil
}

const updateProduct = `
UPDATE products
SET name     = $2,
    quantity = $3,
    price    = $4,
    store_id = $5
WHERE id = $1
RETURNING ` + productColumns

type UpdateProductParams struct {
	ID       int64
	Name     string
	Quantity int32
	Price    float64
	StoreID  int64
}

func (q *Queries) UpdateProduct(ctx context.Context, arg UpdateProductParams) (Product, error) {
	row := q.db.QueryRow(ctx, updateProduct, arg.ID, arg.Name, arg.Quantity, arg.Price, arg.StoreID)
	var i Product
	err := row.Scan(&i.ID, &i.Name, &i.Quantity, &i.Price, &i.StoreID, &i.CreatedAt)
	return i, err
}

const deleteProduct = `
DELETE FROM products
WHERE id = $1
`

func (q *Queries) DeleteProduct(ctx context.Context, id int64) (int64, error) {
	result, err := q.db.Exec(ctx, deleteProduct, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

// deleteProductsByStoreID deletes and counts in one statement. It yields no
// row when the store does not exist.
const deleteProductsByStoreID = `
WITH target AS (
    SELECT id FROM stores WHERE id = $1
), deleted AS (
    DELETE FROM products
    WHERE store_id IN (SELECT id FROM target)
    RETURNING id
)
SELECT (SELECT count(*) FROM deleted)
FROM target
`

// DeleteProductsByStoreID returns the number of deleted products, or
// pgx.ErrNoRows if the store does not exist.
func (q *Queries) DeleteProductsByStoreID(ctx context.Context, storeID int64) (int64, error) {
	var deleted int64
	err := q.db.QueryRow(ctx, deleteProductsByStoreID, storeID).Scan(&deleted)
	return deleted, err
}

func (q *Queries) queryProducts(ctx context.Context, sql string, args ...interface{}) ([]Product, error) {
	rows, err := q.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []Product{}
	for rows.Next() {
		var i Product
		if err := rows.Scan(&i.ID, &i.Name, &i.Quantity, &i.Price, &i.StoreID, &i.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
