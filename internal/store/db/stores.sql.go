package db

import (
	"context"
)

const createStore = `
INSERT INTO stores (store_name)
VALUES ($1)
RETURNING id, store_name, created_at
`

func (q *Queries) CreateStore(ctx context.Context, storeName string) (Store, error) {
	row := q.db.QueryRow(ctx, createStore, storeName)
	var i Store
	err := row.Scan(&i.ID, &i.StoreName, &i.CreatedAt)
	return i, err
}

const findStoreByID = `
SELECT id, store_name, created_at
FROM stores
WHERE id = $1
`

func (q *Queries) FindStoreByID(ctx context.Context, id int64) (Store, error) {
	row := q.db.QueryRow(ctx, findStoreByID, id)
	var i Store
	err := row.Scan(&i.ID, &i.StoreName, &i.CreatedAt)
	return i, err
}

const findAllStores = `
SELECT id, store_name, created_at
FROM stores
ORDER BY id
`

func (q *Queries) FindAllStores(ctx context.Context) ([]Store, error) {
	rows, err := q.db.Query(ctx, findAllStores)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []Store{}
	for rows.Next() {
		var i Store
		if err := rows.Scan(&i.ID, &i.StoreName, &i.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const updateStoreName = `
UPDATE stores
SET store_name = $2
WHERE id = $1
RETURNING id, store_name, created_at
`

type UpdateStoreNameParams struct {
	ID        int64
	StoreName string
}

func (q *Queries) UpdateStoreName(ctx context.Context, arg UpdateStoreNameParams) (Store, error) {
	row := q.db.QueryRow(ctx, updateStoreName, arg.ID, arg.StoreName)
	var i Store
	err := row.Scan(&i.ID, &i.StoreName, &i.CreatedAt)
	return i, err
}

const deleteStore = `
DELETE FROM stores
WHERE id = $1
`

func (q *Queries) DeleteStore(ctx context.Context, id int64) (int64, error) {
	result, err := q.db.Exec(ctx, deleteStore, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}
