package db

import "time"

type Store struct {
	ID        int64
	StoreName string
	CreatedAt time.Time
}

type Product struct {
	ID        int64
	Name      string
	Quantity  int32
	Price     float64
	StoreID   int64
	CreatedAt time.Time
}
