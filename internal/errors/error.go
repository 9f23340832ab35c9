// Package errors provides the domain errors for store and product operations.
package errors

import "errors"

var (
	ErrStoreNotFound   = errors.New("store not found")
	ErrProductNotFound = errors.New("product not found")

	// ErrStoreNameTaken is returned when a store name violates the unique constraint.
	ErrStoreNameTaken = errors.New("store name already exists")
	// ErrStoreReference is returned when a product references a store that does not exist.
	ErrStoreReference = errors.New("referenced store does not exist")
	// ErrInvalidProduct is returned when product values violate a database check.
	ErrInvalidProduct = errors.New("invalid product values")
)
