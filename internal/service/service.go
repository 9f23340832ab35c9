// Package service provides the store and product business logic.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/abgdnv/storefront/internal/store"
	"github.com/abgdnv/storefront/internal/store/db"
	"github.com/abgdnv/storefront/pkg/messaging"
	"github.com/abgdnv/storefront/pkg/messaging/events"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
)

// StoreService defines the methods for managing stores.
type StoreService interface {
	// FindStoreByID retrieves a single store.
	// Returns ErrStoreNotFound if no store exists with the given ID.
	FindStoreByID(ctx context.Context, id int64) (*StoreDto, error)

	// FindAllStores returns all stores. Returns an empty slice if none exist.
	FindAllStores(ctx context.Context) ([]StoreDto, error)

	// CreateStore adds a new store.
	CreateStore(ctx context.Context, store StoreWriteDto) (*StoreDto, error)

	// UpdateStore replaces the name of an existing store.
	UpdateStore(ctx context.Context, id int64, store StoreWriteDto) (*StoreDto, error)

	// DeleteStore removes a store and its products.
	DeleteStore(ctx context.Context, id int64) error
}

// ProductService defines the methods for managing products.
type ProductService interface {
	// FindProductByID retrieves a single product.
	// Returns ErrProductNotFound if no product exists with the given ID.
	FindProductByID(ctx context.Context, id int64) (*ProductDto, error)

	// FindAllProducts returns all products. Returns an empty slice if none exist.
	FindAllProducts(ctx context.Context) ([]ProductDto, error)

	// FindProductsByStoreID returns the products of one store.
	// Returns ErrStoreNotFound if the store does not exist.
	FindProductsByStoreID(ctx context.Context, storeID int64) ([]ProductDto, error)

	// CreateProduct adds a new product.
	CreateProduct(ctx context.Context, product ProductWriteDto) (*ProductDto, error)

	// UpdateProduct replaces all fields of an existing product.
	UpdateProduct(ctx context.Context, id int64, product ProductWriteDto) (*ProductDto, error)

	// DeleteProduct removes a product.
	DeleteProduct(ctx context.Context, id int64) error

	// DeleteProductsByStoreID removes every product of a store and returns the count.
	DeleteProductsByStoreID(ctx context.Context, storeID int64) (int64, error)
}

// Service implements StoreService and ProductService.
type Service struct {
	repository      store.CatalogStore
	publisher       messaging.Publisher
	logger          *slog.Logger
	storesCounter   metric.Int64Counter
	productsCounter metric.Int64Counter
}

// NewService creates a new Service. Events are sent through publisher after each successful write.
func NewService(repo store.CatalogStore, publisher messaging.Publisher, logger *slog.Logger) *Service {
	meter := otel.Meter("storefront")
	storesCounter, err := meter.Int64Counter("stores_created", metric.WithDescription("Total number of created stores"))
	if err != nil {
		panic(fmt.Sprintf("failed to create stores_created counter: %v", err))
	}
	productsCounter, err := meter.Int64Counter("products_created", metric.WithDescription("Total number of created products"))
	if err != nil {
		panic(fmt.Sprintf("failed to create products_created counter: %v", err))
	}
	return &Service{
		repository:      repo,
		publisher:       publisher,
		logger:          logger.With("component", "service"),
		storesCounter:   storesCounter,
		productsCounter: productsCounter,
	}
}

// StoreWriteDto is the body of store create and update requests.
type StoreWriteDto struct {
	StoreName string `json:"store_name" validate:"required,notblank,max=100"`
}

// StoreDto is the JSON view of a store.
type StoreDto struct {
	ID        int64  `json:"id"`
	StoreName string `json:"store_name"`
	CreatedAt string `json:"created_at"`
}

// ProductWriteDto is the body of product create and update requests.
// Quantity and Price are pointers: zero is a valid value, an absent field is not.
type ProductWriteDto struct {
	Name     string    `json:"name"     validate:"required,notblank,max=100"`
	Quantity *Quantity `json:"quantity" validate:"required,gte=0"`
	Price    *float64  `json:"price"    validate:"required,gte=0"`
	StoreID  int64     `json:"store_id" validate:"required,gt=0"`
}

// Quantity is a product stock count. Numbers with a zero fraction, like 3.0, are accepted.
type Quantity int32

func (q *Quantity) UnmarshalJSON(b []byte) error {
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}
	if f != math.Trunc(f) || f < math.MinInt32 || f > math.MaxInt32 {
		return fmt.Errorf("quantity %s is not a whole 32-bit number", b)
	}
	*q = Quantity(f)
	return nil
}

// ProductDto is the JSON view of a product.
type ProductDto struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	Quantity  int32   `json:"quantity"`
	Price     float64 `json:"price"`
	StoreID   int64   `json:"store_id"`
	CreatedAt string  `json:"created_at"`
}

func (s *Service) FindStoreByID(ctx context.Context, id int64) (*StoreDto, error) {
	st, err := s.repository.FindStoreByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch store by ID %d: %w", id, err)
	}
	return toStoreDto(st), nil
}

func (s *Service) FindAllStores(ctx context.Context) ([]StoreDto, error) {
	stores, err := s.repository.FindAllStores(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch stores: %w", err)
	}
	storeDTOs := make([]StoreDto, len(stores))
	for i, item := range stores {
		storeDTOs[i] = *toStoreDto(&item)
	}
	return storeDTOs, nil
}

func (s *Service) CreateStore(ctx context.Context, dto StoreWriteDto) (*StoreDto, error) {
	st, err := s.repository.CreateStore(ctx, dto.StoreName)
	if err != nil {
		return nil, fmt.Errorf("failed to create store: %w", err)
	}
	s.publish(ctx, events.NewStoreCreated(carrier(ctx), st.ID, st.StoreName))
	s.storesCounter.Add(ctx, 1)
	return toStoreDto(st), nil
}

func (s *Service) UpdateStore(ctx context.Context, id int64, dto StoreWriteDto) (*StoreDto, error) {
	st, err := s.repository.UpdateStoreName(ctx, id, dto.StoreName)
	if err != nil {
		return nil, fmt.Errorf("failed to update store with ID %d: %w", id, err)
	}
	s.publish(ctx, events.NewStoreUpdated(carrier(ctx), st.ID, st.StoreName))
	return toStoreDto(st), nil
}

func (s *Service) DeleteStore(ctx context.Context, id int64) error {
	if err := s.repository.DeleteStore(ctx, id); err != nil {
		return fmt.Errorf("failed to delete store with ID %d: %w", id, err)
	}
	s.publish(ctx, events.NewStoreDeleted(carrier(ctx), id))
	return nil
}

func (s *Service) FindProductByID(ctx context.Context, id int64) (*ProductDto, error) {
	p, err := s.repository.FindProductByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch product by ID %d: %w", id, err)
	}
	return toProductDto(p), nil
}

func (s *Service) FindAllProducts(ctx context.Context) ([]ProductDto, error) {
	products, err := s.repository.FindAllProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch products: %w", err)
	}
	return toProductDtos(products), nil
}

func (s *Service) FindProductsByStoreID(ctx context.Context, storeID int64) ([]ProductDto, error) {
	products, err := s.repository.FindProductsByStoreID(ctx, storeID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch products of store %d: %w", storeID, err)
	}
	return toProductDtos(products), nil
}

func (s *Service) CreateProduct(ctx context.Context, dto ProductWriteDto) (*ProductDto, error) {
	p, err := s.repository.CreateProduct(ctx, db.CreateProductParams{
		Name:     dto.Name,
		Quantity: int32(deref(dto.Quantity)),
		Price:    deref(dto.Price),
		StoreID:  dto.StoreID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	s.publish(ctx, events.NewProductCreated(carrier(ctx), snapshot(p)))
	s.productsCounter.Add(ctx, 1)
	return toProductDto(p), nil
}

func (s *Service) UpdateProduct(ctx context.Context, id int64, dto ProductWriteDto) (*ProductDto, error) {
	p, err := s.repository.UpdateProduct(ctx, db.UpdateProductParams{
		ID:       id,
		Name:     dto.Name,
		Quantity: int32(deref(dto.Quantity)),
		Price:    deref(dto.Price),
		StoreID:  dto.StoreID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update product with ID %d: %w", id, err)
	}
	s.publish(ctx, events.NewProductUpdated(carrier(ctx), snapshot(p)))
	return toProductDto(p), nil
}

func (s *Service) DeleteProduct(ctx context.Context, id int64) error {
	if err := s.repository.DeleteProduct(ctx, id); err != nil {
		return fmt.Errorf("failed to delete product with ID %d: %w", id, err)
	}
	s.publish(ctx, events.NewProductDeleted(carrier(ctx), id))
	return nil
}

func (s *Service) DeleteProductsByStoreID(ctx context.Context, storeID int64) (int64, error) {
	deleted, err := s.repository.DeleteProductsByStoreID(ctx, storeID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete products of store %d: %w", storeID, err)
	}
	s.publish(ctx, events.NewStoreProductsDeleted(carrier(ctx), storeID, deleted))
	return deleted, nil
}

// publish sends the event and only logs a failure: the write has already been committed.
func (s *Service) publish(ctx context.Context, event messaging.Event) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.ErrorContext(ctx, "Failed to publish event", "subject", event.Subject(), "error", err)
	}
}

// carrier captures the trace context so that consumers can continue the trace.
func carrier(ctx context.Context) propagation.MapCarrier {
	c := make(propagation.MapCarrier)
	otel.GetTextMapPropagator().Inject(ctx, c)
	return c
}

func snapshot(p *db.Product) events.ProductSnapshot {
	return events.ProductSnapshot{
		ID:       p.ID,
		StoreID:  p.StoreID,
		Name:     p.Name,
		Quantity: p.Quantity,
		Price:    p.Price,
	}
}

func deref[T any](v *T) T {
	var zero T
	if v == nil {
		return zero
	}
	return *v
}

// formatTime renders timestamps as RFC 3339 in UTC.
func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func toStoreDto(s *db.Store) *StoreDto {
	return &StoreDto{
		ID:        s.ID,
		StoreName: s.StoreName,
		CreatedAt: formatTime(s.CreatedAt),
	}
}

func toProductDto(p *db.Product) *ProductDto {
	return &ProductDto{
		ID:        p.ID,
		Name:      p.Name,
		Quantity:  p.Quantity,
		Price:     p.Price,
		StoreID:   p.StoreID,
		CreatedAt: formatTime(p.CreatedAt),
	}
}

func toProductDtos(products []db.Product) []ProductDto {
	productDTOs := make([]ProductDto, len(products))
	for i, item := range products {
		productDTOs[i] = *toProductDto(&item)
	}
	return productDTOs
}
