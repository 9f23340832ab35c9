package store

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	serrors "github.com/abgdnv/storefront/internal/errors"
	"github.com/abgdnv/storefront/internal/store/db"
	"github.com/abgdnv/storefront/migrations"
	"github.com/abgdnv/storefront/pkg/bootstrap"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

const skipIntegrationTests = "STOREFRONT_SKIP_INTEGRATION_TESTS"

// CatalogStoreSuite is a test suite for the PgStore implementation.
type CatalogStoreSuite struct {
	suite.Suite
	pgContainer *postgres.PostgresContainer
	dbPool      *pgxpool.Pool
	store       *PgStore
	logger      *slog.Logger
	ctx         context.Context
}

// SetupSuite starts a PostgreSQL container and applies the embedded migrations.
func (s *CatalogStoreSuite) SetupSuite() {
	s.ctx = context.Background()
	var err error
	s.logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))

	s.pgContainer, err = postgres.Run(s.ctx,
		"postgres:17.5-alpine",
		postgres.WithDatabase("storefront_db"),
		postgres.WithUsername("user"),
		postgres.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Minute),
		),
		testcontainers.WithWaitStrategy(
			wait.ForListeningPort("5432/tcp"),
		),
	)
	require.NoError(s.T(), err, "Failed to run PostgreSQL container")

	connStr, err := s.pgContainer.ConnectionString(s.ctx, "sslmode=disable")
	require.NoError(s.T(), err, "Failed to get connection string from container")

	s.dbPool, err = pgxpool.New(s.ctx, connStr)
	require.NoError(s.T(), err, "Failed to create pgxpool")

	for i := range 10 {
		s.logger.Info("Pinging PostgreSQL database", "attempt", i+1)
		err = s.dbPool.Ping(s.ctx)
		if err == nil {
			break
		}
		time.Sleep(time.Second * 2)
	}
	require.NoError(s.T(), err, "Failed to connect to PostgreSQL after retries")

	version, err := bootstrap.RunMigrations(migrations.FS, connStr)
	require.NoError(s.T(), err, "Failed to apply migrations")
	s.logger.Info("Migrations applied", "version", version)

	s.store = NewPgStore(s.dbPool)
}

// TearDownSuite closes the pool and terminates the container.
func (s *CatalogStoreSuite) TearDownSuite() {
	if s.dbPool != nil {
		s.dbPool.Close()
	}
	if s.pgContainer != nil {
		if err := s.pgContainer.Terminate(s.ctx); err != nil {
			s.logger.Warn("failed to terminate PostgreSQL container", "error", err)
		}
	}
}

// SetupTest empties both tables before each test.
func (s *CatalogStoreSuite) SetupTest() {
	_, err := s.dbPool.Exec(s.ctx, "TRUNCATE TABLE stores RESTART IDENTITY CASCADE")
	require.NoError(s.T(), err, "Failed to truncate stores table")
}

func TestCatalogStoreIntegration(t *testing.T) {
	if os.Getenv(skipIntegrationTests) == "1" {
		t.Skip("Skipping integration tests based on " + skipIntegrationTests + " env var")
	}
	suite.Run(t, new(CatalogStoreSuite))
}

func (s *CatalogStoreSuite) createStore(name string) *db.Store {
	s.T().Helper()
	created, err := s.store.CreateStore(s.ctx, name)
	require.NoError(s.T(), err, "createStore helper failed")
	return created
}

func (s *CatalogStoreSuite) createProduct(name string, storeID int64) *db.Product {
	s.T().Helper()
	created, err := s.store.CreateProduct(s.ctx, db.CreateProductParams{
		Name:     name,
		Quantity: 3,
		Price:    9.99,
		StoreID:  storeID,
	})
	require.NoError(s.T(), err, "createProduct helper failed")
	return created
}

func (s *CatalogStoreSuite) TestCreateStore() {
	// when
	created, err := s.store.CreateStore(s.ctx, "Acme")

	// then
	s.Require().NoError(err)
	s.NotZero(created.ID)
	s.Equal("Acme", created.StoreName)
	s.False(created.CreatedAt.IsZero())

	found, err := s.store.FindStoreByID(s.ctx, created.ID)
	s.Require().NoError(err)
	s.Equal(created.StoreName, found.StoreName)
}

func (s *CatalogStoreSuite) TestCreateStore_DuplicateName() {
	// given
	s.createStore("Acme")

	// when
	_, err := s.store.CreateStore(s.ctx, "Acme")

	// then
	s.ErrorIs(err, serrors.ErrStoreNameTaken)
}

func (s *CatalogStoreSuite) TestFindStoreByID_NotFound() {
	// when
	_, err := s.store.FindStoreByID(s.ctx, 999999)

	// then
	s.ErrorIs(err, serrors.ErrStoreNotFound)
}

func (s *CatalogStoreSuite) TestFindAllStores() {
	// given
	empty, err := s.store.FindAllStores(s.ctx)
	s.Require().NoError(err)
	s.Empty(empty)
	first := s.createStore("First")
	second := s.createStore("Second")

	// when
	stores, err := s.store.FindAllStores(s.ctx)

	// then
	s.Require().NoError(err)
	s.Require().Len(stores, 2)
	s.Equal(first.ID, stores[0].ID)
	s.Equal(second.ID, stores[1].ID)
}

func (s *CatalogStoreSuite) TestUpdateStoreName() {
	// given
	created := s.createStore("Old")
	s.createStore("Taken")

	// when
	updated, err := s.store.UpdateStoreName(s.ctx, created.ID, "New")

	// then
	s.Require().NoError(err)
	s.Equal("New", updated.StoreName)
	s.True(created.CreatedAt.Equal(updated.CreatedAt))

	_, err = s.store.UpdateStoreName(s.ctx, created.ID, "Taken")
	s.ErrorIs(err, serrors.ErrStoreNameTaken)

	_, err = s.store.UpdateStoreName(s.ctx, 999999, "Other")
	s.ErrorIs(err, serrors.ErrStoreNotFound)
}

func (s *CatalogStoreSuite) TestDeleteStore_CascadesToProducts() {
	// given
	created := s.createStore("Doomed")
	product := s.createProduct("Widget", created.ID)

	// when
	err := s.store.DeleteStore(s.ctx, created.ID)

	// then
	s.Require().NoError(err)
	_, err = s.store.FindStoreByID(s.ctx, created.ID)
	s.ErrorIs(err, serrors.ErrStoreNotFound)
	_, err = s.store.FindProductByID(s.ctx, product.ID)
	s.ErrorIs(err, serrors.ErrProductNotFound)

	s.ErrorIs(s.store.DeleteStore(s.ctx, created.ID), serrors.ErrStoreNotFound)
}

func (s *CatalogStoreSuite) TestCreateProduct() {
	// given
	owner := s.createStore("Owner")

	// when
	created, err := s.store.CreateProduct(s.ctx, db.CreateProductParams{
		Name:     "Widget",
		Quantity: 10,
		Price:    2.5,
		StoreID:  owner.ID,
	})

	// then
	s.Require().NoError(err)
	s.NotZero(created.ID)
	s.Equal("Widget", created.Name)
	s.Equal(int32(10), created.Quantity)
	s.InDelta(2.5, created.Price, 1e-9)
	s.Equal(owner.ID, created.StoreID)
}

func (s *CatalogStoreSuite) TestCreateProduct_ConstraintViolations() {
	owner := s.createStore("Owner")

	testCases := []struct {
		name     string
		params   db.CreateProductParams
		expected error
	}{
		{
			name:     "unknown store",
			params:   db.CreateProductParams{Name: "Widget", Quantity: 1, Price: 1, StoreID: 999999},
			expected: serrors.ErrStoreReference,
		},
		{
			name:     "negative quantity",
			params:   db.CreateProductParams{Name: "Widget", Quantity: -1, Price: 1, StoreID: owner.ID},
			expected: serrors.ErrInvalidProduct,
		},
		{
			name:     "negative price",
			params:   db.CreateProductParams{Name: "Widget", Quantity: 1, Price: -0.01, StoreID: owner.ID},
			expected: serrors.ErrInvalidProduct,
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			_, err := s.store.CreateProduct(s.ctx, tc.params)
			s.ErrorIs(err, tc.expected)
		})
	}
}

func (s *CatalogStoreSuite) TestUpdateProduct() {
	// given
	first := s.createStore("First")
	second := s.createStore("Second")
	product := s.createProduct("Widget", first.ID)

	// when
	updated, err := s.store.UpdateProduct(s.ctx, db.UpdateProductParams{
		ID:       product.ID,
		Name:     "Gadget",
		Quantity: 0,
		Price:    0,
		StoreID:  second.ID,
	})

	// then
	s.Require().NoError(err)
	s.Equal("Gadget", updated.Name)
	s.Equal(int32(0), updated.Quantity)
	s.Equal(second.ID, updated.StoreID)

	_, err = s.store.UpdateProduct(s.ctx, db.UpdateProductParams{ID: product.ID, Name: "X", StoreID: 999999})
	s.ErrorIs(err, serrors.ErrStoreReference)

	_, err = s.store.UpdateProduct(s.ctx, db.UpdateProductParams{ID: 999999, Name: "X", StoreID: first.ID})
	s.ErrorIs(err, serrors.ErrProductNotFound)
}

func (s *CatalogStoreSuite) TestFindProductsByStoreID() {
	// given
	first := s.createStore("First")
	second := s.createStore("Second")
	empty := s.createStore("Empty")
	p1 := s.createProduct("A", first.ID)
	s.createProduct("B", second.ID)
	p3 := s.createProduct("C", first.ID)

	// when
	products, err := s.store.FindProductsByStoreID(s.ctx, first.ID)

	// then
	s.Require().NoError(err)
	s.Require().Len(products, 2)
	s.Equal(p1.ID, products[0].ID)
	s.Equal(p3.ID, products[1].ID)

	none, err := s.store.FindProductsByStoreID(s.ctx, empty.ID)
	s.Require().NoError(err)
	s.NotNil(none)
	s.Empty(none)

	_, err = s.store.FindProductsByStoreID(s.ctx, 999999)
	s.ErrorIs(err, serrors.ErrStoreNotFound)

	all, err := s.store.FindAllProducts(s.ctx)
	s.Require().NoError(err)
	s.Len(all, 3)
}

func (s *CatalogStoreSuite) TestDeleteProduct() {
	// given
	owner := s.createStore("Owner")
	product := s.createProduct("Widget", owner.ID)

	// when
	err := s.store.DeleteProduct(s.ctx, product.ID)

	// then
	s.Require().NoError(err)
	s.ErrorIs(s.store.DeleteProduct(s.ctx, product.ID), serrors.ErrProductNotFound)
}

func (s *CatalogStoreSuite) TestDeleteProductsByStoreID() {
	// given
	first := s.createStore("First")
	second := s.createStore("Second")
	s.createProduct("A", first.ID)
	s.createProduct("B", first.ID)
	kept := s.createProduct("C", second.ID)

	// when
	deleted, err := s.store.DeleteProductsByStoreID(s.ctx, first.ID)

	// then
	s.Require().NoError(err)
	s.Equal(int64(2), deleted)
	remaining, err := s.store.FindProductsByStoreID(s.ctx, first.ID)
	s.Require().NoError(err)
	s.Empty(remaining)
	_, err = s.store.FindProductByID(s.ctx, kept.ID)
	s.NoError(err)

	_, err = s.store.DeleteProductsByStoreID(s.ctx, 999999)
	s.ErrorIs(err, serrors.ErrStoreNotFound)

	again, err := s.store.DeleteProductsByStoreID(s.ctx, first.ID)
	s.Require().NoError(err)
	s.Zero(again)
	_, err = s.store.FindStoreByID(s.ctx, first.ID)
	s.NoError(err, "deleting products must keep the store")
}

func (s *CatalogStoreSuite) TestPing() {
	s.NoError(s.store.Ping(s.ctx))
}
