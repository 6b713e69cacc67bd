package productrepo_test

import (
	"testing"
	"time"

	"storefront/internal/adapters/out/postgres/pgtest"
	"storefront/internal/adapters/out/postgres/productrepo"
	"storefront/internal/core/domain/model/inventory"
	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/pkg/errs"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type MockAggregateTracker struct {
	mock.Mock
}

func (m *MockAggregateTracker) TrackAggregate(id kernel.UUID, aggregate any) {
	m.Called(id, aggregate)
}

type ProductRepositoryIntegrationTestSuite struct {
	suite.Suite
	pg         *pgtest.Database
	repository *productrepo.GormProductRepository
	tracker    *MockAggregateTracker
}

func TestProductRepositoryIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("integration test")
	}
	suite.Run(t, new(ProductRepositoryIntegrationTestSuite))
}

func (s *ProductRepositoryIntegrationTestSuite) SetupSuite() {
	pg, err := pgtest.Start(s.T().Context())
	s.pg = pg
	s.Require().NoError(err)
}

func (s *ProductRepositoryIntegrationTestSuite) SetupTest() {
	s.Require().NoError(s.pg.Truncate())

	s.tracker = new(MockAggregateTracker)
	s.tracker.On("TrackAggregate", mock.Anything, mock.Anything).Maybe()
	s.repository = productrepo.NewGormProductRepository(s.pg.DB, s.tracker)
}

func (s *ProductRepositoryIntegrationTestSuite) TearDownSuite() {
	s.Require().NoError(s.pg.Terminate(s.T().Context()))
}

// stocked adds a product with an opening addition booked through the ledger.
func (s *ProductRepositoryIntegrationTestSuite) stocked(name string, opening int, minStock *int) *inventory.Product {
	p, err := inventory.NewProduct(kernel.NewUUID(), name, inventory.Meta{MinStock: minStock})
	s.Require().NoError(err)
	if opening > 0 {
		m, err := inventory.NewMovement(inventory.Addition, opening, "opening stock", "", nil)
		s.Require().NoError(err)
		_, err = p.ApplyMovement(kernel.NewUUID(), m, time.Now().UTC())
		s.Require().NoError(err)
	}
	s.Require().NoError(s.repository.Add(s.T().Context(), p))
	return p
}

func (s *ProductRepositoryIntegrationTestSuite) logCount(product kernel.UUID) int64 {
	var n int64
	s.Require().NoError(s.pg.DB.Table("inventory_logs").Where("product_id = ?", product.Bytes()).Count(&n).Error)
	return n
}

func (s *ProductRepositoryIntegrationTestSuite) TestAdd_PersistsStockMetaAndOpeningLog() {
	minStock := 3
	p := s.stocked("Lamb cutlets", 10, &minStock)

	got, err := s.repository.Get(s.T().Context(), p.ID())

	s.Require().NoError(err)
	s.Equal(10, got.Stock())
	s.Require().NotNil(got.Meta().MinStock)
	s.Equal(3, *got.Meta().MinStock)
	s.Equal(int64(1), s.logCount(p.ID()))
}

func (s *ProductRepositoryIntegrationTestSuite) TestGetForUpdate_ReturnsRequestedOrder() {
	ctx := s.T().Context()
	a := s.stocked("A", 1, nil)
	b := s.stocked("B", 2, nil)

	products, err := s.repository.GetForUpdate(ctx, []kernel.UUID{b.ID(), a.ID()})

	s.Require().NoError(err)
	s.Require().Len(products, 2)
	s.True(products[0].ID().IsEqual(b.ID()))
	s.True(products[1].ID().IsEqual(a.ID()))
}

func (s *ProductRepositoryIntegrationTestSuite) TestGetForUpdate_MissingProduct_NotFound() {
	a := s.stocked("A", 1, nil)

	_, err := s.repository.GetForUpdate(s.T().Context(), []kernel.UUID{a.ID(), kernel.NewUUID()})

	s.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (s *ProductRepositoryIntegrationTestSuite) TestSave_WritesStockAndAppendsLog() {
	ctx := s.T().Context()
	p := s.stocked("Pork belly", 5, nil)

	loaded, err := s.repository.Get(ctx, p.ID())
	s.Require().NoError(err)
	m, err := inventory.NewMovement(inventory.Deduction, 2, "order placed", "ORD-20260314-ABCDEF", nil)
	s.Require().NoError(err)
	_, err = loaded.ApplyMovement(kernel.NewUUID(), m, time.Now().UTC())
	s.Require().NoError(err)

	s.Require().NoError(s.repository.Save(ctx, loaded))

	reloaded, err := s.repository.Get(ctx, p.ID())
	s.Require().NoError(err)
	s.Equal(3, reloaded.Stock())
	s.Equal(loaded.Version(), reloaded.Version())
	s.Equal(int64(2), s.logCount(p.ID()))
	s.Empty(loaded.PendingLogs())
}

func (s *ProductRepositoryIntegrationTestSuite) TestSave_StaleVersion_ConcurrencyConflict() {
	ctx := s.T().Context()
	p := s.stocked("Beef mince", 5, nil)

	first, err := s.repository.Get(ctx, p.ID())
	s.Require().NoError(err)
	second, err := s.repository.Get(ctx, p.ID())
	s.Require().NoError(err)

	m, err := inventory.NewMovement(inventory.Deduction, 1, "order placed", "", nil)
	s.Require().NoError(err)
	_, err = first.ApplyMovement(kernel.NewUUID(), m, time.Now().UTC())
	s.Require().NoError(err)
	_, err = second.ApplyMovement(kernel.NewUUID(), m, time.Now().UTC())
	s.Require().NoError(err)

	s.Require().NoError(s.repository.Save(ctx, first))
	err = s.repository.Save(ctx, second)

	s.Require().ErrorIs(err, errs.ErrConcurrencyConflict)
	reloaded, err := s.repository.Get(ctx, p.ID())
	s.Require().NoError(err)
	s.Equal(4, reloaded.Stock())
	s.Equal(int64(2), s.logCount(p.ID()))
}

func (s *ProductRepositoryIntegrationTestSuite) TestStockCheckConstraint_RejectsNegativeStock() {
	p := s.stocked("Chicken", 1, nil)

	err := s.pg.DB.Exec("UPDATE products SET stock = -1 WHERE id = ?", p.ID().Bytes()).Error

	s.Require().Error(err)
}
