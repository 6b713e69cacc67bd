package postgres_test

import (
	"encoding/json"
	"testing"
	"time"

	pgadapter "storefront/internal/adapters/out/postgres"
	"storefront/internal/adapters/out/postgres/pgtest"
	"storefront/internal/core/domain/model/currency"
	"storefront/internal/core/domain/model/inventory"
	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/model/order"
	"storefront/internal/core/domain/model/zone"
	"storefront/internal/core/ports"

	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

// UnitOfWorkIntegrationTestSuite checks transaction boundaries and the outbox
// write on commit against a real Postgres.
type UnitOfWorkIntegrationTestSuite struct {
	suite.Suite
	pg      *pgtest.Database
	factory ports.UnitOfWorkFactory
}

func TestUnitOfWorkIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("integration test")
	}
	suite.Run(t, new(UnitOfWorkIntegrationTestSuite))
}

func (s *UnitOfWorkIntegrationTestSuite) SetupSuite() {
	pg, err := pgtest.Start(s.T().Context())
	s.pg = pg
	s.Require().NoError(err)
	s.factory = pgadapter.NewGormUnitOfWorkFactory(pg.DB)
}

func (s *UnitOfWorkIntegrationTestSuite) SetupTest() {
	s.Require().NoError(s.pg.Truncate())
}

func (s *UnitOfWorkIntegrationTestSuite) TearDownSuite() {
	s.Require().NoError(s.pg.Terminate(s.T().Context()))
}

func (s *UnitOfWorkIntegrationTestSuite) pickupOrder() *order.Order {
	customer, err := kernel.NewActor(kernel.NewUUID(), kernel.RoleCustomer)
	s.Require().NoError(err)
	at := time.Now().UTC()
	o, err := order.Place(order.Draft{
		ID:       kernel.NewUUID(),
		Number:   order.GenerateNumber(at),
		Customer: customer,
		Items: []order.ItemInput{
			{ProductID: kernel.NewUUID(), Name: "Sausages", Quantity: 1, UnitPrice: kernel.MustMoney("12.00")},
		},
		Method:   order.MethodPickup,
		Quote:    zone.PickupQuote(),
		Currency: currency.BaseSnapshot(),
		PlacedAt: at,
	})
	s.Require().NoError(err)
	return o
}

func (s *UnitOfWorkIntegrationTestSuite) count(table string) int64 {
	var n int64
	s.Require().NoError(s.pg.DB.Table(table).Count(&n).Error)
	return n
}

func (s *UnitOfWorkIntegrationTestSuite) TestCommit_WritesOrderAndEventTogether() {
	ctx := s.T().Context()
	o := s.pickupOrder()

	uow := s.factory.Create()
	s.Require().NoError(uow.Begin(ctx))
	s.Require().NoError(uow.OrderRepository().Add(ctx, o))
	s.Require().NoError(uow.Commit(ctx))

	s.Equal(int64(1), s.count("orders"))

	messages, err := s.factory.Create().OutboxRepository().GetUnpublished(ctx, 10)
	s.Require().NoError(err)
	s.Require().Len(messages, 1)
	s.Equal(kernel.TopicOrderEvents, messages[0].Topic)
	s.Equal(o.ID().String(), messages[0].Key)

	var body struct {
		Event string `json:"event"`
		Data  struct {
			OrderID string `json:"order_id"`
			Status  string `json:"status"`
			Amount  string `json:"amount"`
		} `json:"data"`
	}
	s.Require().NoError(json.Unmarshal(messages[0].Payload, &body))
	s.Equal(order.EventCreated, body.Event)
	s.Equal(o.ID().String(), body.Data.OrderID)
	s.Equal("pending", body.Data.Status)
	s.Equal("12.00", body.Data.Amount)
}

func (s *UnitOfWorkIntegrationTestSuite) TestRollback_DiscardsOrderAndEvents() {
	ctx := s.T().Context()

	uow := s.factory.Create()
	s.Require().NoError(uow.Begin(ctx))
	s.Require().NoError(uow.OrderRepository().Add(ctx, s.pickupOrder()))
	s.Require().NoError(uow.Rollback(ctx))

	s.Equal(int64(0), s.count("orders"))
	s.Equal(int64(0), s.count("outbox_messages"))
}

func (s *UnitOfWorkIntegrationTestSuite) TestCommit_StockAlertGoesToInventoryTopic() {
	ctx := s.T().Context()
	minStock := 2
	p, err := inventory.NewProduct(kernel.NewUUID(), "Lamb shanks", inventory.Meta{MinStock: &minStock})
	s.Require().NoError(err)
	m, err := inventory.NewMovement(inventory.Addition, 3, "opening stock", "", nil)
	s.Require().NoError(err)
	_, err = p.ApplyMovement(kernel.NewUUID(), m, time.Now().UTC())
	s.Require().NoError(err)
	s.Require().NoError(s.factory.Create().ProductRepository().Add(ctx, p))

	uow := s.factory.Create()
	s.Require().NoError(uow.Begin(ctx))
	products, err := uow.ProductRepository().GetForUpdate(ctx, []kernel.UUID{p.ID()})
	s.Require().NoError(err)
	deduct, err := inventory.NewMovement(inventory.Deduction, 1, "order placed", "", nil)
	s.Require().NoError(err)
	_, err = products[0].ApplyMovement(kernel.NewUUID(), deduct, time.Now().UTC())
	s.Require().NoError(err)
	s.Require().NoError(uow.ProductRepository().Save(ctx, products[0]))
	s.Require().NoError(uow.Commit(ctx))

	var topics []string
	s.Require().NoError(s.pg.DB.Table("outbox_messages").Pluck("topic", &topics).Error)
	s.Equal([]string{kernel.TopicInventoryAlerts}, topics)
}

func (s *UnitOfWorkIntegrationTestSuite) TestCommit_WithoutBegin_InvalidTransaction() {
	err := s.factory.Create().Commit(s.T().Context())
	s.Require().ErrorIs(err, gorm.ErrInvalidTransaction)
}

func (s *UnitOfWorkIntegrationTestSuite) TestBegin_Twice_ReusesTransaction() {
	ctx := s.T().Context()
	uow := s.factory.Create()

	s.Require().NoError(uow.Begin(ctx))
	s.Require().NoError(uow.Begin(ctx))
	s.Require().NoError(uow.OrderRepository().Add(ctx, s.pickupOrder()))
	s.Require().NoError(uow.Commit(ctx))

	s.Equal(int64(1), s.count("orders"))
}
