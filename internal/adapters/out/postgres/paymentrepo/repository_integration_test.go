package paymentrepo_test

import (
	"testing"
	"time"

	"storefront/internal/adapters/out/postgres/paymentrepo"
	"storefront/internal/adapters/out/postgres/pgtest"
	"storefront/internal/core/domain/model/currency"
	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/model/order"

	"github.com/stretchr/testify/suite"
)

type PaymentRepositoryIntegrationTestSuite struct {
	suite.Suite
	pg         *pgtest.Database
	repository *paymentrepo.GormPaymentRepository
}

func TestPaymentRepositoryIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("integration test")
	}
	suite.Run(t, new(PaymentRepositoryIntegrationTestSuite))
}

func (s *PaymentRepositoryIntegrationTestSuite) SetupSuite() {
	pg, err := pgtest.Start(s.T().Context())
	s.pg = pg
	s.Require().NoError(err)
}

func (s *PaymentRepositoryIntegrationTestSuite) SetupTest() {
	s.Require().NoError(s.pg.Truncate())
	s.repository = paymentrepo.NewGormPaymentRepository(s.pg.DB)
}

func (s *PaymentRepositoryIntegrationTestSuite) TearDownSuite() {
	s.Require().NoError(s.pg.Terminate(s.T().Context()))
}

func (s *PaymentRepositoryIntegrationTestSuite) payment(orderID kernel.UUID, status order.PaymentStatus, tx string) *order.Payment {
	p, err := order.NewPayment(kernel.NewUUID(), orderID, order.GatewayStripe, tx,
		kernel.MustMoney("62.95"), currency.AUD, status, []byte(`{"id":"`+tx+`"}`), time.Now().UTC())
	s.Require().NoError(err)
	return p
}

func (s *PaymentRepositoryIntegrationTestSuite) TestAdd_ThenListByOrder_InCreationOrder() {
	ctx := s.T().Context()
	orderID := kernel.NewUUID()
	failed := s.payment(orderID, order.PaymentFailed, "ch_1")
	completed := s.payment(orderID, order.PaymentCompleted, "ch_2")
	s.Require().NoError(s.repository.Add(ctx, failed))
	s.Require().NoError(s.repository.Add(ctx, completed))
	s.Require().NoError(s.repository.Add(ctx, s.payment(kernel.NewUUID(), order.PaymentCompleted, "ch_3")))

	payments, err := s.repository.ListByOrder(ctx, orderID)

	s.Require().NoError(err)
	s.Require().Len(payments, 2)
	s.Equal(order.PaymentFailed, payments[0].Status())
	s.Equal(order.PaymentCompleted, payments[1].Status())
	s.Equal("62.95", payments[1].Amount().String())
	s.JSONEq(`{"id":"ch_2"}`, string(payments[1].Response()))
}

func (s *PaymentRepositoryIntegrationTestSuite) TestAdd_SecondCompletedPayment_Rejected() {
	ctx := s.T().Context()
	orderID := kernel.NewUUID()
	s.Require().NoError(s.repository.Add(ctx, s.payment(orderID, order.PaymentCompleted, "ch_1")))

	err := s.repository.Add(ctx, s.payment(orderID, order.PaymentCompleted, "ch_2"))

	s.Require().ErrorIs(err, order.ErrPaymentAlreadyCompleted)
}

func (s *PaymentRepositoryIntegrationTestSuite) TestUpdate_MarksRefunded() {
	ctx := s.T().Context()
	orderID := kernel.NewUUID()
	p := s.payment(orderID, order.PaymentCompleted, "ch_1")
	s.Require().NoError(s.repository.Add(ctx, p))

	s.Require().NoError(p.Refund(time.Now().UTC()))
	s.Require().NoError(s.repository.Update(ctx, p))

	payments, err := s.repository.ListByOrder(ctx, orderID)
	s.Require().NoError(err)
	s.Require().Len(payments, 1)
	s.Equal(order.PaymentRefunded, payments[0].Status())
}
