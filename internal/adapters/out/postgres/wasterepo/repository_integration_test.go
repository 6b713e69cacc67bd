package wasterepo_test

import (
	"testing"
	"time"

	"storefront/internal/adapters/out/postgres/pgtest"
	"storefront/internal/adapters/out/postgres/wasterepo"
	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/model/waste"
	"storefront/internal/pkg/errs"

	"github.com/stretchr/testify/suite"
)

type WasteRepositoryIntegrationTestSuite struct {
	suite.Suite
	pg         *pgtest.Database
	repository *wasterepo.GormWasteRepository
}

func TestWasteRepositoryIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("integration test")
	}
	suite.Run(t, new(WasteRepositoryIntegrationTestSuite))
}

func (s *WasteRepositoryIntegrationTestSuite) SetupSuite() {
	pg, err := pgtest.Start(s.T().Context())
	s.pg = pg
	s.Require().NoError(err)
}

func (s *WasteRepositoryIntegrationTestSuite) SetupTest() {
	s.Require().NoError(s.pg.Truncate())
	s.repository = wasterepo.NewGormWasteRepository(s.pg.DB)
}

func (s *WasteRepositoryIntegrationTestSuite) TearDownSuite() {
	s.Require().NoError(s.pg.Terminate(s.T().Context()))
}

func (s *WasteRepositoryIntegrationTestSuite) actor(role kernel.Role) kernel.Actor {
	a, err := kernel.NewActor(kernel.NewUUID(), role)
	s.Require().NoError(err)
	return a
}

func (s *WasteRepositoryIntegrationTestSuite) submitted() *waste.Entry {
	e, err := waste.Submit(kernel.NewUUID(), kernel.NewUUID(), s.actor(kernel.RoleStaff),
		3, "expired", "back of the cool room", kernel.MustMoney("4.50"), time.Now().UTC())
	s.Require().NoError(err)
	s.Require().NoError(s.repository.Add(s.T().Context(), e))
	return e
}

func (s *WasteRepositoryIntegrationTestSuite) TestAdd_PersistsPendingEntryWithTotalCost() {
	e := s.submitted()

	got, err := s.repository.GetForUpdate(s.T().Context(), e.ID())

	s.Require().NoError(err)
	s.Equal(waste.Pending, got.State())
	s.Equal("13.50", got.TotalCost().String())

	var total string
	s.Require().NoError(s.pg.DB.Raw("SELECT total_cost::text FROM waste_logs WHERE id = ?", e.ID().Bytes()).Scan(&total).Error)
	s.Equal("13.50", total)
}

func (s *WasteRepositoryIntegrationTestSuite) TestUpdate_RecordsRejection() {
	ctx := s.T().Context()
	e := s.submitted()

	loaded, err := s.repository.GetForUpdate(ctx, e.ID())
	s.Require().NoError(err)
	s.Require().NoError(loaded.Reject(s.actor(kernel.RoleAdmin), "count was wrong", time.Now().UTC()))
	s.Require().NoError(s.repository.Update(ctx, loaded))

	got, err := s.repository.GetForUpdate(ctx, e.ID())
	s.Require().NoError(err)
	s.Equal(waste.Rejected, got.State())
	s.Equal("count was wrong", got.RejectionNotes())
}

func (s *WasteRepositoryIntegrationTestSuite) TestUpdate_SecondDecision_AlreadyDecided() {
	ctx := s.T().Context()
	e := s.submitted()
	admin := s.actor(kernel.RoleAdmin)

	first, err := s.repository.GetForUpdate(ctx, e.ID())
	s.Require().NoError(err)
	second, err := s.repository.GetForUpdate(ctx, e.ID())
	s.Require().NoError(err)

	s.Require().NoError(first.Approve(admin, time.Now().UTC()))
	s.Require().NoError(s.repository.Update(ctx, first))

	s.Require().NoError(second.Reject(admin, "duplicate", time.Now().UTC()))
	err = s.repository.Update(ctx, second)

	s.Require().ErrorIs(err, waste.ErrAlreadyDecided)
	got, err := s.repository.GetForUpdate(ctx, e.ID())
	s.Require().NoError(err)
	s.Equal(waste.Approved, got.State())
}

func (s *WasteRepositoryIntegrationTestSuite) TestGetForUpdate_Unknown_NotFound() {
	_, err := s.repository.GetForUpdate(s.T().Context(), kernel.NewUUID())
	s.Require().ErrorIs(err, errs.ErrObjectNotFound)
}
