//go:build integration

package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	bancamodels "lotolink/internal/banca/models"
	bancastore "lotolink/internal/banca/store"
	"lotolink/internal/sucursal/models"
	"lotolink/internal/sucursal/store"
	id "lotolink/pkg/domain"
	"lotolink/pkg/testutil/containers"
)

type PostgresSucursalStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *store.PostgresStore
	bancas   *bancastore.PostgresStore
	bancaID  id.BancaID
}

func TestPostgresSucursalStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresSucursalStoreSuite))
}

func (s *PostgresSucursalStoreSuite) SetupSuite() {
	s.postgres = containers.GetManager().GetPostgres(s.T())
	s.store = store.NewPostgres(s.postgres.DB)
	s.bancas = bancastore.NewPostgres(s.postgres.DB)
}

func (s *PostgresSucursalStoreSuite) SetupTest() {
	ctx := context.Background()
	s.Require().NoError(s.postgres.TruncateTables(ctx, "sucursales", "bancas"))

	b, err := bancamodels.NewBanca(id.BancaID(uuid.New()), "Banca Central", "central@bancas.do",
		bancamodels.IntegrationAPI, bancamodels.AuthHMAC, time.Now().UTC())
	s.Require().NoError(err)
	s.Require().NoError(s.bancas.Create(ctx, b))
	s.bancaID = b.ID
}

func (s *PostgresSucursalStoreSuite) newSucursal(bancaID id.BancaID, code string) *models.Sucursal {
	sc, err := models.NewSucursal(id.SucursalID(uuid.New()), bancaID, "Sucursal "+code, code,
		time.Now().UTC().Truncate(time.Microsecond))
	s.Require().NoError(err)
	return sc
}

func (s *PostgresSucursalStoreSuite) TestRoundTripKeepsTicketConfig() {
	ctx := context.Background()
	sc := s.newSucursal(s.bancaID, "SD-01")
	sc.City = "Santo Domingo"
	sc.TicketConfig.FooterText = "Gracias"
	sc.TicketConfig.CustomFields = map[string]string{"zona": "norte"}
	s.Require().NoError(s.store.Create(ctx, sc))

	got, err := s.store.FindByID(ctx, sc.ID)
	s.Require().NoError(err)
	s.Equal("Santo Domingo", got.City)
	s.Empty(got.Phone)
	s.True(got.IsActive)
	s.Equal(sc.TicketConfig, got.TicketConfig)
}

func (s *PostgresSucursalStoreSuite) TestCodeUniquePerBanca() {
	ctx := context.Background()
	s.Require().NoError(s.store.Create(ctx, s.newSucursal(s.bancaID, "A1")))
	s.ErrorIs(s.store.Create(ctx, s.newSucursal(s.bancaID, "A1")), store.ErrCodeTaken)

	other, err := bancamodels.NewBanca(id.BancaID(uuid.New()), "Banca Norte", "norte@bancas.do",
		bancamodels.IntegrationAPI, bancamodels.AuthHMAC, time.Now().UTC())
	s.Require().NoError(err)
	s.Require().NoError(s.bancas.Create(ctx, other))
	s.NoError(s.store.Create(ctx, s.newSucursal(other.ID, "A1")))
}

func (s *PostgresSucursalStoreSuite) TestCreateUnderMissingBanca() {
	err := s.store.Create(context.Background(), s.newSucursal(id.BancaID(uuid.New()), "X"))
	s.ErrorIs(err, store.ErrBancaMissing)
}

func (s *PostgresSucursalStoreSuite) TestListByBancaOrderedByCode() {
	ctx := context.Background()
	for _, code := range []string{"C", "A", "B"} {
		s.Require().NoError(s.store.Create(ctx, s.newSucursal(s.bancaID, code)))
	}

	list, err := s.store.ListByBanca(ctx, s.bancaID)
	s.Require().NoError(err)
	s.Require().Len(list, 3)
	s.Equal([]string{"A", "B", "C"}, []string{list[0].Code, list[1].Code, list[2].Code})

	empty, err := s.store.ListByBanca(ctx, id.BancaID(uuid.New()))
	s.Require().NoError(err)
	s.Empty(empty)
}

func (s *PostgresSucursalStoreSuite) TestExecuteAndDelete() {
	ctx := context.Background()
	sc := s.newSucursal(s.bancaID, "D1")
	s.Require().NoError(s.store.Create(ctx, sc))

	days := 30
	updated, err := s.store.Execute(ctx, sc.ID, func(*models.Sucursal) error { return nil }, func(sc *models.Sucursal) {
		sc.ApplyTicketConfig(models.TicketConfigPatch{ValidityDays: &days}, time.Now())
		sc.ApplyDeactivation(time.Now())
	})
	s.Require().NoError(err)
	s.False(updated.IsActive)

	got, err := s.store.FindByID(ctx, sc.ID)
	s.Require().NoError(err)
	s.False(got.IsActive)
	s.Equal(30, got.TicketConfig.ValidityDays)

	s.Require().NoError(s.store.Delete(ctx, sc.ID))
	s.ErrorIs(s.store.Delete(ctx, sc.ID), store.ErrNotFound)
	_, err = s.store.FindByID(ctx, sc.ID)
	s.ErrorIs(err, store.ErrNotFound)
}

func (s *PostgresSucursalStoreSuite) TestDeletingBancaCascades() {
	ctx := context.Background()
	sc := s.newSucursal(s.bancaID, "E1")
	s.Require().NoError(s.store.Create(ctx, sc))

	_, err := s.postgres.DB.ExecContext(ctx, `DELETE FROM bancas WHERE id = $1`, s.bancaID)
	s.Require().NoError(err)

	_, err = s.store.FindByID(ctx, sc.ID)
	s.ErrorIs(err, store.ErrNotFound)
}
