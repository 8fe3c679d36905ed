package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lotolink/internal/sucursal/models"
	id "lotolink/pkg/domain"
	"lotolink/pkg/platform/sentinel"
)

func newSucursal(t *testing.T, bancaID id.BancaID, code string) *models.Sucursal {
	t.Helper()
	s, err := models.NewSucursal(id.SucursalID(uuid.New()), bancaID, "Sucursal "+code, code, time.Now())
	require.NoError(t, err)
	return s
}

func TestCodeScopedToBanca(t *testing.T) {
	ctx := context.Background()
	st := NewInMemoryStore()
	bancaA, bancaB := id.BancaID(uuid.New()), id.BancaID(uuid.New())

	require.NoError(t, st.Create(ctx, newSucursal(t, bancaA, "S1")))
	require.NoError(t, st.Create(ctx, newSucursal(t, bancaB, "S1")))

	err := st.Create(ctx, newSucursal(t, bancaA, "S1"))
	require.ErrorIs(t, err, ErrCodeTaken)
	assert.ErrorIs(t, err, sentinel.ErrAlreadyUsed)
}

func TestReturnedCopiesAreDetached(t *testing.T) {
	ctx := context.Background()
	st := NewInMemoryStore()
	s := newSucursal(t, id.BancaID(uuid.New()), "C1")
	s.TicketConfig.CustomFields = map[string]string{"slogan": "suerte"}
	require.NoError(t, st.Create(ctx, s))

	s.TicketConfig.CustomFields["slogan"] = "mutated"
	got, err := st.FindByID(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "suerte", got.TicketConfig.CustomFields["slogan"])

	got.Name = "changed"
	again, err := st.FindByID(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "Sucursal C1", again.Name)
}

func TestExecuteValidationFailureLeavesRecord(t *testing.T) {
	ctx := context.Background()
	st := NewInMemoryStore()
	s := newSucursal(t, id.BancaID(uuid.New()), "E1")
	require.NoError(t, st.Create(ctx, s))

	boom := errors.New("nope")
	_, err := st.Execute(ctx, s.ID,
		func(*models.Sucursal) error { return boom },
		func(sc *models.Sucursal) { sc.Name = "never" },
	)
	require.ErrorIs(t, err, boom)

	got, err := st.FindByID(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "Sucursal E1", got.Name)

	_, err = st.Execute(ctx, id.SucursalID(uuid.New()),
		func(*models.Sucursal) error { return nil },
		func(*models.Sucursal) {},
	)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	st := NewInMemoryStore()
	s := newSucursal(t, id.BancaID(uuid.New()), "D1")
	require.NoError(t, st.Create(ctx, s))
	require.NoError(t, st.Delete(ctx, s.ID))
	assert.ErrorIs(t, st.Delete(ctx, s.ID), ErrNotFound)
}
