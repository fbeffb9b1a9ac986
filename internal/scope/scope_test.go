package scope_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/INGMEGANO/PSPVoteBackend/internal/model"
	"github.com/INGMEGANO/PSPVoteBackend/internal/scope"
)

func TestForActor_AdminSinRestricciones(t *testing.T) {
	f, err := scope.ForActor(scope.Actor{UserID: uuid.New(), Rol: model.RolAdmin})
	require.NoError(t, err)
	assert.Nil(t, f.LeaderID)
	assert.Nil(t, f.DigitadorID)
	assert.True(t, f.Permite(&model.Votacion{LeaderID: uuid.New()}))
}

func TestForActor_LiderAcotadoASuLider(t *testing.T) {
	lid := uuid.New()
	f, err := scope.ForActor(scope.Actor{UserID: uuid.New(), Rol: model.RolLider, LeaderID: &lid})
	require.NoError(t, err)

	assert.True(t, f.Permite(&model.Votacion{LeaderID: lid}))
	assert.False(t, f.Permite(&model.Votacion{LeaderID: uuid.New()}))
}

func TestForActor_LiderSinVinculoFalla(t *testing.T) {
	_, err := scope.ForActor(scope.Actor{UserID: uuid.New(), Rol: model.RolLider})
	assert.ErrorIs(t, err, scope.ErrSinLider)
}

func TestForActor_DigitadorAcotadoASusFilas(t *testing.T) {
	uid := uuid.New()
	f, err := scope.ForActor(scope.Actor{UserID: uid, Rol: model.RolDigitador})
	require.NoError(t, err)

	assert.True(t, f.Permite(&model.Votacion{LeaderID: uuid.New(), DigitadorID: &uid}))
	assert.False(t, f.Permite(&model.Votacion{LeaderID: uuid.New()}))
	otro := uuid.New()
	assert.False(t, f.Permite(&model.Votacion{LeaderID: uuid.New(), DigitadorID: &otro}))
}

func TestForActorConDigitador_LiderVeLoQueDigito(t *testing.T) {
	uid := uuid.New()
	lid := uuid.New()
	f, err := scope.ForActorConDigitador(scope.Actor{UserID: uid, Rol: model.RolLider, LeaderID: &lid})
	require.NoError(t, err)

	// Rows the actor digitized for another leader stay visible.
	assert.True(t, f.Permite(&model.Votacion{LeaderID: uuid.New(), DigitadorID: &uid}))
	assert.True(t, f.Permite(&model.Votacion{LeaderID: lid}))
	assert.False(t, f.Permite(&model.Votacion{LeaderID: uuid.New()}))
}

func TestConQuery_LeaderIdSoloParaAdmin(t *testing.T) {
	otroLider := uuid.New()
	q := scope.Query{LeaderID: &otroLider}

	admin := scope.Actor{UserID: uuid.New(), Rol: model.RolAdmin}
	f, err := scope.ForActor(admin)
	require.NoError(t, err)
	f = f.ConQuery(admin, q)
	require.NotNil(t, f.LeaderID)
	assert.Equal(t, otroLider, *f.LeaderID)

	// A LIDER asking for another leader's rows keeps their own scope.
	propio := uuid.New()
	lider := scope.Actor{UserID: uuid.New(), Rol: model.RolLider, LeaderID: &propio}
	f, err = scope.ForActor(lider)
	require.NoError(t, err)
	f = f.ConQuery(lider, q)
	require.NotNil(t, f.LeaderID)
	assert.Equal(t, propio, *f.LeaderID)
}

func TestConQuery_ConservaFiltrosLiterales(t *testing.T) {
	planilla := 7
	programa := uuid.New()
	q := scope.Query{Planilla: &planilla, ProgramaID: &programa}

	admin := scope.Actor{UserID: uuid.New(), Rol: model.RolAdmin}
	f, err := scope.ForActor(admin)
	require.NoError(t, err)
	f = f.ConQuery(admin, q)

	require.NotNil(t, f.Planilla)
	assert.Equal(t, 7, *f.Planilla)
	require.NotNil(t, f.ProgramaID)
	assert.Equal(t, programa, *f.ProgramaID)
}

func TestForActor_RolDesconocidoRechazado(t *testing.T) {
	_, err := scope.ForActor(scope.Actor{UserID: uuid.New(), Rol: "INVITADO"})
	assert.Error(t, err)
}
