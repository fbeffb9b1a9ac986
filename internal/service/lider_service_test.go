package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/INGMEGANO/PSPVoteBackend/internal/dto"
	"github.com/INGMEGANO/PSPVoteBackend/internal/model"
	"github.com/INGMEGANO/PSPVoteBackend/internal/service"
)

func buildLiderSvc() (service.LiderService, *stubLiderRepo, *stubUsuarioRepo) {
	liderRepo := newStubLiderRepo()
	usuarioRepo := newStubUsuarioRepo()
	return service.NewLiderService(liderRepo, usuarioRepo), liderRepo, usuarioRepo
}

func TestCrearLider_SoloAdmin(t *testing.T) {
	svc, liderRepo, _ := buildLiderSvc()
	l := liderRepo.seed("Carmen")

	_, err := svc.Crear(context.Background(), liderActor(l.ID), dto.CrearLiderRequest{Nombre: "Nuevo"})
	assert.ErrorIs(t, err, service.ErrNoAutorizado)

	resp, err := svc.Crear(context.Background(), adminActor(), dto.CrearLiderRequest{Nombre: "Nuevo"})
	require.NoError(t, err)
	assert.Equal(t, "Nuevo", resp.Nombre)
	assert.True(t, resp.Activo)
}

func TestCrearLider_RecomendadorInexistente(t *testing.T) {
	svc, _, _ := buildLiderSvc()
	falso := uuid.NewString()

	_, err := svc.Crear(context.Background(), adminActor(), dto.CrearLiderRequest{
		Nombre:           "Nuevo",
		RecomendadoPorID: &falso,
	})
	assert.ErrorIs(t, err, service.ErrLiderNoExiste)
}

func TestCrearLider_VinculaCuentaComoLider(t *testing.T) {
	svc, _, usuarioRepo := buildLiderSvc()
	u := &model.Usuario{Username: "pepe", Rol: model.RolDigitador, Activo: true}
	require.NoError(t, usuarioRepo.Create(context.Background(), u))
	uid := u.ID.String()

	resp, err := svc.Crear(context.Background(), adminActor(), dto.CrearLiderRequest{
		Nombre: "Pepe Líder",
		UserID: &uid,
	})
	require.NoError(t, err)

	actualizado, err := usuarioRepo.FindByID(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RolLider, actualizado.Rol)
	require.NotNil(t, actualizado.LeaderID)
	assert.Equal(t, resp.ID, actualizado.LeaderID.String())
}

func TestActualizarLider_AutoRecomendacionRechazada(t *testing.T) {
	svc, liderRepo, _ := buildLiderSvc()
	l := liderRepo.seed("Carmen")
	propio := l.ID.String()

	_, err := svc.Actualizar(context.Background(), adminActor(), l.ID, dto.ActualizarLiderRequest{
		RecomendadoPorID: &propio,
	})
	assert.ErrorIs(t, err, service.ErrCicloRecomendacion)
}

func TestActualizarLider_CicloIndirectoRechazado(t *testing.T) {
	svc, liderRepo, _ := buildLiderSvc()
	a := liderRepo.seed("A")
	b := liderRepo.seed("B")
	c := liderRepo.seed("C")
	// A <- B <- C: closing C as A's recommender would loop.
	b.RecomendadoPorID = &a.ID
	c.RecomendadoPorID = &b.ID

	cid := c.ID.String()
	_, err := svc.Actualizar(context.Background(), adminActor(), a.ID, dto.ActualizarLiderRequest{
		RecomendadoPorID: &cid,
	})
	assert.ErrorIs(t, err, service.ErrCicloRecomendacion)
}

func TestActualizarLider_CadenaValidaAceptada(t *testing.T) {
	svc, liderRepo, _ := buildLiderSvc()
	a := liderRepo.seed("A")
	b := liderRepo.seed("B")

	aid := a.ID.String()
	resp, err := svc.Actualizar(context.Background(), adminActor(), b.ID, dto.ActualizarLiderRequest{
		RecomendadoPorID: &aid,
	})
	require.NoError(t, err)
	require.NotNil(t, resp.RecomendadoPorID)
	assert.Equal(t, aid, *resp.RecomendadoPorID)
}

func TestDesactivarLider(t *testing.T) {
	svc, liderRepo, _ := buildLiderSvc()
	l := liderRepo.seed("Carmen")

	require.NoError(t, svc.Desactivar(context.Background(), adminActor(), l.ID))

	stored, err := liderRepo.FindByID(context.Background(), l.ID)
	require.NoError(t, err)
	assert.False(t, stored.Activo)
}

func TestAsignarUsuario_CambiaRolYVinculo(t *testing.T) {
	svc, liderRepo, usuarioRepo := buildLiderSvc()
	l := liderRepo.seed("Carmen")
	u := &model.Usuario{Username: "ana", Rol: model.RolDigitador, Activo: true}
	require.NoError(t, usuarioRepo.Create(context.Background(), u))

	resp, err := svc.AsignarUsuario(context.Background(), adminActor(), dto.AsignarUsuarioRequest{
		UserID:   u.ID.String(),
		LeaderID: l.ID.String(),
	})
	require.NoError(t, err)
	assert.Equal(t, model.RolLider, resp.Rol)
	require.NotNil(t, resp.LeaderID)
	assert.Equal(t, l.ID.String(), *resp.LeaderID)
}

func TestAsignarUsuario_LiderInexistente(t *testing.T) {
	svc, _, usuarioRepo := buildLiderSvc()
	u := &model.Usuario{Username: "ana", Rol: model.RolDigitador, Activo: true}
	require.NoError(t, usuarioRepo.Create(context.Background(), u))

	_, err := svc.AsignarUsuario(context.Background(), adminActor(), dto.AsignarUsuarioRequest{
		UserID:   u.ID.String(),
		LeaderID: uuid.NewString(),
	})
	assert.ErrorIs(t, err, service.ErrLiderNoExiste)
}
