package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/INGMEGANO/PSPVoteBackend/internal/dto"
	"github.com/INGMEGANO/PSPVoteBackend/internal/model"
	"github.com/INGMEGANO/PSPVoteBackend/internal/service"
)

func buildDashboardSvc() (service.DashboardService, *stubVotacionRepo, *stubLiderRepo, *stubUsuarioRepo, *stubPuestoRepo) {
	votRepo := newStubVotacionRepo()
	liderRepo := newStubLiderRepo()
	usuarioRepo := newStubUsuarioRepo()
	puestoRepo := newStubPuestoRepo()
	svc := service.NewDashboardService(votRepo, liderRepo, usuarioRepo, puestoRepo, nil, time.Minute)
	return svc, votRepo, liderRepo, usuarioRepo, puestoRepo
}

func boolPtr(b bool) *bool { return &b }

// seedFila inserts a row directly, bypassing the service, so tests control
// the preloaded relations the aggregator reads.
func seedFila(t *testing.T, repo *stubVotacionRepo, lider *model.Lider, esPago bool, tipo *model.TipoVinculacion) *model.Votacion {
	t.Helper()
	v := &model.Votacion{
		Cedula:    uuid.NewString()[:8],
		Nombre1:   "Ana",
		Apellido1: "Ruiz",
		LeaderID:  lider.ID,
		Leader:    lider,
		EsPago:    boolPtr(esPago),
		Tipo:      tipo,
		Activo:    true,
	}
	require.NoError(t, repo.Create(context.Background(), nil, v))
	return v
}

func TestDashboard_CorazonCuentaComoNoPago(t *testing.T) {
	svc, votRepo, liderRepo, _, _ := buildDashboardSvc()
	l := liderRepo.seed("Carmen")
	corazon := &model.TipoVinculacion{ID: uuid.New(), Nombre: model.TipoCorazon, EsPago: true}

	seedFila(t, votRepo, l, true, nil)
	// Flagged paid but CORAZÓN: must land on the unpaid side.
	seedFila(t, votRepo, l, true, corazon)
	seedFila(t, votRepo, l, false, nil)

	resp, err := svc.Dashboard(context.Background(), adminActor(), dto.VotacionQuery{})
	require.NoError(t, err)

	assert.Equal(t, 3, resp.TotalVotaciones)
	require.Len(t, resp.Pagos, 2)
	assert.True(t, resp.Pagos[0].EsPago)
	assert.Equal(t, 1, resp.Pagos[0].Total)
	assert.Equal(t, 2, resp.Pagos[1].Total)
	assert.InDelta(t, 33.33, resp.Pagos[0].Porcentaje, 0.001)
	assert.InDelta(t, 66.67, resp.Pagos[1].Porcentaje, 0.001)
}

func TestDashboard_PorcentajesSobreTotalGeneral(t *testing.T) {
	svc, votRepo, liderRepo, _, _ := buildDashboardSvc()
	carmen := liderRepo.seed("Carmen")
	pedro := liderRepo.seed("Pedro")

	seedFila(t, votRepo, carmen, true, nil)
	seedFila(t, votRepo, carmen, false, nil)
	seedFila(t, votRepo, carmen, false, nil)
	seedFila(t, votRepo, pedro, true, nil)

	resp, err := svc.Dashboard(context.Background(), adminActor(), dto.VotacionQuery{})
	require.NoError(t, err)

	require.Len(t, resp.PorLider, 2)
	// Ordered by total descending.
	assert.Equal(t, "Carmen", resp.PorLider[0].Lider)
	assert.Equal(t, 3, resp.PorLider[0].Total)
	assert.InDelta(t, 75.0, resp.PorLider[0].PorcentajeTotal, 0.001)
	assert.InDelta(t, 25.0, resp.PorLider[0].PorcentajePago, 0.001)
	assert.Equal(t, "Pedro", resp.PorLider[1].Lider)
	assert.InDelta(t, 25.0, resp.PorLider[1].PorcentajeTotal, 0.001)
}

func TestDashboard_SinRegistrosNoDividePorCero(t *testing.T) {
	svc, _, _, _, _ := buildDashboardSvc()

	resp, err := svc.Dashboard(context.Background(), adminActor(), dto.VotacionQuery{})
	require.NoError(t, err)

	assert.Equal(t, 0, resp.TotalVotaciones)
	assert.Equal(t, 0.0, resp.Pagos[0].Porcentaje)
	assert.Equal(t, 0.0, resp.Pagos[1].Porcentaje)
	assert.Empty(t, resp.PorLider)
}

func TestResumen_PorcentajesSobreSubtotalDeGrupo(t *testing.T) {
	svc, votRepo, liderRepo, _, _ := buildDashboardSvc()
	carmen := liderRepo.seed("Carmen")
	pedro := liderRepo.seed("Pedro")

	seedFila(t, votRepo, carmen, true, nil)
	seedFila(t, votRepo, carmen, false, nil)
	seedFila(t, votRepo, pedro, true, nil)

	resp, err := svc.Resumen(context.Background(), adminActor(), dto.VotacionQuery{})
	require.NoError(t, err)

	assert.Equal(t, 3, resp.Total)
	require.Len(t, resp.PorLider, 2)
	carmenRow := resp.PorLider[0]
	assert.Equal(t, "Carmen", carmenRow.Lider)
	// 1 of 2 within the group, not 1 of 3 overall.
	assert.InDelta(t, 50.0, carmenRow.PorcentajePago, 0.001)
	assert.InDelta(t, 50.0, carmenRow.PorcentajeNoPago, 0.001)
	assert.Equal(t, 100.0, carmenRow.PorcentajeTotal)
}

func TestPorFecha_AgrupaPorDiaOrdenado(t *testing.T) {
	svc, votRepo, liderRepo, _, _ := buildDashboardSvc()
	l := liderRepo.seed("Carmen")

	a := seedFila(t, votRepo, l, false, nil)
	b := seedFila(t, votRepo, l, false, nil)
	c := seedFila(t, votRepo, l, false, nil)
	a.CreatedAt = time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	b.CreatedAt = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	c.CreatedAt = time.Date(2026, 3, 2, 15, 0, 0, 0, time.UTC)

	out, err := svc.PorFecha(context.Background(), adminActor(), dto.VotacionQuery{})
	require.NoError(t, err)

	require.Len(t, out, 2)
	assert.Equal(t, "2026-03-01", out[0].Fecha)
	assert.Equal(t, int64(1), out[0].Total)
	assert.Equal(t, "2026-03-02", out[1].Fecha)
	assert.Equal(t, int64(2), out[1].Total)
	assert.InDelta(t, 66.67, out[1].Porcentaje, 0.001)
}

func TestPorLider_ResuelveNombresYOrdena(t *testing.T) {
	svc, votRepo, liderRepo, _, _ := buildDashboardSvc()
	carmen := liderRepo.seed("Carmen")
	pedro := liderRepo.seed("Pedro")

	seedFila(t, votRepo, carmen, false, nil)
	seedFila(t, votRepo, pedro, false, nil)
	seedFila(t, votRepo, pedro, false, nil)

	out, err := svc.PorLider(context.Background(), adminActor(), dto.VotacionQuery{})
	require.NoError(t, err)

	require.Len(t, out, 2)
	assert.Equal(t, "Pedro", out[0].Clave)
	assert.Equal(t, int64(2), out[0].Total)
	assert.InDelta(t, 66.67, out[0].Porcentaje, 0.001)
	assert.Equal(t, "Carmen", out[1].Clave)
}

func TestDuplicados_ResumenConPorcentaje(t *testing.T) {
	svc, votRepo, liderRepo, _, _ := buildDashboardSvc()
	l := liderRepo.seed("Carmen")

	base := seedFila(t, votRepo, l, false, nil)
	dup := seedFila(t, votRepo, l, false, nil)
	dup.IsDuplicate = true
	dup.DuplicadaDeID = &base.ID
	seedFila(t, votRepo, l, false, nil)
	seedFila(t, votRepo, l, false, nil)

	out, err := svc.Duplicados(context.Background(), adminActor())
	require.NoError(t, err)

	assert.Equal(t, int64(1), out.TotalDuplicados)
	assert.InDelta(t, 25.0, out.Porcentaje, 0.001)
	require.Len(t, out.PorLider, 1)
	assert.Equal(t, "Carmen", out.PorLider[0].Clave)
}

func TestRolesChart_OrdenFijoDeRoles(t *testing.T) {
	svc, _, _, usuarioRepo, _ := buildDashboardSvc()
	require.NoError(t, usuarioRepo.Create(context.Background(), &model.Usuario{Username: "a", Rol: model.RolAdmin}))
	require.NoError(t, usuarioRepo.Create(context.Background(), &model.Usuario{Username: "b", Rol: model.RolLider}))
	require.NoError(t, usuarioRepo.Create(context.Background(), &model.Usuario{Username: "c", Rol: model.RolLider}))
	require.NoError(t, usuarioRepo.Create(context.Background(), &model.Usuario{Username: "d", Rol: model.RolDigitador}))

	out, err := svc.RolesChart(context.Background())
	require.NoError(t, err)

	require.Len(t, out, 3)
	assert.Equal(t, model.RolAdmin, out[0].Nombre)
	assert.Equal(t, int64(1), out[0].Total)
	assert.Equal(t, model.RolLider, out[1].Nombre)
	assert.Equal(t, int64(2), out[1].Total)
	assert.InDelta(t, 50.0, out[1].Porcentaje, 0.001)
	assert.Equal(t, model.RolDigitador, out[2].Nombre)
}

func TestPuestosChart_ResuelveNombresYCuentaActivas(t *testing.T) {
	svc, votRepo, liderRepo, _, puestoRepo := buildDashboardSvc()
	l := liderRepo.seed("Carmen")
	a := &model.PuestoVotacion{Puesto: "Colegio A", Mujeres: 1, Hombres: 1, Total: 2}
	require.NoError(t, puestoRepo.Create(context.Background(), a))

	v1 := seedFila(t, votRepo, l, false, nil)
	v1.PuestoVotacionID = &a.ID
	v2 := seedFila(t, votRepo, l, false, nil)
	v2.PuestoVotacionID = &a.ID
	v2.Activo = false

	out, err := svc.PuestosChart(context.Background())
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "Colegio A", out[0].Clave)
	assert.Equal(t, int64(1), out[0].Total)
}

func TestGeneroChart_SumaCensoDePuestos(t *testing.T) {
	svc, _, _, _, puestoRepo := buildDashboardSvc()
	require.NoError(t, puestoRepo.Create(context.Background(), &model.PuestoVotacion{Puesto: "Colegio A", Mujeres: 300, Hombres: 200, Total: 500}))
	require.NoError(t, puestoRepo.Create(context.Background(), &model.PuestoVotacion{Puesto: "Colegio B", Mujeres: 100, Hombres: 150, Total: 250}))

	out, err := svc.GeneroChart(context.Background())
	require.NoError(t, err)

	require.Len(t, out, 2)
	assert.Equal(t, "Mujeres", out[0].Genero)
	assert.Equal(t, 400, out[0].Total)
	assert.InDelta(t, 53.33, out[0].Porcentaje, 0.001)
	assert.Equal(t, 350, out[1].Total)
}
