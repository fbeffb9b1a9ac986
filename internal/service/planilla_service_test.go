package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/INGMEGANO/PSPVoteBackend/internal/dto"
	"github.com/INGMEGANO/PSPVoteBackend/internal/model"
	"github.com/INGMEGANO/PSPVoteBackend/internal/service"
)

type stubSweeper struct {
	cedulas []string
}

func (s *stubSweeper) Encolar(_ context.Context, cedula string) error {
	s.cedulas = append(s.cedulas, cedula)
	return nil
}

var _ service.SweepEnqueuer = (*stubSweeper)(nil)

func buildPlanillaSvc() (service.PlanillaService, *stubVotacionRepo, *stubLiderRepo, *stubAuditoriaRepo, *stubSweeper) {
	votRepo := newStubVotacionRepo()
	liderRepo := newStubLiderRepo()
	audRepo := newStubAuditoriaRepo()
	sweeper := &stubSweeper{}
	votSvc := service.NewVotacionService(votRepo, liderRepo, audRepo, &stubProgramaRepo{}, nil)
	svc := service.NewPlanillaService(votSvc, votRepo, audRepo, sweeper)
	return svc, votRepo, liderRepo, audRepo, sweeper
}

func filaLote(cedula string, leaderID uuid.UUID) dto.CrearVotacionRequest {
	return crearReq(cedula, &leaderID)
}

func TestImportarLote_TodasLasFilasCompartenPlanilla(t *testing.T) {
	svc, votRepo, liderRepo, _, _ := buildPlanillaSvc()
	l := liderRepo.seed("Carmen")

	resp, err := svc.ImportarLote(context.Background(), adminActor(), dto.ImportarLoteRequest{
		Filas: []dto.CrearVotacionRequest{
			filaLote("100", l.ID),
			filaLote("200", l.ID),
			filaLote("300", l.ID),
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 3, resp.Total)
	assert.Equal(t, 3, resp.Creadas)
	assert.Equal(t, 3, resp.Procesadas)
	assert.Equal(t, 0, resp.Errores)
	assert.Equal(t, 1, resp.Planilla)

	for _, v := range votRepo.rows {
		require.NotNil(t, v.Planilla)
		assert.Equal(t, 1, *v.Planilla)
	}
}

func TestImportarLote_SegundoLoteTomaSiguienteNumero(t *testing.T) {
	svc, _, liderRepo, _, _ := buildPlanillaSvc()
	l := liderRepo.seed("Carmen")
	admin := adminActor()

	primero, err := svc.ImportarLote(context.Background(), admin, dto.ImportarLoteRequest{
		Filas: []dto.CrearVotacionRequest{filaLote("100", l.ID)},
	})
	require.NoError(t, err)

	segundo, err := svc.ImportarLote(context.Background(), admin, dto.ImportarLoteRequest{
		Filas: []dto.CrearVotacionRequest{filaLote("200", l.ID)},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, primero.Planilla)
	assert.Equal(t, 2, segundo.Planilla)
}

func TestImportarLote_FilaInvalidaNoDetieneElLote(t *testing.T) {
	svc, _, liderRepo, _, _ := buildPlanillaSvc()
	l := liderRepo.seed("Carmen")

	resp, err := svc.ImportarLote(context.Background(), adminActor(), dto.ImportarLoteRequest{
		Filas: []dto.CrearVotacionRequest{
			filaLote("100", l.ID),
			{Cedula: "", Nombre1: "X", Apellido1: "Y"}, // missing cedula
			filaLote("300", l.ID),
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 2, resp.Creadas)
	assert.Equal(t, 1, resp.Errores)
	assert.Equal(t, 3, resp.Procesadas)
	require.Len(t, resp.Resultados, 3)
	assert.NotEmpty(t, resp.Resultados[1].Error)
	assert.Empty(t, resp.Resultados[1].RecordID)
}

// fallaUnaVezVotacionRepo rejects the first Create and counts counter claims.
type fallaUnaVezVotacionRepo struct {
	*stubVotacionRepo
	fallosRestantes int
	reclamos        int
}

func (r *fallaUnaVezVotacionRepo) Create(ctx context.Context, tx *gorm.DB, v *model.Votacion) error {
	if r.fallosRestantes > 0 {
		r.fallosRestantes--
		return errors.New("violación de llave foránea")
	}
	return r.stubVotacionRepo.Create(ctx, tx, v)
}

func (r *fallaUnaVezVotacionRepo) NextPlanilla(ctx context.Context, tx *gorm.DB) (int, error) {
	r.reclamos++
	return r.stubVotacionRepo.NextPlanilla(ctx, tx)
}

func TestImportarLote_FilaFallidaLiberaElNumeroDePlanilla(t *testing.T) {
	votRepo := &fallaUnaVezVotacionRepo{stubVotacionRepo: newStubVotacionRepo(), fallosRestantes: 1}
	liderRepo := newStubLiderRepo()
	audRepo := newStubAuditoriaRepo()
	votSvc := service.NewVotacionService(votRepo, liderRepo, audRepo, &stubProgramaRepo{}, nil)
	svc := service.NewPlanillaService(votSvc, votRepo, audRepo, nil)
	l := liderRepo.seed("Carmen")

	resp, err := svc.ImportarLote(context.Background(), adminActor(), dto.ImportarLoteRequest{
		Filas: []dto.CrearVotacionRequest{filaLote("100", l.ID), filaLote("200", l.ID)},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, resp.Errores)
	assert.Equal(t, 1, resp.Creadas)
	assert.Equal(t, 1, resp.Planilla)

	// The rolled-back claim was released, so the surviving row re-took the
	// counter instead of inheriting a number no transaction holds.
	assert.Equal(t, 2, votRepo.reclamos)
	require.Len(t, votRepo.rows, 1)
	assert.Equal(t, "200", votRepo.rows[0].Cedula)
	require.NotNil(t, votRepo.rows[0].Planilla)
	assert.Equal(t, 1, *votRepo.rows[0].Planilla)
}

func TestImportarLote_DuplicadasContadasYEncoladas(t *testing.T) {
	svc, _, liderRepo, _, sweeper := buildPlanillaSvc()
	l := liderRepo.seed("Carmen")

	resp, err := svc.ImportarLote(context.Background(), adminActor(), dto.ImportarLoteRequest{
		Filas: []dto.CrearVotacionRequest{
			filaLote("100", l.ID),
			filaLote("100", l.ID),
			filaLote("200", l.ID),
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 3, resp.Creadas)
	assert.Equal(t, 1, resp.Duplicadas)
	assert.True(t, resp.Resultados[1].IsDuplicate)

	// Distinct cedulas only on the sweep queue.
	assert.ElementsMatch(t, []string{"100", "200"}, sweeper.cedulas)
}

func TestImportarLote_CancelacionCortaLimpio(t *testing.T) {
	svc, _, liderRepo, _, _ := buildPlanillaSvc()
	l := liderRepo.seed("Carmen")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	resp, err := svc.ImportarLote(ctx, adminActor(), dto.ImportarLoteRequest{
		Filas: []dto.CrearVotacionRequest{filaLote("100", l.ID), filaLote("200", l.ID)},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Total)
	assert.Equal(t, 0, resp.Procesadas)
}

func TestActualizarLote_ActualizaYAudita(t *testing.T) {
	svc, votRepo, liderRepo, audRepo, _ := buildPlanillaSvc()
	l := liderRepo.seed("Carmen")
	admin := adminActor()

	imp, err := svc.ImportarLote(context.Background(), admin, dto.ImportarLoteRequest{
		Filas: []dto.CrearVotacionRequest{filaLote("100", l.ID), filaLote("200", l.ID)},
	})
	require.NoError(t, err)

	resp, err := svc.ActualizarLote(context.Background(), admin, imp.Planilla, dto.ActualizarLoteRequest{
		Filas: []dto.ActualizarFilaLote{
			{Cedula: "100", Campos: dto.ActualizarVotacionRequest{Barrio: strPtr("Centro")}},
		},
	})
	require.NoError(t, err)

	require.Len(t, resp.Resultados, 1)
	assert.Equal(t, int64(1), resp.Resultados[0].Afectadas)
	assert.Len(t, audRepo.audits, 1)

	rows, err := votRepo.FindByPlanillaCedula(context.Background(), imp.Planilla, "100")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.NotNil(t, rows[0].Barrio)
	assert.Equal(t, "Centro", *rows[0].Barrio)
}

func TestActualizarLote_FilaFueraDeAlcanceSeOmite(t *testing.T) {
	svc, _, liderRepo, _, _ := buildPlanillaSvc()
	duenio := liderRepo.seed("Carmen")
	otro := liderRepo.seed("Pedro")

	imp, err := svc.ImportarLote(context.Background(), adminActor(), dto.ImportarLoteRequest{
		Filas: []dto.CrearVotacionRequest{filaLote("100", duenio.ID)},
	})
	require.NoError(t, err)

	resp, err := svc.ActualizarLote(context.Background(), liderActor(otro.ID), imp.Planilla, dto.ActualizarLoteRequest{
		Filas: []dto.ActualizarFilaLote{
			{Cedula: "100", Campos: dto.ActualizarVotacionRequest{Barrio: strPtr("Centro")}},
		},
	})
	require.NoError(t, err)

	require.Len(t, resp.Resultados, 1)
	assert.Equal(t, int64(0), resp.Resultados[0].Afectadas)
	assert.Empty(t, resp.Resultados[0].Error)
}

func TestListarPorPlanilla_FiltraPorNumero(t *testing.T) {
	svc, _, liderRepo, _, _ := buildPlanillaSvc()
	l := liderRepo.seed("Carmen")
	admin := adminActor()

	uno, err := svc.ImportarLote(context.Background(), admin, dto.ImportarLoteRequest{
		Filas: []dto.CrearVotacionRequest{filaLote("100", l.ID), filaLote("200", l.ID)},
	})
	require.NoError(t, err)
	_, err = svc.ImportarLote(context.Background(), admin, dto.ImportarLoteRequest{
		Filas: []dto.CrearVotacionRequest{filaLote("300", l.ID)},
	})
	require.NoError(t, err)

	lista, err := svc.ListarPorPlanilla(context.Background(), admin, uno.Planilla)
	require.NoError(t, err)
	assert.Len(t, lista, 2)
}

func TestResumen_AgrupaPorPlanilla(t *testing.T) {
	svc, _, liderRepo, _, _ := buildPlanillaSvc()
	l := liderRepo.seed("Carmen")
	admin := adminActor()

	_, err := svc.ImportarLote(context.Background(), admin, dto.ImportarLoteRequest{
		Filas: []dto.CrearVotacionRequest{filaLote("100", l.ID), filaLote("200", l.ID)},
	})
	require.NoError(t, err)
	_, err = svc.ImportarLote(context.Background(), admin, dto.ImportarLoteRequest{
		Filas: []dto.CrearVotacionRequest{filaLote("300", l.ID)},
	})
	require.NoError(t, err)

	resumen, err := svc.Resumen(context.Background(), admin)
	require.NoError(t, err)
	require.Len(t, resumen, 2)
	assert.Equal(t, 1, resumen[0].Planilla)
	assert.Equal(t, int64(2), resumen[0].Total)
	assert.Equal(t, 2, resumen[1].Planilla)
	assert.Equal(t, int64(1), resumen[1].Total)
}
