package service

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/INGMEGANO/PSPVoteBackend/internal/dto"
	"github.com/INGMEGANO/PSPVoteBackend/internal/model"
	"github.com/INGMEGANO/PSPVoteBackend/internal/repository"
	"github.com/INGMEGANO/PSPVoteBackend/internal/scope"
)

// SweepEnqueuer pushes a cedula onto the reconciliation queue so the worker
// pool re-checks the duplicate chain after a bulk import. Nil disables the
// sweep (tests, or Redis unavailable).
type SweepEnqueuer interface {
	Encolar(ctx context.Context, cedula string) error
}

type PlanillaService interface {
	ImportarLote(ctx context.Context, actor scope.Actor, req dto.ImportarLoteRequest) (*dto.ImportarLoteResponse, error)
	ActualizarLote(ctx context.Context, actor scope.Actor, planilla int, req dto.ActualizarLoteRequest) (*dto.ActualizarLoteResponse, error)
	ListarPorPlanilla(ctx context.Context, actor scope.Actor, planilla int) ([]dto.VotacionResponse, error)
	Resumen(ctx context.Context, actor scope.Actor) ([]dto.PlanillaResumen, error)
}

type planillaService struct {
	votaciones VotacionService
	repo       repository.VotacionRepository
	audRepo    repository.AuditoriaRepository
	sweeper    SweepEnqueuer
}

func NewPlanillaService(
	votaciones VotacionService,
	repo repository.VotacionRepository,
	audRepo repository.AuditoriaRepository,
	sweeper SweepEnqueuer,
) PlanillaService {
	return &planillaService{
		votaciones: votaciones,
		repo:       repo,
		audRepo:    audRepo,
		sweeper:    sweeper,
	}
}

// ImportarLote inserts every row of the batch under one shared planilla
// number. Each row is its own atomic unit: a failed row is reported and the
// batch keeps going. Cancellation mid-batch stops cleanly; rows already
// committed stay committed and Procesadas reflects the cut.
func (s *planillaService) ImportarLote(ctx context.Context, actor scope.Actor, req dto.ImportarLoteRequest) (*dto.ImportarLoteResponse, error) {
	resp := &dto.ImportarLoteResponse{
		Total:      len(req.Filas),
		Resultados: make([]dto.FilaResultado, 0, len(req.Filas)),
	}

	// 0 means "claim on first successful insert"; Registrar writes the
	// claimed number back and later rows reuse it.
	planilla := 0
	cedulas := make([]string, 0, len(req.Filas))

	for _, fila := range req.Filas {
		if err := ctx.Err(); err != nil {
			break
		}

		v, _, err := s.votaciones.Registrar(ctx, actor, fila, &planilla)
		resp.Procesadas++
		if err != nil {
			resp.Errores++
			resp.Resultados = append(resp.Resultados, dto.FilaResultado{
				Cedula:   fila.Cedula,
				Error:    err.Error(),
				Planilla: planilla,
			})
			continue
		}

		resp.Creadas++
		if v.IsDuplicate {
			resp.Duplicadas++
		}
		cedulas = append(cedulas, v.Cedula)
		resp.Resultados = append(resp.Resultados, dto.FilaResultado{
			Cedula:      v.Cedula,
			RecordID:    v.ID.String(),
			Planilla:    planilla,
			IsDuplicate: v.IsDuplicate,
		})
	}
	resp.Planilla = planilla

	// Post-import sweep: enqueue each distinct cedula so the worker re-runs
	// the duplicate invariant in the background. Enqueue failures do not
	// fail the import.
	if s.sweeper != nil {
		vistas := make(map[string]struct{}, len(cedulas))
		for _, c := range cedulas {
			if _, ok := vistas[c]; ok {
				continue
			}
			vistas[c] = struct{}{}
			if err := s.sweeper.Encolar(context.WithoutCancel(ctx), c); err != nil {
				log.Warn().Err(err).Str("cedula", c).Msg("no se pudo encolar la reconciliación")
			}
		}
	}

	return resp, nil
}

// ActualizarLote applies a partial update to the rows of one planilla keyed
// by cedula. Rows outside the actor's scope are skipped, not errored.
func (s *planillaService) ActualizarLote(ctx context.Context, actor scope.Actor, planilla int, req dto.ActualizarLoteRequest) (*dto.ActualizarLoteResponse, error) {
	f, err := scope.ForActorConDigitador(actor)
	if err != nil {
		return nil, err
	}

	resp := &dto.ActualizarLoteResponse{
		Planilla:   planilla,
		Resultados: make([]dto.ActualizarFilaResultado, 0, len(req.Filas)),
	}

	for _, fila := range req.Filas {
		res := dto.ActualizarFilaResultado{Cedula: fila.Cedula}

		rows, err := s.repo.FindByPlanillaCedula(ctx, planilla, fila.Cedula)
		if err != nil {
			res.Error = err.Error()
			resp.Resultados = append(resp.Resultados, res)
			continue
		}
		for i := range rows {
			v := &rows[i]
			if !f.Permite(v) {
				continue
			}
			oldSnap, err := json.Marshal(v)
			if err != nil {
				res.Error = err.Error()
				break
			}
			aplicarCampos(v, fila.Campos)
			if err := s.repo.Save(ctx, v); err != nil {
				res.Error = err.Error()
				break
			}
			newSnap, err := json.Marshal(v)
			if err != nil {
				res.Error = err.Error()
				break
			}
			if err := s.audRepo.CreateAudit(ctx, &model.Auditoria{
				Tabla:      "votaciones",
				RecordID:   v.ID,
				OldValues:  oldSnap,
				NewValues:  newSnap,
				ModifiedBy: actor.UserID,
			}); err != nil {
				res.Error = err.Error()
				break
			}
			res.Afectadas++
		}
		resp.Resultados = append(resp.Resultados, res)
	}
	return resp, nil
}

func (s *planillaService) ListarPorPlanilla(ctx context.Context, actor scope.Actor, planilla int) ([]dto.VotacionResponse, error) {
	f, err := scope.ForActorConDigitador(actor)
	if err != nil {
		return nil, err
	}
	vs, err := s.repo.ListByPlanilla(ctx, f, planilla)
	if err != nil {
		return nil, err
	}
	out := make([]dto.VotacionResponse, 0, len(vs))
	for i := range vs {
		out = append(out, *votacionToResponse(&vs[i]))
	}
	return out, nil
}

func (s *planillaService) Resumen(ctx context.Context, actor scope.Actor) ([]dto.PlanillaResumen, error) {
	f, err := scope.ForActorConDigitador(actor)
	if err != nil {
		return nil, err
	}
	return s.repo.ResumenPlanillas(ctx, f)
}
