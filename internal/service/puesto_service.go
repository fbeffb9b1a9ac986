package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/INGMEGANO/PSPVoteBackend/internal/dto"
	"github.com/INGMEGANO/PSPVoteBackend/internal/model"
	"github.com/INGMEGANO/PSPVoteBackend/internal/repository"
	"github.com/INGMEGANO/PSPVoteBackend/internal/scope"
)

type PuestoService interface {
	Crear(ctx context.Context, actor scope.Actor, req dto.CrearPuestoRequest) (*dto.PuestoResponse, error)
	Listar(ctx context.Context) ([]dto.PuestoResponse, error)
	Obtener(ctx context.Context, id uuid.UUID) (*dto.PuestoResponse, error)
	Actualizar(ctx context.Context, actor scope.Actor, id uuid.UUID, req dto.CrearPuestoRequest) (*dto.PuestoResponse, error)
	Eliminar(ctx context.Context, actor scope.Actor, id uuid.UUID) error
}

type puestoService struct {
	repo       repository.PuestoRepository
	votaciones repository.VotacionRepository
}

func NewPuestoService(repo repository.PuestoRepository, votaciones repository.VotacionRepository) PuestoService {
	return &puestoService{repo: repo, votaciones: votaciones}
}

func (s *puestoService) Crear(ctx context.Context, actor scope.Actor, req dto.CrearPuestoRequest) (*dto.PuestoResponse, error) {
	if !actor.EsAdmin() {
		return nil, ErrNoAutorizado
	}
	p := &model.PuestoVotacion{
		Puesto:    req.Puesto,
		Municipio: req.Municipio,
		Comuna:    req.Comuna,
		Mujeres:   req.Mujeres,
		Hombres:   req.Hombres,
	}
	p.RecalcularTotal()
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return puestoToResponse(p, 0, 0, 0), nil
}

// Listar returns every station with its three registration ratios. The
// ratios answer different questions and use different denominators:
// observed registrations, total electoral capacity, and the station's own
// capacity.
func (s *puestoService) Listar(ctx context.Context) ([]dto.PuestoResponse, error) {
	ps, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	porPuesto, err := s.votaciones.CountActivasPorPuesto(ctx)
	if err != nil {
		return nil, err
	}

	totalVotaciones := 0
	totalElectoral := 0
	for i := range ps {
		totalVotaciones += porPuesto[ps[i].ID]
		totalElectoral += ps[i].Total
	}

	out := make([]dto.PuestoResponse, 0, len(ps))
	for i := range ps {
		out = append(out, *puestoToResponse(&ps[i], porPuesto[ps[i].ID], totalVotaciones, totalElectoral))
	}
	return out, nil
}

func (s *puestoService) Obtener(ctx context.Context, id uuid.UUID) (*dto.PuestoResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrNoEncontrada
	}
	porPuesto, err := s.votaciones.CountActivasPorPuesto(ctx)
	if err != nil {
		return nil, err
	}
	ps, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	totalVotaciones := 0
	totalElectoral := 0
	for i := range ps {
		totalVotaciones += porPuesto[ps[i].ID]
		totalElectoral += ps[i].Total
	}
	return puestoToResponse(p, porPuesto[id], totalVotaciones, totalElectoral), nil
}

func (s *puestoService) Actualizar(ctx context.Context, actor scope.Actor, id uuid.UUID, req dto.CrearPuestoRequest) (*dto.PuestoResponse, error) {
	if !actor.EsAdmin() {
		return nil, ErrNoAutorizado
	}
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrNoEncontrada
	}
	p.Puesto = req.Puesto
	p.Municipio = req.Municipio
	p.Comuna = req.Comuna
	p.Mujeres = req.Mujeres
	p.Hombres = req.Hombres
	p.RecalcularTotal()
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return puestoToResponse(p, 0, 0, 0), nil
}

func (s *puestoService) Eliminar(ctx context.Context, actor scope.Actor, id uuid.UUID) error {
	if !actor.EsAdmin() {
		return ErrNoAutorizado
	}
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return ErrNoEncontrada
	}
	return s.repo.Delete(ctx, id)
}

func puestoToResponse(p *model.PuestoVotacion, votaciones, totalVotaciones, totalElectoral int) *dto.PuestoResponse {
	return &dto.PuestoResponse{
		ID:        p.ID.String(),
		Puesto:    p.Puesto,
		Municipio: p.Municipio,
		Comuna:    p.Comuna,
		Mujeres:   p.Mujeres,
		Hombres:   p.Hombres,
		Total:     p.Total,

		TotalVotaciones:           votaciones,
		PorcentajeSobreVotaciones: porcentaje(int64(votaciones), int64(totalVotaciones), 2),
		PorcentajeGeneralReal:     porcentaje(int64(votaciones), int64(totalElectoral), 4),
		PorcentajePuesto:          porcentaje(int64(votaciones), int64(p.Total), 4),
	}
}
