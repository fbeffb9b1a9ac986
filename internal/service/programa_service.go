package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/INGMEGANO/PSPVoteBackend/internal/dto"
	"github.com/INGMEGANO/PSPVoteBackend/internal/model"
	"github.com/INGMEGANO/PSPVoteBackend/internal/repository"
)

type ProgramaService interface {
	Listar(ctx context.Context) ([]dto.ProgramaResponse, error)
	Sedes(ctx context.Context, programaID uuid.UUID) ([]dto.SedeResponse, error)
	Tipos(ctx context.Context) ([]model.TipoVinculacion, error)
	// Opciones expands the catalog into every selectable
	// programa/sede/tipo combination for the capture forms.
	Opciones(ctx context.Context) ([]dto.OpcionPrograma, error)
}

type programaService struct {
	repo repository.ProgramaRepository
}

func NewProgramaService(repo repository.ProgramaRepository) ProgramaService {
	return &programaService{repo: repo}
}

func (s *programaService) Listar(ctx context.Context) ([]dto.ProgramaResponse, error) {
	ps, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProgramaResponse, 0, len(ps))
	for i := range ps {
		out = append(out, dto.ProgramaResponse{
			ID:         ps[i].ID.String(),
			Nombre:     ps[i].Nombre,
			TieneSedes: ps[i].TieneSedes,
		})
	}
	return out, nil
}

func (s *programaService) Sedes(ctx context.Context, programaID uuid.UUID) ([]dto.SedeResponse, error) {
	ss, err := s.repo.SedesPorPrograma(ctx, programaID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SedeResponse, 0, len(ss))
	for i := range ss {
		out = append(out, dto.SedeResponse{ID: ss[i].ID.String(), Nombre: ss[i].Nombre})
	}
	return out, nil
}

func (s *programaService) Tipos(ctx context.Context) ([]model.TipoVinculacion, error) {
	return s.repo.Tipos(ctx)
}

func (s *programaService) Opciones(ctx context.Context) ([]dto.OpcionPrograma, error) {
	programas, err := s.repo.ListConSedes(ctx)
	if err != nil {
		return nil, err
	}
	tipos, err := s.repo.Tipos(ctx)
	if err != nil {
		return nil, err
	}

	var out []dto.OpcionPrograma
	for i := range programas {
		p := &programas[i]
		for j := range tipos {
			t := &tipos[j]
			// The volunteer marker always reads unpaid on the form.
			esPago := t.EsPago && t.Nombre != model.TipoCorazon

			if !p.TieneSedes || len(p.Sedes) == 0 {
				out = append(out, dto.OpcionPrograma{
					Label:             fmt.Sprintf("%s - %s", p.Nombre, t.Nombre),
					ProgramaID:        p.ID.String(),
					TipoVinculacionID: t.ID.String(),
					EsPago:            esPago,
				})
				continue
			}
			for k := range p.Sedes {
				sede := &p.Sedes[k]
				sid := sede.ID.String()
				out = append(out, dto.OpcionPrograma{
					Label:             fmt.Sprintf("%s - %s - %s", p.Nombre, sede.Nombre, t.Nombre),
					ProgramaID:        p.ID.String(),
					SedeID:            &sid,
					TipoVinculacionID: t.ID.String(),
					EsPago:            esPago,
				})
			}
		}
	}
	return out, nil
}
