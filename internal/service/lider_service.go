package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/INGMEGANO/PSPVoteBackend/internal/dto"
	"github.com/INGMEGANO/PSPVoteBackend/internal/model"
	"github.com/INGMEGANO/PSPVoteBackend/internal/repository"
	"github.com/INGMEGANO/PSPVoteBackend/internal/scope"
)

type LiderService interface {
	Crear(ctx context.Context, actor scope.Actor, req dto.CrearLiderRequest) (*dto.LiderResponse, error)
	Listar(ctx context.Context) ([]dto.LiderResponse, error)
	Obtener(ctx context.Context, id uuid.UUID) (*dto.LiderResponse, error)
	Actualizar(ctx context.Context, actor scope.Actor, id uuid.UUID, req dto.ActualizarLiderRequest) (*dto.LiderResponse, error)
	Desactivar(ctx context.Context, actor scope.Actor, id uuid.UUID) error
	AsignarUsuario(ctx context.Context, actor scope.Actor, req dto.AsignarUsuarioRequest) (*dto.UsuarioResponse, error)
}

type liderService struct {
	repo     repository.LiderRepository
	usuarios repository.UsuarioRepository
}

func NewLiderService(repo repository.LiderRepository, usuarios repository.UsuarioRepository) LiderService {
	return &liderService{repo: repo, usuarios: usuarios}
}

func (s *liderService) Crear(ctx context.Context, actor scope.Actor, req dto.CrearLiderRequest) (*dto.LiderResponse, error) {
	if !actor.EsAdmin() {
		return nil, ErrNoAutorizado
	}
	if req.Nombre == "" {
		return nil, fmt.Errorf("%w: el nombre es obligatorio", ErrValidacion)
	}

	recomendadoPor := parseUUIDPtr(req.RecomendadoPorID)
	if recomendadoPor != nil {
		if _, err := s.repo.FindByID(ctx, *recomendadoPor); err != nil {
			return nil, ErrLiderNoExiste
		}
	}

	l := &model.Lider{
		Nombre:           req.Nombre,
		Telefono:         req.Telefono,
		Direccion:        req.Direccion,
		RecomendadoPorID: recomendadoPor,
		Activo:           true,
	}
	if err := s.repo.Create(ctx, l); err != nil {
		return nil, err
	}

	// Optional account link: the user becomes a LIDER bound to this leader.
	if uid := parseUUIDPtr(req.UserID); uid != nil {
		u, err := s.usuarios.FindByID(ctx, *uid)
		if err != nil {
			return nil, ErrNoEncontrada
		}
		u.Rol = model.RolLider
		u.LeaderID = &l.ID
		if err := s.usuarios.Update(ctx, u); err != nil {
			return nil, err
		}
	}

	return liderToResponse(l, 0), nil
}

func (s *liderService) Listar(ctx context.Context) ([]dto.LiderResponse, error) {
	ls, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.LiderResponse, 0, len(ls))
	for i := range ls {
		n, err := s.repo.CountVotaciones(ctx, ls[i].ID)
		if err != nil {
			return nil, err
		}
		out = append(out, *liderToResponse(&ls[i], n))
	}
	return out, nil
}

func (s *liderService) Obtener(ctx context.Context, id uuid.UUID) (*dto.LiderResponse, error) {
	l, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrNoEncontrada
	}
	n, err := s.repo.CountVotaciones(ctx, id)
	if err != nil {
		return nil, err
	}
	return liderToResponse(l, n), nil
}

func (s *liderService) Actualizar(ctx context.Context, actor scope.Actor, id uuid.UUID, req dto.ActualizarLiderRequest) (*dto.LiderResponse, error) {
	if !actor.EsAdmin() {
		return nil, ErrNoAutorizado
	}
	l, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrNoEncontrada
	}

	if req.Nombre != "" {
		l.Nombre = req.Nombre
	}
	if req.Telefono != nil {
		l.Telefono = req.Telefono
	}
	if req.Direccion != nil {
		l.Direccion = req.Direccion
	}
	if req.RecomendadoPorID != nil {
		nuevo := parseUUIDPtr(req.RecomendadoPorID)
		if nuevo != nil {
			if err := s.validarRecomendacion(ctx, id, *nuevo); err != nil {
				return nil, err
			}
		}
		l.RecomendadoPorID = nuevo
	}

	if err := s.repo.Update(ctx, l); err != nil {
		return nil, err
	}
	n, err := s.repo.CountVotaciones(ctx, id)
	if err != nil {
		return nil, err
	}
	return liderToResponse(l, n), nil
}

// validarRecomendacion rejects a recommender edge that would make the
// recommendation graph cyclic: walking up from the proposed recommender must
// never reach the leader being edited. Self-reference is the trivial cycle.
func (s *liderService) validarRecomendacion(ctx context.Context, liderID, recomendadorID uuid.UUID) error {
	if liderID == recomendadorID {
		return ErrCicloRecomendacion
	}

	ls, err := s.repo.List(ctx)
	if err != nil {
		return err
	}
	padres := make(map[uuid.UUID]*uuid.UUID, len(ls))
	existe := make(map[uuid.UUID]bool, len(ls))
	for i := range ls {
		padres[ls[i].ID] = ls[i].RecomendadoPorID
		existe[ls[i].ID] = true
	}
	if !existe[recomendadorID] {
		return ErrLiderNoExiste
	}

	visitados := map[uuid.UUID]bool{}
	actual := &recomendadorID
	for actual != nil {
		if *actual == liderID {
			return ErrCicloRecomendacion
		}
		if visitados[*actual] {
			break
		}
		visitados[*actual] = true
		actual = padres[*actual]
	}
	return nil
}

func (s *liderService) Desactivar(ctx context.Context, actor scope.Actor, id uuid.UUID) error {
	if !actor.EsAdmin() {
		return ErrNoAutorizado
	}
	l, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return ErrNoEncontrada
	}
	l.Activo = false
	return s.repo.Update(ctx, l)
}

// AsignarUsuario binds an existing account to a leader, making the account a
// LIDER whose scope resolves to that leader.
func (s *liderService) AsignarUsuario(ctx context.Context, actor scope.Actor, req dto.AsignarUsuarioRequest) (*dto.UsuarioResponse, error) {
	if !actor.EsAdmin() {
		return nil, ErrNoAutorizado
	}
	uid, err := uuid.Parse(req.UserID)
	if err != nil {
		return nil, fmt.Errorf("%w: userId inválido", ErrValidacion)
	}
	lid, err := uuid.Parse(req.LeaderID)
	if err != nil {
		return nil, fmt.Errorf("%w: leaderId inválido", ErrValidacion)
	}

	if _, err := s.repo.FindByID(ctx, lid); err != nil {
		return nil, ErrLiderNoExiste
	}
	u, err := s.usuarios.FindByID(ctx, uid)
	if err != nil {
		return nil, ErrNoEncontrada
	}

	u.Rol = model.RolLider
	u.LeaderID = &lid
	if err := s.usuarios.Update(ctx, u); err != nil {
		return nil, err
	}
	return usuarioToResponse(u), nil
}

func liderToResponse(l *model.Lider, votaciones int64) *dto.LiderResponse {
	resp := &dto.LiderResponse{
		ID:              l.ID.String(),
		Nombre:          l.Nombre,
		Telefono:        l.Telefono,
		Direccion:       l.Direccion,
		Activo:          l.Activo,
		TotalVotaciones: votaciones,
	}
	if l.RecomendadoPorID != nil {
		s := l.RecomendadoPorID.String()
		resp.RecomendadoPorID = &s
	}
	if l.RecomendadoPor != nil {
		resp.RecomendadoPor = l.RecomendadoPor.Nombre
	}
	return resp
}
