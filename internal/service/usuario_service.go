package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/INGMEGANO/PSPVoteBackend/internal/dto"
	"github.com/INGMEGANO/PSPVoteBackend/internal/model"
	"github.com/INGMEGANO/PSPVoteBackend/internal/repository"
	"github.com/INGMEGANO/PSPVoteBackend/internal/scope"
)

type UsuarioService interface {
	Crear(ctx context.Context, actor scope.Actor, req dto.CrearUsuarioRequest) (*dto.UsuarioResponse, error)
	Listar(ctx context.Context, actor scope.Actor) ([]dto.UsuarioResponse, error)
	Obtener(ctx context.Context, actor scope.Actor, id uuid.UUID) (*dto.UsuarioResponse, error)
	Actualizar(ctx context.Context, actor scope.Actor, id uuid.UUID, req dto.ActualizarUsuarioRequest) (*dto.UsuarioResponse, error)
	ToggleEstado(ctx context.Context, actor scope.Actor, id uuid.UUID) (*dto.UsuarioResponse, error)
	Desactivar(ctx context.Context, actor scope.Actor, id uuid.UUID) error
}

type usuarioService struct {
	repo   repository.UsuarioRepository
	liders repository.LiderRepository
}

func NewUsuarioService(repo repository.UsuarioRepository, liders repository.LiderRepository) UsuarioService {
	return &usuarioService{repo: repo, liders: liders}
}

func (s *usuarioService) Crear(ctx context.Context, actor scope.Actor, req dto.CrearUsuarioRequest) (*dto.UsuarioResponse, error) {
	if !actor.EsAdmin() {
		return nil, ErrNoAutorizado
	}
	if _, err := s.repo.FindByUsername(ctx, req.Username); err == nil {
		return nil, ErrYaExiste
	}

	leaderID := parseUUIDPtr(req.LeaderID)
	if req.Rol == model.RolLider {
		if leaderID == nil {
			return nil, fmt.Errorf("%w: un usuario LIDER requiere leaderId", ErrValidacion)
		}
		if _, err := s.liders.FindByID(ctx, *leaderID); err != nil {
			return nil, ErrLiderNoExiste
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	u := &model.Usuario{
		Username:     req.Username,
		PasswordHash: string(hash),
		Rol:          req.Rol,
		LeaderID:     leaderID,
		Activo:       true,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}
	return usuarioToResponse(u), nil
}

func (s *usuarioService) Listar(ctx context.Context, actor scope.Actor) ([]dto.UsuarioResponse, error) {
	if !actor.EsAdmin() {
		return nil, ErrNoAutorizado
	}
	us, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.UsuarioResponse, 0, len(us))
	for i := range us {
		out = append(out, *usuarioToResponse(&us[i]))
	}
	return out, nil
}

func (s *usuarioService) Obtener(ctx context.Context, actor scope.Actor, id uuid.UUID) (*dto.UsuarioResponse, error) {
	// Anyone may read their own account; everything else is ADMIN only.
	if !actor.EsAdmin() && actor.UserID != id {
		return nil, ErrNoAutorizado
	}
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrNoEncontrada
	}
	return usuarioToResponse(u), nil
}

func (s *usuarioService) Actualizar(ctx context.Context, actor scope.Actor, id uuid.UUID, req dto.ActualizarUsuarioRequest) (*dto.UsuarioResponse, error) {
	if !actor.EsAdmin() {
		return nil, ErrNoAutorizado
	}
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrNoEncontrada
	}

	if req.Username != "" && req.Username != u.Username {
		if _, err := s.repo.FindByUsername(ctx, req.Username); err == nil {
			return nil, ErrYaExiste
		}
		u.Username = req.Username
	}
	if req.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		u.PasswordHash = string(hash)
	}
	if req.Rol != "" {
		u.Rol = req.Rol
	}
	if req.LeaderID != nil {
		lid := parseUUIDPtr(req.LeaderID)
		if lid != nil {
			if _, err := s.liders.FindByID(ctx, *lid); err != nil {
				return nil, ErrLiderNoExiste
			}
		}
		u.LeaderID = lid
	}

	if err := s.repo.Update(ctx, u); err != nil {
		return nil, err
	}
	return usuarioToResponse(u), nil
}

// ToggleEstado flips the account's Activo flag. A deactivated account is
// rejected by the auth middleware on its next request regardless of token
// expiry.
func (s *usuarioService) ToggleEstado(ctx context.Context, actor scope.Actor, id uuid.UUID) (*dto.UsuarioResponse, error) {
	if !actor.EsAdmin() {
		return nil, ErrNoAutorizado
	}
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrNoEncontrada
	}
	u.Activo = !u.Activo
	if err := s.repo.Update(ctx, u); err != nil {
		return nil, err
	}
	return usuarioToResponse(u), nil
}

func (s *usuarioService) Desactivar(ctx context.Context, actor scope.Actor, id uuid.UUID) error {
	if !actor.EsAdmin() {
		return ErrNoAutorizado
	}
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return ErrNoEncontrada
	}
	u.Activo = false
	return s.repo.Update(ctx, u)
}

func usuarioToResponse(u *model.Usuario) *dto.UsuarioResponse {
	resp := &dto.UsuarioResponse{
		ID:       u.ID.String(),
		Username: u.Username,
		Rol:      u.Rol,
		Activo:   u.Activo,
	}
	if u.LeaderID != nil {
		s := u.LeaderID.String()
		resp.LeaderID = &s
	}
	return resp
}
