package service

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/INGMEGANO/PSPVoteBackend/internal/dto"
	"github.com/INGMEGANO/PSPVoteBackend/internal/model"
	"github.com/INGMEGANO/PSPVoteBackend/internal/repository"
	"github.com/INGMEGANO/PSPVoteBackend/internal/scope"
)

// CacheInvalidator drops cached dashboard responses after a write.
// Implemented by DashboardService; nil disables invalidation (tests).
type CacheInvalidator interface {
	Invalidar(ctx context.Context)
}

type VotacionService interface {
	// Registrar runs the full duplicate-detection insert. planilla is nil for
	// single creates and carries the shared batch number on bulk import.
	// Passing *planilla == 0 claims the next planilla number under the
	// counter lock, in the same transaction as the insert, and writes the
	// claimed number back through the pointer.
	// The returned warning is non-empty when the row was recorded as a
	// duplicate — duplication is recorded, never rejected.
	Registrar(ctx context.Context, actor scope.Actor, req dto.CrearVotacionRequest, planilla *int) (*model.Votacion, string, error)

	Crear(ctx context.Context, actor scope.Actor, req dto.CrearVotacionRequest) (*dto.VotacionResponse, error)
	Listar(ctx context.Context, actor scope.Actor, q dto.VotacionQuery) (*dto.VotacionListResponse, error)
	Obtener(ctx context.Context, actor scope.Actor, id uuid.UUID) (*dto.VotacionResponse, error)
	BuscarPorCedula(ctx context.Context, actor scope.Actor, cedula string) ([]dto.VotacionResponse, error)
	Actualizar(ctx context.Context, actor scope.Actor, id uuid.UUID, req dto.ActualizarVotacionRequest) (*dto.VotacionResponse, error)

	ToggleEstado(ctx context.Context, actor scope.Actor, id uuid.UUID, observacion *string) (*dto.VotacionResponse, error)
	Desactivar(ctx context.Context, actor scope.Actor, id uuid.UUID, observacion *string) error
	Confirmar(ctx context.Context, actor scope.Actor, id uuid.UUID, req dto.ConfirmarRequest) error
	Reasignar(ctx context.Context, actor scope.Actor, id, nuevoLiderID uuid.UUID) (*dto.VotacionResponse, error)
	EliminarDefinitivo(ctx context.Context, actor scope.Actor, id uuid.UUID) error

	ListarDuplicadas(ctx context.Context, actor scope.Actor) ([]dto.VotacionResponse, error)
	ListarDuplicadasDe(ctx context.Context, actor scope.Actor, baseID uuid.UUID) ([]dto.VotacionResponse, error)

	// ReconciliarCedula re-runs the duplicate invariant for one document
	// number: the earliest row is the base, every later row chains to it.
	// Used at insert time and by the post-import worker sweep.
	ReconciliarCedula(ctx context.Context, cedula string) error
}

type votacionService struct {
	repo      repository.VotacionRepository
	liderRepo repository.LiderRepository
	audRepo   repository.AuditoriaRepository
	progRepo  repository.ProgramaRepository
	cache     CacheInvalidator
}

func NewVotacionService(
	repo repository.VotacionRepository,
	liderRepo repository.LiderRepository,
	audRepo repository.AuditoriaRepository,
	progRepo repository.ProgramaRepository,
	cache CacheInvalidator,
) VotacionService {
	return &votacionService{
		repo:      repo,
		liderRepo: liderRepo,
		audRepo:   audRepo,
		progRepo:  progRepo,
		cache:     cache,
	}
}

// ── Registro y detección de duplicados ───────────────────────────────────────

func (s *votacionService) Registrar(ctx context.Context, actor scope.Actor, req dto.CrearVotacionRequest, planilla *int) (*model.Votacion, string, error) {
	if req.Cedula == "" {
		return nil, "", fmt.Errorf("%w: la cédula es obligatoria", ErrValidacion)
	}
	if req.Nombre1 == "" || req.Apellido1 == "" {
		return nil, "", fmt.Errorf("%w: nombre1 y apellido1 son obligatorios", ErrValidacion)
	}

	leaderID, digitadorID, err := s.resolverPropiedad(actor, req)
	if err != nil {
		return nil, "", err
	}

	v := &model.Votacion{
		Cedula:           req.Cedula,
		Nombre1:          req.Nombre1,
		Nombre2:          req.Nombre2,
		Apellido1:        req.Apellido1,
		Apellido2:        req.Apellido2,
		Telefono:         req.Telefono,
		Direccion:        req.Direccion,
		Barrio:           req.Barrio,
		PuestoVotacionID: parseUUIDPtr(req.PuestoVotacion),
		LeaderID:         leaderID,
		DigitadorID:      digitadorID,
		RecomendadoPorID: parseUUIDPtr(req.RecomendadoPorID),
		ProgramaID:       parseUUIDPtr(req.ProgramaID),
		SedeID:           parseUUIDPtr(req.SedeID),
		TipoID:           parseUUIDPtr(req.TipoID),
		EsPago:           req.EsPago,
		Planilla:         planilla,
		Activo:           true,
	}

	// Denormalize the paid flag from the affiliation type when not supplied.
	if v.EsPago == nil && v.TipoID != nil {
		if tipo, err := s.progRepo.FindTipoByID(ctx, *v.TipoID); err == nil {
			esPago := tipo.EsPago && tipo.Nombre != model.TipoCorazon
			v.EsPago = &esPago
		}
	}

	// Insert-then-reconcile under a per-cedula advisory lock: concurrent
	// inserts of the same document number serialize here, so after any burst
	// settles exactly one row is non-duplicate and the rest chain to it.
	// Duplicate detection is global — any leader's prior entry counts.
	warning := ""
	reclamada := false
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		// Claim-and-insert in one transaction: the counter lock is held
		// until commit, so a concurrent import sees this row's planilla
		// in MAX() and cannot claim the same number.
		if planilla != nil && *planilla == 0 {
			if err := s.repo.LockPlanillaCounter(ctx, tx); err != nil {
				return err
			}
			n, err := s.repo.NextPlanilla(ctx, tx)
			if err != nil {
				return err
			}
			*planilla = n
			reclamada = true
		}
		if err := s.repo.LockCedula(ctx, tx, v.Cedula); err != nil {
			return err
		}
		if err := s.repo.Create(ctx, tx, v); err != nil {
			return err
		}
		base, err := s.reconciliar(ctx, tx, v.Cedula)
		if err != nil {
			return err
		}
		if base != nil && base.ID != v.ID {
			v.IsDuplicate = true
			v.DuplicadaDeID = &base.ID
			warning = fmt.Sprintf("La cédula %s ya está registrada; la votación se guardó marcada como duplicada", v.Cedula)
		}
		return nil
	})
	if txErr != nil {
		// The rollback un-reserved the number, so a later row must re-take
		// the counter lock instead of reusing a stale claim.
		if reclamada {
			*planilla = 0
		}
		return nil, "", txErr
	}

	if s.cache != nil {
		s.cache.Invalidar(ctx)
	}
	return v, warning, nil
}

// resolverPropiedad derives the ownership pair from the actor's role.
// LIDER/DIGITADOR actors cannot set leaderId directly; ADMIN must supply it.
func (s *votacionService) resolverPropiedad(actor scope.Actor, req dto.CrearVotacionRequest) (uuid.UUID, *uuid.UUID, error) {
	switch actor.Rol {
	case model.RolAdmin:
		lid := parseUUIDPtr(req.LeaderID)
		if lid == nil {
			return uuid.Nil, nil, fmt.Errorf("%w: leaderId es obligatorio", ErrValidacion)
		}
		return *lid, nil, nil
	case model.RolLider:
		if actor.LeaderID == nil {
			return uuid.Nil, nil, scope.ErrSinLider
		}
		return *actor.LeaderID, nil, nil
	case model.RolDigitador:
		lid := parseUUIDPtr(req.LeaderID)
		if lid == nil {
			return uuid.Nil, nil, fmt.Errorf("%w: leaderId es obligatorio", ErrValidacion)
		}
		uid := actor.UserID
		return *lid, &uid, nil
	default:
		return uuid.Nil, nil, ErrNoAutorizado
	}
}

// reconciliar enforces the duplicate invariant for a cedula inside tx and
// returns the base (earliest) row.
func (s *votacionService) reconciliar(ctx context.Context, tx *gorm.DB, cedula string) (*model.Votacion, error) {
	rows, err := s.repo.ActivasPorCedula(ctx, tx, cedula)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	base := rows[0]
	if base.IsDuplicate || base.DuplicadaDeID != nil {
		if err := s.repo.SetDuplicada(ctx, tx, base.ID, nil, false); err != nil {
			return nil, err
		}
	}
	for _, r := range rows[1:] {
		if !r.IsDuplicate || r.DuplicadaDeID == nil || *r.DuplicadaDeID != base.ID {
			if err := s.repo.SetDuplicada(ctx, tx, r.ID, &base.ID, true); err != nil {
				return nil, err
			}
		}
	}
	return &base, nil
}

func (s *votacionService) ReconciliarCedula(ctx context.Context, cedula string) error {
	return runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.LockCedula(ctx, tx, cedula); err != nil {
			return err
		}
		_, err := s.reconciliar(ctx, tx, cedula)
		return err
	})
}

func (s *votacionService) Crear(ctx context.Context, actor scope.Actor, req dto.CrearVotacionRequest) (*dto.VotacionResponse, error) {
	v, warning, err := s.Registrar(ctx, actor, req, nil)
	if err != nil {
		return nil, err
	}
	resp := votacionToResponse(v)
	resp.Advertencia = warning
	return resp, nil
}

// ── Lecturas ─────────────────────────────────────────────────────────────────

func (s *votacionService) Listar(ctx context.Context, actor scope.Actor, q dto.VotacionQuery) (*dto.VotacionListResponse, error) {
	f, err := scope.ForActorConDigitador(actor)
	if err != nil {
		return nil, err
	}
	query, err := parseQuery(q)
	if err != nil {
		return nil, err
	}
	f = f.ConQuery(actor, query)

	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = 20
	}
	vs, total, err := s.repo.List(ctx, f, q.Page, q.Limit)
	if err != nil {
		return nil, err
	}

	items := make([]dto.VotacionResponse, 0, len(vs))
	for i := range vs {
		items = append(items, *votacionToResponse(&vs[i]))
	}
	return &dto.VotacionListResponse{
		Data:  items,
		Total: total,
		Page:  q.Page,
		Limit: q.Limit,
		Pages: int(math.Ceil(float64(total) / float64(q.Limit))),
	}, nil
}

func (s *votacionService) Obtener(ctx context.Context, actor scope.Actor, id uuid.UUID) (*dto.VotacionResponse, error) {
	v, err := s.buscarVisible(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	return votacionToResponse(v), nil
}

func (s *votacionService) BuscarPorCedula(ctx context.Context, actor scope.Actor, cedula string) ([]dto.VotacionResponse, error) {
	f, err := scope.ForActorConDigitador(actor)
	if err != nil {
		return nil, err
	}
	vs, err := s.repo.FindByCedula(ctx, f, cedula)
	if err != nil {
		return nil, err
	}
	out := make([]dto.VotacionResponse, 0, len(vs))
	for i := range vs {
		out = append(out, *votacionToResponse(&vs[i]))
	}
	return out, nil
}

// buscarVisible loads a row and checks the actor may see it.
func (s *votacionService) buscarVisible(ctx context.Context, actor scope.Actor, id uuid.UUID) (*model.Votacion, error) {
	v, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrNoEncontrada
	}
	f, err := scope.ForActorConDigitador(actor)
	if err != nil {
		return nil, err
	}
	if !f.Permite(v) {
		return nil, ErrNoAutorizado
	}
	return v, nil
}

// ── Actualización con auditoría ──────────────────────────────────────────────

func (s *votacionService) Actualizar(ctx context.Context, actor scope.Actor, id uuid.UUID, req dto.ActualizarVotacionRequest) (*dto.VotacionResponse, error) {
	v, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrNoEncontrada
	}
	if err := s.guardarTransicion(actor, v); err != nil {
		return nil, err
	}

	oldSnap, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}

	aplicarCampos(v, req)
	if err := s.repo.Save(ctx, v); err != nil {
		return nil, err
	}

	newSnap, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	if err := s.audRepo.CreateAudit(ctx, &model.Auditoria{
		Tabla:      "votaciones",
		RecordID:   v.ID,
		OldValues:  oldSnap,
		NewValues:  newSnap,
		ModifiedBy: actor.UserID,
	}); err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.cache.Invalidar(ctx)
	}
	return votacionToResponse(v), nil
}

func aplicarCampos(v *model.Votacion, req dto.ActualizarVotacionRequest) {
	if req.Nombre1 != nil {
		v.Nombre1 = *req.Nombre1
	}
	if req.Nombre2 != nil {
		v.Nombre2 = req.Nombre2
	}
	if req.Apellido1 != nil {
		v.Apellido1 = *req.Apellido1
	}
	if req.Apellido2 != nil {
		v.Apellido2 = req.Apellido2
	}
	if req.Telefono != nil {
		v.Telefono = req.Telefono
	}
	if req.Direccion != nil {
		v.Direccion = req.Direccion
	}
	if req.Barrio != nil {
		v.Barrio = req.Barrio
	}
	if req.PuestoVotacion != nil {
		v.PuestoVotacionID = parseUUIDPtr(req.PuestoVotacion)
	}
	if req.ProgramaID != nil {
		v.ProgramaID = parseUUIDPtr(req.ProgramaID)
	}
	if req.SedeID != nil {
		v.SedeID = parseUUIDPtr(req.SedeID)
	}
	if req.TipoID != nil {
		v.TipoID = parseUUIDPtr(req.TipoID)
	}
	if req.EsPago != nil {
		v.EsPago = req.EsPago
	}
}

// guardarTransicion is the transition guard: only ADMIN or the owning
// leader may mutate a record.
func (s *votacionService) guardarTransicion(actor scope.Actor, v *model.Votacion) error {
	if actor.EsAdmin() {
		return nil
	}
	if actor.Rol == model.RolLider && actor.LeaderID != nil && *actor.LeaderID == v.LeaderID {
		return nil
	}
	return ErrNoAutorizado
}

// ── Máquina de estados ───────────────────────────────────────────────────────

func (s *votacionService) ToggleEstado(ctx context.Context, actor scope.Actor, id uuid.UUID, observacion *string) (*dto.VotacionResponse, error) {
	v, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrNoEncontrada
	}
	if err := s.guardarTransicion(actor, v); err != nil {
		return nil, err
	}

	v.Activo = !v.Activo
	if err := s.repo.Save(ctx, v); err != nil {
		return nil, err
	}

	accion := model.AccionDesactivar
	if v.Activo {
		accion = model.AccionActivar
	}
	if err := s.audRepo.CreateStatusLog(ctx, &model.StatusLog{
		VotacionID:  v.ID,
		UsuarioID:   actor.UserID,
		Accion:      accion,
		Observacion: observacion,
	}); err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.cache.Invalidar(ctx)
	}
	return votacionToResponse(v), nil
}

// Desactivar is the one-directional soft delete. Deactivating an already
// inactive row is a no-op that still logs the attempt.
func (s *votacionService) Desactivar(ctx context.Context, actor scope.Actor, id uuid.UUID, observacion *string) error {
	v, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return ErrNoEncontrada
	}
	if err := s.guardarTransicion(actor, v); err != nil {
		return err
	}

	if v.Activo {
		v.Activo = false
		if err := s.repo.Save(ctx, v); err != nil {
			return err
		}
	}
	if err := s.audRepo.CreateStatusLog(ctx, &model.StatusLog{
		VotacionID:  v.ID,
		UsuarioID:   actor.UserID,
		Accion:      model.AccionDesactivar,
		Observacion: observacion,
	}); err != nil {
		return err
	}

	if s.cache != nil {
		s.cache.Invalidar(ctx)
	}
	return nil
}

func (s *votacionService) Confirmar(ctx context.Context, actor scope.Actor, id uuid.UUID, req dto.ConfirmarRequest) error {
	v, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return ErrNoEncontrada
	}
	if err := s.guardarTransicion(actor, v); err != nil {
		return err
	}
	if req.Imagen == "" {
		return fmt.Errorf("%w: la imagen de confirmación es obligatoria", ErrValidacion)
	}
	if _, err := s.audRepo.FindConfirmacion(ctx, v.ID); err == nil {
		return ErrYaConfirmada
	}

	return s.audRepo.CreateConfirmacion(ctx, &model.Confirmacion{
		VotacionID:      v.ID,
		CodigoVotacion:  req.CodigoVotacion,
		Imagen:          req.Imagen,
		ConfirmadoPorID: actor.UserID,
	})
}

// Reasignar moves a registration to a new leader and clears the duplicate
// linkage, promoting it to a non-duplicate. Other records that pointed at
// the old base are left untouched.
func (s *votacionService) Reasignar(ctx context.Context, actor scope.Actor, id, nuevoLiderID uuid.UUID) (*dto.VotacionResponse, error) {
	if !actor.EsAdmin() {
		return nil, ErrNoAutorizado
	}
	v, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrNoEncontrada
	}
	if _, err := s.liderRepo.FindByID(ctx, nuevoLiderID); err != nil {
		return nil, ErrLiderNoExiste
	}

	oldSnap, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}

	v.LeaderID = nuevoLiderID
	v.IsDuplicate = false
	v.DuplicadaDeID = nil
	if err := s.repo.Save(ctx, v); err != nil {
		return nil, err
	}

	newSnap, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	if err := s.audRepo.CreateAudit(ctx, &model.Auditoria{
		Tabla:      "votaciones",
		RecordID:   v.ID,
		OldValues:  oldSnap,
		NewValues:  newSnap,
		ModifiedBy: actor.UserID,
	}); err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.cache.Invalidar(ctx)
	}
	return votacionToResponse(v), nil
}

// EliminarDefinitivo is the explicit ADMIN-only hard delete. It bypasses the
// audit trail on purpose — the record and its sub-rows disappear entirely.
func (s *votacionService) EliminarDefinitivo(ctx context.Context, actor scope.Actor, id uuid.UUID) error {
	if !actor.EsAdmin() {
		return ErrNoAutorizado
	}
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return ErrNoEncontrada
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	if s.cache != nil {
		s.cache.Invalidar(ctx)
	}
	return nil
}

// ── Duplicados ───────────────────────────────────────────────────────────────

func (s *votacionService) ListarDuplicadas(ctx context.Context, actor scope.Actor) ([]dto.VotacionResponse, error) {
	f, err := scope.ForActor(actor)
	if err != nil {
		return nil, err
	}
	vs, err := s.repo.ListDuplicadas(ctx, f)
	if err != nil {
		return nil, err
	}
	out := make([]dto.VotacionResponse, 0, len(vs))
	for i := range vs {
		out = append(out, *votacionToResponse(&vs[i]))
	}
	return out, nil
}

func (s *votacionService) ListarDuplicadasDe(ctx context.Context, actor scope.Actor, baseID uuid.UUID) ([]dto.VotacionResponse, error) {
	if _, err := s.buscarVisible(ctx, actor, baseID); err != nil {
		return nil, err
	}
	vs, err := s.repo.ListDuplicadasDe(ctx, baseID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.VotacionResponse, 0, len(vs))
	for i := range vs {
		out = append(out, *votacionToResponse(&vs[i]))
	}
	return out, nil
}

// ── Mapeo a DTO ──────────────────────────────────────────────────────────────

func votacionToResponse(v *model.Votacion) *dto.VotacionResponse {
	resp := &dto.VotacionResponse{
		ID:          v.ID.String(),
		Cedula:      v.Cedula,
		Nombre1:     v.Nombre1,
		Nombre2:     v.Nombre2,
		Apellido1:   v.Apellido1,
		Apellido2:   v.Apellido2,
		Telefono:    v.Telefono,
		Direccion:   v.Direccion,
		Barrio:      v.Barrio,
		LeaderID:    v.LeaderID.String(),
		EsPago:      v.EsPago,
		Planilla:    v.Planilla,
		Activo:      v.Activo,
		IsDuplicate: v.IsDuplicate,
		Confirmada:  v.Confirmacion != nil,
		CreatedAt:   v.CreatedAt.UTC().Format(time.RFC3339),
	}
	if v.PuestoVotacionID != nil {
		s := v.PuestoVotacionID.String()
		resp.PuestoVotacion = &s
	}
	if v.PuestoVotacion != nil {
		resp.PuestoNombre = v.PuestoVotacion.Puesto
	}
	if v.Leader != nil {
		resp.LiderNombre = v.Leader.Nombre
	}
	if v.DigitadorID != nil {
		s := v.DigitadorID.String()
		resp.DigitadorID = &s
	}
	if v.Digitador != nil {
		resp.Digitador = v.Digitador.Username
	}
	if v.ProgramaID != nil {
		s := v.ProgramaID.String()
		resp.ProgramaID = &s
	}
	if v.Programa != nil {
		resp.Programa = v.Programa.Nombre
	}
	if v.SedeID != nil {
		s := v.SedeID.String()
		resp.SedeID = &s
	}
	if v.Sede != nil {
		resp.Sede = v.Sede.Nombre
	}
	if v.TipoID != nil {
		s := v.TipoID.String()
		resp.TipoID = &s
	}
	if v.Tipo != nil {
		resp.Tipo = v.Tipo.Nombre
	}
	if v.DuplicadaDeID != nil {
		s := v.DuplicadaDeID.String()
		resp.DuplicadaDeID = &s
	}
	return resp
}
