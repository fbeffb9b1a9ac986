package service_test

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/INGMEGANO/PSPVoteBackend/internal/dto"
	"github.com/INGMEGANO/PSPVoteBackend/internal/model"
	"github.com/INGMEGANO/PSPVoteBackend/internal/repository"
	"github.com/INGMEGANO/PSPVoteBackend/internal/scope"
)

var errNotFound = errors.New("not found")

// ── stubVotacionRepo ─────────────────────────────────────────────────────────

// stubVotacionRepo is an in-memory VotacionRepository. All tx parameters are
// nil in tests; the services run their transaction bodies directly.
type stubVotacionRepo struct {
	rows []*model.Votacion
	seq  int
}

func newStubVotacionRepo() *stubVotacionRepo { return &stubVotacionRepo{} }

func (r *stubVotacionRepo) DB() *gorm.DB { return nil }

func (r *stubVotacionRepo) Create(_ context.Context, _ *gorm.DB, v *model.Votacion) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	r.seq++
	v.CreatedAt = time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC).Add(time.Duration(r.seq) * time.Second)
	r.rows = append(r.rows, v)
	return nil
}

func (r *stubVotacionRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Votacion, error) {
	for _, v := range r.rows {
		if v.ID == id {
			return v, nil
		}
	}
	return nil, errNotFound
}

func (r *stubVotacionRepo) FindByCedula(_ context.Context, f scope.Filter, cedula string) ([]model.Votacion, error) {
	var out []model.Votacion
	for _, v := range r.ordenadas() {
		if v.Cedula == cedula && f.Permite(v) {
			out = append(out, *v)
		}
	}
	return out, nil
}

func (r *stubVotacionRepo) List(_ context.Context, f scope.Filter, page, limit int) ([]model.Votacion, int64, error) {
	var all []model.Votacion
	for _, v := range r.ordenadas() {
		if f.Permite(v) {
			all = append(all, *v)
		}
	}
	total := int64(len(all))
	start := (page - 1) * limit
	if start >= len(all) {
		return nil, total, nil
	}
	end := start + limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total, nil
}

func (r *stubVotacionRepo) ListParaDashboard(_ context.Context, f scope.Filter, tipo string) ([]model.Votacion, error) {
	var out []model.Votacion
	for _, v := range r.ordenadas() {
		if !f.Permite(v) {
			continue
		}
		if f.Desde != nil && v.CreatedAt.Before(*f.Desde) {
			continue
		}
		if f.Hasta != nil && v.CreatedAt.After(*f.Hasta) {
			continue
		}
		if tipo != "" && (v.Tipo == nil || v.Tipo.Nombre != tipo) {
			continue
		}
		out = append(out, *v)
	}
	return out, nil
}

func (r *stubVotacionRepo) Save(_ context.Context, v *model.Votacion) error {
	for i, row := range r.rows {
		if row.ID == v.ID {
			r.rows[i] = v
			return nil
		}
	}
	return errNotFound
}

func (r *stubVotacionRepo) Delete(_ context.Context, id uuid.UUID) error {
	for i, v := range r.rows {
		if v.ID == id {
			r.rows = append(r.rows[:i], r.rows[i+1:]...)
			return nil
		}
	}
	return errNotFound
}

func (r *stubVotacionRepo) LockCedula(_ context.Context, _ *gorm.DB, _ string) error { return nil }

func (r *stubVotacionRepo) ActivasPorCedula(_ context.Context, _ *gorm.DB, cedula string) ([]model.Votacion, error) {
	var out []model.Votacion
	for _, v := range r.ordenadas() {
		if v.Cedula == cedula && v.Activo {
			out = append(out, *v)
		}
	}
	return out, nil
}

func (r *stubVotacionRepo) SetDuplicada(_ context.Context, _ *gorm.DB, id uuid.UUID, duplicadaDe *uuid.UUID, esDuplicada bool) error {
	for _, v := range r.rows {
		if v.ID == id {
			v.IsDuplicate = esDuplicada
			v.DuplicadaDeID = duplicadaDe
			return nil
		}
	}
	return errNotFound
}

func (r *stubVotacionRepo) ListDuplicadas(_ context.Context, f scope.Filter) ([]model.Votacion, error) {
	var out []model.Votacion
	for _, v := range r.ordenadas() {
		if v.IsDuplicate && f.Permite(v) {
			out = append(out, *v)
		}
	}
	return out, nil
}

func (r *stubVotacionRepo) ListDuplicadasDe(_ context.Context, baseID uuid.UUID) ([]model.Votacion, error) {
	var out []model.Votacion
	for _, v := range r.ordenadas() {
		if v.DuplicadaDeID != nil && *v.DuplicadaDeID == baseID {
			out = append(out, *v)
		}
	}
	return out, nil
}

func (r *stubVotacionRepo) CountDuplicadas(_ context.Context, f scope.Filter) (int64, int64, error) {
	var total, dup int64
	for _, v := range r.rows {
		if !f.Permite(v) {
			continue
		}
		total++
		if v.IsDuplicate {
			dup++
		}
	}
	return total, dup, nil
}

func (r *stubVotacionRepo) DuplicadasPorLider(_ context.Context, f scope.Filter) ([]dto.ConteoSimple, error) {
	counts := map[string]int64{}
	for _, v := range r.rows {
		if v.IsDuplicate && f.Permite(v) {
			counts[v.LeaderID.String()]++
		}
	}
	var out []dto.ConteoSimple
	for k, n := range counts {
		out = append(out, dto.ConteoSimple{Clave: k, Total: n})
	}
	return out, nil
}

func (r *stubVotacionRepo) LockPlanillaCounter(_ context.Context, _ *gorm.DB) error { return nil }

func (r *stubVotacionRepo) NextPlanilla(_ context.Context, _ *gorm.DB) (int, error) {
	max := 0
	for _, v := range r.rows {
		if v.Planilla != nil && *v.Planilla > max {
			max = *v.Planilla
		}
	}
	return max + 1, nil
}

func (r *stubVotacionRepo) ListByPlanilla(_ context.Context, f scope.Filter, planilla int) ([]model.Votacion, error) {
	var out []model.Votacion
	for _, v := range r.ordenadas() {
		if v.Planilla != nil && *v.Planilla == planilla && f.Permite(v) {
			out = append(out, *v)
		}
	}
	return out, nil
}

func (r *stubVotacionRepo) FindByPlanillaCedula(_ context.Context, planilla int, cedula string) ([]model.Votacion, error) {
	var out []model.Votacion
	for _, v := range r.ordenadas() {
		if v.Planilla != nil && *v.Planilla == planilla && v.Cedula == cedula {
			out = append(out, *v)
		}
	}
	return out, nil
}

func (r *stubVotacionRepo) ResumenPlanillas(_ context.Context, f scope.Filter) ([]dto.PlanillaResumen, error) {
	counts := map[int]int64{}
	for _, v := range r.rows {
		if v.Planilla != nil && f.Permite(v) {
			counts[*v.Planilla]++
		}
	}
	planillas := make([]int, 0, len(counts))
	for p := range counts {
		planillas = append(planillas, p)
	}
	sort.Ints(planillas)
	out := make([]dto.PlanillaResumen, 0, len(planillas))
	for _, p := range planillas {
		out = append(out, dto.PlanillaResumen{Planilla: p, Total: counts[p]})
	}
	return out, nil
}

func (r *stubVotacionRepo) CountPorLider(_ context.Context, f scope.Filter) ([]dto.ConteoSimple, error) {
	counts := map[string]int64{}
	for _, v := range r.rows {
		if f.Permite(v) {
			counts[v.LeaderID.String()]++
		}
	}
	var out []dto.ConteoSimple
	for k, n := range counts {
		out = append(out, dto.ConteoSimple{Clave: k, Total: n})
	}
	return out, nil
}

func (r *stubVotacionRepo) CountPorDigitador(_ context.Context, f scope.Filter) ([]dto.ConteoSimple, error) {
	counts := map[string]int64{}
	for _, v := range r.rows {
		if v.DigitadorID != nil && f.Permite(v) {
			counts[v.DigitadorID.String()]++
		}
	}
	var out []dto.ConteoSimple
	for k, n := range counts {
		out = append(out, dto.ConteoSimple{Clave: k, Total: n})
	}
	return out, nil
}

func (r *stubVotacionRepo) CountActivasPorPuesto(_ context.Context) (map[uuid.UUID]int, error) {
	out := map[uuid.UUID]int{}
	for _, v := range r.rows {
		if v.Activo && v.PuestoVotacionID != nil {
			out[*v.PuestoVotacionID]++
		}
	}
	return out, nil
}

func (r *stubVotacionRepo) ordenadas() []*model.Votacion {
	sorted := make([]*model.Votacion, len(r.rows))
	copy(sorted, r.rows)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.Before(sorted[j].CreatedAt)
	})
	return sorted
}

var _ repository.VotacionRepository = (*stubVotacionRepo)(nil)

// ── stubLiderRepo ────────────────────────────────────────────────────────────

type stubLiderRepo struct {
	lideres map[uuid.UUID]*model.Lider
}

func newStubLiderRepo() *stubLiderRepo {
	return &stubLiderRepo{lideres: make(map[uuid.UUID]*model.Lider)}
}

func (r *stubLiderRepo) seed(nombre string) *model.Lider {
	l := &model.Lider{ID: uuid.New(), Nombre: nombre, Activo: true}
	r.lideres[l.ID] = l
	return l
}

func (r *stubLiderRepo) Create(_ context.Context, l *model.Lider) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	r.lideres[l.ID] = l
	return nil
}

func (r *stubLiderRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Lider, error) {
	l, ok := r.lideres[id]
	if !ok {
		return nil, errNotFound
	}
	return l, nil
}

func (r *stubLiderRepo) List(_ context.Context) ([]model.Lider, error) {
	out := make([]model.Lider, 0, len(r.lideres))
	for _, l := range r.lideres {
		out = append(out, *l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Nombre < out[j].Nombre })
	return out, nil
}

func (r *stubLiderRepo) Update(_ context.Context, l *model.Lider) error {
	if _, ok := r.lideres[l.ID]; !ok {
		return errNotFound
	}
	r.lideres[l.ID] = l
	return nil
}

func (r *stubLiderRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.lideres, id)
	return nil
}

func (r *stubLiderRepo) CountVotaciones(_ context.Context, _ uuid.UUID) (int64, error) {
	return 0, nil
}

var _ repository.LiderRepository = (*stubLiderRepo)(nil)

// ── stubUsuarioRepo ──────────────────────────────────────────────────────────

type stubUsuarioRepo struct {
	usuarios map[uuid.UUID]*model.Usuario
}

func newStubUsuarioRepo() *stubUsuarioRepo {
	return &stubUsuarioRepo{usuarios: make(map[uuid.UUID]*model.Usuario)}
}

func (r *stubUsuarioRepo) Create(_ context.Context, u *model.Usuario) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	r.usuarios[u.ID] = u
	return nil
}

func (r *stubUsuarioRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Usuario, error) {
	u, ok := r.usuarios[id]
	if !ok {
		return nil, errNotFound
	}
	return u, nil
}

func (r *stubUsuarioRepo) FindByUsername(_ context.Context, username string) (*model.Usuario, error) {
	for _, u := range r.usuarios {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, errNotFound
}

func (r *stubUsuarioRepo) List(_ context.Context) ([]model.Usuario, error) {
	out := make([]model.Usuario, 0, len(r.usuarios))
	for _, u := range r.usuarios {
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

func (r *stubUsuarioRepo) Update(_ context.Context, u *model.Usuario) error {
	if _, ok := r.usuarios[u.ID]; !ok {
		return errNotFound
	}
	r.usuarios[u.ID] = u
	return nil
}

func (r *stubUsuarioRepo) CountPorRol(_ context.Context) (map[string]int64, error) {
	out := map[string]int64{}
	for _, u := range r.usuarios {
		out[u.Rol]++
	}
	return out, nil
}

var _ repository.UsuarioRepository = (*stubUsuarioRepo)(nil)

// ── stubAuditoriaRepo ────────────────────────────────────────────────────────

type stubAuditoriaRepo struct {
	audits         []model.Auditoria
	statusLogs     []model.StatusLog
	confirmaciones map[uuid.UUID]*model.Confirmacion
}

func newStubAuditoriaRepo() *stubAuditoriaRepo {
	return &stubAuditoriaRepo{confirmaciones: make(map[uuid.UUID]*model.Confirmacion)}
}

func (r *stubAuditoriaRepo) CreateAudit(_ context.Context, a *model.Auditoria) error {
	r.audits = append(r.audits, *a)
	return nil
}

func (r *stubAuditoriaRepo) ListAuditPorRegistro(_ context.Context, recordID uuid.UUID) ([]model.Auditoria, error) {
	var out []model.Auditoria
	for _, a := range r.audits {
		if a.RecordID == recordID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *stubAuditoriaRepo) CreateStatusLog(_ context.Context, s *model.StatusLog) error {
	r.statusLogs = append(r.statusLogs, *s)
	return nil
}

func (r *stubAuditoriaRepo) ListStatusLogs(_ context.Context, votacionID uuid.UUID) ([]model.StatusLog, error) {
	var out []model.StatusLog
	for _, s := range r.statusLogs {
		if s.VotacionID == votacionID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *stubAuditoriaRepo) CreateConfirmacion(_ context.Context, c *model.Confirmacion) error {
	r.confirmaciones[c.VotacionID] = c
	return nil
}

func (r *stubAuditoriaRepo) FindConfirmacion(_ context.Context, votacionID uuid.UUID) (*model.Confirmacion, error) {
	c, ok := r.confirmaciones[votacionID]
	if !ok {
		return nil, errNotFound
	}
	return c, nil
}

var _ repository.AuditoriaRepository = (*stubAuditoriaRepo)(nil)

// ── stubProgramaRepo ─────────────────────────────────────────────────────────

type stubProgramaRepo struct {
	programas []model.Programa
	tipos     []model.TipoVinculacion
}

func (r *stubProgramaRepo) List(_ context.Context) ([]model.Programa, error) {
	return r.programas, nil
}

func (r *stubProgramaRepo) ListConSedes(_ context.Context) ([]model.Programa, error) {
	return r.programas, nil
}

func (r *stubProgramaRepo) SedesPorPrograma(_ context.Context, programaID uuid.UUID) ([]model.SedePrograma, error) {
	for _, p := range r.programas {
		if p.ID == programaID {
			return p.Sedes, nil
		}
	}
	return nil, nil
}

func (r *stubProgramaRepo) Tipos(_ context.Context) ([]model.TipoVinculacion, error) {
	return r.tipos, nil
}

func (r *stubProgramaRepo) FindTipoByID(_ context.Context, id uuid.UUID) (*model.TipoVinculacion, error) {
	for i := range r.tipos {
		if r.tipos[i].ID == id {
			return &r.tipos[i], nil
		}
	}
	return nil, errNotFound
}

var _ repository.ProgramaRepository = (*stubProgramaRepo)(nil)

// ── stubPuestoRepo ───────────────────────────────────────────────────────────

type stubPuestoRepo struct {
	puestos map[uuid.UUID]*model.PuestoVotacion
}

func newStubPuestoRepo() *stubPuestoRepo {
	return &stubPuestoRepo{puestos: make(map[uuid.UUID]*model.PuestoVotacion)}
}

func (r *stubPuestoRepo) Create(_ context.Context, p *model.PuestoVotacion) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.puestos[p.ID] = p
	return nil
}

func (r *stubPuestoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.PuestoVotacion, error) {
	p, ok := r.puestos[id]
	if !ok {
		return nil, errNotFound
	}
	return p, nil
}

func (r *stubPuestoRepo) List(_ context.Context) ([]model.PuestoVotacion, error) {
	out := make([]model.PuestoVotacion, 0, len(r.puestos))
	for _, p := range r.puestos {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Puesto < out[j].Puesto })
	return out, nil
}

func (r *stubPuestoRepo) Update(_ context.Context, p *model.PuestoVotacion) error {
	if _, ok := r.puestos[p.ID]; !ok {
		return errNotFound
	}
	r.puestos[p.ID] = p
	return nil
}

func (r *stubPuestoRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.puestos, id)
	return nil
}

var _ repository.PuestoRepository = (*stubPuestoRepo)(nil)
