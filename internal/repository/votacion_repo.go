package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/INGMEGANO/PSPVoteBackend/internal/dto"
	"github.com/INGMEGANO/PSPVoteBackend/internal/model"
	"github.com/INGMEGANO/PSPVoteBackend/internal/scope"
)

// VotacionRepository defines the data access contract for registrations.
// Services depend on this interface, not on the concrete GORM implementation,
// enabling clean unit testing via in-memory stubs.
type VotacionRepository interface {
	Create(ctx context.Context, tx *gorm.DB, v *model.Votacion) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Votacion, error)
	FindByCedula(ctx context.Context, f scope.Filter, cedula string) ([]model.Votacion, error)
	List(ctx context.Context, f scope.Filter, page, limit int) ([]model.Votacion, int64, error)
	ListParaDashboard(ctx context.Context, f scope.Filter, tipo string) ([]model.Votacion, error)
	Save(ctx context.Context, v *model.Votacion) error
	Delete(ctx context.Context, id uuid.UUID) error // hard delete, ADMIN only

	// Duplicate engine primitives — all run inside the caller's transaction.
	// LockCedula serializes concurrent inserts of the same document number
	// via a transaction-scoped Postgres advisory lock.
	LockCedula(ctx context.Context, tx *gorm.DB, cedula string) error
	ActivasPorCedula(ctx context.Context, tx *gorm.DB, cedula string) ([]model.Votacion, error)
	SetDuplicada(ctx context.Context, tx *gorm.DB, id uuid.UUID, duplicadaDe *uuid.UUID, esDuplicada bool) error

	ListDuplicadas(ctx context.Context, f scope.Filter) ([]model.Votacion, error)
	ListDuplicadasDe(ctx context.Context, baseID uuid.UUID) ([]model.Votacion, error)
	CountDuplicadas(ctx context.Context, f scope.Filter) (total int64, duplicadas int64, err error)
	DuplicadasPorLider(ctx context.Context, f scope.Filter) ([]dto.ConteoSimple, error)

	// Planilla sequencing — NextPlanilla must be called under the planilla
	// advisory lock so two concurrent imports cannot claim the same number.
	LockPlanillaCounter(ctx context.Context, tx *gorm.DB) error
	NextPlanilla(ctx context.Context, tx *gorm.DB) (int, error)
	ListByPlanilla(ctx context.Context, f scope.Filter, planilla int) ([]model.Votacion, error)
	FindByPlanillaCedula(ctx context.Context, planilla int, cedula string) ([]model.Votacion, error)
	ResumenPlanillas(ctx context.Context, f scope.Filter) ([]dto.PlanillaResumen, error)

	// Group-bys used by the report endpoints.
	CountPorLider(ctx context.Context, f scope.Filter) ([]dto.ConteoSimple, error)
	CountPorDigitador(ctx context.Context, f scope.Filter) ([]dto.ConteoSimple, error)
	CountActivasPorPuesto(ctx context.Context) (map[uuid.UUID]int, error)

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type votacionRepo struct{ db *gorm.DB }

func NewVotacionRepository(db *gorm.DB) VotacionRepository { return &votacionRepo{db: db} }

func (r *votacionRepo) DB() *gorm.DB { return r.db }

func (r *votacionRepo) Create(ctx context.Context, tx *gorm.DB, v *model.Votacion) error {
	return tx.WithContext(ctx).Create(v).Error
}

func (r *votacionRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Votacion, error) {
	var v model.Votacion
	err := r.db.WithContext(ctx).
		Preload("Leader").Preload("Digitador").Preload("Programa").
		Preload("Sede").Preload("Tipo").Preload("PuestoVotacion").
		Preload("Confirmacion").
		First(&v, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *votacionRepo) FindByCedula(ctx context.Context, f scope.Filter, cedula string) ([]model.Votacion, error) {
	var vs []model.Votacion
	q := f.Apply(r.db.WithContext(ctx).Model(&model.Votacion{}))
	err := q.Where("cedula = ?", cedula).
		Preload("Leader").Preload("Digitador").
		Order("created_at ASC").
		Find(&vs).Error
	return vs, err
}

func (r *votacionRepo) List(ctx context.Context, f scope.Filter, page, limit int) ([]model.Votacion, int64, error) {
	var vs []model.Votacion
	var total int64

	q := f.Apply(r.db.WithContext(ctx).Model(&model.Votacion{}))
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	err := q.Preload("Leader").Preload("Digitador").Preload("Programa").
		Preload("Sede").Preload("Tipo").Preload("Confirmacion").
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&vs).Error
	return vs, total, err
}

// ListParaDashboard fetches the scoped rows the aggregation engine groups in
// memory. Only the relations the dashboard names are preloaded.
func (r *votacionRepo) ListParaDashboard(ctx context.Context, f scope.Filter, tipo string) ([]model.Votacion, error) {
	var vs []model.Votacion
	q := f.Apply(r.db.WithContext(ctx).Model(&model.Votacion{}))
	if tipo != "" {
		q = q.Joins("JOIN tipos_vinculacion ON tipos_vinculacion.id = votaciones.tipo_id").
			Where("tipos_vinculacion.nombre = ?", tipo)
	}
	err := q.Preload("Tipo").Preload("Leader").Preload("Programa").Preload("PuestoVotacion").
		Find(&vs).Error
	return vs, err
}

func (r *votacionRepo) Save(ctx context.Context, v *model.Votacion) error {
	return r.db.WithContext(ctx).Save(v).Error
}

func (r *votacionRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("votacion_id = ?", id).Delete(&model.Confirmacion{}).Error; err != nil {
			return err
		}
		if err := tx.Where("votacion_id = ?", id).Delete(&model.StatusLog{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Votacion{}, "id = ?", id).Error
	})
}

func (r *votacionRepo) LockCedula(ctx context.Context, tx *gorm.DB, cedula string) error {
	return tx.WithContext(ctx).Exec("SELECT pg_advisory_xact_lock(hashtext(?))", cedula).Error
}

func (r *votacionRepo) ActivasPorCedula(ctx context.Context, tx *gorm.DB, cedula string) ([]model.Votacion, error) {
	var vs []model.Votacion
	err := tx.WithContext(ctx).
		Where("cedula = ? AND activo = true", cedula).
		Order("created_at ASC, id ASC").
		Find(&vs).Error
	return vs, err
}

func (r *votacionRepo) SetDuplicada(ctx context.Context, tx *gorm.DB, id uuid.UUID, duplicadaDe *uuid.UUID, esDuplicada bool) error {
	return tx.WithContext(ctx).Model(&model.Votacion{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"is_duplicate":    esDuplicada,
			"duplicada_de_id": duplicadaDe,
		}).Error
}

func (r *votacionRepo) ListDuplicadas(ctx context.Context, f scope.Filter) ([]model.Votacion, error) {
	var vs []model.Votacion
	q := f.Apply(r.db.WithContext(ctx).Model(&model.Votacion{}))
	err := q.Where("is_duplicate = true").
		Preload("Leader").Preload("Digitador").
		Order("cedula ASC, created_at ASC").
		Find(&vs).Error
	return vs, err
}

func (r *votacionRepo) ListDuplicadasDe(ctx context.Context, baseID uuid.UUID) ([]model.Votacion, error) {
	var vs []model.Votacion
	err := r.db.WithContext(ctx).
		Where("duplicada_de_id = ?", baseID).
		Preload("Leader").Preload("Digitador").
		Order("created_at ASC").
		Find(&vs).Error
	return vs, err
}

func (r *votacionRepo) CountDuplicadas(ctx context.Context, f scope.Filter) (int64, int64, error) {
	var total, duplicadas int64
	if err := f.Apply(r.db.WithContext(ctx).Model(&model.Votacion{})).Count(&total).Error; err != nil {
		return 0, 0, err
	}
	err := f.Apply(r.db.WithContext(ctx).Model(&model.Votacion{})).
		Where("is_duplicate = true").Count(&duplicadas).Error
	return total, duplicadas, err
}

func (r *votacionRepo) DuplicadasPorLider(ctx context.Context, f scope.Filter) ([]dto.ConteoSimple, error) {
	rows := []struct {
		LeaderID uuid.UUID
		Total    int64
	}{}
	q := f.Apply(r.db.WithContext(ctx).Model(&model.Votacion{}))
	err := q.Select("leader_id, COUNT(*) AS total").
		Where("is_duplicate = true").
		Group("leader_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]dto.ConteoSimple, 0, len(rows))
	for _, row := range rows {
		out = append(out, dto.ConteoSimple{Clave: row.LeaderID.String(), Total: row.Total})
	}
	return out, nil
}

func (r *votacionRepo) LockPlanillaCounter(ctx context.Context, tx *gorm.DB) error {
	// Single well-known key: one global counter shared by all imports.
	return tx.WithContext(ctx).Exec("SELECT pg_advisory_xact_lock(hashtext('votaciones:planilla'))").Error
}

func (r *votacionRepo) NextPlanilla(ctx context.Context, tx *gorm.DB) (int, error) {
	var next int
	err := tx.WithContext(ctx).
		Raw("SELECT COALESCE(MAX(planilla), 0) + 1 FROM votaciones").
		Scan(&next).Error
	return next, err
}

func (r *votacionRepo) ListByPlanilla(ctx context.Context, f scope.Filter, planilla int) ([]model.Votacion, error) {
	var vs []model.Votacion
	q := f.Apply(r.db.WithContext(ctx).Model(&model.Votacion{}))
	err := q.Where("planilla = ?", planilla).
		Preload("Leader").Preload("Digitador").
		Order("created_at ASC").
		Find(&vs).Error
	return vs, err
}

func (r *votacionRepo) FindByPlanillaCedula(ctx context.Context, planilla int, cedula string) ([]model.Votacion, error) {
	var vs []model.Votacion
	err := r.db.WithContext(ctx).
		Where("planilla = ? AND cedula = ?", planilla, cedula).
		Find(&vs).Error
	return vs, err
}

func (r *votacionRepo) ResumenPlanillas(ctx context.Context, f scope.Filter) ([]dto.PlanillaResumen, error) {
	var out []dto.PlanillaResumen
	q := f.Apply(r.db.WithContext(ctx).Model(&model.Votacion{}))
	err := q.Select("planilla, COUNT(*) AS total").
		Where("planilla IS NOT NULL").
		Group("planilla").
		Order("planilla ASC").
		Scan(&out).Error
	return out, err
}

func (r *votacionRepo) CountPorLider(ctx context.Context, f scope.Filter) ([]dto.ConteoSimple, error) {
	rows := []struct {
		LeaderID uuid.UUID
		Total    int64
	}{}
	q := f.Apply(r.db.WithContext(ctx).Model(&model.Votacion{}))
	if err := q.Select("leader_id, COUNT(*) AS total").Group("leader_id").Scan(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]dto.ConteoSimple, 0, len(rows))
	for _, row := range rows {
		out = append(out, dto.ConteoSimple{Clave: row.LeaderID.String(), Total: row.Total})
	}
	return out, nil
}

func (r *votacionRepo) CountPorDigitador(ctx context.Context, f scope.Filter) ([]dto.ConteoSimple, error) {
	rows := []struct {
		DigitadorID uuid.UUID
		Total       int64
	}{}
	q := f.Apply(r.db.WithContext(ctx).Model(&model.Votacion{}))
	err := q.Select("digitador_id, COUNT(*) AS total").
		Where("digitador_id IS NOT NULL").
		Group("digitador_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]dto.ConteoSimple, 0, len(rows))
	for _, row := range rows {
		out = append(out, dto.ConteoSimple{Clave: row.DigitadorID.String(), Total: row.Total})
	}
	return out, nil
}

func (r *votacionRepo) CountActivasPorPuesto(ctx context.Context) (map[uuid.UUID]int, error) {
	rows := []struct {
		PuestoVotacionID uuid.UUID
		Total            int
	}{}
	err := r.db.WithContext(ctx).Model(&model.Votacion{}).
		Select("puesto_votacion_id, COUNT(*) AS total").
		Where("puesto_votacion_id IS NOT NULL AND activo = true").
		Group("puesto_votacion_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[uuid.UUID]int, len(rows))
	for _, row := range rows {
		out[row.PuestoVotacionID] = row.Total
	}
	return out, nil
}
