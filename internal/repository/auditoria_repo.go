package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/INGMEGANO/PSPVoteBackend/internal/model"
)

// AuditoriaRepository persists the append-only audit and status trails.
// There are deliberately no update or delete methods.
type AuditoriaRepository interface {
	CreateAudit(ctx context.Context, a *model.Auditoria) error
	ListAuditPorRegistro(ctx context.Context, recordID uuid.UUID) ([]model.Auditoria, error)

	CreateStatusLog(ctx context.Context, s *model.StatusLog) error
	ListStatusLogs(ctx context.Context, votacionID uuid.UUID) ([]model.StatusLog, error)

	CreateConfirmacion(ctx context.Context, c *model.Confirmacion) error
	FindConfirmacion(ctx context.Context, votacionID uuid.UUID) (*model.Confirmacion, error)
}

type auditoriaRepo struct{ db *gorm.DB }

func NewAuditoriaRepository(db *gorm.DB) AuditoriaRepository { return &auditoriaRepo{db: db} }

func (r *auditoriaRepo) CreateAudit(ctx context.Context, a *model.Auditoria) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *auditoriaRepo) ListAuditPorRegistro(ctx context.Context, recordID uuid.UUID) ([]model.Auditoria, error) {
	var as []model.Auditoria
	err := r.db.WithContext(ctx).
		Where("record_id = ?", recordID).
		Order("created_at ASC").
		Find(&as).Error
	return as, err
}

func (r *auditoriaRepo) CreateStatusLog(ctx context.Context, s *model.StatusLog) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *auditoriaRepo) ListStatusLogs(ctx context.Context, votacionID uuid.UUID) ([]model.StatusLog, error) {
	var ss []model.StatusLog
	err := r.db.WithContext(ctx).
		Where("votacion_id = ?", votacionID).
		Order("created_at ASC").
		Find(&ss).Error
	return ss, err
}

func (r *auditoriaRepo) CreateConfirmacion(ctx context.Context, c *model.Confirmacion) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *auditoriaRepo) FindConfirmacion(ctx context.Context, votacionID uuid.UUID) (*model.Confirmacion, error) {
	var c model.Confirmacion
	err := r.db.WithContext(ctx).
		Where("votacion_id = ?", votacionID).
		First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}
