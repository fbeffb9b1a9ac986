package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/INGMEGANO/PSPVoteBackend/internal/model"
)

type LiderRepository interface {
	Create(ctx context.Context, l *model.Lider) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Lider, error)
	List(ctx context.Context) ([]model.Lider, error)
	Update(ctx context.Context, l *model.Lider) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountVotaciones(ctx context.Context, id uuid.UUID) (int64, error)
}

type liderRepo struct{ db *gorm.DB }

func NewLiderRepository(db *gorm.DB) LiderRepository { return &liderRepo{db: db} }

func (r *liderRepo) Create(ctx context.Context, l *model.Lider) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *liderRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Lider, error) {
	var l model.Lider
	err := r.db.WithContext(ctx).
		Preload("RecomendadoPor").Preload("Recomendaciones").
		First(&l, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *liderRepo) List(ctx context.Context) ([]model.Lider, error) {
	var ls []model.Lider
	err := r.db.WithContext(ctx).
		Preload("RecomendadoPor").
		Order("nombre ASC").
		Find(&ls).Error
	return ls, err
}

func (r *liderRepo) Update(ctx context.Context, l *model.Lider) error {
	return r.db.WithContext(ctx).Save(l).Error
}

func (r *liderRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Lider{}, "id = ?", id).Error
}

func (r *liderRepo) CountVotaciones(ctx context.Context, id uuid.UUID) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Votacion{}).
		Where("leader_id = ?", id).Count(&n).Error
	return n, err
}
