package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/INGMEGANO/PSPVoteBackend/internal/model"
)

type PuestoRepository interface {
	Create(ctx context.Context, p *model.PuestoVotacion) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.PuestoVotacion, error)
	List(ctx context.Context) ([]model.PuestoVotacion, error)
	Update(ctx context.Context, p *model.PuestoVotacion) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type puestoRepo struct{ db *gorm.DB }

func NewPuestoRepository(db *gorm.DB) PuestoRepository { return &puestoRepo{db: db} }

func (r *puestoRepo) Create(ctx context.Context, p *model.PuestoVotacion) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *puestoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.PuestoVotacion, error) {
	var p model.PuestoVotacion
	err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *puestoRepo) List(ctx context.Context) ([]model.PuestoVotacion, error) {
	var ps []model.PuestoVotacion
	err := r.db.WithContext(ctx).Order("puesto ASC").Find(&ps).Error
	return ps, err
}

func (r *puestoRepo) Update(ctx context.Context, p *model.PuestoVotacion) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *puestoRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.PuestoVotacion{}, "id = ?", id).Error
}
