package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/INGMEGANO/PSPVoteBackend/internal/model"
)

type ProgramaRepository interface {
	List(ctx context.Context) ([]model.Programa, error)
	ListConSedes(ctx context.Context) ([]model.Programa, error)
	SedesPorPrograma(ctx context.Context, programaID uuid.UUID) ([]model.SedePrograma, error)
	Tipos(ctx context.Context) ([]model.TipoVinculacion, error)
	FindTipoByID(ctx context.Context, id uuid.UUID) (*model.TipoVinculacion, error)
}

type programaRepo struct{ db *gorm.DB }

func NewProgramaRepository(db *gorm.DB) ProgramaRepository { return &programaRepo{db: db} }

func (r *programaRepo) List(ctx context.Context) ([]model.Programa, error) {
	var ps []model.Programa
	err := r.db.WithContext(ctx).Order("nombre ASC").Find(&ps).Error
	return ps, err
}

func (r *programaRepo) ListConSedes(ctx context.Context) ([]model.Programa, error) {
	var ps []model.Programa
	err := r.db.WithContext(ctx).Preload("Sedes").Order("nombre ASC").Find(&ps).Error
	return ps, err
}

func (r *programaRepo) SedesPorPrograma(ctx context.Context, programaID uuid.UUID) ([]model.SedePrograma, error) {
	var ss []model.SedePrograma
	err := r.db.WithContext(ctx).
		Where("programa_id = ?", programaID).
		Order("nombre ASC").
		Find(&ss).Error
	return ss, err
}

func (r *programaRepo) Tipos(ctx context.Context) ([]model.TipoVinculacion, error) {
	var ts []model.TipoVinculacion
	err := r.db.WithContext(ctx).Order("nombre ASC").Find(&ts).Error
	return ts, err
}

func (r *programaRepo) FindTipoByID(ctx context.Context, id uuid.UUID) (*model.TipoVinculacion, error) {
	var t model.TipoVinculacion
	err := r.db.WithContext(ctx).First(&t, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}
