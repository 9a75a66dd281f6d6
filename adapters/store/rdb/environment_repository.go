package rdb

import (
	"context"

	"github.com/google/uuid"
	"github.com/kompox/shipyard/domain"
	"github.com/kompox/shipyard/domain/model"
	"gorm.io/gorm"
)

type EnvironmentRepository struct{ db *gorm.DB }

func NewEnvironmentRepository(db *gorm.DB) *EnvironmentRepository {
	return &EnvironmentRepository{db: db}
}

func environmentToRecord(e *model.Environment) *EnvironmentRecord {
	return &EnvironmentRecord{ID: e.ID, Name: e.Name, CreatedAt: e.CreatedAt, UpdatedAt: e.UpdatedAt}
}
func environmentToModel(r *EnvironmentRecord) *model.Environment {
	return &model.Environment{ID: r.ID, Name: r.Name, CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt}
}

func (r *EnvironmentRepository) Create(ctx context.Context, e *model.Environment) error {
	rec := environmentToRecord(e)
	if rec.ID == "" {
		rec.ID = "env-" + uuid.NewString()
	}
	if err := r.db.WithContext(ctx).Create(rec).Error; err != nil {
		return translate(err, model.ErrEnvironmentNotFound)
	}
	*e = *environmentToModel(rec)
	return nil
}

func (r *EnvironmentRepository) Get(ctx context.Context, id string) (*model.Environment, error) {
	var rec EnvironmentRecord
	if err := r.db.WithContext(ctx).First(&rec, "id = ?", id).Error; err != nil {
		return nil, translate(err, model.ErrEnvironmentNotFound)
	}
	return environmentToModel(&rec), nil
}

func (r *EnvironmentRepository) GetByName(ctx context.Context, name string) (*model.Environment, error) {
	var rec EnvironmentRecord
	if err := r.db.WithContext(ctx).First(&rec, "name = ?", name).Error; err != nil {
		return nil, translate(err, model.ErrEnvironmentNotFound)
	}
	return environmentToModel(&rec), nil
}

func (r *EnvironmentRepository) List(ctx context.Context) ([]*model.Environment, error) {
	var recs []EnvironmentRecord
	if err := r.db.WithContext(ctx).Order("created_at ASC").Find(&recs).Error; err != nil {
		return nil, err
	}
	out := make([]*model.Environment, 0, len(recs))
	for i := range recs {
		out = append(out, environmentToModel(&recs[i]))
	}
	return out, nil
}

func (r *EnvironmentRepository) Update(ctx context.Context, e *model.Environment) error {
	return updateAll(ctx, r.db, environmentToRecord(e), e.ID, model.ErrEnvironmentNotFound)
}

func (r *EnvironmentRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.db, &EnvironmentRecord{}, id, model.ErrEnvironmentNotFound)
}

var _ domain.EnvironmentRepository = (*EnvironmentRepository)(nil)
