package rdb

import (
	"context"

	"github.com/google/uuid"
	"github.com/kompox/shipyard/domain"
	"github.com/kompox/shipyard/domain/model"
	"gorm.io/gorm"
)

type ApplicationRepository struct{ db *gorm.DB }

func NewApplicationRepository(db *gorm.DB) *ApplicationRepository {
	return &ApplicationRepository{db: db}
}

func applicationToRecord(a *model.Application) *ApplicationRecord {
	return &ApplicationRecord{ID: a.ID, Name: a.Name, CreatedAt: a.CreatedAt, UpdatedAt: a.UpdatedAt}
}
func applicationToModel(r *ApplicationRecord) *model.Application {
	return &model.Application{ID: r.ID, Name: r.Name, CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt}
}

func (r *ApplicationRepository) Create(ctx context.Context, a *model.Application) error {
	rec := applicationToRecord(a)
	if rec.ID == "" {
		rec.ID = "app-" + uuid.NewString()
	}
	if err := r.db.WithContext(ctx).Create(rec).Error; err != nil {
		return translate(err, model.ErrApplicationNotFound)
	}
	*a = *applicationToModel(rec)
	return nil
}

func (r *ApplicationRepository) Get(ctx context.Context, id string) (*model.Application, error) {
	var rec ApplicationRecord
	if err := r.db.WithContext(ctx).First(&rec, "id = ?", id).Error; err != nil {
		return nil, translate(err, model.ErrApplicationNotFound)
	}
	return applicationToModel(&rec), nil
}

func (r *ApplicationRepository) GetByName(ctx context.Context, name string) (*model.Application, error) {
	var rec ApplicationRecord
	if err := r.db.WithContext(ctx).First(&rec, "name = ?", name).Error; err != nil {
		return nil, translate(err, model.ErrApplicationNotFound)
	}
	return applicationToModel(&rec), nil
}

func (r *ApplicationRepository) List(ctx context.Context) ([]*model.Application, error) {
	var recs []ApplicationRecord
	if err := r.db.WithContext(ctx).Order("created_at ASC").Find(&recs).Error; err != nil {
		return nil, err
	}
	out := make([]*model.Application, 0, len(recs))
	for i := range recs {
		out = append(out, applicationToModel(&recs[i]))
	}
	return out, nil
}

func (r *ApplicationRepository) Update(ctx context.Context, a *model.Application) error {
	return updateAll(ctx, r.db, applicationToRecord(a), a.ID, model.ErrApplicationNotFound)
}

func (r *ApplicationRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.db, &ApplicationRecord{}, id, model.ErrApplicationNotFound)
}

var _ domain.ApplicationRepository = (*ApplicationRepository)(nil)
