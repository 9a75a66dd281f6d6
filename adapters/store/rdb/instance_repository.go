package rdb

import (
	"context"

	"github.com/google/uuid"
	"github.com/kompox/shipyard/domain"
	"github.com/kompox/shipyard/domain/model"
	"gorm.io/gorm"
)

type InstanceRepository struct{ db *gorm.DB }

func NewInstanceRepository(db *gorm.DB) *InstanceRepository { return &InstanceRepository{db: db} }

func instanceToRecord(i *model.Instance) *InstanceRecord {
	return &InstanceRecord{
		ID:            i.ID,
		ApplicationID: i.ApplicationID,
		EnvironmentID: i.EnvironmentID,
		Image:         i.Image,
		Version:       i.Version,
		Enabled:       i.Enabled,
		CreatedAt:     i.CreatedAt,
		UpdatedAt:     i.UpdatedAt,
	}
}
func instanceToModel(r *InstanceRecord) *model.Instance {
	return &model.Instance{
		ID:            r.ID,
		ApplicationID: r.ApplicationID,
		EnvironmentID: r.EnvironmentID,
		Image:         r.Image,
		Version:       r.Version,
		Enabled:       r.Enabled,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}

func (r *InstanceRepository) Create(ctx context.Context, i *model.Instance) error {
	rec := instanceToRecord(i)
	if rec.ID == "" {
		rec.ID = "inst-" + uuid.NewString()
	}
	if err := r.db.WithContext(ctx).Create(rec).Error; err != nil {
		return translate(err, model.ErrInstanceNotFound)
	}
	*i = *instanceToModel(rec)
	return nil
}

func (r *InstanceRepository) Get(ctx context.Context, id string) (*model.Instance, error) {
	var rec InstanceRecord
	if err := r.db.WithContext(ctx).First(&rec, "id = ?", id).Error; err != nil {
		return nil, translate(err, model.ErrInstanceNotFound)
	}
	return instanceToModel(&rec), nil
}

func (r *InstanceRepository) List(ctx context.Context) ([]*model.Instance, error) {
	return r.find(r.db.WithContext(ctx))
}

func (r *InstanceRepository) ListByApplication(ctx context.Context, applicationID string) ([]*model.Instance, error) {
	return r.find(r.db.WithContext(ctx).Where("application_id = ?", applicationID))
}

func (r *InstanceRepository) ListByEnvironment(ctx context.Context, environmentID string) ([]*model.Instance, error) {
	return r.find(r.db.WithContext(ctx).Where("environment_id = ?", environmentID))
}

func (r *InstanceRepository) find(q *gorm.DB) ([]*model.Instance, error) {
	var recs []InstanceRecord
	if err := q.Order("created_at ASC").Find(&recs).Error; err != nil {
		return nil, err
	}
	out := make([]*model.Instance, 0, len(recs))
	for i := range recs {
		out = append(out, instanceToModel(&recs[i]))
	}
	return out, nil
}

func (r *InstanceRepository) Update(ctx context.Context, i *model.Instance) error {
	return updateAll(ctx, r.db, instanceToRecord(i), i.ID, model.ErrInstanceNotFound)
}

func (r *InstanceRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.db, &InstanceRecord{}, id, model.ErrInstanceNotFound)
}

var _ domain.InstanceRepository = (*InstanceRepository)(nil)
