package rdb

import (
	"context"

	"github.com/google/uuid"
	"github.com/kompox/shipyard/domain"
	"github.com/kompox/shipyard/domain/model"
	"gorm.io/gorm"
)

type ClusterInstanceRepository struct{ db *gorm.DB }

func NewClusterInstanceRepository(db *gorm.DB) *ClusterInstanceRepository {
	return &ClusterInstanceRepository{db: db}
}

func clusterInstanceToModel(r *ClusterInstanceRecord) *model.ClusterInstance {
	return &model.ClusterInstance{ID: r.ID, ClusterID: r.ClusterID, ComponentID: r.ComponentID, CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt}
}

func (r *ClusterInstanceRepository) Create(ctx context.Context, ci *model.ClusterInstance) error {
	rec := &ClusterInstanceRecord{ID: ci.ID, ClusterID: ci.ClusterID, ComponentID: ci.ComponentID, CreatedAt: ci.CreatedAt, UpdatedAt: ci.UpdatedAt}
	if rec.ID == "" {
		rec.ID = "ci-" + uuid.NewString()
	}
	if err := r.db.WithContext(ctx).Create(rec).Error; err != nil {
		return translate(err, model.ErrClusterInstanceNotFound)
	}
	*ci = *clusterInstanceToModel(rec)
	return nil
}

func (r *ClusterInstanceRepository) GetByComponent(ctx context.Context, componentID string) (*model.ClusterInstance, error) {
	var rec ClusterInstanceRecord
	if err := r.db.WithContext(ctx).First(&rec, "component_id = ?", componentID).Error; err != nil {
		return nil, translate(err, model.ErrClusterInstanceNotFound)
	}
	return clusterInstanceToModel(&rec), nil
}

func (r *ClusterInstanceRepository) ListByCluster(ctx context.Context, clusterID string) ([]*model.ClusterInstance, error) {
	var recs []ClusterInstanceRecord
	if err := r.db.WithContext(ctx).Where("cluster_id = ?", clusterID).Order("created_at ASC").Find(&recs).Error; err != nil {
		return nil, err
	}
	out := make([]*model.ClusterInstance, 0, len(recs))
	for i := range recs {
		out = append(out, clusterInstanceToModel(&recs[i]))
	}
	return out, nil
}

func (r *ClusterInstanceRepository) CountByCluster(ctx context.Context, clusterID string) (int, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&ClusterInstanceRecord{}).Where("cluster_id = ?", clusterID).Count(&n).Error; err != nil {
		return 0, err
	}
	return int(n), nil
}

func (r *ClusterInstanceRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.db, &ClusterInstanceRecord{}, id, model.ErrClusterInstanceNotFound)
}

var _ domain.ClusterInstanceRepository = (*ClusterInstanceRepository)(nil)
