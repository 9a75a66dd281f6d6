package rdb

import (
	"context"

	"github.com/google/uuid"
	"github.com/kompox/shipyard/domain"
	"github.com/kompox/shipyard/domain/model"
	"gorm.io/gorm"
)

type ClusterRepository struct{ db *gorm.DB }

func NewClusterRepository(db *gorm.DB) *ClusterRepository { return &ClusterRepository{db: db} }

func clusterToRecord(c *model.Cluster) *ClusterRecord {
	return &ClusterRecord{
		ID:                    c.ID,
		Name:                  c.Name,
		APIAddress:            c.APIAddress,
		Token:                 c.Token,
		EnvironmentID:         c.EnvironmentID,
		InsecureSkipTLSVerify: c.InsecureSkipTLSVerify,
		CreatedAt:             c.CreatedAt,
		UpdatedAt:             c.UpdatedAt,
	}
}
func clusterToModel(r *ClusterRecord) *model.Cluster {
	return &model.Cluster{
		ID:                    r.ID,
		Name:                  r.Name,
		APIAddress:            r.APIAddress,
		Token:                 r.Token,
		EnvironmentID:         r.EnvironmentID,
		InsecureSkipTLSVerify: r.InsecureSkipTLSVerify,
		CreatedAt:             r.CreatedAt,
		UpdatedAt:             r.UpdatedAt,
	}
}

func (r *ClusterRepository) Create(ctx context.Context, c *model.Cluster) error {
	rec := clusterToRecord(c)
	if rec.ID == "" {
		rec.ID = "clus-" + uuid.NewString()
	}
	if err := r.db.WithContext(ctx).Create(rec).Error; err != nil {
		return translate(err, model.ErrClusterNotFound)
	}
	*c = *clusterToModel(rec)
	return nil
}

func (r *ClusterRepository) Get(ctx context.Context, id string) (*model.Cluster, error) {
	var rec ClusterRecord
	if err := r.db.WithContext(ctx).First(&rec, "id = ?", id).Error; err != nil {
		return nil, translate(err, model.ErrClusterNotFound)
	}
	return clusterToModel(&rec), nil
}

func (r *ClusterRepository) GetByName(ctx context.Context, name string) (*model.Cluster, error) {
	var rec ClusterRecord
	if err := r.db.WithContext(ctx).First(&rec, "name = ?", name).Error; err != nil {
		return nil, translate(err, model.ErrClusterNotFound)
	}
	return clusterToModel(&rec), nil
}

func (r *ClusterRepository) List(ctx context.Context) ([]*model.Cluster, error) {
	return r.find(r.db.WithContext(ctx))
}

func (r *ClusterRepository) ListByEnvironment(ctx context.Context, environmentID string) ([]*model.Cluster, error) {
	return r.find(r.db.WithContext(ctx).Where("environment_id = ?", environmentID))
}

func (r *ClusterRepository) find(q *gorm.DB) ([]*model.Cluster, error) {
	var recs []ClusterRecord
	if err := q.Order("created_at ASC").Find(&recs).Error; err != nil {
		return nil, err
	}
	out := make([]*model.Cluster, 0, len(recs))
	for i := range recs {
		out = append(out, clusterToModel(&recs[i]))
	}
	return out, nil
}

func (r *ClusterRepository) Update(ctx context.Context, c *model.Cluster) error {
	return updateAll(ctx, r.db, clusterToRecord(c), c.ID, model.ErrClusterNotFound)
}

func (r *ClusterRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.db, &ClusterRecord{}, id, model.ErrClusterNotFound)
}

var _ domain.ClusterRepository = (*ClusterRepository)(nil)
