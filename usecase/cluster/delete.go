package cluster

import (
	"context"

	"github.com/kompox/shipyard/domain/model"
	"github.com/kompox/shipyard/internal/validate"
)

// DeleteInput identifies the cluster to delete.
type DeleteInput struct {
	ClusterID string `json:"cluster_id" validate:"required"`
}

// DeleteOutput is empty because delete has no return entity.
type DeleteOutput struct{}

// Delete unregisters a cluster that hosts no component. Nothing is removed from the cluster itself.
func (u *UseCase) Delete(ctx context.Context, in *DeleteInput) (*DeleteOutput, error) {
	if in == nil {
		return nil, model.NewValidationError("", "input is required")
	}
	if err := validate.Struct(in); err != nil {
		return nil, err
	}
	c, err := u.get(ctx, in.ClusterID)
	if err != nil {
		return nil, err
	}
	n, err := u.Repos.ClusterInstance.CountByCluster(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	if n > 0 {
		return nil, model.NewValidationError("cluster_id", "cluster %s still hosts %d components", c.Name, n)
	}
	if err := u.Repos.Cluster.Delete(ctx, c.ID); err != nil {
		return nil, err
	}
	return &DeleteOutput{}, nil
}
