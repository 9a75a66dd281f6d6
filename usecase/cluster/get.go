package cluster

import (
	"context"
	"errors"

	"github.com/kompox/shipyard/domain/model"
	"github.com/kompox/shipyard/internal/validate"
)

// GetInput identifies the cluster to fetch by ID or name.
type GetInput struct {
	ClusterID string `json:"cluster_id" validate:"required"`
}

// GetOutput wraps the retrieved cluster.
type GetOutput struct {
	Cluster *model.Cluster `json:"cluster"`
}

// Get retrieves a cluster. The identifier may also be the cluster name.
func (u *UseCase) Get(ctx context.Context, in *GetInput) (*GetOutput, error) {
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
	return &GetOutput{Cluster: c}, nil
}

func (u *UseCase) get(ctx context.Context, idOrName string) (*model.Cluster, error) {
	c, err := u.Repos.Cluster.Get(ctx, idOrName)
	if errors.Is(err, model.ErrNotFound) {
		c, err = u.Repos.Cluster.GetByName(ctx, idOrName)
	}
	return c, err
}

// ListInput optionally restricts the listing to one environment.
type ListInput struct {
	EnvironmentID string `json:"environment_id,omitempty"`
}

// ListOutput wraps listed clusters in creation order.
type ListOutput struct {
	Clusters []*model.Cluster `json:"clusters"`
}

// List returns clusters.
func (u *UseCase) List(ctx context.Context, in *ListInput) (*ListOutput, error) {
	var (
		items []*model.Cluster
		err   error
	)
	if in != nil && in.EnvironmentID != "" {
		items, err = u.Repos.Cluster.ListByEnvironment(ctx, in.EnvironmentID)
	} else {
		items, err = u.Repos.Cluster.List(ctx)
	}
	if err != nil {
		return nil, err
	}
	return &ListOutput{Clusters: items}, nil
}
