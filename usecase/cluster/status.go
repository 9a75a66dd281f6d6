package cluster

import (
	"context"

	"github.com/kompox/shipyard/domain/model"
	"github.com/kompox/shipyard/internal/logging"
	"github.com/kompox/shipyard/internal/validate"
)

// StatusInput identifies the cluster to inspect.
type StatusInput struct {
	ClusterID string `json:"cluster_id" validate:"required"`
}

// StatusOutput reports what a cluster runs and how much it hosts.
type StatusOutput struct {
	ClusterID     string                 `json:"cluster_id"`
	ClusterName   string                 `json:"cluster_name"`
	ServerVersion string                 `json:"server_version"`
	Capacity      *model.ClusterCapacity `json:"capacity"`
	Gateway       *model.GatewayFeatures `json:"gateway"`
	Components    int                    `json:"components"`
}

// Status probes a cluster and returns its version, allocatable capacity, routing
// extension support and the number of components placed on it.
func (u *UseCase) Status(ctx context.Context, in *StatusInput) (*StatusOutput, error) {
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
	api, err := u.probe(ctx, c)
	if err != nil {
		return nil, err
	}
	out := &StatusOutput{ClusterID: c.ID, ClusterName: c.Name}
	if out.ServerVersion, err = api.ServerVersion(ctx); err != nil {
		return nil, err
	}
	if out.Capacity, err = api.Capacity(ctx); err != nil {
		return nil, err
	}
	if out.Gateway, err = api.DetectGateway(ctx); err != nil {
		logging.FromContext(ctx).Warn(ctx, "Cluster:Status/gateway", "cluster", c.Name, "err", err)
	}
	if out.Components, err = u.Repos.ClusterInstance.CountByCluster(ctx, c.ID); err != nil {
		return nil, err
	}
	return out, nil
}
