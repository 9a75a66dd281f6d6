// Package placement chooses the cluster a component is deployed to.
package placement

import (
	"context"
	"fmt"

	"github.com/kompox/shipyard/domain"
	"github.com/kompox/shipyard/domain/model"
	"github.com/kompox/shipyard/internal/validate"
)

// Repos holds repositories needed for placement.
type Repos struct {
	Environment     domain.EnvironmentRepository
	Cluster         domain.ClusterRepository
	ClusterInstance domain.ClusterInstanceRepository
}

// UseCase implements the least-loaded placement policy.
type UseCase struct {
	Repos *Repos
}

// New returns a placement UseCase reading from repos.
func New(repos *domain.Repositories) *UseCase {
	return &UseCase{Repos: &Repos{
		Environment:     repos.Environment,
		Cluster:         repos.Cluster,
		ClusterInstance: repos.ClusterInstance,
	}}
}

// LoadsInput identifies the environment to inspect.
type LoadsInput struct {
	EnvironmentID string `json:"environment_id" validate:"required"`
}

// LoadsOutput lists every cluster of the environment with its component count, in creation order.
type LoadsOutput struct {
	Loads []model.ClusterLoad `json:"loads"`
}

// Loads counts the ClusterInstance rows of every cluster in the environment.
func (u *UseCase) Loads(ctx context.Context, in *LoadsInput) (*LoadsOutput, error) {
	if in == nil {
		return nil, model.NewValidationError("", "input is required")
	}
	if err := validate.Struct(in); err != nil {
		return nil, err
	}
	clusters, err := u.Repos.Cluster.ListByEnvironment(ctx, in.EnvironmentID)
	if err != nil {
		return nil, fmt.Errorf("list clusters: %w", err)
	}
	loads := make([]model.ClusterLoad, 0, len(clusters))
	for _, c := range clusters {
		n, err := u.Repos.ClusterInstance.CountByCluster(ctx, c.ID)
		if err != nil {
			return nil, fmt.Errorf("count cluster instances of %s: %w", c.Name, err)
		}
		loads = append(loads, model.ClusterLoad{Cluster: c, Components: n})
	}
	return &LoadsOutput{Loads: loads}, nil
}

// PickInput identifies the environment to place into.
type PickInput struct {
	EnvironmentID string `json:"environment_id" validate:"required"`
}

// PickOutput is the chosen cluster and its load before placement.
type PickOutput struct {
	Cluster    *model.Cluster `json:"cluster"`
	Components int            `json:"components"`
}

// PickLeastLoaded returns the cluster hosting the fewest components. Ties go to the
// earliest created cluster. An environment without clusters yields a PlacementError.
func (u *UseCase) PickLeastLoaded(ctx context.Context, in *PickInput) (*PickOutput, error) {
	if in == nil {
		return nil, model.NewValidationError("", "input is required")
	}
	out, err := u.Loads(ctx, &LoadsInput{EnvironmentID: in.EnvironmentID})
	if err != nil {
		return nil, err
	}
	if len(out.Loads) == 0 {
		name := in.EnvironmentID
		if env, err := u.Repos.Environment.Get(ctx, in.EnvironmentID); err == nil {
			name = env.Name
		}
		return nil, &model.PlacementError{Environment: name, Err: model.ErrNoClustersAvailable}
	}
	best := out.Loads[0]
	for _, l := range out.Loads[1:] {
		if l.Components < best.Components {
			best = l
		}
	}
	return &PickOutput{Cluster: best.Cluster, Components: best.Components}, nil
}
