package environment

import (
	"context"

	"github.com/kompox/shipyard/domain/model"
	"github.com/kompox/shipyard/internal/validate"
)

// DeleteInput identifies the environment to delete.
type DeleteInput struct {
	EnvironmentID string `json:"environment_id" validate:"required"`
}

// DeleteOutput is empty because delete has no return entity.
type DeleteOutput struct{}

// Delete removes an environment that no cluster or instance references.
func (u *UseCase) Delete(ctx context.Context, in *DeleteInput) (*DeleteOutput, error) {
	if in == nil {
		return nil, model.NewValidationError("", "input is required")
	}
	if err := validate.Struct(in); err != nil {
		return nil, err
	}
	e, err := u.Repos.Environment.Get(ctx, in.EnvironmentID)
	if err != nil {
		return nil, err
	}
	clusters, err := u.Repos.Cluster.ListByEnvironment(ctx, e.ID)
	if err != nil {
		return nil, err
	}
	if len(clusters) > 0 {
		return nil, model.NewValidationError("environment_id", "environment %s still has %d clusters", e.Name, len(clusters))
	}
	instances, err := u.Repos.Instance.ListByEnvironment(ctx, e.ID)
	if err != nil {
		return nil, err
	}
	if len(instances) > 0 {
		return nil, model.NewValidationError("environment_id", "environment %s still has %d instances", e.Name, len(instances))
	}
	if err := u.Repos.Environment.Delete(ctx, e.ID); err != nil {
		return nil, err
	}
	return &DeleteOutput{}, nil
}
