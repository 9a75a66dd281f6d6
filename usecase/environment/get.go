package environment

import (
	"context"
	"errors"

	"github.com/kompox/shipyard/domain/model"
	"github.com/kompox/shipyard/internal/validate"
)

// GetInput identifies the environment to fetch by ID or name.
type GetInput struct {
	EnvironmentID string `json:"environment_id" validate:"required"`
}

// GetOutput wraps the retrieved environment.
type GetOutput struct {
	Environment *model.Environment `json:"environment"`
}

// Get retrieves an environment. The identifier may also be the environment name.
func (u *UseCase) Get(ctx context.Context, in *GetInput) (*GetOutput, error) {
	if in == nil {
		return nil, model.NewValidationError("", "input is required")
	}
	if err := validate.Struct(in); err != nil {
		return nil, err
	}
	e, err := u.Repos.Environment.Get(ctx, in.EnvironmentID)
	if errors.Is(err, model.ErrNotFound) {
		e, err = u.Repos.Environment.GetByName(ctx, in.EnvironmentID)
	}
	if err != nil {
		return nil, err
	}
	return &GetOutput{Environment: e}, nil
}

// ListInput defines optional filters for listing environments.
type ListInput struct{}

// ListOutput wraps listed environments.
type ListOutput struct {
	Environments []*model.Environment `json:"environments"`
}

// List returns all environments.
func (u *UseCase) List(ctx context.Context, _ *ListInput) (*ListOutput, error) {
	items, err := u.Repos.Environment.List(ctx)
	if err != nil {
		return nil, err
	}
	return &ListOutput{Environments: items}, nil
}
