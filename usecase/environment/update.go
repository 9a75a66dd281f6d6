package environment

import (
	"context"

	"github.com/kompox/shipyard/domain/model"
	"github.com/kompox/shipyard/internal/validate"
)

// UpdateInput specifies environment fields that can be changed.
type UpdateInput struct {
	EnvironmentID string  `json:"environment_id" validate:"required"`
	Name          *string `json:"name,omitempty" validate:"omitempty,max=63,dns1123"`
}

// UpdateOutput wraps the updated environment.
type UpdateOutput struct {
	Environment *model.Environment `json:"environment"`
}

// Update renames an environment.
func (u *UseCase) Update(ctx context.Context, in *UpdateInput) (*UpdateOutput, error) {
	if in == nil {
		return nil, model.NewValidationError("", "input is required")
	}
	if err := validate.Struct(in); err != nil {
		return nil, err
	}
	existing, err := u.Repos.Environment.Get(ctx, in.EnvironmentID)
	if err != nil {
		return nil, err
	}
	if in.Name != nil && *in.Name != existing.Name {
		existing.Name = *in.Name
		if err := u.Repos.Environment.Update(ctx, existing); err != nil {
			return nil, err
		}
	}
	return &UpdateOutput{Environment: existing}, nil
}
