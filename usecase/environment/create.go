package environment

import (
	"context"

	"github.com/kompox/shipyard/domain/model"
	"github.com/kompox/shipyard/internal/validate"
)

// CreateInput contains data to create an environment.
type CreateInput struct {
	// Name is the environment name, unique.
	Name string `json:"name" validate:"required,max=63,dns1123"`
}

// CreateOutput wraps the created environment.
type CreateOutput struct {
	Environment *model.Environment `json:"environment"`
}

// Create persists a new environment.
func (u *UseCase) Create(ctx context.Context, in *CreateInput) (*CreateOutput, error) {
	if in == nil {
		return nil, model.NewValidationError("", "input is required")
	}
	if err := validate.Struct(in); err != nil {
		return nil, err
	}
	e := &model.Environment{Name: in.Name}
	if err := u.Repos.Environment.Create(ctx, e); err != nil {
		return nil, err
	}
	return &CreateOutput{Environment: e}, nil
}
