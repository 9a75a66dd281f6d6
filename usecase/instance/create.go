package instance

import (
	"context"
	"fmt"

	"github.com/kompox/shipyard/domain/model"
	"github.com/kompox/shipyard/internal/validate"
)

// CreateInput contains data to create an instance.
type CreateInput struct {
	ApplicationID string `json:"application_id" validate:"required"`
	EnvironmentID string `json:"environment_id" validate:"required"`
	// Image is the container image without tag.
	Image string `json:"image" validate:"required,nowhitespace"`
	// Version is the image tag; templates fall back to "latest".
	Version string `json:"version,omitempty" validate:"omitempty,nowhitespace"`
	// Enabled defaults to true.
	Enabled *bool `json:"enabled,omitempty"`
}

// CreateOutput wraps the created instance.
type CreateOutput struct {
	Instance *model.Instance `json:"instance"`
}

// Create binds an application to an environment. Only one instance may exist per pair.
func (u *UseCase) Create(ctx context.Context, in *CreateInput) (*CreateOutput, error) {
	if in == nil {
		return nil, model.NewValidationError("", "input is required")
	}
	if err := validate.Struct(in); err != nil {
		return nil, err
	}
	if _, err := u.Repos.Application.Get(ctx, in.ApplicationID); err != nil {
		return nil, err
	}
	if _, err := u.Repos.Environment.Get(ctx, in.EnvironmentID); err != nil {
		return nil, err
	}
	i := &model.Instance{
		ApplicationID: in.ApplicationID,
		EnvironmentID: in.EnvironmentID,
		Image:         in.Image,
		Version:       in.Version,
		Enabled:       in.Enabled == nil || *in.Enabled,
	}
	if err := u.Repos.Instance.Create(ctx, i); err != nil {
		return nil, fmt.Errorf("create instance: %w", err)
	}
	return &CreateOutput{Instance: i}, nil
}
