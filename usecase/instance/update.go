package instance

import (
	"context"

	"github.com/kompox/shipyard/domain/model"
	"github.com/kompox/shipyard/internal/validate"
	"github.com/kompox/shipyard/usecase/component"
)

// UpdateInput specifies instance fields that can be changed.
type UpdateInput struct {
	InstanceID string  `json:"instance_id" validate:"required"`
	Image      *string `json:"image,omitempty" validate:"omitempty,min=1,nowhitespace"`
	Version    *string `json:"version,omitempty" validate:"omitempty,nowhitespace"`
	Enabled    *bool   `json:"enabled,omitempty"`
	// Sync rolls the change out to every component of the instance after it is saved.
	Sync bool `json:"sync,omitempty"`
}

// UpdateOutput wraps the updated instance and, when requested, the sync report.
type UpdateOutput struct {
	Instance *model.Instance       `json:"instance"`
	Sync     *component.SyncOutput `json:"sync,omitempty"`
}

// Update applies provided changes to an instance.
func (u *UseCase) Update(ctx context.Context, in *UpdateInput) (*UpdateOutput, error) {
	if in == nil {
		return nil, model.NewValidationError("", "input is required")
	}
	if err := validate.Struct(in); err != nil {
		return nil, err
	}
	existing, err := u.Repos.Instance.Get(ctx, in.InstanceID)
	if err != nil {
		return nil, err
	}
	changed := false
	if in.Image != nil && *in.Image != existing.Image {
		existing.Image = *in.Image
		changed = true
	}
	if in.Version != nil && *in.Version != existing.Version {
		existing.Version = *in.Version
		changed = true
	}
	if in.Enabled != nil && *in.Enabled != existing.Enabled {
		existing.Enabled = *in.Enabled
		changed = true
	}
	if changed {
		if err := u.Repos.Instance.Update(ctx, existing); err != nil {
			return nil, err
		}
	}
	out := &UpdateOutput{Instance: existing}
	if in.Sync {
		if out.Sync, err = u.components().Sync(ctx, &component.SyncInput{InstanceID: existing.ID}); err != nil {
			return nil, err
		}
	}
	return out, nil
}
