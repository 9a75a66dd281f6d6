package component

import (
	"context"

	"github.com/kompox/shipyard/domain/model"
	"github.com/kompox/shipyard/internal/validate"
)

// GetInput identifies the component to fetch.
type GetInput struct {
	ComponentID string `json:"component_id" validate:"required"`
}

// GetOutput contains the component and, when placed, its cluster.
type GetOutput struct {
	Component *model.Component `json:"component"`
	Cluster   *model.Cluster   `json:"cluster,omitempty"`
}

// Get returns a component with its placement.
func (u *UseCase) Get(ctx context.Context, in *GetInput) (*GetOutput, error) {
	if in == nil {
		return nil, model.NewValidationError("", "input is required")
	}
	if err := validate.Struct(in); err != nil {
		return nil, err
	}
	t, err := loadTarget(ctx, u.Repos, in.ComponentID)
	if err != nil {
		return nil, err
	}
	return &GetOutput{Component: t.Component, Cluster: t.Cluster}, nil
}

// ListInput identifies the instance whose components are listed.
type ListInput struct {
	InstanceID string `json:"instance_id" validate:"required"`
}

// ListOutput contains the components of an instance.
type ListOutput struct {
	Components []*model.Component `json:"components"`
}

// List returns the components of an instance.
func (u *UseCase) List(ctx context.Context, in *ListInput) (*ListOutput, error) {
	if in == nil {
		return nil, model.NewValidationError("", "input is required")
	}
	if err := validate.Struct(in); err != nil {
		return nil, err
	}
	components, err := u.Repos.Component.ListByInstance(ctx, in.InstanceID)
	if err != nil {
		return nil, err
	}
	return &ListOutput{Components: components}, nil
}
