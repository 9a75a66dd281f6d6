package instance

import (
	"context"

	"github.com/kompox/shipyard/domain/model"
	"github.com/kompox/shipyard/internal/validate"
)

// GetInput identifies the instance to fetch.
type GetInput struct {
	InstanceID string `json:"instance_id" validate:"required"`
}

// GetOutput wraps the retrieved instance and its components.
type GetOutput struct {
	Instance   *model.Instance    `json:"instance"`
	Components []*model.Component `json:"components"`
}

// Get retrieves an instance together with its components.
func (u *UseCase) Get(ctx context.Context, in *GetInput) (*GetOutput, error) {
	if in == nil {
		return nil, model.NewValidationError("", "input is required")
	}
	if err := validate.Struct(in); err != nil {
		return nil, err
	}
	i, err := u.Repos.Instance.Get(ctx, in.InstanceID)
	if err != nil {
		return nil, err
	}
	cs, err := u.Repos.Component.ListByInstance(ctx, i.ID)
	if err != nil {
		return nil, err
	}
	return &GetOutput{Instance: i, Components: cs}, nil
}

// ListInput optionally filters instances by application or environment.
type ListInput struct {
	ApplicationID string `json:"application_id,omitempty"`
	EnvironmentID string `json:"environment_id,omitempty"`
}

// ListOutput wraps listed instances.
type ListOutput struct {
	Instances []*model.Instance `json:"instances"`
}

// List returns instances matching every given filter.
func (u *UseCase) List(ctx context.Context, in *ListInput) (*ListOutput, error) {
	if in == nil {
		in = &ListInput{}
	}
	var (
		items []*model.Instance
		err   error
	)
	switch {
	case in.ApplicationID != "":
		items, err = u.Repos.Instance.ListByApplication(ctx, in.ApplicationID)
	case in.EnvironmentID != "":
		items, err = u.Repos.Instance.ListByEnvironment(ctx, in.EnvironmentID)
	default:
		items, err = u.Repos.Instance.List(ctx)
	}
	if err != nil {
		return nil, err
	}
	if in.ApplicationID != "" && in.EnvironmentID != "" {
		filtered := items[:0]
		for _, i := range items {
			if i.EnvironmentID == in.EnvironmentID {
				filtered = append(filtered, i)
			}
		}
		items = filtered
	}
	return &ListOutput{Instances: items}, nil
}
