// Package settings manages the environment-scoped values exposed to templates as "environment".
package settings

import (
	"context"
	"fmt"

	"github.com/kompox/shipyard/domain"
	"github.com/kompox/shipyard/domain/model"
	"github.com/kompox/shipyard/internal/validate"
)

// Repos holds repositories needed for settings use cases.
type Repos struct {
	Environment domain.EnvironmentRepository
	Setting     domain.SettingRepository
}

// UseCase wires repositories needed for settings use cases.
type UseCase struct {
	Repos *Repos
}

// New returns a settings UseCase backed by repos.
func New(repos *domain.Repositories) *UseCase {
	return &UseCase{Repos: &Repos{Environment: repos.Environment, Setting: repos.Setting}}
}

// SetInput creates or replaces the value of a key in an environment.
type SetInput struct {
	EnvironmentID string `json:"environment_id" validate:"required"`
	Key           string `json:"key" validate:"required,max=255,nowhitespace"`
	Value         any    `json:"value"`
	Description   string `json:"description,omitempty"`
}

// SetOutput wraps the stored setting.
type SetOutput struct {
	Setting *model.Setting `json:"setting"`
}

// Set upserts a setting. The (key, environment) pair is unique.
func (u *UseCase) Set(ctx context.Context, in *SetInput) (*SetOutput, error) {
	if in == nil {
		return nil, model.NewValidationError("", "input is required")
	}
	if err := validate.Struct(in); err != nil {
		return nil, err
	}
	if _, err := u.Repos.Environment.Get(ctx, in.EnvironmentID); err != nil {
		return nil, err
	}
	s := &model.Setting{EnvironmentID: in.EnvironmentID, Key: in.Key, Value: in.Value, Description: in.Description}
	if err := u.Repos.Setting.Upsert(ctx, s); err != nil {
		return nil, fmt.Errorf("set %s: %w", in.Key, err)
	}
	return &SetOutput{Setting: s}, nil
}

// GetInput identifies one setting.
type GetInput struct {
	EnvironmentID string `json:"environment_id" validate:"required"`
	Key           string `json:"key" validate:"required"`
}

// GetOutput wraps the retrieved setting.
type GetOutput struct {
	Setting *model.Setting `json:"setting"`
}

// Get retrieves the setting stored under key.
func (u *UseCase) Get(ctx context.Context, in *GetInput) (*GetOutput, error) {
	if in == nil {
		return nil, model.NewValidationError("", "input is required")
	}
	if err := validate.Struct(in); err != nil {
		return nil, err
	}
	s, err := u.Repos.Setting.Get(ctx, in.EnvironmentID, in.Key)
	if err != nil {
		return nil, err
	}
	return &GetOutput{Setting: s}, nil
}

// ListInput identifies the environment whose settings are listed.
type ListInput struct {
	EnvironmentID string `json:"environment_id" validate:"required"`
}

// ListOutput wraps listed settings.
type ListOutput struct {
	Settings []*model.Setting `json:"settings"`
}

// List returns every setting of an environment.
func (u *UseCase) List(ctx context.Context, in *ListInput) (*ListOutput, error) {
	if in == nil {
		return nil, model.NewValidationError("", "input is required")
	}
	if err := validate.Struct(in); err != nil {
		return nil, err
	}
	items, err := u.Repos.Setting.ListByEnvironment(ctx, in.EnvironmentID)
	if err != nil {
		return nil, err
	}
	return &ListOutput{Settings: items}, nil
}

// DeleteInput identifies the setting to delete.
type DeleteInput struct {
	EnvironmentID string `json:"environment_id" validate:"required"`
	Key           string `json:"key" validate:"required"`
}

// DeleteOutput is empty because delete has no return entity.
type DeleteOutput struct{}

// Delete removes the setting stored under key.
func (u *UseCase) Delete(ctx context.Context, in *DeleteInput) (*DeleteOutput, error) {
	if in == nil {
		return nil, model.NewValidationError("", "input is required")
	}
	if err := validate.Struct(in); err != nil {
		return nil, err
	}
	s, err := u.Repos.Setting.Get(ctx, in.EnvironmentID, in.Key)
	if err != nil {
		return nil, err
	}
	if err := u.Repos.Setting.Delete(ctx, s.ID); err != nil {
		return nil, err
	}
	return &DeleteOutput{}, nil
}
