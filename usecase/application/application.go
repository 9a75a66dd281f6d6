// Package application manages tenant applications. An application name is also the
// namespace its components are deployed to on every cluster.
package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/kompox/shipyard/domain"
	"github.com/kompox/shipyard/domain/model"
	"github.com/kompox/shipyard/internal/logging"
	"github.com/kompox/shipyard/internal/validate"
	"github.com/kompox/shipyard/usecase/instance"
)

// UseCase wires the repositories, the transaction boundary and the cluster connector
// needed by application use cases.
type UseCase struct {
	Repos     *domain.Repositories
	UoW       domain.UnitOfWork
	Connector model.ClusterConnector
}

func (u *UseCase) get(ctx context.Context, idOrName string) (*model.Application, error) {
	a, err := u.Repos.Application.Get(ctx, idOrName)
	if errors.Is(err, model.ErrNotFound) {
		a, err = u.Repos.Application.GetByName(ctx, idOrName)
	}
	return a, err
}

// CreateInput contains data to create an application.
type CreateInput struct {
	// Name is unique and becomes the namespace name.
	Name string `json:"name" validate:"required,max=63,dns1123"`
}

// CreateOutput wraps the created application.
type CreateOutput struct {
	Application *model.Application `json:"application"`
}

// Create persists a new application.
func (u *UseCase) Create(ctx context.Context, in *CreateInput) (*CreateOutput, error) {
	if in == nil {
		return nil, model.NewValidationError("", "input is required")
	}
	if err := validate.Struct(in); err != nil {
		return nil, err
	}
	a := &model.Application{Name: in.Name}
	if err := u.Repos.Application.Create(ctx, a); err != nil {
		return nil, err
	}
	return &CreateOutput{Application: a}, nil
}

// GetInput identifies an application by ID or name.
type GetInput struct {
	ApplicationID string `json:"application_id" validate:"required"`
}

// GetOutput wraps the retrieved application and its instances.
type GetOutput struct {
	Application *model.Application `json:"application"`
	Instances   []*model.Instance  `json:"instances"`
}

// Get retrieves an application together with its instances.
func (u *UseCase) Get(ctx context.Context, in *GetInput) (*GetOutput, error) {
	if in == nil {
		return nil, model.NewValidationError("", "input is required")
	}
	if err := validate.Struct(in); err != nil {
		return nil, err
	}
	a, err := u.get(ctx, in.ApplicationID)
	if err != nil {
		return nil, err
	}
	insts, err := u.Repos.Instance.ListByApplication(ctx, a.ID)
	if err != nil {
		return nil, err
	}
	return &GetOutput{Application: a, Instances: insts}, nil
}

// ListInput defines optional filters for listing applications.
type ListInput struct{}

// ListOutput wraps listed applications.
type ListOutput struct {
	Applications []*model.Application `json:"applications"`
}

// List returns all applications.
func (u *UseCase) List(ctx context.Context, _ *ListInput) (*ListOutput, error) {
	items, err := u.Repos.Application.List(ctx)
	if err != nil {
		return nil, err
	}
	return &ListOutput{Applications: items}, nil
}

// DeleteInput identifies the application to delete.
type DeleteInput struct {
	ApplicationID string `json:"application_id" validate:"required"`
}

// DeleteOutput is empty because delete has no return entity.
type DeleteOutput struct{}

// Delete removes every instance of the application through the instance cascade, then the application.
func (u *UseCase) Delete(ctx context.Context, in *DeleteInput) (out *DeleteOutput, err error) {
	if in == nil {
		return nil, model.NewValidationError("", "input is required")
	}
	if err := validate.Struct(in); err != nil {
		return nil, err
	}
	a, err := u.get(ctx, in.ApplicationID)
	if err != nil {
		return nil, err
	}

	logger := logging.FromContext(ctx)
	msgSym := "Application:Delete"
	logger.Info(ctx, msgSym+"/s", "application", a.Name)
	defer func() {
		if err == nil {
			logger.Info(ctx, msgSym+"/eok", "application", a.Name)
		} else {
			logger.Info(ctx, msgSym+"/efail", "application", a.Name, "err", err)
		}
	}()

	insts, err := u.Repos.Instance.ListByApplication(ctx, a.ID)
	if err != nil {
		return nil, err
	}
	iuc := &instance.UseCase{Repos: u.Repos, UoW: u.UoW, Connector: u.Connector}
	for _, i := range insts {
		if _, err := iuc.Delete(ctx, &instance.DeleteInput{InstanceID: i.ID}); err != nil {
			return nil, fmt.Errorf("delete instance %s: %w", i.ID, err)
		}
	}
	if err := u.Repos.Application.Delete(ctx, a.ID); err != nil {
		return nil, err
	}
	return &DeleteOutput{}, nil
}
