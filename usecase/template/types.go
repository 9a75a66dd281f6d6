// Package template manages manifest templates and the render plans that order them per
// component type.
package template

import (
	"context"
	"errors"

	"github.com/kompox/shipyard/domain"
	"github.com/kompox/shipyard/domain/model"
)

// UseCase wires repositories and the transaction boundary needed for template use cases.
type UseCase struct {
	Repos *domain.Repositories
	UoW   domain.UnitOfWork
}

func (u *UseCase) get(ctx context.Context, idOrName string) (*model.Template, error) {
	t, err := u.Repos.Template.Get(ctx, idOrName)
	if errors.Is(err, model.ErrNotFound) {
		t, err = u.Repos.Template.GetByName(ctx, idOrName)
	}
	return t, err
}
