// Package instance manages application instances: one application deployed to one environment.
package instance

import (
	"github.com/kompox/shipyard/domain"
	"github.com/kompox/shipyard/domain/model"
	"github.com/kompox/shipyard/usecase/component"
)

// UseCase wires the repositories, the transaction boundary and the cluster connector
// needed by instance use cases.
type UseCase struct {
	Repos     *domain.Repositories
	UoW       domain.UnitOfWork
	Connector model.ClusterConnector
}

func (u *UseCase) components() *component.UseCase {
	return &component.UseCase{Repos: u.Repos, UoW: u.UoW, Connector: u.Connector}
}
