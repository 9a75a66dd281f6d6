// Package component orchestrates the lifecycle of application components: it keeps the
// persisted records and the resources deployed on the hosting cluster convergent.
package component

import (
	"github.com/kompox/shipyard/domain"
	"github.com/kompox/shipyard/domain/model"
)

// UseCase wires the repositories, the transaction boundary and the cluster connector
// needed by component use cases.
type UseCase struct {
	Repos     *domain.Repositories
	UoW       domain.UnitOfWork
	Connector model.ClusterConnector
}

// Transition names the lifecycle transition performed by an update.
type Transition string

const (
	TransitionCreate  Transition = "create"
	TransitionUpdate  Transition = "update"
	TransitionEnable  Transition = "enable"
	TransitionDisable Transition = "disable"
	TransitionPersist Transition = "persist"
	TransitionDelete  Transition = "delete"
	TransitionSync    Transition = "sync"
)
