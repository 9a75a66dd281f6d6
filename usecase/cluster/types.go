// Package cluster registers Kubernetes clusters and reports on them.
package cluster

import (
	"context"

	"github.com/kompox/shipyard/domain"
	"github.com/kompox/shipyard/domain/model"
)

// Repos holds repositories needed for cluster use cases.
type Repos struct {
	Environment     domain.EnvironmentRepository
	Cluster         domain.ClusterRepository
	ClusterInstance domain.ClusterInstanceRepository
}

// UseCase wires repositories and the connector needed for cluster use cases.
type UseCase struct {
	Repos     *Repos
	Connector model.ClusterConnector
}

// New returns a cluster UseCase backed by repos and probing clusters through connector.
func New(repos *domain.Repositories, connector model.ClusterConnector) *UseCase {
	return &UseCase{
		Repos: &Repos{
			Environment:     repos.Environment,
			Cluster:         repos.Cluster,
			ClusterInstance: repos.ClusterInstance,
		},
		Connector: connector,
	}
}

// probe connects to c and lists its namespaces.
func (u *UseCase) probe(ctx context.Context, c *model.Cluster) (model.ClusterAPI, error) {
	if u.Connector == nil {
		return nil, &model.ClusterAPIError{Cluster: c.Name, Op: "connect", Err: errNoConnector}
	}
	api, err := u.Connector.Connect(ctx, c)
	if err != nil {
		return nil, &model.ClusterAPIError{Cluster: c.Name, Op: "connect", Err: err}
	}
	if err := api.Ping(ctx); err != nil {
		return nil, err
	}
	return api, nil
}
