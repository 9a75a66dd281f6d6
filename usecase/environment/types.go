// Package environment manages deployment tiers.
package environment

import "github.com/kompox/shipyard/domain"

// Repos holds repositories needed for environment use cases.
type Repos struct {
	Environment domain.EnvironmentRepository
	Cluster     domain.ClusterRepository
	Instance    domain.InstanceRepository
}

// UseCase wires repositories needed for environment use cases.
type UseCase struct {
	Repos *Repos
}

// New returns an environment UseCase backed by repos.
func New(repos *domain.Repositories) *UseCase {
	return &UseCase{Repos: &Repos{
		Environment: repos.Environment,
		Cluster:     repos.Cluster,
		Instance:    repos.Instance,
	}}
}
