// Package dashboard summarizes what is registered and deployed.
package dashboard

import (
	"context"
	"fmt"

	"github.com/kompox/shipyard/domain"
	"github.com/kompox/shipyard/domain/model"
)

// Repos holds repositories needed for the overview.
type Repos struct {
	Environment     domain.EnvironmentRepository
	Cluster         domain.ClusterRepository
	Application     domain.ApplicationRepository
	Instance        domain.InstanceRepository
	Component       domain.ComponentRepository
	ClusterInstance domain.ClusterInstanceRepository
}

// UseCase computes the overview.
type UseCase struct {
	Repos *Repos
}

// New returns a dashboard UseCase reading from repos.
func New(repos *domain.Repositories) *UseCase {
	return &UseCase{Repos: &Repos{
		Environment:     repos.Environment,
		Cluster:         repos.Cluster,
		Application:     repos.Application,
		Instance:        repos.Instance,
		Component:       repos.Component,
		ClusterInstance: repos.ClusterInstance,
	}}
}

// ComponentStats counts components by type and by enabled state.
type ComponentStats struct {
	Total    int `json:"total"`
	Webapp   int `json:"webapp"`
	Worker   int `json:"worker"`
	Cron     int `json:"cron"`
	Enabled  int `json:"enabled"`
	Disabled int `json:"disabled"`
}

func (s *ComponentStats) add(c *model.Component) {
	s.Total++
	switch c.Type {
	case model.ComponentTypeWebapp:
		s.Webapp++
	case model.ComponentTypeWorker:
		s.Worker++
	case model.ComponentTypeCron:
		s.Cron++
	}
	if c.Enabled {
		s.Enabled++
	} else {
		s.Disabled++
	}
}

// OverviewInput is empty; the overview always covers every environment.
type OverviewInput struct{}

// OverviewOutput holds the totals. The per-environment and per-cluster maps are keyed
// by name and omit entries without components.
type OverviewOutput struct {
	Applications            int            `json:"applications"`
	Instances               int            `json:"instances"`
	Clusters                int            `json:"clusters"`
	Environments            int            `json:"environments"`
	Components              ComponentStats `json:"components"`
	ComponentsByEnvironment map[string]int `json:"components_by_environment"`
	ComponentsByCluster     map[string]int `json:"components_by_cluster"`
}

// Overview counts applications, instances, clusters, environments and components.
func (u *UseCase) Overview(ctx context.Context, _ *OverviewInput) (*OverviewOutput, error) {
	out := &OverviewOutput{
		ComponentsByEnvironment: map[string]int{},
		ComponentsByCluster:     map[string]int{},
	}

	apps, err := u.Repos.Application.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	out.Applications = len(apps)

	envs, err := u.Repos.Environment.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list environments: %w", err)
	}
	out.Environments = len(envs)
	for _, env := range envs {
		instances, err := u.Repos.Instance.ListByEnvironment(ctx, env.ID)
		if err != nil {
			return nil, fmt.Errorf("list instances of %s: %w", env.Name, err)
		}
		out.Instances += len(instances)
		for _, inst := range instances {
			components, err := u.Repos.Component.ListByInstance(ctx, inst.ID)
			if err != nil {
				return nil, fmt.Errorf("list components of instance %s: %w", inst.ID, err)
			}
			for _, c := range components {
				out.Components.add(c)
				out.ComponentsByEnvironment[env.Name]++
			}
		}
	}

	clusters, err := u.Repos.Cluster.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list clusters: %w", err)
	}
	out.Clusters = len(clusters)
	for _, c := range clusters {
		n, err := u.Repos.ClusterInstance.CountByCluster(ctx, c.ID)
		if err != nil {
			return nil, fmt.Errorf("count cluster instances of %s: %w", c.Name, err)
		}
		if n > 0 {
			out.ComponentsByCluster[c.Name] = n
		}
	}
	return out, nil
}
