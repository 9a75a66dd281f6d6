package placement

import (
	"context"
	"errors"
	"testing"

	"github.com/kompox/shipyard/adapters/store/inmem"
	"github.com/kompox/shipyard/domain"
	"github.com/kompox/shipyard/domain/model"
)

func addCluster(t *testing.T, repos *domain.Repositories, envID, name string, load int) *model.Cluster {
	t.Helper()
	ctx := context.Background()
	c := &model.Cluster{Name: name, APIAddress: "https://" + name + ".example:6443", EnvironmentID: envID}
	if err := repos.Cluster.Create(ctx, c); err != nil {
		t.Fatalf("create cluster: %v", err)
	}
	for i := 0; i < load; i++ {
		ci := &model.ClusterInstance{ClusterID: c.ID, ComponentID: name + "-comp-" + string(rune('0'+i))}
		if err := repos.ClusterInstance.Create(ctx, ci); err != nil {
			t.Fatalf("create cluster instance: %v", err)
		}
	}
	return c
}

func TestPickLeastLoaded(t *testing.T) {
	ctx := context.Background()
	repos := inmem.NewStore().Repositories()
	env := &model.Environment{Name: "prod"}
	if err := repos.Environment.Create(ctx, env); err != nil {
		t.Fatal(err)
	}
	addCluster(t, repos, env.ID, "a", 2)
	b := addCluster(t, repos, env.ID, "b", 0)
	addCluster(t, repos, env.ID, "c", 1)

	out, err := New(repos).PickLeastLoaded(ctx, &PickInput{EnvironmentID: env.ID})
	if err != nil {
		t.Fatalf("PickLeastLoaded: %v", err)
	}
	if out.Cluster.ID != b.ID || out.Components != 0 {
		t.Errorf("picked %s with %d components, want b", out.Cluster.Name, out.Components)
	}
}

func TestPickLeastLoadedTieGoesToOldest(t *testing.T) {
	ctx := context.Background()
	repos := inmem.NewStore().Repositories()
	first := addCluster(t, repos, "env-1", "first", 1)
	addCluster(t, repos, "env-1", "second", 1)
	addCluster(t, repos, "env-2", "elsewhere", 0)

	out, err := New(repos).PickLeastLoaded(ctx, &PickInput{EnvironmentID: "env-1"})
	if err != nil {
		t.Fatalf("PickLeastLoaded: %v", err)
	}
	if out.Cluster.ID != first.ID {
		t.Errorf("picked %s, want first", out.Cluster.Name)
	}
}

func TestPickLeastLoadedNoClusters(t *testing.T) {
	ctx := context.Background()
	repos := inmem.NewStore().Repositories()
	env := &model.Environment{Name: "staging"}
	if err := repos.Environment.Create(ctx, env); err != nil {
		t.Fatal(err)
	}
	_, err := New(repos).PickLeastLoaded(ctx, &PickInput{EnvironmentID: env.ID})
	var pe *model.PlacementError
	if !errors.As(err, &pe) || pe.Environment != "staging" {
		t.Fatalf("expected PlacementError naming staging, got %v", err)
	}
	if !errors.Is(err, model.ErrNoClustersAvailable) || !model.IsClientError(err) {
		t.Errorf("expected client error wrapping ErrNoClustersAvailable, got %v", err)
	}
}

func TestLoadsRequiresEnvironment(t *testing.T) {
	_, err := New(inmem.NewStore().Repositories()).Loads(context.Background(), &LoadsInput{})
	if !errors.Is(err, model.ErrValidation) {
		t.Errorf("expected validation error, got %v", err)
	}
}
