package dashboard

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/kompox/shipyard/adapters/store/inmem"
	"github.com/kompox/shipyard/domain/model"
)

func TestOverview(t *testing.T) {
	ctx := context.Background()
	repos := inmem.NewStore().Repositories()
	mustCreate := func(err error) {
		t.Helper()
		if err != nil {
			t.Fatal(err)
		}
	}

	prod := &model.Environment{Name: "prod"}
	dev := &model.Environment{Name: "dev"}
	mustCreate(repos.Environment.Create(ctx, prod))
	mustCreate(repos.Environment.Create(ctx, dev))
	c1 := &model.Cluster{Name: "c1", APIAddress: "https://c1:6443", EnvironmentID: prod.ID}
	c2 := &model.Cluster{Name: "c2", APIAddress: "https://c2:6443", EnvironmentID: dev.ID}
	mustCreate(repos.Cluster.Create(ctx, c1))
	mustCreate(repos.Cluster.Create(ctx, c2))
	app := &model.Application{Name: "shop"}
	mustCreate(repos.Application.Create(ctx, app))
	inst := &model.Instance{ApplicationID: app.ID, EnvironmentID: prod.ID, Enabled: true}
	mustCreate(repos.Instance.Create(ctx, inst))
	mustCreate(repos.Instance.Create(ctx, &model.Instance{ApplicationID: app.ID, EnvironmentID: dev.ID}))

	web := &model.Component{InstanceID: inst.ID, Name: "web", Type: model.ComponentTypeWebapp, Enabled: true}
	mustCreate(repos.Component.Create(ctx, web))
	mustCreate(repos.Component.Create(ctx, &model.Component{InstanceID: inst.ID, Name: "jobs", Type: model.ComponentTypeWorker}))
	mustCreate(repos.Component.Create(ctx, &model.Component{InstanceID: inst.ID, Name: "backup", Type: model.ComponentTypeCron}))
	mustCreate(repos.ClusterInstance.Create(ctx, &model.ClusterInstance{ClusterID: c1.ID, ComponentID: web.ID}))

	got, err := New(repos).Overview(ctx, &OverviewInput{})
	if err != nil {
		t.Fatalf("Overview: %v", err)
	}
	want := &OverviewOutput{
		Applications:            1,
		Instances:               2,
		Clusters:                2,
		Environments:            2,
		Components:              ComponentStats{Total: 3, Webapp: 1, Worker: 1, Cron: 1, Enabled: 1, Disabled: 2},
		ComponentsByEnvironment: map[string]int{"prod": 3},
		ComponentsByCluster:     map[string]int{"c1": 1},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Overview mismatch (-want +got):\n%s", diff)
	}
}
