package inmem

import (
	"context"
	"errors"
	"testing"

	"github.com/kompox/shipyard/domain"
	"github.com/kompox/shipyard/domain/model"
)

func TestUnitOfWorkRollback(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	repos := s.Repositories()
	env := &model.Environment{Name: "dev"}
	if err := repos.Environment.Create(ctx, env); err != nil {
		t.Fatalf("create env: %v", err)
	}

	boom := errors.New("boom")
	err := NewUnitOfWork(s).Do(ctx, func(r *domain.Repositories) error {
		if err := r.Application.Create(ctx, &model.Application{Name: "shop"}); err != nil {
			return err
		}
		env.Name = "renamed"
		if err := r.Environment.Update(ctx, env); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	apps, _ := repos.Application.List(ctx)
	if len(apps) != 0 {
		t.Errorf("application survived rollback: %+v", apps)
	}
	got, err := repos.Environment.Get(ctx, env.ID)
	if err != nil {
		t.Fatalf("get env: %v", err)
	}
	if got.Name != "dev" {
		t.Errorf("env name = %q, want dev", got.Name)
	}
}

func TestUnitOfWorkCommit(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	err := NewUnitOfWork(s).Do(ctx, func(r *domain.Repositories) error {
		return r.Application.Create(ctx, &model.Application{Name: "shop"})
	})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if _, err := s.Repositories().Application.GetByName(ctx, "shop"); err != nil {
		t.Fatalf("application not committed: %v", err)
	}
}

func TestUniqueConstraints(t *testing.T) {
	ctx := context.Background()
	repos := NewStore().Repositories()

	if err := repos.Cluster.Create(ctx, &model.Cluster{Name: "a", APIAddress: "https://a"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	tests := []struct {
		name string
		c    *model.Cluster
	}{
		{"duplicate name", &model.Cluster{Name: "a", APIAddress: "https://b"}},
		{"duplicate address", &model.Cluster{Name: "b", APIAddress: "https://a"}},
	}
	for _, tt := range tests {
		if err := repos.Cluster.Create(ctx, tt.c); !errors.Is(err, model.ErrAlreadyExists) {
			t.Errorf("%s: expected ErrAlreadyExists, got %v", tt.name, err)
		}
	}

	url := "shop.example.com"
	if err := repos.Component.Create(ctx, &model.Component{Name: "web", URL: &url}); err != nil {
		t.Fatalf("create component: %v", err)
	}
	if err := repos.Component.Create(ctx, &model.Component{Name: "web2", URL: &url}); !errors.Is(err, model.ErrAlreadyExists) {
		t.Errorf("expected duplicate url to fail, got %v", err)
	}
	if err := repos.Component.Create(ctx, &model.Component{Name: "w1"}); err != nil {
		t.Fatalf("nil url: %v", err)
	}
	if err := repos.Component.Create(ctx, &model.Component{Name: "w2"}); err != nil {
		t.Fatalf("nil urls must not collide: %v", err)
	}
}

func TestCopiesAreIsolated(t *testing.T) {
	ctx := context.Background()
	repos := NewStore().Repositories()
	c := &model.Component{Name: "web", Settings: map[string]any{"cpu": "500m"}}
	if err := repos.Component.Create(ctx, c); err != nil {
		t.Fatalf("create: %v", err)
	}
	c.Settings["cpu"] = "2"
	got, _ := repos.Component.Get(ctx, c.ID)
	if got.Settings["cpu"] != "500m" {
		t.Errorf("stored settings aliased caller map: %v", got.Settings)
	}
}

func TestListOrderAndRenderOrder(t *testing.T) {
	ctx := context.Background()
	repos := NewStore().Repositories()
	for _, n := range []string{"c", "a", "b"} {
		if err := repos.Cluster.Create(ctx, &model.Cluster{Name: n, APIAddress: "https://" + n, EnvironmentID: "env"}); err != nil {
			t.Fatal(err)
		}
	}
	cs, _ := repos.Cluster.ListByEnvironment(ctx, "env")
	if len(cs) != 3 || cs[0].Name != "c" || cs[1].Name != "a" || cs[2].Name != "b" {
		t.Errorf("clusters not in creation order: %v", cs)
	}

	for i, order := range []int{3, 1, 2} {
		cfg := &model.ComponentTemplateConfig{ComponentType: model.ComponentTypeWebapp, TemplateID: string(rune('x' + i)), RenderOrder: order, Enabled: true}
		if err := repos.TemplateConfig.Create(ctx, cfg); err != nil {
			t.Fatal(err)
		}
	}
	cfgs, _ := repos.TemplateConfig.ListByComponentType(ctx, model.ComponentTypeWebapp)
	for i, cfg := range cfgs {
		if cfg.RenderOrder != i+1 {
			t.Errorf("cfgs[%d].RenderOrder = %d", i, cfg.RenderOrder)
		}
	}
}

func TestSettingUpsert(t *testing.T) {
	ctx := context.Background()
	repos := NewStore().Repositories()
	s := &model.Setting{EnvironmentID: "env", Key: "domain", Value: "a.example.com"}
	if err := repos.Setting.Upsert(ctx, s); err != nil {
		t.Fatal(err)
	}
	id := s.ID
	s2 := &model.Setting{EnvironmentID: "env", Key: "domain", Value: "b.example.com"}
	if err := repos.Setting.Upsert(ctx, s2); err != nil {
		t.Fatal(err)
	}
	if s2.ID != id {
		t.Errorf("upsert created a new row: %s != %s", s2.ID, id)
	}
	list, _ := repos.Setting.ListByEnvironment(ctx, "env")
	if len(list) != 1 || list[0].Value != "b.example.com" {
		t.Errorf("unexpected settings: %+v", list)
	}
}

func TestComponentUniqueKeys(t *testing.T) {
	ctx := context.Background()
	repos := NewStore().Repositories()
	url := "https://shop.example.com"
	if err := repos.Component.Create(ctx, &model.Component{InstanceID: "inst-1", Name: "web", Type: model.ComponentTypeWebapp, URL: &url}); err != nil {
		t.Fatalf("create: %v", err)
	}
	tests := []struct {
		name    string
		c       *model.Component
		wantErr bool
	}{
		{"same name same instance", &model.Component{InstanceID: "inst-1", Name: "web", Type: model.ComponentTypeWorker}, true},
		{"same url", &model.Component{InstanceID: "inst-2", Name: "api", Type: model.ComponentTypeWebapp, URL: &url}, true},
		{"same name other instance", &model.Component{InstanceID: "inst-2", Name: "web", Type: model.ComponentTypeWorker}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := repos.Component.Create(ctx, tt.c)
			if got := errors.Is(err, model.ErrAlreadyExists); got != tt.wantErr {
				t.Errorf("Create err = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
