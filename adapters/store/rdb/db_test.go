package rdb

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/kompox/shipyard/domain"
	"github.com/kompox/shipyard/domain/model"
)

func openTestDB(t *testing.T) *domain.Repositories {
	t.Helper()
	db, err := OpenFromURL("sqlite:" + filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return NewRepositories(db)
}

func TestOpenFromURLUnsupported(t *testing.T) {
	if _, err := OpenFromURL("postgres://localhost"); err == nil {
		t.Fatal("expected error for unsupported scheme")
	}
}

func TestComponentRoundTrip(t *testing.T) {
	ctx := context.Background()
	repos := openTestDB(t)
	url := "shop.example.com"
	c := &model.Component{
		InstanceID: "inst-1",
		Name:       "web",
		Type:       model.ComponentTypeWebapp,
		Settings:   map[string]any{"autoscaling": map[string]any{"min": 1, "max": 3}},
		URL:        &url,
		Enabled:    true,
	}
	if err := repos.Component.Create(ctx, c); err != nil {
		t.Fatalf("create: %v", err)
	}
	c.Enabled = false
	if err := repos.Component.Update(ctx, c); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, err := repos.Component.Get(ctx, c.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Enabled {
		t.Errorf("enabled=false was not persisted")
	}
	as := got.Settings["autoscaling"].(map[string]any)
	if as["max"] != int64(3) {
		t.Errorf("autoscaling.max = %#v, want int64(3)", as["max"])
	}
	if _, err := repos.Component.Get(ctx, "missing"); !errors.Is(err, model.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestUniqueClusterName(t *testing.T) {
	ctx := context.Background()
	repos := openTestDB(t)
	if err := repos.Cluster.Create(ctx, &model.Cluster{Name: "a", APIAddress: "https://a", EnvironmentID: "env"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	err := repos.Cluster.Create(ctx, &model.Cluster{Name: "a", APIAddress: "https://b", EnvironmentID: "env"})
	if !errors.Is(err, model.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestUnitOfWorkRollback(t *testing.T) {
	ctx := context.Background()
	db, err := OpenFromURL("sqlite:" + filepath.Join(t.TempDir(), "uow.db"))
	if err != nil {
		t.Fatal(err)
	}
	if err := AutoMigrate(db); err != nil {
		t.Fatal(err)
	}
	boom := errors.New("boom")
	err = NewUnitOfWork(db).Do(ctx, func(r *domain.Repositories) error {
		if err := r.Environment.Create(ctx, &model.Environment{Name: "dev"}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if _, err := NewRepositories(db).Environment.GetByName(ctx, "dev"); !errors.Is(err, model.ErrEnvironmentNotFound) {
		t.Fatalf("environment survived rollback: %v", err)
	}
}

func TestSettingUpsert(t *testing.T) {
	ctx := context.Background()
	repos := openTestDB(t)
	if err := repos.Setting.Upsert(ctx, &model.Setting{EnvironmentID: "env", Key: "replicas", Value: 2}); err != nil {
		t.Fatal(err)
	}
	if err := repos.Setting.Upsert(ctx, &model.Setting{EnvironmentID: "env", Key: "replicas", Value: 5}); err != nil {
		t.Fatal(err)
	}
	list, err := repos.Setting.ListByEnvironment(ctx, "env")
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 || list[0].Value != int64(5) {
		t.Fatalf("unexpected settings: %+v", list)
	}
}

func TestUniqueComponentNamePerInstance(t *testing.T) {
	ctx := context.Background()
	repos := openTestDB(t)
	if err := repos.Component.Create(ctx, &model.Component{InstanceID: "inst-1", Name: "web", Type: model.ComponentTypeWorker}); err != nil {
		t.Fatalf("create: %v", err)
	}
	err := repos.Component.Create(ctx, &model.Component{InstanceID: "inst-1", Name: "web", Type: model.ComponentTypeCron})
	if !errors.Is(err, model.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
	if err := repos.Component.Create(ctx, &model.Component{InstanceID: "inst-2", Name: "web", Type: model.ComponentTypeWorker}); err != nil {
		t.Errorf("same name in another instance: %v", err)
	}
}
