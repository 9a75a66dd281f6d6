package environment

import (
	"context"
	"errors"
	"testing"

	"github.com/kompox/shipyard/adapters/store/inmem"
	"github.com/kompox/shipyard/domain/model"
)

func TestEnvironmentLifecycle(t *testing.T) {
	ctx := context.Background()
	repos := inmem.NewStore().Repositories()
	uc := New(repos)

	out, err := uc.Create(ctx, &CreateInput{Name: "staging"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := uc.Create(ctx, &CreateInput{Name: "staging"}); !errors.Is(err, model.ErrAlreadyExists) {
		t.Errorf("duplicate Create err = %v, want ErrAlreadyExists", err)
	}
	if _, err := uc.Create(ctx, &CreateInput{Name: "Staging Env"}); !errors.Is(err, model.ErrValidation) {
		t.Errorf("invalid name err = %v, want ErrValidation", err)
	}

	got, err := uc.Get(ctx, &GetInput{EnvironmentID: "staging"})
	if err != nil {
		t.Fatalf("Get by name: %v", err)
	}
	if got.Environment.ID != out.Environment.ID {
		t.Errorf("Get by name returned %s, want %s", got.Environment.ID, out.Environment.ID)
	}

	name := "qa"
	if _, err := uc.Update(ctx, &UpdateInput{EnvironmentID: out.Environment.ID, Name: &name}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	list, err := uc.List(ctx, &ListInput{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list.Environments) != 1 || list.Environments[0].Name != "qa" {
		t.Errorf("List = %+v", list.Environments)
	}
}

func TestDeleteGuarded(t *testing.T) {
	ctx := context.Background()
	repos := inmem.NewStore().Repositories()
	uc := New(repos)

	env, err := uc.Create(ctx, &CreateInput{Name: "prod"})
	if err != nil {
		t.Fatal(err)
	}
	cl := &model.Cluster{Name: "c1", APIAddress: "https://c1:6443", EnvironmentID: env.Environment.ID}
	if err := repos.Cluster.Create(ctx, cl); err != nil {
		t.Fatal(err)
	}

	if _, err := uc.Delete(ctx, &DeleteInput{EnvironmentID: env.Environment.ID}); !errors.Is(err, model.ErrValidation) {
		t.Fatalf("Delete with cluster err = %v, want ErrValidation", err)
	}
	if err := repos.Cluster.Delete(ctx, cl.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := uc.Delete(ctx, &DeleteInput{EnvironmentID: env.Environment.ID}); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := uc.Get(ctx, &GetInput{EnvironmentID: env.Environment.ID}); !errors.Is(err, model.ErrEnvironmentNotFound) {
		t.Errorf("Get after delete err = %v, want ErrEnvironmentNotFound", err)
	}
}
