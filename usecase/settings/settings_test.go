package settings

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/kompox/shipyard/adapters/store/inmem"
	"github.com/kompox/shipyard/domain/model"
)

func TestSetReplacesValue(t *testing.T) {
	ctx := context.Background()
	repos := inmem.NewStore().Repositories()
	env := &model.Environment{Name: "prod"}
	if err := repos.Environment.Create(ctx, env); err != nil {
		t.Fatal(err)
	}
	uc := New(repos)

	first, err := uc.Set(ctx, &SetInput{EnvironmentID: env.ID, Key: "region", Value: "eu-west-1"})
	if err != nil {
		t.Fatalf("Set: %v", err)
	}
	second, err := uc.Set(ctx, &SetInput{EnvironmentID: env.ID, Key: "region", Value: map[string]any{"primary": "eu-west-1"}})
	if err != nil {
		t.Fatalf("Set again: %v", err)
	}
	if first.Setting.ID != second.Setting.ID {
		t.Errorf("Set created a second row: %s != %s", first.Setting.ID, second.Setting.ID)
	}

	list, err := uc.List(ctx, &ListInput{EnvironmentID: env.ID})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	want := map[string]any{"region": map[string]any{"primary": "eu-west-1"}}
	if diff := cmp.Diff(want, model.SettingsMap(list.Settings)); diff != "" {
		t.Errorf("settings mismatch (-want +got):\n%s", diff)
	}

	if _, err := uc.Delete(ctx, &DeleteInput{EnvironmentID: env.ID, Key: "region"}); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := uc.Get(ctx, &GetInput{EnvironmentID: env.ID, Key: "region"}); !errors.Is(err, model.ErrSettingNotFound) {
		t.Errorf("Get after delete err = %v, want ErrSettingNotFound", err)
	}
}

func TestSetRequiresEnvironment(t *testing.T) {
	uc := New(inmem.NewStore().Repositories())
	ctx := context.Background()
	if _, err := uc.Set(ctx, &SetInput{EnvironmentID: "env-missing", Key: "region", Value: "x"}); !errors.Is(err, model.ErrEnvironmentNotFound) {
		t.Errorf("err = %v, want ErrEnvironmentNotFound", err)
	}
	if _, err := uc.Set(ctx, &SetInput{EnvironmentID: "env-missing", Key: "my key"}); !errors.Is(err, model.ErrValidation) {
		t.Errorf("err = %v, want ErrValidation", err)
	}
}
