package instance

import (
	"context"
	"errors"
	"testing"

	"github.com/kompox/shipyard/adapters/store/inmem"
	"github.com/kompox/shipyard/domain/model"
	"github.com/kompox/shipyard/internal/clustertest"
	"github.com/kompox/shipyard/usecase/component"
	templateuc "github.com/kompox/shipyard/usecase/template"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	ctx context.Context
	uc  *UseCase
	rec *clustertest.Recorder
	env *model.Environment
	app *model.Application
}

func newFixture(t *testing.T, clusters ...string) *fixture {
	t.Helper()
	ctx := context.Background()
	store := inmem.NewStore()
	repos := store.Repositories()
	uow := inmem.NewUnitOfWork(store)
	_, err := (&templateuc.UseCase{Repos: repos, UoW: uow}).Seed(ctx, nil)
	require.NoError(t, err)

	env := &model.Environment{Name: "prod"}
	require.NoError(t, repos.Environment.Create(ctx, env))
	app := &model.Application{Name: "shop"}
	require.NoError(t, repos.Application.Create(ctx, app))
	for _, name := range clusters {
		require.NoError(t, repos.Cluster.Create(ctx, &model.Cluster{Name: name, APIAddress: "https://" + name + ":6443", EnvironmentID: env.ID}))
	}
	rec := clustertest.NewRecorder()
	return &fixture{
		ctx: ctx,
		uc:  &UseCase{Repos: repos, UoW: uow, Connector: rec},
		rec: rec,
		env: env,
		app: app,
	}
}

func (f *fixture) instance(t *testing.T) *model.Instance {
	t.Helper()
	out, err := f.uc.Create(f.ctx, &CreateInput{ApplicationID: f.app.ID, EnvironmentID: f.env.ID, Image: "registry.local/shop", Version: "1.0.0"})
	require.NoError(t, err)
	return out.Instance
}

func (f *fixture) component(t *testing.T, inst *model.Instance, name string, ct model.ComponentType) *model.Component {
	t.Helper()
	out, err := f.uc.components().Create(f.ctx, &component.CreateInput{InstanceID: inst.ID, Name: name, Type: ct})
	require.NoError(t, err)
	return out.Component
}

func TestCreateOnePerEnvironment(t *testing.T) {
	f := newFixture(t, "c1")
	inst := f.instance(t)
	assert.True(t, inst.Enabled)

	_, err := f.uc.Create(f.ctx, &CreateInput{ApplicationID: f.app.ID, EnvironmentID: f.env.ID, Image: "registry.local/shop"})
	assert.ErrorIs(t, err, model.ErrAlreadyExists)

	_, err = f.uc.Create(f.ctx, &CreateInput{ApplicationID: "app-missing", EnvironmentID: f.env.ID, Image: "x"})
	assert.ErrorIs(t, err, model.ErrApplicationNotFound)

	list, err := f.uc.List(f.ctx, &ListInput{ApplicationID: f.app.ID, EnvironmentID: f.env.ID})
	require.NoError(t, err)
	assert.Len(t, list.Instances, 1)
}

func TestUpdateWithSync(t *testing.T) {
	f := newFixture(t, "c1")
	inst := f.instance(t)
	f.component(t, inst, "web", model.ComponentTypeWebapp)
	f.component(t, inst, "jobs", model.ComponentTypeWorker)

	version := "1.1.0"
	out, err := f.uc.Update(f.ctx, &UpdateInput{InstanceID: inst.ID, Version: &version, Sync: true})
	require.NoError(t, err)
	assert.Equal(t, "1.1.0", out.Instance.Version)
	require.NotNil(t, out.Sync)
	assert.Equal(t, 2, out.Sync.Synced)
	assert.Empty(t, out.Sync.Errors)

	var upserts int
	for _, c := range f.rec.Calls() {
		if c.Op == model.ApplyUpsert {
			upserts++
		}
	}
	assert.Equal(t, 2, upserts)
}

func TestDeleteCascades(t *testing.T) {
	f := newFixture(t, "c1", "c2")
	inst := f.instance(t)
	web := f.component(t, inst, "web", model.ComponentTypeWebapp)
	f.component(t, inst, "backup", model.ComponentTypeCron)

	_, err := f.uc.Delete(f.ctx, &DeleteInput{InstanceID: inst.ID})
	require.NoError(t, err)

	_, err = f.uc.Repos.Component.Get(f.ctx, web.ID)
	assert.ErrorIs(t, err, model.ErrComponentNotFound)
	_, err = f.uc.Get(f.ctx, &GetInput{InstanceID: inst.ID})
	assert.ErrorIs(t, err, model.ErrInstanceNotFound)

	var deletes []string
	for _, c := range f.rec.Calls() {
		if c.Op == model.ApplyDelete {
			deletes = append(deletes, c.Names[0])
		}
	}
	assert.ElementsMatch(t, []string{"web", "backup"}, deletes)
	assert.Equal(t, []string{"c1/shop", "c2/shop"}, f.rec.DeletedNamespaces())
}

func TestDeleteIgnoresNamespaceFailures(t *testing.T) {
	f := newFixture(t, "c1", "c2")
	inst := f.instance(t)
	f.rec.Unreachable["c1"] = true
	f.rec.NamespaceErr = errors.New("forbidden")

	_, err := f.uc.Delete(f.ctx, &DeleteInput{InstanceID: inst.ID})
	require.NoError(t, err)
	assert.Empty(t, f.rec.DeletedNamespaces())
}
