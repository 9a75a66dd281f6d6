package application

import (
	"context"
	"testing"

	"github.com/kompox/shipyard/adapters/store/inmem"
	"github.com/kompox/shipyard/domain/model"
	"github.com/kompox/shipyard/internal/clustertest"
	"github.com/kompox/shipyard/usecase/component"
	"github.com/kompox/shipyard/usecase/instance"
	templateuc "github.com/kompox/shipyard/usecase/template"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateValidatesNamespaceName(t *testing.T) {
	uc := &UseCase{Repos: inmem.NewStore().Repositories()}
	ctx := context.Background()
	for _, name := range []string{"", "Shop", "my shop", "shop_1"} {
		_, err := uc.Create(ctx, &CreateInput{Name: name})
		assert.ErrorIs(t, err, model.ErrValidation, "name %q", name)
	}
	out, err := uc.Create(ctx, &CreateInput{Name: "shop"})
	require.NoError(t, err)
	got, err := uc.Get(ctx, &GetInput{ApplicationID: "shop"})
	require.NoError(t, err)
	assert.Equal(t, out.Application.ID, got.Application.ID)
}

func TestDeleteCascadesThroughInstances(t *testing.T) {
	ctx := context.Background()
	store := inmem.NewStore()
	repos := store.Repositories()
	uow := inmem.NewUnitOfWork(store)
	rec := clustertest.NewRecorder()
	_, err := (&templateuc.UseCase{Repos: repos, UoW: uow}).Seed(ctx, nil)
	require.NoError(t, err)

	uc := &UseCase{Repos: repos, UoW: uow, Connector: rec}
	app, err := uc.Create(ctx, &CreateInput{Name: "shop"})
	require.NoError(t, err)

	iuc := &instance.UseCase{Repos: repos, UoW: uow, Connector: rec}
	cuc := &component.UseCase{Repos: repos, UoW: uow, Connector: rec}
	for _, envName := range []string{"staging", "prod"} {
		env := &model.Environment{Name: envName}
		require.NoError(t, repos.Environment.Create(ctx, env))
		require.NoError(t, repos.Cluster.Create(ctx, &model.Cluster{Name: envName + "-1", APIAddress: "https://" + envName + ":6443", EnvironmentID: env.ID}))
		inst, err := iuc.Create(ctx, &instance.CreateInput{ApplicationID: app.Application.ID, EnvironmentID: env.ID, Image: "registry.local/shop"})
		require.NoError(t, err)
		_, err = cuc.Create(ctx, &component.CreateInput{InstanceID: inst.Instance.ID, Name: "web", Type: model.ComponentTypeWebapp})
		require.NoError(t, err)
	}

	_, err = uc.Delete(ctx, &DeleteInput{ApplicationID: "shop"})
	require.NoError(t, err)

	insts, err := repos.Instance.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, insts)
	_, err = repos.Application.Get(ctx, app.Application.ID)
	assert.ErrorIs(t, err, model.ErrApplicationNotFound)
	assert.ElementsMatch(t, []string{"staging-1/shop", "prod-1/shop"}, rec.DeletedNamespaces())
}
