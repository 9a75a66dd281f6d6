package template

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/kompox/shipyard/adapters/store/inmem"
	"github.com/kompox/shipyard/domain/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUseCase() *UseCase {
	store := inmem.NewStore()
	return &UseCase{Repos: store.Repositories(), UoW: inmem.NewUnitOfWork(store)}
}

func TestSeedIsIdempotent(t *testing.T) {
	ctx := context.Background()
	uc := newUseCase()

	first, err := uc.Seed(ctx, &SeedInput{})
	require.NoError(t, err)
	assert.Equal(t, &SeedOutput{Created: 9}, first)

	second, err := uc.Seed(ctx, &SeedInput{})
	require.NoError(t, err)
	assert.Equal(t, &SeedOutput{Unchanged: 9}, second)

	plan, err := uc.Plan(ctx, &PlanInput{ComponentType: model.ComponentTypeWebapp})
	require.NoError(t, err)
	var names []string
	for _, e := range plan.Plans[model.ComponentTypeWebapp] {
		names = append(names, e.TemplateName)
	}
	assert.Len(t, names, 6)

	// A reordered entry is restored, a customized body is kept unless overwritten.
	entry := plan.Plans[model.ComponentTypeWebapp][0]
	order := 50
	_, err = uc.ConfigUpdate(ctx, &ConfigUpdateInput{ConfigID: entry.ID, RenderOrder: &order})
	require.NoError(t, err)
	body := "kind: ConfigMap\n"
	_, err = uc.Update(ctx, &UpdateInput{TemplateID: entry.TemplateName, Content: &body})
	require.NoError(t, err)

	third, err := uc.Seed(ctx, &SeedInput{})
	require.NoError(t, err)
	assert.Equal(t, &SeedOutput{Updated: 1, Unchanged: 8}, third)
	got, err := uc.Get(ctx, &GetInput{TemplateID: entry.TemplateName})
	require.NoError(t, err)
	assert.Equal(t, body, got.Template.Content)
	assert.Equal(t, entry.RenderOrder, got.Configs[0].RenderOrder)

	fourth, err := uc.Seed(ctx, &SeedInput{Overwrite: true})
	require.NoError(t, err)
	assert.Equal(t, &SeedOutput{Updated: 1, Unchanged: 8}, fourth)
}

func TestCreateRejectsUnparsableContent(t *testing.T) {
	uc := newUseCase()
	_, err := uc.Create(context.Background(), &CreateInput{Name: "broken", Content: "{{ .application.image "})
	var ve *model.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "content", ve.Field)
}

func TestDeleteRemovesConfigs(t *testing.T) {
	ctx := context.Background()
	uc := newUseCase()
	out, err := uc.Create(ctx, &CreateInput{Name: "cm", Category: "worker", Content: "kind: ConfigMap\n"})
	require.NoError(t, err)
	cfg, err := uc.ConfigCreate(ctx, &ConfigCreateInput{ComponentType: model.ComponentTypeWorker, TemplateID: "cm", RenderOrder: 1})
	require.NoError(t, err)
	assert.True(t, cfg.Config.Enabled)

	_, err = uc.ConfigCreate(ctx, &ConfigCreateInput{ComponentType: model.ComponentTypeWorker, TemplateID: "cm", RenderOrder: 2})
	assert.ErrorIs(t, err, model.ErrAlreadyExists)

	_, err = uc.Delete(ctx, &DeleteInput{TemplateID: out.Template.ID})
	require.NoError(t, err)
	_, err = uc.Repos.TemplateConfig.Get(ctx, cfg.Config.ID)
	assert.ErrorIs(t, err, model.ErrTemplateConfigNotFound)
	_, err = uc.Get(ctx, &GetInput{TemplateID: "cm"})
	assert.ErrorIs(t, err, model.ErrTemplateNotFound)
}

func TestPreview(t *testing.T) {
	ctx := context.Background()
	uc := newUseCase()
	content := `apiVersion: v1
kind: ConfigMap
metadata:
  name: {{ .application.component_name }}
  namespace: {{ .application.application_name }}
data:
  region: {{ .environment.region | quote }}
`
	_, err := uc.Create(ctx, &CreateInput{Name: "cm", Content: content})
	require.NoError(t, err)

	out, err := uc.Preview(ctx, &PreviewInput{TemplateID: "cm", Variables: map[string]any{
		"application": map[string]any{"component_name": "web", "application_name": "shop"},
		"environment": map[string]any{"region": "eu"},
	}})
	require.NoError(t, err)
	want := model.Document{
		"apiVersion": "v1",
		"kind":       "ConfigMap",
		"metadata":   map[string]any{"name": "web", "namespace": "shop"},
		"data":       map[string]any{"region": "eu"},
	}
	if diff := cmp.Diff(want, out.Document); diff != "" {
		t.Errorf("document mismatch (-want +got):\n%s", diff)
	}

	_, err = uc.Preview(ctx, &PreviewInput{TemplateID: "missing"})
	assert.True(t, errors.Is(err, model.ErrTemplateNotFound))
}
