package component

import (
	"context"
	"errors"

	"github.com/kompox/shipyard/domain"
	"github.com/kompox/shipyard/domain/model"
	"github.com/kompox/shipyard/internal/logging"
	"github.com/kompox/shipyard/internal/metrics"
	"github.com/kompox/shipyard/internal/validate"
	"github.com/kompox/shipyard/usecase/placement"
)

// CreateInput contains the declared fields of a new component.
type CreateInput struct {
	// InstanceID is the owning instance.
	InstanceID string `json:"instance_id" validate:"required"`
	// Name names the cluster objects of the component.
	Name string `json:"name" validate:"required,max=52,nowhitespace,dns1123"`
	// Type is webapp, worker or cron.
	Type model.ComponentType `json:"type" validate:"required,oneof=webapp worker cron"`
	// Settings is the free-form settings document.
	Settings map[string]any `json:"settings,omitempty"`
	// URL is required for webapps exposed over http outside the cluster, forbidden otherwise.
	URL *string `json:"url,omitempty"`
	// Enabled defaults to true. A disabled component is persisted without being deployed.
	Enabled *bool `json:"enabled,omitempty"`
}

// CreateOutput contains the created component and the cluster it was deployed to.
type CreateOutput struct {
	Component *model.Component `json:"component"`
	Cluster   *model.Cluster   `json:"cluster,omitempty"`
}

// newComponent applies the type-specific construction rules: workers and crons never carry
// a URL and crons default to a private http exposure.
func newComponent(in *CreateInput) *model.Component {
	c := &model.Component{
		InstanceID: in.InstanceID,
		Name:       in.Name,
		Type:       in.Type,
		Settings:   cloneSettings(in.Settings),
		URL:        in.URL,
		Enabled:    in.Enabled == nil || *in.Enabled,
	}
	applyTypeRules(c)
	return c
}

func applyTypeRules(c *model.Component) {
	switch c.Type {
	case model.ComponentTypeWorker:
		c.URL = nil
	case model.ComponentTypeCron:
		c.URL = nil
		exposure, ok := c.Settings["exposure"].(map[string]any)
		if !ok {
			exposure = map[string]any{"type": string(model.ExposureHTTP), "port": 80}
			c.Settings["exposure"] = exposure
		}
		if _, ok := exposure["visibility"]; !ok {
			exposure["visibility"] = string(model.VisibilityPrivate)
		}
	}
	c.NormalizeURL()
}

func cloneSettings(in map[string]any) map[string]any {
	out := make(map[string]any, len(in))
	for k, v := range in {
		if m, ok := v.(map[string]any); ok {
			v = cloneSettings(m)
		}
		out[k] = v
	}
	return out
}

// Create persists a component and deploys it as a strict saga: the component row, the
// applied manifests and the ClusterInstance row are undone in reverse order when any
// later step fails, and the original error is returned.
func (u *UseCase) Create(ctx context.Context, in *CreateInput) (out *CreateOutput, err error) {
	if in == nil {
		return nil, model.NewValidationError("", "input is required")
	}
	if err := validate.Struct(in); err != nil {
		return nil, err
	}
	c := newComponent(in)
	if err := c.Validate(); err != nil {
		return nil, err
	}

	logger := logging.FromContext(ctx)
	msgSym := "Component:Create"
	logger.Info(ctx, msgSym+"/s", "instance", in.InstanceID, "component", c.Name, "type", c.Type)
	defer func() {
		metrics.ObserveTransition(string(TransitionCreate), err)
		if err == nil {
			logger.Info(ctx, msgSym+"/eok", "component", c.Name, "id", c.ID)
		} else {
			logger.Info(ctx, msgSym+"/efail", "component", c.Name, "err", err)
		}
	}()

	repos := u.Repos
	t, err := loadOwners(ctx, repos, in.InstanceID)
	if err != nil {
		return nil, err
	}
	t.Component = c
	if err := checkNameFree(ctx, repos, c); err != nil {
		return nil, err
	}

	if !c.Enabled {
		if err := repos.Component.Create(ctx, c); err != nil {
			return nil, err
		}
		return &CreateOutput{Component: c}, nil
	}

	pick, err := placement.New(repos).PickLeastLoaded(ctx, &placement.PickInput{EnvironmentID: t.Environment.ID})
	if err != nil {
		return nil, err
	}
	t.Cluster = pick.Cluster
	api, err := u.connect(ctx, t.Cluster)
	if err != nil {
		return nil, err
	}
	if err := gatewayGuard(ctx, api, t); err != nil {
		return nil, err
	}

	s := newSaga(msgSym)
	defer func() {
		if err != nil {
			s.compensate(context.WithoutCancel(ctx))
		}
	}()

	if err := repos.Component.Create(ctx, c); err != nil {
		return nil, err
	}
	s.add("component", func(ctx context.Context) error { return repos.Component.Delete(ctx, c.ID) })

	docs, err := renderTarget(ctx, repos, api, t)
	if err != nil {
		return nil, err
	}
	opts := applyOptions(c)
	undoApply := func(created []model.Document) {
		s.add("apply", func(ctx context.Context) error {
			return api.ApplyDocuments(ctx, created, model.ApplyDelete, opts)
		})
	}
	if err := api.ApplyDocuments(ctx, docs, model.ApplyCreate, opts); err != nil {
		// Only the prefix written by this call is undone.
		if created := createdPrefix(docs, err); len(created) > 0 {
			undoApply(created)
		}
		return nil, err
	}
	undoApply(docs)

	ci := &model.ClusterInstance{ClusterID: t.Cluster.ID, ComponentID: c.ID}
	if err := repos.ClusterInstance.Create(ctx, ci); err != nil {
		return nil, err
	}
	return &CreateOutput{Component: c, Cluster: t.Cluster}, nil
}

// checkNameFree rejects a second component with the same name in one instance. Both
// would render to the same cluster objects.
func checkNameFree(ctx context.Context, repos *domain.Repositories, c *model.Component) error {
	siblings, err := repos.Component.ListByInstance(ctx, c.InstanceID)
	if err != nil {
		return err
	}
	for _, s := range siblings {
		if s.Name == c.Name && s.ID != c.ID {
			return model.NewValidationError("name", "component %q already exists in this instance", c.Name)
		}
	}
	return nil
}

// createdPrefix returns the documents a failed create pass wrote before it stopped.
func createdPrefix(docs []model.Document, err error) []model.Document {
	var ae *model.ApplyError
	if !errors.As(err, &ae) || ae.Applied <= 0 {
		return nil
	}
	return docs[:min(ae.Applied, len(docs))]
}
