package component

import (
	"context"
	"errors"
	"fmt"

	"github.com/kompox/shipyard/adapters/render"
	"github.com/kompox/shipyard/domain"
	"github.com/kompox/shipyard/domain/model"
	"github.com/kompox/shipyard/internal/logging"
	"github.com/kompox/shipyard/internal/naming"
	"github.com/kompox/shipyard/usecase/placement"
)

// target is a component together with the records it is rendered from and the
// cluster it is placed on. Cluster and placement are nil until the component is placed.
type target struct {
	Component   *model.Component
	Instance    *model.Instance
	Application *model.Application
	Environment *model.Environment
	Cluster     *model.Cluster
	Placement   *model.ClusterInstance
}

func (t *target) namespace() string { return naming.Namespace(t.Application.Name) }

// loadOwners resolves the instance, application and environment of instanceID.
func loadOwners(ctx context.Context, repos *domain.Repositories, instanceID string) (*target, error) {
	inst, err := repos.Instance.Get(ctx, instanceID)
	if err != nil {
		return nil, fmt.Errorf("get instance %s: %w", instanceID, err)
	}
	app, err := repos.Application.Get(ctx, inst.ApplicationID)
	if err != nil {
		return nil, fmt.Errorf("get application %s: %w", inst.ApplicationID, err)
	}
	env, err := repos.Environment.Get(ctx, inst.EnvironmentID)
	if err != nil {
		return nil, fmt.Errorf("get environment %s: %w", inst.EnvironmentID, err)
	}
	return &target{Instance: inst, Application: app, Environment: env}, nil
}

// loadTarget resolves a persisted component and its placement.
func loadTarget(ctx context.Context, repos *domain.Repositories, componentID string) (*target, error) {
	c, err := repos.Component.Get(ctx, componentID)
	if err != nil {
		return nil, fmt.Errorf("get component %s: %w", componentID, err)
	}
	return loadTargetFor(ctx, repos, c)
}

func loadTargetFor(ctx context.Context, repos *domain.Repositories, c *model.Component) (*target, error) {
	t, err := loadOwners(ctx, repos, c.InstanceID)
	if err != nil {
		return nil, err
	}
	t.Component = c
	ci, err := repos.ClusterInstance.GetByComponent(ctx, c.ID)
	if errors.Is(err, model.ErrNotFound) {
		return t, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get cluster instance of %s: %w", c.Name, err)
	}
	cl, err := repos.Cluster.Get(ctx, ci.ClusterID)
	if err != nil {
		return nil, fmt.Errorf("get cluster %s: %w", ci.ClusterID, err)
	}
	t.Cluster, t.Placement = cl, ci
	return t, nil
}

// ensurePlacement places an unplaced component on the least loaded cluster of its environment.
func ensurePlacement(ctx context.Context, repos *domain.Repositories, t *target) error {
	if t.Cluster != nil {
		return nil
	}
	pick, err := placement.New(repos).PickLeastLoaded(ctx, &placement.PickInput{EnvironmentID: t.Environment.ID})
	if err != nil {
		return err
	}
	ci := &model.ClusterInstance{ClusterID: pick.Cluster.ID, ComponentID: t.Component.ID}
	if err := repos.ClusterInstance.Create(ctx, ci); err != nil {
		return fmt.Errorf("create cluster instance: %w", err)
	}
	t.Cluster, t.Placement = pick.Cluster, ci
	return nil
}

func (u *UseCase) connect(ctx context.Context, cluster *model.Cluster) (model.ClusterAPI, error) {
	if u.Connector == nil {
		return nil, fmt.Errorf("no cluster connector configured")
	}
	api, err := u.Connector.Connect(ctx, cluster)
	if err != nil {
		return nil, &model.ClusterAPIError{Cluster: cluster.Name, Op: "connect", Err: err}
	}
	return api, nil
}

// gatewayGuard rejects webapp exposures the cluster cannot route.
func gatewayGuard(ctx context.Context, api model.ClusterAPI, t *target) error {
	c := t.Component
	if c.Type != model.ComponentTypeWebapp {
		return nil
	}
	e, err := c.Exposure()
	if err != nil {
		return err
	}
	if !e.RequiresGateway() {
		return nil
	}
	features, err := api.DetectGateway(ctx)
	if err != nil {
		return err
	}
	if !features.Enabled {
		return model.NewValidationError("settings.exposure",
			"cluster %q does not serve the %s API required for %s exposure with %s visibility",
			t.Cluster.Name, model.GatewayAPIGroup, e.Type, e.Visibility)
	}
	if kind := e.RouteKind(); !features.Supports(kind) {
		return model.NewValidationError("settings.exposure",
			"cluster %q does not serve %s required for %s exposure", t.Cluster.Name, kind, e.Type)
	}
	return nil
}

// renderTarget renders the manifests of t. The gateway reference is looked up for webapps only.
func renderTarget(ctx context.Context, repos *domain.Repositories, api model.ClusterAPI, t *target) ([]model.Document, error) {
	logger := logging.FromContext(ctx)
	// Stored names become cluster object names.
	if err := naming.ValidateApplicationName(t.Application.Name); err != nil {
		return nil, model.NewValidationError("application", "%v", err)
	}
	if err := naming.ValidateComponentName(t.Component.Name); err != nil {
		return nil, model.NewValidationError("name", "%v", err)
	}
	var gw model.GatewayReference
	if t.Component.Type == model.ComponentTypeWebapp && api != nil {
		ref, err := api.FindGatewayReference(ctx)
		if err != nil {
			logger.Warn(ctx, "Component:Render/gateway", "component", t.Component.Name, "err", err)
		}
		gw = ref
	}
	settings, err := repos.Setting.ListByEnvironment(ctx, t.Environment.ID)
	if err != nil {
		return nil, fmt.Errorf("list environment settings: %w", err)
	}
	vars, err := render.BuildVariables(render.VariablesInput{
		Component:   t.Component,
		Instance:    t.Instance,
		Application: t.Application,
		Environment: t.Environment,
		Settings:    settings,
		Gateway:     gw,
	})
	if err != nil {
		return nil, err
	}
	return render.NewCompiler(repos).Render(ctx, t.Component.Type, vars)
}

// applyOptions keeps the route kind the component's exposure needs out of orphan cleanup.
func applyOptions(c *model.Component) model.ApplyOptions {
	if c.Type != model.ComponentTypeWebapp {
		return model.ApplyOptions{}
	}
	e, err := c.Exposure()
	if err != nil || e.RouteKind() == "" {
		return model.ApplyOptions{}
	}
	return model.ApplyOptions{ExpectedRouteKinds: []string{e.RouteKind()}}
}

// deploy renders t and applies op on its cluster. Under BestEffort every failure, render
// included, is logged and swallowed.
func (u *UseCase) deploy(ctx context.Context, repos *domain.Repositories, t *target, op model.ApplyOp, policy model.FailurePolicy) error {
	logger := logging.FromContext(ctx)
	api, err := u.connect(ctx, t.Cluster)
	if err != nil {
		if policy == model.BestEffort {
			logger.Warn(ctx, "Component:Deploy/connect", "component", t.Component.Name, "cluster", t.Cluster.Name, "err", err)
			return nil
		}
		return err
	}
	if op != model.ApplyDelete {
		if err := gatewayGuard(ctx, api, t); err != nil {
			return err
		}
	}
	docs, err := renderTarget(ctx, repos, api, t)
	if err != nil {
		if policy == model.BestEffort {
			logger.Warn(ctx, "Component:Deploy/render", "component", t.Component.Name, "cluster", t.Cluster.Name, "op", op, "err", err)
			return nil
		}
		return err
	}
	if err := api.ApplyDocuments(ctx, docs, op, applyOptions(t.Component)); err != nil {
		if policy == model.BestEffort {
			logger.Warn(ctx, "Component:Deploy/besteffort", "component", t.Component.Name, "cluster", t.Cluster.Name, "op", op, "err", err)
			return nil
		}
		return err
	}
	logger.Debug(ctx, "Component:Deploy", "component", t.Component.Name, "cluster", t.Cluster.Name, "op", op, "docs", len(docs), "policy", policy)
	return nil
}
