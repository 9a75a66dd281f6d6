package component

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/kompox/shipyard/adapters/render"
	"github.com/kompox/shipyard/adapters/store/inmem"
	"github.com/kompox/shipyard/domain"
	"github.com/kompox/shipyard/domain/model"
	"github.com/stretchr/testify/require"
)

type applyCall struct {
	Op    model.ApplyOp
	Kinds []string
	Names []string
	Opts  model.ApplyOptions
}

// fakeCluster records ApplyDocuments calls and serves canned operational reads.
type fakeCluster struct {
	model.ClusterAPI

	mu       sync.Mutex
	name     string
	gateway  *model.GatewayFeatures
	gwRef    model.GatewayReference
	applyErr map[model.ApplyOp]error
	applied  int // documents written before an injected write failure
	failName string
	calls    []applyCall
	pods     []model.PodInfo
	jobs     []model.JobInfo
	logs     map[string]string
	selects  []string
}

func newFakeCluster(name string) *fakeCluster {
	return &fakeCluster{name: name, applyErr: map[model.ApplyOp]error{}, logs: map[string]string{}}
}

func (f *fakeCluster) ApplyDocuments(_ context.Context, docs []model.Document, op model.ApplyOp, opts model.ApplyOptions) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	call := applyCall{Op: op, Opts: opts}
	for _, d := range docs {
		if err := d.Validate(); err != nil {
			return err
		}
		call.Kinds = append(call.Kinds, d.Kind())
		call.Names = append(call.Names, d.Name())
	}
	f.calls = append(f.calls, call)
	if err := f.applyErr[op]; err != nil {
		err = &model.ClusterAPIError{Cluster: f.name, Op: string(op), Err: err}
		if op != model.ApplyDelete {
			return &model.ApplyError{Applied: f.applied, Err: err}
		}
		return err
	}
	if f.failName != "" {
		for _, n := range call.Names {
			if n == f.failName {
				return &model.ClusterAPIError{Cluster: f.name, Op: string(op), Err: fmt.Errorf("%s rejected", n)}
			}
		}
	}
	return nil
}

func (f *fakeCluster) DetectGateway(context.Context) (*model.GatewayFeatures, error) {
	if f.gateway == nil {
		return &model.GatewayFeatures{Resources: []string{}}, nil
	}
	return f.gateway, nil
}

func (f *fakeCluster) FindGatewayReference(context.Context) (model.GatewayReference, error) {
	return f.gwRef, nil
}

func (f *fakeCluster) ListPods(_ context.Context, _ string, selector string) ([]model.PodInfo, error) {
	f.selects = append(f.selects, selector)
	return f.pods, nil
}

func (f *fakeCluster) GetPodLogs(_ context.Context, _ string, name string, _ model.LogOptions) (string, error) {
	return f.logs[name], nil
}

func (f *fakeCluster) ListJobs(_ context.Context, _ string, selector string) ([]model.JobInfo, error) {
	f.selects = append(f.selects, selector)
	if selector != "" {
		return nil, nil
	}
	return f.jobs, nil
}

func (f *fakeCluster) ExecInPod(_ context.Context, _ string, pod, _ string, command []string) (*model.ExecResult, error) {
	return &model.ExecResult{Stdout: pod + ":" + command[0]}, nil
}

func (f *fakeCluster) opsFor(op model.ApplyOp) []applyCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []applyCall
	for _, c := range f.calls {
		if c.Op == op {
			out = append(out, c)
		}
	}
	return out
}

type fakeConnector struct {
	clusters map[string]*fakeCluster
}

func (c *fakeConnector) Connect(_ context.Context, cl *model.Cluster) (model.ClusterAPI, error) {
	f, ok := c.clusters[cl.Name]
	if !ok {
		return nil, fmt.Errorf("cluster %s unreachable", cl.Name)
	}
	return f, nil
}

type fixture struct {
	ctx      context.Context
	repos    *domain.Repositories
	uc       *UseCase
	env      *model.Environment
	app      *model.Application
	instance *model.Instance
	clusters map[string]*fakeCluster
}

func newFixture(t *testing.T, clusterNames ...string) *fixture {
	t.Helper()
	ctx := context.Background()
	store := inmem.NewStore()
	repos := store.Repositories()

	env := &model.Environment{Name: "prod"}
	require.NoError(t, repos.Environment.Create(ctx, env))
	app := &model.Application{Name: "shop"}
	require.NoError(t, repos.Application.Create(ctx, app))
	inst := &model.Instance{ApplicationID: app.ID, EnvironmentID: env.ID, Image: "registry.local/shop", Version: "1.0.0", Enabled: true}
	require.NoError(t, repos.Instance.Create(ctx, inst))

	defaults, err := render.DefaultTemplates()
	require.NoError(t, err)
	for _, d := range defaults {
		tmpl := d.Template
		require.NoError(t, repos.Template.Create(ctx, &tmpl))
		require.NoError(t, repos.TemplateConfig.Create(ctx, &model.ComponentTemplateConfig{
			ComponentType: model.ComponentType(tmpl.Category),
			TemplateID:    tmpl.ID,
			RenderOrder:   d.RenderOrder,
			Enabled:       true,
		}))
	}

	fakes := map[string]*fakeCluster{}
	for _, name := range clusterNames {
		require.NoError(t, repos.Cluster.Create(ctx, &model.Cluster{Name: name, APIAddress: "https://" + name + ":6443", EnvironmentID: env.ID}))
		fakes[name] = newFakeCluster(name)
	}

	return &fixture{
		ctx:      ctx,
		repos:    repos,
		uc:       &UseCase{Repos: repos, UoW: inmem.NewUnitOfWork(store), Connector: &fakeConnector{clusters: fakes}},
		env:      env,
		app:      app,
		instance: inst,
		clusters: fakes,
	}
}

func (f *fixture) create(t *testing.T, in *CreateInput) *model.Component {
	t.Helper()
	if in.InstanceID == "" {
		in.InstanceID = f.instance.ID
	}
	out, err := f.uc.Create(f.ctx, in)
	require.NoError(t, err)
	return out.Component
}

func strptr(s string) *string { return &s }
func boolptr(b bool) *bool { return &b }
