package inmem

import (
	"context"
	"sync"

	"github.com/kompox/shipyard/domain"
	"github.com/kompox/shipyard/domain/model"
)

type tables struct {
	environments     *table[model.Environment]
	clusters         *table[model.Cluster]
	applications     *table[model.Application]
	instances        *table[model.Instance]
	components       *table[model.Component]
	clusterInstances *table[model.ClusterInstance]
	templates        *table[model.Template]
	templateConfigs  *table[model.ComponentTemplateConfig]
	settings         *table[model.Setting]
}

func newTables() *tables {
	return &tables{
		environments: newTable("env",
			func(v *model.Environment) *string { return &v.ID },
			func(v *model.Environment) *model.Environment { c := *v; return &c },
			func(v *model.Environment) string { return v.Name }),
		clusters: newTable("clus",
			func(v *model.Cluster) *string { return &v.ID },
			func(v *model.Cluster) *model.Cluster { c := *v; return &c },
			func(v *model.Cluster) string { return "name:" + v.Name },
			func(v *model.Cluster) string { return "api:" + v.APIAddress }),
		applications: newTable("app",
			func(v *model.Application) *string { return &v.ID },
			func(v *model.Application) *model.Application { c := *v; return &c },
			func(v *model.Application) string { return v.Name }),
		instances: newTable("inst",
			func(v *model.Instance) *string { return &v.ID },
			func(v *model.Instance) *model.Instance { c := *v; return &c },
			func(v *model.Instance) string { return v.ApplicationID + "/" + v.EnvironmentID }),
		components: newTable("comp",
			func(v *model.Component) *string { return &v.ID },
			cloneComponent,
			func(v *model.Component) string { return "name:" + v.InstanceID + "/" + v.Name },
			func(v *model.Component) string {
				if v.URL == nil {
					return ""
				}
				return "url:" + *v.URL
			}),
		clusterInstances: newTable("ci",
			func(v *model.ClusterInstance) *string { return &v.ID },
			func(v *model.ClusterInstance) *model.ClusterInstance { c := *v; return &c },
			func(v *model.ClusterInstance) string { return v.ComponentID }),
		templates: newTable("tmpl",
			func(v *model.Template) *string { return &v.ID },
			func(v *model.Template) *model.Template {
				c := *v
				c.VariablesSchema = cloneMap(v.VariablesSchema)
				return &c
			},
			func(v *model.Template) string { return v.Name }),
		templateConfigs: newTable("tcfg",
			func(v *model.ComponentTemplateConfig) *string { return &v.ID },
			func(v *model.ComponentTemplateConfig) *model.ComponentTemplateConfig { c := *v; return &c },
			func(v *model.ComponentTemplateConfig) string { return string(v.ComponentType) + "/" + v.TemplateID }),
		settings: newTable("set",
			func(v *model.Setting) *string { return &v.ID },
			func(v *model.Setting) *model.Setting {
				c := *v
				c.Value = cloneValue(v.Value)
				return &c
			},
			func(v *model.Setting) string { return v.EnvironmentID + "/" + v.Key }),
	}
}

func cloneComponent(v *model.Component) *model.Component {
	c := *v
	c.Settings = cloneMap(v.Settings)
	if v.URL != nil {
		u := *v.URL
		c.URL = &u
	}
	return &c
}

func (t *tables) copy() *tables {
	return &tables{
		environments:     t.environments.copy(),
		clusters:         t.clusters.copy(),
		applications:     t.applications.copy(),
		instances:        t.instances.copy(),
		components:       t.components.copy(),
		clusterInstances: t.clusterInstances.copy(),
		templates:        t.templates.copy(),
		templateConfigs:  t.templateConfigs.copy(),
		settings:         t.settings.copy(),
	}
}

// Store is a thread-safe in-memory database holding every repository's rows.
type Store struct {
	mu sync.Mutex
	t  *tables
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{t: newTables()}
}

func (s *Store) with(fn func(t *tables) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.t)
}

// Repositories returns repositories backed by the store.
func (s *Store) Repositories() *domain.Repositories {
	return &domain.Repositories{
		Environment:     &EnvironmentRepository{s: s},
		Cluster:         &ClusterRepository{s: s},
		Application:     &ApplicationRepository{s: s},
		Instance:        &InstanceRepository{s: s},
		Component:       &ComponentRepository{s: s},
		ClusterInstance: &ClusterInstanceRepository{s: s},
		Template:        &TemplateRepository{s: s},
		TemplateConfig:  &TemplateConfigRepository{s: s},
		Setting:         &SettingRepository{s: s},
	}
}

// UnitOfWork snapshots the store before fn and restores it when fn fails.
// Writes made concurrently by other callers during a failed unit are discarded as well.
type UnitOfWork struct{ s *Store }

func NewUnitOfWork(s *Store) *UnitOfWork { return &UnitOfWork{s: s} }

func (u *UnitOfWork) Do(_ context.Context, fn func(repos *domain.Repositories) error) error {
	u.s.mu.Lock()
	snap := u.s.t.copy()
	u.s.mu.Unlock()
	if err := fn(u.s.Repositories()); err != nil {
		u.s.mu.Lock()
		u.s.t = snap
		u.s.mu.Unlock()
		return err
	}
	return nil
}

var _ domain.UnitOfWork = (*UnitOfWork)(nil)
