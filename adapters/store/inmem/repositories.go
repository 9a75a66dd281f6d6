package inmem

import (
	"context"
	"time"

	"github.com/kompox/shipyard/domain"
	"github.com/kompox/shipyard/domain/model"
)

func stamp(created, updated *time.Time) {
	now := time.Now()
	if created.IsZero() {
		*created = now
	}
	*updated = now
}

// EnvironmentRepository is a thread-safe in-memory implementation.
type EnvironmentRepository struct{ s *Store }

func (r *EnvironmentRepository) Create(_ context.Context, e *model.Environment) error {
	return r.s.with(func(t *tables) error {
		stamp(&e.CreatedAt, &e.UpdatedAt)
		return t.environments.insert(e)
	})
}

func (r *EnvironmentRepository) Get(_ context.Context, id string) (out *model.Environment, err error) {
	err = r.s.with(func(t *tables) error {
		out, err = t.environments.get(id, model.ErrEnvironmentNotFound)
		return err
	})
	return out, err
}

func (r *EnvironmentRepository) GetByName(_ context.Context, name string) (out *model.Environment, err error) {
	err = r.s.with(func(t *tables) error {
		out, err = t.environments.first(func(v *model.Environment) bool { return v.Name == name }, model.ErrEnvironmentNotFound)
		return err
	})
	return out, err
}

func (r *EnvironmentRepository) List(_ context.Context) (out []*model.Environment, err error) {
	err = r.s.with(func(t *tables) error {
		out = t.environments.find(nil)
		return nil
	})
	return out, err
}

func (r *EnvironmentRepository) Update(_ context.Context, e *model.Environment) error {
	return r.s.with(func(t *tables) error {
		stamp(&e.CreatedAt, &e.UpdatedAt)
		return t.environments.replace(e, model.ErrEnvironmentNotFound)
	})
}

func (r *EnvironmentRepository) Delete(_ context.Context, id string) error {
	return r.s.with(func(t *tables) error { return t.environments.remove(id, model.ErrEnvironmentNotFound) })
}

// ClusterRepository is a thread-safe in-memory implementation.
type ClusterRepository struct{ s *Store }

func (r *ClusterRepository) Create(_ context.Context, c *model.Cluster) error {
	return r.s.with(func(t *tables) error {
		stamp(&c.CreatedAt, &c.UpdatedAt)
		return t.clusters.insert(c)
	})
}

func (r *ClusterRepository) Get(_ context.Context, id string) (out *model.Cluster, err error) {
	err = r.s.with(func(t *tables) error {
		out, err = t.clusters.get(id, model.ErrClusterNotFound)
		return err
	})
	return out, err
}

func (r *ClusterRepository) GetByName(_ context.Context, name string) (out *model.Cluster, err error) {
	err = r.s.with(func(t *tables) error {
		out, err = t.clusters.first(func(v *model.Cluster) bool { return v.Name == name }, model.ErrClusterNotFound)
		return err
	})
	return out, err
}

func (r *ClusterRepository) List(_ context.Context) (out []*model.Cluster, err error) {
	err = r.s.with(func(t *tables) error {
		out = t.clusters.find(nil)
		return nil
	})
	return out, err
}

func (r *ClusterRepository) ListByEnvironment(_ context.Context, environmentID string) (out []*model.Cluster, err error) {
	err = r.s.with(func(t *tables) error {
		out = t.clusters.find(func(v *model.Cluster) bool { return v.EnvironmentID == environmentID })
		return nil
	})
	return out, err
}

func (r *ClusterRepository) Update(_ context.Context, c *model.Cluster) error {
	return r.s.with(func(t *tables) error {
		stamp(&c.CreatedAt, &c.UpdatedAt)
		return t.clusters.replace(c, model.ErrClusterNotFound)
	})
}

func (r *ClusterRepository) Delete(_ context.Context, id string) error {
	return r.s.with(func(t *tables) error { return t.clusters.remove(id, model.ErrClusterNotFound) })
}

// ApplicationRepository is a thread-safe in-memory implementation.
type ApplicationRepository struct{ s *Store }

func (r *ApplicationRepository) Create(_ context.Context, a *model.Application) error {
	return r.s.with(func(t *tables) error {
		stamp(&a.CreatedAt, &a.UpdatedAt)
		return t.applications.insert(a)
	})
}

func (r *ApplicationRepository) Get(_ context.Context, id string) (out *model.Application, err error) {
	err = r.s.with(func(t *tables) error {
		out, err = t.applications.get(id, model.ErrApplicationNotFound)
		return err
	})
	return out, err
}

func (r *ApplicationRepository) GetByName(_ context.Context, name string) (out *model.Application, err error) {
	err = r.s.with(func(t *tables) error {
		out, err = t.applications.first(func(v *model.Application) bool { return v.Name == name }, model.ErrApplicationNotFound)
		return err
	})
	return out, err
}

func (r *ApplicationRepository) List(_ context.Context) (out []*model.Application, err error) {
	err = r.s.with(func(t *tables) error {
		out = t.applications.find(nil)
		return nil
	})
	return out, err
}

func (r *ApplicationRepository) Update(_ context.Context, a *model.Application) error {
	return r.s.with(func(t *tables) error {
		stamp(&a.CreatedAt, &a.UpdatedAt)
		return t.applications.replace(a, model.ErrApplicationNotFound)
	})
}

func (r *ApplicationRepository) Delete(_ context.Context, id string) error {
	return r.s.with(func(t *tables) error { return t.applications.remove(id, model.ErrApplicationNotFound) })
}

// InstanceRepository is a thread-safe in-memory implementation.
type InstanceRepository struct{ s *Store }

func (r *InstanceRepository) Create(_ context.Context, i *model.Instance) error {
	return r.s.with(func(t *tables) error {
		stamp(&i.CreatedAt, &i.UpdatedAt)
		return t.instances.insert(i)
	})
}

func (r *InstanceRepository) Get(_ context.Context, id string) (out *model.Instance, err error) {
	err = r.s.with(func(t *tables) error {
		out, err = t.instances.get(id, model.ErrInstanceNotFound)
		return err
	})
	return out, err
}

func (r *InstanceRepository) List(_ context.Context) (out []*model.Instance, err error) {
	err = r.s.with(func(t *tables) error {
		out = t.instances.find(nil)
		return nil
	})
	return out, err
}

func (r *InstanceRepository) ListByApplication(_ context.Context, applicationID string) (out []*model.Instance, err error) {
	err = r.s.with(func(t *tables) error {
		out = t.instances.find(func(v *model.Instance) bool { return v.ApplicationID == applicationID })
		return nil
	})
	return out, err
}

func (r *InstanceRepository) ListByEnvironment(_ context.Context, environmentID string) (out []*model.Instance, err error) {
	err = r.s.with(func(t *tables) error {
		out = t.instances.find(func(v *model.Instance) bool { return v.EnvironmentID == environmentID })
		return nil
	})
	return out, err
}

func (r *InstanceRepository) Update(_ context.Context, i *model.Instance) error {
	return r.s.with(func(t *tables) error {
		stamp(&i.CreatedAt, &i.UpdatedAt)
		return t.instances.replace(i, model.ErrInstanceNotFound)
	})
}

func (r *InstanceRepository) Delete(_ context.Context, id string) error {
	return r.s.with(func(t *tables) error { return t.instances.remove(id, model.ErrInstanceNotFound) })
}

// ComponentRepository is a thread-safe in-memory implementation.
type ComponentRepository struct{ s *Store }

func (r *ComponentRepository) Create(_ context.Context, c *model.Component) error {
	return r.s.with(func(t *tables) error {
		c.NormalizeURL()
		stamp(&c.CreatedAt, &c.UpdatedAt)
		return t.components.insert(c)
	})
}

func (r *ComponentRepository) Get(_ context.Context, id string) (out *model.Component, err error) {
	err = r.s.with(func(t *tables) error {
		out, err = t.components.get(id, model.ErrComponentNotFound)
		return err
	})
	return out, err
}

func (r *ComponentRepository) ListByInstance(_ context.Context, instanceID string) (out []*model.Component, err error) {
	err = r.s.with(func(t *tables) error {
		out = t.components.find(func(v *model.Component) bool { return v.InstanceID == instanceID })
		return nil
	})
	return out, err
}

func (r *ComponentRepository) Update(_ context.Context, c *model.Component) error {
	return r.s.with(func(t *tables) error {
		c.NormalizeURL()
		stamp(&c.CreatedAt, &c.UpdatedAt)
		return t.components.replace(c, model.ErrComponentNotFound)
	})
}

func (r *ComponentRepository) Delete(_ context.Context, id string) error {
	return r.s.with(func(t *tables) error { return t.components.remove(id, model.ErrComponentNotFound) })
}

// ClusterInstanceRepository is a thread-safe in-memory implementation.
type ClusterInstanceRepository struct{ s *Store }

func (r *ClusterInstanceRepository) Create(_ context.Context, ci *model.ClusterInstance) error {
	return r.s.with(func(t *tables) error {
		stamp(&ci.CreatedAt, &ci.UpdatedAt)
		return t.clusterInstances.insert(ci)
	})
}

func (r *ClusterInstanceRepository) GetByComponent(_ context.Context, componentID string) (out *model.ClusterInstance, err error) {
	err = r.s.with(func(t *tables) error {
		out, err = t.clusterInstances.first(func(v *model.ClusterInstance) bool { return v.ComponentID == componentID }, model.ErrClusterInstanceNotFound)
		return err
	})
	return out, err
}

func (r *ClusterInstanceRepository) ListByCluster(_ context.Context, clusterID string) (out []*model.ClusterInstance, err error) {
	err = r.s.with(func(t *tables) error {
		out = t.clusterInstances.find(func(v *model.ClusterInstance) bool { return v.ClusterID == clusterID })
		return nil
	})
	return out, err
}

func (r *ClusterInstanceRepository) CountByCluster(ctx context.Context, clusterID string) (int, error) {
	out, err := r.ListByCluster(ctx, clusterID)
	return len(out), err
}

func (r *ClusterInstanceRepository) Delete(_ context.Context, id string) error {
	return r.s.with(func(t *tables) error { return t.clusterInstances.remove(id, model.ErrClusterInstanceNotFound) })
}

// TemplateRepository is a thread-safe in-memory implementation.
type TemplateRepository struct{ s *Store }

func (r *TemplateRepository) Create(_ context.Context, tp *model.Template) error {
	return r.s.with(func(t *tables) error {
		stamp(&tp.CreatedAt, &tp.UpdatedAt)
		return t.templates.insert(tp)
	})
}

func (r *TemplateRepository) Get(_ context.Context, id string) (out *model.Template, err error) {
	err = r.s.with(func(t *tables) error {
		out, err = t.templates.get(id, model.ErrTemplateNotFound)
		return err
	})
	return out, err
}

func (r *TemplateRepository) GetByName(_ context.Context, name string) (out *model.Template, err error) {
	err = r.s.with(func(t *tables) error {
		out, err = t.templates.first(func(v *model.Template) bool { return v.Name == name }, model.ErrTemplateNotFound)
		return err
	})
	return out, err
}

func (r *TemplateRepository) List(_ context.Context) (out []*model.Template, err error) {
	err = r.s.with(func(t *tables) error {
		out = t.templates.find(nil)
		return nil
	})
	return out, err
}

func (r *TemplateRepository) Update(_ context.Context, tp *model.Template) error {
	return r.s.with(func(t *tables) error {
		stamp(&tp.CreatedAt, &tp.UpdatedAt)
		return t.templates.replace(tp, model.ErrTemplateNotFound)
	})
}

func (r *TemplateRepository) Delete(_ context.Context, id string) error {
	return r.s.with(func(t *tables) error { return t.templates.remove(id, model.ErrTemplateNotFound) })
}

// TemplateConfigRepository is a thread-safe in-memory implementation.
type TemplateConfigRepository struct{ s *Store }

func (r *TemplateConfigRepository) Create(_ context.Context, c *model.ComponentTemplateConfig) error {
	return r.s.with(func(t *tables) error {
		stamp(&c.CreatedAt, &c.UpdatedAt)
		return t.templateConfigs.insert(c)
	})
}

func (r *TemplateConfigRepository) Get(_ context.Context, id string) (out *model.ComponentTemplateConfig, err error) {
	err = r.s.with(func(t *tables) error {
		out, err = t.templateConfigs.get(id, model.ErrTemplateConfigNotFound)
		return err
	})
	return out, err
}

func (r *TemplateConfigRepository) ListByComponentType(_ context.Context, ct model.ComponentType) (out []*model.ComponentTemplateConfig, err error) {
	err = r.s.with(func(t *tables) error {
		out = t.templateConfigs.find(func(v *model.ComponentTemplateConfig) bool { return v.ComponentType == ct })
		sortByRenderOrder(out)
		return nil
	})
	return out, err
}

func (r *TemplateConfigRepository) ListByTemplate(_ context.Context, templateID string) (out []*model.ComponentTemplateConfig, err error) {
	err = r.s.with(func(t *tables) error {
		out = t.templateConfigs.find(func(v *model.ComponentTemplateConfig) bool { return v.TemplateID == templateID })
		sortByRenderOrder(out)
		return nil
	})
	return out, err
}

func (r *TemplateConfigRepository) Update(_ context.Context, c *model.ComponentTemplateConfig) error {
	return r.s.with(func(t *tables) error {
		stamp(&c.CreatedAt, &c.UpdatedAt)
		return t.templateConfigs.replace(c, model.ErrTemplateConfigNotFound)
	})
}

func (r *TemplateConfigRepository) Delete(_ context.Context, id string) error {
	return r.s.with(func(t *tables) error { return t.templateConfigs.remove(id, model.ErrTemplateConfigNotFound) })
}

// SettingRepository is a thread-safe in-memory implementation.
type SettingRepository struct{ s *Store }

func (r *SettingRepository) Upsert(_ context.Context, st *model.Setting) error {
	return r.s.with(func(t *tables) error {
		cur, err := t.settings.first(func(v *model.Setting) bool {
			return v.EnvironmentID == st.EnvironmentID && v.Key == st.Key
		}, model.ErrSettingNotFound)
		if err != nil {
			st.ID = ""
			st.CreatedAt = time.Time{}
			stamp(&st.CreatedAt, &st.UpdatedAt)
			return t.settings.insert(st)
		}
		st.ID, st.CreatedAt = cur.ID, cur.CreatedAt
		stamp(&st.CreatedAt, &st.UpdatedAt)
		return t.settings.replace(st, model.ErrSettingNotFound)
	})
}

func (r *SettingRepository) Get(_ context.Context, environmentID, key string) (out *model.Setting, err error) {
	err = r.s.with(func(t *tables) error {
		out, err = t.settings.first(func(v *model.Setting) bool {
			return v.EnvironmentID == environmentID && v.Key == key
		}, model.ErrSettingNotFound)
		return err
	})
	return out, err
}

func (r *SettingRepository) ListByEnvironment(_ context.Context, environmentID string) (out []*model.Setting, err error) {
	err = r.s.with(func(t *tables) error {
		out = t.settings.find(func(v *model.Setting) bool { return v.EnvironmentID == environmentID })
		return nil
	})
	return out, err
}

func (r *SettingRepository) Delete(_ context.Context, id string) error {
	return r.s.with(func(t *tables) error { return t.settings.remove(id, model.ErrSettingNotFound) })
}

var (
	_ domain.EnvironmentRepository     = (*EnvironmentRepository)(nil)
	_ domain.ClusterRepository         = (*ClusterRepository)(nil)
	_ domain.ApplicationRepository     = (*ApplicationRepository)(nil)
	_ domain.InstanceRepository        = (*InstanceRepository)(nil)
	_ domain.ComponentRepository       = (*ComponentRepository)(nil)
	_ domain.ClusterInstanceRepository = (*ClusterInstanceRepository)(nil)
	_ domain.TemplateRepository        = (*TemplateRepository)(nil)
	_ domain.TemplateConfigRepository  = (*TemplateConfigRepository)(nil)
	_ domain.SettingRepository         = (*SettingRepository)(nil)
)
