package domain

import (
	"context"

	"github.com/kompox/shipyard/domain/model"
)

// EnvironmentRepository stores and retrieves Environment aggregates.
type EnvironmentRepository interface {
	Create(ctx context.Context, e *model.Environment) error
	Get(ctx context.Context, id string) (*model.Environment, error)
	GetByName(ctx context.Context, name string) (*model.Environment, error)
	List(ctx context.Context) ([]*model.Environment, error)
	Update(ctx context.Context, e *model.Environment) error
	Delete(ctx context.Context, id string) error
}

// ClusterRepository stores and retrieves Cluster aggregates.
// List results are ordered by creation time.
type ClusterRepository interface {
	Create(ctx context.Context, c *model.Cluster) error
	Get(ctx context.Context, id string) (*model.Cluster, error)
	GetByName(ctx context.Context, name string) (*model.Cluster, error)
	List(ctx context.Context) ([]*model.Cluster, error)
	ListByEnvironment(ctx context.Context, environmentID string) ([]*model.Cluster, error)
	Update(ctx context.Context, c *model.Cluster) error
	Delete(ctx context.Context, id string) error
}

// ApplicationRepository stores and retrieves Application aggregates.
type ApplicationRepository interface {
	Create(ctx context.Context, a *model.Application) error
	Get(ctx context.Context, id string) (*model.Application, error)
	GetByName(ctx context.Context, name string) (*model.Application, error)
	List(ctx context.Context) ([]*model.Application, error)
	Update(ctx context.Context, a *model.Application) error
	Delete(ctx context.Context, id string) error
}

// InstanceRepository stores and retrieves Instance aggregates.
type InstanceRepository interface {
	Create(ctx context.Context, i *model.Instance) error
	Get(ctx context.Context, id string) (*model.Instance, error)
	List(ctx context.Context) ([]*model.Instance, error)
	ListByApplication(ctx context.Context, applicationID string) ([]*model.Instance, error)
	ListByEnvironment(ctx context.Context, environmentID string) ([]*model.Instance, error)
	Update(ctx context.Context, i *model.Instance) error
	Delete(ctx context.Context, id string) error
}

// ComponentRepository stores and retrieves ApplicationComponent aggregates.
type ComponentRepository interface {
	Create(ctx context.Context, c *model.Component) error
	Get(ctx context.Context, id string) (*model.Component, error)
	ListByInstance(ctx context.Context, instanceID string) ([]*model.Component, error)
	Update(ctx context.Context, c *model.Component) error
	Delete(ctx context.Context, id string) error
}

// ClusterInstanceRepository stores component placements.
type ClusterInstanceRepository interface {
	Create(ctx context.Context, ci *model.ClusterInstance) error
	GetByComponent(ctx context.Context, componentID string) (*model.ClusterInstance, error)
	ListByCluster(ctx context.Context, clusterID string) ([]*model.ClusterInstance, error)
	CountByCluster(ctx context.Context, clusterID string) (int, error)
	Delete(ctx context.Context, id string) error
}

// TemplateRepository stores and retrieves Template aggregates.
type TemplateRepository interface {
	Create(ctx context.Context, t *model.Template) error
	Get(ctx context.Context, id string) (*model.Template, error)
	GetByName(ctx context.Context, name string) (*model.Template, error)
	List(ctx context.Context) ([]*model.Template, error)
	Update(ctx context.Context, t *model.Template) error
	Delete(ctx context.Context, id string) error
}

// TemplateConfigRepository stores render plan entries.
type TemplateConfigRepository interface {
	Create(ctx context.Context, c *model.ComponentTemplateConfig) error
	Get(ctx context.Context, id string) (*model.ComponentTemplateConfig, error)
	// ListByComponentType returns configs for the type ordered by RenderOrder ascending.
	ListByComponentType(ctx context.Context, t model.ComponentType) ([]*model.ComponentTemplateConfig, error)
	ListByTemplate(ctx context.Context, templateID string) ([]*model.ComponentTemplateConfig, error)
	Update(ctx context.Context, c *model.ComponentTemplateConfig) error
	Delete(ctx context.Context, id string) error
}

// SettingRepository stores environment-scoped settings.
type SettingRepository interface {
	// Upsert creates the setting or replaces the value of the existing (key, environment) pair.
	Upsert(ctx context.Context, s *model.Setting) error
	Get(ctx context.Context, environmentID, key string) (*model.Setting, error)
	ListByEnvironment(ctx context.Context, environmentID string) ([]*model.Setting, error)
	Delete(ctx context.Context, id string) error
}

// UnitOfWork coordinates transactional operations.
// Any error returned by fn rolls back every write made through repos.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(repos *Repositories) error) error
}

// Repositories groups repository interfaces for use inside UnitOfWork.
type Repositories struct {
	Environment     EnvironmentRepository
	Cluster         ClusterRepository
	Application     ApplicationRepository
	Instance        InstanceRepository
	Component       ComponentRepository
	ClusterInstance ClusterInstanceRepository
	Template        TemplateRepository
	TemplateConfig  TemplateConfigRepository
	Setting         SettingRepository
}
