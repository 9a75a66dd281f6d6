package template

import (
	"context"
	"fmt"

	"github.com/kompox/shipyard/domain/model"
	"github.com/kompox/shipyard/internal/validate"
)

// ConfigCreateInput places a template in the render plan of a component type.
type ConfigCreateInput struct {
	ComponentType model.ComponentType `json:"component_type" validate:"required,oneof=webapp worker cron"`
	TemplateID    string              `json:"template_id" validate:"required"`
	RenderOrder   int                 `json:"render_order" validate:"min=0"`
	// Enabled defaults to true.
	Enabled *bool `json:"enabled,omitempty"`
}

// ConfigOutput wraps one render plan entry.
type ConfigOutput struct {
	Config *model.ComponentTemplateConfig `json:"config"`
}

// ConfigCreate adds a render plan entry. A template appears at most once per component type.
func (u *UseCase) ConfigCreate(ctx context.Context, in *ConfigCreateInput) (*ConfigOutput, error) {
	if in == nil {
		return nil, model.NewValidationError("", "input is required")
	}
	if err := validate.Struct(in); err != nil {
		return nil, err
	}
	t, err := u.get(ctx, in.TemplateID)
	if err != nil {
		return nil, err
	}
	c := &model.ComponentTemplateConfig{
		ComponentType: in.ComponentType,
		TemplateID:    t.ID,
		RenderOrder:   in.RenderOrder,
		Enabled:       in.Enabled == nil || *in.Enabled,
	}
	if err := u.Repos.TemplateConfig.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("add %s to %s plan: %w", t.Name, in.ComponentType, err)
	}
	return &ConfigOutput{Config: c}, nil
}

// ConfigUpdateInput specifies render plan entry fields that can be changed.
type ConfigUpdateInput struct {
	ConfigID    string `json:"config_id" validate:"required"`
	RenderOrder *int   `json:"render_order,omitempty" validate:"omitempty,min=0"`
	Enabled     *bool  `json:"enabled,omitempty"`
}

// ConfigUpdate reorders or toggles a render plan entry.
func (u *UseCase) ConfigUpdate(ctx context.Context, in *ConfigUpdateInput) (*ConfigOutput, error) {
	if in == nil {
		return nil, model.NewValidationError("", "input is required")
	}
	if err := validate.Struct(in); err != nil {
		return nil, err
	}
	c, err := u.Repos.TemplateConfig.Get(ctx, in.ConfigID)
	if err != nil {
		return nil, err
	}
	if in.RenderOrder != nil {
		c.RenderOrder = *in.RenderOrder
	}
	if in.Enabled != nil {
		c.Enabled = *in.Enabled
	}
	if err := u.Repos.TemplateConfig.Update(ctx, c); err != nil {
		return nil, err
	}
	return &ConfigOutput{Config: c}, nil
}

// ConfigDeleteInput identifies the render plan entry to delete.
type ConfigDeleteInput struct {
	ConfigID string `json:"config_id" validate:"required"`
}

// ConfigDelete removes a render plan entry. The template itself is kept.
func (u *UseCase) ConfigDelete(ctx context.Context, in *ConfigDeleteInput) error {
	if in == nil {
		return model.NewValidationError("", "input is required")
	}
	if err := validate.Struct(in); err != nil {
		return err
	}
	return u.Repos.TemplateConfig.Delete(ctx, in.ConfigID)
}

// PlanInput selects the component types whose render plans are listed. Empty means all.
type PlanInput struct {
	ComponentType model.ComponentType `json:"component_type,omitempty" validate:"omitempty,oneof=webapp worker cron"`
}

// PlanEntry is a render plan entry with its template name resolved.
type PlanEntry struct {
	*model.ComponentTemplateConfig
	TemplateName string `json:"template_name"`
}

// PlanOutput lists render plan entries per component type in render order.
type PlanOutput struct {
	Plans map[model.ComponentType][]PlanEntry `json:"plans"`
}

// Plan lists the configured render plans, disabled entries included.
func (u *UseCase) Plan(ctx context.Context, in *PlanInput) (*PlanOutput, error) {
	if in == nil {
		in = &PlanInput{}
	}
	if err := validate.Struct(in); err != nil {
		return nil, err
	}
	types := model.ComponentTypes
	if in.ComponentType != "" {
		types = []model.ComponentType{in.ComponentType}
	}
	out := &PlanOutput{Plans: map[model.ComponentType][]PlanEntry{}}
	for _, ct := range types {
		configs, err := u.Repos.TemplateConfig.ListByComponentType(ctx, ct)
		if err != nil {
			return nil, err
		}
		entries := make([]PlanEntry, 0, len(configs))
		for _, c := range configs {
			e := PlanEntry{ComponentTemplateConfig: c}
			if t, err := u.Repos.Template.Get(ctx, c.TemplateID); err == nil {
				e.TemplateName = t.Name
			}
			entries = append(entries, e)
		}
		out.Plans[ct] = entries
	}
	return out, nil
}
