package template

import (
	"context"
	"errors"

	"github.com/kompox/shipyard/adapters/render"
	"github.com/kompox/shipyard/domain"
	"github.com/kompox/shipyard/domain/model"
	"github.com/kompox/shipyard/internal/logging"
)

// SeedInput controls how the builtin templates are installed.
type SeedInput struct {
	// Overwrite replaces the content of existing templates with the builtin body.
	Overwrite bool `json:"overwrite,omitempty"`
}

// SeedOutput counts what seeding changed.
type SeedOutput struct {
	Created   int `json:"created"`
	Updated   int `json:"updated"`
	Unchanged int `json:"unchanged"`
}

// Seed installs the builtin templates and their render plan entries. Running it again
// only restores missing entries and builtin render orders, unless Overwrite is set.
func (u *UseCase) Seed(ctx context.Context, in *SeedInput) (*SeedOutput, error) {
	if in == nil {
		in = &SeedInput{}
	}
	defaults, err := render.DefaultTemplates()
	if err != nil {
		return nil, err
	}
	logger := logging.FromContext(ctx)
	out := &SeedOutput{}
	err = u.UoW.Do(ctx, func(tx *domain.Repositories) error {
		*out = SeedOutput{}
		for _, d := range defaults {
			changed, err := seedOne(ctx, tx, d, in.Overwrite)
			if err != nil {
				return err
			}
			switch changed {
			case seedCreated:
				out.Created++
			case seedUpdated:
				out.Updated++
			default:
				out.Unchanged++
			}
			logger.Debug(ctx, "Template:Seed", "template", d.Template.Name, "result", changed)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

type seedResult string

const (
	seedCreated   seedResult = "created"
	seedUpdated   seedResult = "updated"
	seedUnchanged seedResult = "unchanged"
)

func seedOne(ctx context.Context, tx *domain.Repositories, d render.DefaultTemplate, overwrite bool) (seedResult, error) {
	result := seedUnchanged
	t, err := tx.Template.GetByName(ctx, d.Template.Name)
	switch {
	case errors.Is(err, model.ErrNotFound):
		tmpl := d.Template
		t = &tmpl
		if err := tx.Template.Create(ctx, t); err != nil {
			return "", err
		}
		result = seedCreated
	case err != nil:
		return "", err
	case overwrite && (t.Content != d.Template.Content || t.Description != d.Template.Description):
		t.Content = d.Template.Content
		t.Description = d.Template.Description
		t.VariablesSchema = d.Template.VariablesSchema
		if err := tx.Template.Update(ctx, t); err != nil {
			return "", err
		}
		result = seedUpdated
	}

	ct := model.ComponentType(d.Template.Category)
	configs, err := tx.TemplateConfig.ListByTemplate(ctx, t.ID)
	if err != nil {
		return "", err
	}
	for _, c := range configs {
		if c.ComponentType != ct {
			continue
		}
		if c.RenderOrder == d.RenderOrder {
			return result, nil
		}
		c.RenderOrder = d.RenderOrder
		if err := tx.TemplateConfig.Update(ctx, c); err != nil {
			return "", err
		}
		if result == seedUnchanged {
			result = seedUpdated
		}
		return result, nil
	}
	c := &model.ComponentTemplateConfig{ComponentType: ct, TemplateID: t.ID, RenderOrder: d.RenderOrder, Enabled: true}
	if err := tx.TemplateConfig.Create(ctx, c); err != nil {
		return "", err
	}
	if result == seedUnchanged {
		result = seedUpdated
	}
	return result, nil
}
