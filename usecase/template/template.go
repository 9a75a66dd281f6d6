package template

import (
	"context"

	"github.com/kompox/shipyard/adapters/render"
	"github.com/kompox/shipyard/domain"
	"github.com/kompox/shipyard/domain/model"
	"github.com/kompox/shipyard/internal/validate"
)

// CreateInput contains data to create a template.
type CreateInput struct {
	Name            string         `json:"name" validate:"required,max=255"`
	Description     string         `json:"description,omitempty"`
	Category        string         `json:"category,omitempty" validate:"omitempty,oneof=webapp worker cron"`
	Content         string         `json:"content" validate:"required"`
	VariablesSchema map[string]any `json:"variables_schema,omitempty"`
}

// CreateOutput wraps the created template.
type CreateOutput struct {
	Template *model.Template `json:"template"`
}

// Create stores a template after checking that its body parses.
func (u *UseCase) Create(ctx context.Context, in *CreateInput) (*CreateOutput, error) {
	if in == nil {
		return nil, model.NewValidationError("", "input is required")
	}
	if err := validate.Struct(in); err != nil {
		return nil, err
	}
	if err := render.CheckTemplate(in.Name, in.Content); err != nil {
		return nil, model.NewValidationError("content", "%v", err)
	}
	t := &model.Template{
		Name:            in.Name,
		Description:     in.Description,
		Category:        in.Category,
		Content:         in.Content,
		VariablesSchema: in.VariablesSchema,
	}
	if err := u.Repos.Template.Create(ctx, t); err != nil {
		return nil, err
	}
	return &CreateOutput{Template: t}, nil
}

// GetInput identifies a template by ID or name.
type GetInput struct {
	TemplateID string `json:"template_id" validate:"required"`
}

// GetOutput wraps the retrieved template and the plans it takes part in.
type GetOutput struct {
	Template *model.Template                  `json:"template"`
	Configs  []*model.ComponentTemplateConfig `json:"configs"`
}

// Get retrieves a template.
func (u *UseCase) Get(ctx context.Context, in *GetInput) (*GetOutput, error) {
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
	configs, err := u.Repos.TemplateConfig.ListByTemplate(ctx, t.ID)
	if err != nil {
		return nil, err
	}
	return &GetOutput{Template: t, Configs: configs}, nil
}

// ListInput defines optional filters for listing templates.
type ListInput struct {
	Category string `json:"category,omitempty"`
}

// ListOutput wraps listed templates.
type ListOutput struct {
	Templates []*model.Template `json:"templates"`
}

// List returns templates, optionally only those of one category.
func (u *UseCase) List(ctx context.Context, in *ListInput) (*ListOutput, error) {
	items, err := u.Repos.Template.List(ctx)
	if err != nil {
		return nil, err
	}
	if in != nil && in.Category != "" {
		filtered := make([]*model.Template, 0, len(items))
		for _, t := range items {
			if t.Category == in.Category {
				filtered = append(filtered, t)
			}
		}
		items = filtered
	}
	return &ListOutput{Templates: items}, nil
}

// UpdateInput specifies template fields that can be changed.
type UpdateInput struct {
	TemplateID      string         `json:"template_id" validate:"required"`
	Name            *string        `json:"name,omitempty" validate:"omitempty,min=1,max=255"`
	Description     *string        `json:"description,omitempty"`
	Category        *string        `json:"category,omitempty" validate:"omitempty,oneof=webapp worker cron"`
	Content         *string        `json:"content,omitempty" validate:"omitempty,min=1"`
	VariablesSchema map[string]any `json:"variables_schema,omitempty"`
}

// UpdateOutput wraps the updated template.
type UpdateOutput struct {
	Template *model.Template `json:"template"`
}

// Update applies provided changes to a template. Deployed components pick them up on their next update or sync.
func (u *UseCase) Update(ctx context.Context, in *UpdateInput) (*UpdateOutput, error) {
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
	if in.Name != nil {
		t.Name = *in.Name
	}
	if in.Description != nil {
		t.Description = *in.Description
	}
	if in.Category != nil {
		t.Category = *in.Category
	}
	if in.Content != nil {
		if err := render.CheckTemplate(t.Name, *in.Content); err != nil {
			return nil, model.NewValidationError("content", "%v", err)
		}
		t.Content = *in.Content
	}
	if in.VariablesSchema != nil {
		t.VariablesSchema = in.VariablesSchema
	}
	if err := u.Repos.Template.Update(ctx, t); err != nil {
		return nil, err
	}
	return &UpdateOutput{Template: t}, nil
}

// DeleteInput identifies the template to delete.
type DeleteInput struct {
	TemplateID string `json:"template_id" validate:"required"`
}

// DeleteOutput is empty because delete has no return entity.
type DeleteOutput struct{}

// Delete removes a template and every render plan entry referencing it.
func (u *UseCase) Delete(ctx context.Context, in *DeleteInput) (*DeleteOutput, error) {
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
	err = u.UoW.Do(ctx, func(tx *domain.Repositories) error {
		configs, err := tx.TemplateConfig.ListByTemplate(ctx, t.ID)
		if err != nil {
			return err
		}
		for _, c := range configs {
			if err := tx.TemplateConfig.Delete(ctx, c.ID); err != nil {
				return err
			}
		}
		return tx.Template.Delete(ctx, t.ID)
	})
	if err != nil {
		return nil, err
	}
	return &DeleteOutput{}, nil
}

// PreviewInput renders a stored template against caller supplied variables.
type PreviewInput struct {
	TemplateID string         `json:"template_id" validate:"required"`
	Variables  map[string]any `json:"variables"`
}

// PreviewOutput holds the rendered document, nil when the template renders blank.
type PreviewOutput struct {
	Document model.Document `json:"document"`
}

// Preview renders one template without touching any cluster.
func (u *UseCase) Preview(ctx context.Context, in *PreviewInput) (*PreviewOutput, error) {
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
	doc, err := render.RenderTemplate(t.Name, t.Content, render.Variables(in.Variables))
	if err != nil {
		return nil, &model.TemplateError{ComponentType: model.ComponentType(t.Category), Template: t.Name, Err: err}
	}
	return &PreviewOutput{Document: doc}, nil
}
