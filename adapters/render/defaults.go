package render

import (
	"embed"
	"fmt"
	"path"

	"github.com/kompox/shipyard/domain/model"
	"gopkg.in/yaml.v3"
)

//go:embed templates/manifest.yaml templates/*/*.tmpl
var builtinTemplates embed.FS

const builtinTemplateDir = "templates"

// DefaultTemplate is a builtin template together with its place in a render plan.
type DefaultTemplate struct {
	Template    model.Template
	RenderOrder int
}

type manifest struct {
	VariablesSchema map[string]any  `yaml:"variables_schema"`
	Templates       []manifestEntry `yaml:"templates"`
}

type manifestEntry struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Category    string `yaml:"category"`
	File        string `yaml:"file"`
	RenderOrder int    `yaml:"render_order"`
}

// DefaultTemplates returns the builtin render plans for every component type.
func DefaultTemplates() ([]DefaultTemplate, error) {
	raw, err := builtinTemplates.ReadFile(path.Join(builtinTemplateDir, "manifest.yaml"))
	if err != nil {
		return nil, fmt.Errorf("read builtin manifest: %w", err)
	}
	var m manifest
	if err := yaml.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("parse builtin manifest: %w", err)
	}
	out := make([]DefaultTemplate, 0, len(m.Templates))
	for _, e := range m.Templates {
		if !model.ComponentType(e.Category).Valid() {
			return nil, fmt.Errorf("builtin template %q: unknown category %q", e.Name, e.Category)
		}
		content, err := builtinTemplates.ReadFile(path.Join(builtinTemplateDir, e.File))
		if err != nil {
			return nil, fmt.Errorf("read builtin template %q: %w", e.Name, err)
		}
		out = append(out, DefaultTemplate{
			Template: model.Template{
				Name:            e.Name,
				Description:     e.Description,
				Category:        e.Category,
				Content:         string(content),
				VariablesSchema: m.VariablesSchema,
			},
			RenderOrder: e.RenderOrder,
		})
	}
	return out, nil
}
