// Package render turns component descriptions into cluster manifests by executing the
// ordered render plan configured for each component type.
package render

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/kompox/shipyard/domain"
	"github.com/kompox/shipyard/domain/model"
	"github.com/kompox/shipyard/internal/logging"
	yamlv3 "gopkg.in/yaml.v3"
	utiljson "k8s.io/apimachinery/pkg/util/json"
	"sigs.k8s.io/yaml"
)

// Step is one entry of a render plan.
type Step struct {
	Config   *model.ComponentTemplateConfig
	Template *model.Template
}

// Compiler renders manifests from the templates stored in the repositories.
type Compiler struct {
	configs   domain.TemplateConfigRepository
	templates domain.TemplateRepository
}

// NewCompiler returns a Compiler reading its render plans from repos.
func NewCompiler(repos *domain.Repositories) *Compiler {
	return &Compiler{configs: repos.TemplateConfig, templates: repos.Template}
}

// Plan returns the enabled steps configured for componentType in render order.
func (c *Compiler) Plan(ctx context.Context, componentType model.ComponentType) ([]Step, error) {
	configs, err := c.configs.ListByComponentType(ctx, componentType)
	if err != nil {
		return nil, fmt.Errorf("list template configs: %w", err)
	}
	var plan []Step
	for _, cfg := range configs {
		if !cfg.Enabled {
			continue
		}
		tmpl, err := c.templates.Get(ctx, cfg.TemplateID)
		if err != nil {
			return nil, fmt.Errorf("template config %s: %w", cfg.ID, err)
		}
		plan = append(plan, Step{Config: cfg, Template: tmpl})
	}
	if len(plan) == 0 {
		return nil, &model.TemplateError{ComponentType: componentType, Err: model.ErrNoTemplatesConfigured}
	}
	return plan, nil
}

// Render executes the render plan of componentType against vars. Templates producing only
// whitespace contribute nothing, so the result may be empty.
func (c *Compiler) Render(ctx context.Context, componentType model.ComponentType, vars Variables) ([]model.Document, error) {
	logger := logging.FromContext(ctx)
	plan, err := c.Plan(ctx, componentType)
	if err != nil {
		return nil, err
	}
	docs := make([]model.Document, 0, len(plan))
	for _, step := range plan {
		doc, err := RenderTemplate(step.Template.Name, step.Template.Content, vars)
		if err != nil {
			return nil, &model.TemplateError{ComponentType: componentType, Template: step.Template.Name, Err: err}
		}
		if doc == nil {
			logger.Debug(ctx, "Render:Skip", "type", componentType, "template", step.Template.Name)
			continue
		}
		docs = append(docs, doc)
	}
	logger.Debug(ctx, "Render:Done", "type", componentType, "steps", len(plan), "docs", len(docs))
	return docs, nil
}

func parse(name, content string) (*template.Template, error) {
	t, err := template.New(name).Funcs(sprig.TxtFuncMap()).Parse(content)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	return t, nil
}

// CheckTemplate reports whether content is a syntactically valid template body.
func CheckTemplate(name, content string) error {
	_, err := parse(name, content)
	return err
}

// RenderTemplate executes a single template body. It returns a nil document when the
// output is blank, and ErrTemplateParse when the output is not exactly one mapping.
func RenderTemplate(name, content string, vars Variables) (model.Document, error) {
	t, err := parse(name, content)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, map[string]any(vars)); err != nil {
		return nil, fmt.Errorf("execute: %w", err)
	}
	if strings.TrimSpace(buf.String()) == "" {
		return nil, nil
	}
	return decodeDocument(buf.Bytes())
}

func decodeDocument(b []byte) (model.Document, error) {
	n, err := countDocuments(b)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrTemplateParse, err)
	}
	if n > 1 {
		return nil, fmt.Errorf("%w: output holds %d documents, want one", model.ErrTemplateParse, n)
	}
	j, err := yaml.YAMLToJSON(b)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrTemplateParse, err)
	}
	var v any
	if err := utiljson.Unmarshal(j, &v); err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrTemplateParse, err)
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: got %T", model.ErrTemplateParse, v)
	}
	return model.Document(m), nil
}

// countDocuments counts the non-empty documents of a YAML stream.
func countDocuments(b []byte) (int, error) {
	dec := yamlv3.NewDecoder(bytes.NewReader(b))
	n := 0
	for {
		var v any
		err := dec.Decode(&v)
		if errors.Is(err, io.EOF) {
			return n, nil
		}
		if err != nil {
			return n, err
		}
		if v != nil {
			n++
		}
	}
}
