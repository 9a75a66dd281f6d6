package model

import "time"

// Template is a reusable manifest body rendered with text/template.
type Template struct {
	ID              string         `json:"id"`
	Name            string         `json:"name"`
	Description     string         `json:"description,omitempty"`
	Category        string         `json:"category,omitempty"`
	Content         string         `json:"content"`
	VariablesSchema map[string]any `json:"variables_schema,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

// ComponentTemplateConfig places a Template in the render plan of a component type.
type ComponentTemplateConfig struct {
	ID            string        `json:"id"`
	ComponentType ComponentType `json:"component_type"`
	TemplateID    string        `json:"template_id"`
	RenderOrder   int           `json:"render_order"`
	Enabled       bool          `json:"enabled"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}
