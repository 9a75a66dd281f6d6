package render

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/shlex"
	"github.com/kompox/shipyard/domain/model"
	utiljson "k8s.io/apimachinery/pkg/util/json"
)

// Variables is the data a template is executed against:
//
//	application: component_name, component_uuid, component_type, application_name,
//	             application_uuid, environment, environment_uuid, image, version, url,
//	             enabled, settings
//	environment: environment settings by key
//	cluster:     gateway.reference.{namespace,name}
type Variables map[string]any

// VariablesInput collects the records a component is rendered from.
type VariablesInput struct {
	Component   *model.Component
	Instance    *model.Instance
	Application *model.Application
	Environment *model.Environment
	Settings    []*model.Setting
	Gateway     model.GatewayReference
}

// BuildVariables assembles the render variables of a component.
func BuildVariables(in VariablesInput) (Variables, error) {
	c := in.Component
	if c == nil || in.Instance == nil || in.Application == nil || in.Environment == nil {
		return nil, fmt.Errorf("render variables: incomplete input")
	}
	settings, err := componentSettings(c)
	if err != nil {
		return nil, err
	}
	env, err := normalizeMap(model.SettingsMap(in.Settings))
	if err != nil {
		return nil, fmt.Errorf("environment settings: %w", err)
	}

	var url any
	if c.URL != nil && strings.TrimSpace(*c.URL) != "" {
		url = *c.URL
	}
	gw := model.GatewayReference{}
	if c.Type == model.ComponentTypeWebapp {
		gw = in.Gateway
	}

	return Variables{
		"application": map[string]any{
			"component_name":   c.Name,
			"component_uuid":   c.ID,
			"component_type":   string(c.Type),
			"application_name": in.Application.Name,
			"application_uuid": in.Application.ID,
			"environment":      in.Environment.Name,
			"environment_uuid": in.Environment.ID,
			"image":            in.Instance.Image,
			"version":          in.Instance.Version,
			"url":              url,
			"enabled":          c.Enabled,
			"settings":         settings,
		},
		"environment": env,
		"cluster": map[string]any{
			"gateway": map[string]any{
				"reference": map[string]any{
					"namespace": gw.Namespace,
					"name":      gw.Name,
				},
			},
		},
	}, nil
}

// componentSettings copies the component settings, splits a string command into argv and
// fills the webapp exposure defaults.
func componentSettings(c *model.Component) (map[string]any, error) {
	settings, err := normalizeMap(c.Settings)
	if err != nil {
		return nil, fmt.Errorf("component settings: %w", err)
	}
	if cmd, ok := settings["command"]; ok {
		argv, err := commandArgs(cmd)
		if err != nil {
			return nil, model.NewValidationError("settings.command", "%v", err)
		}
		if argv == nil {
			settings["command"] = nil
		} else {
			settings["command"] = argv
		}
	}
	if err := checkQuantities(settings); err != nil {
		return nil, err
	}
	if c.Type == model.ComponentTypeWebapp {
		e, err := c.Exposure()
		if err != nil {
			return nil, err
		}
		settings["exposure"] = map[string]any{
			"type":       string(e.Type),
			"port":       int64(e.Port),
			"visibility": string(e.Visibility),
		}
	}
	return settings, nil
}

// checkQuantities rejects cpu and memory settings the API server would not parse.
func checkQuantities(settings map[string]any) error {
	if v, ok := settings["cpu"].(string); ok {
		if _, err := model.ParseCPU(v); err != nil {
			return model.NewValidationError("settings.cpu", "%v", err)
		}
	}
	if v, ok := settings["memory"].(string); ok {
		if _, err := model.ParseMemoryMB(v); err != nil {
			return model.NewValidationError("settings.memory", "%v", err)
		}
	}
	return nil
}

// commandArgs accepts a shell-style string or a list and returns argv, or nil when empty.
func commandArgs(v any) ([]any, error) {
	switch cmd := v.(type) {
	case nil:
		return nil, nil
	case string:
		cmd = strings.TrimSpace(cmd)
		if cmd == "" {
			return nil, nil
		}
		words, err := shlex.Split(cmd)
		if err != nil {
			return nil, fmt.Errorf("split command %q: %w", cmd, err)
		}
		out := make([]any, len(words))
		for i, w := range words {
			out[i] = w
		}
		return out, nil
	case []any:
		if len(cmd) == 0 {
			return nil, nil
		}
		return cmd, nil
	default:
		return nil, fmt.Errorf("command must be a string or a list, got %T", v)
	}
}

// normalizeMap deep copies m so that nested values are plain maps, slices, strings, bools,
// int64 or float64.
func normalizeMap(m map[string]any) (map[string]any, error) {
	out := map[string]any{}
	if len(m) == 0 {
		return out, nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	if err := utiljson.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return out, nil
}
