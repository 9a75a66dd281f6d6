package model

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// ComponentType is the kind of deployable unit.
type ComponentType string

const (
	ComponentTypeWebapp ComponentType = "webapp"
	ComponentTypeWorker ComponentType = "worker"
	ComponentTypeCron   ComponentType = "cron"
)

// ComponentTypes lists every supported component type.
var ComponentTypes = []ComponentType{ComponentTypeWebapp, ComponentTypeWorker, ComponentTypeCron}

// Valid reports whether t is a supported component type.
func (t ComponentType) Valid() bool {
	for _, v := range ComponentTypes {
		if t == v {
			return true
		}
	}
	return false
}

// ExposureType is the transport a webapp is exposed with.
type ExposureType string

const (
	ExposureHTTP ExposureType = "http"
	ExposureTCP  ExposureType = "tcp"
	ExposureUDP  ExposureType = "udp"
)

// Visibility controls who can reach an exposed webapp.
type Visibility string

const (
	VisibilityCluster Visibility = "cluster"
	VisibilityPrivate Visibility = "private"
	VisibilityPublic  Visibility = "public"
)

// Exposure is the "exposure" sub-document of a component's settings.
type Exposure struct {
	Type       ExposureType `json:"type"`
	Port       int          `json:"port"`
	Visibility Visibility   `json:"visibility"`
}

// RequiresGateway reports whether the exposure needs the routing extension on the target cluster.
func (e Exposure) RequiresGateway() bool {
	return e.Type == ExposureTCP || e.Type == ExposureUDP ||
		e.Visibility == VisibilityPublic || e.Visibility == VisibilityPrivate
}

// RouteKind returns the routing extension kind serving this exposure, or "" when none is needed.
func (e Exposure) RouteKind() string {
	if !e.RequiresGateway() {
		return ""
	}
	switch e.Type {
	case ExposureTCP:
		return RouteKindTCP
	case ExposureUDP:
		return RouteKindUDP
	default:
		return RouteKindHTTP
	}
}

// RequiresURL reports whether a component with this exposure must carry an externally routable URL.
func (e Exposure) RequiresURL() bool {
	return e.Type == ExposureHTTP && e.Visibility != VisibilityCluster
}

// DefaultWebappExposure is applied to webapps whose settings carry no exposure.
func DefaultWebappExposure() Exposure {
	return Exposure{Type: ExposureHTTP, Port: 80, Visibility: VisibilityCluster}
}

// Component is an ApplicationComponent: one deployable webapp, worker or cron job.
type Component struct {
	ID         string         `json:"id"`
	InstanceID string         `json:"instance_id"`
	Name       string         `json:"name"`
	Type       ComponentType  `json:"type"`
	Settings   map[string]any `json:"settings"`
	URL        *string        `json:"url,omitempty"`
	Enabled    bool           `json:"enabled"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

// Exposure decodes the exposure sub-document, applying the webapp default when absent.
// Non-webapp components return the zero Exposure unless their settings carry one.
func (c *Component) Exposure() (Exposure, error) {
	raw, ok := c.Settings["exposure"]
	if !ok || raw == nil {
		if c.Type == ComponentTypeWebapp {
			return DefaultWebappExposure(), nil
		}
		return Exposure{}, nil
	}
	var e Exposure
	if err := remarshal(raw, &e); err != nil {
		return Exposure{}, NewValidationError("settings.exposure", "%v", err)
	}
	if e.Type == "" {
		e.Type = ExposureHTTP
	}
	if e.Visibility == "" {
		e.Visibility = VisibilityCluster
	}
	if e.Port == 0 {
		e.Port = 80
	}
	return e, nil
}

// Validate checks the component's shape and the URL/exposure invariant:
// URL is present iff type=webapp, exposure.type=http and exposure.visibility!=cluster.
func (c *Component) Validate() error {
	if c.Name == "" {
		return NewValidationError("name", "must not be empty")
	}
	if strings.ContainsAny(c.Name, " \t\r\n") {
		return NewValidationError("name", "component name cannot contain whitespace")
	}
	if !c.Type.Valid() {
		return NewValidationError("type", "unsupported component type %q", c.Type)
	}
	e, err := c.Exposure()
	if err != nil {
		return err
	}
	if c.Type == ComponentTypeWebapp {
		switch e.Type {
		case ExposureHTTP, ExposureTCP, ExposureUDP:
		default:
			return NewValidationError("settings.exposure.type", "unsupported exposure type %q", e.Type)
		}
		switch e.Visibility {
		case VisibilityCluster, VisibilityPrivate, VisibilityPublic:
		default:
			return NewValidationError("settings.exposure.visibility", "unsupported visibility %q", e.Visibility)
		}
		if e.Port < 1 || e.Port > 65535 {
			return NewValidationError("settings.exposure.port", "port %d out of range", e.Port)
		}
	}
	hasURL := c.URL != nil && strings.TrimSpace(*c.URL) != ""
	needsURL := c.Type == ComponentTypeWebapp && e.RequiresURL()
	switch {
	case needsURL && !hasURL:
		return NewValidationError("url", "url is required for http exposure with %s visibility", e.Visibility)
	case !needsURL && hasURL:
		if c.Type != ComponentTypeWebapp {
			return NewValidationError("url", "%s components cannot have a url", c.Type)
		}
		return NewValidationError("url", "url is only allowed for http exposure with private or public visibility")
	}
	return nil
}

// NormalizeURL clears empty URLs so that "" and nil are equivalent.
func (c *Component) NormalizeURL() {
	if c.URL != nil && strings.TrimSpace(*c.URL) == "" {
		c.URL = nil
	}
}

// remarshal converts a loosely typed value (decoded JSON/YAML) into out.
func remarshal(in any, out any) error {
	b, err := json.Marshal(in)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(b, out); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	return nil
}
