package model

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by use cases unwraps to exactly one of these.
var (
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("not found")
	ErrClusterAPI = errors.New("cluster API error")
	ErrTemplate   = errors.New("template error")
	ErrPlacement  = errors.New("placement error")
)

var (
	ErrEnvironmentNotFound     = fmt.Errorf("environment %w", ErrNotFound)
	ErrClusterNotFound         = fmt.Errorf("cluster %w", ErrNotFound)
	ErrApplicationNotFound     = fmt.Errorf("application %w", ErrNotFound)
	ErrInstanceNotFound        = fmt.Errorf("instance %w", ErrNotFound)
	ErrComponentNotFound       = fmt.Errorf("component %w", ErrNotFound)
	ErrClusterInstanceNotFound = fmt.Errorf("cluster instance %w", ErrNotFound)
	ErrTemplateNotFound        = fmt.Errorf("template %w", ErrNotFound)
	ErrTemplateConfigNotFound  = fmt.Errorf("component template config %w", ErrNotFound)
	ErrSettingNotFound         = fmt.Errorf("setting %w", ErrNotFound)
)

var (
	// ErrNoTemplatesConfigured is returned when a component type has no enabled render plan.
	ErrNoTemplatesConfigured = errors.New("no templates configured")
	// ErrTemplateParse marks a rendered body that is not a single structured document.
	ErrTemplateParse = errors.New("rendered template is not a valid document")
	// ErrNoClustersAvailable is returned when an environment has no registered clusters.
	ErrNoClustersAvailable = errors.New("no clusters available")
	// ErrMalformedDocument marks a manifest missing kind, apiVersion, metadata.name or metadata.namespace.
	ErrMalformedDocument = errors.New("malformed document")
	// ErrAlreadyExists is returned by stores on unique constraint violations.
	ErrAlreadyExists = errors.New("already exists")
)

// ValidationError reports bad input or a violated invariant. Always surfaced, never retried.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation failed: " + e.Message
	}
	return fmt.Sprintf("validation failed: %s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError builds a ValidationError for field with a formatted message.
func NewValidationError(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// ClusterAPIError wraps any failure coming from a cluster control plane.
type ClusterAPIError struct {
	Cluster string
	Op      string
	Err     error
}

func (e *ClusterAPIError) Error() string {
	return fmt.Sprintf("cluster %q: %s: %v", e.Cluster, e.Op, e.Err)
}

func (e *ClusterAPIError) Unwrap() []error { return []error{ErrClusterAPI, e.Err} }

// ApplyError reports a write pass that stopped at a failing document. Applied counts the
// documents written before it, in order.
type ApplyError struct {
	Applied int
	Err     error
}

func (e *ApplyError) Error() string { return e.Err.Error() }

func (e *ApplyError) Unwrap() error { return e.Err }

// TemplateError reports a missing render plan or a substitution/parse failure.
type TemplateError struct {
	ComponentType ComponentType
	Template      string
	Err           error
}

func (e *TemplateError) Error() string {
	if e.Template == "" {
		return fmt.Sprintf("render %s: %v", e.ComponentType, e.Err)
	}
	return fmt.Sprintf("render %s: template %q: %v", e.ComponentType, e.Template, e.Err)
}

func (e *TemplateError) Unwrap() []error { return []error{ErrTemplate, e.Err} }

// PlacementError is returned when no cluster can host a component.
type PlacementError struct {
	Environment string
	Err         error
}

func (e *PlacementError) Error() string {
	return fmt.Sprintf("no clusters available in environment %q, create at least one cluster", e.Environment)
}

func (e *PlacementError) Unwrap() []error { return []error{ErrPlacement, e.Err} }

// IsClientError reports whether err should be surfaced to the caller as a client-side error.
func IsClientError(err error) bool {
	return errors.Is(err, ErrValidation) || errors.Is(err, ErrNotFound) || errors.Is(err, ErrPlacement)
}
