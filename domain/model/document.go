package model

import "fmt"

// Document is one manifest: a plain structured map with kind, apiVersion and metadata.
type Document map[string]any

// Kind returns the document kind or "".
func (d Document) Kind() string {
	s, _ := d["kind"].(string)
	return s
}

// APIVersion returns the document apiVersion or "".
func (d Document) APIVersion() string {
	s, _ := d["apiVersion"].(string)
	return s
}

func (d Document) metadata() map[string]any {
	m, _ := d["metadata"].(map[string]any)
	return m
}

// Name returns metadata.name or "".
func (d Document) Name() string {
	s, _ := d.metadata()["name"].(string)
	return s
}

// Namespace returns metadata.namespace or "".
func (d Document) Namespace() string {
	s, _ := d.metadata()["namespace"].(string)
	return s
}

// Validate reports ErrMalformedDocument when identification fields are missing.
func (d Document) Validate() error {
	var missing string
	switch {
	case d.Kind() == "":
		missing = "kind"
	case d.APIVersion() == "":
		missing = "apiVersion"
	case d.Name() == "":
		missing = "metadata.name"
	case d.Namespace() == "":
		missing = "metadata.namespace"
	default:
		return nil
	}
	return fmt.Errorf("%w: missing %s", ErrMalformedDocument, missing)
}

// String identifies the document in logs.
func (d Document) String() string {
	return fmt.Sprintf("%s %s/%s", d.Kind(), d.Namespace(), d.Name())
}

// ApplyOp is the write operation applied to a document set.
type ApplyOp string

const (
	ApplyCreate ApplyOp = "create"
	ApplyUpdate ApplyOp = "update"
	ApplyUpsert ApplyOp = "upsert"
	ApplyDelete ApplyOp = "delete"
)

// ApplyOptions tunes ApplyDocuments.
type ApplyOptions struct {
	// ExpectedRouteKinds are route kinds to keep during orphan cleanup in addition to those present in the documents.
	ExpectedRouteKinds []string
}

// FailurePolicy decides whether a cluster failure aborts the surrounding operation.
type FailurePolicy int

const (
	// Strict surfaces the failure and rolls back persistence.
	Strict FailurePolicy = iota
	// BestEffort logs the failure and lets the operation succeed.
	BestEffort
)

func (p FailurePolicy) String() string {
	if p == BestEffort {
		return "best-effort"
	}
	return "strict"
}
