// Package clustertest provides an in-process ClusterConnector that records what use
// cases ask of their clusters.
package clustertest

import (
	"context"
	"fmt"
	"sync"

	"github.com/kompox/shipyard/domain/model"
)

// Call is one ApplyDocuments invocation.
type Call struct {
	Cluster string
	Op      model.ApplyOp
	Kinds   []string
	Names   []string
}

// Recorder is a model.ClusterConnector whose sessions accept every document and record it.
// Methods not overridden here panic through the embedded nil interface.
type Recorder struct {
	mu sync.Mutex
	// NamespaceErr, when set, is returned by DeleteNamespace.
	NamespaceErr error
	// Unreachable lists cluster names Connect refuses.
	Unreachable map[string]bool

	calls      []Call
	namespaces []string
}

// NewRecorder returns an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{Unreachable: map[string]bool{}}
}

// Connect opens a recording session for cluster.
func (r *Recorder) Connect(_ context.Context, cluster *model.Cluster) (model.ClusterAPI, error) {
	if r.Unreachable[cluster.Name] {
		return nil, fmt.Errorf("dial %s: connection refused", cluster.APIAddress)
	}
	return &session{r: r, name: cluster.Name}, nil
}

// Calls returns the recorded ApplyDocuments calls.
func (r *Recorder) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Call(nil), r.calls...)
}

// DeletedNamespaces returns "<cluster>/<namespace>" for every DeleteNamespace call.
func (r *Recorder) DeletedNamespaces() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.namespaces...)
}

type session struct {
	model.ClusterAPI
	r    *Recorder
	name string
}

func (s *session) Ping(context.Context) error { return nil }

func (s *session) ApplyDocuments(_ context.Context, docs []model.Document, op model.ApplyOp, _ model.ApplyOptions) error {
	call := Call{Cluster: s.name, Op: op}
	for _, d := range docs {
		if err := d.Validate(); err != nil {
			return err
		}
		call.Kinds = append(call.Kinds, d.Kind())
		call.Names = append(call.Names, d.Name())
	}
	s.r.mu.Lock()
	s.r.calls = append(s.r.calls, call)
	s.r.mu.Unlock()
	return nil
}

func (s *session) DeleteNamespace(_ context.Context, name string) error {
	s.r.mu.Lock()
	defer s.r.mu.Unlock()
	if s.r.NamespaceErr != nil {
		return &model.ClusterAPIError{Cluster: s.name, Op: "delete namespace", Err: s.r.NamespaceErr}
	}
	s.r.namespaces = append(s.r.namespaces, s.name+"/"+name)
	return nil
}

func (s *session) DetectGateway(context.Context) (*model.GatewayFeatures, error) {
	return &model.GatewayFeatures{Enabled: true, Resources: []string{model.RouteKindHTTP, model.RouteKindTCP, model.RouteKindUDP}}, nil
}

func (s *session) FindGatewayReference(context.Context) (model.GatewayReference, error) {
	return model.GatewayReference{}, nil
}
