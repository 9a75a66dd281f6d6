package model

import (
	"context"
	"io"
)

// ClusterConnector is a domain port that opens a ClusterAPI session for a registered cluster.
type ClusterConnector interface {
	Connect(ctx context.Context, cluster *Cluster) (ClusterAPI, error)
}

// ClusterAPI is a domain port for every operation performed against one cluster control plane.
// All errors returned by implementations unwrap to ErrClusterAPI unless stated otherwise.
type ClusterAPI interface {
	// Ping lists namespaces to verify reachability and credentials.
	Ping(ctx context.Context) error
	ServerVersion(ctx context.Context) (string, error)

	// ApplyDocuments applies op to every document in order. Malformed documents yield ErrMalformedDocument.
	ApplyDocuments(ctx context.Context, docs []Document, op ApplyOp, opts ApplyOptions) error
	EnsureNamespace(ctx context.Context, name string) error
	DeleteNamespace(ctx context.Context, name string) error

	CheckAPIAvailable(ctx context.Context, group string) (bool, error)
	ListAPIResources(ctx context.Context, group string) ([]string, error)
	DetectGateway(ctx context.Context) (*GatewayFeatures, error)
	FindGatewayReference(ctx context.Context) (GatewayReference, error)

	ListPods(ctx context.Context, namespace, selector string) ([]PodInfo, error)
	DeletePod(ctx context.Context, namespace, name string) error
	GetPodLogs(ctx context.Context, namespace, name string, opts LogOptions) (string, error)
	StreamPodLogs(ctx context.Context, namespace, name string, opts LogOptions, w io.Writer) error
	ExecInPod(ctx context.Context, namespace, name, container string, command []string) (*ExecResult, error)
	ListJobs(ctx context.Context, namespace, selector string) ([]JobInfo, error)
	DeleteJob(ctx context.Context, namespace, name string) error
	ListEvents(ctx context.Context, namespace, selector string) ([]EventInfo, error)

	Capacity(ctx context.Context) (*ClusterCapacity, error)
	GetAvailableCPU(ctx context.Context) (float64, error)
	GetAvailableMemory(ctx context.Context) (int64, error)
}
