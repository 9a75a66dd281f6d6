package model

import "time"

// Cluster is a registered Kubernetes cluster belonging to exactly one Environment.
// Name and APIAddress are unique.
type Cluster struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	APIAddress    string `json:"api_address"`
	Token         string `json:"-"`
	EnvironmentID string `json:"environment_id"`
	// InsecureSkipTLSVerify disables server certificate verification for this cluster.
	InsecureSkipTLSVerify bool      `json:"insecure_skip_tls_verify"`
	CreatedAt             time.Time `json:"created_at"`
	UpdatedAt             time.Time `json:"updated_at"`
}

// ClusterLoad pairs a cluster with the number of components placed on it.
type ClusterLoad struct {
	Cluster    *Cluster `json:"cluster"`
	Components int      `json:"components"`
}

// ClusterInstance records that a component is placed on a cluster.
// Its existence means the component should be deployed there.
type ClusterInstance struct {
	ID          string    `json:"id"`
	ClusterID   string    `json:"cluster_id"`
	ComponentID string    `json:"component_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
