package model

// PodInfo is a summary of one pod of a component.
type PodInfo struct {
	Name           string  `json:"name"`
	Status         string  `json:"status"`
	Restarts       int32   `json:"restarts"`
	CPURequests    float64 `json:"cpu_requests"`
	CPULimits      float64 `json:"cpu_limits"`
	MemoryRequests int64   `json:"memory_requests"`
	MemoryLimits   int64   `json:"memory_limits"`
	AgeSeconds     int64   `json:"age_seconds"`
	HostIP         string  `json:"host_ip,omitempty"`
}

// JobInfo is a summary of one job spawned by a cron component.
type JobInfo struct {
	Name            string `json:"name"`
	Status          string `json:"status"`
	Active          int32  `json:"active"`
	Succeeded       int32  `json:"succeeded"`
	Failed          int32  `json:"failed"`
	AgeSeconds      int64  `json:"age_seconds"`
	DurationSeconds *int64 `json:"duration_seconds,omitempty"`
}

// EventInfo is one cluster event concerning a component.
type EventInfo struct {
	Type       string `json:"type"`
	Reason     string `json:"reason"`
	Message    string `json:"message"`
	Object     string `json:"object"`
	Count      int32  `json:"count"`
	AgeSeconds int64  `json:"age_seconds"`
}

// ExecResult is the outcome of a command run inside a pod.
type ExecResult struct {
	Stdout     string `json:"stdout"`
	Stderr     string `json:"stderr"`
	ReturnCode int    `json:"return_code"`
}

// LogOptions selects pod log output.
type LogOptions struct {
	Container string `json:"container,omitempty"`
	TailLines *int64 `json:"tail_lines,omitempty"`
	Previous  bool   `json:"previous,omitempty"`
	Follow    bool   `json:"follow,omitempty"`
}

// ClusterCapacity is the sum of node allocatable resources.
type ClusterCapacity struct {
	CPU      float64 `json:"cpu"`
	MemoryMB int64   `json:"memory_mb"`
	Nodes    int     `json:"nodes"`
}
