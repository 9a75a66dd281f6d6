// Package metrics holds the Prometheus collectors of cluster operations and component lifecycle transitions.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds every shipyard collector. The CLI dumps it with prometheus.WriteToTextfile.
var Registry = prometheus.NewRegistry()

var (
	ClusterOperationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shipyard_cluster_operations_total",
			Help: "Total number of cluster API operations by cluster, kind, operation and result",
		},
		[]string{"cluster", "kind", "op", "result"},
	)

	ClusterOperationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "shipyard_cluster_operation_duration_seconds",
			Help:    "Cluster API operation latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"op"},
	)

	LifecycleTransitionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shipyard_component_transitions_total",
			Help: "Total number of component lifecycle transitions by transition and result",
		},
		[]string{"transition", "result"},
	)

	CompensationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shipyard_compensations_total",
			Help: "Total number of compensation steps run after a failed create, by step and result",
		},
		[]string{"step", "result"},
	)
)

func init() {
	Registry.MustRegister(ClusterOperationsTotal)
	Registry.MustRegister(ClusterOperationDuration)
	Registry.MustRegister(LifecycleTransitionsTotal)
	Registry.MustRegister(CompensationsTotal)
}

// Result maps an error to the "result" label value.
func Result(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

// ObserveClusterOperation records one cluster API call.
func ObserveClusterOperation(cluster, kind, op string, start time.Time, err error) {
	ClusterOperationsTotal.WithLabelValues(cluster, kind, op, Result(err)).Inc()
	ClusterOperationDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

// ObserveTransition records one component lifecycle transition.
func ObserveTransition(transition string, err error) {
	LifecycleTransitionsTotal.WithLabelValues(transition, Result(err)).Inc()
}

// ObserveCompensation records one compensation step.
func ObserveCompensation(step string, err error) {
	CompensationsTotal.WithLabelValues(step, Result(err)).Inc()
}
