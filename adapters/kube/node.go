package kube

import (
	"context"
	"time"

	"github.com/kompox/shipyard/domain/model"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// Capacity sums the allocatable CPU and memory of every node.
func (c *Client) Capacity(ctx context.Context) (out *model.ClusterCapacity, err error) {
	if err := c.ready(); err != nil {
		return nil, err
	}
	start := time.Now()
	defer func() { c.observe("Node", "list", start, err) }()

	nodes, err := c.Clientset.CoreV1().Nodes().List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, c.apiError("list nodes", err)
	}
	out = &model.ClusterCapacity{Nodes: len(nodes.Items)}
	for _, n := range nodes.Items {
		if q, ok := n.Status.Allocatable[corev1.ResourceCPU]; ok {
			out.CPU += model.QuantityCores(q)
		}
		if q, ok := n.Status.Allocatable[corev1.ResourceMemory]; ok {
			out.MemoryMB += model.QuantityMB(q)
		}
	}
	return out, nil
}

// GetAvailableCPU returns the allocatable CPU cores of the cluster.
func (c *Client) GetAvailableCPU(ctx context.Context) (float64, error) {
	capacity, err := c.Capacity(ctx)
	if err != nil {
		return 0, err
	}
	return capacity.CPU, nil
}

// GetAvailableMemory returns the allocatable memory of the cluster in MB.
func (c *Client) GetAvailableMemory(ctx context.Context) (int64, error) {
	capacity, err := c.Capacity(ctx)
	if err != nil {
		return 0, err
	}
	return capacity.MemoryMB, nil
}
