package kube

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/kompox/shipyard/domain/model"
	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// ListPods summarizes the pods matching selector in namespace.
func (c *Client) ListPods(ctx context.Context, namespace, selector string) (out []model.PodInfo, err error) {
	if err := c.ready(); err != nil {
		return nil, err
	}
	start := time.Now()
	defer func() { c.observe("Pod", "list", start, err) }()

	list, err := c.Clientset.CoreV1().Pods(namespace).List(ctx, metav1.ListOptions{LabelSelector: selector})
	if err != nil {
		return nil, c.apiError("list pods", err)
	}
	now := time.Now()
	out = make([]model.PodInfo, 0, len(list.Items))
	for i := range list.Items {
		out = append(out, podInfo(&list.Items[i], now))
	}
	return out, nil
}

func podInfo(p *corev1.Pod, now time.Time) model.PodInfo {
	info := model.PodInfo{
		Name:       p.Name,
		Status:     podStatus(p),
		HostIP:     p.Status.HostIP,
		AgeSeconds: ageSeconds(p.CreationTimestamp, now),
	}
	for _, cs := range p.Status.ContainerStatuses {
		info.Restarts += cs.RestartCount
	}
	for _, ct := range p.Spec.Containers {
		if q, ok := ct.Resources.Requests[corev1.ResourceCPU]; ok {
			info.CPURequests += model.QuantityCores(q)
		}
		if q, ok := ct.Resources.Limits[corev1.ResourceCPU]; ok {
			info.CPULimits += model.QuantityCores(q)
		}
		if q, ok := ct.Resources.Requests[corev1.ResourceMemory]; ok {
			info.MemoryRequests += model.QuantityMB(q)
		}
		if q, ok := ct.Resources.Limits[corev1.ResourceMemory]; ok {
			info.MemoryLimits += model.QuantityMB(q)
		}
	}
	return info
}

// podStatus mirrors the STATUS column of kubectl get pods: a container waiting or
// terminated reason wins over the pod phase.
func podStatus(p *corev1.Pod) string {
	if p.DeletionTimestamp != nil {
		return "Terminating"
	}
	for _, cs := range p.Status.ContainerStatuses {
		if w := cs.State.Waiting; w != nil && w.Reason != "" && w.Reason != "ContainerCreating" {
			return w.Reason
		}
		if t := cs.State.Terminated; t != nil && t.Reason != "" && p.Status.Phase != corev1.PodSucceeded {
			return t.Reason
		}
	}
	if p.Status.Reason != "" {
		return p.Status.Reason
	}
	if p.Status.Phase == "" {
		return string(corev1.PodPending)
	}
	return string(p.Status.Phase)
}

func ageSeconds(t metav1.Time, now time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return int64(now.Sub(t.Time).Seconds())
}

// DeletePod deletes a pod; its controller recreates it.
func (c *Client) DeletePod(ctx context.Context, namespace, name string) (err error) {
	if err := c.ready(); err != nil {
		return err
	}
	start := time.Now()
	defer func() { c.observe("Pod", "delete", start, err) }()
	if err := c.Clientset.CoreV1().Pods(namespace).Delete(ctx, name, metav1.DeleteOptions{}); err != nil {
		if apierrors.IsNotFound(err) {
			return fmt.Errorf("pod %s/%s %w", namespace, name, model.ErrNotFound)
		}
		return c.apiError("delete pod "+name, err)
	}
	return nil
}

func podLogOptions(opts model.LogOptions) *corev1.PodLogOptions {
	po := &corev1.PodLogOptions{Container: opts.Container, Follow: opts.Follow, Previous: opts.Previous}
	if opts.TailLines != nil && *opts.TailLines > 0 {
		po.TailLines = opts.TailLines
	}
	return po
}

// GetPodLogs returns the logs of a pod container as one string. Follow is ignored.
func (c *Client) GetPodLogs(ctx context.Context, namespace, name string, opts model.LogOptions) (string, error) {
	opts.Follow = false
	var sb strings.Builder
	if err := c.StreamPodLogs(ctx, namespace, name, opts, &sb); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// StreamPodLogs copies pod logs to w until EOF or until ctx is done.
func (c *Client) StreamPodLogs(ctx context.Context, namespace, name string, opts model.LogOptions, w io.Writer) (err error) {
	if err := c.ready(); err != nil {
		return err
	}
	if namespace == "" || name == "" {
		return fmt.Errorf("namespace and pod name are required")
	}
	start := time.Now()
	defer func() { c.observe("Pod", "logs", start, err) }()

	stream, err := c.Clientset.CoreV1().Pods(namespace).GetLogs(name, podLogOptions(opts)).Stream(ctx)
	if err != nil {
		if apierrors.IsNotFound(err) {
			return fmt.Errorf("pod %s/%s %w", namespace, name, model.ErrNotFound)
		}
		return c.apiError("get logs stream", err)
	}
	defer stream.Close()
	if opts.Follow {
		reader := bufio.NewReader(stream)
		for {
			select {
			case <-ctx.Done():
				return nil
			default:
			}
			line, e := reader.ReadBytes('\n')
			if len(line) > 0 {
				if _, werr := w.Write(line); werr != nil {
					return werr
				}
			}
			if e != nil {
				if errors.Is(e, io.EOF) || ctx.Err() != nil {
					return nil
				}
				return c.apiError("read logs", e)
			}
		}
	}
	if _, err := io.Copy(w, stream); err != nil {
		return c.apiError("copy logs", err)
	}
	return nil
}
