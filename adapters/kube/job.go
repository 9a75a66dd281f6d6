package kube

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/kompox/shipyard/domain/model"
	batchv1 "k8s.io/api/batch/v1"
	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// ListJobs summarizes the jobs matching selector, newest first.
func (c *Client) ListJobs(ctx context.Context, namespace, selector string) (out []model.JobInfo, err error) {
	if err := c.ready(); err != nil {
		return nil, err
	}
	start := time.Now()
	defer func() { c.observe("Job", "list", start, err) }()

	list, err := c.Clientset.BatchV1().Jobs(namespace).List(ctx, metav1.ListOptions{LabelSelector: selector})
	if err != nil {
		return nil, c.apiError("list jobs", err)
	}
	now := time.Now()
	out = make([]model.JobInfo, 0, len(list.Items))
	for i := range list.Items {
		out = append(out, jobInfo(&list.Items[i], now))
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].AgeSeconds < out[j].AgeSeconds })
	return out, nil
}

func jobInfo(j *batchv1.Job, now time.Time) model.JobInfo {
	info := model.JobInfo{
		Name:       j.Name,
		Status:     jobStatus(j),
		Active:     j.Status.Active,
		Succeeded:  j.Status.Succeeded,
		Failed:     j.Status.Failed,
		AgeSeconds: ageSeconds(j.CreationTimestamp, now),
	}
	if j.Status.StartTime != nil {
		end := now
		if j.Status.CompletionTime != nil {
			end = j.Status.CompletionTime.Time
		}
		d := int64(end.Sub(j.Status.StartTime.Time).Seconds())
		info.DurationSeconds = &d
	}
	return info
}

func jobStatus(j *batchv1.Job) string {
	for _, cond := range j.Status.Conditions {
		if cond.Status != corev1.ConditionTrue {
			continue
		}
		switch cond.Type {
		case batchv1.JobComplete:
			return "Succeeded"
		case batchv1.JobFailed:
			return "Failed"
		case batchv1.JobSuspended:
			return "Suspended"
		}
	}
	switch {
	case j.Status.Active > 0:
		return "Running"
	case j.Status.Succeeded > 0:
		return "Succeeded"
	case j.Status.Failed > 0:
		return "Failed"
	default:
		return "Pending"
	}
}

// DeleteJob deletes a job together with its pods.
func (c *Client) DeleteJob(ctx context.Context, namespace, name string) (err error) {
	if err := c.ready(); err != nil {
		return err
	}
	start := time.Now()
	defer func() { c.observe("Job", "delete", start, err) }()
	propagation := metav1.DeletePropagationBackground
	err = c.Clientset.BatchV1().Jobs(namespace).Delete(ctx, name, metav1.DeleteOptions{PropagationPolicy: &propagation})
	if err != nil {
		if apierrors.IsNotFound(err) {
			return fmt.Errorf("job %s/%s %w", namespace, name, model.ErrNotFound)
		}
		return c.apiError("delete job "+name, err)
	}
	return nil
}
