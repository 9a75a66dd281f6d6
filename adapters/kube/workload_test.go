package kube

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kompox/shipyard/domain/model"
	batchv1 "k8s.io/api/batch/v1"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/api/resource"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
)

func TestListPodsSummarizesResources(t *testing.T) {
	pod := &corev1.Pod{
		ObjectMeta: metav1.ObjectMeta{Name: "web-abc", Namespace: "shop", Labels: map[string]string{"app": "web"}},
		Spec: corev1.PodSpec{Containers: []corev1.Container{
			{Name: "web", Resources: corev1.ResourceRequirements{
				Requests: corev1.ResourceList{
					corev1.ResourceCPU:    resource.MustParse("500m"),
					corev1.ResourceMemory: resource.MustParse("512Mi"),
				},
				Limits: corev1.ResourceList{corev1.ResourceCPU: resource.MustParse("1")},
			}},
			{Name: "sidecar", Resources: corev1.ResourceRequirements{
				Requests: corev1.ResourceList{corev1.ResourceCPU: resource.MustParse("250m")},
			}},
		}},
		Status: corev1.PodStatus{
			Phase:  corev1.PodRunning,
			HostIP: "10.1.0.4",
			ContainerStatuses: []corev1.ContainerStatus{
				{Name: "web", RestartCount: 2},
				{Name: "sidecar", RestartCount: 1},
			},
		},
	}
	other := &corev1.Pod{ObjectMeta: metav1.ObjectMeta{Name: "api-xyz", Namespace: "shop", Labels: map[string]string{"app": "api"}}}
	f := newFakes([]runtime.Object{pod, other})

	pods, err := f.client.ListPods(context.Background(), "shop", "app=web")
	if err != nil {
		t.Fatalf("ListPods: %v", err)
	}
	if len(pods) != 1 {
		t.Fatalf("len = %d, want 1", len(pods))
	}
	p := pods[0]
	if p.Name != "web-abc" || p.Status != "Running" || p.Restarts != 3 || p.HostIP != "10.1.0.4" {
		t.Errorf("unexpected pod info %+v", p)
	}
	if p.CPURequests != 0.75 || p.CPULimits != 1 || p.MemoryRequests != 512 || p.MemoryLimits != 0 {
		t.Errorf("unexpected resources %+v", p)
	}
}

func TestPodStatus(t *testing.T) {
	now := metav1.Now()
	tests := []struct {
		name string
		pod  corev1.Pod
		want string
	}{
		{"empty", corev1.Pod{}, "Pending"},
		{"running", corev1.Pod{Status: corev1.PodStatus{Phase: corev1.PodRunning}}, "Running"},
		{"terminating", corev1.Pod{ObjectMeta: metav1.ObjectMeta{DeletionTimestamp: &now}}, "Terminating"},
		{"crashloop", corev1.Pod{Status: corev1.PodStatus{
			Phase: corev1.PodRunning,
			ContainerStatuses: []corev1.ContainerStatus{{State: corev1.ContainerState{
				Waiting: &corev1.ContainerStateWaiting{Reason: "CrashLoopBackOff"},
			}}},
		}}, "CrashLoopBackOff"},
		{"creating", corev1.Pod{Status: corev1.PodStatus{
			Phase: corev1.PodPending,
			ContainerStatuses: []corev1.ContainerStatus{{State: corev1.ContainerState{
				Waiting: &corev1.ContainerStateWaiting{Reason: "ContainerCreating"},
			}}},
		}}, "Pending"},
		{"evicted", corev1.Pod{Status: corev1.PodStatus{Phase: corev1.PodFailed, Reason: "Evicted"}}, "Evicted"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := podStatus(&tt.pod); got != tt.want {
				t.Errorf("podStatus = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestJobInfo(t *testing.T) {
	start := metav1.NewTime(time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC))
	done := metav1.NewTime(start.Add(90 * time.Second))
	j := &batchv1.Job{
		ObjectMeta: metav1.ObjectMeta{Name: "backup-1", CreationTimestamp: start},
		Status: batchv1.JobStatus{
			StartTime:      &start,
			CompletionTime: &done,
			Succeeded:      1,
			Conditions:     []batchv1.JobCondition{{Type: batchv1.JobComplete, Status: corev1.ConditionTrue}},
		},
	}
	info := jobInfo(j, start.Add(time.Hour))
	if info.Status != "Succeeded" || info.Succeeded != 1 || info.AgeSeconds != 3600 {
		t.Errorf("unexpected job info %+v", info)
	}
	if info.DurationSeconds == nil || *info.DurationSeconds != 90 {
		t.Errorf("duration = %v, want 90", info.DurationSeconds)
	}

	for want, status := range map[string]batchv1.JobStatus{
		"Running": {Active: 1},
		"Failed":  {Failed: 2},
		"Pending": {},
		"Suspended": {Conditions: []batchv1.JobCondition{
			{Type: batchv1.JobSuspended, Status: corev1.ConditionTrue},
		}},
	} {
		if got := jobStatus(&batchv1.Job{Status: status}); got != want {
			t.Errorf("jobStatus = %q, want %q", got, want)
		}
	}
}

func TestDeleteMissingPodAndJob(t *testing.T) {
	f := newFakes(nil)
	ctx := context.Background()
	if err := f.client.DeletePod(ctx, "shop", "nope"); !errors.Is(err, model.ErrNotFound) {
		t.Errorf("DeletePod: expected ErrNotFound, got %v", err)
	}
	if err := f.client.DeleteJob(ctx, "shop", "nope"); !errors.Is(err, model.ErrNotFound) {
		t.Errorf("DeleteJob: expected ErrNotFound, got %v", err)
	}
}

func TestListEventsFiltersByComponent(t *testing.T) {
	base := time.Now().Add(-time.Minute)
	ev := func(name, object string, at time.Time) *corev1.Event {
		return &corev1.Event{
			ObjectMeta:     metav1.ObjectMeta{Name: name, Namespace: "shop"},
			InvolvedObject: corev1.ObjectReference{Kind: "Pod", Name: object},
			Type:           "Normal",
			Reason:         "Pulled",
			LastTimestamp:  metav1.NewTime(at),
		}
	}
	f := newFakes([]runtime.Object{
		ev("e1", "web-abc", base),
		ev("e2", "web-def", base.Add(30*time.Second)),
		ev("e3", "api-xyz", base),
	})
	events, err := f.client.ListEvents(context.Background(), "shop", "app=web")
	if err != nil {
		t.Fatalf("ListEvents: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("len = %d, want 2: %+v", len(events), events)
	}
	if events[0].Object != "pod/web-def" || events[1].Object != "pod/web-abc" {
		t.Errorf("unexpected order %+v", events)
	}
}

func TestCapacity(t *testing.T) {
	node := func(name, cpu, mem string) *corev1.Node {
		return &corev1.Node{
			ObjectMeta: metav1.ObjectMeta{Name: name},
			Status: corev1.NodeStatus{Allocatable: corev1.ResourceList{
				corev1.ResourceCPU:    resource.MustParse(cpu),
				corev1.ResourceMemory: resource.MustParse(mem),
			}},
		}
	}
	f := newFakes([]runtime.Object{node("n1", "2", "1Gi"), node("n2", "1500m", "1Gi")})
	ctx := context.Background()
	got, err := f.client.Capacity(ctx)
	if err != nil {
		t.Fatalf("Capacity: %v", err)
	}
	if got.Nodes != 2 || got.CPU != 3.5 || got.MemoryMB != 2048 {
		t.Errorf("unexpected capacity %+v", got)
	}
	cpu, err := f.client.GetAvailableCPU(ctx)
	if err != nil || cpu != 3.5 {
		t.Errorf("GetAvailableCPU = %v, %v", cpu, err)
	}
}
