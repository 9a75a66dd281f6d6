package component

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/kompox/shipyard/domain/model"
	"github.com/kompox/shipyard/internal/logging"
	"github.com/kompox/shipyard/internal/naming"
	"github.com/kompox/shipyard/internal/validate"
)

// session resolves a placed component and connects to its cluster.
func (u *UseCase) session(ctx context.Context, componentID string) (*target, model.ClusterAPI, error) {
	t, err := loadTarget(ctx, u.Repos, componentID)
	if err != nil {
		return nil, nil, err
	}
	if t.Cluster == nil {
		return nil, nil, fmt.Errorf("component %s is not deployed: %w", t.Component.Name, model.ErrClusterInstanceNotFound)
	}
	api, err := u.connect(ctx, t.Cluster)
	if err != nil {
		return nil, nil, err
	}
	return t, api, nil
}

// PodsInput identifies the component whose pods are listed.
type PodsInput struct {
	ComponentID string `json:"component_id" validate:"required"`
}

// PodsOutput lists the pods of a component.
type PodsOutput struct {
	Pods []model.PodInfo `json:"pods"`
}

// Pods lists the pods labelled with the component name.
func (u *UseCase) Pods(ctx context.Context, in *PodsInput) (*PodsOutput, error) {
	if err := validate.Struct(in); err != nil {
		return nil, err
	}
	t, api, err := u.session(ctx, in.ComponentID)
	if err != nil {
		return nil, err
	}
	pods, err := api.ListPods(ctx, t.namespace(), naming.ComponentSelector(t.Component.Name))
	if err != nil {
		return nil, err
	}
	return &PodsOutput{Pods: pods}, nil
}

// PodLogsInput selects the pod and log window.
type PodLogsInput struct {
	ComponentID string `json:"component_id" validate:"required"`
	Pod         string `json:"pod" validate:"required"`
	Container   string `json:"container,omitempty"`
	TailLines   *int64 `json:"tail_lines,omitempty" validate:"omitempty,min=1"`
	Previous    bool   `json:"previous,omitempty"`
	// Follow streams until the context is done. Only honoured by StreamPodLogs.
	Follow bool `json:"follow,omitempty"`
}

// PodLogsOutput contains the logs of a pod.
type PodLogsOutput struct {
	Logs string `json:"logs"`
}

func (in *PodLogsInput) options() model.LogOptions {
	return model.LogOptions{Container: in.Container, TailLines: in.TailLines, Previous: in.Previous, Follow: in.Follow}
}

// PodLogs returns the logs of one pod of the component.
func (u *UseCase) PodLogs(ctx context.Context, in *PodLogsInput) (*PodLogsOutput, error) {
	if err := validate.Struct(in); err != nil {
		return nil, err
	}
	t, api, err := u.session(ctx, in.ComponentID)
	if err != nil {
		return nil, err
	}
	opts := in.options()
	opts.Follow = false
	logs, err := api.GetPodLogs(ctx, t.namespace(), in.Pod, opts)
	if err != nil {
		return nil, err
	}
	return &PodLogsOutput{Logs: logs}, nil
}

// StreamPodLogs copies the logs of one pod of the component to w.
func (u *UseCase) StreamPodLogs(ctx context.Context, in *PodLogsInput, w io.Writer) error {
	if err := validate.Struct(in); err != nil {
		return err
	}
	t, api, err := u.session(ctx, in.ComponentID)
	if err != nil {
		return err
	}
	return api.StreamPodLogs(ctx, t.namespace(), in.Pod, in.options(), w)
}

// DeletePodInput identifies the pod to delete.
type DeletePodInput struct {
	ComponentID string `json:"component_id" validate:"required"`
	Pod         string `json:"pod" validate:"required"`
}

// DeletePod deletes one pod of the component so its controller recreates it.
func (u *UseCase) DeletePod(ctx context.Context, in *DeletePodInput) error {
	if err := validate.Struct(in); err != nil {
		return err
	}
	t, api, err := u.session(ctx, in.ComponentID)
	if err != nil {
		return err
	}
	return api.DeletePod(ctx, t.namespace(), in.Pod)
}

// ExecInput describes a command to run in a pod of the component.
type ExecInput struct {
	ComponentID string `json:"component_id" validate:"required"`
	// Pod defaults to the first running pod of the component.
	Pod       string   `json:"pod,omitempty"`
	Container string   `json:"container,omitempty"`
	Command   []string `json:"command" validate:"required,min=1"`
}

// ExecOutput carries the captured output of the command.
type ExecOutput struct {
	Pod    string            `json:"pod"`
	Result *model.ExecResult `json:"result"`
}

// Exec runs a command in a pod of the component and captures its output.
func (u *UseCase) Exec(ctx context.Context, in *ExecInput) (*ExecOutput, error) {
	if err := validate.Struct(in); err != nil {
		return nil, err
	}
	t, api, err := u.session(ctx, in.ComponentID)
	if err != nil {
		return nil, err
	}
	pod := in.Pod
	if pod == "" {
		pods, err := api.ListPods(ctx, t.namespace(), naming.ComponentSelector(t.Component.Name))
		if err != nil {
			return nil, err
		}
		for _, p := range pods {
			if p.Status == "Running" {
				pod = p.Name
				break
			}
		}
		if pod == "" {
			return nil, fmt.Errorf("no running pod for component %s: %w", t.Component.Name, model.ErrNotFound)
		}
	}
	res, err := api.ExecInPod(ctx, t.namespace(), pod, in.Container, in.Command)
	if err != nil {
		return nil, err
	}
	return &ExecOutput{Pod: pod, Result: res}, nil
}

// JobsInput identifies the cron component whose jobs are listed.
type JobsInput struct {
	ComponentID string `json:"component_id" validate:"required"`
}

// JobsOutput lists the jobs spawned by a cron component, newest first.
type JobsOutput struct {
	Jobs []model.JobInfo `json:"jobs"`
}

func (u *UseCase) cronSession(ctx context.Context, componentID string) (*target, model.ClusterAPI, error) {
	t, api, err := u.session(ctx, componentID)
	if err != nil {
		return nil, nil, err
	}
	if t.Component.Type != model.ComponentTypeCron {
		return nil, nil, model.NewValidationError("component_id", "component %s is a %s, jobs exist for cron components only", t.Component.Name, t.Component.Type)
	}
	return t, api, nil
}

// ownsJob reports whether a job name was generated by the CronJob of component.
func ownsJob(component, job string) bool {
	return strings.HasPrefix(job, component+"-")
}

// Jobs lists the jobs of a cron component. Jobs without the component label are matched
// by the name prefix their CronJob gives them.
func (u *UseCase) Jobs(ctx context.Context, in *JobsInput) (*JobsOutput, error) {
	if err := validate.Struct(in); err != nil {
		return nil, err
	}
	t, api, err := u.cronSession(ctx, in.ComponentID)
	if err != nil {
		return nil, err
	}
	jobs, err := api.ListJobs(ctx, t.namespace(), naming.JobSelector(t.Component.Name))
	if err != nil {
		return nil, err
	}
	if len(jobs) == 0 {
		all, err := api.ListJobs(ctx, t.namespace(), "")
		if err != nil {
			return nil, err
		}
		for _, j := range all {
			if ownsJob(t.Component.Name, j.Name) {
				jobs = append(jobs, j)
			}
		}
	}
	return &JobsOutput{Jobs: jobs}, nil
}

// JobLogsInput selects a job of a cron component.
type JobLogsInput struct {
	ComponentID string `json:"component_id" validate:"required"`
	Job         string `json:"job" validate:"required"`
	TailLines   *int64 `json:"tail_lines,omitempty" validate:"omitempty,min=1"`
}

// PodLogs pairs a pod name with its logs.
type PodLogs struct {
	Pod  string `json:"pod"`
	Logs string `json:"logs"`
}

// JobLogsOutput contains the logs of every pod of a job.
type JobLogsOutput struct {
	Pods []PodLogs `json:"pods"`
}

// JobLogs returns the logs of every pod created for a job.
func (u *UseCase) JobLogs(ctx context.Context, in *JobLogsInput) (*JobLogsOutput, error) {
	if err := validate.Struct(in); err != nil {
		return nil, err
	}
	t, api, err := u.cronSession(ctx, in.ComponentID)
	if err != nil {
		return nil, err
	}
	if !ownsJob(t.Component.Name, in.Job) {
		return nil, model.NewValidationError("job", "job %s does not belong to component %s", in.Job, t.Component.Name)
	}
	pods, err := api.ListPods(ctx, t.namespace(), naming.JobPodSelector(in.Job))
	if err != nil {
		return nil, err
	}
	out := &JobLogsOutput{Pods: []PodLogs{}}
	for _, p := range pods {
		logs, err := api.GetPodLogs(ctx, t.namespace(), p.Name, model.LogOptions{TailLines: in.TailLines})
		if err != nil {
			return nil, err
		}
		out.Pods = append(out.Pods, PodLogs{Pod: p.Name, Logs: logs})
	}
	return out, nil
}

// DeleteJobInput identifies a job of a cron component.
type DeleteJobInput struct {
	ComponentID string `json:"component_id" validate:"required"`
	Job         string `json:"job" validate:"required"`
}

// DeleteJob deletes a job of a cron component and its pods.
func (u *UseCase) DeleteJob(ctx context.Context, in *DeleteJobInput) error {
	if err := validate.Struct(in); err != nil {
		return err
	}
	t, api, err := u.cronSession(ctx, in.ComponentID)
	if err != nil {
		return err
	}
	if !ownsJob(t.Component.Name, in.Job) {
		return model.NewValidationError("job", "job %s does not belong to component %s", in.Job, t.Component.Name)
	}
	return api.DeleteJob(ctx, t.namespace(), in.Job)
}

// EventsInput identifies the component whose events are listed.
type EventsInput struct {
	ComponentID string `json:"component_id" validate:"required"`
}

// EventsOutput lists recent events concerning the component, newest first.
type EventsOutput struct {
	Events []model.EventInfo `json:"events"`
}

// Events lists the namespace events concerning the component's objects.
func (u *UseCase) Events(ctx context.Context, in *EventsInput) (*EventsOutput, error) {
	if err := validate.Struct(in); err != nil {
		return nil, err
	}
	t, api, err := u.session(ctx, in.ComponentID)
	if err != nil {
		return nil, err
	}
	events, err := api.ListEvents(ctx, t.namespace(), naming.ComponentSelector(t.Component.Name))
	if err != nil {
		return nil, err
	}
	return &EventsOutput{Events: events}, nil
}

// ManifestInput identifies the component whose manifests are rendered.
type ManifestInput struct {
	ComponentID string `json:"component_id" validate:"required"`
}

// ManifestOutput holds the rendered documents in apply order.
type ManifestOutput struct {
	Documents []model.Document `json:"documents"`
}

// Manifest renders the component without applying anything. The gateway reference is
// resolved only when the component is placed and its cluster is reachable.
func (u *UseCase) Manifest(ctx context.Context, in *ManifestInput) (*ManifestOutput, error) {
	if err := validate.Struct(in); err != nil {
		return nil, err
	}
	t, err := loadTarget(ctx, u.Repos, in.ComponentID)
	if err != nil {
		return nil, err
	}
	var api model.ClusterAPI
	if t.Cluster != nil {
		if api, err = u.connect(ctx, t.Cluster); err != nil {
			logging.FromContext(ctx).Warn(ctx, "Component:Manifest/connect", "cluster", t.Cluster.Name, "err", err)
			api = nil
		}
	}
	docs, err := renderTarget(ctx, u.Repos, api, t)
	if err != nil {
		return nil, err
	}
	return &ManifestOutput{Documents: docs}, nil
}
