package kube

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kompox/shipyard/domain/model"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/client-go/kubernetes/scheme"
	"k8s.io/client-go/tools/remotecommand"
	utilexec "k8s.io/client-go/util/exec"
)

// ExecInPod runs command in a pod container without stdin or TTY and collects its output.
// A non-zero exit status is reported in ExecResult.ReturnCode, not as an error.
func (c *Client) ExecInPod(ctx context.Context, namespace, name, container string, command []string) (res *model.ExecResult, err error) {
	if err := c.ready(); err != nil {
		return nil, err
	}
	if c.RESTConfig == nil {
		return nil, fmt.Errorf("exec requires a REST config")
	}
	if len(command) == 0 {
		return nil, model.NewValidationError("command", "must not be empty")
	}
	start := time.Now()
	defer func() { c.observe("Pod", "exec", start, err) }()

	req := c.Clientset.CoreV1().RESTClient().Post().Resource("pods").Namespace(namespace).Name(name).SubResource("exec")
	req.VersionedParams(&corev1.PodExecOptions{
		Container: container,
		Command:   command,
		Stdout:    true,
		Stderr:    true,
	}, scheme.ParameterCodec)

	ex, err := remotecommand.NewSPDYExecutor(c.RESTConfig, "POST", req.URL())
	if err != nil {
		return nil, c.apiError("exec create", err)
	}
	var stdout, stderr bytes.Buffer
	err = ex.StreamWithContext(ctx, remotecommand.StreamOptions{Stdout: &stdout, Stderr: &stderr})
	res = &model.ExecResult{Stdout: stdout.String(), Stderr: stderr.String()}
	if err != nil {
		var exitErr utilexec.ExitError
		if errors.As(err, &exitErr) && exitErr.Exited() {
			res.ReturnCode = exitErr.ExitStatus()
			return res, nil
		}
		return nil, c.apiError("exec stream", err)
	}
	return res, nil
}
