package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/google/shlex"
	"github.com/kompox/shipyard/domain/model"
	"github.com/kompox/shipyard/usecase/component"
	"github.com/spf13/cobra"
	"sigs.k8s.io/yaml"
)

// componentSpec is the YAML form accepted by component create and update.
type componentSpec struct {
	Instance string              `yaml:"instance"`
	Name     string              `yaml:"name"`
	Type     model.ComponentType `yaml:"type"`
	Settings map[string]any      `yaml:"settings"`
	URL      *string             `yaml:"url"`
	Enabled  *bool               `yaml:"enabled"`
}

func newCmdComponent() *cobra.Command {
	c := groupCmd("component", "Manage components and operate their workloads", "comp")
	c.AddCommand(newCmdComponentList())
	c.AddCommand(newCmdComponentGet())
	c.AddCommand(newCmdComponentCreate())
	c.AddCommand(newCmdComponentUpdate())
	c.AddCommand(newCmdComponentDelete())
	c.AddCommand(newCmdComponentManifest())
	c.AddCommand(newCmdComponentPods())
	c.AddCommand(newCmdComponentLogs())
	c.AddCommand(newCmdComponentDeletePod())
	c.AddCommand(newCmdComponentExec())
	c.AddCommand(newCmdComponentJobs())
	c.AddCommand(newCmdComponentJobLogs())
	c.AddCommand(newCmdComponentDeleteJob())
	c.AddCommand(newCmdComponentEvents())
	return c
}

func newCmdComponentList() *cobra.Command {
	var inst string
	c := &cobra.Command{
		Use:   "list --instance <id>",
		Short: "List components of an instance",
		RunE: func(cmd *cobra.Command, args []string) error {
			uc, err := buildComponentUseCase(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := commandContext(cmd)
			defer cancel()
			out, err := uc.List(ctx, &component.ListInput{InstanceID: inst})
			if err != nil {
				return err
			}
			return printLines(cmd, out.Components)
		},
	}
	c.Flags().StringVarP(&inst, "instance", "i", "", "Instance ID")
	_ = c.MarkFlagRequired("instance")
	return c
}

func newCmdComponentGet() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Get a component with the cluster it is placed on",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			uc, err := buildComponentUseCase(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := commandContext(cmd)
			defer cancel()
			out, err := uc.Get(ctx, &component.GetInput{ComponentID: args[0]})
			if err != nil {
				return err
			}
			return printJSON(cmd, out)
		},
	}
}

func newCmdComponentCreate() *cobra.Command {
	var file string
	c := &cobra.Command{
		Use:   "create -f <spec.yml>",
		Short: "Create a component, place it on a cluster and deploy it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			spec, err := readSpec[componentSpec](cmd, file)
			if err != nil {
				return err
			}
			uc, err := buildComponentUseCase(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := commandContext(cmd)
			defer cancel()
			ctx, cleanup := withCmdRunLogger(ctx, "component.create", spec.Name)
			defer func() { cleanup(err) }()
			out, err := uc.Create(ctx, &component.CreateInput{
				InstanceID: spec.Instance,
				Name:       spec.Name,
				Type:       spec.Type,
				Settings:   spec.Settings,
				URL:        spec.URL,
				Enabled:    spec.Enabled,
			})
			if err != nil {
				return err
			}
			return printJSON(cmd, out)
		},
	}
	c.Flags().StringVarP(&file, "file", "f", "", "Component spec file ('-' for stdin)")
	return c
}

func newCmdComponentUpdate() *cobra.Command {
	var file string
	c := &cobra.Command{
		Use:   "update <id> -f <spec.yml>",
		Short: "Change settings, URL or enabled state and roll the change out",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			spec, err := readSpec[componentSpec](cmd, file)
			if err != nil {
				return err
			}
			uc, err := buildComponentUseCase(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := commandContext(cmd)
			defer cancel()
			ctx, cleanup := withCmdRunLogger(ctx, "component.update", args[0])
			defer func() { cleanup(err) }()
			out, err := uc.Update(ctx, &component.UpdateInput{
				ComponentID: args[0],
				Settings:    spec.Settings,
				URL:         spec.URL,
				Enabled:     spec.Enabled,
			})
			if err != nil {
				return err
			}
			return printJSON(cmd, out)
		},
	}
	c.Flags().StringVarP(&file, "file", "f", "", "Component spec file ('-' for stdin)")
	return c
}

func newCmdComponentDelete() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Remove a component from its cluster and delete it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			uc, err := buildComponentUseCase(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := commandContext(cmd)
			defer cancel()
			ctx, cleanup := withCmdRunLogger(ctx, "component.delete", args[0])
			defer func() { cleanup(err) }()
			if _, err := uc.Delete(ctx, &component.DeleteInput{ComponentID: args[0]}); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
			return nil
		},
	}
}

func newCmdComponentManifest() *cobra.Command {
	return &cobra.Command{
		Use:   "manifest <id>",
		Short: "Print the rendered manifests of a component without applying them",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			uc, err := buildComponentUseCase(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := commandContext(cmd)
			defer cancel()
			out, err := uc.Manifest(ctx, &component.ManifestInput{ComponentID: args[0]})
			if err != nil {
				return err
			}
			return writeDocuments(cmd.OutOrStdout(), out.Documents)
		},
	}
}

// writeDocuments prints documents as a multi-document YAML stream.
func writeDocuments(w io.Writer, docs []model.Document) error {
	for i, d := range docs {
		b, err := yaml.Marshal(map[string]any(d))
		if err != nil {
			return fmt.Errorf("encode %s: %w", d, err)
		}
		if i > 0 {
			if _, err := io.WriteString(w, "---\n"); err != nil {
				return err
			}
		}
		if _, err := w.Write(b); err != nil {
			return err
		}
	}
	return nil
}

func newCmdComponentPods() *cobra.Command {
	return &cobra.Command{
		Use:   "pods <id>",
		Short: "List pods of a component",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			uc, err := buildComponentUseCase(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := commandContext(cmd)
			defer cancel()
			out, err := uc.Pods(ctx, &component.PodsInput{ComponentID: args[0]})
			if err != nil {
				return err
			}
			return printLines(cmd, out.Pods)
		},
	}
}

func newCmdComponentLogs() *cobra.Command {
	var (
		container string
		tail      int64
		previous  bool
		follow    bool
	)
	c := &cobra.Command{
		Use:   "logs <id> <pod>",
		Short: "Print logs of a component pod",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			uc, err := buildComponentUseCase(cmd)
			if err != nil {
				return err
			}
			in := &component.PodLogsInput{
				ComponentID: args[0],
				Pod:         args[1],
				Container:   container,
				Previous:    previous,
				Follow:      follow,
			}
			if tail > 0 {
				in.TailLines = &tail
			}
			if follow {
				// Streams until interrupted, so the command timeout does not apply.
				ctx, cancel := context.WithCancel(cmd.Context())
				defer cancel()
				return uc.StreamPodLogs(ctx, in, cmd.OutOrStdout())
			}
			ctx, cancel := commandContext(cmd)
			defer cancel()
			out, err := uc.PodLogs(ctx, in)
			if err != nil {
				return err
			}
			_, err = io.WriteString(cmd.OutOrStdout(), out.Logs)
			return err
		},
	}
	c.Flags().StringVarP(&container, "container", "c", "", "Container name")
	c.Flags().Int64Var(&tail, "tail", 0, "Number of trailing lines")
	c.Flags().BoolVarP(&previous, "previous", "p", false, "Logs of the previous container instance")
	c.Flags().BoolVarP(&follow, "follow", "f", false, "Stream logs until interrupted")
	return c
}

func newCmdComponentDeletePod() *cobra.Command {
	return &cobra.Command{
		Use:   "delete-pod <id> <pod>",
		Short: "Delete a component pod so that its controller recreates it",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			uc, err := buildComponentUseCase(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := commandContext(cmd)
			defer cancel()
			ctx, cleanup := withCmdRunLogger(ctx, "component.delete-pod", args[1])
			defer func() { cleanup(err) }()
			if err := uc.DeletePod(ctx, &component.DeletePodInput{ComponentID: args[0], Pod: args[1]}); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted pod %s\n", args[1])
			return nil
		},
	}
}

func newCmdComponentExec() *cobra.Command {
	var pod, container string
	c := &cobra.Command{
		Use:   "exec <id> -- <command> [args...]",
		Short: "Run a command in a running pod of a component",
		Long:  "Run a command in a running pod of a component. A single quoted argument is split like a shell would.",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			command := args[1:]
			if len(command) == 1 {
				words, err := shlex.Split(command[0])
				if err != nil {
					return fmt.Errorf("parse command: %w", err)
				}
				command = words
			}
			uc, err := buildComponentUseCase(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := commandContext(cmd)
			defer cancel()
			out, err := uc.Exec(ctx, &component.ExecInput{
				ComponentID: args[0],
				Pod:         pod,
				Container:   container,
				Command:     command,
			})
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), out.Result.Stdout)
			fmt.Fprint(cmd.ErrOrStderr(), out.Result.Stderr)
			if out.Result.ReturnCode != 0 {
				return ExitCodeError{Code: out.Result.ReturnCode}
			}
			return nil
		},
	}
	c.Flags().StringVar(&pod, "pod", "", "Pod name (default: the first running pod)")
	c.Flags().StringVarP(&container, "container", "c", "", "Container name")
	return c
}

func newCmdComponentJobs() *cobra.Command {
	return &cobra.Command{
		Use:   "jobs <id>",
		Short: "List jobs spawned by a cron component",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			uc, err := buildComponentUseCase(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := commandContext(cmd)
			defer cancel()
			out, err := uc.Jobs(ctx, &component.JobsInput{ComponentID: args[0]})
			if err != nil {
				return err
			}
			return printLines(cmd, out.Jobs)
		},
	}
}

func newCmdComponentJobLogs() *cobra.Command {
	var tail int64
	c := &cobra.Command{
		Use:   "job-logs <id> <job>",
		Short: "Print logs of every pod of a cron job",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			uc, err := buildComponentUseCase(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := commandContext(cmd)
			defer cancel()
			in := &component.JobLogsInput{ComponentID: args[0], Job: args[1]}
			if tail > 0 {
				in.TailLines = &tail
			}
			out, err := uc.JobLogs(ctx, in)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			for _, p := range out.Pods {
				fmt.Fprintf(w, "==> %s <==\n", p.Pod)
				io.WriteString(w, p.Logs)
				if !strings.HasSuffix(p.Logs, "\n") {
					io.WriteString(w, "\n")
				}
			}
			return nil
		},
	}
	c.Flags().Int64Var(&tail, "tail", 0, "Number of trailing lines per pod")
	return c
}

func newCmdComponentDeleteJob() *cobra.Command {
	return &cobra.Command{
		Use:   "delete-job <id> <job>",
		Short: "Delete a job of a cron component with its pods",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			uc, err := buildComponentUseCase(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := commandContext(cmd)
			defer cancel()
			ctx, cleanup := withCmdRunLogger(ctx, "component.delete-job", args[1])
			defer func() { cleanup(err) }()
			if err := uc.DeleteJob(ctx, &component.DeleteJobInput{ComponentID: args[0], Job: args[1]}); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted job %s\n", args[1])
			return nil
		},
	}
}

func newCmdComponentEvents() *cobra.Command {
	return &cobra.Command{
		Use:   "events <id>",
		Short: "List recent events of a component, newest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			uc, err := buildComponentUseCase(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := commandContext(cmd)
			defer cancel()
			out, err := uc.Events(ctx, &component.EventsInput{ComponentID: args[0]})
			if err != nil {
				return err
			}
			return printLines(cmd, out.Events)
		},
	}
}
