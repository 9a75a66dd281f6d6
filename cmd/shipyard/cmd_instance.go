package main

import (
	"fmt"

	"github.com/kompox/shipyard/usecase/instance"
	"github.com/spf13/cobra"
)

// instanceSpec is the YAML form accepted by instance create and update.
type instanceSpec struct {
	Application string  `yaml:"application"`
	Environment string  `yaml:"environment"`
	Image       *string `yaml:"image"`
	Version     *string `yaml:"version"`
	Enabled     *bool   `yaml:"enabled"`
}

func newCmdInstance() *cobra.Command {
	c := groupCmd("instance", "Manage application instances per environment", "inst")
	c.AddCommand(newCmdInstanceList())
	c.AddCommand(newCmdInstanceGet())
	c.AddCommand(newCmdInstanceCreate())
	c.AddCommand(newCmdInstanceUpdate())
	c.AddCommand(newCmdInstanceSync())
	c.AddCommand(newCmdInstanceDelete())
	return c
}

func newCmdInstanceList() *cobra.Command {
	var app, env string
	c := &cobra.Command{
		Use:   "list",
		Short: "List instances",
		RunE: func(cmd *cobra.Command, args []string) error {
			uc, err := buildInstanceUseCase(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := commandContext(cmd)
			defer cancel()
			in := &instance.ListInput{}
			if app != "" {
				if in.ApplicationID, err = resolveApplication(ctx, cmd, app); err != nil {
					return err
				}
			}
			if env != "" {
				if in.EnvironmentID, err = resolveEnvironment(ctx, cmd, env); err != nil {
					return err
				}
			}
			out, err := uc.List(ctx, in)
			if err != nil {
				return err
			}
			return printLines(cmd, out.Instances)
		},
	}
	c.Flags().StringVarP(&app, "app", "a", "", "Only instances of this application")
	c.Flags().StringVarP(&env, "env", "e", "", "Only instances in this environment")
	return c
}

func newCmdInstanceGet() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Get an instance with its components",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			uc, err := buildInstanceUseCase(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := commandContext(cmd)
			defer cancel()
			out, err := uc.Get(ctx, &instance.GetInput{InstanceID: args[0]})
			if err != nil {
				return err
			}
			return printJSON(cmd, out)
		},
	}
}

func newCmdInstanceCreate() *cobra.Command {
	var file string
	c := &cobra.Command{
		Use:   "create -f <spec.yml>",
		Short: "Bind an application to an environment",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			spec, err := readSpec[instanceSpec](cmd, file)
			if err != nil {
				return err
			}
			uc, err := buildInstanceUseCase(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := commandContext(cmd)
			defer cancel()
			ctx, cleanup := withCmdRunLogger(ctx, "instance.create", spec.Application+"/"+spec.Environment)
			defer func() { cleanup(err) }()
			in := &instance.CreateInput{Enabled: spec.Enabled}
			if in.ApplicationID, err = resolveApplication(ctx, cmd, spec.Application); err != nil {
				return err
			}
			if in.EnvironmentID, err = resolveEnvironment(ctx, cmd, spec.Environment); err != nil {
				return err
			}
			if spec.Image != nil {
				in.Image = *spec.Image
			}
			if spec.Version != nil {
				in.Version = *spec.Version
			}
			out, err := uc.Create(ctx, in)
			if err != nil {
				return err
			}
			return printJSON(cmd, out.Instance)
		},
	}
	c.Flags().StringVarP(&file, "file", "f", "", "Instance spec file ('-' for stdin)")
	return c
}

func newCmdInstanceUpdate() *cobra.Command {
	var (
		file string
		sync bool
	)
	c := &cobra.Command{
		Use:   "update <id> -f <spec.yml>",
		Short: "Change image, version or enabled state of an instance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			spec, err := readSpec[instanceSpec](cmd, file)
			if err != nil {
				return err
			}
			uc, err := buildInstanceUseCase(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := commandContext(cmd)
			defer cancel()
			ctx, cleanup := withCmdRunLogger(ctx, "instance.update", args[0])
			defer func() { cleanup(err) }()
			out, err := uc.Update(ctx, &instance.UpdateInput{
				InstanceID: args[0],
				Image:      spec.Image,
				Version:    spec.Version,
				Enabled:    spec.Enabled,
				Sync:       sync,
			})
			if err != nil {
				return err
			}
			return printJSON(cmd, out)
		},
	}
	c.Flags().StringVarP(&file, "file", "f", "", "Instance spec file ('-' for stdin)")
	c.Flags().BoolVar(&sync, "sync", false, "Re-apply every component after saving")
	return c
}

func newCmdInstanceSync() *cobra.Command {
	return &cobra.Command{
		Use:   "sync <id>",
		Short: "Re-render and re-apply every component of an instance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			uc, err := buildInstanceUseCase(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := commandContext(cmd)
			defer cancel()
			ctx, cleanup := withCmdRunLogger(ctx, "instance.sync", args[0])
			defer func() { cleanup(err) }()
			out, err := uc.Sync(ctx, &instance.SyncInput{InstanceID: args[0]})
			if err != nil {
				return err
			}
			if perr := printJSON(cmd, out); perr != nil {
				return perr
			}
			if len(out.Errors) > 0 {
				return fmt.Errorf("%d of %d components failed to sync", len(out.Errors), out.Total)
			}
			return nil
		},
	}
}

func newCmdInstanceDelete() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an instance with its components and namespaces",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			uc, err := buildInstanceUseCase(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := commandContext(cmd)
			defer cancel()
			ctx, cleanup := withCmdRunLogger(ctx, "instance.delete", args[0])
			defer func() { cleanup(err) }()
			if _, err := uc.Delete(ctx, &instance.DeleteInput{InstanceID: args[0]}); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
			return nil
		},
	}
}
