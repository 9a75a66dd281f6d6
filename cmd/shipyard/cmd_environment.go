package main

import (
	"fmt"

	"github.com/kompox/shipyard/usecase/environment"
	"github.com/kompox/shipyard/usecase/placement"
	"github.com/spf13/cobra"
)

func newCmdEnvironment() *cobra.Command {
	c := groupCmd("environment", "Manage environments", "env")
	c.AddCommand(newCmdEnvironmentList())
	c.AddCommand(newCmdEnvironmentGet())
	c.AddCommand(newCmdEnvironmentCreate())
	c.AddCommand(newCmdEnvironmentRename())
	c.AddCommand(newCmdEnvironmentDelete())
	c.AddCommand(newCmdEnvironmentLoads())
	return c
}

func newCmdEnvironmentList() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List environments",
		RunE: func(cmd *cobra.Command, args []string) error {
			uc, err := buildEnvironmentUseCase(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := commandContext(cmd)
			defer cancel()
			out, err := uc.List(ctx, &environment.ListInput{})
			if err != nil {
				return err
			}
			return printLines(cmd, out.Environments)
		},
	}
}

func newCmdEnvironmentGet() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id|name>",
		Short: "Get an environment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			uc, err := buildEnvironmentUseCase(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := commandContext(cmd)
			defer cancel()
			out, err := uc.Get(ctx, &environment.GetInput{EnvironmentID: args[0]})
			if err != nil {
				return err
			}
			return printJSON(cmd, out.Environment)
		},
	}
}

func newCmdEnvironmentCreate() *cobra.Command {
	return &cobra.Command{
		Use:   "create <name>",
		Short: "Create an environment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			uc, err := buildEnvironmentUseCase(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := commandContext(cmd)
			defer cancel()
			ctx, cleanup := withCmdRunLogger(ctx, "environment.create", args[0])
			defer func() { cleanup(err) }()
			out, err := uc.Create(ctx, &environment.CreateInput{Name: args[0]})
			if err != nil {
				return err
			}
			return printJSON(cmd, out.Environment)
		},
	}
}

func newCmdEnvironmentRename() *cobra.Command {
	return &cobra.Command{
		Use:   "rename <id|name> <new-name>",
		Short: "Rename an environment",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			uc, err := buildEnvironmentUseCase(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := commandContext(cmd)
			defer cancel()
			env, err := uc.Get(ctx, &environment.GetInput{EnvironmentID: args[0]})
			if err != nil {
				return err
			}
			out, err := uc.Update(ctx, &environment.UpdateInput{EnvironmentID: env.Environment.ID, Name: &args[1]})
			if err != nil {
				return err
			}
			return printJSON(cmd, out.Environment)
		},
	}
}

func newCmdEnvironmentDelete() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id|name>",
		Short: "Delete an environment without clusters or instances",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			uc, err := buildEnvironmentUseCase(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := commandContext(cmd)
			defer cancel()
			ctx, cleanup := withCmdRunLogger(ctx, "environment.delete", args[0])
			defer func() { cleanup(err) }()
			env, err := uc.Get(ctx, &environment.GetInput{EnvironmentID: args[0]})
			if err != nil {
				return err
			}
			if _, err := uc.Delete(ctx, &environment.DeleteInput{EnvironmentID: env.Environment.ID}); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
			return nil
		},
	}
}

func newCmdEnvironmentLoads() *cobra.Command {
	return &cobra.Command{
		Use:   "loads <id|name>",
		Short: "Show the number of components placed on each cluster of an environment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			euc, err := buildEnvironmentUseCase(cmd)
			if err != nil {
				return err
			}
			puc, err := buildPlacementUseCase(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := commandContext(cmd)
			defer cancel()
			env, err := euc.Get(ctx, &environment.GetInput{EnvironmentID: args[0]})
			if err != nil {
				return err
			}
			out, err := puc.Loads(ctx, &placement.LoadsInput{EnvironmentID: env.Environment.ID})
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "%-30s %s\n", "CLUSTER", "COMPONENTS")
			for _, l := range out.Loads {
				fmt.Fprintf(w, "%-30s %d\n", l.Cluster.Name, l.Components)
			}
			return nil
		},
	}
}
