package main

import (
	"context"
	"fmt"

	"github.com/kompox/shipyard/usecase/application"
	"github.com/spf13/cobra"
)

func newCmdApplication() *cobra.Command {
	c := groupCmd("application", "Manage applications", "app")
	c.AddCommand(newCmdApplicationList())
	c.AddCommand(newCmdApplicationGet())
	c.AddCommand(newCmdApplicationCreate())
	c.AddCommand(newCmdApplicationDelete())
	return c
}

// resolveApplication maps an application ID or name to its ID.
func resolveApplication(ctx context.Context, cmd *cobra.Command, idOrName string) (string, error) {
	uc, err := buildApplicationUseCase(cmd)
	if err != nil {
		return "", err
	}
	out, err := uc.Get(ctx, &application.GetInput{ApplicationID: idOrName})
	if err != nil {
		return "", err
	}
	return out.Application.ID, nil
}

func newCmdApplicationList() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List applications",
		RunE: func(cmd *cobra.Command, args []string) error {
			uc, err := buildApplicationUseCase(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := commandContext(cmd)
			defer cancel()
			out, err := uc.List(ctx, &application.ListInput{})
			if err != nil {
				return err
			}
			return printLines(cmd, out.Applications)
		},
	}
}

func newCmdApplicationGet() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id|name>",
		Short: "Get an application with its instances",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			uc, err := buildApplicationUseCase(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := commandContext(cmd)
			defer cancel()
			out, err := uc.Get(ctx, &application.GetInput{ApplicationID: args[0]})
			if err != nil {
				return err
			}
			return printJSON(cmd, out)
		},
	}
}

func newCmdApplicationCreate() *cobra.Command {
	return &cobra.Command{
		Use:   "create <name>",
		Short: "Create an application; its name becomes the namespace on every cluster",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			uc, err := buildApplicationUseCase(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := commandContext(cmd)
			defer cancel()
			ctx, cleanup := withCmdRunLogger(ctx, "application.create", args[0])
			defer func() { cleanup(err) }()
			out, err := uc.Create(ctx, &application.CreateInput{Name: args[0]})
			if err != nil {
				return err
			}
			return printJSON(cmd, out.Application)
		},
	}
}

func newCmdApplicationDelete() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id|name>",
		Short: "Delete an application with all its instances and components",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			uc, err := buildApplicationUseCase(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := commandContext(cmd)
			defer cancel()
			ctx, cleanup := withCmdRunLogger(ctx, "application.delete", args[0])
			defer func() { cleanup(err) }()
			id, err := resolveApplication(ctx, cmd, args[0])
			if err != nil {
				return err
			}
			if _, err := uc.Delete(ctx, &application.DeleteInput{ApplicationID: id}); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
			return nil
		},
	}
}
