package main

import (
	"fmt"

	templateuc "github.com/kompox/shipyard/usecase/template"
	"github.com/spf13/cobra"
)

func newCmdDB() *cobra.Command {
	c := groupCmd("db", "Database maintenance")
	c.AddCommand(newCmdDBInit())
	return c
}

// newCmdDBInit migrates the schema, which every store open does, and seeds builtin templates.
func newCmdDBInit() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the schema and install the builtin templates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			uc, err := buildTemplateUseCase(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := commandContext(cmd)
			defer cancel()
			ctx, cleanup := withCmdRunLogger(ctx, "db.init", getDBURL(cmd))
			defer func() { cleanup(err) }()
			out, err := uc.Seed(ctx, &templateuc.SeedInput{})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "initialized %s: %d templates created, %d updated, %d unchanged\n",
				getDBURL(cmd), out.Created, out.Updated, out.Unchanged)
			return nil
		},
	}
}
