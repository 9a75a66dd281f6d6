package main

import (
	"fmt"

	"github.com/kompox/shipyard/usecase/environment"
	"github.com/kompox/shipyard/usecase/settings"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newCmdSettings() *cobra.Command {
	c := groupCmd("settings", "Manage environment settings exposed to templates", "setting")
	c.PersistentFlags().StringP("env", "e", "", "Environment ID or name")
	_ = c.MarkPersistentFlagRequired("env")
	c.AddCommand(newCmdSettingsList())
	c.AddCommand(newCmdSettingsGet())
	c.AddCommand(newCmdSettingsSet())
	c.AddCommand(newCmdSettingsDelete())
	return c
}

// settingsEnv resolves the --env flag to an environment ID.
func settingsEnv(cmd *cobra.Command) (string, error) {
	name, _ := cmd.Flags().GetString("env")
	uc, err := buildEnvironmentUseCase(cmd)
	if err != nil {
		return "", err
	}
	ctx, cancel := commandContext(cmd)
	defer cancel()
	out, err := uc.Get(ctx, &environment.GetInput{EnvironmentID: name})
	if err != nil {
		return "", err
	}
	return out.Environment.ID, nil
}

func newCmdSettingsList() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List settings of an environment",
		RunE: func(cmd *cobra.Command, args []string) error {
			envID, err := settingsEnv(cmd)
			if err != nil {
				return err
			}
			uc, err := buildSettingsUseCase(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := commandContext(cmd)
			defer cancel()
			out, err := uc.List(ctx, &settings.ListInput{EnvironmentID: envID})
			if err != nil {
				return err
			}
			return printLines(cmd, out.Settings)
		},
	}
}

func newCmdSettingsGet() *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Get one setting",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			envID, err := settingsEnv(cmd)
			if err != nil {
				return err
			}
			uc, err := buildSettingsUseCase(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := commandContext(cmd)
			defer cancel()
			out, err := uc.Get(ctx, &settings.GetInput{EnvironmentID: envID, Key: args[0]})
			if err != nil {
				return err
			}
			return printJSON(cmd, out.Setting)
		},
	}
}

func newCmdSettingsSet() *cobra.Command {
	var description string
	c := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Create or replace a setting; the value is parsed as YAML",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var value any
			if err := yaml.Unmarshal([]byte(args[1]), &value); err != nil {
				return fmt.Errorf("parse value: %w", err)
			}
			envID, err := settingsEnv(cmd)
			if err != nil {
				return err
			}
			uc, err := buildSettingsUseCase(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := commandContext(cmd)
			defer cancel()
			out, err := uc.Set(ctx, &settings.SetInput{EnvironmentID: envID, Key: args[0], Value: value, Description: description})
			if err != nil {
				return err
			}
			return printJSON(cmd, out.Setting)
		},
	}
	c.Flags().StringVar(&description, "description", "", "Setting description")
	return c
}

func newCmdSettingsDelete() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <key>",
		Short: "Delete a setting",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			envID, err := settingsEnv(cmd)
			if err != nil {
				return err
			}
			uc, err := buildSettingsUseCase(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := commandContext(cmd)
			defer cancel()
			if _, err := uc.Delete(ctx, &settings.DeleteInput{EnvironmentID: envID, Key: args[0]}); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
			return nil
		},
	}
}
