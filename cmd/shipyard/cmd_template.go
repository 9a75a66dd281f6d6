package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/kompox/shipyard/domain/model"
	templateuc "github.com/kompox/shipyard/usecase/template"
	"github.com/spf13/cobra"
)

// templateSpec is the YAML form accepted by template create and update.
// ContentFile is resolved relative to the spec file.
type templateSpec struct {
	Name            *string        `yaml:"name"`
	Description     *string        `yaml:"description"`
	Category        *string        `yaml:"category"`
	Content         *string        `yaml:"content"`
	ContentFile     string         `yaml:"contentFile"`
	VariablesSchema map[string]any `yaml:"variablesSchema"`
}

func (s *templateSpec) resolveContent(specPath string) error {
	if s.ContentFile == "" {
		return nil
	}
	path := s.ContentFile
	if !filepath.IsAbs(path) && specPath != "-" {
		path = filepath.Join(filepath.Dir(specPath), path)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read content file: %w", err)
	}
	content := string(b)
	s.Content = &content
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func newCmdTemplate() *cobra.Command {
	c := groupCmd("template", "Manage manifest templates and render plans", "tmpl")
	c.AddCommand(newCmdTemplateList())
	c.AddCommand(newCmdTemplateGet())
	c.AddCommand(newCmdTemplateCreate())
	c.AddCommand(newCmdTemplateUpdate())
	c.AddCommand(newCmdTemplateDelete())
	c.AddCommand(newCmdTemplatePreview())
	c.AddCommand(newCmdTemplateSeed())
	c.AddCommand(newCmdTemplatePlan())
	c.AddCommand(newCmdTemplateConfig())
	return c
}

func newCmdTemplateList() *cobra.Command {
	var category string
	c := &cobra.Command{
		Use:   "list",
		Short: "List templates",
		RunE: func(cmd *cobra.Command, args []string) error {
			uc, err := buildTemplateUseCase(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := commandContext(cmd)
			defer cancel()
			out, err := uc.List(ctx, &templateuc.ListInput{Category: category})
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "%-26s %-28s %-8s %s\n", "ID", "NAME", "CATEGORY", "DESCRIPTION")
			for _, t := range out.Templates {
				fmt.Fprintf(w, "%-26s %-28s %-8s %s\n", t.ID, t.Name, t.Category, t.Description)
			}
			return nil
		},
	}
	c.Flags().StringVar(&category, "category", "", "Only templates of this category")
	return c
}

func newCmdTemplateGet() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id|name>",
		Short: "Get a template with its render plan entries",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			uc, err := buildTemplateUseCase(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := commandContext(cmd)
			defer cancel()
			out, err := uc.Get(ctx, &templateuc.GetInput{TemplateID: args[0]})
			if err != nil {
				return err
			}
			return printJSON(cmd, out)
		},
	}
}

func newCmdTemplateCreate() *cobra.Command {
	var file string
	c := &cobra.Command{
		Use:   "create -f <spec.yml>",
		Short: "Create a template",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			spec, err := readSpec[templateSpec](cmd, file)
			if err != nil {
				return err
			}
			if err := spec.resolveContent(file); err != nil {
				return err
			}
			uc, err := buildTemplateUseCase(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := commandContext(cmd)
			defer cancel()
			ctx, cleanup := withCmdRunLogger(ctx, "template.create", deref(spec.Name))
			defer func() { cleanup(err) }()
			out, err := uc.Create(ctx, &templateuc.CreateInput{
				Name:            deref(spec.Name),
				Description:     deref(spec.Description),
				Category:        deref(spec.Category),
				Content:         deref(spec.Content),
				VariablesSchema: spec.VariablesSchema,
			})
			if err != nil {
				return err
			}
			return printJSON(cmd, out.Template)
		},
	}
	c.Flags().StringVarP(&file, "file", "f", "", "Template spec file ('-' for stdin)")
	return c
}

func newCmdTemplateUpdate() *cobra.Command {
	var file string
	c := &cobra.Command{
		Use:   "update <id|name> -f <spec.yml>",
		Short: "Change a template",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			spec, err := readSpec[templateSpec](cmd, file)
			if err != nil {
				return err
			}
			if err := spec.resolveContent(file); err != nil {
				return err
			}
			uc, err := buildTemplateUseCase(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := commandContext(cmd)
			defer cancel()
			ctx, cleanup := withCmdRunLogger(ctx, "template.update", args[0])
			defer func() { cleanup(err) }()
			out, err := uc.Update(ctx, &templateuc.UpdateInput{
				TemplateID:      args[0],
				Name:            spec.Name,
				Description:     spec.Description,
				Category:        spec.Category,
				Content:         spec.Content,
				VariablesSchema: spec.VariablesSchema,
			})
			if err != nil {
				return err
			}
			return printJSON(cmd, out.Template)
		},
	}
	c.Flags().StringVarP(&file, "file", "f", "", "Template spec file ('-' for stdin)")
	return c
}

func newCmdTemplateDelete() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id|name>",
		Short: "Delete a template and its render plan entries",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			uc, err := buildTemplateUseCase(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := commandContext(cmd)
			defer cancel()
			ctx, cleanup := withCmdRunLogger(ctx, "template.delete", args[0])
			defer func() { cleanup(err) }()
			if _, err := uc.Delete(ctx, &templateuc.DeleteInput{TemplateID: args[0]}); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
			return nil
		},
	}
}

func newCmdTemplatePreview() *cobra.Command {
	var file string
	c := &cobra.Command{
		Use:   "preview <id|name> [-f <variables.yml>]",
		Short: "Render a template with the given variables",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			vars := map[string]any{}
			if file != "" {
				v, err := readSpec[map[string]any](cmd, file)
				if err != nil {
					return err
				}
				vars = *v
			}
			uc, err := buildTemplateUseCase(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := commandContext(cmd)
			defer cancel()
			out, err := uc.Preview(ctx, &templateuc.PreviewInput{TemplateID: args[0], Variables: vars})
			if err != nil {
				return err
			}
			return writeDocuments(cmd.OutOrStdout(), []model.Document{out.Document})
		},
	}
	c.Flags().StringVarP(&file, "file", "f", "", "Variables file ('-' for stdin)")
	return c
}

func newCmdTemplateSeed() *cobra.Command {
	var overwrite bool
	c := &cobra.Command{
		Use:   "seed",
		Short: "Install the builtin templates and render plans",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			uc, err := buildTemplateUseCase(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := commandContext(cmd)
			defer cancel()
			ctx, cleanup := withCmdRunLogger(ctx, "template.seed", "builtin")
			defer func() { cleanup(err) }()
			out, err := uc.Seed(ctx, &templateuc.SeedInput{Overwrite: overwrite})
			if err != nil {
				return err
			}
			return printJSON(cmd, out)
		},
	}
	c.Flags().BoolVar(&overwrite, "overwrite", false, "Replace the content of builtin templates that were edited")
	return c
}

func newCmdTemplatePlan() *cobra.Command {
	var componentType string
	c := &cobra.Command{
		Use:   "plan",
		Short: "Show which templates render each component type, in order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			uc, err := buildTemplateUseCase(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := commandContext(cmd)
			defer cancel()
			out, err := uc.Plan(ctx, &templateuc.PlanInput{ComponentType: model.ComponentType(componentType)})
			if err != nil {
				return err
			}
			types := make([]string, 0, len(out.Plans))
			for t := range out.Plans {
				types = append(types, string(t))
			}
			sort.Strings(types)
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "%-8s %-5s %-7s %-28s %s\n", "TYPE", "ORDER", "ENABLED", "TEMPLATE", "CONFIG")
			for _, t := range types {
				for _, e := range out.Plans[model.ComponentType(t)] {
					fmt.Fprintf(w, "%-8s %-5d %-7t %-28s %s\n", t, e.RenderOrder, e.Enabled, e.TemplateName, e.ID)
				}
			}
			return nil
		},
	}
	c.Flags().StringVar(&componentType, "type", "", "Only this component type (webapp|worker|cron)")
	return c
}

func newCmdTemplateConfig() *cobra.Command {
	c := groupCmd("config", "Edit render plan entries")
	c.AddCommand(newCmdTemplateConfigAdd())
	c.AddCommand(newCmdTemplateConfigUpdate())
	c.AddCommand(newCmdTemplateConfigDelete())
	return c
}

func newCmdTemplateConfigAdd() *cobra.Command {
	var (
		componentType string
		order         int
		disabled      bool
	)
	c := &cobra.Command{
		Use:   "add <template> --type <type> --order <n>",
		Short: "Add a template to the render plan of a component type",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			uc, err := buildTemplateUseCase(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := commandContext(cmd)
			defer cancel()
			enabled := !disabled
			out, err := uc.ConfigCreate(ctx, &templateuc.ConfigCreateInput{
				ComponentType: model.ComponentType(componentType),
				TemplateID:    args[0],
				RenderOrder:   order,
				Enabled:       &enabled,
			})
			if err != nil {
				return err
			}
			return printJSON(cmd, out.Config)
		},
	}
	c.Flags().StringVar(&componentType, "type", "", "Component type (webapp|worker|cron)")
	c.Flags().IntVar(&order, "order", 0, "Render order, lower renders first")
	c.Flags().BoolVar(&disabled, "disabled", false, "Add the entry disabled")
	_ = c.MarkFlagRequired("type")
	return c
}

func newCmdTemplateConfigUpdate() *cobra.Command {
	var (
		order   int
		enabled bool
	)
	c := &cobra.Command{
		Use:   "update <config-id> [--order <n>] [--enabled=<bool>]",
		Short: "Change the order or enabled state of a render plan entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			uc, err := buildTemplateUseCase(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := commandContext(cmd)
			defer cancel()
			in := &templateuc.ConfigUpdateInput{ConfigID: args[0]}
			if cmd.Flags().Changed("order") {
				in.RenderOrder = &order
			}
			if cmd.Flags().Changed("enabled") {
				in.Enabled = &enabled
			}
			out, err := uc.ConfigUpdate(ctx, in)
			if err != nil {
				return err
			}
			return printJSON(cmd, out.Config)
		},
	}
	c.Flags().IntVar(&order, "order", 0, "Render order, lower renders first")
	c.Flags().BoolVar(&enabled, "enabled", true, "Whether the entry renders")
	return c
}

func newCmdTemplateConfigDelete() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <config-id>",
		Short: "Remove a render plan entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			uc, err := buildTemplateUseCase(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := commandContext(cmd)
			defer cancel()
			if err := uc.ConfigDelete(ctx, &templateuc.ConfigDeleteInput{ConfigID: args[0]}); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
			return nil
		},
	}
}
