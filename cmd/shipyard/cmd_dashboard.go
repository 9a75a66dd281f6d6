package main

import (
	"fmt"
	"sort"

	"github.com/kompox/shipyard/usecase/dashboard"
	"github.com/spf13/cobra"
)

func newCmdDashboard() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Summarize applications, clusters and components",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			uc, err := buildDashboardUseCase(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := commandContext(cmd)
			defer cancel()
			out, err := uc.Overview(ctx, &dashboard.OverviewInput{})
			if err != nil {
				return err
			}
			if asJSON {
				return printJSON(cmd, out)
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "applications: %d\ninstances:    %d\nenvironments: %d\nclusters:     %d\n",
				out.Applications, out.Instances, out.Environments, out.Clusters)
			s := out.Components
			fmt.Fprintf(w, "components:   %d (webapp %d, worker %d, cron %d; enabled %d, disabled %d)\n",
				s.Total, s.Webapp, s.Worker, s.Cron, s.Enabled, s.Disabled)
			printCounts(cmd, "ENVIRONMENT", out.ComponentsByEnvironment)
			printCounts(cmd, "CLUSTER", out.ComponentsByCluster)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the overview as JSON")
	return cmd
}

func printCounts(cmd *cobra.Command, header string, counts map[string]int) {
	if len(counts) == 0 {
		return
	}
	names := make([]string, 0, len(counts))
	for n := range counts {
		names = append(names, n)
	}
	sort.Strings(names)
	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "\n%-30s %s\n", header, "COMPONENTS")
	for _, n := range names {
		fmt.Fprintf(w, "%-30s %d\n", n, counts[n])
	}
}
