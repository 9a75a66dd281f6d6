package main

import (
	"context"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/kompox/shipyard/internal/logging"
	"github.com/kompox/shipyard/internal/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

const envPrefix = "SHIPYARD_"

// envDefault returns the value of SHIPYARD_<name> or def when unset.
func envDefault(name, def string) string {
	if v := os.Getenv(envPrefix + name); v != "" {
		return v
	}
	return def
}

func newRootCmd() *cobra.Command {
	var logFile *logging.LogFile
	cmd := &cobra.Command{
		Use:     "shipyard",
		Short:   "Shipyard CLI",
		Long:    "Shipyard renders application components into Kubernetes manifests and keeps registered clusters in sync with them.",
		Version: version,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.String("db-url", envDefault("DB_URL", "sqlite:shipyard.db"), "Database URL (env SHIPYARD_DB_URL) (sqlite:/path/to.db | mysql:<dsn> | memory:)")
	pf.String("log-format", envDefault("LOG_FORMAT", "human"), "Log format (human|text|json) (env SHIPYARD_LOG_FORMAT)")
	pf.String("log-level", envDefault("LOG_LEVEL", "info"), "Log level (debug|info|warn|error) (env SHIPYARD_LOG_LEVEL)")
	pf.String("log-output", envDefault("LOG_OUTPUT", "-"), "Log output: '-' for stderr, 'none', or a file path (env SHIPYARD_LOG_OUTPUT)")
	pf.String("metrics-textfile", envDefault("METRICS_TEXTFILE", ""), "Write Prometheus metrics to this file on exit (env SHIPYARD_METRICS_TEXTFILE)")
	pf.Bool("insecure-skip-tls-verify", false, "Skip TLS verification for every cluster")
	pf.Duration("timeout", time.Minute, "Timeout of each command")

	cmd.PersistentPreRunE = func(c *cobra.Command, _ []string) error {
		format, _ := c.Flags().GetString("log-format")
		levelStr, _ := c.Flags().GetString("log-level")
		output, _ := c.Flags().GetString("log-output")
		level, err := logging.ParseLevel(levelStr)
		if err != nil {
			return err
		}
		if logFile, err = logging.OpenLogFile(output); err != nil {
			return err
		}
		l, err := logging.NewWithWriter(format, level, logFile.Writer())
		if err != nil {
			return err
		}
		l = l.With("runId", uuid.NewString())
		c.SetContext(logging.WithLogger(c.Context(), l))
		return nil
	}
	cmd.PersistentPostRunE = func(*cobra.Command, []string) error {
		if logFile != nil {
			return logFile.Close()
		}
		return nil
	}

	cmd.AddCommand(newCmdVersion())
	cmd.AddCommand(newCmdEnvironment())
	cmd.AddCommand(newCmdCluster())
	cmd.AddCommand(newCmdApplication())
	cmd.AddCommand(newCmdInstance())
	cmd.AddCommand(newCmdComponent())
	cmd.AddCommand(newCmdSettings())
	cmd.AddCommand(newCmdTemplate())
	cmd.AddCommand(newCmdDashboard())
	cmd.AddCommand(newCmdDB())
	return cmd
}

// writeMetrics dumps the process metrics for a node-exporter textfile collector.
func writeMetrics(root *cobra.Command) error {
	path, _ := root.PersistentFlags().GetString("metrics-textfile")
	if path == "" {
		return nil
	}
	return prometheus.WriteToTextfile(path, metrics.Registry)
}

func main() {
	root := newRootCmd()
	root.SetContext(context.Background())
	executed, err := root.ExecuteC()
	ctx := root.Context()
	if executed != nil {
		ctx = executed.Context()
	}
	if merr := writeMetrics(root); merr != nil {
		logging.FromContext(ctx).Warnf(ctx, "Writing metrics: %s", merr)
	}
	if err != nil {
		logging.FromContext(ctx).Errorf(ctx, "Failed: %s", err)
		os.Exit(exitCode(err))
	}
}
