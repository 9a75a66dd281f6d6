package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/kompox/shipyard/internal/kubeconfig"
	"github.com/kompox/shipyard/usecase/cluster"
	"github.com/kompox/shipyard/usecase/environment"
	"github.com/spf13/cobra"
)

// clusterSpec is the YAML form accepted by cluster create and update.
// Fields left empty on update keep their current value. When Kubeconfig is set,
// the API address and token default to those of its context.
type clusterSpec struct {
	Name                  string `yaml:"name"`
	Environment           string `yaml:"environment"`
	APIAddress            string `yaml:"apiAddress"`
	Token                 string `yaml:"token"`
	InsecureSkipTLSVerify *bool  `yaml:"insecureSkipTLSVerify"`
	Kubeconfig            string `yaml:"kubeconfig"`
	Context               string `yaml:"context"`
}

// resolveKubeconfig fills connection fields from the referenced kubeconfig.
// Explicit fields win. A relative path is resolved against the spec file.
func (s *clusterSpec) resolveKubeconfig(specPath string) error {
	if s.Kubeconfig == "" {
		return nil
	}
	path := s.Kubeconfig
	if !filepath.IsAbs(path) && specPath != "-" {
		path = filepath.Join(filepath.Dir(specPath), path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read kubeconfig: %w", err)
	}
	creds, err := kubeconfig.Extract(data, s.Context)
	if err != nil {
		return err
	}
	if s.APIAddress == "" {
		s.APIAddress = creds.Server
	}
	if s.Token == "" {
		s.Token = creds.Token
	}
	if s.InsecureSkipTLSVerify == nil && creds.InsecureSkipTLSVerify {
		s.InsecureSkipTLSVerify = &creds.InsecureSkipTLSVerify
	}
	if s.Name == "" {
		s.Name = creds.Context
	}
	return nil
}

func newCmdCluster() *cobra.Command {
	c := groupCmd("cluster", "Manage registered Kubernetes clusters", "cls")
	c.AddCommand(newCmdClusterList())
	c.AddCommand(newCmdClusterGet())
	c.AddCommand(newCmdClusterCreate())
	c.AddCommand(newCmdClusterUpdate())
	c.AddCommand(newCmdClusterStatus())
	c.AddCommand(newCmdClusterDelete())
	c.AddCommand(newCmdClusterKubeconfig())
	return c
}

// resolveEnvironment maps an environment ID or name to its ID.
func resolveEnvironment(ctx context.Context, cmd *cobra.Command, idOrName string) (string, error) {
	uc, err := buildEnvironmentUseCase(cmd)
	if err != nil {
		return "", err
	}
	out, err := uc.Get(ctx, &environment.GetInput{EnvironmentID: idOrName})
	if err != nil {
		return "", err
	}
	return out.Environment.ID, nil
}

func newCmdClusterList() *cobra.Command {
	var env string
	c := &cobra.Command{
		Use:   "list",
		Short: "List clusters",
		RunE: func(cmd *cobra.Command, args []string) error {
			uc, err := buildClusterUseCase(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := commandContext(cmd)
			defer cancel()
			in := &cluster.ListInput{}
			if env != "" {
				if in.EnvironmentID, err = resolveEnvironment(ctx, cmd, env); err != nil {
					return err
				}
			}
			out, err := uc.List(ctx, in)
			if err != nil {
				return err
			}
			return printLines(cmd, out.Clusters)
		},
	}
	c.Flags().StringVarP(&env, "env", "e", "", "Only clusters of this environment")
	return c
}

func newCmdClusterGet() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id|name>",
		Short: "Get a cluster",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			uc, err := buildClusterUseCase(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := commandContext(cmd)
			defer cancel()
			out, err := uc.Get(ctx, &cluster.GetInput{ClusterID: args[0]})
			if err != nil {
				return err
			}
			return printJSON(cmd, out.Cluster)
		},
	}
}

func newCmdClusterCreate() *cobra.Command {
	var file string
	c := &cobra.Command{
		Use:   "create -f <spec.yml>",
		Short: "Register a cluster after probing its API server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			spec, err := readSpec[clusterSpec](cmd, file)
			if err != nil {
				return err
			}
			if err := spec.resolveKubeconfig(file); err != nil {
				return err
			}
			uc, err := buildClusterUseCase(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := commandContext(cmd)
			defer cancel()
			ctx, cleanup := withCmdRunLogger(ctx, "cluster.create", spec.Name)
			defer func() { cleanup(err) }()
			envID, err := resolveEnvironment(ctx, cmd, spec.Environment)
			if err != nil {
				return err
			}
			in := &cluster.CreateInput{
				Name:          spec.Name,
				APIAddress:    spec.APIAddress,
				Token:         spec.Token,
				EnvironmentID: envID,
			}
			if spec.InsecureSkipTLSVerify != nil {
				in.InsecureSkipTLSVerify = *spec.InsecureSkipTLSVerify
			}
			out, err := uc.Create(ctx, in)
			if err != nil {
				return err
			}
			return printJSON(cmd, out.Cluster)
		},
	}
	c.Flags().StringVarP(&file, "file", "f", "", "Cluster spec file ('-' for stdin)")
	return c
}

func newCmdClusterUpdate() *cobra.Command {
	var file string
	c := &cobra.Command{
		Use:   "update <id|name> -f <spec.yml>",
		Short: "Change a cluster; new connection settings are probed first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			spec, err := readSpec[clusterSpec](cmd, file)
			if err != nil {
				return err
			}
			if err := spec.resolveKubeconfig(file); err != nil {
				return err
			}
			uc, err := buildClusterUseCase(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := commandContext(cmd)
			defer cancel()
			ctx, cleanup := withCmdRunLogger(ctx, "cluster.update", args[0])
			defer func() { cleanup(err) }()
			cur, err := uc.Get(ctx, &cluster.GetInput{ClusterID: args[0]})
			if err != nil {
				return err
			}
			in := &cluster.UpdateInput{ClusterID: cur.Cluster.ID, InsecureSkipTLSVerify: spec.InsecureSkipTLSVerify}
			if spec.Name != "" {
				in.Name = &spec.Name
			}
			if spec.APIAddress != "" {
				in.APIAddress = &spec.APIAddress
			}
			if spec.Token != "" {
				in.Token = &spec.Token
			}
			out, err := uc.Update(ctx, in)
			if err != nil {
				return err
			}
			return printJSON(cmd, out.Cluster)
		},
	}
	c.Flags().StringVarP(&file, "file", "f", "", "Cluster spec file ('-' for stdin)")
	return c
}

func newCmdClusterStatus() *cobra.Command {
	return &cobra.Command{
		Use:   "status <id|name>",
		Short: "Show server version, capacity and routing support of a cluster",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			uc, err := buildClusterUseCase(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := commandContext(cmd)
			defer cancel()
			out, err := uc.Status(ctx, &cluster.StatusInput{ClusterID: args[0]})
			if err != nil {
				return err
			}
			return printJSON(cmd, out)
		},
	}
}

func newCmdClusterDelete() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id|name>",
		Short: "Unregister a cluster that hosts no components",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			uc, err := buildClusterUseCase(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := commandContext(cmd)
			defer cancel()
			ctx, cleanup := withCmdRunLogger(ctx, "cluster.delete", args[0])
			defer func() { cleanup(err) }()
			cur, err := uc.Get(ctx, &cluster.GetInput{ClusterID: args[0]})
			if err != nil {
				return err
			}
			if _, err := uc.Delete(ctx, &cluster.DeleteInput{ClusterID: cur.Cluster.ID}); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", cur.Cluster.Name)
			return nil
		},
	}
}

func newCmdClusterKubeconfig() *cobra.Command {
	var namespace, format string
	c := &cobra.Command{
		Use:   "kubeconfig <id|name>",
		Short: "Print a kubeconfig for a registered cluster",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			uc, err := buildClusterUseCase(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := commandContext(cmd)
			defer cancel()
			out, err := uc.Get(ctx, &cluster.GetInput{ClusterID: args[0]})
			if err != nil {
				return err
			}
			return kubeconfig.Print(cmd.OutOrStdout(), kubeconfig.ForCluster(out.Cluster, namespace), format)
		},
	}
	c.Flags().StringVarP(&namespace, "namespace", "n", "", "Default namespace of the context")
	c.Flags().StringVarP(&format, "format", "o", "yaml", "Output format (yaml|json)")
	return c
}
