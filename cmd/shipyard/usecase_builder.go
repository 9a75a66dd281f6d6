package main

import (
	"time"

	"github.com/kompox/shipyard/adapters/kube"
	"github.com/kompox/shipyard/usecase/application"
	"github.com/kompox/shipyard/usecase/cluster"
	"github.com/kompox/shipyard/usecase/component"
	"github.com/kompox/shipyard/usecase/dashboard"
	"github.com/kompox/shipyard/usecase/environment"
	"github.com/kompox/shipyard/usecase/instance"
	"github.com/kompox/shipyard/usecase/placement"
	"github.com/kompox/shipyard/usecase/settings"
	templateuc "github.com/kompox/shipyard/usecase/template"
	"github.com/spf13/cobra"
)

// buildConnector returns a kube Connector configured from the global flags.
func buildConnector(cmd *cobra.Command) *kube.Connector {
	opts := kube.Options{UserAgent: "shipyard/" + version}
	if f := findFlag(cmd, "insecure-skip-tls-verify"); f != nil {
		opts.InsecureSkipTLSVerify = f.Value.String() == "true"
	}
	if f := findFlag(cmd, "timeout"); f != nil {
		if d, err := time.ParseDuration(f.Value.String()); err == nil {
			opts.Timeout = d
		}
	}
	return kube.NewConnector(opts)
}

func buildEnvironmentUseCase(cmd *cobra.Command) (*environment.UseCase, error) {
	s, err := buildStore(cmd)
	if err != nil {
		return nil, err
	}
	return environment.New(s.Repos), nil
}

func buildClusterUseCase(cmd *cobra.Command) (*cluster.UseCase, error) {
	s, err := buildStore(cmd)
	if err != nil {
		return nil, err
	}
	return cluster.New(s.Repos, buildConnector(cmd)), nil
}

func buildPlacementUseCase(cmd *cobra.Command) (*placement.UseCase, error) {
	s, err := buildStore(cmd)
	if err != nil {
		return nil, err
	}
	return placement.New(s.Repos), nil
}

func buildApplicationUseCase(cmd *cobra.Command) (*application.UseCase, error) {
	s, err := buildStore(cmd)
	if err != nil {
		return nil, err
	}
	return &application.UseCase{Repos: s.Repos, UoW: s.UoW, Connector: buildConnector(cmd)}, nil
}

func buildInstanceUseCase(cmd *cobra.Command) (*instance.UseCase, error) {
	s, err := buildStore(cmd)
	if err != nil {
		return nil, err
	}
	return &instance.UseCase{Repos: s.Repos, UoW: s.UoW, Connector: buildConnector(cmd)}, nil
}

func buildComponentUseCase(cmd *cobra.Command) (*component.UseCase, error) {
	s, err := buildStore(cmd)
	if err != nil {
		return nil, err
	}
	return &component.UseCase{Repos: s.Repos, UoW: s.UoW, Connector: buildConnector(cmd)}, nil
}

func buildSettingsUseCase(cmd *cobra.Command) (*settings.UseCase, error) {
	s, err := buildStore(cmd)
	if err != nil {
		return nil, err
	}
	return settings.New(s.Repos), nil
}

func buildTemplateUseCase(cmd *cobra.Command) (*templateuc.UseCase, error) {
	s, err := buildStore(cmd)
	if err != nil {
		return nil, err
	}
	return &templateuc.UseCase{Repos: s.Repos, UoW: s.UoW}, nil
}

func buildDashboardUseCase(cmd *cobra.Command) (*dashboard.UseCase, error) {
	s, err := buildStore(cmd)
	if err != nil {
		return nil, err
	}
	return dashboard.New(s.Repos), nil
}
