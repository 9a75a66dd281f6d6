package cluster

import (
	"context"
	"errors"

	"github.com/kompox/shipyard/domain/model"
	"github.com/kompox/shipyard/internal/logging"
	"github.com/kompox/shipyard/internal/validate"
)

var errNoConnector = errors.New("no cluster connector configured")

// CreateInput contains data to register a cluster.
type CreateInput struct {
	// Name is the cluster name, unique.
	Name string `json:"name" validate:"required,max=63,dns1123"`
	// APIAddress is the control plane URL, unique.
	APIAddress string `json:"api_address" validate:"required,url"`
	// Token is the bearer token used for every request.
	Token string `json:"token" validate:"required"`
	// EnvironmentID is the environment the cluster serves.
	EnvironmentID string `json:"environment_id" validate:"required"`
	// InsecureSkipTLSVerify disables server certificate verification.
	InsecureSkipTLSVerify bool `json:"insecure_skip_tls_verify,omitempty"`
}

// CreateOutput wraps the registered cluster.
type CreateOutput struct {
	Cluster *model.Cluster `json:"cluster"`
}

// Create registers a cluster after a successful connectivity probe.
func (u *UseCase) Create(ctx context.Context, in *CreateInput) (out *CreateOutput, err error) {
	if in == nil {
		return nil, model.NewValidationError("", "input is required")
	}
	if err := validate.Struct(in); err != nil {
		return nil, err
	}

	logger := logging.FromContext(ctx)
	msgSym := "Cluster:Create"
	logger.Info(ctx, msgSym+"/s", "cluster", in.Name, "api", in.APIAddress)
	defer func() {
		if err == nil {
			logger.Info(ctx, msgSym+"/eok", "cluster", in.Name, "id", out.Cluster.ID)
		} else {
			logger.Info(ctx, msgSym+"/efail", "cluster", in.Name, "err", err)
		}
	}()

	if _, err := u.Repos.Environment.Get(ctx, in.EnvironmentID); err != nil {
		return nil, err
	}
	c := &model.Cluster{
		Name:                  in.Name,
		APIAddress:            in.APIAddress,
		Token:                 in.Token,
		EnvironmentID:         in.EnvironmentID,
		InsecureSkipTLSVerify: in.InsecureSkipTLSVerify,
	}
	if _, err := u.probe(ctx, c); err != nil {
		return nil, err
	}
	if err := u.Repos.Cluster.Create(ctx, c); err != nil {
		return nil, err
	}
	return &CreateOutput{Cluster: c}, nil
}
