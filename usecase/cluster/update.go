package cluster

import (
	"context"

	"github.com/kompox/shipyard/domain/model"
	"github.com/kompox/shipyard/internal/validate"
)

// UpdateInput specifies cluster fields that can be changed.
type UpdateInput struct {
	ClusterID             string  `json:"cluster_id" validate:"required"`
	Name                  *string `json:"name,omitempty" validate:"omitempty,max=63,dns1123"`
	APIAddress            *string `json:"api_address,omitempty" validate:"omitempty,url"`
	Token                 *string `json:"token,omitempty" validate:"omitempty,min=1"`
	InsecureSkipTLSVerify *bool   `json:"insecure_skip_tls_verify,omitempty"`
}

// UpdateOutput wraps the updated cluster.
type UpdateOutput struct {
	Cluster *model.Cluster `json:"cluster"`
}

// Update applies provided changes to a cluster. Connection changes are probed before they are saved.
func (u *UseCase) Update(ctx context.Context, in *UpdateInput) (*UpdateOutput, error) {
	if in == nil {
		return nil, model.NewValidationError("", "input is required")
	}
	if err := validate.Struct(in); err != nil {
		return nil, err
	}
	existing, err := u.Repos.Cluster.Get(ctx, in.ClusterID)
	if err != nil {
		return nil, err
	}
	changed, reprobe := false, false
	if in.Name != nil && *in.Name != existing.Name {
		existing.Name = *in.Name
		changed = true
	}
	if in.APIAddress != nil && *in.APIAddress != existing.APIAddress {
		existing.APIAddress = *in.APIAddress
		changed, reprobe = true, true
	}
	if in.Token != nil && *in.Token != existing.Token {
		existing.Token = *in.Token
		changed, reprobe = true, true
	}
	if in.InsecureSkipTLSVerify != nil && *in.InsecureSkipTLSVerify != existing.InsecureSkipTLSVerify {
		existing.InsecureSkipTLSVerify = *in.InsecureSkipTLSVerify
		changed, reprobe = true, true
	}
	if reprobe {
		if _, err := u.probe(ctx, existing); err != nil {
			return nil, err
		}
	}
	if changed {
		if err := u.Repos.Cluster.Update(ctx, existing); err != nil {
			return nil, err
		}
	}
	return &UpdateOutput{Cluster: existing}, nil
}
