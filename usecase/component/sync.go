package component

import (
	"context"

	"github.com/kompox/shipyard/domain"
	"github.com/kompox/shipyard/domain/model"
	"github.com/kompox/shipyard/internal/logging"
	"github.com/kompox/shipyard/internal/metrics"
	"github.com/kompox/shipyard/internal/validate"
)

// SyncInput identifies the instance whose components are reconciled.
type SyncInput struct {
	InstanceID string `json:"instance_id" validate:"required"`
}

// SyncError reports the failure of one component.
type SyncError struct {
	Component   string `json:"component"`
	ComponentID string `json:"component_id"`
	Error       string `json:"error"`
}

// SyncOutput summarizes a sync.
type SyncOutput struct {
	Synced int         `json:"synced"`
	Total  int         `json:"total"`
	Errors []SyncError `json:"errors"`
}

// Sync upserts every enabled component of the instance and deletes the manifests of every
// disabled one. A component failure is recorded and does not stop the others.
func (u *UseCase) Sync(ctx context.Context, in *SyncInput) (out *SyncOutput, err error) {
	if in == nil {
		return nil, model.NewValidationError("", "input is required")
	}
	if err := validate.Struct(in); err != nil {
		return nil, err
	}
	if _, err := u.Repos.Instance.Get(ctx, in.InstanceID); err != nil {
		return nil, err
	}
	components, err := u.Repos.Component.ListByInstance(ctx, in.InstanceID)
	if err != nil {
		return nil, err
	}

	logger := logging.FromContext(ctx)
	msgSym := "Component:Sync"
	logger.Info(ctx, msgSym+"/s", "instance", in.InstanceID, "components", len(components))

	out = &SyncOutput{Total: len(components), Errors: []SyncError{}}
	for _, c := range components {
		if err := u.syncOne(ctx, c); err != nil {
			logger.Warn(ctx, msgSym+"/component", "component", c.Name, "err", err)
			out.Errors = append(out.Errors, SyncError{Component: c.Name, ComponentID: c.ID, Error: err.Error()})
			continue
		}
		out.Synced++
	}
	metrics.ObserveTransition(string(TransitionSync), nil)
	logger.Info(ctx, msgSym+"/eok", "instance", in.InstanceID, "synced", out.Synced, "total", out.Total)
	return out, nil
}

func (u *UseCase) syncOne(ctx context.Context, c *model.Component) error {
	if !c.Enabled {
		t, err := loadTargetFor(ctx, u.Repos, c)
		if err != nil {
			return err
		}
		if t.Cluster == nil {
			return nil
		}
		return u.deploy(ctx, u.Repos, t, model.ApplyDelete, model.Strict)
	}
	return u.UoW.Do(ctx, func(tx *domain.Repositories) error {
		t, err := loadTargetFor(ctx, tx, c)
		if err != nil {
			return err
		}
		if err := ensurePlacement(ctx, tx, t); err != nil {
			return err
		}
		return u.deploy(ctx, tx, t, model.ApplyUpsert, model.Strict)
	})
}
