package component

import (
	"context"

	"github.com/kompox/shipyard/domain"
	"github.com/kompox/shipyard/domain/model"
	"github.com/kompox/shipyard/internal/logging"
	"github.com/kompox/shipyard/internal/metrics"
	"github.com/kompox/shipyard/internal/validate"
)

// DeleteInput identifies the component to delete.
type DeleteInput struct {
	ComponentID string `json:"component_id" validate:"required"`
}

// DeleteOutput is empty; deletion has no return object.
type DeleteOutput struct{}

// Delete tears down the component's manifests best-effort, then removes its
// ClusterInstance and component rows regardless of the cluster outcome.
func (u *UseCase) Delete(ctx context.Context, in *DeleteInput) (out *DeleteOutput, err error) {
	if in == nil {
		return nil, model.NewValidationError("", "input is required")
	}
	if err := validate.Struct(in); err != nil {
		return nil, err
	}
	t, err := loadTarget(ctx, u.Repos, in.ComponentID)
	if err != nil {
		return nil, err
	}

	logger := logging.FromContext(ctx)
	msgSym := "Component:Delete"
	logger.Info(ctx, msgSym+"/s", "component", t.Component.Name)
	defer func() {
		metrics.ObserveTransition(string(TransitionDelete), err)
		if err == nil {
			logger.Info(ctx, msgSym+"/eok", "component", t.Component.Name)
		} else {
			logger.Info(ctx, msgSym+"/efail", "component", t.Component.Name, "err", err)
		}
	}()

	if t.Cluster != nil {
		if err := u.deploy(ctx, u.Repos, t, model.ApplyDelete, model.BestEffort); err != nil {
			return nil, err
		}
	}
	err = u.UoW.Do(ctx, func(tx *domain.Repositories) error {
		if t.Placement != nil {
			if err := tx.ClusterInstance.Delete(ctx, t.Placement.ID); err != nil {
				return err
			}
		}
		return tx.Component.Delete(ctx, t.Component.ID)
	})
	if err != nil {
		return nil, err
	}
	return &DeleteOutput{}, nil
}
