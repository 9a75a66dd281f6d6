package component

import (
	"context"

	"github.com/kompox/shipyard/domain"
	"github.com/kompox/shipyard/domain/model"
	"github.com/kompox/shipyard/internal/logging"
	"github.com/kompox/shipyard/internal/metrics"
	"github.com/kompox/shipyard/internal/validate"
)

// UpdateInput carries the fields to change. Nil fields are left unchanged.
type UpdateInput struct {
	ComponentID string `json:"component_id" validate:"required"`
	// Settings replaces the whole settings document.
	Settings map[string]any `json:"settings,omitempty"`
	// URL replaces the URL; an empty string clears it.
	URL     *string `json:"url,omitempty"`
	Enabled *bool   `json:"enabled,omitempty"`
}

// UpdateOutput contains the updated component and the transition that was performed.
type UpdateOutput struct {
	Component  *model.Component `json:"component"`
	Transition Transition       `json:"transition"`
}

// Update persists the changes and reconciles the cluster according to the enabled transition:
//   - enabled -> enabled: upsert, strict; a cluster failure rolls the change back.
//   - enabled -> disabled: the change is committed, then the manifests are deleted best-effort.
//   - disabled -> enabled: placement and upsert, strict.
//   - disabled -> disabled: persist only.
func (u *UseCase) Update(ctx context.Context, in *UpdateInput) (out *UpdateOutput, err error) {
	if in == nil {
		return nil, model.NewValidationError("", "input is required")
	}
	if err := validate.Struct(in); err != nil {
		return nil, err
	}
	cur, err := u.Repos.Component.Get(ctx, in.ComponentID)
	if err != nil {
		return nil, err
	}
	next := *cur
	next.Settings = cloneSettings(cur.Settings)
	if in.Settings != nil {
		next.Settings = cloneSettings(in.Settings)
	}
	if in.URL != nil {
		url := *in.URL
		next.URL = &url
	}
	if in.Enabled != nil {
		next.Enabled = *in.Enabled
	}
	applyTypeRules(&next)
	if err := next.Validate(); err != nil {
		return nil, err
	}

	var transition Transition
	switch {
	case cur.Enabled && next.Enabled:
		transition = TransitionUpdate
	case cur.Enabled && !next.Enabled:
		transition = TransitionDisable
	case !cur.Enabled && next.Enabled:
		transition = TransitionEnable
	default:
		transition = TransitionPersist
	}

	logger := logging.FromContext(ctx)
	msgSym := "Component:Update"
	logger.Info(ctx, msgSym+"/s", "component", cur.Name, "transition", transition)
	defer func() {
		metrics.ObserveTransition(string(transition), err)
		if err == nil {
			logger.Info(ctx, msgSym+"/eok", "component", cur.Name, "transition", transition)
		} else {
			logger.Info(ctx, msgSym+"/efail", "component", cur.Name, "transition", transition, "err", err)
		}
	}()

	switch transition {
	case TransitionUpdate, TransitionEnable:
		err = u.UoW.Do(ctx, func(tx *domain.Repositories) error {
			if err := tx.Component.Update(ctx, &next); err != nil {
				return err
			}
			t, err := loadTargetFor(ctx, tx, &next)
			if err != nil {
				return err
			}
			if err := ensurePlacement(ctx, tx, t); err != nil {
				return err
			}
			return u.deploy(ctx, tx, t, model.ApplyUpsert, model.Strict)
		})
	case TransitionDisable:
		err = u.disable(ctx, cur, &next)
	default:
		err = u.Repos.Component.Update(ctx, &next)
	}
	if err != nil {
		return nil, err
	}
	saved, err := u.Repos.Component.Get(ctx, next.ID)
	if err != nil {
		return nil, err
	}
	return &UpdateOutput{Component: saved, Transition: transition}, nil
}

// disable commits next and removes the manifests rendered from cur, the state live on
// the cluster. Cluster failures are logged only.
func (u *UseCase) disable(ctx context.Context, cur, next *model.Component) error {
	t, err := loadTargetFor(ctx, u.Repos, cur)
	if err != nil {
		return err
	}
	if err := u.Repos.Component.Update(ctx, next); err != nil {
		return err
	}
	if t.Cluster == nil {
		return nil
	}
	return u.deploy(ctx, u.Repos, t, model.ApplyDelete, model.BestEffort)
}
