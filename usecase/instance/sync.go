package instance

import (
	"context"

	"github.com/kompox/shipyard/usecase/component"
)

// SyncInput identifies the instance to reconcile.
type SyncInput struct {
	InstanceID string `json:"instance_id" validate:"required"`
}

// Sync re-renders and re-applies every component of the instance.
func (u *UseCase) Sync(ctx context.Context, in *SyncInput) (*component.SyncOutput, error) {
	var id string
	if in != nil {
		id = in.InstanceID
	}
	return u.components().Sync(ctx, &component.SyncInput{InstanceID: id})
}
