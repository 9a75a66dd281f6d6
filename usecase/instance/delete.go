package instance

import (
	"context"
	"fmt"

	"github.com/kompox/shipyard/domain/model"
	"github.com/kompox/shipyard/internal/logging"
	"github.com/kompox/shipyard/internal/naming"
	"github.com/kompox/shipyard/internal/validate"
	"github.com/kompox/shipyard/usecase/component"
)

// DeleteInput identifies the instance to delete.
type DeleteInput struct {
	InstanceID string `json:"instance_id" validate:"required"`
}

// DeleteOutput is empty because delete has no return entity.
type DeleteOutput struct{}

// Delete removes every component of the instance, then the instance itself, then the
// application namespace on every cluster of the environment. Namespace removal is best-effort.
func (u *UseCase) Delete(ctx context.Context, in *DeleteInput) (out *DeleteOutput, err error) {
	if in == nil {
		return nil, model.NewValidationError("", "input is required")
	}
	if err := validate.Struct(in); err != nil {
		return nil, err
	}
	inst, err := u.Repos.Instance.Get(ctx, in.InstanceID)
	if err != nil {
		return nil, err
	}
	app, err := u.Repos.Application.Get(ctx, inst.ApplicationID)
	if err != nil {
		return nil, err
	}

	logger := logging.FromContext(ctx)
	msgSym := "Instance:Delete"
	logger.Info(ctx, msgSym+"/s", "instance", inst.ID, "application", app.Name)
	defer func() {
		if err == nil {
			logger.Info(ctx, msgSym+"/eok", "instance", inst.ID)
		} else {
			logger.Info(ctx, msgSym+"/efail", "instance", inst.ID, "err", err)
		}
	}()

	components, err := u.Repos.Component.ListByInstance(ctx, inst.ID)
	if err != nil {
		return nil, err
	}
	cuc := u.components()
	for _, c := range components {
		if _, err := cuc.Delete(ctx, &component.DeleteInput{ComponentID: c.ID}); err != nil {
			return nil, fmt.Errorf("delete component %s: %w", c.Name, err)
		}
	}
	if err := u.Repos.Instance.Delete(ctx, inst.ID); err != nil {
		return nil, err
	}

	clusters, err := u.Repos.Cluster.ListByEnvironment(ctx, inst.EnvironmentID)
	if err != nil {
		logger.Warn(ctx, msgSym+"/namespace", "err", err)
		return &DeleteOutput{}, nil
	}
	ns := naming.Namespace(app.Name)
	for _, cl := range clusters {
		if u.Connector == nil {
			break
		}
		api, err := u.Connector.Connect(ctx, cl)
		if err == nil {
			err = api.DeleteNamespace(ctx, ns)
		}
		if err != nil {
			logger.Warn(ctx, msgSym+"/namespace", "cluster", cl.Name, "namespace", ns, "err", err)
		}
	}
	return &DeleteOutput{}, nil
}
