package rdb

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/kompox/shipyard/domain"
	"github.com/kompox/shipyard/domain/model"
	"gorm.io/gorm"
)

type ComponentRepository struct{ db *gorm.DB }

func NewComponentRepository(db *gorm.DB) *ComponentRepository { return &ComponentRepository{db: db} }

func componentToRecord(c *model.Component) (*ComponentRecord, error) {
	settings, err := encodeJSON(c.Settings)
	if err != nil {
		return nil, fmt.Errorf("encode settings: %w", err)
	}
	var url *string
	if c.URL != nil && *c.URL != "" {
		u := *c.URL
		url = &u
	}
	return &ComponentRecord{
		ID:         c.ID,
		InstanceID: c.InstanceID,
		Name:       c.Name,
		Type:       string(c.Type),
		Settings:   settings,
		URL:        url,
		Enabled:    c.Enabled,
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  c.UpdatedAt,
	}, nil
}
func componentToModel(r *ComponentRecord) (*model.Component, error) {
	c := &model.Component{
		ID:         r.ID,
		InstanceID: r.InstanceID,
		Name:       r.Name,
		Type:       model.ComponentType(r.Type),
		URL:        r.URL,
		Enabled:    r.Enabled,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
	if err := decodeJSON(r.Settings, &c.Settings); err != nil {
		return nil, fmt.Errorf("decode settings of component %s: %w", r.ID, err)
	}
	if c.Settings == nil {
		c.Settings = map[string]any{}
	}
	return c, nil
}

func (r *ComponentRepository) Create(ctx context.Context, c *model.Component) error {
	rec, err := componentToRecord(c)
	if err != nil {
		return err
	}
	if rec.ID == "" {
		rec.ID = "comp-" + uuid.NewString()
	}
	if err := r.db.WithContext(ctx).Create(rec).Error; err != nil {
		return translate(err, model.ErrComponentNotFound)
	}
	c.ID, c.CreatedAt, c.UpdatedAt = rec.ID, rec.CreatedAt, rec.UpdatedAt
	return nil
}

func (r *ComponentRepository) Get(ctx context.Context, id string) (*model.Component, error) {
	var rec ComponentRecord
	if err := r.db.WithContext(ctx).First(&rec, "id = ?", id).Error; err != nil {
		return nil, translate(err, model.ErrComponentNotFound)
	}
	return componentToModel(&rec)
}

func (r *ComponentRepository) ListByInstance(ctx context.Context, instanceID string) ([]*model.Component, error) {
	var recs []ComponentRecord
	if err := r.db.WithContext(ctx).Where("instance_id = ?", instanceID).Order("created_at ASC").Find(&recs).Error; err != nil {
		return nil, err
	}
	out := make([]*model.Component, 0, len(recs))
	for i := range recs {
		c, err := componentToModel(&recs[i])
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

func (r *ComponentRepository) Update(ctx context.Context, c *model.Component) error {
	rec, err := componentToRecord(c)
	if err != nil {
		return err
	}
	return updateAll(ctx, r.db, rec, c.ID, model.ErrComponentNotFound)
}

func (r *ComponentRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.db, &ComponentRecord{}, id, model.ErrComponentNotFound)
}

var _ domain.ComponentRepository = (*ComponentRepository)(nil)
