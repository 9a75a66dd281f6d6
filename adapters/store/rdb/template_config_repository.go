package rdb

import (
	"context"

	"github.com/google/uuid"
	"github.com/kompox/shipyard/domain"
	"github.com/kompox/shipyard/domain/model"
	"gorm.io/gorm"
)

type TemplateConfigRepository struct{ db *gorm.DB }

func NewTemplateConfigRepository(db *gorm.DB) *TemplateConfigRepository {
	return &TemplateConfigRepository{db: db}
}

func templateConfigToRecord(c *model.ComponentTemplateConfig) *TemplateConfigRecord {
	return &TemplateConfigRecord{
		ID:            c.ID,
		ComponentType: string(c.ComponentType),
		TemplateID:    c.TemplateID,
		RenderOrder:   c.RenderOrder,
		Enabled:       c.Enabled,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
}
func templateConfigToModel(r *TemplateConfigRecord) *model.ComponentTemplateConfig {
	return &model.ComponentTemplateConfig{
		ID:            r.ID,
		ComponentType: model.ComponentType(r.ComponentType),
		TemplateID:    r.TemplateID,
		RenderOrder:   r.RenderOrder,
		Enabled:       r.Enabled,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}

func (r *TemplateConfigRepository) Create(ctx context.Context, c *model.ComponentTemplateConfig) error {
	rec := templateConfigToRecord(c)
	if rec.ID == "" {
		rec.ID = "tcfg-" + uuid.NewString()
	}
	if err := r.db.WithContext(ctx).Create(rec).Error; err != nil {
		return translate(err, model.ErrTemplateConfigNotFound)
	}
	*c = *templateConfigToModel(rec)
	return nil
}

func (r *TemplateConfigRepository) Get(ctx context.Context, id string) (*model.ComponentTemplateConfig, error) {
	var rec TemplateConfigRecord
	if err := r.db.WithContext(ctx).First(&rec, "id = ?", id).Error; err != nil {
		return nil, translate(err, model.ErrTemplateConfigNotFound)
	}
	return templateConfigToModel(&rec), nil
}

func (r *TemplateConfigRepository) ListByComponentType(ctx context.Context, t model.ComponentType) ([]*model.ComponentTemplateConfig, error) {
	return r.find(r.db.WithContext(ctx).Where("component_type = ?", string(t)))
}

func (r *TemplateConfigRepository) ListByTemplate(ctx context.Context, templateID string) ([]*model.ComponentTemplateConfig, error) {
	return r.find(r.db.WithContext(ctx).Where("template_id = ?", templateID))
}

func (r *TemplateConfigRepository) find(q *gorm.DB) ([]*model.ComponentTemplateConfig, error) {
	var recs []TemplateConfigRecord
	if err := q.Order("render_order ASC").Order("created_at ASC").Find(&recs).Error; err != nil {
		return nil, err
	}
	out := make([]*model.ComponentTemplateConfig, 0, len(recs))
	for i := range recs {
		out = append(out, templateConfigToModel(&recs[i]))
	}
	return out, nil
}

func (r *TemplateConfigRepository) Update(ctx context.Context, c *model.ComponentTemplateConfig) error {
	return updateAll(ctx, r.db, templateConfigToRecord(c), c.ID, model.ErrTemplateConfigNotFound)
}

func (r *TemplateConfigRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.db, &TemplateConfigRecord{}, id, model.ErrTemplateConfigNotFound)
}

var _ domain.TemplateConfigRepository = (*TemplateConfigRepository)(nil)
