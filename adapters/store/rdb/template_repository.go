package rdb

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/kompox/shipyard/domain"
	"github.com/kompox/shipyard/domain/model"
	"gorm.io/gorm"
)

type TemplateRepository struct{ db *gorm.DB }

func NewTemplateRepository(db *gorm.DB) *TemplateRepository { return &TemplateRepository{db: db} }

func templateToRecord(t *model.Template) (*TemplateRecord, error) {
	schema, err := encodeJSON(t.VariablesSchema)
	if err != nil {
		return nil, fmt.Errorf("encode variables schema: %w", err)
	}
	return &TemplateRecord{
		ID:              t.ID,
		Name:            t.Name,
		Description:     t.Description,
		Category:        t.Category,
		Content:         t.Content,
		VariablesSchema: schema,
		CreatedAt:       t.CreatedAt,
		UpdatedAt:       t.UpdatedAt,
	}, nil
}
func templateToModel(r *TemplateRecord) (*model.Template, error) {
	t := &model.Template{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Category:    r.Category,
		Content:     r.Content,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
	if err := decodeJSON(r.VariablesSchema, &t.VariablesSchema); err != nil {
		return nil, fmt.Errorf("decode variables schema of template %s: %w", r.Name, err)
	}
	return t, nil
}

func (r *TemplateRepository) Create(ctx context.Context, t *model.Template) error {
	rec, err := templateToRecord(t)
	if err != nil {
		return err
	}
	if rec.ID == "" {
		rec.ID = "tmpl-" + uuid.NewString()
	}
	if err := r.db.WithContext(ctx).Create(rec).Error; err != nil {
		return translate(err, model.ErrTemplateNotFound)
	}
	t.ID, t.CreatedAt, t.UpdatedAt = rec.ID, rec.CreatedAt, rec.UpdatedAt
	return nil
}

func (r *TemplateRepository) Get(ctx context.Context, id string) (*model.Template, error) {
	var rec TemplateRecord
	if err := r.db.WithContext(ctx).First(&rec, "id = ?", id).Error; err != nil {
		return nil, translate(err, model.ErrTemplateNotFound)
	}
	return templateToModel(&rec)
}

func (r *TemplateRepository) GetByName(ctx context.Context, name string) (*model.Template, error) {
	var rec TemplateRecord
	if err := r.db.WithContext(ctx).First(&rec, "name = ?", name).Error; err != nil {
		return nil, translate(err, model.ErrTemplateNotFound)
	}
	return templateToModel(&rec)
}

func (r *TemplateRepository) List(ctx context.Context) ([]*model.Template, error) {
	var recs []TemplateRecord
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&recs).Error; err != nil {
		return nil, err
	}
	out := make([]*model.Template, 0, len(recs))
	for i := range recs {
		t, err := templateToModel(&recs[i])
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

func (r *TemplateRepository) Update(ctx context.Context, t *model.Template) error {
	rec, err := templateToRecord(t)
	if err != nil {
		return err
	}
	return updateAll(ctx, r.db, rec, t.ID, model.ErrTemplateNotFound)
}

func (r *TemplateRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.db, &TemplateRecord{}, id, model.ErrTemplateNotFound)
}

var _ domain.TemplateRepository = (*TemplateRepository)(nil)
