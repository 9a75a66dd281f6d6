package rdb

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/kompox/shipyard/domain"
	"github.com/kompox/shipyard/domain/model"
	"gorm.io/gorm"
)

type SettingRepository struct{ db *gorm.DB }

func NewSettingRepository(db *gorm.DB) *SettingRepository { return &SettingRepository{db: db} }

func settingToModel(r *SettingRecord) (*model.Setting, error) {
	s := &model.Setting{
		ID:            r.ID,
		EnvironmentID: r.EnvironmentID,
		Key:           r.Key,
		Description:   r.Description,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
	if err := decodeJSON(r.Value, &s.Value); err != nil {
		return nil, fmt.Errorf("decode setting %s: %w", r.Key, err)
	}
	return s, nil
}

func (r *SettingRepository) Upsert(ctx context.Context, s *model.Setting) error {
	value, err := encodeJSON(s.Value)
	if err != nil {
		return fmt.Errorf("encode setting %s: %w", s.Key, err)
	}
	db := r.db.WithContext(ctx)
	var rec SettingRecord
	err = db.First(&rec, "environment_id = ? AND setting_key = ?", s.EnvironmentID, s.Key).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		rec = SettingRecord{
			ID:            "set-" + uuid.NewString(),
			EnvironmentID: s.EnvironmentID,
			Key:           s.Key,
			Value:         value,
			Description:   s.Description,
		}
		if err := db.Create(&rec).Error; err != nil {
			return translate(err, model.ErrSettingNotFound)
		}
	case err != nil:
		return err
	default:
		rec.Value = value
		rec.Description = s.Description
		if err := updateAll(ctx, r.db, &rec, rec.ID, model.ErrSettingNotFound); err != nil {
			return err
		}
	}
	s.ID, s.CreatedAt, s.UpdatedAt = rec.ID, rec.CreatedAt, rec.UpdatedAt
	return nil
}

func (r *SettingRepository) Get(ctx context.Context, environmentID, key string) (*model.Setting, error) {
	var rec SettingRecord
	if err := r.db.WithContext(ctx).First(&rec, "environment_id = ? AND setting_key = ?", environmentID, key).Error; err != nil {
		return nil, translate(err, model.ErrSettingNotFound)
	}
	return settingToModel(&rec)
}

func (r *SettingRepository) ListByEnvironment(ctx context.Context, environmentID string) ([]*model.Setting, error) {
	var recs []SettingRecord
	if err := r.db.WithContext(ctx).Where("environment_id = ?", environmentID).Order("setting_key ASC").Find(&recs).Error; err != nil {
		return nil, err
	}
	out := make([]*model.Setting, 0, len(recs))
	for i := range recs {
		s, err := settingToModel(&recs[i])
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func (r *SettingRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.db, &SettingRecord{}, id, model.ErrSettingNotFound)
}

var _ domain.SettingRepository = (*SettingRepository)(nil)
