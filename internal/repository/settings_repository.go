package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/giftwrap-jax/service-booking/internal/domain"
)

// SiteSettingModel is the GORM model for the site_settings key-value table.
type SiteSettingModel struct {
	Key       string    `gorm:"primaryKey;size:64"`
	Value     string    `gorm:"not null;size:255"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (SiteSettingModel) TableName() string {
	return "site_settings"
}

// GormSettingsRepository is the GORM-based implementation of SettingsRepository.
type GormSettingsRepository struct {
	db *gorm.DB
}

// NewGormSettingsRepository creates a new GormSettingsRepository.
func NewGormSettingsRepository(db *gorm.DB) *GormSettingsRepository {
	return &GormSettingsRepository{db: db}
}

// Get returns the stored value for key.
func (r *GormSettingsRepository) Get(ctx context.Context, key string) (string, error) {
	var model SiteSettingModel
	if err := r.db.WithContext(ctx).Where("key = ?", key).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", domain.NewNotFoundError("Setting", key)
		}
		return "", fmt.Errorf("failed to read setting %s: %w", key, err)
	}
	return model.Value, nil
}

// Set upserts the value under key.
func (r *GormSettingsRepository) Set(ctx context.Context, key, value string) error {
	model := SiteSettingModel{Key: key, Value: value, UpdatedAt: time.Now().UTC()}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&model).Error
	if err != nil {
		return fmt.Errorf("failed to write setting %s: %w", key, err)
	}
	return nil
}
