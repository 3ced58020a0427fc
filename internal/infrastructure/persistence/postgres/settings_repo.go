// Package postgres 提供 PostgreSQL Repository 实现
package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"ai-product-desc-api/internal/domain/entity"
)

// SettingsRepository 生成设置仓储实现
type SettingsRepository struct {
	client *Client
}

// NewSettingsRepository 创建生成设置仓储
func NewSettingsRepository(client *Client) *SettingsRepository {
	return &SettingsRepository{client: client}
}

// Get 获取设置，记录不存在时返回 nil
func (r *SettingsRepository) Get(ctx context.Context) (*entity.Settings, error) {
	ctx, span := tracer.Start(ctx, "postgres.SettingsRepository.Get")
	defer span.End()

	db := getDB(ctx, r.client.db)
	var settings entity.Settings
	if err := db.First(&settings, "id = ?", entity.SettingsID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}
	return &settings, nil
}

// Save 整体覆盖保存设置
func (r *SettingsRepository) Save(ctx context.Context, settings *entity.Settings) error {
	ctx, span := tracer.Start(ctx, "postgres.SettingsRepository.Save")
	defer span.End()

	settings.ID = entity.SettingsID
	db := getDB(ctx, r.client.db)
	if err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(settings).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}

// Delete 删除设置记录
func (r *SettingsRepository) Delete(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "postgres.SettingsRepository.Delete")
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Delete(&entity.Settings{}, "id = ?", entity.SettingsID).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to delete settings: %w", err)
	}
	return nil
}
