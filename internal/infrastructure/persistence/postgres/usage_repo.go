// Package postgres 提供 PostgreSQL Repository 实现
package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"ai-product-desc-api/internal/domain/entity"
)

// UsageRepository 月度用量仓储实现
type UsageRepository struct {
	client *Client
}

// NewUsageRepository 创建月度用量仓储
func NewUsageRepository(client *Client) *UsageRepository {
	return &UsageRepository{client: client}
}

// Get 获取用量记录，记录不存在时返回 nil
func (r *UsageRepository) Get(ctx context.Context) (*entity.UsageRecord, error) {
	ctx, span := tracer.Start(ctx, "postgres.UsageRepository.Get")
	defer span.End()

	db := getDB(ctx, r.client.db)
	var record entity.UsageRecord
	if err := db.First(&record, "id = ?", entity.UsageRecordID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get usage record: %w", err)
	}
	return &record, nil
}

// Save 整体覆盖保存用量记录
func (r *UsageRepository) Save(ctx context.Context, record *entity.UsageRecord) error {
	ctx, span := tracer.Start(ctx, "postgres.UsageRepository.Save")
	defer span.End()

	record.ID = entity.UsageRecordID
	db := getDB(ctx, r.client.db)
	if err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(record).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to save usage record: %w", err)
	}
	return nil
}

// Delete 删除用量记录
func (r *UsageRepository) Delete(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "postgres.UsageRepository.Delete")
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Delete(&entity.UsageRecord{}, "id = ?", entity.UsageRecordID).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to delete usage record: %w", err)
	}
	return nil
}
