// Package postgres 提供 PostgreSQL Repository 实现
package postgres

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"ai-product-desc-api/internal/domain/entity"
	"ai-product-desc-api/internal/domain/repository"
)

// LogRepository 生成审计日志仓储实现
type LogRepository struct {
	client *Client
}

// NewLogRepository 创建生成审计日志仓储
func NewLogRepository(client *Client) *LogRepository {
	return &LogRepository{client: client}
}

// Insert 追加一条日志
func (r *LogRepository) Insert(ctx context.Context, log *entity.GenerationLog) error {
	ctx, span := tracer.Start(ctx, "postgres.LogRepository.Insert")
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Create(log).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to insert generation log: %w", err)
	}
	return nil
}

// TrimToCap 裁剪超出容量上限的最旧条目
func (r *LogRepository) TrimToCap(ctx context.Context, maxEntries int) (int64, error) {
	ctx, span := tracer.Start(ctx, "postgres.LogRepository.TrimToCap")
	defer span.End()

	db := getDB(ctx, r.client.db)
	result := db.Exec(
		`DELETE FROM generation_logs WHERE id NOT IN (
			SELECT id FROM generation_logs ORDER BY created_at DESC, id DESC LIMIT ?
		)`, maxEntries)
	if result.Error != nil {
		span.RecordError(result.Error)
		return 0, fmt.Errorf("failed to trim generation logs: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// DeleteOlderThan 删除早于指定时间的条目
func (r *LogRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	ctx, span := tracer.Start(ctx, "postgres.LogRepository.DeleteOlderThan")
	defer span.End()

	db := getDB(ctx, r.client.db)
	result := db.Where("created_at < ?", cutoff).Delete(&entity.GenerationLog{})
	if result.Error != nil {
		span.RecordError(result.Error)
		return 0, fmt.Errorf("failed to delete stale generation logs: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// List 按时间倒序分页查询
func (r *LogRepository) List(ctx context.Context, filter entity.LogFilter, pagination repository.Pagination) (*repository.PagedResult[*entity.GenerationLog], error) {
	ctx, span := tracer.Start(ctx, "postgres.LogRepository.List")
	defer span.End()

	db := getDB(ctx, r.client.db)
	query := applyLogFilter(db.Model(&entity.GenerationLog{}), filter)

	// 获取总数
	var total int64
	if err := query.Count(&total).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to count generation logs: %w", err)
	}

	// 获取列表
	var logs []*entity.GenerationLog
	if err := query.Order("created_at DESC, id DESC").
		Offset(pagination.Offset()).
		Limit(pagination.Limit()).
		Find(&logs).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list generation logs: %w", err)
	}

	return repository.NewPagedResult(logs, total, pagination), nil
}

// Count 统计满足过滤条件的条目数
func (r *LogRepository) Count(ctx context.Context, filter entity.LogFilter) (int64, error) {
	ctx, span := tracer.Start(ctx, "postgres.LogRepository.Count")
	defer span.End()

	db := getDB(ctx, r.client.db)
	var total int64
	if err := applyLogFilter(db.Model(&entity.GenerationLog{}), filter).Count(&total).Error; err != nil {
		span.RecordError(err)
		return 0, fmt.Errorf("failed to count generation logs: %w", err)
	}
	return total, nil
}

// Clear 清空全部日志
func (r *LogRepository) Clear(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "postgres.LogRepository.Clear")
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Where("1 = 1").Delete(&entity.GenerationLog{}).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to clear generation logs: %w", err)
	}
	return nil
}

// applyLogFilter 应用成功/失败过滤条件
func applyLogFilter(db *gorm.DB, filter entity.LogFilter) *gorm.DB {
	switch filter {
	case entity.LogFilterSuccess:
		return db.Where("success = ?", true)
	case entity.LogFilterFailed:
		return db.Where("success = ?", false)
	}
	return db
}
