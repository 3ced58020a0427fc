// Package repository 定义数据访问层接口
package repository

import (
	"context"
	"time"

	"ai-product-desc-api/internal/domain/entity"
)

// LogRepository 生成审计日志仓储接口
type LogRepository interface {
	// Insert 追加一条日志
	Insert(ctx context.Context, log *entity.GenerationLog) error

	// TrimToCap 裁剪超出容量上限的最旧条目，返回删除数量
	TrimToCap(ctx context.Context, maxEntries int) (int64, error)

	// DeleteOlderThan 删除早于指定时间的条目，返回删除数量
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)

	// List 按时间倒序分页查询
	List(ctx context.Context, filter entity.LogFilter, pagination Pagination) (*PagedResult[*entity.GenerationLog], error)

	// Count 统计满足过滤条件的条目数
	Count(ctx context.Context, filter entity.LogFilter) (int64, error)

	// Clear 清空全部日志
	Clear(ctx context.Context) error
}
