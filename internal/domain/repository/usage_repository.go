// Package repository 定义数据访问层接口
package repository

import (
	"context"

	"ai-product-desc-api/internal/domain/entity"
)

// UsageRepository 月度用量仓储接口，维护全局单行记录
type UsageRepository interface {
	// Get 获取用量记录，记录不存在时返回 nil
	Get(ctx context.Context) (*entity.UsageRecord, error)

	// Save 整体覆盖保存用量记录
	Save(ctx context.Context, record *entity.UsageRecord) error

	// Delete 删除用量记录，卸载时使用
	Delete(ctx context.Context) error
}
