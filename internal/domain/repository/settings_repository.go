// Package repository 定义数据访问层接口
package repository

import (
	"context"

	"ai-product-desc-api/internal/domain/entity"
)

// SettingsRepository 生成设置仓储接口，维护全局单行记录
type SettingsRepository interface {
	// Get 获取设置，记录不存在时返回 nil
	Get(ctx context.Context) (*entity.Settings, error)

	// Save 整体覆盖保存设置
	Save(ctx context.Context, settings *entity.Settings) error

	// Delete 删除设置记录，卸载时使用
	Delete(ctx context.Context) error
}
