// Package repository 定义数据访问层接口
package repository

import (
	"context"

	"ai-product-desc-api/internal/domain/entity"
)

// ProductRepository 商品目录访问接口
type ProductRepository interface {
	// GetByID 根据 ID 获取商品，不存在时返回 nil
	GetByID(ctx context.Context, id string) (*entity.Product, error)

	// Create 创建商品
	Create(ctx context.Context, product *entity.Product) error

	// SaveDescription 将生成的描述写回指定字段
	SaveDescription(ctx context.Context, id string, description string, field entity.DescriptionField) error

	// ResolveTerm 将属性词条 ID 解析为展示名称，未知词条返回空串
	ResolveTerm(ctx context.Context, termID string) (string, error)
}
