// Package postgres 提供 PostgreSQL Repository 实现
package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"ai-product-desc-api/internal/domain/entity"
)

// AttributeTerm 商品属性词条，term 类属性值引用的字典表
type AttributeTerm struct {
	ID   string `gorm:"type:varchar(64);primaryKey"`
	Name string `gorm:"type:varchar(128);not null"`
}

func (AttributeTerm) TableName() string {
	return "attribute_terms"
}

// ProductRepository 商品目录仓储实现
type ProductRepository struct {
	client *Client
}

// NewProductRepository 创建商品目录仓储
func NewProductRepository(client *Client) *ProductRepository {
	return &ProductRepository{client: client}
}

// GetByID 根据 ID 获取商品，不存在时返回 nil
func (r *ProductRepository) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	ctx, span := tracer.Start(ctx, "postgres.ProductRepository.GetByID")
	defer span.End()

	db := getDB(ctx, r.client.db)
	var product entity.Product
	if err := db.First(&product, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return &product, nil
}

// Create 创建商品
func (r *ProductRepository) Create(ctx context.Context, product *entity.Product) error {
	ctx, span := tracer.Start(ctx, "postgres.ProductRepository.Create")
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Create(product).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// SaveDescription 将生成的描述写回指定字段
func (r *ProductRepository) SaveDescription(ctx context.Context, id string, description string, field entity.DescriptionField) error {
	ctx, span := tracer.Start(ctx, "postgres.ProductRepository.SaveDescription")
	defer span.End()

	column := "description"
	if field == entity.DescriptionFieldShort {
		column = "short_description"
	}

	db := getDB(ctx, r.client.db)
	result := db.Model(&entity.Product{}).Where("id = ?", id).Update(column, description)
	if result.Error != nil {
		span.RecordError(result.Error)
		return fmt.Errorf("failed to save product description: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ResolveTerm 将属性词条 ID 解析为展示名称，未知词条返回空串
func (r *ProductRepository) ResolveTerm(ctx context.Context, termID string) (string, error) {
	ctx, span := tracer.Start(ctx, "postgres.ProductRepository.ResolveTerm")
	defer span.End()

	db := getDB(ctx, r.client.db)
	var term AttributeTerm
	if err := db.First(&term, "id = ?", termID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return "", nil
		}
		span.RecordError(err)
		return "", fmt.Errorf("failed to resolve attribute term: %w", err)
	}
	return term.Name, nil
}
