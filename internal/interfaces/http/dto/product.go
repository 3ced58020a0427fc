// Package dto 提供 HTTP 层数据传输对象
package dto

import (
	"time"

	"ai-product-desc-api/internal/domain/entity"
)

// ProductResponse 商品响应
type ProductResponse struct {
	ID               string             `json:"id"`
	Name             string             `json:"name"`
	Category         string             `json:"category"`
	Tags             string             `json:"tags,omitempty"`
	Price            string             `json:"price"`
	SKU              string             `json:"sku,omitempty"`
	Type             string             `json:"type"`
	Weight           string             `json:"weight,omitempty"`
	Dimensions       string             `json:"dimensions,omitempty"`
	ShortDescription string             `json:"short_description"`
	Description      string             `json:"description"`
	Attributes       []entity.Attribute `json:"attributes,omitempty"`
	UpdatedAt        time.Time          `json:"updated_at"`
}

// NewProductResponse 从实体构建商品响应
func NewProductResponse(p *entity.Product) *ProductResponse {
	return &ProductResponse{
		ID:               p.ID,
		Name:             p.Name,
		Category:         p.Category,
		Tags:             p.Tags,
		Price:            p.Price,
		SKU:              p.SKU,
		Type:             p.Type,
		Weight:           p.Weight,
		Dimensions:       p.Dimensions,
		ShortDescription: p.ShortDescription,
		Description:      p.Description,
		Attributes:       p.Attributes,
		UpdatedAt:        p.UpdatedAt,
	}
}
