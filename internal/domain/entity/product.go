// Package entity 定义领域实体
package entity

import (
	"strings"
	"time"
)

// AttributeKind 商品属性值的形态
type AttributeKind string

const (
	// AttributeKindTerm 引用分类词条，需要解析成名称
	AttributeKindTerm AttributeKind = "term"
	// AttributeKindLiteral 自由文本值，直接展示
	AttributeKindLiteral AttributeKind = "literal"
)

// AttributeValue 单个属性值，term 与 literal 二选一
type AttributeValue struct {
	Kind   AttributeKind `json:"kind"`
	TermID string        `json:"term_id,omitempty"`
	Value  string        `json:"value,omitempty"`
}

// Attribute 商品属性，一个标签对应多个值
type Attribute struct {
	Label  string           `json:"label"`
	Values []AttributeValue `json:"values"`
}

// Product 商品实体
type Product struct {
	ID               string      `json:"id" gorm:"type:varchar(64);primaryKey"`
	Name             string      `json:"name" gorm:"type:varchar(256);not null"`
	Category         string      `json:"category" gorm:"type:varchar(128);not null;default:''"`
	Tags             string      `json:"tags" gorm:"type:varchar(512);not null;default:''"`
	Price            string      `json:"price" gorm:"type:varchar(32);not null;default:''"`
	SKU              string      `json:"sku" gorm:"type:varchar(64);not null;default:''"`
	Type             string      `json:"type" gorm:"type:varchar(32);not null;default:'simple'"`
	Weight           string      `json:"weight" gorm:"type:varchar(32);not null;default:''"`
	Dimensions       string      `json:"dimensions" gorm:"type:varchar(64);not null;default:''"`
	ShortDescription string      `json:"short_description" gorm:"type:text;not null;default:''"`
	Description      string      `json:"description" gorm:"type:text;not null;default:''"`
	Attributes       []Attribute `json:"attributes" gorm:"serializer:json"`
	CreatedAt        time.Time   `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt        time.Time   `json:"updated_at" gorm:"autoUpdateTime"`
}

func (Product) TableName() string {
	return "products"
}

// DescriptionField 描述写回的目标字段
type DescriptionField string

const (
	DescriptionFieldShort DescriptionField = "short"
	DescriptionFieldLong  DescriptionField = "long"
)

// IsValidDescriptionField 检查目标字段是否受支持
func IsValidDescriptionField(f DescriptionField) bool {
	return f == DescriptionFieldShort || f == DescriptionFieldLong
}

// ProductData 一次生成调用所见的商品快照
type ProductData struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Category         string `json:"category"`
	Tags             string `json:"tags"`
	Price            string `json:"price"`
	Attributes       string `json:"attributes"`
	ShortDescription string `json:"short_description"`
	Description      string `json:"description"`
	SKU              string `json:"sku"`
	Type             string `json:"type"`
	Weight           string `json:"weight"`
	Dimensions       string `json:"dimensions"`
}

// TermResolver 将词条 ID 解析为展示名称
type TermResolver func(termID string) string

// FlattenAttributes 将属性列表展开成 "标签: 值1, 值2" 的多段文本
func FlattenAttributes(attrs []Attribute, resolve TermResolver) string {
	if len(attrs) == 0 {
		return ""
	}

	parts := make([]string, 0, len(attrs))
	for _, attr := range attrs {
		values := make([]string, 0, len(attr.Values))
		for _, v := range attr.Values {
			switch v.Kind {
			case AttributeKindTerm:
				if resolve != nil {
					if name := resolve(v.TermID); name != "" {
						values = append(values, name)
					}
				}
			case AttributeKindLiteral:
				if v.Value != "" {
					values = append(values, v.Value)
				}
			}
		}
		if len(values) == 0 {
			continue
		}
		parts = append(parts, attr.Label+": "+strings.Join(values, ", "))
	}
	return strings.Join(parts, "; ")
}

// GenerationResult 一次成功生成的返回值，不持久化
type GenerationResult struct {
	Description string   `json:"description"`
	TokensUsed  int      `json:"tokens_used"`
	Model       string   `json:"model"`
	Provider    Provider `json:"provider"`
}
