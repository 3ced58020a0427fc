// Package dto 提供 HTTP 层数据传输对象
package dto

import (
	"ai-product-desc-api/internal/application/generation"
)

// GenerateRequest 描述生成请求
type GenerateRequest struct {
	Keywords  string `json:"keywords"`
	WantShort bool   `json:"want_short"`
	WantLong  bool   `json:"want_long"`
}

// GenerateResponse 描述生成响应
// Usage 随每次成功生成返回，供前端即时刷新余量
type GenerateResponse struct {
	Description string                 `json:"description"`
	TokensUsed  int                    `json:"tokens_used"`
	Model       string                 `json:"model"`
	Provider    string                 `json:"provider"`
	Usage       *generation.UsageStats `json:"usage,omitempty"`
}

// SaveDescriptionRequest 描述写回请求
type SaveDescriptionRequest struct {
	Description string `json:"description" binding:"required"`
	Field       string `json:"field" binding:"required,oneof=short long"`
}

// TestConnectionRequest 连接测试请求
type TestConnectionRequest struct {
	Provider string `json:"provider" binding:"required"`
	APIKey   string `json:"api_key" binding:"required"`
}

// TestConnectionResponse 连接测试响应
type TestConnectionResponse struct {
	Connected bool `json:"connected"`
}
