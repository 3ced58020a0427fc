// Package dto 提供 HTTP 层数据传输对象
package dto

import (
	"time"

	"ai-product-desc-api/internal/domain/entity"
)

// LogEntry 审计日志条目
type LogEntry struct {
	ID           uint      `json:"id"`
	ProductID    string    `json:"product_id"`
	UserID       string    `json:"user_id,omitempty"`
	Provider     string    `json:"provider"`
	Model        string    `json:"model"`
	TokensUsed   int       `json:"tokens_used"`
	Success      bool      `json:"success"`
	ErrorMessage string    `json:"error_message,omitempty"`
	ClientIP     string    `json:"client_ip"`
	CreatedAt    time.Time `json:"created_at"`
}

// NewLogEntry 从实体构建日志条目
func NewLogEntry(log *entity.GenerationLog) *LogEntry {
	return &LogEntry{
		ID:           log.ID,
		ProductID:    log.ProductID,
		UserID:       log.UserID,
		Provider:     string(log.Provider),
		Model:        log.Model,
		TokensUsed:   log.TokensUsed,
		Success:      log.Success,
		ErrorMessage: log.ErrorMessage,
		ClientIP:     log.ClientIP,
		CreatedAt:    log.CreatedAt,
	}
}

// ListLogsQuery 日志查询参数
type ListLogsQuery struct {
	Filter   string `form:"filter,default=all"`
	Page     int    `form:"page,default=1"`
	PageSize int    `form:"page_size,default=20"`
}
