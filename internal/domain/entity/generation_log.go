// Package entity 定义领域实体
package entity

import (
	"time"
)

// GenerationLog 生成尝试的审计日志条目，写入后不可变
type GenerationLog struct {
	ID           uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	ProductID    string    `json:"product_id" gorm:"type:varchar(64);index;not null"`
	UserID       string    `json:"user_id" gorm:"type:varchar(64);not null;default:''"`
	Provider     Provider  `json:"provider" gorm:"type:varchar(32);not null"`
	Model        string    `json:"model" gorm:"type:varchar(64);not null"`
	TokensUsed   int       `json:"tokens_used" gorm:"not null;default:0"`
	Success      bool      `json:"success" gorm:"not null;index"`
	ErrorMessage string    `json:"error_message" gorm:"type:varchar(512);not null;default:''"`
	ClientIP     string    `json:"client_ip" gorm:"type:varchar(64);not null;default:'unknown'"`
	CreatedAt    time.Time `json:"created_at" gorm:"autoCreateTime;index"`
}

func (GenerationLog) TableName() string {
	return "generation_logs"
}

// LogFilter 审计日志查询过滤条件
type LogFilter string

const (
	LogFilterAll     LogFilter = "all"
	LogFilterSuccess LogFilter = "success"
	LogFilterFailed  LogFilter = "failed"
)

// IsValidLogFilter 检查过滤条件是否受支持
func IsValidLogFilter(f LogFilter) bool {
	switch f {
	case LogFilterAll, LogFilterSuccess, LogFilterFailed:
		return true
	}
	return false
}
