// Package entity 定义领域实体
package entity

import (
	"time"
)

// MonthKeyLayout 月份键格式
const MonthKeyLayout = "2006-01"

// UsageRecord 月度用量记录，全局单行
// count 始终只对 month 字段对应的自然月有效，
// 跨月访问时由服务层先执行滚动重置
type UsageRecord struct {
	ID        uint      `json:"-" gorm:"primaryKey"`
	Month     string    `json:"month" gorm:"type:varchar(7);not null"`
	Count     int       `json:"count" gorm:"not null;default:0"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (UsageRecord) TableName() string {
	return "usage_records"
}

// UsageRecordID 单例记录的固定主键
const UsageRecordID uint = 1

// MonthKey 返回某时刻对应的月份键
func MonthKey(t time.Time) string {
	return t.Format(MonthKeyLayout)
}

// NewUsageRecord 创建当月的空用量记录
func NewUsageRecord(now time.Time) *UsageRecord {
	return &UsageRecord{
		ID:    UsageRecordID,
		Month: MonthKey(now),
		Count: 0,
	}
}

// IsStale 检查记录是否已跨月
func (r *UsageRecord) IsStale(now time.Time) bool {
	return r.Month != MonthKey(now)
}

// Reset 将记录滚动到 now 对应的月份并清零计数
func (r *UsageRecord) Reset(now time.Time) {
	r.Month = MonthKey(now)
	r.Count = 0
}
