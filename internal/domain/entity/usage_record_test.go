package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMonthKey(t *testing.T) {
	assert.Equal(t, "2026-09", MonthKey(time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2026-01", MonthKey(time.Date(2026, 1, 31, 23, 59, 59, 0, time.UTC)))
}

func TestUsageRecordStale(t *testing.T) {
	record := NewUsageRecord(time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, "2026-08", record.Month)
	assert.Equal(t, 0, record.Count)

	assert.False(t, record.IsStale(time.Date(2026, 8, 31, 23, 59, 59, 0, time.UTC)))
	assert.True(t, record.IsStale(time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)))
	// 整年翻篇同样算跨月
	assert.True(t, record.IsStale(time.Date(2027, 8, 1, 0, 0, 0, 0, time.UTC)))
}

func TestUsageRecordReset(t *testing.T) {
	record := &UsageRecord{ID: UsageRecordID, Month: "2026-08", Count: 12}
	record.Reset(time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC))

	assert.Equal(t, "2026-09", record.Month)
	assert.Equal(t, 0, record.Count)
}
