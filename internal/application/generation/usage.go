// Package generation 提供商品描述生成的应用服务
package generation

import (
	"context"
	"sync"
	"time"

	"ai-product-desc-api/internal/domain/entity"
	"ai-product-desc-api/internal/domain/repository"
	"ai-product-desc-api/pkg/metrics"
)

// UnlimitedRemaining 付费档剩余次数的哨兵值
const UnlimitedRemaining = -1

// UsageStats 用量概览
type UsageStats struct {
	Month     string  `json:"month"`
	Used      int     `json:"used"`
	Limit     int     `json:"limit"`
	Remaining int     `json:"remaining"`
	Percent   float64 `json:"percent"`
	Unlimited bool    `json:"unlimited"`
}

// UsageService 月度用量计数服务
// 读取-检查-递增序列由互斥锁串行化，
// 跨月滚动在每次访问时惰性触发
type UsageService struct {
	repo  repository.UsageRepository
	hooks Hooks
	limit int

	mu  sync.Mutex
	now func() time.Time
}

// NewUsageService 创建用量计数服务
func NewUsageService(repo repository.UsageRepository, hooks Hooks, freeLimit int) *UsageService {
	if hooks == nil {
		hooks = NopHooks{}
	}
	return &UsageService{
		repo:  repo,
		hooks: hooks,
		limit: freeLimit,
		now:   time.Now,
	}
}

// load 获取当月记录，必要时先执行滚动重置
// 调用方必须持有 s.mu
func (s *UsageService) load(ctx context.Context) (*entity.UsageRecord, error) {
	record, err := s.repo.Get(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if record == nil {
		record = entity.NewUsageRecord(now)
		if err := s.repo.Save(ctx, record); err != nil {
			return nil, err
		}
	} else if record.IsStale(now) {
		record.Reset(now)
		if err := s.repo.Save(ctx, record); err != nil {
			return nil, err
		}
	}

	metrics.UsageCurrent.Set(float64(record.Count))
	return record, nil
}

// limitFor 解析当前生效的月度上限
func (s *UsageService) limitFor(ctx context.Context) int {
	return s.hooks.FreeUsageLimit(ctx, s.limit)
}

// CanGenerate 检查是否还允许生成
func (s *UsageService) CanGenerate(ctx context.Context) (bool, error) {
	if s.hooks.IsProActive(ctx) {
		return true, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	record, err := s.load(ctx)
	if err != nil {
		return false, err
	}
	return record.Count < s.limitFor(ctx), nil
}

// GetUsage 返回当月已用次数
func (s *UsageService) GetUsage(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, err := s.load(ctx)
	if err != nil {
		return 0, err
	}
	return record.Count, nil
}

// Increment 生成成功后递增计数，付费档为空操作
func (s *UsageService) Increment(ctx context.Context) error {
	if s.hooks.IsProActive(ctx) {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	record, err := s.load(ctx)
	if err != nil {
		return err
	}

	record.Count++
	if err := s.repo.Save(ctx, record); err != nil {
		return err
	}

	metrics.UsageCurrent.Set(float64(record.Count))
	return nil
}

// GetRemaining 返回剩余次数，付费档返回 UnlimitedRemaining
func (s *UsageService) GetRemaining(ctx context.Context) (int, error) {
	if s.hooks.IsProActive(ctx) {
		return UnlimitedRemaining, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	record, err := s.load(ctx)
	if err != nil {
		return 0, err
	}

	remaining := s.limitFor(ctx) - record.Count
	if remaining < 0 {
		remaining = 0
	}
	return remaining, nil
}

// Stats 返回用量概览
func (s *UsageService) Stats(ctx context.Context) (*UsageStats, error) {
	unlimited := s.hooks.IsProActive(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	record, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	limit := s.limitFor(ctx)
	stats := &UsageStats{
		Month:     record.Month,
		Used:      record.Count,
		Limit:     limit,
		Remaining: limit - record.Count,
		Unlimited: unlimited,
	}
	if stats.Remaining < 0 {
		stats.Remaining = 0
	}
	if unlimited {
		stats.Remaining = UnlimitedRemaining
	}
	if limit > 0 {
		stats.Percent = float64(record.Count) / float64(limit) * 100
		if stats.Percent > 100 {
			stats.Percent = 100
		}
	}
	return stats, nil
}
