// Package audit 提供生成审计日志的应用服务
package audit

import (
	"context"
	"time"

	"ai-product-desc-api/internal/domain/entity"
	"ai-product-desc-api/internal/domain/repository"
	apperrors "ai-product-desc-api/pkg/errors"
	"ai-product-desc-api/pkg/logger"
	"ai-product-desc-api/pkg/metrics"
)

// Recorder 生成审计日志服务
// 每次生成尝试写一条记录，超量裁剪与过期清理都在这里收口
type Recorder struct {
	repo          repository.LogRepository
	maxEntries    int
	retentionDays int
	now           func() time.Time
}

// NewRecorder 创建审计日志服务
func NewRecorder(repo repository.LogRepository, maxEntries, retentionDays int) *Recorder {
	return &Recorder{
		repo:          repo,
		maxEntries:    maxEntries,
		retentionDays: retentionDays,
		now:           time.Now,
	}
}

// Append 追加一条日志并裁剪到容量上限
// 写入失败不应掩盖调用方的原始错误，由调用方决定是否忽略
func (r *Recorder) Append(ctx context.Context, log *entity.GenerationLog) error {
	if log.ClientIP == "" {
		log.ClientIP = UnknownIP
	}

	if err := r.repo.Insert(ctx, log); err != nil {
		return apperrors.Wrap(err, apperrors.CodeDatabaseError, "failed to append generation log")
	}

	trimmed, err := r.repo.TrimToCap(ctx, r.maxEntries)
	if err != nil {
		// 裁剪失败不影响本次写入，下次追加会重试
		logger.Warn(ctx, "failed to trim generation logs", "error", err.Error())
		return nil
	}
	if trimmed > 0 {
		metrics.AuditLogPurgedTotal.Add(float64(trimmed))
	}
	return nil
}

// PurgeOlderThan 删除超过保留天数的条目，幂等
func (r *Recorder) PurgeOlderThan(ctx context.Context, days int) (int64, error) {
	cutoff := r.now().AddDate(0, 0, -days)
	purged, err := r.repo.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return 0, apperrors.Wrap(err, apperrors.CodeDatabaseError, "failed to purge generation logs")
	}
	if purged > 0 {
		metrics.AuditLogPurgedTotal.Add(float64(purged))
	}
	return purged, nil
}

// Query 按时间倒序分页查询
func (r *Recorder) Query(ctx context.Context, filter entity.LogFilter, pagination repository.Pagination) (*repository.PagedResult[*entity.GenerationLog], error) {
	if !entity.IsValidLogFilter(filter) {
		return nil, apperrors.ErrInvalidParam.WithDetail("filter must be one of: all, success, failed")
	}
	result, err := r.repo.List(ctx, filter, pagination)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "failed to query generation logs")
	}
	return result, nil
}

// Count 统计满足过滤条件的条目数
func (r *Recorder) Count(ctx context.Context, filter entity.LogFilter) (int64, error) {
	count, err := r.repo.Count(ctx, filter)
	if err != nil {
		return 0, apperrors.Wrap(err, apperrors.CodeDatabaseError, "failed to count generation logs")
	}
	return count, nil
}

// Clear 清空全部日志
func (r *Recorder) Clear(ctx context.Context) error {
	if err := r.repo.Clear(ctx); err != nil {
		return apperrors.Wrap(err, apperrors.CodeDatabaseError, "failed to clear generation logs")
	}
	return nil
}

// StartSweeper 启动后台清理协程，按固定间隔执行过期清理
// ctx 取消后退出
func (r *Recorder) StartSweeper(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				logger.Info(ctx, "audit log sweeper stopped")
				return
			case <-ticker.C:
				purged, err := r.PurgeOlderThan(ctx, r.retentionDays)
				if err != nil {
					logger.Error(ctx, "audit log sweep failed", err)
					continue
				}
				if purged > 0 {
					logger.Info(ctx, "audit log sweep completed", "purged", purged)
				}
			}
		}
	}()
}
