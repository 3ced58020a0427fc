// Package generation 提供商品描述生成的应用服务
package generation

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"ai-product-desc-api/internal/domain/entity"
	"ai-product-desc-api/internal/domain/repository"
	"ai-product-desc-api/internal/infrastructure/persistence/redis"
	apperrors "ai-product-desc-api/pkg/errors"
	"ai-product-desc-api/pkg/logger"
)

// MaxLengthFloor 与 MaxLengthCeil 限定描述长度设置的取值区间
const (
	MaxLengthFloor = 50
	MaxLengthCeil  = 2000
)

// SettingsOption 设置项的可选值
type SettingsOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// SettingsOptions 设置表单的可选值目录
type SettingsOptions struct {
	Providers []SettingsOption `json:"providers"`
	Tones     []SettingsOption `json:"tones"`
	Languages []SettingsOption `json:"languages"`
}

// SettingsService 生成设置服务，读路径带缓存
type SettingsService struct {
	repo  repository.SettingsRepository
	cache *redis.Cache
	ttl   time.Duration
}

// NewSettingsService 创建生成设置服务
// cache 可为 nil，此时直连仓储
func NewSettingsService(repo repository.SettingsRepository, cache *redis.Cache, ttl time.Duration) *SettingsService {
	return &SettingsService{
		repo:  repo,
		cache: cache,
		ttl:   ttl,
	}
}

// Get 获取当前设置，记录缺失时返回出厂默认值
func (s *SettingsService) Get(ctx context.Context) (*entity.Settings, error) {
	if s.cache == nil {
		return s.loadFromRepo(ctx)
	}

	data, err := s.cache.GetOrLoadSafe(ctx, redis.KeySettings, s.ttl, func() (interface{}, error) {
		return s.loadFromRepo(ctx)
	})
	if err != nil {
		// 缓存故障时退化为直连仓储
		logger.Warn(ctx, "settings cache unavailable, falling back to repository", "error", err.Error())
		return s.loadFromRepo(ctx)
	}

	var settings entity.Settings
	if err := json.Unmarshal(data, &settings); err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeCacheError, "failed to decode cached settings")
	}
	return &settings, nil
}

func (s *SettingsService) loadFromRepo(ctx context.Context) (*entity.Settings, error) {
	settings, err := s.repo.Get(ctx)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "failed to load settings")
	}
	if settings == nil {
		return entity.DefaultSettings(), nil
	}
	return settings, nil
}

// Update 校验并整体保存设置，随后使缓存失效
func (s *SettingsService) Update(ctx context.Context, settings *entity.Settings) error {
	if err := validateSettings(settings); err != nil {
		return err
	}

	if err := s.repo.Save(ctx, settings); err != nil {
		return apperrors.Wrap(err, apperrors.CodeDatabaseError, "failed to save settings")
	}

	if s.cache != nil {
		if err := s.cache.InvalidateSettings(ctx); err != nil {
			// 失效失败只记日志，TTL 会兜底
			logger.Warn(ctx, "failed to invalidate settings cache", "error", err.Error())
		}
	}
	return nil
}

// Delete 删除设置记录，卸载时使用
func (s *SettingsService) Delete(ctx context.Context) error {
	if err := s.repo.Delete(ctx); err != nil {
		return apperrors.Wrap(err, apperrors.CodeDatabaseError, "failed to delete settings")
	}
	if s.cache != nil {
		if err := s.cache.InvalidateSettings(ctx); err != nil {
			logger.Warn(ctx, "failed to invalidate settings cache", "error", err.Error())
		}
	}
	return nil
}

// Options 返回设置表单的可选值目录
func (s *SettingsService) Options() *SettingsOptions {
	opts := &SettingsOptions{}
	for _, p := range []entity.Provider{entity.ProviderOpenAI, entity.ProviderDeepSeek} {
		opts.Providers = append(opts.Providers, SettingsOption{Value: string(p), Label: entity.ProviderLabels[p]})
	}
	for _, t := range []entity.Tone{entity.ToneProfessional, entity.ToneCasual, entity.ToneEnthusiastic, entity.ToneLuxury} {
		opts.Tones = append(opts.Tones, SettingsOption{Value: string(t), Label: entity.ToneLabels[t]})
	}
	for _, code := range []string{"zh-CN", "zh-TW", "en-US", "en-GB", "ja-JP", "ko-KR", "de-DE", "fr-FR", "es-ES"} {
		opts.Languages = append(opts.Languages, SettingsOption{Value: code, Label: entity.LanguageLabels[code]})
	}
	return opts
}

func validateSettings(settings *entity.Settings) error {
	if !entity.IsValidProvider(settings.Provider) {
		return apperrors.ErrInvalidProvider.WithDetail(fmt.Sprintf("unknown provider: %s", settings.Provider))
	}
	if !entity.IsValidTone(settings.Tone) {
		return apperrors.ErrInvalidParam.WithDetail(fmt.Sprintf("unknown tone: %s", settings.Tone))
	}
	if _, ok := entity.LanguageLabels[settings.OutputLanguage]; !ok {
		return apperrors.ErrInvalidParam.WithDetail(fmt.Sprintf("unsupported language: %s", settings.OutputLanguage))
	}
	if settings.MaxLength < MaxLengthFloor || settings.MaxLength > MaxLengthCeil {
		return apperrors.ErrInvalidParam.WithDetail(
			fmt.Sprintf("max_length must be between %d and %d", MaxLengthFloor, MaxLengthCeil))
	}
	if settings.Model == "" {
		return apperrors.ErrInvalidParam.WithDetail("model must not be empty")
	}
	return nil
}
