// Package dto 提供 HTTP 层数据传输对象
package dto

import (
	"time"

	"ai-product-desc-api/internal/domain/entity"
)

// SettingsResponse 设置响应，密钥只回显掩码
type SettingsResponse struct {
	Provider       string    `json:"provider"`
	APIKeySet      bool      `json:"api_key_set"`
	Model          string    `json:"model"`
	OutputLanguage string    `json:"output_language"`
	Tone           string    `json:"tone"`
	MaxLength      int       `json:"max_length"`
	IncludeSEO     bool      `json:"include_seo"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NewSettingsResponse 从实体构建设置响应
func NewSettingsResponse(s *entity.Settings) *SettingsResponse {
	return &SettingsResponse{
		Provider:       string(s.Provider),
		APIKeySet:      s.HasAPIKey(),
		Model:          s.Model,
		OutputLanguage: s.OutputLanguage,
		Tone:           string(s.Tone),
		MaxLength:      s.MaxLength,
		IncludeSEO:     s.IncludeSEO,
		UpdatedAt:      s.UpdatedAt,
	}
}

// UpdateSettingsRequest 设置更新请求，整体覆盖
type UpdateSettingsRequest struct {
	Provider       string `json:"provider" binding:"required"`
	APIKey         string `json:"api_key"`
	Model          string `json:"model" binding:"required"`
	OutputLanguage string `json:"output_language" binding:"required"`
	Tone           string `json:"tone" binding:"required"`
	MaxLength      int    `json:"max_length" binding:"required"`
	IncludeSEO     bool   `json:"include_seo"`
}

// ToEntity 转换为设置实体
func (r *UpdateSettingsRequest) ToEntity() *entity.Settings {
	return &entity.Settings{
		ID:             entity.SettingsID,
		Provider:       entity.Provider(r.Provider),
		APIKey:         r.APIKey,
		Model:          r.Model,
		OutputLanguage: r.OutputLanguage,
		Tone:           entity.Tone(r.Tone),
		MaxLength:      r.MaxLength,
		IncludeSEO:     r.IncludeSEO,
	}
}
