// Package entity 定义领域实体
package entity

import (
	"time"
)

// Provider AI 提供商标识
type Provider string

const (
	ProviderOpenAI   Provider = "openai"
	ProviderDeepSeek Provider = "deepseek"
)

// Tone 描述文案语气
type Tone string

const (
	ToneProfessional Tone = "professional"
	ToneCasual       Tone = "casual"
	ToneEnthusiastic Tone = "enthusiastic"
	ToneLuxury       Tone = "luxury"
)

// ProviderLabels 提供商展示名
var ProviderLabels = map[Provider]string{
	ProviderOpenAI:   "OpenAI",
	ProviderDeepSeek: "DeepSeek",
}

// ToneLabels 语气展示名，渲染提示词时使用
var ToneLabels = map[Tone]string{
	ToneProfessional: "professional",
	ToneCasual:       "casual and friendly",
	ToneEnthusiastic: "enthusiastic and persuasive",
	ToneLuxury:       "sophisticated and premium",
}

// LanguageLabels 语言代码到人类可读名称的映射
var LanguageLabels = map[string]string{
	"zh-CN": "简体中文",
	"zh-TW": "繁體中文",
	"en-US": "English (US)",
	"en-GB": "English (UK)",
	"ja-JP": "日本語",
	"ko-KR": "한국어",
	"de-DE": "Deutsch",
	"fr-FR": "Français",
	"es-ES": "Español",
}

// Settings 生成设置，全局单行记录
type Settings struct {
	ID             uint      `json:"-" gorm:"primaryKey"`
	Provider       Provider  `json:"provider" gorm:"type:varchar(32);not null;default:'openai'"`
	APIKey         string    `json:"api_key" gorm:"type:varchar(256);not null;default:''"`
	Model          string    `json:"model" gorm:"type:varchar(64);not null;default:'gpt-4o-mini'"`
	OutputLanguage string    `json:"output_language" gorm:"type:varchar(16);not null;default:'zh-CN'"`
	Tone           Tone      `json:"tone" gorm:"type:varchar(32);not null;default:'professional'"`
	MaxLength      int       `json:"max_length" gorm:"not null;default:300"`
	IncludeSEO     bool      `json:"include_seo" gorm:"not null;default:true"`
	UpdatedAt      time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (Settings) TableName() string {
	return "generation_settings"
}

// SettingsID 单例记录的固定主键
const SettingsID uint = 1

// DefaultSettings 返回出厂默认设置
func DefaultSettings() *Settings {
	return &Settings{
		ID:             SettingsID,
		Provider:       ProviderOpenAI,
		Model:          "gpt-4o-mini",
		OutputLanguage: "zh-CN",
		Tone:           ToneProfessional,
		MaxLength:      300,
		IncludeSEO:     true,
	}
}

// IsValidProvider 检查提供商标识是否受支持
func IsValidProvider(p Provider) bool {
	_, ok := ProviderLabels[p]
	return ok
}

// IsValidTone 检查语气是否受支持
func IsValidTone(t Tone) bool {
	_, ok := ToneLabels[t]
	return ok
}

// LanguageName 解析语言代码为人类可读名称，未知代码原样返回
func LanguageName(code string) string {
	if name, ok := LanguageLabels[code]; ok {
		return name
	}
	return code
}

// ToneName 解析语气为人类可读名称，未知语气原样返回
func ToneName(t Tone) string {
	if name, ok := ToneLabels[t]; ok {
		return name
	}
	return string(t)
}

// HasAPIKey 检查是否已配置 API 密钥
func (s *Settings) HasAPIKey() bool {
	return s.APIKey != ""
}
