package generation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ai-product-desc-api/internal/domain/entity"
	apperrors "ai-product-desc-api/pkg/errors"
)

func validSettings() *entity.Settings {
	return &entity.Settings{
		ID:             entity.SettingsID,
		Provider:       entity.ProviderDeepSeek,
		APIKey:         "sk-test",
		Model:          "deepseek-chat",
		OutputLanguage: "en-US",
		Tone:           entity.ToneLuxury,
		MaxLength:      500,
		IncludeSEO:     false,
	}
}

func TestSettingsGetReturnsDefaultsWhenMissing(t *testing.T) {
	svc := NewSettingsService(&memSettingsRepo{}, nil, 0)

	settings, err := svc.Get(context.Background())
	require.NoError(t, err)

	assert.Equal(t, entity.ProviderOpenAI, settings.Provider)
	assert.Equal(t, "gpt-4o-mini", settings.Model)
	assert.Equal(t, "zh-CN", settings.OutputLanguage)
	assert.Equal(t, 300, settings.MaxLength)
	assert.True(t, settings.IncludeSEO)
	assert.False(t, settings.HasAPIKey())
}

func TestSettingsUpdatePersists(t *testing.T) {
	repo := &memSettingsRepo{}
	svc := NewSettingsService(repo, nil, 0)
	ctx := context.Background()

	require.NoError(t, svc.Update(ctx, validSettings()))

	stored, err := svc.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, entity.ProviderDeepSeek, stored.Provider)
	assert.Equal(t, "deepseek-chat", stored.Model)
	assert.Equal(t, 500, stored.MaxLength)
}

func TestSettingsUpdateValidation(t *testing.T) {
	svc := NewSettingsService(&memSettingsRepo{}, nil, 0)
	ctx := context.Background()

	tests := []struct {
		name     string
		mutate   func(*entity.Settings)
		wantCode apperrors.ErrorCode
	}{
		{"unknown provider", func(s *entity.Settings) { s.Provider = "claude" }, apperrors.CodeInvalidProvider},
		{"unknown tone", func(s *entity.Settings) { s.Tone = "sleepy" }, apperrors.CodeInvalidParam},
		{"unsupported language", func(s *entity.Settings) { s.OutputLanguage = "xx-XX" }, apperrors.CodeInvalidParam},
		{"max length too small", func(s *entity.Settings) { s.MaxLength = 10 }, apperrors.CodeInvalidParam},
		{"max length too large", func(s *entity.Settings) { s.MaxLength = 5000 }, apperrors.CodeInvalidParam},
		{"empty model", func(s *entity.Settings) { s.Model = "" }, apperrors.CodeInvalidParam},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			settings := validSettings()
			tt.mutate(settings)
			err := svc.Update(ctx, settings)
			assert.True(t, apperrors.IsCode(err, tt.wantCode))
		})
	}
}

func TestSettingsDelete(t *testing.T) {
	repo := &memSettingsRepo{settings: validSettings()}
	svc := NewSettingsService(repo, nil, 0)
	ctx := context.Background()

	require.NoError(t, svc.Delete(ctx))
	assert.Nil(t, repo.settings)

	// 删除后读取回落到出厂默认
	settings, err := svc.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, entity.ProviderOpenAI, settings.Provider)
}

func TestSettingsOptionsCatalog(t *testing.T) {
	svc := NewSettingsService(&memSettingsRepo{}, nil, 0)

	opts := svc.Options()
	assert.Len(t, opts.Providers, 2)
	assert.Len(t, opts.Tones, 4)
	assert.Len(t, opts.Languages, 9)
	assert.Equal(t, "openai", opts.Providers[0].Value)
	assert.Equal(t, "OpenAI", opts.Providers[0].Label)
}
