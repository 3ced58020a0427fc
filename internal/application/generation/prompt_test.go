package generation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"ai-product-desc-api/internal/domain/entity"
)

func TestSanitizeField(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "Wireless Mouse", "Wireless Mouse"},
		{"strips tags", "<b>Wireless</b> <i>Mouse</i>", "Wireless Mouse"},
		{"strips script", `<script>alert("x")</script>hello`, `alert("x")hello`},
		{"strips control chars", "abc\x00\x01def", "abcdef"},
		{"collapses whitespace", "  a \t b\n\nc  ", "a b c"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeField(tt.input))
		})
	}
}

func testSettings() *entity.Settings {
	return &entity.Settings{
		Provider:       entity.ProviderOpenAI,
		APIKey:         "sk-test",
		Model:          "gpt-4o-mini",
		OutputLanguage: "en-US",
		Tone:           entity.ToneCasual,
		MaxLength:      300,
		IncludeSEO:     true,
	}
}

func testProductData() *entity.ProductData {
	return &entity.ProductData{
		ID:               "p1",
		Name:             "Trail Backpack",
		Category:         "Outdoor",
		Price:            "59.99",
		Attributes:       "Color: Green; Capacity: 30L",
		ShortDescription: "Light hiking pack",
	}
}

func TestRenderDeterministic(t *testing.T) {
	b := NewPromptBuilder()
	settings := testSettings()
	data := testProductData()

	first := b.Render(DefaultPromptTemplate, data, settings)
	second := b.Render(DefaultPromptTemplate, data, settings)
	assert.Equal(t, first, second)

	assert.Contains(t, first, "Product Name: Trail Backpack")
	assert.Contains(t, first, "Category: Outdoor")
	assert.Contains(t, first, "Price: 59.99")
	assert.Contains(t, first, "Attributes: Color: Green; Capacity: 30L")
	assert.Contains(t, first, "Existing Description: Light hiking pack")
	assert.Contains(t, first, "Language: English (US)")
	assert.Contains(t, first, "Tone: casual and friendly")
	assert.Contains(t, first, "approximately 300 characters")
}

func TestRenderSEODirective(t *testing.T) {
	b := NewPromptBuilder()
	data := testProductData()

	withSEO := testSettings()
	withSEO.IncludeSEO = true
	prompt := b.Render(DefaultPromptTemplate, data, withSEO)
	assert.Contains(t, prompt, "Include SEO-friendly keywords naturally")
	assert.NotContains(t, prompt, "Focus on readability over SEO")

	withoutSEO := testSettings()
	withoutSEO.IncludeSEO = false
	prompt = b.Render(DefaultPromptTemplate, data, withoutSEO)
	assert.Contains(t, prompt, "Focus on readability over SEO")
	assert.NotContains(t, prompt, "Include SEO-friendly keywords naturally")
}

func TestRenderSanitizesInputs(t *testing.T) {
	b := NewPromptBuilder()
	data := testProductData()
	data.Name = "<h1>Trail   Backpack</h1>"

	prompt := b.Render(DefaultPromptTemplate, data, testSettings())
	assert.Contains(t, prompt, "Product Name: Trail Backpack")
	assert.False(t, strings.Contains(prompt, "<h1>"))
}

func TestRenderUnknownLanguageAndTonePassThrough(t *testing.T) {
	b := NewPromptBuilder()
	settings := testSettings()
	settings.OutputLanguage = "pt-BR"
	settings.Tone = entity.Tone("quirky")

	prompt := b.Render(DefaultPromptTemplate, testProductData(), settings)
	assert.Contains(t, prompt, "Language: pt-BR")
	assert.Contains(t, prompt, "Tone: quirky")
}

func TestRenderCustomTemplate(t *testing.T) {
	b := NewPromptBuilder()
	template := "name=%s cat=%s price=%s attrs=%s desc=%s lang=%s tone=%s len=%d seo=%s"

	prompt := b.Render(template, testProductData(), testSettings())
	assert.Contains(t, prompt, "name=Trail Backpack")
	assert.Contains(t, prompt, "len=300")
}
