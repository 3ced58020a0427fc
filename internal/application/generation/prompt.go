// Package generation 提供商品描述生成的应用服务
package generation

import (
	"fmt"
	"regexp"
	"strings"

	"ai-product-desc-api/internal/domain/entity"
)

// DefaultPromptTemplate 默认提示词模板
// 占位符顺序：名称、分类、价格、属性、现有描述、语言、语气、长度、SEO 指令
const DefaultPromptTemplate = "You are an expert e-commerce copywriter. Generate a compelling product description based on the following information:\n\n" +
	"Product Name: %s\n" +
	"Category: %s\n" +
	"Price: %s\n" +
	"Attributes: %s\n" +
	"Existing Description: %s\n\n" +
	"Requirements:\n" +
	"- Language: %s\n" +
	"- Tone: %s\n" +
	"- Maximum Length: approximately %d characters\n" +
	"- %s\n" +
	"- Include key benefits and features\n" +
	"- Make it engaging and conversion-focused\n\n" +
	"Generate ONLY the product description, no additional text or explanations."

const (
	seoDirective         = "Include SEO-friendly keywords naturally"
	readabilityDirective = "Focus on readability over SEO"
)

var (
	tagPattern     = regexp.MustCompile(`<[^>]*>`)
	controlPattern = regexp.MustCompile(`[\x00-\x08\x0b\x0c\x0e-\x1f\x7f]`)
	spacePattern   = regexp.MustCompile(`\s+`)
)

// SanitizeField 清理文本字段：去除标记、控制字符并折叠空白
func SanitizeField(s string) string {
	s = tagPattern.ReplaceAllString(s, "")
	s = controlPattern.ReplaceAllString(s, "")
	s = spacePattern.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// PromptBuilder 提示词构建器，纯函数无内部状态
type PromptBuilder struct{}

// NewPromptBuilder 创建提示词构建器
func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

// Render 将商品快照与设置渲染进模板
// 相同输入始终产生相同输出
func (b *PromptBuilder) Render(template string, data *entity.ProductData, settings *entity.Settings) string {
	directive := readabilityDirective
	if settings.IncludeSEO {
		directive = seoDirective
	}

	return fmt.Sprintf(
		template,
		SanitizeField(data.Name),
		SanitizeField(data.Category),
		SanitizeField(data.Price),
		SanitizeField(data.Attributes),
		SanitizeField(data.ShortDescription),
		entity.LanguageName(settings.OutputLanguage),
		entity.ToneName(settings.Tone),
		settings.MaxLength,
		directive,
	)
}
