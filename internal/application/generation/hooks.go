// Package generation 提供商品描述生成的应用服务
package generation

import (
	"context"

	"ai-product-desc-api/internal/domain/entity"
	"ai-product-desc-api/internal/infrastructure/llm"
)

// Hooks 生成流水线的类型化扩展点
// 所有方法都有透传默认实现，外部策略按需覆盖
type Hooks interface {
	// BeforeGenerate 在流水线启动前调用，返回错误可中止生成
	BeforeGenerate(ctx context.Context, productID string, data *entity.ProductData) error

	// FilterProductData 改写进入提示词的商品快照
	FilterProductData(ctx context.Context, data *entity.ProductData) *entity.ProductData

	// FilterPromptTemplate 改写提示词模板
	FilterPromptTemplate(ctx context.Context, template string) string

	// FilterPrompt 改写渲染后的最终提示词
	FilterPrompt(ctx context.Context, prompt string, data *entity.ProductData) string

	// FilterRequest 改写发送给提供商的请求体
	FilterRequest(ctx context.Context, req *llm.ChatRequest) *llm.ChatRequest

	// FilterResponse 改写提供商返回的原始结果
	FilterResponse(ctx context.Context, result *llm.ChatResult) *llm.ChatResult

	// FilterDescription 改写最终返回给调用方的描述文本
	FilterDescription(ctx context.Context, description string, data *entity.ProductData) string

	// OnUsageLimitReached 用量触顶时的通知侧信道
	OnUsageLimitReached(ctx context.Context, used, limit int)

	// IsProActive 付费档开关，true 时不限用量
	IsProActive(ctx context.Context) bool

	// FreeUsageLimit 免费档月度上限，可覆盖配置值
	FreeUsageLimit(ctx context.Context, fallback int) int
}

// NopHooks 全透传的默认实现，可嵌入后按需覆盖单个扩展点
type NopHooks struct{}

var _ Hooks = NopHooks{}

func (NopHooks) BeforeGenerate(ctx context.Context, productID string, data *entity.ProductData) error {
	return nil
}

func (NopHooks) FilterProductData(ctx context.Context, data *entity.ProductData) *entity.ProductData {
	return data
}

func (NopHooks) FilterPromptTemplate(ctx context.Context, template string) string {
	return template
}

func (NopHooks) FilterPrompt(ctx context.Context, prompt string, data *entity.ProductData) string {
	return prompt
}

func (NopHooks) FilterRequest(ctx context.Context, req *llm.ChatRequest) *llm.ChatRequest {
	return req
}

func (NopHooks) FilterResponse(ctx context.Context, result *llm.ChatResult) *llm.ChatResult {
	return result
}

func (NopHooks) FilterDescription(ctx context.Context, description string, data *entity.ProductData) string {
	return description
}

func (NopHooks) OnUsageLimitReached(ctx context.Context, used, limit int) {}

func (NopHooks) IsProActive(ctx context.Context) bool {
	return false
}

func (NopHooks) FreeUsageLimit(ctx context.Context, fallback int) int {
	return fallback
}
