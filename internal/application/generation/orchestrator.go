// Package generation 提供商品描述生成的应用服务
package generation

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"ai-product-desc-api/internal/application/audit"
	"ai-product-desc-api/internal/domain/entity"
	"ai-product-desc-api/internal/domain/repository"
	"ai-product-desc-api/internal/infrastructure/llm"
	apperrors "ai-product-desc-api/pkg/errors"
	"ai-product-desc-api/pkg/logger"
	"ai-product-desc-api/pkg/metrics"
)

var tracer = otel.Tracer("generation")

// ProviderClient AI 提供商客户端接口，便于测试替换
type ProviderClient interface {
	BuildRequest(model, prompt string) *llm.ChatRequest
	Generate(ctx context.Context, provider entity.Provider, apiKey string, req *llm.ChatRequest) (*llm.ChatResult, error)
	TestConnection(ctx context.Context, provider entity.Provider, apiKey string) error
}

// GenerateInput 一次生成请求的入参
type GenerateInput struct {
	ProductID string
	Keywords  string
	WantShort bool
	WantLong  bool
	UserID    string
	ClientIP  string
}

// Orchestrator 生成流水线编排器
// 依赖全部显式注入，不读任何全局状态
type Orchestrator struct {
	settings *SettingsService
	usage    *UsageService
	products repository.ProductRepository
	prompts  *PromptBuilder
	client   ProviderClient
	recorder *audit.Recorder
	hooks    Hooks
}

// NewOrchestrator 创建生成流水线编排器
func NewOrchestrator(
	settings *SettingsService,
	usage *UsageService,
	products repository.ProductRepository,
	prompts *PromptBuilder,
	client ProviderClient,
	recorder *audit.Recorder,
	hooks Hooks,
) *Orchestrator {
	if hooks == nil {
		hooks = NopHooks{}
	}
	return &Orchestrator{
		settings: settings,
		usage:    usage,
		products: products,
		prompts:  prompts,
		client:   client,
		recorder: recorder,
		hooks:    hooks,
	}
}

// Generate 执行一次完整的描述生成流水线
// 失败对本次调用是终态，内部不做重试
func (o *Orchestrator) Generate(ctx context.Context, input GenerateInput) (*entity.GenerationResult, error) {
	ctx, span := tracer.Start(ctx, "generation.Generate",
		trace.WithAttributes(attribute.String("product.id", input.ProductID)))
	defer span.End()

	if input.ProductID == "" {
		return nil, apperrors.ErrInvalidParam.WithDetail("product id is required")
	}
	if !input.WantShort && !input.WantLong {
		return nil, apperrors.ErrInvalidParam.WithDetail("at least one of short/long description must be requested")
	}

	// 1. 解析设置，无密钥直接失败
	settings, err := o.settings.Get(ctx)
	if err != nil {
		return nil, err
	}
	if !settings.HasAPIKey() {
		return nil, apperrors.ErrNoAPIKey
	}
	if !entity.IsValidProvider(settings.Provider) {
		return nil, apperrors.ErrInvalidProvider.WithDetail(string(settings.Provider))
	}

	// 2. 用量闸门
	allowed, err := o.usage.CanGenerate(ctx)
	if err != nil {
		return nil, err
	}
	if !allowed {
		used, usageErr := o.usage.GetUsage(ctx)
		if usageErr != nil {
			// 通知仍然发出，只是拿不到准确的已用次数
			logger.Warn(ctx, "failed to read usage for limit notification", "error", usageErr.Error())
		}
		limit := o.hooks.FreeUsageLimit(ctx, o.usage.limit)
		o.hooks.OnUsageLimitReached(ctx, used, limit)
		metrics.UsageLimitReachedTotal.Inc()
		return nil, apperrors.ErrUsageLimitReached
	}

	// 3. 取商品快照
	product, err := o.products.GetByID(ctx, input.ProductID)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "failed to load product")
	}
	if product == nil {
		return nil, apperrors.ErrProductNotFound.WithDetail(input.ProductID)
	}

	data := o.buildProductData(ctx, product, input.Keywords)

	if err := o.hooks.BeforeGenerate(ctx, input.ProductID, data); err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeGenerationFailed, "generation aborted by hook")
	}
	data = o.hooks.FilterProductData(ctx, data)

	// 4. 构建提示词
	template := o.hooks.FilterPromptTemplate(ctx, DefaultPromptTemplate)
	prompt := o.prompts.Render(template, data, settings)
	prompt = o.hooks.FilterPrompt(ctx, prompt, data)

	// 5. 调用提供商
	req := o.client.BuildRequest(settings.Model, prompt)
	req = o.hooks.FilterRequest(ctx, req)

	start := time.Now()
	result, err := o.client.Generate(ctx, settings.Provider, settings.APIKey, req)
	metrics.GenerationDuration.WithLabelValues(string(settings.Provider)).Observe(time.Since(start).Seconds())

	// 6. 失败路径：记一条失败日志后原样透出
	if err != nil {
		metrics.GenerationTotal.WithLabelValues(string(settings.Provider), "failed").Inc()
		o.logAttempt(ctx, input, settings, 0, false, apperrors.AsAppError(err).Message)
		return nil, err
	}

	// 7. 成功路径：应用响应/描述过滤，记日志，递增用量
	result = o.hooks.FilterResponse(ctx, result)
	description := o.hooks.FilterDescription(ctx, result.Content, data)

	metrics.GenerationTotal.WithLabelValues(string(settings.Provider), "success").Inc()
	metrics.GenerationLength.WithLabelValues(string(settings.Provider)).Observe(float64(len(description)))

	o.logAttempt(ctx, input, settings, result.TokensUsed, true, "")

	if err := o.usage.Increment(ctx); err != nil {
		// 计数失败不回滚已完成的生成
		logger.Error(ctx, "failed to increment usage counter", err)
	}

	span.SetAttributes(attribute.Int("generation.tokens_used", result.TokensUsed))
	logger.Info(ctx, "description generated",
		"provider", string(settings.Provider),
		"model", settings.Model,
		"tokens_used", result.TokensUsed,
		"length", len(description))

	return &entity.GenerationResult{
		Description: description,
		TokensUsed:  result.TokensUsed,
		Model:       settings.Model,
		Provider:    settings.Provider,
	}, nil
}

// SaveDescription 将生成的描述写回商品
func (o *Orchestrator) SaveDescription(ctx context.Context, productID, description string, field entity.DescriptionField) error {
	ctx, span := tracer.Start(ctx, "generation.SaveDescription",
		trace.WithAttributes(attribute.String("product.id", productID)))
	defer span.End()

	if productID == "" {
		return apperrors.ErrInvalidParam.WithDetail("product id is required")
	}
	if description == "" {
		return apperrors.ErrInvalidParam.WithDetail("description is required")
	}
	if !entity.IsValidDescriptionField(field) {
		return apperrors.ErrInvalidParam.WithDetail("field must be one of: short, long")
	}

	product, err := o.products.GetByID(ctx, productID)
	if err != nil {
		return apperrors.Wrap(err, apperrors.CodeDatabaseError, "failed to load product")
	}
	if product == nil {
		return apperrors.ErrProductNotFound.WithDetail(productID)
	}

	if err := o.products.SaveDescription(ctx, productID, description, field); err != nil {
		return apperrors.Wrap(err, apperrors.CodeDatabaseError, "failed to save description")
	}
	return nil
}

// GetProduct 获取商品快照
func (o *Orchestrator) GetProduct(ctx context.Context, productID string) (*entity.Product, error) {
	if productID == "" {
		return nil, apperrors.ErrInvalidParam.WithDetail("product id is required")
	}
	product, err := o.products.GetByID(ctx, productID)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "failed to load product")
	}
	if product == nil {
		return nil, apperrors.ErrProductNotFound.WithDetail(productID)
	}
	return product, nil
}

// TestConnection 用给定凭证对提供商做一次连通性验证
func (o *Orchestrator) TestConnection(ctx context.Context, provider entity.Provider, apiKey string) error {
	ctx, span := tracer.Start(ctx, "generation.TestConnection",
		trace.WithAttributes(attribute.String("llm.provider", string(provider))))
	defer span.End()

	if apiKey == "" {
		return apperrors.ErrNoAPIKey
	}
	if !entity.IsValidProvider(provider) {
		return apperrors.ErrInvalidProvider.WithDetail(string(provider))
	}
	return o.client.TestConnection(ctx, provider, apiKey)
}

// buildProductData 把商品实体压平成提示词可用的快照
func (o *Orchestrator) buildProductData(ctx context.Context, product *entity.Product, keywords string) *entity.ProductData {
	attributes := entity.FlattenAttributes(product.Attributes, func(termID string) string {
		name, err := o.products.ResolveTerm(ctx, termID)
		if err != nil {
			logger.Warn(ctx, "failed to resolve attribute term", "term_id", termID, "error", err.Error())
			return ""
		}
		return name
	})

	// 调用方附加的关键词拼在属性串尾部
	if keywords = SanitizeField(keywords); keywords != "" {
		if attributes != "" {
			attributes += "; Keywords: " + keywords
		} else {
			attributes = "Keywords: " + keywords
		}
	}

	return &entity.ProductData{
		ID:               product.ID,
		Name:             product.Name,
		Category:         product.Category,
		Tags:             product.Tags,
		Price:            product.Price,
		Attributes:       attributes,
		ShortDescription: product.ShortDescription,
		Description:      product.Description,
		SKU:              product.SKU,
		Type:             product.Type,
		Weight:           product.Weight,
		Dimensions:       product.Dimensions,
	}
}

// logAttempt 尽力而为地写一条审计日志，失败只告警
func (o *Orchestrator) logAttempt(ctx context.Context, input GenerateInput, settings *entity.Settings, tokens int, success bool, errMsg string) {
	entry := &entity.GenerationLog{
		ProductID:    input.ProductID,
		UserID:       input.UserID,
		Provider:     settings.Provider,
		Model:        settings.Model,
		TokensUsed:   tokens,
		Success:      success,
		ErrorMessage: errMsg,
		ClientIP:     input.ClientIP,
	}
	if err := o.recorder.Append(ctx, entry); err != nil {
		logger.Error(ctx, "failed to record generation attempt", err,
			"product_id", input.ProductID, "success", success)
	}
}
