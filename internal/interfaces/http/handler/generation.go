// Package handler 提供 HTTP 请求处理器
package handler

import (
	"github.com/gin-gonic/gin"

	"ai-product-desc-api/internal/application/audit"
	"ai-product-desc-api/internal/application/generation"
	"ai-product-desc-api/internal/domain/entity"
	"ai-product-desc-api/internal/interfaces/http/dto"
	"ai-product-desc-api/internal/interfaces/http/middleware"
	"ai-product-desc-api/pkg/logger"
)

// GenerationHandler 描述生成处理器
type GenerationHandler struct {
	orchestrator *generation.Orchestrator
	usage        *generation.UsageService
}

// NewGenerationHandler 创建描述生成处理器
func NewGenerationHandler(orchestrator *generation.Orchestrator, usage *generation.UsageService) *GenerationHandler {
	return &GenerationHandler{
		orchestrator: orchestrator,
		usage:        usage,
	}
}

// Generate 生成商品描述
// @Summary 生成商品描述
// @Description 调用 AI 提供商为指定商品生成描述
// @Tags Generation
// @Accept json
// @Produce json
// @Param pid path string true "商品 ID"
// @Param body body dto.GenerateRequest true "生成参数"
// @Success 200 {object} dto.Response[dto.GenerateResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Failure 429 {object} dto.ErrorResponse
// @Failure 502 {object} dto.ErrorResponse
// @Router /v1/products/{pid}/description/generate [post]
func (h *GenerationHandler) Generate(c *gin.Context) {
	ctx := c.Request.Context()
	productID := c.Param("pid")

	var req dto.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	ctx = logger.WithContext(ctx, logger.ProductIDKey, productID)

	result, err := h.orchestrator.Generate(ctx, generation.GenerateInput{
		ProductID: productID,
		Keywords:  req.Keywords,
		WantShort: req.WantShort,
		WantLong:  req.WantLong,
		UserID:    middleware.GetUserIDFromGin(c),
		ClientIP:  audit.ClientIP(c.Request),
	})
	if err != nil {
		logger.Warn(ctx, "description generation failed", "error", err.Error())
		dto.Fail(c, err)
		return
	}

	// 附带最新用量，读取失败不影响生成结果
	stats, err := h.usage.Stats(ctx)
	if err != nil {
		logger.Warn(ctx, "failed to load usage stats after generation", "error", err.Error())
		stats = nil
	}

	dto.Success(c, &dto.GenerateResponse{
		Description: result.Description,
		TokensUsed:  result.TokensUsed,
		Model:       result.Model,
		Provider:    string(result.Provider),
		Usage:       stats,
	})
}

// Save 保存生成的描述
// @Summary 保存商品描述
// @Description 将生成的描述写回商品的长/短描述字段
// @Tags Generation
// @Accept json
// @Produce json
// @Param pid path string true "商品 ID"
// @Param body body dto.SaveDescriptionRequest true "描述内容"
// @Success 204
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/products/{pid}/description [put]
func (h *GenerationHandler) Save(c *gin.Context) {
	ctx := c.Request.Context()
	productID := c.Param("pid")

	var req dto.SaveDescriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	err := h.orchestrator.SaveDescription(ctx, productID, req.Description, entity.DescriptionField(req.Field))
	if err != nil {
		logger.Warn(ctx, "failed to save description", "product_id", productID, "error", err.Error())
		dto.Fail(c, err)
		return
	}

	dto.NoContent(c)
}

// TestConnection 测试提供商连接
// @Summary 测试提供商连接
// @Description 用给定凭证向提供商发起一次试探调用
// @Tags Settings
// @Accept json
// @Produce json
// @Param body body dto.TestConnectionRequest true "提供商与密钥"
// @Success 200 {object} dto.Response[dto.TestConnectionResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Failure 502 {object} dto.ErrorResponse
// @Router /v1/settings/test-connection [post]
func (h *GenerationHandler) TestConnection(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.TestConnectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	if err := h.orchestrator.TestConnection(ctx, entity.Provider(req.Provider), req.APIKey); err != nil {
		logger.Warn(ctx, "connection test failed", "provider", req.Provider, "error", err.Error())
		dto.Fail(c, err)
		return
	}

	dto.Success(c, &dto.TestConnectionResponse{Connected: true})
}
