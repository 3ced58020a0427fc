// Package handler 提供 HTTP 请求处理器
package handler

import (
	"github.com/gin-gonic/gin"

	"ai-product-desc-api/internal/application/generation"
	"ai-product-desc-api/internal/interfaces/http/dto"
	"ai-product-desc-api/pkg/logger"
)

// UsageHandler 用量处理器
type UsageHandler struct {
	usage *generation.UsageService
}

// NewUsageHandler 创建用量处理器
func NewUsageHandler(usage *generation.UsageService) *UsageHandler {
	return &UsageHandler{
		usage: usage,
	}
}

// Get 获取当月用量概览
// @Summary 获取用量概览
// @Description 返回当月已用次数、上限与剩余额度
// @Tags Usage
// @Produce json
// @Success 200 {object} dto.Response[generation.UsageStats]
// @Router /v1/usage [get]
func (h *UsageHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()

	stats, err := h.usage.Stats(ctx)
	if err != nil {
		logger.Error(ctx, "failed to load usage stats", err)
		dto.Fail(c, err)
		return
	}

	dto.Success(c, stats)
}
