// Package handler 提供 HTTP 请求处理器
package handler

import (
	"github.com/gin-gonic/gin"

	"ai-product-desc-api/internal/application/generation"
	"ai-product-desc-api/internal/interfaces/http/dto"
	"ai-product-desc-api/pkg/logger"
)

// SettingsHandler 生成设置处理器
type SettingsHandler struct {
	settings *generation.SettingsService
}

// NewSettingsHandler 创建生成设置处理器
func NewSettingsHandler(settings *generation.SettingsService) *SettingsHandler {
	return &SettingsHandler{
		settings: settings,
	}
}

// Get 获取当前设置
// @Summary 获取生成设置
// @Tags Settings
// @Produce json
// @Success 200 {object} dto.Response[dto.SettingsResponse]
// @Router /v1/settings [get]
func (h *SettingsHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()

	settings, err := h.settings.Get(ctx)
	if err != nil {
		logger.Error(ctx, "failed to load settings", err)
		dto.Fail(c, err)
		return
	}

	dto.Success(c, dto.NewSettingsResponse(settings))
}

// Update 更新设置
// @Summary 更新生成设置
// @Description 整体覆盖保存生成设置
// @Tags Settings
// @Accept json
// @Produce json
// @Param body body dto.UpdateSettingsRequest true "设置内容"
// @Success 200 {object} dto.Response[dto.SettingsResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Router /v1/settings [put]
func (h *SettingsHandler) Update(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	settings := req.ToEntity()

	// 表单不回传密钥时保留已存储的值
	if settings.APIKey == "" {
		current, err := h.settings.Get(ctx)
		if err != nil {
			dto.Fail(c, err)
			return
		}
		settings.APIKey = current.APIKey
	}

	if err := h.settings.Update(ctx, settings); err != nil {
		logger.Warn(ctx, "failed to update settings", "error", err.Error())
		dto.Fail(c, err)
		return
	}

	dto.Success(c, dto.NewSettingsResponse(settings))
}

// Options 获取设置可选值目录
// @Summary 获取设置可选值
// @Description 返回提供商、语气、语言的可选值列表
// @Tags Settings
// @Produce json
// @Success 200 {object} dto.Response[generation.SettingsOptions]
// @Router /v1/settings/options [get]
func (h *SettingsHandler) Options(c *gin.Context) {
	dto.Success(c, h.settings.Options())
}
