// Package handler 提供 HTTP 请求处理器
package handler

import (
	"github.com/gin-gonic/gin"

	"ai-product-desc-api/internal/application/generation"
	"ai-product-desc-api/internal/interfaces/http/dto"
)

// ProductHandler 商品处理器
type ProductHandler struct {
	orchestrator *generation.Orchestrator
}

// NewProductHandler 创建商品处理器
func NewProductHandler(orchestrator *generation.Orchestrator) *ProductHandler {
	return &ProductHandler{
		orchestrator: orchestrator,
	}
}

// Get 获取商品详情
// @Summary 获取商品详情
// @Tags Products
// @Produce json
// @Param pid path string true "商品 ID"
// @Success 200 {object} dto.Response[dto.ProductResponse]
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/products/{pid} [get]
func (h *ProductHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()

	product, err := h.orchestrator.GetProduct(ctx, c.Param("pid"))
	if err != nil {
		dto.Fail(c, err)
		return
	}

	dto.Success(c, dto.NewProductResponse(product))
}
