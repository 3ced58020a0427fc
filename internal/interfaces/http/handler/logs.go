// Package handler 提供 HTTP 请求处理器
package handler

import (
	"github.com/gin-gonic/gin"

	"ai-product-desc-api/internal/application/audit"
	"ai-product-desc-api/internal/domain/entity"
	"ai-product-desc-api/internal/domain/repository"
	"ai-product-desc-api/internal/interfaces/http/dto"
	"ai-product-desc-api/pkg/logger"
)

// LogsHandler 审计日志处理器
type LogsHandler struct {
	recorder *audit.Recorder
}

// NewLogsHandler 创建审计日志处理器
func NewLogsHandler(recorder *audit.Recorder) *LogsHandler {
	return &LogsHandler{
		recorder: recorder,
	}
}

// List 查询审计日志
// @Summary 查询生成日志
// @Description 按时间倒序分页查询生成尝试记录
// @Tags Logs
// @Produce json
// @Param filter query string false "过滤条件：all/success/failed"
// @Param page query int false "页码"
// @Param page_size query int false "每页数量"
// @Success 200 {object} dto.Response[[]dto.LogEntry]
// @Failure 400 {object} dto.ErrorResponse
// @Router /v1/logs [get]
func (h *LogsHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	var query dto.ListLogsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		dto.BadRequest(c, "invalid query: "+err.Error())
		return
	}

	result, err := h.recorder.Query(ctx,
		entity.LogFilter(query.Filter),
		repository.NewPagination(query.Page, query.PageSize))
	if err != nil {
		dto.Fail(c, err)
		return
	}

	entries := make([]*dto.LogEntry, 0, len(result.Items))
	for _, log := range result.Items {
		entries = append(entries, dto.NewLogEntry(log))
	}

	dto.SuccessWithPage(c, entries, dto.NewPageMeta(result.Page, result.PageSize, int(result.Total)))
}

// Clear 清空审计日志
// @Summary 清空生成日志
// @Tags Logs
// @Produce json
// @Success 204
// @Router /v1/logs [delete]
func (h *LogsHandler) Clear(c *gin.Context) {
	ctx := c.Request.Context()

	if err := h.recorder.Clear(ctx); err != nil {
		logger.Error(ctx, "failed to clear generation logs", err)
		dto.Fail(c, err)
		return
	}

	dto.NoContent(c)
}
