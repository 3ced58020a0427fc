// Package router 提供 HTTP 路由配置
package router

import (
	"github.com/gin-gonic/gin"

	"ai-product-desc-api/internal/interfaces/http/middleware"
)

// RegisterV1Routes 注册 v1 版本路由
// generatePerm 是生成类接口所需的权限，由配置决定
func RegisterV1Routes(v1 *gin.RouterGroup, h Handlers, generatePerm middleware.Permission) {
	if generatePerm == "" {
		generatePerm = middleware.PermProductEdit
	}

	// 商品与描述生成
	products := v1.Group("/products")
	{
		products.GET("/:pid",
			middleware.RequirePermission(middleware.PermProductRead),
			h.Product.Get)
		products.POST("/:pid/description/generate",
			middleware.RequirePermission(generatePerm),
			h.Generation.Generate)
		products.PUT("/:pid/description",
			middleware.RequirePermission(generatePerm),
			h.Generation.Save)
	}

	// 生成设置
	settings := v1.Group("/settings")
	{
		settings.GET("",
			middleware.RequirePermission(middleware.PermSettingsManage),
			h.Settings.Get)
		settings.PUT("",
			middleware.RequirePermission(middleware.PermSettingsManage),
			h.Settings.Update)
		settings.GET("/options",
			middleware.RequirePermission(middleware.PermSettingsManage),
			h.Settings.Options)
		settings.POST("/test-connection",
			middleware.RequireAdmin(),
			h.Generation.TestConnection)
	}

	// 用量
	v1.GET("/usage",
		middleware.RequirePermission(generatePerm),
		h.Usage.Get)

	// 审计日志
	logs := v1.Group("/logs")
	{
		logs.GET("",
			middleware.RequirePermission(middleware.PermLogsView),
			h.Logs.List)
		logs.DELETE("",
			middleware.RequireAdmin(),
			h.Logs.Clear)
	}
}
