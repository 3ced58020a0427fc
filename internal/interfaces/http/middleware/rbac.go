// Package middleware 提供 HTTP 中间件
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Role 用户角色
type Role string

// 角色常量定义
const (
	RoleAdmin  Role = "admin"
	RoleEditor Role = "editor"
	RoleViewer Role = "viewer"
)

// Permission 权限类型
type Permission string

// 权限常量定义
const (
	PermProductRead    Permission = "product:read"
	PermProductEdit    Permission = "product:edit"
	PermSettingsManage Permission = "settings:manage"
	PermLogsView       Permission = "logs:view"
	PermAdminAccess    Permission = "admin:access"
)

// rolePermissions 角色-权限映射表
var rolePermissions = map[Role][]Permission{
	RoleAdmin:  {PermProductRead, PermProductEdit, PermSettingsManage, PermLogsView, PermAdminAccess},
	RoleEditor: {PermProductRead, PermProductEdit, PermLogsView},
	RoleViewer: {PermProductRead},
}

// HasPermission 检查角色是否具有指定权限
func HasPermission(role Role, perm Permission) bool {
	permissions, ok := rolePermissions[role]
	if !ok {
		return false
	}
	for _, p := range permissions {
		if p == perm {
			return true
		}
	}
	return false
}

// RequirePermission 权限检查中间件
// 检查当前用户是否具有指定权限，否则返回 403
func RequirePermission(perm Permission) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := GetRoleFromGin(c)
		if role == "" {
			abortForbidden(c, "missing role in context")
			return
		}

		if !HasPermission(role, perm) {
			abortForbidden(c, "permission denied")
			return
		}

		c.Next()
	}
}

// RequireAdmin 管理员权限检查中间件（便捷方法）
func RequireAdmin() gin.HandlerFunc {
	return RequirePermission(PermAdminAccess)
}

// abortForbidden 终止请求并返回 403
func abortForbidden(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
		"code":     403,
		"message":  msg,
		"trace_id": c.GetString("trace_id"),
	})
}
