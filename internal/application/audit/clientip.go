// Package audit 提供生成审计日志的应用服务
package audit

import (
	"net"
	"net/http"
	"strings"
)

// UnknownIP 无法解析出合法地址时记录的占位值
const UnknownIP = "unknown"

// 代理头按信任度排序，不要随意调整顺序：
// 前面的头只有可信代理会设置，后面的更容易被伪造
var trustedIPHeaders = []string{
	"CF-Connecting-IP",
	"X-Forwarded-For",
	"X-Real-IP",
}

// ClientIP 按信任链提取客户端 IP
// 依次检查代理头，取第一个语法合法的 IP，最后回退到连接地址
func ClientIP(r *http.Request) string {
	for _, header := range trustedIPHeaders {
		value := r.Header.Get(header)
		if value == "" {
			continue
		}
		// X-Forwarded-For 可能是逗号分隔的链，取最左端
		if idx := strings.Index(value, ","); idx >= 0 {
			value = value[:idx]
		}
		value = strings.TrimSpace(value)
		if net.ParseIP(value) != nil {
			return value
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	if net.ParseIP(host) != nil {
		return host
	}
	return UnknownIP
}
