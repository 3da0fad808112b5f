package middleware

import (
	"crypto/subtle"

	"github.com/gin-gonic/gin"

	"github.com/theaarondumas/CS-HANDOFF-V2/pkg/response"
)

// WebhookSecretHeader 中继端点共享密钥请求头
const WebhookSecretHeader = "X-Webhook-Secret"

// WebhookAuth 共享密钥认证中间件
// secret 为空时跳过校验（仅限开发环境）；比较使用恒定时间算法
func WebhookAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret == "" {
			c.Next()
			return
		}

		provided := c.GetHeader(WebhookSecretHeader)
		if subtle.ConstantTimeCompare([]byte(provided), []byte(secret)) != 1 {
			response.Unauthorized(c, 14001, "Webhook 密钥无效")
			c.Abort()
			return
		}

		c.Next()
	}
}
