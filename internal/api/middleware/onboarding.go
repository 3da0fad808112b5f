package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/theaarondumas/CS-HANDOFF-V2/internal/service"
	"github.com/theaarondumas/CS-HANDOFF-V2/pkg/response"
)

// OnboardingGate 入门门槛中间件
// 资料不完整（display_name 或 shift 缺失）时以 12001 拒绝，
// 任何交接数据在此之前都不会被拉取；前端据此跳转到资料填写页
func OnboardingGate(profileSvc service.ProfileService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("user_id")
		if !exists {
			response.Unauthorized(c, 10002, "未认证")
			c.Abort()
			return
		}

		complete, err := profileSvc.GateComplete(c.Request.Context(), userID.(string))
		if err != nil {
			response.InternalError(c)
			c.Abort()
			return
		}
		if !complete {
			response.Forbidden(c, 12001, "请先完善值班资料")
			c.Abort()
			return
		}

		c.Next()
	}
}
