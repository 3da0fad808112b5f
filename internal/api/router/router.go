package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/theaarondumas/CS-HANDOFF-V2/config"
	"github.com/theaarondumas/CS-HANDOFF-V2/internal/api/handler"
	"github.com/theaarondumas/CS-HANDOFF-V2/internal/api/middleware"
	"github.com/theaarondumas/CS-HANDOFF-V2/internal/service"
	"github.com/theaarondumas/CS-HANDOFF-V2/pkg/jwt"
	"github.com/theaarondumas/CS-HANDOFF-V2/pkg/redis"
)

// Setup 初始化并返回 Gin 路由引擎
func Setup(cfg *config.Config, h *handler.Handler, svc *service.Service, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(1 << 20)) // 1MB

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ── Webhook 中继（共享密钥认证，无会话） ──
	hooks := r.Group("/api/hooks")
	hooks.Use(middleware.WebhookAuth(cfg.Relay.WebhookSecret))
	hooks.Use(middleware.RateLimit(rdb, cfg.Relay.RateLimitPerMin, time.Minute))
	{
		hooks.POST("/sms", h.Relay.InboundSMS)
		hooks.POST("/alert", h.Relay.AlertAudit)
	}

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 认证模块（无需认证）
		auth := v1.Group("/auth")
		{
			auth.POST("/register", h.Auth.Register)
			auth.POST("/login", h.Auth.Login)
		}

		// 需要认证的路由
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, rdb))
		{
			// 认证模块（需要认证）
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.GET("/auth/me", h.Auth.GetCurrentUser)

			// 资料模块（入门流程本身不设门槛）
			profiles := authorized.Group("/profiles")
			{
				profiles.GET("/me", h.Profile.GetMe)
				profiles.PUT("/me", h.Profile.UpsertMe)
			}

			// 枚举能力查询
			meta := authorized.Group("/meta")
			{
				meta.GET("/categories", h.Meta.Categories)
				meta.GET("/priorities", h.Meta.Priorities)
			}

			// 变更事件流
			authorized.GET("/events", h.Events.Stream)

			// 交接单模块（入门门槛：资料完整后才能接触交接数据）
			handoffs := authorized.Group("/handoffs")
			handoffs.Use(middleware.OnboardingGate(svc.Profile))
			{
				handoffs.GET("", h.Handoff.List)
				handoffs.GET("/export", h.Export.ExportHandoffs)
				handoffs.GET("/:id", h.Handoff.Get)
				handoffs.GET("/:id/updates", h.Handoff.ListUpdates)
				handoffs.POST("", h.Handoff.Create)
				handoffs.POST("/:id/updates", h.Handoff.AppendUpdate)
				handoffs.POST("/:id/resolve", h.Handoff.Resolve)
			}
		}
	}

	return r
}
