package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/theaarondumas/CS-HANDOFF-V2/internal/dto"
	"github.com/theaarondumas/CS-HANDOFF-V2/internal/service"
)

// RelayHandler Webhook 中继 HTTP 处理器
// 无会话语义：认证由 WebhookAuth 中间件以共享密钥完成
type RelayHandler struct {
	relaySvc service.RelayService
}

// NewRelayHandler 创建 RelayHandler
func NewRelayHandler(relaySvc service.RelayService) *RelayHandler {
	return &RelayHandler{relaySvc: relaySvc}
}

// InboundSMS 入站短信中继
// POST /api/hooks/sms（JSON 或表单编码）
func (h *RelayHandler) InboundSMS(c *gin.Context) {
	var req dto.InboundSMSRequest
	// ShouldBind 按 Content-Type 自动选择 JSON / 表单绑定
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求体不合法"})
		return
	}

	if err := h.relaySvc.InboundSMS(c.Request.Context(), &req); err != nil {
		switch {
		case errors.Is(err, service.ErrRelayMessageRequired):
			c.JSON(http.StatusBadRequest, gin.H{"error": "短信正文不能为空"})
		case errors.Is(err, service.ErrNoTokenReference):
			c.JSON(http.StatusBadRequest, gin.H{"error": "正文中未找到交接单引用"})
		case errors.Is(err, service.ErrUnknownToken):
			c.JSON(http.StatusNotFound, gin.H{"error": "短令牌无对应交接单"})
		case errors.Is(err, service.ErrHandoffNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "交接单不存在"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "服务器内部错误"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.RelayResponse{OK: true})
}

// AlertAudit 出站告警审计
// POST /api/hooks/alert
func (h *RelayHandler) AlertAudit(c *gin.Context) {
	var req dto.AlertAuditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求体不合法"})
		return
	}

	alerted, err := h.relaySvc.AlertAudit(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrHandoffNotFound):
			c.JSON(http.StatusBadRequest, gin.H{"error": "交接单不存在"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "服务器内部错误"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.RelayResponse{OK: true, Alerted: &alerted})
}
