package dto

// ── Webhook 中继 DTO ──

// InboundSMSRequest 入站短信中继请求
// 支持 JSON 或表单编码；交接单引用可为显式 handoff_id，
// 或正文中内嵌的 H:<4-12 位字母数字> 令牌
type InboundSMSRequest struct {
	HandoffID string `json:"handoff_id" form:"handoff_id"`
	Message   string `json:"message"    form:"message"`
	Sender    string `json:"sender"     form:"sender"`
}

// AlertAuditRequest 出站告警审计请求
// 由创建端在高优先级交接单建立后回调
type AlertAuditRequest struct {
	HandoffID    string  `json:"handoff_id" binding:"required"`
	Summary      string  `json:"summary"    binding:"required"`
	Priority     string  `json:"priority"   binding:"required"`
	LocationCode *string `json:"location_code"`
}

// RelayResponse 中继端点统一响应
type RelayResponse struct {
	OK      bool  `json:"ok"`
	Alerted *bool `json:"alerted,omitempty"` // 仅告警审计端点返回
}
