package dto

// ── 交接单模块 DTO ──

// CreateHandoffRequest 创建交接单请求
// 字段约束仅为提交前校验，枚举合法性最终由数据库约束裁决
type CreateHandoffRequest struct {
	Summary      string  `json:"summary"       binding:"required,max=500"`
	Category     string  `json:"category"      binding:"required"`
	Priority     string  `json:"priority"      binding:"required,oneof=low medium high"`
	LocationCode *string `json:"location_code"`
}

// AppendUpdateRequest 追加更新请求
type AppendUpdateRequest struct {
	Message string `json:"message" binding:"required,max=2000"`
}

// ListHandoffsRequest 信息流查询参数
type ListHandoffsRequest struct {
	IncludeResolved bool `form:"include_resolved"`
}

// HandoffResponse 交接单响应
// Display 为策略层计算的展示处理提示
type HandoffResponse struct {
	ID                   string          `json:"id"`
	CreatedAt            string          `json:"created_at"`
	Summary              string          `json:"summary"`
	Category             string          `json:"category"`
	Priority             string          `json:"priority"`
	LocationCode         *string         `json:"location_code,omitempty"`
	Status               string          `json:"status"`
	LastUpdateAt         *string         `json:"last_update_at,omitempty"`
	LastUpdateBySnapshot *string         `json:"last_update_by_snapshot,omitempty"`
	CreatedBy            string          `json:"created_by"`
	CreatedByName        string          `json:"created_by_name"`
	SMSToken             string          `json:"sms_token,omitempty"`
	Display              DisplayResponse `json:"display"`
}

// DisplayResponse 展示处理提示
type DisplayResponse struct {
	Treatment string `json:"treatment"` // glow-low | glow-medium | glow-high | dead
	Pulse     bool   `json:"pulse"`
}

// UpdateResponse 交接更新响应
type UpdateResponse struct {
	ID         string `json:"id"`
	CreatedAt  string `json:"created_at"`
	HandoffID  string `json:"handoff_id"`
	AuthorName string `json:"author_name"`
	Source     string `json:"source"`
	Message    string `json:"message"`
}

// MetaResponse 枚举能力查询响应
type MetaResponse struct {
	Values []string `json:"values"`
}
