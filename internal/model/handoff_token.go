package model

// HandoffToken 短信短令牌映射 — 对应 handoff_tokens
// 短信正文中以 H:<token> 形式引用交接单
type HandoffToken struct {
	Token     string `gorm:"type:varchar(12);primaryKey" json:"token"`
	HandoffID string `gorm:"type:uuid;not null"          json:"handoff_id"`
}

// TableName 指定表名
func (HandoffToken) TableName() string { return "handoff_tokens" }
