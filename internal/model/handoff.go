package model

import "time"

// 优先级合法值（数据库 CHECK 约束同步维护）
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// Handoff 交接单 — 对应 handoffs
// 状态只经历单字段枚举变更，永不硬删除
type Handoff struct {
	ID                           string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	CreatedAt                    time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`
	Summary                      string     `gorm:"type:text;not null"                             json:"summary"`
	Category                     string     `gorm:"type:varchar(50);not null"                      json:"category"`
	Priority                     string     `gorm:"type:varchar(10);not null"                      json:"priority"` // low | medium | high
	LocationCode                 *string    `gorm:"type:varchar(20)"                               json:"location_code,omitempty"`
	Status                       string     `gorm:"type:varchar(20);not null;default:'open'"       json:"status"` // open | needs_followup | resolved
	LastUpdateAt                 *time.Time `json:"last_update_at,omitempty"`
	LastUpdateBySnapshot         *string    `gorm:"type:varchar(10)"                               json:"last_update_by_snapshot,omitempty"`
	CreatedBy                    string     `gorm:"type:uuid;not null"                             json:"created_by"`
	CreatedByDisplayNameSnapshot string     `gorm:"type:varchar(10);not null"                      json:"created_by_display_name_snapshot"`
}

// TableName 指定表名
func (Handoff) TableName() string { return "handoffs" }

// EffectiveTime 排序用的有效时间：有更新取更新时间，否则取创建时间
func (h *Handoff) EffectiveTime() time.Time {
	if h.LastUpdateAt != nil {
		return *h.LastUpdateAt
	}
	return h.CreatedAt
}
