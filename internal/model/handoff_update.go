package model

import "time"

// 更新来源合法值
const (
	SourceApp    = "app"
	SourceSMS    = "sms"
	SourceSystem = "system"
)

// HandoffUpdate 交接更新 — 对应 handoff_updates
// 仅追加：不存在任何修改或删除路径；作者名为写入时的快照，不再回查
type HandoffUpdate struct {
	ID                        string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	CreatedAt                 time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`
	HandoffID                 string    `gorm:"type:uuid;not null;index"                       json:"handoff_id"`
	AuthorUserID              *string   `gorm:"type:uuid"                                      json:"author_user_id,omitempty"`
	AuthorDisplayNameSnapshot string    `gorm:"type:varchar(20);not null"                      json:"author_display_name_snapshot"`
	Source                    string    `gorm:"type:varchar(10);not null"                      json:"source"` // app | sms | system
	Message                   string    `gorm:"type:text;not null"                             json:"message"`
}

// TableName 指定表名
func (HandoffUpdate) TableName() string { return "handoff_updates" }
