package model

import "time"

// 班次合法值
const (
	ShiftAM  = "AM"
	ShiftPM  = "PM"
	ShiftNOC = "NOC"
)

// Profile 值班人员资料表 — 对应 profiles（与 users 1:1）
// 资料完整（display_name 与 shift 非空）是查看交接板的前置条件
type Profile struct {
	UserID      string    `gorm:"type:uuid;primaryKey"                       json:"user_id"`
	DisplayName string    `gorm:"type:varchar(10);not null"                  json:"display_name"`
	Role        string    `gorm:"type:varchar(50);not null;default:'CS'"     json:"role"`
	Shift       string    `gorm:"type:varchar(3);not null"                   json:"shift"` // AM | PM | NOC
	CreatedAt   time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"         json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"         json:"updated_at"`
}

// TableName 指定表名
func (Profile) TableName() string { return "profiles" }

// Complete 资料是否满足入门门槛
func (p *Profile) Complete() bool {
	return p.DisplayName != "" && p.Shift != ""
}
