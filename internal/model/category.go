package model

// Category 交接类别枚举表 — 对应 categories
// 合法值由本表动态提供，不在代码中硬编码
type Category struct {
	Name      string `gorm:"type:varchar(50);primaryKey" json:"name"`
	SortOrder int    `gorm:"not null;default:0"          json:"sort_order"`
}

// TableName 指定表名
func (Category) TableName() string { return "categories" }
