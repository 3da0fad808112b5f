// Package policy 收纳交接板的纯策略逻辑：状态归一化、展示处理、信息流排序。
// 无 I/O、无隐藏状态，所有函数对任意输入都安全终止。
package policy

import "strings"

// 规范状态值：系统策略逻辑只识别这三种
const (
	StatusOpen          = "open"
	StatusNeedsFollowup = "needs_followup"
	StatusResolved      = "resolved"
)

// DefaultPriorities 优先级能力查询失败时的类型化回退值
var DefaultPriorities = []string{"low", "medium", "high"}

// Normalize 将原始状态值归一化为规范状态。
// 去空白、转小写；空值或无法识别的值一律按 open 处理——这是防御性归一化，
// 不假设存储层保证枚举合法性。历史遗留的 "closed" 同样落入 open。
func Normalize(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case StatusResolved:
		return StatusResolved
	case StatusNeedsFollowup:
		return StatusNeedsFollowup
	default:
		return StatusOpen
	}
}

// IsResolved 归一化后是否为已解决
func IsResolved(raw string) bool {
	return Normalize(raw) == StatusResolved
}

// IsNeedsFollowup 归一化后是否为待跟进
func IsNeedsFollowup(raw string) bool {
	return Normalize(raw) == StatusNeedsFollowup
}

// 展示处理名
const (
	TreatmentGlowLow    = "glow-low"
	TreatmentGlowMedium = "glow-medium"
	TreatmentGlowHigh   = "glow-high"
	TreatmentDead       = "dead"
)

// Treatment 计算展示处理：未解决项按优先级取辉光样式，已解决项取熄灭样式；
// pulse 仅在待跟进状态为 true（前端据此渲染脉冲强调）。
func Treatment(status, priority string) (name string, pulse bool) {
	s := Normalize(status)
	if s == StatusResolved {
		return TreatmentDead, false
	}

	switch strings.ToLower(strings.TrimSpace(priority)) {
	case "high":
		name = TreatmentGlowHigh
	case "medium":
		name = TreatmentGlowMedium
	default:
		name = TreatmentGlowLow
	}

	return name, s == StatusNeedsFollowup
}
