package policy

import (
	"sort"

	"github.com/theaarondumas/CS-HANDOFF-V2/internal/model"
)

// SortFeed 对交接单列表施加信息流全序：
// 主键 = 是否已解决（未解决在前），次键 = 有效时间（last_update_at，缺省 created_at）降序。
// 稳定排序，等价输入重复施加结果不变（幂等）。
func SortFeed(items []model.Handoff) {
	sort.SliceStable(items, func(i, j int) bool {
		ri, rj := IsResolved(items[i].Status), IsResolved(items[j].Status)
		if ri != rj {
			return !ri
		}
		return items[i].EffectiveTime().After(items[j].EffectiveTime())
	})
}

// FilterResolved 可见性过滤：includeResolved 为 false 时移除所有已解决项。
// 开关状态由调用方持有，不落库。
func FilterResolved(items []model.Handoff, includeResolved bool) []model.Handoff {
	if includeResolved {
		return items
	}
	out := make([]model.Handoff, 0, len(items))
	for _, h := range items {
		if !IsResolved(h.Status) {
			out = append(out, h)
		}
	}
	return out
}
