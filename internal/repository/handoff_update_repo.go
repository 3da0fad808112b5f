package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/theaarondumas/CS-HANDOFF-V2/internal/model"
)

// HandoffUpdateRepository 交接更新数据访问接口
// 仅追加：接口上不存在修改或删除操作
type HandoffUpdateRepository interface {
	Create(ctx context.Context, update *model.HandoffUpdate) error
	ListByHandoff(ctx context.Context, handoffID string) ([]model.HandoffUpdate, error)
}

// handoffUpdateRepo HandoffUpdateRepository 的 GORM 实现
type handoffUpdateRepo struct {
	db *gorm.DB
}

// NewHandoffUpdateRepo 创建 HandoffUpdateRepository 实例
func NewHandoffUpdateRepo(db *gorm.DB) HandoffUpdateRepository {
	return &handoffUpdateRepo{db: db}
}

func (r *handoffUpdateRepo) Create(ctx context.Context, update *model.HandoffUpdate) error {
	return r.db.WithContext(ctx).Create(update).Error
}

// ListByHandoff 按创建时间降序返回某交接单的全部更新
func (r *handoffUpdateRepo) ListByHandoff(ctx context.Context, handoffID string) ([]model.HandoffUpdate, error) {
	var updates []model.HandoffUpdate
	err := r.db.WithContext(ctx).
		Where("handoff_id = ?", handoffID).
		Order("created_at DESC").
		Find(&updates).Error
	if err != nil {
		return nil, err
	}
	return updates, nil
}
