package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/theaarondumas/CS-HANDOFF-V2/internal/model"
	"github.com/theaarondumas/CS-HANDOFF-V2/internal/policy"
	apperrors "github.com/theaarondumas/CS-HANDOFF-V2/pkg/errors"
)

// HandoffRepository 交接单数据访问接口
type HandoffRepository interface {
	Create(ctx context.Context, handoff *model.Handoff) error
	GetByID(ctx context.Context, id string) (*model.Handoff, error)
	List(ctx context.Context) ([]model.Handoff, error)
	ResolveReturning(ctx context.Context, id, resolverName string, at time.Time) (*model.Handoff, error)
	TouchLastUpdate(ctx context.Context, id, byName string, at time.Time) error
	DistinctPriorities(ctx context.Context) ([]string, error)
}

// handoffRepo HandoffRepository 的 GORM 实现
type handoffRepo struct {
	db *gorm.DB
}

// NewHandoffRepo 创建 HandoffRepository 实例
func NewHandoffRepo(db *gorm.DB) HandoffRepository {
	return &handoffRepo{db: db}
}

func (r *handoffRepo) Create(ctx context.Context, handoff *model.Handoff) error {
	return r.db.WithContext(ctx).Create(handoff).Error
}

func (r *handoffRepo) GetByID(ctx context.Context, id string) (*model.Handoff, error) {
	var handoff model.Handoff
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&handoff).Error
	if err != nil {
		return nil, err
	}
	return &handoff, nil
}

// List 返回全部交接单，按有效时间降序（无记录时返回空列表而非错误）
func (r *handoffRepo) List(ctx context.Context) ([]model.Handoff, error) {
	var handoffs []model.Handoff
	err := r.db.WithContext(ctx).
		Order("last_update_at DESC NULLS LAST").
		Order("created_at DESC").
		Find(&handoffs).Error
	if err != nil {
		return nil, err
	}
	return handoffs, nil
}

// ResolveReturning 将状态置为 resolved 并回读更新后的行。
// UPDATE 影响零行且无错误时，视为被行级权限静默拒绝，
// 返回 ErrNoRowsAffected 而不是假成功——这是防御性检查，不是存储层的文档化契约。
func (r *handoffRepo) ResolveReturning(ctx context.Context, id, resolverName string, at time.Time) (*model.Handoff, error) {
	result := r.db.WithContext(ctx).
		Model(&model.Handoff{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":                  policy.StatusResolved,
			"last_update_at":          at,
			"last_update_by_snapshot": resolverName,
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, apperrors.ErrNoRowsAffected
	}

	return r.GetByID(ctx, id)
}

// TouchLastUpdate 追加更新时顺带刷新父单的最后更新字段
func (r *handoffRepo) TouchLastUpdate(ctx context.Context, id, byName string, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&model.Handoff{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"last_update_at":          at,
			"last_update_by_snapshot": byName,
		}).Error
}

// DistinctPriorities 优先级能力查询：返回当前在用的优先级值
func (r *handoffRepo) DistinctPriorities(ctx context.Context) ([]string, error) {
	var priorities []string
	err := r.db.WithContext(ctx).
		Model(&model.Handoff{}).
		Distinct("priority").
		Order("priority").
		Pluck("priority", &priorities).Error
	if err != nil {
		return nil, err
	}
	return priorities, nil
}
