package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/theaarondumas/CS-HANDOFF-V2/internal/model"
)

// HandoffTokenRepository 短信短令牌数据访问接口
type HandoffTokenRepository interface {
	Create(ctx context.Context, token *model.HandoffToken) error
	GetByToken(ctx context.Context, token string) (*model.HandoffToken, error)
	GetByHandoff(ctx context.Context, handoffID string) (*model.HandoffToken, error)
}

// handoffTokenRepo HandoffTokenRepository 的 GORM 实现
type handoffTokenRepo struct {
	db *gorm.DB
}

// NewHandoffTokenRepo 创建 HandoffTokenRepository 实例
func NewHandoffTokenRepo(db *gorm.DB) HandoffTokenRepository {
	return &handoffTokenRepo{db: db}
}

func (r *handoffTokenRepo) Create(ctx context.Context, token *model.HandoffToken) error {
	return r.db.WithContext(ctx).Create(token).Error
}

func (r *handoffTokenRepo) GetByToken(ctx context.Context, token string) (*model.HandoffToken, error) {
	var t model.HandoffToken
	err := r.db.WithContext(ctx).
		Where("token = ?", token).
		First(&t).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *handoffTokenRepo) GetByHandoff(ctx context.Context, handoffID string) (*model.HandoffToken, error) {
	var t model.HandoffToken
	err := r.db.WithContext(ctx).
		Where("handoff_id = ?", handoffID).
		First(&t).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}
