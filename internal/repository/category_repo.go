package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/theaarondumas/CS-HANDOFF-V2/internal/model"
)

// CategoryRepository 类别枚举数据访问接口
type CategoryRepository interface {
	List(ctx context.Context) ([]model.Category, error)
}

// categoryRepo CategoryRepository 的 GORM 实现
type categoryRepo struct {
	db *gorm.DB
}

// NewCategoryRepo 创建 CategoryRepository 实例
func NewCategoryRepo(db *gorm.DB) CategoryRepository {
	return &categoryRepo{db: db}
}

func (r *categoryRepo) List(ctx context.Context) ([]model.Category, error) {
	var categories []model.Category
	err := r.db.WithContext(ctx).
		Order("sort_order").
		Find(&categories).Error
	if err != nil {
		return nil, err
	}
	return categories, nil
}
