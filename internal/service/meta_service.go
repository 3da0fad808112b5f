package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/theaarondumas/CS-HANDOFF-V2/internal/policy"
	"github.com/theaarondumas/CS-HANDOFF-V2/internal/repository"
)

// MetaService 枚举能力查询接口
// 类别与优先级的合法值由存储层动态提供；优先级查询失败或为空时
// 回退到类型化默认值，而不是在界面逻辑里埋魔法字面量
type MetaService interface {
	Categories(ctx context.Context) ([]string, error)
	Priorities(ctx context.Context) []string
}

type metaService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewMetaService 创建 MetaService 实例
func NewMetaService(repo *repository.Repository, logger *zap.Logger) MetaService {
	return &metaService{repo: repo, logger: logger}
}

func (s *metaService) Categories(ctx context.Context) ([]string, error) {
	categories, err := s.repo.Category.List(ctx)
	if err != nil {
		s.logger.Error("查询类别枚举失败", zap.Error(err))
		return nil, err
	}

	out := make([]string, 0, len(categories))
	for _, c := range categories {
		out = append(out, c.Name)
	}
	return out, nil
}

// Priorities 能力查询失败时降级返回默认值，永不失败
func (s *metaService) Priorities(ctx context.Context) []string {
	priorities, err := s.repo.Handoff.DistinctPriorities(ctx)
	if err != nil {
		s.logger.Warn("优先级能力查询失败，使用默认值", zap.Error(err))
		return policy.DefaultPriorities
	}
	if len(priorities) == 0 {
		return policy.DefaultPriorities
	}
	return priorities
}
