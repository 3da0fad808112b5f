package service

import (
	"go.uber.org/zap"

	"github.com/theaarondumas/CS-HANDOFF-V2/config"
	"github.com/theaarondumas/CS-HANDOFF-V2/internal/repository"
	"github.com/theaarondumas/CS-HANDOFF-V2/pkg/jwt"
	"github.com/theaarondumas/CS-HANDOFF-V2/pkg/redis"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Auth    AuthService
	Profile ProfileService
	Handoff HandoffService
	Meta    MetaService
	Relay   RelayService
	Export  ExportService
}

// NewService 创建 Service 聚合
// rdb 允许为 nil：变更推送与 Token 黑名单降级为空操作
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	rdb *redis.Client,
	logger *zap.Logger,
) *Service {
	return &Service{
		Auth:    NewAuthService(cfg, repo, jwtMgr, rdb, logger),
		Profile: NewProfileService(repo, rdb, logger),
		Handoff: NewHandoffService(repo, rdb, logger),
		Meta:    NewMetaService(repo, logger),
		Relay:   NewRelayService(cfg, repo, rdb, logger),
		Export:  NewExportService(repo, logger),
	}
}
