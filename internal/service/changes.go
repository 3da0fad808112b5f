package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/theaarondumas/CS-HANDOFF-V2/pkg/redis"
)

// publishChange 写入成功后发布一条粗粒度变更通知。
// Redis 不可用（rdb 为 nil）或发布失败只记日志，不影响主流程——
// 变更推送是尽力而为的一致性补充，事务性由数据库单行写入保证。
func publishChange(ctx context.Context, rdb *redis.Client, logger *zap.Logger, table, kind, id string) {
	if rdb == nil {
		return
	}
	if err := rdb.PublishChange(ctx, redis.ChangeEvent{Table: table, Kind: kind, ID: id}); err != nil {
		logger.Warn("发布变更通知失败",
			zap.String("table", table),
			zap.String("kind", kind),
			zap.Error(err),
		)
	}
}
