package service

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/theaarondumas/CS-HANDOFF-V2/config"
	"github.com/theaarondumas/CS-HANDOFF-V2/internal/dto"
	"github.com/theaarondumas/CS-HANDOFF-V2/internal/model"
	"github.com/theaarondumas/CS-HANDOFF-V2/internal/repository"
	"github.com/theaarondumas/CS-HANDOFF-V2/pkg/redis"
)

// ── 中继模块业务错误 ──

var (
	ErrRelayMessageRequired = errors.New("短信正文不能为空")
	ErrNoTokenReference     = errors.New("正文中未找到交接单引用")
	ErrUnknownToken         = errors.New("短令牌无对应交接单")
)

// tokenPattern 短信正文中的交接单引用：H:<4-12 位字母数字>
var tokenPattern = regexp.MustCompile(`H:([A-Za-z0-9]{4,12})`)

// RelayService 无状态中继业务接口
// 两个操作均由共享密钥认证的 Webhook 触发，各执行至多一次追加写
type RelayService interface {
	// InboundSMS 入站短信：解析交接单引用并追加一条 source=sms 的更新
	InboundSMS(ctx context.Context, req *dto.InboundSMSRequest) error
	// AlertAudit 出站告警审计：仅 priority=high 时追加一条 source=system 的审计更新
	// 返回是否实际写入（false 表示按优先级跳过）
	AlertAudit(ctx context.Context, req *dto.AlertAuditRequest) (bool, error)
}

type relayService struct {
	cfg    *config.Config
	repo   *repository.Repository
	rdb    *redis.Client
	logger *zap.Logger
}

// NewRelayService 创建 RelayService 实例
func NewRelayService(cfg *config.Config, repo *repository.Repository, rdb *redis.Client, logger *zap.Logger) RelayService {
	return &relayService{cfg: cfg, repo: repo, rdb: rdb, logger: logger}
}

func (s *relayService) InboundSMS(ctx context.Context, req *dto.InboundSMSRequest) error {
	message := strings.TrimSpace(req.Message)
	if message == "" {
		return ErrRelayMessageRequired
	}

	// 1. 解析交接单引用：显式 ID 优先，否则从正文提取短令牌
	handoffID := strings.TrimSpace(req.HandoffID)
	if handoffID == "" {
		m := tokenPattern.FindStringSubmatch(message)
		if m == nil {
			return ErrNoTokenReference
		}
		mapping, err := s.repo.Token.GetByToken(ctx, strings.ToUpper(m[1]))
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUnknownToken
			}
			s.logger.Error("查询短令牌失败", zap.Error(err))
			return err
		}
		handoffID = mapping.HandoffID
	}

	if _, err := s.repo.Handoff.GetByID(ctx, handoffID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrHandoffNotFound
		}
		s.logger.Error("查询交接单失败", zap.Error(err))
		return err
	}

	// 2. 追加更新（作者名为发信人快照，无账号关联）
	author := strings.TrimSpace(req.Sender)
	if author == "" {
		author = "SMS"
	}
	if r := []rune(author); len(r) > 20 {
		author = string(r[:20])
	}

	update := &model.HandoffUpdate{
		HandoffID:                 handoffID,
		AuthorDisplayNameSnapshot: author,
		Source:                    model.SourceSMS,
		Message:                   message,
	}
	if err := s.repo.Update.Create(ctx, update); err != nil {
		s.logger.Error("追加短信更新失败", zap.Error(err))
		return err
	}

	now := update.CreatedAt
	if now.IsZero() {
		now = time.Now()
	}
	if err := s.repo.Handoff.TouchLastUpdate(ctx, handoffID, author, now); err != nil {
		s.logger.Error("刷新交接单更新字段失败", zap.Error(err))
		return err
	}

	publishChange(ctx, s.rdb, s.logger, "handoff_updates", "insert", update.ID)

	return nil
}

func (s *relayService) AlertAudit(ctx context.Context, req *dto.AlertAuditRequest) (bool, error) {
	// 非 high 优先级：平凡成功，不写入
	if strings.ToLower(strings.TrimSpace(req.Priority)) != model.PriorityHigh {
		return false, nil
	}

	if _, err := s.repo.Handoff.GetByID(ctx, req.HandoffID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, ErrHandoffNotFound
		}
		s.logger.Error("查询交接单失败", zap.Error(err))
		return false, err
	}

	// 审计消息：摘要按配置截断
	summary := strings.TrimSpace(req.Summary)
	if r := []rune(summary); len(r) > s.cfg.Relay.AuditSummaryLimit {
		summary = string(r[:s.cfg.Relay.AuditSummaryLimit]) + "…"
	}
	message := "高优先级告警已发送: " + summary
	if req.LocationCode != nil && *req.LocationCode != "" {
		message += " @ " + *req.LocationCode
	}

	update := &model.HandoffUpdate{
		HandoffID:                 req.HandoffID,
		AuthorDisplayNameSnapshot: "SYSTEM",
		Source:                    model.SourceSystem,
		Message:                   message,
	}
	if err := s.repo.Update.Create(ctx, update); err != nil {
		s.logger.Error("追加审计更新失败", zap.Error(err))
		return false, err
	}

	now := update.CreatedAt
	if now.IsZero() {
		now = time.Now()
	}
	if err := s.repo.Handoff.TouchLastUpdate(ctx, req.HandoffID, "SYSTEM", now); err != nil {
		s.logger.Error("刷新交接单更新字段失败", zap.Error(err))
		return false, err
	}

	publishChange(ctx, s.rdb, s.logger, "handoff_updates", "insert", update.ID)

	return true, nil
}
