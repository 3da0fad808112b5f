package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/theaarondumas/CS-HANDOFF-V2/internal/dto"
	"github.com/theaarondumas/CS-HANDOFF-V2/internal/model"
	"github.com/theaarondumas/CS-HANDOFF-V2/internal/policy"
	"github.com/theaarondumas/CS-HANDOFF-V2/internal/repository"
	apperrors "github.com/theaarondumas/CS-HANDOFF-V2/pkg/errors"
	"github.com/theaarondumas/CS-HANDOFF-V2/pkg/redis"
)

// ── 交接单模块业务错误 ──

var (
	ErrHandoffNotFound = errors.New("交接单不存在")
	ErrAlreadyResolved = errors.New("交接单已解决，不可重复操作")
	ErrWriteRejected   = errors.New("写入被访问控制拒绝")
	ErrProfileRequired = errors.New("操作前需完善资料")
)

// HandoffService 交接单业务接口
type HandoffService interface {
	List(ctx context.Context, includeResolved bool) ([]dto.HandoffResponse, error)
	Get(ctx context.Context, id string) (*dto.HandoffResponse, error)
	ListUpdates(ctx context.Context, handoffID string) ([]dto.UpdateResponse, error)
	Create(ctx context.Context, userID string, req *dto.CreateHandoffRequest) (*dto.HandoffResponse, error)
	AppendUpdate(ctx context.Context, handoffID, userID, message string) ([]dto.UpdateResponse, error)
	Resolve(ctx context.Context, handoffID, userID string) (*dto.HandoffResponse, error)
}

type handoffService struct {
	repo   *repository.Repository
	rdb    *redis.Client
	logger *zap.Logger
}

// NewHandoffService 创建 HandoffService 实例
func NewHandoffService(repo *repository.Repository, rdb *redis.Client, logger *zap.Logger) HandoffService {
	return &handoffService{repo: repo, rdb: rdb, logger: logger}
}

// List 返回信息流：策略排序（未解决在前、组内有效时间降序）+ 可见性过滤
// 无记录时返回空列表而非错误
func (s *handoffService) List(ctx context.Context, includeResolved bool) ([]dto.HandoffResponse, error) {
	handoffs, err := s.repo.Handoff.List(ctx)
	if err != nil {
		s.logger.Error("查询交接单列表失败", zap.Error(err))
		return nil, err
	}

	policy.SortFeed(handoffs)
	handoffs = policy.FilterResolved(handoffs, includeResolved)

	out := make([]dto.HandoffResponse, 0, len(handoffs))
	for i := range handoffs {
		out = append(out, *handoffToResponse(&handoffs[i], ""))
	}
	return out, nil
}

func (s *handoffService) Get(ctx context.Context, id string) (*dto.HandoffResponse, error) {
	handoff, err := s.repo.Handoff.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrHandoffNotFound
		}
		s.logger.Error("查询交接单失败", zap.Error(err))
		return nil, err
	}

	// 详情页附带短信令牌，便于口头/短信转述
	token := ""
	if t, err := s.repo.Token.GetByHandoff(ctx, id); err == nil {
		token = t.Token
	}

	return handoffToResponse(handoff, token), nil
}

func (s *handoffService) ListUpdates(ctx context.Context, handoffID string) ([]dto.UpdateResponse, error) {
	if _, err := s.repo.Handoff.GetByID(ctx, handoffID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrHandoffNotFound
		}
		return nil, err
	}

	updates, err := s.repo.Update.ListByHandoff(ctx, handoffID)
	if err != nil {
		s.logger.Error("查询交接更新失败", zap.Error(err))
		return nil, err
	}

	out := make([]dto.UpdateResponse, 0, len(updates))
	for i := range updates {
		out = append(out, *updateToResponse(&updates[i]))
	}
	return out, nil
}

// Create 创建交接单：状态强制为 open，创建人快照取自资料，
// 并为短信引用铸造一枚短令牌
func (s *handoffService) Create(ctx context.Context, userID string, req *dto.CreateHandoffRequest) (*dto.HandoffResponse, error) {
	profile, err := s.repo.Profile.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileRequired
		}
		return nil, err
	}

	handoff := &model.Handoff{
		Summary:                      strings.TrimSpace(req.Summary),
		Category:                     req.Category,
		Priority:                     req.Priority,
		LocationCode:                 req.LocationCode,
		Status:                       policy.StatusOpen, // 创建时一律 open
		CreatedBy:                    userID,
		CreatedByDisplayNameSnapshot: profile.DisplayName,
	}
	if err := s.repo.Handoff.Create(ctx, handoff); err != nil {
		s.logger.Error("创建交接单失败", zap.Error(err))
		return nil, err
	}

	token, err := s.mintToken(ctx, handoff.ID)
	if err != nil {
		// 令牌铸造失败不回滚交接单：短信引用是附加能力
		s.logger.Warn("铸造短信令牌失败", zap.String("handoff_id", handoff.ID), zap.Error(err))
		token = ""
	}

	publishChange(ctx, s.rdb, s.logger, "handoffs", "insert", handoff.ID)

	return handoffToResponse(handoff, token), nil
}

// AppendUpdate 追加一条来源为 app 的更新，顺带刷新父单的最后更新字段。
// 成功后整体回读更新列表返回，而非乐观拼接。
func (s *handoffService) AppendUpdate(ctx context.Context, handoffID, userID, message string) ([]dto.UpdateResponse, error) {
	if _, err := s.repo.Handoff.GetByID(ctx, handoffID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrHandoffNotFound
		}
		return nil, err
	}

	profile, err := s.repo.Profile.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileRequired
		}
		return nil, err
	}

	update := &model.HandoffUpdate{
		HandoffID:                 handoffID,
		AuthorUserID:              &userID,
		AuthorDisplayNameSnapshot: profile.DisplayName,
		Source:                    model.SourceApp,
		Message:                   strings.TrimSpace(message),
	}
	if err := s.repo.Update.Create(ctx, update); err != nil {
		s.logger.Error("追加交接更新失败", zap.Error(err))
		return nil, err
	}

	now := update.CreatedAt
	if now.IsZero() {
		now = time.Now()
	}
	if err := s.repo.Handoff.TouchLastUpdate(ctx, handoffID, profile.DisplayName, now); err != nil {
		s.logger.Error("刷新交接单更新字段失败", zap.Error(err))
		return nil, err
	}

	publishChange(ctx, s.rdb, s.logger, "handoff_updates", "insert", update.ID)

	return s.ListUpdates(ctx, handoffID)
}

// Resolve 解决交接单。前置条件：尚未解决。
// UPDATE 影响零行且无错误时视为被访问控制静默拒绝，映射为权限错误。
func (s *handoffService) Resolve(ctx context.Context, handoffID, userID string) (*dto.HandoffResponse, error) {
	handoff, err := s.repo.Handoff.GetByID(ctx, handoffID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrHandoffNotFound
		}
		return nil, err
	}
	if policy.IsResolved(handoff.Status) {
		return nil, ErrAlreadyResolved
	}

	profile, err := s.repo.Profile.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileRequired
		}
		return nil, err
	}

	updated, err := s.repo.Handoff.ResolveReturning(ctx, handoffID, profile.DisplayName, time.Now())
	if err != nil {
		if errors.Is(err, apperrors.ErrNoRowsAffected) {
			return nil, ErrWriteRejected
		}
		s.logger.Error("解决交接单失败", zap.Error(err))
		return nil, err
	}

	publishChange(ctx, s.rdb, s.logger, "handoffs", "update", handoffID)

	return handoffToResponse(updated, ""), nil
}

// mintToken 从 UUID 派生 6 位大写字母数字短令牌，冲突时重试
func (s *handoffService) mintToken(ctx context.Context, handoffID string) (string, error) {
	var lastErr error
	for i := 0; i < 3; i++ {
		raw := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", ""))
		token := raw[:6]
		if err := s.repo.Token.Create(ctx, &model.HandoffToken{Token: token, HandoffID: handoffID}); err != nil {
			lastErr = err
			continue
		}
		return token, nil
	}
	return "", lastErr
}

// ── 模型转响应 ──

func handoffToResponse(h *model.Handoff, token string) *dto.HandoffResponse {
	treatment, pulse := policy.Treatment(h.Status, h.Priority)

	resp := &dto.HandoffResponse{
		ID:                   h.ID,
		CreatedAt:            h.CreatedAt.Format(time.RFC3339),
		Summary:              h.Summary,
		Category:             h.Category,
		Priority:             h.Priority,
		LocationCode:         h.LocationCode,
		Status:               policy.Normalize(h.Status),
		LastUpdateBySnapshot: h.LastUpdateBySnapshot,
		CreatedBy:            h.CreatedBy,
		CreatedByName:        h.CreatedByDisplayNameSnapshot,
		SMSToken:             token,
		Display: dto.DisplayResponse{
			Treatment: treatment,
			Pulse:     pulse,
		},
	}
	if h.LastUpdateAt != nil {
		ts := h.LastUpdateAt.Format(time.RFC3339)
		resp.LastUpdateAt = &ts
	}
	return resp
}

func updateToResponse(u *model.HandoffUpdate) *dto.UpdateResponse {
	return &dto.UpdateResponse{
		ID:         u.ID,
		CreatedAt:  u.CreatedAt.Format(time.RFC3339),
		HandoffID:  u.HandoffID,
		AuthorName: u.AuthorDisplayNameSnapshot,
		Source:     u.Source,
		Message:    u.Message,
	}
}
