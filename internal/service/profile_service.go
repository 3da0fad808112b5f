package service

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/theaarondumas/CS-HANDOFF-V2/internal/dto"
	"github.com/theaarondumas/CS-HANDOFF-V2/internal/model"
	"github.com/theaarondumas/CS-HANDOFF-V2/internal/repository"
	"github.com/theaarondumas/CS-HANDOFF-V2/pkg/redis"
)

// ── 资料模块业务错误 ──

var (
	ErrProfileNotFound = errors.New("资料不存在")
	ErrInvalidProfile  = errors.New("资料字段不合法")
)

// ProfileService 值班人员资料业务接口
// 资料完整性是查看交接板的入门门槛
type ProfileService interface {
	GetMe(ctx context.Context, userID string) (*dto.ProfileResponse, error)
	Upsert(ctx context.Context, userID string, req *dto.UpsertProfileRequest) (*dto.ProfileResponse, error)
	// GateComplete 入门门槛检查：资料存在且 display_name 与 shift 非空
	GateComplete(ctx context.Context, userID string) (bool, error)
}

type profileService struct {
	repo   *repository.Repository
	rdb    *redis.Client
	logger *zap.Logger
}

// NewProfileService 创建 ProfileService 实例
func NewProfileService(repo *repository.Repository, rdb *redis.Client, logger *zap.Logger) ProfileService {
	return &profileService{repo: repo, rdb: rdb, logger: logger}
}

func (s *profileService) GetMe(ctx context.Context, userID string) (*dto.ProfileResponse, error) {
	profile, err := s.repo.Profile.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		s.logger.Error("查询资料失败", zap.Error(err))
		return nil, err
	}
	return profileToResponse(profile), nil
}

// Upsert 以 user_id 为键插入或整体覆盖
// display_name 去空白后 2-10 字符并统一大写；role 缺省 CS
func (s *profileService) Upsert(ctx context.Context, userID string, req *dto.UpsertProfileRequest) (*dto.ProfileResponse, error) {
	displayName := strings.ToUpper(strings.TrimSpace(req.DisplayName))
	// 按字符数而非字节数计长，中文名同样适用
	if n := utf8.RuneCountInString(displayName); n < 2 || n > 10 {
		return nil, ErrInvalidProfile
	}

	shift := strings.ToUpper(strings.TrimSpace(req.Shift))
	switch shift {
	case model.ShiftAM, model.ShiftPM, model.ShiftNOC:
	default:
		return nil, ErrInvalidProfile
	}

	role := strings.TrimSpace(req.Role)
	if role == "" {
		role = "CS"
	}

	profile := &model.Profile{
		UserID:      userID,
		DisplayName: displayName,
		Role:        role,
		Shift:       shift,
	}
	if err := s.repo.Profile.Upsert(ctx, profile); err != nil {
		s.logger.Error("写入资料失败", zap.Error(err))
		return nil, err
	}

	publishChange(ctx, s.rdb, s.logger, "profiles", "update", userID)

	return profileToResponse(profile), nil
}

func (s *profileService) GateComplete(ctx context.Context, userID string) (bool, error) {
	profile, err := s.repo.Profile.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return profile.Complete(), nil
}

// profileToResponse 资料模型转响应
func profileToResponse(p *model.Profile) *dto.ProfileResponse {
	return &dto.ProfileResponse{
		UserID:      p.UserID,
		DisplayName: p.DisplayName,
		Role:        p.Role,
		Shift:       p.Shift,
		Complete:    p.Complete(),
	}
}
