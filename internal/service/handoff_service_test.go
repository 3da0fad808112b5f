package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/theaarondumas/CS-HANDOFF-V2/internal/dto"
	"github.com/theaarondumas/CS-HANDOFF-V2/internal/model"
	"github.com/theaarondumas/CS-HANDOFF-V2/internal/policy"
	"github.com/theaarondumas/CS-HANDOFF-V2/internal/repository"
)

// newHandoffTestEnv 构建挂载 Mock 仓储的测试环境
func newHandoffTestEnv() (HandoffService, *repository.Repository) {
	repo := &repository.Repository{
		User:     newMockUserRepo(),
		Profile:  newMockProfileRepo(),
		Handoff:  newMockHandoffRepo(),
		Update:   newMockUpdateRepo(),
		Token:    newMockTokenRepo(),
		Category: newMockCategoryRepo(),
	}
	svc := NewHandoffService(repo, nil, zap.NewNop())
	return svc, repo
}

// seedProfile 为指定用户写入一份完整资料
func seedProfile(repo *repository.Repository, userID, displayName string) {
	repo.Profile.(*mockProfileRepo).profiles[userID] = &model.Profile{
		UserID:      userID,
		DisplayName: displayName,
		Role:        "CS",
		Shift:       model.ShiftAM,
	}
}

func TestCreateHandoffForcesOpen(t *testing.T) {
	svc, repo := newHandoffTestEnv()
	seedProfile(repo, "user-1", "ALICE")

	resp, err := svc.Create(context.Background(), "user-1", &dto.CreateHandoffRequest{
		Summary:  "药物交接：晚班按时发药",
		Category: "medication",
		Priority: model.PriorityHigh,
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if resp.Status != policy.StatusOpen {
		t.Errorf("新建交接单状态 = %q, want %q", resp.Status, policy.StatusOpen)
	}
	if resp.CreatedByName != "ALICE" {
		t.Errorf("创建人快照 = %q, want ALICE", resp.CreatedByName)
	}
	if len(resp.SMSToken) != 6 {
		t.Errorf("短信令牌长度 = %d, want 6", len(resp.SMSToken))
	}
	// 新建一律为 open：高优先级取高亮辉光，但脉冲仅属于 needs_followup
	if resp.Display.Treatment != policy.TreatmentGlowHigh || resp.Display.Pulse {
		t.Errorf("高优先级展示处理 = (%q, %v), want (%q, false)",
			resp.Display.Treatment, resp.Display.Pulse, policy.TreatmentGlowHigh)
	}

	// 令牌映射必须已落库，可供短信中继反查
	mapping, err := repo.Token.GetByToken(context.Background(), resp.SMSToken)
	if err != nil {
		t.Fatalf("GetByToken() error = %v", err)
	}
	if mapping.HandoffID != resp.ID {
		t.Errorf("令牌映射到 %q, want %q", mapping.HandoffID, resp.ID)
	}
}

func TestCreateHandoffWithoutProfile(t *testing.T) {
	svc, _ := newHandoffTestEnv()

	_, err := svc.Create(context.Background(), "no-profile", &dto.CreateHandoffRequest{
		Summary:  "测试",
		Category: "other",
		Priority: model.PriorityLow,
	})
	if !errors.Is(err, ErrProfileRequired) {
		t.Errorf("无资料创建 error = %v, want ErrProfileRequired", err)
	}
}

func TestResolveHandoff(t *testing.T) {
	svc, repo := newHandoffTestEnv()
	seedProfile(repo, "user-1", "ALICE")

	created, err := svc.Create(context.Background(), "user-1", &dto.CreateHandoffRequest{
		Summary:  "维修跟进",
		Category: "maintenance",
		Priority: model.PriorityMedium,
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	resolved, err := svc.Resolve(context.Background(), created.ID, "user-1")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	if resolved.Status != policy.StatusResolved {
		t.Errorf("解决后状态 = %q, want %q", resolved.Status, policy.StatusResolved)
	}
	if resolved.LastUpdateAt == nil {
		t.Error("解决后 last_update_at 应已刷新")
	}
	if resolved.LastUpdateBySnapshot == nil || *resolved.LastUpdateBySnapshot != "ALICE" {
		t.Errorf("解决人快照 = %v, want ALICE", resolved.LastUpdateBySnapshot)
	}
	if resolved.Display.Treatment != policy.TreatmentDead || resolved.Display.Pulse {
		t.Errorf("已解决展示处理 = (%q, %v), want (%q, false)",
			resolved.Display.Treatment, resolved.Display.Pulse, policy.TreatmentDead)
	}
}

func TestResolveAlreadyResolved(t *testing.T) {
	svc, repo := newHandoffTestEnv()
	seedProfile(repo, "user-1", "ALICE")

	created, _ := svc.Create(context.Background(), "user-1", &dto.CreateHandoffRequest{
		Summary:  "重复解决",
		Category: "other",
		Priority: model.PriorityLow,
	})
	if _, err := svc.Resolve(context.Background(), created.ID, "user-1"); err != nil {
		t.Fatalf("首次 Resolve() error = %v", err)
	}

	_, err := svc.Resolve(context.Background(), created.ID, "user-1")
	if !errors.Is(err, ErrAlreadyResolved) {
		t.Errorf("二次 Resolve() error = %v, want ErrAlreadyResolved", err)
	}
}

func TestResolveWriteRejected(t *testing.T) {
	svc, repo := newHandoffTestEnv()
	seedProfile(repo, "user-1", "ALICE")

	created, _ := svc.Create(context.Background(), "user-1", &dto.CreateHandoffRequest{
		Summary:  "权限拒绝",
		Category: "other",
		Priority: model.PriorityLow,
	})

	// 模拟 UPDATE 影响零行的静默拒绝
	repo.Handoff.(*mockHandoffRepo).rejectWrites = true

	_, err := svc.Resolve(context.Background(), created.ID, "user-1")
	if !errors.Is(err, ErrWriteRejected) {
		t.Errorf("静默拒绝 Resolve() error = %v, want ErrWriteRejected", err)
	}
}

func TestResolveNotFound(t *testing.T) {
	svc, repo := newHandoffTestEnv()
	seedProfile(repo, "user-1", "ALICE")

	_, err := svc.Resolve(context.Background(), "missing", "user-1")
	if !errors.Is(err, ErrHandoffNotFound) {
		t.Errorf("Resolve(missing) error = %v, want ErrHandoffNotFound", err)
	}
}

func TestAppendUpdateOrdering(t *testing.T) {
	svc, repo := newHandoffTestEnv()
	seedProfile(repo, "user-1", "ALICE")

	created, _ := svc.Create(context.Background(), "user-1", &dto.CreateHandoffRequest{
		Summary:  "多次更新",
		Category: "behavior",
		Priority: model.PriorityMedium,
	})

	if _, err := svc.AppendUpdate(context.Background(), created.ID, "user-1", "第一条"); err != nil {
		t.Fatalf("AppendUpdate() error = %v", err)
	}
	updates, err := svc.AppendUpdate(context.Background(), created.ID, "user-1", "第二条")
	if err != nil {
		t.Fatalf("AppendUpdate() error = %v", err)
	}

	if len(updates) != 2 {
		t.Fatalf("更新条数 = %d, want 2", len(updates))
	}
	// 最新在前
	if updates[0].Message != "第二条" || updates[1].Message != "第一条" {
		t.Errorf("更新排序错误: got [%q, %q]", updates[0].Message, updates[1].Message)
	}
	if updates[0].Source != model.SourceApp {
		t.Errorf("更新来源 = %q, want %q", updates[0].Source, model.SourceApp)
	}
	if updates[0].AuthorName != "ALICE" {
		t.Errorf("作者快照 = %q, want ALICE", updates[0].AuthorName)
	}

	// 父单最后更新字段已刷新
	parent, err := repo.Handoff.GetByID(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if parent.LastUpdateAt == nil {
		t.Error("追加更新后父单 last_update_at 应已刷新")
	}
}

func TestAppendUpdateNotFound(t *testing.T) {
	svc, repo := newHandoffTestEnv()
	seedProfile(repo, "user-1", "ALICE")

	_, err := svc.AppendUpdate(context.Background(), "missing", "user-1", "无主更新")
	if !errors.Is(err, ErrHandoffNotFound) {
		t.Errorf("AppendUpdate(missing) error = %v, want ErrHandoffNotFound", err)
	}
}

func TestListFeedVisibility(t *testing.T) {
	svc, repo := newHandoffTestEnv()
	seedProfile(repo, "user-1", "ALICE")

	ctx := context.Background()
	open1, _ := svc.Create(ctx, "user-1", &dto.CreateHandoffRequest{
		Summary: "未解决一", Category: "other", Priority: model.PriorityLow,
	})
	resolved1, _ := svc.Create(ctx, "user-1", &dto.CreateHandoffRequest{
		Summary: "已解决", Category: "other", Priority: model.PriorityLow,
	})
	if _, err := svc.Resolve(ctx, resolved1.ID, "user-1"); err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	// 默认过滤已解决
	feed, err := svc.List(ctx, false)
	if err != nil {
		t.Fatalf("List(false) error = %v", err)
	}
	if len(feed) != 1 || feed[0].ID != open1.ID {
		t.Errorf("默认视图应仅含未解决项, got %d 条", len(feed))
	}

	// include_resolved=true 时已解决项排在末尾
	feed, err = svc.List(ctx, true)
	if err != nil {
		t.Fatalf("List(true) error = %v", err)
	}
	if len(feed) != 2 {
		t.Fatalf("完整视图条数 = %d, want 2", len(feed))
	}
	if feed[len(feed)-1].ID != resolved1.ID {
		t.Error("已解决项应排在信息流末尾")
	}
}

func TestGetAttachesToken(t *testing.T) {
	svc, repo := newHandoffTestEnv()
	seedProfile(repo, "user-1", "ALICE")

	created, _ := svc.Create(context.Background(), "user-1", &dto.CreateHandoffRequest{
		Summary: "令牌查验", Category: "other", Priority: model.PriorityLow,
	})

	got, err := svc.Get(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.SMSToken != created.SMSToken {
		t.Errorf("详情令牌 = %q, want %q", got.SMSToken, created.SMSToken)
	}

	if _, err := svc.Get(context.Background(), "missing"); !errors.Is(err, ErrHandoffNotFound) {
		t.Errorf("Get(missing) error = %v, want ErrHandoffNotFound", err)
	}
}

func TestListFeedEffectiveTimeOrder(t *testing.T) {
	svc, repo := newHandoffTestEnv()
	seedProfile(repo, "user-1", "ALICE")

	// 直接落库构造时间错位的记录：老单有新更新，应排在新单之前
	hr := repo.Handoff.(*mockHandoffRepo)
	old := time.Now().Add(-2 * time.Hour)
	fresh := time.Now().Add(-1 * time.Hour)
	touched := time.Now()
	hr.handoffs["h-old"] = &model.Handoff{
		ID: "h-old", Summary: "老单新动", Category: "other", Priority: model.PriorityLow,
		Status: policy.StatusOpen, CreatedAt: old, LastUpdateAt: &touched,
		CreatedBy: "user-1", CreatedByDisplayNameSnapshot: "ALICE",
	}
	hr.handoffs["h-new"] = &model.Handoff{
		ID: "h-new", Summary: "新单未动", Category: "other", Priority: model.PriorityLow,
		Status: policy.StatusOpen, CreatedAt: fresh,
		CreatedBy: "user-1", CreatedByDisplayNameSnapshot: "ALICE",
	}

	feed, err := svc.List(context.Background(), false)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(feed) != 2 {
		t.Fatalf("条数 = %d, want 2", len(feed))
	}
	if feed[0].ID != "h-old" {
		t.Errorf("有效时间排序错误: 首位 = %q, want h-old", feed[0].ID)
	}
}
