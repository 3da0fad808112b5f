package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/theaarondumas/CS-HANDOFF-V2/config"
	"github.com/theaarondumas/CS-HANDOFF-V2/internal/dto"
	"github.com/theaarondumas/CS-HANDOFF-V2/internal/model"
	"github.com/theaarondumas/CS-HANDOFF-V2/internal/policy"
	"github.com/theaarondumas/CS-HANDOFF-V2/internal/repository"
)

// newRelayTestEnv 构建中继测试环境，并预置一张带短令牌的交接单
func newRelayTestEnv(t *testing.T) (RelayService, *repository.Repository, string) {
	t.Helper()

	repo := &repository.Repository{
		User:     newMockUserRepo(),
		Profile:  newMockProfileRepo(),
		Handoff:  newMockHandoffRepo(),
		Update:   newMockUpdateRepo(),
		Token:    newMockTokenRepo(),
		Category: newMockCategoryRepo(),
	}
	cfg := &config.Config{
		Relay: config.RelayConfig{AuditSummaryLimit: 120},
	}
	svc := NewRelayService(cfg, repo, nil, zap.NewNop())

	handoff := &model.Handoff{
		Summary:                      "夜班药物清点",
		Category:                     "medication",
		Priority:                     model.PriorityHigh,
		Status:                       policy.StatusOpen,
		CreatedBy:                    "user-1",
		CreatedByDisplayNameSnapshot: "ALICE",
	}
	if err := repo.Handoff.Create(context.Background(), handoff); err != nil {
		t.Fatalf("预置交接单失败: %v", err)
	}
	if err := repo.Token.Create(context.Background(), &model.HandoffToken{
		Token: "AB12", HandoffID: handoff.ID,
	}); err != nil {
		t.Fatalf("预置令牌失败: %v", err)
	}

	return svc, repo, handoff.ID
}

func TestInboundSMSByToken(t *testing.T) {
	svc, repo, handoffID := newRelayTestEnv(t)

	err := svc.InboundSMS(context.Background(), &dto.InboundSMSRequest{
		Message: "Update: all clear H:AB12",
		Sender:  "+15105550100",
	})
	if err != nil {
		t.Fatalf("InboundSMS() error = %v", err)
	}

	updates, err := repo.Update.ListByHandoff(context.Background(), handoffID)
	if err != nil {
		t.Fatalf("ListByHandoff() error = %v", err)
	}
	if len(updates) != 1 {
		t.Fatalf("更新条数 = %d, want 1", len(updates))
	}
	if updates[0].Source != model.SourceSMS {
		t.Errorf("更新来源 = %q, want %q", updates[0].Source, model.SourceSMS)
	}
	if updates[0].Message != "Update: all clear H:AB12" {
		t.Errorf("更新正文 = %q", updates[0].Message)
	}
	if updates[0].AuthorDisplayNameSnapshot != "+15105550100" {
		t.Errorf("作者快照 = %q, want 发信人号码", updates[0].AuthorDisplayNameSnapshot)
	}
	if updates[0].AuthorUserID != nil {
		t.Error("短信更新不应关联账号")
	}

	parent, _ := repo.Handoff.GetByID(context.Background(), handoffID)
	if parent.LastUpdateAt == nil {
		t.Error("短信更新后父单 last_update_at 应已刷新")
	}
}

func TestInboundSMSTokenCaseInsensitive(t *testing.T) {
	svc, repo, handoffID := newRelayTestEnv(t)

	// 令牌在正文中可能被小写转述
	err := svc.InboundSMS(context.Background(), &dto.InboundSMSRequest{
		Message: "复查完毕 H:ab12",
		Sender:  "前台",
	})
	if err != nil {
		t.Fatalf("InboundSMS() error = %v", err)
	}

	updates, _ := repo.Update.ListByHandoff(context.Background(), handoffID)
	if len(updates) != 1 {
		t.Fatalf("更新条数 = %d, want 1", len(updates))
	}
}

func TestInboundSMSExplicitHandoffID(t *testing.T) {
	svc, repo, handoffID := newRelayTestEnv(t)

	// 显式 handoff_id 优先于正文令牌解析
	err := svc.InboundSMS(context.Background(), &dto.InboundSMSRequest{
		HandoffID: handoffID,
		Message:   "不带令牌的正文",
	})
	if err != nil {
		t.Fatalf("InboundSMS() error = %v", err)
	}

	updates, _ := repo.Update.ListByHandoff(context.Background(), handoffID)
	if len(updates) != 1 {
		t.Fatalf("更新条数 = %d, want 1", len(updates))
	}
	// 无发信人时回退为 SMS
	if updates[0].AuthorDisplayNameSnapshot != "SMS" {
		t.Errorf("无发信人时作者快照 = %q, want SMS", updates[0].AuthorDisplayNameSnapshot)
	}
}

func TestInboundSMSNoTokenReference(t *testing.T) {
	svc, _, _ := newRelayTestEnv(t)

	err := svc.InboundSMS(context.Background(), &dto.InboundSMSRequest{
		Message: "没有任何引用的闲聊",
		Sender:  "+15105550100",
	})
	if !errors.Is(err, ErrNoTokenReference) {
		t.Errorf("无引用 InboundSMS() error = %v, want ErrNoTokenReference", err)
	}
}

func TestInboundSMSUnknownToken(t *testing.T) {
	svc, _, _ := newRelayTestEnv(t)

	err := svc.InboundSMS(context.Background(), &dto.InboundSMSRequest{
		Message: "收到 H:ZZZZ99",
		Sender:  "+15105550100",
	})
	if !errors.Is(err, ErrUnknownToken) {
		t.Errorf("未知令牌 InboundSMS() error = %v, want ErrUnknownToken", err)
	}
}

func TestInboundSMSEmptyMessage(t *testing.T) {
	svc, _, _ := newRelayTestEnv(t)

	err := svc.InboundSMS(context.Background(), &dto.InboundSMSRequest{
		Message: "   ",
		Sender:  "+15105550100",
	})
	if !errors.Is(err, ErrRelayMessageRequired) {
		t.Errorf("空正文 InboundSMS() error = %v, want ErrRelayMessageRequired", err)
	}
}

func TestAlertAuditHighPriority(t *testing.T) {
	svc, repo, handoffID := newRelayTestEnv(t)

	location := "B-12"
	alerted, err := svc.AlertAudit(context.Background(), &dto.AlertAuditRequest{
		HandoffID:    handoffID,
		Summary:      "夜班药物清点",
		Priority:     model.PriorityHigh,
		LocationCode: &location,
	})
	if err != nil {
		t.Fatalf("AlertAudit() error = %v", err)
	}
	if !alerted {
		t.Error("高优先级 AlertAudit() 应返回已写入")
	}

	updates, _ := repo.Update.ListByHandoff(context.Background(), handoffID)
	if len(updates) != 1 {
		t.Fatalf("审计更新条数 = %d, want 1", len(updates))
	}
	if updates[0].Source != model.SourceSystem {
		t.Errorf("审计来源 = %q, want %q", updates[0].Source, model.SourceSystem)
	}
	if updates[0].AuthorDisplayNameSnapshot != "SYSTEM" {
		t.Errorf("审计作者 = %q, want SYSTEM", updates[0].AuthorDisplayNameSnapshot)
	}
	if !strings.Contains(updates[0].Message, "夜班药物清点") || !strings.Contains(updates[0].Message, "B-12") {
		t.Errorf("审计消息缺少摘要或位置: %q", updates[0].Message)
	}
}

func TestAlertAuditNonHighSkipped(t *testing.T) {
	svc, repo, handoffID := newRelayTestEnv(t)

	alerted, err := svc.AlertAudit(context.Background(), &dto.AlertAuditRequest{
		HandoffID: handoffID,
		Summary:   "普通事项",
		Priority:  model.PriorityMedium,
	})
	if err != nil {
		t.Fatalf("AlertAudit() error = %v", err)
	}
	if alerted {
		t.Error("非高优先级 AlertAudit() 不应写入")
	}

	updates, _ := repo.Update.ListByHandoff(context.Background(), handoffID)
	if len(updates) != 0 {
		t.Errorf("非高优先级不应产生审计更新, got %d 条", len(updates))
	}
}

func TestAlertAuditUnknownHandoff(t *testing.T) {
	svc, _, _ := newRelayTestEnv(t)

	_, err := svc.AlertAudit(context.Background(), &dto.AlertAuditRequest{
		HandoffID: "missing",
		Summary:   "无主告警",
		Priority:  model.PriorityHigh,
	})
	if !errors.Is(err, ErrHandoffNotFound) {
		t.Errorf("未知交接单 AlertAudit() error = %v, want ErrHandoffNotFound", err)
	}
}

func TestAlertAuditSummaryTruncated(t *testing.T) {
	svc, repo, handoffID := newRelayTestEnv(t)

	long := strings.Repeat("长", 200)
	alerted, err := svc.AlertAudit(context.Background(), &dto.AlertAuditRequest{
		HandoffID: handoffID,
		Summary:   long,
		Priority:  model.PriorityHigh,
	})
	if err != nil || !alerted {
		t.Fatalf("AlertAudit() = (%v, %v)", alerted, err)
	}

	updates, _ := repo.Update.ListByHandoff(context.Background(), handoffID)
	if len(updates) != 1 {
		t.Fatalf("审计更新条数 = %d, want 1", len(updates))
	}
	// 截断到配置上限并加省略号
	if strings.Contains(updates[0].Message, long) {
		t.Error("超长摘要应被截断")
	}
	if !strings.Contains(updates[0].Message, strings.Repeat("长", 120)+"…") {
		t.Error("截断后应保留前 120 字符并追加省略号")
	}
}
