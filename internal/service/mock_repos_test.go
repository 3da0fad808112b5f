package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"gorm.io/gorm"

	"github.com/theaarondumas/CS-HANDOFF-V2/internal/model"
	"github.com/theaarondumas/CS-HANDOFF-V2/internal/policy"
	apperrors "github.com/theaarondumas/CS-HANDOFF-V2/pkg/errors"
)

// ── Mock UserRepository ──

type mockUserRepo struct {
	users map[string]*model.User // key: user_id 与 "email:"+email 双索引
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	if user.UserID == "" {
		user.UserID = fmt.Sprintf("user-%d", len(m.users)+1)
	}
	m.users[user.UserID] = user
	if user.Email != "" {
		m.users["email:"+user.Email] = user
	}
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	if u, ok := m.users["email:"+email]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

// ── Mock ProfileRepository ──

type mockProfileRepo struct {
	profiles map[string]*model.Profile
	failErr  error // 非空时所有操作返回该错误
}

func newMockProfileRepo() *mockProfileRepo {
	return &mockProfileRepo{profiles: make(map[string]*model.Profile)}
}

func (m *mockProfileRepo) GetByUserID(_ context.Context, userID string) (*model.Profile, error) {
	if m.failErr != nil {
		return nil, m.failErr
	}
	if p, ok := m.profiles[userID]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockProfileRepo) Upsert(_ context.Context, profile *model.Profile) error {
	if m.failErr != nil {
		return m.failErr
	}
	m.profiles[profile.UserID] = profile
	return nil
}

// ── Mock HandoffRepository ──

type mockHandoffRepo struct {
	handoffs      map[string]*model.Handoff
	rejectWrites  bool  // 模拟行级权限静默拒绝
	prioritiesErr error // 非空时能力查询失败
	seq           int
}

func newMockHandoffRepo() *mockHandoffRepo {
	return &mockHandoffRepo{handoffs: make(map[string]*model.Handoff)}
}

func (m *mockHandoffRepo) Create(_ context.Context, handoff *model.Handoff) error {
	m.seq++
	if handoff.ID == "" {
		handoff.ID = fmt.Sprintf("handoff-%d", m.seq)
	}
	if handoff.CreatedAt.IsZero() {
		handoff.CreatedAt = time.Now()
	}
	m.handoffs[handoff.ID] = handoff
	return nil
}

func (m *mockHandoffRepo) GetByID(_ context.Context, id string) (*model.Handoff, error) {
	if h, ok := m.handoffs[id]; ok {
		copied := *h
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockHandoffRepo) List(_ context.Context) ([]model.Handoff, error) {
	out := make([]model.Handoff, 0, len(m.handoffs))
	for _, h := range m.handoffs {
		out = append(out, *h)
	}
	// 与真实实现一致：有效时间降序
	sort.Slice(out, func(i, j int) bool {
		return out[i].EffectiveTime().After(out[j].EffectiveTime())
	})
	return out, nil
}

func (m *mockHandoffRepo) ResolveReturning(_ context.Context, id, resolverName string, at time.Time) (*model.Handoff, error) {
	if m.rejectWrites {
		return nil, apperrors.ErrNoRowsAffected
	}
	h, ok := m.handoffs[id]
	if !ok {
		return nil, apperrors.ErrNoRowsAffected
	}
	h.Status = policy.StatusResolved
	h.LastUpdateAt = &at
	h.LastUpdateBySnapshot = &resolverName
	copied := *h
	return &copied, nil
}

func (m *mockHandoffRepo) TouchLastUpdate(_ context.Context, id, byName string, at time.Time) error {
	h, ok := m.handoffs[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	h.LastUpdateAt = &at
	h.LastUpdateBySnapshot = &byName
	return nil
}

func (m *mockHandoffRepo) DistinctPriorities(_ context.Context) ([]string, error) {
	if m.prioritiesErr != nil {
		return nil, m.prioritiesErr
	}
	seen := make(map[string]bool)
	var out []string
	for _, h := range m.handoffs {
		if !seen[h.Priority] {
			seen[h.Priority] = true
			out = append(out, h.Priority)
		}
	}
	sort.Strings(out)
	return out, nil
}

// ── Mock HandoffUpdateRepository ──

type mockUpdateRepo struct {
	updates []*model.HandoffUpdate
	seq     int
}

func newMockUpdateRepo() *mockUpdateRepo {
	return &mockUpdateRepo{}
}

func (m *mockUpdateRepo) Create(_ context.Context, update *model.HandoffUpdate) error {
	m.seq++
	if update.ID == "" {
		update.ID = fmt.Sprintf("update-%d", m.seq)
	}
	if update.CreatedAt.IsZero() {
		// 单调递增，保证排序断言稳定
		update.CreatedAt = time.Now().Add(time.Duration(m.seq) * time.Millisecond)
	}
	m.updates = append(m.updates, update)
	return nil
}

func (m *mockUpdateRepo) ListByHandoff(_ context.Context, handoffID string) ([]model.HandoffUpdate, error) {
	var out []model.HandoffUpdate
	for _, u := range m.updates {
		if u.HandoffID == handoffID {
			out = append(out, *u)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// ── Mock HandoffTokenRepository ──

type mockTokenRepo struct {
	tokens map[string]*model.HandoffToken
}

func newMockTokenRepo() *mockTokenRepo {
	return &mockTokenRepo{tokens: make(map[string]*model.HandoffToken)}
}

func (m *mockTokenRepo) Create(_ context.Context, token *model.HandoffToken) error {
	if _, ok := m.tokens[token.Token]; ok {
		return errors.New("duplicate key")
	}
	m.tokens[token.Token] = token
	return nil
}

func (m *mockTokenRepo) GetByToken(_ context.Context, token string) (*model.HandoffToken, error) {
	if t, ok := m.tokens[token]; ok {
		return t, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTokenRepo) GetByHandoff(_ context.Context, handoffID string) (*model.HandoffToken, error) {
	for _, t := range m.tokens {
		if t.HandoffID == handoffID {
			return t, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

// ── Mock CategoryRepository ──

type mockCategoryRepo struct {
	categories []model.Category
	failErr    error
}

func newMockCategoryRepo() *mockCategoryRepo {
	return &mockCategoryRepo{
		categories: []model.Category{
			{Name: "medication", SortOrder: 1},
			{Name: "appointment", SortOrder: 2},
			{Name: "other", SortOrder: 3},
		},
	}
}

func (m *mockCategoryRepo) List(_ context.Context) ([]model.Category, error) {
	if m.failErr != nil {
		return nil, m.failErr
	}
	return m.categories, nil
}
