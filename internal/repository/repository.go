package repository

import "gorm.io/gorm"

// Repository 所有 Repository 的聚合入口
type Repository struct {
	User     UserRepository
	Profile  ProfileRepository
	Handoff  HandoffRepository
	Update   HandoffUpdateRepository
	Token    HandoffTokenRepository
	Category CategoryRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		User:     NewUserRepo(db),
		Profile:  NewProfileRepo(db),
		Handoff:  NewHandoffRepo(db),
		Update:   NewHandoffUpdateRepo(db),
		Token:    NewHandoffTokenRepo(db),
		Category: NewCategoryRepo(db),
	}
}
