package repository

import (
	"gorm.io/gorm"

	"staffline/backend/pkg/database"
)

// Repository 所有 Repository 的聚合入口
type Repository struct {
	Shift      ShiftRepository
	Exchange   ExchangeRequestRepository
	Membership MembershipRepository
	BlockedDay BlockedDayRepository
	User       UserRepository
	ChangeLog  ShiftChangeLogRepository
}

// NewRepository 创建 Repository 聚合；caps 为启动时探测到的存储能力
func NewRepository(db *gorm.DB, caps database.Capabilities) *Repository {
	return &Repository{
		Shift:      NewShiftRepo(db, caps),
		Exchange:   NewExchangeRequestRepo(db),
		Membership: NewMembershipRepo(db),
		BlockedDay: NewBlockedDayRepo(db),
		User:       NewUserRepo(db),
		ChangeLog:  NewShiftChangeLogRepo(db),
	}
}
