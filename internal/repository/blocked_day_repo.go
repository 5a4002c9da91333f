package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"staffline/backend/internal/model"
)

// BlockedDayRepository 禁排日数据访问接口
type BlockedDayRepository interface {
	// FindActive 覆盖 date 的禁排记录：全组织的在前，其后是 userID 本人的
	FindActive(ctx context.Context, orgID, userID string, date time.Time) ([]model.BlockedDay, error)
	Create(ctx context.Context, day *model.BlockedDay) error
}

type blockedDayRepo struct {
	db *gorm.DB
}

// NewBlockedDayRepo 创建 BlockedDayRepository 实例
func NewBlockedDayRepo(db *gorm.DB) BlockedDayRepository {
	return &blockedDayRepo{db: db}
}

func (r *blockedDayRepo) FindActive(ctx context.Context, orgID, userID string, date time.Time) ([]model.BlockedDay, error) {
	d := date.Format(time.DateOnly)
	var days []model.BlockedDay
	err := r.db.WithContext(ctx).
		Where("organization_id = ? AND start_date <= ? AND end_date >= ?", orgID, d, d).
		Where("user_id IS NULL OR user_id = ?", userID).
		Order("user_id NULLS FIRST, start_date ASC").
		Find(&days).Error
	return days, err
}

func (r *blockedDayRepo) Create(ctx context.Context, day *model.BlockedDay) error {
	return r.db.WithContext(ctx).Create(day).Error
}
