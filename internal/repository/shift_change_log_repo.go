package repository

import (
	"context"

	"gorm.io/gorm"

	"staffline/backend/internal/model"
)

// ShiftChangeLogRepository 班次归属变更日志数据访问接口
type ShiftChangeLogRepository interface {
	Create(ctx context.Context, log *model.ShiftChangeLog) error
	ListByOrganization(ctx context.Context, orgID string, offset, limit int) ([]model.ShiftChangeLog, int64, error)
}

type shiftChangeLogRepo struct {
	db *gorm.DB
}

// NewShiftChangeLogRepo 创建 ShiftChangeLogRepository 实例
func NewShiftChangeLogRepo(db *gorm.DB) ShiftChangeLogRepository {
	return &shiftChangeLogRepo{db: db}
}

func (r *shiftChangeLogRepo) Create(ctx context.Context, log *model.ShiftChangeLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

func (r *shiftChangeLogRepo) ListByOrganization(ctx context.Context, orgID string, offset, limit int) ([]model.ShiftChangeLog, int64, error) {
	var logs []model.ShiftChangeLog
	var total int64

	db := r.db.WithContext(ctx).
		Model(&model.ShiftChangeLog{}).
		Where("organization_id = ?", orgID)

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := db.Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&logs).Error
	return logs, total, err
}
