package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"staffline/backend/internal/model"
	"staffline/backend/pkg/database"
	pkgerrors "staffline/backend/pkg/errors"
)

// ShiftRepository 班次数据访问接口
//
// 所有写操作都是条件更新：守卫不匹配（version / 持有人 / 市场标记）时返回
// pkgerrors.ErrOptimisticLock，不做任何修改。
// 存储不支持市场标记列时，标记相关的读写被忽略，IsMarketplace 始终为 false。
type ShiftRepository interface {
	GetByID(ctx context.Context, id string) (*model.Shift, error)
	ListByIDs(ctx context.Context, ids []string) ([]model.Shift, error)
	// ListByOwnerAndDate 某成员在组织内某天持有的全部班次（不按状态过滤）
	ListByOwnerAndDate(ctx context.Context, orgID, ownerID string, date time.Time) ([]model.Shift, error)

	// SetMarketplaceFlag 以 version 为守卫设置市场标记
	SetMarketplaceFlag(ctx context.Context, shift *model.Shift, flag bool, operatorID string) error
	// Reassign 把班次转给 newOwnerID 并清除市场标记
	// 守卫：version、当前持有人未变、（能力可用时）仍在市场中
	Reassign(ctx context.Context, shift *model.Shift, newOwnerID, operatorID string) error
	// Restore 撤销一次 Reassign：持有人仍为 expectOwner 时恢复 owner 与 flag
	Restore(ctx context.Context, shiftID string, expectOwner, owner *string, flag bool, operatorID string) error
	// Repair 以 version 为守卫清除市场标记并写入持有人
	Repair(ctx context.Context, shift *model.Shift, owner *string, operatorID string) error

	Capabilities() database.Capabilities
}

type shiftRepo struct {
	db   *gorm.DB
	caps database.Capabilities
}

// NewShiftRepo 创建 ShiftRepository 实例
func NewShiftRepo(db *gorm.DB, caps database.Capabilities) ShiftRepository {
	return &shiftRepo{db: db, caps: caps}
}

func (r *shiftRepo) Capabilities() database.Capabilities { return r.caps }

// normalize 能力不可用时抹掉可能读到的旧列值
func (r *shiftRepo) normalize(shifts ...*model.Shift) {
	if r.caps.MarketplaceFlag {
		return
	}
	for _, s := range shifts {
		s.IsMarketplace = false
	}
}

func (r *shiftRepo) GetByID(ctx context.Context, id string) (*model.Shift, error) {
	var shift model.Shift
	err := r.db.WithContext(ctx).
		Where("shift_id = ?", id).
		First(&shift).Error
	if err != nil {
		return nil, err
	}
	r.normalize(&shift)
	return &shift, nil
}

func (r *shiftRepo) ListByIDs(ctx context.Context, ids []string) ([]model.Shift, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var shifts []model.Shift
	err := r.db.WithContext(ctx).
		Where("shift_id IN ?", ids).
		Order("shift_date ASC, start_time ASC").
		Find(&shifts).Error
	for i := range shifts {
		r.normalize(&shifts[i])
	}
	return shifts, err
}

func (r *shiftRepo) ListByOwnerAndDate(ctx context.Context, orgID, ownerID string, date time.Time) ([]model.Shift, error) {
	var shifts []model.Shift
	err := r.db.WithContext(ctx).
		Where("organization_id = ? AND owner_id = ? AND shift_date = ?", orgID, ownerID, date.Format(time.DateOnly)).
		Order("start_time ASC").
		Find(&shifts).Error
	for i := range shifts {
		r.normalize(&shifts[i])
	}
	return shifts, err
}

// whereOwner owner 为 nil 时匹配无主
func whereOwner(tx *gorm.DB, owner *string) *gorm.DB {
	if owner == nil {
		return tx.Where("owner_id IS NULL")
	}
	return tx.Where("owner_id = ?", *owner)
}

func (r *shiftRepo) SetMarketplaceFlag(ctx context.Context, shift *model.Shift, flag bool, operatorID string) error {
	if !r.caps.MarketplaceFlag {
		return nil
	}

	oldVersion := shift.Version
	result := r.db.WithContext(ctx).
		Model(&model.Shift{}).
		Where("shift_id = ? AND version = ?", shift.ShiftID, oldVersion).
		Updates(map[string]interface{}{
			"is_marketplace": flag,
			"updated_by":     operatorID,
			"updated_at":     time.Now(),
			"version":        oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	shift.IsMarketplace = flag
	shift.Version = oldVersion + 1
	return nil
}

func (r *shiftRepo) Reassign(ctx context.Context, shift *model.Shift, newOwnerID, operatorID string) error {
	oldVersion := shift.Version
	tx := r.db.WithContext(ctx).
		Model(&model.Shift{}).
		Where("shift_id = ? AND version = ?", shift.ShiftID, oldVersion)
	tx = whereOwner(tx, shift.OwnerID)

	updates := map[string]interface{}{
		"owner_id":   newOwnerID,
		"updated_by": operatorID,
		"updated_at": time.Now(),
		"version":    oldVersion + 1,
	}
	if r.caps.MarketplaceFlag {
		tx = tx.Where("is_marketplace = ?", true)
		updates["is_marketplace"] = false
	}

	result := tx.Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}

	owner := newOwnerID
	shift.OwnerID = &owner
	shift.IsMarketplace = false
	shift.Version = oldVersion + 1
	return nil
}

func (r *shiftRepo) Restore(ctx context.Context, shiftID string, expectOwner, owner *string, flag bool, operatorID string) error {
	tx := r.db.WithContext(ctx).
		Model(&model.Shift{}).
		Where("shift_id = ?", shiftID)
	tx = whereOwner(tx, expectOwner)

	updates := map[string]interface{}{
		"owner_id":   owner,
		"updated_by": operatorID,
		"updated_at": time.Now(),
		"version":    gorm.Expr("version + 1"),
	}
	if r.caps.MarketplaceFlag {
		updates["is_marketplace"] = flag
	}

	result := tx.Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	return nil
}

func (r *shiftRepo) Repair(ctx context.Context, shift *model.Shift, owner *string, operatorID string) error {
	oldVersion := shift.Version
	updates := map[string]interface{}{
		"owner_id":   owner,
		"updated_by": operatorID,
		"updated_at": time.Now(),
		"version":    oldVersion + 1,
	}
	if r.caps.MarketplaceFlag {
		updates["is_marketplace"] = false
	}

	result := r.db.WithContext(ctx).
		Model(&model.Shift{}).
		Where("shift_id = ? AND version = ?", shift.ShiftID, oldVersion).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	shift.OwnerID = owner
	shift.IsMarketplace = false
	shift.Version = oldVersion + 1
	return nil
}
