package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"staffline/backend/internal/model"
	pkgerrors "staffline/backend/pkg/errors"
)

// ExchangeRequestRepository 换班申请数据访问接口
type ExchangeRequestRepository interface {
	// Create 唯一索引冲突时返回 pkgerrors.ErrDuplicateOpen
	Create(ctx context.Context, req *model.ShiftExchangeRequest) error
	GetByID(ctx context.Context, id string) (*model.ShiftExchangeRequest, error)
	// FindOpenByShift 无 OPEN 申请时返回 gorm.ErrRecordNotFound
	FindOpenByShift(ctx context.Context, shiftID string) (*model.ShiftExchangeRequest, error)
	// Claim OPEN → CLAIMED，未命中返回 pkgerrors.ErrOptimisticLock
	Claim(ctx context.Context, requestID, claimantID string, at time.Time) error
	// Cancel OPEN → CANCELLED，未命中返回 pkgerrors.ErrOptimisticLock
	Cancel(ctx context.Context, requestID, actorID string, at time.Time) error
	ListByOrganization(ctx context.Context, orgID string) ([]model.ShiftExchangeRequest, error)
	// ListVisible 组织内全部 OPEN 申请 + userID 作为申请人或接单人的申请
	ListVisible(ctx context.Context, orgID, userID string) ([]model.ShiftExchangeRequest, error)
	// OpenShiftIDs 返回 shiftIDs 中存在 OPEN 申请的子集
	OpenShiftIDs(ctx context.Context, shiftIDs []string) (map[string]bool, error)
}

type exchangeRequestRepo struct {
	db *gorm.DB
}

// NewExchangeRequestRepo 创建 ExchangeRequestRepository 实例
func NewExchangeRequestRepo(db *gorm.DB) ExchangeRequestRepository {
	return &exchangeRequestRepo{db: db}
}

func (r *exchangeRequestRepo) Create(ctx context.Context, req *model.ShiftExchangeRequest) error {
	err := r.db.WithContext(ctx).Create(req).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return pkgerrors.ErrDuplicateOpen
	}
	return err
}

func (r *exchangeRequestRepo) GetByID(ctx context.Context, id string) (*model.ShiftExchangeRequest, error) {
	var req model.ShiftExchangeRequest
	err := r.db.WithContext(ctx).
		Where("request_id = ?", id).
		First(&req).Error
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *exchangeRequestRepo) FindOpenByShift(ctx context.Context, shiftID string) (*model.ShiftExchangeRequest, error) {
	var req model.ShiftExchangeRequest
	err := r.db.WithContext(ctx).
		Where("shift_id = ? AND status = ?", shiftID, model.ExchangeOpen).
		First(&req).Error
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *exchangeRequestRepo) Claim(ctx context.Context, requestID, claimantID string, at time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&model.ShiftExchangeRequest{}).
		Where("request_id = ? AND status = ?", requestID, model.ExchangeOpen).
		Updates(map[string]interface{}{
			"status":      model.ExchangeClaimed,
			"claimant_id": claimantID,
			"claimed_at":  at,
			"updated_at":  at,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	return nil
}

func (r *exchangeRequestRepo) Cancel(ctx context.Context, requestID, actorID string, at time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&model.ShiftExchangeRequest{}).
		Where("request_id = ? AND status = ?", requestID, model.ExchangeOpen).
		Updates(map[string]interface{}{
			"status":       model.ExchangeCancelled,
			"cancelled_at": at,
			"cancelled_by": actorID,
			"updated_at":   at,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	return nil
}

func (r *exchangeRequestRepo) ListByOrganization(ctx context.Context, orgID string) ([]model.ShiftExchangeRequest, error) {
	var reqs []model.ShiftExchangeRequest
	err := r.db.WithContext(ctx).
		Where("organization_id = ?", orgID).
		Order("created_at DESC").
		Find(&reqs).Error
	return reqs, err
}

func (r *exchangeRequestRepo) ListVisible(ctx context.Context, orgID, userID string) ([]model.ShiftExchangeRequest, error) {
	var reqs []model.ShiftExchangeRequest
	err := r.db.WithContext(ctx).
		Where("organization_id = ?", orgID).
		Where("status = ? OR requester_id = ? OR claimant_id = ?", model.ExchangeOpen, userID, userID).
		Order("created_at DESC").
		Find(&reqs).Error
	return reqs, err
}

func (r *exchangeRequestRepo) OpenShiftIDs(ctx context.Context, shiftIDs []string) (map[string]bool, error) {
	open := make(map[string]bool)
	if len(shiftIDs) == 0 {
		return open, nil
	}

	var ids []string
	err := r.db.WithContext(ctx).
		Model(&model.ShiftExchangeRequest{}).
		Where("shift_id IN ? AND status = ?", shiftIDs, model.ExchangeOpen).
		Pluck("shift_id", &ids).Error
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		open[id] = true
	}
	return open, nil
}
