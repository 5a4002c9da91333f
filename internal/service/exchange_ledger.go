package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"staffline/backend/internal/model"
	"staffline/backend/internal/repository"
	pkgerrors "staffline/backend/pkg/errors"
)

// ExchangeLedger 换班申请状态机：OPEN → CLAIMED | CANCELLED
//
// 状态迁移只通过条件更新 (WHERE status = 'OPEN') 完成，不加任何进程内锁；
// 条件更新是"至多一次接单"的唯一保证。
type ExchangeLedger interface {
	// Insert 创建 OPEN 申请；同一班次已有 OPEN 申请时返回 ErrExchangeAlreadyOpen
	Insert(ctx context.Context, orgID, shiftID, requesterID string) (*model.ShiftExchangeRequest, error)
	// Claim OPEN → CLAIMED
	Claim(ctx context.Context, requestID, claimantID string) (*model.ShiftExchangeRequest, error)
	// Cancel OPEN → CANCELLED；reversal=true 时允许非申请人（撤回换班）
	Cancel(ctx context.Context, requestID, actorID string, reversal bool) (*model.ShiftExchangeRequest, error)
	Get(ctx context.Context, requestID string) (*model.ShiftExchangeRequest, error)
	// FindOpenByShift 无 OPEN 申请时返回 (nil, nil)
	FindOpenByShift(ctx context.Context, shiftID string) (*model.ShiftExchangeRequest, error)
	ListByOrganization(ctx context.Context, orgID string) ([]model.ShiftExchangeRequest, error)
	ListVisible(ctx context.Context, orgID, userID string) ([]model.ShiftExchangeRequest, error)
	// OpenShiftIDs shiftIDs 中存在 OPEN 申请的子集
	OpenShiftIDs(ctx context.Context, shiftIDs []string) (map[string]bool, error)
}

type exchangeLedger struct {
	repo repository.ExchangeRequestRepository
	now  func() time.Time
}

// NewExchangeLedger 创建 ExchangeLedger；now 为 nil 时使用 time.Now
func NewExchangeLedger(repo repository.ExchangeRequestRepository, now func() time.Time) ExchangeLedger {
	if now == nil {
		now = time.Now
	}
	return &exchangeLedger{repo: repo, now: now}
}

func (l *exchangeLedger) Insert(ctx context.Context, orgID, shiftID, requesterID string) (*model.ShiftExchangeRequest, error) {
	existing, err := l.FindOpenByShift(ctx, shiftID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrExchangeAlreadyOpen
	}

	now := l.now()
	req := &model.ShiftExchangeRequest{
		OrganizationID: orgID,
		ShiftID:        shiftID,
		RequesterID:    requesterID,
		Status:         model.ExchangeOpen,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	// 预检与插入之间的竞争由部分唯一索引兜底
	if err := l.repo.Create(ctx, req); err != nil {
		if errors.Is(err, pkgerrors.ErrDuplicateOpen) {
			return nil, ErrExchangeAlreadyOpen
		}
		return nil, fmt.Errorf("创建换班申请失败: %w", err)
	}
	return req, nil
}

func (l *exchangeLedger) Claim(ctx context.Context, requestID, claimantID string) (*model.ShiftExchangeRequest, error) {
	req, err := l.Get(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if req.RequesterID == claimantID {
		return nil, ErrSelfPickup
	}

	at := l.now()
	if err := l.repo.Claim(ctx, requestID, claimantID, at); err != nil {
		if errors.Is(err, pkgerrors.ErrOptimisticLock) {
			return nil, l.explainMiss(ctx, requestID)
		}
		return nil, fmt.Errorf("接单失败: %w", err)
	}

	req.Status = model.ExchangeClaimed
	req.ClaimantID = &claimantID
	req.ClaimedAt = &at
	req.UpdatedAt = at
	return req, nil
}

func (l *exchangeLedger) Cancel(ctx context.Context, requestID, actorID string, reversal bool) (*model.ShiftExchangeRequest, error) {
	req, err := l.Get(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if !req.IsOpen() {
		return nil, ErrExchangeNotOpen
	}
	if !reversal && req.RequesterID != actorID {
		return nil, ErrNotRequester
	}

	at := l.now()
	if err := l.repo.Cancel(ctx, requestID, actorID, at); err != nil {
		if errors.Is(err, pkgerrors.ErrOptimisticLock) {
			return nil, l.explainMiss(ctx, requestID)
		}
		return nil, fmt.Errorf("撤销换班申请失败: %w", err)
	}

	req.Status = model.ExchangeCancelled
	req.CancelledAt = &at
	req.CancelledBy = &actorID
	req.UpdatedAt = at
	return req, nil
}

// explainMiss 条件更新未命中后重新读取，区分"已不存在"与"已不是 OPEN"
func (l *exchangeLedger) explainMiss(ctx context.Context, requestID string) error {
	_, err := l.Get(ctx, requestID)
	if err != nil {
		return err
	}
	return ErrExchangeNotOpen
}

func (l *exchangeLedger) Get(ctx context.Context, requestID string) (*model.ShiftExchangeRequest, error) {
	req, err := l.repo.GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrExchangeNotFound
		}
		return nil, fmt.Errorf("查询换班申请失败: %w", err)
	}
	return req, nil
}

func (l *exchangeLedger) FindOpenByShift(ctx context.Context, shiftID string) (*model.ShiftExchangeRequest, error) {
	req, err := l.repo.FindOpenByShift(ctx, shiftID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("查询进行中的换班申请失败: %w", err)
	}
	return req, nil
}

func (l *exchangeLedger) ListByOrganization(ctx context.Context, orgID string) ([]model.ShiftExchangeRequest, error) {
	return l.repo.ListByOrganization(ctx, orgID)
}

func (l *exchangeLedger) ListVisible(ctx context.Context, orgID, userID string) ([]model.ShiftExchangeRequest, error) {
	return l.repo.ListVisible(ctx, orgID, userID)
}

func (l *exchangeLedger) OpenShiftIDs(ctx context.Context, shiftIDs []string) (map[string]bool, error) {
	return l.repo.OpenShiftIDs(ctx, shiftIDs)
}
