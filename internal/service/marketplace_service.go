package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"staffline/backend/internal/dto"
	"staffline/backend/internal/metrics"
	"staffline/backend/internal/model"
	"staffline/backend/internal/overlap"
	"staffline/backend/internal/repository"
	pkgerrors "staffline/backend/pkg/errors"
	"staffline/backend/pkg/saga"
)

// MarketplaceService 换班市场业务接口
//
// 所有操作都要求调用方是目标组织成员；跨组织引用一律拒绝。
// 没有进程内锁：并发协调全部依赖存储层的条件更新。
type MarketplaceService interface {
	// Drop 发布自己的班次到市场
	Drop(ctx context.Context, req *dto.DropRequest, actorID string) (*dto.ExchangeRequestResponse, error)
	// List 市场列表：管理员看全部，其他成员看可接的 OPEN 申请和与自己相关的申请
	List(ctx context.Context, orgID, actorID string) (*dto.MarketplaceListResponse, error)
	// Pickup 接班
	Pickup(ctx context.Context, req *dto.PickupRequest, actorID string) (*dto.PickupResponse, error)
	// CancelDrop 班次持有人或申请人撤回换班
	CancelDrop(ctx context.Context, req *dto.CancelDropRequest, actorID string) (*dto.CancelDropResponse, error)
	// Cancel 申请人撤销自己仍为 OPEN 的申请，不动班次
	Cancel(ctx context.Context, requestID, actorID string) (*dto.ExchangeRequestResponse, error)

	// ListHistory 班次归属变更记录（管理员）
	ListHistory(ctx context.Context, req *dto.MarketplaceHistoryRequest, actorID string) ([]dto.ShiftChangeLogResponse, int64, error)
	// ExportLedger 导出换班申请为 Excel（管理员）
	ExportLedger(ctx context.Context, orgID, actorID string) (*ExportFile, error)
	// OpenShiftCalendar 可接班次的 ICS 日历
	OpenShiftCalendar(ctx context.Context, orgID, actorID string) (string, error)
}

// Collaborators 换班市场依赖的外部协作方
type Collaborators struct {
	Members  MembershipOracle
	Blackout BlackoutOracle
	Roster   Roster
}

// MarketplaceOptions 运行参数
type MarketplaceOptions struct {
	// Location 判断"今天"所用的时区
	Location *time.Location
	// Now 为 nil 时使用 time.Now
	Now func() time.Time
}

type marketplaceService struct {
	repo     *repository.Repository
	ledger   ExchangeLedger
	collab   Collaborators
	saga     *saga.Runner
	recorder metrics.Recorder
	loc      *time.Location
	now      func() time.Time
	logger   *zap.Logger
}

// NewMarketplaceService 创建 MarketplaceService 实例
func NewMarketplaceService(
	repo *repository.Repository,
	collab Collaborators,
	runner *saga.Runner,
	recorder metrics.Recorder,
	opts MarketplaceOptions,
	logger *zap.Logger,
) MarketplaceService {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if recorder == nil {
		recorder = metrics.Nop{}
	}
	return &marketplaceService{
		repo:     repo,
		ledger:   NewExchangeLedger(repo.Exchange, opts.Now),
		collab:   collab,
		saga:     runner,
		recorder: recorder,
		loc:      opts.Location,
		now:      opts.Now,
		logger:   logger,
	}
}

// ════════════════════════════════════════════════════════════
// Drop
// ════════════════════════════════════════════════════════════

func (s *marketplaceService) Drop(ctx context.Context, req *dto.DropRequest, actorID string) (*dto.ExchangeRequestResponse, error) {
	if _, err := s.requireMember(ctx, req.OrganizationID, actorID); err != nil {
		return nil, err
	}

	shift, err := s.loadShift(ctx, req.ShiftID, req.OrganizationID)
	if err != nil {
		return nil, err
	}
	if !shift.IsOwnedBy(actorID) {
		return nil, ErrNotShiftOwner
	}
	// 按本地日期比较，避免一天中的时刻造成差一天
	if shift.DateString() < s.today() {
		return nil, ErrShiftInPast
	}

	open, err := s.ledger.FindOpenByShift(ctx, shift.ShiftID)
	if err != nil {
		return nil, err
	}
	if open != nil {
		return nil, ErrExchangeAlreadyOpen
	}

	var (
		created *model.ShiftExchangeRequest
		flagged bool
	)
	err = s.saga.Run(ctx, "drop",
		saga.Step{
			Name: "flag",
			Action: func(ctx context.Context) error {
				// 标记已存在（并发发布或残留）时不接管，补偿也不能清掉别人的标记
				if shift.IsMarketplace {
					return nil
				}
				if err := s.repo.Shift.SetMarketplaceFlag(ctx, shift, true, actorID); err != nil {
					if errors.Is(err, pkgerrors.ErrOptimisticLock) {
						return ErrShiftChanged
					}
					return fmt.Errorf("设置市场标记失败: %w", err)
				}
				flagged = true
				return nil
			},
			Compensate: func(ctx context.Context) error {
				if !flagged {
					return nil
				}
				return s.repo.Shift.SetMarketplaceFlag(ctx, shift, false, actorID)
			},
		},
		saga.Step{
			Name: "insert",
			Action: func(ctx context.Context) error {
				r, err := s.ledger.Insert(ctx, req.OrganizationID, shift.ShiftID, actorID)
				if err != nil {
					return err
				}
				created = r
				return nil
			},
		},
	)
	if err != nil {
		if KindOf(err) == KindInternal {
			s.logger.Error("发布换班失败", zap.String("shift_id", shift.ShiftID), zap.Error(err))
		}
		return nil, err
	}

	s.recorder.Drop()
	s.logger.Info("班次已发布到市场",
		zap.String("shift_id", shift.ShiftID),
		zap.String("request_id", created.RequestID),
		zap.String("actor_id", actorID),
	)
	resp := toExchangeRequestResponse(created)
	return &resp, nil
}

// ════════════════════════════════════════════════════════════
// List
// ════════════════════════════════════════════════════════════

func (s *marketplaceService) List(ctx context.Context, orgID, actorID string) (*dto.MarketplaceListResponse, error) {
	role, err := s.requireMember(ctx, orgID, actorID)
	if err != nil {
		return nil, err
	}
	isManager := model.IsManagerRole(role)

	var reqs []model.ShiftExchangeRequest
	if isManager {
		reqs, err = s.ledger.ListByOrganization(ctx, orgID)
	} else {
		reqs, err = s.ledger.ListVisible(ctx, orgID, actorID)
	}
	if err != nil {
		s.logger.Error("查询换班申请失败", zap.String("organization_id", orgID), zap.Error(err))
		return nil, err
	}

	shifts := s.shiftIndex(ctx, reqs)
	names := s.displayNames(ctx, reqs)

	list := make([]dto.MarketplaceItemResponse, 0, len(reqs))
	for i := range reqs {
		r := &reqs[i]
		shift := shifts[r.ShiftID]
		if shift != nil && shift.OrganizationID != orgID {
			// 数据异常：申请与班次不属于同一组织
			s.logger.Warn("换班申请与班次组织不一致",
				zap.String("request_id", r.RequestID),
				zap.String("shift_id", r.ShiftID),
			)
			shift = nil
		}

		available := r.IsOpen() && shift != nil && s.offered(shift, r)
		if !isManager && !r.Involves(actorID) && !available {
			continue
		}
		list = append(list, toMarketplaceItem(r, shift, names, available))
	}

	return &dto.MarketplaceListResponse{List: list}, nil
}

// shiftIndex 批量加载申请对应的班次；失败时降级为无班次信息
func (s *marketplaceService) shiftIndex(ctx context.Context, reqs []model.ShiftExchangeRequest) map[string]*model.Shift {
	index := make(map[string]*model.Shift)
	ids := make([]string, 0, len(reqs))
	seen := make(map[string]bool)
	for _, r := range reqs {
		if !seen[r.ShiftID] {
			seen[r.ShiftID] = true
			ids = append(ids, r.ShiftID)
		}
	}

	shifts, err := s.repo.Shift.ListByIDs(ctx, ids)
	if err != nil {
		s.logger.Warn("批量查询班次失败，列表不含班次时间", zap.Error(err))
		return index
	}
	for i := range shifts {
		index[shifts[i].ShiftID] = &shifts[i]
	}
	return index
}

// displayNames 查询展示名；失败时返回空表，调用方回退为原始 ID
func (s *marketplaceService) displayNames(ctx context.Context, reqs []model.ShiftExchangeRequest) map[string]string {
	seen := make(map[string]bool)
	var ids []string
	add := func(id string) {
		if id != "" && !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	for _, r := range reqs {
		add(r.RequesterID)
		if r.ClaimantID != nil {
			add(*r.ClaimantID)
		}
	}

	names, err := s.collab.Roster.DisplayNames(ctx, ids)
	if err != nil {
		s.logger.Warn("查询展示名失败，回退为用户 ID", zap.Error(err))
		return map[string]string{}
	}
	return names
}

// ════════════════════════════════════════════════════════════
// Pickup：两步条件提交 + 补偿
// ════════════════════════════════════════════════════════════

func (s *marketplaceService) Pickup(ctx context.Context, req *dto.PickupRequest, actorID string) (*dto.PickupResponse, error) {
	resp, err := s.pickup(ctx, req, actorID)
	s.recorder.Pickup(pickupOutcome(err))
	return resp, err
}

func (s *marketplaceService) pickup(ctx context.Context, req *dto.PickupRequest, actorID string) (*dto.PickupResponse, error) {
	if req.ShiftID == "" && req.RequestID == "" {
		return nil, ErrMissingTarget
	}
	orgID := req.OrganizationID
	if _, err := s.requireMember(ctx, orgID, actorID); err != nil {
		return nil, err
	}

	// 1. 换班申请：必须 OPEN 且同组织
	exchange, err := s.resolveExchange(ctx, req)
	if err != nil {
		return nil, err
	}
	if exchange.OrganizationID != orgID {
		return nil, ErrOrganizationMismatch
	}
	if !exchange.IsOpen() {
		return nil, fmt.Errorf("%w: %w", ErrShiftNoLongerAvailable, ErrExchangeNotOpen)
	}

	// 2. 班次：同组织、不是自己的、仍在市场中
	shift, err := s.loadShift(ctx, exchange.ShiftID, orgID)
	if err != nil {
		return nil, err
	}
	if shift.IsOwnedBy(actorID) || exchange.RequesterID == actorID {
		return nil, ErrSelfPickup
	}
	if !s.offered(shift, exchange) {
		return nil, ErrShiftNoLongerAvailable
	}

	// 3. 禁排日：全组织禁排对所有人生效，个人禁排只对本人生效
	block, err := s.collab.Blackout.Blocking(ctx, orgID, shift.ShiftDate, actorID)
	if err != nil {
		s.logger.Error("查询禁排日失败", zap.Error(err))
		return nil, err
	}
	if block != nil {
		s.logger.Info("接班被禁排日拦截",
			zap.String("shift_id", shift.ShiftID),
			zap.String("actor_id", actorID),
			zap.Bool("org_wide", block.OrgWide()),
		)
		return nil, ErrBlackout
	}

	// 4. 时间冲突
	if err := s.checkOverlap(ctx, shift, actorID); err != nil {
		return nil, err
	}

	// 5. 两步条件提交：(a) 转移班次 (b) 账本接单；(b) 失败时补偿 (a)
	prevOwner := copyString(shift.OwnerID)
	prevFlag := shift.IsMarketplace
	var claimed *model.ShiftExchangeRequest

	err = s.saga.Run(ctx, "pickup",
		saga.Step{
			Name: "reassign",
			Action: func(ctx context.Context) error {
				if err := s.repo.Shift.Reassign(ctx, shift, actorID, actorID); err != nil {
					if errors.Is(err, pkgerrors.ErrOptimisticLock) {
						return ErrShiftNoLongerAvailable
					}
					return fmt.Errorf("转移班次失败: %w", err)
				}
				return nil
			},
			Compensate: func(ctx context.Context) error {
				if err := s.repo.Shift.Restore(ctx, shift.ShiftID, &actorID, prevOwner, prevFlag, actorID); err != nil {
					return err
				}
				s.recordChange(ctx, &model.ShiftChangeLog{
					OrganizationID:  orgID,
					ShiftID:         shift.ShiftID,
					RequestID:       &exchange.RequestID,
					OriginalOwnerID: &actorID,
					NewOwnerID:      prevOwner,
					ChangeType:      model.ChangeTypeCompensation,
					OperatorID:      actorID,
				})
				return nil
			},
		},
		saga.Step{
			Name: "claim",
			Action: func(ctx context.Context) error {
				r, err := s.ledger.Claim(ctx, exchange.RequestID, actorID)
				if err != nil {
					if errors.Is(err, ErrExchangeNotOpen) || errors.Is(err, ErrExchangeNotFound) {
						return fmt.Errorf("%w: %w", ErrShiftNoLongerAvailable, err)
					}
					return err
				}
				claimed = r
				return nil
			},
		},
	)
	if err != nil {
		if KindOf(err) == KindInternal {
			s.logger.Error("接班失败", zap.String("shift_id", shift.ShiftID), zap.Error(err))
		}
		return nil, err
	}

	s.recordChange(ctx, &model.ShiftChangeLog{
		OrganizationID:  orgID,
		ShiftID:         shift.ShiftID,
		RequestID:       &claimed.RequestID,
		OriginalOwnerID: prevOwner,
		NewOwnerID:      &actorID,
		ChangeType:      model.ChangeTypePickup,
		OperatorID:      actorID,
	})
	s.logger.Info("接班成功",
		zap.String("shift_id", shift.ShiftID),
		zap.String("request_id", claimed.RequestID),
		zap.String("claimant_id", actorID),
	)

	brief := toShiftBrief(shift)
	claimedResp := toExchangeRequestResponse(claimed)
	return &dto.PickupResponse{
		OK:      true,
		ShiftID: shift.ShiftID,
		Shift:   &brief,
		Request: &claimedResp,
	}, nil
}

// resolveExchange 按 request_id 或 shift_id 定位换班申请
func (s *marketplaceService) resolveExchange(ctx context.Context, req *dto.PickupRequest) (*model.ShiftExchangeRequest, error) {
	if req.RequestID != "" {
		exchange, err := s.ledger.Get(ctx, req.RequestID)
		if err != nil {
			return nil, err
		}
		if req.ShiftID != "" && exchange.ShiftID != req.ShiftID {
			return nil, ErrExchangeNotFound
		}
		return exchange, nil
	}

	exchange, err := s.ledger.FindOpenByShift(ctx, req.ShiftID)
	if err != nil {
		return nil, err
	}
	if exchange != nil {
		return exchange, nil
	}
	// 没有 OPEN 申请：区分班次不存在与已被接走
	if _, err := s.loadShift(ctx, req.ShiftID, req.OrganizationID); err != nil {
		return nil, err
	}
	return nil, ErrShiftNoLongerAvailable
}

// checkOverlap 与接班人同日其他班次做冲突判定
//
// 只有 PENDING / CONFIRMED 状态计入；有 OPEN 申请的班次即将离手，不计入。
// 是否离手以账本为准，上架标记可能是撤回后残留的。
func (s *marketplaceService) checkOverlap(ctx context.Context, target *model.Shift, actorID string) error {
	mine, err := s.repo.Shift.ListByOwnerAndDate(ctx, target.OrganizationID, actorID, target.ShiftDate)
	if err != nil {
		s.logger.Error("查询接班人当日班次失败", zap.Error(err))
		return err
	}

	var candidates []model.Shift
	var ids []string
	for _, sh := range mine {
		if sh.ShiftID == target.ShiftID || !model.ConflictEligible(sh.Status) {
			continue
		}
		candidates = append(candidates, sh)
		ids = append(ids, sh.ShiftID)
	}
	if len(candidates) == 0 {
		return nil
	}

	openIDs, err := s.ledger.OpenShiftIDs(ctx, ids)
	if err != nil {
		s.logger.Error("查询进行中的换班申请失败", zap.Error(err))
		return err
	}

	window, err := overlap.ParseWindow(target.ShiftID, target.StartTime, target.EndTime)
	if err != nil {
		return fmt.Errorf("班次 %s 时间格式错误: %w", target.ShiftID, err)
	}

	byID := make(map[string]*model.Shift, len(candidates))
	existing := make([]overlap.Interval, 0, len(candidates))
	for i := range candidates {
		sh := &candidates[i]
		if openIDs[sh.ShiftID] {
			continue
		}
		byID[sh.ShiftID] = sh
		iv, err := overlap.ParseWindow(sh.ShiftID, sh.StartTime, sh.EndTime)
		if err != nil {
			// 无法解析的时间按退化区间处理，必然判为冲突
			iv = overlap.Interval{ID: sh.ShiftID}
		}
		existing = append(existing, iv)
	}

	hits := overlap.FindConflicts(window, existing)
	if len(hits) == 0 {
		return nil
	}

	conflicts := make([]ConflictWindow, len(hits))
	for i, h := range hits {
		sh := byID[h.ID]
		conflicts[i] = ConflictWindow{
			ID:    sh.ShiftID,
			Date:  sh.DateString(),
			Start: clockText(sh.StartTime),
			End:   clockText(sh.EndTime),
		}
	}
	return &ConflictError{Conflicts: conflicts}
}

// ════════════════════════════════════════════════════════════
// CancelDrop：先修复班次，再撤销申请
// ════════════════════════════════════════════════════════════

func (s *marketplaceService) CancelDrop(ctx context.Context, req *dto.CancelDropRequest, actorID string) (*dto.CancelDropResponse, error) {
	if _, err := s.requireMember(ctx, req.OrganizationID, actorID); err != nil {
		return nil, err
	}

	shift, err := s.loadShift(ctx, req.ShiftID, req.OrganizationID)
	if err != nil {
		return nil, err
	}
	open, err := s.ledger.FindOpenByShift(ctx, shift.ShiftID)
	if err != nil {
		return nil, err
	}

	isRequester := open != nil && open.RequesterID == actorID
	if !shift.IsOwnedBy(actorID) && !isRequester {
		return nil, ErrCancelDropNotEntitled
	}
	if !shift.IsMarketplace && open == nil {
		return nil, ErrNothingToCancel
	}

	// 中途失败时班次仍有持有人，不会从所有人视野中消失
	if shift.IsMarketplace || shift.OwnerID == nil {
		owner := copyString(shift.OwnerID)
		restored := false
		if owner == nil && open != nil {
			owner = copyString(&open.RequesterID)
			restored = true
		}
		if err := s.repo.Shift.Repair(ctx, shift, owner, actorID); err != nil {
			if errors.Is(err, pkgerrors.ErrOptimisticLock) {
				return nil, ErrShiftChanged
			}
			s.logger.Error("修复班次失败", zap.String("shift_id", shift.ShiftID), zap.Error(err))
			return nil, err
		}
		if restored {
			s.recordChange(ctx, &model.ShiftChangeLog{
				OrganizationID: req.OrganizationID,
				ShiftID:        shift.ShiftID,
				RequestID:      &open.RequestID,
				NewOwnerID:     owner,
				ChangeType:     model.ChangeTypeCancelDrop,
				OperatorID:     actorID,
			})
		}
	}

	if open != nil {
		if _, err := s.ledger.Cancel(ctx, open.RequestID, actorID, true); err != nil {
			return nil, err
		}
	}

	s.recorder.Cancellation("reversal")
	s.logger.Info("换班已撤回",
		zap.String("shift_id", shift.ShiftID),
		zap.String("actor_id", actorID),
	)
	return &dto.CancelDropResponse{OK: true, ShiftID: shift.ShiftID}, nil
}

// ════════════════════════════════════════════════════════════
// Cancel
// ════════════════════════════════════════════════════════════

func (s *marketplaceService) Cancel(ctx context.Context, requestID, actorID string) (*dto.ExchangeRequestResponse, error) {
	exchange, err := s.ledger.Get(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if _, err := s.requireMember(ctx, exchange.OrganizationID, actorID); err != nil {
		return nil, err
	}

	updated, err := s.ledger.Cancel(ctx, requestID, actorID, false)
	if err != nil {
		return nil, err
	}

	s.recorder.Cancellation("withdraw")
	resp := toExchangeRequestResponse(updated)
	return &resp, nil
}

// ════════════════════════════════════════════════════════════
// ListHistory
// ════════════════════════════════════════════════════════════

func (s *marketplaceService) ListHistory(ctx context.Context, req *dto.MarketplaceHistoryRequest, actorID string) ([]dto.ShiftChangeLogResponse, int64, error) {
	if err := s.requireManager(ctx, req.OrganizationID, actorID); err != nil {
		return nil, 0, err
	}

	logs, total, err := s.repo.ChangeLog.ListByOrganization(ctx, req.OrganizationID, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("查询变更记录失败", zap.Error(err))
		return nil, 0, err
	}

	result := make([]dto.ShiftChangeLogResponse, len(logs))
	for i := range logs {
		result[i] = toShiftChangeLogResponse(&logs[i])
	}
	return result, total, nil
}

// ── 辅助函数 ──

func (s *marketplaceService) requireMember(ctx context.Context, orgID, actorID string) (string, error) {
	if actorID == "" {
		return "", ErrUnauthorized
	}
	role, err := s.collab.Members.Role(ctx, orgID, actorID)
	if err != nil {
		if !errors.Is(err, ErrNotMember) {
			s.logger.Error("查询成员身份失败", zap.Error(err))
		}
		return "", err
	}
	return role, nil
}

func (s *marketplaceService) requireManager(ctx context.Context, orgID, actorID string) error {
	role, err := s.requireMember(ctx, orgID, actorID)
	if err != nil {
		return err
	}
	if !model.IsManagerRole(role) {
		return ErrNotManager
	}
	return nil
}

func (s *marketplaceService) loadShift(ctx context.Context, shiftID, orgID string) (*model.Shift, error) {
	shift, err := s.repo.Shift.GetByID(ctx, shiftID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrShiftNotFound
		}
		s.logger.Error("查询班次失败", zap.String("shift_id", shiftID), zap.Error(err))
		return nil, err
	}
	if shift.OrganizationID != orgID {
		return nil, ErrOrganizationMismatch
	}
	return shift, nil
}

// offered 班次是否仍可被接：以账本为准，市场标记只作为附加条件
// 能力可用时必须带标记；且班次不能已归申请人以外的人所有
func (s *marketplaceService) offered(shift *model.Shift, exchange *model.ShiftExchangeRequest) bool {
	if !exchange.IsOpen() {
		return false
	}
	if s.repo.Shift.Capabilities().MarketplaceFlag && !shift.IsMarketplace {
		return false
	}
	return shift.OwnerID == nil || *shift.OwnerID == exchange.RequesterID
}

func (s *marketplaceService) today() string {
	return s.now().In(s.loc).Format(time.DateOnly)
}

// recordChange 审计日志写入失败不影响已完成的业务操作
func (s *marketplaceService) recordChange(ctx context.Context, entry *model.ShiftChangeLog) {
	entry.CreatedAt = s.now()
	if err := s.repo.ChangeLog.Create(ctx, entry); err != nil {
		s.logger.Warn("写入班次变更记录失败",
			zap.String("shift_id", entry.ShiftID),
			zap.String("change_type", entry.ChangeType),
			zap.Error(err),
		)
	}
}

func pickupOutcome(err error) string {
	if err == nil {
		return metrics.OutcomeClaimed
	}
	var ce *ConflictError
	if errors.As(err, &ce) {
		return metrics.OutcomeConflict
	}
	switch KindOf(err) {
	case KindConflict:
		return metrics.OutcomeUnavailable
	case KindBlocked:
		return metrics.OutcomeBlocked
	case KindInternal:
		return metrics.OutcomeError
	}
	return metrics.OutcomeRejected
}

func copyString(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// clockText "09:00:00" → "09:00"
func clockText(raw string) string {
	if m, err := overlap.ParseClock(raw); err == nil {
		return overlap.FormatClock(m)
	}
	return raw
}

func formatTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	v := t.Format(time.RFC3339)
	return &v
}

func toShiftBrief(shift *model.Shift) dto.ShiftBrief {
	return dto.ShiftBrief{
		ID:            shift.ShiftID,
		Date:          shift.DateString(),
		StartTime:     clockText(shift.StartTime),
		EndTime:       clockText(shift.EndTime),
		OwnerID:       shift.OwnerID,
		Status:        shift.Status,
		IsMarketplace: shift.IsMarketplace,
	}
}

func toExchangeRequestResponse(r *model.ShiftExchangeRequest) dto.ExchangeRequestResponse {
	return dto.ExchangeRequestResponse{
		ID:             r.RequestID,
		OrganizationID: r.OrganizationID,
		ShiftID:        r.ShiftID,
		RequesterID:    r.RequesterID,
		Status:         string(r.Status),
		ClaimantID:     r.ClaimantID,
		CreatedAt:      r.CreatedAt.Format(time.RFC3339),
		ClaimedAt:      formatTime(r.ClaimedAt),
		CancelledAt:    formatTime(r.CancelledAt),
		CancelledBy:    r.CancelledBy,
	}
}

func toMarketplaceItem(r *model.ShiftExchangeRequest, shift *model.Shift, names map[string]string, available bool) dto.MarketplaceItemResponse {
	item := dto.MarketplaceItemResponse{
		ExchangeRequestResponse: toExchangeRequestResponse(r),
		RequesterName:           nameOrID(names, r.RequesterID),
		Available:               available,
	}
	if r.ClaimantID != nil {
		item.ClaimantName = nameOrID(names, *r.ClaimantID)
	}
	if shift != nil {
		brief := toShiftBrief(shift)
		item.Shift = &brief
	}
	return item
}

func nameOrID(names map[string]string, id string) string {
	if name, ok := names[id]; ok && name != "" {
		return name
	}
	return id
}

func toShiftChangeLogResponse(l *model.ShiftChangeLog) dto.ShiftChangeLogResponse {
	return dto.ShiftChangeLogResponse{
		ID:              l.ChangeLogID,
		ShiftID:         l.ShiftID,
		RequestID:       l.RequestID,
		OriginalOwnerID: l.OriginalOwnerID,
		NewOwnerID:      l.NewOwnerID,
		ChangeType:      l.ChangeType,
		OperatorID:      l.OperatorID,
		CreatedAt:       l.CreatedAt.Format(time.RFC3339),
	}
}
