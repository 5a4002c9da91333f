package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"gorm.io/gorm"

	"staffline/backend/internal/model"
	"staffline/backend/pkg/database"
	pkgerrors "staffline/backend/pkg/errors"
)

// 所有 mock 都按条件更新语义实现（锁内比较后写入），可被并发测试直接使用

// ── Mock ShiftRepository ──

type mockShiftRepo struct {
	mu     sync.Mutex
	caps   database.Capabilities
	shifts map[string]*model.Shift

	// restoreFailures Restore 前 N 次调用直接失败
	restoreFailures int
	restoreCalls    int
	listErr         error
}

func newMockShiftRepo(caps database.Capabilities) *mockShiftRepo {
	return &mockShiftRepo{caps: caps, shifts: make(map[string]*model.Shift)}
}

func (m *mockShiftRepo) put(s *model.Shift) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s.Version == 0 {
		s.Version = 1
	}
	cp := *s
	m.shifts[s.ShiftID] = &cp
}

func (m *mockShiftRepo) get(id string) model.Shift {
	m.mu.Lock()
	defer m.mu.Unlock()
	return *m.shifts[id]
}

func (m *mockShiftRepo) Capabilities() database.Capabilities { return m.caps }

func (m *mockShiftRepo) GetByID(_ context.Context, id string) (*model.Shift, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.shifts[id]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockShiftRepo) ListByIDs(_ context.Context, ids []string) ([]model.Shift, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	var result []model.Shift
	for _, id := range ids {
		if s, ok := m.shifts[id]; ok {
			result = append(result, *s)
		}
	}
	return result, nil
}

func (m *mockShiftRepo) ListByOwnerAndDate(_ context.Context, orgID, ownerID string, date time.Time) ([]model.Shift, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []model.Shift
	for _, s := range m.shifts {
		if s.OrganizationID == orgID && s.IsOwnedBy(ownerID) && s.DateString() == date.Format(time.DateOnly) {
			result = append(result, *s)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].StartTime < result[j].StartTime })
	return result, nil
}

func (m *mockShiftRepo) SetMarketplaceFlag(_ context.Context, shift *model.Shift, flag bool, operatorID string) error {
	if !m.caps.MarketplaceFlag {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.shifts[shift.ShiftID]
	if !ok || stored.Version != shift.Version {
		return pkgerrors.ErrOptimisticLock
	}
	stored.IsMarketplace = flag
	stored.Version++
	stored.UpdatedBy = &operatorID
	shift.IsMarketplace = flag
	shift.Version = stored.Version
	return nil
}

func sameOwner(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func (m *mockShiftRepo) Reassign(_ context.Context, shift *model.Shift, newOwnerID, operatorID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.shifts[shift.ShiftID]
	if !ok || stored.Version != shift.Version || !sameOwner(stored.OwnerID, shift.OwnerID) {
		return pkgerrors.ErrOptimisticLock
	}
	if m.caps.MarketplaceFlag && !stored.IsMarketplace {
		return pkgerrors.ErrOptimisticLock
	}
	owner := newOwnerID
	stored.OwnerID = &owner
	stored.IsMarketplace = false
	stored.Version++
	stored.UpdatedBy = &operatorID

	shiftOwner := newOwnerID
	shift.OwnerID = &shiftOwner
	shift.IsMarketplace = false
	shift.Version = stored.Version
	return nil
}

func (m *mockShiftRepo) Restore(_ context.Context, shiftID string, expectOwner, owner *string, flag bool, operatorID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.restoreCalls++
	if m.restoreCalls <= m.restoreFailures {
		return fmt.Errorf("restore attempt %d: connection reset", m.restoreCalls)
	}
	stored, ok := m.shifts[shiftID]
	if !ok || !sameOwner(stored.OwnerID, expectOwner) {
		return pkgerrors.ErrOptimisticLock
	}
	stored.OwnerID = owner
	if m.caps.MarketplaceFlag {
		stored.IsMarketplace = flag
	}
	stored.Version++
	stored.UpdatedBy = &operatorID
	return nil
}

func (m *mockShiftRepo) Repair(_ context.Context, shift *model.Shift, owner *string, operatorID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.shifts[shift.ShiftID]
	if !ok || stored.Version != shift.Version {
		return pkgerrors.ErrOptimisticLock
	}
	stored.OwnerID = owner
	stored.IsMarketplace = false
	stored.Version++
	stored.UpdatedBy = &operatorID
	shift.OwnerID = owner
	shift.IsMarketplace = false
	shift.Version = stored.Version
	return nil
}

// ── Mock ExchangeRequestRepository ──

type mockExchangeRepo struct {
	mu   sync.Mutex
	seq  int
	reqs map[string]*model.ShiftExchangeRequest

	// beforeClaim 在 Claim 的条件更新之前执行（锁外），用于模拟第三方插队
	beforeClaim func(requestID string)
}

func newMockExchangeRepo() *mockExchangeRepo {
	return &mockExchangeRepo{reqs: make(map[string]*model.ShiftExchangeRequest)}
}

func (m *mockExchangeRepo) get(id string) model.ShiftExchangeRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return *m.reqs[id]
}

func (m *mockExchangeRepo) countOpen(shiftID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, r := range m.reqs {
		if r.ShiftID == shiftID && r.Status == model.ExchangeOpen {
			n++
		}
	}
	return n
}

func (m *mockExchangeRepo) Create(_ context.Context, req *model.ShiftExchangeRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.reqs {
		if r.ShiftID == req.ShiftID && r.Status == model.ExchangeOpen {
			return pkgerrors.ErrDuplicateOpen
		}
	}
	if req.RequestID == "" {
		m.seq++
		req.RequestID = fmt.Sprintf("req-%d", m.seq)
	}
	cp := *req
	m.reqs[req.RequestID] = &cp
	return nil
}

func (m *mockExchangeRepo) GetByID(_ context.Context, id string) (*model.ShiftExchangeRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.reqs[id]; ok {
		cp := *r
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockExchangeRepo) FindOpenByShift(_ context.Context, shiftID string) (*model.ShiftExchangeRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.reqs {
		if r.ShiftID == shiftID && r.Status == model.ExchangeOpen {
			cp := *r
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockExchangeRepo) Claim(_ context.Context, requestID, claimantID string, at time.Time) error {
	if m.beforeClaim != nil {
		m.beforeClaim(requestID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.reqs[requestID]
	if !ok || r.Status != model.ExchangeOpen {
		return pkgerrors.ErrOptimisticLock
	}
	claimant := claimantID
	r.Status = model.ExchangeClaimed
	r.ClaimantID = &claimant
	r.ClaimedAt = &at
	return nil
}

func (m *mockExchangeRepo) Cancel(_ context.Context, requestID, actorID string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.reqs[requestID]
	if !ok || r.Status != model.ExchangeOpen {
		return pkgerrors.ErrOptimisticLock
	}
	actor := actorID
	r.Status = model.ExchangeCancelled
	r.CancelledAt = &at
	r.CancelledBy = &actor
	return nil
}

func (m *mockExchangeRepo) list(keep func(*model.ShiftExchangeRequest) bool) []model.ShiftExchangeRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []model.ShiftExchangeRequest
	for _, r := range m.reqs {
		if keep(r) {
			result = append(result, *r)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].RequestID < result[j].RequestID })
	return result
}

func (m *mockExchangeRepo) ListByOrganization(_ context.Context, orgID string) ([]model.ShiftExchangeRequest, error) {
	return m.list(func(r *model.ShiftExchangeRequest) bool { return r.OrganizationID == orgID }), nil
}

func (m *mockExchangeRepo) ListVisible(_ context.Context, orgID, userID string) ([]model.ShiftExchangeRequest, error) {
	return m.list(func(r *model.ShiftExchangeRequest) bool {
		return r.OrganizationID == orgID && (r.Status == model.ExchangeOpen || r.Involves(userID))
	}), nil
}

func (m *mockExchangeRepo) OpenShiftIDs(_ context.Context, shiftIDs []string) (map[string]bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	want := make(map[string]bool, len(shiftIDs))
	for _, id := range shiftIDs {
		want[id] = true
	}
	open := make(map[string]bool)
	for _, r := range m.reqs {
		if want[r.ShiftID] && r.Status == model.ExchangeOpen {
			open[r.ShiftID] = true
		}
	}
	return open, nil
}

// ── Mock MembershipRepository ──

type mockMembershipRepo struct {
	mu    sync.Mutex
	roles map[string]string
}

func newMockMembershipRepo() *mockMembershipRepo {
	return &mockMembershipRepo{roles: make(map[string]string)}
}

func (m *mockMembershipRepo) add(orgID, userID, role string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.roles[orgID+"/"+userID] = role
}

func (m *mockMembershipRepo) Get(_ context.Context, orgID, userID string) (*model.OrganizationMember, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	role, ok := m.roles[orgID+"/"+userID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &model.OrganizationMember{OrganizationID: orgID, UserID: userID, Role: role}, nil
}

func (m *mockMembershipRepo) Create(_ context.Context, member *model.OrganizationMember) error {
	m.add(member.OrganizationID, member.UserID, member.Role)
	return nil
}

// ── Mock BlockedDayRepository ──

type mockBlockedDayRepo struct {
	mu   sync.Mutex
	days []model.BlockedDay
}

func (m *mockBlockedDayRepo) FindActive(_ context.Context, orgID, userID string, date time.Time) ([]model.BlockedDay, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d := date.Format(time.DateOnly)
	var result []model.BlockedDay
	for _, b := range m.days {
		if b.OrganizationID != orgID {
			continue
		}
		if b.StartDate.Format(time.DateOnly) > d || b.EndDate.Format(time.DateOnly) < d {
			continue
		}
		if b.UserID != nil && *b.UserID != userID {
			continue
		}
		result = append(result, b)
	}
	return result, nil
}

func (m *mockBlockedDayRepo) Create(_ context.Context, day *model.BlockedDay) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.days = append(m.days, *day)
	return nil
}

// ── Mock UserRepository ──

type mockUserRepo struct {
	names map[string]string
	err   error
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{names: make(map[string]string)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	m.names[user.UserID] = user.DisplayName
	return nil
}

func (m *mockUserRepo) ListNames(_ context.Context, ids []string) (map[string]string, error) {
	if m.err != nil {
		return nil, m.err
	}
	result := make(map[string]string)
	for _, id := range ids {
		if name, ok := m.names[id]; ok {
			result[id] = name
		}
	}
	return result, nil
}

// ── Mock ShiftChangeLogRepository ──

type mockChangeLogRepo struct {
	mu   sync.Mutex
	logs []model.ShiftChangeLog
}

func (m *mockChangeLogRepo) Create(_ context.Context, log *model.ShiftChangeLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logs = append(m.logs, *log)
	return nil
}

func (m *mockChangeLogRepo) ListByOrganization(_ context.Context, orgID string, offset, limit int) ([]model.ShiftChangeLog, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var matched []model.ShiftChangeLog
	for _, l := range m.logs {
		if l.OrganizationID == orgID {
			matched = append(matched, l)
		}
	}
	total := int64(len(matched))
	if offset >= len(matched) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], total, nil
}

func (m *mockChangeLogRepo) types() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []string
	for _, l := range m.logs {
		result = append(result, l.ChangeType)
	}
	return result
}
