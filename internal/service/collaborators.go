package service

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"staffline/backend/internal/model"
	"staffline/backend/internal/repository"
)

// ── 外部协作方 ──
// 成员/角色、禁排日历、员工花名册归其他模块维护，这里只依赖最小接口

// MembershipOracle 组织成员与角色查询
type MembershipOracle interface {
	// Role 返回 userID 在 orgID 中的角色；非成员返回 ErrNotMember
	Role(ctx context.Context, orgID, userID string) (string, error)
}

// BlackoutOracle 禁排日查询
type BlackoutOracle interface {
	// Blocking 返回对 (orgID, date, userID) 生效的禁排记录，未禁排时返回 nil
	// 全组织禁排优先于个人禁排
	Blocking(ctx context.Context, orgID string, date time.Time, userID string) (*model.BlockedDay, error)
}

// Roster 员工展示名查询
type Roster interface {
	DisplayNames(ctx context.Context, userIDs []string) (map[string]string, error)
}

type membershipOracle struct {
	repo repository.MembershipRepository
}

// NewMembershipOracle 基于 organization_members 表的实现
func NewMembershipOracle(repo repository.MembershipRepository) MembershipOracle {
	return &membershipOracle{repo: repo}
}

func (o *membershipOracle) Role(ctx context.Context, orgID, userID string) (string, error) {
	m, err := o.repo.Get(ctx, orgID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrNotMember
		}
		return "", err
	}
	return m.Role, nil
}

type blackoutOracle struct {
	repo repository.BlockedDayRepository
}

// NewBlackoutOracle 基于 blocked_days 表的实现
func NewBlackoutOracle(repo repository.BlockedDayRepository) BlackoutOracle {
	return &blackoutOracle{repo: repo}
}

func (o *blackoutOracle) Blocking(ctx context.Context, orgID string, date time.Time, userID string) (*model.BlockedDay, error) {
	days, err := o.repo.FindActive(ctx, orgID, userID, date)
	if err != nil {
		return nil, err
	}
	for i := range days {
		if days[i].OrgWide() {
			return &days[i], nil
		}
	}
	if len(days) > 0 {
		return &days[0], nil
	}
	return nil, nil
}

type roster struct {
	repo repository.UserRepository
}

// NewRoster 基于 users 表的实现
func NewRoster(repo repository.UserRepository) Roster {
	return &roster{repo: repo}
}

func (r *roster) DisplayNames(ctx context.Context, userIDs []string) (map[string]string, error) {
	return r.repo.ListNames(ctx, userIDs)
}
