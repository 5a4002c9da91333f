package repository

import (
	"context"

	"gorm.io/gorm"

	"staffline/backend/internal/model"
)

// MembershipRepository 组织成员数据访问接口
type MembershipRepository interface {
	// Get 非成员返回 gorm.ErrRecordNotFound
	Get(ctx context.Context, orgID, userID string) (*model.OrganizationMember, error)
	Create(ctx context.Context, member *model.OrganizationMember) error
}

type membershipRepo struct {
	db *gorm.DB
}

// NewMembershipRepo 创建 MembershipRepository 实例
func NewMembershipRepo(db *gorm.DB) MembershipRepository {
	return &membershipRepo{db: db}
}

func (r *membershipRepo) Get(ctx context.Context, orgID, userID string) (*model.OrganizationMember, error) {
	var m model.OrganizationMember
	err := r.db.WithContext(ctx).
		Where("organization_id = ? AND user_id = ?", orgID, userID).
		First(&m).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *membershipRepo) Create(ctx context.Context, member *model.OrganizationMember) error {
	return r.db.WithContext(ctx).Create(member).Error
}
