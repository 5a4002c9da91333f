package repository

import (
	"context"

	"gorm.io/gorm"

	"staffline/backend/internal/model"
)

// UserRepository 用户数据访问接口
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	// ListNames 批量查询展示名，不存在的 id 不出现在结果中
	ListNames(ctx context.Context, ids []string) (map[string]string, error)
}

// userRepo UserRepository 的 GORM 实现
type userRepo struct {
	db *gorm.DB
}

// NewUserRepo 创建 UserRepository 实例
func NewUserRepo(db *gorm.DB) UserRepository {
	return &userRepo{db: db}
}

func (r *userRepo) Create(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepo) ListNames(ctx context.Context, ids []string) (map[string]string, error) {
	names := make(map[string]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}

	var users []model.User
	err := r.db.WithContext(ctx).
		Select("user_id", "display_name").
		Where("user_id IN ?", ids).
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		names[u.UserID] = u.DisplayName
	}
	return names, nil
}
