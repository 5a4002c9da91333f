package model

import "time"

// User 用户表，对应 users（换班市场只读取展示名）
type User struct {
	UserID      string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"user_id"`
	DisplayName string    `gorm:"type:varchar(100);not null"                     json:"display_name"`
	Email       string    `gorm:"type:varchar(255)"                              json:"email,omitempty"`
	CreatedAt   time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"updated_at"`
}

// TableName 指定表名
func (User) TableName() string { return "users" }
