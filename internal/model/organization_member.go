package model

import "time"

// 组织内角色
const (
	RoleOwner    = "owner"
	RoleAdmin    = "admin"
	RoleManager  = "manager"
	RoleEmployee = "employee"
)

// OrganizationMember 组织成员表，对应 organization_members
type OrganizationMember struct {
	MemberID       string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"member_id"`
	OrganizationID string    `gorm:"type:uuid;not null"                             json:"organization_id"`
	UserID         string    `gorm:"type:uuid;not null"                             json:"user_id"`
	Role           string    `gorm:"type:varchar(20);not null;default:'employee'"   json:"role"` // owner | admin | manager | employee
	CreatedAt      time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`
	UpdatedAt      time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"updated_at"`
}

// TableName 指定表名
func (OrganizationMember) TableName() string { return "organization_members" }

// IsManagerRole owner/admin/manager 视为管理角色
func IsManagerRole(role string) bool {
	switch role {
	case RoleOwner, RoleAdmin, RoleManager:
		return true
	}
	return false
}
