package model

import "time"

// BlockedDay 禁排日表，对应 blocked_days
// UserID 为空表示全组织禁排
type BlockedDay struct {
	BlockedDayID   string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"blocked_day_id"`
	OrganizationID string    `gorm:"type:uuid;not null"                             json:"organization_id"`
	UserID         *string   `gorm:"type:uuid"                                      json:"user_id,omitempty"`
	StartDate      time.Time `gorm:"type:date;not null"                             json:"start_date"`
	EndDate        time.Time `gorm:"type:date;not null"                             json:"end_date"`
	Reason         string    `gorm:"type:varchar(200)"                              json:"reason,omitempty"`
	CreatedAt      time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`
	UpdatedAt      time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"updated_at"`
}

// TableName 指定表名
func (BlockedDay) TableName() string { return "blocked_days" }

// OrgWide 是否全组织禁排
func (b *BlockedDay) OrgWide() bool { return b.UserID == nil }
