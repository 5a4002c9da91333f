package model

import "time"

// 变更类型
const (
	ChangeTypePickup       = "pickup"
	ChangeTypeCancelDrop   = "cancel_drop"
	ChangeTypeCompensation = "compensation"
)

// ShiftChangeLog 班次归属变更记录，对应 shift_change_logs（纯审计日志）
type ShiftChangeLog struct {
	ChangeLogID     string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"change_log_id"`
	OrganizationID  string    `gorm:"type:uuid;not null"                             json:"organization_id"`
	ShiftID         string    `gorm:"type:uuid;not null"                             json:"shift_id"`
	RequestID       *string   `gorm:"type:uuid"                                      json:"request_id,omitempty"`
	OriginalOwnerID *string   `gorm:"type:uuid"                                      json:"original_owner_id,omitempty"`
	NewOwnerID      *string   `gorm:"type:uuid"                                      json:"new_owner_id,omitempty"`
	ChangeType      string    `gorm:"type:varchar(20);not null"                      json:"change_type"` // pickup | cancel_drop | compensation
	OperatorID      string    `gorm:"type:uuid;not null"                             json:"operator_id"`
	CreatedAt       time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`
}

// TableName 指定表名
func (ShiftChangeLog) TableName() string { return "shift_change_logs" }
