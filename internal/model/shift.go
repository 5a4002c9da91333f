package model

import "time"

// 班次状态，由排班流程维护，换班市场只读
const (
	ShiftStatusPending   = "PENDING"
	ShiftStatusConfirmed = "CONFIRMED"
	ShiftStatusCancelled = "CANCELLED"
	ShiftStatusDenied    = "DENIED"
)

// Shift 班次表，对应 shifts
type Shift struct {
	ShiftID        string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"shift_id"`
	OrganizationID string    `gorm:"type:uuid;not null"                             json:"organization_id"`
	OwnerID        *string   `gorm:"type:uuid"                                      json:"owner_id"`
	ShiftDate      time.Time `gorm:"type:date;not null"                             json:"shift_date"`
	StartTime      string    `gorm:"type:time;not null"                             json:"start_time"`
	EndTime        string    `gorm:"type:time;not null"                             json:"end_time"`
	Status         string    `gorm:"type:varchar(20);not null;default:'CONFIRMED'"  json:"status"` // PENDING | CONFIRMED | CANCELLED | DENIED
	// IsMarketplace 列可能不存在（旧库），见 database.Capabilities
	IsMarketplace bool `gorm:"not null;default:false" json:"is_marketplace"`
	VersionedModel
}

// TableName 指定表名
func (Shift) TableName() string { return "shifts" }

// IsOwnedBy 班次当前是否归 userID 所有
func (s Shift) IsOwnedBy(userID string) bool {
	return s.OwnerID != nil && *s.OwnerID == userID
}

// DateString 班次日期 YYYY-MM-DD
func (s Shift) DateString() string {
	return s.ShiftDate.Format(time.DateOnly)
}

// ConflictEligible 参与时间冲突判定的状态：只有待定与已确认的班次占用时间
func ConflictEligible(status string) bool {
	return status == ShiftStatusPending || status == ShiftStatusConfirmed
}
