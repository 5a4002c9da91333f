package model

import "time"

// ExchangeStatus 换班申请状态
type ExchangeStatus string

const (
	ExchangeOpen      ExchangeStatus = "OPEN"
	ExchangeClaimed   ExchangeStatus = "CLAIMED"
	ExchangeCancelled ExchangeStatus = "CANCELLED"
)

// ShiftExchangeRequest 换班申请表，对应 shift_exchange_requests
// 同一 shift_id 同时最多一条 OPEN（uk_exchange_open_per_shift）
type ShiftExchangeRequest struct {
	RequestID      string         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"request_id"`
	OrganizationID string         `gorm:"type:uuid;not null"                             json:"organization_id"`
	ShiftID        string         `gorm:"type:uuid;not null"                             json:"shift_id"`
	RequesterID    string         `gorm:"type:uuid;not null"                             json:"requester_id"`
	Status         ExchangeStatus `gorm:"type:varchar(20);not null;default:'OPEN'"       json:"status"`
	ClaimantID     *string        `gorm:"type:uuid"                                      json:"claimant_id,omitempty"`
	ClaimedAt      *time.Time     `json:"claimed_at,omitempty"`
	CancelledAt    *time.Time     `json:"cancelled_at,omitempty"`
	CancelledBy    *string        `gorm:"type:uuid"                                      json:"cancelled_by,omitempty"`
	CreatedAt      time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`
	UpdatedAt      time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"updated_at"`
}

// TableName 指定表名
func (ShiftExchangeRequest) TableName() string { return "shift_exchange_requests" }

// IsOpen 是否仍可被接单或撤销
func (r *ShiftExchangeRequest) IsOpen() bool { return r.Status == ExchangeOpen }

// Involves userID 是否为申请人或接单人
func (r *ShiftExchangeRequest) Involves(userID string) bool {
	if r.RequesterID == userID {
		return true
	}
	return r.ClaimantID != nil && *r.ClaimantID == userID
}
