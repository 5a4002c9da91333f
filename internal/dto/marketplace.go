package dto

// ── 换班市场 DTO ──

// DropRequest 发布换班请求
type DropRequest struct {
	ShiftID        string `json:"shift_id"        binding:"required,uuid"`
	OrganizationID string `json:"organization_id" binding:"required,uuid"`
}

// PickupRequest 接班请求，shift_id 与 request_id 至少提供一个
type PickupRequest struct {
	ShiftID        string `json:"shift_id"        binding:"omitempty,uuid"`
	RequestID      string `json:"request_id"      binding:"omitempty,uuid"`
	OrganizationID string `json:"organization_id" binding:"required,uuid"`
}

// CancelDropRequest 撤回换班请求
type CancelDropRequest struct {
	ShiftID        string `json:"shift_id"        binding:"required,uuid"`
	OrganizationID string `json:"organization_id" binding:"required,uuid"`
}

// OrganizationQuery 组织范围的查询参数
type OrganizationQuery struct {
	OrganizationID string `form:"organization_id" binding:"required,uuid"`
}

// MarketplaceHistoryRequest 变更历史查询参数
type MarketplaceHistoryRequest struct {
	OrganizationID string `form:"organization_id" binding:"required,uuid"`
	PaginationRequest
}

// ── 响应 ──

// ShiftBrief 班次时间窗口
type ShiftBrief struct {
	ID            string  `json:"id"`
	Date          string  `json:"date"`
	StartTime     string  `json:"start_time"`
	EndTime       string  `json:"end_time"`
	OwnerID       *string `json:"owner_id"`
	Status        string  `json:"status"`
	IsMarketplace bool    `json:"is_marketplace"`
}

// ExchangeRequestResponse 换班申请
type ExchangeRequestResponse struct {
	ID             string  `json:"id"`
	OrganizationID string  `json:"organization_id"`
	ShiftID        string  `json:"shift_id"`
	RequesterID    string  `json:"requester_id"`
	Status         string  `json:"status"`
	ClaimantID     *string `json:"claimant_id,omitempty"`
	CreatedAt      string  `json:"created_at"`
	ClaimedAt      *string `json:"claimed_at,omitempty"`
	CancelledAt    *string `json:"cancelled_at,omitempty"`
	CancelledBy    *string `json:"cancelled_by,omitempty"`
}

// MarketplaceItemResponse 市场列表项：申请 + 展示名 + 班次窗口
type MarketplaceItemResponse struct {
	ExchangeRequestResponse
	RequesterName string      `json:"requester_name"`
	ClaimantName  string      `json:"claimant_name,omitempty"`
	Available     bool        `json:"available"`
	Shift         *ShiftBrief `json:"shift,omitempty"`
}

// MarketplaceListResponse 市场列表
type MarketplaceListResponse struct {
	List []MarketplaceItemResponse `json:"list"`
}

// PickupResponse 接班结果
type PickupResponse struct {
	OK      bool                     `json:"ok"`
	ShiftID string                   `json:"shift_id"`
	Shift   *ShiftBrief              `json:"shift,omitempty"`
	Request *ExchangeRequestResponse `json:"request,omitempty"`
}

// CancelDropResponse 撤回结果
type CancelDropResponse struct {
	OK      bool   `json:"ok"`
	ShiftID string `json:"shift_id"`
}

// ShiftChangeLogResponse 班次归属变更记录
type ShiftChangeLogResponse struct {
	ID              string  `json:"id"`
	ShiftID         string  `json:"shift_id"`
	RequestID       *string `json:"request_id,omitempty"`
	OriginalOwnerID *string `json:"original_owner_id,omitempty"`
	NewOwnerID      *string `json:"new_owner_id,omitempty"`
	ChangeType      string  `json:"change_type"`
	OperatorID      string  `json:"operator_id"`
	CreatedAt       string  `json:"created_at"`
}
