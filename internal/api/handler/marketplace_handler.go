package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"staffline/backend/internal/dto"
	"staffline/backend/internal/service"
	"staffline/backend/pkg/response"
)

// MarketplaceHandler 换班市场 HTTP 处理器
type MarketplaceHandler struct {
	marketSvc service.MarketplaceService
}

// NewMarketplaceHandler 创建 MarketplaceHandler
func NewMarketplaceHandler(marketSvc service.MarketplaceService) *MarketplaceHandler {
	return &MarketplaceHandler{marketSvc: marketSvc}
}

// Drop 发布班次到市场
// POST /api/v1/marketplace/drop
func (h *MarketplaceHandler) Drop(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.DropRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 17001, "参数校验失败")
		return
	}

	result, err := h.marketSvc.Drop(c.Request.Context(), &req, userID)
	if err != nil {
		h.handleMarketplaceError(c, err)
		return
	}

	response.Created(c, result)
}

// List 市场列表
// GET /api/v1/marketplace?organization_id=xxx
func (h *MarketplaceHandler) List(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var q dto.OrganizationQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, 17001, "organization_id 不能为空")
		return
	}

	result, err := h.marketSvc.List(c.Request.Context(), q.OrganizationID, userID)
	if err != nil {
		h.handleMarketplaceError(c, err)
		return
	}

	response.OK(c, result)
}

// Pickup 接班
// POST /api/v1/marketplace/pickup
func (h *MarketplaceHandler) Pickup(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.PickupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 17001, "参数校验失败")
		return
	}

	result, err := h.marketSvc.Pickup(c.Request.Context(), &req, userID)
	if err != nil {
		h.handleMarketplaceError(c, err)
		return
	}

	response.OK(c, result)
}

// CancelDrop 撤回换班
// POST /api/v1/marketplace/cancel-drop
func (h *MarketplaceHandler) CancelDrop(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.CancelDropRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 17001, "参数校验失败")
		return
	}

	result, err := h.marketSvc.CancelDrop(c.Request.Context(), &req, userID)
	if err != nil {
		h.handleMarketplaceError(c, err)
		return
	}

	response.OK(c, result)
}

// Cancel 撤销换班申请
// POST /api/v1/marketplace/requests/:id/cancel
func (h *MarketplaceHandler) Cancel(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 17001, "申请ID不能为空")
		return
	}

	result, err := h.marketSvc.Cancel(c.Request.Context(), id, userID)
	if err != nil {
		h.handleMarketplaceError(c, err)
		return
	}

	response.OK(c, result)
}

// History 班次归属变更记录
// GET /api/v1/marketplace/history?organization_id=xxx&page=1&page_size=20
func (h *MarketplaceHandler) History(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.MarketplaceHistoryRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 17001, "参数校验失败")
		return
	}

	list, total, err := h.marketSvc.ListHistory(c.Request.Context(), &req, userID)
	if err != nil {
		h.handleMarketplaceError(c, err)
		return
	}

	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}

// Export 导出换班记录
// GET /api/v1/marketplace/export?organization_id=xxx
func (h *MarketplaceHandler) Export(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var q dto.OrganizationQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, 17001, "organization_id 不能为空")
		return
	}

	file, err := h.marketSvc.ExportLedger(c.Request.Context(), q.OrganizationID, userID)
	if err != nil {
		h.handleMarketplaceError(c, err)
		return
	}

	writeAttachment(c, file.Filename, xlsxContentType, file.Buffer.Bytes())
}

// Calendar 可接班次日历订阅
// GET /api/v1/marketplace/calendar.ics?organization_id=xxx
func (h *MarketplaceHandler) Calendar(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var q dto.OrganizationQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, 17001, "organization_id 不能为空")
		return
	}

	feed, err := h.marketSvc.OpenShiftCalendar(c.Request.Context(), q.OrganizationID, userID)
	if err != nil {
		h.handleMarketplaceError(c, err)
		return
	}

	c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(feed))
}

// ── 错误映射 ──

// marketplaceErrors 业务错误码；HTTP 状态由 service.KindOf 决定
// 顺序敏感：包装了多个哨兵的错误取第一个命中项
var marketplaceErrors = []struct {
	err  error
	code int
	msg  string
}{
	{service.ErrShiftNoLongerAvailable, 17402, "班次已被他人接走或已撤回"},
	{service.ErrShiftChanged, 17403, "班次已被修改，请刷新后重试"},
	{service.ErrNotMember, 17101, "不是该组织成员"},
	{service.ErrNotManager, 17102, "仅管理员可操作"},
	{service.ErrOrganizationMismatch, 17103, "班次不属于该组织"},
	{service.ErrNotShiftOwner, 17104, "只能发布自己的班次"},
	{service.ErrSelfPickup, 17105, "不能接自己发布的班次"},
	{service.ErrNotRequester, 17106, "只有申请人可以撤销"},
	{service.ErrCancelDropNotEntitled, 17107, "无权撤回该班次"},
	{service.ErrShiftNotFound, 17201, "班次不存在"},
	{service.ErrExchangeNotFound, 17202, "换班申请不存在"},
	{service.ErrShiftInPast, 17301, "不能发布已过去的班次"},
	{service.ErrExchangeAlreadyOpen, 17302, "该班次已在市场中"},
	{service.ErrExchangeNotOpen, 17303, "换班申请已结束"},
	{service.ErrNothingToCancel, 17304, "该班次没有可撤回的换班"},
	{service.ErrMissingTarget, 17305, "shift_id 与 request_id 至少提供一个"},
	{service.ErrBlackout, 17306, "该日期处于禁排期"},
}

func (h *MarketplaceHandler) handleMarketplaceError(c *gin.Context, err error) {
	var ce *service.ConflictError
	if errors.As(err, &ce) {
		response.ErrorWithData(c, http.StatusConflict, 17401, "与已有班次时间冲突", gin.H{"conflicts": ce.Conflicts})
		return
	}

	code, msg := 50000, "服务器内部错误"
	for _, e := range marketplaceErrors {
		if errors.Is(err, e.err) {
			code, msg = e.code, e.msg
			break
		}
	}

	switch service.KindOf(err) {
	case service.KindUnauthorized:
		response.Unauthorized(c, 10002, "未认证")
	case service.KindForbidden:
		response.Forbidden(c, code, msg)
	case service.KindNotFound:
		response.NotFound(c, code, msg)
	case service.KindInvalidState, service.KindBlocked:
		response.BadRequest(c, code, msg)
	case service.KindConflict:
		response.Conflict(c, code, msg)
	default:
		c.Error(fmt.Errorf("marketplace: %w", err))
		response.InternalError(c)
	}
}
