package service

import (
	"errors"
	"fmt"
	"strings"
)

// ── 换班市场业务错误 ──

var (
	ErrUnauthorized = errors.New("未登录或登录已失效")

	ErrNotMember             = errors.New("不是该组织成员")
	ErrNotManager            = errors.New("需要管理员权限")
	ErrOrganizationMismatch  = errors.New("不允许跨组织操作")
	ErrNotShiftOwner         = errors.New("只有班次持有人可以发布换班")
	ErrSelfPickup            = errors.New("不能接自己发布的班次")
	ErrNotRequester          = errors.New("只有申请人可以撤销换班申请")
	ErrCancelDropNotEntitled = errors.New("只有班次持有人或申请人可以撤回换班")

	ErrShiftNotFound    = errors.New("班次不存在")
	ErrExchangeNotFound = errors.New("换班申请不存在")

	ErrShiftInPast         = errors.New("不能发布已过期的班次")
	ErrExchangeAlreadyOpen = errors.New("该班次已有进行中的换班申请")
	ErrExchangeNotOpen     = errors.New("换班申请已结束")
	ErrNothingToCancel     = errors.New("该班次没有可撤回的换班")
	ErrMissingTarget       = errors.New("shift_id 与 request_id 至少提供一个")

	ErrShiftNoLongerAvailable = errors.New("班次已被他人接走或已下架")
	ErrShiftChanged           = errors.New("班次已被修改，请刷新后重试")

	ErrBlackout = errors.New("该日期处于禁排期，不能接班")

	ErrExportGenerateFail = errors.New("生成 Excel 文件失败")
)

// Kind 错误分类，Handler 据此映射 HTTP 状态码
type Kind int

const (
	KindInternal Kind = iota
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindInvalidState
	KindConflict
	KindBlocked
)

func (k Kind) String() string {
	switch k {
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindInvalidState:
		return "invalid_state"
	case KindConflict:
		return "conflict"
	case KindBlocked:
		return "blocked"
	}
	return "internal"
}

// 按顺序匹配，先命中者生效：包装了多个哨兵的错误以靠前的分类为准
var kindTable = []struct {
	err  error
	kind Kind
}{
	{ErrUnauthorized, KindUnauthorized},
	{ErrShiftNoLongerAvailable, KindConflict},
	{ErrShiftChanged, KindConflict},
	{ErrNotMember, KindForbidden},
	{ErrNotManager, KindForbidden},
	{ErrOrganizationMismatch, KindForbidden},
	{ErrNotShiftOwner, KindForbidden},
	{ErrSelfPickup, KindForbidden},
	{ErrNotRequester, KindForbidden},
	{ErrCancelDropNotEntitled, KindForbidden},
	{ErrShiftNotFound, KindNotFound},
	{ErrExchangeNotFound, KindNotFound},
	{ErrShiftInPast, KindInvalidState},
	{ErrExchangeAlreadyOpen, KindInvalidState},
	{ErrExchangeNotOpen, KindInvalidState},
	{ErrNothingToCancel, KindInvalidState},
	{ErrMissingTarget, KindInvalidState},
	{ErrBlackout, KindBlocked},
}

// KindOf 返回错误分类；未知错误为 KindInternal
func KindOf(err error) Kind {
	if err == nil {
		return KindInternal
	}
	var ce *ConflictError
	if errors.As(err, &ce) {
		return KindConflict
	}
	for _, e := range kindTable {
		if errors.Is(err, e.err) {
			return e.kind
		}
	}
	return KindInternal
}

// ConflictWindow 与目标班次时间重叠的已有班次
type ConflictWindow struct {
	ID    string `json:"id"`
	Date  string `json:"date"`
	Start string `json:"start"`
	End   string `json:"end"`
}

// ConflictError 接班时间冲突，携带全部冲突班次
type ConflictError struct {
	Conflicts []ConflictWindow
}

func (e *ConflictError) Error() string {
	ids := make([]string, len(e.Conflicts))
	for i, c := range e.Conflicts {
		ids[i] = fmt.Sprintf("%s(%s %s-%s)", c.ID, c.Date, c.Start, c.End)
	}
	return "与已有班次时间冲突: " + strings.Join(ids, ", ")
}
