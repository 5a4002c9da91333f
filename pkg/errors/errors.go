package errors

import "errors"

// ErrOptimisticLock 条件更新未命中：记录已被其他操作修改（version / 状态守卫不再匹配）
// 仓储层返回此错误，由业务层翻译为具体的冲突类错误
var ErrOptimisticLock = errors.New("数据已被其他操作修改，请刷新后重试")

// ErrDuplicateOpen 同一班次已存在 OPEN 状态的换班申请（唯一索引冲突）
var ErrDuplicateOpen = errors.New("该班次已有进行中的换班申请")
