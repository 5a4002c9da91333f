// Package overlap 提供班次时间窗口的冲突判定。
//
// 时间统一以"当天零点起的分钟数"表示。区间按半开区间 [start, end) 处理：
// 首尾相接（9:00-12:00 与 12:00-17:00）不算冲突。
// 退化区间（end <= start）一律视为冲突，宁可拒绝也不放行。
package overlap

import (
	"fmt"
	"strconv"
	"strings"
)

// MinutesPerDay 一天的分钟数
const MinutesPerDay = 24 * 60

// Overlaps 判断两个区间是否冲突
func Overlaps(aStart, aEnd, bStart, bEnd int) bool {
	if aEnd <= aStart || bEnd <= bStart {
		return true
	}
	return aStart < bEnd && bStart < aEnd
}

// Interval 带标识的时间区间
type Interval struct {
	ID    string
	Start int
	End   int
}

// Valid 区间是否非退化
func (i Interval) Valid() bool {
	return i.Start < i.End
}

// FindConflicts 返回 existing 中与 candidate 冲突的全部区间，保持输入顺序
// 与 candidate 同 ID 的区间被跳过
func FindConflicts(candidate Interval, existing []Interval) []Interval {
	var conflicts []Interval
	for _, other := range existing {
		if other.ID != "" && other.ID == candidate.ID {
			continue
		}
		if Overlaps(candidate.Start, candidate.End, other.Start, other.End) {
			conflicts = append(conflicts, other)
		}
	}
	return conflicts
}

// ParseClock 解析 "HH:MM" 或 "HH:MM:SS"（PostgreSQL TIME 列的文本形式）
// 秒被截断；"24:00" 表示当天结束
func ParseClock(s string) (int, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, fmt.Errorf("无效的时间格式 %q", s)
	}

	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("无效的小时 %q: %w", s, err)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("无效的分钟 %q: %w", s, err)
	}
	if len(parts) == 3 {
		sec, err := strconv.Atoi(parts[2])
		if err != nil || sec < 0 || sec > 59 {
			return 0, fmt.Errorf("无效的秒 %q", s)
		}
	}

	if minute < 0 || minute > 59 || hour < 0 || hour > 24 || (hour == 24 && minute != 0) {
		return 0, fmt.Errorf("时间越界 %q", s)
	}
	return hour*60 + minute, nil
}

// FormatClock 分钟数 → "HH:MM"
func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// ParseWindow 解析起止时间为区间
func ParseWindow(id, start, end string) (Interval, error) {
	s, err := ParseClock(start)
	if err != nil {
		return Interval{}, err
	}
	e, err := ParseClock(end)
	if err != nil {
		return Interval{}, err
	}
	return Interval{ID: id, Start: s, End: e}, nil
}
