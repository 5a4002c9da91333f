package service

import (
	"bytes"
	"context"
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"staffline/backend/internal/model"
	"staffline/backend/internal/overlap"
)

// ExportFile 导出文件，由 Handler 设置响应头后写出
type ExportFile struct {
	Buffer   *bytes.Buffer
	Filename string
}

// ═══════════════════════════════════════════════════════════
// ExportLedger：换班申请导出为 Excel
// ═══════════════════════════════════════════════════════════
//
// 单 Sheet，一行一条申请，按创建时间倒序：
//   | 申请ID | 日期 | 时间 | 申请人 | 状态 | 接单人 | 创建时间 | 接单时间 | 撤销时间 |

var ledgerHeaders = []string{"申请ID", "日期", "时间", "申请人", "状态", "接单人", "创建时间", "接单时间", "撤销时间"}

func (s *marketplaceService) ExportLedger(ctx context.Context, orgID, actorID string) (*ExportFile, error) {
	if err := s.requireManager(ctx, orgID, actorID); err != nil {
		return nil, err
	}

	reqs, err := s.ledger.ListByOrganization(ctx, orgID)
	if err != nil {
		s.logger.Error("查询换班申请失败", zap.Error(err))
		return nil, err
	}
	shifts := s.shiftIndex(ctx, reqs)
	names := s.displayNames(ctx, reqs)

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "换班记录"
	idx, _ := f.NewSheet(sheetName)
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	for i, h := range ledgerHeaders {
		f.SetCellValue(sheetName, cell(colName(i), 1), h)
	}
	f.SetCellStyle(sheetName, "A1", cell(colName(len(ledgerHeaders)-1), 1), headerStyle)
	f.SetColWidth(sheetName, "A", "A", 38)
	f.SetColWidth(sheetName, "B", "C", 14)
	f.SetColWidth(sheetName, "D", "F", 18)
	f.SetColWidth(sheetName, "G", "I", 22)

	for i := range reqs {
		r := &reqs[i]
		row := i + 2

		date, window := "-", "-"
		if sh := shifts[r.ShiftID]; sh != nil {
			date = sh.DateString()
			window = fmt.Sprintf("%s-%s", clockText(sh.StartTime), clockText(sh.EndTime))
		}
		claimant := "-"
		if r.ClaimantID != nil {
			claimant = nameOrID(names, *r.ClaimantID)
		}

		values := []string{
			r.RequestID,
			date,
			window,
			nameOrID(names, r.RequesterID),
			string(r.Status),
			claimant,
			r.CreatedAt.In(s.loc).Format(time.DateTime),
			localTime(r.ClaimedAt, s.loc),
			localTime(r.CancelledAt, s.loc),
		}
		for col, v := range values {
			f.SetCellValue(sheetName, cell(colName(col), row), v)
		}
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, ErrExportGenerateFail
	}

	return &ExportFile{
		Buffer:   buf,
		Filename: fmt.Sprintf("换班记录_%s.xlsx", s.today()),
	}, nil
}

// ═══════════════════════════════════════════════════════════
// OpenShiftCalendar：可接班次的 ICS 日历
// ═══════════════════════════════════════════════════════════

func (s *marketplaceService) OpenShiftCalendar(ctx context.Context, orgID, actorID string) (string, error) {
	if _, err := s.requireMember(ctx, orgID, actorID); err != nil {
		return "", err
	}

	all, err := s.ledger.ListByOrganization(ctx, orgID)
	if err != nil {
		s.logger.Error("查询换班申请失败", zap.Error(err))
		return "", err
	}
	var open []model.ShiftExchangeRequest
	for _, r := range all {
		if r.IsOpen() {
			open = append(open, r)
		}
	}
	shifts := s.shiftIndex(ctx, open)
	names := s.displayNames(ctx, open)

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//staffline//marketplace//EN")
	cal.SetXWRCalName("Open shifts")

	stamp := s.now().UTC()
	for i := range open {
		r := &open[i]
		sh := shifts[r.ShiftID]
		if sh == nil || sh.OrganizationID != orgID || !s.offered(sh, r) {
			continue
		}
		start, end, err := s.shiftSpan(sh)
		if err != nil {
			s.logger.Warn("班次时间无法解析，跳过", zap.String("shift_id", sh.ShiftID), zap.Error(err))
			continue
		}

		event := cal.AddEvent(r.RequestID + "@staffline")
		event.SetDtStampTime(stamp)
		event.SetCreatedTime(r.CreatedAt)
		event.SetStartAt(start)
		event.SetEndAt(end)
		event.SetSummary(fmt.Sprintf("Open shift %s-%s", clockText(sh.StartTime), clockText(sh.EndTime)))
		event.SetDescription(fmt.Sprintf("Dropped by %s", nameOrID(names, r.RequesterID)))
	}

	return cal.Serialize(), nil
}

// shiftSpan 班次在组织时区下的起止时刻
func (s *marketplaceService) shiftSpan(sh *model.Shift) (time.Time, time.Time, error) {
	window, err := overlap.ParseWindow(sh.ShiftID, sh.StartTime, sh.EndTime)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	y, m, d := sh.ShiftDate.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, s.loc)
	return day.Add(time.Duration(window.Start) * time.Minute), day.Add(time.Duration(window.End) * time.Minute), nil
}

// ── 辅助函数 ──

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}

func localTime(t *time.Time, loc *time.Location) string {
	if t == nil {
		return "-"
	}
	return t.In(loc).Format(time.DateTime)
}
