package service

import (
	"bytes"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"
)

// ReportService 把侧边栏周视图与过去 7 天的打卡网格渲染成 PDF 报表
type ReportService struct {
	entries  *EntryService
	insights *InsightsService
}

// NewReportService 构造 ReportService
func NewReportService(entries *EntryService, insights *InsightsService) *ReportService {
	return &ReportService{entries: entries, insights: insights}
}

// BuildReport 生成指定日期的习惯洞察 PDF，返回文件字节
func (s *ReportService) BuildReport(today time.Time) ([]byte, error) {
	anchor := normalizeToDate(today)

	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetMargins(12.7, 12.7, 12.7)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 10, fmt.Sprintf("Habit Insights Report - %s", formatReportDate(anchor)), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	week, err := s.insights.SidebarWeekInsights(anchor)
	if err != nil {
		return nil, err
	}

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 8, "Overall Statistics", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 6, fmt.Sprintf("Current Streak: %d days", week.CurrentOverallStreak), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Longest Streak: %d days", week.LongestOverallStreak), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 8, "Past 7-Day Status", "", 1, "L", false, 0, "")

	if err := s.writeHabitTable(pdf, anchor); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func (s *ReportService) writeHabitTable(pdf *fpdf.Fpdf, today time.Time) error {
	rows, err := s.entries.TableData(today.AddDate(0, 0, -6), today)
	if err != nil {
		return err
	}

	if len(rows) == 0 {
		pdf.SetFont("Helvetica", "I", 11)
		pdf.CellFormat(0, 6, "No habits tracked yet.", "", 1, "L", false, 0, "")
		return nil
	}

	// 最近 7 天，列按时间倒序：今天、昨天、再往前按星期缩写
	dates := make([]time.Time, 7)
	labels := make([]string, 7)
	for i := 0; i < 7; i++ {
		dates[i] = today.AddDate(0, 0, -i)
		switch i {
		case 0:
			labels[i] = "Today"
		case 1:
			labels[i] = "Yesterday"
		default:
			labels[i] = dates[i].Format("Mon")
		}
	}

	const nameWidth, dayWidth, rowHeight = 38.0, 21.5, 8.0

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(0x00, 0x77, 0xB6)
	pdf.SetTextColor(0xFF, 0xFF, 0xFF)
	pdf.CellFormat(nameWidth, rowHeight, "Habit", "1", 0, "C", true, 0, "")
	for _, label := range labels {
		pdf.CellFormat(dayWidth, rowHeight, label, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(rowHeight)

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(0x00, 0x00, 0x00)

	for _, row := range rows {
		logged := make(map[string]struct{}, len(row.Entries))
		for _, entry := range row.Entries {
			logged[normalizeToDate(entry.Date).Format(time.DateOnly)] = struct{}{}
		}

		pdf.SetFillColor(0xFF, 0xFF, 0xFF)
		pdf.CellFormat(nameWidth, rowHeight, row.Habit.Name, "1", 0, "C", false, 0, "")

		for _, day := range dates {
			if _, ok := logged[day.Format(time.DateOnly)]; ok {
				pdf.SetFillColor(0xC8, 0xE6, 0xC9)
			} else {
				pdf.SetFillColor(0xFF, 0xCD, 0xD2)
			}
			pdf.CellFormat(dayWidth, rowHeight, "", "1", 0, "C", true, 0, "")
		}
		pdf.Ln(rowHeight)
	}

	return nil
}

// formatReportDate 输出带序数后缀的英文日期，如 1st January 2006
func formatReportDate(d time.Time) string {
	day := d.Day()

	suffix := "th"
	if day < 11 || day > 13 {
		switch day % 10 {
		case 1:
			suffix = "st"
		case 2:
			suffix = "nd"
		case 3:
			suffix = "rd"
		}
	}

	return fmt.Sprintf("%d%s %s", day, suffix, d.Format("January 2006"))
}
