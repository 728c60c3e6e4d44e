package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/habityu/internal/db"
	"gorm.io/gorm"
)

// 单日状态：已完成 / 已错过 / 待完成
const (
	DayStatusCompleted = "completed"
	DayStatusMissed    = "missed"
	DayStatusPending   = "pending"
)

var weekDayNames = [7]string{"mon", "tue", "wed", "thu", "fri", "sat", "sun"}

// WeekDayStat 表示本周某一天的打卡状态
type WeekDayStat struct {
	Day    string `json:"day"`
	Status string `json:"status"`
}

// SidebarWeekInsights 汇总侧边栏的周视图数据
type SidebarWeekInsights struct {
	CurrentOverallStreak int           `json:"current_overall_streak"`
	LongestOverallStreak int           `json:"longest_overall_streak"`
	CurrentWeekStats     []WeekDayStat `json:"current_week_stats"`
}

// CalendarDayStat 表示日历视图中单日的整体完成百分比
type CalendarDayStat struct {
	Date                string  `json:"date"`
	CompletedPercentage float64 `json:"completed_percentage"`
}

// HabitStats 汇总单个习惯的连胜与累计完成次数
type HabitStats struct {
	CurrentStreak    int `json:"current_streak"`
	LongestStreak    int `json:"longest_streak"`
	TotalCompletions int `json:"total_completions"`
}

// HabitChart 表示单个习惯的周期图表数据
type HabitChart struct {
	View string       `json:"view"`
	Data []ChartPoint `json:"data"`
}

// HeatmapPoint 表示热力图中单日的完成百分比，无打卡的日期不出现
type HeatmapPoint struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

// InsightsService 组合完成度规则、连胜计算与周期聚合，
// 从当前落库的打卡记录即时推导各报表视图，不做任何缓存
type InsightsService struct {
	db *gorm.DB
}

// NewInsightsService 构造 InsightsService
func NewInsightsService(gdb *gorm.DB) *InsightsService {
	return &InsightsService{db: gdb}
}

// SidebarWeekInsights 返回整体连胜与本周（周一至周日）逐日状态。
// 当天或未来视为 pending，已有任一习惯完成的过去日期为 completed，
// 其余过去日期为 missed。
func (s *InsightsService) SidebarWeekInsights(today time.Time) (*SidebarWeekInsights, error) {
	anchor := normalizeToDate(today)

	overallDates, err := s.overallCompletedDates()
	if err != nil {
		return nil, err
	}
	current, longest := CalculateStreaks(overallDates, anchor)

	// 周一作为一周起点
	weekday := (int(anchor.Weekday()) + 6) % 7
	startOfWeek := anchor.AddDate(0, 0, -weekday)

	var completedRows []time.Time
	if err := s.db.Model(&db.HabitEntry{}).
		Where("is_completed = ?", true).
		Where("date BETWEEN ? AND ?", startOfWeek, anchor).
		Distinct().
		Pluck("date", &completedRows).Error; err != nil {
		return nil, fmt.Errorf("list completed days: %w", err)
	}

	completedDays := make(map[string]struct{}, len(completedRows))
	for _, d := range completedRows {
		completedDays[normalizeToDate(d).Format(time.DateOnly)] = struct{}{}
	}

	stats := make([]WeekDayStat, 0, 7)
	for i := 0; i < 7; i++ {
		day := startOfWeek.AddDate(0, 0, i)

		status := DayStatusMissed
		if _, ok := completedDays[day.Format(time.DateOnly)]; ok {
			status = DayStatusCompleted
		} else if !day.Before(anchor) {
			status = DayStatusPending
		}

		stats = append(stats, WeekDayStat{Day: weekDayNames[i], Status: status})
	}

	return &SidebarWeekInsights{
		CurrentOverallStreak: current,
		LongestOverallStreak: longest,
		CurrentWeekStats:     stats,
	}, nil
}

// SidebarCalendarInsights 返回区间内逐日的整体完成百分比。
// 单日取所有有打卡记录的习惯的完成百分比之和除以习惯总数——当天没有
// 记录的习惯按 0 计入，而不是被排除；没有任何习惯时返回空序列。
func (s *InsightsService) SidebarCalendarInsights(start, end time.Time) ([]CalendarDayStat, error) {
	var totalHabits int64
	if err := s.db.Model(&db.Habit{}).Count(&totalHabits).Error; err != nil {
		return nil, fmt.Errorf("count habits: %w", err)
	}
	if totalHabits == 0 {
		return []CalendarDayStat{}, nil
	}

	habits, err := s.habitsByID()
	if err != nil {
		return nil, err
	}

	var entries []db.HabitEntry
	if err := s.db.Where("date BETWEEN ? AND ?", normalizeToDate(start), normalizeToDate(end)).
		Order("date ASC").
		Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("list habit entries: %w", err)
	}

	type dayTotal struct {
		date string
		sum  float64
	}

	totals := make(map[string]*dayTotal)
	order := make([]string, 0)
	for _, entry := range entries {
		habit, ok := habits[entry.HabitID]
		if !ok {
			continue
		}

		key := normalizeToDate(entry.Date).Format(time.DateOnly)
		total, exists := totals[key]
		if !exists {
			total = &dayTotal{date: key}
			totals[key] = total
			order = append(order, key)
		}
		total.sum += completionPercent(habit, entry.Value)
	}

	stats := make([]CalendarDayStat, 0, len(order))
	for _, key := range order {
		stats = append(stats, CalendarDayStat{
			Date:                totals[key].date,
			CompletedPercentage: round2(totals[key].sum / float64(totalHabits)),
		})
	}

	return stats, nil
}

// HabitStats 返回单个习惯的当前/最长连胜与累计完成次数（不限区间）
func (s *InsightsService) HabitStats(habitID uint, today time.Time) (*HabitStats, error) {
	if err := s.ensureHabitExists(habitID); err != nil {
		return nil, err
	}

	var dates []time.Time
	if err := s.db.Model(&db.HabitEntry{}).
		Where("habit_id = ? AND is_completed = ?", habitID, true).
		Pluck("date", &dates).Error; err != nil {
		return nil, fmt.Errorf("list completed dates: %w", err)
	}

	current, longest := CalculateStreaks(dates, today)

	return &HabitStats{
		CurrentStreak:    current,
		LongestStreak:    longest,
		TotalCompletions: len(dates),
	}, nil
}

// HabitChart 返回单个习惯在区间内按周或按月聚合的完成率曲线
func (s *InsightsService) HabitChart(habitID uint, view string, start, end time.Time) (*HabitChart, error) {
	if err := s.ensureHabitExists(habitID); err != nil {
		return nil, err
	}

	entries, err := s.entriesBetween(habitID, start, end)
	if err != nil {
		return nil, err
	}

	if view != ChartViewWeekly {
		view = ChartViewMonthly
	}

	return &HabitChart{
		View: view,
		Data: AggregateByPeriod(entries, start, end, view),
	}, nil
}

// HabitHeatmap 返回单个习惯在区间内逐条打卡的完成百分比，
// 没有记录的日期不出现在结果中
func (s *InsightsService) HabitHeatmap(habitID uint, start, end time.Time) ([]HeatmapPoint, error) {
	var habit db.Habit
	if err := s.db.First(&habit, habitID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrHabitNotFound
		}
		return nil, fmt.Errorf("find habit: %w", err)
	}

	entries, err := s.entriesBetween(habitID, start, end)
	if err != nil {
		return nil, err
	}

	points := make([]HeatmapPoint, 0, len(entries))
	for _, entry := range entries {
		points = append(points, HeatmapPoint{
			Date:  normalizeToDate(entry.Date).Format(time.DateOnly),
			Value: round2(completionPercent(habit, entry.Value)),
		})
	}

	return points, nil
}

func (s *InsightsService) overallCompletedDates() ([]time.Time, error) {
	var dates []time.Time
	if err := s.db.Model(&db.HabitEntry{}).
		Where("is_completed = ?", true).
		Distinct().
		Pluck("date", &dates).Error; err != nil {
		return nil, fmt.Errorf("list completed dates: %w", err)
	}
	return dates, nil
}

func (s *InsightsService) habitsByID() (map[uint]db.Habit, error) {
	var habits []db.Habit
	if err := s.db.Find(&habits).Error; err != nil {
		return nil, fmt.Errorf("list habits: %w", err)
	}

	byID := make(map[uint]db.Habit, len(habits))
	for _, habit := range habits {
		byID[habit.ID] = habit
	}
	return byID, nil
}

func (s *InsightsService) entriesBetween(habitID uint, start, end time.Time) ([]db.HabitEntry, error) {
	var entries []db.HabitEntry
	if err := s.db.Where("habit_id = ?", habitID).
		Where("date BETWEEN ? AND ?", normalizeToDate(start), normalizeToDate(end)).
		Order("date ASC").
		Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("list habit entries: %w", err)
	}
	return entries, nil
}

func (s *InsightsService) ensureHabitExists(habitID uint) error {
	var count int64
	if err := s.db.Model(&db.Habit{}).Where("id = ?", habitID).Count(&count).Error; err != nil {
		return fmt.Errorf("find habit: %w", err)
	}
	if count == 0 {
		return ErrHabitNotFound
	}
	return nil
}
