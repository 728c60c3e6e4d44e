package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/habityu/internal/db"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// EntryService 负责打卡记录的写入与查询
type EntryService struct {
	db *gorm.DB
}

// EntryInput 定义打卡时的输入对象
type EntryInput struct {
	HabitID uint
	Date    time.Time
	Value   float64
}

// EntryFilter 指定单个习惯的查询区间
type EntryFilter struct {
	HabitID uint
	Start   time.Time
	End     time.Time
}

// HabitTableRow 表示网格视图中的一行：习惯及其区间内的打卡记录
type HabitTableRow struct {
	Habit   db.Habit
	Entries []db.HabitEntry
}

// NewEntryService 构造 EntryService
func NewEntryService(gdb *gorm.DB) *EntryService {
	return &EntryService{db: gdb}
}

// Log 为某习惯在某天记录一个值，返回落库后的记录。
// 值为 0 表示"当天没有记录"：存在同日记录则删除并返回 nil，不存在则直接
// 返回 nil。由此"未打卡"与"打了 0"在接口上不可区分，这是既定的产品约束。
// 非零值先经完成度规则校验，再以 (habit_id, date) 为冲突键幂等写入。
func (s *EntryService) Log(input EntryInput) (*db.HabitEntry, error) {
	var habit db.Habit
	if err := s.db.First(&habit, input.HabitID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrHabitNotFound
		}
		return nil, fmt.Errorf("find habit: %w", err)
	}

	logDate := normalizeToDate(input.Date)

	if input.Value == 0 {
		// 物理删除：软删除的行仍占用 (habit_id, date) 唯一索引，
		// 会让后续同日重新打卡的 upsert 命中一条查询不到的死行
		if err := s.db.Unscoped().Where("habit_id = ? AND date = ?", habit.ID, logDate).
			Delete(&db.HabitEntry{}).Error; err != nil {
			return nil, fmt.Errorf("delete habit entry: %w", err)
		}
		return nil, nil
	}

	_, completed, err := EvaluateCompletion(habit, input.Value)
	if err != nil {
		return nil, err
	}

	record := db.HabitEntry{
		HabitID:     habit.ID,
		Date:        logDate,
		Value:       input.Value,
		IsCompleted: completed,
	}

	if err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "habit_id"}, {Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "is_completed", "updated_at", "deleted_at"}),
	}).Create(&record).Error; err != nil {
		return nil, fmt.Errorf("upsert habit entry: %w", err)
	}

	if err := s.db.Where("habit_id = ? AND date = ?", habit.ID, logDate).First(&record).Error; err != nil {
		return nil, fmt.Errorf("reload habit entry: %w", err)
	}

	return &record, nil
}

// ListBetween 返回指定习惯在区间内的打卡记录，按日期升序
func (s *EntryService) ListBetween(filter EntryFilter) ([]db.HabitEntry, error) {
	if filter.HabitID == 0 {
		return nil, fmt.Errorf("habit id is required")
	}

	start := normalizeToDate(filter.Start)
	end := normalizeToDate(filter.End)

	var entries []db.HabitEntry
	if err := s.db.Where("habit_id = ?", filter.HabitID).
		Where("date BETWEEN ? AND ?", start, end).
		Order("date ASC").
		Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("list habit entries: %w", err)
	}

	return entries, nil
}

// TableData 返回全部习惯及各自区间内的打卡记录，用于网格视图与 PDF 报表
func (s *EntryService) TableData(start, end time.Time) ([]HabitTableRow, error) {
	var habits []db.Habit
	if err := s.db.Order("id ASC").Find(&habits).Error; err != nil {
		return nil, fmt.Errorf("list habits: %w", err)
	}

	normalizedStart := normalizeToDate(start)
	normalizedEnd := normalizeToDate(end)

	var entries []db.HabitEntry
	if err := s.db.Where("date BETWEEN ? AND ?", normalizedStart, normalizedEnd).
		Order("date ASC").
		Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("list habit entries: %w", err)
	}

	byHabit := make(map[uint][]db.HabitEntry, len(habits))
	for _, entry := range entries {
		byHabit[entry.HabitID] = append(byHabit[entry.HabitID], entry)
	}

	rows := make([]HabitTableRow, 0, len(habits))
	for _, habit := range habits {
		rows = append(rows, HabitTableRow{Habit: habit, Entries: byHabit[habit.ID]})
	}

	return rows, nil
}
