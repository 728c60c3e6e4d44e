package db

import (
	"time"

	"gorm.io/gorm"
)

// Habit 类型常量，simple 为二元打卡，measurable 为量化目标
const (
	HabitTypeSimple     = "simple"
	HabitTypeMeasurable = "measurable"
)

// DefaultHabitColor 为未指定颜色时的前端展示色
const DefaultHabitColor = "#1677ff"

// Habit 定义习惯模型
// Type 取 simple/measurable；measurable 必须携带 Target>0，Unit 可选
// simple 习惯不使用 Target/Unit 字段，写入时保持零值
type Habit struct {
	gorm.Model
	Name   string `gorm:"not null"`
	Type   string `gorm:"not null;index"`
	Color  string
	Target float64
	Unit   string
}

// HabitEntry 记录某个习惯在某一天的打卡值
// Habit + Date 采用唯一索引保证幂等，一天至多一条记录
// IsCompleted 是 Value 对照习惯目标的派生缓存，目标变化时需整体重算，
// 任何读取路径都不应把它当作权威状态
type HabitEntry struct {
	gorm.Model
	HabitID     uint      `gorm:"not null;index;index:idx_entry_habit_date,unique;index:idx_entry_habit_completed"`
	Habit       Habit     `gorm:"constraint:OnDelete:CASCADE"`
	Date        time.Time `gorm:"not null;index;index:idx_entry_habit_date,unique"`
	Value       float64   `gorm:"not null"`
	IsCompleted bool      `gorm:"not null;default:false;index;index:idx_entry_habit_completed"`
}

// TableName 固定表名，保证唯一索引作用到 habit_id + date
func (HabitEntry) TableName() string {
	return "habit_entries"
}
