package service

import (
	"errors"
	"fmt"
	"math"

	"github.com/habityu/internal/db"
)

// ErrInvalidValue 在打卡值不符合习惯类型约束时返回
var ErrInvalidValue = errors.New("invalid entry value")

// EvaluateCompletion 是写入路径的完成度规则：根据习惯定义和打卡值
// 计算完成百分比（0~100）与完成标记。
// simple 习惯只接受 0/1，measurable 习惯只接受正值（0 表示删除，由上游处理）。
func EvaluateCompletion(habit db.Habit, value float64) (float64, bool, error) {
	switch habit.Type {
	case db.HabitTypeSimple:
		if value != 0 && value != 1 {
			return 0, false, fmt.Errorf("%w: simple habit only accepts binary 0/1", ErrInvalidValue)
		}
		if value >= 1 {
			return 100.0, true, nil
		}
		return 0.0, false, nil
	case db.HabitTypeMeasurable:
		if value <= 0 {
			return 0, false, fmt.Errorf("%w: value must be positive", ErrInvalidValue)
		}
		if habit.Target <= 0 {
			return 0.0, false, nil
		}
		return completionPercent(habit, value), value >= habit.Target, nil
	default:
		return 0, false, fmt.Errorf("%w: unknown habit type %s", ErrInvalidValue, habit.Type)
	}
}

// completionPercent 是读取路径的完成度规则：对已存储的打卡值计算百分比，
// 永不报错，非法组合一律按 0 处理。
func completionPercent(habit db.Habit, value float64) float64 {
	switch habit.Type {
	case db.HabitTypeSimple:
		if value >= 1 {
			return 100.0
		}
		return 0.0
	case db.HabitTypeMeasurable:
		if habit.Target <= 0 {
			return 0.0
		}
		return math.Min(100.0, value/habit.Target*100)
	default:
		return 0.0
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
