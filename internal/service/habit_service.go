package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/habityu/internal/db"
	"github.com/microcosm-cc/bluemonday"
	"gorm.io/gorm"
)

var (
	// ErrHabitNotFound 在指定习惯不存在时返回
	ErrHabitNotFound = errors.New("habit not found")
	// ErrHabitInvalidType 当习惯类型不是 simple/measurable 时返回
	ErrHabitInvalidType = errors.New("invalid habit type")
	// ErrHabitInvalidTarget 当 measurable 习惯缺少正目标值时返回
	ErrHabitInvalidTarget = errors.New("invalid habit target")
	// ErrHabitInvalidName 当习惯名称为空时返回
	ErrHabitInvalidName = errors.New("invalid habit name")
)

// HabitService 负责 Habit 数据的增删改查
// 与 handler 解耦，更新目标值时同步重算派生的 is_completed 缓存
type HabitService struct {
	db        *gorm.DB
	sanitizer *bluemonday.Policy
}

// HabitInput 定义创建/更新习惯时可配置字段
// Target/Unit 仅对 measurable 类型生效
type HabitInput struct {
	Name   string
	Type   string
	Color  string
	Target float64
	Unit   string
}

// NewHabitService 构造 HabitService
func NewHabitService(gdb *gorm.DB) *HabitService {
	return &HabitService{db: gdb, sanitizer: bluemonday.StrictPolicy()}
}

// List 返回全部习惯，按创建顺序排列
func (s *HabitService) List() ([]db.Habit, error) {
	var habits []db.Habit
	if err := s.db.Order("id ASC").Find(&habits).Error; err != nil {
		return nil, fmt.Errorf("list habits: %w", err)
	}
	return habits, nil
}

// Get 根据 ID 获取习惯
func (s *HabitService) Get(id uint) (*db.Habit, error) {
	var habit db.Habit
	if err := s.db.First(&habit, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrHabitNotFound
		}
		return nil, fmt.Errorf("get habit: %w", err)
	}
	return &habit, nil
}

// Create 新建习惯
func (s *HabitService) Create(input HabitInput) (*db.Habit, error) {
	cleaned, err := s.validateHabitInput(input)
	if err != nil {
		return nil, err
	}

	habit := db.Habit{
		Name:  cleaned.Name,
		Type:  cleaned.Type,
		Color: cleaned.Color,
	}
	if cleaned.Type == db.HabitTypeMeasurable {
		habit.Target = cleaned.Target
		habit.Unit = cleaned.Unit
	}

	if err := s.db.Create(&habit).Error; err != nil {
		return nil, fmt.Errorf("create habit: %w", err)
	}
	return &habit, nil
}

// Update 更新习惯。名称与颜色总是可改；目标值与单位仅对 measurable 生效，
// 且目标值变化时在同一事务内批量重算该习惯全部打卡的 is_completed。
// 类型本身创建后不可变更。
func (s *HabitService) Update(id uint, input HabitInput) (*db.Habit, error) {
	var existing db.Habit
	if err := s.db.First(&existing, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrHabitNotFound
		}
		return nil, fmt.Errorf("find habit: %w", err)
	}

	input.Type = existing.Type
	cleaned, err := s.validateHabitInput(input)
	if err != nil {
		return nil, err
	}

	existing.Name = cleaned.Name
	existing.Color = cleaned.Color

	previousTarget := existing.Target
	if existing.Type == db.HabitTypeMeasurable {
		existing.Target = cleaned.Target
		existing.Unit = cleaned.Unit
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&existing).Error; err != nil {
			return fmt.Errorf("update habit: %w", err)
		}

		if existing.Type == db.HabitTypeMeasurable && previousTarget != existing.Target {
			if err := tx.Model(&db.HabitEntry{}).
				Where("habit_id = ?", existing.ID).
				Update("is_completed", gorm.Expr("value >= ?", existing.Target)).Error; err != nil {
				return fmt.Errorf("recompute entries: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &existing, nil
}

// Delete 删除习惯并级联清除其全部打卡记录
func (s *HabitService) Delete(id uint) error {
	var habit db.Habit
	if err := s.db.First(&habit, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrHabitNotFound
		}
		return fmt.Errorf("find habit: %w", err)
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("habit_id = ?", habit.ID).Delete(&db.HabitEntry{}).Error; err != nil {
			return fmt.Errorf("delete habit entries: %w", err)
		}
		if err := tx.Delete(&habit).Error; err != nil {
			return fmt.Errorf("delete habit: %w", err)
		}
		return nil
	})
	return err
}

func (s *HabitService) validateHabitInput(input HabitInput) (HabitInput, error) {
	cleaned := HabitInput{
		Name:   strings.TrimSpace(s.sanitizer.Sanitize(input.Name)),
		Type:   strings.TrimSpace(strings.ToLower(input.Type)),
		Color:  strings.TrimSpace(s.sanitizer.Sanitize(input.Color)),
		Target: input.Target,
		Unit:   strings.TrimSpace(s.sanitizer.Sanitize(input.Unit)),
	}

	if cleaned.Name == "" {
		return HabitInput{}, fmt.Errorf("%w: habit name is required", ErrHabitInvalidName)
	}

	switch cleaned.Type {
	case db.HabitTypeSimple:
		cleaned.Target = 0
		cleaned.Unit = ""
	case db.HabitTypeMeasurable:
		if cleaned.Target <= 0 {
			return HabitInput{}, fmt.Errorf("%w: target must be greater than 0", ErrHabitInvalidTarget)
		}
	default:
		return HabitInput{}, fmt.Errorf("%w: unsupported type %s", ErrHabitInvalidType, input.Type)
	}

	if cleaned.Color == "" {
		cleaned.Color = db.DefaultHabitColor
	}

	return cleaned, nil
}
