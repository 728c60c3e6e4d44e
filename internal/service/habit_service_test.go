package service

import (
	"errors"
	"testing"

	"github.com/habityu/internal/db"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) func() {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := gdb.AutoMigrate(&db.Habit{}, &db.HabitEntry{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	db.DB = gdb

	return func() {
		sqlDB, err := db.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}
}

func TestHabitServiceCreateAndList(t *testing.T) {
	cleanup := setupTestDB(t)
	defer cleanup()

	svc := NewHabitService(db.DB)

	habit, err := svc.Create(HabitInput{Name: "晨跑", Type: "measurable", Target: 5, Unit: "km"})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if habit.ID == 0 {
		t.Fatal("expected habit to have ID")
	}
	if habit.Color != db.DefaultHabitColor {
		t.Fatalf("expected default color, got %s", habit.Color)
	}

	if _, err := svc.Create(HabitInput{Name: "冥想", Type: "simple", Color: "#22c55e"}); err != nil {
		t.Fatalf("Create simple returned error: %v", err)
	}

	habits, err := svc.List()
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(habits) != 2 {
		t.Fatalf("expected 2 habits, got %d", len(habits))
	}
}

func TestHabitServiceValidation(t *testing.T) {
	cleanup := setupTestDB(t)
	defer cleanup()

	svc := NewHabitService(db.DB)

	if _, err := svc.Create(HabitInput{Name: "阅读", Type: "yearly"}); !errors.Is(err, ErrHabitInvalidType) {
		t.Fatalf("expected ErrHabitInvalidType, got %v", err)
	}

	// measurable 必须携带正目标值
	if _, err := svc.Create(HabitInput{Name: "喝水", Type: "measurable", Target: 0}); !errors.Is(err, ErrHabitInvalidTarget) {
		t.Fatalf("expected ErrHabitInvalidTarget, got %v", err)
	}

	if _, err := svc.Create(HabitInput{Name: "   ", Type: "simple"}); !errors.Is(err, ErrHabitInvalidName) {
		t.Fatalf("expected ErrHabitInvalidName, got %v", err)
	}

	// simple 习惯不携带目标/单位语义
	habit, err := svc.Create(HabitInput{Name: "早睡", Type: "simple", Target: 8, Unit: "h"})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if habit.Target != 0 || habit.Unit != "" {
		t.Fatalf("expected target/unit cleared for simple habit, got (%v, %q)", habit.Target, habit.Unit)
	}
}

func TestHabitServiceSanitizesInput(t *testing.T) {
	cleanup := setupTestDB(t)
	defer cleanup()

	svc := NewHabitService(db.DB)

	habit, err := svc.Create(HabitInput{Name: "<script>alert(1)</script>跑步", Type: "simple"})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if habit.Name != "跑步" {
		t.Fatalf("expected markup stripped, got %q", habit.Name)
	}
}

func TestHabitServiceUpdateRecomputesEntries(t *testing.T) {
	cleanup := setupTestDB(t)
	defer cleanup()

	habitSvc := NewHabitService(db.DB)
	entrySvc := NewEntryService(db.DB)

	habit, err := habitSvc.Create(HabitInput{Name: "喝水", Type: "measurable", Target: 10, Unit: "杯"})
	if err != nil {
		t.Fatalf("failed to create habit: %v", err)
	}

	values := []float64{4, 6, 10}
	for i, value := range values {
		date := day(t, "2024-05-01").AddDate(0, 0, i)
		if _, err := entrySvc.Log(EntryInput{HabitID: habit.ID, Date: date, Value: value}); err != nil {
			t.Fatalf("Log returned error: %v", err)
		}
	}

	// 目标从 10 降到 5：原先 6 和 10 达标，4 仍不达标
	if _, err := habitSvc.Update(habit.ID, HabitInput{Name: "喝水", Target: 5, Unit: "杯"}); err != nil {
		t.Fatalf("Update returned error: %v", err)
	}

	var entries []db.HabitEntry
	if err := db.DB.Where("habit_id = ?", habit.ID).Order("date ASC").Find(&entries).Error; err != nil {
		t.Fatalf("failed to list entries: %v", err)
	}

	expected := []bool{false, true, true}
	for i, entry := range entries {
		if entry.IsCompleted != expected[i] {
			t.Fatalf("entry %d: expected is_completed=%v, got %v", i, expected[i], entry.IsCompleted)
		}
	}
}

func TestHabitServiceUpdateKeepsType(t *testing.T) {
	cleanup := setupTestDB(t)
	defer cleanup()

	svc := NewHabitService(db.DB)
	habit, err := svc.Create(HabitInput{Name: "冥想", Type: "simple"})
	if err != nil {
		t.Fatalf("failed to create habit: %v", err)
	}

	updated, err := svc.Update(habit.ID, HabitInput{Name: "晚间冥想", Type: "measurable", Color: "#f59e0b", Target: 20})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}

	if updated.Type != db.HabitTypeSimple {
		t.Fatalf("expected type unchanged, got %s", updated.Type)
	}
	if updated.Name != "晚间冥想" || updated.Color != "#f59e0b" {
		t.Fatalf("expected name/color updated, got (%s, %s)", updated.Name, updated.Color)
	}
	if updated.Target != 0 {
		t.Fatalf("expected simple habit to keep zero target, got %v", updated.Target)
	}
}

func TestHabitServiceDeleteCascades(t *testing.T) {
	cleanup := setupTestDB(t)
	defer cleanup()

	habitSvc := NewHabitService(db.DB)
	entrySvc := NewEntryService(db.DB)

	habit, err := habitSvc.Create(HabitInput{Name: "写日记", Type: "simple"})
	if err != nil {
		t.Fatalf("failed to create habit: %v", err)
	}

	if _, err := entrySvc.Log(EntryInput{HabitID: habit.ID, Date: day(t, "2024-05-01"), Value: 1}); err != nil {
		t.Fatalf("Log returned error: %v", err)
	}

	if err := habitSvc.Delete(habit.ID); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}

	if _, err := habitSvc.Get(habit.ID); !errors.Is(err, ErrHabitNotFound) {
		t.Fatalf("expected ErrHabitNotFound, got %v", err)
	}

	var count int64
	if err := db.DB.Model(&db.HabitEntry{}).Where("habit_id = ?", habit.ID).Count(&count).Error; err != nil {
		t.Fatalf("failed to count entries: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected entries cascaded, got %d remaining", count)
	}
}
