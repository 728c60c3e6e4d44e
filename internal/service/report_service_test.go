package service

import (
	"bytes"
	"testing"

	"github.com/habityu/internal/db"
)

func TestBuildReport(t *testing.T) {
	cleanup := setupTestDB(t)
	defer cleanup()

	habitSvc := NewHabitService(db.DB)
	entrySvc := NewEntryService(db.DB)

	habit, err := habitSvc.Create(HabitInput{Name: "Morning Run", Type: "measurable", Target: 5, Unit: "km"})
	if err != nil {
		t.Fatalf("failed to create habit: %v", err)
	}

	today := day(t, "2024-05-10")
	for i := 0; i < 3; i++ {
		if _, err := entrySvc.Log(EntryInput{HabitID: habit.ID, Date: today.AddDate(0, 0, -i), Value: 5}); err != nil {
			t.Fatalf("Log returned error: %v", err)
		}
	}

	svc := NewReportService(entrySvc, NewInsightsService(db.DB))

	report, err := svc.BuildReport(today)
	if err != nil {
		t.Fatalf("BuildReport returned error: %v", err)
	}

	if !bytes.HasPrefix(report, []byte("%PDF")) {
		t.Fatal("expected PDF magic header")
	}
	if len(report) < 1000 {
		t.Fatalf("report suspiciously small: %d bytes", len(report))
	}
}

func TestBuildReportWithoutHabits(t *testing.T) {
	cleanup := setupTestDB(t)
	defer cleanup()

	svc := NewReportService(NewEntryService(db.DB), NewInsightsService(db.DB))

	report, err := svc.BuildReport(day(t, "2024-05-10"))
	if err != nil {
		t.Fatalf("BuildReport returned error: %v", err)
	}
	if !bytes.HasPrefix(report, []byte("%PDF")) {
		t.Fatal("expected PDF magic header")
	}
}

func TestFormatReportDate(t *testing.T) {
	cases := map[string]string{
		"2024-05-01": "1st May 2024",
		"2024-05-02": "2nd May 2024",
		"2024-05-03": "3rd May 2024",
		"2024-05-04": "4th May 2024",
		"2024-05-11": "11th May 2024",
		"2024-05-12": "12th May 2024",
		"2024-05-13": "13th May 2024",
		"2024-05-21": "21st May 2024",
		"2024-05-31": "31st May 2024",
	}

	for date, expected := range cases {
		if got := formatReportDate(day(t, date)); got != expected {
			t.Fatalf("formatReportDate(%s): expected %q, got %q", date, expected, got)
		}
	}
}
