package service

import (
	"slices"
	"time"

	"github.com/habityu/internal/db"
)

// 图表聚合粒度
const (
	ChartViewWeekly  = "weekly"
	ChartViewMonthly = "monthly"
)

// ChartPoint 表示图表中的单个数据点，Label 为分桶起始日期的展示文本
type ChartPoint struct {
	Label string  `json:"date"`
	Value float64 `json:"value"`
}

type periodBucket struct {
	calendarStart time.Time
	calendarEnd   time.Time
	daysCompleted int
}

// AggregateByPeriod 把区间内的打卡记录按 ISO 周或自然月分桶，
// 计算每桶的完成百分比（按裁剪后的桶长归一，保留两位小数）。
// 仅输出含有记录的桶，按时间顺序排列；空桶不补零，保持图表断点。
func AggregateByPeriod(entries []db.HabitEntry, start, end time.Time, view string) []ChartPoint {
	rangeStart := normalizeToDate(start)
	rangeEnd := normalizeToDate(end)

	type bucketKey struct {
		year  int
		month int
	}

	buckets := make(map[bucketKey]*periodBucket)

	for _, entry := range entries {
		day := normalizeToDate(entry.Date)
		if day.Before(rangeStart) || day.After(rangeEnd) {
			continue
		}

		var key bucketKey
		var calStart, calEnd time.Time

		if view == ChartViewWeekly {
			isoYear, isoWeek := day.ISOWeek()
			key = bucketKey{year: isoYear, month: isoWeek}
			calStart = isoWeekStart(isoYear, isoWeek, day.Location())
			calEnd = calStart.AddDate(0, 0, 6)
		} else {
			key = bucketKey{year: day.Year(), month: int(day.Month())}
			calStart = time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, day.Location())
			calEnd = calStart.AddDate(0, 1, -1)
		}

		bucket, ok := buckets[key]
		if !ok {
			bucket = &periodBucket{calendarStart: calStart, calendarEnd: calEnd}
			buckets[key] = bucket
		}
		if entry.IsCompleted {
			bucket.daysCompleted++
		}
	}

	ordered := make([]*periodBucket, 0, len(buckets))
	for _, bucket := range buckets {
		ordered = append(ordered, bucket)
	}
	slices.SortFunc(ordered, func(a, b *periodBucket) int {
		return a.calendarStart.Compare(b.calendarStart)
	})

	labelLayout := "Jan 02"
	if view != ChartViewWeekly {
		labelLayout = "Jan 2006"
	}

	points := make([]ChartPoint, 0, len(ordered))
	for _, bucket := range ordered {
		bucketStart := bucket.calendarStart
		if rangeStart.After(bucketStart) {
			bucketStart = rangeStart
		}
		bucketEnd := bucket.calendarEnd
		if rangeEnd.Before(bucketEnd) {
			bucketEnd = rangeEnd
		}

		totalPossible := daysBetween(bucketStart, bucketEnd) + 1
		percentage := 0.0
		if totalPossible > 0 {
			percentage = float64(bucket.daysCompleted) / float64(totalPossible) * 100
		}

		points = append(points, ChartPoint{
			Label: bucketStart.Format(labelLayout),
			Value: round2(percentage),
		})
	}

	return points
}

// isoWeekStart 返回某 ISO 年第 week 周的周一。
// 依据 ISO-8601：1 月 4 日永远落在当年第一周。
func isoWeekStart(isoYear, week int, loc *time.Location) time.Time {
	jan4 := time.Date(isoYear, time.January, 4, 0, 0, 0, 0, loc)
	weekday := int(jan4.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	firstMonday := jan4.AddDate(0, 0, -(weekday - 1))
	return firstMonday.AddDate(0, 0, (week-1)*7)
}
