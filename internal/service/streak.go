package service

import (
	"math"
	"slices"
	"time"
)

// CalculateStreaks 根据完成日期集合计算当前连胜与最长连胜。
// 日期先去重升序，再切分为连续自然日的极大区段；longest 取最长区段长度，
// current 取结束于 today 或 today-1 的区段长度，今天尚未打卡时昨天结束的
// 连胜仍视为存活。
func CalculateStreaks(dates []time.Time, today time.Time) (current, longest int) {
	if len(dates) == 0 {
		return 0, 0
	}

	days := make([]time.Time, 0, len(dates))
	seen := make(map[string]struct{}, len(dates))
	for _, d := range dates {
		day := normalizeToDate(d)
		key := day.Format(time.DateOnly)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		days = append(days, day)
	}

	slices.SortFunc(days, func(a, b time.Time) int {
		return a.Compare(b)
	})

	anchor := normalizeToDate(today)
	yesterday := anchor.AddDate(0, 0, -1)

	runLength := 1
	for i := 1; i <= len(days); i++ {
		endOfRun := i == len(days) || daysBetween(days[i-1], days[i]) > 1

		if !endOfRun {
			runLength++
			continue
		}

		if runLength > longest {
			longest = runLength
		}
		runEnd := days[i-1]
		if runEnd.Equal(anchor) || runEnd.Equal(yesterday) {
			current = runLength
		}
		runLength = 1
	}

	return current, longest
}

func normalizeToDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// daysBetween 按自然日计算 a 到 b 的间隔，两个入参都应已归一到零点。
// 夏令时切换当天只有 23/25 小时，四舍五入后仍得到正确的自然日差。
func daysBetween(a, b time.Time) int {
	return int(math.Round(b.Sub(a).Hours() / 24))
}
