package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/habityu/internal/db"
	"github.com/habityu/internal/service"
)

type habitPayload struct {
	Name   string  `json:"name"`
	Type   string  `json:"type"`
	Color  string  `json:"color"`
	Target float64 `json:"target"`
	Unit   string  `json:"unit"`
}

// CreateHabit 创建习惯
func (a *API) CreateHabit(c *gin.Context) {
	var payload habitPayload
	if !bindJSON(c, &payload, "请求参数不合法") {
		return
	}

	habit, err := a.habits.Create(service.HabitInput{
		Name:   payload.Name,
		Type:   payload.Type,
		Color:  payload.Color,
		Target: payload.Target,
		Unit:   payload.Unit,
	})
	if err != nil {
		handleHabitError(c, err)
		return
	}

	c.JSON(http.StatusOK, habitToPayload(*habit))
}

// ListHabits 返回全部习惯
func (a *API) ListHabits(c *gin.Context) {
	habits, err := a.habits.List()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "获取习惯列表失败")
		return
	}

	items := make([]gin.H, 0, len(habits))
	for _, habit := range habits {
		items = append(items, habitToPayload(habit))
	}

	c.JSON(http.StatusOK, items)
}

// GetHabitGrid 返回全部习惯及区间内的打卡记录，供前端网格展示
func (a *API) GetHabitGrid(c *gin.Context) {
	start, end, ok := parseDateRangeQuery(c)
	if !ok {
		return
	}

	rows, err := a.entries.TableData(start, end)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "获取打卡网格数据失败")
		return
	}

	items := make([]gin.H, 0, len(rows))
	for _, row := range rows {
		item := habitToPayload(row.Habit)
		entries := make([]gin.H, 0, len(row.Entries))
		for _, entry := range row.Entries {
			entries = append(entries, entryToPayload(entry))
		}
		item["entries"] = entries
		items = append(items, item)
	}

	c.JSON(http.StatusOK, items)
}

// UpdateHabit 更新习惯，目标值变化时由服务层同步重算打卡完成标记
func (a *API) UpdateHabit(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的习惯ID")
		return
	}

	var payload habitPayload
	if !bindJSON(c, &payload, "请求参数不合法") {
		return
	}

	habit, err := a.habits.Update(id, service.HabitInput{
		Name:   payload.Name,
		Type:   payload.Type,
		Color:  payload.Color,
		Target: payload.Target,
		Unit:   payload.Unit,
	})
	if err != nil {
		handleHabitError(c, err)
		return
	}

	c.JSON(http.StatusOK, habitToPayload(*habit))
}

// DeleteHabit 删除习惯并级联删除其打卡记录
func (a *API) DeleteHabit(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的习惯ID")
		return
	}

	if err := a.habits.Delete(id); err != nil {
		handleHabitError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func habitToPayload(habit db.Habit) gin.H {
	item := gin.H{
		"id":    habit.ID,
		"name":  habit.Name,
		"type":  habit.Type,
		"color": habit.Color,
	}

	if habit.Type == db.HabitTypeMeasurable {
		item["target"] = habit.Target
		item["unit"] = habit.Unit
	} else {
		item["target"] = nil
		item["unit"] = nil
	}

	return item
}

func entryToPayload(entry db.HabitEntry) gin.H {
	return gin.H{
		"id":           entry.ID,
		"habit_id":     entry.HabitID,
		"date":         entry.Date.Format(dateFormat),
		"value":        entry.Value,
		"is_completed": entry.IsCompleted,
	}
}

func handleHabitError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrHabitNotFound):
		respondError(c, http.StatusNotFound, "习惯不存在")
	case errors.Is(err, service.ErrHabitInvalidType):
		respondError(c, http.StatusBadRequest, "习惯类型无效")
	case errors.Is(err, service.ErrHabitInvalidTarget):
		respondError(c, http.StatusBadRequest, "目标值必须大于 0")
	case errors.Is(err, service.ErrHabitInvalidName):
		respondError(c, http.StatusBadRequest, "习惯名称不能为空")
	case errors.Is(err, service.ErrInvalidValue):
		respondError(c, http.StatusBadRequest, "打卡值不合法")
	default:
		respondError(c, http.StatusInternalServerError, "操作失败")
	}
}
