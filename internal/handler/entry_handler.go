package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/habityu/internal/service"
)

type entryPayload struct {
	HabitID uint    `json:"habit_id"`
	Date    string  `json:"date"`
	Value   float64 `json:"value"`
}

// LogEntry 为某习惯在某天记录一个值。
// 值为 0 表示清除当天记录，响应为 null；其余情况返回落库后的记录。
func (a *API) LogEntry(c *gin.Context) {
	var payload entryPayload
	if !bindJSON(c, &payload, "请求参数不合法") {
		return
	}

	if strings.TrimSpace(payload.Date) == "" {
		respondError(c, http.StatusBadRequest, "请选择打卡日期")
		return
	}

	logDate, err := time.ParseInLocation(dateFormat, payload.Date, time.Local)
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的打卡日期")
		return
	}

	entry, err := a.entries.Log(service.EntryInput{
		HabitID: payload.HabitID,
		Date:    logDate,
		Value:   payload.Value,
	})
	if err != nil {
		handleHabitError(c, err)
		return
	}

	if entry == nil {
		c.JSON(http.StatusOK, nil)
		return
	}

	c.JSON(http.StatusOK, entryToPayload(*entry))
}
