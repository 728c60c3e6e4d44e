package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

const dateFormat = "2006-01-02"

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

func bindJSON(c *gin.Context, dst interface{}, message string) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		respondError(c, http.StatusBadRequest, message)
		return false
	}
	return true
}

func parseUintParam(c *gin.Context, key string) (uint, error) {
	raw := c.Param(key)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return uint(id), nil
}

// parseDateQuery 解析必填的日期查询参数，非法或缺失时已写入 400 响应
func parseDateQuery(c *gin.Context, key string) (time.Time, bool) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		respondError(c, http.StatusBadRequest, fmt.Sprintf("缺少日期参数 %s", key))
		return time.Time{}, false
	}

	t, err := time.ParseInLocation(dateFormat, raw, time.Local)
	if err != nil {
		respondError(c, http.StatusBadRequest, fmt.Sprintf("无效的日期参数 %s", key))
		return time.Time{}, false
	}

	return t, true
}

// parseDateRangeQuery 解析 start_date/end_date 并校验先后顺序
func parseDateRangeQuery(c *gin.Context) (time.Time, time.Time, bool) {
	start, ok := parseDateQuery(c, "start_date")
	if !ok {
		return time.Time{}, time.Time{}, false
	}
	end, ok := parseDateQuery(c, "end_date")
	if !ok {
		return time.Time{}, time.Time{}, false
	}
	if end.Before(start) {
		respondError(c, http.StatusBadRequest, "结束日期不能早于开始日期")
		return time.Time{}, time.Time{}, false
	}
	return start, end, true
}
