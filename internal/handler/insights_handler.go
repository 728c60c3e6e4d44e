package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/habityu/internal/service"
)

const defaultChartView = service.ChartViewWeekly

// GetSidebarWeekInsights 返回整体连胜与本周逐日状态
func (a *API) GetSidebarWeekInsights(c *gin.Context) {
	today, ok := parseDateQuery(c, "today_date")
	if !ok {
		return
	}

	insights, err := a.insights.SidebarWeekInsights(today)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "获取周视图数据失败")
		return
	}

	c.JSON(http.StatusOK, insights)
}

// GetSidebarCalendarInsights 返回区间内逐日的整体完成百分比
func (a *API) GetSidebarCalendarInsights(c *gin.Context) {
	start, end, ok := parseDateRangeQuery(c)
	if !ok {
		return
	}

	stats, err := a.insights.SidebarCalendarInsights(start, end)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "获取日历视图数据失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{"calendar_stats": stats})
}

// GetHabitStats 返回单个习惯的连胜与累计完成次数
func (a *API) GetHabitStats(c *gin.Context) {
	habitID, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的习惯ID")
		return
	}

	today, ok := parseDateQuery(c, "today_date")
	if !ok {
		return
	}

	stats, err := a.insights.HabitStats(habitID, today)
	if err != nil {
		handleHabitError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// GetHabitChart 返回单个习惯按周/按月聚合的完成率曲线
func (a *API) GetHabitChart(c *gin.Context) {
	habitID, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的习惯ID")
		return
	}

	start, end, ok := parseDateRangeQuery(c)
	if !ok {
		return
	}

	view := c.DefaultQuery("chart_view", defaultChartView)

	chart, err := a.insights.HabitChart(habitID, view, start, end)
	if err != nil {
		handleHabitError(c, err)
		return
	}

	c.JSON(http.StatusOK, chart)
}

// GetHabitHeatmap 返回单个习惯在区间内逐日的完成百分比
func (a *API) GetHabitHeatmap(c *gin.Context) {
	habitID, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的习惯ID")
		return
	}

	start, end, ok := parseDateRangeQuery(c)
	if !ok {
		return
	}

	points, err := a.insights.HabitHeatmap(habitID, start, end)
	if err != nil {
		handleHabitError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"heatmap_data": points})
}
