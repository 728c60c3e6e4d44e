package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// ExportPDF 生成并下载习惯洞察 PDF 报表
func (a *API) ExportPDF(c *gin.Context) {
	today := time.Now().In(time.Local)

	report, err := a.reports.BuildReport(today)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "生成报表失败")
		return
	}

	filename := fmt.Sprintf("habit_insights_report_%s.pdf", today.Format(dateFormat))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, "application/pdf", report)
}
