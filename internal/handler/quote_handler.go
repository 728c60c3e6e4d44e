package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetQuote 返回一条与当前习惯相关的激励名言。
// 上游失败时服务层已降级为固定默认名言，此处永远返回 200。
func (a *API) GetQuote(c *gin.Context) {
	c.JSON(http.StatusOK, a.quotes.Fetch(c.Request.Context()))
}
