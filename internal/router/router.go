package router

import (
	"log/slog"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/habityu/internal/config"
	"github.com/habityu/internal/handler"
	"github.com/habityu/internal/logging"
	"gorm.io/gorm"
)

// Setup 配置 Gin 引擎和路由
func Setup(gdb *gorm.DB, cfg config.AppConfig, logger *slog.Logger) *gin.Engine {
	gin.SetMode(cfg.GinMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestLogger(logger))
	r.Use(corsMiddleware(cfg))

	api := handler.NewAPI(gdb, cfg, logger)

	r.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "healthy", "message": "Habityu API is running."})
	})

	standard := r.Group("/api", handler.RateLimitStandard())
	{
		standard.POST("/habits", api.CreateHabit)
		standard.GET("/habits", api.ListHabits)
		standard.GET("/habits/grid", api.GetHabitGrid)
		standard.PUT("/habits/:id", api.UpdateHabit)
		standard.DELETE("/habits/:id", api.DeleteHabit)

		standard.POST("/entry", api.LogEntry)

		standard.GET("/insights/overall/week", api.GetSidebarWeekInsights)
		standard.GET("/insights/overall/calendar", api.GetSidebarCalendarInsights)
		standard.GET("/insights/:id/stats", api.GetHabitStats)
		standard.GET("/insights/:id/chart", api.GetHabitChart)
		standard.GET("/insights/:id/heatmap", api.GetHabitHeatmap)
	}

	strict := r.Group("/api", handler.RateLimitStrict())
	{
		strict.GET("/quote", api.GetQuote)
		strict.GET("/export/pdf", api.ExportPDF)
	}

	return r
}

// requestLogger 为每个请求生成/透传请求 ID 并输出结构化访问日志
func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Writer.Header().Set("X-Request-ID", requestID)

		start := time.Now()
		c.Next()

		logging.WithRequestID(logger, requestID).Info("request",
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Int("status", c.Writer.Status()),
			slog.Duration("duration", time.Since(start)),
		)
	}
}

func corsMiddleware(cfg config.AppConfig) gin.HandlerFunc {
	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "X-Request-ID"},
		MaxAge:           12 * time.Hour,
		AllowCredentials: true,
	}

	if len(cfg.CORSOrigins) == 1 && cfg.CORSOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
		corsCfg.AllowCredentials = false
	} else {
		corsCfg.AllowOrigins = cfg.CORSOrigins
	}

	return cors.New(corsCfg)
}
