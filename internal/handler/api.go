package handler

import (
	"log/slog"

	"github.com/habityu/internal/config"
	"github.com/habityu/internal/service"
	"gorm.io/gorm"
)

// API 聚合各 HTTP handler 共享的服务依赖
type API struct {
	db       *gorm.DB
	habits   *service.HabitService
	entries  *service.EntryService
	insights *service.InsightsService
	quotes   *service.QuoteService
	reports  *service.ReportService
	logger   *slog.Logger
}

// NewAPI 构造 API 并完成各服务的装配
func NewAPI(gdb *gorm.DB, cfg config.AppConfig, logger *slog.Logger) *API {
	habitService := service.NewHabitService(gdb)
	entryService := service.NewEntryService(gdb)
	insightsService := service.NewInsightsService(gdb)

	return &API{
		db:       gdb,
		habits:   habitService,
		entries:  entryService,
		insights: insightsService,
		quotes:   service.NewQuoteService(habitService, cfg.OpenRouterAPIKey, cfg.OpenRouterModel, cfg.OpenRouterURL),
		reports:  service.NewReportService(entryService, insightsService),
		logger:   logger,
	}
}

// DB 暴露底层 gorm 实例，供测试装配使用
func (a *API) DB() *gorm.DB {
	return a.db
}
