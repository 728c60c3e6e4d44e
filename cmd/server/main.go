package main

import (
	"fmt"
	"os"
	"time"

	"github.com/habityu/internal/config"
	"github.com/habityu/internal/db"
	"github.com/habityu/internal/logging"
	"github.com/habityu/internal/router"
	"github.com/habityu/internal/service"
	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:          "habityu",
		Short:        "Habityu 习惯追踪服务",
		SilenceUsage: true,
	}

	root.AddCommand(newServeCommand(), newReportCommand())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "启动 HTTP 服务",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			logger := logging.New("habityu")

			if err := db.Init(cfg.DatabasePath); err != nil {
				return fmt.Errorf("initialize database: %w", err)
			}

			logger.Info("server starting", "addr", cfg.ListenAddr, "database", cfg.DatabasePath)

			r := router.Setup(db.DB, cfg, logger)
			if err := r.Run(cfg.ListenAddr); err != nil {
				return fmt.Errorf("run server: %w", err)
			}
			return nil
		},
	}
}

func newReportCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "不启动服务，直接生成当天的 PDF 洞察报表",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()

			if err := db.Init(cfg.DatabasePath); err != nil {
				return fmt.Errorf("initialize database: %w", err)
			}

			today := time.Now().In(time.Local)
			entries := service.NewEntryService(db.DB)
			insights := service.NewInsightsService(db.DB)

			report, err := service.NewReportService(entries, insights).BuildReport(today)
			if err != nil {
				return fmt.Errorf("build report: %w", err)
			}

			if output == "" {
				output = fmt.Sprintf("habit_insights_report_%s.pdf", today.Format("2006-01-02"))
			}

			if err := os.WriteFile(output, report, 0o644); err != nil {
				return fmt.Errorf("write report: %w", err)
			}

			cmd.Printf("report written to %s\n", output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "报表输出路径")
	return cmd
}
