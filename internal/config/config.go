package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// AppConfig 汇总运行服务所需的基础配置。
type AppConfig struct {
	ListenAddr       string
	Port             string
	DatabasePath     string
	GinMode          string
	OpenRouterAPIKey string
	OpenRouterModel  string
	OpenRouterURL    string
	CORSOrigins      []string
}

// Load 从环境变量读取应用配置，并为缺失项提供安全的默认值。
// 工作目录存在 .env 时先行加载，不存在则静默忽略。
func Load() AppConfig {
	_ = godotenv.Load()

	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8000"
	}

	listenAddr := strings.TrimSpace(os.Getenv("LISTEN_ADDR"))
	if listenAddr == "" {
		listenAddr = fmt.Sprintf(":%s", port)
	}

	databasePath := strings.TrimSpace(os.Getenv("DATABASE_PATH"))
	if databasePath == "" {
		databasePath = "habit-tracker.db"
	}

	ginMode := strings.TrimSpace(os.Getenv("GIN_MODE"))
	if ginMode == "" {
		ginMode = "release"
	}

	openRouterURL := strings.TrimSpace(os.Getenv("OPENROUTER_URL"))
	if openRouterURL == "" {
		openRouterURL = "https://openrouter.ai/api/v1"
	}

	var origins []string
	for _, raw := range strings.Split(os.Getenv("CORS_ORIGINS"), ",") {
		if origin := strings.TrimSpace(raw); origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	return AppConfig{
		ListenAddr:       listenAddr,
		Port:             port,
		DatabasePath:     databasePath,
		GinMode:          ginMode,
		OpenRouterAPIKey: strings.TrimSpace(os.Getenv("OPENROUTER_API_KEY")),
		OpenRouterModel:  strings.TrimSpace(os.Getenv("OPENROUTER_MODEL")),
		OpenRouterURL:    openRouterURL,
		CORSOrigins:      origins,
	}
}
