package logging

import (
	"log/slog"
	"os"
)

// New 返回输出 JSON 的 slog Logger，并附带服务名字段。
func New(service string) *slog.Logger {
	handler := slog.NewJSONHandler(os.Stdout, nil)
	return slog.New(handler).With(slog.String("service", service))
}

// WithRequestID 返回携带请求 ID 字段的 Logger。
func WithRequestID(logger *slog.Logger, requestID string) *slog.Logger {
	return logger.With(slog.String("request_id", requestID))
}
