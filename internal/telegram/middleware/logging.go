package middleware

import (
	"context"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// LoggingMiddleware logs all incoming updates and tags the request logger
// with the update origin.
type LoggingMiddleware struct {
	logger *zap.Logger
}

// NewLoggingMiddleware creates a new logging middleware
func NewLoggingMiddleware(logger *zap.Logger) *LoggingMiddleware {
	return &LoggingMiddleware{
		logger: logger,
	}
}

// Handle logs the update
func (m *LoggingMiddleware) Handle(ctx context.Context, update tgbotapi.Update, next Next) {
	start := time.Now()
	userID, chatID, _ := Origin(update)

	fields := []zap.Field{
		zap.Int("update_id", update.UpdateID),
		zap.Int64("user_id", userID),
		zap.Int64("chat_id", chatID),
		zap.String("update_type", Kind(update)),
	}
	ctx = ctxzap.ToContext(ctx, m.logger.With(fields...))

	ctxzap.Debug(ctx, "telegram update received")

	next(ctx, update)

	ctxzap.Info(ctx, "telegram update processed",
		zap.Duration("duration", time.Since(start)),
	)
}
