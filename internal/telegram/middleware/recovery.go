package middleware

import (
	"context"
	"runtime/debug"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const msgPanic = "❌ Произошла ошибка. Попробуй ещё раз или нажми /start"

// RecoveryMiddleware recovers from panics
type RecoveryMiddleware struct {
	sender Sender
}

// NewRecoveryMiddleware creates a new recovery middleware
func NewRecoveryMiddleware(sender Sender) *RecoveryMiddleware {
	return &RecoveryMiddleware{
		sender: sender,
	}
}

// Handle recovers from panics
func (m *RecoveryMiddleware) Handle(ctx context.Context, update tgbotapi.Update, next Next) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}

		ctxzap.Error(ctx, "panic recovered in telegram handler",
			zap.Any("panic", r),
			zap.String("stack", string(debug.Stack())),
		)

		_, chatID, _ := Origin(update)
		if chatID == 0 {
			return
		}
		if _, err := m.sender.Send(tgbotapi.NewMessage(chatID, msgPanic)); err != nil {
			ctxzap.Error(ctx, "failed to send error message", zap.Error(err))
		}
	}()

	next(ctx, update)
}
