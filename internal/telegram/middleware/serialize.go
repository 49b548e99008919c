package middleware

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Locker hands out per-user critical sections.
type Locker interface {
	Lock(userID int64) (unlock func())
}

// SerializeMiddleware processes updates of one user strictly one at a time.
// Updates of different users are not ordered against each other.
type SerializeMiddleware struct {
	locker Locker
}

func NewSerializeMiddleware(locker Locker) *SerializeMiddleware {
	return &SerializeMiddleware{locker: locker}
}

func (m *SerializeMiddleware) Handle(ctx context.Context, update tgbotapi.Update, next Next) {
	userID, _, ok := Origin(update)
	if !ok {
		next(ctx, update)
		return
	}

	unlock := m.locker.Lock(userID)
	defer unlock()

	next(ctx, update)
}
