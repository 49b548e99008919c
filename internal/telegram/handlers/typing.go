package handlers

import (
	"context"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// typingInterval keeps the indicator alive; Telegram drops it after 5 seconds.
const typingInterval = 4 * time.Second

// TypingNotifier sends periodic chat actions while a slow call is running
type TypingNotifier struct {
	api    API
	chatID int64
	action string
	done   chan struct{}
	once   sync.Once
}

// StartTyping shows action in chat until Stop is called or ctx is done.
func StartTyping(ctx context.Context, api API, chatID int64, action string) *TypingNotifier {
	t := &TypingNotifier{
		api:    api,
		chatID: chatID,
		action: action,
		done:   make(chan struct{}),
	}

	t.send(ctx)
	go t.loop(ctx)

	return t
}

func (t *TypingNotifier) loop(ctx context.Context) {
	ticker := time.NewTicker(typingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			t.send(ctx)
		case <-t.done:
			return
		case <-ctx.Done():
			return
		}
	}
}

func (t *TypingNotifier) send(ctx context.Context) {
	if _, err := t.api.Request(tgbotapi.NewChatAction(t.chatID, t.action)); err != nil {
		ctxzap.Debug(ctx, "failed to send chat action",
			zap.Error(err),
			zap.Int64("chat_id", t.chatID),
		)
	}
}

// Stop stops sending chat actions. It is safe to call more than once.
func (t *TypingNotifier) Stop() {
	t.once.Do(func() {
		close(t.done)
	})
}
