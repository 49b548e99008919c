package middleware

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Next continues the middleware chain.
type Next func(ctx context.Context, update tgbotapi.Update)

// Middleware wraps update handling.
type Middleware interface {
	Handle(ctx context.Context, update tgbotapi.Update, next Next)
}

// Sender is the part of the bot API middlewares talk back through.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// Chain composes middlewares around a final handler, first one outermost.
func Chain(final Next, middlewares ...Middleware) Next {
	next := final
	for i := len(middlewares) - 1; i >= 0; i-- {
		mw, inner := middlewares[i], next
		next = func(ctx context.Context, update tgbotapi.Update) {
			mw.Handle(ctx, update, inner)
		}
	}
	return next
}

// Origin extracts the user and chat an update comes from.
func Origin(update tgbotapi.Update) (userID, chatID int64, ok bool) {
	switch {
	case update.Message != nil && update.Message.From != nil:
		return update.Message.From.ID, update.Message.Chat.ID, true
	case update.CallbackQuery != nil && update.CallbackQuery.From != nil:
		if update.CallbackQuery.Message != nil {
			chatID = update.CallbackQuery.Message.Chat.ID
		}
		return update.CallbackQuery.From.ID, chatID, true
	default:
		return 0, 0, false
	}
}

// Kind names the update type for logs.
func Kind(update tgbotapi.Update) string {
	switch {
	case update.CallbackQuery != nil:
		return "callback"
	case update.Message == nil:
		return "other"
	case update.Message.IsCommand():
		return "command"
	case update.Message.Voice != nil:
		return "voice"
	case update.Message.Contact != nil:
		return "contact"
	case len(update.Message.Photo) > 0:
		return "photo"
	case update.Message.Text != "":
		return "text"
	default:
		return "other"
	}
}
