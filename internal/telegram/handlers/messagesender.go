package handlers

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/EdnondDantes/golosStroyki/internal/pkg/retry"
	"github.com/EdnondDantes/golosStroyki/internal/pkg/scheduler"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// Transport errors that only mean the message is already gone.
var ignoredDeleteErrors = []string{
	"message to delete not found",
	"message can't be deleted",
}

// MessageSender provides centralized message sending functionality
type MessageSender struct {
	api       API
	scheduler *scheduler.Scheduler
	channelID int64
	retry     *retry.RetryConfig
}

// NewMessageSender creates a new MessageSender. channelID is never cleaned up
// after.
func NewMessageSender(api API, sched *scheduler.Scheduler, channelID int64) *MessageSender {
	return &MessageSender{
		api:       api,
		scheduler: sched,
		channelID: channelID,
		retry:     retry.DefaultRetryConfig(),
	}
}

func htmlMessage(chatID int64, text string, markup any) tgbotapi.MessageConfig {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true
	if markup != nil {
		msg.ReplyMarkup = markup
	}
	return msg
}

// Send sends an HTML message and returns its id.
func (s *MessageSender) Send(ctx context.Context, chatID int64, text string, markup any) (int, error) {
	sent, err := s.api.Send(htmlMessage(chatID, text, markup))
	if err != nil {
		ctxzap.Error(ctx, "failed to send message",
			zap.Error(err),
			zap.Int64("chat_id", chatID),
		)
		return 0, err
	}
	return sent.MessageID, nil
}

// SendCritical retries the send on flood control and transient failures.
func (s *MessageSender) SendCritical(ctx context.Context, chatID int64, text string, markup any) (int, error) {
	sent, err := sendWithRetry(ctx, s.api, s.retry, htmlMessage(chatID, text, markup))
	if err != nil {
		return 0, err
	}
	return sent.MessageID, nil
}

// SendPhoto sends a photo with an HTML caption.
func (s *MessageSender) SendPhoto(ctx context.Context, chatID int64, fileID, caption string, markup any) (int, error) {
	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileID(fileID))
	photo.Caption = caption
	photo.ParseMode = tgbotapi.ModeHTML
	if markup != nil {
		photo.ReplyMarkup = markup
	}

	sent, err := s.api.Send(photo)
	if err != nil {
		ctxzap.Error(ctx, "failed to send photo",
			zap.Error(err),
			zap.Int64("chat_id", chatID),
		)
		return 0, err
	}
	return sent.MessageID, nil
}

// Notice sends a message that removes itself after ttl. Pending removals of
// the user run early when their flow ends.
func (s *MessageSender) Notice(ctx context.Context, userID, chatID int64, text string, ttl time.Duration) {
	s.NoticeWithMarkup(ctx, userID, chatID, text, nil, ttl)
}

func (s *MessageSender) NoticeWithMarkup(ctx context.Context, userID, chatID int64, text string, markup any, ttl time.Duration) {
	messageID, err := s.Send(ctx, chatID, text, markup)
	if err != nil || ttl <= 0 || s.scheduler == nil {
		return
	}

	s.scheduler.Schedule(userID, ttl, func(ctx context.Context) {
		s.Delete(ctx, chatID, messageID)
	})
}

// Flush runs the user's pending notice removals now.
func (s *MessageSender) Flush(userID int64) {
	if s.scheduler != nil {
		s.scheduler.Flush(userID)
	}
}

func (s *MessageSender) canDelete(chatID int64) bool {
	return chatID > 0 && chatID != s.channelID
}

// Delete removes a message from a private chat. Failures are logged only.
func (s *MessageSender) Delete(ctx context.Context, chatID int64, messageID int) {
	if messageID == 0 || !s.canDelete(chatID) {
		return
	}

	_, err := s.api.Request(tgbotapi.NewDeleteMessage(chatID, messageID))
	switch {
	case err == nil:
	case isIgnoredDeleteError(err):
		ctxzap.Debug(ctx, "message already gone",
			zap.Int64("chat_id", chatID),
			zap.Int("message_id", messageID),
		)
	default:
		ctxzap.Warn(ctx, "failed to delete message",
			zap.Error(err),
			zap.Int64("chat_id", chatID),
			zap.Int("message_id", messageID),
		)
	}
}

func isIgnoredDeleteError(err error) bool {
	text := err.Error()
	var apiErr *tgbotapi.Error
	if errors.As(err, &apiErr) {
		text = apiErr.Message
	}
	text = strings.ToLower(text)

	for _, ignored := range ignoredDeleteErrors {
		if strings.Contains(text, ignored) {
			return true
		}
	}
	return false
}

// AnswerCallback stops the button spinner, optionally with an alert.
func (s *MessageSender) AnswerCallback(ctx context.Context, callbackID, text string, alert bool) {
	if callbackID == "" {
		return
	}

	callback := tgbotapi.NewCallback(callbackID, text)
	if alert {
		callback = tgbotapi.NewCallbackWithAlert(callbackID, text)
	}
	if _, err := s.api.Request(callback); err != nil {
		ctxzap.Warn(ctx, "failed to answer callback",
			zap.Error(err),
			zap.String("callback_id", callbackID),
		)
	}
}
