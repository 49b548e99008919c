package handlers

import (
	"context"
	"errors"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// memberStatuses pass the subscription gate.
var memberStatuses = map[string]bool{
	"member":        true,
	"administrator": true,
	"creator":       true,
}

// SubscriptionChecker tells whether a user has joined the community channel.
type SubscriptionChecker struct {
	api      API
	chatID   int64
	username string
	required bool
}

func NewSubscriptionChecker(api API, chatID int64, username string, required bool) *SubscriptionChecker {
	return &SubscriptionChecker{
		api:      api,
		chatID:   chatID,
		username: username,
		required: required,
	}
}

// IsSubscribed fails closed on lookup errors, except when the bot lacks the
// admin rights needed to look members up at all.
func (c *SubscriptionChecker) IsSubscribed(ctx context.Context, userID int64) bool {
	if !c.required || (c.chatID == 0 && c.username == "") {
		return true
	}

	member, err := c.api.GetChatMember(tgbotapi.GetChatMemberConfig{
		ChatConfigWithUser: tgbotapi.ChatConfigWithUser{
			ChatID:             c.chatID,
			SuperGroupUsername: c.username,
			UserID:             userID,
		},
	})
	if err != nil {
		if isAdminRequired(err) {
			ctxzap.Warn(ctx, "bot is not a channel admin, subscription check skipped", zap.Error(err))
			return true
		}
		ctxzap.Error(ctx, "failed to check subscription", zap.Error(err))
		return false
	}

	subscribed := memberStatuses[member.Status]
	ctxzap.Debug(ctx, "subscription checked",
		zap.String("status", member.Status),
		zap.Bool("subscribed", subscribed),
	)
	return subscribed
}

func isAdminRequired(err error) bool {
	var apiErr *tgbotapi.Error
	if errors.As(err, &apiErr) {
		return strings.Contains(apiErr.Message, "CHAT_ADMIN_REQUIRED")
	}
	return strings.Contains(err.Error(), "CHAT_ADMIN_REQUIRED")
}
