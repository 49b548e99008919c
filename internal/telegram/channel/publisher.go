package channel

import (
	"context"
	"fmt"

	"github.com/EdnondDantes/golosStroyki/internal/entity"
	"github.com/EdnondDantes/golosStroyki/internal/form"
	"github.com/EdnondDantes/golosStroyki/internal/telegram/render"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Publisher posts records to the community channel and tells submitters
// about moderation decisions.
type Publisher struct {
	api         Sender
	chatID      int64
	username    string
	botUsername string
}

// NewPublisher targets either a numeric channel id or an @username.
func NewPublisher(api Sender, chatID int64, username, botUsername string) *Publisher {
	return &Publisher{
		api:         api,
		chatID:      chatID,
		username:    username,
		botUsername: botUsername,
	}
}

// DeepLink opens the full record card in the bot.
func DeepLink(botUsername string, variant entity.FormVariant, id uuid.UUID) string {
	if botUsername == "" {
		return ""
	}
	return fmt.Sprintf("https://t.me/%s?start=%s", botUsername, entity.DeepLinkPayload(variant, id))
}

// PublishRecord posts the public view of a record. Records with a photo are
// posted as a photo with caption.
func (p *Publisher) PublishRecord(ctx context.Context, record *entity.Record) error {
	if p.chatID == 0 && p.username == "" {
		return nil
	}

	catalog, err := form.Lookup(record.Variant)
	if err != nil {
		return err
	}

	text := render.ChannelPost(catalog, record, DeepLink(p.botUsername, record.Variant, record.ID))

	if photo, captioned := render.CardPhoto(record, text); photo != "" {
		cfg := tgbotapi.NewPhoto(p.chatID, tgbotapi.FileID(photo))
		cfg.ChannelUsername = p.username
		if captioned {
			cfg.Caption = text
			cfg.ParseMode = tgbotapi.ModeHTML
			return p.send(ctx, cfg, record)
		}
		if err := p.send(ctx, cfg, record); err != nil {
			return err
		}
	}

	msg := tgbotapi.NewMessage(p.chatID, text)
	msg.ChannelUsername = p.username
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true
	return p.send(ctx, msg, record)
}

func (p *Publisher) send(ctx context.Context, c tgbotapi.Chattable, record *entity.Record) error {
	sent, err := p.api.Send(c)
	if err != nil {
		return fmt.Errorf("%w: publish record %s: %w", entity.ErrTransportFailure, record.ID, err)
	}

	ctxzap.Debug(ctx, "record published to channel",
		zap.String("record_id", record.ID.String()),
		zap.Int("message_id", sent.MessageID),
	)
	return nil
}

// NotifyStatus messages the record's author about the new status.
func (p *Publisher) NotifyStatus(ctx context.Context, record *entity.Record) error {
	if record.TelegramID == 0 {
		return nil
	}

	catalog, err := form.Lookup(record.Variant)
	if err != nil {
		return err
	}

	msg := tgbotapi.NewMessage(record.TelegramID, render.StatusNotice(catalog, record))
	msg.ParseMode = tgbotapi.ModeHTML
	if _, err := p.api.Send(msg); err != nil {
		return fmt.Errorf("%w: notify %d: %w", entity.ErrTransportFailure, record.TelegramID, err)
	}

	ctxzap.Info(ctx, "submitter notified about status",
		zap.String("record_id", record.ID.String()),
		zap.String("status", string(record.Status)),
	)
	return nil
}
