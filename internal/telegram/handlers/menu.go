package handlers

import (
	"context"
	"errors"
	"time"

	"github.com/EdnondDantes/golosStroyki/internal/entity"
	"github.com/EdnondDantes/golosStroyki/internal/form"
	"github.com/EdnondDantes/golosStroyki/internal/telegram/keyboard"
	"github.com/EdnondDantes/golosStroyki/internal/telegram/render"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// MenuHandler serves the main menu, the subscription gate, deep links and FAQ.
type MenuHandler struct {
	BaseHandler
	subscription *SubscriptionChecker
	directory    Directory
}

func NewMenuHandler(
	sender *MessageSender,
	kb *keyboard.Builder,
	subscription *SubscriptionChecker,
	directory Directory,
	noticeTTL time.Duration,
) *MenuHandler {
	return &MenuHandler{
		BaseHandler: BaseHandler{
			stateName:     HandlerStateMenu,
			messageSender: sender,
			keyboard:      kb,
			noticeTTL:     noticeTTL,
		},
		subscription: subscription,
		directory:    directory,
	}
}

// Handle answers free input outside of any flow.
func (h *MenuHandler) Handle(ctx context.Context, msg *Message) error {
	h.notice(ctx, msg, render.MsgUseMenu)
	return h.showMainMenu(ctx, msg)
}

// Start greets the user. Non-subscribers are asked to join the channel
// first; payload, when set, is a record deep link.
func (h *MenuHandler) Start(ctx context.Context, msg *Message, payload string) error {
	if !h.subscription.IsSubscribed(ctx, msg.UserID) {
		_, err := h.messageSender.Send(ctx, msg.ChatID, render.Welcome(msg.FirstName), h.keyboard.Subscribe(payload))
		return err
	}

	if payload != "" {
		return h.ShowRecord(ctx, msg, payload)
	}
	return h.showMainMenu(ctx, msg)
}

// CheckSubscription re-checks membership after "Я подписался".
func (h *MenuHandler) CheckSubscription(ctx context.Context, msg *Message, payload string) error {
	if !h.subscription.IsSubscribed(ctx, msg.UserID) {
		h.answer(ctx, msg, render.MsgSubscriptionMissing, true)
		return nil
	}

	h.answer(ctx, msg, render.MsgSubscriptionConfirmed, false)
	h.messageSender.Delete(ctx, msg.ChatID, msg.MessageID)

	if payload != "" && payload != keyboard.SubCheck {
		return h.ShowRecord(ctx, msg, payload)
	}
	return h.showMainMenu(ctx, msg)
}

// ShowRecord shows the full card of a published record, contacts included.
func (h *MenuHandler) ShowRecord(ctx context.Context, msg *Message, payload string) error {
	record, err := h.directory.Lookup(ctx, payload)
	if errors.Is(err, entity.ErrRecordNotFound) {
		ctxzap.Info(ctx, "deep link to missing record", zap.String("payload", payload))
		_, err := h.messageSender.Send(ctx, msg.ChatID, render.MsgRecordNotFound, h.keyboard.BackToMenu())
		return err
	}
	if err != nil {
		return err
	}

	return sendRecordCard(ctx, h.messageSender, h.keyboard, msg.ChatID, record, true)
}

// sendRecordCard sends a record as a photo with caption when it has a photo
// that fits, as text otherwise.
func sendRecordCard(ctx context.Context, sender *MessageSender, kb *keyboard.Builder, chatID int64, record *entity.Record, withMenu bool) error {
	catalog, err := form.Lookup(record.Variant)
	if err != nil {
		return err
	}

	text := render.RecordCard(catalog, record)
	markup := kb.RecordCard(record.ID, withMenu)

	if photo, captioned := render.CardPhoto(record, text); captioned {
		_, err = sender.SendPhoto(ctx, chatID, photo, text, markup)
		return err
	}
	_, err = sender.Send(ctx, chatID, text, markup)
	return err
}

// FAQ lists the configured questions.
func (h *MenuHandler) FAQ(ctx context.Context, msg *Message) error {
	_, err := h.messageSender.Send(ctx, msg.ChatID, render.MsgFAQ, h.keyboard.FAQMenu())
	return err
}

// FAQAnswer shows one answer.
func (h *MenuHandler) FAQAnswer(ctx context.Context, msg *Message, key string) error {
	entry, ok := h.keyboard.FAQEntry(key)
	if !ok {
		h.answer(ctx, msg, render.ErrStaleButton, false)
		return nil
	}

	_, err := h.messageSender.Send(ctx, msg.ChatID, render.FAQAnswer(entry.Question, entry.Answer), h.keyboard.FAQAnswer())
	return err
}
