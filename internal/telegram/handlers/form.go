package handlers

import (
	"context"
	"fmt"
	"time"

	"github.com/EdnondDantes/golosStroyki/internal/entity"
	"github.com/EdnondDantes/golosStroyki/internal/form"
	"github.com/EdnondDantes/golosStroyki/internal/telegram/keyboard"
	"github.com/EdnondDantes/golosStroyki/internal/telegram/render"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const (
	msgContactKeyboard = "📱 Кнопка «Отправить контакт» внизу экрана 👇"
	msgStepBack        = "◀️ Возвращаемся назад"
)

// FormHandler drives the contractor, order and supplier questionnaires.
type FormHandler struct {
	BaseHandler
	flow          FormFlow
	voice         *VoiceRecognizer
	api           API
	processingTTL time.Duration
}

func NewFormHandler(
	sender *MessageSender,
	kb *keyboard.Builder,
	flow FormFlow,
	voice *VoiceRecognizer,
	api API,
	noticeTTL, processingTTL time.Duration,
) *FormHandler {
	return &FormHandler{
		BaseHandler: BaseHandler{
			stateName:     HandlerStateForm,
			messageSender: sender,
			keyboard:      kb,
			noticeTTL:     noticeTTL,
		},
		flow:          flow,
		voice:         voice,
		api:           api,
		processingTTL: processingTTL,
	}
}

// Intro asks the user to confirm starting a form.
func (h *FormHandler) Intro(ctx context.Context, msg *Message, variant entity.FormVariant) error {
	_, err := h.messageSender.Send(ctx, msg.ChatID, render.FormIntro(variant), h.keyboard.FormIntro(variant))
	return err
}

// Begin opens a fresh form and shows its first step.
func (h *FormHandler) Begin(ctx context.Context, msg *Message, variant entity.FormVariant) error {
	session, err := h.flow.Start(ctx, msg.UserID, msg.ChatID, msg.Username, variant)
	if err != nil {
		return err
	}
	return h.showStep(ctx, msg, session, 0, false)
}

// Handle applies a typed, spoken, shared or uploaded answer to the current step.
func (h *FormHandler) Handle(ctx context.Context, msg *Message) error {
	session, err := h.flow.Current(ctx, msg.UserID)
	if err != nil {
		return err
	}
	catalog, err := form.Lookup(session.Variant)
	if err != nil {
		return err
	}
	step, ok := catalog.Step(session.Step)
	if !ok || session.Status == form.StatusConfirming {
		h.notice(ctx, msg, render.ErrUseButtons)
		return nil
	}

	var in form.Input
	switch {
	case msg.Contact != "":
		in = form.ContactInput(msg.Contact)
	case msg.PhotoFileID != "":
		in = form.PhotoInput(msg.PhotoFileID)
	case msg.Voice != nil:
		if !step.AcceptsText() {
			h.notice(ctx, msg, render.ErrVoiceNotHere)
			return nil
		}
		text, err := h.recognize(ctx, msg)
		if err != nil {
			h.HandleError(ctx, msg, err)
			return nil
		}
		in = form.TextInput(text)
	case msg.Text != "":
		in = form.TextInput(msg.Text)
	default:
		h.notice(ctx, msg, render.ErrUnsupported)
		return nil
	}

	if step.Enrich != "" && in.Kind == form.InputText {
		h.messageSender.Notice(ctx, msg.UserID, msg.ChatID, render.MsgProcessing, h.processingTTL)
		typing := StartTyping(ctx, h.api, msg.ChatID, tgbotapi.ChatTyping)
		defer typing.Stop()
	}

	next, _, err := h.flow.Submit(ctx, msg.UserID, in)
	if err != nil {
		h.HandleError(ctx, msg, err)
		return nil
	}

	return h.showStep(ctx, msg, next, session.PromptMessageID, step.Input == form.InputContact)
}

func (h *FormHandler) recognize(ctx context.Context, msg *Message) (string, error) {
	h.messageSender.Notice(ctx, msg.UserID, msg.ChatID, render.MsgRecognizing, h.processingTTL)

	typing := StartTyping(ctx, h.api, msg.ChatID, tgbotapi.ChatTyping)
	defer typing.Stop()

	text, err := h.voice.Recognize(ctx, msg.Voice)
	if err != nil {
		return "", err
	}

	h.notice(ctx, msg, render.Recognized(text))
	return text, nil
}

// HandleCallback handles form buttons. Buttons of anything but the current
// prompt are stale and ignored.
func (h *FormHandler) HandleCallback(ctx context.Context, msg *Message, data *keyboard.CallbackData) error {
	if data.Action == keyboard.ActionStart {
		variant := entity.FormVariant(data.Value)
		if err := variant.Validate(); err != nil {
			return err
		}
		h.messageSender.Delete(ctx, msg.ChatID, msg.MessageID)
		return h.Begin(ctx, msg, variant)
	}

	session, err := h.flow.Current(ctx, msg.UserID)
	if err != nil {
		return err
	}
	if session.PromptMessageID != 0 && session.PromptMessageID != msg.MessageID {
		ctxzap.Debug(ctx, "stale form button",
			zap.Int("message_id", msg.MessageID),
			zap.Int("prompt_message_id", session.PromptMessageID),
		)
		h.answer(ctx, msg, render.ErrStaleButton, false)
		return nil
	}

	catalog, err := form.Lookup(session.Variant)
	if err != nil {
		return err
	}
	current, _ := catalog.Step(session.Step)

	var next *form.Session
	switch {
	case data.Action == keyboard.ActionChoice:
		next, _, err = h.flow.Submit(ctx, msg.UserID, form.ChoiceInput(data.Value))
	case data.Value == keyboard.FormSkip:
		next, err = h.flow.Skip(ctx, msg.UserID)
	case data.Value == keyboard.FormBack:
		next, err = h.flow.Back(ctx, msg.UserID)
	case data.Value == keyboard.FormConfirm:
		return h.confirm(ctx, msg, session, catalog)
	case data.Value == keyboard.FormCancel:
		return h.Cancel(ctx, msg)
	default:
		return fmt.Errorf("%w: form control %q", entity.ErrInvalidTransition, data.Value)
	}
	if err != nil {
		return err
	}

	h.answer(ctx, msg, "", false)
	if data.Value == keyboard.FormBack && current.Input == form.InputContact {
		h.messageSender.NoticeWithMarkup(ctx, msg.UserID, msg.ChatID, msgStepBack, h.keyboard.RemoveReply(), h.noticeTTL)
	}
	return h.showStep(ctx, msg, next, session.PromptMessageID, false)
}

func (h *FormHandler) confirm(ctx context.Context, msg *Message, session *form.Session, catalog *form.Catalog) error {
	record, err := h.flow.Confirm(ctx, msg.UserID)
	if err != nil {
		return err
	}

	h.answer(ctx, msg, "", false)
	h.messageSender.Delete(ctx, msg.ChatID, session.PromptMessageID)
	h.messageSender.Flush(msg.UserID)

	if _, err := h.messageSender.SendCritical(ctx, msg.ChatID, render.Committed(catalog, record), nil); err != nil {
		ctxzap.Error(ctx, "failed to confirm submission to user",
			zap.Error(err),
			zap.String("record_id", record.ID.String()),
		)
	}
	return h.showMainMenu(ctx, msg)
}

// Cancel drops the open form, if any, and returns to the menu.
func (h *FormHandler) Cancel(ctx context.Context, msg *Message) error {
	session, err := h.flow.Cancel(ctx, msg.UserID)
	if err != nil {
		return err
	}

	h.answer(ctx, msg, "", false)
	if session == nil {
		h.notice(ctx, msg, render.MsgNothingToCancel)
		return h.showMainMenu(ctx, msg)
	}

	h.messageSender.Delete(ctx, msg.ChatID, session.PromptMessageID)
	h.messageSender.Flush(msg.UserID)

	if _, err := h.messageSender.Send(ctx, msg.ChatID, render.MsgFormCancelled, h.keyboard.RemoveReply()); err != nil {
		return err
	}
	return h.showMainMenu(ctx, msg)
}

// showStep replaces the previous prompt with the one for the session's
// current step, or with the review when the form is complete.
func (h *FormHandler) showStep(ctx context.Context, msg *Message, session *form.Session, previousPrompt int, contactSaved bool) error {
	catalog, err := form.Lookup(session.Variant)
	if err != nil {
		return err
	}

	h.messageSender.Delete(ctx, msg.ChatID, previousPrompt)

	if contactSaved {
		h.messageSender.NoticeWithMarkup(ctx, msg.UserID, msg.ChatID, render.MsgContactSaved, h.keyboard.RemoveReply(), h.noticeTTL)
	}

	var (
		text   string
		markup tgbotapi.InlineKeyboardMarkup
	)
	if session.Status == form.StatusConfirming {
		text, markup = render.Review(catalog, session), h.keyboard.Review()
	} else {
		text, markup = render.StepPrompt(catalog, session), h.keyboard.Step(catalog, session)
	}

	promptID, err := h.messageSender.SendCritical(ctx, msg.ChatID, text, markup)
	if err != nil {
		return err
	}
	if err := h.flow.SetPromptMessage(ctx, msg.UserID, promptID); err != nil {
		return err
	}

	if step, ok := catalog.Step(session.Step); ok && session.Status != form.StatusConfirming && step.Input == form.InputContact {
		h.messageSender.NoticeWithMarkup(ctx, msg.UserID, msg.ChatID, msgContactKeyboard, h.keyboard.ContactRequest(), h.noticeTTL)
	}
	return nil
}
