package handlers

import (
	"context"
	"fmt"

	"github.com/EdnondDantes/golosStroyki/internal/entity"
	"github.com/EdnondDantes/golosStroyki/internal/telegram/keyboard"
	"github.com/EdnondDantes/golosStroyki/internal/telegram/render"
	"github.com/EdnondDantes/golosStroyki/internal/telegram/state"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const (
	msgUnknownCommand  = "❌ Неизвестная команда. Используй /start"
	msgActionCancelled = "❌ Действие отменено."
)

// Router dispatches updates of one user to the handler of the concern the
// user is in. Callers serialize updates per user.
type Router struct {
	state     *state.Manager
	handlers  map[string]Handler
	menu      *MenuHandler
	form      *FormHandler
	search    *SearchHandler
	complaint *ComplaintHandler
}

func NewRouter(
	stateManager *state.Manager,
	menu *MenuHandler,
	form *FormHandler,
	search *SearchHandler,
	complaint *ComplaintHandler,
) *Router {
	r := &Router{
		state:     stateManager,
		handlers:  make(map[string]Handler),
		menu:      menu,
		form:      form,
		search:    search,
		complaint: complaint,
	}
	for _, h := range []Handler{menu, form, search, complaint} {
		r.RegisterHandler(h)
	}
	return r
}

// RegisterHandler registers a handler for a state
func (r *Router) RegisterHandler(h Handler) {
	if !IsValidState(h.GetState()) {
		panic(fmt.Sprintf("invalid handler state %q", h.GetState()))
	}
	r.handlers[h.GetState()] = h
}

// Route handles one update. Only private chats are served.
func (r *Router) Route(ctx context.Context, update tgbotapi.Update) {
	msg, ok := NewMessage(update)
	if !ok || msg.ChatID <= 0 {
		return
	}

	st, err := r.state.Load(ctx, msg.UserID)
	if err != nil {
		r.menu.HandleError(ctx, msg, err)
		r.menu.answer(ctx, msg, "", false)
		return
	}
	ctx = state.ContextWithUserState(ctx, st)

	switch {
	case msg.IsCallback():
		err = r.handleCallback(ctx, msg)
	case msg.Command != "":
		err = r.handleCommand(ctx, msg)
	default:
		err = r.handlers[activeState(st)].Handle(ctx, msg)
	}
	if err != nil {
		r.menu.HandleError(ctx, msg, err)
	}

	r.menu.answer(ctx, msg, "", false)
}

func activeState(st *state.UserState) string {
	switch {
	case st.Form != nil:
		return HandlerStateForm
	case st.Search != nil:
		return HandlerStateSearch
	case st.Complaint != nil:
		return HandlerStateComplaint
	default:
		return HandlerStateMenu
	}
}

func (r *Router) handleCommand(ctx context.Context, msg *Message) error {
	ctxzap.Info(ctx, "command received", zap.String("command", msg.Command))

	switch msg.Command {
	case "start":
		if err := r.reset(ctx, msg); err != nil {
			return err
		}
		return r.menu.Start(ctx, msg, msg.CommandArgs)
	case "menu":
		if err := r.reset(ctx, msg); err != nil {
			return err
		}
		return r.menu.showMainMenu(ctx, msg)
	case "help", "faq":
		return r.menu.FAQ(ctx, msg)
	case "cancel":
		return r.cancel(ctx, msg)
	case "search":
		if err := r.reset(ctx, msg); err != nil {
			return err
		}
		return r.search.Begin(ctx, msg)
	default:
		r.menu.notice(ctx, msg, msgUnknownCommand)
		return nil
	}
}

// cancel leaves whatever flow is running.
func (r *Router) cancel(ctx context.Context, msg *Message) error {
	st, err := r.state.Load(ctx, msg.UserID)
	if err != nil {
		return err
	}

	switch {
	case st.Form != nil:
		return r.form.Cancel(ctx, msg)
	case st.Empty():
		r.menu.notice(ctx, msg, render.MsgNothingToCancel)
		return r.menu.showMainMenu(ctx, msg)
	default:
		if err := r.reset(ctx, msg); err != nil {
			return err
		}
		if _, err := r.menu.messageSender.Send(ctx, msg.ChatID, msgActionCancelled, nil); err != nil {
			return err
		}
		return r.menu.showMainMenu(ctx, msg)
	}
}

// reset abandons every flow of the user and removes their prompts.
func (r *Router) reset(ctx context.Context, msg *Message) error {
	st, err := r.state.Load(ctx, msg.UserID)
	if err != nil {
		return err
	}
	if st.Empty() {
		return nil
	}

	sender := r.menu.messageSender
	if st.Form != nil {
		sender.Delete(ctx, msg.ChatID, st.Form.PromptMessageID)
		if _, err := r.form.flow.Cancel(ctx, msg.UserID); err != nil {
			return err
		}
	}
	if st.Search != nil {
		sender.Delete(ctx, msg.ChatID, st.Search.PromptMessageID)
	}
	if st.Complaint != nil {
		sender.Delete(ctx, msg.ChatID, st.Complaint.PromptMessageID)
	}
	sender.Flush(msg.UserID)

	return r.state.Clear(ctx, msg.UserID)
}

// handleCallback routes callback queries to the owning handler
func (r *Router) handleCallback(ctx context.Context, msg *Message) error {
	data, err := keyboard.ParseCallback(msg.CallbackData)
	if err != nil {
		ctxzap.Warn(ctx, "failed to parse callback",
			zap.Error(err),
			zap.String("data", msg.CallbackData),
		)
		r.menu.answer(ctx, msg, render.ErrStaleButton, false)
		return nil
	}

	ctxzap.Info(ctx, "handling callback",
		zap.String("action", data.Action),
		zap.String("value", data.Value),
	)

	switch data.Action {
	case keyboard.ActionMenu:
		return r.handleMenu(ctx, msg, data.Value)
	case keyboard.ActionStart:
		if err := r.reset(ctx, msg); err != nil {
			return err
		}
		return r.form.HandleCallback(ctx, msg, data)
	case keyboard.ActionChoice, keyboard.ActionForm:
		return r.form.HandleCallback(ctx, msg, data)
	case keyboard.ActionSubscribe:
		return r.menu.CheckSubscription(ctx, msg, data.Value)
	case keyboard.ActionFAQ:
		return r.menu.FAQAnswer(ctx, msg, data.Value)
	case keyboard.ActionSearch:
		return r.search.HandleCallback(ctx, msg, data)
	case keyboard.ActionComplaint:
		if head, recordID := data.Arg(); head == keyboard.ComplaintAbout {
			if err := r.reset(ctx, msg); err != nil {
				return err
			}
			return r.complaint.Begin(ctx, msg, recordID)
		}
		return r.complaint.HandleCallback(ctx, msg, data)
	default:
		return fmt.Errorf("%w: callback action %q", entity.ErrInvalidTransition, data.Action)
	}
}

func (r *Router) handleMenu(ctx context.Context, msg *Message, value string) error {
	switch value {
	case keyboard.MenuMain:
		if err := r.reset(ctx, msg); err != nil {
			return err
		}
		r.menu.messageSender.Delete(ctx, msg.ChatID, msg.MessageID)
		return r.menu.showMainMenu(ctx, msg)
	case keyboard.MenuContractor:
		return r.form.Intro(ctx, msg, entity.FormVariantContractor)
	case keyboard.MenuOrder:
		return r.form.Intro(ctx, msg, entity.FormVariantOrder)
	case keyboard.MenuSupplier:
		return r.form.Intro(ctx, msg, entity.FormVariantSupplier)
	case keyboard.MenuSearch:
		if err := r.reset(ctx, msg); err != nil {
			return err
		}
		return r.search.Begin(ctx, msg)
	case keyboard.MenuComplaint:
		if err := r.reset(ctx, msg); err != nil {
			return err
		}
		return r.complaint.Begin(ctx, msg, "")
	case keyboard.MenuFAQ:
		return r.menu.FAQ(ctx, msg)
	default:
		return fmt.Errorf("%w: menu item %q", entity.ErrInvalidTransition, value)
	}
}
