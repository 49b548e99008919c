package handlers

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/EdnondDantes/golosStroyki/internal/entity"
	"github.com/EdnondDantes/golosStroyki/internal/telegram/keyboard"
	"github.com/EdnondDantes/golosStroyki/internal/telegram/render"
	"github.com/EdnondDantes/golosStroyki/internal/telegram/state"
	"github.com/EdnondDantes/golosStroyki/internal/usecase/directory"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// SearchHandler runs the contractor search dialog: city, work type, results.
type SearchHandler struct {
	BaseHandler
	state         *state.Manager
	directory     Directory
	processingTTL time.Duration
}

func NewSearchHandler(
	sender *MessageSender,
	kb *keyboard.Builder,
	stateManager *state.Manager,
	directory Directory,
	noticeTTL, processingTTL time.Duration,
) *SearchHandler {
	return &SearchHandler{
		BaseHandler: BaseHandler{
			stateName:     HandlerStateSearch,
			messageSender: sender,
			keyboard:      kb,
			noticeTTL:     noticeTTL,
		},
		state:         stateManager,
		directory:     directory,
		processingTTL: processingTTL,
	}
}

// Begin asks for the city.
func (h *SearchHandler) Begin(ctx context.Context, msg *Message) error {
	promptID, err := h.messageSender.Send(ctx, msg.ChatID, render.MsgSearchCity, h.keyboard.SearchPrompt())
	if err != nil {
		return err
	}

	return h.state.SetSearch(ctx, msg.UserID, &state.SearchState{
		Step:            state.SearchStepCity,
		PromptMessageID: promptID,
	})
}

// Handle takes the typed city or work type.
func (h *SearchHandler) Handle(ctx context.Context, msg *Message) error {
	search, err := h.state.GetSearch(ctx, msg.UserID)
	if err != nil {
		return err
	}
	if msg.Text == "" {
		h.notice(ctx, msg, render.ErrUnsupported)
		return nil
	}

	switch search.Step {
	case state.SearchStepCity:
		city, err := directory.ValidateCity(msg.Text)
		if err != nil {
			h.HandleError(ctx, msg, err)
			return nil
		}

		h.messageSender.Delete(ctx, msg.ChatID, search.PromptMessageID)
		promptID, err := h.messageSender.Send(ctx, msg.ChatID, render.MsgSearchWorkType, h.keyboard.SearchPrompt())
		if err != nil {
			return err
		}

		search.City = city
		search.Step = state.SearchStepWorkType
		search.PromptMessageID = promptID
		return h.state.SetSearch(ctx, msg.UserID, search)

	case state.SearchStepWorkType:
		workType, err := directory.ValidateWorkType(msg.Text)
		if err != nil {
			h.HandleError(ctx, msg, err)
			return nil
		}

		h.messageSender.Delete(ctx, msg.ChatID, search.PromptMessageID)
		search.WorkType = workType
		search.Step = state.SearchStepResults
		search.PromptMessageID = 0
		return h.showPage(ctx, msg, search, 0)

	default:
		h.notice(ctx, msg, render.MsgSearchUseButtons)
		return nil
	}
}

// HandleCallback handles paging, restart and leaving the search.
func (h *SearchHandler) HandleCallback(ctx context.Context, msg *Message, data *keyboard.CallbackData) error {
	action, arg := data.Arg()

	switch action {
	case keyboard.SearchNew:
		h.answer(ctx, msg, "", false)
		h.messageSender.Delete(ctx, msg.ChatID, msg.MessageID)
		return h.Begin(ctx, msg)

	case keyboard.SearchCancel:
		h.answer(ctx, msg, "", false)
		h.messageSender.Delete(ctx, msg.ChatID, msg.MessageID)
		if err := h.state.DeleteSearch(ctx, msg.UserID); err != nil {
			return err
		}
		return h.showMainMenu(ctx, msg)

	case keyboard.SearchMore:
		offset, err := strconv.Atoi(arg)
		if err != nil {
			return fmt.Errorf("%w: search offset %q", entity.ErrInvalidParameter, arg)
		}

		search, err := h.state.GetSearch(ctx, msg.UserID)
		if err != nil {
			return err
		}
		if search.Step != state.SearchStepResults || search.Offset != offset {
			h.answer(ctx, msg, render.ErrStaleButton, false)
			return nil
		}

		h.answer(ctx, msg, "", false)
		h.messageSender.Delete(ctx, msg.ChatID, msg.MessageID)
		return h.showPage(ctx, msg, search, offset)

	default:
		return fmt.Errorf("%w: search control %q", entity.ErrInvalidTransition, data.Value)
	}
}

func (h *SearchHandler) showPage(ctx context.Context, msg *Message, search *state.SearchState, offset int) error {
	query := entity.ContractorQuery{City: search.City, WorkType: search.WorkType}

	h.messageSender.Notice(ctx, msg.UserID, msg.ChatID, render.MsgSearching, h.processingTTL)

	page, err := h.directory.Search(ctx, query, offset)
	if err != nil {
		ctxzap.Error(ctx, "contractor search failed", zap.Error(err))
		h.notice(ctx, msg, render.ErrSearchFailed)
		return h.state.SetSearch(ctx, msg.UserID, search)
	}

	if len(page.Records) == 0 {
		text := render.SearchNothing(query)
		if offset > 0 {
			text = render.MsgSearchDone
		}
		search.Offset = offset
		if _, err := h.messageSender.Send(ctx, msg.ChatID, text, h.keyboard.SearchNavigation(false, 0)); err != nil {
			return err
		}
		return h.state.SetSearch(ctx, msg.UserID, search)
	}

	if _, err := h.messageSender.Send(ctx, msg.ChatID, render.SearchHeader(query, offset == 0), nil); err != nil {
		return err
	}
	for _, record := range page.Records {
		if err := sendRecordCard(ctx, h.messageSender, h.keyboard, msg.ChatID, record, false); err != nil {
			ctxzap.Warn(ctx, "failed to send search result",
				zap.Error(err),
				zap.String("record_id", record.ID.String()),
			)
		}
	}

	footer := render.MsgSearchFooter
	if !page.HasMore {
		footer = render.MsgSearchDone
	}
	if _, err := h.messageSender.Send(ctx, msg.ChatID, footer, h.keyboard.SearchNavigation(page.HasMore, page.NextOffset())); err != nil {
		return err
	}

	search.Offset = page.NextOffset()
	ctxzap.Info(ctx, "search page shown",
		zap.Int("offset", offset),
		zap.Int("results", len(page.Records)),
		zap.Bool("has_more", page.HasMore),
	)
	return h.state.SetSearch(ctx, msg.UserID, search)
}
