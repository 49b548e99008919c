package handlers

import (
	"context"
	"fmt"
	"time"

	"github.com/EdnondDantes/golosStroyki/internal/entity"
	"github.com/EdnondDantes/golosStroyki/internal/telegram/keyboard"
	"github.com/EdnondDantes/golosStroyki/internal/telegram/render"
	"github.com/EdnondDantes/golosStroyki/internal/telegram/state"
	"github.com/EdnondDantes/golosStroyki/internal/usecase/complaint"
	"github.com/google/uuid"
)

// ComplaintHandler collects a complaint, optionally about a specific record.
type ComplaintHandler struct {
	BaseHandler
	state      *state.Manager
	complaints Complaints
}

func NewComplaintHandler(
	sender *MessageSender,
	kb *keyboard.Builder,
	stateManager *state.Manager,
	complaints Complaints,
	noticeTTL time.Duration,
) *ComplaintHandler {
	return &ComplaintHandler{
		BaseHandler: BaseHandler{
			stateName:     HandlerStateComplaint,
			messageSender: sender,
			keyboard:      kb,
			noticeTTL:     noticeTTL,
		},
		state:      stateManager,
		complaints: complaints,
	}
}

// Begin asks for the complaint text. recordID may be empty.
func (h *ComplaintHandler) Begin(ctx context.Context, msg *Message, recordID string) error {
	text := render.MsgComplaintPrompt
	if recordID != "" {
		if _, err := uuid.Parse(recordID); err != nil {
			return fmt.Errorf("%w: record id %q", entity.ErrInvalidParameter, recordID)
		}
		text = render.MsgComplaintAboutRecord
	}

	promptID, err := h.messageSender.Send(ctx, msg.ChatID, text, h.keyboard.ComplaintPrompt())
	if err != nil {
		return err
	}

	return h.state.SetComplaint(ctx, msg.UserID, &state.ComplaintState{
		RecordID:        recordID,
		PromptMessageID: promptID,
	})
}

// Handle validates and stores the complaint. On a storage failure the prompt
// stays so the user can send the text again.
func (h *ComplaintHandler) Handle(ctx context.Context, msg *Message) error {
	pending, err := h.state.GetComplaint(ctx, msg.UserID)
	if err != nil {
		return err
	}
	if msg.Text == "" {
		h.notice(ctx, msg, render.ErrUnsupported)
		return nil
	}

	text, err := complaint.Validate(msg.Text)
	if err != nil {
		h.HandleError(ctx, msg, err)
		return nil
	}

	submission := complaint.Submission{
		TelegramID: msg.UserID,
		Username:   msg.Username,
		Message:    text,
	}
	if pending.RecordID != "" {
		if id, err := uuid.Parse(pending.RecordID); err == nil {
			submission.RecordID = &id
		}
	}

	if _, err := h.complaints.Submit(ctx, submission); err != nil {
		h.HandleError(ctx, msg, err)
		return nil
	}

	h.messageSender.Delete(ctx, msg.ChatID, pending.PromptMessageID)
	h.messageSender.Flush(msg.UserID)
	if err := h.state.DeleteComplaint(ctx, msg.UserID); err != nil {
		return err
	}

	if _, err := h.messageSender.SendCritical(ctx, msg.ChatID, render.MsgComplaintSent, nil); err != nil {
		return err
	}
	return h.showMainMenu(ctx, msg)
}

// HandleCallback handles the back button of the complaint prompt.
func (h *ComplaintHandler) HandleCallback(ctx context.Context, msg *Message, data *keyboard.CallbackData) error {
	if data.Value != keyboard.ComplaintBack {
		return fmt.Errorf("%w: complaint control %q", entity.ErrInvalidTransition, data.Value)
	}

	h.answer(ctx, msg, "", false)
	h.messageSender.Delete(ctx, msg.ChatID, msg.MessageID)
	if err := h.state.DeleteComplaint(ctx, msg.UserID); err != nil {
		return err
	}
	return h.showMainMenu(ctx, msg)
}
