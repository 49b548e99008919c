package handlers

import (
	"context"
	"time"

	"github.com/EdnondDantes/golosStroyki/internal/telegram/keyboard"
	"github.com/EdnondDantes/golosStroyki/internal/telegram/render"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Handler state constants. A user is in at most one concern at a time.
const (
	HandlerStateMenu      = "MENU"
	HandlerStateForm      = "FORM"
	HandlerStateSearch    = "SEARCH"
	HandlerStateComplaint = "COMPLAINT"
)

// Message represents a normalized Telegram message
type Message struct {
	ChatID    int64
	UserID    int64
	Username  string
	FirstName string
	MessageID int

	Text        string
	Command     string
	CommandArgs string
	Voice       *tgbotapi.Voice
	Contact     string
	PhotoFileID string

	CallbackData string
	CallbackID   string

	answered bool
}

// IsCallback reports whether the message is a button press.
func (m *Message) IsCallback() bool {
	return m.CallbackID != ""
}

// NewMessage normalizes a message or callback update. Updates of other kinds
// and updates without a sender are not handled.
func NewMessage(update tgbotapi.Update) (*Message, bool) {
	switch {
	case update.CallbackQuery != nil && update.CallbackQuery.From != nil:
		query := update.CallbackQuery
		msg := &Message{
			UserID:       query.From.ID,
			Username:     query.From.UserName,
			FirstName:    query.From.FirstName,
			CallbackData: query.Data,
			CallbackID:   query.ID,
		}
		if query.Message != nil {
			msg.ChatID = query.Message.Chat.ID
			msg.MessageID = query.Message.MessageID
		}
		return msg, true

	case update.Message != nil && update.Message.From != nil:
		m := update.Message
		msg := &Message{
			ChatID:    m.Chat.ID,
			UserID:    m.From.ID,
			Username:  m.From.UserName,
			FirstName: m.From.FirstName,
			MessageID: m.MessageID,
			Text:      m.Text,
			Voice:     m.Voice,
		}
		if m.IsCommand() {
			msg.Command = m.Command()
			msg.CommandArgs = m.CommandArguments()
		}
		if m.Contact != nil {
			msg.Contact = m.Contact.PhoneNumber
		}
		if len(m.Photo) > 0 {
			msg.PhotoFileID = m.Photo[len(m.Photo)-1].FileID
		}
		if msg.Text == "" && m.Caption != "" && msg.PhotoFileID == "" {
			msg.Text = m.Caption
		}
		return msg, true

	default:
		return nil, false
	}
}

// Handler defines the interface for concern-specific handlers
type Handler interface {
	// Handle processes a message for this state
	Handle(ctx context.Context, msg *Message) error

	// GetState returns the state this handler manages
	GetState() string
}

// BaseHandler provides common functionality for all handlers
type BaseHandler struct {
	stateName     string
	messageSender *MessageSender
	keyboard      *keyboard.Builder
	noticeTTL     time.Duration
}

// GetState implements Handler
func (h *BaseHandler) GetState() string {
	return h.stateName
}

// answer answers a button press once; later calls are no-ops.
func (h *BaseHandler) answer(ctx context.Context, msg *Message, text string, alert bool) {
	if !msg.IsCallback() || msg.answered {
		return
	}
	msg.answered = true
	h.messageSender.AnswerCallback(ctx, msg.CallbackID, text, alert)
}

// notice shows a transient message to the user.
func (h *BaseHandler) notice(ctx context.Context, msg *Message, text string) {
	h.messageSender.Notice(ctx, msg.UserID, msg.ChatID, text, h.noticeTTL)
}

// showMainMenu ends up every finished or abandoned flow.
func (h *BaseHandler) showMainMenu(ctx context.Context, msg *Message) error {
	_, err := h.messageSender.Send(ctx, msg.ChatID, render.MsgMainMenu, h.keyboard.MainMenu())
	return err
}

// validStates defines all valid handler states
var validStates = map[string]bool{
	HandlerStateMenu:      true,
	HandlerStateForm:      true,
	HandlerStateSearch:    true,
	HandlerStateComplaint: true,
}

// IsValidState checks if a state is valid for handler registration
func IsValidState(state string) bool {
	_, ok := validStates[state]
	return ok
}
