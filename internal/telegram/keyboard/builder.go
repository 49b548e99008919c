package keyboard

import (
	"strconv"

	"github.com/EdnondDantes/golosStroyki/internal/config"
	"github.com/EdnondDantes/golosStroyki/internal/entity"
	"github.com/EdnondDantes/golosStroyki/internal/form"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"github.com/samber/lo"
)

const (
	BtnContractor = "🧱 Я специалист / бригада / компания"
	BtnOrder      = "🏗 У меня объект / заказ"
	BtnSupplier   = "🚚 Я поставщик материалов / техники"
	BtnSearch     = "🔍 Найти подрядчика"
	BtnComplaint  = "⭕️ Отправить жалобу"
	BtnFAQ        = "❓ FAQ / Помощь"
	BtnChannel    = "📢 Канал «Голос Стройки»"

	BtnSubscribed = "✅ Я подписался"
	BtnGoChannel  = "📢 Перейти в канал"

	BtnStartForm = "✅ Да, начать"
	BtnCancel    = "❌ Отмена"
	BtnSkip      = "⏭ Пропустить"
	BtnBack      = "◀️ Назад"
	BtnAbort     = "❌ Отменить"
	BtnConfirm   = "✅ Подтвердить"
	BtnContact   = "📱 Отправить контакт"

	BtnMoreResults = "👉 Показать ещё подрядчиков"
	BtnNewSearch   = "🔄 Новый поиск"
	BtnToMenu      = "◀️ Назад в меню"
	BtnOtherQ      = "❓ Другой вопрос"
	BtnReport      = "⭕️ Пожаловаться"
)

// Builder creates inline keyboards
type Builder struct {
	channelURL string
	faq        []config.FAQEntry
}

// NewBuilder creates a keyboard builder
func NewBuilder(channelURL string, faq []config.FAQEntry) *Builder {
	return &Builder{
		channelURL: channelURL,
		faq:        faq,
	}
}

func button(text, action string, values ...string) tgbotapi.InlineKeyboardButton {
	return tgbotapi.NewInlineKeyboardButtonData(text, EncodeCallback(action, values...))
}

// MainMenu is the entry point of every conversation.
func (b *Builder) MainMenu() tgbotapi.InlineKeyboardMarkup {
	rows := [][]tgbotapi.InlineKeyboardButton{
		tgbotapi.NewInlineKeyboardRow(button(BtnContractor, ActionMenu, MenuContractor)),
		tgbotapi.NewInlineKeyboardRow(button(BtnOrder, ActionMenu, MenuOrder)),
		tgbotapi.NewInlineKeyboardRow(button(BtnSupplier, ActionMenu, MenuSupplier)),
		tgbotapi.NewInlineKeyboardRow(button(BtnSearch, ActionMenu, MenuSearch)),
		tgbotapi.NewInlineKeyboardRow(
			button(BtnComplaint, ActionMenu, MenuComplaint),
			button(BtnFAQ, ActionMenu, MenuFAQ),
		),
	}
	if b.channelURL != "" {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonURL(BtnChannel, b.channelURL),
		))
	}
	return tgbotapi.InlineKeyboardMarkup{InlineKeyboard: rows}
}

// Subscribe asks the user to join the channel before continuing. payload is
// the deep link to resume after the check.
func (b *Builder) Subscribe(payload string) tgbotapi.InlineKeyboardMarkup {
	if payload == "" {
		payload = SubCheck
	}

	rows := [][]tgbotapi.InlineKeyboardButton{}
	if b.channelURL != "" {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonURL(BtnGoChannel, b.channelURL),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(button(BtnSubscribed, ActionSubscribe, payload)))
	return tgbotapi.InlineKeyboardMarkup{InlineKeyboard: rows}
}

// FormIntro confirms the user wants to start filling a form.
func (b *Builder) FormIntro(variant entity.FormVariant) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			button(BtnStartForm, ActionStart, string(variant)),
			button(BtnCancel, ActionMenu, MenuMain),
		),
	)
}

// Step lays out the controls of the current form step: choices first, then
// skip, back and cancel.
func (b *Builder) Step(catalog *form.Catalog, s *form.Session) tgbotapi.InlineKeyboardMarkup {
	step, ok := catalog.Step(s.Step)
	if !ok {
		return b.Review()
	}

	columns := step.ChoiceColumns
	if columns <= 0 {
		columns = 1
	}

	buttons := lo.Map(step.Choices, func(choice form.Choice, _ int) tgbotapi.InlineKeyboardButton {
		return button(choice.Label, ActionChoice, choice.Key)
	})
	rows := lo.Chunk(buttons, columns)

	if step.Skippable {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(button(BtnSkip, ActionForm, FormSkip)))
	}

	nav := []tgbotapi.InlineKeyboardButton{}
	if s.Step > 1 {
		nav = append(nav, button(BtnBack, ActionForm, FormBack))
	}
	nav = append(nav, button(BtnAbort, ActionForm, FormCancel))
	rows = append(rows, nav)

	return tgbotapi.InlineKeyboardMarkup{InlineKeyboard: rows}
}

// Review is shown under the final summary.
func (b *Builder) Review() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(button(BtnConfirm, ActionForm, FormConfirm)),
		tgbotapi.NewInlineKeyboardRow(
			button(BtnBack, ActionForm, FormBack),
			button(BtnAbort, ActionForm, FormCancel),
		),
	)
}

// ContactRequest is the reply keyboard offered on contact steps.
func (b *Builder) ContactRequest() tgbotapi.ReplyKeyboardMarkup {
	markup := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButtonContact(BtnContact)),
	)
	markup.OneTimeKeyboard = true
	markup.ResizeKeyboard = true
	return markup
}

func (b *Builder) RemoveReply() tgbotapi.ReplyKeyboardRemove {
	return tgbotapi.NewRemoveKeyboard(true)
}

// SearchPrompt accompanies the city and work type prompts.
func (b *Builder) SearchPrompt() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(button(BtnToMenu, ActionSearch, SearchCancel)),
	)
}

// SearchNavigation follows a page of results.
func (b *Builder) SearchNavigation(hasMore bool, nextOffset int) tgbotapi.InlineKeyboardMarkup {
	rows := [][]tgbotapi.InlineKeyboardButton{}
	if hasMore {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			button(BtnMoreResults, ActionSearch, SearchMore, strconv.Itoa(nextOffset)),
		))
	}
	rows = append(rows,
		tgbotapi.NewInlineKeyboardRow(button(BtnNewSearch, ActionSearch, SearchNew)),
		tgbotapi.NewInlineKeyboardRow(button(BtnToMenu, ActionMenu, MenuMain)),
	)
	return tgbotapi.InlineKeyboardMarkup{InlineKeyboard: rows}
}

// RecordCard lets the reader report a card.
func (b *Builder) RecordCard(id uuid.UUID, withMenu bool) tgbotapi.InlineKeyboardMarkup {
	rows := [][]tgbotapi.InlineKeyboardButton{
		tgbotapi.NewInlineKeyboardRow(button(BtnReport, ActionComplaint, ComplaintAbout, id.String())),
	}
	if withMenu {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(button(BtnToMenu, ActionMenu, MenuMain)))
	}
	return tgbotapi.InlineKeyboardMarkup{InlineKeyboard: rows}
}

// ComplaintPrompt lets the user back out of a complaint.
func (b *Builder) ComplaintPrompt() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(button(BtnBack, ActionComplaint, ComplaintBack)),
	)
}

// FAQMenu lists configured questions.
func (b *Builder) FAQMenu() tgbotapi.InlineKeyboardMarkup {
	rows := lo.Map(b.faq, func(entry config.FAQEntry, _ int) []tgbotapi.InlineKeyboardButton {
		return tgbotapi.NewInlineKeyboardRow(button(entry.Question, ActionFAQ, entry.Key))
	})
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(button(BtnToMenu, ActionMenu, MenuMain)))
	return tgbotapi.InlineKeyboardMarkup{InlineKeyboard: rows}
}

// FAQAnswer follows a single answer.
func (b *Builder) FAQAnswer() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(button(BtnOtherQ, ActionMenu, MenuFAQ)),
		tgbotapi.NewInlineKeyboardRow(button(BtnToMenu, ActionMenu, MenuMain)),
	)
}

// BackToMenu is a single button returning to the main menu.
func (b *Builder) BackToMenu() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(button(BtnToMenu, ActionMenu, MenuMain)),
	)
}

// FAQEntry finds an entry by key.
func (b *Builder) FAQEntry(key string) (config.FAQEntry, bool) {
	return lo.Find(b.faq, func(entry config.FAQEntry) bool {
		return entry.Key == key
	})
}
