package render

import (
	"fmt"
	"html"
	"strings"
	"unicode/utf8"

	"github.com/EdnondDantes/golosStroyki/internal/entity"
	"github.com/EdnondDantes/golosStroyki/internal/form"
)

const (
	MsgWelcome = `👋 <b>Привет, %s!</b>

📋 Ты в базе сообщества <b>«Голос Стройки»</b>.

Здесь ты можешь:
🔹 найти надёжного подрядчика
🔹 посмотреть реальные профили
🔹 получить контакт
🔹 или добавить себя в базу (если ты мастер, бригада или компания)

⚠️ <b>Перед использованием бота нужно быть подписанным на сообщество «Голос Стройки»</b>`

	MsgMainMenu = `Привет 👋
Это бот базы сообщества «Голос Стройки».
За 2–3 минуты добавим тебя в общую базу, чтобы:
— быстрее находить работу и объекты;
— находить подрядчиков и рабочих;
— получать запросы из сообщества.

👤 Кого будем добавлять в базу?`

	MsgSubscriptionConfirmed = "✅ Отлично! Подписка подтверждена"
	MsgSubscriptionMissing   = "❌ Подписка не найдена. Пожалуйста, подпишись на канал."

	MsgFormCancelled   = "❌ Заполнение анкеты отменено."
	MsgNothingToCancel = "Нечего отменять. Открываю меню 👇"
	MsgUseMenu         = "Используй кнопки меню или нажми /start 👇"

	MsgProcessing   = "⏳ Обрабатываю ответ..."
	MsgRecognizing  = "🎤 Распознаю голосовое сообщение..."
	MsgRecognized   = "✅ Распознано: «%s»"
	MsgContactSaved = "✅ Контакт сохранён"

	MsgSearchCity = `🏙 <b>Поиск подрядчика</b>

Напиши город, в котором ищешь подрядчика:

<i>Например: Москва, Санкт-Петербург, Казань</i>`

	MsgSearchWorkType = `🔧 <b>Какой тип работ нужен?</b>

Опиши, какие работы нужно выполнить:

<i>Например: отделка квартиры, укладка плитки, малярные работы</i>`

	MsgSearching     = "⏳ Подбираю подрядчиков..."
	MsgSearchNothing = `😔 К сожалению, по запросу <b>«%s»</b> в городе <b>«%s»</b> подрядчики не найдены.

Попробуй изменить параметры поиска.`
	MsgSearchFirstPage  = "🎯 По запросу <b>«%s»</b> в городе <b>«%s»</b> нашлись специалисты:"
	MsgSearchNextPage   = "📄 Показываю ещё специалистов:"
	MsgSearchFooter     = "━━━━━━━━━━━━━━━"
	MsgSearchDone       = "📄 Все результаты показаны."
	MsgSearchUseButtons = "Используй кнопки под результатами или начни новый поиск 👇"

	MsgComplaintPrompt      = "📝 Напиши свою жалобу, и мы её рассмотрим.\n\n<i>Минимум 10 символов</i>"
	MsgComplaintAboutRecord = "📝 Опиши, что случилось с этим исполнителем или заказом, и мы разберёмся.\n\n<i>Минимум 10 символов</i>"
	MsgComplaintSent        = "✅ Спасибо! Жалоба отправлена, мы рассмотрим её в течение 24 часов."

	MsgFAQ = "❓ <b>FAQ / Помощь</b>\n\n📚 Выбери интересующий раздел:"

	MsgRecordNotFound = "❌ Запись не найдена. Возможно, она удалена или ещё не прошла модерацию."

	ErrGeneric       = "❌ Произошла ошибка. Попробуй ещё раз или нажми /start"
	ErrCommitFailed  = "❌ Не удалось сохранить данные. Ничего не потеряно: нажми «Подтвердить» ещё раз чуть позже."
	ErrSearchFailed  = "❌ Произошла ошибка при поиске. Попробуй позже."
	ErrSpeech        = "❌ Не удалось распознать голос. Попробуй ещё раз или напиши текстом."
	ErrVoiceTooLarge = "❌ Голосовое сообщение слишком длинное. Запиши покороче или напиши текстом."
	ErrVoiceNotHere  = "❌ На этом шаге голосовой ответ не подойдёт. Выбери вариант кнопкой."
	ErrUnsupported   = "❌ Пожалуйста, отправь текст или голосовое сообщение."
	ErrUseButtons    = "❌ Выбери один из вариантов кнопкой ниже."
	ErrStaleButton   = "Эта кнопка уже неактуальна"
	ErrNoActiveForm  = "Анкета не найдена. Начни заново через /start"
	ErrNetworkIssue  = "❌ Проблема с соединением. Попробуй чуть позже."
	ErrTimeout       = "❌ Операция заняла слишком много времени. Попробуй ещё раз."
)

var formIntros = map[entity.FormVariant]string{
	entity.FormVariantContractor: `🔧 <b>Отлично!</b>

Сейчас создадим твою карточку специалиста.
Процесс займёт 2–3 минуты.

Начнём?`,
	entity.FormVariantOrder: `🏗 <b>Добавим в базу твой объект / заказ</b>

Постарайся отвечать конкретно: это экономит время и тебе, и исполнителям.

Начнём?`,
	entity.FormVariantSupplier: `🚚 <b>Добавим тебя в базу поставщиков и аренды техники</b>

Расскажи о своих услугах.

Начнём?`,
}

var channelHeaders = map[entity.FormVariant]string{
	entity.FormVariantContractor: "🧱 <b>Новый специалист в базе</b>",
	entity.FormVariantOrder:      "🏗 <b>Новый объект / заказ</b>",
	entity.FormVariantSupplier:   "🚚 <b>Новый поставщик</b>",
}

var successTitles = map[entity.FormVariant]string{
	entity.FormVariantContractor: "Твоя анкета отправлена на модерацию.",
	entity.FormVariantOrder:      "Твоя заявка отправлена на модерацию.",
	entity.FormVariantSupplier:   "Твоя анкета поставщика отправлена на модерацию.",
}

// EscapeText makes user supplied text safe for HTML parse mode.
func EscapeText(s string) string {
	return html.EscapeString(s)
}

func Welcome(firstName string) string {
	if strings.TrimSpace(firstName) == "" {
		firstName = "друг"
	}
	return fmt.Sprintf(MsgWelcome, EscapeText(firstName))
}

func FormIntro(variant entity.FormVariant) string {
	return formIntros[variant]
}

// StepPrompt is the running summary followed by the current question.
func StepPrompt(catalog *form.Catalog, s *form.Session) string {
	step, ok := catalog.Step(s.Step)
	if !ok {
		return Review(catalog, s)
	}

	var sb strings.Builder
	writeSummary(&sb, catalog, s)

	fmt.Fprintf(&sb, "📝 <b>Шаг %d из %d</b> — %s\n\n", s.Step, catalog.TotalSteps(), EscapeText(step.Title))
	if step.Prompt != "" {
		sb.WriteString(EscapeText(step.Prompt))
		sb.WriteString("\n\n")
	}
	if step.Hint != "" {
		fmt.Fprintf(&sb, "<i>%s</i>", EscapeText(step.Hint))
	}
	if step.AcceptsText() && step.Input != form.InputContact {
		sb.WriteString("\n\n<i>Можешь ответить текстом или голосовым сообщением 🎤</i>")
	}

	return strings.TrimRight(sb.String(), "\n")
}

// Review is the final check shown before the record is committed.
func Review(catalog *form.Catalog, s *form.Session) string {
	var sb strings.Builder
	writeSummary(&sb, catalog, s)
	sb.WriteString(`✅ <b>Финальное согласование</b>

<b>Проверь правильность введённых данных.</b>

Если всё верно, нажми <b>«Подтвердить»</b>
Если нужно исправить, нажми <b>«Назад»</b>`)
	return sb.String()
}

func writeSummary(sb *strings.Builder, catalog *form.Catalog, s *form.Session) {
	lines := catalog.Summary(s)
	if len(lines) == 0 {
		return
	}

	fmt.Fprintf(sb, "📋 <b>%s:</b>\n\n", EscapeText(catalog.SummaryTitle))
	for _, line := range lines {
		fmt.Fprintf(sb, "%d. %s: %s\n", line.Index, EscapeText(line.Label), EscapeText(line.Value))
	}
	sb.WriteString("\n━━━━━━━━━━━━━━━\n\n")
}

// Committed thanks the user and echoes what was stored.
func Committed(catalog *form.Catalog, record *entity.Record) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "🎉 <b>Отлично!</b>\n\n%s\n\nКогда карточка будет утверждена, мы пришлём уведомление.\n\n📋 <b>Твои данные:</b>\n",
		successTitles[record.Variant])
	writeFields(&sb, catalog, record, func(form.Step) bool { return true })
	return strings.TrimRight(sb.String(), "\n")
}

// RecordCard is the full record including contacts, as shown to subscribers.
func RecordCard(catalog *form.Catalog, record *entity.Record) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "<b>%s</b>\n━━━━━━━━━━━━━━━\n", EscapeText(catalog.Title))
	writeFields(&sb, catalog, record, func(step form.Step) bool {
		return step.Input != form.InputPhoto
	})
	if record.Category != "" {
		fmt.Fprintf(&sb, "🏷 Категория: %s\n", EscapeText(record.Category))
	}
	if record.TelegramTag != "" {
		fmt.Fprintf(&sb, "💬 Telegram: %s\n", EscapeText(record.TelegramTag))
	}
	return strings.TrimRight(sb.String(), "\n")
}

// ChannelPost is the public version of a record: private fields are withheld
// and the deep link leads to the full card in the bot.
func ChannelPost(catalog *form.Catalog, record *entity.Record, deepLink string) string {
	var sb strings.Builder
	sb.WriteString(channelHeaders[record.Variant])
	sb.WriteString("\n\n")
	writeFields(&sb, catalog, record, func(step form.Step) bool {
		return !step.Private && step.Input != form.InputPhoto
	})
	if record.Category != "" {
		fmt.Fprintf(&sb, "🏷 Категория: %s\n", EscapeText(record.Category))
	}
	if deepLink != "" {
		fmt.Fprintf(&sb, "\n👉 <a href=\"%s\">Контакты в боте</a>", EscapeText(deepLink))
	}
	return strings.TrimRight(sb.String(), "\n")
}

func writeFields(sb *strings.Builder, catalog *form.Catalog, record *entity.Record, include func(form.Step) bool) {
	for _, step := range catalog.Steps {
		if !include(step) {
			continue
		}
		value := record.Field(step.Field)
		if step.Input == form.InputPhoto {
			value = photoMark(value)
		}
		if value == "" {
			continue
		}
		fmt.Fprintf(sb, "▫️ %s: %s\n", EscapeText(step.Label), EscapeText(value))
	}
}

func photoMark(fileID string) string {
	if fileID != "" {
		return "добавлено"
	}
	return "нет фото"
}

// StatusNotice tells the submitter about a moderation decision.
func StatusNotice(catalog *form.Catalog, record *entity.Record) string {
	switch record.Status {
	case entity.RecordStatusApproved:
		return fmt.Sprintf("✅ <b>%s одобрена!</b>\n\nТеперь она видна в базе сообщества «Голос Стройки».", EscapeText(catalog.Title))
	case entity.RecordStatusRejected:
		return fmt.Sprintf("❌ <b>%s не прошла модерацию.</b>\n\nПроверь данные и попробуй заполнить заново через /start.", EscapeText(catalog.Title))
	default:
		return fmt.Sprintf("ℹ️ %s снова на модерации.", EscapeText(catalog.Title))
	}
}

func SearchNothing(q entity.ContractorQuery) string {
	return fmt.Sprintf(MsgSearchNothing, EscapeText(q.WorkType), EscapeText(q.City))
}

func SearchHeader(q entity.ContractorQuery, firstPage bool) string {
	if !firstPage {
		return MsgSearchNextPage
	}
	return fmt.Sprintf(MsgSearchFirstPage, EscapeText(q.WorkType), EscapeText(q.City))
}

func Recognized(transcript string) string {
	return fmt.Sprintf(MsgRecognized, EscapeText(transcript))
}

// FAQAnswer renders one FAQ entry.
func FAQAnswer(question, answer string) string {
	return fmt.Sprintf("<b>%s</b>\n\n%s", EscapeText(question), EscapeText(answer))
}

// PhotoField holds the profile photo reference of contractor records.
const PhotoField = "photo_file_id"

// MaxCaption is the Telegram limit for photo captions.
const MaxCaption = 1024

// CardPhoto returns the record photo and whether text fits as its caption.
func CardPhoto(record *entity.Record, text string) (fileID string, captioned bool) {
	fileID = record.Field(PhotoField)
	return fileID, fileID != "" && utf8.RuneCountInString(text) <= MaxCaption
}
