package channel

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/EdnondDantes/golosStroyki/internal/entity"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	sent []tgbotapi.Chattable
	err  error
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if f.err != nil {
		return tgbotapi.Message{}, f.err
	}
	f.sent = append(f.sent, c)
	return tgbotapi.Message{MessageID: len(f.sent)}, nil
}

func contractorRecord() *entity.Record {
	return &entity.Record{
		ID:          uuid.MustParse("0b7d3f36-6f7e-4b0c-9a51-2f0a3b1c5d11"),
		Variant:     entity.FormVariantContractor,
		TelegramID:  42,
		TelegramTag: "@ivan",
		Fields: map[string]string{
			"work_format":    "Бригада",
			"city":           "Москва",
			"specialization": "Отделка квартир под ключ",
			"contact":        "+79123456789",
		},
		Category: "Отделка",
		Status:   entity.RecordStatusPending,
	}
}

func TestPublishRecord(t *testing.T) {
	api := &fakeSender{}
	p := NewPublisher(api, 0, "@golos_stroyki", "golos_bot")

	require.NoError(t, p.PublishRecord(context.Background(), contractorRecord()))
	require.Len(t, api.sent, 1)

	msg, ok := api.sent[0].(tgbotapi.MessageConfig)
	require.True(t, ok)
	assert.Equal(t, "@golos_stroyki", msg.ChannelUsername)
	assert.Equal(t, tgbotapi.ModeHTML, msg.ParseMode)
	assert.Contains(t, msg.Text, "Отделка квартир под ключ")
	assert.NotContains(t, msg.Text, "+79123456789")
	assert.Contains(t, msg.Text, "https://t.me/golos_bot?start=contractor_0b7d3f36-6f7e-4b0c-9a51-2f0a3b1c5d11")
}

func TestPublishRecordWithPhoto(t *testing.T) {
	api := &fakeSender{}
	p := NewPublisher(api, -100123, "", "golos_bot")

	record := contractorRecord()
	record.Fields["photo_file_id"] = "AgADphoto"

	require.NoError(t, p.PublishRecord(context.Background(), record))
	require.Len(t, api.sent, 1)

	photo, ok := api.sent[0].(tgbotapi.PhotoConfig)
	require.True(t, ok)
	assert.Equal(t, int64(-100123), photo.ChatID)
	assert.Contains(t, photo.Caption, "Москва")
}

func TestPublishRecordLongCaption(t *testing.T) {
	api := &fakeSender{}
	p := NewPublisher(api, -100123, "", "golos_bot")

	record := contractorRecord()
	record.Fields["photo_file_id"] = "AgADphoto"
	record.Fields["objects_worked"] = strings.Repeat("квартиры ", 150)

	require.NoError(t, p.PublishRecord(context.Background(), record))
	require.Len(t, api.sent, 2)

	photo := api.sent[0].(tgbotapi.PhotoConfig)
	assert.Empty(t, photo.Caption)
	_, ok := api.sent[1].(tgbotapi.MessageConfig)
	assert.True(t, ok)
}

func TestPublishRecordDisabled(t *testing.T) {
	api := &fakeSender{}
	p := NewPublisher(api, 0, "", "golos_bot")

	require.NoError(t, p.PublishRecord(context.Background(), contractorRecord()))
	assert.Empty(t, api.sent)
}

func TestPublishRecordTransportFailure(t *testing.T) {
	p := NewPublisher(&fakeSender{err: errors.New("bad gateway")}, 1, "", "golos_bot")

	err := p.PublishRecord(context.Background(), contractorRecord())
	assert.ErrorIs(t, err, entity.ErrTransportFailure)
}

func TestNotifyStatus(t *testing.T) {
	api := &fakeSender{}
	p := NewPublisher(api, 1, "", "golos_bot")

	record := contractorRecord()
	record.Status = entity.RecordStatusApproved
	require.NoError(t, p.NotifyStatus(context.Background(), record))

	require.Len(t, api.sent, 1)
	msg := api.sent[0].(tgbotapi.MessageConfig)
	assert.Equal(t, int64(42), msg.ChatID)
	assert.Contains(t, msg.Text, "одобрена")
}
