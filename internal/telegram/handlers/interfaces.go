package handlers

import (
	"context"

	"github.com/EdnondDantes/golosStroyki/internal/entity"
	"github.com/EdnondDantes/golosStroyki/internal/form"
	"github.com/EdnondDantes/golosStroyki/internal/usecase/complaint"
	"github.com/EdnondDantes/golosStroyki/internal/usecase/directory"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// API is the part of *tgbotapi.BotAPI the handlers use.
type API interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetChatMember(config tgbotapi.GetChatMemberConfig) (tgbotapi.ChatMember, error)
	GetFileDirectURL(fileID string) (string, error)
}

// FormFlow runs Form Sessions.
type FormFlow interface {
	Start(ctx context.Context, userID, chatID int64, username string, variant entity.FormVariant) (*form.Session, error)
	Current(ctx context.Context, userID int64) (*form.Session, error)
	Submit(ctx context.Context, userID int64, in form.Input) (*form.Session, form.Outcome, error)
	Skip(ctx context.Context, userID int64) (*form.Session, error)
	Back(ctx context.Context, userID int64) (*form.Session, error)
	SetPromptMessage(ctx context.Context, userID int64, messageID int) error
	Confirm(ctx context.Context, userID int64) (*entity.Record, error)
	Cancel(ctx context.Context, userID int64) (*form.Session, error)
}

type Directory interface {
	Search(ctx context.Context, q entity.ContractorQuery, offset int) (*directory.Page, error)
	Lookup(ctx context.Context, payload string) (*entity.Record, error)
}

type Complaints interface {
	Submit(ctx context.Context, in complaint.Submission) (*entity.Complaint, error)
}

type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte) (string, error)
}

type Downloader interface {
	Download(ctx context.Context, rawURL string, limit int64) ([]byte, error)
}
