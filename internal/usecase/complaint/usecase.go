package complaint

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/EdnondDantes/golosStroyki/internal/entity"
	"github.com/EdnondDantes/golosStroyki/internal/form"
	"github.com/EdnondDantes/golosStroyki/internal/pkg/sanitize"
	"github.com/google/uuid"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const (
	minMessageLength = 10
	maxMessageLength = 1000

	MsgTooShort = "❌ Жалоба слишком короткая. Опишите подробнее (минимум 10 символов)."
	MsgTooLong  = "❌ Жалоба слишком длинная. Максимум 1000 символов."
)

type Repository interface {
	InsertComplaint(ctx context.Context, complaint *entity.Complaint) error
}

type Notifier interface {
	ComplaintSubmitted(ctx context.Context, complaint *entity.Complaint)
}

// Submission is what the user typed plus where the complaint was started from.
type Submission struct {
	TelegramID int64
	Username   string
	RecordID   *uuid.UUID
	Message    string
}

type UseCase struct {
	repo     Repository
	notifier Notifier
	now      func() time.Time
}

func New(repo Repository, notifier Notifier) *UseCase {
	return &UseCase{repo: repo, notifier: notifier, now: time.Now}
}

// Validate returns the trimmed message or a *form.ValidationError.
func Validate(raw string) (string, error) {
	message := strings.TrimSpace(raw)
	switch n := utf8.RuneCountInString(message); {
	case n < minMessageLength:
		return "", &form.ValidationError{Field: "message", Message: MsgTooShort}
	case n > maxMessageLength:
		return "", &form.ValidationError{Field: "message", Message: MsgTooLong}
	}
	return message, nil
}

func (u *UseCase) Submit(ctx context.Context, in Submission) (*entity.Complaint, error) {
	message, err := Validate(in.Message)
	if err != nil {
		return nil, err
	}

	complaint := &entity.Complaint{
		ID:         uuid.New(),
		TelegramID: in.TelegramID,
		RecordID:   in.RecordID,
		Message:    sanitize.Text(message),
		Status:     entity.ComplaintStatusNew,
		CreatedAt:  u.now().UTC(),
	}
	if in.Username != "" {
		complaint.TelegramTag = "@" + in.Username
	}

	if err := u.repo.InsertComplaint(ctx, complaint); err != nil {
		return nil, fmt.Errorf("%w: %w", entity.ErrCommitFailed, err)
	}

	ctxzap.Info(ctx, "complaint submitted", zap.Stringer("complaint_id", complaint.ID))
	if u.notifier != nil {
		u.notifier.ComplaintSubmitted(ctx, complaint)
	}

	return complaint, nil
}
