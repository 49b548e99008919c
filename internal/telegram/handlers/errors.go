package handlers

import (
	"context"
	"errors"
	"net"

	"github.com/EdnondDantes/golosStroyki/internal/entity"
	"github.com/EdnondDantes/golosStroyki/internal/form"
	"github.com/EdnondDantes/golosStroyki/internal/telegram/render"
	"github.com/EdnondDantes/golosStroyki/internal/usecase/directory"
	pkghttp "github.com/EdnondDantes/golosStroyki/pkg/http"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

type ErrorSeverity int

const (
	SeverityWarning ErrorSeverity = iota
	SeverityError
	SeverityCritical
)

func (s ErrorSeverity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// HandlerError pairs a failure with the notice the user sees.
type HandlerError struct {
	Err         error
	UserMessage string
	LogMessage  string
	Severity    ErrorSeverity
}

// errorRule maps sentinel errors onto a notice. The first matching rule wins.
type errorRule struct {
	targets  []error
	user     string
	log      string
	severity ErrorSeverity
}

var errorRules = []errorRule{
	{[]error{entity.ErrSessionNotFound}, render.ErrNoActiveForm, "session not found", SeverityWarning},
	{[]error{entity.ErrInvalidTransition, entity.ErrUnknownVariant}, render.ErrStaleButton, "stale form control", SeverityWarning},
	{[]error{entity.ErrRecordNotFound}, render.MsgRecordNotFound, "record not found", SeverityWarning},
	{[]error{pkghttp.ErrBodyTooLarge}, render.ErrVoiceTooLarge, "voice message too large", SeverityWarning},
	{[]error{entity.ErrSpeechUnavailable}, render.ErrSpeech, "speech recognition failed", SeverityError},
	{[]error{entity.ErrCommitFailed}, render.ErrCommitFailed, "commit failed", SeverityCritical},
	{[]error{context.DeadlineExceeded, context.Canceled}, render.ErrTimeout, "operation timed out", SeverityError},
}

func (r errorRule) matches(err error) bool {
	for _, target := range r.targets {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func classifyHandlerError(err error) *HandlerError {
	if err == nil {
		return &HandlerError{UserMessage: render.ErrGeneric, LogMessage: "unknown error", Severity: SeverityWarning}
	}

	// Input problems carry their own user-facing text.
	var validationErr *form.ValidationError
	if errors.As(err, &validationErr) {
		return &HandlerError{Err: err, UserMessage: validationErr.Message, LogMessage: "answer rejected", Severity: SeverityWarning}
	}
	if errors.Is(err, directory.ErrCityTooShort) || errors.Is(err, directory.ErrWorkTypeTooShort) {
		return &HandlerError{Err: err, UserMessage: err.Error(), LogMessage: "search query rejected", Severity: SeverityWarning}
	}

	for _, rule := range errorRules {
		if rule.matches(err) {
			return &HandlerError{Err: err, UserMessage: rule.user, LogMessage: rule.log, Severity: rule.severity}
		}
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return &HandlerError{Err: err, UserMessage: render.ErrTimeout, LogMessage: "network timeout", Severity: SeverityError}
		}
		return &HandlerError{Err: err, UserMessage: render.ErrNetworkIssue, LogMessage: "network error", Severity: SeverityError}
	}

	return &HandlerError{Err: err, UserMessage: render.ErrGeneric, LogMessage: "handler error", Severity: SeverityError}
}

// HandleError logs err with its severity and shows the user a short notice.
// Warnings on button presses go to the callback popup instead of the chat.
func (h *BaseHandler) HandleError(ctx context.Context, msg *Message, err error) {
	if err == nil {
		return
	}

	handlerErr := classifyHandlerError(err)
	if handlerErr.Severity == SeverityWarning {
		ctxzap.Warn(ctx, handlerErr.LogMessage, zap.Error(handlerErr.Err))
	} else {
		ctxzap.Error(ctx, handlerErr.LogMessage,
			zap.Error(handlerErr.Err),
			zap.String("severity", handlerErr.Severity.String()),
		)
	}

	if h.messageSender == nil {
		return
	}
	if msg.IsCallback() && !msg.answered && handlerErr.Severity == SeverityWarning {
		h.answer(ctx, msg, handlerErr.UserMessage, true)
		return
	}
	h.notice(ctx, msg, handlerErr.UserMessage)
}
