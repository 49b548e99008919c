package handlers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/EdnondDantes/golosStroyki/internal/entity"
	pkghttp "github.com/EdnondDantes/golosStroyki/pkg/http"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// VoiceRecognizer turns a voice message into text.
type VoiceRecognizer struct {
	api         API
	downloader  Downloader
	transcriber Transcriber
	maxSize     int64
}

func NewVoiceRecognizer(api API, downloader Downloader, transcriber Transcriber, maxSize int64) *VoiceRecognizer {
	return &VoiceRecognizer{
		api:         api,
		downloader:  downloader,
		transcriber: transcriber,
		maxSize:     maxSize,
	}
}

// Recognize downloads the voice file and transcribes it. Oversized files fail
// with pkghttp.ErrBodyTooLarge, recognition problems with
// entity.ErrSpeechUnavailable.
func (r *VoiceRecognizer) Recognize(ctx context.Context, voice *tgbotapi.Voice) (string, error) {
	if r.maxSize > 0 && int64(voice.FileSize) > r.maxSize {
		return "", fmt.Errorf("%w: voice of %d bytes", pkghttp.ErrBodyTooLarge, voice.FileSize)
	}

	fileURL, err := r.api.GetFileDirectURL(voice.FileID)
	if err != nil {
		return "", fmt.Errorf("%w: get file url: %w", entity.ErrSpeechUnavailable, err)
	}

	audio, err := r.downloader.Download(ctx, fileURL, r.maxSize)
	if errors.Is(err, pkghttp.ErrBodyTooLarge) {
		return "", err
	}
	if err != nil {
		return "", fmt.Errorf("%w: download voice: %w", entity.ErrSpeechUnavailable, err)
	}

	ctxzap.Debug(ctx, "voice downloaded",
		zap.Int("bytes", len(audio)),
		zap.Int("duration", voice.Duration),
	)

	text, err := r.transcriber.Transcribe(ctx, audio)
	if err != nil && !errors.Is(err, entity.ErrSpeechUnavailable) {
		err = fmt.Errorf("%w: %w", entity.ErrSpeechUnavailable, err)
	}
	if err != nil {
		return "", fmt.Errorf("transcribe voice: %w", err)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("%w: empty transcript", entity.ErrSpeechUnavailable)
	}
	return text, nil
}
