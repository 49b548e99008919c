package asr

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"strings"

	"github.com/EdnondDantes/golosStroyki/internal/config"
	"github.com/EdnondDantes/golosStroyki/internal/entity"
	"github.com/EdnondDantes/golosStroyki/internal/integration/common"
	pkghttp "github.com/EdnondDantes/golosStroyki/pkg/http"
	"github.com/avast/retry-go/v4"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const contentTypeOgg = "audio/ogg"

// Connector recognizes short OGG/Opus voice messages with a SpeechKit style
// synchronous API.
type Connector struct {
	config    config.ASRConnectorConfig
	connector *pkghttp.Connector
	logger    *zap.Logger
}

func NewConnector(
	cfg config.ASRConnectorConfig,
	logger *zap.Logger,
) *Connector {
	return &Connector{
		connector: common.NewConnectorWithAuth(cfg.HTTPClientConfig, pkghttp.AuthSchemeAPIKey, logger),
		config:    cfg,
		logger:    logger,
	}
}

// Transcribe returns the recognized text of an OGG voice message.
func (c *Connector) Transcribe(ctx context.Context, audio []byte) (string, error) {
	if len(audio) == 0 {
		return "", fmt.Errorf("%w: empty audio", entity.ErrSpeechUnavailable)
	}

	hash := sha256.Sum256(audio)
	ctxzap.Info(ctx, "transcribing voice via ASR service",
		zap.String("checksum", hex.EncodeToString(hash[:8])),
		zap.Int("size", len(audio)),
	)

	opts := []pkghttp.RequestOpt{
		pkghttp.WithQuery("lang", c.config.Language),
		pkghttp.WithQuery("folderId", c.config.FolderID),
	}

	resp, err := retry.DoWithData(func() (*entity.SpeechRecognizeResponse, error) {
		var resp entity.SpeechRecognizeResponse
		err := c.connector.DoRawRequest(ctx, http.MethodPost, c.config.RecognizeEndpoint, contentTypeOgg, audio, &resp, opts...)
		if err != nil {
			return nil, err
		}
		return &resp, nil
	}, c.config.Retry.ToRetryOptions(ctx, pkghttp.IsRetryable)...)
	if err != nil {
		return "", fmt.Errorf("%w: %w", entity.ErrSpeechUnavailable, err)
	}

	text := strings.TrimSpace(resp.Result)
	if text == "" {
		return "", fmt.Errorf("%w: nothing recognized", entity.ErrSpeechUnavailable)
	}

	ctxzap.Info(ctx, "voice transcribed successfully", zap.Int("transcription_length", len(text)))

	return text, nil
}
