package asr

import (
	"context"
	"fmt"

	"github.com/EdnondDantes/golosStroyki/internal/entity"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// MockTranscript is returned by MockConnector for any non-empty audio.
const MockTranscript = "Укладка плитки и малярные работы"

type MockConnector struct {
	logger *zap.Logger
}

func NewMockConnector(logger *zap.Logger) *MockConnector {
	return &MockConnector{
		logger: logger,
	}
}

func (m *MockConnector) Transcribe(ctx context.Context, audio []byte) (string, error) {
	if len(audio) == 0 {
		return "", fmt.Errorf("%w: empty audio", entity.ErrSpeechUnavailable)
	}

	ctxzap.Info(ctx, "[MOCK] transcribing voice", zap.Int("size", len(audio)))

	return MockTranscript, nil
}
