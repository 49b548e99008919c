package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/EdnondDantes/golosStroyki/internal/config"
	"github.com/EdnondDantes/golosStroyki/internal/entity"
	pkgRetry "github.com/EdnondDantes/golosStroyki/internal/pkg/retry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestConnector(url string) *Connector {
	return NewConnector(config.LLMConnectorConfig{
		HTTPClientConfig: config.HTTPClientConfig{
			Url:            url,
			Token:          "sk-test",
			RequestTimeout: 5 * time.Second,
		},
		Model:               "deepseek-chat",
		CompletionsEndpoint: "/chat/completions",
		Temperature:         0.2,
		MaxTokens:           150,
		Retry:               pkgRetry.RetryConfig{Attempts: 3, Delay: time.Millisecond, MaxDelay: 5 * time.Millisecond},
	}, zap.NewNop())
}

func completion(content string) entity.ChatCompletionResponse {
	return entity.ChatCompletionResponse{
		Choices: []entity.ChatCompletionChoice{{Message: entity.ChatMessage{Role: "assistant", Content: content}}},
	}
}

func TestConnector_NormalizeText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		var req entity.ChatCompletionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "deepseek-chat", req.Model)
		require.Len(t, req.Messages, 2)
		assert.Equal(t, promptSpecialization, req.Messages[0].Content)
		assert.Equal(t, "малярка плитке", req.Messages[1].Content)

		_ = json.NewEncoder(w).Encode(completion(`"Малярные работы, плитка"`))
	}))
	defer server.Close()

	got, err := newTestConnector(server.URL).NormalizeText(context.Background(), "малярка плитке", entity.EnrichHintSpecialization)
	require.NoError(t, err)
	assert.Equal(t, "Малярные работы, плитка", got)
}

func TestConnector_RetriesTemporaryFailures(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_ = json.NewEncoder(w).Encode(completion("Отделка"))
	}))
	defer server.Close()

	got, err := newTestConnector(server.URL).ClassifyCategory(context.Background(), "плиточник")
	require.NoError(t, err)
	assert.Equal(t, "Отделка", got)
	assert.EqualValues(t, 3, calls.Load())
}

func TestConnector_Failures(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if r.URL.Query().Get("empty") != "" {
			_ = json.NewEncoder(w).Encode(completion("  "))
			return
		}
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	c := newTestConnector(server.URL)

	_, err := c.NormalizeText(context.Background(), "текст", entity.EnrichHintDescription)
	require.ErrorIs(t, err, entity.ErrEnrichmentUnavailable)
	assert.EqualValues(t, 1, calls.Load(), "client errors are not retried")

	c.config.CompletionsEndpoint = "/chat/completions?empty=1"
	_, err = c.NormalizeText(context.Background(), "текст", entity.EnrichHintDescription)
	require.ErrorIs(t, err, entity.ErrEnrichmentUnavailable)
}

func TestNormalizePrompt(t *testing.T) {
	assert.Equal(t, promptSpecialization, normalizePrompt(entity.EnrichHintSpecialization))
	assert.Equal(t, promptDescription, normalizePrompt(entity.EnrichHintDescription))
	assert.Equal(t, promptGeneral, normalizePrompt(entity.EnrichHintGeneral))
	assert.Equal(t, promptGeneral, normalizePrompt("unknown"))
}

func TestMatchCategory(t *testing.T) {
	tests := []struct {
		answer string
		want   string
	}{
		{"Электрика", "Электрика"},
		{"  инженерные системы. ", "Инженерные системы"},
		{"Категория: Кровля", "Кровля"},
		{"нет", ""},
		{"", ""},
		{"Ландшафтный дизайн", ""},
	}

	for _, tt := range tests {
		t.Run(tt.answer, func(t *testing.T) {
			assert.Equal(t, tt.want, MatchCategory(tt.answer))
		})
	}
}

func TestMockConnector(t *testing.T) {
	m := NewMockConnector(zap.NewNop())
	ctx := context.Background()

	got, err := m.NormalizeText(ctx, "  кладу   плитку ", entity.EnrichHintSpecialization)
	require.NoError(t, err)
	assert.Equal(t, "Кладу плитку", got)

	category, err := m.ClassifyCategory(ctx, "Монтаж электрики")
	require.NoError(t, err)
	assert.Equal(t, "Электрика", category)

	category, err = m.ClassifyCategory(ctx, "Ландшафт")
	require.NoError(t, err)
	assert.Empty(t, category)
}
