package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"

	"github.com/EdnondDantes/golosStroyki/internal/config"
	"github.com/EdnondDantes/golosStroyki/internal/entity"
	"github.com/EdnondDantes/golosStroyki/internal/integration/common"
	pkghttp "github.com/EdnondDantes/golosStroyki/pkg/http"
	"github.com/avast/retry-go/v4"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

var errEmptyCompletion = errors.New("empty completion")

// Connector talks to an OpenAI-compatible chat completions service.
type Connector struct {
	config    config.LLMConnectorConfig
	connector *pkghttp.Connector
	logger    *zap.Logger
}

func NewConnector(
	cfg config.LLMConnectorConfig,
	logger *zap.Logger,
) *Connector {
	return &Connector{
		connector: common.NewBaseConnector(cfg.HTTPClientConfig, logger),
		config:    cfg,
		logger:    logger,
	}
}

// NormalizeText fixes typos and shortens raw using the prompt selected by hint.
func (c *Connector) NormalizeText(ctx context.Context, raw string, hint entity.EnrichHint) (string, error) {
	ctxzap.Debug(ctx, "normalizing text via LLM service",
		zap.String("hint", string(hint)),
		zap.Int("length", len(raw)),
	)

	result, err := c.complete(ctx, normalizePrompt(hint), raw)
	if err != nil {
		return "", fmt.Errorf("%w: normalize text: %w", entity.ErrEnrichmentUnavailable, err)
	}

	return strings.Trim(result, "\"« »"), nil
}

// ClassifyCategory maps a contractor specialization onto ContractorCategories.
// An empty result means no category fits.
func (c *Connector) ClassifyCategory(ctx context.Context, raw string) (string, error) {
	result, err := c.complete(ctx, classifyPrompt(), raw)
	if err != nil {
		return "", fmt.Errorf("%w: classify category: %w", entity.ErrEnrichmentUnavailable, err)
	}

	return MatchCategory(result), nil
}

func (c *Connector) complete(ctx context.Context, system, user string) (string, error) {
	req := &entity.ChatCompletionRequest{
		Model: c.config.Model,
		Messages: []entity.ChatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Temperature: c.config.Temperature,
		MaxTokens:   c.config.MaxTokens,
	}

	resp, err := retry.DoWithData(func() (*entity.ChatCompletionResponse, error) {
		var resp entity.ChatCompletionResponse
		if err := c.connector.DoRequest(ctx, http.MethodPost, c.config.CompletionsEndpoint, req, &resp); err != nil {
			return nil, err
		}
		return &resp, nil
	}, c.config.Retry.ToRetryOptions(ctx, pkghttp.IsRetryable)...)
	if err != nil {
		return "", err
	}

	if len(resp.Choices) == 0 {
		return "", errEmptyCompletion
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return "", errEmptyCompletion
	}

	return content, nil
}

// MatchCategory finds a known category in a model answer, case-insensitively.
func MatchCategory(answer string) string {
	answer = strings.ToLower(strings.Trim(strings.TrimSpace(answer), "\".«»"))
	if answer == "" {
		return ""
	}

	idx := slices.IndexFunc(entity.ContractorCategories, func(category string) bool {
		return strings.ToLower(category) == answer
	})
	if idx >= 0 {
		return entity.ContractorCategories[idx]
	}

	for _, category := range entity.ContractorCategories {
		if strings.Contains(answer, strings.ToLower(category)) {
			return category
		}
	}

	return ""
}
