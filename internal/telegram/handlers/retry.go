package handlers

import (
	"context"
	"errors"
	"net"
	"time"

	pkgretry "github.com/EdnondDantes/golosStroyki/internal/pkg/retry"
	"github.com/avast/retry-go/v4"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// maxRetryAfter caps how long flood control may hold a critical message.
const maxRetryAfter = 5 * time.Second

// isRetryableSend accepts flood control, server side and network failures.
func isRetryableSend(err error) bool {
	var apiErr *tgbotapi.Error
	if errors.As(err, &apiErr) {
		return apiErr.RetryAfter > 0 || apiErr.Code == 429 || apiErr.Code >= 500
	}

	var netErr net.Error
	return errors.As(err, &netErr)
}

// retryAfter honours the delay Telegram asks for and backs off otherwise.
func retryAfter(n uint, err error, config *retry.Config) time.Duration {
	var apiErr *tgbotapi.Error
	if errors.As(err, &apiErr) && apiErr.RetryAfter > 0 {
		return min(time.Duration(apiErr.RetryAfter)*time.Second, maxRetryAfter)
	}
	return retry.BackOffDelay(n, err, config)
}

// sendWithRetry sends a message with retry logic for critical messages
func sendWithRetry(ctx context.Context, api API, cfg *pkgretry.RetryConfig, c tgbotapi.Chattable) (tgbotapi.Message, error) {
	opts := append(cfg.ToRetryOptions(ctx, isRetryableSend),
		retry.DelayType(retryAfter),
		retry.OnRetry(func(n uint, err error) {
			ctxzap.Warn(ctx, "failed to send message, retrying",
				zap.Error(err),
				zap.Uint("attempt", n+1),
			)
		}),
	)

	sent, err := retry.DoWithData(func() (tgbotapi.Message, error) {
		return api.Send(c)
	}, opts...)
	if err != nil {
		ctxzap.Error(ctx, "failed to send message after all retries", zap.Error(err))
		return tgbotapi.Message{}, err
	}
	return sent, nil
}
