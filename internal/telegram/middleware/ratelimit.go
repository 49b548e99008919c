package middleware

import (
	"context"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const (
	warningInterval   = 30 * time.Second
	cleanupInterval   = 10 * time.Minute
	inactiveThreshold = time.Hour
)

// userLimit tracks rate limit state for a single user
type userLimit struct {
	tokens        float64
	lastRefill    time.Time
	warningsSent  int
	lastWarningAt time.Time
	mu            sync.Mutex
}

// RateLimiterMiddleware implements token bucket rate limiting per user
type RateLimiterMiddleware struct {
	limits     map[int64]*userLimit
	mu         sync.Mutex
	maxTokens  float64
	refillRate float64 // tokens per second
	sender     Sender
	logger     *zap.Logger
	now        func() time.Time
}

// NewRateLimiterMiddleware creates a new rate limiter middleware. Inactive
// users are forgotten until ctx is done.
func NewRateLimiterMiddleware(
	ctx context.Context,
	requestsPerMinute int,
	burstSize int,
	sender Sender,
	logger *zap.Logger,
) *RateLimiterMiddleware {
	if burstSize <= 0 {
		burstSize = requestsPerMinute
	}

	rl := &RateLimiterMiddleware{
		limits:     make(map[int64]*userLimit),
		maxTokens:  float64(burstSize),
		refillRate: float64(requestsPerMinute) / 60.0,
		sender:     sender,
		logger:     logger,
		now:        time.Now,
	}

	go rl.cleanupInactiveUsers(ctx)

	return rl
}

// Handle processes the update through rate limiting
func (rl *RateLimiterMiddleware) Handle(ctx context.Context, update tgbotapi.Update, next Next) {
	userID, chatID, ok := Origin(update)
	if !ok {
		next(ctx, update)
		return
	}

	allowed, warning := rl.allowRequest(userID)
	if allowed {
		next(ctx, update)
		return
	}

	ctxzap.Warn(ctx, "rate limit exceeded")

	if update.CallbackQuery != nil {
		if _, err := rl.sender.Request(tgbotapi.NewCallback(update.CallbackQuery.ID, warningText(1))); err != nil {
			ctxzap.Debug(ctx, "failed to answer throttled callback", zap.Error(err))
		}
	}
	if warning > 0 && chatID != 0 {
		rl.sendRateLimitWarning(ctx, chatID, warning)
	}
}

// allowRequest takes a token from the user's bucket. When the bucket is
// empty it also reports which warning, if any, is due.
func (rl *RateLimiterMiddleware) allowRequest(userID int64) (bool, int) {
	now := rl.now()

	rl.mu.Lock()
	limit, exists := rl.limits[userID]
	if !exists {
		limit = &userLimit{
			tokens:     rl.maxTokens,
			lastRefill: now,
		}
		rl.limits[userID] = limit
	}
	rl.mu.Unlock()

	limit.mu.Lock()
	defer limit.mu.Unlock()

	elapsed := now.Sub(limit.lastRefill).Seconds()
	limit.tokens = min(rl.maxTokens, limit.tokens+elapsed*rl.refillRate)
	limit.lastRefill = now

	if limit.tokens >= 1.0 {
		limit.tokens -= 1.0
		limit.warningsSent = 0
		return true, 0
	}

	if now.Sub(limit.lastWarningAt) > warningInterval {
		limit.warningsSent++
		limit.lastWarningAt = now
		return false, limit.warningsSent
	}

	return false, 0
}

func warningText(warningCount int) string {
	switch {
	case warningCount <= 1:
		return "⚠️ Слишком много запросов. Пожалуйста, подожди немного."
	case warningCount == 2:
		return "⚠️ Превышен лимит запросов. Подожди ~30 секунд перед следующей попыткой."
	default:
		return "🛑 Ты отправляешь запросы слишком часто. Пожалуйста, подожди минуту."
	}
}

// sendRateLimitWarning sends a warning message to the user
func (rl *RateLimiterMiddleware) sendRateLimitWarning(ctx context.Context, chatID int64, warningCount int) {
	if _, err := rl.sender.Send(tgbotapi.NewMessage(chatID, warningText(warningCount))); err != nil {
		ctxzap.Error(ctx, "failed to send rate limit warning", zap.Error(err))
	}
}

// cleanupInactiveUsers removes users that haven't sent requests in an hour
func (rl *RateLimiterMiddleware) cleanupInactiveUsers(ctx context.Context) {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rl.cleanup()
		}
	}
}

func (rl *RateLimiterMiddleware) cleanup() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	for userID, limit := range rl.limits {
		limit.mu.Lock()
		if now.Sub(limit.lastRefill) > inactiveThreshold {
			delete(rl.limits, userID)
			rl.logger.Debug("cleaned up inactive user from rate limiter",
				zap.Int64("user_id", userID),
			)
		}
		limit.mu.Unlock()
	}
}
