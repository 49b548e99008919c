package middleware

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeSender struct {
	mu       sync.Mutex
	sent     []tgbotapi.Chattable
	requests []tgbotapi.Chattable
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, c)
	return tgbotapi.Message{}, nil
}

func (f *fakeSender) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, c)
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (f *fakeSender) sentCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

func textUpdate(userID int64, text string) tgbotapi.Update {
	return tgbotapi.Update{
		UpdateID: 1,
		Message: &tgbotapi.Message{
			From: &tgbotapi.User{ID: userID},
			Chat: &tgbotapi.Chat{ID: userID},
			Text: text,
		},
	}
}

type recordingMiddleware struct {
	name  string
	trace *[]string
}

func (m recordingMiddleware) Handle(ctx context.Context, update tgbotapi.Update, next Next) {
	*m.trace = append(*m.trace, m.name)
	next(ctx, update)
}

func TestChainOrder(t *testing.T) {
	var trace []string
	handler := Chain(func(context.Context, tgbotapi.Update) {
		trace = append(trace, "handler")
	},
		recordingMiddleware{name: "first", trace: &trace},
		recordingMiddleware{name: "second", trace: &trace},
	)

	handler(context.Background(), textUpdate(1, "hi"))

	assert.Equal(t, []string{"first", "second", "handler"}, trace)
}

func TestOrigin(t *testing.T) {
	userID, chatID, ok := Origin(textUpdate(7, "hi"))
	require.True(t, ok)
	assert.Equal(t, int64(7), userID)
	assert.Equal(t, int64(7), chatID)

	callback := tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{
		From:    &tgbotapi.User{ID: 3},
		Message: &tgbotapi.Message{Chat: &tgbotapi.Chat{ID: 30}},
	}}
	userID, chatID, ok = Origin(callback)
	require.True(t, ok)
	assert.Equal(t, int64(3), userID)
	assert.Equal(t, int64(30), chatID)

	_, _, ok = Origin(tgbotapi.Update{})
	assert.False(t, ok)
}

func TestRateLimiter(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sender := &fakeSender{}
	rl := NewRateLimiterMiddleware(ctx, 60, 2, sender, zap.NewNop())
	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	var handled int
	next := func(context.Context, tgbotapi.Update) { handled++ }

	for range 4 {
		rl.Handle(ctx, textUpdate(1, "hi"), next)
	}
	assert.Equal(t, 2, handled, "burst exhausted")
	assert.Equal(t, 1, sender.sentCount(), "one warning per interval")

	rl.Handle(ctx, textUpdate(2, "hi"), next)
	assert.Equal(t, 3, handled, "other users keep their own bucket")

	now = now.Add(2 * time.Second)
	rl.Handle(ctx, textUpdate(1, "hi"), next)
	assert.Equal(t, 4, handled, "tokens refill over time")

	now = now.Add(2 * time.Hour)
	rl.cleanup()
	rl.mu.Lock()
	assert.Empty(t, rl.limits)
	rl.mu.Unlock()
}

func TestRecovery(t *testing.T) {
	sender := &fakeSender{}
	mw := NewRecoveryMiddleware(sender)

	assert.NotPanics(t, func() {
		mw.Handle(context.Background(), textUpdate(5, "boom"), func(context.Context, tgbotapi.Update) {
			panic("boom")
		})
	})
	assert.Equal(t, 1, sender.sentCount())
}

type stripedLocker struct {
	mu sync.Mutex
}

func (l *stripedLocker) Lock(int64) func() {
	l.mu.Lock()
	return l.mu.Unlock
}

func TestSerialize(t *testing.T) {
	mw := NewSerializeMiddleware(&stripedLocker{})

	var inside, maxInside atomic.Int32
	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			mw.Handle(context.Background(), textUpdate(1, "hi"), func(context.Context, tgbotapi.Update) {
				n := inside.Add(1)
				if n > maxInside.Load() {
					maxInside.Store(n)
				}
				time.Sleep(time.Millisecond)
				inside.Add(-1)
			})
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), maxInside.Load())
}
