package bot

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/EdnondDantes/golosStroyki/internal/config"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeUpdater struct {
	updates chan tgbotapi.Update
	stopped atomic.Bool
}

func (f *fakeUpdater) GetUpdatesChan(tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel {
	return f.updates
}

func (f *fakeUpdater) StopReceivingUpdates() {
	f.stopped.Store(true)
}

func testConfig(concurrency int) *config.TelegramConfig {
	return &config.TelegramConfig{
		UpdateTimeout:      1,
		MaxConcurrentUsers: concurrency,
		ShutdownTimeout:    1,
	}
}

func TestBot_HandlesEveryUpdate(t *testing.T) {
	updater := &fakeUpdater{updates: make(chan tgbotapi.Update, 10)}

	var mu sync.Mutex
	var seen []int
	b := New(updater, testConfig(4), func(_ context.Context, update tgbotapi.Update) {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, update.UpdateID)
	}, zap.NewNop())

	require.NoError(t, b.Start(context.Background()))
	for i := range 5 {
		updater.updates <- tgbotapi.Update{UpdateID: i}
	}

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(seen) == 5
	}, time.Second, 10*time.Millisecond)

	require.NoError(t, b.Stop())
	assert.True(t, updater.stopped.Load())
}

func TestBot_LimitsConcurrency(t *testing.T) {
	updater := &fakeUpdater{updates: make(chan tgbotapi.Update, 10)}

	var running, peak atomic.Int32
	release := make(chan struct{})
	b := New(updater, testConfig(2), func(context.Context, tgbotapi.Update) {
		n := running.Add(1)
		for {
			current := peak.Load()
			if n <= current || peak.CompareAndSwap(current, n) {
				break
			}
		}
		<-release
		running.Add(-1)
	}, zap.NewNop())

	require.NoError(t, b.Start(context.Background()))
	for i := range 5 {
		updater.updates <- tgbotapi.Update{UpdateID: i}
	}

	assert.Eventually(t, func() bool { return running.Load() == 2 }, time.Second, 10*time.Millisecond)
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(2), peak.Load())

	close(release)
	require.NoError(t, b.Stop())
}

func TestBot_StopTimesOut(t *testing.T) {
	updater := &fakeUpdater{updates: make(chan tgbotapi.Update, 1)}
	block := make(chan struct{})
	defer close(block)

	started := make(chan struct{})
	b := New(updater, testConfig(1), func(context.Context, tgbotapi.Update) {
		close(started)
		<-block
	}, zap.NewNop())

	require.NoError(t, b.Start(context.Background()))
	updater.updates <- tgbotapi.Update{UpdateID: 1}
	<-started

	assert.Error(t, b.Stop())
}
