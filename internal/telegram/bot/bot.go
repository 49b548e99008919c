package bot

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/EdnondDantes/golosStroyki/internal/config"
	"github.com/EdnondDantes/golosStroyki/internal/telegram/middleware"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// Updater is the part of the Bot API the polling loop needs.
type Updater interface {
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// Bot polls Telegram for updates and runs each of them through the handler
// chain in its own goroutine.
type Bot struct {
	api       Updater
	cfg       *config.TelegramConfig
	handle    middleware.Next
	semaphore chan struct{}
	logger    *zap.Logger

	updatesChan tgbotapi.UpdatesChannel
	stopChan    chan struct{}
	stopOnce    sync.Once
	wg          sync.WaitGroup
}

// New creates a new Telegram bot. handle is the fully assembled update chain.
func New(api Updater, cfg *config.TelegramConfig, handle middleware.Next, logger *zap.Logger) *Bot {
	return &Bot{
		api:       api,
		cfg:       cfg,
		handle:    handle,
		semaphore: make(chan struct{}, max(cfg.MaxConcurrentUsers, 1)),
		logger:    logger,
		stopChan:  make(chan struct{}),
	}
}

// Start starts the bot
func (b *Bot) Start(ctx context.Context) error {
	b.logger.Info("starting telegram bot")

	u := tgbotapi.NewUpdate(0)
	u.Timeout = b.cfg.UpdateTimeout
	u.AllowedUpdates = []string{"message", "callback_query"}

	b.updatesChan = b.api.GetUpdatesChan(u)

	ctx = ctxzap.ToContext(ctx, b.logger)
	go b.processUpdates(ctx)

	b.logger.Info("telegram bot started successfully")
	return nil
}

// Stop stops receiving updates and waits for in-flight ones up to the
// configured shutdown timeout.
func (b *Bot) Stop() error {
	b.logger.Info("stopping telegram bot")

	b.stopOnce.Do(func() {
		close(b.stopChan)
		b.api.StopReceivingUpdates()
	})

	done := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(done)
	}()

	shutdownTimeout := time.Duration(b.cfg.ShutdownTimeout) * time.Second
	select {
	case <-done:
		b.logger.Info("all handlers completed gracefully")
	case <-time.After(shutdownTimeout):
		b.logger.Warn("shutdown timeout exceeded, some handlers may not have completed",
			zap.Duration("timeout", shutdownTimeout),
		)
		return fmt.Errorf("shutdown timeout exceeded")
	}

	b.logger.Info("telegram bot stopped successfully")
	return nil
}

func (b *Bot) processUpdates(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			ctxzap.Info(ctx, "context cancelled, stopping update processing")
			return
		case <-b.stopChan:
			ctxzap.Info(ctx, "stop signal received, stopping update processing")
			return
		case update, ok := <-b.updatesChan:
			if !ok {
				ctxzap.Info(ctx, "updates channel closed")
				return
			}
			b.dispatch(ctx, update)
		}
	}
}

// dispatch blocks while MaxConcurrentUsers updates are in flight.
func (b *Bot) dispatch(ctx context.Context, update tgbotapi.Update) {
	select {
	case b.semaphore <- struct{}{}:
	case <-ctx.Done():
		return
	case <-b.stopChan:
		return
	}

	b.wg.Add(1)
	go func() {
		defer func() {
			<-b.semaphore
			b.wg.Done()
		}()
		b.handle(context.WithoutCancel(ctx), update)
	}()
}
