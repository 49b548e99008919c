package telegram

import (
	"context"
	"fmt"

	"github.com/EdnondDantes/golosStroyki/internal/config"
	"github.com/EdnondDantes/golosStroyki/internal/pkg/scheduler"
	"github.com/EdnondDantes/golosStroyki/internal/telegram/bot"
	"github.com/EdnondDantes/golosStroyki/internal/telegram/handlers"
	"github.com/EdnondDantes/golosStroyki/internal/telegram/keyboard"
	"github.com/EdnondDantes/golosStroyki/internal/telegram/middleware"
	"github.com/EdnondDantes/golosStroyki/internal/telegram/state"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// Bot is the main telegram bot interface
type Bot interface {
	Start(ctx context.Context) error
	Stop() error
}

// Dependencies are the use cases and connectors the handlers work with.
type Dependencies struct {
	StateManager *state.Manager
	Flow         handlers.FormFlow
	Directory    handlers.Directory
	Complaints   handlers.Complaints
	Transcriber  handlers.Transcriber
	Downloader   handlers.Downloader
	Scheduler    *scheduler.Scheduler
	FAQ          []config.FAQEntry
}

// NewAPI authorizes the bot token.
func NewAPI(cfg *config.TelegramConfig, logger *zap.Logger) (*tgbotapi.BotAPI, error) {
	api, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("create bot API: %w", err)
	}
	api.Debug = false

	logger.Info("telegram bot authorized",
		zap.String("username", api.Self.UserName),
		zap.Int64("id", api.Self.ID),
	)
	return api, nil
}

// NewBot wires handlers and middleware around an authorized API. ctx bounds
// the background work of the middleware.
func NewBot(
	ctx context.Context,
	api *tgbotapi.BotAPI,
	cfg *config.TelegramConfig,
	deps Dependencies,
	logger *zap.Logger,
) Bot {
	channelID, channelUsername := cfg.Channel()

	kb := keyboard.NewBuilder(cfg.ChannelURL(), deps.FAQ)
	sender := handlers.NewMessageSender(api, deps.Scheduler, channelID)
	subscription := handlers.NewSubscriptionChecker(api, channelID, channelUsername, cfg.RequireSubscription)
	voice := handlers.NewVoiceRecognizer(api, deps.Downloader, deps.Transcriber, cfg.MaxVoiceSize)

	router := handlers.NewRouter(deps.StateManager,
		handlers.NewMenuHandler(sender, kb, subscription, deps.Directory, cfg.NoticeTTL),
		handlers.NewFormHandler(sender, kb, deps.Flow, voice, api, cfg.NoticeTTL, cfg.ProcessingNoticeTTL),
		handlers.NewSearchHandler(sender, kb, deps.StateManager, deps.Directory, cfg.NoticeTTL, cfg.ProcessingNoticeTTL),
		handlers.NewComplaintHandler(sender, kb, deps.StateManager, deps.Complaints, cfg.NoticeTTL),
	)

	chain := middleware.Chain(router.Route,
		middleware.NewRateLimiterMiddleware(ctx, cfg.RateLimitPerMinute, cfg.RateLimitBurst, api, logger),
		middleware.NewLoggingMiddleware(logger),
		middleware.NewRecoveryMiddleware(api),
		middleware.NewSerializeMiddleware(deps.StateManager),
	)

	logger.Info("telegram handlers registered",
		zap.Bool("require_subscription", cfg.RequireSubscription),
		zap.Int("max_concurrent_users", cfg.MaxConcurrentUsers),
	)

	return bot.New(api, cfg, chain, logger)
}
