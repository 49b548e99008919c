package builder

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/EdnondDantes/golosStroyki/internal/api"
	complaintapi "github.com/EdnondDantes/golosStroyki/internal/api/complaint"
	recordapi "github.com/EdnondDantes/golosStroyki/internal/api/record"
	"github.com/EdnondDantes/golosStroyki/internal/config"
	"github.com/EdnondDantes/golosStroyki/internal/form"
	"github.com/EdnondDantes/golosStroyki/internal/integration/asr"
	"github.com/EdnondDantes/golosStroyki/internal/integration/llm"
	"github.com/EdnondDantes/golosStroyki/internal/integration/webhook"
	"github.com/EdnondDantes/golosStroyki/internal/pkg/formatter"
	applogger "github.com/EdnondDantes/golosStroyki/internal/pkg/logger"
	"github.com/EdnondDantes/golosStroyki/internal/pkg/scheduler"
	"github.com/EdnondDantes/golosStroyki/internal/pkg/validator"
	"github.com/EdnondDantes/golosStroyki/internal/repository"
	"github.com/EdnondDantes/golosStroyki/internal/telegram"
	"github.com/EdnondDantes/golosStroyki/internal/telegram/channel"
	"github.com/EdnondDantes/golosStroyki/internal/telegram/handlers"
	"github.com/EdnondDantes/golosStroyki/internal/telegram/state"
	"github.com/EdnondDantes/golosStroyki/internal/usecase/complaint"
	"github.com/EdnondDantes/golosStroyki/internal/usecase/directory"
	"github.com/EdnondDantes/golosStroyki/internal/usecase/flow"
	"github.com/EdnondDantes/golosStroyki/internal/usecase/moderation"
	"github.com/EdnondDantes/golosStroyki/internal/usecase/submission"
	pkgHTTP "github.com/EdnondDantes/golosStroyki/pkg/http"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const downloadTimeout = 30 * time.Second

// Webhook is every moderation event the connectors report.
type Webhook interface {
	submission.Notifier
	complaint.Notifier
	moderation.Webhook
}

type connectors struct {
	enricher    form.Enricher
	classifier  submission.Classifier
	transcriber handlers.Transcriber
	webhook     Webhook
}

// Build assembles the moderation API.
func Build() (*App, error) {
	ctx := context.Background()

	cfg, logger, db, err := bootstrap(ctx, "moderation-api", "Building moderation API")
	if err != nil {
		return nil, err
	}

	recordRepo := repository.NewRecordPostgres(db)
	complaintRepo := repository.NewComplaintPostgres(db)
	logger.Info("Repositories initialized")

	conns := newConnectors(cfg, logger)

	var notifier moderation.SubmitterNotifier
	if botAPI, err := telegram.NewAPI(&cfg.TelegramCfg, logger); err != nil {
		logger.Warn("telegram unavailable, submitters will not be notified", zap.Error(err))
	} else {
		notifier = newPublisher(cfg, botAPI)
	}

	moderationUC := moderation.New(recordRepo, complaintRepo, notifier, conns.webhook, formatter.NewFactory())
	logger.Info("Use cases initialized")

	v := validator.New()
	router := api.SetupRouter(
		recordapi.NewHandler(moderationUC, v),
		complaintapi.NewHandler(moderationUC, v),
		cfg.APIToken,
		logger,
	)
	if cfg.APIToken == "" {
		logger.Warn("API_TOKEN is empty, every moderation request will be rejected")
	}

	server := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("Application built successfully",
		zap.String("environment", cfg.Environment),
	)

	return &App{
		server: server,
		db:     db,
		logger: logger,
	}, nil
}

// BuildTelegramBot assembles the Telegram bot and everything it runs on.
func BuildTelegramBot() (*BotApp, error) {
	ctx, cancel := context.WithCancel(context.Background())

	cfg, logger, db, err := bootstrap(ctx, "telegram-bot", "Building Telegram bot")
	if err != nil {
		cancel()
		return nil, err
	}

	fail := func(err error) (*BotApp, error) {
		cancel()
		db.Close()
		return nil, err
	}

	recordRepo := repository.NewRecordPostgres(db)
	complaintRepo := repository.NewComplaintPostgres(db)

	storage, purger := setupStateStorage(cfg, db)
	stateManager := state.NewManager(storage)
	logger.Info("Repositories initialized", zap.String("session_storage", cfg.SessionCfg.Storage))

	conns := newConnectors(cfg, logger)

	botAPI, err := telegram.NewAPI(&cfg.TelegramCfg, logger)
	if err != nil {
		return fail(fmt.Errorf("initialize telegram API: %w", err))
	}

	var publisher submission.Publisher
	if cfg.TelegramCfg.PublishToChannel {
		publisher = newPublisher(cfg, botAPI)
	}

	committer := submission.NewCommitter(recordRepo, publisher, conns.classifier, conns.webhook, cfg.EnrichmentTimeout)
	flowService := flow.NewService(form.NewMachine(conns.enricher, cfg.EnrichmentTimeout), stateManager, committer)
	logger.Info("Use cases initialized")

	downloader := pkgHTTP.NewConnector(
		&pkgHTTP.ConnectorConfig{Logger: logger},
		pkgHTTP.WithRequestTimeout(downloadTimeout),
	)
	sched := scheduler.New(ctx)

	bot := telegram.NewBot(ctx, botAPI, &cfg.TelegramCfg, telegram.Dependencies{
		StateManager: stateManager,
		Flow:         flowService,
		Directory:    directory.New(recordRepo, cfg.TelegramCfg.SearchPageSize),
		Complaints:   complaint.New(complaintRepo, conns.webhook),
		Transcriber:  conns.transcriber,
		Downloader:   downloader,
		Scheduler:    sched,
		FAQ:          cfg.FAQ,
	}, logger)

	logger.Info("Telegram bot built successfully",
		zap.String("environment", cfg.Environment),
	)

	return &BotApp{
		bot:       bot,
		db:        db,
		scheduler: sched,
		purger:    purger,
		purgeTick: cfg.SessionCfg.CleanupInterval,
		logger:    logger,
		ctx:       ctx,
		cancel:    cancel,
	}, nil
}

func bootstrap(ctx context.Context, app, title string) (*config.Config, *zap.Logger, *pgxpool.Pool, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := applogger.New(cfg.LogLevel, cfg.Environment)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("setup logger: %w", err)
	}

	logger.Info(title,
		zap.String("environment", cfg.Environment),
		zap.String("server_addr", cfg.ServerAddr),
	)

	db, err := openDatabase(ctx, cfg, app, logger)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("setup database: %w", err)
	}

	logger.Info("Running database migrations")
	if err := repository.RunMigrations(cfg.DatabaseURL); err != nil {
		db.Close()
		return nil, nil, nil, fmt.Errorf("run migrations: %w", err)
	}
	logger.Info("Database migrations completed successfully")

	return cfg, logger, db, nil
}

func newConnectors(cfg *config.Config, logger *zap.Logger) connectors {
	var conns connectors

	if cfg.EnableMocks {
		logger.Info("Using mock connectors for external services")
		llmConnector := llm.NewMockConnector(logger)
		conns.enricher = llmConnector
		conns.classifier = llmConnector
		conns.transcriber = asr.NewMockConnector(logger)
	} else {
		logger.Info("Using real connectors for external services")
		llmConnector := llm.NewConnector(cfg.LLMConnectorCfg, logger)
		conns.enricher = llmConnector
		conns.classifier = llmConnector
		conns.transcriber = asr.NewConnector(cfg.ASRConnectorCfg, logger)
	}

	if cfg.WebhookConnectorCfg.Enabled() {
		conns.webhook = webhook.NewConnector(cfg.WebhookConnectorCfg, logger)
	} else {
		conns.webhook = webhook.NewNopConnector()
	}

	return conns
}

func newPublisher(cfg *config.Config, botAPI *tgbotapi.BotAPI) *channel.Publisher {
	chatID, username := cfg.TelegramCfg.Channel()
	return channel.NewPublisher(botAPI, chatID, username, botAPI.Self.UserName)
}

func setupStateStorage(cfg *config.Config, db *pgxpool.Pool) (state.Storage, statePurger) {
	if cfg.SessionCfg.Storage == config.SessionStoragePostgres {
		storage := repository.NewTelegramStatePostgres(db, cfg.SessionCfg.TTL)
		return storage, storage
	}
	return state.NewMemoryStorage(cfg.SessionCfg.TTL, cfg.SessionCfg.CleanupInterval), nil
}
