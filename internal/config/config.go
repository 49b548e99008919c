package config

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	pkgRetry "github.com/EdnondDantes/golosStroyki/internal/pkg/retry"
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	SessionStorageMemory   = "memory"
	SessionStoragePostgres = "postgres"
)

// Config holds the application configuration
type Config struct {
	// Server configuration
	ServerAddr string `env:"SERVER_ADDR" envDefault:":8080"`
	APIToken   string `env:"API_TOKEN"`

	// Database configuration
	DatabaseURL         string        `env:"DATABASE_URL,notEmpty"`
	DBMaxConns          int           `env:"DB_MAX_CONNS" envDefault:"25"`
	DBMinConns          int           `env:"DB_MIN_CONNS" envDefault:"5"`
	DBMaxConnLifetime   time.Duration `env:"DB_MAX_CONN_LIFETIME" envDefault:"1h"`
	DBMaxConnIdleTime   time.Duration `env:"DB_MAX_CONN_IDLE_TIME" envDefault:"30m"`
	DBHealthCheckPeriod time.Duration `env:"DB_HEALTH_CHECK_PERIOD" envDefault:"1m"`

	// External service configurations
	LLMConnectorCfg     LLMConnectorConfig     `envPrefix:"LLM_"`
	ASRConnectorCfg     ASRConnectorConfig     `envPrefix:"ASR_"`
	WebhookConnectorCfg WebhookConnectorConfig `envPrefix:"WEBHOOK_"`

	// Upper bound for a single enrichment call, retries included
	EnrichmentTimeout time.Duration `env:"ENRICHMENT_TIMEOUT" envDefault:"5s"`

	// Logging configuration
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// Mock configuration
	EnableMocks bool `env:"ENABLE_MOCKS" envDefault:"false"`

	TelegramCfg TelegramConfig `envPrefix:"TELEGRAM_"`
	SessionCfg  SessionConfig  `envPrefix:"SESSION_"`

	// FAQ answers (loaded from JSON file)
	FAQFile string `env:"FAQ_FILE" envDefault:"internal/config/faq.json"`
	FAQ     []FAQEntry

	// Environment (set from flag, not from env var)
	Environment string
}

// TelegramConfig holds Telegram bot configuration
type TelegramConfig struct {
	BotToken            string        `env:"BOT_TOKEN,notEmpty"`
	ChannelID           string        `env:"CHANNEL_ID"` // @name or numeric id
	RequireSubscription bool          `env:"REQUIRE_SUBSCRIPTION" envDefault:"true"`
	PublishToChannel    bool          `env:"PUBLISH_TO_CHANNEL" envDefault:"true"`
	UpdateTimeout       int           `env:"UPDATE_TIMEOUT" envDefault:"60"`
	MaxConcurrentUsers  int           `env:"MAX_CONCURRENT_USERS" envDefault:"100"`
	RateLimitPerMinute  int           `env:"RATE_LIMIT_PER_MINUTE" envDefault:"30"`
	RateLimitBurst      int           `env:"RATE_LIMIT_BURST" envDefault:"5"`
	ShutdownTimeout     int           `env:"SHUTDOWN_TIMEOUT" envDefault:"10"` // seconds
	NoticeTTL           time.Duration `env:"NOTICE_TTL" envDefault:"7s"`
	ProcessingNoticeTTL time.Duration `env:"PROCESSING_NOTICE_TTL" envDefault:"3s"`
	MaxVoiceSize        int64         `env:"MAX_VOICE_SIZE" envDefault:"1048576"`
	SearchPageSize      int           `env:"SEARCH_PAGE_SIZE" envDefault:"3"`
}

// Channel splits CHANNEL_ID into a numeric chat id or a public @username.
func (c TelegramConfig) Channel() (chatID int64, username string) {
	channel := strings.TrimSpace(c.ChannelID)
	if id, err := strconv.ParseInt(channel, 10, 64); err == nil {
		return id, ""
	}
	if channel == "" {
		return 0, ""
	}
	return 0, "@" + strings.TrimPrefix(channel, "@")
}

// ChannelURL is the public link of the channel, empty for numeric ids.
func (c TelegramConfig) ChannelURL() string {
	_, username := c.Channel()
	if username == "" {
		return ""
	}
	return "https://t.me/" + strings.TrimPrefix(username, "@")
}

type SessionConfig struct {
	TTL             time.Duration `env:"TTL" envDefault:"24h"`
	CleanupInterval time.Duration `env:"CLEANUP_INTERVAL" envDefault:"10m"`
	Storage         string        `env:"STORAGE" envDefault:"memory"`
}

type LLMConnectorConfig struct {
	HTTPClientConfig
	Model               string               `env:"MODEL" envDefault:"deepseek-chat"`
	CompletionsEndpoint string               `env:"COMPLETIONS_ENDPOINT" envDefault:"/chat/completions"`
	Temperature         float64              `env:"TEMPERATURE" envDefault:"0.2"`
	MaxTokens           int                  `env:"MAX_TOKENS" envDefault:"400"`
	Retry               pkgRetry.RetryConfig `envPrefix:"RETRY_"`
}

type ASRConnectorConfig struct {
	HTTPClientConfig
	FolderID          string               `env:"FOLDER_ID"`
	Language          string               `env:"LANGUAGE" envDefault:"ru-RU"`
	RecognizeEndpoint string               `env:"RECOGNIZE_ENDPOINT" envDefault:"/speech/v1/stt:recognize"`
	Retry             pkgRetry.RetryConfig `envPrefix:"RETRY_"`
}

type WebhookConnectorConfig struct {
	HTTPClientConfig
	Endpoint string               `env:"ENDPOINT"`
	Retry    pkgRetry.RetryConfig `envPrefix:"RETRY_"`
}

// Enabled reports whether a moderation webhook is configured.
func (c WebhookConnectorConfig) Enabled() bool {
	return c.Url != ""
}

type HTTPClientConfig struct {
	RequestTimeout        time.Duration `env:"TIMEOUT" envDefault:"30s"`
	ConnTimeout           time.Duration `env:"CONN_TIMEOUT" envDefault:"5s"`
	KeepAlive             time.Duration `env:"KEEP_ALIVE" envDefault:"90s"`
	IdleConnTimeout       time.Duration `env:"IDLE_CONN_TIMEOUT" envDefault:"90s"`
	ResponseHeaderTimeout time.Duration `env:"RESPONSE_HEADER_TIMEOUT" envDefault:"20s"`
	Token                 string        `env:"TOKEN"`
	Url                   string        `env:"SERVICE_URL"`
}

// FAQEntry is one question of the FAQ menu.
type FAQEntry struct {
	Key      string `json:"key"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type faqFile struct {
	Entries []FAQEntry `json:"entries"`
}

func LoadConfig() (*Config, error) {
	envFlag := flag.String("env", "local", "Environment to run (local, prod, or custom)")
	flag.Parse()

	envFile := getEnvFile(*envFlag)
	// Try to load env file, but don't fail if it's missing.
	// In containerized/prod environments variables are usually set externally.
	if err := godotenv.Load(envFile); err != nil {
		fmt.Printf("Warning: could not load %s file (this is ok if env vars are set externally): %v\n", envFile, err)
	}

	cfg, err := Parse()
	if err != nil {
		return nil, err
	}
	cfg.Environment = *envFlag

	return cfg, nil
}

// Parse reads the configuration from the process environment.
func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	if err := loadFAQ(cfg); err != nil {
		return nil, fmt.Errorf("load faq: %w", err)
	}

	return cfg, nil
}

func validateConfig(cfg *Config) error {
	var errors []string

	// Validate Telegram configuration
	if cfg.TelegramCfg.RateLimitPerMinute < 1 || cfg.TelegramCfg.RateLimitPerMinute > 60 {
		errors = append(errors, fmt.Sprintf("TELEGRAM_RATE_LIMIT_PER_MINUTE must be between 1 and 60, got %d", cfg.TelegramCfg.RateLimitPerMinute))
	}

	if cfg.TelegramCfg.RateLimitBurst < 1 || cfg.TelegramCfg.RateLimitBurst > 20 {
		errors = append(errors, fmt.Sprintf("TELEGRAM_RATE_LIMIT_BURST must be between 1 and 20, got %d", cfg.TelegramCfg.RateLimitBurst))
	}

	if cfg.TelegramCfg.ShutdownTimeout < 1 || cfg.TelegramCfg.ShutdownTimeout > 300 {
		errors = append(errors, fmt.Sprintf("TELEGRAM_SHUTDOWN_TIMEOUT must be between 1 and 300 seconds, got %d", cfg.TelegramCfg.ShutdownTimeout))
	}

	if cfg.TelegramCfg.MaxConcurrentUsers < 1 {
		errors = append(errors, fmt.Sprintf("TELEGRAM_MAX_CONCURRENT_USERS must be positive, got %d", cfg.TelegramCfg.MaxConcurrentUsers))
	}

	if cfg.TelegramCfg.SearchPageSize < 1 || cfg.TelegramCfg.SearchPageSize > 10 {
		errors = append(errors, fmt.Sprintf("TELEGRAM_SEARCH_PAGE_SIZE must be between 1 and 10, got %d", cfg.TelegramCfg.SearchPageSize))
	}

	if cfg.TelegramCfg.RequireSubscription || cfg.TelegramCfg.PublishToChannel {
		if chatID, username := cfg.TelegramCfg.Channel(); chatID == 0 && username == "" {
			errors = append(errors, "TELEGRAM_CHANNEL_ID is required when subscription check or channel publishing is enabled")
		}
	}

	// Validate session configuration
	if cfg.SessionCfg.TTL <= 0 {
		errors = append(errors, fmt.Sprintf("SESSION_TTL must be positive, got %s", cfg.SessionCfg.TTL))
	}

	if cfg.SessionCfg.Storage != SessionStorageMemory && cfg.SessionCfg.Storage != SessionStoragePostgres {
		errors = append(errors, fmt.Sprintf("SESSION_STORAGE must be %q or %q, got %q", SessionStorageMemory, SessionStoragePostgres, cfg.SessionCfg.Storage))
	}

	if cfg.EnrichmentTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("ENRICHMENT_TIMEOUT must be positive, got %s", cfg.EnrichmentTimeout))
	}

	// External services are only required when they are not mocked
	if !cfg.EnableMocks {
		if cfg.LLMConnectorCfg.Url == "" {
			errors = append(errors, "LLM_SERVICE_URL is required unless ENABLE_MOCKS is set")
		}
		if cfg.ASRConnectorCfg.Url == "" {
			errors = append(errors, "ASR_SERVICE_URL is required unless ENABLE_MOCKS is set")
		}
	}

	// Validate Database configuration
	if cfg.DBMaxConns < 1 || cfg.DBMaxConns > 200 {
		errors = append(errors, fmt.Sprintf("DB_MAX_CONNS must be between 1 and 200, got %d", cfg.DBMaxConns))
	}

	if cfg.DBMinConns < 0 || cfg.DBMinConns > cfg.DBMaxConns {
		errors = append(errors, fmt.Sprintf("DB_MIN_CONNS must be between 0 and DB_MAX_CONNS(%d), got %d", cfg.DBMaxConns, cfg.DBMinConns))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation errors:\n  - %s", strings.Join(errors, "\n  - "))
	}

	return nil
}

var defaultFAQ = []FAQEntry{
	{
		Key:      "how_works",
		Question: "Как работает каталог?",
		Answer: "Каталог «Голос Стройки» — это база проверенных подрядчиков.\n\n" +
			"✅ Все анкеты проходят модерацию\n" +
			"✅ Прямой контакт с мастером\n" +
			"✅ Поиск по городу и специализации\n\n" +
			"Это удобный способ найти надёжного исполнителя для твоего проекта!",
	},
	{
		Key:      "how_add",
		Question: "Как добавить себя в каталог?",
		Answer: "Это очень просто:\n\n" +
			"1️⃣ Выбери в главном меню, кого добавляем\n" +
			"2️⃣ Заполни короткую анкету (2-3 минуты)\n" +
			"3️⃣ Отправь анкету на модерацию\n" +
			"4️⃣ Получи уведомление об одобрении\n\n" +
			"После модерации твоя карточка появится в каталоге, и клиенты смогут с тобой связаться!",
	},
	{
		Key:      "price",
		Question: "Сколько стоит размещение?",
		Answer: "Размещение в каталоге «Голос Стройки» — БЕСПЛАТНО! 🎉\n\n" +
			"✅ Бесплатное создание карточки\n" +
			"✅ Бесплатная модерация\n" +
			"✅ Неограниченное время размещения\n\n" +
			"Мы хотим помочь мастерам найти клиентов, а клиентам — надёжных подрядчиков.",
	},
	{
		Key:      "complaint",
		Question: "Как пожаловаться на подрядчика?",
		Answer: "Если у тебя возникла проблема с подрядчиком:\n\n" +
			"1️⃣ Нажми «⭕️ Отправить жалобу» в главном меню\n" +
			"2️⃣ Опиши ситуацию подробно\n" +
			"3️⃣ Укажи имя подрядчика и его контакт\n\n" +
			"Мы рассмотрим жалобу в течение 24 часов и примем меры: от предупреждения до удаления из каталога.",
	},
}

func loadFAQ(cfg *Config) error {
	if _, err := os.Stat(cfg.FAQFile); os.IsNotExist(err) {
		cfg.FAQ = defaultFAQ
		return nil
	}

	data, err := os.ReadFile(cfg.FAQFile)
	if err != nil {
		return fmt.Errorf("read faq file: %w", err)
	}

	var parsed faqFile
	if err := json.Unmarshal(data, &parsed); err != nil {
		return fmt.Errorf("parse faq JSON: %w", err)
	}

	if len(parsed.Entries) == 0 {
		return fmt.Errorf("faq file contains no entries: %s", cfg.FAQFile)
	}

	for i, entry := range parsed.Entries {
		if entry.Key == "" || entry.Question == "" || entry.Answer == "" {
			return fmt.Errorf("faq entry %d: key, question and answer are required", i)
		}
	}

	cfg.FAQ = parsed.Entries
	return nil
}

func getEnvFile(environment string) string {
	switch environment {
	case "prod", "production":
		return ".env.prod"
	case "local", "dev", "development":
		return ".env.local"
	default:
		return fmt.Sprintf(".env.%s", environment)
	}
}
