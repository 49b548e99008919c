package builder

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/EdnondDantes/golosStroyki/internal/pkg/scheduler"
	"github.com/EdnondDantes/golosStroyki/internal/telegram"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// statePurger removes expired sessions from persistent storage.
type statePurger interface {
	PurgeExpired(ctx context.Context) (int64, error)
}

// App represents the moderation API with all its components
type App struct {
	server *http.Server
	db     *pgxpool.Pool
	logger *zap.Logger
}

// Run starts the HTTP server and blocks until a shutdown signal or a server error.
func (a *App) Run() error {
	errChan := make(chan error, 1)
	go func() {
		a.logger.Info("Starting HTTP server", zap.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errChan:
		a.logger.Error("Server error", zap.Error(err))
		a.closeDB()
		return err
	case sig := <-sigChan:
		a.logger.Info("Received shutdown signal", zap.String("signal", sig.String()))
	}

	return a.shutdown()
}

func (a *App) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	a.logger.Info("Shutting down server gracefully")

	if err := a.server.Shutdown(ctx); err != nil {
		a.logger.Error("Server shutdown error", zap.Error(err))
		return err
	}

	a.closeDB()
	a.logger.Info("Application stopped gracefully")
	return nil
}

func (a *App) closeDB() {
	if a.db != nil {
		a.logger.Info("Closing database connections")
		a.db.Close()
	}
}

// BotApp is the Telegram bot process.
type BotApp struct {
	bot       telegram.Bot
	db        *pgxpool.Pool
	scheduler *scheduler.Scheduler
	purger    statePurger
	purgeTick time.Duration
	logger    *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc
}

// Logger is the process logger.
func (a *BotApp) Logger() *zap.Logger {
	return a.logger
}

// Run starts polling and blocks until a shutdown signal.
func (a *BotApp) Run() error {
	defer a.cancel()

	if err := a.bot.Start(a.ctx); err != nil {
		a.db.Close()
		return err
	}

	if a.purger != nil {
		go a.purgeExpiredStates()
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	sig := <-sigChan
	a.logger.Info("received shutdown signal", zap.String("signal", sig.String()))

	return a.shutdown()
}

func (a *BotApp) shutdown() error {
	err := a.bot.Stop()
	if err != nil {
		a.logger.Error("error stopping bot", zap.Error(err))
	}

	a.scheduler.Stop()
	a.cancel()

	a.logger.Info("Closing database connections")
	a.db.Close()

	a.logger.Info("telegram bot stopped gracefully")
	return err
}

func (a *BotApp) purgeExpiredStates() {
	interval := a.purgeTick
	if interval <= 0 {
		interval = 10 * time.Minute
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-a.ctx.Done():
			return
		case <-ticker.C:
			purged, err := a.purger.PurgeExpired(a.ctx)
			if err != nil {
				a.logger.Warn("failed to purge expired telegram states", zap.Error(err))
				continue
			}
			if purged > 0 {
				a.logger.Info("expired telegram states purged", zap.Int64("count", purged))
			}
		}
	}
}
