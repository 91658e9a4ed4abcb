// Package server wires configuration, storage, services and the HTTP
// transport into a runnable application and handles graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/codeide/internal/logging"
	"github.com/dmitrijs2005/codeide/internal/server/auth"
	"github.com/dmitrijs2005/codeide/internal/server/config"
	"github.com/dmitrijs2005/codeide/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/codeide/internal/server/rest"
	"github.com/dmitrijs2005/codeide/internal/server/services"
)

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	http   *rest.HTTPServer
}

// NewApp validates c, opens and migrates the database and builds the
// services. Logs go to w.
func NewApp(ctx context.Context, c *config.Config, w io.Writer) (*App, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	logger, err := logging.New(c.LogBackend, c.LogLevel, w)
	if err != nil {
		return nil, err
	}

	if c.UsesDefaultSecret() {
		logger.Warn(ctx, "Using the development secret key; set CODEIDE_SECRET_KEY or -s in production")
	}

	db, m, err := repomanager.Open(ctx, c.DatabaseDriver, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	tokens := auth.NewTokenService(c.SecretKey, c.TokenValidityDuration)
	us := services.NewUserService(db, m, auth.NewBcryptHasher(c.BcryptCost), tokens, logger)
	ps := services.NewProjectService(db, m, logger)
	hs := rest.NewHTTPServer(c.HTTPAddr, logger, us, ps, tokens, c.CORSOrigin)

	return &App{config: c, logger: logger, db: db, http: hs}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	if err := app.http.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run serves until ctx is cancelled or a termination signal arrives, then
// closes the database.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "driver", app.config.DatabaseDriver)

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(context.Background(), "close db", "error", err)
	}
	app.logger.Info(context.Background(), "App stopped")
}
