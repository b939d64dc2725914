// Package server initializes and runs the application server: it opens the
// database, applies migrations, wires repositories, services and the HTTP
// surface, and handles graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/akarpovs/contacthub/internal/filex"
	"github.com/akarpovs/contacthub/internal/logging"
	"github.com/akarpovs/contacthub/internal/server/config"
	"github.com/akarpovs/contacthub/internal/server/httpapi"
	"github.com/akarpovs/contacthub/internal/server/qr"
	"github.com/akarpovs/contacthub/internal/server/repositories/repomanager"
	"github.com/akarpovs/contacthub/internal/server/services"
	"github.com/akarpovs/contacthub/internal/server/storage"

	_ "github.com/jackc/pgx/v5/stdlib"
)

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	http   *httpapi.Server
}

func NewApp(cfg *config.Config) (*App, error) {

	logger := logging.NewJSONLogger()

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(context.Background(), db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	uploadDir, err := filex.EnsureDir(cfg.UploadDir)
	if err != nil {
		return nil, fmt.Errorf("upload dir error: %w", err)
	}
	cfg.UploadDir = uploadDir

	qrDir, err := filex.EnsureDir(cfg.QRCodeDir)
	if err != nil {
		return nil, fmt.Errorf("qr dir error: %w", err)
	}
	cfg.QRCodeDir = qrDir

	uploader, err := storage.NewS3Uploader(cfg)
	if err != nil {
		return nil, fmt.Errorf("storage init error: %w", err)
	}

	us := services.NewUserService(db, rm, cfg)
	cs := services.NewContactService(db, rm, qr.NewPNGEncoder(), uploader, cfg, logger)

	return &App{
		config: cfg,
		logger: logger,
		db:     db,
		http:   httpapi.NewServer(cfg, logger, us, cs),
	}, nil
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

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := app.http.Run(ctx); err != nil {
			app.logger.Error(ctx, err.Error())
			cancelFunc()
		}
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err.Error())
	}
}
