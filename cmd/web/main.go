package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"

	"github.com/myrjola/fitcore/internal/envstruct"
	"github.com/myrjola/fitcore/internal/errors"
	"github.com/myrjola/fitcore/internal/logging"
	"github.com/myrjola/fitcore/internal/plan"
	"github.com/myrjola/fitcore/internal/progress"
	"github.com/myrjola/fitcore/internal/sqlite"
)

type application struct {
	logger          *slog.Logger
	progressService *progress.Service
	planService     *plan.Service
}

type config struct {
	// Addr is the address to listen on. It's possible to choose the address dynamically with localhost:0.
	Addr string `env:"FITCORE_ADDR" envDefault:"localhost:8080"`
	// SqliteURL is the URL to the SQLite database. You can use ":memory:" for an ethereal in-memory database.
	SqliteURL string `env:"FITCORE_SQLITE_URL" envDefault:"./fitcore.sqlite3"`
}

func run(ctx context.Context, logger *slog.Logger, lookupEnv func(string) (string, bool)) error {
	var (
		cancel context.CancelFunc
		err    error
	)

	ctx, cancel = signal.NotifyContext(ctx, os.Interrupt)
	defer cancel()

	var cfg config
	if err = envstruct.Populate(&cfg, lookupEnv); err != nil {
		return errors.Wrap(err, "populate config")
	}

	db, err := sqlite.NewDatabase(ctx, cfg.SqliteURL, logger)
	if err != nil {
		return errors.Wrap(err, "open db", slog.String("url", cfg.SqliteURL))
	}
	logger.LogAttrs(ctx, slog.LevelInfo, "connected to db")

	progressService := progress.NewService(db, logger)
	app := application{
		logger:          logger,
		progressService: progressService,
		planService:     plan.NewService(db, progressService, logger),
	}

	if err = app.configureAndStartServer(ctx, cfg.Addr, app.routes()); err != nil {
		return errors.Wrap(err, "start server")
	}
	return nil
}

func main() {
	ctx := context.Background()
	loggerHandler := logging.NewContextHandler(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		AddSource:   false,
		Level:       slog.LevelDebug,
		ReplaceAttr: nil,
	}))
	logger := slog.New(loggerHandler)
	if err := run(ctx, logger, os.LookupEnv); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "failure starting application", errors.SlogError(err))
		os.Exit(1)
	}
}
