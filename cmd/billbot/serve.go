package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"

	"github.com/billbotdev/billbot/internal/config"
	"github.com/billbotdev/billbot/internal/db"
	"github.com/billbotdev/billbot/internal/expense"
	"github.com/billbotdev/billbot/internal/form"
	"github.com/billbotdev/billbot/internal/ingest"
	"github.com/billbotdev/billbot/internal/line"
	"github.com/billbotdev/billbot/internal/logger"
	"github.com/billbotdev/billbot/internal/schedule"
	"github.com/billbotdev/billbot/internal/server"
	"github.com/billbotdev/billbot/internal/sheets"
	"github.com/billbotdev/billbot/internal/storage"
	"github.com/billbotdev/billbot/internal/storage/cloudinary"
	"github.com/billbotdev/billbot/internal/webhook"
)

func runServe(configPath string) error {
	app := fx.New(
		fx.Provide(
			func() (config.Config, error) {
				return config.Load(configPath)
			},
			provideLogger,
			provideDBPool,
			provideLineClient,
			provideUploader,
			provideExpenseService,
			provideIngestPipeline,
			provideRouter,
			provideWebhookHandler,
			provideFormHandler,
			provideSummaryService,
			provideServer,
		),
		fx.WithLogger(func(log *slog.Logger) fxevent.Logger {
			return &fxevent.SlogLogger{Logger: log}
		}),
		fx.Invoke(
			startServer,
			startSummary,
		),
	)
	if err := app.Err(); err != nil {
		return err
	}
	app.Run()
	return nil
}

func provideLogger(cfg config.Config) *slog.Logger {
	log := logger.New(cfg.Log)
	slog.SetDefault(log)
	return log
}

func provideDBPool(lc fx.Lifecycle, log *slog.Logger, cfg config.Config) (*pgxpool.Pool, error) {
	if !cfg.Postgres.Enabled() {
		log.Info("postgres not configured, expense store disabled")
		return nil, nil
	}
	dsn := cfg.Postgres.DSN()
	if err := db.Migrate(log, dsn); err != nil {
		return nil, err
	}
	pool, err := db.Connect(context.Background(), dsn)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{OnStop: func(context.Context) error {
		pool.Close()
		return nil
	}})
	return pool, nil
}

func provideLineClient(log *slog.Logger, cfg config.Config) *line.Client {
	return line.NewClient(log, cfg.LINE.ChannelAccessToken, cfg.LINE.APIBase, cfg.LINE.DataBase)
}

func provideUploader(log *slog.Logger, cfg config.Config) (storage.Uploader, error) {
	return cloudinary.New(log, cfg.Storage.BaseURL, cfg.Storage.CloudName, cfg.Storage.UploadPreset)
}

func provideExpenseService(log *slog.Logger, cfg config.Config, pool *pgxpool.Pool) (*expense.Service, error) {
	var store expense.Store
	if pool != nil {
		store = expense.NewPGStore(log, pool)
	}
	var sheet expense.SheetAppender
	if cfg.Sheets.Enabled() {
		appender, err := sheets.NewAppender(context.Background(), log, cfg.Sheets.SpreadsheetID, cfg.Sheets.CredentialsFile)
		if err != nil {
			return nil, err
		}
		sheet = appender
	} else {
		log.Info("spreadsheet not configured, sheet mirroring disabled")
	}
	return expense.NewService(log, store, sheet), nil
}

func provideIngestPipeline(log *slog.Logger, cfg config.Config, client *line.Client, uploader storage.Uploader) *ingest.Pipeline {
	return ingest.NewPipeline(log, client, uploader, client, cfg.Form.BaseURL)
}

func provideRouter(log *slog.Logger, cfg config.Config, client *line.Client, pipeline *ingest.Pipeline) *webhook.Router {
	return webhook.NewRouter(log, client, pipeline, cfg.Form.BaseURL)
}

func provideWebhookHandler(log *slog.Logger, cfg config.Config, router *webhook.Router) *webhook.Handler {
	return webhook.NewHandler(log, router, cfg.LINE.ChannelSecret)
}

func provideFormHandler(log *slog.Logger, cfg config.Config, expenseService *expense.Service) (*form.Handler, error) {
	return form.NewHandler(log, expenseService, cfg.Form.Members)
}

func provideSummaryService(log *slog.Logger, cfg config.Config, pool *pgxpool.Pool, client *line.Client) *schedule.Service {
	if pool == nil {
		return schedule.NewService(log, cfg.Summary.Cron, cfg.Summary.Recipients, nil, client)
	}
	return schedule.NewService(log, cfg.Summary.Cron, cfg.Summary.Recipients, expense.NewPGStore(log, pool), client)
}

func provideServer(log *slog.Logger, cfg config.Config, webhookHandler *webhook.Handler, formHandler *form.Handler) *server.Server {
	return server.New(log, cfg.Server.Addr, webhookHandler, formHandler)
}

func startServer(lc fx.Lifecycle, log *slog.Logger, srv *server.Server) {
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error("server stopped", slog.Any("error", err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})
}

func startSummary(lc fx.Lifecycle, svc *schedule.Service) {
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			return svc.Start()
		},
		OnStop: func(ctx context.Context) error {
			return svc.Stop(ctx)
		},
	})
}
