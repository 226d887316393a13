package app

import (
	"context"
	"fmt"

	"github.com/contactaryanshukla14-lgtm/torchserve-workshop/internal/config"
	"github.com/contactaryanshukla14-lgtm/torchserve-workshop/internal/db"
	"github.com/contactaryanshukla14-lgtm/torchserve-workshop/internal/db/models"
	"github.com/contactaryanshukla14-lgtm/torchserve-workshop/internal/db/repository"
	"github.com/contactaryanshukla14-lgtm/torchserve-workshop/internal/inference"
	"github.com/contactaryanshukla14-lgtm/torchserve-workshop/pkg/logger"

	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// App wires the pieces a command needs: config, logging, the inference
// client, and (when requested) the bundle registry.
type App struct {
	config     *config.Config
	db         *bun.DB
	ctx        context.Context
	cancelFunc context.CancelFunc

	Logger *zap.Logger

	InferenceClient  *inference.Client
	BundleRepository repository.IBundleRepository
}

// Option funcs used to initialize the App struct
type OptionFunc func(app *App) error

func WithLogger(l *zap.Logger) OptionFunc {
	return func(app *App) error {
		app.Logger = l
		return nil
	}
}

func WithInferenceClient() OptionFunc {
	return func(app *App) error {
		app.InferenceClient = inference.NewClient(app.config.Backend, app.config.Model.Name, app.Logger)
		return nil
	}
}

func WithDBInitialization() OptionFunc {
	return func(app *App) error {
		conn, err := db.NewConnection(app.config)
		if err != nil {
			return err
		}
		app.db = conn.GetDB()

		// Ensure tables exist
		err = app.db.RunInTx(app.ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			tables := []interface{}{
				(*models.Bundle)(nil),
			}

			for _, table := range tables {
				if _, err := tx.NewCreateTable().
					Model(table).
					IfNotExists().
					Exec(ctx); err != nil {
					return fmt.Errorf("failed to create table: %w", err)
				}
			}
			return nil
		})
		if err != nil {
			return err
		}

		app.BundleRepository = repository.NewBundleRepository(app.db)
		return nil
	}
}

func NewApp(cfg *config.Config, options ...OptionFunc) (*App, error) {
	l, err := logger.InitLogger(cfg.Environment)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())

	app := &App{
		ctx:        ctx,
		config:     cfg,
		Logger:     l,
		cancelFunc: cancel,
	}

	for _, opt := range options {
		if err := opt(app); err != nil {
			app.Close()
			return nil, err
		}
	}

	return app, nil
}

func (app *App) Close() {
	app.cancelFunc()

	if app.db != nil {
		app.db.Close()
	}

	app.Logger.Sync()
}

func (app *App) Config() *config.Config {
	return app.config
}

func (app *App) Context() context.Context {
	return app.ctx
}

func (app *App) DB() *bun.DB {
	return app.db
}
