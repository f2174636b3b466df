package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	hclog "github.com/hashicorp/go-hclog"

	extractinadapter "cuplog/internal/modules/extract/adapter/in"
	extractoutadapter "cuplog/internal/modules/extract/adapter/out"
	extractservice "cuplog/internal/modules/extract/service"
	extractusecase "cuplog/internal/modules/extract/usecase"
	tastinginadapter "cuplog/internal/modules/tasting/adapter/in"
	tastingoutadapter "cuplog/internal/modules/tasting/adapter/out"
	tastingservice "cuplog/internal/modules/tasting/service"
	tastingusecase "cuplog/internal/modules/tasting/usecase"
	"cuplog/internal/platform/clock"
	"cuplog/internal/platform/config"
	"cuplog/internal/platform/id"
	"cuplog/internal/platform/logging"
	uiapp "cuplog/internal/ui/app"
)

const shutdownTimeout = 5 * time.Second

type App struct {
	Config     config.Config
	Logger     hclog.Logger
	TastingCLI tastinginadapter.CLIHandler
	TastingAPI tastinginadapter.HTTPHandler
	ExtractCLI extractinadapter.CLIHandler

	db *sql.DB
}

func New(cfg config.Config) (*App, error) {
	logger := logging.New(cfg.LogLevel, os.Stderr)
	clk := clock.SystemClock{}
	ids := id.UUID{}

	extractUC := extractusecase.NewInteractor(extractservice.NewExtractService(
		extractoutadapter.NewLocalPDFReader(),
		extractoutadapter.NewLocalTextReader(),
		extractoutadapter.NewFileManifestStore(cfg.HomePath),
		extractoutadapter.NewGRPCHost(logger),
		logger,
	))

	db, err := tastingoutadapter.OpenSQLite(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	records, err := tastingoutadapter.NewSQLiteRecordRepository(db, clk, ids)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("new record repository: %w", err)
	}
	index, err := tastingoutadapter.NewSQLiteFlavorIndex(db)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("new flavor index: %w", err)
	}

	aggregate := tastingservice.NewAggregate(clk)
	tastingUC := tastingusecase.NewInteractor(tastingusecase.Dependencies{
		Aggregate: aggregate,
		Gateway:   tastingservice.NewGateway(clk, aggregate, records, logger),
		Drafts:    tastingoutadapter.NewFileDraftStore(cfg.HomePath),
		Records:   records,
		Index:     index,
		Journal:   tastingoutadapter.NewMarkdownJournalWriter(cfg.HomePath),
		Notes:     tastingoutadapter.NewExtractNoteSource(extractUC),
		Logger:    logger,
	})

	return &App{
		Config:     cfg,
		Logger:     logger,
		TastingCLI: tastinginadapter.NewCLIHandler(tastingUC),
		TastingAPI: tastinginadapter.NewHTTPHandler(tastingUC, cfg.UserID, logger),
		ExtractCLI: extractinadapter.NewCLIHandler(extractUC),
		db:         db,
	}, nil
}

func (a *App) Close() error {
	if a == nil || a.db == nil {
		return nil
	}
	return a.db.Close()
}

func RunTUI(app *App) error {
	model := uiapp.NewModel(app.TastingCLI, app.Config.UserID)
	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err := program.Run()
	return err
}

// Serve runs the HTTP API until ctx is canceled.
func Serve(ctx context.Context, app *App) error {
	server := &http.Server{
		Addr:              app.Config.Addr,
		Handler:           tastinginadapter.NewRouter(app.TastingAPI),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		app.Logger.Info("listening", "addr", app.Config.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	}
}
