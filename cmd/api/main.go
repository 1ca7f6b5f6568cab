package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/spendwise/internal/budget"
	budgetStore "github.com/MrJamesThe3rd/spendwise/internal/budget/store"
	"github.com/MrJamesThe3rd/spendwise/internal/config"
	"github.com/MrJamesThe3rd/spendwise/internal/dashboard"
	"github.com/MrJamesThe3rd/spendwise/internal/database"
	spendwiseHttp "github.com/MrJamesThe3rd/spendwise/internal/http"
	budgetHandler "github.com/MrJamesThe3rd/spendwise/internal/http/budget"
	categoryHandler "github.com/MrJamesThe3rd/spendwise/internal/http/category"
	dashboardHandler "github.com/MrJamesThe3rd/spendwise/internal/http/dashboard"
	exportHandler "github.com/MrJamesThe3rd/spendwise/internal/http/export"
	importHandler "github.com/MrJamesThe3rd/spendwise/internal/http/importfile"
	matchingHandler "github.com/MrJamesThe3rd/spendwise/internal/http/matching"
	txHandler "github.com/MrJamesThe3rd/spendwise/internal/http/transaction"
	"github.com/MrJamesThe3rd/spendwise/internal/importer"
	"github.com/MrJamesThe3rd/spendwise/internal/logging"
	"github.com/MrJamesThe3rd/spendwise/internal/matching"
	matchingStore "github.com/MrJamesThe3rd/spendwise/internal/matching/store"
	"github.com/MrJamesThe3rd/spendwise/internal/money"
	"github.com/MrJamesThe3rd/spendwise/internal/report"
	"github.com/MrJamesThe3rd/spendwise/internal/transaction"
	txStore "github.com/MrJamesThe3rd/spendwise/internal/transaction/store"
)

func main() {
	if err := run(); err != nil {
		slog.Error("api stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("loading .env: %w", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logging.Setup(os.Stderr, cfg.App.LogLevel, cfg.App.LogFormat)

	db, err := database.New(context.Background(), cfg.ConnectionString(), database.Pool{
		MaxOpenConns:    cfg.DB.MaxOpenConns,
		MaxIdleConns:    cfg.DB.MaxIdleConns,
		ConnMaxLifetime: cfg.DB.ConnMaxLifetime,
	})
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		return err
	}

	var (
		transactionService = transaction.NewService(txStore.New(db))
		matchingService    = matching.NewService(matchingStore.New(db))
		budgetService      = budget.NewService(budgetStore.New(db), transactionService)
		dashboardService   = dashboard.NewService(transactionService, cfg.Dashboard.Months)
		importService      = importer.NewService(matchingService)
		reportService      = report.NewService(transactionService, money.NewFormatter(cfg.Display.Locale, cfg.Display.Currency))
	)

	router := spendwiseHttp.New(
		spendwiseHttp.Options{
			AllowedOrigins: cfg.CORS.AllowedOrigins,
			Timeout:        cfg.Server.Timeout,
		},
		spendwiseHttp.Handlers{
			Transactions: txHandler.NewHandler(transactionService),
			Dashboard:    dashboardHandler.NewHandler(dashboardService),
			Budgets:      budgetHandler.NewHandler(budgetService),
			Export:       exportHandler.NewHandler(reportService),
			Import:       importHandler.NewHandler(importService, transactionService),
			Rules:        matchingHandler.NewHandler(matchingService),
			Categories:   categoryHandler.NewHandler(),
		},
	)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.Server.Timeout + 5*time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)

	go func() {
		slog.Info("starting server", "app", cfg.App.Name, "addr", srv.Addr)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}

		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	slog.Info("shutting down", "grace", cfg.Server.ShutdownGrace)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownGrace)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}

	return nil
}
