package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/giannigrespan/pfin/internal/cli"
	apphttp "github.com/giannigrespan/pfin/internal/http"
	applog "github.com/giannigrespan/pfin/internal/log"
	"github.com/giannigrespan/pfin/internal/services"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(applog.ComponentApp)
	cfg := cli.LoadAndValidateConfig(logger)

	repo := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	defer repo.Close()

	expenses := services.NewExpenseService(repo)
	srv := apphttp.NewServer(":"+cfg.Port, apphttp.Deps{
		Repo:      repo,
		Expenses:  expenses,
		Bills:     services.NewBillService(repo, expenses),
		Recurring: services.NewRecurringProcessor(repo, expenses),
		Reports:   services.NewReportService(repo),
		Logger:    logger,
	})

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func(shutdownCtx context.Context) {
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
	})

	logger.Info("Starting API server", "port", cfg.Port, "db", cfg.SQLiteDBPath)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Server stopped gracefully")
}
