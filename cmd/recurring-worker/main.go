package main

import (
	"context"
	"time"

	"github.com/giannigrespan/pfin/internal/cli"
	"github.com/giannigrespan/pfin/internal/core"
	applog "github.com/giannigrespan/pfin/internal/log"
	"github.com/giannigrespan/pfin/internal/services"
)

// The recurring worker materializes due templates into expenses on a
// fixed interval. Runs are idempotent within a day because processing
// advances each template's next_due.
func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(applog.ComponentRecurring)
	cfg := cli.LoadAndValidateConfig(logger)

	repo := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	defer repo.Close()

	processor := services.NewRecurringProcessor(repo, services.NewExpenseService(repo))

	ctx, done := cli.GracefulShutdown(logger, 10*time.Second, nil)

	logger.Info("Starting recurring worker", "interval", cfg.RecurringInterval.String())

	runOnce(ctx, logger, processor)

	ticker := time.NewTicker(cfg.RecurringInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			cli.WaitForShutdown(ctx, done)
			logger.Info("Recurring worker stopped")
			return
		case <-ticker.C:
			runOnce(ctx, logger, processor)
		}
	}
}

func runOnce(ctx context.Context, logger *applog.Logger, processor *services.RecurringProcessor) {
	today := core.Today(time.Now())
	n, err := processor.ProcessDue(ctx, today)
	if err != nil {
		logger.ErrorContext(ctx, "Recurring run failed", "error", err)
		return
	}
	logger.InfoContext(ctx, "Recurring run complete", "created", n, "as_of", today.ISO())
}
