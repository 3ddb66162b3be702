package main

import (
	"context"
	"os"
	"time"

	"github.com/giannigrespan/pfin/internal/amqp"
	"github.com/giannigrespan/pfin/internal/cli"
	"github.com/giannigrespan/pfin/internal/core"
	applog "github.com/giannigrespan/pfin/internal/log"
	"github.com/giannigrespan/pfin/internal/services"
)

// The reminder worker scans bills once per interval and publishes a
// reminder for each bill entering its warning window. On the first of
// the month it also queues the previous month's report for every
// household.
func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(applog.ComponentBills)
	cfg := cli.LoadAndValidateConfig(logger)

	repo := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	defer repo.Close()

	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPReminderQueue, cfg.AMQPReportQueue)
	if err != nil {
		logger.Error("Failed to connect to AMQP", "error", err, "url", cfg.AMQPURL)
		os.Exit(1)
	}
	defer client.Close()

	scanner := services.NewBillReminderScanner(repo, client)

	ctx, done := cli.GracefulShutdown(logger, 10*time.Second, nil)

	logger.Info("Starting reminder worker", "interval", cfg.ReminderInterval.String())

	runOnce(ctx, logger, scanner)

	ticker := time.NewTicker(cfg.ReminderInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			cli.WaitForShutdown(ctx, done)
			logger.Info("Reminder worker stopped")
			return
		case <-ticker.C:
			runOnce(ctx, logger, scanner)
		}
	}
}

func runOnce(ctx context.Context, logger *applog.Logger, scanner *services.BillReminderScanner) {
	today := core.Today(time.Now())

	n, err := scanner.Scan(ctx, today)
	if err != nil {
		logger.ErrorContext(ctx, "Reminder scan failed", "error", err)
	} else {
		logger.InfoContext(ctx, "Reminder scan complete", "published", n, "as_of", today.ISO())
	}

	if today.Day() == 1 {
		n, err := scanner.PublishMonthlyReports(ctx, today)
		if err != nil {
			logger.ErrorContext(ctx, "Monthly report publishing failed", "error", err)
			return
		}
		logger.InfoContext(ctx, "Monthly reports queued", "households", n)
	}
}
