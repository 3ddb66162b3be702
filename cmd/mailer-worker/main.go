package main

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/giannigrespan/pfin/internal/amqp"
	"github.com/giannigrespan/pfin/internal/cli"
	"github.com/giannigrespan/pfin/internal/config"
	applog "github.com/giannigrespan/pfin/internal/log"
	"github.com/giannigrespan/pfin/internal/mail"
	"github.com/giannigrespan/pfin/internal/services"
	"github.com/giannigrespan/pfin/internal/sheets"
	gsheets "github.com/giannigrespan/pfin/internal/sheets/google"
)

// The mailer worker consumes reminder and report messages and delivers
// them over SMTP. Monthly reports are optionally archived to a Google
// Sheets spreadsheet.
func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(applog.ComponentMailer)
	cfg := cli.LoadAndValidateConfig(logger)

	repo := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	defer repo.Close()

	m := newMailer(logger, cfg, services.NewReportService(repo))

	ctx, done := cli.GracefulShutdown(logger, 10*time.Second, nil)

	logger.Info("Starting mailer worker",
		"smtp", cfg.SMTPAddr,
		"reminder_queue", cfg.AMQPReminderQueue,
		"report_queue", cfg.AMQPReportQueue)

	err := amqp.Redial(ctx, cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPReminderQueue, cfg.AMQPReportQueue,
		func(ctx context.Context, client *amqp.Client) error {
			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				return client.ConsumeBillReminders(gctx, m.handleReminder)
			})
			g.Go(func() error {
				return client.ConsumeMonthlyReports(gctx, m.handleReport)
			})
			return g.Wait()
		})
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Mailer worker failed", "error", err)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Mailer worker stopped")
}

type mailer struct {
	logger  *applog.Logger
	sender  mail.Sender
	reports *services.ReportService
	archive sheets.ReportWriter // nil when no spreadsheet is configured
}

func newMailer(logger *applog.Logger, cfg *config.Config, reports *services.ReportService) *mailer {
	m := &mailer{
		logger:  logger,
		sender:  mail.NewSMTPMailer(cfg.SMTPAddr, cfg.SMTPFrom, cfg.SMTPUsername, cfg.SMTPPassword),
		reports: reports,
	}

	if cfg.GoogleSpreadsheetID != "" {
		writer, err := gsheets.New(context.Background(), cfg.GoogleSpreadsheetID, cfg.GoogleReportSheet)
		if err != nil {
			logger.Warn("Google Sheets archive disabled", "error", err)
		} else {
			m.archive = writer
		}
	}
	return m
}

func (m *mailer) handleReminder(msg *amqp.BillReminderMessage) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	subject := mail.ReminderSubject(msg.Name, msg.DaysUntil)
	body := mail.ReminderBody(msg.Name, msg.AmountCents, msg.DueDay, msg.DaysUntil)

	if err := m.sender.Send(ctx, msg.Emails, subject, body); err != nil {
		return err
	}

	m.logger.InfoContext(ctx, "Bill reminder delivered",
		"bill_id", msg.BillID,
		"bill_name", msg.Name,
		"recipients", len(msg.Emails))
	return nil
}

func (m *mailer) handleReport(msg *amqp.MonthlyReportMessage) error {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	monthly, err := m.reports.Monthly(ctx, msg.HouseholdID, msg.Year, msg.Month)
	if err != nil {
		return err
	}

	var emails []string
	for _, member := range []string{monthly.Household.MemberA.Email, monthly.Household.MemberB.Email} {
		if member != "" {
			emails = append(emails, member)
		}
	}
	if len(emails) == 0 {
		m.logger.WarnContext(ctx, "No recipients for monthly report",
			"household_id", msg.HouseholdID)
		return nil
	}

	subject := mail.ReportSubject(msg.Year, msg.Month)
	body := mail.ReportBody(monthly.Result, monthly.Categories, msg.Year, msg.Month)

	if err := m.sender.Send(ctx, emails, subject, body); err != nil {
		return err
	}

	if m.archive != nil {
		row := sheets.ReportRow{Year: msg.Year, Month: msg.Month, Result: monthly.Result}
		if err := m.archive.AppendMonthlyReport(ctx, row); err != nil {
			// Mail went out, archiving is best effort.
			m.logger.WarnContext(ctx, "Failed to archive report row", "error", err)
		}
	}

	m.logger.InfoContext(ctx, "Monthly report delivered",
		"household_id", msg.HouseholdID,
		"year", msg.Year,
		"month", msg.Month,
		"recipients", len(emails))
	return nil
}
