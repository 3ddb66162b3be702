package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/giannigrespan/pfin/internal/amqp"
	"github.com/giannigrespan/pfin/internal/core"
	"github.com/giannigrespan/pfin/internal/schedule"
)

// BillReminderScanner finds bills whose reminder window opens today
// and publishes a reminder for each.
type BillReminderScanner struct {
	repo      Repository
	publisher Publisher
}

func NewBillReminderScanner(repo Repository, publisher Publisher) *BillReminderScanner {
	return &BillReminderScanner{repo: repo, publisher: publisher}
}

// Scan publishes one reminder per bill that is exactly
// reminder_days_before days from its due day. Running the scan once a
// day therefore sends each reminder once.
func (s *BillReminderScanner) Scan(ctx context.Context, today core.Date) (int, error) {
	bills, err := s.repo.ListActiveBills(ctx)
	if err != nil {
		return 0, fmt.Errorf("list active bills: %w", err)
	}

	published := 0
	for _, bill := range bills {
		if !schedule.ReminderDue(bill.DueDay, bill.ReminderDaysBefore, today.Time) {
			continue
		}

		household, err := s.repo.GetHousehold(ctx, bill.HouseholdID)
		if err != nil {
			slog.ErrorContext(ctx, "Failed to resolve household for bill",
				"bill_id", bill.ID,
				"household_id", bill.HouseholdID,
				"error", err)
			continue
		}

		emails := memberEmails(household)
		if len(emails) == 0 {
			slog.WarnContext(ctx, "No recipient emails for bill reminder",
				"bill_id", bill.ID,
				"household_id", bill.HouseholdID)
			continue
		}

		msg := &amqp.BillReminderMessage{
			BillID:      bill.ID,
			HouseholdID: bill.HouseholdID,
			Name:        bill.Name,
			AmountCents: bill.Amount.Cents,
			DueDay:      bill.DueDay,
			DaysUntil:   bill.ReminderDaysBefore,
			Emails:      emails,
			Timestamp:   time.Now().UTC(),
		}
		if err := s.publisher.PublishBillReminder(ctx, msg); err != nil {
			slog.ErrorContext(ctx, "Failed to publish bill reminder",
				"bill_id", bill.ID,
				"error", err)
			continue
		}
		published++
	}

	slog.InfoContext(ctx, "Bill reminder scan complete",
		"as_of", today.ISO(),
		"bills", len(bills),
		"published", published)
	return published, nil
}

// PublishMonthlyReports queues a report for every household, covering
// the previous calendar month.
func (s *BillReminderScanner) PublishMonthlyReports(ctx context.Context, today core.Date) (int, error) {
	households, err := s.repo.ListHouseholds(ctx)
	if err != nil {
		return 0, fmt.Errorf("list households: %w", err)
	}

	year, month := today.Year(), today.Month()-1
	if month < 1 {
		year, month = year-1, 12
	}

	published := 0
	for _, h := range households {
		msg := &amqp.MonthlyReportMessage{
			HouseholdID: h.ID,
			Year:        year,
			Month:       month,
			Timestamp:   time.Now().UTC(),
		}
		if err := s.publisher.PublishMonthlyReport(ctx, msg); err != nil {
			slog.ErrorContext(ctx, "Failed to publish monthly report trigger",
				"household_id", h.ID,
				"error", err)
			continue
		}
		published++
	}
	return published, nil
}

func memberEmails(h core.Household) []string {
	var emails []string
	for _, m := range []core.Member{h.MemberA, h.MemberB} {
		if m.Email != "" {
			emails = append(emails, m.Email)
		}
	}
	return emails
}
