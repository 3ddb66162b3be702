package amqp

import (
	"encoding/json"
	"fmt"
	"time"
)

// BillReminderMessage tells the mailer that a bill is coming due and
// who to notify.
type BillReminderMessage struct {
	BillID      string    `json:"bill_id"`
	HouseholdID string    `json:"household_id"`
	Name        string    `json:"name"`
	AmountCents int64     `json:"amount_cents"`
	DueDay      int       `json:"due_day"`
	DaysUntil   int       `json:"days_until"`
	Emails      []string  `json:"emails"`
	Timestamp   time.Time `json:"timestamp"`
}

func (m *BillReminderMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func BillReminderMessageFromJSON(data []byte) (*BillReminderMessage, error) {
	var msg BillReminderMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("unmarshal bill reminder message: %w", err)
	}
	if msg.BillID == "" {
		return nil, fmt.Errorf("bill reminder message missing bill_id")
	}
	return &msg, nil
}

// MonthlyReportMessage asks the mailer to build and send the expense
// report for one household and month.
type MonthlyReportMessage struct {
	HouseholdID string    `json:"household_id"`
	Year        int       `json:"year"`
	Month       int       `json:"month"`
	Timestamp   time.Time `json:"timestamp"`
}

func (m *MonthlyReportMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func MonthlyReportMessageFromJSON(data []byte) (*MonthlyReportMessage, error) {
	var msg MonthlyReportMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("unmarshal monthly report message: %w", err)
	}
	if msg.HouseholdID == "" {
		return nil, fmt.Errorf("monthly report message missing household_id")
	}
	if msg.Month < 1 || msg.Month > 12 {
		return nil, fmt.Errorf("monthly report message has invalid month %d", msg.Month)
	}
	return &msg, nil
}
