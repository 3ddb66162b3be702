package schedule

import "time"

// Status classifies how close a bill is to its due day.
type Status string

const (
	StatusOK      Status = "ok"
	StatusUrgent  Status = "urgent"
	StatusOverdue Status = "overdue"
)

// BillStatus classifies a bill relative to today's day of month.
//
// daysUntil is dueDay minus today's day; negative means the due day has
// passed this month. Because bills carry only a day of month, statuses
// never roll over at month boundaries: a bill due on the 28th stays
// overdue through the end of the month and flips back to ok on the 1st.
// That simplification is intentional and must not be "fixed" here.
func BillStatus(dueDay, reminderDaysBefore int, today time.Time) (Status, int) {
	daysUntil := dueDay - today.Day()
	switch {
	case daysUntil < 0:
		return StatusOverdue, daysUntil
	case daysUntil <= reminderDaysBefore:
		return StatusUrgent, daysUntil
	default:
		return StatusOK, daysUntil
	}
}

// ReminderDue reports whether today is exactly the reminder day for the
// bill: reminderDaysBefore days ahead of the due day, and still in the
// future. The reminder scan sends at most one email per bill per month.
func ReminderDue(dueDay, reminderDaysBefore int, today time.Time) bool {
	daysUntil := dueDay - today.Day()
	return daysUntil == reminderDaysBefore && daysUntil > 0
}
