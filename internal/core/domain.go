package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Weekly  Frequency = "weekly"
	Monthly Frequency = "monthly"
	Yearly  Frequency = "yearly"
)

const (
	SplitPersonal SplitKind = "personal"
	SplitShared   SplitKind = "shared"
)

type (
	Frequency string

	SplitKind string

	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	// SplitPolicy is how a category divides its expenses between the two
	// household members. Personal categories carry no ratio: the payer
	// absorbs the whole amount and the ratio field is never consulted.
	SplitPolicy struct {
		Kind  SplitKind
		Ratio float64 // member A's share, meaningful only when Kind == SplitShared
	}

	Member struct {
		ID    string
		Name  string
		Email string
	}

	Household struct {
		ID      string
		Name    string
		MemberA Member
		MemberB Member
	}

	Category struct {
		ID          string
		HouseholdID string
		Name        string
		Icon        string
		Color       string
		Split       SplitPolicy
	}

	Expense struct {
		ID          string
		HouseholdID string
		PaidBy      string
		CategoryID  string // empty when uncategorized
		Amount      Money
		Description string
		Date        Date
		IsRecurring bool
		RecurringID string // set when materialized from a template
		Notes       string

		// Resolved join, nil when the category is missing or was deleted.
		Category *Category
	}

	RecurringExpense struct {
		ID          string
		HouseholdID string
		CategoryID  string
		PaidBy      string
		Amount      Money
		Description string
		Frequency   Frequency
		NextDue     Date
		AutoCreate  bool
		Active      bool
	}

	Bill struct {
		ID                 string
		HouseholdID        string
		CategoryID         string // empty when the bill has no category
		Name               string
		Amount             Money // zero when unknown until paid
		DueDay             int   // day of month, 1-31
		ReminderDaysBefore int   // 1-30
		LastPaid           Date  // zero when never paid
		Active             bool
	}
)

var (
	ErrInvalidDate         = errors.New("invalid date")
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrInvalidRatio        = errors.New("split ratio must be between 0 and 1")
	ErrInvalidDueDay       = errors.New("due day must be between 1 and 31")
	ErrInvalidReminderDays = errors.New("reminder days must be between 1 and 30")
	ErrInvalidFrequency    = errors.New("invalid frequency")
	ErrEmptyDescription    = errors.New("empty description")
	ErrEmptyName           = errors.New("empty name")
	ErrMissingPayer        = errors.New("missing payer")
	ErrMissingCategory     = errors.New("missing category")
)

// Personal returns the split policy for expenses that stay with the payer.
func Personal() SplitPolicy {
	return SplitPolicy{Kind: SplitPersonal}
}

// Shared returns the split policy for expenses divided between the members.
// ratio is member A's share; member B carries 1 - ratio.
func Shared(ratio float64) SplitPolicy {
	return SplitPolicy{Kind: SplitShared, Ratio: ratio}
}

func (p SplitPolicy) Validate() error {
	switch p.Kind {
	case SplitPersonal:
		return nil
	case SplitShared:
		if p.Ratio < 0 || p.Ratio > 1 {
			return ErrInvalidRatio
		}
		return nil
	default:
		return errors.New("unknown split kind: " + string(p.Kind))
	}
}

// ShareOf splits m between the two members according to the policy.
// Shares are full-precision cents; callers round only for presentation.
func (p SplitPolicy) ShareOf(m Money) (a, b float64) {
	if p.Kind != SplitShared {
		return 0, 0
	}
	a = float64(m.Cents) * p.Ratio
	return a, float64(m.Cents) - a
}

// NewDate creates a Date at UTC midnight.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// Today truncates t to a calendar date.
func Today(t time.Time) Date {
	return NewDate(t.Year(), int(t.Month()), t.Day())
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// Day returns the day of the month.
func (d Date) Day() int {
	return d.Time.Day()
}

// Month returns the month as 1-12.
func (d Date) Month() int {
	return int(d.Time.Month())
}

// Year returns the year.
func (d Date) Year() int {
	return d.Time.Year()
}

// IsEmpty reports whether the date is unset, for optional dates like
// Bill.LastPaid.
func (d Date) IsEmpty() bool {
	return d.IsZero()
}

// ISO formats the date as yyyy-mm-dd.
func (d Date) ISO() string {
	return d.Format("2006-01-02")
}

func (f Frequency) Validate() error {
	switch f {
	case Weekly, Monthly, Yearly:
		return nil
	default:
		return ErrInvalidFrequency
	}
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (c Category) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}
	return c.Split.Validate()
}

func (e Expense) Validate() error {
	if err := e.Date.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(e.PaidBy) == "" {
		return ErrMissingPayer
	}
	if len(e.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	return e.Amount.Validate()
}

func (r RecurringExpense) Validate() error {
	if len(strings.TrimSpace(r.Description)) == 0 {
		return ErrEmptyDescription
	}
	if len(r.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	if strings.TrimSpace(r.CategoryID) == "" {
		return ErrMissingCategory
	}
	if err := r.Amount.Validate(); err != nil {
		return err
	}
	if err := r.Frequency.Validate(); err != nil {
		return err
	}
	return r.NextDue.Validate()
}

func (b Bill) Validate() error {
	if strings.TrimSpace(b.Name) == "" {
		return ErrEmptyName
	}
	if b.DueDay < 1 || b.DueDay > 31 {
		return ErrInvalidDueDay
	}
	if b.ReminderDaysBefore < 1 || b.ReminderDaysBefore > 30 {
		return ErrInvalidReminderDays
	}
	// Amount is optional: zero means unknown until the bill is paid.
	if b.Amount.Cents < 0 {
		return ErrInvalidAmount
	}
	return nil
}
