// Package storage persists households, categories, expenses and the two
// template kinds in SQLite. Schema changes go through embedded
// golang-migrate migrations; queries are plain database/sql.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/giannigrespan/pfin/internal/core"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("not found")

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// --- households ---

// CreateHousehold inserts the household and its two members in one
// transaction. Member IDs are generated when empty.
func (r *SQLiteRepository) CreateHousehold(ctx context.Context, h core.Household) (core.Household, error) {
	if h.ID == "" {
		h.ID = uuid.NewString()
	}
	if h.MemberA.ID == "" {
		h.MemberA.ID = uuid.NewString()
	}
	if h.MemberB.ID == "" {
		h.MemberB.ID = uuid.NewString()
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return core.Household{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO households (id, name, member_a_id, member_b_id) VALUES (?, ?, ?, ?)`,
		h.ID, h.Name, h.MemberA.ID, h.MemberB.ID)
	if err != nil {
		return core.Household{}, fmt.Errorf("insert household: %w", err)
	}

	for _, m := range []core.Member{h.MemberA, h.MemberB} {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO members (id, household_id, name, email) VALUES (?, ?, ?, ?)`,
			m.ID, h.ID, m.Name, m.Email)
		if err != nil {
			return core.Household{}, fmt.Errorf("insert member: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return core.Household{}, fmt.Errorf("commit: %w", err)
	}

	slog.InfoContext(ctx, "Household created", "household_id", h.ID, "name", h.Name)
	return h, nil
}

// GetHousehold loads a household with both members resolved.
func (r *SQLiteRepository) GetHousehold(ctx context.Context, id string) (core.Household, error) {
	var (
		h                    core.Household
		memberAID, memberBID sql.NullString
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, member_a_id, member_b_id FROM households WHERE id = ?`, id).
		Scan(&h.ID, &h.Name, &memberAID, &memberBID)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Household{}, ErrNotFound
	}
	if err != nil {
		return core.Household{}, fmt.Errorf("get household: %w", err)
	}

	if memberAID.Valid {
		if h.MemberA, err = r.getMember(ctx, memberAID.String); err != nil {
			return core.Household{}, err
		}
	}
	if memberBID.Valid {
		if h.MemberB, err = r.getMember(ctx, memberBID.String); err != nil {
			return core.Household{}, err
		}
	}
	return h, nil
}

// ListHouseholds returns every household, members resolved. Used by the
// reminder and report scans which walk all households.
func (r *SQLiteRepository) ListHouseholds(ctx context.Context) ([]core.Household, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id FROM households ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("list households: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan household id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate households: %w", err)
	}

	households := make([]core.Household, 0, len(ids))
	for _, id := range ids {
		h, err := r.GetHousehold(ctx, id)
		if err != nil {
			return nil, err
		}
		households = append(households, h)
	}
	return households, nil
}

func (r *SQLiteRepository) getMember(ctx context.Context, id string) (core.Member, error) {
	var m core.Member
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, email FROM members WHERE id = ?`, id).
		Scan(&m.ID, &m.Name, &m.Email)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Member{}, ErrNotFound
	}
	if err != nil {
		return core.Member{}, fmt.Errorf("get member: %w", err)
	}
	return m, nil
}

// --- categories ---

func (r *SQLiteRepository) CreateCategory(ctx context.Context, c core.Category) (core.Category, error) {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO categories (id, household_id, name, icon, color, split_type, split_ratio)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.HouseholdID, c.Name, c.Icon, c.Color, string(c.Split.Kind), c.Split.Ratio)
	if err != nil {
		return core.Category{}, fmt.Errorf("insert category: %w", err)
	}
	return c, nil
}

func (r *SQLiteRepository) ListCategories(ctx context.Context, householdID string) ([]core.Category, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, household_id, name, icon, color, split_type, split_ratio
		 FROM categories WHERE household_id = ? ORDER BY name`, householdID)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var categories []core.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (r *SQLiteRepository) DeleteCategory(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// --- expenses ---

func (r *SQLiteRepository) CreateExpense(ctx context.Context, e core.Expense) (core.Expense, error) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO expenses (id, household_id, paid_by, category_id, amount_cents, description, date, is_recurring, recurring_id, notes)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.HouseholdID, e.PaidBy, nullable(e.CategoryID), e.Amount.Cents,
		e.Description, e.Date.ISO(), e.IsRecurring, nullable(e.RecurringID), e.Notes)
	if err != nil {
		return core.Expense{}, fmt.Errorf("insert expense: %w", err)
	}

	slog.InfoContext(ctx, "Expense saved",
		"id", e.ID,
		"household_id", e.HouseholdID,
		"description", e.Description,
		"amount_cents", e.Amount.Cents,
		"date", e.Date.ISO())
	return e, nil
}

// SoftDeleteExpense stamps deleted_at; listings filter the row out.
func (r *SQLiteRepository) SoftDeleteExpense(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE expenses SET deleted_at = ? WHERE id = ? AND deleted_at IS NULL`,
		time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("soft delete expense: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// ListExpensesForMonth returns the household's live expenses in the given
// month, oldest first, with their categories resolved so the
// reconciliation engine can read split policies directly.
func (r *SQLiteRepository) ListExpensesForMonth(ctx context.Context, householdID string, year, month int) ([]core.Expense, error) {
	start := core.NewDate(year, month, 1)
	end := core.Date{Time: start.AddDate(0, 1, 0).Add(-24 * time.Hour)}

	rows, err := r.db.QueryContext(ctx,
		`SELECT e.id, e.household_id, e.paid_by, e.category_id, e.amount_cents, e.description,
		        e.date, e.is_recurring, e.recurring_id, e.notes,
		        c.id, c.household_id, c.name, c.icon, c.color, c.split_type, c.split_ratio
		 FROM expenses e
		 LEFT JOIN categories c ON c.id = e.category_id
		 WHERE e.household_id = ? AND e.deleted_at IS NULL AND e.date >= ? AND e.date <= ?
		 ORDER BY e.date, e.created_at`,
		householdID, start.ISO(), end.ISO())
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []core.Expense
	for rows.Next() {
		var (
			e          core.Expense
			dateStr    string
			categoryID sql.NullString
			recurrence sql.NullString
			cID        sql.NullString
			cHousehold sql.NullString
			cName      sql.NullString
			cIcon      sql.NullString
			cColor     sql.NullString
			cSplitType sql.NullString
			cRatio     sql.NullFloat64
		)
		err := rows.Scan(&e.ID, &e.HouseholdID, &e.PaidBy, &categoryID, &e.Amount.Cents,
			&e.Description, &dateStr, &e.IsRecurring, &recurrence, &e.Notes,
			&cID, &cHousehold, &cName, &cIcon, &cColor, &cSplitType, &cRatio)
		if err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}

		e.CategoryID = categoryID.String
		e.RecurringID = recurrence.String
		if e.Date, err = parseISODate(dateStr); err != nil {
			return nil, err
		}
		// A dangling category_id leaves Category nil; the engine treats
		// that the same as an uncategorized expense.
		if cID.Valid {
			e.Category = &core.Category{
				ID:          cID.String,
				HouseholdID: cHousehold.String,
				Name:        cName.String,
				Icon:        cIcon.String,
				Color:       cColor.String,
				Split: core.SplitPolicy{
					Kind:  core.SplitKind(cSplitType.String),
					Ratio: cRatio.Float64,
				},
			}
		}
		expenses = append(expenses, e)
	}
	return expenses, rows.Err()
}

// --- recurring expenses ---

func (r *SQLiteRepository) CreateRecurring(ctx context.Context, re core.RecurringExpense) (core.RecurringExpense, error) {
	if re.ID == "" {
		re.ID = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO recurring_expenses (id, household_id, category_id, paid_by, amount_cents, description, frequency, next_due, auto_create, active)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		re.ID, re.HouseholdID, re.CategoryID, re.PaidBy, re.Amount.Cents,
		re.Description, string(re.Frequency), re.NextDue.ISO(), re.AutoCreate, re.Active)
	if err != nil {
		return core.RecurringExpense{}, fmt.Errorf("insert recurring expense: %w", err)
	}
	return re, nil
}

func (r *SQLiteRepository) GetRecurring(ctx context.Context, id string) (core.RecurringExpense, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, household_id, category_id, paid_by, amount_cents, description, frequency, next_due, auto_create, active
		 FROM recurring_expenses WHERE id = ?`, id)
	re, err := scanRecurring(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.RecurringExpense{}, ErrNotFound
	}
	return re, err
}

func (r *SQLiteRepository) ListRecurring(ctx context.Context, householdID string) ([]core.RecurringExpense, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, household_id, category_id, paid_by, amount_cents, description, frequency, next_due, auto_create, active
		 FROM recurring_expenses WHERE household_id = ? ORDER BY next_due`, householdID)
	if err != nil {
		return nil, fmt.Errorf("list recurring expenses: %w", err)
	}
	defer rows.Close()
	return collectRecurring(rows)
}

// ListDueRecurring returns active auto-create templates across all
// households whose next_due is on or before the given date.
func (r *SQLiteRepository) ListDueRecurring(ctx context.Context, asOf core.Date) ([]core.RecurringExpense, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, household_id, category_id, paid_by, amount_cents, description, frequency, next_due, auto_create, active
		 FROM recurring_expenses WHERE active = 1 AND auto_create = 1 AND next_due <= ?
		 ORDER BY next_due`, asOf.ISO())
	if err != nil {
		return nil, fmt.Errorf("list due recurring expenses: %w", err)
	}
	defer rows.Close()
	return collectRecurring(rows)
}

func (r *SQLiteRepository) UpdateRecurringNextDue(ctx context.Context, id string, nextDue core.Date) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE recurring_expenses SET next_due = ? WHERE id = ?`, nextDue.ISO(), id)
	if err != nil {
		return fmt.Errorf("update next due: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *SQLiteRepository) DeactivateRecurring(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE recurring_expenses SET active = 0 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deactivate recurring expense: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// --- bills ---

func (r *SQLiteRepository) CreateBill(ctx context.Context, b core.Bill) (core.Bill, error) {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	var amount any
	if b.Amount.Cents > 0 {
		amount = b.Amount.Cents
	}
	var lastPaid any
	if !b.LastPaid.IsEmpty() {
		lastPaid = b.LastPaid.ISO()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO bills (id, household_id, category_id, name, amount_cents, due_day, reminder_days_before, last_paid, active)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		b.ID, b.HouseholdID, nullable(b.CategoryID), b.Name, amount,
		b.DueDay, b.ReminderDaysBefore, lastPaid, b.Active)
	if err != nil {
		return core.Bill{}, fmt.Errorf("insert bill: %w", err)
	}
	return b, nil
}

func (r *SQLiteRepository) GetBill(ctx context.Context, id string) (core.Bill, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, household_id, category_id, name, amount_cents, due_day, reminder_days_before, last_paid, active
		 FROM bills WHERE id = ?`, id)
	b, err := scanBill(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Bill{}, ErrNotFound
	}
	return b, err
}

func (r *SQLiteRepository) ListBills(ctx context.Context, householdID string) ([]core.Bill, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, household_id, category_id, name, amount_cents, due_day, reminder_days_before, last_paid, active
		 FROM bills WHERE household_id = ? AND active = 1 ORDER BY due_day`, householdID)
	if err != nil {
		return nil, fmt.Errorf("list bills: %w", err)
	}
	defer rows.Close()
	return collectBills(rows)
}

// ListActiveBills returns every active bill across households, for the
// daily reminder scan.
func (r *SQLiteRepository) ListActiveBills(ctx context.Context) ([]core.Bill, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, household_id, category_id, name, amount_cents, due_day, reminder_days_before, last_paid, active
		 FROM bills WHERE active = 1 ORDER BY household_id, due_day`)
	if err != nil {
		return nil, fmt.Errorf("list active bills: %w", err)
	}
	defer rows.Close()
	return collectBills(rows)
}

func (r *SQLiteRepository) UpdateBillLastPaid(ctx context.Context, id string, paid core.Date) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE bills SET last_paid = ? WHERE id = ?`, paid.ISO(), id)
	if err != nil {
		return fmt.Errorf("update bill last paid: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *SQLiteRepository) DeactivateBill(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE bills SET active = 0 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deactivate bill: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// --- scan helpers ---

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCategory(s rowScanner) (core.Category, error) {
	var (
		c         core.Category
		splitType string
	)
	err := s.Scan(&c.ID, &c.HouseholdID, &c.Name, &c.Icon, &c.Color, &splitType, &c.Split.Ratio)
	if err != nil {
		return core.Category{}, fmt.Errorf("scan category: %w", err)
	}
	c.Split.Kind = core.SplitKind(splitType)
	return c, nil
}

func scanRecurring(s rowScanner) (core.RecurringExpense, error) {
	var (
		re        core.RecurringExpense
		frequency string
		nextDue   string
	)
	err := s.Scan(&re.ID, &re.HouseholdID, &re.CategoryID, &re.PaidBy, &re.Amount.Cents,
		&re.Description, &frequency, &nextDue, &re.AutoCreate, &re.Active)
	if err != nil {
		return core.RecurringExpense{}, err
	}
	re.Frequency = core.Frequency(frequency)
	if re.NextDue, err = parseISODate(nextDue); err != nil {
		return core.RecurringExpense{}, err
	}
	return re, nil
}

func collectRecurring(rows *sql.Rows) ([]core.RecurringExpense, error) {
	var out []core.RecurringExpense
	for rows.Next() {
		re, err := scanRecurring(rows)
		if err != nil {
			return nil, fmt.Errorf("scan recurring expense: %w", err)
		}
		out = append(out, re)
	}
	return out, rows.Err()
}

func scanBill(s rowScanner) (core.Bill, error) {
	var (
		b          core.Bill
		categoryID sql.NullString
		amount     sql.NullInt64
		lastPaid   sql.NullString
	)
	err := s.Scan(&b.ID, &b.HouseholdID, &categoryID, &b.Name, &amount,
		&b.DueDay, &b.ReminderDaysBefore, &lastPaid, &b.Active)
	if err != nil {
		return core.Bill{}, err
	}
	b.CategoryID = categoryID.String
	b.Amount.Cents = amount.Int64
	if lastPaid.Valid {
		if b.LastPaid, err = parseISODate(lastPaid.String); err != nil {
			return core.Bill{}, err
		}
	}
	return b, nil
}

func collectBills(rows *sql.Rows) ([]core.Bill, error) {
	var out []core.Bill
	for rows.Next() {
		b, err := scanBill(rows)
		if err != nil {
			return nil, fmt.Errorf("scan bill: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func parseISODate(s string) (core.Date, error) {
	t, err := time.ParseInLocation("2006-01-02", s, time.UTC)
	if err != nil {
		return core.Date{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return core.Date{Time: t}, nil
}

// nullable maps an empty string to NULL for optional foreign keys.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
