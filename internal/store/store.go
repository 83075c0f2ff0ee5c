// Package store provides the SQLite-backed record store. Every operation
// is scoped to an explicit user id.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"centavo/internal/model"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // register sqlite driver
)

const (
	dayFormat = "2006-01-02"

	// txTypeExpense marks bank transactions in the expense direction;
	// only those enter spend aggregation.
	txTypeExpense = "expense"
)

// Store wraps the SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at the given path.
func Open(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("opening db: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// --- budgets ---

// BudgetFor returns the budget for the given month, or nil if none is set.
func (s *Store) BudgetFor(ctx context.Context, userID string, month time.Time) (*model.Budget, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, total_amount FROM budgets WHERE user_id = ? AND month = ?`,
		userID, month.Format(dayFormat))

	b := model.Budget{UserID: userID, Month: month}
	if err := row.Scan(&b.ID, &b.TotalAmount); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &b, nil
}

// SetBudget creates or replaces the budget for a month.
func (s *Store) SetBudget(ctx context.Context, userID string, month time.Time, totalAmount float64) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO budgets (id, user_id, month, total_amount) VALUES (?, ?, ?, ?)
		 ON CONFLICT (user_id, month) DO UPDATE SET total_amount = excluded.total_amount`,
		uuid.NewString(), userID, month.Format(dayFormat), totalAmount)
	return err
}

// --- categories ---

// CategoriesFor returns all categories for a user, name-sorted.
func (s *Store) CategoriesFor(ctx context.Context, userID string) ([]model.Category, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, type, fixed_amount, percentage FROM categories WHERE user_id = ? ORDER BY name`,
		userID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var categories []model.Category
	for rows.Next() {
		c := model.Category{UserID: userID}
		var ctype string
		if err := rows.Scan(&c.ID, &c.Name, &ctype, &c.FixedAmount, &c.Percentage); err != nil {
			return nil, err
		}
		c.Type = model.CategoryType(ctype)
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// CreateCategory stores a new category, assigning its id.
func (s *Store) CreateCategory(ctx context.Context, c *model.Category) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO categories (id, user_id, name, type, fixed_amount, percentage) VALUES (?, ?, ?, ?, ?, ?)`,
		c.ID, c.UserID, c.Name, string(c.Type), c.FixedAmount, c.Percentage)
	return err
}

// --- spend records ---

// ManualExpenses returns manually entered expenses within [from, to],
// either bound optional (zero time means unbounded).
func (s *Store) ManualExpenses(ctx context.Context, userID string, from, to time.Time) ([]model.SpendRecord, error) {
	query := `SELECT id, occurred_on, amount, COALESCE(category_id, ''), COALESCE(note, '') FROM expenses WHERE user_id = ?`
	args := []any{userID}
	query, args = appendWindow(query, args, from, to)
	query += ` ORDER BY occurred_on`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	return scanSpendRecords(rows, userID, model.SourceManual)
}

// BankExpenses returns imported bank transactions classified as expenses
// within [from, to].
func (s *Store) BankExpenses(ctx context.Context, userID string, from, to time.Time) ([]model.SpendRecord, error) {
	query := `SELECT id, occurred_on, amount, COALESCE(category_id, ''), COALESCE(description, '')
		FROM bank_transactions WHERE user_id = ? AND transaction_type = '` + txTypeExpense + `'`
	args := []any{userID}
	query, args = appendWindow(query, args, from, to)
	query += ` ORDER BY occurred_on`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	return scanSpendRecords(rows, userID, model.SourceBank)
}

// CreateExpense stores a manual expense, assigning its id.
func (s *Store) CreateExpense(ctx context.Context, r *model.SpendRecord) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO expenses (id, user_id, occurred_on, amount, category_id, note, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.UserID, r.OccurredOn.Format(dayFormat), r.Amount,
		nullable(r.CategoryID), r.Note, time.Now().UTC().Format(time.RFC3339))
	return err
}

// CreateBankTransaction stores an imported bank transaction.
func (s *Store) CreateBankTransaction(ctx context.Context, r *model.SpendRecord, transactionType string) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO bank_transactions (id, user_id, occurred_on, amount, category_id, transaction_type, description, imported_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.UserID, r.OccurredOn.Format(dayFormat), r.Amount,
		nullable(r.CategoryID), transactionType, r.Note, time.Now().UTC().Format(time.RFC3339))
	return err
}

func appendWindow(query string, args []any, from, to time.Time) (string, []any) {
	if !from.IsZero() {
		query += ` AND occurred_on >= ?`
		args = append(args, from.Format(dayFormat))
	}
	if !to.IsZero() {
		query += ` AND occurred_on <= ?`
		args = append(args, to.Format(dayFormat))
	}
	return query, args
}

func scanSpendRecords(rows *sql.Rows, userID string, source model.RecordSource) ([]model.SpendRecord, error) {
	var records []model.SpendRecord
	for rows.Next() {
		r := model.SpendRecord{UserID: userID, Source: source}
		var day string
		if err := rows.Scan(&r.ID, &day, &r.Amount, &r.CategoryID, &r.Note); err != nil {
			return nil, err
		}
		t, err := time.ParseInLocation(dayFormat, day, time.Local)
		if err != nil {
			continue // skip rows with unparseable dates rather than failing the read
		}
		r.OccurredOn = t
		records = append(records, r)
	}
	return records, rows.Err()
}

// --- streaks ---

// StreakFor returns the user's streak state, or nil if none exists yet.
func (s *Store) StreakFor(ctx context.Context, userID string) (*model.StreakState, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, current_streak, best_streak, COALESCE(last_no_spend_date, ''),
		        streak_broken_count, total_no_spend_days, COALESCE(last_check_in, '')
		 FROM streaks WHERE user_id = ?`, userID)

	st := model.StreakState{UserID: userID}
	var lastNoSpend, lastCheckIn string
	err := row.Scan(&st.ID, &st.CurrentStreak, &st.BestStreak, &lastNoSpend,
		&st.StreakBrokenCount, &st.TotalNoSpendDays, &lastCheckIn)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	st.LastNoSpendDate = parseDay(lastNoSpend)
	st.LastCheckIn = parseDay(lastCheckIn)
	return &st, nil
}

// SaveStreak creates or replaces the user's streak state.
func (s *Store) SaveStreak(ctx context.Context, st *model.StreakState) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO streaks
		 (user_id, id, current_streak, best_streak, last_no_spend_date, streak_broken_count, total_no_spend_days, last_check_in)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		st.UserID, st.ID, st.CurrentStreak, st.BestStreak, formatDay(st.LastNoSpendDate),
		st.StreakBrokenCount, st.TotalNoSpendDays, formatDay(st.LastCheckIn))
	return err
}

// --- missions ---

// MissionFor returns the mission for the week starting at weekStart, or
// nil when none has been generated.
func (s *Store) MissionFor(ctx context.Context, userID string, weekStart time.Time) (*model.WeeklyMission, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, COALESCE(category_id, ''), category_name, baseline_amount, baseline_source, week_end, created_at
		 FROM missions WHERE user_id = ? AND week_start = ?`,
		userID, weekStart.Format(dayFormat))

	m := model.WeeklyMission{UserID: userID, WeekStart: weekStart}
	var source, weekEnd, createdAt string
	err := row.Scan(&m.ID, &m.CategoryID, &m.Baseline.CategoryName,
		&m.Baseline.BaselineAmount, &source, &weekEnd, &createdAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	m.Baseline.BaselineSource = model.BaselineSource(source)
	m.WeekEnd = parseDay(weekEnd)
	if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
		m.CreatedAt = t
	}
	return &m, nil
}

// CreateMission stores a newly generated weekly mission.
func (s *Store) CreateMission(ctx context.Context, m *model.WeeklyMission) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO missions (id, user_id, category_id, category_name, baseline_amount, baseline_source, week_start, week_end, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.UserID, nullable(m.CategoryID), m.Baseline.CategoryName,
		m.Baseline.BaselineAmount, string(m.Baseline.BaselineSource),
		m.WeekStart.Format(dayFormat), m.WeekEnd.Format(dayFormat),
		m.CreatedAt.UTC().Format(time.RFC3339))
	return err
}

// --- alerts ---

// CreateAlerts stores a batch of alerts in one transaction.
func (s *Store) CreateAlerts(ctx context.Context, alerts []model.Alert) error {
	if len(alerts) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, a := range alerts {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO alerts (id, user_id, alert_type, title, message, severity, category_name, amount_involved, recommended_action, low_confidence, dismissed, generated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 0, ?)`,
			a.ID, a.UserID, string(a.Type), a.Title, a.Message, string(a.Severity),
			nullable(a.CategoryName), a.AmountInvolved, a.RecommendedAction,
			boolInt(a.LowConfidence), a.GeneratedAt.UTC().Format(time.RFC3339))
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}

// ActiveAlerts returns the user's non-dismissed alerts, newest first,
// most severe first within a batch.
func (s *Store) ActiveAlerts(ctx context.Context, userID string) ([]model.Alert, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, alert_type, title, message, severity, COALESCE(category_name, ''),
		        amount_involved, COALESCE(recommended_action, ''), low_confidence, generated_at
		 FROM alerts WHERE user_id = ? AND dismissed = 0
		 ORDER BY generated_at DESC,
		          CASE severity WHEN 'critical' THEN 0 WHEN 'warning' THEN 1 ELSE 2 END`,
		userID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var alerts []model.Alert
	for rows.Next() {
		a := model.Alert{UserID: userID}
		var atype, severity, generatedAt string
		var lowConfidence int
		if err := rows.Scan(&a.ID, &atype, &a.Title, &a.Message, &severity,
			&a.CategoryName, &a.AmountInvolved, &a.RecommendedAction, &lowConfidence, &generatedAt); err != nil {
			return nil, err
		}
		a.Type = model.AlertType(atype)
		a.Severity = model.Severity(severity)
		a.LowConfidence = lowConfidence != 0
		if t, err := time.Parse(time.RFC3339, generatedAt); err == nil {
			a.GeneratedAt = t
		}
		alerts = append(alerts, a)
	}
	return alerts, rows.Err()
}

// DismissAlert soft-deletes one alert. Dismissing an unknown or foreign
// id is a no-op.
func (s *Store) DismissAlert(ctx context.Context, userID, alertID string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE alerts SET dismissed = 1 WHERE user_id = ? AND id = ?`, userID, alertID)
	return err
}

// DismissAllAlerts soft-deletes every active alert for a user and
// returns how many were dismissed.
func (s *Store) DismissAllAlerts(ctx context.Context, userID string) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE alerts SET dismissed = 1 WHERE user_id = ? AND dismissed = 0`, userID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func formatDay(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dayFormat)
}

func parseDay(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, _ := time.ParseInLocation(dayFormat, s, time.Local)
	return t
}
