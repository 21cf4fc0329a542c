// Package sqlite provides a SQLite-backed implementation of scenario.Store.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/iwvelando/payoff-forecast/internal/projection"
	"github.com/iwvelando/payoff-forecast/internal/scenario"
	"github.com/iwvelando/payoff-forecast/pkg/payoff"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)
)

var _ scenario.Store = (*Store)(nil)

// Store implements scenario.Store using SQLite.
type Store struct {
	db     *sql.DB
	logger *zap.Logger
}

// New opens the database at dbPath, creating parent directories and running
// migrations.
func New(logger *zap.Logger, dbPath string) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// Pragmas in the DSN apply to every pooled connection.
	db, err := sql.Open("sqlite", dbPath+"?_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := runMigrations(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	logger.Debug(fmt.Sprintf("opened scenario database %s", dbPath),
		zap.String("op", "sqlite.New"),
	)
	return &Store{db: db, logger: logger}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save persists a new scenario. ID and CreatedAt are filled in when unset.
func (s *Store) Save(ctx context.Context, sc *scenario.Scenario) error {
	return s.SaveAll(ctx, []*scenario.Scenario{sc})
}

// SaveAll persists every scenario in one transaction; on error none are kept.
func (s *Store) SaveAll(ctx context.Context, scenarios []*scenario.Scenario) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, sc := range scenarios {
		if err := insertScenario(ctx, tx, sc); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	for _, sc := range scenarios {
		s.logger.Debug(fmt.Sprintf("saved scenario %s for debt %s", sc.ID, sc.DebtID),
			zap.String("op", "sqlite.SaveAll"),
		)
	}
	return nil
}

func insertScenario(ctx context.Context, tx *sql.Tx, sc *scenario.Scenario) error {
	if sc.ID == "" {
		sc.ID = uuid.New().String()
	}
	if sc.CreatedAt.IsZero() {
		sc.CreatedAt = time.Now().UTC()
	}

	var months sql.NullInt64
	if sc.Months != nil {
		months = sql.NullInt64{Int64: int64(*sc.Months), Valid: true}
	}
	var interest decimal.NullDecimal
	if sc.TotalInterest != nil {
		interest = decimal.NullDecimal{Decimal: *sc.TotalInterest, Valid: true}
	}

	_, err := tx.ExecContext(ctx,
		`INSERT INTO scenarios (id, debt_id, strategy, fixed_amount, default_amount, months, total_interest, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		sc.ID, sc.DebtID, string(sc.Strategy), sc.FixedAmount.String(), sc.DefaultAmount.String(),
		months, interest, sc.CreatedAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert scenario %s: %w", sc.ID, err)
	}

	for _, month := range sc.Overrides.Months() {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO scenario_overrides (scenario_id, month, amount) VALUES (?, ?, ?)",
			sc.ID, month, sc.Overrides.AmountAt(month).String(),
		)
		if err != nil {
			return fmt.Errorf("failed to insert override for month %d: %w", month, err)
		}
	}
	return nil
}

const selectScenario = `SELECT id, debt_id, strategy, fixed_amount, default_amount, months, total_interest, created_at
	FROM scenarios`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanScenario(row rowScanner) (*scenario.Scenario, error) {
	var (
		sc        scenario.Scenario
		strategy  string
		months    sql.NullInt64
		interest  decimal.NullDecimal
		createdAt int64
	)
	if err := row.Scan(&sc.ID, &sc.DebtID, &strategy, &sc.FixedAmount, &sc.DefaultAmount, &months, &interest, &createdAt); err != nil {
		return nil, err
	}

	sc.Strategy = projection.Strategy(strategy)
	sc.CreatedAt = time.Unix(0, createdAt).UTC()
	if months.Valid {
		m := int(months.Int64)
		sc.Months = &m
	}
	if interest.Valid {
		total := interest.Decimal
		sc.TotalInterest = &total
	}
	return &sc, nil
}

// Get retrieves a scenario with its overrides.
func (s *Store) Get(ctx context.Context, id string) (*scenario.Scenario, error) {
	sc, err := scanScenario(s.db.QueryRowContext(ctx, selectScenario+" WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", scenario.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get scenario: %w", err)
	}

	if err := s.loadOverrides(ctx, sc); err != nil {
		return nil, err
	}
	return sc, nil
}

// ListByDebt returns every scenario saved for debtID, oldest first.
func (s *Store) ListByDebt(ctx context.Context, debtID string) ([]scenario.Scenario, error) {
	rows, err := s.db.QueryContext(ctx, selectScenario+" WHERE debt_id = ? ORDER BY created_at, id", debtID)
	if err != nil {
		return nil, fmt.Errorf("failed to list scenarios: %w", err)
	}
	defer rows.Close()

	scenarios := []scenario.Scenario{}
	for rows.Next() {
		sc, err := scanScenario(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan scenario: %w", err)
		}
		scenarios = append(scenarios, *sc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate scenarios: %w", err)
	}

	for i := range scenarios {
		if err := s.loadOverrides(ctx, &scenarios[i]); err != nil {
			return nil, err
		}
	}
	return scenarios, nil
}

func (s *Store) loadOverrides(ctx context.Context, sc *scenario.Scenario) error {
	rows, err := s.db.QueryContext(ctx,
		"SELECT month, amount FROM scenario_overrides WHERE scenario_id = ? ORDER BY month", sc.ID)
	if err != nil {
		return fmt.Errorf("failed to get overrides: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			month  int
			amount decimal.Decimal
		)
		if err := rows.Scan(&month, &amount); err != nil {
			return fmt.Errorf("failed to scan override: %w", err)
		}
		if sc.Overrides == nil {
			sc.Overrides = make(payoff.Schedule)
		}
		sc.Overrides[month] = amount
	}
	return rows.Err()
}

// Delete removes a scenario and its overrides.
func (s *Store) Delete(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, "DELETE FROM scenario_overrides WHERE scenario_id = ?", id); err != nil {
		return fmt.Errorf("failed to delete scenario overrides: %w", err)
	}
	result, err := tx.ExecContext(ctx, "DELETE FROM scenarios WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete scenario: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check deleted rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", scenario.ErrNotFound, id)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
