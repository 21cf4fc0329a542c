package sqlite

import "database/sql"

// schema runs on startup. Amounts are stored as decimal text.
const schema = `
CREATE TABLE IF NOT EXISTS scenarios (
    id TEXT PRIMARY KEY,
    debt_id TEXT NOT NULL,
    strategy TEXT NOT NULL,
    fixed_amount TEXT NOT NULL,
    default_amount TEXT NOT NULL,
    months INTEGER,
    total_interest TEXT,
    created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS scenario_overrides (
    scenario_id TEXT NOT NULL,
    month INTEGER NOT NULL,
    amount TEXT NOT NULL,
    PRIMARY KEY (scenario_id, month),
    FOREIGN KEY (scenario_id) REFERENCES scenarios(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_scenarios_debt_id ON scenarios(debt_id);
`

func runMigrations(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
