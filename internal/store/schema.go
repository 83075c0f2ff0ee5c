package store

const schemaSQL = `
CREATE TABLE IF NOT EXISTS budgets (
    id            TEXT PRIMARY KEY,
    user_id       TEXT NOT NULL,
    month         TEXT NOT NULL,
    total_amount  REAL NOT NULL,
    UNIQUE (user_id, month)
);

CREATE TABLE IF NOT EXISTS categories (
    id            TEXT PRIMARY KEY,
    user_id       TEXT NOT NULL,
    name          TEXT NOT NULL,
    type          TEXT NOT NULL,
    fixed_amount  REAL NOT NULL DEFAULT 0,
    percentage    REAL NOT NULL DEFAULT 0,
    UNIQUE (user_id, name)
);

CREATE TABLE IF NOT EXISTS expenses (
    id            TEXT PRIMARY KEY,
    user_id       TEXT NOT NULL,
    occurred_on   TEXT NOT NULL,
    amount        REAL NOT NULL,
    category_id   TEXT,
    note          TEXT,
    created_at    TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS bank_transactions (
    id                TEXT PRIMARY KEY,
    user_id           TEXT NOT NULL,
    occurred_on       TEXT NOT NULL,
    amount            REAL NOT NULL,
    category_id       TEXT,
    transaction_type  TEXT NOT NULL,
    description       TEXT,
    imported_at       TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS streaks (
    user_id              TEXT PRIMARY KEY,
    id                   TEXT NOT NULL,
    current_streak       INTEGER NOT NULL,
    best_streak          INTEGER NOT NULL,
    last_no_spend_date   TEXT,
    streak_broken_count  INTEGER NOT NULL,
    total_no_spend_days  INTEGER NOT NULL,
    last_check_in        TEXT
);

CREATE TABLE IF NOT EXISTS missions (
    id               TEXT PRIMARY KEY,
    user_id          TEXT NOT NULL,
    category_id      TEXT,
    category_name    TEXT NOT NULL,
    baseline_amount  REAL NOT NULL,
    baseline_source  TEXT NOT NULL,
    week_start       TEXT NOT NULL,
    week_end         TEXT NOT NULL,
    created_at       TEXT NOT NULL,
    UNIQUE (user_id, week_start)
);

CREATE TABLE IF NOT EXISTS alerts (
    id                  TEXT PRIMARY KEY,
    user_id             TEXT NOT NULL,
    alert_type          TEXT NOT NULL,
    title               TEXT NOT NULL,
    message             TEXT NOT NULL,
    severity            TEXT NOT NULL,
    category_name       TEXT,
    amount_involved     REAL NOT NULL DEFAULT 0,
    recommended_action  TEXT,
    low_confidence      INTEGER NOT NULL DEFAULT 0,
    dismissed           INTEGER NOT NULL DEFAULT 0,
    generated_at        TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_expenses_user_day ON expenses(user_id, occurred_on);
CREATE INDEX IF NOT EXISTS idx_bank_user_day ON bank_transactions(user_id, occurred_on);
CREATE INDEX IF NOT EXISTS idx_alerts_user_active ON alerts(user_id, dismissed);
`
