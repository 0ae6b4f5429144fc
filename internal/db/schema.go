package db

import (
	"database/sql"
	"fmt"
)

// schema is the full database schema. Money columns are declared DECIMAL so
// SQLite gives them numeric affinity: bound decimal strings are converted
// before comparison, which the conditional price updates rely on.
const schema = `
CREATE TABLE IF NOT EXISTS users (
    id            INTEGER PRIMARY KEY,
    username      TEXT NOT NULL,
    email         TEXT,
    password_hash TEXT NOT NULL,
    created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    deleted_at    DATETIME
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_users_username_active
    ON users(username) WHERE deleted_at IS NULL;

CREATE TABLE IF NOT EXISTS categories (
    id   INTEGER PRIMARY KEY,
    name TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS items (
    id            INTEGER PRIMARY KEY,
    seller_id     INTEGER NOT NULL REFERENCES users(id),
    category_id   INTEGER NOT NULL REFERENCES categories(id),
    winner_id     INTEGER REFERENCES users(id),
    title         TEXT NOT NULL,
    description   TEXT,
    start_price   DECIMAL NOT NULL CHECK (start_price >= 0),
    current_price DECIMAL NOT NULL,
    start_time    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    end_time      DATETIME NOT NULL,
    status        TEXT NOT NULL DEFAULT 'active'
                  CHECK (status IN ('active', 'not_sold', 'awaiting_payment', 'sold')),
    photo         BLOB,
    photo_mime    TEXT,
    created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_items_status_end_time
    ON items(status, end_time);

CREATE TABLE IF NOT EXISTS bids (
    id        INTEGER PRIMARY KEY,
    item_id   INTEGER NOT NULL REFERENCES items(id),
    bidder_id INTEGER NOT NULL REFERENCES users(id),
    amount    DECIMAL NOT NULL CHECK (amount > 0),
    bid_time  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_bids_item ON bids(item_id);

CREATE TABLE IF NOT EXISTS payments (
    id             INTEGER PRIMARY KEY,
    bid_id         INTEGER NOT NULL REFERENCES bids(id),
    amount         DECIMAL NOT NULL,
    payment_status TEXT NOT NULL DEFAULT 'CREATED',
    transaction_id TEXT NOT NULL UNIQUE,
    payment_date   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS settings (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS revoked_tokens (
    jti        TEXT PRIMARY KEY,
    expires_at DATETIME NOT NULL
);
`

// EnsureSchema creates all tables and indexes if they don't already exist.
func EnsureSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}
