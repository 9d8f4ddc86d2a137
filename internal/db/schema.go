package db

import (
	"database/sql"
	"fmt"
)

// schema is the full database schema. Money and percentages are stored as
// decimal strings so no precision is lost on the way through SQLite.
const schema = `
CREATE TABLE IF NOT EXISTS users (
    id            INTEGER PRIMARY KEY,
    email         TEXT NOT NULL UNIQUE COLLATE NOCASE,
    full_name     TEXT NOT NULL,
    phone_number  TEXT NOT NULL DEFAULT '',
    company_name  TEXT NOT NULL DEFAULT '',
    country       TEXT NOT NULL DEFAULT '',
    state         TEXT NOT NULL DEFAULT '',
    city          TEXT NOT NULL DEFAULT '',
    password_hash TEXT NOT NULL,
    role          TEXT NOT NULL CHECK (role IN ('Admin', 'Agent')),
    created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS settings (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS revoked_sessions (
    jti        TEXT PRIMARY KEY,
    expires_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS destinations (
    code TEXT PRIMARY KEY,
    name TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS departure_ports (
    id               INTEGER PRIMARY KEY,
    code             TEXT NOT NULL,
    name             TEXT NOT NULL,
    destination_code TEXT NOT NULL REFERENCES destinations(code)
);

CREATE INDEX IF NOT EXISTS idx_departure_ports_destination
    ON departure_ports(destination_code);

CREATE TABLE IF NOT EXISTS cruise_lines (
    id   INTEGER PRIMARY KEY,
    code TEXT NOT NULL,
    name TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS ships (
    id             INTEGER PRIMARY KEY,
    code           TEXT NOT NULL,
    name           TEXT NOT NULL,
    cruise_line_id INTEGER NOT NULL REFERENCES cruise_lines(id),
    image          BLOB,
    image_mime     TEXT
);

CREATE INDEX IF NOT EXISTS idx_ships_cruise_line ON ships(cruise_line_id);

CREATE TABLE IF NOT EXISTS inventories (
    id                    INTEGER PRIMARY KEY,
    sail_date             TEXT NOT NULL,
    group_id              TEXT NOT NULL DEFAULT '',
    nights                INTEGER NOT NULL DEFAULT 0,
    package_name          TEXT NOT NULL DEFAULT '',
    destination_code      TEXT REFERENCES destinations(code),
    departure_port_id     INTEGER REFERENCES departure_ports(id),
    cruise_line_id        INTEGER REFERENCES cruise_lines(id),
    ship_id               INTEGER REFERENCES ships(id),
    category_id           TEXT NOT NULL DEFAULT '',
    stateroom             TEXT NOT NULL DEFAULT '',
    cabin_occupancy       TEXT NOT NULL DEFAULT '',
    pricing_type          TEXT NOT NULL DEFAULT '',
    commission_percentage TEXT,
    single_rate           TEXT,
    double_rate           TEXT,
    triple_rate           TEXT,
    nccf                  TEXT,
    tax                   TEXT,
    grats                 TEXT,
    currency              TEXT NOT NULL DEFAULT 'USD',
    enable_agent          INTEGER NOT NULL DEFAULT 1,
    enable_admin          INTEGER NOT NULL DEFAULT 1
);

CREATE TABLE IF NOT EXISTS cabins (
    id           INTEGER PRIMARY KEY,
    inventory_id INTEGER NOT NULL REFERENCES inventories(id) ON DELETE CASCADE,
    position     INTEGER NOT NULL,
    cabin_no     TEXT NOT NULL,
    cabin_type   TEXT NOT NULL,
    occupancy    TEXT NOT NULL,
    single_rate  TEXT,
    double_rate  TEXT,
    triple_rate  TEXT,
    nccf         TEXT,
    tax          TEXT,
    grats        TEXT
);

CREATE INDEX IF NOT EXISTS idx_cabins_inventory ON cabins(inventory_id, position);

CREATE TABLE IF NOT EXISTS markups (
    id                INTEGER PRIMARY KEY,
    min_markup        TEXT,
    max_markup        TEXT,
    min_base_fare     TEXT,
    max_base_fare     TEXT,
    markup_percentage TEXT NOT NULL,
    supplier_id       INTEGER,
    sailing_id        INTEGER,
    is_active         INTEGER NOT NULL DEFAULT 1,
    start_date        TEXT NOT NULL,
    end_date          TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS promotions (
    id         INTEGER PRIMARY KEY,
    name       TEXT NOT NULL,
    start_date TEXT NOT NULL,
    end_date   TEXT NOT NULL,
    is_active  INTEGER NOT NULL DEFAULT 1,
    body       TEXT NOT NULL
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
