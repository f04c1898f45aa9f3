package db

import (
	"database/sql"
)

const schema = `
CREATE TABLE IF NOT EXISTS user_data (
    player_id TEXT NOT NULL,
    key TEXT NOT NULL,
    value TEXT NOT NULL,
    permission TEXT NOT NULL DEFAULT 'Private',
    last_updated DATETIME DEFAULT CURRENT_TIMESTAMP,
    PRIMARY KEY (player_id, key)
);

CREATE TABLE IF NOT EXISTS player_data_version (
    player_id TEXT PRIMARY KEY,
    version INTEGER NOT NULL DEFAULT 0
);
`

func InitSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
