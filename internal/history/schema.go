// # internal/history/schema.go
package history

import "database/sql"

const schemaSQL = `
CREATE TABLE IF NOT EXISTS scans (
  scan_id TEXT PRIMARY KEY,
  ts_utc TEXT NOT NULL,
  root TEXT NOT NULL DEFAULT '',
  file_count INTEGER NOT NULL,
  total_lines INTEGER NOT NULL,
  parse_error_count INTEGER NOT NULL,
  edge_count INTEGER NOT NULL,
  mean_risk REAL NOT NULL DEFAULT 0,
  max_risk REAL NOT NULL DEFAULT 0,
  top_risky TEXT NOT NULL DEFAULT '',
  top_impactful TEXT NOT NULL DEFAULT '',
  created_at_utc TEXT NOT NULL DEFAULT (CURRENT_TIMESTAMP)
);
CREATE INDEX IF NOT EXISTS idx_scans_ts ON scans(ts_utc);
CREATE INDEX IF NOT EXISTS idx_scans_root ON scans(root);
`

func ensureSchema(db *sql.DB) error {
	_, err := db.Exec(schemaSQL)
	return err
}
