package db

import "fmt"

func (d *DB) migrate() error {
	if _, err := d.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`); err != nil {
		return fmt.Errorf("creating migrations table: %w", err)
	}

	var version int
	if err := d.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&version); err != nil {
		return fmt.Errorf("getting schema version: %w", err)
	}

	migrations := []func(*DB) error{
		migrateV1,
	}

	for i := version; i < len(migrations); i++ {
		if err := migrations[i](d); err != nil {
			return fmt.Errorf("migration %d: %w", i+1, err)
		}
		if _, err := d.Exec("INSERT INTO schema_migrations (version) VALUES (?)", i+1); err != nil {
			return fmt.Errorf("recording migration %d: %w", i+1, err)
		}
	}
	return nil
}

func migrateV1(d *DB) error {
	statements := []string{
		`CREATE TABLE downloads (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			mod_name TEXT NOT NULL,
			version TEXT NOT NULL,
			file_name TEXT NOT NULL,
			size_bytes INTEGER NOT NULL DEFAULT 0,
			downloaded_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX idx_downloads_mod_name ON downloads(mod_name)`,
	}

	for _, stmt := range statements {
		if _, err := d.Exec(stmt); err != nil {
			return fmt.Errorf("executing migration statement: %w", err)
		}
	}
	return nil
}
