package db

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// RunMigrations applies any pending database migrations
func (db *DB) RunMigrations() error {
	// Version column backs etags; older local directories lack it
	if err := db.addColumnIfMissing("contacts", "version", "INTEGER NOT NULL DEFAULT 1"); err != nil {
		return err
	}

	// Phone types were not kept at first
	if err := db.addColumnIfMissing("contact_phones", "type", "TEXT"); err != nil {
		return err
	}

	return nil
}

func (db *DB) addColumnIfMissing(table, column, definition string) error {
	var count int
	err := db.conn.QueryRow(
		`SELECT COUNT(*) FROM pragma_table_info(?) WHERE name = ?`, table, column,
	).Scan(&count)
	if err != nil {
		return fmt.Errorf("checking for %s.%s column: %w", table, column, err)
	}

	if count > 0 {
		return nil
	}

	db.logger.Info("running migration", zap.String("table", table), zap.String("column", column))

	_, err = db.conn.Exec(fmt.Sprintf(`ALTER TABLE %s ADD COLUMN %s %s`, table, column, definition))
	if err != nil && !strings.Contains(err.Error(), "duplicate column name") {
		return fmt.Errorf("adding %s.%s column: %w", table, column, err)
	}

	db.logger.Info("migration completed", zap.String("table", table), zap.String("column", column))
	return nil
}
