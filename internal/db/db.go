package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/georgettica/contact-fixer/internal/people"
)

// DB wraps the database connection
type DB struct {
	conn   *sql.DB
	logger *zap.Logger
}

// Open creates a new database connection. A nil logger discards logs.
func Open(dbPath string, logger *zap.Logger) (*DB, error) {
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("database not found at %s\nRun 'contact-fixer init-local' to create it", dbPath)
	}

	conn, err := sql.Open("sqlite3", dsn(dbPath))
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if logger == nil {
		logger = zap.NewNop()
	}
	db := &DB{conn: conn, logger: logger}

	// Run any pending migrations
	if err := db.RunMigrations(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return db, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.conn.Close()
}

type contactRow struct {
	id      int64
	contact *people.Contact
}

// ListContacts returns up to limit contacts in insertion order
func (db *DB) ListContacts(ctx context.Context, limit int64) ([]*people.Contact, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, resource_name, version FROM contacts ORDER BY id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying contacts: %w", err)
	}
	defer rows.Close()

	var list []contactRow
	byID := make(map[int64]*people.Contact)
	for rows.Next() {
		var (
			id           int64
			resourceName string
			version      int
		)
		if err := rows.Scan(&id, &resourceName, &version); err != nil {
			return nil, fmt.Errorf("scanning contact: %w", err)
		}
		c := &people.Contact{ResourceName: resourceName, ETag: etagFor(version)}
		list = append(list, contactRow{id: id, contact: c})
		byID[id] = c
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := db.loadFields(ctx, byID); err != nil {
		return nil, err
	}

	contacts := make([]*people.Contact, 0, len(list))
	for _, r := range list {
		contacts = append(contacts, r.contact)
	}
	return contacts, nil
}

// GetContact retrieves a single contact by resource name
func (db *DB) GetContact(ctx context.Context, resourceName string) (*people.Contact, error) {
	var (
		id      int64
		version int
	)
	err := db.conn.QueryRowContext(ctx,
		`SELECT id, version FROM contacts WHERE resource_name = ?`, resourceName).Scan(&id, &version)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, resourceName)
	}
	if err != nil {
		return nil, fmt.Errorf("querying contact: %w", err)
	}

	c := &people.Contact{ResourceName: resourceName, ETag: etagFor(version)}
	if err := db.loadFields(ctx, map[int64]*people.Contact{id: c}); err != nil {
		return nil, err
	}
	return c, nil
}

// loadFields fills names, phone numbers and emails of the given contacts
func (db *DB) loadFields(ctx context.Context, byID map[int64]*people.Contact) error {
	if len(byID) == 0 {
		return nil
	}

	rows, err := db.conn.QueryContext(ctx,
		`SELECT contact_id, display_name FROM contact_names ORDER BY contact_id, position`)
	if err != nil {
		return fmt.Errorf("querying names: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var id int64
		var n people.Name
		if err := rows.Scan(&id, &n.DisplayName); err != nil {
			return fmt.Errorf("scanning name: %w", err)
		}
		if c, ok := byID[id]; ok {
			c.Names = append(c.Names, n)
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}

	phoneRows, err := db.conn.QueryContext(ctx,
		`SELECT contact_id, value, type FROM contact_phones ORDER BY contact_id, position`)
	if err != nil {
		return fmt.Errorf("querying phone numbers: %w", err)
	}
	defer phoneRows.Close()
	for phoneRows.Next() {
		var id int64
		var value string
		var phoneType sql.NullString
		if err := phoneRows.Scan(&id, &value, &phoneType); err != nil {
			return fmt.Errorf("scanning phone number: %w", err)
		}
		if c, ok := byID[id]; ok {
			c.PhoneNumbers = append(c.PhoneNumbers, people.PhoneNumber{Value: value, Type: phoneType.String})
		}
	}
	if err := phoneRows.Err(); err != nil {
		return err
	}

	emailRows, err := db.conn.QueryContext(ctx,
		`SELECT contact_id, value FROM contact_emails ORDER BY contact_id, position`)
	if err != nil {
		return fmt.Errorf("querying emails: %w", err)
	}
	defer emailRows.Close()
	for emailRows.Next() {
		var id int64
		var e people.EmailAddress
		if err := emailRows.Scan(&id, &e.Value); err != nil {
			return fmt.Errorf("scanning email: %w", err)
		}
		if c, ok := byID[id]; ok {
			c.EmailAddresses = append(c.EmailAddresses, e)
		}
	}
	return emailRows.Err()
}

// AddContact creates a new contact and returns its resource name. A contact
// without a resource name gets a generated one.
func (db *DB) AddContact(ctx context.Context, c *people.Contact) (string, error) {
	resourceName := c.ResourceName
	if resourceName == "" {
		resourceName = "people/" + uuid.NewString()
	}

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`INSERT INTO contacts (resource_name, created_at, updated_at) VALUES (?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)`,
		resourceName)
	if err != nil {
		return "", fmt.Errorf("inserting contact: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return "", fmt.Errorf("getting insert ID: %w", err)
	}

	for _, field := range people.DefaultFields {
		if err := writeField(ctx, tx, id, field, c); err != nil {
			return "", err
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("committing contact: %w", err)
	}
	return resourceName, nil
}

// UpdateContact replaces the listed fields of the stored contact with the
// ones of c. The etag of c must match the stored version.
func (db *DB) UpdateContact(ctx context.Context, resourceName string, c *people.Contact, fields []string) (*people.Contact, error) {
	if len(fields) == 0 {
		return nil, fmt.Errorf("no fields to update")
	}

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	var (
		id      int64
		version int
	)
	err = tx.QueryRowContext(ctx,
		`SELECT id, version FROM contacts WHERE resource_name = ?`, resourceName).Scan(&id, &version)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, resourceName)
	}
	if err != nil {
		return nil, fmt.Errorf("querying contact: %w", err)
	}

	given, err := parseEtag(c.ETag)
	if err != nil {
		return nil, err
	}
	if given != version {
		return nil, fmt.Errorf("%w: got %s, stored %s", ErrEtagMismatch, c.ETag, etagFor(version))
	}

	for _, field := range fields {
		if err := clearField(ctx, tx, id, field); err != nil {
			return nil, err
		}
		if err := writeField(ctx, tx, id, field, c); err != nil {
			return nil, err
		}
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE contacts SET version = version + 1, updated_at = CURRENT_TIMESTAMP WHERE id = ?`, id); err != nil {
		return nil, fmt.Errorf("updating contact: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing update: %w", err)
	}

	return db.GetContact(ctx, resourceName)
}

func fieldTable(field string) (string, error) {
	switch field {
	case people.FieldNames:
		return "contact_names", nil
	case people.FieldPhoneNumbers:
		return "contact_phones", nil
	case people.FieldEmailAddresses:
		return "contact_emails", nil
	default:
		return "", fmt.Errorf("unsupported field %q", field)
	}
}

func clearField(ctx context.Context, tx *sql.Tx, id int64, field string) error {
	table, err := fieldTable(field)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM `+table+` WHERE contact_id = ?`, id); err != nil {
		return fmt.Errorf("clearing %s: %w", field, err)
	}
	return nil
}

func writeField(ctx context.Context, tx *sql.Tx, id int64, field string, c *people.Contact) error {
	switch field {
	case people.FieldNames:
		for i, n := range c.Names {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO contact_names (contact_id, position, display_name) VALUES (?, ?, ?)`,
				id, i, n.DisplayName); err != nil {
				return fmt.Errorf("inserting name: %w", err)
			}
		}
	case people.FieldPhoneNumbers:
		for i, p := range c.PhoneNumbers {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO contact_phones (contact_id, position, value, type) VALUES (?, ?, ?, ?)`,
				id, i, p.Value, nullString(p.Type)); err != nil {
				return fmt.Errorf("inserting phone number: %w", err)
			}
		}
	case people.FieldEmailAddresses:
		for i, e := range c.EmailAddresses {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO contact_emails (contact_id, position, value) VALUES (?, ?, ?)`,
				id, i, e.Value); err != nil {
				return fmt.Errorf("inserting email: %w", err)
			}
		}
	default:
		return fmt.Errorf("unsupported field %q", field)
	}
	return nil
}

// nullString maps "" to NULL
func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{Valid: false}
	}
	return sql.NullString{String: s, Valid: true}
}
