package db

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/georgettica/contact-fixer/internal/people"
)

// BackendName is the registry name of the local SQLite directory
const BackendName = "sqlite"

// Backend serves a local database as a people directory
type Backend struct {
	db     *DB
	logger *zap.Logger
}

// NewBackend wraps an open database
func NewBackend(db *DB) *Backend {
	return &Backend{db: db, logger: db.logger}
}

// Name returns the backend identifier
func (b *Backend) Name() string {
	return BackendName
}

// Close closes the underlying database
func (b *Backend) Close() error {
	return b.db.Close()
}

// ListConnections returns up to pageSize contacts. Only the local user
// exists, so resource must be people/me. Fields not requested are left empty.
func (b *Backend) ListConnections(ctx context.Context, resource string, pageSize int64, fields []string) ([]*people.Contact, error) {
	if resource != people.Me {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, resource)
	}

	contacts, err := b.db.ListContacts(ctx, pageSize)
	if err != nil {
		return nil, err
	}

	want := make(map[string]bool, len(fields))
	for _, f := range fields {
		want[f] = true
	}
	for _, c := range contacts {
		if !want[people.FieldNames] {
			c.Names = nil
		}
		if !want[people.FieldPhoneNumbers] {
			c.PhoneNumbers = nil
		}
		if !want[people.FieldEmailAddresses] {
			c.EmailAddresses = nil
		}
	}

	b.logger.Debug("listed local contacts", zap.Int("count", len(contacts)))
	return contacts, nil
}

// UpdatePerson updates the given fields of the stored contact
func (b *Backend) UpdatePerson(ctx context.Context, resourceName string, c *people.Contact, updateFields []string) (*people.Contact, error) {
	return b.db.UpdateContact(ctx, resourceName, c, updateFields)
}

func init() {
	people.Register(BackendName, func(ctx context.Context, opts people.BackendOptions) (people.Backend, error) {
		database, err := Open(opts.Config.Database.Path, opts.Logger)
		if err != nil {
			return nil, err
		}
		return NewBackend(database), nil
	})
}
