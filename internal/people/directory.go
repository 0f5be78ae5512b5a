package people

import "context"

// Field names understood by every directory backend. They follow the
// People API person field names.
const (
	FieldNames          = "names"
	FieldPhoneNumbers   = "phoneNumbers"
	FieldEmailAddresses = "emailAddresses"
)

// Me is the resource name of the authenticated user
const Me = "people/me"

// DefaultFields are the fields requested when listing connections
var DefaultFields = []string{FieldNames, FieldPhoneNumbers, FieldEmailAddresses}

// Directory is a remote (or local) people directory holding the user's connections
type Directory interface {
	// ListConnections returns a single page of at most pageSize connections
	// of resource, populated with the requested fields
	ListConnections(ctx context.Context, resource string, pageSize int64, fields []string) ([]*Contact, error)

	// UpdatePerson writes the given fields of c to the contact addressed by
	// resourceName and returns the contact as stored afterwards
	UpdatePerson(ctx context.Context, resourceName string, c *Contact, updateFields []string) (*Contact, error)
}

// Backend is a named Directory implementation
type Backend interface {
	Directory

	// Name returns the backend identifier (e.g., "google", "sqlite")
	Name() string

	// Close releases any resources held by the backend
	Close() error
}
