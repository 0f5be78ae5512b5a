package google

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	peopleapi "google.golang.org/api/people/v1"

	"github.com/georgettica/contact-fixer/internal/auth"
	"github.com/georgettica/contact-fixer/internal/people"
)

// BackendName is the registry name of the Google People API backend
const BackendName = "google"

// Backend implements people.Backend on top of the Google People API
type Backend struct {
	srv    *peopleapi.Service
	logger *zap.Logger
}

// NewBackend creates a backend using an already-authorized HTTP client.
// Extra client options (e.g. option.WithEndpoint) are passed to the service.
func NewBackend(ctx context.Context, client *http.Client, logger *zap.Logger, opts ...option.ClientOption) (*Backend, error) {
	opts = append([]option.ClientOption{option.WithHTTPClient(client)}, opts...)
	srv, err := peopleapi.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating people service: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Backend{srv: srv, logger: logger}, nil
}

// Name returns the backend identifier
func (b *Backend) Name() string {
	return BackendName
}

// Close is a no-op; the HTTP client is owned by the caller
func (b *Backend) Close() error {
	return nil
}

// ListConnections returns the first page of the resource's connections
func (b *Backend) ListConnections(ctx context.Context, resource string, pageSize int64, fields []string) ([]*people.Contact, error) {
	resp, err := b.srv.People.Connections.List(resource).
		PageSize(pageSize).
		PersonFields(strings.Join(fields, ",")).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("listing connections of %s: %w", resource, err)
	}

	if resp.NextPageToken != "" {
		b.logger.Warn("more connections available than fetched",
			zap.Int64("page_size", pageSize),
			zap.Int64("total_items", resp.TotalItems))
	}

	contacts := make([]*people.Contact, 0, len(resp.Connections))
	for _, person := range resp.Connections {
		contacts = append(contacts, fromPerson(person))
	}
	return contacts, nil
}

// UpdatePerson updates the given fields of the contact
func (b *Backend) UpdatePerson(ctx context.Context, resourceName string, c *people.Contact, updateFields []string) (*people.Contact, error) {
	person, err := b.srv.People.UpdateContact(resourceName, toPerson(c)).
		UpdatePersonFields(strings.Join(updateFields, ",")).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("updating contact %s: %w", resourceName, err)
	}
	return fromPerson(person), nil
}

// fromPerson converts an API person into a contact
func fromPerson(p *peopleapi.Person) *people.Contact {
	c := &people.Contact{
		ResourceName: p.ResourceName,
		ETag:         p.Etag,
	}
	for _, n := range p.Names {
		c.Names = append(c.Names, people.Name{DisplayName: n.DisplayName})
	}
	for _, ph := range p.PhoneNumbers {
		c.PhoneNumbers = append(c.PhoneNumbers, people.PhoneNumber{Value: ph.Value, Type: ph.Type})
	}
	for _, e := range p.EmailAddresses {
		c.EmailAddresses = append(c.EmailAddresses, people.EmailAddress{Value: e.Value})
	}
	return c
}

// toPerson converts a contact into an API person. Only fields the contact
// carries are set; the update mask decides what the server writes.
func toPerson(c *people.Contact) *peopleapi.Person {
	p := &peopleapi.Person{
		ResourceName: c.ResourceName,
		Etag:         c.ETag,
	}
	for _, n := range c.Names {
		p.Names = append(p.Names, &peopleapi.Name{DisplayName: n.DisplayName})
	}
	for _, ph := range c.PhoneNumbers {
		p.PhoneNumbers = append(p.PhoneNumbers, &peopleapi.PhoneNumber{Value: ph.Value, Type: ph.Type})
	}
	for _, e := range c.EmailAddresses {
		p.EmailAddresses = append(p.EmailAddresses, &peopleapi.EmailAddress{Value: e.Value})
	}
	// An empty phone list must still be sent to clear the numbers
	if c.PhoneNumbers != nil && len(c.PhoneNumbers) == 0 {
		p.ForceSendFields = append(p.ForceSendFields, "PhoneNumbers")
	}
	return p
}

func init() {
	people.Register(BackendName, func(ctx context.Context, opts people.BackendOptions) (people.Backend, error) {
		oauthCfg, err := auth.LoadConfig(opts.Config.Auth.CredentialsPath)
		if err != nil {
			return nil, err
		}

		authorizer := &auth.Authorizer{
			Config: oauthCfg,
			Store:  auth.NewFileTokenStore(opts.Config.Auth.TokenPath),
			In:     opts.In,
			Out:    opts.Out,
			Logger: opts.Logger,
		}
		client, err := authorizer.Client(ctx)
		if err != nil {
			return nil, fmt.Errorf("authorizing: %w", err)
		}

		return NewBackend(ctx, client, opts.Logger)
	})
}
