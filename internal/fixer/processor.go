// Package fixer selects, rewrites, displays and uploads contact phone
// numbers using a regular expression filter.
package fixer

import (
	"context"
	"fmt"
	"io"
	"regexp"

	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/georgettica/contact-fixer/internal/people"
)

// DefaultPageSize is the largest page the People API returns in one call
const DefaultPageSize = 1000

// NoConnectionsMessage is written when an operation receives no contacts
const NoConnectionsMessage = "No connections found"

// Processor coordinates fetching, filtering, rewriting, rendering and
// uploading contacts. It is not safe for concurrent use.
type Processor struct {
	dir       people.Directory
	out       io.Writer
	logger    *zap.Logger
	pageSize  int64
	filter    *regexp.Regexp
	highlight func(string) string
}

// Option configures a Processor
type Option func(*Processor) error

// WithPattern compiles pattern as the processor's filter
func WithPattern(pattern string) Option {
	return func(p *Processor) error {
		re, err := CompilePattern(pattern)
		if err != nil {
			return err
		}
		p.filter = re
		return nil
	}
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(p *Processor) error {
		if logger != nil {
			p.logger = logger
		}
		return nil
	}
}

// WithPageSize bounds the number of contacts fetched
func WithPageSize(size int64) Option {
	return func(p *Processor) error {
		if size < 1 {
			return fmt.Errorf("page size must be positive, got %d", size)
		}
		p.pageSize = size
		return nil
	}
}

// WithHighlighter replaces the function wrapping matched phone substrings
func WithHighlighter(fn func(string) string) Option {
	return func(p *Processor) error {
		if fn != nil {
			p.highlight = fn
		}
		return nil
	}
}

// WithRenderer highlights matches with a green foreground using r, which
// decides whether the output sink understands colors
func WithRenderer(r *lipgloss.Renderer) Option {
	return func(p *Processor) error {
		style := greenStyle(r)
		p.highlight = func(s string) string { return style.Render(s) }
		return nil
	}
}

// New creates a processor reading from and writing to dir, printing to out
func New(dir people.Directory, out io.Writer, opts ...Option) (*Processor, error) {
	p := &Processor{
		dir:      dir,
		out:      out,
		logger:   zap.NewNop(),
		pageSize: DefaultPageSize,
	}
	style := greenStyle(lipgloss.NewRenderer(out))
	p.highlight = func(s string) string { return style.Render(s) }

	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// WithFilter returns a copy of the processor holding pattern as its filter.
// The receiver is left unchanged.
func (p *Processor) WithFilter(pattern string) (*Processor, error) {
	re, err := CompilePattern(pattern)
	if err != nil {
		return nil, err
	}
	cp := *p
	cp.filter = re
	return &cp, nil
}

// Pattern returns the source of the current filter, or "" when none is set
func (p *Processor) Pattern() string {
	if p.filter == nil {
		return ""
	}
	return p.filter.String()
}

// FetchContacts lists the user's connections with names, phone numbers and
// email addresses, up to the configured page size
func (p *Processor) FetchContacts(ctx context.Context) ([]*people.Contact, error) {
	contacts, err := p.dir.ListConnections(ctx, people.Me, p.pageSize, people.DefaultFields)
	if err != nil {
		return nil, fmt.Errorf("listing connections: %w", err)
	}
	p.logger.Debug("fetched contacts", zap.Int("count", len(contacts)), zap.Int64("page_size", p.pageSize))
	return contacts, nil
}

// UploadContact writes the contact's phone numbers back to the directory.
// Other fields are left untouched server-side.
func (p *Processor) UploadContact(ctx context.Context, c *people.Contact) error {
	updated, err := p.dir.UpdatePerson(ctx, c.ResourceName, c, []string{people.FieldPhoneNumbers})
	if err != nil {
		return fmt.Errorf("updating %s: %w", c.ResourceName, err)
	}

	// Keep the fresh etag so a later upload of the same contact is accepted
	if updated != nil && updated.ETag != "" {
		c.ETag = updated.ETag
	}

	p.logger.Info("uploaded contact",
		zap.String("resource", c.ResourceName),
		zap.Strings("phone_numbers", c.PhoneValues()))
	return nil
}

func (p *Processor) println(a ...interface{}) {
	fmt.Fprintln(p.out, a...)
}
