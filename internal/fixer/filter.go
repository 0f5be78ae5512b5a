package fixer

import (
	"errors"
	"fmt"
	"regexp"

	"go.uber.org/zap"

	"github.com/georgettica/contact-fixer/internal/people"
)

// ErrNoFilter is returned when a substitution is requested before a filter
// pattern was set
var ErrNoFilter = errors.New("no filter pattern set")

// InvalidPatternError reports a pattern that does not compile
type InvalidPatternError struct {
	Pattern string
	Err     error
}

func (e *InvalidPatternError) Error() string {
	return fmt.Sprintf("invalid pattern %q: %v", e.Pattern, e.Err)
}

func (e *InvalidPatternError) Unwrap() error {
	return e.Err
}

// CompilePattern compiles pattern, returning an *InvalidPatternError on failure
func CompilePattern(pattern string) (*regexp.Regexp, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, &InvalidPatternError{Pattern: pattern, Err: err}
	}
	return re, nil
}

// Change describes a phone number a substitution would rewrite
type Change struct {
	Contact *people.Contact
	Index   int
	Old     string
	New     string
}

// FilterByPhone returns, in order, the contacts having at least one phone
// number matching pattern anywhere in its value. The processor's own filter
// is not changed.
func (p *Processor) FilterByPhone(contacts []*people.Contact, pattern string) ([]*people.Contact, error) {
	re, err := CompilePattern(pattern)
	if err != nil {
		return nil, err
	}

	if len(contacts) == 0 {
		p.println(NoConnectionsMessage)
	}

	matched := []*people.Contact{}
	for _, c := range contacts {
		if matchesAnyPhone(c, re) {
			matched = append(matched, c)
		}
	}

	p.logger.Debug("filtered contacts",
		zap.String("pattern", pattern),
		zap.Int("total", len(contacts)),
		zap.Int("matched", len(matched)))
	return matched, nil
}

// Matches reports whether c has a phone number matching the current filter.
// Without a filter nothing matches.
func (p *Processor) Matches(c *people.Contact) bool {
	return p.filter != nil && c != nil && matchesAnyPhone(c, p.filter)
}

func matchesAnyPhone(c *people.Contact, re *regexp.Regexp) bool {
	if !c.HasPhoneNumbers() {
		return false
	}
	for _, phone := range c.PhoneNumbers {
		if re.MatchString(phone.Value) {
			return true
		}
	}
	return false
}

// PlanSubstitution reports every phone number that replacing the filter
// matches with replacement would change. Nothing is mutated.
func (p *Processor) PlanSubstitution(contacts []*people.Contact, replacement string) ([]Change, error) {
	if p.filter == nil {
		return nil, ErrNoFilter
	}

	var changes []Change
	for _, c := range contacts {
		if c == nil {
			continue
		}
		for i, phone := range c.PhoneNumbers {
			replaced := p.filter.ReplaceAllString(phone.Value, replacement)
			if replaced != phone.Value {
				changes = append(changes, Change{Contact: c, Index: i, Old: phone.Value, New: replaced})
			}
		}
	}
	return changes, nil
}

// ApplySubstitution replaces every match of the filter in every phone number
// with replacement, in place, and returns contacts. Replacement may refer to
// the match with $0 and to groups with $1 or ${name}.
func (p *Processor) ApplySubstitution(contacts []*people.Contact, replacement string) ([]*people.Contact, error) {
	if p.filter == nil {
		return nil, ErrNoFilter
	}

	if len(contacts) == 0 {
		p.println(NoConnectionsMessage)
	}

	rewritten := 0
	for _, c := range contacts {
		if c == nil {
			continue
		}
		for i := range c.PhoneNumbers {
			replaced := p.filter.ReplaceAllString(c.PhoneNumbers[i].Value, replacement)
			if replaced != c.PhoneNumbers[i].Value {
				rewritten++
			}
			c.PhoneNumbers[i].Value = replaced
		}
	}

	p.logger.Debug("applied substitution",
		zap.String("pattern", p.filter.String()),
		zap.String("replacement", replacement),
		zap.Int("rewritten", rewritten))
	return contacts, nil
}

// ChangedContacts returns, in order and without duplicates, the contacts
// referenced by changes
func ChangedContacts(changes []Change) []*people.Contact {
	seen := make(map[*people.Contact]bool)
	var out []*people.Contact
	for _, ch := range changes {
		if !seen[ch.Contact] {
			seen[ch.Contact] = true
			out = append(out, ch.Contact)
		}
	}
	return out
}
