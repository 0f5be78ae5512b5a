package fixer

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/georgettica/contact-fixer/internal/people"
)

// Messages written in place of absent fields
const (
	NoNamesMessage   = "No names found for connection"
	NoNumbersMessage = "No numbers found for connection"
	NoEmailsMessage  = "No emails found for connection"
	HeaderMessage    = "Connection names:"
)

// nonRoman matches anything outside ASCII word characters, whitespace, '!' and '.'
var nonRoman = regexp.MustCompile(`[^\w\s!.]`)

func greenStyle(r *lipgloss.Renderer) lipgloss.Style {
	return r.NewStyle().Foreground(lipgloss.Color("2"))
}

// IsNonRoman reports whether s holds a character outside the Roman set
func IsNonRoman(s string) bool {
	return nonRoman.MatchString(s)
}

// FixDisplayName reverses names written in a non-Roman script so that
// right-to-left names read correctly in a left-to-right terminal. It is a
// crude display heuristic: mixed-script names are reversed as a whole.
func FixDisplayName(name string) string {
	if !IsNonRoman(name) {
		return name
	}
	runes := []rune(name)
	for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
		runes[i], runes[j] = runes[j], runes[i]
	}
	return string(runes)
}

// RenderContact writes a block describing the contact: names, phone numbers
// (matches of the filter highlighted) and emails, followed by a blank line.
// The contact is not modified.
func (p *Processor) RenderContact(c *people.Contact) {
	if len(c.Names) == 0 {
		p.println(NoNamesMessage)
	} else {
		names := c.DisplayNames()
		for i := range names {
			names[i] = FixDisplayName(names[i])
		}
		p.println(formatList(names))
	}

	if len(c.PhoneNumbers) == 0 {
		p.println(NoNumbersMessage)
	} else {
		values := c.PhoneValues()
		if p.filter != nil {
			for i := range values {
				values[i] = p.highlightMatches(values[i])
			}
		}
		p.println("- " + formatList(values))
	}

	if len(c.EmailAddresses) == 0 {
		p.println(NoEmailsMessage)
	} else {
		p.println("- " + formatList(c.EmailValues()))
	}

	p.println()
}

// RenderAll writes a header followed by a block per contact
func (p *Processor) RenderAll(contacts []*people.Contact) {
	p.println(HeaderMessage)
	if len(contacts) == 0 {
		p.println(NoConnectionsMessage)
	}
	for _, c := range contacts {
		p.RenderContact(c)
	}
}

// RenderChanges writes one line per planned phone number change
func (p *Processor) RenderChanges(changes []Change) {
	for _, ch := range changes {
		name := ch.Contact.ResourceName
		if len(ch.Contact.Names) > 0 {
			name = FixDisplayName(ch.Contact.Names[0].DisplayName)
		}
		p.println(fmt.Sprintf("%s: %q -> %q", name, ch.Old, ch.New))
	}
}

// HighlightPhone returns value with the filter matches highlighted, or value
// itself when no filter is set
func (p *Processor) HighlightPhone(value string) string {
	if p.filter == nil {
		return value
	}
	return p.highlightMatches(value)
}

func (p *Processor) highlightMatches(value string) string {
	return p.filter.ReplaceAllStringFunc(value, func(match string) string {
		if match == "" {
			return match
		}
		return p.highlight(match)
	})
}

// formatList renders values as ["a", "b"]
func formatList(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = `"` + v + `"`
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}
