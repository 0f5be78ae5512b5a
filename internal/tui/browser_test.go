package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/georgettica/contact-fixer/internal/people"
)

func browserContacts() []*people.Contact {
	return []*people.Contact{
		{
			ResourceName: "people/c1",
			Names:        []people.Name{{DisplayName: "Roy Trenneman"}},
			PhoneNumbers: []people.PhoneNumber{{Value: "0118-999", Type: "work"}},
		},
		{
			ResourceName: "people/c2",
			Names:        []people.Name{{DisplayName: "Shoe Emporium"}},
			PhoneNumbers: []people.PhoneNumber{{Value: "976-shoe"}},
		},
		{
			ResourceName:   "people/c3",
			Names:          []people.Name{{DisplayName: "Jen Barber"}},
			EmailAddresses: []people.EmailAddress{{Value: "jen@reynholm.example"}},
		},
	}
}

func shoeOptions() BrowserOptions {
	return BrowserOptions{
		Highlight: func(s string) string { return strings.ReplaceAll(s, "976", "<976>") },
		Matches: func(c *people.Contact) bool {
			for _, p := range c.PhoneNumbers {
				if strings.Contains(p.Value, "976") {
					return true
				}
			}
			return false
		},
	}
}

func press(m tea.Model, keys ...string) tea.Model {
	for _, k := range keys {
		switch k {
		case "esc":
			m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
		case "enter":
			m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
		default:
			m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)})
		}
	}
	return m
}

func sized(m Browser) tea.Model {
	model, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 30})
	return model
}

func TestBrowserNavigation(t *testing.T) {
	m := sized(NewBrowser(browserContacts(), BrowserOptions{}))

	assert.Equal(t, "people/c1", m.(Browser).Selected().ResourceName)

	m = press(m, "j", "j", "j")
	assert.Equal(t, "people/c3", m.(Browser).Selected().ResourceName)

	m = press(m, "k")
	assert.Equal(t, "people/c2", m.(Browser).Selected().ResourceName)
}

func TestBrowserNameFilter(t *testing.T) {
	m := sized(NewBrowser(browserContacts(), BrowserOptions{}))

	m = press(m, "j", "j", "/", "r", "o", "y")
	b := m.(Browser)
	require.Len(t, b.visibleContacts(), 1)
	assert.Equal(t, "people/c1", b.Selected().ResourceName)
	assert.Contains(t, b.View(), "Contacts (1)")

	// confirming keeps the filter, esc then clears it
	m = press(m, "enter")
	assert.Len(t, m.(Browser).visibleContacts(), 1)
	m = press(m, "esc")
	assert.Len(t, m.(Browser).visibleContacts(), 3)
}

func TestBrowserMatchesOnlyToggle(t *testing.T) {
	m := sized(NewBrowser(browserContacts(), shoeOptions()))

	m = press(m, "m")
	b := m.(Browser)
	require.Len(t, b.visibleContacts(), 1)
	assert.Contains(t, b.View(), "[matching]")

	m = press(m, "m")
	assert.Len(t, m.(Browser).visibleContacts(), 3)
}

func TestBrowserMatchesOnlyNeedsMatcher(t *testing.T) {
	m := sized(NewBrowser(browserContacts(), BrowserOptions{}))
	m = press(m, "m")
	assert.Len(t, m.(Browser).visibleContacts(), 3)
	assert.NotContains(t, m.View(), "m: matching only")
}

func TestBrowserDetailHighlightsPhones(t *testing.T) {
	m := sized(NewBrowser(browserContacts(), shoeOptions()))
	m = press(m, "j")

	view := m.View()
	assert.Contains(t, view, "Phone: <976>-shoe")
	assert.Contains(t, view, "m: matching only")
}

func TestBrowserDetailWithoutPhones(t *testing.T) {
	m := sized(NewBrowser(browserContacts(), BrowserOptions{}))
	m = press(m, "j", "j")

	view := m.View()
	assert.Contains(t, view, "Phone: none")
	assert.Contains(t, view, "Email: jen@reynholm.example")
}

func TestBrowserQuit(t *testing.T) {
	_, cmd := sized(NewBrowser(nil, BrowserOptions{})).Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestBrowserEmpty(t *testing.T) {
	m := NewBrowser(nil, BrowserOptions{})
	assert.Equal(t, "Loading...", m.View())
	assert.Nil(t, m.Selected())
	assert.Contains(t, sized(m).View(), "No contact selected")
}

func TestWrapText(t *testing.T) {
	assert.Equal(t, []string{"people/c1"}, wrapText("people/c1", 40))
	assert.Equal(t, []string{"aa bb", "cc"}, wrapText("aa bb cc", 5))
	assert.Equal(t, []string{}, wrapText("   ", 5))
	assert.Equal(t, []string{"x y"}, wrapText("x y", 0))
}
