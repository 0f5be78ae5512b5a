package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/georgettica/contact-fixer/internal/people"
)

// BrowserOptions customizes how contacts are shown. Every field may be nil.
type BrowserOptions struct {
	// Highlight marks the filter matches inside a phone number
	Highlight func(string) string
	// Matches reports whether a contact has a phone number matching the filter
	Matches func(*people.Contact) bool
	// DisplayName fixes a name for display
	DisplayName func(string) string
}

// Browser is a two-pane contact browser: a list on the left and the
// selected contact on the right
type Browser struct {
	contacts    []*people.Contact
	opts        BrowserOptions
	selected    int
	width       int
	height      int
	filterMode  bool
	matchesOnly bool
	filter      textinput.Model
}

// Styles
var (
	selectedStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("62")).
			Foreground(lipgloss.Color("230"))

	matchStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	borderStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240"))
)

// NewBrowser creates a browser over contacts
func NewBrowser(contacts []*people.Contact, opts BrowserOptions) Browser {
	ti := textinput.New()
	ti.Placeholder = "Filter by name..."
	ti.Width = 30
	ti.CharLimit = 50
	ti.Prompt = "> "
	ti.TextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("230"))
	ti.PromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	ti.PlaceholderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))

	return Browser{
		contacts: contacts,
		opts:     opts,
		filter:   ti,
	}
}

// Init initializes the model
func (m Browser) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m Browser) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.width > 0 {
			m.filter.Width = m.width/3 - 4
		}
		return m, nil

	case tea.KeyMsg:
		if m.filterMode {
			switch msg.String() {
			case "esc":
				m.filterMode = false
				m.filter.Reset()
				m.filter.Blur()
				m.selected = m.ensureValidSelection()
				return m, nil
			case "enter":
				m.filterMode = false
				m.filter.Blur()
				return m, nil
			case "up":
				if m.selected > 0 {
					m.selected--
				}
				return m, nil
			case "down":
				if m.selected < len(m.visibleContacts())-1 {
					m.selected++
				}
				return m, nil
			}

			var cmd tea.Cmd
			m.filter, cmd = m.filter.Update(msg)
			m.selected = m.ensureValidSelection()
			return m, cmd
		}

		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit

		case "j", "down":
			if m.selected < len(m.visibleContacts())-1 {
				m.selected++
			}

		case "k", "up":
			if m.selected > 0 {
				m.selected--
			}

		case "/":
			m.filterMode = true
			m.filter.Reset()
			cmd := m.filter.Focus()
			return m, tea.Batch(cmd, textinput.Blink)

		case "m":
			if m.opts.Matches != nil {
				m.matchesOnly = !m.matchesOnly
				m.selected = m.ensureValidSelection()
			}

		case "esc":
			if m.filter.Value() != "" {
				m.filter.Reset()
				m.selected = m.ensureValidSelection()
			}
		}
	}

	return m, nil
}

// visibleContacts applies the match toggle and the name filter
func (m Browser) visibleContacts() []*people.Contact {
	contacts := m.contacts

	if m.matchesOnly && m.opts.Matches != nil {
		var matching []*people.Contact
		for _, c := range contacts {
			if m.opts.Matches(c) {
				matching = append(matching, c)
			}
		}
		contacts = matching
	}

	if m.filter.Value() == "" {
		return contacts
	}

	needle := strings.ToLower(m.filter.Value())
	var filtered []*people.Contact
	for _, c := range contacts {
		for _, name := range c.DisplayNames() {
			if strings.Contains(strings.ToLower(name), needle) {
				filtered = append(filtered, c)
				break
			}
		}
	}
	return filtered
}

// Selected returns the contact under the cursor, or nil
func (m Browser) Selected() *people.Contact {
	contacts := m.visibleContacts()
	if len(contacts) == 0 || m.selected >= len(contacts) {
		return nil
	}
	return contacts[m.selected]
}

func (m Browser) ensureValidSelection() int {
	contacts := m.visibleContacts()
	if len(contacts) == 0 {
		return 0
	}
	if m.selected >= len(contacts) {
		return len(contacts) - 1
	}
	if m.selected < 0 {
		return 0
	}
	return m.selected
}

func (m Browser) title(c *people.Contact) string {
	names := c.DisplayNames()
	if len(names) == 0 {
		return c.ResourceName
	}
	if m.opts.DisplayName != nil {
		return m.opts.DisplayName(names[0])
	}
	return names[0]
}

// View renders the UI
func (m Browser) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	listWidth := m.width / 3
	detailWidth := m.width - listWidth - 3 // borders

	content := lipgloss.JoinHorizontal(
		lipgloss.Top,
		borderStyle.Width(listWidth).Height(m.height-3).Render(m.renderList(listWidth, m.height-3)),
		borderStyle.Width(detailWidth).Height(m.height-3).Render(m.renderDetail(detailWidth)),
	)

	return lipgloss.JoinVertical(lipgloss.Left, content, m.renderHelp())
}

func (m Browser) renderList(width, height int) string {
	var lines []string

	if m.filterMode {
		lines = append(lines, m.filter.View(), "")
		height -= 2
	}

	contacts := m.visibleContacts()

	visibleHeight := height - 2 // header
	startIdx := 0
	if m.selected >= visibleHeight {
		startIdx = m.selected - visibleHeight + 1
	}

	header := fmt.Sprintf("Contacts (%d)", len(contacts))
	if m.matchesOnly {
		header += " [matching]"
	}
	lines = append(lines, header, strings.Repeat("─", max(width-2, 0)))

	for i := startIdx; i < len(contacts) && i < startIdx+visibleHeight; i++ {
		c := contacts[i]

		marker := "  "
		if m.opts.Matches != nil && m.opts.Matches(c) {
			marker = matchStyle.Render("•") + " "
		}

		line := marker + m.title(c)
		if n := len(c.PhoneNumbers); n > 0 {
			line += " " + labelStyle.Render(fmt.Sprintf("[%d]", n))
		}

		if i == m.selected {
			line = selectedStyle.Render(line)
		}
		lines = append(lines, line)
	}

	return strings.Join(lines, "\n")
}

func (m Browser) renderDetail(width int) string {
	c := m.Selected()
	if c == nil {
		return "No contact selected"
	}

	lines := []string{m.title(c), strings.Repeat("─", max(width-2, 0)), ""}

	if len(c.Names) > 1 {
		lines = append(lines, "Also known as:")
		for _, name := range c.DisplayNames()[1:] {
			lines = append(lines, "  "+name)
		}
		lines = append(lines, "")
	}

	if len(c.PhoneNumbers) == 0 {
		lines = append(lines, "Phone: none")
	}
	for _, phone := range c.PhoneNumbers {
		value := phone.Value
		if m.opts.Highlight != nil {
			value = m.opts.Highlight(value)
		}
		if phone.Type != "" {
			value += " " + labelStyle.Render("("+phone.Type+")")
		}
		lines = append(lines, "Phone: "+value)
	}

	for _, email := range c.EmailAddresses {
		lines = append(lines, "Email: "+email.Value)
	}

	lines = append(lines, "")
	for _, l := range wrapText(c.ResourceName, width-4) {
		lines = append(lines, labelStyle.Render(l))
	}

	return strings.Join(lines, "\n")
}

func (m Browser) renderHelp() string {
	if m.filterMode {
		return " Type to filter • ↑/↓: navigate • Enter: confirm • Esc: cancel"
	}

	help := " j/k: navigate • /: filter"
	if m.opts.Matches != nil {
		help += " • m: matching only"
	}
	if m.filter.Value() != "" {
		help += " • Esc: clear filter"
	}
	return help + " • q: quit"
}

func wrapText(text string, width int) []string {
	if width <= 0 {
		return []string{text}
	}

	words := strings.Fields(text)
	if len(words) == 0 {
		return []string{}
	}

	var lines []string
	current := words[0]
	for _, word := range words[1:] {
		if len(current)+1+len(word) <= width {
			current += " " + word
		} else {
			lines = append(lines, current)
			current = word
		}
	}
	return append(lines, current)
}
