package tui

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ErrAborted is returned when the user cancels a prompt
var ErrAborted = errors.New("aborted")

// Styles
var (
	questionStyle = lipgloss.NewStyle().
			Bold(true)

	defaultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))
)

// AskModel asks a single question, offering a default answer
type AskModel struct {
	question  string
	def       string
	input     textinput.Model
	validate  func(string) error
	err       error
	done      bool
	cancelled bool
}

// NewAskModel creates a question prompt. validate may be nil.
func NewAskModel(question, def string, validate func(string) error) AskModel {
	ti := textinput.New()
	ti.Placeholder = def
	ti.Prompt = "> "
	ti.CharLimit = 200
	ti.Width = 60
	ti.PromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	ti.PlaceholderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	ti.Focus()

	return AskModel{
		question: question,
		def:      def,
		input:    ti,
		validate: validate,
	}
}

// Init initializes the model
func (m AskModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages
func (m AskModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.cancelled = true
			return m, tea.Quit
		case tea.KeyEnter:
			if m.validate != nil {
				if err := m.validate(m.Answer()); err != nil {
					// Stay on the question until the answer is valid
					m.err = err
					return m, nil
				}
			}
			m.done = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.err = nil
	return m, cmd
}

// View renders the prompt
func (m AskModel) View() string {
	if m.done || m.cancelled {
		return ""
	}

	var b strings.Builder
	b.WriteString(questionStyle.Render(m.question))
	if m.def != "" {
		b.WriteString(" " + defaultStyle.Render("|"+m.def+"|"))
	}
	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")
	if m.err != nil {
		b.WriteString(errorStyle.Render(m.err.Error()))
		b.WriteString("\n")
	}
	return b.String()
}

// Answer returns the typed value, or the default when nothing was typed
func (m AskModel) Answer() string {
	if v := m.input.Value(); v != "" {
		return v
	}
	return m.def
}

// ConfirmModel asks a yes/no question; anything but y cancels
type ConfirmModel struct {
	question string
	answered bool
	yes      bool
}

// NewConfirmModel creates a yes/no prompt
func NewConfirmModel(question string) ConfirmModel {
	return ConfirmModel{question: question}
}

// Init initializes the model
func (m ConfirmModel) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m ConfirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		m.answered = true
		switch msg.String() {
		case "y", "Y":
			m.yes = true
		default:
			m.yes = false
		}
		return m, tea.Quit
	}
	return m, nil
}

// View renders the prompt
func (m ConfirmModel) View() string {
	if m.answered {
		return ""
	}
	return questionStyle.Render(m.question) + " " + defaultStyle.Render("[y/N]") + "\n"
}

// Yes reports whether the user confirmed
func (m ConfirmModel) Yes() bool {
	return m.yes
}

// Prompter runs prompts as small bubbletea programs on the given terminal
type Prompter struct {
	In  io.Reader
	Out io.Writer
}

// Ask asks question and returns the answer or def. validate may be nil.
func (p *Prompter) Ask(question, def string, validate func(string) error) (string, error) {
	final, err := p.run(NewAskModel(question, def, validate))
	if err != nil {
		return "", err
	}

	m := final.(AskModel)
	if m.cancelled {
		return "", ErrAborted
	}
	return m.Answer(), nil
}

// Confirm asks a yes/no question
func (p *Prompter) Confirm(question string) (bool, error) {
	final, err := p.run(NewConfirmModel(question))
	if err != nil {
		return false, err
	}
	return final.(ConfirmModel).Yes(), nil
}

func (p *Prompter) run(model tea.Model) (tea.Model, error) {
	var opts []tea.ProgramOption
	if p.In != nil {
		opts = append(opts, tea.WithInput(p.In))
	}
	if p.Out != nil {
		opts = append(opts, tea.WithOutput(p.Out))
	}

	final, err := tea.NewProgram(model, opts...).Run()
	if err != nil {
		return nil, fmt.Errorf("running prompt: %w", err)
	}
	return final, nil
}
