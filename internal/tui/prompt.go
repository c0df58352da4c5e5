// Package tui provides a bubbletea prompter for interactive play.
package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/lox/blackjack/internal/display"
)

// ErrAborted is returned when the user presses Esc or Ctrl-C at a prompt. It
// wraps context.Canceled so the table treats it as the end of the session.
var ErrAborted = fmt.Errorf("prompt aborted: %w", context.Canceled)

// promptModel is a single question with inline validation.
type promptModel struct {
	question string
	input    textinput.Model
	validate func(string) error

	errMsg  string
	value   string
	done    bool
	aborted bool
}

func newPromptModel(question string, validate func(string) error) promptModel {
	ti := textinput.New()
	ti.Focus()
	ti.CharLimit = 32
	ti.Width = 32
	ti.Prompt = "> "
	ti.PromptStyle = PromptStyle
	ti.TextStyle = InputStyle

	return promptModel{
		question: strings.TrimSpace(question),
		input:    ti,
		validate: validate,
	}
}

func (m promptModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m promptModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.aborted = true
			return m, tea.Quit
		case tea.KeyEnter:
			value := strings.TrimSpace(m.input.Value())
			if m.validate != nil {
				if err := m.validate(value); err != nil {
					m.errMsg = err.Error()
					m.input.Reset()
					return m, nil
				}
			}
			m.value = value
			m.done = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m promptModel) View() string {
	if m.done {
		return QuestionStyle.Render(m.question) + " " + AnswerStyle.Render(m.value) + "\n"
	}
	if m.aborted {
		return ""
	}

	var b strings.Builder
	b.WriteString(QuestionStyle.Render(m.question))
	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")
	if m.errMsg != "" {
		b.WriteString(ErrorStyle.Render(m.errMsg))
		b.WriteString("\n")
	}
	b.WriteString(HelpStyle.Render("enter to answer • esc to quit"))
	b.WriteString("\n")
	return b.String()
}

// Prompter runs a small bubbletea program for every question. It
// implements display.Prompter.
type Prompter struct {
	in     io.Reader
	out    io.Writer
	logger *log.Logger
	opts   []tea.ProgramOption
}

// NewPrompter creates a prompter reading keys from in and drawing to out.
func NewPrompter(in io.Reader, out io.Writer, logger *log.Logger, opts ...tea.ProgramOption) *Prompter {
	return &Prompter{
		in:     in,
		out:    out,
		logger: logger.WithPrefix("tui"),
		opts:   opts,
	}
}

// Say prints a message above the next prompt.
func (p *Prompter) Say(msg string) {
	fmt.Fprintln(p.out, MessageStyle.Render(msg))
}

// Ask runs the question until the answer passes validate.
func (p *Prompter) Ask(ctx context.Context, question string, validate func(string) error) (string, error) {
	opts := append([]tea.ProgramOption{
		tea.WithInput(p.in),
		tea.WithOutput(p.out),
		tea.WithContext(ctx),
	}, p.opts...)

	program := tea.NewProgram(newPromptModel(question, validate), opts...)
	final, err := program.Run()
	if ctxErr := ctx.Err(); ctxErr != nil {
		return "", ctxErr
	}
	if err != nil {
		if errors.Is(err, tea.ErrProgramKilled) {
			return "", ErrAborted
		}
		return "", fmt.Errorf("running prompt: %w", err)
	}

	m := final.(promptModel)
	if m.aborted {
		p.logger.Debug("Prompt aborted", "question", question)
		return "", ErrAborted
	}
	p.logger.Debug("Prompt answered", "question", question, "answer", m.value)
	return m.value, nil
}

var _ display.Prompter = (*Prompter)(nil)
