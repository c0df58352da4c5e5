package tui

import "github.com/charmbracelet/lipgloss"

// Static styles for prompt elements
var (
	QuestionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFD700")).
			Bold(true)

	AnswerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#96CEB4"))

	PromptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#04B575")).
			Bold(true)

	InputStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA"))

	MessageStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA"))

	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")).
			Bold(true)

	HelpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262"))
)
