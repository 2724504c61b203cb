package tui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")).
			MarginBottom(1)

	slideBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(0, 1)

	slideTitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("212")).
			Bold(true)

	taskDoneStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	taskPendingStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("255"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	doneStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	hiddenStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	eventStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("117"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#e67e22")).
			Bold(true)
)
