package tui

import "github.com/charmbracelet/lipgloss"

type styles struct {
	title    lipgloss.Style
	label    lipgloss.Style
	focused  lipgloss.Style
	blurred  lipgloss.Style
	button   lipgloss.Style
	disabled lipgloss.Style
	errText  lipgloss.Style
	hint     lipgloss.Style
	block    lipgloss.Style
}

func defaultStyles() styles {
	return styles{
		title:    lipgloss.NewStyle().Bold(true).MarginBottom(1),
		label:    lipgloss.NewStyle().Bold(true),
		focused:  lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
		blurred:  lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		button:   lipgloss.NewStyle().Padding(0, 2).Background(lipgloss.Color("27")).Foreground(lipgloss.Color("231")),
		disabled: lipgloss.NewStyle().Padding(0, 2).Background(lipgloss.Color("240")).Foreground(lipgloss.Color("250")),
		errText:  lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		hint:     lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		block:    lipgloss.NewStyle().PaddingLeft(2),
	}
}
