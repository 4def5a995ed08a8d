package main

import "github.com/charmbracelet/lipgloss"

var statsHeaderStyle = lipgloss.NewStyle().Bold(true).Underline(true)

func statsHeader(title string) string {
	return statsHeaderStyle.Render(title)
}
