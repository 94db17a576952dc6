package main

import "github.com/charmbracelet/lipgloss"

var (
	okStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("46")).
		Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("226")).
			Bold(true)

	lockedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))
)

// lockState renders a project's lock state.
func lockState(locked bool) string {
	if locked {
		return lockedStyle.Render("locked")
	}
	return okStyle.Render("unlocked")
}

// tempMarker renders the temporary flag of a project.
func tempMarker(temp bool) string {
	if temp {
		return warningStyle.Render("temp")
	}
	return dimStyle.Render("-")
}
