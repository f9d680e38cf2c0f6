package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"craftdeck/launcher"
)

var (
	readyStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	installingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	failedStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	invalidStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	externalStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Italic(true)

	TitleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	SelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	ErrorStyle    = failedStyle
	DimStyle      = invalidStyle
)

// StatusBadge renders an instance status with its conventional color.
func StatusBadge(inst launcher.Instance) string {
	switch inst.Status {
	case launcher.StatusReady:
		return readyStyle.Render("ready")
	case launcher.StatusInstalling:
		return installingStyle.Render(fmt.Sprintf("installing %3d%%", inst.InstallProgress))
	case launcher.StatusFailed:
		return failedStyle.Render("failed")
	case launcher.StatusInvalid:
		return invalidStyle.Render("invalid")
	default:
		return string(inst.Status)
	}
}

// ProvenanceTag renders the external-launcher tag, or nothing for managed
// instances.
func ProvenanceTag(inst launcher.Instance) string {
	if !inst.IsExternal {
		return ""
	}
	tag := inst.ExternalLauncher
	if tag == "" {
		tag = "external"
	}
	return externalStyle.Render("[" + tag + "]")
}

// ProgressBar renders a fixed-width text progress bar for an installing row.
func ProgressBar(progress, width int) string {
	if width < 4 {
		width = 4
	}
	if progress < 0 {
		progress = 0
	}
	if progress > 100 {
		progress = 100
	}
	filled := progress * width / 100
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return installingStyle.Render(bar)
}

// Colorize applies an integer RGB color (as backends report for mod icons)
// to the text.
func Colorize(text string, color int) string {
	hexColor := fmt.Sprintf("#%06x", color)
	style := lipgloss.NewStyle().Foreground(lipgloss.Color(hexColor))
	return style.Render(text)
}
