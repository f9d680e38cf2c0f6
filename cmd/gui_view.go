package cmd

import (
	"fmt"
	"strings"

	"craftdeck/launcher"
	"craftdeck/ui"
)

func (m guiModel) View() string {
	if m.mode == modeSearch {
		return m.searchView()
	}
	return m.instancesView()
}

func (m guiModel) instancesView() string {
	var b strings.Builder

	b.WriteString("\n " + ui.TitleStyle.Render("craftdeck") + "\n\n")

	if m.loading {
		b.WriteString(fmt.Sprintf(" %s Loading instances...\n", m.spinner.View()))
		return b.String()
	}

	if len(m.instances) == 0 {
		b.WriteString(" No instances yet. Press / to find a modpack, or create one:\n")
		b.WriteString(ui.DimStyle.Render("   craftdeck create --name Survival --version 1.20.4") + "\n")
	}

	for i, inst := range m.instances {
		b.WriteString(m.instanceRow(i, inst))
	}

	if m.errText != "" {
		b.WriteString("\n " + ui.ErrorStyle.Render(m.errText) + "\n")
	}
	if m.message != "" {
		b.WriteString("\n " + m.message + "\n")
	}

	b.WriteString("\n " + ui.DimStyle.Render("enter launch · d delete · p pin · o open · / search · r reload · q quit") + "\n")
	return b.String()
}

func (m guiModel) instanceRow(i int, inst launcher.Instance) string {
	cursor := "  "
	name := inst.Name
	if i == m.selected {
		cursor = "> "
		name = ui.SelectedStyle.Render(name)
	}
	if m.pinned[inst.ID] {
		name = "* " + name
	}

	line := fmt.Sprintf(" %s%s  %s  %s", cursor, name, inst.Version, ui.StatusBadge(inst))
	if tag := ui.ProvenanceTag(inst); tag != "" {
		line += "  " + tag
	}
	line += "\n"

	if inst.Status == launcher.StatusInstalling {
		line += fmt.Sprintf("     %s %s\n", m.spinner.View(), ui.ProgressBar(inst.InstallProgress, 30))
	}
	if inst.Status == launcher.StatusFailed && inst.ErrorMessage != "" {
		line += "     " + ui.ErrorStyle.Render(inst.ErrorMessage) + "\n"
	}
	if inst.Status == launcher.StatusInvalid && inst.ErrorMessage != "" {
		line += "     " + ui.DimStyle.Render(inst.ErrorMessage) + "\n"
	}
	return line
}

func (m guiModel) searchView() string {
	var b strings.Builder

	b.WriteString("\n " + ui.TitleStyle.Render("mod search") + "\n\n")
	b.WriteString(" " + m.searchInput.View() + "\n\n")

	if m.searching {
		b.WriteString(fmt.Sprintf(" %s Searching...\n", m.spinner.View()))
	}

	if m.searchCursor != nil {
		items := m.searchCursor.Items()
		if len(items) == 0 && !m.searching && m.errText == "" {
			b.WriteString(ui.DimStyle.Render(" No results.") + "\n")
		}
		for i, mod := range items {
			cursor := "  "
			title := mod.Title
			if i == m.searchSelected {
				cursor = "> "
				title = ui.SelectedStyle.Render(title)
			}
			if mod.Color != 0 {
				title = ui.Colorize(title, mod.Color)
			}
			b.WriteString(fmt.Sprintf(" %s%s  %s\n", cursor, title, ui.DimStyle.Render(mod.Slug)))
		}
		if m.searchCursor.HasMore() && len(items) > 0 {
			b.WriteString(ui.DimStyle.Render("   ↓ more...") + "\n")
		}
	}

	if m.errText != "" {
		b.WriteString("\n " + ui.ErrorStyle.Render(m.errText) + "\n")
	}

	b.WriteString("\n " + ui.DimStyle.Render("enter search · ↓ load more · esc back") + "\n")
	return b.String()
}
