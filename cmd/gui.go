package cmd

import (
	"context"
	"fmt"

	"craftdeck/bridge"
	"craftdeck/catalog"
	"craftdeck/config"
	"craftdeck/db"
	"craftdeck/launcher"
	"craftdeck/logger"
	"craftdeck/pagination"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// guiCmd launches the interactive TUI.
var guiCmd = &cobra.Command{
	Use:   "gui",
	Short: "Launch the interactive interface",
	Long:  `Launch an interactive TUI to manage instances, follow installs, and browse mods.`,
	Run: func(_ *cobra.Command, _ []string) {
		runGUI()
	},
}

func init() {
	rootCmd.AddCommand(guiCmd)
}

type viewMode int

const (
	modeInstances viewMode = iota
	modeSearch
)

// Messages flowing into the TUI event loop.
type (
	instancesLoadedMsg struct {
		instances []launcher.Instance
		pinned    map[string]bool
	}
	backendEventMsg  bridge.Event
	eventStreamEnded struct{}
	searchDoneMsg    struct{ err error }
	errorMsg         string
	statusMsg        string
)

// guiModel is the state of the TUI. All mutation happens in Update, so the
// registry's event-loop serialization carries over unchanged.
type guiModel struct {
	cfg        config.Config
	client     *bridge.Client
	registry   *launcher.Registry
	reconciler *launcher.Reconciler
	sub        *bridge.Subscription

	mode      viewMode
	spinner   spinner.Model
	instances []launcher.Instance
	pinned    map[string]bool
	selected  int
	loading   bool
	errText   string
	message   string
	width     int
	height    int

	searchInput    textinput.Model
	searchCursor   *pagination.Cursor[catalog.ModResult]
	searchSelected int
	searching      bool
}

func initialGUIModel(cfg config.Config, client *bridge.Client, registry *launcher.Registry, reconciler *launcher.Reconciler, sub *bridge.Subscription) guiModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	input := textinput.New()
	input.Placeholder = "Search mods..."
	input.CharLimit = 64

	return guiModel{
		cfg:         cfg,
		client:      client,
		registry:    registry,
		reconciler:  reconciler,
		sub:         sub,
		spinner:     s,
		pinned:      map[string]bool{},
		loading:     true,
		searchInput: input,
	}
}

func (m guiModel) Init() tea.Cmd {
	cmds := []tea.Cmd{m.spinner.Tick, m.loadInstances()}
	if m.sub != nil {
		cmds = append(cmds, m.waitForEvent())
	}
	return tea.Batch(cmds...)
}

// loadInstances reloads the registry off the event loop and delivers a
// fresh snapshot.
func (m guiModel) loadInstances() tea.Cmd {
	return func() tea.Msg {
		if err := m.registry.Load(context.Background()); err != nil {
			return errorMsg(err.Error())
		}
		pinned, err := db.PinnedIDs()
		if err != nil {
			logger.Log.Warnw("Failed to load pins", zap.Error(err))
			pinned = map[string]bool{}
		}
		instances := m.registry.Snapshot()
		sortInstances(instances, pinned)
		return instancesLoadedMsg{instances: instances, pinned: pinned}
	}
}

// waitForEvent blocks on the subscription until the next backend event.
func (m guiModel) waitForEvent() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.sub.Events
		if !ok {
			return eventStreamEnded{}
		}
		return backendEventMsg(ev)
	}
}

func (m guiModel) refreshSnapshot() guiModel {
	instances := m.registry.Snapshot()
	sortInstances(instances, m.pinned)
	m.instances = instances
	if m.selected >= len(m.instances) {
		m.selected = len(m.instances) - 1
	}
	if m.selected < 0 {
		m.selected = 0
	}
	return m
}

func (m guiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.mode == modeSearch {
			return m.handleSearchKey(msg)
		}
		return m.handleInstancesKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case instancesLoadedMsg:
		m.loading = false
		m.errText = ""
		m.instances = msg.instances
		m.pinned = msg.pinned
		if m.selected >= len(m.instances) {
			m.selected = 0
		}

	case backendEventMsg:
		m.reconciler.Apply(bridge.Event(msg))
		m = m.refreshSnapshot()
		return m, m.waitForEvent()

	case eventStreamEnded:
		m.errText = "Event stream closed; progress updates paused (press r to reload)"

	case searchDoneMsg:
		m.searching = false
		if msg.err != nil {
			m.errText = msg.err.Error()
		}

	case errorMsg:
		m.loading = false
		m.errText = string(msg)

	case statusMsg:
		m.message = string(msg)
	}

	return m, nil
}

func (m guiModel) handleInstancesKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "up", "k":
		if m.selected > 0 {
			m.selected--
		}

	case "down", "j":
		if m.selected < len(m.instances)-1 {
			m.selected++
		}

	case "r":
		m.loading = true
		m.message = ""
		return m, m.loadInstances()

	case "enter":
		if inst, ok := m.selectedInstance(); ok {
			return m, m.launchSelected(inst)
		}

	case "d":
		if inst, ok := m.selectedInstance(); ok {
			return m, m.deleteSelected(inst)
		}

	case "p":
		if inst, ok := m.selectedInstance(); ok {
			return m, m.togglePin(inst)
		}

	case "o":
		if inst, ok := m.selectedInstance(); ok && inst.GameDir != "" {
			return m, m.openSelected(inst)
		}

	case "/", "s":
		m.mode = modeSearch
		m.searchInput.Focus()
		return m, textinput.Blink
	}

	return m, nil
}

func (m guiModel) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit

	case "esc":
		m.mode = modeInstances
		m.searchInput.Blur()
		m.errText = ""
		return m, nil

	case "enter":
		query := m.searchInput.Value()
		m.searchCursor = pagination.New(
			catalog.ModSearch(m.client, catalog.SearchParams{Query: query}),
			m.cfg.PageSize,
		)
		m.searchSelected = 0
		m.searching = true
		cursor := m.searchCursor
		return m, func() tea.Msg {
			if err := db.RecordSearch("mods", query); err != nil {
				logger.Log.Warnw("Failed to record search history", zap.Error(err))
			}
			return searchDoneMsg{err: cursor.Refresh(context.Background())}
		}

	case "up":
		if m.searchSelected > 0 {
			m.searchSelected--
		}
		return m, nil

	case "down":
		if m.searchCursor == nil {
			return m, nil
		}
		items := m.searchCursor.Items()
		if m.searchSelected < len(items)-1 {
			m.searchSelected++
			return m, nil
		}
		// Bottom of the list is the scroll sentinel: fetch the next page.
		if m.searchCursor.HasMore() && !m.searching {
			m.searching = true
			cursor := m.searchCursor
			return m, func() tea.Msg {
				return searchDoneMsg{err: cursor.LoadMore(context.Background())}
			}
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	return m, cmd
}

func (m guiModel) selectedInstance() (launcher.Instance, bool) {
	if m.selected < 0 || m.selected >= len(m.instances) {
		return launcher.Instance{}, false
	}
	return m.instances[m.selected], true
}

func (m guiModel) launchSelected(inst launcher.Instance) tea.Cmd {
	registry := m.registry
	return func() tea.Msg {
		if err := registry.Launch(context.Background(), inst.ID); err != nil {
			return errorMsg(err.Error())
		}
		return statusMsg(fmt.Sprintf("Launched %s", inst.Name))
	}
}

func (m guiModel) deleteSelected(inst launcher.Instance) tea.Cmd {
	registry := m.registry
	load := m.loadInstances()
	return func() tea.Msg {
		if err := registry.Delete(context.Background(), inst.ID); err != nil {
			return errorMsg(err.Error())
		}
		return load()
	}
}

func (m guiModel) togglePin(inst launcher.Instance) tea.Cmd {
	load := m.loadInstances()
	return func() tea.Msg {
		if _, err := db.TogglePin(inst.ID); err != nil {
			return errorMsg(err.Error())
		}
		return load()
	}
}

func (m guiModel) openSelected(inst launcher.Instance) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		if err := client.OpenFolder(context.Background(), inst.GameDir); err != nil {
			return errorMsg(err.Error())
		}
		return statusMsg(fmt.Sprintf("Opened %s", inst.GameDir))
	}
}

func runGUI() {
	cfg, client := bootstrap(".")
	registry := launcher.NewRegistry(client, logger.Log)
	reconciler := launcher.NewReconciler(registry, logger.Log)

	// A dead event stream degrades to a static list rather than blocking
	// the whole screen.
	sub, err := client.Subscribe(context.Background())
	if err != nil {
		logger.Log.Warnw("Event stream unavailable, progress updates disabled", zap.Error(err))
		sub = nil
	} else {
		defer sub.Close()
	}

	model := initialGUIModel(cfg, client, registry, reconciler, sub)
	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		logger.Log.Fatalw("TUI crashed", zap.Error(err))
	}
}
