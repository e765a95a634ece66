// Package tui provides a terminal user interface for cavemap
package tui

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/karstlab/cavemap/internal/api"
	"github.com/karstlab/cavemap/internal/events"
	"github.com/karstlab/cavemap/internal/manager"
	"github.com/karstlab/cavemap/internal/notify"
	"github.com/karstlab/cavemap/internal/state"
)

// ViewState represents the current view in the TUI
type ViewState int

const (
	MainMenuView ViewState = iota
	StationsView
	StationDetailView
	POIsView
)

// Model represents the main TUI application state
type Model struct {
	// Navigation
	currentView ViewState
	width       int
	height      int

	// Backend
	manager  *manager.Manager
	notifier *notify.Notifier
	project  state.Scope
	network  *state.Scope

	// updates carries bus events and toasts into the bubbletea loop.
	updates chan tea.Msg

	// State
	loading bool
	error   string
	spinner spinner.Model

	// Views
	mainMenu          *MainMenuModel
	stationsView      *StationsModel
	stationDetailView *StationDetailModel
	poisView          *POIsModel
}

// NewModel creates a new TUI model bound to a project scope. The network
// scope is optional; without it surface stations are skipped. The model
// subscribes to the manager's event bus and to the notifier, so entity
// changes re-render the open view and toasts show in the status area.
func NewModel(mgr *manager.Manager, notifier *notify.Notifier, project state.Scope, network *state.Scope) *Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = subtitleStyle

	if notifier == nil {
		notifier = notify.NewNotifier()
	}

	updates := make(chan tea.Msg, 16)
	// Drop on overflow rather than block the manager mid-mutation.
	forward := func(msg tea.Msg) {
		select {
		case updates <- msg:
		default:
		}
	}
	topics := []events.Topic{
		events.TopicStationChanged,
		events.TopicSurfaceStationChanged,
		events.TopicPOIChanged,
		events.TopicInstallChanged,
		events.TopicTagChanged,
		events.TopicScopeReloaded,
	}
	for _, topic := range topics {
		mgr.Bus.Subscribe(topic, func(event events.Event) {
			forward(EntityChangedMsg(event))
		})
	}
	notifier.Subscribe(func(toast notify.Toast) {
		forward(ToastMsg(toast))
	})

	return &Model{
		currentView:       MainMenuView,
		manager:           mgr,
		notifier:          notifier,
		project:           project,
		network:           network,
		updates:           updates,
		spinner:           s,
		mainMenu:          NewMainMenuModel(),
		stationsView:      NewStationsModel(),
		stationDetailView: NewStationDetailModel(),
		poisView:          NewPOIsModel(),
	}
}

// Init returns initial commands for the application
func (m Model) Init() tea.Cmd {
	return m.nextUpdate()
}

// nextUpdate hands the next bus event or toast to the bubbletea loop.
func (m Model) nextUpdate() tea.Cmd {
	return func() tea.Msg { return <-m.updates }
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			if m.currentView == MainMenuView {
				return m, tea.Quit
			}
			m.currentView = MainMenuView
			m.error = ""
			return m, nil

		case "esc":
			if m.currentView == StationDetailView {
				m.currentView = StationsView
			} else {
				m.currentView = MainMenuView
			}
			m.error = ""
			return m, nil
		}

	case StationsLoadedMsg:
		m.loading = false
		m.stationsView.SetStations([]*api.Station(msg))

	case POIsLoadedMsg:
		m.loading = false
		m.poisView.SetPOIs([]*api.POI(msg))

	case ErrorMsg:
		m.loading = false
		m.error = string(msg)

	case NavigateMsg:
		m.currentView = ViewState(msg)
		m.error = ""
		switch m.currentView {
		case StationsView:
			m.loading = true
			cmds = append(cmds, m.loadStations(), m.spinner.Tick)
		case POIsView:
			m.loading = true
			cmds = append(cmds, m.loadPOIs(), m.spinner.Tick)
		}

	case ViewStationMsg:
		station := api.Station(msg)
		m.stationDetailView.SetStation(&station, m.manager.Store.MarkerColor(&station))
		m.currentView = StationDetailView
		m.error = ""
		m.loading = true
		cmds = append(cmds, m.loadInstalls(station.ID), m.spinner.Tick)

	case InstallsLoadedMsg:
		m.loading = false
		m.stationDetailView.SetInstalls(msg.Sensors, msg.Cylinders)

	case ReloadMsg:
		m.loading = true
		cmds = append(cmds, m.reload(), m.spinner.Tick)

	case ReloadedMsg:
		m.loading = false
		m.stationsView.SetStations(nil)
		m.poisView.SetPOIs(nil)

	case EntityChangedMsg:
		cmds = append(cmds, m.nextUpdate())
		switch events.Event(msg).Topic {
		case events.TopicStationChanged:
			if m.currentView == StationsView {
				cmds = append(cmds, m.loadStations())
			}
		case events.TopicPOIChanged:
			if m.currentView == POIsView {
				cmds = append(cmds, m.loadPOIs())
			}
		case events.TopicInstallChanged:
			if m.currentView == StationDetailView && m.stationDetailView.station != nil {
				cmds = append(cmds, m.loadInstalls(m.stationDetailView.station.ID))
			}
		}

	case ToastMsg:
		// Re-render once now and once after the toast expires.
		expires := time.Until(notify.Toast(msg).ExpiresAt)
		cmds = append(cmds, m.nextUpdate(),
			tea.Tick(expires, func(time.Time) tea.Msg { return toastExpiredMsg{} }))

	case toastExpiredMsg:
		// No state change; the redraw drops the expired toast.

	case spinner.TickMsg:
		if m.loading {
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	// Update current view
	switch m.currentView {
	case MainMenuView:
		var mainMenuModel tea.Model
		mainMenuModel, cmd = m.mainMenu.Update(msg)
		if mm, ok := mainMenuModel.(MainMenuModel); ok {
			m.mainMenu = &mm
		}
		cmds = append(cmds, cmd)

	case StationsView:
		var stationsModel tea.Model
		stationsModel, cmd = m.stationsView.Update(msg)
		if sm, ok := stationsModel.(StationsModel); ok {
			m.stationsView = &sm
		}
		cmds = append(cmds, cmd)

	case StationDetailView:
		var detailModel tea.Model
		detailModel, cmd = m.stationDetailView.Update(msg)
		if dm, ok := detailModel.(StationDetailModel); ok {
			m.stationDetailView = &dm
		}
		cmds = append(cmds, cmd)

	case POIsView:
		var poisModel tea.Model
		poisModel, cmd = m.poisView.Update(msg)
		if pm, ok := poisModel.(POIsModel); ok {
			m.poisView = &pm
		}
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// View renders the current view
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	var content string

	header := m.headerView()

	switch m.currentView {
	case MainMenuView:
		content = m.mainMenu.View()
	case StationsView:
		if m.loading {
			content = m.spinner.View() + "Loading stations..."
		} else {
			content = m.stationsView.View()
		}
	case StationDetailView:
		content = m.stationDetailView.View()
	case POIsView:
		if m.loading {
			content = m.spinner.View() + "Loading points of interest..."
		} else {
			content = m.poisView.View()
		}
	default:
		content = "View not implemented"
	}

	if m.error != "" {
		content += "\n" + errorStyle.Render("Error: "+m.error)
	}

	for _, toast := range m.notifier.Active() {
		content += "\n" + toastStyle(toast.Severity).Render(toast.Message)
	}

	footer := m.footerView()

	return header + "\n" + content + "\n" + footer
}

// headerView renders the application header
func (m Model) headerView() string {
	title := titleStyle.Render("cavemap")

	var subtitle string
	switch m.currentView {
	case MainMenuView:
		subtitle = fmt.Sprintf("Project %s", m.project.ID)
	case StationsView:
		subtitle = "Stations"
	case StationDetailView:
		subtitle = "Station Details"
	case POIsView:
		subtitle = "Points of Interest"
	}

	return lipgloss.JoinVertical(lipgloss.Left, title, subtitleStyle.Render(subtitle))
}

// footerView renders the application footer with help
func (m Model) footerView() string {
	help := ""
	switch m.currentView {
	case MainMenuView:
		help = "↑/↓: navigate • enter: select • q: quit"
	case StationsView, POIsView:
		help = "↑/↓: navigate • enter: select • esc: back • q: quit"
	case StationDetailView:
		help = "esc: back • q: quit"
	}

	return helpStyle.Render(help)
}

// fail pushes the error as a toast and mirrors it inline in the view.
func (m Model) fail(what string, err error) tea.Msg {
	m.notifier.PushError(err)
	return ErrorMsg(fmt.Sprintf("%s: %v", what, err))
}

// loadStations fetches the project's stations through the entity layer. The
// bulk load is memoized, so repeated visits hit the store, not the network.
func (m Model) loadStations() tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		if err := m.manager.Stations.EnsureLoaded(ctx, m.project); err != nil {
			return m.fail("Failed to load stations", err)
		}
		stations := make([]*api.Station, 0, len(m.manager.Store.Stations))
		for _, st := range m.manager.Store.Stations {
			stations = append(stations, st)
		}
		sort.Slice(stations, func(i, j int) bool { return stations[i].Name < stations[j].Name })
		return StationsLoadedMsg(stations)
	}
}

// loadPOIs fetches the project's points of interest.
func (m Model) loadPOIs() tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		if err := m.manager.POIs.EnsureLoaded(ctx, m.project); err != nil {
			return m.fail("Failed to load points of interest", err)
		}
		pois := make([]*api.POI, 0, len(m.manager.Store.POIs))
		for _, p := range m.manager.Store.POIs {
			pois = append(pois, p)
		}
		sort.Slice(pois, func(i, j int) bool { return pois[i].Name < pois[j].Name })
		return POIsLoadedMsg(pois)
	}
}

// loadInstalls fetches sensor and cylinder installs for a station.
func (m Model) loadInstalls(stationID string) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		if err := m.manager.SensorInstalls.EnsureLoaded(ctx, stationID); err != nil {
			return m.fail("Failed to load sensor installs", err)
		}
		if err := m.manager.CylinderInstalls.EnsureLoaded(ctx, stationID); err != nil {
			return m.fail("Failed to load cylinder installs", err)
		}
		var sensors []*api.SensorInstall
		for _, in := range m.manager.Store.SensorInstalls {
			if in.StationID == stationID {
				sensors = append(sensors, in)
			}
		}
		sort.Slice(sensors, func(i, j int) bool { return sensors[i].ID < sensors[j].ID })
		var cylinders []*api.CylinderInstall
		for _, in := range m.manager.Store.CylinderInstalls {
			if in.StationID == stationID {
				cylinders = append(cylinders, in)
			}
		}
		sort.Slice(cylinders, func(i, j int) bool { return cylinders[i].ID < cylinders[j].ID })
		return InstallsLoadedMsg{StationID: stationID, Sensors: sensors, Cylinders: cylinders}
	}
}

// reload wipes the store and refetches the scope from scratch.
func (m Model) reload() tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		m.manager.Reset()
		if err := m.manager.Tags.EnsureLoaded(ctx); err != nil {
			return m.fail("Failed to load tags", err)
		}
		if err := m.manager.Stations.EnsureLoaded(ctx, m.project); err != nil {
			return m.fail("Failed to load stations", err)
		}
		if err := m.manager.POIs.EnsureLoaded(ctx, m.project); err != nil {
			return m.fail("Failed to load points of interest", err)
		}
		if m.network != nil {
			if err := m.manager.SurfaceStations.EnsureLoaded(ctx, *m.network); err != nil {
				return m.fail("Failed to load surface stations", err)
			}
		}
		return ReloadedMsg{}
	}
}

// Custom messages
type StationsLoadedMsg []*api.Station
type POIsLoadedMsg []*api.POI
type ErrorMsg string
type NavigateMsg ViewState

// ViewStationMsg represents a request to view a station's details
type ViewStationMsg api.Station

// InstallsLoadedMsg carries a station's installs for the detail view
type InstallsLoadedMsg struct {
	StationID string
	Sensors   []*api.SensorInstall
	Cylinders []*api.CylinderInstall
}

// ReloadMsg represents a request to drop the cache and refetch the scope
type ReloadMsg struct{}

// ReloadedMsg signals a completed scope reload
type ReloadedMsg struct{}

// EntityChangedMsg carries a data-layer change published on the event bus
type EntityChangedMsg events.Event

// ToastMsg carries a freshly pushed notification
type ToastMsg notify.Toast

// toastExpiredMsg triggers a redraw once a toast's duration has elapsed
type toastExpiredMsg struct{}

// Styles
var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	subtitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	warningStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// toastStyle maps a toast severity to its display style.
func toastStyle(severity notify.Severity) lipgloss.Style {
	switch severity {
	case notify.SeverityError:
		return errorStyle
	case notify.SeverityWarning:
		return warningStyle
	}
	return subtitleStyle
}
