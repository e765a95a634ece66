// Package tui provides station detail view functionality
package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/karstlab/cavemap/internal/api"
)

// StationDetailModel represents the station detail view state
type StationDetailModel struct {
	station     *api.Station
	markerColor string
	sensors     []*api.SensorInstall
	cylinders   []*api.CylinderInstall
	loading     bool
}

// NewStationDetailModel creates a new station detail model
func NewStationDetailModel() *StationDetailModel {
	return &StationDetailModel{}
}

// SetStation updates the station being displayed
func (m *StationDetailModel) SetStation(station *api.Station, markerColor string) {
	m.station = station
	m.markerColor = markerColor
	m.sensors = nil
	m.cylinders = nil
	m.loading = true
}

// SetInstalls updates the install lists shown below the station fields
func (m *StationDetailModel) SetInstalls(sensors []*api.SensorInstall, cylinders []*api.CylinderInstall) {
	m.sensors = sensors
	m.cylinders = cylinders
	m.loading = false
}

// Init returns the initial command for the station detail view
func (m StationDetailModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the station detail view
func (m StationDetailModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, func() tea.Msg { return NavigateMsg(StationsView) }
		}
	}

	return m, nil
}

// View renders the station detail view
func (m StationDetailModel) View() string {
	if m.station == nil {
		return "\nNo station selected.\n\nPress 'esc' to go back"
	}

	var b strings.Builder

	b.WriteString(detailTitleStyle.Render(fmt.Sprintf("Station: %s", m.station.Name)))
	b.WriteString("\n\n")

	if m.station.Description != "" {
		b.WriteString(fmt.Sprintf("Description: %s\n", m.station.Description))
	}
	b.WriteString(fmt.Sprintf("Position: %.6f, %.6f\n", m.station.Latitude, m.station.Longitude))
	if m.station.SubsurfaceType != "" {
		b.WriteString(fmt.Sprintf("Subsurface type: %s\n", m.station.SubsurfaceType))
	}
	if m.station.TagID != nil {
		b.WriteString(fmt.Sprintf("Tag: %s (marker %s)\n", *m.station.TagID, m.markerColor))
	} else {
		b.WriteString(fmt.Sprintf("Tag: none (marker %s)\n", m.markerColor))
	}
	b.WriteString(fmt.Sprintf("Resources: %d  Logs: %d\n", m.station.ResourceCount, m.station.LogCount))

	b.WriteString("\n")
	if m.loading {
		b.WriteString("Loading installs...\n")
		return b.String()
	}

	b.WriteString(detailSectionStyle.Render("Sensor installs"))
	b.WriteString("\n")
	if len(m.sensors) == 0 {
		b.WriteString("  (none)\n")
	}
	for _, in := range m.sensors {
		b.WriteString(fmt.Sprintf("  %s  sensor %s  %s\n", in.ID, in.SensorID, renderStatus(in.Status)))
	}

	b.WriteString("\n")
	b.WriteString(detailSectionStyle.Render("Cylinder installs"))
	b.WriteString("\n")
	if len(m.cylinders) == 0 {
		b.WriteString("  (none)\n")
	}
	for _, in := range m.cylinders {
		b.WriteString(fmt.Sprintf("  %s  cylinder %s  %s\n", in.ID, in.CylinderID, renderStatus(in.Status)))
	}

	return b.String()
}

// renderStatus colors terminal statuses dim and active ones green.
func renderStatus(status api.InstallStatus) string {
	if status.IsTerminal() {
		return terminalStatusStyle.Render(string(status))
	}
	return activeStatusStyle.Render(string(status))
}

// Styles for the station detail view
var (
	detailTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("205"))

	detailSectionStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("39"))

	activeStatusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))

	terminalStatusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)
