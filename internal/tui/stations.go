// Package tui provides station browsing functionality
package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/karstlab/cavemap/internal/api"
)

// StationsModel represents the stations view state
type StationsModel struct {
	stations []*api.Station
	cursor   int
}

// NewStationsModel creates a new stations model
func NewStationsModel() *StationsModel {
	return &StationsModel{
		stations: []*api.Station{},
		cursor:   0,
	}
}

// SetStations updates the station list
func (m *StationsModel) SetStations(stations []*api.Station) {
	m.stations = stations
	m.cursor = 0
}

// Init returns the initial command for the stations view
func (m StationsModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the stations view
func (m StationsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}

		case "down", "j":
			if m.cursor < len(m.stations)-1 {
				m.cursor++
			}

		case "enter", " ":
			if len(m.stations) > 0 && m.cursor < len(m.stations) {
				selected := m.stations[m.cursor]
				return m, func() tea.Msg {
					return ViewStationMsg(*selected)
				}
			}
		}
	}

	return m, nil
}

// View renders the station list
func (m StationsModel) View() string {
	if len(m.stations) == 0 {
		return noItemsStyle.Render("\nNo stations in this project.\n\nPress 'esc' to go back")
	}

	s := "\nStations:\n\n"

	for i, station := range m.stations {
		cursor := " "
		if m.cursor == i {
			cursor = ">"
		}

		info := fmt.Sprintf("%s %s  (%.5f, %.5f)", cursor, station.Name, station.Latitude, station.Longitude)
		if station.SubsurfaceType != "" {
			info += fmt.Sprintf(" [%s]", station.SubsurfaceType)
		}

		if m.cursor == i {
			s += selectedItemStyle.Render(info)
		} else {
			s += normalItemStyle.Render(info)
		}
		s += "\n"
	}

	s += "\n" + helpTextStyle.Render("enter: view details • esc: back")
	return s
}

// Shared list styles
var (
	noItemsStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	helpTextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true)
)
