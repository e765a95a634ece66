// Package tui provides point of interest browsing functionality
package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/karstlab/cavemap/internal/api"
)

// POIsModel represents the points of interest view state
type POIsModel struct {
	pois   []*api.POI
	cursor int
}

// NewPOIsModel creates a new points of interest model
func NewPOIsModel() *POIsModel {
	return &POIsModel{
		pois:   []*api.POI{},
		cursor: 0,
	}
}

// SetPOIs updates the point of interest list
func (m *POIsModel) SetPOIs(pois []*api.POI) {
	m.pois = pois
	m.cursor = 0
}

// Init returns the initial command for the points of interest view
func (m POIsModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the points of interest view
func (m POIsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}

		case "down", "j":
			if m.cursor < len(m.pois)-1 {
				m.cursor++
			}
		}
	}

	return m, nil
}

// View renders the point of interest list
func (m POIsModel) View() string {
	if len(m.pois) == 0 {
		return noItemsStyle.Render("\nNo points of interest in this project.\n\nPress 'esc' to go back")
	}

	s := "\nPoints of Interest:\n\n"

	for i, poi := range m.pois {
		cursor := " "
		if m.cursor == i {
			cursor = ">"
		}

		info := fmt.Sprintf("%s %s  (%.5f, %.5f)", cursor, poi.Name, poi.Latitude, poi.Longitude)
		if poi.Description != "" {
			info += fmt.Sprintf(" - %s", poi.Description)
		}

		if m.cursor == i {
			s += selectedItemStyle.Render(info)
		} else {
			s += normalItemStyle.Render(info)
		}
		s += "\n"
	}

	s += "\n" + helpTextStyle.Render("esc: back")
	return s
}
