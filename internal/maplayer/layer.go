// Package maplayer abstracts the map rendering surface the data layer
// synchronizes with. The data layer never draws; it signals a Layer and the
// active implementation (TUI view, test recorder) decides what to redraw.
package maplayer

// DefaultMarkerColor is the marker color for stations without a tag.
const DefaultMarkerColor = "#3388ff"

// Layer receives synchronization signals from the entity managers.
type Layer interface {
	// Refresh signals that all markers for a scope need redrawing.
	Refresh(scopeKey string)

	// MovePoint repositions a single marker without a full scope redraw.
	MovePoint(id string, latitude, longitude float64)

	// SetPointColor recolors a single marker.
	SetPointColor(id, color string)

	// SetVisible toggles a scope's layer visibility.
	SetVisible(scopeKey string, visible bool)
}

// NopLayer discards all signals. Used when no map surface is attached.
type NopLayer struct{}

func (NopLayer) Refresh(string)                     {}
func (NopLayer) MovePoint(string, float64, float64) {}
func (NopLayer) SetPointColor(string, string)       {}
func (NopLayer) SetVisible(string, bool)            {}

// Recorder captures signals for inspection in tests and diagnostics.
type Recorder struct {
	Refreshes []string
	Moves     []Move
	Colors    map[string]string
	Visible   map[string]bool
}

// Move records a single MovePoint call.
type Move struct {
	ID        string
	Latitude  float64
	Longitude float64
}

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{
		Colors:  make(map[string]string),
		Visible: make(map[string]bool),
	}
}

func (r *Recorder) Refresh(scopeKey string) {
	r.Refreshes = append(r.Refreshes, scopeKey)
}

func (r *Recorder) MovePoint(id string, latitude, longitude float64) {
	r.Moves = append(r.Moves, Move{ID: id, Latitude: latitude, Longitude: longitude})
}

func (r *Recorder) SetPointColor(id, color string) {
	r.Colors[id] = color
}

func (r *Recorder) SetVisible(scopeKey string, visible bool) {
	r.Visible[scopeKey] = visible
}
