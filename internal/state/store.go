// Package state holds the in-memory entity cache shared by the entity
// managers. The Store is constructed once and injected; it performs no I/O
// and all operations are synchronous.
package state

import (
	"fmt"

	"github.com/karstlab/cavemap/internal/api"
	"github.com/karstlab/cavemap/internal/maplayer"
)

// ScopeKind identifies the owning context of an entity.
type ScopeKind string

const (
	ScopeProject ScopeKind = "project"
	ScopeNetwork ScopeKind = "network"
	ScopeFleet   ScopeKind = "fleet"
)

// Scope is the owning context (project, network or fleet) that determines
// permission checks and which map layer an entity belongs to.
type Scope struct {
	Kind ScopeKind
	ID   string
}

// Key returns the table key for this scope, e.g. "project:42".
func (s Scope) Key() string {
	return fmt.Sprintf("%s:%s", s.Kind, s.ID)
}

// Selection identifies the entity currently selected for tagging.
type Selection struct {
	EntityType string
	ID         string
}

// BoundingBox is a lat/lon envelope for a scope's loaded features.
type BoundingBox struct {
	MinLatitude  float64
	MinLongitude float64
	MaxLatitude  float64
	MaxLongitude float64
}

// Store is the single shared mutable cache. Every entity manager reads and
// writes through it; managers hold no private copies. Safe only under the
// single-goroutine access model the managers follow: no manager suspends
// mid-mutation.
type Store struct {
	// Entity tables, keyed by entity id. Wiped by Init.
	Stations         map[string]*api.Station
	SurfaceStations  map[string]*api.Station
	POIs             map[string]*api.POI
	SensorInstalls   map[string]*api.SensorInstall
	CylinderInstalls map[string]*api.CylinderInstall

	// StationScopes maps station id -> owning scope key, so deletes and
	// refreshes know which layer to signal. Wiped by Init.
	StationScopes map[string]string

	// Per-scope layer state. Wiped by Init.
	LayerVisibility map[string]bool
	Bounds          map[string]*BoundingBox

	// Session context, preserved across Init.
	Layer        maplayer.Layer
	Tags         map[string]*api.Tag
	TagColors    map[string]string
	Selection    *Selection
	CurrentScope *Scope
}

// NewStore creates an empty store attached to the given map layer.
func NewStore(layer maplayer.Layer) *Store {
	if layer == nil {
		layer = maplayer.NopLayer{}
	}
	s := &Store{
		Layer:     layer,
		Tags:      make(map[string]*api.Tag),
		TagColors: make(map[string]string),
	}
	s.Init()
	return s
}

// Init replaces every entity, visibility and bounds table with a fresh empty
// instance. The map layer handle, loaded tags, current selection and current
// scope survive: Init means "forget all fetched data, keep session context",
// not a full reset.
func (s *Store) Init() {
	s.Stations = make(map[string]*api.Station)
	s.SurfaceStations = make(map[string]*api.Station)
	s.POIs = make(map[string]*api.POI)
	s.SensorInstalls = make(map[string]*api.SensorInstall)
	s.CylinderInstalls = make(map[string]*api.CylinderInstall)
	s.StationScopes = make(map[string]string)
	s.LayerVisibility = make(map[string]bool)
	s.Bounds = make(map[string]*BoundingBox)
}

// SetTags replaces the loaded tag list and derived color table.
func (s *Store) SetTags(tags []api.Tag) {
	s.Tags = make(map[string]*api.Tag, len(tags))
	s.TagColors = make(map[string]string, len(tags))
	for i := range tags {
		tag := tags[i]
		s.Tags[tag.ID] = &tag
		s.TagColors[tag.ID] = tag.Color
	}
}

// MarkerColor resolves the marker color for a station: its tag's color when
// a tag is set and known, else the default marker color.
func (s *Store) MarkerColor(station *api.Station) string {
	if station == nil || station.TagID == nil {
		return maplayer.DefaultMarkerColor
	}
	if color, ok := s.TagColors[*station.TagID]; ok && color != "" {
		return color
	}
	return maplayer.DefaultMarkerColor
}

// ExpandBounds grows a scope's bounding box to include a point, creating the
// box on first use.
func (s *Store) ExpandBounds(scopeKey string, latitude, longitude float64) {
	box, ok := s.Bounds[scopeKey]
	if !ok {
		s.Bounds[scopeKey] = &BoundingBox{
			MinLatitude:  latitude,
			MaxLatitude:  latitude,
			MinLongitude: longitude,
			MaxLongitude: longitude,
		}
		return
	}
	if latitude < box.MinLatitude {
		box.MinLatitude = latitude
	}
	if latitude > box.MaxLatitude {
		box.MaxLatitude = latitude
	}
	if longitude < box.MinLongitude {
		box.MinLongitude = longitude
	}
	if longitude > box.MaxLongitude {
		box.MaxLongitude = longitude
	}
}
