// Package entities provides the entity managers that keep the local Store in
// sync with the survey backend. Managers share one protocol: call the API,
// merge the response into the Store on success, signal the map layer, and
// propagate API errors untouched. A failed call never mutates the Store.
package entities

import (
	"github.com/patrickmn/go-cache"

	"github.com/karstlab/cavemap/internal/api"
	"github.com/karstlab/cavemap/internal/events"
	"github.com/karstlab/cavemap/internal/state"
)

// deps bundles the shared collaborators every entity manager works through.
// The Store is the only holder of cached entities; managers keep no copies.
type deps struct {
	client *api.Client
	store  *state.Store
	bulk   *cache.Cache
	bus    *events.Bus
}

func newDeps(client *api.Client, store *state.Store, bus *events.Bus) *deps {
	if bus == nil {
		bus = events.NewBus()
	}
	return &deps{
		client: client,
		store:  store,
		// Bulk loads are memoized until explicitly invalidated, never by TTL.
		bulk: cache.New(cache.NoExpiration, 0),
		bus:  bus,
	}
}

// loaded reports whether a bulk collection is already cached for key.
func (d *deps) loaded(key string) bool {
	_, found := d.bulk.Get(key)
	return found
}

// markLoaded records that a bulk collection for key has been fetched (or
// deliberately faulted to empty).
func (d *deps) markLoaded(key string) {
	d.bulk.Set(key, true, cache.NoExpiration)
}

// invalidate drops the bulk memo for key, forcing the next ensure-loaded
// call to refetch.
func (d *deps) invalidate(key string) {
	d.bulk.Delete(key)
}

func (d *deps) publish(topic events.Topic, kind events.ChangeKind, entityID, scopeKey string) {
	d.bus.Publish(events.Event{Topic: topic, Kind: kind, EntityID: entityID, ScopeKey: scopeKey})
}

// Set bundles one manager per entity type over shared collaborators.
type Set struct {
	Stations         *StationManager
	SurfaceStations  *SurfaceStationManager
	POIs             *POIManager
	SensorInstalls   *SensorInstallManager
	CylinderInstalls *CylinderInstallManager
	Tags             *TagManager
	Attachments      *AttachmentManager

	deps *deps
}

// InvalidateAll drops every bulk-load memo at once, so each subsequent
// ensure-loaded call refetches. Must accompany any wipe of the Store,
// otherwise the memos claim data that is no longer there.
func (s *Set) InvalidateAll() {
	s.deps.bulk.Flush()
}

// NewSet creates all entity managers over one client, store and bus.
func NewSet(client *api.Client, store *state.Store, bus *events.Bus) *Set {
	d := newDeps(client, store, bus)
	return &Set{
		deps:             d,
		Stations:         newStationManager(d),
		SurfaceStations:  newSurfaceStationManager(d),
		POIs:             newPOIManager(d),
		SensorInstalls:   newSensorInstallManager(d),
		CylinderInstalls: newCylinderInstallManager(d),
		Tags:             newTagManager(d),
		Attachments:      newAttachmentManager(d),
	}
}

// Feature property accessors. Bulk GeoJSON properties arrive as untyped JSON;
// these tolerate missing or mistyped values rather than failing a whole load.

func propString(props map[string]any, key string) string {
	if v, ok := props[key].(string); ok {
		return v
	}
	return ""
}

func propStringPtr(props map[string]any, key string) *string {
	if v, ok := props[key].(string); ok && v != "" {
		return &v
	}
	return nil
}

func propInt(props map[string]any, key string) int {
	switch v := props[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	}
	return 0
}
