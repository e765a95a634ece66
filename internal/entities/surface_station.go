// Package entities: surface station manager
package entities

import (
	"context"
	"fmt"

	"github.com/karstlab/cavemap/internal/api"
	"github.com/karstlab/cavemap/internal/events"
	"github.com/karstlab/cavemap/internal/state"
)

// SurfaceStationManager handles surface stations, owned by a network scope.
// Same protocol as StationManager over the SurfaceStations table.
type SurfaceStationManager struct {
	*deps
}

func newSurfaceStationManager(d *deps) *SurfaceStationManager {
	return &SurfaceStationManager{deps: d}
}

func surfaceBulkKey(scope state.Scope) string {
	return "surface-stations:" + scope.Key()
}

// EnsureLoaded fetches the network's surface stations once; see
// StationManager.EnsureLoaded for the memoization and failure-containment
// behavior.
func (m *SurfaceStationManager) EnsureLoaded(ctx context.Context, scope state.Scope) error {
	if scope.Kind != state.ScopeNetwork {
		return fmt.Errorf("surface stations are owned by networks, got scope %s", scope.Kind)
	}
	key := surfaceBulkKey(scope)
	if m.loaded(key) {
		return nil
	}

	collection, err := m.client.NetworkSurfaceStationsGeoJSON(ctx, scope.ID)
	if err != nil || collection.Features == nil {
		m.markLoaded(key)
		return nil
	}

	scopeKey := scope.Key()
	for i := range collection.Features {
		station := stationFromFeature(&collection.Features[i])
		station.NetworkID = &scope.ID
		m.store.SurfaceStations[station.ID] = station
		m.store.StationScopes[station.ID] = scopeKey
		m.store.ExpandBounds(scopeKey, station.Latitude, station.Longitude)
	}
	m.store.LayerVisibility[scopeKey] = true
	m.markLoaded(key)

	m.store.Layer.Refresh(scopeKey)
	m.publish(events.TopicScopeReloaded, events.ChangeLoaded, "", scopeKey)
	return nil
}

// Create creates a surface station in the network scope.
func (m *SurfaceStationManager) Create(ctx context.Context, scope state.Scope, payload api.StationPayload) (*api.Station, error) {
	if scope.Kind != state.ScopeNetwork {
		return nil, fmt.Errorf("surface stations are owned by networks, got scope %s", scope.Kind)
	}

	created, err := m.client.CreateNetworkSurfaceStation(ctx, scope.ID, payload)
	if err != nil {
		return nil, err
	}

	scopeKey := scope.Key()
	if created.NetworkID == nil {
		created.NetworkID = &scope.ID
	}
	m.store.SurfaceStations[created.ID] = created
	m.store.StationScopes[created.ID] = scopeKey
	m.store.ExpandBounds(scopeKey, created.Latitude, created.Longitude)
	m.invalidate(surfaceBulkKey(scope))

	m.store.Layer.Refresh(scopeKey)
	m.publish(events.TopicSurfaceStationChanged, events.ChangeCreated, created.ID, scopeKey)
	return created, nil
}

// Update applies a partial update; position changes move the marker in place.
func (m *SurfaceStationManager) Update(ctx context.Context, stationID string, payload api.StationPayload) (*api.Station, error) {
	updated, err := m.client.UpdateSurfaceStation(ctx, stationID, payload)
	if err != nil {
		return nil, err
	}

	cached := m.store.SurfaceStations[stationID]
	merged := mergeStation(cached, updated, payload)
	m.store.SurfaceStations[stationID] = merged

	scopeKey := m.store.StationScopes[stationID]
	if scopeKey != "" {
		m.invalidate("surface-stations:" + scopeKey)
	}
	if payload.Latitude != nil || payload.Longitude != nil {
		m.store.Layer.MovePoint(stationID, merged.Latitude, merged.Longitude)
		if scopeKey != "" {
			m.store.ExpandBounds(scopeKey, merged.Latitude, merged.Longitude)
		}
	}
	m.publish(events.TopicSurfaceStationChanged, events.ChangeUpdated, stationID, scopeKey)
	return merged, nil
}

// Delete removes the surface station; the refresh only fires when it was cached.
func (m *SurfaceStationManager) Delete(ctx context.Context, stationID string) error {
	if _, err := m.client.DeleteSurfaceStation(ctx, stationID); err != nil {
		return err
	}

	_, existed := m.store.SurfaceStations[stationID]
	scopeKey := m.store.StationScopes[stationID]
	delete(m.store.SurfaceStations, stationID)
	delete(m.store.StationScopes, stationID)
	if scopeKey != "" {
		m.invalidate("surface-stations:" + scopeKey)
	}

	if existed {
		m.store.Layer.Refresh(scopeKey)
		m.publish(events.TopicSurfaceStationChanged, events.ChangeDeleted, stationID, scopeKey)
	}
	return nil
}

// Invalidate drops the bulk memo for a network scope.
func (m *SurfaceStationManager) Invalidate(scope state.Scope) {
	m.invalidate(surfaceBulkKey(scope))
}
