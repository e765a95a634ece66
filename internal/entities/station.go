// Package entities: subsurface station manager
package entities

import (
	"context"
	"fmt"

	"github.com/karstlab/cavemap/internal/api"
	"github.com/karstlab/cavemap/internal/events"
	"github.com/karstlab/cavemap/internal/state"
)

// StationManager handles subsurface stations, owned by a project scope.
type StationManager struct {
	*deps
}

// NewStationManager creates a new station manager over the shared collaborators.
func newStationManager(d *deps) *StationManager {
	return &StationManager{deps: d}
}

func stationBulkKey(scope state.Scope) string {
	return "stations:" + scope.Key()
}

// EnsureLoaded fetches the project's full station collection once and
// populates the Store. Subsequent calls are no-ops until a mutation
// invalidates the memo. A transport failure or a malformed response caches an
// empty collection rather than retrying on every read; the data stays hidden
// until the next explicit invalidation.
func (m *StationManager) EnsureLoaded(ctx context.Context, scope state.Scope) error {
	if scope.Kind != state.ScopeProject {
		return fmt.Errorf("stations are owned by projects, got scope %s", scope.Kind)
	}
	key := stationBulkKey(scope)
	if m.loaded(key) {
		return nil
	}

	collection, err := m.client.ProjectStationsGeoJSON(ctx, scope.ID)
	if err != nil || collection.Features == nil {
		m.markLoaded(key)
		return nil
	}

	scopeKey := scope.Key()
	for i := range collection.Features {
		station := stationFromFeature(&collection.Features[i])
		station.ProjectID = &scope.ID
		m.store.Stations[station.ID] = station
		m.store.StationScopes[station.ID] = scopeKey
		m.store.ExpandBounds(scopeKey, station.Latitude, station.Longitude)
	}
	m.store.LayerVisibility[scopeKey] = true
	m.markLoaded(key)

	m.store.Layer.Refresh(scopeKey)
	m.publish(events.TopicScopeReloaded, events.ChangeLoaded, "", scopeKey)
	return nil
}

// Create creates a station in the project scope, caches the result and
// signals a layer refresh. On failure the Store is untouched.
func (m *StationManager) Create(ctx context.Context, scope state.Scope, payload api.StationPayload) (*api.Station, error) {
	if scope.Kind != state.ScopeProject {
		return nil, fmt.Errorf("stations are owned by projects, got scope %s", scope.Kind)
	}

	created, err := m.client.CreateProjectStation(ctx, scope.ID, payload)
	if err != nil {
		return nil, err
	}

	scopeKey := scope.Key()
	if created.ProjectID == nil {
		created.ProjectID = &scope.ID
	}
	m.store.Stations[created.ID] = created
	m.store.StationScopes[created.ID] = scopeKey
	m.store.ExpandBounds(scopeKey, created.Latitude, created.Longitude)
	m.invalidate(stationBulkKey(scope))

	m.store.Layer.Refresh(scopeKey)
	m.publish(events.TopicStationChanged, events.ChangeCreated, created.ID, scopeKey)
	return created, nil
}

// Update applies a partial update. The response is merged into the cached
// record, preserving fields the response does not carry. A position change
// moves the marker directly instead of reloading the whole layer.
func (m *StationManager) Update(ctx context.Context, stationID string, payload api.StationPayload) (*api.Station, error) {
	updated, err := m.client.UpdateStation(ctx, stationID, payload)
	if err != nil {
		return nil, err
	}

	cached := m.store.Stations[stationID]
	merged := mergeStation(cached, updated, payload)
	m.store.Stations[stationID] = merged

	scopeKey := m.store.StationScopes[stationID]
	if scopeKey != "" {
		m.invalidate("stations:" + scopeKey)
	}
	if payload.Latitude != nil || payload.Longitude != nil {
		m.store.Layer.MovePoint(stationID, merged.Latitude, merged.Longitude)
		if scopeKey != "" {
			m.store.ExpandBounds(scopeKey, merged.Latitude, merged.Longitude)
		}
	}
	m.publish(events.TopicStationChanged, events.ChangeUpdated, stationID, scopeKey)
	return merged, nil
}

// Delete removes the station remotely and locally. The layer refresh only
// fires when the station was cached, avoiding redundant redraws for ids the
// Store never held.
func (m *StationManager) Delete(ctx context.Context, stationID string) error {
	if _, err := m.client.DeleteStation(ctx, stationID); err != nil {
		return err
	}

	_, existed := m.store.Stations[stationID]
	scopeKey := m.store.StationScopes[stationID]
	delete(m.store.Stations, stationID)
	delete(m.store.StationScopes, stationID)
	if scopeKey != "" {
		m.invalidate("stations:" + scopeKey)
	}

	if existed {
		m.store.Layer.Refresh(scopeKey)
		m.publish(events.TopicStationChanged, events.ChangeDeleted, stationID, scopeKey)
	}
	return nil
}

// SetTag assigns a tag to a station and recolors its marker with the tag's
// color. The two effects are sequential, not atomic; a marker recolor failure
// after a successful call is not rolled back.
func (m *StationManager) SetTag(ctx context.Context, stationID, tagID string) error {
	updated, err := m.client.SetStationTag(ctx, stationID, tagID)
	if err != nil {
		return err
	}

	cached := m.store.Stations[stationID]
	if cached != nil {
		cached.TagID = &tagID
	} else if updated != nil {
		m.store.Stations[stationID] = updated
		cached = updated
	}
	m.store.Layer.SetPointColor(stationID, m.store.MarkerColor(cached))
	m.publish(events.TopicStationChanged, events.ChangeUpdated, stationID, m.store.StationScopes[stationID])
	return nil
}

// RemoveTag clears a station's tag and resets its marker to the default color.
func (m *StationManager) RemoveTag(ctx context.Context, stationID string) error {
	if _, err := m.client.RemoveStationTag(ctx, stationID); err != nil {
		return err
	}

	if cached := m.store.Stations[stationID]; cached != nil {
		cached.TagID = nil
	}
	m.store.Layer.SetPointColor(stationID, m.store.MarkerColor(m.store.Stations[stationID]))
	m.publish(events.TopicStationChanged, events.ChangeUpdated, stationID, m.store.StationScopes[stationID])
	return nil
}

// Invalidate drops the bulk memo for a project scope.
func (m *StationManager) Invalidate(scope state.Scope) {
	m.invalidate(stationBulkKey(scope))
}

// stationFromFeature converts a bulk GeoJSON feature into a Station. The
// feature id becomes the entity id and coordinates are [longitude, latitude].
func stationFromFeature(f *api.Feature) *api.Station {
	return &api.Station{
		ID:             f.ID,
		Name:           propString(f.Properties, "name"),
		Description:    propString(f.Properties, "description"),
		Latitude:       f.Geometry.Latitude(),
		Longitude:      f.Geometry.Longitude(),
		TagID:          propStringPtr(f.Properties, "tag_id"),
		SubsurfaceType: api.SubsurfaceType(propString(f.Properties, "subsurface_type")),
		ResourceCount:  propInt(f.Properties, "resource_count"),
		LogCount:       propInt(f.Properties, "log_count"),
	}
}

// mergeStation folds a partial update response into the cached record.
// List and detail endpoints return different field subsets, so absent fields
// keep their cached values: the fields the caller patched are taken from the
// payload/response, and response fields are only trusted when populated.
func mergeStation(cached, resp *api.Station, payload api.StationPayload) *api.Station {
	if cached == nil {
		return resp
	}
	merged := *cached

	if payload.Name != nil || resp.Name != "" {
		merged.Name = resp.Name
	}
	if payload.Description != nil || resp.Description != "" {
		merged.Description = resp.Description
	}
	if payload.Latitude != nil {
		merged.Latitude = resp.Latitude
	}
	if payload.Longitude != nil {
		merged.Longitude = resp.Longitude
	}
	if payload.SubsurfaceType != nil || resp.SubsurfaceType != "" {
		merged.SubsurfaceType = resp.SubsurfaceType
	}
	if resp.TagID != nil {
		merged.TagID = resp.TagID
	}
	if resp.ResourceCount != 0 {
		merged.ResourceCount = resp.ResourceCount
	}
	if resp.LogCount != 0 {
		merged.LogCount = resp.LogCount
	}
	if resp.ProjectID != nil {
		merged.ProjectID = resp.ProjectID
	}
	if resp.NetworkID != nil {
		merged.NetworkID = resp.NetworkID
	}
	if !resp.UpdatedAt.Time().IsZero() {
		merged.UpdatedAt = resp.UpdatedAt
	}
	return &merged
}
