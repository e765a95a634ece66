// Package entities: point of interest manager
package entities

import (
	"context"
	"fmt"

	"github.com/karstlab/cavemap/internal/api"
	"github.com/karstlab/cavemap/internal/events"
	"github.com/karstlab/cavemap/internal/state"
)

// POIManager handles landmarks / points of interest. POIs carry no scope
// reference of their own; the owning project context is passed at call time.
type POIManager struct {
	*deps
}

func newPOIManager(d *deps) *POIManager {
	return &POIManager{deps: d}
}

func poiBulkKey(scope state.Scope) string {
	return "pois:" + scope.Key()
}

// EnsureLoaded fetches the project's POI collection once; memoized until
// invalidated, faulting to empty on failure like the station loaders.
func (m *POIManager) EnsureLoaded(ctx context.Context, scope state.Scope) error {
	if scope.Kind != state.ScopeProject {
		return fmt.Errorf("POIs load under a project scope, got %s", scope.Kind)
	}
	key := poiBulkKey(scope)
	if m.loaded(key) {
		return nil
	}

	collection, err := m.client.ProjectPOIsGeoJSON(ctx, scope.ID)
	if err != nil || collection.Features == nil {
		m.markLoaded(key)
		return nil
	}

	scopeKey := scope.Key()
	for i := range collection.Features {
		f := &collection.Features[i]
		poi := &api.POI{
			ID:          f.ID,
			Name:        propString(f.Properties, "name"),
			Description: propString(f.Properties, "description"),
			Latitude:    f.Geometry.Latitude(),
			Longitude:   f.Geometry.Longitude(),
			CreatedBy:   propString(f.Properties, "created_by"),
		}
		m.store.POIs[poi.ID] = poi
		m.store.ExpandBounds(scopeKey, poi.Latitude, poi.Longitude)
	}
	m.markLoaded(key)

	m.store.Layer.Refresh(scopeKey)
	m.publish(events.TopicScopeReloaded, events.ChangeLoaded, "", scopeKey)
	return nil
}

// Create creates a POI in the given project scope.
func (m *POIManager) Create(ctx context.Context, scope state.Scope, payload api.POIPayload) (*api.POI, error) {
	if scope.Kind != state.ScopeProject {
		return nil, fmt.Errorf("POIs are created under a project scope, got %s", scope.Kind)
	}
	if payload.ProjectID == nil {
		payload.ProjectID = &scope.ID
	}

	created, err := m.client.CreatePOI(ctx, payload)
	if err != nil {
		return nil, err
	}

	scopeKey := scope.Key()
	m.store.POIs[created.ID] = created
	m.store.ExpandBounds(scopeKey, created.Latitude, created.Longitude)
	m.invalidate(poiBulkKey(scope))

	m.store.Layer.Refresh(scopeKey)
	m.publish(events.TopicPOIChanged, events.ChangeCreated, created.ID, scopeKey)
	return created, nil
}

// Update applies a partial update; position changes move the marker in place.
func (m *POIManager) Update(ctx context.Context, scope state.Scope, poiID string, payload api.POIPayload) (*api.POI, error) {
	updated, err := m.client.UpdatePOI(ctx, poiID, payload)
	if err != nil {
		return nil, err
	}

	merged := mergePOI(m.store.POIs[poiID], updated, payload)
	m.store.POIs[poiID] = merged
	m.invalidate(poiBulkKey(scope))

	if payload.Latitude != nil || payload.Longitude != nil {
		m.store.Layer.MovePoint(poiID, merged.Latitude, merged.Longitude)
	}
	m.publish(events.TopicPOIChanged, events.ChangeUpdated, poiID, scope.Key())
	return merged, nil
}

// Delete removes a POI; the refresh only fires when it was cached locally.
func (m *POIManager) Delete(ctx context.Context, scope state.Scope, poiID string) error {
	if _, err := m.client.DeletePOI(ctx, poiID); err != nil {
		return err
	}

	_, existed := m.store.POIs[poiID]
	delete(m.store.POIs, poiID)
	m.invalidate(poiBulkKey(scope))

	if existed {
		m.store.Layer.Refresh(scope.Key())
		m.publish(events.TopicPOIChanged, events.ChangeDeleted, poiID, scope.Key())
	}
	return nil
}

// Invalidate drops the bulk memo for a project scope.
func (m *POIManager) Invalidate(scope state.Scope) {
	m.invalidate(poiBulkKey(scope))
}

func mergePOI(cached, resp *api.POI, payload api.POIPayload) *api.POI {
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
	if resp.CreatedBy != "" {
		merged.CreatedBy = resp.CreatedBy
	}
	return &merged
}
