package entities

import (
	"context"
	"net/http"
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/karstlab/cavemap/internal/api"
	"github.com/karstlab/cavemap/internal/events"
	"github.com/karstlab/cavemap/internal/maplayer"
	"github.com/karstlab/cavemap/internal/state"
)

const testBaseURL = "http://survey.test"

func newTestSet(t *testing.T) (*Set, *state.Store, *maplayer.Recorder) {
	t.Helper()
	client, err := api.NewClient(testBaseURL)
	require.NoError(t, err)
	httpmock.ActivateNonDefault(client.HTTPClient())
	t.Cleanup(httpmock.DeactivateAndReset)

	layer := maplayer.NewRecorder()
	store := state.NewStore(layer)
	return NewSet(client, store, events.NewBus()), store, layer
}

func projectScope(id string) state.Scope {
	return state.Scope{Kind: state.ScopeProject, ID: id}
}

const stationsGeoJSON = `{
	"type": "FeatureCollection",
	"features": [
		{
			"id": "s1",
			"type": "Feature",
			"properties": {"name": "Entrance", "subsurface_type": "science", "resource_count": 2},
			"geometry": {"type": "Point", "coordinates": [13.2, 45.1]}
		},
		{
			"id": "s2",
			"type": "Feature",
			"properties": {"name": "Sump junction", "tag_id": "t1"},
			"geometry": {"type": "Point", "coordinates": [13.4, 45.3]}
		}
	]
}`

func registerStationsGeoJSON(projectID, body string) string {
	url := testBaseURL + "/api/v1/projects/" + projectID + "/stations/geojson"
	httpmock.RegisterResponder(http.MethodGet, url,
		httpmock.NewStringResponder(http.StatusOK, body))
	return "GET " + url
}

func TestStationManager_EnsureLoadedPopulatesStore(t *testing.T) {
	set, store, layer := newTestSet(t)
	registerStationsGeoJSON("p1", stationsGeoJSON)

	require.NoError(t, set.Stations.EnsureLoaded(context.Background(), projectScope("p1")))

	require.Len(t, store.Stations, 2)
	s1 := store.Stations["s1"]
	require.NotNil(t, s1)
	assert.Equal(t, "Entrance", s1.Name)
	// GeoJSON coordinates are [longitude, latitude].
	assert.InDelta(t, 45.1, s1.Latitude, 1e-9)
	assert.InDelta(t, 13.2, s1.Longitude, 1e-9)
	assert.Equal(t, api.SubsurfaceScience, s1.SubsurfaceType)
	assert.Equal(t, 2, s1.ResourceCount)
	require.NotNil(t, s1.ProjectID)
	assert.Equal(t, "p1", *s1.ProjectID)

	assert.Equal(t, "project:p1", store.StationScopes["s1"])
	assert.True(t, store.LayerVisibility["project:p1"])
	assert.Equal(t, []string{"project:p1"}, layer.Refreshes)

	box := store.Bounds["project:p1"]
	require.NotNil(t, box)
	assert.InDelta(t, 45.1, box.MinLatitude, 1e-9)
	assert.InDelta(t, 45.3, box.MaxLatitude, 1e-9)
}

func TestStationManager_EnsureLoadedIsMemoized(t *testing.T) {
	set, _, _ := newTestSet(t)
	key := registerStationsGeoJSON("p1", stationsGeoJSON)

	for i := 0; i < 3; i++ {
		require.NoError(t, set.Stations.EnsureLoaded(context.Background(), projectScope("p1")))
	}

	assert.Equal(t, 1, httpmock.GetCallCountInfo()[key])
}

func TestStationManager_EnsureLoadedRejectsNonProjectScope(t *testing.T) {
	set, _, _ := newTestSet(t)

	err := set.Stations.EnsureLoaded(context.Background(),
		state.Scope{Kind: state.ScopeNetwork, ID: "n1"})
	require.Error(t, err)
	assert.Zero(t, httpmock.GetTotalCallCount())
}

func TestStationManager_EnsureLoadedFaultsToEmptyOnFailure(t *testing.T) {
	set, store, _ := newTestSet(t)
	url := testBaseURL + "/api/v1/projects/p1/stations/geojson"
	httpmock.RegisterResponder(http.MethodGet, url,
		httpmock.NewStringResponder(http.StatusInternalServerError, `{"message": "boom"}`))

	// A failed bulk load resolves to an empty collection, not an error.
	require.NoError(t, set.Stations.EnsureLoaded(context.Background(), projectScope("p1")))
	assert.Empty(t, store.Stations)

	// The empty result is cached: no retry on the next read.
	require.NoError(t, set.Stations.EnsureLoaded(context.Background(), projectScope("p1")))
	assert.Equal(t, 1, httpmock.GetCallCountInfo()["GET "+url])

	// Explicit invalidation reopens the fetch.
	set.Stations.Invalidate(projectScope("p1"))
	httpmock.RegisterResponder(http.MethodGet, url,
		httpmock.NewStringResponder(http.StatusOK, stationsGeoJSON))
	require.NoError(t, set.Stations.EnsureLoaded(context.Background(), projectScope("p1")))
	assert.Len(t, store.Stations, 2)
}

func TestStationManager_CreateFailureLeavesStoreUntouched(t *testing.T) {
	set, store, layer := newTestSet(t)
	httpmock.RegisterResponder(http.MethodPost, testBaseURL+"/api/v1/projects/p1/stations/",
		httpmock.NewStringResponder(http.StatusBadRequest, `{"message": "name taken"}`))

	name := "Entrance"
	_, err := set.Stations.Create(context.Background(), projectScope("p1"), api.StationPayload{Name: &name})
	require.Error(t, err)

	var apiErr *api.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "name taken", apiErr.Message)

	assert.Empty(t, store.Stations)
	assert.Empty(t, layer.Refreshes)
}

func TestStationManager_UpdateFailureLeavesStoreUntouched(t *testing.T) {
	set, store, layer := newTestSet(t)
	registerStationsGeoJSON("p1", stationsGeoJSON)
	require.NoError(t, set.Stations.EnsureLoaded(context.Background(), projectScope("p1")))
	refreshes := len(layer.Refreshes)

	httpmock.RegisterResponder(http.MethodPatch, testBaseURL+"/api/v1/stations/s1/",
		httpmock.NewStringResponder(http.StatusConflict, `{"message": "edited concurrently"}`))

	name := "Renamed"
	_, err := set.Stations.Update(context.Background(), "s1", api.StationPayload{Name: &name})
	require.Error(t, err)

	assert.Equal(t, "Entrance", store.Stations["s1"].Name)
	assert.Len(t, layer.Refreshes, refreshes)
	assert.Empty(t, layer.Moves)
}

func TestStationManager_DeleteFailureLeavesStoreUntouched(t *testing.T) {
	set, store, layer := newTestSet(t)
	key := registerStationsGeoJSON("p1", stationsGeoJSON)
	require.NoError(t, set.Stations.EnsureLoaded(context.Background(), projectScope("p1")))
	refreshes := len(layer.Refreshes)

	httpmock.RegisterResponder(http.MethodDelete, testBaseURL+"/api/v1/stations/s1/",
		httpmock.NewStringResponder(http.StatusForbidden, `{"message": "not yours"}`))

	err := set.Stations.Delete(context.Background(), "s1")
	require.Error(t, err)

	assert.NotNil(t, store.Stations["s1"])
	assert.Len(t, store.Stations, 2)
	assert.Len(t, layer.Refreshes, refreshes)

	// The memo survives a failed delete; no refetch happens.
	require.NoError(t, set.Stations.EnsureLoaded(context.Background(), projectScope("p1")))
	assert.Equal(t, 1, httpmock.GetCallCountInfo()[key])
}

func TestStationManager_CreateInvalidatesBulkMemo(t *testing.T) {
	set, store, _ := newTestSet(t)
	key := registerStationsGeoJSON("p1", stationsGeoJSON)
	httpmock.RegisterResponder(http.MethodPost, testBaseURL+"/api/v1/projects/p1/stations/",
		httpmock.NewStringResponder(http.StatusCreated,
			`{"id": "s3", "name": "New lead", "latitude": 45.2, "longitude": 13.3}`))

	ctx := context.Background()
	scope := projectScope("p1")
	require.NoError(t, set.Stations.EnsureLoaded(ctx, scope))

	name := "New lead"
	created, err := set.Stations.Create(ctx, scope, api.StationPayload{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "s3", created.ID)
	assert.Same(t, created, store.Stations["s3"])

	// The mutation dropped the memo, so the next read refetches.
	require.NoError(t, set.Stations.EnsureLoaded(ctx, scope))
	assert.Equal(t, 2, httpmock.GetCallCountInfo()[key])
}

func TestStationManager_UpdateMergesAndMovesMarker(t *testing.T) {
	set, store, layer := newTestSet(t)
	registerStationsGeoJSON("p1", stationsGeoJSON)
	require.NoError(t, set.Stations.EnsureLoaded(context.Background(), projectScope("p1")))

	// Sparse PATCH response: only the changed fields come back.
	httpmock.RegisterResponder(http.MethodPatch, testBaseURL+"/api/v1/stations/s1/",
		httpmock.NewStringResponder(http.StatusOK, `{"id": "s1", "latitude": 45.9, "longitude": 13.2}`))

	lat := 45.9
	updated, err := set.Stations.Update(context.Background(), "s1", api.StationPayload{Latitude: &lat})
	require.NoError(t, err)

	// Patched field applied, absent fields kept from the cache.
	assert.InDelta(t, 45.9, updated.Latitude, 1e-9)
	assert.Equal(t, "Entrance", updated.Name)
	assert.Equal(t, api.SubsurfaceScience, updated.SubsurfaceType)
	assert.Same(t, updated, store.Stations["s1"])

	// A position change moves the marker instead of redrawing the scope.
	require.Len(t, layer.Moves, 1)
	assert.Equal(t, "s1", layer.Moves[0].ID)
	assert.InDelta(t, 45.9, layer.Moves[0].Latitude, 1e-9)
	assert.Equal(t, []string{"project:p1"}, layer.Refreshes)
}

func TestStationManager_UpdateWithoutPositionDoesNotMoveMarker(t *testing.T) {
	set, _, layer := newTestSet(t)
	registerStationsGeoJSON("p1", stationsGeoJSON)
	require.NoError(t, set.Stations.EnsureLoaded(context.Background(), projectScope("p1")))

	httpmock.RegisterResponder(http.MethodPatch, testBaseURL+"/api/v1/stations/s1/",
		httpmock.NewStringResponder(http.StatusOK, `{"id": "s1", "name": "Renamed"}`))

	name := "Renamed"
	updated, err := set.Stations.Update(context.Background(), "s1", api.StationPayload{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)
	assert.Empty(t, layer.Moves)
}

func TestStationManager_DeleteRefreshesOnlyCachedStations(t *testing.T) {
	set, store, layer := newTestSet(t)
	registerStationsGeoJSON("p1", stationsGeoJSON)
	require.NoError(t, set.Stations.EnsureLoaded(context.Background(), projectScope("p1")))
	refreshesAfterLoad := len(layer.Refreshes)

	httpmock.RegisterResponder(http.MethodDelete, testBaseURL+"/api/v1/stations/s1/",
		httpmock.NewStringResponder(http.StatusNoContent, ""))
	httpmock.RegisterResponder(http.MethodDelete, testBaseURL+"/api/v1/stations/ghost/",
		httpmock.NewStringResponder(http.StatusNoContent, ""))

	require.NoError(t, set.Stations.Delete(context.Background(), "s1"))
	assert.NotContains(t, store.Stations, "s1")
	assert.NotContains(t, store.StationScopes, "s1")
	assert.Len(t, layer.Refreshes, refreshesAfterLoad+1)

	// Deleting an id the Store never held skips the redraw.
	require.NoError(t, set.Stations.Delete(context.Background(), "ghost"))
	assert.Len(t, layer.Refreshes, refreshesAfterLoad+1)
}

func TestStationManager_SetTagRecolorsMarker(t *testing.T) {
	set, store, layer := newTestSet(t)
	store.SetTags([]api.Tag{{ID: "t1", Name: "survey", Color: "#ff0000"}})
	registerStationsGeoJSON("p1", stationsGeoJSON)
	require.NoError(t, set.Stations.EnsureLoaded(context.Background(), projectScope("p1")))

	httpmock.RegisterResponder(http.MethodPut, testBaseURL+"/api/v1/stations/s1/tag/",
		httpmock.NewStringResponder(http.StatusOK, `{"id": "s1", "name": "Entrance", "tag_id": "t1"}`))

	require.NoError(t, set.Stations.SetTag(context.Background(), "s1", "t1"))

	require.NotNil(t, store.Stations["s1"].TagID)
	assert.Equal(t, "t1", *store.Stations["s1"].TagID)
	assert.Equal(t, "#ff0000", layer.Colors["s1"])
}

func TestStationManager_RemoveTagResetsToDefaultColor(t *testing.T) {
	set, store, layer := newTestSet(t)
	store.SetTags([]api.Tag{{ID: "t1", Name: "survey", Color: "#ff0000"}})
	registerStationsGeoJSON("p1", stationsGeoJSON)
	require.NoError(t, set.Stations.EnsureLoaded(context.Background(), projectScope("p1")))

	// s2 arrives tagged from the bulk load.
	require.NotNil(t, store.Stations["s2"].TagID)

	httpmock.RegisterResponder(http.MethodDelete, testBaseURL+"/api/v1/stations/s2/tag/",
		httpmock.NewStringResponder(http.StatusNoContent, ""))

	require.NoError(t, set.Stations.RemoveTag(context.Background(), "s2"))

	assert.Nil(t, store.Stations["s2"].TagID)
	assert.Equal(t, maplayer.DefaultMarkerColor, layer.Colors["s2"])
}

func TestMergeStation_NilCacheReturnsResponse(t *testing.T) {
	resp := &api.Station{ID: "s9", Name: "Fresh"}
	assert.Same(t, resp, mergeStation(nil, resp, api.StationPayload{}))
}
