package manager

import (
	"context"
	"net/http"
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/karstlab/cavemap/internal/api"
	"github.com/karstlab/cavemap/internal/config"
	"github.com/karstlab/cavemap/internal/state"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	client, err := api.NewClient("http://survey.test")
	require.NoError(t, err)
	httpmock.ActivateNonDefault(client.HTTPClient())
	t.Cleanup(httpmock.DeactivateAndReset)
	return NewManagerWithClient(config.DefaultConfig(), client, nil)
}

const managerStationsGeoJSON = `{
	"type": "FeatureCollection",
	"features": [
		{
			"id": "s1",
			"type": "Feature",
			"properties": {"name": "Entrance"},
			"geometry": {"type": "Point", "coordinates": [13.2, 45.1]}
		}
	]
}`

func TestManagerResetRefetchesBulkLoads(t *testing.T) {
	mgr := newTestManager(t)
	scope := state.Scope{Kind: state.ScopeProject, ID: "p1"}
	url := "http://survey.test/api/v1/projects/p1/stations/geojson"
	httpmock.RegisterResponder(http.MethodGet, url,
		httpmock.NewStringResponder(http.StatusOK, managerStationsGeoJSON))

	require.NoError(t, mgr.Stations.EnsureLoaded(context.Background(), scope))
	require.Len(t, mgr.Store.Stations, 1)

	mgr.Reset()
	assert.Empty(t, mgr.Store.Stations)

	// Reset must drop the bulk memos with the tables, so the next load
	// goes back to the network instead of trusting an empty store.
	require.NoError(t, mgr.Stations.EnsureLoaded(context.Background(), scope))
	assert.Len(t, mgr.Store.Stations, 1)
	assert.Equal(t, 2, httpmock.GetCallCountInfo()["GET "+url])
}

func TestManagerResetKeepsSessionContext(t *testing.T) {
	mgr := newTestManager(t)
	mgr.Store.Tags["t1"] = &api.Tag{ID: "t1", Name: "survey", Color: "#ff0000"}
	mgr.Store.TagColors["t1"] = "#ff0000"

	mgr.Reset()

	assert.Len(t, mgr.Store.Tags, 1)
	assert.Equal(t, "#ff0000", mgr.Store.TagColors["t1"])
}
