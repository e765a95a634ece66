package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/karstlab/cavemap/internal/api"
	"github.com/karstlab/cavemap/internal/maplayer"
)

func TestScopeKey(t *testing.T) {
	assert.Equal(t, "project:p1", Scope{Kind: ScopeProject, ID: "p1"}.Key())
	assert.Equal(t, "network:n1", Scope{Kind: ScopeNetwork, ID: "n1"}.Key())
}

func TestStoreInit_ReplacesEntityTables(t *testing.T) {
	store := NewStore(nil)
	store.Stations["s1"] = &api.Station{ID: "s1", Name: "Entrance"}
	oldStations := store.Stations
	oldBounds := store.Bounds
	store.ExpandBounds("project:p1", 45.0, 13.0)

	store.Init()

	// Fresh map instances, not cleared ones: stale references into the old
	// tables must not see or affect the new session.
	assert.Empty(t, store.Stations)
	assert.Empty(t, store.Bounds)
	assert.Len(t, oldStations, 1)
	assert.Len(t, oldBounds, 1)
	store.Stations["s2"] = &api.Station{ID: "s2"}
	assert.Len(t, oldStations, 1)
}

func TestStoreInit_PreservesSessionContext(t *testing.T) {
	layer := maplayer.NewRecorder()
	store := NewStore(layer)
	store.SetTags([]api.Tag{{ID: "t1", Name: "survey", Color: "#abcdef"}})
	store.Selection = &Selection{EntityType: "station", ID: "s1"}
	scope := Scope{Kind: ScopeProject, ID: "p1"}
	store.CurrentScope = &scope

	store.Init()

	assert.Same(t, layer, store.Layer.(*maplayer.Recorder))
	assert.Equal(t, "#abcdef", store.TagColors["t1"])
	require.NotNil(t, store.Selection)
	assert.Equal(t, "s1", store.Selection.ID)
	require.NotNil(t, store.CurrentScope)
	assert.Equal(t, "p1", store.CurrentScope.ID)
}

func TestNewStore_NilLayerGetsNop(t *testing.T) {
	store := NewStore(nil)
	require.NotNil(t, store.Layer)
	// Must not panic.
	store.Layer.Refresh("project:p1")
}

func TestMarkerColor(t *testing.T) {
	store := NewStore(nil)
	store.SetTags([]api.Tag{{ID: "t1", Name: "survey", Color: "#ff0000"}})

	taggedID := "t1"
	unknownID := "t9"

	assert.Equal(t, "#ff0000", store.MarkerColor(&api.Station{ID: "s1", TagID: &taggedID}))
	assert.Equal(t, maplayer.DefaultMarkerColor, store.MarkerColor(&api.Station{ID: "s2"}))
	assert.Equal(t, maplayer.DefaultMarkerColor, store.MarkerColor(&api.Station{ID: "s3", TagID: &unknownID}))
	assert.Equal(t, maplayer.DefaultMarkerColor, store.MarkerColor(nil))
}

func TestExpandBounds(t *testing.T) {
	store := NewStore(nil)

	store.ExpandBounds("project:p1", 45.0, 13.0)
	box := store.Bounds["project:p1"]
	require.NotNil(t, box)
	assert.InDelta(t, 45.0, box.MinLatitude, 1e-9)
	assert.InDelta(t, 45.0, box.MaxLatitude, 1e-9)

	store.ExpandBounds("project:p1", 44.5, 13.5)
	store.ExpandBounds("project:p1", 45.5, 12.5)

	assert.InDelta(t, 44.5, box.MinLatitude, 1e-9)
	assert.InDelta(t, 45.5, box.MaxLatitude, 1e-9)
	assert.InDelta(t, 12.5, box.MinLongitude, 1e-9)
	assert.InDelta(t, 13.5, box.MaxLongitude, 1e-9)
}

func TestMergeDepthDomains(t *testing.T) {
	single := &DepthDomain{Min: -20, Max: 10}

	tests := []struct {
		name    string
		domains []*DepthDomain
		want    *DepthDomain
	}{
		{"empty", nil, nil},
		{"all_nil", []*DepthDomain{nil, nil}, nil},
		{"single_passthrough", []*DepthDomain{nil, single}, single},
		{
			"merged_anchors_at_zero",
			[]*DepthDomain{{Min: -20, Max: 10}, {Min: 5, Max: 40}},
			&DepthDomain{Min: 0, Max: 40},
		},
		{
			"merged_ignores_nil",
			[]*DepthDomain{{Min: 1, Max: 3}, nil, {Min: 0, Max: 2}},
			&DepthDomain{Min: 0, Max: 3},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MergeDepthDomains(tt.domains)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, *tt.want, *got)
		})
	}
}

func TestMergeDepthDomains_SingleIsSameInstance(t *testing.T) {
	single := &DepthDomain{Min: -5, Max: 15}
	got := MergeDepthDomains([]*DepthDomain{single})
	assert.Same(t, single, got)
}
