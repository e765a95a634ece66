package manager

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/karstlab/cavemap/internal/api"
	"github.com/karstlab/cavemap/internal/config"
	"github.com/karstlab/cavemap/internal/state"
)

func newTestValidator(t *testing.T) *Validator {
	t.Helper()
	client, err := api.NewClient("http://survey.test")
	require.NoError(t, err)
	mgr := NewManagerWithClient(config.DefaultConfig(), client, nil)
	return mgr.GetValidator()
}

func strPtr(s string) *string { return &s }

func floatPtr(f float64) *float64 { return &f }

func TestValidateScope(t *testing.T) {
	v := newTestValidator(t)

	assert.NoError(t, v.ValidateScope(state.Scope{Kind: state.ScopeProject, ID: "p1"}))
	assert.NoError(t, v.ValidateScope(state.Scope{Kind: state.ScopeFleet, ID: "f1"}))
	assert.Error(t, v.ValidateScope(state.Scope{Kind: "galaxy", ID: "g1"}))
	assert.Error(t, v.ValidateScope(state.Scope{Kind: state.ScopeProject}))
}

func TestValidateStationPayload(t *testing.T) {
	v := newTestValidator(t)

	valid := api.StationPayload{
		Name:      strPtr("Entrance"),
		Latitude:  floatPtr(45.1),
		Longitude: floatPtr(13.2),
	}
	assert.NoError(t, v.ValidateStationPayload(&valid, true))

	tests := []struct {
		name     string
		payload  api.StationPayload
		creating bool
	}{
		{"create_without_name", api.StationPayload{Latitude: floatPtr(1), Longitude: floatPtr(2)}, true},
		{"create_without_position", api.StationPayload{Name: strPtr("x")}, true},
		{"empty_name_on_update", api.StationPayload{Name: strPtr("")}, false},
		{"latitude_too_big", api.StationPayload{Latitude: floatPtr(90.5)}, false},
		{"longitude_too_small", api.StationPayload{Longitude: floatPtr(-180.5)}, false},
		{
			"bad_subsurface_type",
			api.StationPayload{SubsurfaceType: (*api.SubsurfaceType)(strPtr("mineral"))},
			false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, v.ValidateStationPayload(&tt.payload, tt.creating))
		})
	}

	// Partial updates may omit everything.
	assert.NoError(t, v.ValidateStationPayload(&api.StationPayload{}, false))
}

func TestValidateTagColor(t *testing.T) {
	v := newTestValidator(t)

	assert.NoError(t, v.ValidateTagColor("#3388ff"))
	assert.NoError(t, v.ValidateTagColor("#ABCDEF"))
	assert.Error(t, v.ValidateTagColor("3388ff"))
	assert.Error(t, v.ValidateTagColor("#388ff"))
	assert.Error(t, v.ValidateTagColor("#3388fg"))
	assert.Error(t, v.ValidateTagColor("blue"))
}

func TestValidateTagName_RejectsDuplicates(t *testing.T) {
	v := newTestValidator(t)
	v.manager.Store.SetTags([]api.Tag{{ID: "t1", Name: "survey", Color: "#ff0000"}})

	assert.NoError(t, v.ValidateTagName("biology"))
	assert.Error(t, v.ValidateTagName("survey"))
	assert.Error(t, v.ValidateTagName(""))
}

func TestValidateStatusTarget(t *testing.T) {
	v := newTestValidator(t)

	assert.NoError(t, v.ValidateStatusTarget(api.StatusRetrieved))
	assert.NoError(t, v.ValidateStatusTarget(api.StatusLost))
	assert.NoError(t, v.ValidateStatusTarget(api.StatusAbandoned))
	assert.Error(t, v.ValidateStatusTarget(api.StatusInstalled))
	assert.Error(t, v.ValidateStatusTarget(api.InstallStatus("exploded")))
}
