package tui

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/karstlab/cavemap/internal/api"
	"github.com/karstlab/cavemap/internal/config"
	"github.com/karstlab/cavemap/internal/events"
	"github.com/karstlab/cavemap/internal/manager"
	"github.com/karstlab/cavemap/internal/notify"
	"github.com/karstlab/cavemap/internal/state"
)

func newTestModel(t *testing.T) (*Model, *manager.Manager, *notify.Notifier) {
	t.Helper()
	client, err := api.NewClient("http://survey.test")
	require.NoError(t, err)
	mgr := manager.NewManagerWithClient(config.DefaultConfig(), client, nil)
	notifier := notify.NewNotifier()
	scope := state.Scope{Kind: state.ScopeProject, ID: "p1"}
	return NewModel(mgr, notifier, scope, nil), mgr, notifier
}

func TestModelReceivesBusEvents(t *testing.T) {
	model, mgr, _ := newTestModel(t)

	mgr.Bus.Publish(events.Event{
		Topic:    events.TopicStationChanged,
		Kind:     events.ChangeCreated,
		EntityID: "s1",
	})

	msg := model.Init()()
	changed, ok := msg.(EntityChangedMsg)
	require.True(t, ok, "expected a bus event, got %T", msg)
	assert.Equal(t, events.TopicStationChanged, events.Event(changed).Topic)
	assert.Equal(t, "s1", events.Event(changed).EntityID)
}

func TestModelRendersActiveToasts(t *testing.T) {
	model, _, notifier := newTestModel(t)

	notifier.Push(notify.SeverityWarning, "station name already taken")

	msg := model.Init()()
	_, ok := msg.(ToastMsg)
	require.True(t, ok, "expected a toast, got %T", msg)

	m := *model
	m.width = 80
	assert.True(t, strings.Contains(m.View(), "station name already taken"))
}

func TestModelDropsBusEventsWhenBehind(t *testing.T) {
	model, mgr, _ := newTestModel(t)

	// More events than the update channel buffers; publishing must not block.
	for i := 0; i < 100; i++ {
		mgr.Bus.Publish(events.Event{Topic: events.TopicPOIChanged, Kind: events.ChangeUpdated})
	}

	msg := model.Init()()
	_, ok := msg.(EntityChangedMsg)
	assert.True(t, ok)
}
