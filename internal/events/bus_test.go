package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBus_DeliversToTopicSubscribersInOrder(t *testing.T) {
	bus := NewBus()

	var order []string
	bus.Subscribe(TopicStationChanged, func(Event) { order = append(order, "first") })
	bus.Subscribe(TopicStationChanged, func(Event) { order = append(order, "second") })

	bus.Publish(Event{Topic: TopicStationChanged, Kind: ChangeCreated, EntityID: "s1"})

	assert.Equal(t, []string{"first", "second"}, order)
}

func TestBus_DoesNotCrossTopics(t *testing.T) {
	bus := NewBus()

	var got []Event
	bus.Subscribe(TopicTagChanged, func(e Event) { got = append(got, e) })

	bus.Publish(Event{Topic: TopicStationChanged, Kind: ChangeDeleted, EntityID: "s1"})
	bus.Publish(Event{Topic: TopicTagChanged, Kind: ChangeUpdated, EntityID: "t1"})

	require.Len(t, got, 1)
	assert.Equal(t, "t1", got[0].EntityID)
	assert.Equal(t, ChangeUpdated, got[0].Kind)
}

func TestBus_PublishWithoutSubscribersIsNoop(t *testing.T) {
	bus := NewBus()
	bus.Publish(Event{Topic: TopicScopeReloaded, Kind: ChangeLoaded})
}
