// Package entities: tag manager
package entities

import (
	"context"

	"github.com/karstlab/cavemap/internal/api"
	"github.com/karstlab/cavemap/internal/events"
)

// TagManager handles the user's flat tag list. Tags live outside any project
// scope; the loaded list and derived color table survive Store.Init.
type TagManager struct {
	*deps
}

func newTagManager(d *deps) *TagManager {
	return &TagManager{deps: d}
}

const tagBulkKey = "tags"

// EnsureLoaded fetches the tag list once; memoized until invalidated.
// Unlike the GeoJSON loaders a failed tag fetch propagates: tag colors feed
// marker rendering and silently empty tags would repaint every marker.
func (m *TagManager) EnsureLoaded(ctx context.Context) error {
	if m.loaded(tagBulkKey) {
		return nil
	}

	tags, err := m.client.ListTags(ctx)
	if err != nil {
		return err
	}
	m.store.SetTags(tags)
	m.markLoaded(tagBulkKey)
	m.publish(events.TopicTagChanged, events.ChangeLoaded, "", "")
	return nil
}

// Create creates a tag and adds it to the loaded list.
func (m *TagManager) Create(ctx context.Context, name, color string) (*api.Tag, error) {
	created, err := m.client.CreateTag(ctx, api.TagPayload{Name: &name, Color: &color})
	if err != nil {
		return nil, err
	}

	m.store.Tags[created.ID] = created
	m.store.TagColors[created.ID] = created.Color
	m.invalidate(tagBulkKey)
	m.publish(events.TopicTagChanged, events.ChangeCreated, created.ID, "")
	return created, nil
}

// Update renames or recolors a tag. A color change repaints every station
// marker currently carrying the tag.
func (m *TagManager) Update(ctx context.Context, tagID string, payload api.TagPayload) (*api.Tag, error) {
	updated, err := m.client.UpdateTag(ctx, tagID, payload)
	if err != nil {
		return nil, err
	}

	m.store.Tags[tagID] = updated
	m.store.TagColors[tagID] = updated.Color
	m.invalidate(tagBulkKey)

	if payload.Color != nil {
		for id, station := range m.store.Stations {
			if station.TagID != nil && *station.TagID == tagID {
				m.store.Layer.SetPointColor(id, updated.Color)
			}
		}
	}
	m.publish(events.TopicTagChanged, events.ChangeUpdated, tagID, "")
	return updated, nil
}

// Delete removes a tag, clears it from cached stations and resets their
// markers to the default color.
func (m *TagManager) Delete(ctx context.Context, tagID string) error {
	if _, err := m.client.DeleteTag(ctx, tagID); err != nil {
		return err
	}

	delete(m.store.Tags, tagID)
	delete(m.store.TagColors, tagID)
	m.invalidate(tagBulkKey)

	for id, station := range m.store.Stations {
		if station.TagID != nil && *station.TagID == tagID {
			station.TagID = nil
			m.store.Layer.SetPointColor(id, m.store.MarkerColor(station))
		}
	}
	m.publish(events.TopicTagChanged, events.ChangeDeleted, tagID, "")
	return nil
}

// Invalidate drops the tag list memo.
func (m *TagManager) Invalidate() {
	m.invalidate(tagBulkKey)
}
