// Package entities: station attachment manager (resources, logs, experiments)
package entities

import (
	"context"
	"io"

	"github.com/karstlab/cavemap/internal/api"
	"github.com/karstlab/cavemap/internal/events"
)

// AttachmentManager handles files and records attached to stations. Uploads
// bump the cached station's counters so panels reflect the change without a
// detail refetch.
type AttachmentManager struct {
	*deps
}

func newAttachmentManager(d *deps) *AttachmentManager {
	return &AttachmentManager{deps: d}
}

// UploadResource attaches a file to a station and bumps its resource count.
func (m *AttachmentManager) UploadResource(ctx context.Context, stationID, name, filename string, content io.Reader) (*api.Resource, error) {
	created, err := m.client.UploadResource(ctx, stationID, name, filename, content)
	if err != nil {
		return nil, err
	}

	if station := m.stationByID(stationID); station != nil {
		station.ResourceCount++
	}
	m.publish(events.TopicStationChanged, events.ChangeUpdated, stationID, m.store.StationScopes[stationID])
	return created, nil
}

// UploadLog attaches a survey log to a station and bumps its log count.
func (m *AttachmentManager) UploadLog(ctx context.Context, stationID, title, body string, file *api.FormFile) (*api.LogEntry, error) {
	created, err := m.client.UploadLog(ctx, stationID, title, body, file)
	if err != nil {
		return nil, err
	}

	if station := m.stationByID(stationID); station != nil {
		station.LogCount++
	}
	m.publish(events.TopicStationChanged, events.ChangeUpdated, stationID, m.store.StationScopes[stationID])
	return created, nil
}

// RecordExperiment attaches a structured experiment record to a station.
func (m *AttachmentManager) RecordExperiment(ctx context.Context, stationID, kind string, parameters map[string]any) (*api.ExperimentRecord, error) {
	return m.client.CreateExperimentRecord(ctx, stationID, kind, parameters)
}

// DeleteResource removes a resource and decrements the station's counter.
func (m *AttachmentManager) DeleteResource(ctx context.Context, stationID, resourceID string) error {
	if _, err := m.client.DeleteResource(ctx, resourceID); err != nil {
		return err
	}

	if station := m.stationByID(stationID); station != nil && station.ResourceCount > 0 {
		station.ResourceCount--
	}
	m.publish(events.TopicStationChanged, events.ChangeUpdated, stationID, m.store.StationScopes[stationID])
	return nil
}

// stationByID looks up either station table; attachments apply to both kinds.
func (m *AttachmentManager) stationByID(stationID string) *api.Station {
	if station, ok := m.store.Stations[stationID]; ok {
		return station
	}
	return m.store.SurfaceStations[stationID]
}
