// Package entities: sensor install manager
package entities

import (
	"context"
	"errors"
	"fmt"

	"github.com/karstlab/cavemap/internal/api"
	"github.com/karstlab/cavemap/internal/events"
)

// ErrTerminalStatus rejects a status change on an install that is not in the
// installed state. Retrieved, lost and abandoned are terminal; the check runs
// client-side before any network call.
var ErrTerminalStatus = errors.New("install is not in installed state")

// ErrUnknownInstall rejects a status change on an install the Store has not
// loaded, since the one-directional transition rule cannot be verified.
var ErrUnknownInstall = errors.New("install not loaded")

// SensorInstallManager handles sensor deployments at stations.
type SensorInstallManager struct {
	*deps
}

func newSensorInstallManager(d *deps) *SensorInstallManager {
	return &SensorInstallManager{deps: d}
}

func sensorBulkKey(stationID string) string {
	return "sensor-installs:" + stationID
}

// EnsureLoaded fetches a station's sensor installs once; memoized until a
// mutation invalidates it, faulting to empty on failure.
func (m *SensorInstallManager) EnsureLoaded(ctx context.Context, stationID string) error {
	key := sensorBulkKey(stationID)
	if m.loaded(key) {
		return nil
	}

	installs, err := m.client.ListSensorInstalls(ctx, stationID, nil)
	if err != nil {
		m.markLoaded(key)
		return nil
	}
	for i := range installs {
		install := installs[i]
		m.store.SensorInstalls[install.ID] = &install
	}
	m.markLoaded(key)
	m.publish(events.TopicInstallChanged, events.ChangeLoaded, "", stationID)
	return nil
}

// Create deploys a sensor at a station.
func (m *SensorInstallManager) Create(ctx context.Context, stationID string, payload api.InstallPayload) (*api.SensorInstall, error) {
	created, err := m.client.CreateSensorInstall(ctx, stationID, payload)
	if err != nil {
		return nil, err
	}

	m.store.SensorInstalls[created.ID] = created
	m.invalidate(sensorBulkKey(stationID))

	m.refreshStationLayer(stationID)
	m.publish(events.TopicInstallChanged, events.ChangeCreated, created.ID, stationID)
	return created, nil
}

// ChangeStatus transitions an install out of the installed state. The
// transition is one-directional: terminal states never change again, and the
// guard rejects before any network call.
func (m *SensorInstallManager) ChangeStatus(ctx context.Context, installID string, status api.InstallStatus) (*api.SensorInstall, error) {
	cached, ok := m.store.SensorInstalls[installID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownInstall, installID)
	}
	if cached.Status != api.StatusInstalled {
		return nil, fmt.Errorf("%w: %s is %s", ErrTerminalStatus, installID, cached.Status)
	}

	updated, err := m.client.ChangeSensorInstallStatus(ctx, installID, status)
	if err != nil {
		return nil, err
	}

	m.store.SensorInstalls[installID] = updated
	m.invalidate(sensorBulkKey(updated.StationID))

	m.refreshStationLayer(updated.StationID)
	m.publish(events.TopicInstallChanged, events.ChangeUpdated, installID, updated.StationID)
	return updated, nil
}

// Delete removes a sensor install record.
func (m *SensorInstallManager) Delete(ctx context.Context, installID string) error {
	if _, err := m.client.DeleteSensorInstall(ctx, installID); err != nil {
		return err
	}

	cached, existed := m.store.SensorInstalls[installID]
	delete(m.store.SensorInstalls, installID)
	if existed {
		m.invalidate(sensorBulkKey(cached.StationID))
		m.refreshStationLayer(cached.StationID)
		m.publish(events.TopicInstallChanged, events.ChangeDeleted, installID, cached.StationID)
	}
	return nil
}

// Export downloads the sensor-install spreadsheet for a station.
func (m *SensorInstallManager) Export(ctx context.Context, stationID string, status *api.InstallStatus) (*api.Export, error) {
	return m.client.ExportSensorInstalls(ctx, stationID, status)
}

// refreshStationLayer redraws the layer owning the install's station, when known.
func (m *SensorInstallManager) refreshStationLayer(stationID string) {
	if scopeKey := m.store.StationScopes[stationID]; scopeKey != "" {
		m.store.Layer.Refresh(scopeKey)
	}
}
