// Package entities: cylinder install manager
package entities

import (
	"context"
	"fmt"

	"github.com/karstlab/cavemap/internal/api"
	"github.com/karstlab/cavemap/internal/events"
)

// CylinderInstallManager handles gas cylinder deployments at stations.
// Same status protocol as sensor installs, plus pressure checks.
type CylinderInstallManager struct {
	*deps
}

func newCylinderInstallManager(d *deps) *CylinderInstallManager {
	return &CylinderInstallManager{deps: d}
}

func cylinderBulkKey(stationID string) string {
	return "cylinder-installs:" + stationID
}

// EnsureLoaded fetches a station's cylinder installs once; memoized until a
// mutation invalidates it, faulting to empty on failure.
func (m *CylinderInstallManager) EnsureLoaded(ctx context.Context, stationID string) error {
	key := cylinderBulkKey(stationID)
	if m.loaded(key) {
		return nil
	}

	installs, err := m.client.ListCylinderInstalls(ctx, stationID, nil)
	if err != nil {
		m.markLoaded(key)
		return nil
	}
	for i := range installs {
		install := installs[i]
		m.store.CylinderInstalls[install.ID] = &install
	}
	m.markLoaded(key)
	m.publish(events.TopicInstallChanged, events.ChangeLoaded, "", stationID)
	return nil
}

// Create deploys a cylinder at a station.
func (m *CylinderInstallManager) Create(ctx context.Context, stationID string, payload api.InstallPayload) (*api.CylinderInstall, error) {
	created, err := m.client.CreateCylinderInstall(ctx, stationID, payload)
	if err != nil {
		return nil, err
	}

	m.store.CylinderInstalls[created.ID] = created
	m.invalidate(cylinderBulkKey(stationID))

	m.refreshStationLayer(stationID)
	m.publish(events.TopicInstallChanged, events.ChangeCreated, created.ID, stationID)
	return created, nil
}

// ChangeStatus transitions an install out of the installed state; rejected
// client-side when the cached status is already terminal.
func (m *CylinderInstallManager) ChangeStatus(ctx context.Context, installID string, status api.InstallStatus) (*api.CylinderInstall, error) {
	cached, ok := m.store.CylinderInstalls[installID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownInstall, installID)
	}
	if cached.Status != api.StatusInstalled {
		return nil, fmt.Errorf("%w: %s is %s", ErrTerminalStatus, installID, cached.Status)
	}

	updated, err := m.client.ChangeCylinderInstallStatus(ctx, installID, status)
	if err != nil {
		return nil, err
	}

	m.store.CylinderInstalls[installID] = updated
	m.invalidate(cylinderBulkKey(updated.StationID))

	m.refreshStationLayer(updated.StationID)
	m.publish(events.TopicInstallChanged, events.ChangeUpdated, installID, updated.StationID)
	return updated, nil
}

// Delete removes a cylinder install record.
func (m *CylinderInstallManager) Delete(ctx context.Context, installID string) error {
	if _, err := m.client.DeleteCylinderInstall(ctx, installID); err != nil {
		return err
	}

	cached, existed := m.store.CylinderInstalls[installID]
	delete(m.store.CylinderInstalls, installID)
	if existed {
		m.invalidate(cylinderBulkKey(cached.StationID))
		m.refreshStationLayer(cached.StationID)
		m.publish(events.TopicInstallChanged, events.ChangeDeleted, installID, cached.StationID)
	}
	return nil
}

// RecordPressureCheck stores a pressure reading against an installed cylinder.
func (m *CylinderInstallManager) RecordPressureCheck(ctx context.Context, installID string, pressure float64) (*api.PressureCheck, error) {
	cached, ok := m.store.CylinderInstalls[installID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownInstall, installID)
	}
	if cached.Status != api.StatusInstalled {
		return nil, fmt.Errorf("%w: %s is %s", ErrTerminalStatus, installID, cached.Status)
	}
	return m.client.CreatePressureCheck(ctx, installID, pressure)
}

func (m *CylinderInstallManager) refreshStationLayer(stationID string) {
	if scopeKey := m.store.StationScopes[stationID]; scopeKey != "" {
		m.store.Layer.Refresh(scopeKey)
	}
}
