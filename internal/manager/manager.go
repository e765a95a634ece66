// Package manager provides a unified manager for all survey entity types.
package manager

import (
	"fmt"

	"github.com/karstlab/cavemap/internal/api"
	"github.com/karstlab/cavemap/internal/config"
	"github.com/karstlab/cavemap/internal/entities"
	"github.com/karstlab/cavemap/internal/events"
	"github.com/karstlab/cavemap/internal/maplayer"
	"github.com/karstlab/cavemap/internal/state"
)

// Manager provides a unified interface to all entity managers. One Store,
// one API client and one map layer are shared by every manager; the whole
// bundle is constructed here and injected through the command context, never
// held in package-level state.
type Manager struct {
	Stations         *entities.StationManager
	SurfaceStations  *entities.SurfaceStationManager
	POIs             *entities.POIManager
	SensorInstalls   *entities.SensorInstallManager
	CylinderInstalls *entities.CylinderInstallManager
	Tags             *entities.TagManager
	Attachments      *entities.AttachmentManager

	set *entities.Set

	Store  *state.Store
	Client *api.Client
	Bus    *events.Bus

	config *config.Config
}

// NewManager creates a unified entity manager from configuration, attached
// to the given map layer (nil for a no-op layer).
func NewManager(cfg *config.Config, layer maplayer.Layer) (*Manager, error) {
	client, err := api.NewClientWithCookie(cfg.ServerURL, cfg.CSRFCookie)
	if err != nil {
		return nil, fmt.Errorf("failed to create API client: %w", err)
	}
	if cfg.CSRFToken != "" {
		if err := client.SetCSRFToken(cfg.CSRFToken); err != nil {
			return nil, fmt.Errorf("failed to seed CSRF token: %w", err)
		}
	}
	if cfg.Timeout > 0 {
		client.SetTimeout(cfg.Timeout)
	}
	return NewManagerWithClient(cfg, client, layer), nil
}

// NewManagerWithClient wires a manager around an existing client, which lets
// tests swap the transport.
func NewManagerWithClient(cfg *config.Config, client *api.Client, layer maplayer.Layer) *Manager {
	store := state.NewStore(layer)
	bus := events.NewBus()
	set := entities.NewSet(client, store, bus)

	return &Manager{
		set:              set,
		Stations:         set.Stations,
		SurfaceStations:  set.SurfaceStations,
		POIs:             set.POIs,
		SensorInstalls:   set.SensorInstalls,
		CylinderInstalls: set.CylinderInstalls,
		Tags:             set.Tags,
		Attachments:      set.Attachments,
		Store:            store,
		Client:           client,
		Bus:              bus,
		config:           cfg,
	}
}

// GetValidator creates a validator over this manager's Store.
func (m *Manager) GetValidator() *Validator {
	return NewValidator(m)
}

// Reset wipes all fetched data while keeping session context (map layer,
// tags, selection), mirroring Store.Init. The bulk-load memos are flushed
// with the tables: a memo without its data would make every subsequent
// ensure-loaded call return an empty scope without fetching.
func (m *Manager) Reset() {
	m.Store.Init()
	m.set.InvalidateAll()
}

// Close closes all managers (hook for future cleanup).
func (m *Manager) Close() error {
	return nil
}
