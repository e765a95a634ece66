// Package api contains wire models for backend communication
package api

import (
	"encoding/json"
	"time"
)

// APITime handles timestamp parsing from the backend
type APITime time.Time

// UnmarshalJSON implements json.Unmarshaler for APITime
func (t *APITime) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}

	// The backend is not consistent about timestamp precision
	formats := []string{
		"2006-01-02T15:04:05.000000",
		"2006-01-02T15:04:05",
		time.RFC3339,
		time.RFC3339Nano,
		"2006-01-02",
	}

	for _, format := range formats {
		if parsed, err := time.Parse(format, s); err == nil {
			*t = APITime(parsed)
			return nil
		}
	}

	return nil // tolerate unknown formats rather than failing the whole payload
}

// MarshalJSON implements json.Marshaler for APITime
func (t APITime) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Time(t).Format(time.RFC3339))
}

// Time converts APITime to time.Time
func (t APITime) Time() time.Time {
	return time.Time(t)
}

// SubsurfaceType classifies what a subsurface station marks.
type SubsurfaceType string

const (
	SubsurfaceScience  SubsurfaceType = "science"
	SubsurfaceBiology  SubsurfaceType = "biology"
	SubsurfaceBone     SubsurfaceType = "bone"
	SubsurfaceArtifact SubsurfaceType = "artifact"
)

// InstallStatus is the lifecycle state of a sensor or cylinder install.
// Installed is the only non-terminal state.
type InstallStatus string

const (
	StatusInstalled InstallStatus = "installed"
	StatusRetrieved InstallStatus = "retrieved"
	StatusLost      InstallStatus = "lost"
	StatusAbandoned InstallStatus = "abandoned"
)

// IsTerminal reports whether the status permits no further transitions.
func (s InstallStatus) IsTerminal() bool {
	switch s {
	case StatusRetrieved, StatusLost, StatusAbandoned:
		return true
	}
	return false
}

// Station represents a survey station. Exactly one of ProjectID/NetworkID is
// set, determining the owning scope and map layer.
type Station struct {
	ID             string         `json:"id"`
	Name           string         `json:"name"`
	Description    string         `json:"description,omitempty"`
	Latitude       float64        `json:"latitude"`
	Longitude      float64        `json:"longitude"`
	ProjectID      *string        `json:"project_id,omitempty"`
	NetworkID      *string        `json:"network_id,omitempty"`
	TagID          *string        `json:"tag_id,omitempty"`
	SubsurfaceType SubsurfaceType `json:"subsurface_type,omitempty"`
	ResourceCount  int            `json:"resource_count,omitempty"`
	LogCount       int            `json:"log_count,omitempty"`
	CreatedAt      APITime        `json:"created_at,omitempty"`
	UpdatedAt      APITime        `json:"updated_at,omitempty"`
}

// POI represents a landmark / point of interest within a project.
type POI struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	CreatedBy   string  `json:"created_by,omitempty"`
	CreatedAt   APITime `json:"created_at,omitempty"`
}

// Tag is a user-owned label with a display color, assignable to stations.
type Tag struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// SensorInstall records a sensor deployed at a station.
type SensorInstall struct {
	ID            string        `json:"id"`
	StationID     string        `json:"station_id"`
	FleetID       string        `json:"fleet_id"`
	SensorID      string        `json:"sensor_id"`
	Status        InstallStatus `json:"status"`
	InstalledAt   APITime       `json:"installed_at,omitempty"`
	InstalledBy   string        `json:"installed_by,omitempty"`
	UninstalledAt *APITime      `json:"uninstalled_at,omitempty"`
	UninstalledBy string        `json:"uninstalled_by,omitempty"`
	ExpiresAt     *APITime      `json:"expires_at,omitempty"`
}

// CylinderInstall records a gas cylinder deployed at a station.
type CylinderInstall struct {
	ID            string        `json:"id"`
	StationID     string        `json:"station_id"`
	FleetID       string        `json:"fleet_id"`
	CylinderID    string        `json:"cylinder_id"`
	Status        InstallStatus `json:"status"`
	InstalledAt   APITime       `json:"installed_at,omitempty"`
	InstalledBy   string        `json:"installed_by,omitempty"`
	UninstalledAt *APITime      `json:"uninstalled_at,omitempty"`
	UninstalledBy string        `json:"uninstalled_by,omitempty"`
	ExpiresAt     *APITime      `json:"expires_at,omitempty"`
}

// PressureCheck records a pressure reading taken against a cylinder install.
type PressureCheck struct {
	ID        string  `json:"id"`
	InstallID string  `json:"install_id"`
	Pressure  float64 `json:"pressure"`
	CheckedBy string  `json:"checked_by,omitempty"`
	CheckedAt APITime `json:"checked_at,omitempty"`
}

// Resource is a file attached to a station (photo, scan, document).
type Resource struct {
	ID        string  `json:"id"`
	StationID string  `json:"station_id"`
	Name      string  `json:"name"`
	URL       string  `json:"url,omitempty"`
	CreatedAt APITime `json:"created_at,omitempty"`
}

// LogEntry is a dive/survey log attached to a station.
type LogEntry struct {
	ID        string  `json:"id"`
	StationID string  `json:"station_id"`
	Title     string  `json:"title"`
	Body      string  `json:"body,omitempty"`
	URL       string  `json:"url,omitempty"`
	CreatedAt APITime `json:"created_at,omitempty"`
}

// ExperimentRecord is a structured experiment annotation on a station.
type ExperimentRecord struct {
	ID         string         `json:"id"`
	StationID  string         `json:"station_id"`
	Kind       string         `json:"kind"`
	Parameters map[string]any `json:"parameters,omitempty"`
	CreatedAt  APITime        `json:"created_at,omitempty"`
}
