// Package manager provides payload validation for survey entities.
package manager

import (
	"fmt"
	"regexp"

	"github.com/karstlab/cavemap/internal/api"
	"github.com/karstlab/cavemap/internal/state"
)

var hexColorPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// Validator checks payloads client-side before they hit the network, with
// access to the manager's Store for cross-entity checks.
type Validator struct {
	manager *Manager
}

// NewValidator creates a new validator instance.
func NewValidator(manager *Manager) *Validator {
	return &Validator{manager: manager}
}

// ValidateScope checks a scope reference is well formed.
func (v *Validator) ValidateScope(scope state.Scope) error {
	switch scope.Kind {
	case state.ScopeProject, state.ScopeNetwork, state.ScopeFleet:
	default:
		return fmt.Errorf("unsupported scope kind: %s", scope.Kind)
	}
	if scope.ID == "" {
		return fmt.Errorf("scope id cannot be empty")
	}
	return nil
}

// ValidateStationPayload checks station fields before create/update.
func (v *Validator) ValidateStationPayload(payload *api.StationPayload, creating bool) error {
	if creating && (payload.Name == nil || *payload.Name == "") {
		return fmt.Errorf("station name cannot be empty")
	}
	if payload.Name != nil && *payload.Name == "" {
		return fmt.Errorf("station name cannot be empty")
	}
	if payload.Latitude != nil && (*payload.Latitude < -90 || *payload.Latitude > 90) {
		return fmt.Errorf("latitude out of range: %f", *payload.Latitude)
	}
	if payload.Longitude != nil && (*payload.Longitude < -180 || *payload.Longitude > 180) {
		return fmt.Errorf("longitude out of range: %f", *payload.Longitude)
	}
	if payload.SubsurfaceType != nil {
		switch *payload.SubsurfaceType {
		case api.SubsurfaceScience, api.SubsurfaceBiology, api.SubsurfaceBone, api.SubsurfaceArtifact:
		default:
			return fmt.Errorf("unsupported subsurface type: %s", *payload.SubsurfaceType)
		}
	}
	if creating && (payload.Latitude == nil || payload.Longitude == nil) {
		return fmt.Errorf("a new station requires both latitude and longitude")
	}
	return nil
}

// ValidateTagColor checks a tag color is a hex string like #a1b2c3.
func (v *Validator) ValidateTagColor(color string) error {
	if !hexColorPattern.MatchString(color) {
		return fmt.Errorf("invalid tag color %q, expected hex like #3388ff", color)
	}
	return nil
}

// ValidateTagName checks for empty and duplicate tag names against the
// loaded tag list.
func (v *Validator) ValidateTagName(name string) error {
	if name == "" {
		return fmt.Errorf("tag name cannot be empty")
	}
	for _, tag := range v.manager.Store.Tags {
		if tag.Name == name {
			return fmt.Errorf("tag with name '%s' already exists", name)
		}
	}
	return nil
}

// ValidateStatusTarget checks a status transition target is a terminal state.
func (v *Validator) ValidateStatusTarget(status api.InstallStatus) error {
	if !status.IsTerminal() {
		return fmt.Errorf("status transitions must target a terminal state, got %s", status)
	}
	return nil
}
