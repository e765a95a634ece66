// Package api provides station-related API methods
package api

import (
	"context"
	"fmt"
	"net/http"
)

// StationPayload carries the writable station fields. Pointer fields are
// omitted when nil, so partial updates only touch what the caller set.
type StationPayload struct {
	Name           *string         `json:"name,omitempty"`
	Description    *string         `json:"description,omitempty"`
	Latitude       *float64        `json:"latitude,omitempty"`
	Longitude      *float64        `json:"longitude,omitempty"`
	SubsurfaceType *SubsurfaceType `json:"subsurface_type,omitempty"`
}

// ListProjectStations retrieves all stations belonging to a project.
func (c *Client) ListProjectStations(ctx context.Context, projectID string) ([]Station, error) {
	path := fmt.Sprintf("/api/v1/projects/%s/stations/", projectID)
	resp, err := c.doRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	var stations []Station
	if _, err := c.parseResponse(resp, &stations); err != nil {
		return nil, err
	}
	return stations, nil
}

// CreateProjectStation creates a subsurface station in a project.
func (c *Client) CreateProjectStation(ctx context.Context, projectID string, payload StationPayload) (*Station, error) {
	path := fmt.Sprintf("/api/v1/projects/%s/stations/", projectID)
	resp, err := c.doRequest(ctx, http.MethodPost, path, payload)
	if err != nil {
		return nil, err
	}

	var created Station
	if _, err := c.parseResponse(resp, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateStation applies a partial update to a station.
func (c *Client) UpdateStation(ctx context.Context, stationID string, payload StationPayload) (*Station, error) {
	path := fmt.Sprintf("/api/v1/stations/%s/", stationID)
	resp, err := c.doRequest(ctx, http.MethodPatch, path, payload)
	if err != nil {
		return nil, err
	}

	var updated Station
	if _, err := c.parseResponse(resp, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteStation removes a station. The backend answers 204 on success.
func (c *Client) DeleteStation(ctx context.Context, stationID string) (*Result, error) {
	path := fmt.Sprintf("/api/v1/stations/%s/", stationID)
	resp, err := c.doRequest(ctx, http.MethodDelete, path, nil)
	if err != nil {
		return nil, err
	}
	return c.parseResponse(resp, nil)
}

// ListNetworkSurfaceStations retrieves all surface stations in a network.
func (c *Client) ListNetworkSurfaceStations(ctx context.Context, networkID string) ([]Station, error) {
	path := fmt.Sprintf("/api/v1/networks/%s/surface-stations/", networkID)
	resp, err := c.doRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	var stations []Station
	if _, err := c.parseResponse(resp, &stations); err != nil {
		return nil, err
	}
	return stations, nil
}

// CreateNetworkSurfaceStation creates a surface station in a network.
func (c *Client) CreateNetworkSurfaceStation(ctx context.Context, networkID string, payload StationPayload) (*Station, error) {
	path := fmt.Sprintf("/api/v1/networks/%s/surface-stations/", networkID)
	resp, err := c.doRequest(ctx, http.MethodPost, path, payload)
	if err != nil {
		return nil, err
	}

	var created Station
	if _, err := c.parseResponse(resp, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateSurfaceStation applies a partial update to a surface station.
func (c *Client) UpdateSurfaceStation(ctx context.Context, stationID string, payload StationPayload) (*Station, error) {
	path := fmt.Sprintf("/api/v1/surface-stations/%s/", stationID)
	resp, err := c.doRequest(ctx, http.MethodPatch, path, payload)
	if err != nil {
		return nil, err
	}

	var updated Station
	if _, err := c.parseResponse(resp, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteSurfaceStation removes a surface station.
func (c *Client) DeleteSurfaceStation(ctx context.Context, stationID string) (*Result, error) {
	path := fmt.Sprintf("/api/v1/surface-stations/%s/", stationID)
	resp, err := c.doRequest(ctx, http.MethodDelete, path, nil)
	if err != nil {
		return nil, err
	}
	return c.parseResponse(resp, nil)
}
