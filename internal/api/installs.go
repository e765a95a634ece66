// Package api provides sensor/cylinder install API methods
package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// InstallPayload carries the writable install fields.
type InstallPayload struct {
	FleetID    *string  `json:"fleet_id,omitempty"`
	SensorID   *string  `json:"sensor_id,omitempty"`
	CylinderID *string  `json:"cylinder_id,omitempty"`
	ExpiresAt  *APITime `json:"expires_at,omitempty"`
}

// StatusChange is the body of a dedicated install status transition call.
type StatusChange struct {
	Status InstallStatus `json:"status"`
}

// ListSensorInstalls retrieves a station's sensor installs, optionally
// filtered by status.
func (c *Client) ListSensorInstalls(ctx context.Context, stationID string, status *InstallStatus) ([]SensorInstall, error) {
	path := fmt.Sprintf("/api/v1/stations/%s/sensor-installs/", stationID)
	if status != nil {
		params := url.Values{}
		params.Add("status", string(*status))
		path += "?" + params.Encode()
	}

	resp, err := c.doRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	var installs []SensorInstall
	if _, err := c.parseResponse(resp, &installs); err != nil {
		return nil, err
	}
	return installs, nil
}

// CreateSensorInstall deploys a sensor at a station.
func (c *Client) CreateSensorInstall(ctx context.Context, stationID string, payload InstallPayload) (*SensorInstall, error) {
	path := fmt.Sprintf("/api/v1/stations/%s/sensor-installs/", stationID)
	resp, err := c.doRequest(ctx, http.MethodPost, path, payload)
	if err != nil {
		return nil, err
	}

	var created SensorInstall
	if _, err := c.parseResponse(resp, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateSensorInstall applies a partial update to a sensor install.
func (c *Client) UpdateSensorInstall(ctx context.Context, installID string, payload InstallPayload) (*SensorInstall, error) {
	path := fmt.Sprintf("/api/v1/sensor-installs/%s/", installID)
	resp, err := c.doRequest(ctx, http.MethodPatch, path, payload)
	if err != nil {
		return nil, err
	}

	var updated SensorInstall
	if _, err := c.parseResponse(resp, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// ChangeSensorInstallStatus performs the dedicated status transition call.
func (c *Client) ChangeSensorInstallStatus(ctx context.Context, installID string, status InstallStatus) (*SensorInstall, error) {
	path := fmt.Sprintf("/api/v1/sensor-installs/%s/status/", installID)
	resp, err := c.doRequest(ctx, http.MethodPatch, path, StatusChange{Status: status})
	if err != nil {
		return nil, err
	}

	var updated SensorInstall
	if _, err := c.parseResponse(resp, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteSensorInstall removes a sensor install record.
func (c *Client) DeleteSensorInstall(ctx context.Context, installID string) (*Result, error) {
	path := fmt.Sprintf("/api/v1/sensor-installs/%s/", installID)
	resp, err := c.doRequest(ctx, http.MethodDelete, path, nil)
	if err != nil {
		return nil, err
	}
	return c.parseResponse(resp, nil)
}

// ListCylinderInstalls retrieves a station's cylinder installs, optionally
// filtered by status.
func (c *Client) ListCylinderInstalls(ctx context.Context, stationID string, status *InstallStatus) ([]CylinderInstall, error) {
	path := fmt.Sprintf("/api/v1/stations/%s/cylinder-installs/", stationID)
	if status != nil {
		params := url.Values{}
		params.Add("status", string(*status))
		path += "?" + params.Encode()
	}

	resp, err := c.doRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	var installs []CylinderInstall
	if _, err := c.parseResponse(resp, &installs); err != nil {
		return nil, err
	}
	return installs, nil
}

// CreateCylinderInstall deploys a cylinder at a station.
func (c *Client) CreateCylinderInstall(ctx context.Context, stationID string, payload InstallPayload) (*CylinderInstall, error) {
	path := fmt.Sprintf("/api/v1/stations/%s/cylinder-installs/", stationID)
	resp, err := c.doRequest(ctx, http.MethodPost, path, payload)
	if err != nil {
		return nil, err
	}

	var created CylinderInstall
	if _, err := c.parseResponse(resp, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// ChangeCylinderInstallStatus performs the dedicated status transition call.
func (c *Client) ChangeCylinderInstallStatus(ctx context.Context, installID string, status InstallStatus) (*CylinderInstall, error) {
	path := fmt.Sprintf("/api/v1/cylinder-installs/%s/status/", installID)
	resp, err := c.doRequest(ctx, http.MethodPatch, path, StatusChange{Status: status})
	if err != nil {
		return nil, err
	}

	var updated CylinderInstall
	if _, err := c.parseResponse(resp, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteCylinderInstall removes a cylinder install record.
func (c *Client) DeleteCylinderInstall(ctx context.Context, installID string) (*Result, error) {
	path := fmt.Sprintf("/api/v1/cylinder-installs/%s/", installID)
	resp, err := c.doRequest(ctx, http.MethodDelete, path, nil)
	if err != nil {
		return nil, err
	}
	return c.parseResponse(resp, nil)
}

// CreatePressureCheck records a pressure reading against a cylinder install.
func (c *Client) CreatePressureCheck(ctx context.Context, installID string, pressure float64) (*PressureCheck, error) {
	path := fmt.Sprintf("/api/v1/cylinder-installs/%s/pressure-checks/", installID)
	body := map[string]float64{"pressure": pressure}
	resp, err := c.doRequest(ctx, http.MethodPost, path, body)
	if err != nil {
		return nil, err
	}

	var created PressureCheck
	if _, err := c.parseResponse(resp, &created); err != nil {
		return nil, err
	}
	return &created, nil
}
