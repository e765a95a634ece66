// Package api provides POI-related API methods
package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// POIPayload carries the writable POI fields.
type POIPayload struct {
	Name        *string  `json:"name,omitempty"`
	Description *string  `json:"description,omitempty"`
	Latitude    *float64 `json:"latitude,omitempty"`
	Longitude   *float64 `json:"longitude,omitempty"`
	ProjectID   *string  `json:"project_id,omitempty"`
}

// ListPOIs retrieves points of interest, optionally filtered by project.
func (c *Client) ListPOIs(ctx context.Context, projectID *string) ([]POI, error) {
	path := "/api/v1/pois/"
	if projectID != nil {
		params := url.Values{}
		params.Add("project_id", *projectID)
		path += "?" + params.Encode()
	}

	resp, err := c.doRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	var pois []POI
	if _, err := c.parseResponse(resp, &pois); err != nil {
		return nil, err
	}
	return pois, nil
}

// CreatePOI creates a new point of interest.
func (c *Client) CreatePOI(ctx context.Context, payload POIPayload) (*POI, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/api/v1/pois/", payload)
	if err != nil {
		return nil, err
	}

	var created POI
	if _, err := c.parseResponse(resp, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdatePOI applies a partial update to a point of interest.
func (c *Client) UpdatePOI(ctx context.Context, poiID string, payload POIPayload) (*POI, error) {
	path := fmt.Sprintf("/api/v1/pois/%s/", poiID)
	resp, err := c.doRequest(ctx, http.MethodPatch, path, payload)
	if err != nil {
		return nil, err
	}

	var updated POI
	if _, err := c.parseResponse(resp, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeletePOI removes a point of interest.
func (c *Client) DeletePOI(ctx context.Context, poiID string) (*Result, error) {
	path := fmt.Sprintf("/api/v1/pois/%s/", poiID)
	resp, err := c.doRequest(ctx, http.MethodDelete, path, nil)
	if err != nil {
		return nil, err
	}
	return c.parseResponse(resp, nil)
}
