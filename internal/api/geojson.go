// Package api: GeoJSON types for the bulk collection endpoints
package api

import (
	"context"
	"fmt"
	"net/http"
)

// Geometry is a GeoJSON point geometry. Coordinates are [longitude, latitude].
type Geometry struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"`
}

// Latitude returns the latitude component, or 0 when the geometry is malformed.
func (g Geometry) Latitude() float64 {
	if len(g.Coordinates) < 2 {
		return 0
	}
	return g.Coordinates[1]
}

// Longitude returns the longitude component, or 0 when the geometry is malformed.
func (g Geometry) Longitude() float64 {
	if len(g.Coordinates) < 2 {
		return 0
	}
	return g.Coordinates[0]
}

// Feature is a single GeoJSON feature. The feature id becomes the entity id
// and Properties carry the entity fields.
type Feature struct {
	ID         string         `json:"id"`
	Type       string         `json:"type"`
	Properties map[string]any `json:"properties"`
	Geometry   Geometry       `json:"geometry"`
}

// FeatureCollection is the bulk response shape for "all X" endpoints.
type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}

// ProjectStationsGeoJSON fetches all of a project's stations as a FeatureCollection.
func (c *Client) ProjectStationsGeoJSON(ctx context.Context, projectID string) (*FeatureCollection, error) {
	return c.getFeatureCollection(ctx, fmt.Sprintf("/api/v1/projects/%s/stations/geojson", projectID))
}

// NetworkSurfaceStationsGeoJSON fetches all of a network's surface stations.
func (c *Client) NetworkSurfaceStationsGeoJSON(ctx context.Context, networkID string) (*FeatureCollection, error) {
	return c.getFeatureCollection(ctx, fmt.Sprintf("/api/v1/networks/%s/surface-stations/geojson", networkID))
}

// ProjectPOIsGeoJSON fetches all of a project's points of interest.
func (c *Client) ProjectPOIsGeoJSON(ctx context.Context, projectID string) (*FeatureCollection, error) {
	return c.getFeatureCollection(ctx, fmt.Sprintf("/api/v1/projects/%s/pois/geojson", projectID))
}

func (c *Client) getFeatureCollection(ctx context.Context, path string) (*FeatureCollection, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	var collection FeatureCollection
	if _, err := c.parseResponse(resp, &collection); err != nil {
		return nil, err
	}
	return &collection, nil
}
