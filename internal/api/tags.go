// Package api provides tag-related API methods
package api

import (
	"context"
	"fmt"
	"net/http"
)

// TagPayload carries the writable tag fields.
type TagPayload struct {
	Name  *string `json:"name,omitempty"`
	Color *string `json:"color,omitempty"`
}

// ListTags retrieves the user's tags.
func (c *Client) ListTags(ctx context.Context) ([]Tag, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/api/v1/tags/", nil)
	if err != nil {
		return nil, err
	}

	var tags []Tag
	if _, err := c.parseResponse(resp, &tags); err != nil {
		return nil, err
	}
	return tags, nil
}

// CreateTag creates a new tag.
func (c *Client) CreateTag(ctx context.Context, payload TagPayload) (*Tag, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/api/v1/tags/", payload)
	if err != nil {
		return nil, err
	}

	var created Tag
	if _, err := c.parseResponse(resp, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateTag applies a partial update to a tag.
func (c *Client) UpdateTag(ctx context.Context, tagID string, payload TagPayload) (*Tag, error) {
	path := fmt.Sprintf("/api/v1/tags/%s/", tagID)
	resp, err := c.doRequest(ctx, http.MethodPatch, path, payload)
	if err != nil {
		return nil, err
	}

	var updated Tag
	if _, err := c.parseResponse(resp, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteTag removes a tag.
func (c *Client) DeleteTag(ctx context.Context, tagID string) (*Result, error) {
	path := fmt.Sprintf("/api/v1/tags/%s/", tagID)
	resp, err := c.doRequest(ctx, http.MethodDelete, path, nil)
	if err != nil {
		return nil, err
	}
	return c.parseResponse(resp, nil)
}

// SetStationTag assigns a tag to a station. The backend models the relation
// as a side table, so this is a dedicated call rather than a station update.
func (c *Client) SetStationTag(ctx context.Context, stationID, tagID string) (*Station, error) {
	path := fmt.Sprintf("/api/v1/stations/%s/tag/", stationID)
	body := map[string]string{"tag_id": tagID}
	resp, err := c.doRequest(ctx, http.MethodPut, path, body)
	if err != nil {
		return nil, err
	}

	var updated Station
	if _, err := c.parseResponse(resp, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// RemoveStationTag clears a station's tag.
func (c *Client) RemoveStationTag(ctx context.Context, stationID string) (*Result, error) {
	path := fmt.Sprintf("/api/v1/stations/%s/tag/", stationID)
	resp, err := c.doRequest(ctx, http.MethodDelete, path, nil)
	if err != nil {
		return nil, err
	}
	return c.parseResponse(resp, nil)
}
