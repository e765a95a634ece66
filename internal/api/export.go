// Package api provides the spreadsheet export download
package api

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
)

// Export is a downloaded binary spreadsheet with its server-suggested filename.
type Export struct {
	Filename string
	Content  []byte
}

// ExportSensorInstalls downloads the sensor-install spreadsheet for a station,
// optionally filtered by status. The filename comes from the
// Content-Disposition header; a fallback name is used when the header is
// missing or unparseable.
func (c *Client) ExportSensorInstalls(ctx context.Context, stationID string, status *InstallStatus) (*Export, error) {
	path := fmt.Sprintf("/api/v1/stations/%s/sensor-installs/export/", stationID)
	if status != nil {
		params := url.Values{}
		params.Add("status", string(*status))
		path += "?" + params.Encode()
	}

	resp, err := c.doRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			return nil, fmt.Errorf("failed to read response body: %w", readErr)
		}
		return nil, newAPIError(resp.StatusCode, body)
	}

	content, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read export body: %w", err)
	}

	return &Export{
		Filename: dispositionFilename(resp.Header.Get("Content-Disposition"), stationID),
		Content:  content,
	}, nil
}

// dispositionFilename parses `attachment; filename=...` from a
// Content-Disposition header value.
func dispositionFilename(header, stationID string) string {
	fallback := fmt.Sprintf("sensor-installs-%s.xlsx", stationID)
	if header == "" {
		return fallback
	}
	_, params, err := mime.ParseMediaType(header)
	if err != nil {
		return fallback
	}
	if name := params["filename"]; name != "" {
		return name
	}
	return fallback
}
