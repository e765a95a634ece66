// Package api provides resource/log upload and experiment record methods
package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// UploadResource attaches a file to a station as a resource. Multipart body;
// the Content-Type boundary is computed automatically.
func (c *Client) UploadResource(ctx context.Context, stationID, name, filename string, content io.Reader) (*Resource, error) {
	path := fmt.Sprintf("/api/v1/stations/%s/resources/", stationID)
	fields := map[string]string{"name": name}
	files := []FormFile{{Field: "file", Filename: filename, Content: content}}

	resp, err := c.doForm(ctx, http.MethodPost, path, fields, files)
	if err != nil {
		return nil, err
	}

	var created Resource
	if _, err := c.parseResponse(resp, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// DeleteResource removes a resource from a station.
func (c *Client) DeleteResource(ctx context.Context, resourceID string) (*Result, error) {
	path := fmt.Sprintf("/api/v1/resources/%s/", resourceID)
	resp, err := c.doRequest(ctx, http.MethodDelete, path, nil)
	if err != nil {
		return nil, err
	}
	return c.parseResponse(resp, nil)
}

// UploadLog attaches a survey log to a station, with an optional file.
func (c *Client) UploadLog(ctx context.Context, stationID, title, body string, file *FormFile) (*LogEntry, error) {
	path := fmt.Sprintf("/api/v1/stations/%s/logs/", stationID)
	fields := map[string]string{"title": title, "body": body}
	var files []FormFile
	if file != nil {
		files = append(files, *file)
	}

	resp, err := c.doForm(ctx, http.MethodPost, path, fields, files)
	if err != nil {
		return nil, err
	}

	var created LogEntry
	if _, err := c.parseResponse(resp, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// CreateExperimentRecord attaches a structured experiment annotation to a
// station. Plain JSON, unlike resource/log uploads.
func (c *Client) CreateExperimentRecord(ctx context.Context, stationID, kind string, parameters map[string]any) (*ExperimentRecord, error) {
	path := fmt.Sprintf("/api/v1/stations/%s/experiments/", stationID)
	body := map[string]any{"kind": kind, "parameters": parameters}

	resp, err := c.doRequest(ctx, http.MethodPost, path, body)
	if err != nil {
		return nil, err
	}

	var created ExperimentRecord
	if _, err := c.parseResponse(resp, &created); err != nil {
		return nil, err
	}
	return &created, nil
}
