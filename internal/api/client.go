// Package api provides the HTTP client for the cavemap survey backend.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"time"
)

const (
	// DefaultCSRFCookie is the cookie the backend issues its anti-forgery token in.
	DefaultCSRFCookie = "csrftoken"

	csrfHeader     = "X-CSRFToken"
	defaultTimeout = 30 * time.Second
)

// Client represents the API client for the survey backend.
// The cookie jar carries the session and CSRF cookies, so requests behave
// like same-origin browser requests.
type Client struct {
	baseURL    string
	csrfCookie string
	jar        http.CookieJar
	httpClient *http.Client
}

// NewClient creates a new API client for the given base URL.
func NewClient(baseURL string) (*Client, error) {
	return NewClientWithCookie(baseURL, DefaultCSRFCookie)
}

// NewClientWithCookie creates a client reading the CSRF token from a
// non-default cookie name.
func NewClientWithCookie(baseURL, csrfCookie string) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}

	return &Client{
		baseURL:    trimTrailingSlash(baseURL),
		csrfCookie: csrfCookie,
		jar:        jar,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
			Jar:     jar,
		},
	}, nil
}

// HTTPClient exposes the underlying transport so callers can adjust the
// timeout or install a test transport.
func (c *Client) HTTPClient() *http.Client {
	return c.httpClient
}

// SetTimeout bounds every request issued by this client.
func (c *Client) SetTimeout(d time.Duration) {
	c.httpClient.Timeout = d
}

// SetCSRFToken seeds the CSRF cookie directly, for sessions established
// outside this client (e.g. a token handed over by the login flow).
func (c *Client) SetCSRFToken(token string) error {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return fmt.Errorf("invalid base URL: %w", err)
	}
	c.jar.SetCookies(u, []*http.Cookie{{Name: c.csrfCookie, Value: token, Path: "/"}})
	return nil
}

// csrfToken reads the current CSRF token from the cookie jar.
// Returns the empty string when no token has been issued yet.
func (c *Client) csrfToken() string {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return ""
	}
	for _, cookie := range c.jar.Cookies(u) {
		if cookie.Name == c.csrfCookie {
			return cookie.Value
		}
	}
	return ""
}

// Result is the success sentinel for calls whose response carries no body.
type Result struct {
	OK     bool
	Status int
}

// FormFile is a file part of a multipart request.
type FormFile struct {
	Field    string
	Filename string
	Content  io.Reader
}

// doRequest performs an HTTP request with a JSON body (or none).
// Transport-level failures propagate untransformed, so callers can tell
// them apart from server rejections (which become *APIError in parseResponse).
func (c *Client) doRequest(ctx context.Context, method, path string, body any) (*http.Response, error) {
	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	c.attachCSRF(req, method)

	return c.httpClient.Do(req)
}

// doForm performs an HTTP request with a multipart form body. The
// Content-Type header is left to the multipart writer so the boundary is
// computed automatically; exactly one of doRequest/doForm applies per call.
func (c *Client) doForm(ctx context.Context, method, path string, fields map[string]string, files []FormFile) (*http.Response, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			return nil, fmt.Errorf("failed to write form field %s: %w", key, err)
		}
	}
	for _, file := range files {
		part, err := writer.CreateFormFile(file.Field, file.Filename)
		if err != nil {
			return nil, fmt.Errorf("failed to create form file %s: %w", file.Field, err)
		}
		if _, err := io.Copy(part, file.Content); err != nil {
			return nil, fmt.Errorf("failed to copy form file %s: %w", file.Field, err)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize form body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Accept", "application/json")
	c.attachCSRF(req, method)

	return c.httpClient.Do(req)
}

// attachCSRF echoes the CSRF cookie value on state-changing requests.
func (c *Client) attachCSRF(req *http.Request, method string) {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return
	}
	if token := c.csrfToken(); token != "" {
		req.Header.Set(csrfHeader, token)
	}
}

// parseResponse parses an HTTP response into target. A 204 resolves to a
// success Result without touching the body. Non-2xx statuses become
// *APIError carrying the numeric status and the parsed body.
func (c *Client) parseResponse(resp *http.Response, target any) (*Result, error) {
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		return &Result{OK: true, Status: resp.StatusCode}, nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, newAPIError(resp.StatusCode, body)
	}

	if target != nil {
		if err := unwrap(body, target); err != nil {
			return nil, fmt.Errorf("failed to parse response: %w", err)
		}
	}

	return &Result{OK: true, Status: resp.StatusCode}, nil
}

// unwrap unmarshals a response body into target, accepting both the
// `{"success": true, "data": ...}` envelope and a bare resource.
func unwrap(body []byte, target any) error {
	var envelope struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Success && len(envelope.Data) > 0 {
		return json.Unmarshal(envelope.Data, target)
	}
	return json.Unmarshal(body, target)
}

func trimTrailingSlash(s string) string {
	for len(s) > 0 && s[len(s)-1] == '/' {
		s = s[:len(s)-1]
	}
	return s
}
