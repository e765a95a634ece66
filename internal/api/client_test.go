package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testBaseURL = "http://survey.test"

func newTestClient(t *testing.T) *Client {
	t.Helper()
	client, err := NewClient(testBaseURL)
	require.NoError(t, err)
	httpmock.ActivateNonDefault(client.HTTPClient())
	t.Cleanup(httpmock.DeactivateAndReset)
	return client
}

func TestClient_TrimsTrailingSlash(t *testing.T) {
	client, err := NewClient("http://survey.test///")
	require.NoError(t, err)
	assert.Equal(t, "http://survey.test", client.baseURL)
}

func TestClient_UnwrapsSuccessEnvelope(t *testing.T) {
	client := newTestClient(t)

	httpmock.RegisterResponder(http.MethodGet, testBaseURL+"/api/v1/tags/",
		httpmock.NewStringResponder(http.StatusOK,
			`{"success": true, "data": [{"id": "t1", "name": "survey-2024", "color": "#ff0000"}]}`))

	tags, err := client.ListTags(context.Background())
	require.NoError(t, err)
	require.Len(t, tags, 1)
	assert.Equal(t, "t1", tags[0].ID)
	assert.Equal(t, "#ff0000", tags[0].Color)
}

func TestClient_AcceptsBareResource(t *testing.T) {
	client := newTestClient(t)

	httpmock.RegisterResponder(http.MethodGet, testBaseURL+"/api/v1/tags/",
		httpmock.NewStringResponder(http.StatusOK,
			`[{"id": "t1", "name": "survey-2024", "color": "#ff0000"}]`))

	tags, err := client.ListTags(context.Background())
	require.NoError(t, err)
	require.Len(t, tags, 1)
	assert.Equal(t, "survey-2024", tags[0].Name)
}

func TestClient_NoContentResolvesToResult(t *testing.T) {
	client := newTestClient(t)

	httpmock.RegisterResponder(http.MethodDelete, testBaseURL+"/api/v1/stations/s1/",
		httpmock.NewStringResponder(http.StatusNoContent, ""))

	result, err := client.DeleteStation(context.Background(), "s1")
	require.NoError(t, err)
	assert.True(t, result.OK)
	assert.Equal(t, http.StatusNoContent, result.Status)
}

func TestClient_ErrorMessageProbing(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"message_field", `{"message": "station name taken"}`, "station name taken"},
		{"error_field", `{"error": "bad coordinates"}`, "bad coordinates"},
		{"detail_field", `{"detail": "not found"}`, "not found"},
		{"message_wins", `{"message": "first", "error": "second", "detail": "third"}`, "first"},
		{"no_known_field", `{"oops": true}`, "request failed with status 400"},
		{"not_json", `<html>gateway error</html>`, "request failed with status 400"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t)
			httpmock.RegisterResponder(http.MethodGet, testBaseURL+"/api/v1/tags/",
				httpmock.NewStringResponder(http.StatusBadRequest, tt.body))

			_, err := client.ListTags(context.Background())
			require.Error(t, err)

			var apiErr *APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, http.StatusBadRequest, apiErr.Status)
			assert.Equal(t, tt.want, apiErr.Message)
		})
	}
}

func TestClient_FieldErrors(t *testing.T) {
	client := newTestClient(t)

	httpmock.RegisterResponder(http.MethodPost, testBaseURL+"/api/v1/projects/p1/stations/",
		httpmock.NewStringResponder(http.StatusBadRequest,
			`{"message": "validation failed", "errors": {"name": ["required"], "latitude": "out of range"}}`))

	name := "S1"
	_, err := client.CreateProjectStation(context.Background(), "p1", StationPayload{Name: &name})
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	fields := apiErr.FieldErrors()
	assert.Equal(t, []string{"required"}, fields["name"])
	assert.Equal(t, []string{"out of range"}, fields["latitude"])
}

func TestClient_TransportErrorIsNotAPIError(t *testing.T) {
	client := newTestClient(t)

	httpmock.RegisterResponder(http.MethodGet, testBaseURL+"/api/v1/tags/",
		httpmock.NewErrorResponder(errors.New("connection refused")))

	_, err := client.ListTags(context.Background())
	require.Error(t, err)

	var apiErr *APIError
	assert.False(t, errors.As(err, &apiErr))
}

func TestClient_CSRFHeaderOnMutatingRequestsOnly(t *testing.T) {
	client := newTestClient(t)
	require.NoError(t, client.SetCSRFToken("tok-123"))

	var getHeader, postHeader string
	httpmock.RegisterResponder(http.MethodGet, testBaseURL+"/api/v1/tags/",
		func(req *http.Request) (*http.Response, error) {
			getHeader = req.Header.Get("X-CSRFToken")
			return httpmock.NewStringResponse(http.StatusOK, `[]`), nil
		})
	httpmock.RegisterResponder(http.MethodPost, testBaseURL+"/api/v1/tags/",
		func(req *http.Request) (*http.Response, error) {
			postHeader = req.Header.Get("X-CSRFToken")
			return httpmock.NewStringResponse(http.StatusOK, `{"id": "t1"}`), nil
		})

	_, err := client.ListTags(context.Background())
	require.NoError(t, err)
	name := "n"
	color := "#112233"
	_, err = client.CreateTag(context.Background(), TagPayload{Name: &name, Color: &color})
	require.NoError(t, err)

	assert.Empty(t, getHeader)
	assert.Equal(t, "tok-123", postHeader)
}

func TestClient_CSRFTokenFromSetCookie(t *testing.T) {
	client := newTestClient(t)

	httpmock.RegisterResponder(http.MethodGet, testBaseURL+"/api/v1/tags/",
		func(req *http.Request) (*http.Response, error) {
			resp := httpmock.NewStringResponse(http.StatusOK, `[]`)
			resp.Header.Set("Set-Cookie", "csrftoken=issued-456; Path=/")
			resp.Request = req
			return resp, nil
		})

	_, err := client.ListTags(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "issued-456", client.csrfToken())
}

func TestClient_MultipartUpload(t *testing.T) {
	client := newTestClient(t)

	var contentType string
	var body []byte
	httpmock.RegisterResponder(http.MethodPost, testBaseURL+"/api/v1/stations/s1/resources/",
		func(req *http.Request) (*http.Response, error) {
			contentType = req.Header.Get("Content-Type")
			body, _ = io.ReadAll(req.Body)
			return httpmock.NewStringResponse(http.StatusCreated,
				`{"id": "r1", "name": "photo", "filename": "cave.jpg"}`), nil
		})

	resource, err := client.UploadResource(context.Background(), "s1", "photo", "cave.jpg",
		strings.NewReader("jpeg-bytes"))
	require.NoError(t, err)
	assert.Equal(t, "r1", resource.ID)

	// Boundary is computed by the multipart writer, never hand-set.
	assert.True(t, strings.HasPrefix(contentType, "multipart/form-data; boundary="))
	assert.Contains(t, string(body), `filename="cave.jpg"`)
	assert.Contains(t, string(body), "jpeg-bytes")
}

func TestClient_ListPOIsScopesByProject(t *testing.T) {
	client := newTestClient(t)

	httpmock.RegisterResponder(http.MethodGet, testBaseURL+"/api/v1/pois/",
		func(req *http.Request) (*http.Response, error) {
			if req.URL.Query().Get("project_id") != "p1" {
				return httpmock.NewStringResponse(http.StatusBadRequest, `{"message": "missing project"}`), nil
			}
			return httpmock.NewStringResponse(http.StatusOK,
				`[{"id": "poi1", "name": "Sump", "latitude": 45.1, "longitude": 13.2}]`), nil
		})

	projectID := "p1"
	pois, err := client.ListPOIs(context.Background(), &projectID)
	require.NoError(t, err)
	require.Len(t, pois, 1)
	assert.Equal(t, "Sump", pois[0].Name)
}
