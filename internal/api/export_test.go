package api

import (
	"context"
	"net/http"
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportSensorInstalls_UsesDispositionFilename(t *testing.T) {
	client := newTestClient(t)

	httpmock.RegisterResponder(http.MethodGet,
		testBaseURL+"/api/v1/stations/s1/sensor-installs/export/",
		func(req *http.Request) (*http.Response, error) {
			resp := httpmock.NewBytesResponse(http.StatusOK, []byte("xlsx-bytes"))
			resp.Header.Set("Content-Disposition", `attachment; filename="installs-2026.xlsx"`)
			return resp, nil
		})

	export, err := client.ExportSensorInstalls(context.Background(), "s1", nil)
	require.NoError(t, err)
	assert.Equal(t, "installs-2026.xlsx", export.Filename)
	assert.Equal(t, []byte("xlsx-bytes"), export.Content)
}

func TestExportSensorInstalls_FallbackFilename(t *testing.T) {
	client := newTestClient(t)

	httpmock.RegisterResponder(http.MethodGet,
		testBaseURL+"/api/v1/stations/s1/sensor-installs/export/",
		httpmock.NewBytesResponder(http.StatusOK, []byte("xlsx-bytes")))

	export, err := client.ExportSensorInstalls(context.Background(), "s1", nil)
	require.NoError(t, err)
	assert.Equal(t, "sensor-installs-s1.xlsx", export.Filename)
}

func TestExportSensorInstalls_StatusFilter(t *testing.T) {
	client := newTestClient(t)

	var gotStatus string
	httpmock.RegisterResponder(http.MethodGet,
		testBaseURL+"/api/v1/stations/s1/sensor-installs/export/",
		func(req *http.Request) (*http.Response, error) {
			gotStatus = req.URL.Query().Get("status")
			return httpmock.NewBytesResponse(http.StatusOK, nil), nil
		})

	status := StatusRetrieved
	_, err := client.ExportSensorInstalls(context.Background(), "s1", &status)
	require.NoError(t, err)
	assert.Equal(t, "retrieved", gotStatus)
}

func TestDispositionFilename(t *testing.T) {
	assert.Equal(t, "a.xlsx", dispositionFilename(`attachment; filename=a.xlsx`, "s1"))
	assert.Equal(t, "sensor-installs-s1.xlsx", dispositionFilename("", "s1"))
	assert.Equal(t, "sensor-installs-s1.xlsx", dispositionFilename("attachment", "s1"))
	assert.Equal(t, "sensor-installs-s1.xlsx", dispositionFilename(";;;", "s1"))
}
