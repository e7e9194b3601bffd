// AngelaMos | 2026
// handler_test.go

package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quillworks/platform-api/internal/config"
)

type fakeChecker struct {
	err error
}

func (f *fakeChecker) Ping(_ context.Context) error {
	return f.err
}

func testAppConfig() config.AppConfig {
	return config.AppConfig{
		Name:        "platform-api",
		Version:     "1.2.3",
		Environment: "test",
	}
}

func TestLivenessReportsService(t *testing.T) {
	h := NewHandler(testAppConfig(), &fakeChecker{}, &fakeChecker{})

	rec := httptest.NewRecorder()
	h.Liveness(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var body StatusResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body.Status)
	assert.Equal(t, "platform-api", body.Service)
	assert.Equal(t, "1.2.3", body.Version)
	assert.Equal(t, "test", body.Environment)
}

func TestReadinessAllHealthy(t *testing.T) {
	h := NewHandler(testAppConfig(), &fakeChecker{}, &fakeChecker{})

	rec := httptest.NewRecorder()
	h.Readiness(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var body ReadinessResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body.Status)
	require.Len(t, body.Checks, 2)
	assert.Equal(t, "postgres", body.Checks[0].Name)
	assert.Equal(t, "redis", body.Checks[1].Name)
	for _, check := range body.Checks {
		assert.True(t, check.Healthy)
	}
}

func TestReadinessDegradedOnStoreFailure(t *testing.T) {
	h := NewHandler(
		testAppConfig(),
		&fakeChecker{err: errors.New("connection refused")},
		&fakeChecker{},
	)

	rec := httptest.NewRecorder()
	h.Readiness(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var body ReadinessResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "degraded", body.Status)
	assert.False(t, body.Checks[0].Healthy)
	assert.Equal(t, "ping failed", body.Checks[0].Message)
	assert.True(t, body.Checks[1].Healthy)
}

func TestProbesGoUnavailableDuringShutdown(t *testing.T) {
	h := NewHandler(testAppConfig(), &fakeChecker{}, &fakeChecker{})
	h.SetShutdown(true)

	rec := httptest.NewRecorder()
	h.Liveness(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = httptest.NewRecorder()
	h.Readiness(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var body StatusResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "shutting_down", body.Status)
}
