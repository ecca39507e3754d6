package http

import (
	"context"
	"errors"
	stdhttp "net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func failingCheck(msg string) HealthChecker {
	return HealthCheckFunc(func(context.Context) error { return errors.New(msg) })
}

func healthyCheck() HealthChecker {
	return HealthCheckFunc(func(context.Context) error { return nil })
}

func TestHealthHandler(t *testing.T) {
	t.Run("liveness always ok", func(t *testing.T) {
		f := newRouterFixture(t, withDB(failingCheck("down")))

		rec := f.do(stdhttp.MethodGet, "/health/live", "", "", nil)
		assert.Equal(t, stdhttp.StatusOK, rec.Code)
	})

	t.Run("ready when database answers", func(t *testing.T) {
		f := newRouterFixture(t, withCache(failingCheck("cache down")))

		rec := f.do(stdhttp.MethodGet, "/health/ready", "", "", nil)
		assert.Equal(t, stdhttp.StatusOK, rec.Code, "the cache does not gate readiness")
	})

	t.Run("not ready without database", func(t *testing.T) {
		f := newRouterFixture(t, withDB(failingCheck("dial tcp: refused")))

		rec := f.do(stdhttp.MethodGet, "/health/ready", "", "", nil)

		assert.Equal(t, stdhttp.StatusServiceUnavailable, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, "unhealthy", body["status"])
	})

	t.Run("detailed reports cache and sessions", func(t *testing.T) {
		f := newRouterFixture(t, withCache(healthyCheck()))

		rec := f.do(stdhttp.MethodGet, "/health", "", "", nil)

		assert.Equal(t, stdhttp.StatusOK, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, "healthy", body["status"])
		assert.Equal(t, float64(0), body["sessions"])
		checks := body["checks"].(map[string]any)
		assert.Contains(t, checks, "database")
		assert.Contains(t, checks, "cache")
	})

	t.Run("detailed degrades on cache failure", func(t *testing.T) {
		f := newRouterFixture(t, withCache(failingCheck("cache down")))

		rec := f.do(stdhttp.MethodGet, "/health", "", "", nil)

		assert.Equal(t, stdhttp.StatusServiceUnavailable, rec.Code)
		assert.Equal(t, "degraded", decodeBody(t, rec)["status"])
	})
}

func TestDashboardHandler(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.html")
	require.NoError(t, os.WriteFile(path, []byte("<h1>scans</h1>"), 0o600))

	f := newRouterFixture(t, withDashboard(path))
	rec := f.do(stdhttp.MethodGet, "/", "", "", nil)

	assert.Equal(t, stdhttp.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<h1>scans</h1>")

	missing := newRouterFixture(t, withDashboard(""))
	assert.Equal(t, stdhttp.StatusNotFound, missing.do(stdhttp.MethodGet, "/", "", "", nil).Code)
}
