package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	stdhttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	wsAdapter "github.com/lorrc/scan-relay/internal/adapters/primary/websocket"
	"github.com/lorrc/scan-relay/internal/auth"
	"github.com/lorrc/scan-relay/internal/core/domain"
	"github.com/lorrc/scan-relay/internal/core/mocks"
	"github.com/lorrc/scan-relay/internal/infrastructure/metrics"
)

const testAPIKey = "front-desk-key"

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testEmployee() *domain.Employee {
	image := "https://cdn.example/emp/1042.png"
	return &domain.Employee{
		ID:                 "1042",
		HashKey:            "ab12cd34",
		Name:               "Ada Obi",
		Department:         "Finance",
		Location:           "Lagos",
		ParticipantType:    "staff",
		IsBranchManager:    false,
		IsHeadOfDepartment: true,
		Attendance:         "present",
		ImageURL:           &image,
	}
}

type routerFixture struct {
	scan     *mocks.MockScanService
	lookup   *mocks.MockLookupService
	registry *wsAdapter.Registry
	tm       *auth.TokenManager
	handler  stdhttp.Handler
}

type fixtureOption func(*RouterConfig)

func withoutAPIKey() fixtureOption {
	return func(c *RouterConfig) { c.APIKey = auth.NewAPIKeyVerifier("", "") }
}

func withoutViewerTokens() fixtureOption {
	return func(c *RouterConfig) { c.TokenManager = nil }
}

func withDB(db HealthChecker) fixtureOption {
	return func(c *RouterConfig) { c.DB = db }
}

func withCache(cache HealthChecker) fixtureOption {
	return func(c *RouterConfig) { c.Cache = cache }
}

func withDashboard(path string) fixtureOption {
	return func(c *RouterConfig) { c.DashboardFile = path }
}

func newRouterFixture(t *testing.T, opts ...fixtureOption) *routerFixture {
	t.Helper()

	f := &routerFixture{
		scan:     mocks.NewMockScanService(),
		lookup:   mocks.NewMockLookupService(),
		registry: wsAdapter.NewRegistry(metrics.New(), discardLogger()),
		tm:       auth.NewTokenManager("0123456789abcdef0123456789abcdef", 0),
	}

	cfg := RouterConfig{
		Logger:        discardLogger(),
		ScanService:   f.scan,
		LookupService: f.lookup,
		Registry:      f.registry,
		APIKey:        auth.NewAPIKeyVerifier(testAPIKey, ""),
		TokenManager:  f.tm,
		CORSOrigins:   []string{"*"},
		DB:            HealthCheckFunc(func(context.Context) error { return nil }),
		Version:       "test",
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.TokenManager == nil {
		f.tm = nil
	}

	f.handler = NewRouter(cfg)
	t.Cleanup(func() {
		f.scan.AssertExpectations(t)
		f.lookup.AssertExpectations(t)
	})
	return f
}

func (f *routerFixture) do(method, path, contentType, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func (f *routerFixture) postJSON(path, body string) *httptest.ResponseRecorder {
	return f.do(stdhttp.MethodPost, path, "application/json", body, map[string]string{"X-API-KEY": testAPIKey})
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body
}

var errStoreDown = errors.New("connection refused")
