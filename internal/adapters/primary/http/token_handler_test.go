package http

import (
	stdhttp "net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenHandler_Issue(t *testing.T) {
	f := newRouterFixture(t)

	rec := f.postJSON("/api/v1/viewer-tokens", "")

	require.Equal(t, stdhttp.StatusCreated, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
	assert.NotEmpty(t, body["expiresAt"])

	claims, err := f.tm.ValidateToken(body["token"].(string))
	require.NoError(t, err)
	assert.Equal(t, body["viewerId"], claims.ViewerID.String())
	assert.NotEqual(t, uuid.Nil, claims.ViewerID)
}

func TestTokenHandler_RequiresAPIKey(t *testing.T) {
	f := newRouterFixture(t)

	rec := f.do(stdhttp.MethodPost, "/api/v1/viewer-tokens", "", "", nil)
	assert.Equal(t, stdhttp.StatusUnauthorized, rec.Code)
}

func TestTokenHandler_AbsentWithoutJWT(t *testing.T) {
	f := newRouterFixture(t, withoutViewerTokens())

	rec := f.postJSON("/api/v1/viewer-tokens", "")
	assert.Equal(t, stdhttp.StatusNotFound, rec.Code)
}

func TestWebSocketRoute_RequiresViewerToken(t *testing.T) {
	f := newRouterFixture(t)

	rec := f.do(stdhttp.MethodGet, "/ws", "", "", nil)
	assert.Equal(t, stdhttp.StatusUnauthorized, rec.Code)
	assert.Equal(t, 0, f.registry.Len())
}
