package http

import (
	stdhttp "net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "github.com/lorrc/scan-relay/internal/core/errors"
)

func TestLookupHandler(t *testing.T) {
	t.Run("found by json hashKey", func(t *testing.T) {
		f := newRouterFixture(t)
		f.lookup.On("FindByHashKey", mock.Anything, "ab12cd34").Return(testEmployee(), nil).Once()

		rec := f.postJSON("/api/scan", `{"hashKey":"ab12cd34"}`)

		assert.Equal(t, stdhttp.StatusOK, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, true, body["success"])
		employee := body["employee"].(map[string]any)
		assert.Equal(t, "1042", employee["id"])
		assert.Equal(t, true, employee["isHeadOfDepartment"])

		checkedAt, err := time.Parse(time.RFC3339Nano, body["checkedAt"].(string))
		require.NoError(t, err)
		assert.WithinDuration(t, time.Now(), checkedAt, time.Minute)
	})

	t.Run("legacy form field", func(t *testing.T) {
		f := newRouterFixture(t)
		f.lookup.On("FindByHashKey", mock.Anything, "ab12cd34").Return(testEmployee(), nil).Once()

		rec := f.do(stdhttp.MethodPost, "/api/v1/lookups", "application/x-www-form-urlencoded",
			"emp_hash=ab12cd34", map[string]string{"X-API-KEY": testAPIKey})

		assert.Equal(t, stdhttp.StatusOK, rec.Code)
	})

	t.Run("legacy json field", func(t *testing.T) {
		f := newRouterFixture(t)
		f.lookup.On("FindByHashKey", mock.Anything, "ab12cd34").Return(testEmployee(), nil).Once()

		rec := f.postJSON("/api/scan", `{"emp_hash":" ab12cd34 "}`)
		assert.Equal(t, stdhttp.StatusOK, rec.Code)
	})

	t.Run("not found", func(t *testing.T) {
		f := newRouterFixture(t)
		f.lookup.On("FindByHashKey", mock.Anything, "zz99zz99").Return(nil, apperrors.ErrEmployeeNotFound).Once()

		rec := f.postJSON("/api/scan", `{"hashKey":"zz99zz99"}`)

		assert.Equal(t, stdhttp.StatusNotFound, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, false, body["success"])
		assert.Equal(t, "User not recognized", body["error"])
	})

	t.Run("short key", func(t *testing.T) {
		f := newRouterFixture(t)
		f.lookup.On("FindByHashKey", mock.Anything, "ab1").Return(nil, apperrors.ErrHashKeyInvalid).Once()

		rec := f.postJSON("/api/scan", `{"hashKey":"ab1"}`)
		assert.Equal(t, stdhttp.StatusBadRequest, rec.Code)
		assert.Equal(t, "HASH_KEY_INVALID", decodeBody(t, rec)["code"])
	})

	t.Run("store failure", func(t *testing.T) {
		f := newRouterFixture(t)
		f.lookup.On("FindByHashKey", mock.Anything, "ab12cd34").
			Return(nil, &apperrors.StoreError{Op: "get employee", Err: errStoreDown}).Once()

		rec := f.postJSON("/api/scan", `{"hashKey":"ab12cd34"}`)
		assert.Equal(t, stdhttp.StatusInternalServerError, rec.Code)
	})

	t.Run("requires api key", func(t *testing.T) {
		f := newRouterFixture(t)

		rec := f.do(stdhttp.MethodPost, "/api/scan", "application/json", `{"hashKey":"ab12cd34"}`, nil)
		assert.Equal(t, stdhttp.StatusUnauthorized, rec.Code)
	})
}
