package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_UnwrapsToSentinel(t *testing.T) {
	err := NewBadRequestError(ErrRawDataRequired, "Missing rawData")

	assert.True(t, errors.Is(err, ErrRawDataRequired))
	assert.Equal(t, "Missing rawData", err.Error())
	assert.Equal(t, 400, err.StatusCode)
}

func TestAppError_FallsBackToWrappedMessage(t *testing.T) {
	err := &AppError{Err: ErrEmployeeNotFound}

	assert.Equal(t, "employee not found", err.Error())
}

func TestStoreError(t *testing.T) {
	cause := errors.New("connection refused")
	err := &StoreError{Op: "get employee", Err: cause}

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "store get employee: connection refused", err.Error())

	var storeErr *StoreError
	assert.True(t, errors.As(error(err), &storeErr))
}
