package domain_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/lorrc/scan-relay/internal/core/domain"
	apperrors "github.com/lorrc/scan-relay/internal/core/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewScanEvent(t *testing.T) {
	scannedAt := time.Date(2026, 3, 14, 9, 26, 53, 0, time.FixedZone("CET", 3600))

	t.Run("assembles event", func(t *testing.T) {
		event, err := domain.NewScanEvent(domain.ScanParams{
			RawData:   "https://example.com",
			DeviceID:  "scanner-7",
			ScannedAt: scannedAt,
		})

		require.NoError(t, err)
		assert.Equal(t, "https://example.com", event.RawData)
		assert.Equal(t, "scanner-7", event.DeviceID)
		assert.Equal(t, domain.DataTypeURL, event.DataType)
		assert.Equal(t, "2026-03-14T08:26:53Z", event.Timestamp)
		assert.Nil(t, event.Enrichment)
	})

	t.Run("defaults device id", func(t *testing.T) {
		event, err := domain.NewScanEvent(domain.ScanParams{RawData: "hello", ScannedAt: scannedAt})

		require.NoError(t, err)
		assert.Equal(t, domain.DefaultDeviceID, event.DeviceID)
	})

	t.Run("rejects empty raw data", func(t *testing.T) {
		_, err := domain.NewScanEvent(domain.ScanParams{DeviceID: "scanner-7", ScannedAt: scannedAt})

		assert.ErrorIs(t, err, apperrors.ErrRawDataRequired)
	})

	t.Run("whitespace raw data is text", func(t *testing.T) {
		event, err := domain.NewScanEvent(domain.ScanParams{RawData: "  ", ScannedAt: scannedAt})

		require.NoError(t, err)
		assert.Equal(t, domain.DataTypeText, event.DataType)
	})
}

func TestScanEvent_JSONOmitsMissingEnrichment(t *testing.T) {
	event, err := domain.NewScanEvent(domain.ScanParams{RawData: "hello", ScannedAt: time.Now()})
	require.NoError(t, err)

	data, err := json.Marshal(event)
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(data, &fields))
	assert.NotContains(t, fields, "enrichment")
	assert.Equal(t, "Text", fields["dataType"])
}

func TestDeliveryReport_Failed(t *testing.T) {
	assert.Equal(t, 1, domain.DeliveryReport{Attempted: 3, Succeeded: 2}.Failed())
	assert.Equal(t, 0, domain.DeliveryReport{}.Failed())
}

func TestNewScanMessage(t *testing.T) {
	event := domain.ScanEvent{RawData: "x", DeviceID: "d", DataType: domain.DataTypeText}

	data, err := json.Marshal(domain.NewScanMessage(event))
	require.NoError(t, err)

	assert.JSONEq(t,
		`{"type":"scan-event","payload":{"rawData":"x","deviceId":"d","timestamp":"","dataType":"Text"}}`,
		string(data),
	)
}
