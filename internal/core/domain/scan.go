package domain

import (
	"time"

	apperrors "github.com/lorrc/scan-relay/internal/core/errors"
)

// DefaultDeviceID is used when a submission does not identify its scanner.
const DefaultDeviceID = "unknown"

// ScanEvent is the assembled result of a scan submission. It is built once
// by NewScanEvent and must not be modified afterwards.
type ScanEvent struct {
	RawData    string    `json:"rawData"`
	DeviceID   string    `json:"deviceId"`
	Timestamp  string    `json:"timestamp"`
	DataType   DataType  `json:"dataType"`
	Enrichment *Employee `json:"enrichment,omitempty"`
}

// ScanParams holds the inputs needed to assemble a scan event.
type ScanParams struct {
	RawData    string
	DeviceID   string
	ScannedAt  time.Time
	Enrichment *Employee
}

// NewScanEvent validates the params and assembles an immutable ScanEvent.
func NewScanEvent(params ScanParams) (ScanEvent, error) {
	if params.RawData == "" {
		return ScanEvent{}, apperrors.ErrRawDataRequired
	}

	deviceID := params.DeviceID
	if deviceID == "" {
		deviceID = DefaultDeviceID
	}

	return ScanEvent{
		RawData:    params.RawData,
		DeviceID:   deviceID,
		Timestamp:  FormatTimestamp(params.ScannedAt),
		DataType:   Classify(params.RawData),
		Enrichment: params.Enrichment,
	}, nil
}

// FormatTimestamp renders t as an ISO-8601 UTC timestamp with a Z suffix.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// DeliveryReport summarizes one broadcast pass. It is used for
// observability only.
type DeliveryReport struct {
	Attempted int `json:"attempted"`
	Succeeded int `json:"succeeded"`
}

// Failed returns the number of sessions the event could not be delivered to.
func (r DeliveryReport) Failed() int {
	return r.Attempted - r.Succeeded
}
