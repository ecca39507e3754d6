package ports

import (
	"context"

	"github.com/lorrc/scan-relay/internal/core/domain"
)

// IngestScanParams defines the input for a scan submission.
type IngestScanParams struct {
	RawData  string
	DeviceID string
}

// ScanService defines the port for the scan ingestion pipeline.
type ScanService interface {
	Ingest(ctx context.Context, params IngestScanParams) (*domain.ScanEvent, error)
	Shutdown()
}

// LookupService defines the port for enrichment lookups.
type LookupService interface {
	// Lookup never fails: store errors and misses both return nil.
	Lookup(ctx context.Context, hashKey string) *domain.Employee
	// FindByHashKey is the strict variant used when the caller already
	// knows the key and needs to tell "not found" from a store failure.
	FindByHashKey(ctx context.Context, hashKey string) (*domain.Employee, error)
}

// EventBroadcaster defines the port for fanning scan events out to viewers.
type EventBroadcaster interface {
	Broadcast(ctx context.Context, event domain.ScanEvent) domain.DeliveryReport
}
