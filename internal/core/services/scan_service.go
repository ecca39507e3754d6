package services

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/lorrc/scan-relay/internal/core/domain"
	"github.com/lorrc/scan-relay/internal/core/ports"
	"github.com/lorrc/scan-relay/internal/infrastructure/metrics"
)

// ScanService turns scan submissions into broadcast scan events.
type ScanService struct {
	lookup      ports.LookupService
	broadcaster ports.EventBroadcaster
	metrics     *metrics.Metrics
	logger      *slog.Logger
	now         func() time.Time

	// wg tracks in-flight broadcasts so Shutdown can drain them.
	// mu guards closing and orders wg.Add before wg.Wait.
	mu      sync.Mutex
	closing bool
	wg      sync.WaitGroup
}

var _ ports.ScanService = (*ScanService)(nil)

// NewScanService creates a new ScanService.
func NewScanService(
	lookup ports.LookupService,
	broadcaster ports.EventBroadcaster,
	m *metrics.Metrics,
	logger *slog.Logger,
) *ScanService {
	return &ScanService{
		lookup:      lookup,
		broadcaster: broadcaster,
		metrics:     m,
		logger:      logger.With("component", "scan_service"),
		now:         time.Now,
	}
}

// Ingest classifies and enriches a scan, hands it to the broadcaster without
// waiting for delivery, and returns the assembled event.
func (s *ScanService) Ingest(ctx context.Context, params ports.IngestScanParams) (*domain.ScanEvent, error) {
	// 1. Enrich when the raw data could plausibly be a hash key
	var enrichment *domain.Employee
	if params.RawData != "" && domain.LooksLikeHashKey(params.RawData) {
		enrichment = s.lookup.Lookup(ctx, params.RawData)
	}

	// 2. Assemble the immutable event
	event, err := domain.NewScanEvent(domain.ScanParams{
		RawData:    params.RawData,
		DeviceID:   params.DeviceID,
		ScannedAt:  s.now(),
		Enrichment: enrichment,
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncrementScan(string(event.DataType))

	// 3. Broadcast real-time event (async)
	s.broadcast(event)

	return &event, nil
}

// broadcast hands the event to the broadcaster on a tracked goroutine.
// Events ingested after Shutdown has begun are not broadcast.
func (s *ScanService) broadcast(event domain.ScanEvent) {
	s.mu.Lock()
	if s.closing {
		s.mu.Unlock()
		s.logger.Warn("shutting down, scan not broadcast", "device_id", event.DeviceID)
		return
	}
	s.wg.Add(1)
	s.mu.Unlock()

	go func() {
		defer s.wg.Done()
		// Use background context since the HTTP request may be done
		report := s.broadcaster.Broadcast(context.Background(), event)

		s.logger.Debug("scan broadcast",
			"device_id", event.DeviceID,
			"data_type", event.DataType,
			"attempted", report.Attempted,
			"succeeded", report.Succeeded,
		)
	}()
}

// Shutdown stops accepting broadcasts and waits for in-flight ones to finish.
func (s *ScanService) Shutdown() {
	s.mu.Lock()
	s.closing = true
	s.mu.Unlock()

	s.wg.Wait()
}
