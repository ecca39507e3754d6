package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/lorrc/scan-relay/internal/adapters/primary/validation"
	"github.com/lorrc/scan-relay/internal/core/domain"
	"github.com/lorrc/scan-relay/internal/core/ports"
	"github.com/lorrc/scan-relay/internal/infrastructure/logging"
)

// rawData is bounded only by validation.MaxBodyBytes.
const maxDeviceIDLength = 128

// ScanHandler handles scan submissions from scanning devices
type ScanHandler struct {
	scanService  ports.ScanService
	errorHandler *ErrorHandler
	logger       *slog.Logger
}

// NewScanHandler creates a new scan handler
func NewScanHandler(
	scanService ports.ScanService,
	errorHandler *ErrorHandler,
	logger *slog.Logger,
) *ScanHandler {
	return &ScanHandler{
		scanService:  scanService,
		errorHandler: errorHandler,
		logger:       logger.With("handler", "scan"),
	}
}

// RegisterRoutes mounts the ingestion endpoint on r.
func (h *ScanHandler) RegisterRoutes(r chi.Router) {
	r.Post("/", h.HandleIngest)
}

// ScanRequest is the body posted by a scanning device. The snake_case
// fields are accepted from older scanner firmware.
type ScanRequest struct {
	RawData  string `json:"rawData"`
	DeviceID string `json:"deviceId"`

	LegacyRawData  string `json:"qr_data"`
	LegacyDeviceID string `json:"device_id"`
}

func (req *ScanRequest) normalize() {
	if req.RawData == "" {
		req.RawData = req.LegacyRawData
	}
	if req.DeviceID == "" {
		req.DeviceID = req.LegacyDeviceID
	}
}

// HandleIngest accepts a raw scan, enriches it and relays it to viewers.
func (h *ScanHandler) HandleIngest(w http.ResponseWriter, r *http.Request) {
	req, err := validation.DecodeJSON[ScanRequest](w, r)
	if HandleError(w, r, err, h.errorHandler) {
		return
	}
	req.normalize()

	v := validation.NewValidator().
		MaxLength("deviceId", req.DeviceID, maxDeviceIDLength)
	if HandleError(w, r, v.Err(), h.errorHandler) {
		return
	}

	deviceID := req.DeviceID
	if deviceID == "" {
		deviceID = domain.DefaultDeviceID
	}
	ctx := logging.WithDeviceID(r.Context(), deviceID)

	event, err := h.scanService.Ingest(ctx, ports.IngestScanParams{
		RawData:  req.RawData,
		DeviceID: req.DeviceID,
	})
	if HandleError(w, r.WithContext(ctx), err, h.errorHandler) {
		return
	}

	h.logger.InfoContext(ctx, "scan accepted",
		"data_type", event.DataType,
		"enriched", event.Enrichment != nil,
	)

	WriteJSON(w, http.StatusOK, ScanResponse{Success: true, ScanResult: event})
}
