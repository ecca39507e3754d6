package http

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/lorrc/scan-relay/internal/adapters/primary/validation"
	"github.com/lorrc/scan-relay/internal/core/domain"
	"github.com/lorrc/scan-relay/internal/core/ports"
)

// LookupHandler resolves a hash key directly, without relaying anything
type LookupHandler struct {
	lookupService ports.LookupService
	errorHandler  *ErrorHandler
	logger        *slog.Logger
	now           func() time.Time
}

// NewLookupHandler creates a new lookup handler
func NewLookupHandler(
	lookupService ports.LookupService,
	errorHandler *ErrorHandler,
	logger *slog.Logger,
) *LookupHandler {
	return &LookupHandler{
		lookupService: lookupService,
		errorHandler:  errorHandler,
		logger:        logger.With("handler", "lookup"),
		now:           time.Now,
	}
}

// RegisterRoutes mounts the lookup endpoint on r.
func (h *LookupHandler) RegisterRoutes(r chi.Router) {
	r.Post("/", h.HandleLookup)
}

// LookupRequest carries the key to resolve. emp_hash is the legacy name.
type LookupRequest struct {
	HashKey       string `json:"hashKey"`
	LegacyHashKey string `json:"emp_hash"`
}

// HandleLookup returns the employee record for a hash key
func (h *LookupHandler) HandleLookup(w http.ResponseWriter, r *http.Request) {
	hashKey, err := h.readHashKey(w, r)
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	employee, err := h.lookupService.FindByHashKey(r.Context(), hashKey)
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	WriteJSON(w, http.StatusOK, LookupResponse{
		Success:   true,
		Employee:  employee,
		CheckedAt: domain.FormatTimestamp(h.now()),
	})
}

// readHashKey accepts either a JSON or a form-encoded body
func (h *LookupHandler) readHashKey(w http.ResponseWriter, r *http.Request) (string, error) {
	if validation.IsForm(r) {
		return validation.FormValue(w, r, "hashKey", "emp_hash")
	}

	req, err := validation.DecodeJSON[LookupRequest](w, r)
	if err != nil {
		return "", err
	}
	if key := strings.TrimSpace(req.HashKey); key != "" {
		return key, nil
	}
	return strings.TrimSpace(req.LegacyHashKey), nil
}
