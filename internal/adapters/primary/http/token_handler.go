package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/lorrc/scan-relay/internal/auth"
	"github.com/lorrc/scan-relay/internal/core/domain"
	apperrors "github.com/lorrc/scan-relay/internal/core/errors"
)

// TokenHandler issues viewer tokens for the live session channel
type TokenHandler struct {
	tm           *auth.TokenManager
	errorHandler *ErrorHandler
	logger       *slog.Logger
}

// NewTokenHandler creates a new token handler
func NewTokenHandler(tm *auth.TokenManager, errorHandler *ErrorHandler, logger *slog.Logger) *TokenHandler {
	return &TokenHandler{
		tm:           tm,
		errorHandler: errorHandler,
		logger:       logger.With("handler", "viewer_token"),
	}
}

// RegisterRoutes mounts the token endpoint on r.
func (h *TokenHandler) RegisterRoutes(r chi.Router) {
	r.Post("/", h.HandleIssue)
}

// HandleIssue mints a token for a new viewer
func (h *TokenHandler) HandleIssue(w http.ResponseWriter, r *http.Request) {
	viewerID := uuid.New()

	token, expiresAt, err := h.tm.GenerateToken(viewerID)
	if err != nil {
		h.errorHandler.Handle(w, r, apperrors.NewInternalError(err))
		return
	}

	h.logger.InfoContext(r.Context(), "viewer token issued", "viewer_id", viewerID)

	WriteJSON(w, http.StatusCreated, ViewerTokenResponse{
		Success:   true,
		Token:     token,
		ViewerID:  viewerID.String(),
		ExpiresAt: domain.FormatTimestamp(expiresAt),
	})
}
