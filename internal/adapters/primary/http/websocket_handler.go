package http

import (
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/gorilla/websocket"
	wsAdapter "github.com/lorrc/scan-relay/internal/adapters/primary/websocket"
	"github.com/lorrc/scan-relay/internal/core/domain"
	"github.com/lorrc/scan-relay/internal/infrastructure/logging"
)

// ConnectedMessage is the status sent to every viewer once it is registered
const ConnectedMessage = "Connected to scan relay"

// WebSocketHandler handles WebSocket connection upgrades
type WebSocketHandler struct {
	registry *wsAdapter.Registry
	client   wsAdapter.ClientConfig
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

// WebSocketConfig holds configuration for the WebSocket handler
type WebSocketConfig struct {
	AllowedOrigins  []string
	ReadBufferSize  int
	WriteBufferSize int
	IsDevelopment   bool
	Client          wsAdapter.ClientConfig
}

// NewWebSocketHandler creates a new WebSocket handler. Viewer authentication,
// when enabled, is done by middleware in front of it.
func NewWebSocketHandler(
	registry *wsAdapter.Registry,
	cfg WebSocketConfig,
	logger *slog.Logger,
) *WebSocketHandler {
	handler := &WebSocketHandler{
		registry: registry,
		client:   cfg.Client,
		logger:   logger.With("handler", "websocket"),
	}

	handler.upgrader = websocket.Upgrader{
		ReadBufferSize:  cfg.ReadBufferSize,
		WriteBufferSize: cfg.WriteBufferSize,
		CheckOrigin:     handler.makeOriginChecker(cfg),
	}

	return handler
}

// makeOriginChecker creates an origin checking function based on configuration
func (h *WebSocketHandler) makeOriginChecker(cfg WebSocketConfig) func(r *http.Request) bool {
	allowedOrigins := cfg.AllowedOrigins

	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")

		// No origin header (same-origin request or non-browser client)
		if origin == "" {
			return true
		}

		// In development mode with nothing configured, allow all origins
		if cfg.IsDevelopment && len(allowedOrigins) == 0 {
			h.logger.Debug("allowing websocket connection in development mode",
				"origin", origin,
				"remote_addr", r.RemoteAddr,
			)
			return true
		}

		parsedOrigin, err := url.Parse(origin)
		if err != nil {
			h.logger.Warn("failed to parse websocket origin",
				"origin", origin,
				"error", err,
			)
			return false
		}

		if originAllowed(parsedOrigin, allowedOrigins) {
			return true
		}

		h.logger.Warn("websocket connection rejected due to origin",
			"origin", origin,
			"remote_addr", r.RemoteAddr,
			"allowed_origins", allowedOrigins,
		)
		return false
	}
}

// originAllowed matches an origin against host patterns. Entries may be a
// bare host, a full origin URL, "*.example.com" or "*".
func originAllowed(origin *url.URL, allowed []string) bool {
	originHost := origin.Host

	for _, entry := range allowed {
		switch {
		case entry == "*":
			return true
		case strings.HasPrefix(entry, "*."):
			suffix := entry[1:] // keep ".example.com"
			if strings.HasSuffix(originHost, suffix) || originHost == entry[2:] {
				return true
			}
		case strings.Contains(entry, "://"):
			if u, err := url.Parse(entry); err == nil && u.Scheme == origin.Scheme && u.Host == originHost {
				return true
			}
		case originHost == entry:
			return true
		}
	}
	return false
}

// ServeHTTP handles WebSocket connection requests
func (h *WebSocketHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	// 1. Upgrade the connection
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// The upgrader has already written the HTTP error
		h.logger.WarnContext(ctx, "failed to upgrade websocket connection",
			"remote_addr", r.RemoteAddr,
			"error", err,
		)
		return
	}

	// 2. Create the session and queue the connection acknowledgement ahead
	// of any scan event
	// The pumps outlive the request, so bind its IDs to the session logger
	client := wsAdapter.NewClient(h.registry, conn, h.client, logging.LoggerFromContext(ctx, h.logger))
	if err := client.DeliverMessage(domain.NewStatusMessage(ConnectedMessage)); err != nil {
		h.logger.ErrorContext(ctx, "failed to queue connection status", "error", err)
		client.Close()
		_ = conn.Close()
		return
	}

	// 3. Register and start the I/O pumps
	h.registry.Register(client)

	h.logger.InfoContext(ctx, "websocket connection established",
		"session_id", client.ID(),
		"remote_addr", r.RemoteAddr,
	)

	go client.WritePump()
	go client.ReadPump()
}
