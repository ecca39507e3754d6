package http

import (
	"encoding/json"
	"net/http"

	"github.com/lorrc/scan-relay/internal/core/domain"
)

// ScanResponse is returned once a scan has been accepted
type ScanResponse struct {
	Success    bool              `json:"success"`
	ScanResult *domain.ScanEvent `json:"scanResult"`
}

// LookupResponse is returned by the direct hash lookup
type LookupResponse struct {
	Success   bool             `json:"success"`
	Employee  *domain.Employee `json:"employee"`
	CheckedAt string           `json:"checkedAt"`
}

// ViewerTokenResponse carries a freshly issued viewer token
type ViewerTokenResponse struct {
	Success   bool   `json:"success"`
	Token     string `json:"token"`
	ViewerID  string `json:"viewerId"`
	ExpiresAt string `json:"expiresAt"`
}

// WriteJSON writes a JSON response with the given status code
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// The header is already sent, nothing useful can be done on failure
	_ = json.NewEncoder(w).Encode(v)
}
