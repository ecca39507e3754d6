package http

import (
	"net/http"
)

// DashboardHandler serves the single-page viewer. The file is read on every
// request so it can be swapped without a restart.
type DashboardHandler struct {
	path string
}

// NewDashboardHandler creates a handler serving the file at path
func NewDashboardHandler(path string) *DashboardHandler {
	return &DashboardHandler{path: path}
}

func (h *DashboardHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.path == "" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Cache-Control", "no-cache")
	http.ServeFile(w, r, h.path)
}
