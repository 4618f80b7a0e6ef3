package handlers

import (
	"context"
	"net/http"
	"time"
)

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type HealthHandler struct {
	db      Pinger
	version string
}

func NewHealthHandler(db Pinger, version string) *HealthHandler {
	return &HealthHandler{db: db, version: version}
}

func (h *HealthHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status, database := http.StatusOK, "ok"
	if err := h.db.PingContext(ctx); err != nil {
		status, database = http.StatusServiceUnavailable, "unreachable"
	}
	respond(w, r, status, jsonResponse{"status": http.StatusText(status), "database": database, "version": h.version})
}
