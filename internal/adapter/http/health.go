package http

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// Pinger is the database handle health checks reach for.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type HealthHandler struct {
	db  Pinger
	log zerolog.Logger
}

// NewHealthHandler checks db on every call. A nil db reports only the process.
func NewHealthHandler(db Pinger, log zerolog.Logger) *HealthHandler {
	return &HealthHandler{db: db, log: log}
}

type health struct {
	Status   string `json:"status"`
	Database string `json:"database,omitempty"`
}

func (h *HealthHandler) Health(c echo.Context) error {
	out := health{Status: "ok"}
	if h.db == nil {
		return ok(c, http.StatusOK, out, "")
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()
	if err := h.db.PingContext(ctx); err != nil {
		h.log.Error().Err(err).Msg("health: database unreachable")
		out.Status, out.Database = "degraded", "unreachable"
		return c.JSON(http.StatusServiceUnavailable, envelope{Data: out, Message: "Database unreachable", Timestamp: stamp()})
	}
	out.Database = "ok"
	return ok(c, http.StatusOK, out, "")
}
