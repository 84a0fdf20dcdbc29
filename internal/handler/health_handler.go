package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/exam-platform/internal/response"
)

// Pinger is anything whose liveness can be checked (the pgx pool).
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler reports whether the datastore is reachable.
type HealthHandler struct {
	db Pinger
}

func NewHealthHandler(db Pinger) *HealthHandler {
	return &HealthHandler{db: db}
}

// Health godoc
// GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	if h.db != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := h.db.Ping(ctx); err != nil {
			zerolog.Ctx(c.Request.Context()).Warn().Err(err).Msg("health check: database unreachable")
			response.Fail(c, http.StatusServiceUnavailable, response.ErrUnavailable)
			return
		}
	}
	response.Success(c, http.StatusOK, gin.H{"status": "ok"})
}
