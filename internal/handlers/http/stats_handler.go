package http

import (
	"net/http"
	"time"

	"framecast/internal/core/domain"
	"framecast/internal/core/ports"
	"framecast/pkg/errors"

	"github.com/gin-gonic/gin"
)

// StatsHandler exposes the read-only session API.
type StatsHandler struct {
	registry  ports.SessionRegistry
	startedAt time.Time
}

func NewStatsHandler(registry ports.SessionRegistry) *StatsHandler {
	return &StatsHandler{
		registry:  registry,
		startedAt: time.Now(),
	}
}

func (h *StatsHandler) SetupRoutes(router *gin.Engine, api *gin.RouterGroup) {
	router.GET("/healthz", h.Health)
	api.GET("/sessions", h.ListSessions)
	api.GET("/sessions/:id/stats", h.GetSessionStats)
}

func (h *StatsHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"uptime":   time.Since(h.startedAt).String(),
		"sessions": len(h.registry.List()),
	})
}

func (h *StatsHandler) ListSessions(c *gin.Context) {
	sessions := h.registry.List()
	out := make([]gin.H, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, gin.H{
			"id":          s.ID,
			"client_name": s.ClientName,
			"remote_addr": s.RemoteAddr,
			"started_at":  s.StartedAt,
		})
	}
	c.JSON(http.StatusOK, gin.H{"sessions": out})
}

func (h *StatsHandler) GetSessionStats(c *gin.Context) {
	sessionID := domain.SessionID(c.Param("id"))

	stats, err := h.registry.Stats(sessionID)
	if err != nil {
		if err == domain.ErrSessionNotFound {
			c.Error(errors.NewNotFoundError("session"))
			return
		}
		c.Error(errors.NewInternalError("failed to read session stats", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"session_id":       stats.SessionID,
		"frames_received":  stats.FramesReceived,
		"bytes_received":   stats.BytesReceived,
		"throughput_bps":   stats.Throughput,
		"throughput_human": stats.ThroughputHuman,
		"viewers":          stats.Viewers,
		"timestamp":        stats.Timestamp,
	})
}
