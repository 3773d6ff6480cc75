package http

import (
	"net/http"
	"time"

	"framecast/internal/core/domain"
	"framecast/internal/infrastructure/sessions"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// WatchHandler streams a session's frames out to viewers over websocket.
// A viewer that cannot keep up sees frames skipped rather than stalling
// the ingest path.
type WatchHandler struct {
	registry *sessions.Registry
	logger   *zap.SugaredLogger

	writeTimeout time.Duration
	pingInterval time.Duration
	viewerBuffer int
}

func NewWatchHandler(registry *sessions.Registry, writeTimeout time.Duration, logger *zap.SugaredLogger) *WatchHandler {
	if writeTimeout <= 0 {
		writeTimeout = 10 * time.Second
	}
	return &WatchHandler{
		registry:     registry,
		logger:       logger,
		writeTimeout: writeTimeout,
		pingInterval: 30 * time.Second,
		viewerBuffer: 8,
	}
}

func (h *WatchHandler) SetupRoutes(group *gin.RouterGroup) {
	group.GET("/watch/:id", h.HandleWatch)
}

func (h *WatchHandler) HandleWatch(c *gin.Context) {
	sessionID := domain.SessionID(c.Param("id"))
	state, err := h.registry.Get(sessionID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Errorw("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	viewerID := domain.ClientID(uuid.NewString())
	frames := state.AddViewer(viewerID, h.viewerBuffer)
	defer state.RemoveViewer(viewerID)
	h.logger.Infow("viewer attached", "session_id", sessionID, "viewer_id", viewerID)

	// reader goroutine drains control frames and detects disconnects
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	pings := time.NewTicker(h.pingInterval)
	defer pings.Stop()

	for {
		select {
		case <-done:
			return
		case message, ok := <-frames:
			if !ok {
				conn.WriteControl(
					websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "session closed"),
					time.Now().Add(time.Second),
				)
				return
			}
			conn.SetWriteDeadline(time.Now().Add(h.writeTimeout))
			if err := conn.WriteMessage(websocket.BinaryMessage, message); err != nil {
				h.logger.Debugw("viewer write failed", "viewer_id", viewerID, "error", err)
				return
			}
		case <-pings.C:
			conn.SetWriteDeadline(time.Now().Add(h.writeTimeout))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
