package http

import (
	"net/http"
	"time"

	"framecast/internal/core/domain"
	"framecast/internal/infrastructure/monitoring"
	"framecast/internal/infrastructure/sessions"
	"framecast/internal/infrastructure/transport"
	"framecast/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // origin policy is enforced by token auth
	},
	ReadBufferSize:  32 * 1024,
	WriteBufferSize: 32 * 1024,
}

// IngestHandler accepts one websocket connection per streaming client,
// reads frame messages, accounts them against the session's bandwidth
// monitor and fans them out to attached viewers.
type IngestHandler struct {
	registry  *sessions.Registry
	collector *monitoring.PrometheusCollector
	logger    *zap.SugaredLogger

	readTimeout   time.Duration
	maxFrameBytes int64
}

func NewIngestHandler(
	registry *sessions.Registry,
	collector *monitoring.PrometheusCollector,
	readTimeout time.Duration,
	maxFrameBytes int64,
	logger *zap.SugaredLogger,
) *IngestHandler {
	if readTimeout <= 0 {
		readTimeout = 60 * time.Second
	}
	if maxFrameBytes <= 0 {
		maxFrameBytes = 16 * 1024 * 1024
	}
	return &IngestHandler{
		registry:      registry,
		collector:     collector,
		logger:        logger,
		readTimeout:   readTimeout,
		maxFrameBytes: maxFrameBytes,
	}
}

func (h *IngestHandler) SetupRoutes(group *gin.RouterGroup) {
	group.GET("/ingest", h.HandleIngest)
}

func (h *IngestHandler) HandleIngest(c *gin.Context) {
	clientName := c.GetString("client_name")
	if clientName == "" {
		clientName = c.GetHeader("X-Client-Name")
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Errorw("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()
	conn.SetReadLimit(h.maxFrameBytes)

	session := &domain.Session{
		ID:         domain.SessionID(uuid.NewString()),
		ClientName: clientName,
		RemoteAddr: c.ClientIP(),
		StartedAt:  time.Now(),
	}
	state, err := h.registry.Open(session)
	if err != nil {
		h.logger.Errorw("session open failed", "error", err)
		return
	}
	defer h.registry.Close(session.ID)
	defer h.collector.RemoveSession(session.ID)

	ctx, span := tracing.TraceIngestSession(c.Request.Context(), string(session.ID), clientName)
	defer span.End()

	for {
		conn.SetReadDeadline(time.Now().Add(h.readTimeout))
		messageType, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.logger.Warnw("ingest read failed", "session_id", session.ID, "error", err)
			}
			break
		}
		if messageType != websocket.BinaryMessage {
			continue
		}

		frame, err := transport.UnmarshalFrame(message)
		if err != nil {
			h.logger.Warnw("bad frame message", "session_id", session.ID, "error", err)
			continue
		}

		state.RecordFrame(len(message))
		h.collector.RecordFrameReceived(session.ID, frame.Size())
		h.collector.SetThroughput(session.ID, state.Monitor.Estimate())
		h.collector.SetViewerCount(session.ID, state.ViewerCount())
		state.Broadcast(message)
	}

	stats, err := h.registry.Stats(session.ID)
	if err == nil {
		tracing.AddSpanAttributes(ctx,
			tracing.FramesKey.Int64(int64(stats.FramesReceived)),
			tracing.BytesKey.Int64(int64(stats.BytesReceived)),
			tracing.ThroughputKey.Int(stats.Throughput),
		)
		h.logger.Infow("ingest session finished",
			"session_id", session.ID,
			"frames", stats.FramesReceived,
			"bytes", stats.BytesReceived,
			"throughput", stats.ThroughputHuman,
		)
	}
}
