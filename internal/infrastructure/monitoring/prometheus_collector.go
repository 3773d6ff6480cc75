package monitoring

import (
	"framecast/internal/core/domain"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PrometheusCollector exposes pipeline and session metrics. The same
// collector type serves both binaries: the client populates the capture
// side, the server the ingest side.
type PrometheusCollector struct {
	framesTotal *prometheus.CounterVec
	bytesTotal  *prometheus.CounterVec

	throughput   *prometheus.GaugeVec
	viewerCount  *prometheus.GaugeVec
	qualityLevel prometheus.Gauge

	encodeDuration prometheus.Histogram
}

func NewPrometheusCollector() *PrometheusCollector {
	return &PrometheusCollector{
		framesTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "framecast_frames_total",
			Help: "Total number of frames transferred",
		}, []string{"direction", "session_id"}),

		bytesTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "framecast_bytes_total",
			Help: "Total number of payload bytes transferred",
		}, []string{"direction", "session_id"}),

		throughput: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name: "framecast_throughput_bytes_per_second",
			Help: "Current estimated throughput per session",
		}, []string{"session_id"}),

		viewerCount: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name: "framecast_session_viewers",
			Help: "Number of viewers attached to each session",
		}, []string{"session_id"}),

		qualityLevel: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "framecast_quality_level",
			Help: "Index of the active quality level",
		}),

		encodeDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "framecast_encode_duration_seconds",
			Help:    "Time spent encoding one frame",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
		}),
	}
}

func (c *PrometheusCollector) RecordFrameSent(sessionID domain.SessionID, size int) {
	c.framesTotal.WithLabelValues("sent", string(sessionID)).Inc()
	c.bytesTotal.WithLabelValues("sent", string(sessionID)).Add(float64(size))
}

func (c *PrometheusCollector) RecordFrameReceived(sessionID domain.SessionID, size int) {
	c.framesTotal.WithLabelValues("received", string(sessionID)).Inc()
	c.bytesTotal.WithLabelValues("received", string(sessionID)).Add(float64(size))
}

func (c *PrometheusCollector) SetThroughput(sessionID domain.SessionID, bytesPerSecond int) {
	c.throughput.WithLabelValues(string(sessionID)).Set(float64(bytesPerSecond))
}

func (c *PrometheusCollector) SetViewerCount(sessionID domain.SessionID, viewers int) {
	c.viewerCount.WithLabelValues(string(sessionID)).Set(float64(viewers))
}

func (c *PrometheusCollector) ObserveEncodeDuration(seconds float64) {
	c.encodeDuration.Observe(seconds)
}

// RemoveSession drops per-session series once a session closes.
func (c *PrometheusCollector) RemoveSession(sessionID domain.SessionID) {
	labels := prometheus.Labels{"session_id": string(sessionID)}
	c.throughput.Delete(labels)
	c.viewerCount.Delete(labels)
}

// OnQualityChange implements ports.QualityObserver so the active level is
// visible in metrics.
func (c *PrometheusCollector) OnQualityChange(level domain.QualityLevel) {
	c.qualityLevel.Set(float64(level.Index))
}
