package ports

import (
	"context"
	"image"

	"framecast/internal/core/domain"
)

// BandwidthEstimator tracks transferred bytes and reports the current
// throughput over a sliding time window.
type BandwidthEstimator interface {
	Record(bytes int)
	Estimate() int
}

// QualityObserver is notified synchronously whenever the quality state
// machine settles on a new level.
type QualityObserver interface {
	OnQualityChange(level domain.QualityLevel)
}

// CaptureStrategy produces raw frames from a display source. Capture
// blocks until the next frame is due according to the strategy's pacing.
type CaptureStrategy interface {
	Capture(ctx context.Context) (image.Image, error)
	MonitorWidth() int
	MonitorHeight() int
	Close() error
}

// FrameEncoder turns a raw captured image into an encoded payload sized
// for the currently configured quality level.
type FrameEncoder interface {
	Encode(img image.Image) (*domain.Frame, error)
}

// FrameWriter delivers encoded frames to the remote end.
type FrameWriter interface {
	WriteFrame(ctx context.Context, frame *domain.Frame) error
	Close() error
}

// SessionRegistry is the read surface the stats API uses to enumerate
// live ingest sessions.
type SessionRegistry interface {
	List() []*domain.Session
	Stats(id domain.SessionID) (*domain.SessionStats, error)
}
