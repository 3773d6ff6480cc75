package encoder

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"sync"
	"sync/atomic"
	"time"

	"framecast/internal/core/domain"

	"go.uber.org/zap"
	"golang.org/x/image/draw"
)

// JPEGEncoder scales captured frames to the active encoding profile and
// compresses them as JPEG. It is the canonical consumer of quality-change
// notifications: on a level change it adopts the level's resolution and
// a compression quality derived from the level's color depth.
type JPEGEncoder struct {
	mu      sync.RWMutex
	profile domain.EncodingProfile
	quality int

	sessionID domain.SessionID
	sequence  atomic.Uint64
	logger    *zap.SugaredLogger
}

// NewJPEGEncoder creates an encoder targeting the given initial profile.
func NewJPEGEncoder(sessionID domain.SessionID, initial domain.EncodingProfile, logger *zap.SugaredLogger) *JPEGEncoder {
	return &JPEGEncoder{
		profile:   initial,
		quality:   qualityForDepth(initial.ColorDepth),
		sessionID: sessionID,
		logger:    logger,
	}
}

// Encode scales img to the active profile's resolution and compresses it.
func (e *JPEGEncoder) Encode(img image.Image) (*domain.Frame, error) {
	e.mu.RLock()
	profile := e.profile
	quality := e.quality
	e.mu.RUnlock()

	scaled := img
	target := profile.Resolution
	if bounds := img.Bounds(); bounds.Dx() != target.Width || bounds.Dy() != target.Height {
		dst := image.NewRGBA(image.Rect(0, 0, target.Width, target.Height))
		draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, bounds, draw.Src, nil)
		scaled = dst
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, scaled, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("jpeg encode: %w", err)
	}

	return &domain.Frame{
		Sequence:   e.sequence.Add(1),
		SessionID:  e.sessionID,
		Resolution: target,
		CapturedAt: time.Now(),
		Payload:    buf.Bytes(),
	}, nil
}

// OnQualityChange implements ports.QualityObserver.
func (e *JPEGEncoder) OnQualityChange(level domain.QualityLevel) {
	e.mu.Lock()
	e.profile = level.Profile
	e.quality = qualityForDepth(level.Profile.ColorDepth)
	e.mu.Unlock()

	if e.logger != nil {
		e.logger.Infow("encoder reconfigured",
			"resolution", level.Profile.Resolution.String(),
			"fps", level.Profile.FrameRate,
			"jpeg_quality", qualityForDepth(level.Profile.ColorDepth),
		)
	}
}

// Profile returns the active encoding profile.
func (e *JPEGEncoder) Profile() domain.EncodingProfile {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.profile
}

// qualityForDepth maps a ladder color depth to a JPEG quality setting.
func qualityForDepth(depth int) int {
	switch {
	case depth <= 16:
		return 60
	case depth <= 24:
		return 75
	default:
		return 85
	}
}
