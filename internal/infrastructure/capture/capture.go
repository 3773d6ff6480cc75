package capture

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"sync/atomic"

	"golang.org/x/time/rate"
)

// PatternStrategy is the in-tree capture backend: it synthesizes a moving
// gradient at monitor resolution. Real screen grabbers plug in behind the
// same interface.
type PatternStrategy struct {
	width   int
	height  int
	limiter *rate.Limiter
	frame   atomic.Uint64
}

// NewPatternStrategy creates a synthetic capture source paced at the
// given frame rate.
func NewPatternStrategy(width, height, fps int) *PatternStrategy {
	if fps <= 0 {
		fps = 30
	}
	return &PatternStrategy{
		width:   width,
		height:  height,
		limiter: rate.NewLimiter(rate.Limit(fps), 1),
	}
}

// Capture blocks until the next frame is due, then renders it.
func (s *PatternStrategy) Capture(ctx context.Context) (image.Image, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("frame pacing interrupted: %w", err)
	}

	n := s.frame.Add(1)
	img := image.NewRGBA(image.Rect(0, 0, s.width, s.height))
	shift := uint8(n % 256)
	for y := 0; y < s.height; y++ {
		for x := 0; x < s.width; x++ {
			img.SetRGBA(x, y, color.RGBA{
				R: uint8(x) + shift,
				G: uint8(y) + shift,
				B: uint8(x+y) - shift,
				A: 255,
			})
		}
	}
	return img, nil
}

func (s *PatternStrategy) MonitorWidth() int  { return s.width }
func (s *PatternStrategy) MonitorHeight() int { return s.height }

func (s *PatternStrategy) Close() error { return nil }

// SetFrameRate retargets the capture pacing, used when the active quality
// level changes.
func (s *PatternStrategy) SetFrameRate(fps int) {
	if fps > 0 {
		s.limiter.SetLimit(rate.Limit(fps))
	}
}
