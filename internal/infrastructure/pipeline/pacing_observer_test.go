package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"framecast/internal/core/domain"
)

type pacingCapture struct {
	stubCapture
	fps int
}

func (p *pacingCapture) SetFrameRate(fps int) { p.fps = fps }

func TestPacingObserver_RetargetsFrameRate(t *testing.T) {
	capture := &pacingCapture{}
	observer := NewPacingObserver(capture)

	observer.OnQualityChange(domain.QualityLevel{
		Profile: domain.EncodingProfile{FrameRate: 24},
	})

	assert.Equal(t, 24, capture.fps)
}

func TestPacingObserver_IgnoresFixedRateStrategies(t *testing.T) {
	observer := NewPacingObserver(&stubCapture{})

	// must not panic on a strategy without runtime pacing
	observer.OnQualityChange(domain.QualityLevel{
		Profile: domain.EncodingProfile{FrameRate: 30},
	})
}
