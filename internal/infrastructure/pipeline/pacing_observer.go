package pipeline

import (
	"framecast/internal/core/domain"
	"framecast/internal/core/ports"
)

// framePacer is implemented by capture strategies whose frame rate can be
// retargeted at runtime.
type framePacer interface {
	SetFrameRate(fps int)
}

// PacingObserver retargets capture pacing when the active quality level
// changes, keeping the capture rate in step with the encoder's profile.
type PacingObserver struct {
	pacer framePacer
}

// NewPacingObserver wraps a capture strategy. Strategies with a fixed
// frame rate yield a no-op observer.
func NewPacingObserver(strategy ports.CaptureStrategy) *PacingObserver {
	pacer, _ := strategy.(framePacer)
	return &PacingObserver{pacer: pacer}
}

// OnQualityChange implements ports.QualityObserver.
func (o *PacingObserver) OnQualityChange(level domain.QualityLevel) {
	if o.pacer != nil {
		o.pacer.SetFrameRate(level.Profile.FrameRate)
	}
}
