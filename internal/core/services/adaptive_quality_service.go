package services

import (
	"context"
	"time"

	"framecast/internal/core/ports"
	"framecast/pkg/format"

	"go.uber.org/zap"
)

// AdaptiveQualityService is the control loop joining the bandwidth
// monitor to the quality state machine: on every tick it feeds the
// current throughput estimate into the state machine, which in turn
// notifies observers when the quality level moves.
type AdaptiveQualityService struct {
	estimator ports.BandwidthEstimator
	machine   *QualityStateMachine
	logger    *zap.SugaredLogger

	updateInterval time.Duration
}

// NewAdaptiveQualityService creates the control loop. The interval
// controls how often the state machine sees a fresh estimate.
func NewAdaptiveQualityService(
	estimator ports.BandwidthEstimator,
	machine *QualityStateMachine,
	updateInterval time.Duration,
	logger *zap.SugaredLogger,
) *AdaptiveQualityService {
	if updateInterval <= 0 {
		updateInterval = 2 * time.Second
	}
	return &AdaptiveQualityService{
		estimator:      estimator,
		machine:        machine,
		logger:         logger,
		updateInterval: updateInterval,
	}
}

// Run drives the control loop until the context is cancelled. Callers
// own the goroutine; the service spawns none of its own.
func (s *AdaptiveQualityService) Run(ctx context.Context) {
	ticker := time.NewTicker(s.updateInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Tick()
		}
	}
}

// Tick performs a single estimate-and-update step.
func (s *AdaptiveQualityService) Tick() {
	bandwidth := s.estimator.Estimate()
	s.machine.Update(bandwidth)

	if s.logger != nil {
		s.logger.Debugw("throughput sampled",
			"throughput", format.Throughput(bandwidth),
			"bytes_per_second", bandwidth,
			"quality_index", s.machine.CurrentLevel().Index,
		)
	}
}
