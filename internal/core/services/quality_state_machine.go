package services

import (
	"sync"

	"framecast/internal/core/domain"
	"framecast/internal/core/ports"

	"go.uber.org/zap"
)

// QualityStateMachine selects the active quality level from the ladder
// based on throughput samples. Transitions move at most one level per
// update: the machine demotes when throughput drops below the current
// level's bandwidth and promotes only once throughput reaches double it,
// so the level does not oscillate around a boundary value.
//
// All observers register before streaming starts and are invoked
// synchronously, in registration order, under the state lock, so a
// notification never interleaves with a state transition.
type QualityStateMachine struct {
	mu        sync.Mutex
	ladder    []domain.QualityLevel
	current   int
	observers []ports.QualityObserver
	logger    *zap.SugaredLogger
}

// NewQualityStateMachine creates a state machine positioned at the lowest
// quality level of the given ladder.
func NewQualityStateMachine(ladder []domain.QualityLevel, logger *zap.SugaredLogger) (*QualityStateMachine, error) {
	if len(ladder) == 0 {
		return nil, domain.ErrEmptyLadder
	}
	return &QualityStateMachine{
		ladder: ladder,
		logger: logger,
	}, nil
}

// RegisterObserver appends an observer to the notification list. There is
// no deduplication and no unregistration; the list lives as long as the
// process.
func (sm *QualityStateMachine) RegisterObserver(observer ports.QualityObserver) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.observers = append(sm.observers, observer)
}

// Update applies one hysteresis step for the given throughput estimate in
// bytes per second. Negative or zero values are valid and drive demotion
// toward the floor. Observers are notified only when the level actually
// changed.
func (sm *QualityStateMachine) Update(bandwidth int) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	previous := sm.current
	threshold := sm.ladder[sm.current].Bandwidth

	switch {
	case bandwidth < threshold:
		if sm.current > 0 {
			sm.current--
		}
	case bandwidth >= 2*threshold:
		if sm.current < len(sm.ladder)-1 {
			sm.current++
		}
	}

	if sm.current == previous {
		return
	}

	level := sm.ladder[sm.current]
	if sm.logger != nil {
		sm.logger.Infow("quality level changed",
			"from", previous,
			"to", level.Index,
			"bandwidth", bandwidth,
			"level_bandwidth", level.Bandwidth,
			"profile", level.Profile.Resolution.String(),
		)
	}
	for _, observer := range sm.observers {
		observer.OnQualityChange(level)
	}
}

// CurrentLevel returns the active quality level.
func (sm *QualityStateMachine) CurrentLevel() domain.QualityLevel {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return sm.ladder[sm.current]
}

// Ladder returns the immutable quality ladder the machine indexes into.
func (sm *QualityStateMachine) Ladder() []domain.QualityLevel {
	return sm.ladder
}
