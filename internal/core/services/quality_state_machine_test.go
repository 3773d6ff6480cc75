package services

import (
	"testing"

	"framecast/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeLadder(bandwidths ...int) []domain.QualityLevel {
	ladder := make([]domain.QualityLevel, len(bandwidths))
	for i, bw := range bandwidths {
		ladder[i] = domain.QualityLevel{
			Index:     i,
			Bandwidth: bw,
			Profile: domain.EncodingProfile{
				Resolution: domain.Resolution{Width: 640 * (i + 1), Height: 360 * (i + 1)},
				FrameRate:  24,
				ColorDepth: 16,
			},
		}
	}
	return ladder
}

type recordingObserver struct {
	levels []domain.QualityLevel
}

func (o *recordingObserver) OnQualityChange(level domain.QualityLevel) {
	o.levels = append(o.levels, level)
}

func TestNewQualityStateMachine_EmptyLadder(t *testing.T) {
	_, err := NewQualityStateMachine(nil, nil)
	assert.ErrorIs(t, err, domain.ErrEmptyLadder)
}

func TestQualityStateMachine_StartsAtLowestLevel(t *testing.T) {
	sm, err := NewQualityStateMachine(makeLadder(100, 500, 2000), nil)
	require.NoError(t, err)
	assert.Equal(t, 0, sm.CurrentLevel().Index)
}

func TestQualityStateMachine_PromotionRequiresDoubleThreshold(t *testing.T) {
	sm, err := NewQualityStateMachine(makeLadder(100, 500, 2000), nil)
	require.NoError(t, err)

	// one below double: no promotion
	sm.Update(199)
	assert.Equal(t, 0, sm.CurrentLevel().Index)

	// exactly double: promotes
	sm.Update(200)
	assert.Equal(t, 1, sm.CurrentLevel().Index)
}

func TestQualityStateMachine_EqualThresholdDoesNotDemote(t *testing.T) {
	sm, err := NewQualityStateMachine(makeLadder(100, 500, 2000), nil)
	require.NoError(t, err)
	sm.Update(1000) // promote to 1

	sm.Update(500) // bw == v[1]
	assert.Equal(t, 1, sm.CurrentLevel().Index)

	sm.Update(499) // bw < v[1]
	assert.Equal(t, 0, sm.CurrentLevel().Index)
}

func TestQualityStateMachine_MovesAtMostOneLevelPerUpdate(t *testing.T) {
	sm, err := NewQualityStateMachine(makeLadder(100, 500, 2000), nil)
	require.NoError(t, err)

	sm.Update(1_000_000)
	assert.Equal(t, 1, sm.CurrentLevel().Index)

	sm.Update(-1_000_000)
	assert.Equal(t, 0, sm.CurrentLevel().Index)
}

func TestQualityStateMachine_ClampsAtFloorAndCeiling(t *testing.T) {
	sm, err := NewQualityStateMachine(makeLadder(100, 500), nil)
	require.NoError(t, err)

	sm.Update(0)
	sm.Update(-50)
	assert.Equal(t, 0, sm.CurrentLevel().Index)

	sm.Update(10_000)
	sm.Update(10_000)
	sm.Update(10_000)
	assert.Equal(t, 1, sm.CurrentLevel().Index)
}

func TestQualityStateMachine_NotifiesExactlyOncePerChange(t *testing.T) {
	sm, err := NewQualityStateMachine(makeLadder(100, 500, 2000), nil)
	require.NoError(t, err)

	observer := &recordingObserver{}
	sm.RegisterObserver(observer)

	sm.Update(50) // stay at 0
	assert.Empty(t, observer.levels)

	sm.Update(250) // promote to 1
	require.Len(t, observer.levels, 1)
	assert.Equal(t, 1, observer.levels[0].Index)
	assert.Equal(t, 500, observer.levels[0].Bandwidth)

	sm.Update(50) // demote to 0
	require.Len(t, observer.levels, 2)
	assert.Equal(t, 0, observer.levels[1].Index)

	sm.Update(50) // already at floor, no notification
	assert.Len(t, observer.levels, 2)
}

func TestQualityStateMachine_ObserversInvokedInRegistrationOrder(t *testing.T) {
	sm, err := NewQualityStateMachine(makeLadder(100, 500), nil)
	require.NoError(t, err)

	var order []string
	sm.RegisterObserver(observerFunc(func(domain.QualityLevel) { order = append(order, "first") }))
	sm.RegisterObserver(observerFunc(func(domain.QualityLevel) { order = append(order, "second") }))

	sm.Update(1000)
	assert.Equal(t, []string{"first", "second"}, order)
}

type observerFunc func(domain.QualityLevel)

func (f observerFunc) OnQualityChange(level domain.QualityLevel) { f(level) }

func TestQualityStateMachine_AdaptationScenario(t *testing.T) {
	sm, err := NewQualityStateMachine(makeLadder(100, 500, 2000), nil)
	require.NoError(t, err)

	observer := &recordingObserver{}
	sm.RegisterObserver(observer)

	sm.Update(50)
	assert.Equal(t, 0, sm.CurrentLevel().Index)
	assert.Empty(t, observer.levels)

	sm.Update(250) // 250 >= 2*100, promote
	assert.Equal(t, 1, sm.CurrentLevel().Index)

	sm.Update(50) // 50 < 500, demote
	assert.Equal(t, 0, sm.CurrentLevel().Index)

	sm.Update(5000) // climb one step at a time
	assert.Equal(t, 1, sm.CurrentLevel().Index)
	sm.Update(5000)
	assert.Equal(t, 2, sm.CurrentLevel().Index)

	notified := len(observer.levels)
	sm.Update(5000) // clamped at the top, no change
	assert.Equal(t, 2, sm.CurrentLevel().Index)
	assert.Len(t, observer.levels, notified)
}
