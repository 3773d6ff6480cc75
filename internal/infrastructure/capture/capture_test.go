package capture

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStrategyBuilder_BuildsPatternStrategy(t *testing.T) {
	strategy, err := NewStrategyBuilder().
		SetStrategyType("pattern").
		SetOption("width", 320).
		SetOption("height", 180).
		SetOption("fps", 60).
		Build()
	require.NoError(t, err)

	assert.Equal(t, 320, strategy.MonitorWidth())
	assert.Equal(t, 180, strategy.MonitorHeight())
	assert.NoError(t, strategy.Close())
}

func TestStrategyBuilder_DefaultsOptions(t *testing.T) {
	strategy, err := NewStrategyBuilder().SetStrategyType("Pattern").Build()
	require.NoError(t, err)

	assert.Equal(t, 1280, strategy.MonitorWidth())
	assert.Equal(t, 720, strategy.MonitorHeight())
}

func TestStrategyBuilder_UnsetTypeIsError(t *testing.T) {
	_, err := NewStrategyBuilder().Build()
	assert.ErrorContains(t, err, "not set")
}

func TestStrategyBuilder_UnknownTypeIsError(t *testing.T) {
	_, err := NewStrategyBuilder().SetStrategyType("x11grab").Build()
	assert.ErrorContains(t, err, "unknown capture strategy")
}

func TestPatternStrategy_CaptureProducesFrameAtMonitorSize(t *testing.T) {
	strategy := NewPatternStrategy(64, 48, 1000)

	img, err := strategy.Capture(context.Background())
	require.NoError(t, err)

	bounds := img.Bounds()
	assert.Equal(t, 64, bounds.Dx())
	assert.Equal(t, 48, bounds.Dy())
}

func TestPatternStrategy_ConsecutiveFramesDiffer(t *testing.T) {
	strategy := NewPatternStrategy(8, 8, 1000)
	ctx := context.Background()

	first, err := strategy.Capture(ctx)
	require.NoError(t, err)
	second, err := strategy.Capture(ctx)
	require.NoError(t, err)

	assert.NotEqual(t, first.At(0, 0), second.At(0, 0))
}

func TestPatternStrategy_CaptureHonorsContextCancel(t *testing.T) {
	// 1 fps with the burst spent leaves the next frame ~1s away
	strategy := NewPatternStrategy(8, 8, 1)
	_, err := strategy.Capture(context.Background())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err = strategy.Capture(ctx)
	assert.Error(t, err)
}

func TestPatternStrategy_SetFrameRateIgnoresNonPositive(t *testing.T) {
	strategy := NewPatternStrategy(8, 8, 30)
	strategy.SetFrameRate(0)
	strategy.SetFrameRate(-5)

	// still paced, first frame served from the burst
	_, err := strategy.Capture(context.Background())
	assert.NoError(t, err)
}
