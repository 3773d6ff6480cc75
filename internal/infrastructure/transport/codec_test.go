package transport

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"framecast/internal/core/domain"
)

func TestFrameCodec_RoundTrip(t *testing.T) {
	captured := time.Date(2024, 6, 1, 12, 0, 0, 123456789, time.UTC)
	frame := &domain.Frame{
		Sequence:   42,
		Resolution: domain.Resolution{Width: 1280, Height: 720},
		CapturedAt: captured,
		Payload:    []byte{0xff, 0xd8, 0xff, 0xe0, 0x01, 0x02},
	}

	decoded, err := UnmarshalFrame(MarshalFrame(frame))
	require.NoError(t, err)

	assert.Equal(t, frame.Sequence, decoded.Sequence)
	assert.Equal(t, frame.Resolution, decoded.Resolution)
	assert.Equal(t, captured.UnixNano(), decoded.CapturedAt.UnixNano())
	assert.Equal(t, frame.Payload, decoded.Payload)
}

func TestFrameCodec_EmptyPayload(t *testing.T) {
	frame := &domain.Frame{
		Sequence:   1,
		Resolution: domain.Resolution{Width: 640, Height: 360},
		CapturedAt: time.Now(),
	}

	decoded, err := UnmarshalFrame(MarshalFrame(frame))
	require.NoError(t, err)
	assert.Empty(t, decoded.Payload)
}

func TestUnmarshalFrame_TooShort(t *testing.T) {
	_, err := UnmarshalFrame(make([]byte, frameHeaderSize-1))
	assert.ErrorContains(t, err, "too short")
}

func TestUnmarshalFrame_BadMagic(t *testing.T) {
	frame := &domain.Frame{
		Sequence:   1,
		Resolution: domain.Resolution{Width: 640, Height: 360},
		CapturedAt: time.Now(),
		Payload:    []byte{1, 2, 3},
	}
	data := MarshalFrame(frame)
	data[0] = 0x00

	_, err := UnmarshalFrame(data)
	assert.ErrorContains(t, err, "bad frame magic")
}
