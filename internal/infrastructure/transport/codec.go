package transport

import (
	"encoding/binary"
	"fmt"
	"time"

	"framecast/internal/core/domain"
)

// Frames travel as single binary websocket messages: a fixed header
// followed by the encoded payload. The session is identified by the
// connection, not the frame.
//
//	magic     uint32
//	sequence  uint64
//	width     uint32
//	height    uint32
//	captured  int64 (unix nanoseconds)
//	payload   remaining bytes
const (
	frameMagic      = 0x46434631 // "FCF1"
	frameHeaderSize = 4 + 8 + 4 + 4 + 8
)

// MarshalFrame serializes a frame into a wire message.
func MarshalFrame(frame *domain.Frame) []byte {
	buf := make([]byte, frameHeaderSize+len(frame.Payload))
	binary.BigEndian.PutUint32(buf[0:4], frameMagic)
	binary.BigEndian.PutUint64(buf[4:12], frame.Sequence)
	binary.BigEndian.PutUint32(buf[12:16], uint32(frame.Resolution.Width))
	binary.BigEndian.PutUint32(buf[16:20], uint32(frame.Resolution.Height))
	binary.BigEndian.PutUint64(buf[20:28], uint64(frame.CapturedAt.UnixNano()))
	copy(buf[frameHeaderSize:], frame.Payload)
	return buf
}

// UnmarshalFrame parses a wire message produced by MarshalFrame.
func UnmarshalFrame(data []byte) (*domain.Frame, error) {
	if len(data) < frameHeaderSize {
		return nil, fmt.Errorf("frame message too short: %d bytes", len(data))
	}
	if magic := binary.BigEndian.Uint32(data[0:4]); magic != frameMagic {
		return nil, fmt.Errorf("bad frame magic 0x%08x", magic)
	}
	return &domain.Frame{
		Sequence: binary.BigEndian.Uint64(data[4:12]),
		Resolution: domain.Resolution{
			Width:  int(binary.BigEndian.Uint32(data[12:16])),
			Height: int(binary.BigEndian.Uint32(data[16:20])),
		},
		CapturedAt: time.Unix(0, int64(binary.BigEndian.Uint64(data[20:28]))),
		Payload:    data[frameHeaderSize:],
	}, nil
}
