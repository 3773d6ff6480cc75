package domain

import "time"

type SessionID string
type ClientID string

// Frame is one encoded screen capture travelling through the pipeline.
type Frame struct {
	Sequence   uint64
	SessionID  SessionID
	Resolution Resolution
	CapturedAt time.Time
	Payload    []byte
}

// Size returns the encoded payload size in bytes.
func (f *Frame) Size() int {
	return len(f.Payload)
}

// Session describes one client streaming into the server.
type Session struct {
	ID         SessionID
	ClientName string
	RemoteAddr string
	StartedAt  time.Time
}

// SessionStats is a point-in-time snapshot of a session's transfer state.
type SessionStats struct {
	SessionID       SessionID
	FramesReceived  uint64
	BytesReceived   uint64
	Throughput      int // bytes per second
	ThroughputHuman string
	Viewers         int
	Timestamp       time.Time
}
