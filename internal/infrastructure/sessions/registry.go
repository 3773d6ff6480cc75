package sessions

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"framecast/internal/core/domain"
	"framecast/internal/core/services"
	"framecast/pkg/format"

	"go.uber.org/zap"
)

// Registry tracks live ingest sessions, each with its own bandwidth
// monitor on the receive side and a set of viewer fan-out channels.
type Registry struct {
	mu       sync.RWMutex
	sessions map[domain.SessionID]*State

	windowSize time.Duration
	logger     *zap.SugaredLogger
}

// State is the server-side state of one ingest session.
type State struct {
	Session *domain.Session
	Monitor *services.BandwidthMonitor

	frames atomic.Uint64
	bytes  atomic.Uint64

	mu      sync.RWMutex
	viewers map[domain.ClientID]chan []byte
}

// NewRegistry creates a registry whose per-session monitors use the given
// sliding window.
func NewRegistry(windowSize time.Duration, logger *zap.SugaredLogger) *Registry {
	return &Registry{
		sessions:   make(map[domain.SessionID]*State),
		windowSize: windowSize,
		logger:     logger,
	}
}

// Open registers a new ingest session.
func (r *Registry) Open(session *domain.Session) (*State, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.sessions[session.ID]; exists {
		return nil, fmt.Errorf("session already open: %s", session.ID)
	}

	state := &State{
		Session: session,
		Monitor: services.NewBandwidthMonitor(r.windowSize),
		viewers: make(map[domain.ClientID]chan []byte),
	}
	r.sessions[session.ID] = state
	r.logger.Infow("session opened", "session_id", session.ID, "client", session.ClientName)
	return state, nil
}

// Close removes a session and disconnects its viewers.
func (r *Registry) Close(id domain.SessionID) {
	r.mu.Lock()
	state, exists := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()

	if !exists {
		return
	}
	state.mu.Lock()
	for viewerID, ch := range state.viewers {
		close(ch)
		delete(state.viewers, viewerID)
	}
	state.mu.Unlock()
	r.logger.Infow("session closed", "session_id", id)
}

// Get returns the state for a session.
func (r *Registry) Get(id domain.SessionID) (*State, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	state, exists := r.sessions[id]
	if !exists {
		return nil, domain.ErrSessionNotFound
	}
	return state, nil
}

// List returns all open sessions.
func (r *Registry) List() []*domain.Session {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.Session, 0, len(r.sessions))
	for _, state := range r.sessions {
		out = append(out, state.Session)
	}
	return out
}

// Stats returns a snapshot of a session's transfer state.
func (r *Registry) Stats(id domain.SessionID) (*domain.SessionStats, error) {
	state, err := r.Get(id)
	if err != nil {
		return nil, err
	}

	throughput := state.Monitor.Estimate()
	return &domain.SessionStats{
		SessionID:       id,
		FramesReceived:  state.frames.Load(),
		BytesReceived:   state.bytes.Load(),
		Throughput:      throughput,
		ThroughputHuman: format.Throughput(throughput),
		Viewers:         state.ViewerCount(),
		Timestamp:       time.Now(),
	}, nil
}

// RecordFrame accounts one received frame and reports its size to the
// session's bandwidth monitor.
func (s *State) RecordFrame(size int) {
	s.frames.Add(1)
	s.bytes.Add(uint64(size))
	s.Monitor.Record(size)
}

// AddViewer registers a watcher and returns its frame channel. A viewer
// that cannot keep up has frames dropped, not queued without bound.
func (s *State) AddViewer(id domain.ClientID, buffer int) <-chan []byte {
	if buffer <= 0 {
		buffer = 8
	}
	ch := make(chan []byte, buffer)
	s.mu.Lock()
	s.viewers[id] = ch
	s.mu.Unlock()
	return ch
}

// RemoveViewer drops a watcher.
func (s *State) RemoveViewer(id domain.ClientID) {
	s.mu.Lock()
	if ch, exists := s.viewers[id]; exists {
		close(ch)
		delete(s.viewers, id)
	}
	s.mu.Unlock()
}

// Broadcast fans a wire message out to all viewers, skipping any whose
// buffer is full.
func (s *State) Broadcast(message []byte) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, ch := range s.viewers {
		select {
		case ch <- message:
		default:
		}
	}
}

// ViewerCount returns the number of attached watchers.
func (s *State) ViewerCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.viewers)
}
