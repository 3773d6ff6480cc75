package sessions

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"framecast/internal/core/domain"
)

func newTestRegistry() *Registry {
	return NewRegistry(60*time.Second, zap.NewNop().Sugar())
}

func testSession(id string) *domain.Session {
	return &domain.Session{
		ID:         domain.SessionID(id),
		ClientName: "desk-42",
		RemoteAddr: "127.0.0.1:55000",
		StartedAt:  time.Now(),
	}
}

func TestRegistry_OpenAndGet(t *testing.T) {
	registry := newTestRegistry()

	state, err := registry.Open(testSession("s1"))
	require.NoError(t, err)
	require.NotNil(t, state.Monitor)

	got, err := registry.Get("s1")
	require.NoError(t, err)
	assert.Same(t, state, got)
}

func TestRegistry_DuplicateOpenIsError(t *testing.T) {
	registry := newTestRegistry()

	_, err := registry.Open(testSession("s1"))
	require.NoError(t, err)

	_, err = registry.Open(testSession("s1"))
	assert.ErrorContains(t, err, "already open")
}

func TestRegistry_GetUnknownSession(t *testing.T) {
	registry := newTestRegistry()

	_, err := registry.Get("missing")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestRegistry_CloseRemovesSessionAndViewers(t *testing.T) {
	registry := newTestRegistry()

	state, err := registry.Open(testSession("s1"))
	require.NoError(t, err)
	ch := state.AddViewer("viewer-1", 4)

	registry.Close("s1")

	_, err = registry.Get("s1")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	_, open := <-ch
	assert.False(t, open, "viewer channel should be closed")

	// closing an unknown session is a no-op
	registry.Close("s1")
}

func TestRegistry_List(t *testing.T) {
	registry := newTestRegistry()

	_, err := registry.Open(testSession("s1"))
	require.NoError(t, err)
	_, err = registry.Open(testSession("s2"))
	require.NoError(t, err)

	assert.Len(t, registry.List(), 2)
}

func TestRegistry_StatsReflectRecordedFrames(t *testing.T) {
	registry := newTestRegistry()

	state, err := registry.Open(testSession("s1"))
	require.NoError(t, err)

	state.RecordFrame(1000)
	state.RecordFrame(500)
	state.AddViewer("viewer-1", 4)

	stats, err := registry.Stats("s1")
	require.NoError(t, err)

	assert.Equal(t, domain.SessionID("s1"), stats.SessionID)
	assert.Equal(t, uint64(2), stats.FramesReceived)
	assert.Equal(t, uint64(1500), stats.BytesReceived)
	assert.Equal(t, 1500, stats.Throughput)
	assert.Equal(t, "2 Kbps", stats.ThroughputHuman)
	assert.Equal(t, 1, stats.Viewers)
}

func TestState_BroadcastDeliversToViewers(t *testing.T) {
	registry := newTestRegistry()
	state, err := registry.Open(testSession("s1"))
	require.NoError(t, err)

	ch := state.AddViewer("viewer-1", 4)
	state.Broadcast([]byte("frame-1"))

	select {
	case msg := <-ch:
		assert.Equal(t, []byte("frame-1"), msg)
	default:
		t.Fatal("expected a buffered message")
	}
}

func TestState_BroadcastDropsWhenViewerBufferFull(t *testing.T) {
	registry := newTestRegistry()
	state, err := registry.Open(testSession("s1"))
	require.NoError(t, err)

	ch := state.AddViewer("viewer-1", 1)
	state.Broadcast([]byte("frame-1"))
	state.Broadcast([]byte("frame-2"))

	assert.Equal(t, []byte("frame-1"), <-ch)
	select {
	case extra := <-ch:
		t.Fatalf("expected second frame to be dropped, got %q", extra)
	default:
	}
}

func TestState_RemoveViewerClosesChannel(t *testing.T) {
	registry := newTestRegistry()
	state, err := registry.Open(testSession("s1"))
	require.NoError(t, err)

	ch := state.AddViewer("viewer-1", 4)
	assert.Equal(t, 1, state.ViewerCount())

	state.RemoveViewer("viewer-1")
	assert.Equal(t, 0, state.ViewerCount())

	_, open := <-ch
	assert.False(t, open)

	// removing twice is a no-op
	state.RemoveViewer("viewer-1")
}
