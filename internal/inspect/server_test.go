package inspect

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/tomz197/streetrunner/internal/snapshot"
)

func sample(frame uint64) *snapshot.Snapshot {
	return &snapshot.Snapshot{
		RunID:      "run-1",
		Frame:      frame,
		Phase:      "playing",
		Score:      7,
		Lives:      2,
		Multiplier: 1,
		Player:     snapshot.Vec{Z: -12},
		Entities: []snapshot.Entity{
			{Kind: snapshot.KindTarget, Position: snapshot.Vec{X: 3, Y: 1, Z: -40}},
		},
	}
}

func newTestServer(t *testing.T, src Source) (*Server, *httptest.Server) {
	t.Helper()
	s := NewServer(src, Options{Interval: 5 * time.Millisecond, Logger: log.New(io.Discard)})
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(func() {
		s.Close()
		ts.Close()
	})
	return s, ts
}

func TestSnapshotJSON(t *testing.T) {
	_, ts := newTestServer(t, func() *snapshot.Snapshot { return sample(3) })

	resp, err := http.Get(ts.URL + "/api/snapshot")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var got snapshot.Snapshot
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, *sample(3), got)
}

func TestSnapshotMsgpack(t *testing.T) {
	_, ts := newTestServer(t, func() *snapshot.Snapshot { return sample(4) })

	resp, err := http.Get(ts.URL + "/api/snapshot?format=msgpack")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, contentTypeMsgpack, resp.Header.Get("Content-Type"))

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var got snapshot.Snapshot
	require.NoError(t, msgpack.Unmarshal(body, &got))
	assert.Equal(t, uint64(4), got.Frame)
	assert.Len(t, got.Filter(snapshot.KindTarget), 1)
}

func TestSnapshotUnavailable(t *testing.T) {
	_, ts := newTestServer(t, func() *snapshot.Snapshot { return nil })

	resp, err := http.Get(ts.URL + "/api/snapshot")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	_, nilSource := newTestServer(t, nil)
	resp, err = http.Get(nilSource.URL + "/api/snapshot")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestMethodNotAllowed(t *testing.T) {
	_, ts := newTestServer(t, func() *snapshot.Snapshot { return sample(1) })
	resp, err := http.Post(ts.URL+"/api/snapshot", "application/json", strings.NewReader("{}"))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestHealth(t *testing.T) {
	_, ts := newTestServer(t, nil)
	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()

	var got map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, "ok", got["status"])
}

func dial(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readSnapshot(t *testing.T, conn *websocket.Conn) snapshot.Snapshot {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	kind, data, err := conn.ReadMessage()
	require.NoError(t, err)
	require.Equal(t, websocket.BinaryMessage, kind)
	var got snapshot.Snapshot
	require.NoError(t, msgpack.Unmarshal(data, &got))
	return got
}

func TestStreamPushesNewSnapshots(t *testing.T) {
	var current atomic.Pointer[snapshot.Snapshot]
	current.Store(sample(1))
	s, ts := newTestServer(t, current.Load)

	conn := dial(t, ts)
	assert.Equal(t, uint64(1), readSnapshot(t, conn).Frame)
	assert.Eventually(t, func() bool { return s.Streams() == 1 }, time.Second, 5*time.Millisecond)

	current.Store(sample(2))
	assert.Equal(t, uint64(2), readSnapshot(t, conn).Frame, "unchanged snapshots are not resent")

	conn.Close()
	assert.Eventually(t, func() bool { return s.Streams() == 0 }, 2*time.Second, 5*time.Millisecond)
}

func TestCloseEndsStreams(t *testing.T) {
	s, ts := newTestServer(t, func() *snapshot.Snapshot { return sample(1) })
	conn := dial(t, ts)
	readSnapshot(t, conn)

	s.Close()
	s.Close()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var err error
	for err == nil {
		_, _, err = conn.ReadMessage()
	}
	assert.True(t, websocket.IsCloseError(err, websocket.CloseGoingAway))
}
