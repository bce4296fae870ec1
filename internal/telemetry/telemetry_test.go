package telemetry

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"net"
	"net/http/httptest"
	"runtime"
	"strings"
	"testing"
	"time"

	"physbridge/internal/physics"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleBatch(tick uint64) physics.ResponseBatch {
	return physics.ResponseBatch{Tick: tick, Events: []physics.Response{{
		Kind: physics.KindCollision,
		Collision: &physics.CollisionEvent{
			Kind:    physics.CollisionStarted,
			Entity1: 1,
			Entity2: 2,
		},
	}}}
}

func TestJSONLinesOneObjectPerLine(t *testing.T) {
	var buf bytes.Buffer
	sink := NewJSONLines(&buf)
	require.NoError(t, sink.Publish(sampleBatch(1)))
	require.NoError(t, sink.Publish(sampleBatch(2)))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)

	var got physics.ResponseBatch
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &got))
	assert.Equal(t, uint64(2), got.Tick)
	require.Len(t, got.Events, 1)
	assert.Equal(t, physics.KindCollision, got.Events[0].Kind)
	assert.Equal(t, physics.CollisionStarted, got.Events[0].Collision.Kind)
	assert.Contains(t, lines[0], `"kind":"collision"`)
	assert.NoError(t, sink.Close())
}

func TestTCPServerFansOut(t *testing.T) {
	srv, err := ListenTCP("127.0.0.1:0", nil)
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go srv.Serve(ctx)

	conn, err := net.Dial("tcp", srv.Addr().String())
	require.NoError(t, err)
	defer conn.Close()
	require.Eventually(t, func() bool { return srv.Len() == 1 }, time.Second, 5*time.Millisecond)

	require.NoError(t, srv.Publish(sampleBatch(7)))

	conn.SetReadDeadline(time.Now().Add(time.Second))
	line, err := bufio.NewReader(conn).ReadBytes('\n')
	require.NoError(t, err)
	var got physics.ResponseBatch
	require.NoError(t, json.Unmarshal(line, &got))
	assert.Equal(t, uint64(7), got.Tick)

	cancel()
	require.Eventually(t, func() bool { return srv.Len() == 0 }, time.Second, 5*time.Millisecond)
}

func TestWebSocketHub(t *testing.T) {
	hub := NewWebSocketHub(nil)
	ts := httptest.NewServer(hub)
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()
	require.Eventually(t, func() bool { return hub.Len() == 1 }, time.Second, 5*time.Millisecond)

	require.NoError(t, hub.Publish(sampleBatch(3)))
	conn.SetReadDeadline(time.Now().Add(time.Second))
	var got physics.ResponseBatch
	require.NoError(t, conn.ReadJSON(&got))
	assert.Equal(t, uint64(3), got.Tick)

	conn.Close()
	require.Eventually(t, func() bool { return hub.Len() == 0 }, time.Second, 5*time.Millisecond)
	assert.NoError(t, hub.Close())
}

func TestTCPServerCloseStopsServe(t *testing.T) {
	before := runtime.NumGoroutine()
	srv, err := ListenTCP("127.0.0.1:0", nil)
	require.NoError(t, err)

	served := make(chan error, 1)
	go func() { served <- srv.Serve(context.Background()) }()

	require.NoError(t, srv.Close())
	select {
	case err := <-served:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Serve did not return after Close")
	}
	assert.NoError(t, srv.Close(), "closing twice is harmless")
	assert.Eventually(t, func() bool { return runtime.NumGoroutine() <= before },
		time.Second, 10*time.Millisecond, "the context watcher exits with the server")
}
