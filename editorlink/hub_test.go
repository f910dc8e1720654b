package editorlink

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/plus3/ember3d/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type linkFixture struct {
	hub       *Hub
	engine    *ecs.Engine
	scheduler *ecs.Scheduler
	server    *httptest.Server
	logs      *observer.ObservedLogs
}

func newLinkFixture(t *testing.T) *linkFixture {
	core, logs := observer.New(zap.DebugLevel)
	hub := NewHub(zap.New(core))
	engine := ecs.NewEngine()
	scheduler := ecs.NewScheduler(engine)
	scheduler.AddSystem(NewHubSystem(hub))

	server := httptest.NewServer(hub)
	t.Cleanup(func() {
		hub.Close()
		server.Close()
	})

	return &linkFixture{hub: hub, engine: engine, scheduler: scheduler, server: server, logs: logs}
}

func (f *linkFixture) dial(t *testing.T) (*websocket.Conn, string) {
	url := "ws" + strings.TrimPrefix(f.server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	hello := readMessage(t, conn)
	require.Equal(t, "hello", hello.Type)
	require.NotEmpty(t, hello.Client)
	return conn, hello.Client
}

func readMessage(t *testing.T, conn *websocket.Conn) Message {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var msg Message
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

func TestHubBroadcastsEngineEvents(t *testing.T) {
	f := newLinkFixture(t)
	conn, _ := f.dial(t)

	e := ecs.NewEntity("crate")
	require.NoError(t, f.engine.AddEntity(e))

	msg := readMessage(t, conn)
	assert.Equal(t, "EntityAdded", msg.Type)
	assert.Equal(t, "crate", msg.Entity)
	require.NotNil(t, msg.Index, "position 0 is sent")
	assert.Equal(t, 0, *msg.Index)

	f.engine.Select(e)
	msg = readMessage(t, conn)
	assert.Equal(t, "SelectionChanged", msg.Type)
	assert.Equal(t, "crate", msg.Entity)
	assert.Empty(t, msg.Previous)

	f.engine.Select(nil)
	msg = readMessage(t, conn)
	assert.Equal(t, "SelectionChanged", msg.Type)
	assert.Empty(t, msg.Entity)
	assert.Equal(t, "crate", msg.Previous)
}

func TestHubClientIdsAreUnique(t *testing.T) {
	f := newLinkFixture(t)
	_, a := f.dial(t)
	_, b := f.dial(t)

	assert.NotEqual(t, a, b)
	assert.Equal(t, 2, f.hub.Clients())
}

func TestCommandsApplyDuringTick(t *testing.T) {
	f := newLinkFixture(t)
	conn, _ := f.dial(t)

	target := ecs.NewEntity("target")
	require.NoError(t, f.engine.AddEntity(target))
	readMessage(t, conn)

	require.NoError(t, conn.WriteJSON(Command{Type: CommandSelect, Entity: "target"}))
	require.Eventually(t, func() bool {
		f.scheduler.Tick(0.016)
		return f.engine.Selected() == target
	}, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, conn.WriteJSON(Command{Type: CommandRemove, Entity: "target"}))
	require.Eventually(t, func() bool {
		f.scheduler.Tick(0.016)
		_, ok := f.engine.EntityById("target")
		return !ok
	}, 2*time.Second, 10*time.Millisecond)
}

func TestUnknownEntityCommandIsIgnored(t *testing.T) {
	f := newLinkFixture(t)
	conn, _ := f.dial(t)

	require.NoError(t, conn.WriteJSON(Command{Type: CommandSelect, Entity: "ghost"}))
	require.Eventually(t, func() bool {
		f.scheduler.Tick(0.016)
		return f.logs.FilterMessage("Editor command names an unknown entity").Len() == 1
	}, 2*time.Second, 10*time.Millisecond)
	assert.Nil(t, f.engine.Selected())
}

func TestCloseDisconnectsEditors(t *testing.T) {
	f := newLinkFixture(t)
	conn, _ := f.dial(t)

	require.NoError(t, f.hub.Close())
	assert.ErrorIs(t, f.hub.Close(), ErrHubClosed)
	assert.Zero(t, f.hub.Clients())

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err := conn.ReadMessage()
	assert.Error(t, err)
}

func TestEventMessage(t *testing.T) {
	e := ecs.NewEntity("a")
	msg := EventMessage(ecs.Event{Kind: ecs.ComponentAdded, Entity: e, Component: "Transform"})
	assert.Equal(t, Message{Type: "ComponentAdded", Entity: "a", Component: "Transform"}, msg)

	msg = EventMessage(ecs.Event{Kind: ecs.EntityRemoved, Entity: e, Index: 3})
	require.NotNil(t, msg.Index)
	assert.Equal(t, 3, *msg.Index)

	data, err := json.Marshal(EventMessage(ecs.Event{Kind: ecs.EntityAdded, Entity: e, Index: 0}))
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"EntityAdded","entity":"a","index":0}`, string(data))

	data, err = json.Marshal(EventMessage(ecs.Event{Kind: ecs.ComponentRemoved, Entity: e, Component: "Name"}))
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"ComponentRemoved","entity":"a","component":"Name"}`, string(data))
}
