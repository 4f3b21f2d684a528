package websocket

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingHandler struct {
	got chan MessageType
}

func (h *recordingHandler) HandleWebSocketMessage(client *Client, msg *Message) error {
	h.got <- msg.Type
	return nil
}

func startManager(t *testing.T, maxConn int) (*Manager, context.CancelFunc) {
	t.Helper()
	m := NewManager(maxConn, 1024, time.Second, time.Minute, time.Minute)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go m.Run(ctx)
	return m, cancel
}

func waitClosed(t *testing.T, ch <-chan []byte) {
	t.Helper()
	assert.Eventually(t, func() bool {
		select {
		case _, ok := <-ch:
			return !ok
		default:
			return false
		}
	}, time.Second, 5*time.Millisecond)
}

func TestManager_RegisterAndSend(t *testing.T) {
	m, _ := startManager(t, 2)

	client := NewClient("c1", "user-1", nil, m)
	require.True(t, m.Join(client))
	assert.Eventually(t, func() bool { return m.GetUserConnections("user-1") == 1 }, time.Second, 5*time.Millisecond)

	msg, err := NewMessage(TypePong, nil)
	require.NoError(t, err)
	require.NoError(t, m.SendToClient("c1", msg))

	var got Message
	require.NoError(t, json.Unmarshal(<-client.Send, &got))
	assert.Equal(t, TypePong, got.Type)

	assert.NoError(t, m.SendToClient("gone", msg), "sending to an unknown client is a no-op")
}

func TestManager_MaxConnectionsPerUser(t *testing.T) {
	m, _ := startManager(t, 1)

	first := NewClient("c1", "user-1", nil, m)
	second := NewClient("c2", "user-1", nil, m)
	require.True(t, m.Join(first))
	require.True(t, m.Join(second))

	waitClosed(t, second.Send)
	assert.Equal(t, 1, m.GetUserConnections("user-1"))
}

func TestManager_UnregisterStopsSubscription(t *testing.T) {
	m, _ := startManager(t, 2)

	client := NewClient("c1", "user-1", nil, m)
	require.True(t, m.Join(client))
	ctx := client.StartSubscription()

	m.leave(client)

	waitClosed(t, client.Send)
	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Fatal("subscription not cancelled on unregister")
	}
	assert.Zero(t, m.GetUserConnections("user-1"))
}

func TestManager_Resubscribe(t *testing.T) {
	client := NewClient("c1", "user-1", nil, nil)

	first := client.StartSubscription()
	second := client.StartSubscription()

	assert.Error(t, first.Err(), "previous feed is cancelled")
	assert.NoError(t, second.Err())

	client.StopSubscription()
	assert.Error(t, second.Err())
}

func TestManager_DispatchesMessages(t *testing.T) {
	m, _ := startManager(t, 2)
	handler := &recordingHandler{got: make(chan MessageType, 1)}
	m.SetMessageHandler(handler)

	client := NewClient("c1", "user-1", nil, m)
	require.True(t, m.Join(client))

	require.True(t, m.deliver(&ClientMessage{Client: client, Message: []byte(`{"type":"ping"}`)}))
	assert.Equal(t, TypePing, <-handler.got)

	require.True(t, m.deliver(&ClientMessage{Client: client, Message: []byte(`not json`)}))
	var reply Message
	require.NoError(t, json.Unmarshal(<-client.Send, &reply))
	assert.Equal(t, TypeError, reply.Type)
}

func TestManager_StopClosesClients(t *testing.T) {
	m, cancel := startManager(t, 2)

	client := NewClient("c1", "user-1", nil, m)
	require.True(t, m.Join(client))
	ctx := client.StartSubscription()

	cancel()

	waitClosed(t, client.Send)
	<-ctx.Done()
	assert.False(t, m.Join(NewClient("c2", "user-2", nil, m)), "a stopped hub accepts no clients")
}
