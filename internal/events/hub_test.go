package events

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStampsTimestamp(t *testing.T) {
	before := time.Now().UTC()
	event := New(TypeImportCompleted, map[string]interface{}{"document": "abc"})

	assert.Equal(t, TypeImportCompleted, event.Type)
	assert.Equal(t, "abc", event.Payload["document"])
	assert.False(t, event.Timestamp.Before(before))
}

func TestBroadcastWithoutClients(t *testing.T) {
	hub := NewHub(nil)

	// Must not panic or block
	hub.Broadcast(context.Background(), New(TypeTaskAdvanced, nil))
	assert.Equal(t, 0, hub.ClientCount())
}

func TestBroadcastReachesConnectedClient(t *testing.T) {
	hub := NewHub(nil)
	server := httptest.NewServer(hub.ServeMux())
	defer server.Close()
	defer hub.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	url := strings.Replace(server.URL, "http://", "ws://", 1) + "/events"
	conn, _, err := websocket.Dial(ctx, url, nil)
	require.NoError(t, err)
	defer func() { _ = conn.Close(websocket.StatusNormalClosure, "") }()

	require.Eventually(t, func() bool {
		return hub.ClientCount() == 1
	}, time.Second, 10*time.Millisecond)

	hub.Broadcast(ctx, New(TypeDefinitionChanged, map[string]interface{}{
		"path": "designs/newsroom.yml",
	}))

	msgType, data, err := conn.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, websocket.MessageText, msgType)

	var received Event
	require.NoError(t, json.Unmarshal(data, &received))
	assert.Equal(t, TypeDefinitionChanged, received.Type)
	assert.Equal(t, "designs/newsroom.yml", received.Payload["path"])
}

func TestCloseDisconnectsClients(t *testing.T) {
	hub := NewHub(nil)
	server := httptest.NewServer(hub.ServeMux())
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	url := strings.Replace(server.URL, "http://", "ws://", 1) + "/events"
	conn, _, err := websocket.Dial(ctx, url, nil)
	require.NoError(t, err)
	defer func() { _ = conn.Close(websocket.StatusNormalClosure, "") }()

	require.Eventually(t, func() bool {
		return hub.ClientCount() == 1
	}, time.Second, 10*time.Millisecond)

	hub.Close()
	assert.Equal(t, 0, hub.ClientCount())

	_, _, err = conn.Read(ctx)
	assert.Error(t, err)
}
