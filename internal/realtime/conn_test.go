package realtime

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

func newWSServer(t *testing.T, reg *Registry, b *Broadcaster) *httptest.Server {
	t.Helper()
	up := websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }}
	// handler goroutines outlive the test once hijacked
	log := zap.NewNop()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ws, err := up.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		_ = Attach(reg, b, ws, log)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	c, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func readText(t *testing.T, c *websocket.Conn) string {
	t.Helper()
	require.NoError(t, c.SetReadDeadline(time.Now().Add(3*time.Second)))
	typ, data, err := c.ReadMessage()
	require.NoError(t, err)
	require.Equal(t, websocket.TextMessage, typ)
	return string(data)
}

func TestAttach_BroadcastReachesEveryConnection(t *testing.T) {
	reg := NewRegistry()
	b := NewBroadcaster(reg, zaptest.NewLogger(t), time.Second)
	defer b.Close()
	srv := newWSServer(t, reg, b)

	c1 := dial(t, srv)
	c2 := dial(t, srv)
	require.Eventually(t, func() bool { return reg.Len() == 2 }, 3*time.Second, 10*time.Millisecond)

	b.Publish("update")
	require.Equal(t, "update", readText(t, c1))
	require.Equal(t, "update", readText(t, c2))
}

func TestAttach_InboundTextIsEchoedToAll(t *testing.T) {
	reg := NewRegistry()
	b := NewBroadcaster(reg, zaptest.NewLogger(t), time.Second)
	defer b.Close()
	srv := newWSServer(t, reg, b)

	c1 := dial(t, srv)
	c2 := dial(t, srv)
	require.Eventually(t, func() bool { return reg.Len() == 2 }, 3*time.Second, 10*time.Millisecond)

	require.NoError(t, c1.WriteMessage(websocket.TextMessage, []byte("hello")))
	require.Equal(t, "Client says: hello", readText(t, c1))
	require.Equal(t, "Client says: hello", readText(t, c2))
}

func TestAttach_DisconnectUnregisters(t *testing.T) {
	reg := NewRegistry()
	b := NewBroadcaster(reg, zaptest.NewLogger(t), time.Second)
	defer b.Close()
	srv := newWSServer(t, reg, b)

	c1 := dial(t, srv)
	c2 := dial(t, srv)
	require.Eventually(t, func() bool { return reg.Len() == 2 }, 3*time.Second, 10*time.Millisecond)

	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "bye")
	require.NoError(t, c1.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second)))
	_ = c1.Close()
	require.Eventually(t, func() bool { return reg.Len() == 1 }, 3*time.Second, 10*time.Millisecond)

	b.Publish("update")
	require.Equal(t, "update", readText(t, c2))
}
