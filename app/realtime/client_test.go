package realtime_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"

	"school-analytics-dashboard/app/realtime"
)

func newLiveServer(t *testing.T, messages []string) (*httptest.Server, *atomic.Value) {
	var authHeader atomic.Value
	upgrader := websocket.Upgrader{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader.Store(r.Header.Get("Authorization"))
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		for _, m := range messages {
			if err := conn.WriteMessage(websocket.TextMessage, []byte(m)); err != nil {
				return
			}
		}
		// tahan koneksi sampai client menutup
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	t.Cleanup(srv.Close)
	return srv, &authHeader
}

func TestClientRun(t *testing.T) {
	srv, authHeader := newLiveServer(t, []string{
		`{"type":"active_users_count","count":"bad"}`,
		`{"type":"server_time","at":"now"}`,
		`{"type":"active_users_count","count":42}`,
	})

	reg := realtime.NewRegistry()
	var count atomic.Int64
	reg.Register(realtime.TypeActiveUsersCount, func(ev realtime.Event) {
		count.Store(int64(ev.(realtime.ActiveUsersCount).Count))
	})

	ctx, cancel := context.WithCancel(context.Background())
	client := realtime.NewClient("ws"+strings.TrimPrefix(srv.URL, "http"), reg, time.Second)

	errCh := make(chan error, 1)
	go func() { errCh <- client.Run(ctx, "token-123") }()

	assert.Eventually(t, func() bool { return count.Load() == 42 }, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, "Bearer token-123", authHeader.Load())

	cancel()
	select {
	case err := <-errCh:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop after cancel")
	}
}

func TestClientRunRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := realtime.NewClient("ws"+strings.TrimPrefix(srv.URL, "http"), realtime.NewRegistry(), 5*time.Second)

	err := client.Run(context.Background(), "expired")

	assert.ErrorContains(t, err, "rejected credential")
}

func TestClientRunReconnectDelay(t *testing.T) {
	var connections atomic.Int64
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		connections.Add(1)
		// tolak setelah upgrade tanpa mengirim pesan
		_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "policy"))
		conn.Close()
	}))
	defer srv.Close()

	client := realtime.NewClient("ws"+strings.TrimPrefix(srv.URL, "http"), realtime.NewRegistry(), 5*time.Second)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	err := client.Run(ctx, "token-123")

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	// jeda awal 250-750ms lalu tumbuh 1.5x, jadi paling banyak beberapa koneksi per detik
	assert.GreaterOrEqual(t, connections.Load(), int64(1))
	assert.LessOrEqual(t, connections.Load(), int64(4))
}
