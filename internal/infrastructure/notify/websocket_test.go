package notify

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/growshop/admin-console/internal/core/domain"
	"github.com/growshop/admin-console/internal/core/ports"
)

// newEchoServer upgrades inbound connections and forwards every text frame to
// the frames channel.
func newEchoServer(t *testing.T) (*httptest.Server, chan []byte) {
	t.Helper()
	frames := make(chan []byte, 8)
	upgrader := websocket.Upgrader{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		defer conn.Close()
		for {
			_, raw, err := conn.ReadMessage()
			if err != nil {
				return
			}
			frames <- raw
		}
	}))
	t.Cleanup(srv.Close)
	return srv, frames
}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func TestConnectAndSendBroadcastFrame(t *testing.T) {
	srv, frames := newEchoServer(t)
	ch := NewWebsocketChannel(wsURL(srv), zerolog.Nop())

	if err := ch.Connect(context.Background()); err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer ch.Close()

	if ch.State() != ports.ChannelConnected {
		t.Fatalf("state = %s", ch.State())
	}

	b := ports.Broadcast{Message: "Flash sale", Timestamp: time.Now().UTC(), From: "admin@growshop.io"}
	if err := ch.Send(context.Background(), b); err != nil {
		t.Fatalf("send: %v", err)
	}

	select {
	case raw := <-frames:
		var frame broadcastFrame
		if err := json.Unmarshal(raw, &frame); err != nil {
			t.Fatalf("decode frame: %v", err)
		}
		if frame.Event != "admin_broadcast" || frame.Data.Message != "Flash sale" {
			t.Fatalf("frame = %+v", frame)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("server never received the broadcast")
	}
}

func TestConnectTwiceIsIdempotent(t *testing.T) {
	srv, _ := newEchoServer(t)
	ch := NewWebsocketChannel(wsURL(srv), zerolog.Nop())

	if err := ch.Connect(context.Background()); err != nil {
		t.Fatalf("first connect: %v", err)
	}
	defer ch.Close()
	if err := ch.Connect(context.Background()); err != nil {
		t.Fatalf("second connect: %v", err)
	}
}

func TestSendWithoutConnectFails(t *testing.T) {
	ch := NewWebsocketChannel("ws://localhost:1/ws", zerolog.Nop())

	err := ch.Send(context.Background(), ports.Broadcast{Message: "hello"})
	if !errors.Is(err, domain.ErrChannelDown) {
		t.Fatalf("expected ErrChannelDown, got %v", err)
	}
}

func TestEmptyURLDisablesChannel(t *testing.T) {
	ch := NewWebsocketChannel("", zerolog.Nop())

	if err := ch.Connect(context.Background()); !errors.Is(err, domain.ErrChannelDown) {
		t.Fatalf("expected ErrChannelDown, got %v", err)
	}
	if ch.State() != ports.ChannelDisconnected {
		t.Fatalf("state = %s", ch.State())
	}
}

func TestCloseResetsState(t *testing.T) {
	srv, _ := newEchoServer(t)
	ch := NewWebsocketChannel(wsURL(srv), zerolog.Nop())

	if err := ch.Connect(context.Background()); err != nil {
		t.Fatalf("connect: %v", err)
	}
	if err := ch.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if ch.State() != ports.ChannelDisconnected {
		t.Fatalf("state after close = %s", ch.State())
	}

	// Closing again must not panic or error.
	if err := ch.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
}
