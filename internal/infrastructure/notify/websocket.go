// Package notify carries admin broadcasts to the storefront's realtime
// endpoint over a websocket.
package notify

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/growshop/admin-console/internal/core/domain"
	"github.com/growshop/admin-console/internal/core/ports"
)

const (
	handshakeTimeout = 10 * time.Second
	writeTimeout     = 5 * time.Second
	pongTimeout      = 60 * time.Second
	pingInterval     = 30 * time.Second
)

// broadcastFrame is the wire envelope the storefront fans out to connected
// shoppers.
type broadcastFrame struct {
	Event string          `json:"event"`
	Data  ports.Broadcast `json:"data"`
}

// WebsocketChannel implements ports.NotificationChannel over a single
// websocket connection. The connection is owned by one admin session at a
// time; Connect after Close reconnects from scratch.
type WebsocketChannel struct {
	url string
	log zerolog.Logger

	mu    sync.Mutex
	conn  *websocket.Conn
	state ports.ChannelState
	done  chan struct{}
}

// NewWebsocketChannel builds a channel targeting url. An empty url yields a
// channel that reports itself disconnected forever, which disables the
// broadcast panel without special-casing the caller.
func NewWebsocketChannel(url string, log zerolog.Logger) *WebsocketChannel {
	return &WebsocketChannel{
		url:   url,
		log:   log,
		state: ports.ChannelDisconnected,
	}
}

// Connect dials the endpoint and starts the keepalive loop. Calling Connect
// on an already connected channel is a no-op.
func (w *WebsocketChannel) Connect(ctx context.Context) error {
	if w.url == "" {
		return domain.ErrChannelDown
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state == ports.ChannelConnected {
		return nil
	}

	dialer := websocket.Dialer{HandshakeTimeout: handshakeTimeout}
	conn, _, err := dialer.DialContext(ctx, w.url, nil)
	if err != nil {
		w.state = ports.ChannelError
		return &domain.TransportError{Err: err}
	}

	w.conn = conn
	w.state = ports.ChannelConnected
	w.done = make(chan struct{})

	go w.readLoop(conn, w.done)
	go w.pingLoop(conn, w.done)

	w.log.Info().Str("url", w.url).Msg("notification channel connected")
	return nil
}

// Send pushes one broadcast frame. It fails with domain.ErrChannelDown when
// the connection is gone; the caller decides whether to reconnect.
func (w *WebsocketChannel) Send(_ context.Context, b ports.Broadcast) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state != ports.ChannelConnected || w.conn == nil {
		return domain.ErrChannelDown
	}

	frame := broadcastFrame{Event: "admin_broadcast", Data: b}
	raw, err := json.Marshal(frame)
	if err != nil {
		return err
	}

	_ = w.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	if err := w.conn.WriteMessage(websocket.TextMessage, raw); err != nil {
		w.markBrokenLocked()
		return &domain.TransportError{Err: err}
	}
	return nil
}

// State reports the last observed connection state.
func (w *WebsocketChannel) State() ports.ChannelState {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// Close tears the connection down. Safe to call when never connected.
func (w *WebsocketChannel) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.conn == nil {
		w.state = ports.ChannelDisconnected
		return nil
	}

	_ = w.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(writeTimeout))
	err := w.conn.Close()
	w.conn = nil
	w.state = ports.ChannelDisconnected
	close(w.done)
	w.done = nil
	return err
}

// markBrokenLocked flags the connection unusable after a failed write. The
// caller holds w.mu.
func (w *WebsocketChannel) markBrokenLocked() {
	if w.conn != nil {
		_ = w.conn.Close()
		w.conn = nil
	}
	if w.done != nil {
		close(w.done)
		w.done = nil
	}
	w.state = ports.ChannelError
}

// readLoop drains inbound frames so pings are answered and a server-side
// close is noticed. The console never acts on inbound payloads.
func (w *WebsocketChannel) readLoop(conn *websocket.Conn, done chan struct{}) {
	_ = conn.SetReadDeadline(time.Now().Add(pongTimeout))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongTimeout))
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			w.mu.Lock()
			if w.conn == conn {
				// The server went away, not us.
				w.log.Warn().Err(err).Msg("notification channel lost")
				w.markBrokenLocked()
			}
			w.mu.Unlock()
			return
		}
	}
}

// pingLoop keeps intermediaries from idling the connection out.
func (w *WebsocketChannel) pingLoop(conn *websocket.Conn, done chan struct{}) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			w.mu.Lock()
			if w.conn != conn {
				w.mu.Unlock()
				return
			}
			err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeTimeout))
			w.mu.Unlock()
			if err != nil {
				return
			}
		}
	}
}
