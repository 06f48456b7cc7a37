package algo

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// Websocket speaks the line protocol over a websocket: every text frame from
// the engine carries one or more lines, and every line we send is its own
// frame.
type Websocket struct {
	conn    *websocket.Conn
	inbox   chan inbound
	done    chan struct{}
	stopped chan struct{}

	mu     sync.Mutex
	closed bool
}

// DialWebsocket connects to a remote engine, presenting token as a bearer
// credential when it is not empty.
func DialWebsocket(ctx context.Context, url, token string) (*Websocket, error) {
	header := http.Header{}
	if token != "" {
		header.Set("Authorization", "Bearer "+token)
	}
	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second, ReadBufferSize: 64 * 1024}
	conn, resp, err := dialer.DialContext(ctx, url, header)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("ws dial: %w (status %d)", err, resp.StatusCode)
		}
		return nil, fmt.Errorf("ws dial: %w", err)
	}
	conn.SetReadLimit(maxMessage)
	return newWebsocket(conn), nil
}

func newWebsocket(conn *websocket.Conn) *Websocket {
	w := &Websocket{
		conn:    conn,
		inbox:   make(chan inbound, 16),
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
	go w.readLoop()
	return w
}

// readLoop feeds the inbox until the link drops. A close frame from the
// engine ends the stream cleanly; any other read failure is handed to
// ReadMessage as an error.
func (w *Websocket) readLoop() {
	defer close(w.stopped)
	defer close(w.inbox)
	for {
		_, msg, err := w.conn.ReadMessage()
		if err != nil {
			select {
			case <-w.done:
				return
			default:
			}
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Debug().Msg("Engine closed the websocket")
				return
			}
			deliver(w.inbox, w.done, inbound{err: fmt.Errorf("ws read: %w", err)})
			return
		}
		for _, line := range bytes.Split(msg, []byte{'\n'}) {
			line = bytes.TrimSpace(line)
			if len(line) == 0 {
				continue
			}
			if !deliver(w.inbox, w.done, inbound{msg: line}) {
				return
			}
		}
	}
}

// ReadMessage waits for the next engine line.
func (w *Websocket) ReadMessage(ctx context.Context) ([]byte, error) {
	return receive(ctx, w.inbox)
}

// WriteLine sends line as one text frame.
func (w *Websocket) WriteLine(line []byte) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.conn.WriteMessage(websocket.TextMessage, line); err != nil {
		return fmt.Errorf("ws write: %w", err)
	}
	return nil
}

// Close sends a close frame, closes the connection and waits for the reader
// goroutine to exit.
func (w *Websocket) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil
	}
	w.closed = true
	close(w.done)
	w.conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	err := w.conn.Close()
	<-w.stopped
	return err
}
