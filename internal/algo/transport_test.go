package algo

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func TestStdio(t *testing.T) {
	var out bytes.Buffer
	s := NewStdio(strings.NewReader("first\n\nsecond\n"), &out)
	ctx := context.Background()

	for _, want := range []string{"first", "second"} {
		msg, err := s.ReadMessage(ctx)
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		if string(msg) != want {
			t.Errorf("expected %q, got %q", want, msg)
		}
	}
	if _, err := s.ReadMessage(ctx); !errors.Is(err, io.EOF) {
		t.Errorf("expected io.EOF, got %v", err)
	}

	if err := s.WriteLine([]byte(`[["FF",0,13]]`)); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := s.WriteLine([]byte(`[]`)); err != nil {
		t.Fatalf("write: %v", err)
	}
	if got := out.String(); got != "[[\"FF\",0,13]]\n[]\n" {
		t.Errorf("unexpected output %q", got)
	}
}

func TestStdio_Canceled(t *testing.T) {
	r, w := io.Pipe()
	defer w.Close()
	s := NewStdio(r, io.Discard)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := s.ReadMessage(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline exceeded, got %v", err)
	}
}

func TestWebsocket(t *testing.T) {
	upgrader := websocket.Upgrader{}
	got := make(chan string, 4)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		conn.WriteMessage(websocket.TextMessage, []byte("{\"a\":1}\n{\"b\":2}\n"))
		for {
			_, msg, err := conn.ReadMessage()
			if err != nil {
				return
			}
			got <- string(msg)
		}
	}))
	defer srv.Close()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	ctx := context.Background()

	if _, err := DialWebsocket(ctx, url, "wrong"); err == nil {
		t.Fatal("expected dial to fail with a bad token")
	}

	ws, err := DialWebsocket(ctx, url, "tok")
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer ws.Close()

	for _, want := range []string{`{"a":1}`, `{"b":2}`} {
		msg, err := ws.ReadMessage(ctx)
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		if string(msg) != want {
			t.Errorf("expected %s, got %s", want, msg)
		}
	}

	if err := ws.WriteLine([]byte("[]")); err != nil {
		t.Fatalf("write: %v", err)
	}
	select {
	case msg := <-got:
		if msg != "[]" {
			t.Errorf("expected [], got %s", msg)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("server never received the line")
	}

	if err := ws.Close(); err != nil {
		t.Errorf("close: %v", err)
	}
	if err := ws.Close(); err != nil {
		t.Errorf("second close: %v", err)
	}
}

func wsServer(t *testing.T, handle func(conn *websocket.Conn)) string {
	t.Helper()
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		handle(conn)
	}))
	t.Cleanup(srv.Close)
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func TestWebsocket_DroppedLinkIsAnError(t *testing.T) {
	url := wsServer(t, func(conn *websocket.Conn) {
		conn.WriteMessage(websocket.TextMessage, []byte(`{"turnInfo":[1,0,1,0],"events":{"breach":[]}}`))
		conn.NetConn().Close()
	})
	ws, err := DialWebsocket(context.Background(), url, "")
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer ws.Close()

	err = New(funnelSelector()).Run(context.Background(), ws)
	if err == nil {
		t.Fatal("expected a dropped link to end Run with an error")
	}
	if errors.Is(err, io.EOF) {
		t.Errorf("expected a read failure, got a clean EOF: %v", err)
	}
}

func TestWebsocket_CloseFrameIsEOF(t *testing.T) {
	url := wsServer(t, func(conn *websocket.Conn) {
		conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, "match over"))
		conn.ReadMessage()
	})
	ws, err := DialWebsocket(context.Background(), url, "")
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer ws.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := ws.ReadMessage(ctx); !errors.Is(err, io.EOF) {
		t.Errorf("expected io.EOF, got %v", err)
	}
}

func TestWebsocket_CloseWithUnreadLines(t *testing.T) {
	burst := bytes.Repeat([]byte("{\"turnInfo\":[1,0,1,0]}\n"), 64)
	url := wsServer(t, func(conn *websocket.Conn) {
		conn.WriteMessage(websocket.TextMessage, burst)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	})
	ws, err := DialWebsocket(context.Background(), url, "")
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	// let the reader fill the inbox and block
	time.Sleep(50 * time.Millisecond)

	closed := make(chan error, 1)
	go func() { closed <- ws.Close() }()
	select {
	case <-closed:
	case <-time.After(2 * time.Second):
		t.Fatal("expected Close to return with the inbox full")
	}
}
