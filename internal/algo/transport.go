package algo

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"sync"
)

// LineWriter sends one protocol line to the engine.
type LineWriter interface {
	WriteLine(line []byte) error
}

// Transport carries engine messages in both directions. ReadMessage returns
// io.EOF once the engine is gone.
type Transport interface {
	LineWriter
	ReadMessage(ctx context.Context) ([]byte, error)
	Close() error
}

type inbound struct {
	msg []byte
	err error
}

// maxMessage bounds one engine line; late-game turn snapshots run to a few
// hundred kilobytes.
const maxMessage = 8 * 1024 * 1024

// Stdio speaks the line protocol over a reader and writer, normally the
// process's stdin and stdout.
type Stdio struct {
	inbox chan inbound
	done  chan struct{}

	mu     sync.Mutex
	w      *bufio.Writer
	closed bool
}

// NewStdio starts reading lines from r. Writes go to w and are flushed per
// line.
func NewStdio(r io.Reader, w io.Writer) *Stdio {
	s := &Stdio{inbox: make(chan inbound, 16), done: make(chan struct{}), w: bufio.NewWriter(w)}
	go s.readLoop(r)
	return s
}

func (s *Stdio) readLoop(r io.Reader) {
	defer close(s.inbox)
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxMessage)
	for sc.Scan() {
		line := sc.Bytes()
		if len(line) == 0 {
			continue
		}
		if !deliver(s.inbox, s.done, inbound{msg: append([]byte(nil), line...)}) {
			return
		}
	}
	if err := sc.Err(); err != nil {
		deliver(s.inbox, s.done, inbound{err: fmt.Errorf("read stdin: %w", err)})
	}
}

// ReadMessage waits for the next line.
func (s *Stdio) ReadMessage(ctx context.Context) ([]byte, error) {
	return receive(ctx, s.inbox)
}

// WriteLine writes line plus a newline and flushes.
func (s *Stdio) WriteLine(line []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.w.Write(line); err != nil {
		return fmt.Errorf("write line: %w", err)
	}
	if err := s.w.WriteByte('\n'); err != nil {
		return fmt.Errorf("write line: %w", err)
	}
	return s.w.Flush()
}

// Close flushes pending output and stops handing lines to ReadMessage. A
// read already blocked on the underlying reader is left to the process.
func (s *Stdio) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.closed = true
		close(s.done)
	}
	return s.w.Flush()
}

// deliver hands in to the reader side, giving up once done is closed.
func deliver(inbox chan<- inbound, done <-chan struct{}, in inbound) bool {
	select {
	case inbox <- in:
		return true
	case <-done:
		return false
	}
}

func receive(ctx context.Context, inbox <-chan inbound) ([]byte, error) {
	select {
	case in, ok := <-inbox:
		if !ok {
			return nil, io.EOF
		}
		return in.msg, in.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
