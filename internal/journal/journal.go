// Package journal records every engine message of a match to a
// zstd-compressed JSONL file so the match can be replayed offline.
package journal

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/klauspost/compress/zstd"
)

// Directions of a journaled line.
const (
	In  = "in"
	Out = "out"
)

// Entry is one journaled engine line.
type Entry struct {
	Seq  int       `json:"seq"`
	At   time.Time `json:"at"`
	Dir  string    `json:"dir"`
	Line string    `json:"line"`
}

// Path returns the journal file for a match under dir.
func Path(dir, matchID string) string {
	return filepath.Join(dir, matchID+".jsonl.zst")
}

// Writer appends entries to one match journal.
type Writer struct {
	mu   sync.Mutex
	seq  int
	f    *os.File
	enc  *zstd.Encoder
	w    *bufio.Writer
	path string
}

// Create opens a new journal for matchID under dir, replacing any earlier one.
func Create(dir, matchID string) (*Writer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create journal dir: %w", err)
	}
	path := Path(dir, matchID)
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create journal: %w", err)
	}
	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("create journal encoder: %w", err)
	}
	return &Writer{f: f, enc: enc, w: bufio.NewWriterSize(enc, 64*1024), path: path}, nil
}

// Path is where the journal is written.
func (w *Writer) Path() string { return w.path }

// Record appends one line. Outgoing lines end a turn, so they also flush the
// compressed stream to the file; incoming lines stay buffered.
func (w *Writer) Record(dir string, line []byte) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.w == nil {
		return errors.New("journal closed")
	}

	b, err := json.Marshal(Entry{Seq: w.seq, At: time.Now().UTC(), Dir: dir, Line: string(line)})
	if err != nil {
		return fmt.Errorf("encode journal entry: %w", err)
	}
	w.seq++
	if _, err := w.w.Write(b); err != nil {
		return fmt.Errorf("write journal: %w", err)
	}
	if err := w.w.WriteByte('\n'); err != nil {
		return fmt.Errorf("write journal: %w", err)
	}
	if dir != Out {
		return nil
	}
	return w.flush()
}

// Flush pushes everything recorded so far to the file.
func (w *Writer) Flush() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.w == nil {
		return errors.New("journal closed")
	}
	return w.flush()
}

func (w *Writer) flush() error {
	if err := w.w.Flush(); err != nil {
		return fmt.Errorf("flush journal: %w", err)
	}
	if err := w.enc.Flush(); err != nil {
		return fmt.Errorf("flush journal: %w", err)
	}
	return nil
}

// Close flushes the compressed stream and closes the file.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.w == nil {
		return nil
	}
	_ = w.w.Flush()
	err := w.enc.Close()
	if cerr := w.f.Close(); err == nil {
		err = cerr
	}
	w.w, w.enc, w.f = nil, nil, nil
	if err != nil {
		return fmt.Errorf("close journal: %w", err)
	}
	return nil
}

// Reader iterates over a journal written by Writer.
type Reader struct {
	f   *os.File
	dec *zstd.Decoder
	sc  *bufio.Scanner
}

// Open opens a journal file for reading.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	dec, err := zstd.NewReader(f)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("open journal decoder: %w", err)
	}
	sc := bufio.NewScanner(dec)
	sc.Buffer(make([]byte, 0, 64*1024), 8*1024*1024)
	return &Reader{f: f, dec: dec, sc: sc}, nil
}

// Next returns the next entry, or io.EOF after the last one.
func (r *Reader) Next() (Entry, error) {
	for r.sc.Scan() {
		raw := r.sc.Bytes()
		if len(raw) == 0 {
			continue
		}
		var e Entry
		if err := json.Unmarshal(raw, &e); err != nil {
			return Entry{}, fmt.Errorf("decode journal entry: %w", err)
		}
		return e, nil
	}
	if err := r.sc.Err(); err != nil {
		return Entry{}, fmt.Errorf("read journal: %w", err)
	}
	return Entry{}, io.EOF
}

// Close releases the decoder and the file.
func (r *Reader) Close() error {
	r.dec.Close()
	return r.f.Close()
}
