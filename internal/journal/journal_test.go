package journal

import (
	"errors"
	"io"
	"os"
	"testing"
)

func TestWriteRead(t *testing.T) {
	dir := t.TempDir()
	w, err := Create(dir, "match-1")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	lines := []struct {
		dir, line string
	}{
		{In, `{"unitInformation":[]}`},
		{In, `{"turnInfo":[0,0,-1]}`},
		{Out, `[["FF",0,13]]`},
		{Out, `[]`},
		{In, `not json at all`},
	}
	for _, l := range lines {
		if err := w.Record(l.dir, []byte(l.line)); err != nil {
			t.Fatalf("record: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := w.Record(In, []byte("late")); err == nil {
		t.Error("expected error recording to a closed journal")
	}

	r, err := Open(Path(dir, "match-1"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer r.Close()

	for i, want := range lines {
		e, err := r.Next()
		if err != nil {
			t.Fatalf("entry %d: %v", i, err)
		}
		if e.Seq != i || e.Dir != want.dir || e.Line != want.line {
			t.Errorf("entry %d: expected %d %s %q, got %d %s %q", i, i, want.dir, want.line, e.Seq, e.Dir, e.Line)
		}
		if e.At.IsZero() {
			t.Errorf("entry %d: expected a timestamp", i)
		}
	}
	if _, err := r.Next(); !errors.Is(err, io.EOF) {
		t.Errorf("expected io.EOF, got %v", err)
	}
}

func TestFileIsCompressed(t *testing.T) {
	dir := t.TempDir()
	w, err := Create(dir, "m")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	line := make([]byte, 4096)
	for i := range line {
		line[i] = 'a'
	}
	for i := 0; i < 20; i++ {
		if err := w.Record(In, line); err != nil {
			t.Fatalf("record: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	info, err := os.Stat(w.Path())
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Size() >= int64(len(line)) {
		t.Errorf("expected compressed output, got %d bytes", info.Size())
	}
}

func TestOpen_Missing(t *testing.T) {
	if _, err := Open(Path(t.TempDir(), "nope")); err == nil {
		t.Error("expected error for a missing journal")
	}
}

func TestRecord_FlushesOnOutgoing(t *testing.T) {
	w, err := Create(t.TempDir(), "m")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	defer w.Close()

	size := func() int64 {
		info, err := os.Stat(w.Path())
		if err != nil {
			t.Fatalf("stat: %v", err)
		}
		return info.Size()
	}
	if err := w.Record(In, []byte(`{"turnInfo":[0,0,-1,0]}`)); err != nil {
		t.Fatalf("record: %v", err)
	}
	if got := size(); got != 0 {
		t.Errorf("expected incoming lines buffered, file has %d bytes", got)
	}
	if err := w.Record(Out, []byte(`[]`)); err != nil {
		t.Fatalf("record: %v", err)
	}
	if got := size(); got == 0 {
		t.Error("expected an outgoing line to reach the file")
	}
}
