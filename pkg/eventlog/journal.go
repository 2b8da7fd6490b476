package eventlog

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/klauspost/compress/zstd"

	"github.com/msmobility/silo-sub013/pkg/relocation"
)

// Entry is one line of a journal: either a move or the summary of the year
// the preceding moves belong to.
type Entry struct {
	Kind string                `json:"kind"` // "move" or "year"
	Move *relocation.MoveEvent `json:"move,omitempty"`
	Year *YearRow              `json:"year,omitempty"`
}

// Journal appends relocation results to a zstd-compressed JSONL file.
type Journal struct {
	mu  sync.Mutex
	f   *os.File
	enc *zstd.Encoder
	w   *bufio.Writer
}

var _ relocation.EventSink = (*Journal)(nil)

// CreateJournal creates (or truncates) the journal at path.
func CreateJournal(path string) (*Journal, error) {
	if path == "" {
		return nil, fmt.Errorf("empty journal path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	return &Journal{f: f, enc: enc, w: bufio.NewWriterSize(enc, 128*1024)}, nil
}

// RecordYear writes the year's moves followed by its summary line.
func (j *Journal) RecordYear(_ context.Context, r *relocation.YearReport) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.w == nil {
		return fmt.Errorf("journal is closed")
	}

	for i := range r.Moves {
		if err := j.writeLocked(Entry{Kind: "move", Move: &r.Moves[i]}); err != nil {
			return err
		}
	}
	row := yearRow(r)
	if err := j.writeLocked(Entry{Kind: "year", Year: &row}); err != nil {
		return err
	}
	return j.w.Flush()
}

func (j *Journal) writeLocked(e Entry) error {
	b, err := json.Marshal(e)
	if err != nil {
		return err
	}
	if _, err := j.w.Write(b); err != nil {
		return err
	}
	return j.w.WriteByte('\n')
}

// Close flushes the compressed stream and closes the file.
func (j *Journal) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.w == nil {
		return nil
	}
	flushErr := j.w.Flush()
	encErr := j.enc.Close()
	fileErr := j.f.Close()
	j.w, j.enc, j.f = nil, nil, nil
	return errors.Join(flushErr, encErr, fileErr)
}

// ReadJournal calls fn for every entry of the journal at path, in order.
func ReadJournal(path string, fn func(Entry) error) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return err
	}
	defer dec.Close()

	jd := json.NewDecoder(bufio.NewReader(dec))
	for {
		var e Entry
		if err := jd.Decode(&e); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("reading journal: %w", err)
		}
		if err := fn(e); err != nil {
			return err
		}
	}
}

// Multi fans a year out to several sinks. Nil sinks are skipped; the first
// error stops the fan-out.
func Multi(sinks ...relocation.EventSink) relocation.EventSink {
	var live multiSink
	for _, s := range sinks {
		if s != nil {
			live = append(live, s)
		}
	}
	switch len(live) {
	case 0:
		return nil
	case 1:
		return live[0]
	}
	return live
}

type multiSink []relocation.EventSink

func (m multiSink) RecordYear(ctx context.Context, r *relocation.YearReport) error {
	for _, s := range m {
		if err := s.RecordYear(ctx, r); err != nil {
			return err
		}
	}
	return nil
}
