package eventlog

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/msmobility/silo-sub013/pkg/relocation"
)

func TestJournalRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "moves.jsonl.zst")
	j, err := CreateJournal(path)
	if err != nil {
		t.Fatalf("CreateJournal: %v", err)
	}
	ctx := context.Background()
	for _, year := range []int{2030, 2031} {
		if err := j.RecordYear(ctx, sampleReport(year)); err != nil {
			t.Fatalf("RecordYear(%d): %v", year, err)
		}
	}
	if err := j.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := j.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}

	var kinds []string
	var years []YearRow
	err = ReadJournal(path, func(e Entry) error {
		kinds = append(kinds, e.Kind)
		if e.Kind == "year" {
			years = append(years, *e.Year)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("ReadJournal: %v", err)
	}

	want := []string{"move", "move", "year", "move", "move", "year"}
	if len(kinds) != len(want) {
		t.Fatalf("entries = %v, want %v", kinds, want)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Fatalf("entries = %v, want %v", kinds, want)
		}
	}
	if years[1].Year != 2031 || years[1].Moved != 2 || len(years[1].Satisfaction) != 2 {
		t.Errorf("second year row = %+v", years[1])
	}
}

func TestJournalRejectsWritesAfterClose(t *testing.T) {
	j, err := CreateJournal(filepath.Join(t.TempDir(), "moves.jsonl.zst"))
	if err != nil {
		t.Fatal(err)
	}
	_ = j.Close()
	if err := j.RecordYear(context.Background(), sampleReport(2030)); err == nil {
		t.Error("expected error writing to a closed journal")
	}
}

func TestReadJournalStopsOnCallbackError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "moves.jsonl.zst")
	j, _ := CreateJournal(path)
	_ = j.RecordYear(context.Background(), sampleReport(2030))
	_ = j.Close()

	stop := errors.New("stop")
	calls := 0
	err := ReadJournal(path, func(Entry) error {
		calls++
		return stop
	})
	if !errors.Is(err, stop) || calls != 1 {
		t.Errorf("ReadJournal = %v after %d calls", err, calls)
	}
}

type countingSink struct {
	years []int
	err   error
}

func (c *countingSink) RecordYear(_ context.Context, r *relocation.YearReport) error {
	c.years = append(c.years, r.Year)
	return c.err
}

func TestMulti(t *testing.T) {
	if Multi(nil, nil) != nil {
		t.Error("Multi of nil sinks should be nil")
	}
	only := &countingSink{}
	if Multi(nil, only) != relocation.EventSink(only) {
		t.Error("Multi of one sink should return it unchanged")
	}

	a, b := &countingSink{}, &countingSink{}
	if err := Multi(a, b).RecordYear(context.Background(), sampleReport(2030)); err != nil {
		t.Fatalf("RecordYear: %v", err)
	}
	if len(a.years) != 1 || len(b.years) != 1 {
		t.Errorf("fan-out reached %d and %d sinks", len(a.years), len(b.years))
	}

	failing := &countingSink{err: errors.New("disk full")}
	c := &countingSink{}
	if err := Multi(failing, c).RecordYear(context.Background(), sampleReport(2031)); err == nil {
		t.Error("expected the first sink's error")
	}
	if len(c.years) != 0 {
		t.Error("fan-out continued past a failing sink")
	}
}
