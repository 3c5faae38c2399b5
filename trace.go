package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/gocarina/gocsv"

	"ripplewatch/ripple"
)

// traceRecord is one CSV row per rendered frame.
type traceRecord struct {
	TimeMs    int64   `csv:"time_ms"`
	State     string  `csv:"state"`
	Frame     int     `csv:"frame"`
	Scale     float32 `csv:"scale"`
	Peak      float32 `csv:"peak"`
	Next      int     `csv:"next"`
	Active    int     `csv:"active"`
	Rollovers int     `csv:"rollovers"`
	Steps     int     `csv:"steps"`
	Clamped   int     `csv:"clamped"`
}

// traceWriter streams trace rows; the header is written with the first row.
type traceWriter struct {
	w             io.Writer
	closer        io.Closer
	start         time.Time
	headerWritten bool
}

func newTraceWriter(path string) (*traceWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating trace file: %w", err)
	}
	return &traceWriter{w: f, closer: f}, nil
}

// Record appends one row. Times are milliseconds since the first row.
func (t *traceWriter) Record(now time.Time, frame ripple.Frame, snap ripple.Snapshot) error {
	if t.start.IsZero() {
		t.start = now
	}
	rec := traceRecord{
		TimeMs:    now.Sub(t.start).Milliseconds(),
		State:     frame.State.String(),
		Frame:     frame.Index,
		Scale:     frame.Scale,
		Next:      snap.NextIndex,
		Active:    snap.Active,
		Rollovers: snap.Rollovers,
		Steps:     snap.Steps,
		Clamped:   snap.Clamped,
	}
	if frame.Field != nil {
		rec.Peak = frame.Field.PeakMagnitude()
	}

	rows := []traceRecord{rec}
	var err error
	if t.headerWritten {
		err = gocsv.MarshalWithoutHeaders(&rows, t.w)
	} else {
		err = gocsv.Marshal(&rows, t.w)
		t.headerWritten = err == nil
	}
	if err != nil {
		return fmt.Errorf("writing trace row: %w", err)
	}
	return nil
}

func (t *traceWriter) Close() error {
	if t == nil || t.closer == nil {
		return nil
	}
	return t.closer.Close()
}
