package csvresult

import (
	"bytes"
	"errors"
)

var (
	errNilWriter       = errors.New("csvresult: writer is nil")
	errWriterFinalized = errors.New("csvresult: writer already finalized")
	errLateHeader      = errors.New("csvresult: header must be written before any row")
)

type writerState uint8

const (
	stateEmpty writerState = iota
	stateHeaderWritten
	stateRowsWritten
	stateFinalized
)

// Writer accumulates encoded lines in memory. The line terminator is written
// between lines only, so the finished buffer never ends with it.
type Writer struct {
	dialect Dialect
	buf     bytes.Buffer
	line    []byte
	state   writerState
}

// NewWriter creates a Writer using a copy of d. A nil dialect means defaults.
func NewWriter(d *Dialect) *Writer {
	if d == nil {
		d = DefaultDialect()
	}
	return &Writer{dialect: *d}
}

// WriteHeader emits names as the first line. It must precede every Write.
func (w *Writer) WriteHeader(names []string) error {
	if w == nil {
		return errNilWriter
	}
	switch w.state {
	case stateFinalized:
		return errWriterFinalized
	case stateHeaderWritten, stateRowsWritten:
		return errLateHeader
	}
	w.writeLine(names)
	w.state = stateHeaderWritten
	return nil
}

// Write emits a single record, preceded by the line terminator when a header
// or a prior row has been written. Empty lines still count as lines.
func (w *Writer) Write(record []string) error {
	if w == nil {
		return errNilWriter
	}
	if w.state == stateFinalized {
		return errWriterFinalized
	}
	w.writeLine(record)
	w.state = stateRowsWritten
	return nil
}

// WriteAll writes multiple records, stopping at the first error.
func (w *Writer) WriteAll(records [][]string) error {
	if w == nil {
		return errNilWriter
	}
	for _, record := range records {
		if err := w.Write(record); err != nil {
			return err
		}
	}
	return nil
}

// Len reports the number of bytes written so far.
func (w *Writer) Len() int {
	if w == nil {
		return 0
	}
	return w.buf.Len()
}

// Finalize closes the writer and hands over the buffer. Later writes fail.
func (w *Writer) Finalize() ([]byte, error) {
	if w == nil {
		return nil, errNilWriter
	}
	if w.state == stateFinalized {
		return nil, errWriterFinalized
	}
	w.state = stateFinalized
	out := w.buf.Bytes()
	w.buf = bytes.Buffer{}
	w.line = nil
	return out, nil
}

func (w *Writer) writeLine(values []string) {
	if w.state != stateEmpty {
		w.buf.WriteString(w.dialect.lineTerminator)
	}
	w.line = appendRow(w.line[:0], values, &w.dialect)
	w.buf.Write(w.line)
}
