package csvresult

import (
	"bytes"
	"io"
)

// Result is a finished buffer plus the metadata a transport needs to
// deliver it as a download.
type Result struct {
	ContentType      string
	FileDownloadName string

	data []byte
}

// Bytes returns the encoded buffer. The caller must not modify it.
func (r *Result) Bytes() []byte { return r.data }

// String returns the encoded buffer as a string.
func (r *Result) String() string { return string(r.data) }

// Len returns the number of encoded bytes.
func (r *Result) Len() int { return len(r.data) }

// Reader returns a reader positioned at the start of the buffer.
func (r *Result) Reader() *bytes.Reader { return bytes.NewReader(r.data) }

// WriteTo writes the buffer to w.
func (r *Result) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(r.data)
	return int64(n), err
}

// Serialize encodes records with the default dialect modified by opts.
func Serialize[T any](records []T, opts ...Option) (*Result, error) {
	d, err := NewDialect(opts...)
	if err != nil {
		return nil, err
	}
	return serialize(records, d)
}

// SerializeFunc encodes records with the default dialect after passing it to
// configure. A nil configure leaves the defaults untouched.
func SerializeFunc[T any](records []T, configure func(*Dialect) error) (*Result, error) {
	d := DefaultDialect()
	if configure != nil {
		if err := configure(d); err != nil {
			return nil, err
		}
	}
	return serialize(records, d)
}

// SerializeDialect encodes records with a pre-built dialect. A nil dialect
// means defaults.
func SerializeDialect[T any](records []T, d *Dialect) (*Result, error) {
	if d == nil {
		d = DefaultDialect()
	}
	return serialize(records, d)
}

// Columns returns the header names records would be written with. The
// names are spaced out when the dialect asks for it.
func Columns[T any](records []T, d *Dialect) ([]string, error) {
	if d == nil {
		d = DefaultDialect()
	}
	s, err := resolveSchema(records)
	if err != nil {
		return nil, err
	}
	return s.headers(d), nil
}

func serialize[T any](records []T, dialect *Dialect) (*Result, error) {
	d := *dialect
	s, err := resolveSchema(records)
	if err != nil {
		return nil, err
	}
	if len(s.columns) == 0 && len(records) > 0 {
		// rows without columns cannot be told apart from separators
		return nil, &RecordError{Row: 0, Err: ErrUnsupportedShape}
	}

	w := NewWriter(&d)
	if d.emitHeaders && len(s.columns) > 0 {
		if err := w.WriteHeader(s.headers(&d)); err != nil {
			return nil, err
		}
	}

	values := make([]any, len(s.columns))
	fields := make([]string, len(s.columns))
	for i := range records {
		if err := s.values(i, any(records[i]), values); err != nil {
			return nil, err
		}
		for j, v := range values {
			fields[j] = displayString(v)
		}
		if err := w.Write(fields); err != nil {
			return nil, err
		}
	}

	data, err := w.Finalize()
	if err != nil {
		return nil, err
	}
	return &Result{
		ContentType:      d.contentType,
		FileDownloadName: d.fileDownloadName,
		data:             data,
	}, nil
}
