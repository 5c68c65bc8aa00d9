package csvresult

import "strings"

const (
	defaultDelimiter      = ","
	defaultLineTerminator = "\r\n"
	defaultContentType    = "application/octet-stream"
)

// Dialect holds the formatting choices for one serialization call.
// The zero value is not usable; start from DefaultDialect or NewDialect.
//
// A Dialect is copied when a call starts, so it may be reused and read from
// several goroutines once configured. Mutating it concurrently is not safe.
type Dialect struct {
	delimiter        string
	lineTerminator   string
	contentType      string
	fileDownloadName string

	emitHeaders         bool
	spaceOutHeaderWords bool
	quoteAllValues      bool
	quoteWhenNeeded     bool
}

// DefaultDialect returns a comma-separated, CRLF-terminated dialect that
// emits a header row and never quotes.
func DefaultDialect() *Dialect {
	return &Dialect{
		delimiter:      defaultDelimiter,
		lineTerminator: defaultLineTerminator,
		contentType:    defaultContentType,
		emitHeaders:    true,
	}
}

// Option mutates a Dialect, reporting a *ConfigError for rejected values.
type Option func(*Dialect) error

// NewDialect applies opts to DefaultDialect in order, stopping at the first error.
func NewDialect(opts ...Option) (*Dialect, error) {
	d := DefaultDialect()
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(d); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// Delimiter returns the string written between values.
func (d *Dialect) Delimiter() string { return d.delimiter }

// LineTerminator returns the string written between lines.
func (d *Dialect) LineTerminator() string { return d.lineTerminator }

// ContentType returns the media type reported with the result.
func (d *Dialect) ContentType() string { return d.contentType }

// FileDownloadName returns the suggested file name reported with the result.
func (d *Dialect) FileDownloadName() string { return d.fileDownloadName }

// EmitHeaders reports whether column names are written as the first line.
func (d *Dialect) EmitHeaders() bool { return d.emitHeaders }

// SpaceOutHeaderWords reports whether header names are split at capital letters.
func (d *Dialect) SpaceOutHeaderWords() bool { return d.spaceOutHeaderWords }

// QuoteAllValues reports whether every value and header is quoted.
func (d *Dialect) QuoteAllValues() bool { return d.quoteAllValues }

// QuoteWhenNeeded reports whether values holding the delimiter, a quote, CR or LF are quoted.
func (d *Dialect) QuoteWhenNeeded() bool { return d.quoteWhenNeeded }

// SetDelimiter sets the value separator. An empty delimiter is allowed and
// concatenates values.
func (d *Dialect) SetDelimiter(delimiter string) {
	d.delimiter = delimiter
}

// SetLineTerminator sets the line separator. An empty terminator is allowed.
func (d *Dialect) SetLineTerminator(terminator string) {
	d.lineTerminator = terminator
}

// SetContentType sets the media type. It must be a two-part type/subtype
// identifier such as "text/csv".
func (d *Dialect) SetContentType(contentType string) error {
	parts := strings.Split(contentType, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return &ConfigError{
			Field:  "ContentType",
			Value:  contentType,
			Reason: "must be a two-part type/subtype identifier, e.g. application/octet-stream",
		}
	}
	d.contentType = contentType
	return nil
}

// SetFileDownloadName sets the suggested file name.
func (d *Dialect) SetFileDownloadName(name string) { d.fileDownloadName = name }

// SetEmitHeaders toggles the header line.
func (d *Dialect) SetEmitHeaders(on bool) { d.emitHeaders = on }

// SetSpaceOutHeaderWords toggles header word spacing ("PageCount" becomes "Page Count").
func (d *Dialect) SetSpaceOutHeaderWords(on bool) { d.spaceOutHeaderWords = on }

// SetQuoteAllValues toggles forced quoting.
func (d *Dialect) SetQuoteAllValues(on bool) { d.quoteAllValues = on }

// SetQuoteWhenNeeded toggles as-needed quoting. QuoteAllValues takes precedence.
func (d *Dialect) SetQuoteWhenNeeded(on bool) { d.quoteWhenNeeded = on }

// WithDelimiter sets the value separator.
func WithDelimiter(delimiter string) Option {
	return func(d *Dialect) error {
		d.SetDelimiter(delimiter)
		return nil
	}
}

// WithLineTerminator sets the line separator.
func WithLineTerminator(terminator string) Option {
	return func(d *Dialect) error {
		d.SetLineTerminator(terminator)
		return nil
	}
}

// WithContentType sets and validates the media type.
func WithContentType(contentType string) Option {
	return func(d *Dialect) error {
		return d.SetContentType(contentType)
	}
}

// WithFileDownloadName sets the suggested file name.
func WithFileDownloadName(name string) Option {
	return func(d *Dialect) error {
		d.SetFileDownloadName(name)
		return nil
	}
}

// WithHeaders toggles the header line.
func WithHeaders(on bool) Option {
	return func(d *Dialect) error {
		d.SetEmitHeaders(on)
		return nil
	}
}

// WithSpacedHeaderWords toggles header word spacing.
func WithSpacedHeaderWords(on bool) Option {
	return func(d *Dialect) error {
		d.SetSpaceOutHeaderWords(on)
		return nil
	}
}

// WithQuoteAll toggles forced quoting.
func WithQuoteAll(on bool) Option {
	return func(d *Dialect) error {
		d.SetQuoteAllValues(on)
		return nil
	}
}

// WithQuoteWhenNeeded toggles as-needed quoting.
func WithQuoteWhenNeeded(on bool) Option {
	return func(d *Dialect) error {
		d.SetQuoteWhenNeeded(on)
		return nil
	}
}
