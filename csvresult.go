// # CSVResult: Delimited-Text Export for In-Memory Collections
//
// CSVResult turns an ordered slice of records into a complete delimited-text buffer (CSV by default) together with the content type and download name a transport layer needs to hand it to a client.
//
// # Features
//
// - Schema discovery from struct types (exported fields, `csv` tags) or from the first dynamic record (`Fields`, `map[string]V`, or any `Dynamic`).
// - Configurable `Dialect`: delimiter, line terminator, header emission, header word spacing, forced or as-needed quoting.
// - The line terminator separates lines and never trails the buffer; an empty input with headers enabled yields the header alone.
// - Structured error reporting via `ConfigError`, `RecordError`, `ErrInvalidConfiguration`, `ErrMissingField`, and `ErrUnsupportedShape`.
// - YAML dialect documents (`ParseDialect`, `LoadDialect`) and an HTTP download adapter in `httpresult`.
//
// # Getting Started
//
//	res, err := csvresult.Serialize(books, csvresult.WithFileDownloadName("books.csv"))
//	if err != nil {
//		return err
//	}
//	_, err = res.WriteTo(w)
//
// Each call builds its own buffer and copies its dialect, so concurrent calls need no coordination.
package csvresult
