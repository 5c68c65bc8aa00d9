package csvresult

import (
	"fmt"
	"reflect"
	"strings"
)

const quote = '"'

// EncodeRow joins values with the dialect delimiter, quoting them as the
// dialect requires. No line terminator is appended.
func EncodeRow(values []string, d *Dialect) []byte {
	if d == nil {
		d = DefaultDialect()
	}
	return appendRow(nil, values, d)
}

func appendRow(dst []byte, values []string, d *Dialect) []byte {
	for i := range values {
		if i > 0 {
			dst = append(dst, d.delimiter...)
		}
		dst = appendField(dst, values[i], d)
	}
	return dst
}

func appendField(dst []byte, field string, d *Dialect) []byte {
	needsQuote := d.quoteAllValues
	if !needsQuote && d.quoteWhenNeeded {
		needsQuote = fieldNeedsQuote(field, d.delimiter)
	}
	if !needsQuote {
		return append(dst, field...)
	}

	dst = append(dst, quote)
	start := 0
	for i := 0; i < len(field); i++ {
		if field[i] == quote {
			dst = append(dst, field[start:i]...)
			dst = append(dst, quote, quote)
			start = i + 1
		}
	}
	dst = append(dst, field[start:]...)
	return append(dst, quote)
}

func fieldNeedsQuote(field, delimiter string) bool {
	if delimiter != "" && strings.Contains(field, delimiter) {
		return true
	}
	for i := 0; i < len(field); i++ {
		switch field[i] {
		case quote, '\n', '\r':
			return true
		}
	}
	return false
}

// displayString renders a value for output. Nil values, nil pointers and
// nil maps or slices render as the empty string.
func displayString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case []byte:
		return string(x)
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Map, reflect.Slice, reflect.Chan, reflect.Func:
		if rv.IsNil() {
			return ""
		}
	case reflect.Pointer:
		if rv.IsNil() {
			return ""
		}
		if s, ok := v.(fmt.Stringer); ok {
			return s.String()
		}
		return displayString(rv.Elem().Interface())
	}
	return fmt.Sprint(v)
}
