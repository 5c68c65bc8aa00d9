package csvresult

import (
	"reflect"
	"slices"
	"sort"
	"strings"
	"unicode"
)

// Dynamic is a record whose fields are discovered at run time.
// Keys reports the field names in output order; Lookup fetches a value by name.
type Dynamic interface {
	Keys() []string
	Lookup(name string) (any, bool)
}

// Field is one named value of a Fields record.
type Field struct {
	Name  string
	Value any
}

// Fields is an ordered Dynamic record.
type Fields []Field

// Keys returns the field names in insertion order.
func (f Fields) Keys() []string {
	keys := make([]string, len(f))
	for i := range f {
		keys[i] = f[i].Name
	}
	return keys
}

// Lookup returns the value of the first field called name.
func (f Fields) Lookup(name string) (any, bool) {
	for i := range f {
		if f[i].Name == name {
			return f[i].Value, true
		}
	}
	return nil, false
}

// LookupNth returns the value of the n-th (zero-based) field called name.
func (f Fields) LookupNth(name string, n int) (any, bool) {
	for i := range f {
		if f[i].Name != name {
			continue
		}
		if n == 0 {
			return f[i].Value, true
		}
		n--
	}
	return nil, false
}

// nthLookuper is implemented by dynamic records that may repeat a name.
type nthLookuper interface {
	LookupNth(name string, n int) (any, bool)
}

// mapRecord adapts a map with string keys. Keys are sorted because map
// iteration order is random.
type mapRecord struct {
	v reflect.Value
}

func (m mapRecord) Keys() []string {
	keys := make([]string, 0, m.v.Len())
	iter := m.v.MapRange()
	for iter.Next() {
		keys = append(keys, iter.Key().String())
	}
	sort.Strings(keys)
	return keys
}

func (m mapRecord) Lookup(name string) (any, bool) {
	v := m.v.MapIndex(reflect.ValueOf(name).Convert(m.v.Type().Key()))
	if !v.IsValid() {
		return nil, false
	}
	return v.Interface(), true
}

var dynamicType = reflect.TypeOf((*Dynamic)(nil)).Elem()

type shape uint8

const (
	shapeEmpty shape = iota
	shapeStructured
	shapeDynamic
)

type column struct {
	name  string
	key   string
	nth   int
	index []int
}

// schema is the column list of one call, resolved once from the element
// type or from the first record.
type schema struct {
	shape      shape
	structType reflect.Type
	columns    []column
}

func resolveSchema[T any](records []T) (*schema, error) {
	t := reflect.TypeOf((*T)(nil)).Elem()
	if t.Kind() == reflect.Interface && !t.Implements(dynamicType) {
		if len(records) == 0 {
			return &schema{shape: shapeEmpty}, nil
		}
		t = reflect.TypeOf(any(records[0]))
		if t == nil {
			return nil, &RecordError{Row: 0, Err: ErrUnsupportedShape}
		}
	}

	if isDynamicType(t) {
		if len(records) == 0 {
			return &schema{shape: shapeEmpty}, nil
		}
		first, ok := asDynamic(any(records[0]))
		if !ok {
			return nil, &RecordError{Row: 0, Err: ErrUnsupportedShape}
		}
		keys := first.Keys()
		cols := make([]column, len(keys))
		seen := make(map[string]int, len(keys))
		for i, k := range keys {
			cols[i] = column{name: k, key: k, nth: seen[k]}
			seen[k]++
		}
		return &schema{shape: shapeDynamic, columns: cols}, nil
	}

	st := t
	if st.Kind() == reflect.Pointer {
		st = st.Elem()
	}
	if st.Kind() != reflect.Struct {
		return nil, &RecordError{Row: 0, Err: ErrUnsupportedShape}
	}
	return &schema{shape: shapeStructured, structType: st, columns: structColumns(st)}, nil
}

func isDynamicType(t reflect.Type) bool {
	if t.Implements(dynamicType) {
		return true
	}
	return t.Kind() == reflect.Map && t.Key().Kind() == reflect.String
}

// asDynamic reports false for nil pointers so value-receiver methods are
// never called through them.
func asDynamic(record any) (Dynamic, bool) {
	if isNilPointer(record) {
		return nil, false
	}
	if d, ok := record.(Dynamic); ok {
		return d, true
	}
	rv := reflect.ValueOf(record)
	if rv.Kind() == reflect.Map && rv.Type().Key().Kind() == reflect.String {
		return mapRecord{v: rv}, true
	}
	return nil, false
}

func isNilPointer(record any) bool {
	rv := reflect.ValueOf(record)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}

// structColumns lists exported fields in declaration order. Fields promoted
// from embedded structs take the place of the embedded field.
func structColumns(t reflect.Type) []column {
	var (
		cols    []column
		skipped [][]int
	)
	for _, f := range reflect.VisibleFields(t) {
		if hasPrefix(f.Index, skipped) {
			continue
		}
		name, _, _ := strings.Cut(f.Tag.Get("csv"), ",")
		if name == "-" {
			skipped = append(skipped, f.Index)
			continue
		}
		if f.Anonymous {
			ft := f.Type
			if ft.Kind() == reflect.Pointer {
				ft = ft.Elem()
			}
			if ft.Kind() == reflect.Struct {
				continue
			}
		}
		if !f.IsExported() {
			continue
		}
		if name == "" {
			name = f.Name
		}
		cols = append(cols, column{name: name, index: f.Index})
	}
	return cols
}

func hasPrefix(index []int, prefixes [][]int) bool {
	for _, p := range prefixes {
		if len(p) < len(index) && slices.Equal(index[:len(p)], p) {
			return true
		}
	}
	return false
}

// headers returns the column names, spaced out when the dialect asks for it.
func (s *schema) headers(d *Dialect) []string {
	names := make([]string, len(s.columns))
	for i, c := range s.columns {
		if d.spaceOutHeaderWords {
			names[i] = spaceOutWords(c.name)
		} else {
			names[i] = c.name
		}
	}
	return names
}

// values extracts the column values of record into dst.
func (s *schema) values(row int, record any, dst []any) error {
	switch s.shape {
	case shapeStructured:
		rv := reflect.ValueOf(record)
		if !rv.IsValid() {
			return &RecordError{Row: row, Err: ErrUnsupportedShape}
		}
		if rv.Kind() == reflect.Pointer {
			if rv.IsNil() {
				clear(dst)
				return nil
			}
			rv = rv.Elem()
		}
		if rv.Type() != s.structType {
			return &RecordError{Row: row, Err: ErrUnsupportedShape}
		}
		for i, c := range s.columns {
			f, err := rv.FieldByIndexErr(c.index)
			if err != nil {
				// nil embedded pointer
				dst[i] = nil
				continue
			}
			dst[i] = f.Interface()
		}
	case shapeDynamic:
		if isNilPointer(record) {
			clear(dst)
			return nil
		}
		dyn, ok := asDynamic(record)
		if !ok {
			return &RecordError{Row: row, Err: ErrUnsupportedShape}
		}
		nth, hasNth := dyn.(nthLookuper)
		for i, c := range s.columns {
			var (
				v  any
				ok bool
			)
			if hasNth {
				v, ok = nth.LookupNth(c.key, c.nth)
			} else {
				v, ok = dyn.Lookup(c.key)
			}
			if !ok {
				return &RecordError{Row: row, Column: c.key, Err: ErrMissingField}
			}
			dst[i] = v
		}
	}
	return nil
}

func spaceOutWords(name string) string {
	var b strings.Builder
	b.Grow(len(name) + 4)
	for i, r := range name {
		if i > 0 && unicode.IsUpper(r) {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	return strings.TrimSpace(b.String())
}
