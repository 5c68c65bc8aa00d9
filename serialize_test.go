package csvresult

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type person struct {
	FirstName string
	Surname   string
	Height    float64
}

type nullableBook struct {
	Title     *string
	PageCount int
}

func fakePeople() []person {
	return []person{
		{FirstName: "Paul", Surname: "Beare", Height: 1.82},
		{FirstName: "Joseph", Surname: "Adjare", Height: 1.88},
		{FirstName: "Andy", Surname: "Lovett", Height: 1.84},
	}
}

func TestSerializeScenarios(t *testing.T) {
	t.Parallel()

	t.Run("rowsWithoutHeaders", func(t *testing.T) {
		res, err := Serialize([]book{{"A", 1}, {"B", 2}}, WithHeaders(false))
		require.NoError(t, err)
		assert.Equal(t, "A,1\r\nB,2", res.String())
	})

	t.Run("emptyStructuredEmitsHeaderOnly", func(t *testing.T) {
		res, err := Serialize([]book{})
		require.NoError(t, err)
		assert.Equal(t, "Title,PageCount", res.String())
	})

	t.Run("nilStructuredEmitsHeaderOnly", func(t *testing.T) {
		res, err := Serialize[book](nil)
		require.NoError(t, err)
		assert.Equal(t, "Title,PageCount", res.String())
	})

	t.Run("singleDynamicRecord", func(t *testing.T) {
		res, err := Serialize([]Fields{{{"ColumnA", "Egg"}}})
		require.NoError(t, err)
		assert.Equal(t, "ColumnA\r\nEgg", res.String())
	})

	t.Run("peopleWithHeaders", func(t *testing.T) {
		res, err := Serialize(fakePeople())
		require.NoError(t, err)
		assert.Equal(t, "FirstName,Surname,Height\r\nPaul,Beare,1.82\r\nJoseph,Adjare,1.88\r\nAndy,Lovett,1.84", res.String())
	})

	t.Run("privateDataOmitted", func(t *testing.T) {
		res, err := Serialize([]account{{FirstName: "Paul", Surname: "Beare", password: "password123", Height: 1.82, PasswordHint: "pets"}})
		require.NoError(t, err)
		assert.Equal(t, "FirstName,Surname,Height\r\nPaul,Beare,1.82", res.String())
		assert.NotContains(t, res.String(), "password123")
	})

	t.Run("spacedQuotedSemicolon", func(t *testing.T) {
		res, err := Serialize([]book{{`The "Best" Book`, 320}},
			WithDelimiter(";"),
			WithLineTerminator("\n"),
			WithSpacedHeaderWords(true),
			WithQuoteAll(true),
		)
		require.NoError(t, err)
		assert.Equal(t, "\"Title\";\"Page Count\"\n\"The \"\"Best\"\" Book\";\"320\"", res.String())
	})

	t.Run("dynamicEmptyHasNoBytes", func(t *testing.T) {
		res, err := Serialize([]Fields{})
		require.NoError(t, err)
		assert.Zero(t, res.Len())
	})

	t.Run("nilPointerRecordIsEmptyRow", func(t *testing.T) {
		res, err := Serialize([]*book{{"A", 1}, nil, {"C", 3}}, WithHeaders(false))
		require.NoError(t, err)
		assert.Equal(t, "A,1\r\n,\r\nC,3", res.String())
	})
}

func TestSerializeMetadata(t *testing.T) {
	t.Parallel()

	res, err := Serialize(fakePeople(), WithContentType("text/csv"), WithFileDownloadName("people.csv"))
	require.NoError(t, err)
	assert.Equal(t, "text/csv", res.ContentType)
	assert.Equal(t, "people.csv", res.FileDownloadName)

	res, err = Serialize(fakePeople())
	require.NoError(t, err)
	assert.Equal(t, "application/octet-stream", res.ContentType)
	assert.Equal(t, "", res.FileDownloadName)
}

func TestSerializeFunc(t *testing.T) {
	t.Parallel()

	res, err := SerializeFunc([]book{{"A", 1}}, func(d *Dialect) error {
		d.SetEmitHeaders(false)
		d.SetDelimiter("|")
		return d.SetContentType("text/plain")
	})
	require.NoError(t, err)
	assert.Equal(t, "A|1", res.String())
	assert.Equal(t, "text/plain", res.ContentType)

	res, err = SerializeFunc([]book{{"A", 1}}, nil)
	require.NoError(t, err)
	assert.Equal(t, "Title,PageCount\r\nA,1", res.String())

	res, err = SerializeFunc([]book{{"A", 1}}, func(d *Dialect) error {
		return d.SetContentType("csv")
	})
	require.ErrorIs(t, err, ErrInvalidConfiguration)
	assert.Nil(t, res)
}

func TestSerializeDialect(t *testing.T) {
	t.Parallel()

	res, err := SerializeDialect([]book{{"A", 1}}, nil)
	require.NoError(t, err)
	assert.Equal(t, "Title,PageCount\r\nA,1", res.String())

	d := DefaultDialect()
	d.SetLineTerminator("\n")
	res, err = SerializeDialect([]book{{"A", 1}}, d)
	require.NoError(t, err)
	assert.Equal(t, "Title,PageCount\nA,1", res.String())
}

func TestSerializeMissingFieldIsFatal(t *testing.T) {
	t.Parallel()

	records := []Fields{
		{{"A", 1}, {"B", 2}},
		{{"A", 3}, {"B", 4}},
		{{"A", 5}},
	}
	res, err := Serialize(records)
	require.ErrorIs(t, err, ErrMissingField)
	assert.Nil(t, res)

	var rerr *RecordError
	require.True(t, errors.As(err, &rerr))
	assert.Equal(t, 2, rerr.Row)
	assert.Equal(t, "B", rerr.Column)
	assert.Equal(t, `csvresult: record 2, column "B": csvresult: missing field`, err.Error())
}

func TestSerializeUnsupportedShape(t *testing.T) {
	t.Parallel()

	_, err := Serialize([]int{1, 2})
	require.ErrorIs(t, err, ErrUnsupportedShape)

	_, err = Serialize([]any{book{"A", 1}, "stray"})
	require.ErrorIs(t, err, ErrUnsupportedShape)
	var rerr *RecordError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, 1, rerr.Row)

	res, err := Serialize([]any{})
	require.NoError(t, err)
	assert.Zero(t, res.Len())
}

func TestHeaderOnlyOnEmptyInput(t *testing.T) {
	t.Parallel()

	for _, d := range sampleDialects(t) {
		if !d.EmitHeaders() {
			continue
		}
		res, err := SerializeDialect([]book{}, d)
		require.NoError(t, err)
		assert.Equal(t, string(EncodeRow(mustColumns(t, d), d)), res.String())
		if d.LineTerminator() != "" {
			assert.NotContains(t, res.String(), d.LineTerminator())
		}
	}
}

func TestZeroBytesWithoutHeaders(t *testing.T) {
	t.Parallel()

	for _, d := range sampleDialects(t) {
		d.SetEmitHeaders(false)
		res, err := SerializeDialect([]book{}, d)
		require.NoError(t, err)
		assert.Zero(t, res.Len())

		res, err = SerializeDialect([]Fields{}, d)
		require.NoError(t, err)
		assert.Zero(t, res.Len())
	}
}

func TestRowCountAndNoTrailingTerminator(t *testing.T) {
	t.Parallel()

	people := fakePeople()
	for _, d := range sampleDialects(t) {
		if d.LineTerminator() == "" {
			continue
		}
		res, err := SerializeDialect(people, d)
		require.NoError(t, err)
		assert.False(t, strings.HasSuffix(res.String(), d.LineTerminator()))

		d.SetEmitHeaders(false)
		res, err = SerializeDialect(people, d)
		require.NoError(t, err)
		assert.Len(t, strings.Split(res.String(), d.LineTerminator()), len(people))
	}
}

func TestNullValuesAreEmpty(t *testing.T) {
	t.Parallel()

	res, err := Serialize([]nullableBook{{Title: nil, PageCount: 7}})
	require.NoError(t, err)
	assert.Equal(t, "Title,PageCount\r\n,7", res.String())
	assert.NotContains(t, res.String(), "null")
	assert.NotContains(t, res.String(), "nil")

	res, err = Serialize([]Fields{{{"Title", nil}, {"PageCount", 7}}}, WithQuoteAll(true))
	require.NoError(t, err)
	assert.Equal(t, "\"Title\",\"PageCount\"\r\n\"\",\"7\"", res.String())
}

func TestDynamicStructuredParity(t *testing.T) {
	t.Parallel()

	books := []book{{"A", 1}, {`B "2"`, 2}}
	dynamic := []Fields{
		{{"Title", "A"}, {"PageCount", 1}},
		{{"Title", `B "2"`}, {"PageCount", 2}},
	}
	maps := []map[string]any{
		{"PageCount": 1, "Title": "A"},
		{"PageCount": 2, "Title": `B "2"`},
	}

	for _, d := range sampleDialects(t) {
		structured, err := SerializeDialect(books, d)
		require.NoError(t, err)
		fromFields, err := SerializeDialect(dynamic, d)
		require.NoError(t, err)
		assert.Equal(t, structured.Bytes(), fromFields.Bytes())

		fromAny, err := SerializeDialect([]any{dynamic[0], dynamic[1]}, d)
		require.NoError(t, err)
		assert.Equal(t, structured.Bytes(), fromAny.Bytes())

		// map keys sort as PageCount, Title
		fromMaps, err := SerializeDialect(maps, d)
		require.NoError(t, err)
		reordered, err := SerializeDialect([]Fields{
			{{"PageCount", 1}, {"Title", "A"}},
			{{"PageCount", 2}, {"Title", `B "2"`}},
		}, d)
		require.NoError(t, err)
		assert.Equal(t, reordered.Bytes(), fromMaps.Bytes())
	}
}

func TestSerializeCopiesDialect(t *testing.T) {
	t.Parallel()

	d := DefaultDialect()
	res, err := SerializeDialect([]book{{"A", 1}}, d)
	require.NoError(t, err)
	d.SetDelimiter(";")
	assert.Equal(t, "Title,PageCount\r\nA,1", res.String())
}

func TestSerializeConcurrentSharedDialect(t *testing.T) {
	t.Parallel()

	d, err := NewDialect(WithDelimiter(";"), WithQuoteAll(true))
	require.NoError(t, err)
	want, err := SerializeDialect(fakePeople(), d)
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([][]byte, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res, err := SerializeDialect(fakePeople(), d)
			if err == nil {
				results[i] = res.Bytes()
			}
		}(i)
	}
	wg.Wait()

	for _, got := range results {
		assert.Equal(t, want.Bytes(), got)
	}
}

func TestResultAccessors(t *testing.T) {
	t.Parallel()

	res, err := Serialize([]book{{"A", 1}})
	require.NoError(t, err)

	data, err := io.ReadAll(res.Reader())
	require.NoError(t, err)
	assert.Equal(t, res.Bytes(), data)

	var buf bytes.Buffer
	n, err := res.WriteTo(&buf)
	require.NoError(t, err)
	assert.EqualValues(t, res.Len(), n)
	assert.Equal(t, res.String(), buf.String())
}

func sampleDialects(t *testing.T) []*Dialect {
	t.Helper()

	opts := [][]Option{
		nil,
		{WithHeaders(false)},
		{WithDelimiter(";"), WithLineTerminator("\n")},
		{WithDelimiter("\t"), WithQuoteAll(true)},
		{WithSpacedHeaderWords(true), WithQuoteWhenNeeded(true)},
		{WithDelimiter("||"), WithLineTerminator("<br>"), WithQuoteAll(true)},
		{WithDelimiter(""), WithLineTerminator("")},
	}
	dialects := make([]*Dialect, 0, len(opts))
	for _, o := range opts {
		d, err := NewDialect(o...)
		require.NoError(t, err)
		dialects = append(dialects, d)
	}
	return dialects
}

func mustColumns(t *testing.T, d *Dialect) []string {
	t.Helper()

	names, err := Columns([]book{}, d)
	require.NoError(t, err)
	return names
}

type repeatedTag struct {
	First  int `csv:"X"`
	Second int `csv:"X"`
}

type hidden struct {
	secret string
}

func TestRepeatedColumnNames(t *testing.T) {
	t.Parallel()

	structured, err := Serialize([]repeatedTag{{1, 2}, {3, 4}})
	require.NoError(t, err)
	assert.Equal(t, "X,X\r\n1,2\r\n3,4", structured.String())

	dynamic, err := Serialize([]Fields{
		{{"X", 1}, {"X", 2}},
		{{"X", 3}, {"X", 4}},
	})
	require.NoError(t, err)
	assert.Equal(t, structured.Bytes(), dynamic.Bytes())

	_, err = Serialize([]Fields{
		{{"X", 1}, {"X", 2}},
		{{"X", 3}},
	})
	require.ErrorIs(t, err, ErrMissingField)
}

func TestNilDynamicPointers(t *testing.T) {
	t.Parallel()

	first := Fields{{"A", 1}, {"B", 2}}
	res, err := Serialize([]*Fields{&first, nil, &first})
	require.NoError(t, err)
	assert.Equal(t, "A,B\r\n1,2\r\n,\r\n1,2", res.String())

	res, err = Serialize([]*Fields{nil})
	require.ErrorIs(t, err, ErrUnsupportedShape)
	assert.Nil(t, res)

	res, err = Serialize([]Dynamic{first, nil})
	require.ErrorIs(t, err, ErrUnsupportedShape)
	assert.Nil(t, res)
}

func TestRecordsWithoutColumns(t *testing.T) {
	t.Parallel()

	res, err := Serialize([]hidden{{"a"}, {"b"}, {"c"}})
	require.ErrorIs(t, err, ErrUnsupportedShape)
	assert.Nil(t, res)

	res, err = Serialize([]Fields{{}, {}})
	require.ErrorIs(t, err, ErrUnsupportedShape)
	assert.Nil(t, res)

	res, err = Serialize([]hidden{})
	require.NoError(t, err)
	assert.Zero(t, res.Len())
}
