package pipe80_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sw-comp-history/pipe80"
)

func TestFromText_PadsShortInput(t *testing.T) {
	r := pipe80.FromText("SMITH")

	require.Len(t, r.String(), pipe80.Width)
	require.Equal(t, "SMITH", r.String()[:5])
	require.Equal(t, strings.Repeat(" ", 75), r.String()[5:])
}

func TestFromText_TruncatesOverWidthInput(t *testing.T) {
	long := strings.Repeat("A", 79) + "BCDE"

	r := pipe80.FromText(long)

	require.Len(t, r.String(), pipe80.Width)
	require.Equal(t, long[:pipe80.Width], r.String())
	require.Equal(t, byte('B'), r.String()[79])
}

func TestFromText_EmptyInput(t *testing.T) {
	r := pipe80.FromText("")
	require.Equal(t, strings.Repeat(" ", pipe80.Width), r.String())
	require.Equal(t, "", r.Text())
}

func TestRecord_Text_TrimsTrailingPadding(t *testing.T) {
	r := pipe80.FromText("SMITH   JOHN")
	require.Equal(t, "SMITH   JOHN", r.Text())
}

func TestRecord_Field(t *testing.T) {
	r := pipe80.FromText("SMITH   JOHN      SALES     00050000")

	tests := []struct {
		name     string
		pos, len int
		expected string
	}{
		{name: "first field", pos: 0, len: 8, expected: "SMITH   "},
		{name: "middle field", pos: 18, len: 10, expected: "SALES     "},
		{name: "last byte", pos: 79, len: 1, expected: " "},
		{name: "padding region", pos: 40, len: 4, expected: "    "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.Field(tt.pos, tt.len)
			require.NoError(t, err)
			require.Equal(t, tt.expected, got)
		})
	}
}

func TestRecord_Field_RangeErrors(t *testing.T) {
	r := pipe80.FromText("SMITH")

	tests := []struct {
		name     string
		pos, len int
	}{
		{name: "past end", pos: 76, len: 5},
		{name: "way past end", pos: 80, len: 1},
		{name: "negative position", pos: -1, len: 5},
		{name: "negative length", pos: 0, len: -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.Field(tt.pos, tt.len)
			require.Error(t, err)

			var rangeErr *pipe80.FieldRangeError
			require.ErrorAs(t, err, &rangeErr)
		})
	}
}

func TestRecord_FieldEq(t *testing.T) {
	r := pipe80.FromText("SMITH   JOHN      SALES     00050000")

	tests := []struct {
		name     string
		pos, len int
		value    string
		expected bool
	}{
		{name: "value padded to field width", pos: 18, len: 10, value: "SALES", expected: true},
		{name: "exact match", pos: 28, len: 8, value: "00050000", expected: true},
		{name: "mismatch", pos: 18, len: 10, value: "ENGINEER", expected: false},
		{name: "case sensitive", pos: 18, len: 10, value: "sales", expected: false},
		{name: "over-long value truncated", pos: 0, len: 3, value: "SMITHSONIAN", expected: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.FieldEq(tt.pos, tt.len, tt.value)
			require.NoError(t, err)
			require.Equal(t, tt.expected, got)
		})
	}
}

func TestRecord_FieldEq_RangeError(t *testing.T) {
	r := pipe80.FromText("SMITH")
	_, err := r.FieldEq(75, 10, "X")

	var rangeErr *pipe80.FieldRangeError
	require.ErrorAs(t, err, &rangeErr)
	require.Equal(t, 75, rangeErr.Pos)
	require.Equal(t, 10, rangeErr.Len)
}

func TestRecord_FieldContains(t *testing.T) {
	r := pipe80.FromText("JONES   MARY      ENGINEER  00075000")

	got, err := r.FieldContains(18, 10, "GINE")
	require.NoError(t, err)
	require.True(t, got)

	got, err = r.FieldContains(0, 8, "GINE")
	require.NoError(t, err)
	require.False(t, got)
}

func TestRecord_Contains(t *testing.T) {
	r := pipe80.FromText("JONES   MARY      ENGINEER  00075000")
	require.True(t, r.Contains("ENGINEER"))
	require.False(t, r.Contains("SALES"))
}

func TestRecord_WithField(t *testing.T) {
	r := pipe80.FromText("SMITH   JOHN")

	out, err := r.WithField(8, 10, "JANE")
	require.NoError(t, err)
	require.Equal(t, "SMITH   JANE", out.Text())

	// The receiver is untouched.
	require.Equal(t, "SMITH   JOHN", r.Text())
}

func TestRecord_WithField_RangeError(t *testing.T) {
	r := pipe80.FromText("SMITH")
	_, err := r.WithField(78, 5, "X")

	var rangeErr *pipe80.FieldRangeError
	require.ErrorAs(t, err, &rangeErr)
}

func TestParseRecords_SkipsEmptyLines(t *testing.T) {
	records := pipe80.ParseRecords("A\n\nB\n\n\nC\n")
	require.Len(t, records, 3)
	require.Equal(t, "A", records[0].Text())
	require.Equal(t, "C", records[2].Text())
}

func TestFormatRecords(t *testing.T) {
	records := []pipe80.Record{pipe80.FromText("A"), pipe80.FromText("B")}
	require.Equal(t, "A\nB", pipe80.FormatRecords(records))
	require.Equal(t, "", pipe80.FormatRecords(nil))
}
